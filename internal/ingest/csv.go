package ingest

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"
)

// ReadCSV reads a CSV file and returns all rows as string slices. Rows
// may have differing field counts; trailing missing cells read as empty.
func ReadCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "csv: open file")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "csv: read file")
	}
	return rows, nil
}
