// Package ingest reads form responses from spreadsheet files and maps
// them by header name into raw submissions, so column order in the
// export does not matter.
package ingest

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/alum-office/crmsync-cli/internal/config"
	"github.com/alum-office/crmsync-cli/internal/model"
	"github.com/alum-office/crmsync-cli/internal/normalize"
)

// Column headers as the form export names them.
const (
	colID            = "ID"
	colConstituentID = "System Record ID"
	colSource        = "Enter the source of your data?"
	colEmail1        = "Email 1"
	colEmail2        = "Email 2"
	colEmail3        = "Email 3"
	colPhone1        = "Phone number 1"
	colPhone2        = "Phone number 2"
	colPhone3        = "Phone number 3"
	colOrganization  = "Organization Name"
	colPosition      = "Position"
	colStartDate     = "Start Date"
	colEndDate       = "End Date"
	colAddressLines  = "Address Lines"
	colCity          = "City"
	colState         = "State"
	colCountry       = "Country"
	colPostalCode    = "Postal Code"
	colClassOf       = "Class of"
	colDegree        = "Degree"
	colDepartment    = "Department"
	colHostel        = "Hostel"
	colFullName      = "Name2"
	colLinkedIn      = "LinkedIn"
	colIsEvent       = "Is an Event?"
	colEventDate     = "Event Date"
)

// Read loads the configured responses file, picking the parser from the
// file extension, and returns normalized submissions in file order.
func Read(cfg config.IngestConfig) ([]model.Submission, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(cfg.ResponsesPath)); ext {
	case ".xlsx":
		rows, err = ReadXLSX(cfg.ResponsesPath, cfg.SheetName)
	case ".csv":
		rows, err = ReadCSV(cfg.ResponsesPath)
	default:
		return nil, eris.Errorf("ingest: unsupported responses file type %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return Submissions(rows)
}

// Submissions maps header-plus-data rows into normalized submissions.
// The first row must be the header. Rows without a constituent id are
// skipped; they never matched a CRM record during form preparation.
func Submissions(rows [][]string) ([]model.Submission, error) {
	if len(rows) == 0 {
		return nil, eris.New("ingest: responses file has no header row")
	}

	index := headerIndex(rows[0])
	for _, required := range []string{colConstituentID, colSource} {
		if _, ok := index[required]; !ok {
			return nil, eris.Errorf("ingest: missing required column %q", required)
		}
	}

	var subs []model.Submission
	for _, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		if strings.TrimSpace(cell(colConstituentID)) == "" {
			continue
		}
		subs = append(subs, normalize.Submission(normalize.RawSubmission{
			ID:            cell(colID),
			ConstituentID: cell(colConstituentID),
			Source:        cell(colSource),
			Email1:        cell(colEmail1),
			Email2:        cell(colEmail2),
			Email3:        cell(colEmail3),
			Phone1:        cell(colPhone1),
			Phone2:        cell(colPhone2),
			Phone3:        cell(colPhone3),
			Organization:  cell(colOrganization),
			Position:      cell(colPosition),
			StartDate:     cell(colStartDate),
			EndDate:       cell(colEndDate),
			AddressLines:  cell(colAddressLines),
			City:          cell(colCity),
			State:         cell(colState),
			Country:       cell(colCountry),
			PostalCode:    cell(colPostalCode),
			ClassOf:       cell(colClassOf),
			Degree:        cell(colDegree),
			Department:    cell(colDepartment),
			Hostel:        cell(colHostel),
			FullName:      cell(colFullName),
			LinkedIn:      cell(colLinkedIn),
			IsEvent:       cell(colIsEvent),
			EventDate:     cell(colEventDate),
		}))
	}
	return subs, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	return index
}
