// Package vocab loads the controlled vocabulary mapping form-submitted
// degree names to their CRM-canonical form.
package vocab

import (
	"errors"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ErrUnmapped is returned when a submitted degree has no canonical mapping.
// It is a per-record data error for that field only, never a pipeline fault.
var ErrUnmapped = errors.New("vocab: degree not in vocabulary")

// Degrees is the lookup table from form degree to CRM-canonical degree.
type Degrees struct {
	byForm map[string]string
}

type degreesFile struct {
	Degrees map[string]string `yaml:"degrees"`
}

// LoadDegrees reads the vocabulary from a YAML file of the form:
//
//	degrees:
//	  "B.Tech.": "Bachelor of Technology"
func LoadDegrees(path string) (*Degrees, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "vocab: read %s", path)
	}

	var f degreesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "vocab: parse %s", path)
	}

	byForm := make(map[string]string, len(f.Degrees))
	for form, canonical := range f.Degrees {
		byForm[normalizeKey(form)] = canonical
	}
	return &Degrees{byForm: byForm}, nil
}

// NewDegrees builds a table from an in-memory map, for tests.
func NewDegrees(m map[string]string) *Degrees {
	byForm := make(map[string]string, len(m))
	for form, canonical := range m {
		byForm[normalizeKey(form)] = canonical
	}
	return &Degrees{byForm: byForm}
}

// Len reports the number of mapped degrees.
func (d *Degrees) Len() int {
	return len(d.byForm)
}

// Lookup translates a form-submitted degree to its canonical name.
func (d *Degrees) Lookup(formDegree string) (string, error) {
	if canonical, ok := d.byForm[normalizeKey(formDegree)]; ok {
		return canonical, nil
	}
	return "", eris.Wrapf(ErrUnmapped, "degree %q", formDegree)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
