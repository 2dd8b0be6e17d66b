// Package normalize cleans one raw submission row into a model.Submission.
// The transform is pure: placeholder sentinels become empty values, fields
// compared case-insensitively downstream are case-folded, and numeric-looking
// fields are coerced with a null fallback. It never fails; unparseable values
// are treated as "not provided".
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alum-office/crmsync-cli/internal/model"
)

// RawSubmission is one unprocessed row as ingested from the responses file.
// All fields are strings exactly as they appeared in the source cells.
type RawSubmission struct {
	ID            string
	ConstituentID string
	Source        string

	Email1, Email2, Email3 string
	Phone1, Phone2, Phone3 string

	Organization string
	Position     string
	StartDate    string
	EndDate      string

	AddressLines string
	City         string
	State        string
	Country      string
	PostalCode   string

	ClassOf    string
	Degree     string
	Department string
	Hostel     string

	FullName string
	LinkedIn string

	IsEvent   string
	EventDate string
}

var spaceRun = regexp.MustCompile(`\s+`)

// dateLayouts are tried in order when parsing submitted dates.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
	"01-02-06 15:04:05",
	"1/2/06 15:04",
}

// Submission converts a raw row into its normalized form.
func Submission(raw RawSubmission) model.Submission {
	sub := model.Submission{
		ID:            strings.TrimSpace(raw.ID),
		ConstituentID: strings.TrimSpace(raw.ConstituentID),
		Source:        Scrub(raw.Source),
	}

	for _, e := range []string{raw.Email1, raw.Email2, raw.Email3} {
		if v := strings.ToLower(Scrub(e)); v != "" {
			sub.Emails = append(sub.Emails, v)
		}
	}
	for _, p := range []string{raw.Phone1, raw.Phone2, raw.Phone3} {
		if v := Scrub(p); v != "" {
			sub.Phones = append(sub.Phones, v)
		}
	}

	sub.Employment = model.Employment{
		Organization: Scrub(raw.Organization),
		Position:     Scrub(raw.Position),
		Start:        fuzzyDate(raw.StartDate),
		End:          fuzzyDate(raw.EndDate),
	}

	sub.Address = model.Address{
		Lines:      CollapseSpace(Scrub(raw.AddressLines)),
		City:       Scrub(raw.City),
		State:      Scrub(raw.State),
		Country:    Scrub(raw.Country),
		PostalCode: Int(raw.PostalCode),
	}

	sub.Education = model.Education{
		ClassOf:    Int(raw.ClassOf),
		Degree:     Scrub(raw.Degree),
		Department: Scrub(raw.Department),
		Hostel:     scrubHostel(raw.Hostel),
	}

	sub.FullName = CollapseSpace(Scrub(raw.FullName))
	sub.LinkedIn = Scrub(raw.LinkedIn)

	sub.IsEvent = strings.EqualFold(strings.TrimSpace(raw.IsEvent), "yes")
	if t, ok := parseDate(raw.EventDate); ok {
		sub.EventDate = &t
	}

	return sub
}

// Scrub trims the value and replaces the placeholder sentinels "0", "NA" and
// "Other" (case-insensitive) with the empty string. Non-breaking spaces left
// behind by spreadsheet exports are removed.
func Scrub(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSpace(s)
	switch {
	case s == "0", s == "0.0":
		return ""
	case strings.EqualFold(s, "na"), strings.EqualFold(s, "other"):
		return ""
	}
	return s
}

// CollapseSpace replaces line breaks and tabs with ", " and collapses runs
// of spaces, matching how remote addresses are normalized for comparison.
func CollapseSpace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", ", ")
	s = strings.ReplaceAll(s, "\n", ", ")
	s = strings.ReplaceAll(s, "\t", ", ")
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// Int coerces a numeric-looking cell to an integer, tolerating the float
// formatting spreadsheets apply ("2005.0"). Coercion failure yields 0.
func Int(s string) int {
	s = Scrub(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// scrubHostel additionally strips the bracket/quote artifacts multi-select
// form fields wrap their value in.
func scrubHostel(s string) string {
	s = strings.NewReplacer("[", "", "]", "", `"`, "").Replace(s)
	return Scrub(s)
}

func fuzzyDate(s string) model.FuzzyDate {
	t, ok := parseDate(s)
	if !ok {
		return model.FuzzyDate{}
	}
	return model.FuzzyDate{Day: t.Day(), Month: int(t.Month()), Year: t.Year()}
}

func parseDate(s string) (time.Time, bool) {
	s = Scrub(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
