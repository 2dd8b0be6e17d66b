package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrub(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"NA", ""},
		{"na", ""},
		{"Other", ""},
		{"other", ""},
		{"0", ""},
		{"0.0", ""},
		{"  spaced  ", "spaced"},
		{"Nagpur", "Nagpur"},
		{" ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Scrub(tt.in), "Scrub(%q)", tt.in)
	}
}

func TestInt(t *testing.T) {
	assert.Equal(t, 2005, Int("2005"))
	assert.Equal(t, 2005, Int("2005.0"))
	assert.Equal(t, 400076, Int(" 400076 "))
	assert.Equal(t, 0, Int("NA"))
	assert.Equal(t, 0, Int("not-a-number"))
	assert.Equal(t, 0, Int(""))
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "Flat 4, Hill Road", CollapseSpace("Flat 4\r\nHill Road"))
	assert.Equal(t, "a, b, c", CollapseSpace("a\nb\tc"))
	assert.Equal(t, "one two", CollapseSpace("one   two"))
}

func TestSubmission(t *testing.T) {
	raw := RawSubmission{
		ID:            "42",
		ConstituentID: "597736",
		Source:        "linkedin-export",
		Email1:        "First.Person@Example.COM",
		Email2:        "NA",
		Email3:        "",
		Phone1:        "+91 98765-43210",
		Phone2:        "0",
		Organization:  "Tata Consultancy Services",
		Position:      "Other",
		StartDate:     "2019-06-01",
		AddressLines:  "Flat 4\r\nHill Road",
		City:          "Mumbai",
		State:         "Maharashtra",
		Country:       "India",
		PostalCode:    "400076.0",
		ClassOf:       "2005.0",
		Degree:        "B.Tech.",
		Department:    "NA",
		Hostel:        `["H7"]`,
		FullName:      "Dr.  A P  Sharma",
		LinkedIn:      "https://www.linkedin.com/in/apsharma?utm=x",
		IsEvent:       "Yes",
		EventDate:     "2024-02-10",
	}

	sub := Submission(raw)

	assert.Equal(t, "42", sub.ID)
	assert.Equal(t, "597736", sub.ConstituentID)
	assert.Equal(t, []string{"first.person@example.com"}, sub.Emails)
	assert.Equal(t, []string{"+91 98765-43210"}, sub.Phones)
	assert.Equal(t, "Tata Consultancy Services", sub.Employment.Organization)
	assert.Empty(t, sub.Employment.Position)
	assert.Equal(t, 2019, sub.Employment.Start.Year)
	assert.Equal(t, 6, sub.Employment.Start.Month)
	assert.True(t, sub.Employment.End.IsZero())
	assert.Equal(t, "Flat 4, Hill Road", sub.Address.Lines)
	assert.Equal(t, 400076, sub.Address.PostalCode)
	assert.Equal(t, 2005, sub.Education.ClassOf)
	assert.Empty(t, sub.Education.Department)
	assert.Equal(t, "H7", sub.Education.Hostel)
	assert.Equal(t, "Dr. A P Sharma", sub.FullName)
	assert.True(t, sub.IsEvent)
	require.NotNil(t, sub.EventDate)
	assert.Equal(t, 2024, sub.EventDate.Year())
}

func TestSubmissionNeverPanicsOnGarbage(t *testing.T) {
	sub := Submission(RawSubmission{
		PostalCode: "garbage",
		ClassOf:    "Other",
		StartDate:  "not a date",
		EventDate:  "???",
	})
	assert.Zero(t, sub.Address.PostalCode)
	assert.Zero(t, sub.Education.ClassOf)
	assert.True(t, sub.Employment.Start.IsZero())
	assert.Nil(t, sub.EventDate)
}
