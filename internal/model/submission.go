// Package model defines the data types shared across the reconciliation
// pipeline: incoming submissions, remote CRM values, ledger entries, and
// provenance tags.
package model

import "time"

// Submission is one externally supplied row of contact/bio updates for a
// single constituent. It is produced by the ingestion step, consumed exactly
// once by the batch runner, and retained afterwards only inside the ledger.
type Submission struct {
	// ID is the stable external identifier of the form response.
	ID string `json:"id"`
	// ConstituentID is the CRM system record id the row applies to.
	ConstituentID string `json:"constituent_id"`
	// Source is the self-reported provenance label ("source of data").
	Source string `json:"source"`

	Emails     []string   `json:"emails,omitempty"` // up to 3
	Phones     []string   `json:"phones,omitempty"` // up to 3
	Employment Employment `json:"employment"`
	Address    Address    `json:"address"`
	Education  Education  `json:"education"`
	FullName   string     `json:"full_name,omitempty"`
	LinkedIn   string     `json:"linkedin,omitempty"`

	IsEvent   bool       `json:"is_event,omitempty"`
	EventDate *time.Time `json:"event_date,omitempty"`
}

// Employment holds the submitted employer/position/date-range triple.
type Employment struct {
	Organization string    `json:"organization,omitempty"`
	Position     string    `json:"position,omitempty"`
	Start        FuzzyDate `json:"start"`
	End          FuzzyDate `json:"end"`
}

// FuzzyDate is a partially specified date as the CRM represents it.
// Zero components are omitted from write payloads.
type FuzzyDate struct {
	Day   int `json:"d,omitempty"`
	Month int `json:"m,omitempty"`
	Year  int `json:"y,omitempty"`
}

// IsZero reports whether no component of the date is set.
func (d FuzzyDate) IsZero() bool {
	return d.Day == 0 && d.Month == 0 && d.Year == 0
}

// Address holds one submitted postal address.
type Address struct {
	Lines      string `json:"lines,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode int    `json:"postal_code,omitempty"`
}

// Education holds the submitted education record for the managed school.
type Education struct {
	ClassOf    int    `json:"class_of,omitempty"`
	Degree     string `json:"degree,omitempty"`
	Department string `json:"department,omitempty"`
	Hostel     string `json:"hostel,omitempty"`
}

// RemoteValue is one entry of a RemoteAttributeSet: a current CRM value for
// a single attribute category, with its record id and primary flag.
type RemoteValue struct {
	ID      string `json:"id"`
	Value   string `json:"value"`
	Primary bool   `json:"primary"`
}

// RemoteAttributeSet is the CRM's current values for one constituent and
// one attribute category, in the order the API returned them. It is fetched
// fresh per record and never cached across records.
type RemoteAttributeSet []RemoteValue

// LedgerEntry records one processed submission.
type LedgerEntry struct {
	SubmissionID  string    `json:"submission_id"`
	ConstituentID string    `json:"constituent_id"`
	ProcessedAt   time.Time `json:"processed_at"`
}

// ProvenanceTag is an audit custom-field write recording why and how a value
// was written. Created once per accepted write, never updated or deleted.
type ProvenanceTag struct {
	Category string    `json:"category"` // "Sync source", "Verified Email", ...
	Value    string    `json:"value"`    // capped to 50 characters upstream
	Comment  string    `json:"comment"`
	Date     time.Time `json:"date"`
}
