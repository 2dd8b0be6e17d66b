// Package match implements the per-attribute matchers: pure functions that
// classify a submission's candidate values against the CRM's current values
// and decide what, if anything, should be written back.
package match

import (
	"time"

	"github.com/alum-office/crmsync-cli/internal/model"
)

// Status classifies the outcome of a matcher.
type Status string

const (
	// StatusNoNewValue means the submission carried nothing actionable
	// for this attribute category.
	StatusNoNewValue Status = "no_new_value"
	// StatusAlreadyPresent means every candidate value is already on
	// file; at most the primary/preferred flag needs updating.
	StatusAlreadyPresent Status = "already_present"
	// StatusMissing means at least one candidate value must be inserted.
	StatusMissing Status = "missing"
	// StatusEscalate means the remote state conflicts with the submission
	// in a way the rules cannot reconcile; a human gets notified and
	// nothing is written.
	StatusEscalate Status = "escalate"
)

// Category identifies the attribute category a decision applies to. The
// value doubles as the attribute label in provenance strings.
type Category string

const (
	CategoryEmail          Category = "Email"
	CategoryPhone          Category = "Phone"
	CategoryEmployment     Category = "Employment"
	CategoryAddress        Category = "Address"
	CategoryEducation      Category = "Education"
	CategoryName           Category = "Name"
	CategoryOnlinePresence Category = "Online Presence"
)

// Insert is one new value to POST to the CRM.
type Insert struct {
	// Fields is the write payload before the blank-field scrub and
	// before the constituent id is attached.
	Fields map[string]any
	// TagValue is recorded as the comment of the audit tag.
	TagValue string
	// Primary marks the insert that should carry the primary flag,
	// subject to the source being a verified one.
	Primary bool
}

// Update is an in-place patch of one existing CRM record.
type Update struct {
	// ID of the remote record to patch; empty means the constituent
	// record itself.
	ID     string
	Fields map[string]any
	// TagValue is the audit tag comment; empty suppresses the tag.
	TagValue string
}

// Conflict carries both data sets for human review when a matcher
// escalates instead of writing.
type Conflict struct {
	Reason    string
	Remote    any
	Submitted any
}

// NameChange describes an accepted identity change, for the advisory
// notification that accompanies every automatic name update.
type NameChange struct {
	Old string
	New string
}

// Decision is the output of a matcher. Invariants: Inserts is non-empty
// only when Status is StatusMissing; Primary is set only when Status is
// StatusAlreadyPresent; Conflict is set only when Status is StatusEscalate.
type Decision struct {
	Status   Status
	Category Category

	// Primary is the existing remote entry whose primary/preferred flag
	// should be set.
	Primary *model.RemoteValue

	Inserts  []Insert
	Update   *Update
	Conflict *Conflict

	// NameChange is set by the name matcher alongside an Update.
	NameChange *NameChange

	// Warnings are per-field data errors that degraded the decision
	// without failing the record (e.g. an unmapped degree).
	Warnings []string
}

// Config carries the matching policy: the named threshold table plus the
// institution-specific sets the matchers consult. The boundary convention
// is fixed: a score strictly above the threshold means already present.
type Config struct {
	PhoneThreshold        int
	RelationshipThreshold int
	AddressThreshold      int
	EducationMinYear      int

	SchoolName         string
	SchoolEmailDomains []string
	StatelessCountries []string

	// Now supplies the current time for year-range checks; nil means
	// time.Now.
	Now func() time.Time
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func noNewValue(cat Category) Decision {
	return Decision{Status: StatusNoNewValue, Category: cat}
}
