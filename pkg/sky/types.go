package sky

// EmailAddress is one constituent e-mail address record.
type EmailAddress struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	Type    string `json:"type"`
	Primary bool   `json:"primary"`
}

// Phone is one constituent phone record.
type Phone struct {
	ID      string `json:"id"`
	Number  string `json:"number"`
	Type    string `json:"type"`
	Primary bool   `json:"primary"`
}

// Relationship is one constituent relationship record. Organization
// relationships carry the employer name and position.
type Relationship struct {
	ID                string `json:"id"`
	ConstituentID     string `json:"constituent_id"`
	RelationID        string `json:"relation_id"`
	Name              string `json:"name"`
	Position          string `json:"position"`
	Type              string `json:"type"`
	ReciprocalType    string `json:"reciprocal_type"`
	IsPrimaryBusiness bool   `json:"is_primary_business"`
}

// Address is one constituent address record.
type Address struct {
	ID               string `json:"id"`
	ConstituentID    string `json:"constituent_id"`
	FormattedAddress string `json:"formatted_address"`
	Preferred        bool   `json:"preferred"`
}

// Education is one constituent education record.
type Education struct {
	ID                 string   `json:"id"`
	ConstituentID      string   `json:"constituent_id"`
	School             string   `json:"school"`
	ClassOf            string   `json:"class_of"`
	Degree             string   `json:"degree"`
	Majors             []string `json:"majors"`
	SocialOrganization string   `json:"social_organization"`
}

// OnlinePresence is one constituent social/web link record.
type OnlinePresence struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	Type    string `json:"type"`
	Primary bool   `json:"primary"`
}

// Constituent holds the core name fields of a person record.
type Constituent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Title  string `json:"title"`
	First  string `json:"first"`
	Middle string `json:"middle"`
	Last   string `json:"last"`
}

// ConstituentCode is one constituent code assignment, used to detect
// recently created records.
type ConstituentCode struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	DateAdded   string `json:"date_added"`
}
