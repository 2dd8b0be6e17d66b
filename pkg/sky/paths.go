package sky

import "fmt"

// Collection endpoints for POSTing new values.
const (
	EmailAddressesPath  = "/constituent/v1/emailaddresses"
	PhonesPath          = "/constituent/v1/phones"
	RelationshipsPath   = "/constituent/v1/relationships"
	AddressesPath       = "/constituent/v1/addresses"
	EducationsPath      = "/constituent/v1/educations"
	OnlinePresencesPath = "/constituent/v1/onlinepresences"
	CustomFieldsPath    = "/constituent/v1/constituents/customfields"
)

// EmailAddressPath returns the PATCH endpoint for one e-mail address record.
func EmailAddressPath(id string) string {
	return fmt.Sprintf("%s/%s", EmailAddressesPath, id)
}

// PhonePath returns the PATCH endpoint for one phone record.
func PhonePath(id string) string {
	return fmt.Sprintf("%s/%s", PhonesPath, id)
}

// RelationshipPath returns the PATCH endpoint for one relationship record.
func RelationshipPath(id string) string {
	return fmt.Sprintf("%s/%s", RelationshipsPath, id)
}

// AddressPath returns the PATCH endpoint for one address record.
func AddressPath(id string) string {
	return fmt.Sprintf("%s/%s", AddressesPath, id)
}

// EducationPath returns the PATCH endpoint for one education record.
func EducationPath(id string) string {
	return fmt.Sprintf("%s/%s", EducationsPath, id)
}

// ConstituentPath returns the GET/PATCH endpoint for a constituent record.
func ConstituentPath(id string) string {
	return fmt.Sprintf("/constituent/v1/constituents/%s", id)
}

func constituentSubPath(id, sub string) string {
	return fmt.Sprintf("/constituent/v1/constituents/%s/%s", id, sub)
}
