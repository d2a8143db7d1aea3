// internal/model/prospect.go
package model

import "strings"

// Prospect is a property-owner contact parsed from an uploaded list.
// Prospects are never persisted; they live for the duration of a campaign run.
type Prospect struct {
	FirstName       string `json:"firstName"`
	PhoneNumber     string `json:"phoneNumber"`
	Email           string `json:"email"`
	PropertyAddress string `json:"propertyAddress"`
}

// Empty reports whether every field is blank after trimming.
func (p Prospect) Empty() bool {
	return strings.TrimSpace(p.FirstName) == "" &&
		strings.TrimSpace(p.PhoneNumber) == "" &&
		strings.TrimSpace(p.Email) == "" &&
		strings.TrimSpace(p.PropertyAddress) == ""
}
