// internal/scripttmpl/template.go

// Package scripttmpl renders outreach scripts by literal substitution of a
// fixed set of placeholder tokens. Unknown tokens are left verbatim and no
// escaping is applied; downstream consumers (TwiML, email) escape for
// themselves.
package scripttmpl

import (
	"strings"

	"github.com/propreach/outreach-backend/internal/model"
)

// Render substitutes every occurrence of the four placeholder tokens.
func Render(template string, p model.Prospect, yourName, yourPhone string) string {
	fields := map[string]string{
		"firstName":       p.FirstName,
		"yourName":        yourName,
		"propertyAddress": p.PropertyAddress,
		"yourPhone":       yourPhone,
	}
	result := template
	for k, v := range fields {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}
