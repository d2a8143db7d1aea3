// internal/ingest/csv.go
package ingest

import "strings"

// splitCSVLine splits one CSV line into trimmed fields, honoring
// double-quote escaping: commas inside quotes do not split, and a doubled
// quote inside a quoted field yields a literal quote.
func splitCSVLine(line string) []string {
	values := []string{}
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++ // skip the escape quote
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			values = append(values, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	values = append(values, strings.TrimSpace(current.String()))
	return values
}
