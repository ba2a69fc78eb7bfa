package resolve

import (
	"fmt"
	"strings"
)

// Note is the line appended to the description of an estimated release. raw is
// quoted as announced, without escaping
func Note(raw string) string {
	return fmt.Sprintf(`发售日估算自 "%s"`, raw)
}

// Annotate appends Note(raw) on its own line. A description that already ends
// with the note is returned unchanged, so repeated calls add it once
func Annotate(description, raw string) string {
	note := Note(raw)
	if strings.HasSuffix(description, note) {
		return description
	}
	if description == "" {
		return note
	}
	return description + "\n" + note
}
