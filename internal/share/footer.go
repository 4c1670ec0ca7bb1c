// Package share renders the footer appended to exported notes.
package share

import (
	"strings"
	"time"

	"github.com/synexim/linen/internal/models"
)

const timeLayout = "2006-01-02 15:04"

// Footer substitutes the {time} placeholder in the template with the
// formatted local timestamp.
func Footer(template string, millis int64) string {
	ts := time.UnixMilli(millis).Format(timeLayout)
	return strings.ReplaceAll(template, "{time}", ts)
}

// ForNote returns the footer for a note per the current settings, or empty
// when footers are disabled.
func ForNote(settings models.AppSettings, note models.Note) string {
	if !settings.ShareFooterEnabled {
		return ""
	}
	return Footer(settings.ShareFooterText, note.UpdatedAt)
}
