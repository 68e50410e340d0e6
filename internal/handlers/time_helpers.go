package handlers

import (
	"strings"
	"time"

	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/timezone"
)

// parseWhen reads a date-time picker value in the marketplace timezone.
// An empty value yields the zero time so the use case reports it missing.
func parseWhen(field, value, tz string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := timezone.ParseLocal(value, tz)
	if err != nil {
		return time.Time{}, httperr.Invalid(field, "invalid", "Please select a valid date and time.")
	}
	return t, nil
}

// parseDay reads a YYYY-MM-DD filter bound in the marketplace timezone.
func parseDay(value, tz string) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02", value, timezone.Location(tz))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
