package handlers

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/membership-api/internal/httperr"
)

// Event dates without an explicit offset are read in the association timezone.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseEventTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, httperr.Validation("invalid_dates", "Dates must be ISO 8601 (YYYY-MM-DD or YYYY-MM-DDTHH:MM).")
}

func parseOptionalEventTime(value *string, loc *time.Location) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := parseEventTime(*value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseDay reads a YYYY-MM-DD filter; malformed values are ignored.
func parseDay(value string, loc *time.Location) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return nil
	}
	return &t
}
