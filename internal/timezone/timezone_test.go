package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocationFallsBack(t *testing.T) {
	assert.Equal(t, "Europe/Paris", Location("Europe/Paris").String())
	assert.Equal(t, DefaultTimezone, Location("Mars/Olympus").String())
	assert.Equal(t, DefaultTimezone, Location("").String())
}

func TestFormatDateRange(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 12, 17, 0, 0, 0, time.UTC)

	assert.Equal(t, "10/03/2026 - 12/03/2026", FormatDateRange(start, end, "UTC"))
	assert.Equal(t, "10/03/2026", FormatDateRange(start, start.Add(2*time.Hour), "UTC"))
}
