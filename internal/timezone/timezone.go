package timezone

import "time"

const DefaultTimezone = "Africa/Dakar"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// FormatDateRange renders an event period as "02/01/2006 - 03/01/2006" in tz.
func FormatDateRange(start, end time.Time, tz string) string {
	loc := Location(tz)
	const layout = "02/01/2006"

	from := start.In(loc).Format(layout)
	to := end.In(loc).Format(layout)
	if from == to {
		return from
	}
	return from + " - " + to
}
