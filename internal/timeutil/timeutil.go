package timeutil

import "time"

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateOrNow parses a YYYY-MM-DD date, falling back to the current UTC
// time for empty or malformed values.
func ParseDateOrNow(value string) time.Time {
	if value == "" {
		return time.Now().UTC()
	}
	t, err := ParseDate(value)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}

// AgeAt returns whole years between birth and the reference date.
func AgeAt(birth, at time.Time) int {
	years := at.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}
