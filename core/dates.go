package core

import "time"

// DateLayout is the wire timestamp format (millisecond precision, numeric or
// Z offset).
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate accepts DateLayout and falls back to RFC 3339 with any fractional
// precision.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err == nil {
		return parsed, nil
	}
	if parsed, fallbackErr := time.Parse(time.RFC3339Nano, value); fallbackErr == nil {
		return parsed, nil
	}
	return time.Time{}, err
}

func parseDateField(field string, value string) (time.Time, error) {
	parsed, err := ParseDate(value)
	if err != nil {
		return time.Time{}, conversionError(field, value)
	}
	return parsed, nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := parseDateField(field, *value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
