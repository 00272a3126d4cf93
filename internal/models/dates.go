package models

import "time"

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string; an empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders a date pointer as YYYY-MM-DD, or nil when absent.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateFormat)
	return &s
}
