package utils

import (
	"fmt"
	"time"
)

// ReportDateLayout is the wire format for calendar dates (report keys, expense dates).
const ReportDateLayout = "2006-01-02"

// ParseReportDate parses a YYYY-MM-DD string into a UTC date with a zero time
// component. Reports are keyed by calendar date, so the time of day is always
// normalized away.
func ParseReportDate(s string) (time.Time, error) {
	t, err := time.Parse(ReportDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// FormatReportDate renders a date in the YYYY-MM-DD wire format.
func FormatReportDate(t time.Time) string {
	return t.Format(ReportDateLayout)
}

// ParseReportMonth parses a YYYY-MM string and returns the first day of that
// month in UTC.
func ParseReportMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", s, err)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}
