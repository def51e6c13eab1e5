package main

import (
	"regexp"
	"strings"
	"time"
)

const (
	msgRangeOrder   = "End date must be after start date."
	msgInvalidDate  = "Dates must be MM/DD/YYYY or YYYY-MM-DD."
	canonicalLayout = "2006-01-02"
)

var (
	isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	usDate  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// toYMD converts "3/5/2024" or "2024-03-05" to canonical "2024-03-05".
// Anything else yields "".
func toYMD(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if isoDate.MatchString(raw) {
		return raw
	}
	m := usDate.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[3] + "-" + padTwo(m[1]) + "-" + padTwo(m[2])
}

func padTwo(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

type dateRange struct {
	Start string
	End   string
}

// parseDateRange returns ok=false with an empty message when either input
// is blank, and ok=false with a user-facing message when the range is bad.
func parseDateRange(startRaw, endRaw string) (dateRange, string, bool) {
	if strings.TrimSpace(startRaw) == "" || strings.TrimSpace(endRaw) == "" {
		return dateRange{}, "", false
	}
	r := dateRange{Start: toYMD(startRaw), End: toYMD(endRaw)}
	if r.Start == "" || r.End == "" {
		return dateRange{}, msgInvalidDate, false
	}
	// Canonical dates compare correctly as strings.
	if r.End < r.Start {
		return dateRange{}, msgRangeOrder, false
	}
	return r, "", true
}

// todayIn returns the calendar date in zone, falling back to UTC.
func todayIn(now time.Time, zone string) string {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.UTC
	}
	return now.In(loc).Format(canonicalLayout)
}
