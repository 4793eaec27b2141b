package core

import (
	"strconv"
	"strings"
	"time"
)

// ISODate is the canonical transaction date layout.
const ISODate = "2006-01-02"

// csvDateLayouts are tried in priority order. The first layout that
// parses wins, which makes MM/DD/YYYY vs DD/MM/YYYY inherently
// ambiguous when both day and month are <= 12; MM/DD (the US reading)
// wins that tie. This is a known, documented ambiguity.
var csvDateLayouts = []string{
	"01/02/2006", // MM/DD/YYYY
	"2006-01-02", // YYYY-MM-DD
	"01/02/06",   // MM/DD/YY
	"02/01/2006", // DD/MM/YYYY
	"2006/01/02", // YYYY/MM/DD
}

// qifDateLayouts are tried after rewriting QIF's apostrophe year
// separator (M/D'YY) to a slash.
var qifDateLayouts = []string{
	"01/02/06",   // M/D'YY, MM/DD'YY
	"01/02/2006", // MM/DD/YYYY
	"01-02-2006", // MM-DD-YYYY
}

// NormalizeDate converts a CSV date string into ISO YYYY-MM-DD.
//
// When no layout matches it returns the trimmed original string and
// ok=false; the caller logs and keeps the row rather than aborting the
// batch.
func NormalizeDate(raw string) (string, bool) {
	return normalize(strings.TrimSpace(raw), csvDateLayouts)
}

// NormalizeQIFDate converts a QIF date string into ISO YYYY-MM-DD,
// accepting the apostrophe-separated two-digit-year forms QIF exports
// use (e.g. 7/18'25).
func NormalizeQIFDate(raw string) (string, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), "'", "/")
	return normalize(s, qifDateLayouts)
}

func normalize(s string, layouts []string) (string, bool) {
	for _, layout := range layouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format(ISODate), true
		}
	}
	return s, false
}

// YearOf extracts the calendar year from an ISO date string. Returns
// 0 when the string is not an ISO date (e.g. a pass-through from a
// failed normalization).
func YearOf(isoDate string) int {
	if len(isoDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(isoDate[:4])
	if err != nil || len(isoDate) != 10 || isoDate[4] != '-' {
		return 0
	}
	return year
}
