package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v2"
)

// MissingTokens are the literal cell values treated as absent. Matching is
// exact: " - " is not a missing token.
var MissingTokens = []string{"N/A", "NA", "-", ""}

// IsMissing reports whether s is one of MissingTokens.
func IsMissing(s string) bool {
	for _, tok := range MissingTokens {
		if s == tok {
			return true
		}
	}
	return false
}

// ParseNumber parses a measure cell. Surrounding whitespace is ignored;
// NaN, infinities and anything that is not a plain decimal or scientific
// literal fail.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// dateLayouts are tried in order. Day-first slashes come before the US
// short forms since declarations are filed with dd/mm/yyyy dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	"2006-01-02 15:04",
}

// Spreadsheet serial days outside this window are treated as plain numbers,
// not dates (1900-03-01 .. 2173-10-14).
const (
	minSerialDay = 61
	maxSerialDay = 100000
)

// ParseDate parses a declaration date cell. It accepts ISO dates and
// date-times, common day-first and spreadsheet-rendered layouts, and
// spreadsheet serial day numbers. The result is truncated to the day.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return day(t), true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minSerialDay && serial < maxSerialDay {
		return day(xlsx.TimeFromExcelTime(serial, false)), true
	}
	return time.Time{}, false
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
