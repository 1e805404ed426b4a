package reconcile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"finledger/internal/core"
)

// Layouts tried by ParseDate, in order. Day-first numeric forms come before
// their month-first fallbacks, and four-digit years before two-digit ones.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000",

	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2-1-06",
	"2.1.06",

	"1/2/2006",
	"1-2-2006",
	"1/2/06",

	"2 Jan 2006",
	"2 January 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"Mon, 2 Jan 2006",
}

// ParseDate reads a calendar date in any of the accepted layouts. Ambiguous
// numeric dates such as 03/04/2024 are read day first.
func ParseDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Date{}, fmt.Errorf("%w: empty", core.ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.DateOf(t), nil
		}
	}
	return core.Date{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, s)
}

// dateFromEpochMillis converts the numeric dates pandas writes to JSON.
func dateFromEpochMillis(s string) (core.Date, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, s)
	}
	return core.DateOf(time.UnixMilli(int64(f)).UTC()), nil
}

// excelEpoch is day zero of the 1900 date system as spreadsheets count it.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// dateFromSerial converts a spreadsheet day serial such as 45292 (2024-01-01).
func dateFromSerial(s string) (core.Date, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 1 || f > 2958465 {
		return core.Date{}, false
	}
	return core.DateOf(excelEpoch.AddDate(0, 0, int(f))), true
}
