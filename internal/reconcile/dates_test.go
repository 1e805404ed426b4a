package reconcile

import (
	"errors"
	"testing"

	"finledger/internal/core"
)

func TestParseDate(t *testing.T) {
	tests := map[string]string{
		"2024-01-05":                "2024-01-05",
		"2024-1-5":                  "2024-01-05",
		"2024/01/05":                "2024-01-05",
		"2024-01-05T23:10:00Z":      "2024-01-05",
		"2024-01-05T10:00:00+02:00": "2024-01-05",
		"2024-01-05 08:00:00":       "2024-01-05",
		"05/01/2024":                "2024-01-05",
		"5/1/2024":                  "2024-01-05",
		"05-01-2024":                "2024-01-05",
		"05.01.2024":                "2024-01-05",
		"05/01/24":                  "2024-01-05",
		"12/25/2024":                "2024-12-25",
		"5 Jan 2024":                "2024-01-05",
		"5 January 2024":            "2024-01-05",
		"05-Jan-2024":               "2024-01-05",
		"January 5, 2024":           "2024-01-05",
		"  2024-01-05  ":            "2024-01-05",
	}
	for in, want := range tests {
		got, err := ParseDate(in)
		if err != nil {
			t.Errorf("ParseDate(%q) error = %v", in, err)
			continue
		}
		if got.String() != want {
			t.Errorf("ParseDate(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "2024-13-01", "32/01/2024", "2024-02-30"} {
		if _, err := ParseDate(in); !errors.Is(err, core.ErrInvalidDate) {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", in, err)
		}
	}
}

func TestNumericDates(t *testing.T) {
	d, err := dateFromEpochMillis("1704067200000")
	if err != nil || d.String() != "2024-01-01" {
		t.Errorf("dateFromEpochMillis() = %s, %v", d, err)
	}
	if s, ok := dateFromSerial("45292"); !ok || s.String() != "2024-01-01" {
		t.Errorf("dateFromSerial() = %s, %v", s, ok)
	}
	if _, ok := dateFromSerial("abc"); ok {
		t.Error("non-numeric serial accepted")
	}
}
