package timeutil

import (
	"testing"
	"time"
)

var now = time.Date(2026, 9, 2, 10, 30, 0, 0, time.Local) // a Wednesday

func TestParseDateRelative(t *testing.T) {
	tests := map[string]time.Time{
		"today":     time.Date(2026, 9, 2, 0, 0, 0, 0, time.Local),
		"Tomorrow":  time.Date(2026, 9, 3, 0, 0, 0, 0, time.Local),
		"yesterday": time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local),
		"now":       now,
	}
	for in, want := range tests {
		got, err := ParseDate(in, now)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseDateWeekday(t *testing.T) {
	// "friday" from a Wednesday is two days out.
	got, err := ParseDate("friday", now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := time.Date(2026, 9, 4, 0, 0, 0, 0, time.Local); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// The same weekday means next week, not today.
	got, err = ParseDate("wednesday", now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := time.Date(2026, 9, 9, 0, 0, 0, 0, time.Local); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseDateAbsolute(t *testing.T) {
	got, err := ParseDate("2026-12-25", now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := time.Date(2026, 12, 25, 0, 0, 0, 0, time.Local); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// Layouts without a year assume the current one.
	got, err = ParseDate("Jan 5", now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.January || got.Day() != 5 {
		t.Fatalf("got %v", got)
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, in := range []string{"", "not a date", "2026-13-45"} {
		if _, err := ParseDate(in, now); err == nil {
			t.Fatalf("ParseDate(%q) should fail", in)
		}
	}
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("tomorrow", "09:30", now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := time.Date(2026, 9, 3, 9, 30, 0, 0, time.Local); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// No clock keeps the date's own time.
	got, err = ParseDateTime("today", "", now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Fatalf("got %v", got)
	}

	if _, err := ParseDateTime("today", "25:99", now); err == nil {
		t.Fatal("bad clock should fail")
	}
}
