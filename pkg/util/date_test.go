package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2025-05-05")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, ok := ParseDate("05/05/2025"); ok {
		t.Fatalf("expected parse failure")
	}
	if _, ok := ParseDate(""); ok {
		t.Fatalf("expected parse failure for empty")
	}
}

func TestDayWindow(t *testing.T) {
	d := time.Date(2025, 5, 5, 13, 37, 0, 0, time.UTC)
	start, end := DayWindow(d)
	if start != time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC).UnixMilli() {
		t.Fatalf("unexpected start %d", start)
	}
	if end-start != 24*60*60*1000 {
		t.Fatalf("window must span exactly 24h, got %d ms", end-start)
	}
}

func TestDayWindowIgnoresLocalZone(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	inLocal := time.Date(2025, 5, 5, 2, 0, 0, 0, loc) // 2025-05-04 17:00 UTC
	start, _ := DayWindow(inLocal)
	if start != time.Date(2025, 5, 4, 0, 0, 0, 0, time.UTC).UnixMilli() {
		t.Fatalf("window must follow the UTC calendar day, got %d", start)
	}
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC)
	days := DaysBetween(from, to)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if !days[0].Equal(from) || !days[2].Equal(to) {
		t.Fatalf("range must be inclusive: %v", days)
	}
	if DaysBetween(to, from) != nil {
		t.Fatalf("reversed range must be empty")
	}
}

func TestDaysBetweenSingleDay(t *testing.T) {
	d := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	days := DaysBetween(d, d)
	if len(days) != 1 || !days[0].Equal(d) {
		t.Fatalf("expected the one day, got %v", days)
	}
}
