package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"impulsescan/internal/domain/models"
	"impulsescan/pkg/util"
)

func reportDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, ok := util.ParseDate(s)
	if !ok {
		t.Fatalf("bad date %q", s)
	}
	return d
}

func TestWriteCSVHeaderAndRows(t *testing.T) {
	results := []models.ScanResult{
		{Symbol: "BTCUSDT", Date: reportDay(t, "2025-05-05"), Growth: 42.236, Impulses: 3},
		{Symbol: "PEPEUSDT", Date: reportDay(t, "2025-05-06"), Growth: 31, Impulses: 12},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, results); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Symbol,Date,Daily Growth %,Impulses" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "BTCUSDT,2025-05-05,42.24,3" {
		t.Fatalf("row = %q", lines[1])
	}
	if lines[2] != "PEPEUSDT,2025-05-06,31.00,12" {
		t.Fatalf("row = %q", lines[2])
	}
}

func TestWriteCSVEmptyReportKeepsHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := strings.TrimRight(buf.String(), "\n"); got != "Symbol,Date,Daily Growth %,Impulses" {
		t.Fatalf("empty report output = %q", got)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	in := []models.ScanResult{
		{Symbol: "BTCUSDT", Date: reportDay(t, "2025-05-05"), Growth: 42.24, Impulses: 3},
		{Symbol: "SOLUSDT", Date: reportDay(t, "2025-05-07"), Growth: 30.5, Impulses: 1},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d results, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i].Symbol != in[i].Symbol || !out[i].Date.Equal(in[i].Date) ||
			out[i].Growth != in[i].Growth || out[i].Impulses != in[i].Impulses {
			t.Fatalf("result %d mismatch: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestReadCSVRejectsWrongHeader(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("ticker,day,growth,count\n")); err == nil {
		t.Fatalf("wrong header must be rejected")
	}
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Fatalf("empty input must be rejected")
	}
}

func TestReadCSVRejectsBadRows(t *testing.T) {
	base := "Symbol,Date,Daily Growth %,Impulses\n"
	for _, row := range []string{
		"BTCUSDT,not-a-date,42.24,3\n",
		"BTCUSDT,2025-05-05,huge,3\n",
		"BTCUSDT,2025-05-05,42.24,many\n",
	} {
		if _, err := ReadCSV(strings.NewReader(base + row)); err == nil {
			t.Fatalf("row %q must be rejected", strings.TrimSpace(row))
		}
	}
}
