package reader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// builds a daily CSV from 2024-01-01 with n rows, Close=100+i, Volume=10.
func dailyCSV(n int) string {
	var b strings.Builder
	b.WriteString("Date,Open,High,Low,Close,Volume\n")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		fmt.Fprintf(&b, "%s,%d,%d,%d,%d,10\n", d.Format("2006-01-02"), 99+i, 101+i, 98+i, 100+i)
	}
	return b.String()
}

func TestTailBudget(t *testing.T) {
	path := writeFile(t, "abc.csv", dailyCSV(100))

	rows, err := Tail(path, 10, Options{})
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(rows))
	}
	// trailing rows, ascending
	if rows[0].Close != 190 || rows[9].Close != 199 {
		t.Fatalf("unexpected rows: first close %v, last close %v", rows[0].Close, rows[9].Close)
	}
	for i := 1; i < len(rows); i++ {
		if !rows[i].Date.After(rows[i-1].Date) {
			t.Fatalf("rows not strictly ascending at %d", i)
		}
	}
}

func TestTailCutoff(t *testing.T) {
	path := writeFile(t, "abc.csv", dailyCSV(100))
	cutoff := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC) // day 41

	rows, err := Tail(path, 5, Options{EndDate: cutoff})
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if last := rows[len(rows)-1].Date; last.After(cutoff) {
		t.Fatalf("last row %v past cutoff %v", last, cutoff)
	}
	if !rows[len(rows)-1].Date.Equal(cutoff) {
		t.Fatalf("last row %v, want cutoff day", rows[len(rows)-1].Date)
	}
}

func TestTailSmallChunksSpanLines(t *testing.T) {
	path := writeFile(t, "abc.csv", dailyCSV(200))

	// tiny chunk forces many backward reads with lines split across chunks
	rows, err := Tail(path, 50, Options{ChunkSize: 7})
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(rows) != 50 {
		t.Fatalf("expected 50 rows, got %d", len(rows))
	}
	if rows[0].Close != 250 {
		t.Fatalf("first retained close = %v, want 250", rows[0].Close)
	}
}

func TestTailBudgetLargerThanFile(t *testing.T) {
	path := writeFile(t, "abc.csv", dailyCSV(8))
	rows, err := Tail(path, 100, Options{})
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(rows) != 8 {
		t.Fatalf("expected all 8 rows, got %d", len(rows))
	}
}

func TestTailEmptyFile(t *testing.T) {
	path := writeFile(t, "abc.csv", "")
	rows, err := Tail(path, 10, Options{})
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestTailHeaderOnly(t *testing.T) {
	path := writeFile(t, "abc.csv", "Date,Open,High,Low,Close,Volume\n")
	rows, err := Tail(path, 10, Options{})
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestTailMalformedTail(t *testing.T) {
	content := dailyCSV(5) + "not-a-date,1,2,3,4,5\n"
	path := writeFile(t, "abc.csv", content)

	_, err := Tail(path, 10, Options{})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestTailMissingColumns(t *testing.T) {
	path := writeFile(t, "abc.csv", "Date,Close\n2024-01-02,100\n")
	_, err := Tail(path, 10, Options{})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestTailCustomDateColumnAndFormat(t *testing.T) {
	content := "timestamp,Open,High,Low,Close,Volume\n02-01-2024,1,2,0.5,1.5,100\n03-01-2024,1.5,2.5,1,2,200\n"
	path := writeFile(t, "abc.csv", content)

	rows, err := Tail(path, 5, Options{DateColumn: "timestamp", DateFormat: "02-01-2006"})
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if got := rows[0].Date; !got.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("parsed date = %v", got)
	}
}

func TestReadAll(t *testing.T) {
	path := writeFile(t, "abc.csv", dailyCSV(30))
	rows, err := ReadAll(path, Options{})
	if err != nil {
		t.Fatalf("readall: %v", err)
	}
	if len(rows) != 30 {
		t.Fatalf("expected 30 rows, got %d", len(rows))
	}
	if rows[29].Volume != 10 {
		t.Fatalf("volume = %d", rows[29].Volume)
	}
}

func TestReadAllEmpty(t *testing.T) {
	path := writeFile(t, "abc.csv", "")
	rows, err := ReadAll(path, Options{})
	if err != nil {
		t.Fatalf("readall: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}
