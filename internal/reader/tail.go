package reader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"EODFeed/internal/domain/models"
)

// ErrMalformed reports a structurally unreadable file tail: required columns
// missing from the header, or rows near the end of the file that cannot be
// parsed.
var ErrMalformed = errors.New("malformed rows near end of file")

const (
	DefaultChunkSize  = 6 * 1024
	DefaultDateColumn = "Date"
	DefaultDateFormat = "2006-01-02"
)

// Options control how rows are located and parsed.
type Options struct {
	DateColumn string    // header name of the date column
	DateFormat string    // Go layout for date values
	ChunkSize  int       // backward scan chunk size, performance hint only
	EndDate    time.Time // zero means no cutoff
}

func (o Options) withDefaults() Options {
	if o.DateColumn == "" {
		o.DateColumn = DefaultDateColumn
	}
	if o.DateFormat == "" {
		o.DateFormat = DefaultDateFormat
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	return o
}

// Tail returns at most budget trailing rows dated at-or-before the cutoff,
// ascending by date. The file is scanned backward from the end in fixed-size
// chunks, so the read cost is bounded by the budget plus scanning overhead,
// not the file size. The file handle is per-call and released on every path.
func Tail(path string, budget int, opts Options) ([]models.Bar, error) {
	opts = opts.withDefaults()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if st.Size() == 0 || budget <= 0 {
		return nil, nil
	}

	cols, dataStart, err := readHeader(f, opts.DateColumn)
	if err != nil {
		return nil, err
	}
	size := st.Size()
	if size <= dataStart {
		return nil, nil
	}

	// Collect rows newest-first until the budget of rows at-or-before the
	// cutoff is met or the scan reaches the header.
	var (
		rows  []models.Bar
		kept  int
		carry []byte // partial oldest line of the region scanned so far
		pos   = size
	)
	buf := make([]byte, opts.ChunkSize)
	for pos > dataStart && kept < budget {
		n := int64(opts.ChunkSize)
		if pos-dataStart < n {
			n = pos - dataStart
		}
		pos -= n
		chunk := buf[:n]
		if _, err := f.ReadAt(chunk, pos); err != nil && err != io.EOF {
			return nil, fmt.Errorf("read: %w", err)
		}
		region := make([]byte, 0, int(n)+len(carry))
		region = append(region, chunk...)
		region = append(region, carry...)
		lines := bytes.Split(region, []byte{'\n'})
		carry = lines[0]
		first := 1
		if pos == dataStart {
			// the region is complete, its leading piece is a whole line
			first = 0
		}
		for i := len(lines) - 1; i >= first && kept < budget; i-- {
			line := strings.TrimSpace(string(lines[i]))
			if line == "" {
				continue
			}
			bar, err := parseLine(line, cols, opts.DateFormat)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			rows = append(rows, bar)
			if opts.EndDate.IsZero() || !bar.Date.After(opts.EndDate) {
				kept++
			}
		}
	}

	// Restore ascending order, drop rows past the cutoff, keep the trailing
	// budget rows.
	out := make([]models.Bar, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		b := rows[i]
		if !opts.EndDate.IsZero() && b.Date.After(opts.EndDate) {
			continue
		}
		out = append(out, b)
	}
	if len(out) > budget {
		out = out[len(out)-budget:]
	}
	return out, nil
}

// ReadAll parses every row of the file in order. This is the slow path used
// for coarse timeframes where the whole history is needed before slicing.
func ReadAll(path string, opts Options) ([]models.Bar, error) {
	opts = opts.withDefaults()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := resolveColumns(header, opts.DateColumn)
	if err != nil {
		return nil, err
	}

	var out []models.Bar
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		bar, err := parseRecord(rec, cols, opts.DateFormat)
		if err != nil {
			return nil, err
		}
		out = append(out, bar)
	}
	return out, nil
}

type columns struct {
	date, open, high, low, clos, volume int
}

func readHeader(f *os.File, dateColumn string) (columns, int64, error) {
	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && err != io.EOF {
		return columns{}, 0, fmt.Errorf("read header: %w", err)
	}
	dataStart := int64(len(line))
	rec, err := csv.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return columns{}, dataStart, fmt.Errorf("%w: unreadable header", ErrMalformed)
	}
	cols, err := resolveColumns(rec, dateColumn)
	return cols, dataStart, err
}

func resolveColumns(header []string, dateColumn string) (columns, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	c := columns{date: -1, open: -1, high: -1, low: -1, clos: -1, volume: -1}
	for i, name := range header {
		name = strings.TrimSpace(name)
		switch {
		case strings.EqualFold(name, dateColumn):
			c.date = i
		case strings.EqualFold(name, "Open"):
			c.open = i
		case strings.EqualFold(name, "High"):
			c.high = i
		case strings.EqualFold(name, "Low"):
			c.low = i
		case strings.EqualFold(name, "Close"):
			c.clos = i
		case strings.EqualFold(name, "Volume"):
			c.volume = i
		}
	}
	if c.date < 0 || c.open < 0 || c.high < 0 || c.low < 0 || c.clos < 0 || c.volume < 0 {
		return c, fmt.Errorf("%w: header missing required columns", ErrMalformed)
	}
	return c, nil
}

func parseLine(line string, cols columns, layout string) (models.Bar, error) {
	rec, err := csv.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return models.Bar{}, fmt.Errorf("row %q: %v", line, err)
	}
	return parseRecord(rec, cols, layout)
}

func parseRecord(rec []string, cols columns, layout string) (models.Bar, error) {
	field := func(i int) (string, error) {
		if i >= len(rec) {
			return "", fmt.Errorf("row has %d fields, need %d", len(rec), i+1)
		}
		return strings.TrimSpace(rec[i]), nil
	}
	price := func(i int, name string) (float64, error) {
		s, err := field(i)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("bad %s value %q", name, s)
		}
		return v, nil
	}

	var bar models.Bar
	ds, err := field(cols.date)
	if err != nil {
		return bar, err
	}
	if bar.Date, err = time.Parse(layout, ds); err != nil {
		return bar, fmt.Errorf("bad date %q for layout %q", ds, layout)
	}
	if bar.Open, err = price(cols.open, "open"); err != nil {
		return bar, err
	}
	if bar.High, err = price(cols.high, "high"); err != nil {
		return bar, err
	}
	if bar.Low, err = price(cols.low, "low"); err != nil {
		return bar, err
	}
	if bar.Close, err = price(cols.clos, "close"); err != nil {
		return bar, err
	}
	vol, err := price(cols.volume, "volume")
	if err != nil {
		return bar, err
	}
	bar.Volume = int64(vol)
	return bar, nil
}
