package waveform

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/IMMZEK/oscilloscope-lab-viewer/src/scopelog"
)

// ParseError describes a malformed capture file. It is recoverable: callers
// surface the message and keep whatever capture was loaded before.
type ParseError struct {
	Line int // 1-based line of the offending record, 0 when not line-specific
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
	}
	return "parse error: " + e.Msg
}

func parseErrf(line int, format string, a ...interface{}) error {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, a...)}
}

// Lab scopes prepend a short key,value preamble (Model, Firmware, units...)
// before the actual header row. The header is recognized by its first cell.
const timeColumnPrefix = "TIME"

// Parse reads a single-delimiter (comma) capture CSV into a Capture.
//
// Layout: optional key,value metadata rows, then a header row whose first
// column names the time axis (TIME, Time (s), ...), then numeric data rows
// with strictly increasing time in the first column. Any deviation yields a
// *ParseError; no partial captures are ever returned.
func Parse(r io.Reader) (*Capture, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // validated manually for precise errors
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &ParseError{Msg: err.Error()}
	}
	if len(records) == 0 {
		return nil, &ParseError{Msg: "empty file"}
	}

	meta := map[string]string{}
	headerAt := -1
	var header []string
	for i, rec := range records {
		first := strings.ToUpper(strings.TrimSpace(rec[0]))
		if strings.HasPrefix(first, timeColumnPrefix) && len(rec) >= 2 {
			headerAt = i
			header = rec
			break
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64); err == nil {
			// Numeric data before any header row.
			return nil, parseErrf(i+1, "missing header row before data")
		}
		if len(rec) == 2 {
			meta[strings.TrimSpace(rec[0])] = strings.TrimSpace(rec[1])
			continue
		}
		return nil, parseErrf(i+1, "unexpected row with %d columns before header", len(rec))
	}
	if headerAt < 0 {
		return nil, &ParseError{Msg: "missing header row (no time column found)"}
	}

	chIDs := make([]string, 0, len(header)-1)
	for _, h := range header[1:] {
		id := strings.TrimSpace(h)
		if id == "" {
			return nil, parseErrf(headerAt+1, "empty channel name in header")
		}
		chIDs = append(chIDs, id)
	}
	if len(chIDs) == 0 {
		return nil, parseErrf(headerAt+1, "no channel columns found")
	}

	rows := records[headerAt+1:]
	if len(rows) == 0 {
		return nil, &ParseError{Msg: "no data rows after header"}
	}

	tb := make([]float64, 0, len(rows))
	values := make([][]float64, len(chIDs))
	for i := range values {
		values[i] = make([]float64, 0, len(rows))
	}
	for i, rec := range rows {
		line := headerAt + 2 + i
		if len(rec) != len(header) {
			return nil, parseErrf(line, "expected %d columns, got %d", len(header), len(rec))
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			return nil, parseErrf(line, "non-numeric time value %q", rec[0])
		}
		if n := len(tb); n > 0 && t <= tb[n-1] {
			return nil, parseErrf(line, "time not strictly increasing (%g after %g)", t, tb[n-1])
		}
		tb = append(tb, t)
		for j, cell := range rec[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, parseErrf(line, "non-numeric value %q in column %s", cell, chIDs[j])
			}
			values[j] = append(values[j], v)
		}
	}

	channels := make([]Channel, len(chIDs))
	for i, id := range chIDs {
		channels[i] = Channel{
			ID:      id,
			Values:  values[i],
			Visible: true,
			Color:   Palette[i%len(Palette)],
		}
	}
	return &Capture{Timebase: tb, Channels: channels, Meta: meta}, nil
}

// Load parses from r and, only on success, replaces the store's capture.
func (s *Store) Load(r io.Reader) error {
	c, err := Parse(r)
	if err != nil {
		return err
	}
	s.Replace(c)
	return nil
}

// LoadFile parses the file at path and replaces the capture on success.
func (s *Store) LoadFile(path string) error {
	defer scopelog.TimeTrack(time.Now(), "load "+path)
	f, err := os.Open(path)
	if err != nil {
		return &ParseError{Msg: err.Error()}
	}
	defer f.Close()
	return s.Load(f)
}
