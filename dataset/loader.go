package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/vantorre/dtlink/dtgraph"
)

// LoadCSV reads a timestamped edge stream from a CSV file with rows
// src,dst,ts (integer node ids, unix-second timestamps). A header row
// is skipped when its first field is not numeric. The stream is then
// discretized via FromEvents with the given options.
func LoadCSV(path string, opts ...Option) (*Splits, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: opening %s: %w", path, err)
	}
	defer f.Close()

	events, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}

	return FromEvents(events, opts...)
}

// ReadCSV parses src,dst,ts rows from r.
func ReadCSV(r io.Reader) ([]Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	var events []Event
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
		}
		if first {
			first = false
			if _, convErr := strconv.ParseInt(rec[0], 10, 64); convErr != nil {
				continue // header row
			}
		}
		ev, err := parseRecord(rec)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return events, nil
}

// parseRecord converts one CSV row into an Event.
func parseRecord(rec []string) (Event, error) {
	src, err := strconv.ParseInt(rec[0], 10, 64)
	if err != nil {
		return Event{}, fmt.Errorf("%w: src %q", ErrBadFormat, rec[0])
	}
	dst, err := strconv.ParseInt(rec[1], 10, 64)
	if err != nil {
		return Event{}, fmt.Errorf("%w: dst %q", ErrBadFormat, rec[1])
	}
	ts, err := strconv.ParseInt(rec[2], 10, 64)
	if err != nil {
		return Event{}, fmt.Errorf("%w: ts %q", ErrBadFormat, rec[2])
	}

	return Event{Src: dtgraph.NodeID(src), Dst: dtgraph.NodeID(dst), Ts: ts}, nil
}

// LoadJSON reads a timestamped edge stream from a JSON array of
// {"src":..,"dst":..,"ts":..} objects and discretizes it.
func LoadJSON(path string, opts ...Option) (*Splits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: reading %s: %w", path, err)
	}
	var events []Event
	if err := sonic.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("dataset: %s: %w: %v", path, ErrBadFormat, err)
	}

	return FromEvents(events, opts...)
}
