package history

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"pe-allocation/internal/hysteresis"
)

// Layouts accepted for sample dates, tried in order.
var dateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02",
	time.RFC3339,
}

// Load reads a P/E history file. JSON files hold either [date, value] pairs
// as cached from the multpl.com monthly table, or {"date", "value"} objects.
// CSV files need a date,value header.
func Load(path string) ([]hysteresis.Sample, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(bytes.NewReader(raw))
	case ".json", "":
		return ParseJSON(raw)
	default:
		return nil, fmt.Errorf("unsupported history format %q", filepath.Ext(path))
	}
}

// ParseJSON decodes pair or object encoded samples.
func ParseJSON(raw []byte) ([]hysteresis.Sample, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}

	samples := make([]hysteresis.Sample, 0, len(entries))
	for i, entry := range entries {
		date, value, err := decodeEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("history entry #%d: %w", i, err)
		}
		s, err := NewSample(date, value)
		if err != nil {
			return nil, fmt.Errorf("history entry #%d: %w", i, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func decodeEntry(entry json.RawMessage) (string, string, error) {
	var pair []json.RawMessage
	if err := json.Unmarshal(entry, &pair); err == nil {
		if len(pair) != 2 {
			return "", "", fmt.Errorf("expected [date, value], got %d elements", len(pair))
		}
		date, err := scalar(pair[0])
		if err != nil {
			return "", "", err
		}
		value, err := scalar(pair[1])
		if err != nil {
			return "", "", err
		}
		return date, value, nil
	}

	var obj struct {
		Date  json.RawMessage `json:"date"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(entry, &obj); err != nil {
		return "", "", fmt.Errorf("expected pair or object: %w", err)
	}
	if obj.Date == nil || obj.Value == nil {
		return "", "", errors.New("object needs date and value")
	}
	date, err := scalar(obj.Date)
	if err != nil {
		return "", "", err
	}
	value, err := scalar(obj.Value)
	if err != nil {
		return "", "", err
	}
	return date, value, nil
}

// scalar returns a JSON string or number as text.
func scalar(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("unexpected value %s", string(raw))
}

// ParseCSV reads samples from a CSV stream with a date,value header.
func ParseCSV(r io.Reader) ([]hysteresis.Sample, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	dateCol, valueCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			dateCol = i
		case "value", "pe", "pe_ratio":
			valueCol = i
		}
	}
	if dateCol < 0 || valueCol < 0 {
		return nil, fmt.Errorf("csv header must name date and value columns, got %v", header)
	}

	var samples []hysteresis.Sample
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		s, err := NewSample(record[dateCol], record[valueCol])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// NewSample parses a textual date and value. Dates carry no zone and are
// read as UTC.
func NewSample(date, value string) (hysteresis.Sample, error) {
	t, err := ParseDate(date)
	if err != nil {
		return hysteresis.Sample{}, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return hysteresis.Sample{}, fmt.Errorf("parse value %q: %w", value, err)
	}
	return hysteresis.Sample{Date: t, Value: v}, nil
}

// ParseDate accepts the layouts used by the history sources.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
