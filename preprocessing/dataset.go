package preprocessing

import (
	"encoding/csv"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"campus-steps-server/routing"
)

// Field names of a dataset record.
const (
	FieldRoomA = "classroom1"
	FieldRoomB = "classroom2"
	FieldSteps = "steps_between"
)

// EdgeRecord is one corridor read from a dataset.
type EdgeRecord struct {
	From  string
	To    string
	Steps int
}

// Snapshot is the gob form of a loaded graph. Rooms keeps rooms that have
// no corridors.
type Snapshot struct {
	Rooms   []string
	Records []EdgeRecord
}

// Load reads a dataset file and builds the classroom graph. The format is
// picked from the extension: .json, .csv or .gob. Every failure is returned
// as a *routing.LoadError.
func Load(path string) (*routing.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &routing.LoadError{Source: path, Record: -1, Err: err}
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path, f)
	case ".csv":
		return LoadCSV(path, f)
	case ".gob":
		return LoadSnapshot(path, f)
	default:
		return nil, &routing.LoadError{Source: path, Record: -1, Err: fmt.Errorf("unsupported dataset extension %q", filepath.Ext(path))}
	}
}

// LoadJSON reads an array of records such as
// {"classroom1": "101", "classroom2": "102", "steps_between": 45}.
// Unknown fields are ignored.
func LoadJSON(source string, r io.Reader) (*routing.Graph, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var items []map[string]interface{}
	if err := dec.Decode(&items); err != nil {
		return nil, &routing.LoadError{Source: source, Record: -1, Err: fmt.Errorf("failed to parse JSON: %w", err)}
	}
	if items == nil {
		return nil, &routing.LoadError{Source: source, Record: -1, Err: errors.New("failed to parse JSON: top level is null, want an array")}
	}
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); err != io.EOF {
		return nil, &routing.LoadError{Source: source, Record: -1, Err: errors.New("failed to parse JSON: unexpected data after the record array")}
	}

	records := make([]EdgeRecord, 0, len(items))
	for i, item := range items {
		rec, err := parseJSONRecord(item)
		if err != nil {
			return nil, &routing.LoadError{Source: source, Record: i, Err: err}
		}
		records = append(records, rec)
	}
	return BuildGraph(records, nil), nil
}

func parseJSONRecord(item map[string]interface{}) (EdgeRecord, error) {
	if item == nil {
		return EdgeRecord{}, errors.New("record is null")
	}
	from, err := convertID(item, FieldRoomA)
	if err != nil {
		return EdgeRecord{}, err
	}
	to, err := convertID(item, FieldRoomB)
	if err != nil {
		return EdgeRecord{}, err
	}
	raw, ok := item[FieldSteps]
	if !ok || raw == nil {
		return EdgeRecord{}, fmt.Errorf("missing field %q", FieldSteps)
	}
	var text string
	switch v := raw.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = v
	default:
		return EdgeRecord{}, fmt.Errorf("field %q: unsupported type %T", FieldSteps, raw)
	}
	steps, err := parseSteps(text)
	if err != nil {
		return EdgeRecord{}, err
	}
	return EdgeRecord{From: from, To: to, Steps: steps}, nil
}

// convertID accepts room identifiers written as strings or numbers.
// Numbers keep their literal form, so 101 becomes "101".
func convertID(item map[string]interface{}, field string) (string, error) {
	raw, ok := item[field]
	if !ok || raw == nil {
		return "", fmt.Errorf("missing field %q", field)
	}
	var id string
	switch v := raw.(type) {
	case string:
		id = v
	case json.Number:
		id = v.String()
	default:
		return "", fmt.Errorf("field %q: unsupported ID type %T", field, raw)
	}
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("field %q is empty", field)
	}
	return id, nil
}

// MaxSteps caps a single corridor so that path sums stay far from int
// overflow.
const MaxSteps = math.MaxInt32

// parseSteps accepts whole numbers, including forms like "45" or 45.0.
func parseSteps(text string) (int, error) {
	text = strings.TrimSpace(text)
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("field %q: %q is not a number", FieldSteps, text)
	}
	if f != math.Trunc(f) && !math.IsInf(f, 0) {
		return 0, fmt.Errorf("field %q: %q is not a whole number of steps", FieldSteps, text)
	}
	if f <= 0 {
		return 0, fmt.Errorf("field %q: steps must be positive, got %s", FieldSteps, text)
	}
	if f > MaxSteps {
		return 0, fmt.Errorf("field %q: %s steps exceeds the limit of %d", FieldSteps, text, MaxSteps)
	}
	return int(f), nil
}

// LoadCSV reads a CSV file whose header names the classroom1, classroom2
// and steps_between columns in any order.
func LoadCSV(source string, r io.Reader) (*routing.Graph, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, &routing.LoadError{Source: source, Record: -1, Err: fmt.Errorf("read header: %w", err)}
	}
	h := headerIndex(header)
	for _, field := range []string{FieldRoomA, FieldRoomB, FieldSteps} {
		if _, ok := h[field]; !ok {
			return nil, &routing.LoadError{Source: source, Record: -1, Err: fmt.Errorf("header is missing column %q", field)}
		}
	}

	var records []EdgeRecord
	for i := 0; ; i++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &routing.LoadError{Source: source, Record: i, Err: fmt.Errorf("read row: %w", err)}
		}

		get := func(k string) (string, error) {
			idx := h[k]
			if idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
				return "", fmt.Errorf("missing field %q", k)
			}
			return strings.TrimSpace(row[idx]), nil
		}
		from, err := get(FieldRoomA)
		if err != nil {
			return nil, &routing.LoadError{Source: source, Record: i, Err: err}
		}
		to, err := get(FieldRoomB)
		if err != nil {
			return nil, &routing.LoadError{Source: source, Record: i, Err: err}
		}
		text, err := get(FieldSteps)
		if err != nil {
			return nil, &routing.LoadError{Source: source, Record: i, Err: err}
		}
		steps, err := parseSteps(text)
		if err != nil {
			return nil, &routing.LoadError{Source: source, Record: i, Err: err}
		}
		records = append(records, EdgeRecord{From: from, To: to, Steps: steps})
	}
	return BuildGraph(records, nil), nil
}

func headerIndex(hdr []string) map[string]int {
	m := make(map[string]int, len(hdr))
	for i, k := range hdr {
		m[strings.TrimSpace(k)] = i
	}
	return m
}

// LoadSnapshot decodes a gob snapshot written by WriteSnapshot.
func LoadSnapshot(source string, r io.Reader) (*routing.Graph, error) {
	var snap Snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, &routing.LoadError{Source: source, Record: -1, Err: fmt.Errorf("failed to decode GOB: %w", err)}
	}
	for i, rec := range snap.Records {
		if rec.From == "" || rec.To == "" || rec.Steps <= 0 || rec.Steps > MaxSteps {
			return nil, &routing.LoadError{Source: source, Record: i, Err: fmt.Errorf("invalid corridor %+v", rec)}
		}
	}
	return BuildGraph(snap.Records, snap.Rooms), nil
}

// WriteSnapshot encodes the graph so it can be reloaded without parsing
// the source dataset.
func WriteSnapshot(w io.Writer, graph *routing.Graph) error {
	snap := Snapshot{Rooms: graph.SortedNodes()}
	for _, e := range graph.EdgeList() {
		snap.Records = append(snap.Records, EdgeRecord{From: e.FromID, To: e.ToID, Steps: e.Steps})
	}
	if err := gob.NewEncoder(w).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode GOB: %w", err)
	}
	return nil
}

// BuildGraph adds one undirected edge per record, in order, so a later
// record for the same pair of rooms overwrites an earlier one.
func BuildGraph(records []EdgeRecord, rooms []string) *routing.Graph {
	g := routing.NewGraph()
	for _, room := range rooms {
		g.AddNode(room)
	}
	for _, rec := range records {
		g.AddEdge(rec.From, rec.To, rec.Steps)
	}
	return g
}
