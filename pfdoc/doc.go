// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pfdoc provides the data model for ParFlow performance
// benchmark documents.
//
// A benchmark run is stored as a nested MongoDB document. Documents
// are exchanged as MongoDB extended JSON and stored either in MongoDB
// itself or as extended JSON blobs in a SQL database. The document
// shape varies between versions of the test suite, so a Document
// keeps the full tree and exposes accessors for the fields the viewer
// needs. Record is the flattened form consumed by package series.
package pfdoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field paths inside a benchmark document.
var (
	PathHostname     = []string{"run_information", "system_information", "hostname"}
	PathDomain       = []string{"run_information", "run_specifications", "domain"}
	PathSolverConfig = []string{"run_information", "run_specifications", "solver_config"}
	PathTopology     = []string{"run_information", "run_specifications", "processor_topology"}
	PathTimesteps    = []string{"run_information", "run_specifications", "timesteps"}
	PathRunStatus    = []string{"run_information", "run_specifications", "test_results"}
	PathVersion      = []string{"pfmetadata", "parflow", "build", "version"}
	PathRuntime      = []string{"timing_csv", "Total Runtime", "time_sec"}
	PathRunDate      = []string{"run_date"}
)

// Top-level sections shown by the document viewer.
const (
	SectionRunInformation = "run_information"
	SectionMetadata       = "pfmetadata"
	SectionTiming         = "timing_csv"
)

// IDLength is the length of the hex form of a document ObjectID.
const IDLength = 24

// ErrMissingField is returned when a required field is absent from a document.
var ErrMissingField = errors.New("missing field")

// maxCores bounds the product of the processor topology.
const maxCores = math.MaxInt32

// A Document is a single benchmark run document.
type Document struct {
	// D is the full document, in stored key order.
	D bson.D
}

// ParseDocument parses a document in MongoDB extended JSON, in
// either canonical or relaxed form.
func ParseDocument(data []byte) (*Document, error) {
	var d bson.D
	if err := bson.UnmarshalExtJSON(data, false, &d); err != nil {
		return nil, fmt.Errorf("parse document: %v", err)
	}
	return &Document{D: d}, nil
}

// ParseDocuments parses either a single extended JSON document or a
// JSON array of documents.
func ParseDocuments(data []byte) ([]*Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		d, err := ParseDocument(data)
		if err != nil {
			return nil, err
		}
		return []*Document{d}, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse documents: %v", err)
	}
	docs := make([]*Document, 0, len(raw))
	for i, r := range raw {
		d, err := ParseDocument(r)
		if err != nil {
			return nil, fmt.Errorf("document %d: %v", i, err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// MarshalExtJSON returns d as relaxed extended JSON.
func (d *Document) MarshalExtJSON() ([]byte, error) {
	return bson.MarshalExtJSON(d.D, false, false)
}

// ID returns the hex form of the document's _id, or "" if it has none.
func (d *Document) ID() string {
	v, ok := d.Lookup("_id")
	if !ok {
		return ""
	}
	switch v := v.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	}
	return ""
}

// EnsureID assigns a new ObjectID to d if it has no _id and returns
// the document's id.
func (d *Document) EnsureID() string {
	if id := d.ID(); id != "" {
		return id
	}
	oid := primitive.NewObjectID()
	d.D = append(bson.D{{Key: "_id", Value: oid}}, d.D...)
	return oid.Hex()
}

// Lookup returns the value at path, descending through embedded documents.
func (d *Document) Lookup(path ...string) (interface{}, bool) {
	var cur interface{} = d.D
	for _, key := range path {
		next, ok := field(cur, key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func field(v interface{}, key string) (interface{}, bool) {
	switch v := v.(type) {
	case bson.D:
		for _, e := range v {
			if e.Key == key {
				return e.Value, true
			}
		}
	case bson.M:
		x, ok := v[key]
		return x, ok
	case map[string]interface{}:
		x, ok := v[key]
		return x, ok
	}
	return nil, false
}

// String returns the value at path formatted for display, or "" if
// it is absent.
func (d *Document) String(path ...string) string {
	v, ok := d.Lookup(path...)
	if !ok {
		return ""
	}
	return display(v)
}

// display formats a leaf value the way the viewer shows it.
func display(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	case primitive.A:
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = display(x)
		}
		return strings.Join(parts, " ")
	case bson.D:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = display(e.Value)
		}
		return strings.Join(parts, " ")
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}

// HasRunInformation reports whether d carries the run_information
// section. Documents from early versions of the test suite do not.
func (d *Document) HasRunInformation() bool {
	_, ok := d.Lookup(SectionRunInformation)
	return ok
}

func (d *Document) Hostname() string     { return d.String(PathHostname...) }
func (d *Document) Domain() string       { return d.String(PathDomain...) }
func (d *Document) SolverConfig() string { return d.String(PathSolverConfig...) }
func (d *Document) Topology() string     { return d.String(PathTopology...) }
func (d *Document) Timesteps() string    { return d.String(PathTimesteps...) }
func (d *Document) RunStatus() string    { return d.String(PathRunStatus...) }
func (d *Document) Version() string      { return d.String(PathVersion...) }
func (d *Document) RunDate() string      { return d.String(PathRunDate...) }

// RuntimeSeconds returns the total runtime of the run. The timing
// table stores it either as a number or as a numeric string.
func (d *Document) RuntimeSeconds() (float64, error) {
	v, ok := d.Lookup(PathRuntime...)
	if !ok {
		return 0, fmt.Errorf("%w %s", ErrMissingField, strings.Join(PathRuntime, "."))
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("runtime: %v", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("runtime %v is not a duration", f)
	}
	return f, nil
}

// CoreCount returns the number of processes the run used, the
// product of the processor topology entries. The topology is stored
// as a "P Q R" string, an array, or a sub-document.
func (d *Document) CoreCount() (int, error) {
	v, ok := d.Lookup(PathTopology...)
	if !ok {
		return 0, fmt.Errorf("%w %s", ErrMissingField, strings.Join(PathTopology, "."))
	}
	var dims []float64
	switch v := v.(type) {
	case string:
		for _, f := range strings.FieldsFunc(v, func(r rune) bool {
			return (r < '0' || r > '9') && r != '.'
		}) {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return 0, fmt.Errorf("processor topology %q: %v", v, err)
			}
			dims = append(dims, x)
		}
	case primitive.A:
		for _, e := range v {
			x, err := toFloat(e)
			if err != nil {
				return 0, fmt.Errorf("processor topology: %v", err)
			}
			dims = append(dims, x)
		}
	case bson.D:
		for _, e := range v {
			x, err := toFloat(e.Value)
			if err != nil {
				return 0, fmt.Errorf("processor topology %s: %v", e.Key, err)
			}
			dims = append(dims, x)
		}
	default:
		x, err := toFloat(v)
		if err != nil {
			return 0, fmt.Errorf("processor topology: %v", err)
		}
		dims = append(dims, x)
	}
	if len(dims) == 0 {
		return 0, fmt.Errorf("processor topology %q is empty", display(v))
	}
	n := 1
	for _, x := range dims {
		if x < 1 || x > maxCores || x != math.Trunc(x) {
			return 0, fmt.Errorf("processor topology %q: bad dimension %v", display(v), x)
		}
		if n > maxCores/int(x) {
			return 0, fmt.Errorf("processor topology %q: more than %d cores", display(v), maxCores)
		}
		n *= int(x)
	}
	return n, nil
}

func toFloat(v interface{}) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case primitive.Decimal128:
		return strconv.ParseFloat(v.String(), 64)
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	return 0, fmt.Errorf("not a number: %v", v)
}

// Section returns the named top-level section as indented relaxed
// extended JSON, or nil if d has no such section.
func (d *Document) Section(name string) ([]byte, error) {
	v, ok := d.Lookup(name)
	if !ok {
		return nil, nil
	}
	data, err := bson.MarshalExtJSON(bson.D{{Key: name, Value: v}}, false, false)
	if err != nil {
		return nil, err
	}
	// Unwrap the single-key document.
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, wrapped[name], "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Record returns the flattened benchmark record for d.
func (d *Document) Record() (*Record, error) {
	id := d.ID()
	if id == "" {
		return nil, fmt.Errorf("%w _id", ErrMissingField)
	}
	sec, err := d.RuntimeSeconds()
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	cores, err := d.CoreCount()
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	return &Record{
		ID:             id,
		Hostname:       d.Hostname(),
		Domain:         d.Domain(),
		CoreCount:      cores,
		Version:        d.Version(),
		RuntimeSeconds: sec,
		Topology:       d.Topology(),
		Timesteps:      d.Timesteps(),
		RunDate:        d.RunDate(),
	}, nil
}
