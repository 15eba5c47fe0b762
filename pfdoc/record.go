// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pfdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// A Record is one benchmark run, reduced to the fields used for
// charting. Records are read-only once constructed.
type Record struct {
	ID        string `json:"id"`
	Hostname  string `json:"hostname,omitempty"`
	Domain    string `json:"domain,omitempty"`
	CoreCount int    `json:"cores"`
	// Version is the raw ParFlow build version, e.g. "v3.9.0-24-g5f3c".
	Version        string  `json:"version"`
	RuntimeSeconds float64 `json:"runtime_sec"`
	// Topology and Timesteps are descriptive only.
	Topology  string `json:"topology,omitempty"`
	Timesteps string `json:"timesteps,omitempty"`
	RunDate   string `json:"run_date,omitempty"`
}

// SerialCores is the core count of a serial (non-parallel) run.
const SerialCores = 1

// A Group is the list of records sharing a core-count key.
type Group struct {
	Key     string
	Records []*Record
}

// Groups is an ordered mapping from core-count key to records. It
// marshals to and from a JSON object whose key order is significant.
type Groups []Group

// Len returns the total number of records in gs.
func (gs Groups) Len() int {
	n := 0
	for _, g := range gs {
		n += len(g.Records)
	}
	return n
}

// GroupByCores groups records by core count. Keys are ordered by
// ascending core count; records keep their relative order.
func GroupByCores(records []*Record) Groups {
	idx := make(map[int]int)
	var gs Groups
	var cores []int
	for _, r := range records {
		i, ok := idx[r.CoreCount]
		if !ok {
			i = len(gs)
			idx[r.CoreCount] = i
			gs = append(gs, Group{Key: strconv.Itoa(r.CoreCount)})
			cores = append(cores, r.CoreCount)
		}
		gs[i].Records = append(gs[i].Records, r)
	}
	sort.Sort(byCores{gs, cores})
	return gs
}

type byCores struct {
	gs    Groups
	cores []int
}

func (s byCores) Len() int           { return len(s.gs) }
func (s byCores) Less(i, j int) bool { return s.cores[i] < s.cores[j] }
func (s byCores) Swap(i, j int) {
	s.gs[i], s.gs[j] = s.gs[j], s.gs[i]
	s.cores[i], s.cores[j] = s.cores[j], s.cores[i]
}

// MarshalJSON implements json.Marshaler.
func (gs Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range gs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(g.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		recs := g.Records
		if recs == nil {
			recs = []*Record{}
		}
		v, err := json.Marshal(recs)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, keeping the object's key order.
func (gs *Groups) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("groups: expected object, found %v", tok)
	}
	var out Groups
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("groups: expected key, found %v", tok)
		}
		var recs []*Record
		if err := dec.Decode(&recs); err != nil {
			return fmt.Errorf("groups: key %q: %v", key, err)
		}
		out = append(out, Group{Key: key, Records: recs})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*gs = out
	return nil
}
