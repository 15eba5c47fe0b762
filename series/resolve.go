// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package series

import (
	"errors"
	"fmt"
	"log"
)

// ErrIndex is returned when a hit refers to a series or point that
// does not exist in the model. The renderer never reports one, so it
// signals a bug rather than bad input.
var ErrIndex = errors.New("point index out of range")

// A Hit is a rendered point under the pointer, identified by its
// series index and its index within that series.
type Hit struct {
	Series int `json:"series"`
	Point  int `json:"point"`
}

// Lookup returns the record reference of the point at h.
func (m *Model) Lookup(h Hit) (Ref, error) {
	if h.Series < 0 || h.Series >= len(m.Series) {
		return Ref{}, fmt.Errorf("%w: series %d of %d", ErrIndex, h.Series, len(m.Series))
	}
	s := m.Series[h.Series]
	if h.Point < 0 || h.Point >= len(s.Points) {
		return Ref{}, fmt.Errorf("%w: point %d of %d in series %q", ErrIndex, h.Point, len(s.Points), s.Label)
	}
	return s.Points[h.Point].Ref, nil
}

// Resolve returns the record ID of the first hit. It reports false if
// hits is empty, which means the pointer was not over a point.
//
// An out-of-range hit panics in builds with the pfdebug tag and is
// logged and ignored otherwise.
func (m *Model) Resolve(hits []Hit) (string, bool) {
	if len(hits) == 0 {
		return "", false
	}
	ref, err := m.Lookup(hits[0])
	if err != nil {
		if debug {
			panic(err)
		}
		log.Printf("series: resolve: %v", err)
		return "", false
	}
	return ref.ID, true
}

// Tooltip returns the lines shown when the pointer is over the point
// at h.
func (m *Model) Tooltip(h Hit) ([]string, error) {
	ref, err := m.Lookup(h)
	if err != nil {
		return nil, err
	}
	s := m.Series[h.Series]
	p := s.Points[h.Point]
	return []string{
		"Version Number: " + p.Category,
		"ObjectID: " + ref.ID,
		"Core Count: " + s.Label,
		"Processor Topology: " + ref.Topology,
		"Timesteps: " + ref.Timesteps,
		"Runtime: " + p.Minutes() + " minutes",
	}, nil
}
