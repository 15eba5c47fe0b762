// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package series turns benchmark records grouped by core count into
// a chart model: one series per core count, a shared categorical
// axis of ParFlow versions, and runtime points that refer back to
// the records they came from.
//
// Build produces the model, Decorate assigns each series a shape and
// color, and Model.Resolve maps a rendered point back to its record.
package series

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"
	"strings"

	"github.com/parflow/pfperf/pfdoc"
)

var (
	// ErrMalformedGroupKey means a group key is not a non-negative
	// integer. It aborts the build.
	ErrMalformedGroupKey = errors.New("malformed group key")

	// ErrDuplicateLabel means two group keys map to the same
	// series label. It aborts the build.
	ErrDuplicateLabel = errors.New("duplicate series label")

	// ErrMalformedVersion means a record's build version does not
	// start with a "v"-prefixed segment. The record is skipped.
	ErrMalformedVersion = errors.New("malformed version string")
)

// A Model is a complete, renderable chart. A Model is never modified
// after Decorate returns; a new selection builds a new Model.
type Model struct {
	// Categories is the shared x axis: every version label seen,
	// deduplicated, in first-seen order.
	Categories []string `json:"labels"`

	// Series holds one entry per core-count group, in input order.
	Series []*Series `json:"datasets"`

	// Empty is set when the selection had no records at all. A model
	// whose records were all skipped is not empty; it has no points
	// and a non-empty Skipped list.
	Empty bool `json:"empty"`

	// Skipped lists the records left out because of bad data.
	Skipped []Skipped `json:"skipped,omitempty"`
}

// A Series is the set of points sharing one core count.
type Series struct {
	Key   string      `json:"key"`
	Label string      `json:"label"`
	Shape Shape       `json:"pointStyle"`
	Color color.NRGBA `json:"-"`

	Points []Point `json:"data"`
}

// A Point is one plotted run.
type Point struct {
	// Category is the version label, a value on the shared x axis.
	Category string `json:"x"`
	// Value is the runtime in minutes, rounded to 3 decimal places.
	Value float64 `json:"y"`
	Ref   Ref     `json:"ref"`
}

// A Ref identifies the record a point came from. It carries only
// what tooltips need; the record itself is looked up by ID.
type Ref struct {
	ID        string `json:"id"`
	Topology  string `json:"topology,omitempty"`
	Timesteps string `json:"timesteps,omitempty"`
}

// Skipped describes a record that was left out of the model.
type Skipped struct {
	Key    string `json:"key"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// Minutes formats the point's runtime the way the chart labels it.
func (p Point) Minutes() string {
	return fmt.Sprintf("%.3f", p.Value)
}

// RGBA returns the series color as a CSS rgba() value.
func (s *Series) RGBA() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", s.Color.R, s.Color.G, s.Color.B, float64(s.Color.A)/0xFF)
}

// Len returns the number of points in m.
func (m *Model) Len() int {
	n := 0
	for _, s := range m.Series {
		n += len(s.Points)
	}
	return n
}

// Label returns the display label for a core-count group key.
func Label(key string) (string, error) {
	if key == "" || strings.TrimLeft(key, "0123456789") != "" {
		return "", fmt.Errorf("%w %q", ErrMalformedGroupKey, key)
	}
	if key == "1" {
		return "Serial", nil
	}
	return key + " Cores", nil
}

// ParseVersion extracts the version label from a ParFlow build
// version: "v3.9.0-24-g5f3c" yields "3.9.0".
func ParseVersion(s string) (string, error) {
	head := s
	if i := strings.IndexByte(s, '-'); i >= 0 {
		head = s[:i]
	}
	if !strings.HasPrefix(head, "v") || len(head) == 1 {
		return "", fmt.Errorf("%w %q", ErrMalformedVersion, s)
	}
	return head[1:], nil
}

// Minutes converts seconds to minutes rounded to 3 decimal places.
func Minutes(sec float64) float64 {
	return math.Round(sec/60*1000) / 1000
}

// Build constructs the chart model for groups. Series follow the
// order of groups. Records with a malformed version are skipped and
// reported in Model.Skipped; a malformed or duplicate group key
// fails the whole build.
//
// The returned model is undecorated; see Decorate.
func Build(groups pfdoc.Groups) (*Model, error) {
	series := make([]*Series, 0, len(groups))
	labels := make(map[string]string)
	for _, g := range groups {
		label, err := Label(g.Key)
		if err != nil {
			return nil, err
		}
		if prev, ok := labels[label]; ok {
			return nil, fmt.Errorf("%w %q for keys %q and %q", ErrDuplicateLabel, label, prev, g.Key)
		}
		labels[label] = g.Key
		series = append(series, &Series{Key: g.Key, Label: label})
	}

	categories := []string{}
	seen := make(map[string]bool)
	var skipped []Skipped
	for i, g := range groups {
		s := series[i]
		for _, r := range g.Records {
			v, err := ParseVersion(r.Version)
			if err != nil {
				skipped = append(skipped, Skipped{Key: g.Key, ID: r.ID, Reason: err.Error(), Err: err})
				continue
			}
			if !seen[v] {
				seen[v] = true
				categories = append(categories, v)
			}
			s.Points = append(s.Points, Point{
				Category: v,
				Value:    Minutes(r.RuntimeSeconds),
				Ref:      Ref{ID: r.ID, Topology: r.Topology, Timesteps: r.Timesteps},
			})
		}
	}
	for _, sk := range skipped {
		log.Printf("series: skipping record %s in group %s: %v", sk.ID, sk.Key, sk.Err)
	}

	m := &Model{
		Categories: categories,
		Series:     series,
		Skipped:    skipped,
	}
	m.Empty = groups.Len() == 0
	return m, nil
}
