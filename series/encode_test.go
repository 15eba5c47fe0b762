// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package series

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/color"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/parflow/pfperf/pfdoc"
)

func TestDecorateOverflow(t *testing.T) {
	m, err := Build(manyGroups(9))
	if err != nil {
		t.Fatal(err)
	}
	Decorate(m, RandomColors(rand.New(rand.NewSource(1))))

	seen := make(map[Shape]bool)
	for i, s := range m.Series {
		if i < len(Palette) {
			if s.Shape == Overflow || seen[s.Shape] {
				t.Errorf("series %d: shape %v repeated or overflow", i, s.Shape)
			}
			seen[s.Shape] = true
			if s.Color.A != 0xFF {
				t.Errorf("series %d: color %v not opaque", i, s.Color)
			}
			continue
		}
		if s.Shape != Overflow || s.Color != OverflowColor {
			t.Errorf("series %d: got %v %v, want overflow marker", i, s.Shape, s.Color)
		}
	}
}

func TestHashColorsStable(t *testing.T) {
	c := HashColors()
	a := c(0, &Series{Label: "4 Cores"})
	b := c(3, &Series{Label: "4 Cores"})
	if a != b {
		t.Errorf("HashColors gave %v then %v for the same label", a, b)
	}
}

func TestShapeText(t *testing.T) {
	for _, sh := range append(Palette, Overflow) {
		text, err := sh.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Shape
		if err := back.UnmarshalText(text); err != nil || back != sh {
			t.Errorf("UnmarshalText(%q) = %v, %v, want %v", text, back, err, sh)
		}
	}
	var sh Shape
	if err := sh.UnmarshalText([]byte("hexagon")); err == nil {
		t.Errorf("UnmarshalText(hexagon) succeeded")
	}
}

func TestSeriesJSON(t *testing.T) {
	s := &Series{
		Key:    "1",
		Label:  "Serial",
		Shape:  Star,
		Color:  color.NRGBA{R: 10, G: 20, B: 30, A: 0xFF},
		Points: []Point{{Category: "3.9.0", Value: 1.5, Ref: Ref{ID: idA}}},
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["backgroundColor"] != "rgba(10, 20, 30, 1)" {
		t.Errorf("backgroundColor = %v", got["backgroundColor"])
	}
	if got["pointStyle"] != "star" || got["label"] != "Serial" {
		t.Errorf("got %s", data)
	}
}

func TestResolve(t *testing.T) {
	m, err := Build(twoGroups())
	if err != nil {
		t.Fatal(err)
	}
	if id, ok := m.Resolve([]Hit{{Series: 1, Point: 0}}); !ok || id != idB {
		t.Errorf("Resolve({1,0}) = %q, %v, want %q, true", id, ok, idB)
	}
	// Only the first hit counts.
	if id, ok := m.Resolve([]Hit{{Series: 0, Point: 0}, {Series: 1, Point: 0}}); !ok || id != idA {
		t.Errorf("Resolve({0,0},{1,0}) = %q, %v, want %q, true", id, ok, idA)
	}
	if id, ok := m.Resolve(nil); ok {
		t.Errorf("Resolve(nil) = %q, true, want false", id)
	}
}

func TestLookupOutOfRange(t *testing.T) {
	m, err := Build(twoGroups())
	if err != nil {
		t.Fatal(err)
	}
	for _, h := range []Hit{{Series: 2}, {Series: -1}, {Series: 0, Point: 1}} {
		if _, err := m.Lookup(h); !errors.Is(err, ErrIndex) {
			t.Errorf("Lookup(%+v) = %v, want ErrIndex", h, err)
		}
	}
	if !debug {
		if _, ok := m.Resolve([]Hit{{Series: 5}}); ok {
			t.Errorf("Resolve out of range reported a record")
		}
	}
}

func TestSummarize(t *testing.T) {
	gs := twoGroups()
	gs[1].Records = append(gs[1].Records,
		&pfdoc.Record{ID: "c", CoreCount: 4, Version: "v1.2.0", RuntimeSeconds: 420},
		&pfdoc.Record{ID: "d", CoreCount: 4, Version: "v1.3.0", RuntimeSeconds: 60},
	)
	m, err := Build(gs)
	if err != nil {
		t.Fatal(err)
	}
	want := []Summary{
		{Label: "Serial", Category: "1.2.0", N: 1, Mean: 2, Min: 2, Max: 2},
		{Label: "4 Cores", Category: "1.2.0", N: 2, Mean: 6, Min: 5, Max: 7, StdDev: 1.4142135623730951},
		{Label: "4 Cores", Category: "1.3.0", N: 1, Mean: 1, Min: 1, Max: 1},
	}
	got := Summarize(m)
	if diff := cmp.Diff(want, got, cmp.Comparer(approxEqual)); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}
	if s := Summarize(&Model{}); s != nil {
		t.Errorf("Summarize(empty) = %v, want nil", s)
	}
}

func approxEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

func TestWriteImage(t *testing.T) {
	m, err := Build(manyGroups(8))
	if err != nil {
		t.Fatal(err)
	}
	Decorate(m, HashColors())
	for _, format := range []string{"png", "svg"} {
		var buf bytes.Buffer
		if err := WriteImage(&buf, m, format, 400, 300); err != nil {
			t.Fatalf("WriteImage(%s): %v", format, err)
		}
		if buf.Len() == 0 {
			t.Errorf("WriteImage(%s) wrote nothing", format)
		}
	}
	var buf bytes.Buffer
	if err := WriteImage(&buf, &Model{Empty: true, Categories: []string{}}, "svg", 400, 300); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no documents found") {
		t.Errorf("empty chart is missing the no-documents title")
	}
}

func TestTooltip(t *testing.T) {
	m, err := Build(twoGroups())
	if err != nil {
		t.Fatal(err)
	}
	got, err := m.Tooltip(Hit{Series: 1, Point: 0})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"Version Number: 1.2.0",
		"ObjectID: " + idB,
		"Core Count: 4 Cores",
		"Processor Topology: 2 2 1",
		"Timesteps: 10",
		"Runtime: 5.000 minutes",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tooltip mismatch (-want +got):\n%s", diff)
	}
	if _, err := m.Tooltip(Hit{Series: 3}); !errors.Is(err, ErrIndex) {
		t.Errorf("Tooltip out of range = %v, want ErrIndex", err)
	}
}

func TestWriteSummaries(t *testing.T) {
	m, err := Build(twoGroups())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteSummaries(&buf, Summarize(m)); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header and 2 rows:\n%s", len(lines), buf.String())
	}
	for i, want := range [][]string{
		{"cores", "version", "stddev"},
		{"Serial", "1.2.0", "2.000"},
		{"4 Cores", "1.2.0", "5.000"},
	} {
		for _, w := range want {
			if !strings.Contains(lines[i], w) {
				t.Errorf("line %d = %q, missing %q", i, lines[i], w)
			}
		}
	}

	buf.Reset()
	if err := WriteSummaries(&buf, nil); err != nil || buf.Len() != 0 {
		t.Errorf("WriteSummaries(nil) wrote %q, %v", buf.String(), err)
	}
}
