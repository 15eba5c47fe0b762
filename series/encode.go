// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package series

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"image/color"
	"math/rand"
)

// A Shape is a point marker.
type Shape int

const (
	Square Shape = iota
	Star
	Triangle
	RoundedSquare
	RotatedSquare
	Circle

	// Overflow marks every series past the end of the palette.
	Overflow
)

var shapeNames = [...]string{
	Square:        "rect",
	Star:          "star",
	Triangle:      "triangle",
	RoundedSquare: "rectRounded",
	RotatedSquare: "rectRot",
	Circle:        "circle",
	Overflow:      "crossRot",
}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(text []byte) error {
	for i, name := range shapeNames {
		if name == string(text) {
			*s = Shape(i)
			return nil
		}
	}
	return fmt.Errorf("unknown shape %q", text)
}

// Palette is the ordered set of distinct shapes handed out to series.
var Palette = []Shape{Square, Star, Triangle, RoundedSquare, RotatedSquare, Circle}

// OverflowColor is the color of overflow series.
var OverflowColor = color.NRGBA{R: 0xFF, A: 0xFF}

// ShapeFor returns the shape of the i'th series.
func ShapeFor(i int) Shape {
	if i < len(Palette) {
		return Palette[i]
	}
	return Overflow
}

// A Colorer picks the color of the i'th series of a model.
type Colorer func(i int, s *Series) color.NRGBA

// RandomColors returns a Colorer that picks a uniformly random opaque
// color for every series. If r is nil, the global source is used.
func RandomColors(r *rand.Rand) Colorer {
	intn := rand.Intn
	if r != nil {
		intn = r.Intn
	}
	return func(int, *Series) color.NRGBA {
		return color.NRGBA{R: uint8(intn(256)), G: uint8(intn(256)), B: uint8(intn(256)), A: 0xFF}
	}
}

// HashColors returns a Colorer that derives each color from the
// series label, so the same core count keeps its color across
// builds.
func HashColors() Colorer {
	return func(_ int, s *Series) color.NRGBA {
		h := fnv.New32a()
		h.Write([]byte(s.Label))
		x := h.Sum32()
		return color.NRGBA{R: uint8(x >> 16), G: uint8(x >> 8), B: uint8(x), A: 0xFF}
	}
}

// Decorate assigns a shape and color to every series of m, in series
// order, and returns m. The first len(Palette) series get distinct
// palette shapes; the rest share the Overflow shape and OverflowColor.
// If colors is nil, RandomColors(nil) is used.
func Decorate(m *Model, colors Colorer) *Model {
	if colors == nil {
		colors = RandomColors(nil)
	}
	for i, s := range m.Series {
		s.Shape = ShapeFor(i)
		if s.Shape == Overflow {
			s.Color = OverflowColor
			continue
		}
		s.Color = colors(i, s)
	}
	return m
}

// MarshalJSON implements json.Marshaler, adding the series color in
// CSS form.
func (s *Series) MarshalJSON() ([]byte, error) {
	type series Series
	return json.Marshal(struct {
		*series
		Color string `json:"backgroundColor"`
	}{(*series)(s), s.RGBA()})
}
