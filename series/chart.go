// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package series

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Chart titles, matching the web view.
const (
	Title  = "Parflow Runtime vs. Version"
	XLabel = "Version Number"
	YLabel = "Runtime (Minutes)"
)

const pointRad = 6

// Render draws m as a scatter plot: versions on a nominal x axis,
// runtime in minutes on y, one glyph style per series.
func Render(m *Model) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = Title
	pl.X.Label.Text = XLabel
	pl.Y.Label.Text = YLabel
	pl.Legend.Top = true
	pl.Legend.Left = false

	if m.Empty {
		pl.Title.Text = Title + " (no documents found)"
		return pl, nil
	}
	if m.Len() == 0 {
		pl.Title.Text = Title + " (no valid documents)"
		return pl, nil
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	xIndex := make(map[string]int, len(m.Categories))
	for i, c := range m.Categories {
		xIndex[c] = i
	}
	for _, s := range m.Series {
		if len(s.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Points))
		for i, p := range s.Points {
			x, ok := xIndex[p.Category]
			if !ok {
				return nil, fmt.Errorf("series %q: version %q not on the x axis", s.Label, p.Category)
			}
			xys[i] = plotter.XY{X: float64(x), Y: p.Value}
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("series %q: %v", s.Label, err)
		}
		sc.GlyphStyle = draw.GlyphStyle{
			Color:  s.Color,
			Radius: vg.Points(pointRad),
			Shape:  Glyph(s.Shape),
		}
		pl.Add(sc)
		pl.Legend.Add(s.Label, sc)
	}
	pl.NominalX(m.Categories...)
	pl.X.Tick.Label.Rotation = -math.Pi / 8
	pl.X.Tick.Label.YAlign = draw.YTop
	pl.X.Tick.Label.XAlign = draw.XLeft
	if pl.Y.Min > 0 {
		pl.Y.Min = 0
	}
	return pl, nil
}

// WriteImage renders m and writes it to w in the given format
// ("png", "svg", "pdf", ...) at width x height.
func WriteImage(w io.Writer, m *Model, format string, width, height vg.Length) error {
	pl, err := Render(m)
	if err != nil {
		return err
	}
	wt, err := pl.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// Glyph returns the glyph drawer for shape.
func Glyph(shape Shape) draw.GlyphDrawer {
	switch shape {
	case Square:
		return draw.BoxGlyph{}
	case Star:
		return StarGlyph{}
	case Triangle:
		return draw.PyramidGlyph{}
	case RoundedSquare:
		return RoundedBoxGlyph{}
	case RotatedSquare:
		return DiamondGlyph{}
	case Circle:
		return draw.CircleGlyph{}
	}
	return CrossGlyph{}
}

const (
	cosπover4 = vg.Length(.707106781202420)
)

// CrossGlyph draws a heavy X. It marks overflow series.
type CrossGlyph struct{}

// DrawGlyph implements the draw.GlyphDrawer interface.
func (CrossGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	c.SetLineStyle(draw.LineStyle{Color: sty.Color, Width: vg.Points(2)})
	r := sty.Radius * cosπover4
	p := make(vg.Path, 0, 2)
	p.Move(vg.Point{X: pt.X - r, Y: pt.Y - r})
	p.Line(vg.Point{X: pt.X + r, Y: pt.Y + r})
	c.Stroke(p)
	p = p[:0]
	p.Move(vg.Point{X: pt.X - r, Y: pt.Y + r})
	p.Line(vg.Point{X: pt.X + r, Y: pt.Y - r})
	c.Stroke(p)
}

// StarGlyph draws a filled five-pointed star.
type StarGlyph struct{}

// DrawGlyph implements the draw.GlyphDrawer interface.
func (StarGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	const points = 5
	inner := sty.Radius * 0.45
	poly := make([]vg.Point, 0, 2*points)
	for i := 0; i < 2*points; i++ {
		r := sty.Radius
		if i%2 == 1 {
			r = inner
		}
		θ := math.Pi/2 + float64(i)*math.Pi/points
		poly = append(poly, vg.Point{
			X: pt.X + r*vg.Length(math.Cos(θ)),
			Y: pt.Y + r*vg.Length(math.Sin(θ)),
		})
	}
	c.FillPolygon(sty.Color, poly)
}

// DiamondGlyph draws a filled square rotated by 45 degrees.
type DiamondGlyph struct{}

// DrawGlyph implements the draw.GlyphDrawer interface.
func (DiamondGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	r := sty.Radius
	c.FillPolygon(sty.Color, []vg.Point{
		{X: pt.X, Y: pt.Y + r},
		{X: pt.X + r, Y: pt.Y},
		{X: pt.X, Y: pt.Y - r},
		{X: pt.X - r, Y: pt.Y},
	})
}

// RoundedBoxGlyph draws a filled square with rounded corners.
type RoundedBoxGlyph struct{}

// DrawGlyph implements the draw.GlyphDrawer interface.
func (RoundedBoxGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	r := sty.Radius * cosπover4
	k := r / 3 // corner radius
	var p vg.Path
	p.Move(vg.Point{X: pt.X - r + k, Y: pt.Y - r})
	p.Line(vg.Point{X: pt.X + r - k, Y: pt.Y - r})
	p.Arc(vg.Point{X: pt.X + r - k, Y: pt.Y - r + k}, k, -math.Pi/2, math.Pi/2)
	p.Line(vg.Point{X: pt.X + r, Y: pt.Y + r - k})
	p.Arc(vg.Point{X: pt.X + r - k, Y: pt.Y + r - k}, k, 0, math.Pi/2)
	p.Line(vg.Point{X: pt.X - r + k, Y: pt.Y + r})
	p.Arc(vg.Point{X: pt.X - r + k, Y: pt.Y + r - k}, k, math.Pi/2, math.Pi/2)
	p.Line(vg.Point{X: pt.X - r, Y: pt.Y - r + k})
	p.Arc(vg.Point{X: pt.X - r + k, Y: pt.Y - r + k}, k, math.Pi, math.Pi/2)
	p.Close()
	c.SetColor(sty.Color)
	c.Fill(p)
}
