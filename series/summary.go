// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package series

import (
	"io"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
)

// A Summary aggregates the runtimes of one series at one version.
type Summary struct {
	Label    string
	Category string
	N        int
	// Mean, Min, Max and StdDev are in minutes. StdDev is 0 for
	// a single run.
	Mean, Min, Max, StdDev float64
}

// Summarize returns per-series, per-version runtime statistics for
// m, ordered by series and then by first appearance of the version.
func Summarize(m *Model) []Summary {
	var labels, cats []string
	var mins []float64
	for _, s := range m.Series {
		for _, p := range s.Points {
			labels = append(labels, s.Label)
			cats = append(cats, p.Category)
			mins = append(mins, p.Value)
		}
	}
	if len(mins) == 0 {
		return nil
	}

	tab := new(table.Builder).
		Add("series", labels).
		Add("version", cats).
		Add("minutes", mins).
		Done()
	g := ggstat.Agg("series", "version")(
		ggstat.AggCount("n"),
		ggstat.AggMean("minutes"),
		ggstat.AggMin("minutes"),
		ggstat.AggMax("minutes"),
		aggStdDev("minutes"),
	).F(tab)

	var out []Summary
	for _, gid := range g.Tables() {
		t := g.Table(gid)
		series := t.MustColumn("series").([]string)
		versions := t.MustColumn("version").([]string)
		n := t.MustColumn("n").([]int)
		mean := t.MustColumn("mean minutes").([]float64)
		min := t.MustColumn("min minutes").([]float64)
		max := t.MustColumn("max minutes").([]float64)
		sd := t.MustColumn("stddev minutes").([]float64)
		for i := range series {
			out = append(out, Summary{
				Label:    series[i],
				Category: versions[i],
				N:        n[i],
				Mean:     mean[i],
				Min:      min[i],
				Max:      max[i],
				StdDev:   sd[i],
			})
		}
	}
	return out
}

// aggStdDev is a ggstat.Aggregator computing the sample standard
// deviation of col into "stddev <col>".
func aggStdDev(col string) ggstat.Aggregator {
	return func(input table.Grouping, b *table.Builder) {
		sds := make([]float64, 0, len(input.Tables()))
		for _, gid := range input.Tables() {
			xs := input.Table(gid).MustColumn(col).([]float64)
			sd := 0.0
			if len(xs) > 1 {
				sd = stats.StdDev(xs)
			}
			sds = append(sds, sd)
		}
		b.Add("stddev "+col, sds)
	}
}

// WriteSummaries writes sums to w as an aligned text table.
func WriteSummaries(w io.Writer, sums []Summary) error {
	if len(sums) == 0 {
		return nil
	}
	var (
		labels, cats           []string
		ns                     []int
		means, mins, maxs, sds []float64
	)
	for _, s := range sums {
		labels = append(labels, s.Label)
		cats = append(cats, s.Category)
		ns = append(ns, s.N)
		means = append(means, s.Mean)
		mins = append(mins, s.Min)
		maxs = append(maxs, s.Max)
		sds = append(sds, s.StdDev)
	}
	tab := new(table.Builder).
		Add("cores", labels).
		Add("version", cats).
		Add("runs", ns).
		Add("mean", means).
		Add("min", mins).
		Add("max", maxs).
		Add("stddev", sds).
		Done()
	return table.Fprint(w, tab, "%s", "%s", "%d", "%.3f", "%.3f", "%.3f", "%.3f")
}
