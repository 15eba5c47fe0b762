// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package influx exports chart models to InfluxDB, so runtimes can be
// watched on dashboards next to other performance data.
package influx

import (
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/parflow/pfperf/series"
	"github.com/parflow/pfperf/storage"
	"golang.org/x/net/context"
)

// Measurement is the InfluxDB measurement runtimes are written to.
const Measurement = "runtime"

// An Exporter writes points to one InfluxDB bucket.
type Exporter struct {
	URL    string
	Token  string
	Org    string
	Bucket string

	// Now returns the timestamp of exported points. If nil,
	// time.Now is used.
	Now func() time.Time
}

// Points returns the InfluxDB points for m, one per plotted run. The
// record id is a tag, so exporting a model twice overwrites nothing
// but its own points.
func Points(sel storage.Selection, m *series.Model, ts time.Time) []*write.Point {
	var pts []*write.Point
	for _, s := range m.Series {
		for _, p := range s.Points {
			tags := map[string]string{
				"hostname": sel.Hostname,
				"domain":   sel.Domain,
				"cores":    s.Key,
				"version":  p.Category,
				"id":       p.Ref.ID,
			}
			if p.Ref.Topology != "" {
				tags["topology"] = p.Ref.Topology
			}
			fields := map[string]interface{}{
				"minutes": p.Value,
			}
			pts = append(pts, influxdb2.NewPoint(Measurement, tags, fields, ts))
		}
	}
	return pts
}

// Export writes the points of m to the bucket. It returns the number
// of points written.
func (e *Exporter) Export(ctx context.Context, sel storage.Selection, m *series.Model) (int, error) {
	if m.Len() == 0 {
		return 0, nil
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	pts := Points(sel, m, now())

	client := influxdb2.NewClient(e.URL, e.Token)
	defer client.Close()
	if err := client.WriteAPIBlocking(e.Org, e.Bucket).WritePoint(ctx, pts...); err != nil {
		return 0, fmt.Errorf("writing to %s: %v", e.URL, err)
	}
	return len(pts), nil
}
