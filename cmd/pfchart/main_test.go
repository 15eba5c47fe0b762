// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/parflow/pfperf/pfdoc"
	"github.com/parflow/pfperf/series"
	"gonum.org/v1/plot/vg"
)

func TestWriteChart(t *testing.T) {
	m, err := series.Build(pfdoc.Groups{
		{Key: "2", Records: []*pfdoc.Record{{ID: "x", CoreCount: 2, Version: "v3.9.0", RuntimeSeconds: 90}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	series.Decorate(m, series.HashColors())
	dir := t.TempDir()

	png := filepath.Join(dir, "chart.png")
	if err := writeChart(png, m, 4*vg.Inch, 3*vg.Inch); err != nil {
		t.Fatal(err)
	}
	data, err := ioutil.ReadFile(png)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("%s is not a PNG file", png)
	}

	if err := writeChart(filepath.Join(dir, "chart"), m, 4*vg.Inch, 3*vg.Inch); err == nil {
		t.Errorf("writeChart without an extension succeeded")
	}
	bad := filepath.Join(dir, "chart.bogus")
	if err := writeChart(bad, m, 4*vg.Inch, 3*vg.Inch); err == nil {
		t.Errorf("writeChart to .bogus succeeded")
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Errorf("failed chart left %s behind", bad)
	}
}
