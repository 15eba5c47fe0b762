// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package influx

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/parflow/pfperf/pfdoc"
	"github.com/parflow/pfperf/series"
	"github.com/parflow/pfperf/storage"
)

var sel = storage.Selection{Hostname: "cheyenne", Domain: "conus_tfg", Partial: true}

func testModel(t *testing.T) *series.Model {
	t.Helper()
	m, err := series.Build(pfdoc.Groups{
		{Key: "1", Records: []*pfdoc.Record{{ID: strings.Repeat("a", 24), Version: "v3.9.0", RuntimeSeconds: 120}}},
		{Key: "4", Records: []*pfdoc.Record{{ID: strings.Repeat("b", 24), Version: "v3.9.0-2-gabc", RuntimeSeconds: 300, Topology: "2 2 1"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestPoints(t *testing.T) {
	ts := time.Unix(1600000000, 0)
	pts := Points(sel, testModel(t), ts)
	if len(pts) != 2 {
		t.Fatalf("got %d points, want 2", len(pts))
	}
	var lines []string
	for _, p := range pts {
		lines = append(lines, strings.TrimSpace(write.PointToLineProtocol(p, time.Second)))
	}
	for i, want := range [][]string{
		{"runtime,cores=1,domain=conus_tfg,hostname=cheyenne,id=aaaaaaaaaaaaaaaaaaaaaaaa,version=3.9.0 ", "minutes=2", " 1600000000"},
		{"runtime,cores=4,domain=conus_tfg,hostname=cheyenne,id=bbbbbbbbbbbbbbbbbbbbbbbb,topology=2\\ 2\\ 1,version=3.9.0 ", "minutes=5", " 1600000000"},
	} {
		for _, w := range want {
			if !strings.Contains(lines[i], w) {
				t.Errorf("point %d = %q, missing %q", i, lines[i], w)
			}
		}
	}
}

func TestExport(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/write" {
			http.NotFound(w, r)
			return
		}
		if q := r.URL.Query(); q.Get("org") != "parflow" || q.Get("bucket") != "perf" {
			t.Errorf("write to org %q bucket %q", q.Get("org"), q.Get("bucket"))
		}
		if auth := r.Header.Get("Authorization"); auth != "Token secret" {
			t.Errorf("Authorization = %q", auth)
		}
		body, _ := ioutil.ReadAll(r.Body)
		got = append(got, strings.Split(strings.TrimSpace(string(body)), "\n")...)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	e := &Exporter{
		URL:    srv.URL,
		Token:  "secret",
		Org:    "parflow",
		Bucket: "perf",
		Now:    func() time.Time { return time.Unix(0, 0) },
	}
	n, err := e.Export(context.Background(), sel, testModel(t))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || len(got) != 2 {
		t.Fatalf("Export wrote %d points, server got %d lines", n, len(got))
	}
	sort.Strings(got)
	if !strings.HasPrefix(got[0], "runtime,cores=1,") || !strings.HasPrefix(got[1], "runtime,cores=4,") {
		t.Errorf("server got %q", got)
	}

	empty, err := series.Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	if n, err := e.Export(context.Background(), sel, empty); n != 0 || err != nil {
		t.Errorf("Export(empty) = %d, %v", n, err)
	}
}
