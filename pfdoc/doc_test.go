// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pfdoc

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/parflow/pfperf/internal/diff"
)

const fullDoc = `{
  "_id": {"$oid": "5f8927d9c0f3395acdf3c8d8"},
  "run_date": "2020-10-15 23:01:45",
  "run_information": {
    "system_information": {"hostname": "r2-node12.boisestate.edu"},
    "run_specifications": {
      "domain": "conus_tfg",
      "solver_config": "default",
      "processor_topology": "2 2 1",
      "timesteps": 10,
      "test_results": "PASS"
    }
  },
  "pfmetadata": {"parflow": {"build": {"version": "v3.9.0-24-g5f3c"}}},
  "timing_csv": {"Total Runtime": {"time_sec": "120.5"}}
}`

func TestDocumentFields(t *testing.T) {
	d, err := ParseDocument([]byte(fullDoc))
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name, have, want string
	}{
		{"ID", d.ID(), "5f8927d9c0f3395acdf3c8d8"},
		{"Hostname", d.Hostname(), "r2-node12.boisestate.edu"},
		{"Domain", d.Domain(), "conus_tfg"},
		{"SolverConfig", d.SolverConfig(), "default"},
		{"Topology", d.Topology(), "2 2 1"},
		{"Timesteps", d.Timesteps(), "10"},
		{"RunStatus", d.RunStatus(), "PASS"},
		{"Version", d.Version(), "v3.9.0-24-g5f3c"},
		{"RunDate", d.RunDate(), "2020-10-15 23:01:45"},
	} {
		if test.have != test.want {
			t.Errorf("%s() = %q, want %q", test.name, test.have, test.want)
		}
	}
	if !d.HasRunInformation() {
		t.Errorf("HasRunInformation() = false, want true")
	}

	r, err := d.Record()
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	want := &Record{
		ID:             "5f8927d9c0f3395acdf3c8d8",
		Hostname:       "r2-node12.boisestate.edu",
		Domain:         "conus_tfg",
		CoreCount:      4,
		Version:        "v3.9.0-24-g5f3c",
		RuntimeSeconds: 120.5,
		Topology:       "2 2 1",
		Timesteps:      "10",
		RunDate:        "2020-10-15 23:01:45",
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("Record() mismatch (-want +got):\n%s", diff)
	}
}

func TestOldFormatDocument(t *testing.T) {
	d, err := ParseDocument([]byte(`{
		"_id": {"$oid": "5f8927d9c0f3395acdf3c8d9"},
		"run_date": "2020-06-01",
		"pfmetadata": {"parflow": {"build": {"version": "v3.6.0-1-gabc"}}},
		"timing_csv": {"Total Runtime": {"time_sec": 30}}
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if d.HasRunInformation() {
		t.Errorf("HasRunInformation() = true, want false")
	}
	if sec, err := d.RuntimeSeconds(); err != nil || sec != 30 {
		t.Errorf("RuntimeSeconds() = %v, %v, want 30, nil", sec, err)
	}
	if _, err := d.Record(); !errors.Is(err, ErrMissingField) {
		t.Errorf("Record() error = %v, want ErrMissingField", err)
	}
}

func TestCoreCount(t *testing.T) {
	for _, test := range []struct {
		topology string
		want     int
		err      bool
	}{
		{`"1 1 1"`, 1, false},
		{`"4 2 1"`, 8, false},
		{`"2x2x2"`, 8, false},
		{`[3, 1, 1]`, 3, false},
		{`{"P": 2, "Q": 3, "R": 1}`, 6, false},
		{`16`, 16, false},
		{`""`, 0, true},
		{`"0 1 1"`, 0, true},
		{`"1.5 1 1"`, 0, true},
		{`"65536 32768 1"`, 0, true},
		{`"100000 100000 100000 100000"`, 0, true},
		{`[1e300, 1, 1]`, 0, true},
		{`"65536 32767 1"`, 65536 * 32767, false},
	} {
		t.Run(test.topology, func(t *testing.T) {
			d, err := ParseDocument([]byte(`{"run_information": {"run_specifications": {"processor_topology": ` + test.topology + `}}}`))
			if err != nil {
				t.Fatal(err)
			}
			n, err := d.CoreCount()
			if test.err {
				if err == nil {
					t.Fatalf("CoreCount() = %d, want error", n)
				}
				return
			}
			if err != nil || n != test.want {
				t.Fatalf("CoreCount() = %d, %v, want %d", n, err, test.want)
			}
		})
	}
}

func TestRuntimeSeconds(t *testing.T) {
	for _, test := range []struct {
		runtime string
		want    float64
		err     bool
	}{
		{`90`, 90, false},
		{`"90.5"`, 90.5, false},
		{`{"$numberInt": "0"}`, 0, false},
		{`"NaN"`, 0, true},
		{`"Inf"`, 0, true},
		{`"-Infinity"`, 0, true},
		{`{"$numberDouble": "NaN"}`, 0, true},
		{`{"$numberDouble": "Infinity"}`, 0, true},
		{`-5`, 0, true},
		{`"fast"`, 0, true},
	} {
		t.Run(test.runtime, func(t *testing.T) {
			d, err := ParseDocument([]byte(`{"timing_csv": {"Total Runtime": {"time_sec": ` + test.runtime + `}}}`))
			if err != nil {
				t.Fatal(err)
			}
			sec, err := d.RuntimeSeconds()
			if test.err {
				if err == nil {
					t.Fatalf("RuntimeSeconds() = %v, want error", sec)
				}
				return
			}
			if err != nil || sec != test.want {
				t.Fatalf("RuntimeSeconds() = %v, %v, want %v", sec, err, test.want)
			}
		})
	}
}

func TestSection(t *testing.T) {
	d, err := ParseDocument([]byte(fullDoc))
	if err != nil {
		t.Fatal(err)
	}
	data, err := d.Section(SectionTiming)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"Total Runtime\": {\n    \"time_sec\": \"120.5\"\n  }\n}"
	if delta := diff.Diff(want, string(data)); delta != "" {
		t.Errorf("Section(timing_csv) differs:\n%s", delta)
	}
	if data, err := d.Section("missing"); data != nil || err != nil {
		t.Errorf("Section(missing) = %q, %v, want nil, nil", data, err)
	}
}

func TestParseDocuments(t *testing.T) {
	docs, err := ParseDocuments([]byte(`[{"_id": {"$oid": "5f8927d9c0f3395acdf3c8d8"}}, {"run_date": "x"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if id := docs[1].EnsureID(); len(id) != IDLength {
		t.Errorf("EnsureID() = %q, want %d hex digits", id, IDLength)
	}
	if id := docs[0].EnsureID(); id != "5f8927d9c0f3395acdf3c8d8" {
		t.Errorf("EnsureID() = %q, want existing id", id)
	}
	if _, err := ParseDocuments([]byte(`{"a": `)); err == nil {
		t.Errorf("ParseDocuments(truncated) succeeded")
	}
}

func TestGroupByCores(t *testing.T) {
	recs := []*Record{
		{ID: "a", CoreCount: 16},
		{ID: "b", CoreCount: 1},
		{ID: "c", CoreCount: 16},
		{ID: "d", CoreCount: 4},
	}
	gs := GroupByCores(recs)
	var keys []string
	var ids []string
	for _, g := range gs {
		keys = append(keys, g.Key)
		for _, r := range g.Records {
			ids = append(ids, r.ID)
		}
	}
	if diff := cmp.Diff([]string{"1", "4", "16"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b", "d", "a", "c"}, ids); diff != "" {
		t.Errorf("record order mismatch (-want +got):\n%s", diff)
	}
	if gs.Len() != 4 {
		t.Errorf("Len() = %d, want 4", gs.Len())
	}
}

func TestGroupsJSONKeepsOrder(t *testing.T) {
	in := `{"8":[{"id":"x","cores":8,"version":"v1.0.0-a","runtime_sec":60}],"1":[],"4":[{"id":"y","cores":4,"version":"v1.0.0-a","runtime_sec":1}]}`
	var gs Groups
	if err := json.Unmarshal([]byte(in), &gs); err != nil {
		t.Fatal(err)
	}
	var keys []string
	for _, g := range gs {
		keys = append(keys, g.Key)
	}
	if diff := cmp.Diff([]string{"8", "1", "4"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	out, err := json.Marshal(gs)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != in {
		t.Errorf("Marshal = %s, want %s", out, in)
	}
	if err := json.Unmarshal([]byte(`["1"]`), &gs); err == nil || !strings.Contains(err.Error(), "expected object") {
		t.Errorf("Unmarshal(array) error = %v, want expected object", err)
	}
}
