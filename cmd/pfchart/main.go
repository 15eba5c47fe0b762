// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Pfchart renders the runtime vs. version chart of one machine and
// domain from a storage server.
//
// Usage:
//
//	pfchart [-storage url] [-aliases file] [-partial] [-o file] [-summary] hostname domain
//
// The image format follows the extension of the -o file (png, svg,
// pdf, eps, jpg or tif). With -summary, per-version runtime
// statistics of every series are printed to standard output.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/parflow/pfperf/hostalias"
	"github.com/parflow/pfperf/series"
	"github.com/parflow/pfperf/storage"
	"gonum.org/v1/plot/vg"
)

var (
	storageURL = flag.String("storage", "http://localhost:8081", "storage server base `url`")
	aliases    = flag.String("aliases", "", "read machine names from the YAML `file`")
	partial    = flag.Bool("partial", false, "match any hostname containing the given one")
	output     = flag.String("o", "chart.png", "write the chart to `file`")
	width      = flag.Float64("width", 10, "image width in `inches`")
	height     = flag.Float64("height", 6, "image height in `inches`")
	summary    = flag.Bool("summary", false, "print runtime statistics")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage of pfchart:
	pfchart [flags] hostname domain
`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("pfchart: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
	}

	sel := storage.Selection{Hostname: flag.Arg(0), Domain: flag.Arg(1), Partial: *partial}
	if *aliases != "" {
		t, err := hostalias.LoadFile(*aliases)
		if err != nil {
			log.Fatal(err)
		}
		sel.Partial = sel.Partial || t.IsMachine(sel.Hostname)
	}

	client := &storage.Client{BaseURL: *storageURL}
	groups, err := client.Runs(context.Background(), sel)
	if err != nil {
		log.Fatalf("failed to fetch documents: %v", err)
	}
	m, err := series.Build(groups)
	if err != nil {
		log.Fatal(err)
	}
	series.Decorate(m, series.HashColors())
	switch {
	case m.Empty:
		log.Print("No documents found")
	case m.Len() == 0:
		log.Printf("No valid documents found, %d skipped", len(m.Skipped))
	}

	if err := writeChart(*output, m, vg.Length(*width)*vg.Inch, vg.Length(*height)*vg.Inch); err != nil {
		log.Fatal(err)
	}
	if *summary {
		if err := series.WriteSummaries(os.Stdout, series.Summarize(m)); err != nil {
			log.Fatal(err)
		}
	}
}

// writeChart renders m to the file name, in the format named by its
// extension.
func writeChart(name string, m *series.Model, w, h vg.Length) error {
	format := strings.TrimPrefix(filepath.Ext(name), ".")
	if format == "" {
		return fmt.Errorf("%s: no file extension to pick the image format", name)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := series.WriteImage(f, m, format, w, h); err != nil {
		f.Close()
		os.Remove(name)
		return fmt.Errorf("%s: %v", name, err)
	}
	return f.Close()
}
