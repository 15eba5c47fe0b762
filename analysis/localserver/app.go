// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Localserver runs an HTTP server for viewing ParFlow benchmark
// results.
//
// Usage:
//
//	localserver [-addr address] [-storage url] [-aliases file] [-stable_colors]
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/parflow/pfperf/analysis/app"
	"github.com/parflow/pfperf/hostalias"
	"github.com/parflow/pfperf/series"
	"github.com/parflow/pfperf/storage"
)

var (
	addr         = flag.String("addr", "localhost:8080", "serve HTTP on `address`")
	storageURL   = flag.String("storage", "http://localhost:8081", "storage server base `url`")
	aliases      = flag.String("aliases", "", "read machine names from the YAML `file`")
	stableColors = flag.Bool("stable_colors", false, "derive series colors from their labels instead of picking them at random")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage of localserver:
	localserver [flags]
`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("localserver: ")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 {
		flag.Usage()
	}

	app := &app.App{Source: &storage.Client{BaseURL: *storageURL}}
	if *aliases != "" {
		t, err := hostalias.LoadFile(*aliases)
		if err != nil {
			log.Fatal(err)
		}
		app.Aliases = t
	}
	if *stableColors {
		app.Colors = series.HashColors()
	}
	app.RegisterOnMux(http.DefaultServeMux)

	log.Printf("Listening on %s", *addr)

	log.Fatal(http.ListenAndServe(*addr, nil))
}
