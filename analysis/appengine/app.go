// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package appengine contains an AppEngine app for the ParFlow
// benchmark viewer.
package appengine

import (
	"log"
	"net/http"
	"os"

	"github.com/parflow/pfperf/analysis/app"
	"github.com/parflow/pfperf/hostalias"
	"github.com/parflow/pfperf/storage"
)

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Panicf("%s environment variable not set.", k)
	}
	return v
}

// newApp returns the viewer. STORAGE_URL_BASE must be set in app.yaml
// to the storage server; ALIASES_FILE optionally names the machine
// table deployed with the app.
func newApp() *app.App {
	a := &app.App{Source: &storage.Client{BaseURL: mustGetenv("STORAGE_URL_BASE")}}
	if name := os.Getenv("ALIASES_FILE"); name != "" {
		t, err := hostalias.LoadFile(name)
		if err != nil {
			log.Panicf("loading machine names: %v", err)
		}
		a.Aliases = t
	}
	return a
}

func init() {
	newApp().RegisterOnMux(http.DefaultServeMux)
}
