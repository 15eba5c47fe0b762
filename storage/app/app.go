// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app implements the benchmark document storage server.
// Combine an App with a document store and filesystem to get an HTTP
// server.
package app

import (
	"errors"
	"net/http"

	"github.com/parflow/pfperf/storage"
	"github.com/parflow/pfperf/storage/fs"
)

// App manages the storage server logic. Construct an App instance
// using a literal with a Source and call RegisterOnMux to connect it
// with an HTTP server.
type App struct {
	// Source answers queries.
	Source storage.Source

	// Inserter stores uploaded documents. If it is nil, /upload
	// is not served.
	Inserter storage.Inserter

	// FS archives the raw uploaded files. It may be nil.
	FS fs.FS

	// ViewURLBase is prepended to a document id to form the URL
	// returned by /upload for viewing it.
	ViewURLBase string

	// Auth obtains the username for the request.
	// If necessary, it can write its own response (e.g. a
	// redirect) and return ErrResponseWritten.
	Auth func(http.ResponseWriter, *http.Request) (string, error)
}

// ErrResponseWritten can be returned by App.Auth to abort the normal /upload handling.
var ErrResponseWritten = errors.New("response written")

// RegisterOnMux registers the app's URLs on mux.
func (a *App) RegisterOnMux(mux *http.ServeMux) {
	mux.HandleFunc("/gethostnames", a.hostnames)
	mux.HandleFunc("/getdomainsbyhostname", a.domains)
	mux.HandleFunc("/getdocumentsbyhostnamedomain", a.runs)
	mux.HandleFunc("/getdocumentbyid", a.document)
	if a.Inserter != nil {
		mux.HandleFunc("/upload", a.upload)
	}
}
