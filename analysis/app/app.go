// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app implements the performance data viewer: a landing
// page, the runtime vs. version chart for one machine and domain,
// and a document viewer. Combine an App with a storage.Source to get
// an HTTP server.
package app

import (
	"net/http"
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/parflow/pfperf/hostalias"
	"github.com/parflow/pfperf/series"
	"github.com/parflow/pfperf/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// App manages the viewer logic. Construct an App instance using a
// literal with a Source and call RegisterOnMux to connect it with an
// HTTP server.
type App struct {
	// Source supplies hostnames, domains, runs and documents.
	Source storage.Source

	// Aliases folds compute node hostnames into machine names.
	// It may be nil.
	Aliases *hostalias.Table

	// Colors picks series colors. If nil, colors are random on
	// every selection.
	Colors series.Colorer

	// MaxSessions bounds the number of browser sessions whose
	// current chart is kept. Zero means defaultMaxSessions.
	MaxSessions int

	mu       sync.Mutex
	sessions *lru.Cache // session id -> *series.Selector
}

const (
	defaultMaxSessions = 1000
	sessionCookie      = "pfperf_session"
)

// RegisterOnMux registers the app's URLs on mux.
func (a *App) RegisterOnMux(mux *http.ServeMux) {
	mux.HandleFunc("/", a.index)
	mux.HandleFunc("/graph", a.graph)
	mux.HandleFunc("/graph/image", a.graphImage)
	mux.HandleFunc("/graph/point", a.graphPoint)
	mux.HandleFunc("/api/chart", a.chartJSON)
	mux.HandleFunc("/api/resolve", a.resolve)
	mux.HandleFunc("/lookup", a.lookup)
}

// selector returns the selector of the browser session making r,
// starting a session if there is none.
func (a *App) selector(w http.ResponseWriter, r *http.Request) *series.Selector {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sessions == nil {
		n := a.MaxSessions
		if n <= 0 {
			n = defaultMaxSessions
		}
		a.sessions = lru.New(n)
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		if s, ok := a.sessions.Get(c.Value); ok {
			return s.(*series.Selector)
		}
	}
	id := primitive.NewObjectID().Hex()
	s := &series.Selector{Colors: a.Colors}
	a.sessions.Add(id, s)
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/", HttpOnly: true})
	return s
}

// index serves the landing page.
func (a *App) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	render(w, r, indexTmpl, nil)
}
