// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/parflow/pfperf/storage"
)

func (a *App) hostnames(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	hosts, err := a.Source.Hostnames(ctx)
	if err != nil {
		errorf(ctx, "hostnames: %v", err)
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, storage.HostnamesResponse{Hostnames: hosts})
}

func (a *App) domains(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	var req storage.DomainsRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Hostname == "" {
		http.Error(w, "missing hostname", 400)
		return
	}
	domains, err := a.Source.Domains(ctx, req.Hostname, req.Partial)
	if err != nil {
		errorf(ctx, "domains of %q: %v", req.Hostname, err)
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, storage.DomainsResponse{Domains: domains})
}

func (a *App) runs(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	var req storage.RunsRequest
	if !readJSON(w, r, &req) {
		return
	}
	sel := req.Params
	if sel.Hostname == "" || sel.Domain == "" {
		http.Error(w, "missing hostname or runname", 400)
		return
	}
	gs, err := a.Source.Runs(ctx, sel)
	if err != nil {
		errorf(ctx, "runs of %+v: %v", sel, err)
		http.Error(w, err.Error(), 500)
		return
	}
	infof(ctx, "runs of %+v: %d records in %d groups", sel, gs.Len(), len(gs))
	writeJSON(w, gs)
}

func (a *App) document(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	var req storage.DocumentRequest
	if !readJSON(w, r, &req) {
		return
	}
	doc, err := a.Source.Document(ctx, req.ID)
	switch {
	case errors.Is(err, storage.ErrInvalidID):
		writeJSON(w, storage.ErrorMarker{Valid: false})
		return
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		errorf(ctx, "document %q: %v", req.ID, err)
		http.Error(w, err.Error(), 500)
		return
	}
	data, err := doc.MarshalExtJSON()
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// readJSON decodes the body of a POST request into v. On failure it
// writes an error response and returns false.
func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Method != http.MethodPost {
		http.Error(w, r.URL.Path+" must be called as a POST request", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "bad request: "+err.Error(), 400)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
