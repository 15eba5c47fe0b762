// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"errors"
	"net/http"
	"strings"

	"github.com/parflow/pfperf/pfdoc"
	"github.com/parflow/pfperf/storage"
)

type lookupData struct {
	ID string
	// Message reports a malformed form entry.
	Message string
	// Error reports a failed lookup.
	Error    string
	Fields   []field
	Sections []section
}

type field struct {
	Name, Value string
}

type section struct {
	Name, Body string
}

// lookup serves the document viewer. The id is checked for length
// only; the store decides whether it is a valid ObjectId.
func (a *App) lookup(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	data := &lookupData{ID: strings.TrimSpace(r.Form.Get("id"))}
	if data.ID == "" && r.Form.Get("submit") == "" {
		render(w, r, lookupTmpl, data)
		return
	}
	if len(data.ID) != pfdoc.IDLength {
		data.Message = "Please enter a valid ObjectId"
		render(w, r, lookupTmpl, data)
		return
	}

	doc, err := a.Source.Document(ctx, data.ID)
	switch {
	case errors.Is(err, storage.ErrInvalidID):
		data.Error = "Invalid ObjectId"
	case errors.Is(err, storage.ErrNotFound):
		data.Error = "No document with ObjectId " + data.ID
	case err != nil:
		errorf(ctx, "document %s: %v", data.ID, err)
		data.Error = "failed to fetch document: " + err.Error()
	default:
		if err := fillDocument(data, doc); err != nil {
			errorf(ctx, "document %s: %v", data.ID, err)
			http.Error(w, err.Error(), 500)
			return
		}
	}
	render(w, r, lookupTmpl, data)
}

// fillDocument adds the relevant fields and the raw sections of doc
// to data.
func fillDocument(data *lookupData, doc *pfdoc.Document) error {
	data.Fields = []field{
		{"ObjectID", data.ID},
		{"Hostname", doc.Hostname()},
		{"Domain", doc.Domain()},
		{"Solver Config", doc.SolverConfig()},
		{"Run Date", doc.RunDate()},
		{"Version Number", doc.Version()},
		{"Processor Topology", doc.Topology()},
		{"Timesteps", doc.Timesteps()},
		{"Runtime (in seconds)", doc.String(pfdoc.PathRuntime...)},
		{"Run Status", doc.RunStatus()},
	}
	if !doc.HasRunInformation() {
		// Older documents only carry the run date, version and timing.
		data.Fields = []field{data.Fields[0], data.Fields[4], data.Fields[5], data.Fields[8]}
	}
	for _, name := range []string{pfdoc.SectionRunInformation, pfdoc.SectionMetadata, pfdoc.SectionTiming} {
		body, err := doc.Section(name)
		if err != nil {
			return err
		}
		if body == nil {
			continue
		}
		data.Sections = append(data.Sections, section{name, string(body)})
	}
	return nil
}
