// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/parflow/pfperf/pfdoc"
	"github.com/parflow/pfperf/series"
	"github.com/parflow/pfperf/storage"
	"gonum.org/v1/plot/vg"
)

// Chart image size.
const (
	imageWidth  = 10 * vg.Inch
	imageHeight = 6 * vg.Inch
)

// selection returns the selection named by the host, domain and
// manual form values. Manually entered hostnames and machine names
// from the alias table match by substring.
func (a *App) selection(form url.Values) (sel storage.Selection, manual bool) {
	manual = form.Get("manual") != ""
	sel = storage.Selection{
		Hostname: strings.TrimSpace(form.Get("host")),
		Domain:   strings.TrimSpace(form.Get("domain")),
	}
	sel.Partial = manual || a.Aliases.IsMachine(sel.Hostname)
	return sel, manual
}

// complete reports whether sel names both a hostname and a domain.
func complete(sel storage.Selection) bool {
	return sel.Hostname != "" && sel.Domain != ""
}

// selectionQuery returns the form values naming sel.
func selectionQuery(sel storage.Selection, manual bool) url.Values {
	v := url.Values{"host": {sel.Hostname}, "domain": {sel.Domain}}
	if manual {
		v.Set("manual", "1")
	}
	return v
}

// fetch returns a FetchFunc loading the runs of sel.
func (a *App) fetch(sel storage.Selection) series.FetchFunc {
	return func(ctx context.Context) (pfdoc.Groups, error) {
		return a.Source.Runs(ctx, sel)
	}
}

// model returns the chart model of sel for the session making r,
// reusing the session's current model if it belongs to sel.
func (a *App) model(ctx context.Context, w http.ResponseWriter, r *http.Request, sel storage.Selection) (*series.Model, error) {
	s := a.selector(w, r)
	if key, m := s.Current(); key == sel.Key() && m != nil {
		return m, nil
	}
	return s.Select(ctx, sel.Key(), a.fetch(sel))
}

type graphData struct {
	Manual    bool
	Hostnames []string
	Domains   []string
	Host      string
	Domain    string

	// Message reports an incomplete form.
	Message string
	// Error reports a failed fetch.
	Error       string
	NoDocuments bool
	// NoValid is set when every fetched record was skipped.
	NoValid bool

	Title     string
	ImageURL  string
	ManualURL string
	Legend    []*series.Series
	Points    []pointRow
	Summaries []series.Summary
	Skipped   []series.Skipped
}

// pointRow is one plotted point in the table under the chart.
type pointRow struct {
	Label   string
	Version string
	Minutes string
	ID      string
	Tooltip string
	URL     string
}

// graph serves the chart page. Without a complete selection it
// serves the form: a hostname list and, once a hostname is chosen,
// its domains. With manual=1 the form takes free text instead.
func (a *App) graph(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	sel, manual := a.selection(r.Form)
	data := &graphData{Manual: manual, Host: sel.Hostname, Domain: sel.Domain}
	if manual {
		data.ManualURL = "/graph"
	} else {
		data.ManualURL = "/graph?manual=1"
	}

	if !manual {
		hosts, err := a.Source.Hostnames(ctx)
		if err != nil {
			errorf(ctx, "hostnames: %v", err)
			data.Error = "failed to fetch hostnames: " + err.Error()
			render(w, r, graphTmpl, data)
			return
		}
		data.Hostnames = a.Aliases.Normalize(hosts)
		if sel.Hostname != "" {
			domains, err := a.Source.Domains(ctx, sel.Hostname, sel.Partial)
			if err != nil {
				errorf(ctx, "domains of %q: %v", sel.Hostname, err)
				data.Error = "failed to fetch domains: " + err.Error()
				render(w, r, graphTmpl, data)
				return
			}
			data.Domains = domains
			if !contains(domains, sel.Domain) {
				// The domain belongs to a previously chosen hostname.
				sel.Domain, data.Domain = "", ""
			}
		}
	}

	if !complete(sel) {
		if r.Form.Get("submit") != "" {
			if manual {
				data.Message = "Please enter a hostname and domain"
			} else {
				data.Message = "Please select a hostname and domain"
			}
		}
		render(w, r, graphTmpl, data)
		return
	}

	m, err := a.selector(w, r).Select(ctx, sel.Key(), a.fetch(sel))
	switch {
	case errors.Is(err, series.ErrStale):
		// A newer selection from this session replaced this one.
		infof(ctx, "dropped superseded selection %q/%q", sel.Hostname, sel.Domain)
	case err != nil:
		errorf(ctx, "runs of %q/%q: %v", sel.Hostname, sel.Domain, err)
		data.Error = "failed to fetch documents: " + err.Error()
	case m.Empty:
		data.NoDocuments = true
	case m.Len() == 0:
		data.NoValid = true
		data.Skipped = m.Skipped
	default:
		fillChart(data, m, sel, manual)
	}
	render(w, r, graphTmpl, data)
}

func fillChart(data *graphData, m *series.Model, sel storage.Selection, manual bool) {
	q := selectionQuery(sel, manual)
	data.Title = series.Title
	data.ImageURL = "/graph/image?" + q.Encode()
	data.Legend = m.Series
	data.Summaries = series.Summarize(m)
	data.Skipped = m.Skipped
	for i, s := range m.Series {
		for j, p := range s.Points {
			h := series.Hit{Series: i, Point: j}
			lines, err := m.Tooltip(h)
			if err != nil {
				continue
			}
			pq := selectionQuery(sel, manual)
			pq.Set("series", strconv.Itoa(i))
			pq.Set("point", strconv.Itoa(j))
			data.Points = append(data.Points, pointRow{
				Label:   s.Label,
				Version: p.Category,
				Minutes: p.Minutes(),
				ID:      p.Ref.ID,
				Tooltip: strings.Join(lines, "\n"),
				URL:     "/graph/point?" + pq.Encode(),
			})
		}
	}
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// graphImage serves the chart of a selection as PNG, or as SVG with
// format=svg.
func (a *App) graphImage(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	sel, _ := a.selection(r.Form)
	if !complete(sel) {
		http.Error(w, "missing host or domain", 400)
		return
	}
	format := r.Form.Get("format")
	contentType := map[string]string{"": "image/png", "png": "image/png", "svg": "image/svg+xml"}[format]
	if contentType == "" {
		http.Error(w, "unsupported image format "+strconv.Quote(format), 400)
		return
	}
	if format == "" {
		format = "png"
	}

	m, err := a.model(ctx, w, r, sel)
	if err != nil {
		errorf(ctx, "runs of %q/%q: %v", sel.Hostname, sel.Domain, err)
		http.Error(w, "failed to fetch documents: "+err.Error(), fetchStatus(err))
		return
	}
	w.Header().Set("Content-Type", contentType)
	if err := series.WriteImage(w, m, format, imageWidth, imageHeight); err != nil {
		errorf(ctx, "render: %v", err)
		http.Error(w, err.Error(), 500)
	}
}

// graphPoint redirects a click on a chart point to the viewer of its
// document.
func (a *App) graphPoint(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	sel, manual := a.selection(r.Form)
	back := "/graph?" + selectionQuery(sel, manual).Encode()
	if !complete(sel) {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	var h series.Hit
	var err1, err2 error
	h.Series, err1 = strconv.Atoi(r.Form.Get("series"))
	h.Point, err2 = strconv.Atoi(r.Form.Get("point"))
	if err1 != nil || err2 != nil {
		http.Error(w, "bad series or point index", 400)
		return
	}

	m, err := a.model(ctx, w, r, sel)
	if err != nil {
		errorf(ctx, "runs of %q/%q: %v", sel.Hostname, sel.Domain, err)
		http.Error(w, "failed to fetch documents: "+err.Error(), fetchStatus(err))
		return
	}
	// A hit outside m panics in pfdebug builds, and net/http drops
	// the connection. Other builds log it and redirect back.
	id, ok := m.Resolve([]series.Hit{h})
	if !ok {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/lookup?id="+url.QueryEscape(id), http.StatusSeeOther)
}

// fetchStatus returns the HTTP status for a failed selection.
func fetchStatus(err error) int {
	if errors.Is(err, series.ErrStale) {
		return http.StatusConflict
	}
	return http.StatusBadGateway
}

// chartResponse is the JSON form of a chart.
type chartResponse struct {
	Title     string           `json:"title"`
	XLabel    string           `json:"xLabel"`
	YLabel    string           `json:"yLabel"`
	Model     *series.Model    `json:"chart"`
	Summaries []series.Summary `json:"summaries,omitempty"`
}

// chartJSON serves the chart model of a selection as JSON, for
// clients that draw the chart themselves. It makes the selection the
// session's current one.
func (a *App) chartJSON(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	sel, _ := a.selection(r.Form)
	if !complete(sel) {
		http.Error(w, "missing host or domain", 400)
		return
	}
	m, err := a.selector(w, r).Select(ctx, sel.Key(), a.fetch(sel))
	if err != nil {
		errorf(ctx, "runs of %q/%q: %v", sel.Hostname, sel.Domain, err)
		http.Error(w, "failed to fetch documents: "+err.Error(), fetchStatus(err))
		return
	}
	writeJSON(w, r, &chartResponse{
		Title:     series.Title,
		XLabel:    series.XLabel,
		YLabel:    series.YLabel,
		Model:     m,
		Summaries: series.Summarize(m),
	})
}

// ResolveRequest is the body of a POST to /api/resolve: the
// selection the client is showing and the points under the pointer.
type ResolveRequest struct {
	Selection storage.Selection `json:"docParams"`
	Hits      []series.Hit      `json:"hits"`
}

// ResolveResponse is the reply to /api/resolve. ID is empty if the
// pointer was not over a point.
type ResolveResponse struct {
	ID      string   `json:"id"`
	Tooltip []string `json:"tooltip,omitempty"`
}

// resolve maps a pointer event on a chart from /api/chart to the
// record under it. The chart must still be the session's current one.
func (a *App) resolve(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	if r.Method != http.MethodPost {
		http.Error(w, "/api/resolve must be called as a POST request", http.StatusMethodNotAllowed)
		return
	}
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	key, m := a.selector(w, r).Current()
	if key != req.Selection.Key() || m == nil {
		http.Error(w, series.ErrStale.Error(), http.StatusConflict)
		return
	}
	var resp ResolveResponse
	// As in graphPoint, a hit outside m panics in pfdebug builds.
	if id, ok := m.Resolve(req.Hits); ok {
		resp.ID = id
		if lines, err := m.Tooltip(req.Hits[0]); err == nil {
			resp.Tooltip = lines
		}
	}
	infof(ctx, "resolve %v: %q", req.Hits, resp.ID)
	writeJSON(w, r, &resp)
}

func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		errorf(requestContext(r), "%v", err)
		http.Error(w, err.Error(), 500)
	}
}
