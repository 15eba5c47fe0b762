// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"bytes"
	"net/http"

	"github.com/google/safehtml/template"
)

// layout is shared by every page. A page defines "content".
const layout = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Parflow Performance Benchmarks</title>
</head>
<body>
<nav><a href="/">Parflow Performance Benchmarks</a> | <a href="/graph">Graph by Hostname</a> | <a href="/lookup">Lookup by ObjectID</a></nav>
{{template "content" .}}
</body>
</html>
`

var indexTmpl = template.Must(template.Must(template.New("layout").Parse(layout)).Parse(`
{{define "content"}}
<h1>Parflow Performance Benchmarks</h1>
<p>This site queries benchmark data taken from the Parflow Performance Testing Suite
and displays it in a convenient way.</p>
<h2><a href="/graph">Graph by Hostname</a></h2>
<p>A graph of benchmark results plotted by runtime vs. version number and
separated into a series by the core count associated with each run.</p>
<h2><a href="/lookup">Lookup by ObjectID</a></h2>
<p>Detailed run information for a single benchmark, as if you selected a single
run from the graph.</p>
{{end}}
`))

var graphTmpl = template.Must(template.Must(template.New("layout").Parse(layout)).Parse(`
{{define "content"}}
<h1>Graph by Hostname</h1>
<form action="/graph" method="get">
{{if .Manual}}
<input type="hidden" name="manual" value="1">
<label>Hostname <input type="text" name="host" value="{{.Host}}" placeholder="ex. r2.boisestate.edu"></label>
<label>Domain <input type="text" name="domain" value="{{.Domain}}" placeholder="ex. conus_tfg"></label>
{{else}}
<label>Hostname <select name="host">
<option value="">Select a hostname</option>
{{range .Hostnames}}<option value="{{.}}"{{if eq . $.Host}} selected{{end}}>{{.}}</option>
{{end}}</select></label>
{{if .Host}}<label>Domain <select name="domain">
<option value="">Select a domain</option>
{{range .Domains}}<option value="{{.}}"{{if eq . $.Domain}} selected{{end}}>{{.}}</option>
{{end}}</select></label>{{end}}
{{end}}
<input type="submit" name="submit" value="Submit">
</form>
<p><a href="{{.ManualURL}}">{{if .Manual}}Choose from the list{{else}}Enter hostname and domain manually{{end}}</a></p>
{{with .Message}}<p class="error">{{.}}</p>{{end}}
{{with .Error}}<p class="error">{{.}}</p>{{end}}
{{if .NoDocuments}}<p class="error">No documents found</p>{{end}}
{{if .NoValid}}<p class="error">No valid documents found</p>{{end}}
{{if .ImageURL}}
<h2>Selected Configuration</h2>
<p>Hostname: {{.Host}}<br>Domain: {{.Domain}}</p>
<img src="{{.ImageURL}}" alt="{{.Title}}">
<h3>Series</h3>
<table>
<tr><th>Core Count</th><th>Marker</th><th>Color</th><th>Runs</th></tr>
{{range .Legend}}<tr><td>{{.Label}}</td><td>{{.Shape}}</td><td>{{.RGBA}}</td><td>{{len .Points}}</td></tr>
{{end}}</table>
<h3>Runs</h3>
<table>
<tr><th>Core Count</th><th>Version</th><th>Runtime (Minutes)</th><th>ObjectID</th></tr>
{{range .Points}}<tr title="{{.Tooltip}}"><td>{{.Label}}</td><td>{{.Version}}</td><td>{{.Minutes}}</td><td><a href="{{.URL}}">{{.ID}}</a></td></tr>
{{end}}</table>
<h3>Summary</h3>
<table>
<tr><th>Core Count</th><th>Version</th><th>Runs</th><th>Mean</th><th>Min</th><th>Max</th><th>Std. Dev.</th></tr>
{{range .Summaries}}<tr><td>{{.Label}}</td><td>{{.Category}}</td><td>{{.N}}</td><td>{{printf "%.3f" .Mean}}</td><td>{{printf "%.3f" .Min}}</td><td>{{printf "%.3f" .Max}}</td><td>{{printf "%.3f" .StdDev}}</td></tr>
{{end}}</table>
{{end}}
{{with .Skipped}}
<h3>Skipped documents</h3>
<ul>
{{range .}}<li>{{.ID}} ({{.Key}}): {{.Reason}}</li>
{{end}}</ul>
{{end}}
{{end}}
`))

var lookupTmpl = template.Must(template.Must(template.New("layout").Parse(layout)).Parse(`
{{define "content"}}
<h1>Lookup by ObjectID</h1>
<form action="/lookup" method="get">
<label>ObjectID <input type="text" name="id" value="{{.ID}}" maxlength="24" placeholder="ex. 5f8927d9c0f3395acdf3c8d8"></label>
<input type="submit" name="submit" value="Submit">
</form>
{{with .Message}}<p class="error">{{.}}</p>{{end}}
{{with .Error}}<p class="error">{{.}}</p>{{end}}
{{with .Fields}}
<h2>Relevant Information</h2>
<table>
{{range .}}<tr><th>{{.Name}}</th><td>{{.Value}}</td></tr>
{{end}}</table>
{{end}}
{{range .Sections}}
<h2>{{.Name}}</h2>
<pre>{{.Body}}</pre>
{{end}}
{{end}}
`))

// render executes t with data and writes the page.
func render(w http.ResponseWriter, r *http.Request, t *template.Template, data interface{}) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		errorf(requestContext(r), "%v", err)
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
