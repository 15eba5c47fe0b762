// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Pfsave uploads ParFlow benchmark documents to a storage server.
//
// Usage:
//
//	pfsave [-v] [-noauth] [-server url] file...
//
// Each input file should contain one benchmark document, or a JSON
// array of them, in MongoDB extended JSON as written by the ParFlow
// performance test suite.
//
// Pfsave checks that every file parses, uploads the files to the
// specified server and prints a URL where the first document can be
// viewed.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/parflow/pfperf/pfdoc"
	"github.com/parflow/pfperf/storage"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	server  = flag.String("server", "http://localhost:8081", "upload documents to server at `url`")
	verbose = flag.Bool("v", false, "print verbose log messages")
	noauth  = flag.Bool("noauth", false, "do not authenticate with Google application default credentials")
)

// scope is the OAuth scope requested for uploads.
const scope = "https://www.googleapis.com/auth/userinfo.email"

// newTokenSource returns a token source for the application default
// credentials.
func newTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	return google.DefaultTokenSource(ctx, scope)
}

// check parses every file so a bad file fails before anything is
// uploaded. It returns the number of documents.
func check(files []string) (int, error) {
	n := 0
	for _, name := range files {
		data, err := ioutil.ReadFile(name)
		if err != nil {
			return 0, err
		}
		docs, err := pfdoc.ParseDocuments(data)
		if err != nil {
			return 0, fmt.Errorf("%s: %v", name, err)
		}
		n += len(docs)
	}
	return n, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage of pfsave:
	pfsave [flags] file...
`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("pfsave: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		log.Fatal("no files to upload")
	}
	ndocs, err := check(files)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	hc := http.DefaultClient
	if !*noauth {
		ts, err := newTokenSource(ctx)
		if err != nil {
			log.Fatalf("no credentials (use -noauth for servers without authentication): %v", err)
		}
		hc = oauth2.NewClient(ctx, ts)
	}
	client := &storage.Client{BaseURL: *server, HTTPClient: hc}

	start := time.Now()
	status, err := client.Upload(ctx, files...)
	if err != nil {
		log.Fatalf("upload failed: %v", err)
	}

	if *verbose {
		s := ""
		if len(files) != 1 {
			s = "s"
		}
		log.Printf("%d file%s (%d documents) uploaded in %.2f seconds as %s.", len(files), s, ndocs, time.Since(start).Seconds(), status.UploadID)
	}
	if status.ViewURL != "" {
		fmt.Printf("%s\n", status.ViewURL)
	}
}
