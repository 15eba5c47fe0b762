// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Pfexport copies the runtimes of one machine and domain from a
// storage server to an InfluxDB bucket.
//
// Usage:
//
//	pfexport [-storage url] [-influx url] [-org org] [-bucket bucket] [-token_secret name] [-partial] hostname domain
//
// The InfluxDB token is read from the Secret Manager secret version
// named by -token_secret, or else from the INFLUX_TOKEN environment
// variable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/parflow/pfperf/influx"
	"github.com/parflow/pfperf/series"
	"github.com/parflow/pfperf/storage"
)

var (
	storageURL  = flag.String("storage", "http://localhost:8081", "storage server base `url`")
	influxURL   = flag.String("influx", "http://localhost:8086", "InfluxDB server `url`")
	org         = flag.String("org", "parflow", "InfluxDB `organization`")
	bucket      = flag.String("bucket", "perf", "InfluxDB `bucket`")
	tokenSecret = flag.String("token_secret", "", "Secret Manager secret version `name` holding the InfluxDB token")
	partial     = flag.Bool("partial", false, "match any hostname containing the given one")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage of pfexport:
	pfexport [flags] hostname domain
`)
	flag.PrintDefaults()
	os.Exit(2)
}

// influxToken returns the InfluxDB token.
func influxToken(ctx context.Context) (string, error) {
	if *tokenSecret == "" {
		if t := os.Getenv("INFLUX_TOKEN"); t != "" {
			return t, nil
		}
		return "", fmt.Errorf("no token: set -token_secret or INFLUX_TOKEN")
	}
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: *tokenSecret})
	if err != nil {
		return "", fmt.Errorf("accessing %s: %w", *tokenSecret, err)
	}
	return strings.TrimSpace(string(resp.GetPayload().GetData())), nil
}

func main() {
	log.SetPrefix("pfexport: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
	}
	ctx := context.Background()

	token, err := influxToken(ctx)
	if err != nil {
		log.Fatal(err)
	}

	sel := storage.Selection{Hostname: flag.Arg(0), Domain: flag.Arg(1), Partial: *partial}
	client := &storage.Client{BaseURL: *storageURL}
	groups, err := client.Runs(ctx, sel)
	if err != nil {
		log.Fatalf("failed to fetch documents: %v", err)
	}
	m, err := series.Build(groups)
	if err != nil {
		log.Fatal(err)
	}
	switch {
	case m.Empty:
		log.Fatal("No documents found")
	case m.Len() == 0:
		log.Fatalf("No valid documents found, %d skipped", len(m.Skipped))
	}

	e := &influx.Exporter{URL: *influxURL, Token: token, Org: *org, Bucket: *bucket}
	n, err := e.Export(ctx, sel, series.Decorate(m, series.HashColors()))
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("exported %d points to %s", n, *influxURL)
}
