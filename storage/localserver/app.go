// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Localserver runs an HTTP server for benchmark document storage.
//
// Usage:
//
//	localserver [-addr address] [-dsn file.db | -mongo uri] [-archive dir] [-view_url_base url]
//
// By default documents are kept in an in-memory sqlite database.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/parflow/pfperf/storage"
	"github.com/parflow/pfperf/storage/app"
	"github.com/parflow/pfperf/storage/db"
	_ "github.com/parflow/pfperf/storage/db/sqlite3"
	"github.com/parflow/pfperf/storage/fs"
	"github.com/parflow/pfperf/storage/fs/local"
	"github.com/parflow/pfperf/storage/mongodb"
	"golang.org/x/net/context"
)

var (
	addr        = flag.String("addr", ":8080", "serve HTTP on `address`")
	viewURLBase = flag.String("view_url_base", "", "/upload response with `URL` for viewing")
	dsn         = flag.String("dsn", ":memory:", "sqlite `dsn`")
	mongoURI    = flag.String("mongo", "", "use the MongoDB deployment at `uri` instead of sqlite")
	mongoDB     = flag.String("mongo_db", mongodb.DefaultDatabase, "MongoDB `database`")
	mongoColl   = flag.String("mongo_collection", mongodb.DefaultCollection, "MongoDB `collection`")
	archive     = flag.String("archive", "", "archive uploaded files under `dir` instead of in memory")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage of localserver:
	localserver [flags]
`)
	flag.PrintDefaults()
	os.Exit(2)
}

// store is a document store usable by the storage server.
type store interface {
	storage.Source
	storage.Inserter
}

func openStore() (store, error) {
	if *mongoURI == "" {
		return db.OpenSQL("sqlite3", *dsn)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return mongodb.Open(ctx, *mongoURI, *mongoDB, *mongoColl)
}

func main() {
	log.SetPrefix("localserver: ")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 {
		flag.Usage()
	}

	s, err := openStore()
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	var files fs.FS = fs.NewMemFS()
	if *archive != "" {
		files = local.NewFS(*archive)
	}

	app := &app.App{
		Source:      s,
		Inserter:    s,
		FS:          files,
		ViewURLBase: *viewURLBase,
		Auth:        func(http.ResponseWriter, *http.Request) (string, error) { return "", nil },
	}
	app.RegisterOnMux(http.DefaultServeMux)

	log.Printf("Listening on %s", *addr)

	log.Fatal(http.ListenAndServe(*addr, nil))
}
