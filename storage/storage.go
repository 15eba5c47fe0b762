// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storage defines the interface to a store of ParFlow
// benchmark documents and provides a client for the storage server.
package storage

import (
	"errors"

	"github.com/parflow/pfperf/pfdoc"
	"golang.org/x/net/context"
)

var (
	// ErrNotFound is returned when no document has the requested id.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidID is returned when a document id is not a valid
	// ObjectID.
	ErrInvalidID = errors.New("invalid ObjectId")
)

// A Selection names the runs of one domain on one machine.
type Selection struct {
	Hostname string `json:"hostname"`
	Domain   string `json:"runname"`
	// Partial makes Hostname match any hostname containing it.
	Partial bool `json:"wilcard,omitempty"`
}

// Key returns a string that identifies s.
func (s Selection) Key() string {
	k := s.Hostname + "\x00" + s.Domain
	if s.Partial {
		k += "\x00*"
	}
	return k
}

// A Source is a store of benchmark documents.
type Source interface {
	// Hostnames returns every distinct hostname, sorted.
	Hostnames(ctx context.Context) ([]string, error)

	// Domains returns the distinct domains run on host, sorted.
	// If partial is set, host matches any hostname containing it.
	Domains(ctx context.Context, host string, partial bool) ([]string, error)

	// Runs returns the records of the selected runs grouped by core
	// count, in ascending core count order. Documents that cannot
	// be flattened into a record are left out.
	Runs(ctx context.Context, sel Selection) (pfdoc.Groups, error)

	// Document returns the document with the given id. It returns
	// ErrInvalidID if id is malformed and ErrNotFound if there is
	// no such document.
	Document(ctx context.Context, id string) (*pfdoc.Document, error)
}

// ValidID reports whether id has the form of a hex ObjectID.
func ValidID(id string) bool {
	if len(id) != pfdoc.IDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		switch c := id[i]; {
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// An Inserter stores new documents.
type Inserter interface {
	// Insert stores docs as one upload, assigning an ObjectID to
	// documents without an _id. It returns the upload ID and the
	// document ids in order.
	Insert(ctx context.Context, docs []*pfdoc.Document) (uploadID string, ids []string, err error)
}
