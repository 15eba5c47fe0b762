// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mongodb implements storage.Source on top of a MongoDB
// collection of benchmark documents.
package mongodb

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/parflow/pfperf/pfdoc"
	"github.com/parflow/pfperf/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/net/context"
)

// Default names of the database and collection holding the documents.
const (
	DefaultDatabase   = "parflow"
	DefaultCollection = "runs"
)

// A Store reads and writes benchmark documents in one collection.
// It is safe for concurrent use.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to the MongoDB deployment at uri and returns a Store
// for the named database and collection. Empty names select the
// defaults.
func Open(ctx context.Context, uri, database, collection string) (*Store, error) {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: ping %s: %v", redact(uri), err)
	}
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Close disconnects from the server.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func dotted(path []string) string { return strings.Join(path, ".") }

// hostFilter matches documents by hostname, exactly or by substring.
func hostFilter(host string, partial bool) bson.E {
	if partial {
		return bson.E{Key: dotted(pfdoc.PathHostname), Value: primitive.Regex{Pattern: regexp.QuoteMeta(host)}}
	}
	return bson.E{Key: dotted(pfdoc.PathHostname), Value: host}
}

// selectionFilter returns the query document for sel.
func selectionFilter(sel storage.Selection) bson.D {
	return bson.D{
		hostFilter(sel.Hostname, sel.Partial),
		{Key: dotted(pfdoc.PathDomain), Value: sel.Domain},
	}
}

// Hostnames implements storage.Source.
func (s *Store) Hostnames(ctx context.Context) ([]string, error) {
	vals, err := s.coll.Distinct(ctx, dotted(pfdoc.PathHostname), bson.D{})
	if err != nil {
		return nil, err
	}
	return sortedStrings(vals), nil
}

// Domains implements storage.Source.
func (s *Store) Domains(ctx context.Context, host string, partial bool) ([]string, error) {
	vals, err := s.coll.Distinct(ctx, dotted(pfdoc.PathDomain), bson.D{hostFilter(host, partial)})
	if err != nil {
		return nil, err
	}
	return sortedStrings(vals), nil
}

// sortedStrings returns the non-empty strings among vals, sorted.
func sortedStrings(vals []interface{}) []string {
	out := []string{}
	for _, v := range vals {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// Runs implements storage.Source. Documents are read in insertion
// order.
func (s *Store) Runs(ctx context.Context, sel storage.Selection) (pfdoc.Groups, error) {
	opts := options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}})
	cur, err := s.coll.Find(ctx, selectionFilter(sel), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []*pfdoc.Record
	for cur.Next(ctx) {
		var d bson.D
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		doc := &pfdoc.Document{D: d}
		r, err := doc.Record()
		if err != nil {
			log.Printf("mongodb: skipping document %s: %v", doc.ID(), err)
			continue
		}
		records = append(records, r)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return pfdoc.GroupByCores(records), nil
}

// Document implements storage.Source.
func (s *Store) Document(ctx context.Context, id string) (*pfdoc.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", storage.ErrInvalidID, id)
	}
	var d bson.D
	err = s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &pfdoc.Document{D: d}, nil
}

// Insert implements storage.Inserter. The upload ID is a fresh
// ObjectID; it is not recorded in the documents.
func (s *Store) Insert(ctx context.Context, docs []*pfdoc.Document) (string, []string, error) {
	uploadID := primitive.NewObjectID().Hex()
	if len(docs) == 0 {
		return uploadID, nil, nil
	}
	ids := make([]string, len(docs))
	batch := make([]interface{}, len(docs))
	for i, d := range docs {
		ids[i] = d.EnsureID()
		batch[i] = d.D
	}
	if _, err := s.coll.InsertMany(ctx, batch); err != nil {
		return "", nil, err
	}
	return uploadID, ids, nil
}

// redact hides the password in a connection string.
func redact(uri string) string {
	i := strings.Index(uri, "://")
	j := strings.LastIndex(uri, "@")
	if i < 0 || j < i {
		return uri
	}
	userinfo := uri[i+3 : j]
	if k := strings.IndexByte(userinfo, ':'); k >= 0 {
		userinfo = userinfo[:k] + ":xxxxx"
	}
	return uri[:i+3] + userinfo + uri[j:]
}
