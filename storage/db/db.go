// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db provides the high-level database interface for the
// storage app. Documents are stored as extended JSON blobs next to
// the columns used to select them.
package db

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"text/template"
	"time"

	"github.com/parflow/pfperf/pfdoc"
	"github.com/parflow/pfperf/storage"
	"golang.org/x/net/context"
)

// DB is a high-level interface to a database for the storage
// app. It's safe for concurrent use by multiple goroutines.
// DB implements storage.Source.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	lastUpload     *sql.Stmt
	insertUpload   *sql.Stmt
	insertRecord   *sql.Stmt
	selectHosts    *sql.Stmt
	selectDomains  *sql.Stmt
	selectDomainsP *sql.Stmt
	selectRuns     *sql.Stmt
	selectRunsP    *sql.Stmt
	selectDocument *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Uploads (
	UploadID VARCHAR(20) PRIMARY KEY,
	Day VARCHAR(8),
	Num BIGINT UNSIGNED
);
CREATE TABLE IF NOT EXISTS Records (
	Seq {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	RecordID VARCHAR(24) NOT NULL UNIQUE,
	UploadID VARCHAR(20),
	Hostname VARCHAR(255),
	Domain VARCHAR(255),
	Cores BIGINT,
	RunDate VARCHAR(64),
	Content {{if .sqlite3}}BLOB{{else}}LONGBLOB{{end}},
{{if not .sqlite3}}
	Index (Hostname, Domain),
{{end}}
	FOREIGN KEY (UploadID) REFERENCES Uploads(UploadID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS RecordsHostnameDomain ON Records(Hostname, Domain);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
// INSTR is used for partial hostname matches because it exists in
// both MySQL and SQLite and needs no escaping.
func (db *DB) prepareStatements() error {
	for _, p := range []struct {
		stmt **sql.Stmt
		q    string
	}{
		{&db.lastUpload, "SELECT COALESCE(MAX(Num), 0) FROM Uploads WHERE Day = ?"},
		{&db.insertUpload, "INSERT INTO Uploads(UploadID, Day, Num) VALUES (?, ?, ?)"},
		{&db.insertRecord, "INSERT INTO Records(RecordID, UploadID, Hostname, Domain, Cores, RunDate, Content) VALUES (?, ?, ?, ?, ?, ?, ?)"},
		{&db.selectHosts, "SELECT DISTINCT Hostname FROM Records WHERE Hostname <> '' ORDER BY Hostname"},
		{&db.selectDomains, "SELECT DISTINCT Domain FROM Records WHERE Hostname = ? AND Domain <> '' ORDER BY Domain"},
		{&db.selectDomainsP, "SELECT DISTINCT Domain FROM Records WHERE INSTR(Hostname, ?) > 0 AND Domain <> '' ORDER BY Domain"},
		{&db.selectRuns, "SELECT RecordID, Content FROM Records WHERE Hostname = ? AND Domain = ? ORDER BY Seq"},
		{&db.selectRunsP, "SELECT RecordID, Content FROM Records WHERE INSTR(Hostname, ?) > 0 AND Domain = ? ORDER BY Seq"},
		{&db.selectDocument, "SELECT Content FROM Records WHERE RecordID = ?"},
	} {
		var err error
		if *p.stmt, err = db.sql.Prepare(p.q); err != nil {
			return fmt.Errorf("prepare %q: %v", p.q, err)
		}
	}
	return nil
}

// now is a hook for testing
var now = time.Now

// An Upload is a collection of documents that share an upload ID.
// The documents become visible when Commit is called.
type Upload struct {
	// ID is the upload ID, of the form YYYYMMDD.N.
	ID string

	// db is the underlying database that this upload is going to.
	db *DB
	// tx is the transaction used by the upload.
	tx *sql.Tx
}

// NewUpload returns an upload for storing new documents.
// IDs are assigned per day in increasing order.
func (db *DB) NewUpload(ctx context.Context) (*Upload, error) {
	day := now().UTC().Format("20060102")

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	var num int64
	if err := tx.Stmt(db.lastUpload).QueryRow(day).Scan(&num); err != nil {
		tx.Rollback()
		return nil, err
	}
	num++
	id := fmt.Sprintf("%s.%d", day, num)
	if _, err := tx.Stmt(db.insertUpload).Exec(id, day, num); err != nil {
		tx.Rollback()
		return nil, err
	}
	return &Upload{ID: id, db: db, tx: tx}, nil
}

// InsertDocument inserts a single document in an existing upload. A
// document without an _id is given a new ObjectID. It returns the
// document's id.
func (u *Upload) InsertDocument(doc *pfdoc.Document) (string, error) {
	id := strings.ToLower(doc.EnsureID())
	if !storage.ValidID(id) {
		return "", fmt.Errorf("%w: %q", storage.ErrInvalidID, id)
	}
	content, err := doc.MarshalExtJSON()
	if err != nil {
		return "", err
	}
	// Documents whose topology can't be read are stored anyway; they
	// are left out of charts when read back.
	cores, _ := doc.CoreCount()
	if _, err := u.tx.Stmt(u.db.insertRecord).Exec(id, u.ID, doc.Hostname(), doc.Domain(), cores, doc.RunDate(), content); err != nil {
		return "", fmt.Errorf("insert document %s: %v", id, err)
	}
	return id, nil
}

// Commit attempts to commit the upload.
func (u *Upload) Commit() error {
	return u.tx.Commit()
}

// Abort attempts to abort the upload.
func (u *Upload) Abort() error {
	return u.tx.Rollback()
}

// Hostnames implements storage.Source.
func (db *DB) Hostnames(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, db.selectHosts)
}

// Domains implements storage.Source.
func (db *DB) Domains(ctx context.Context, host string, partial bool) ([]string, error) {
	if partial {
		return queryStrings(ctx, db.selectDomainsP, host)
	}
	return queryStrings(ctx, db.selectDomains, host)
}

func queryStrings(ctx context.Context, stmt *sql.Stmt, args ...interface{}) ([]string, error) {
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Runs implements storage.Source.
func (db *DB) Runs(ctx context.Context, sel storage.Selection) (pfdoc.Groups, error) {
	stmt := db.selectRuns
	if sel.Partial {
		stmt = db.selectRunsP
	}
	rows, err := stmt.QueryContext(ctx, sel.Hostname, sel.Domain)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []*pfdoc.Record
	for rows.Next() {
		var id string
		var content []byte
		if err := rows.Scan(&id, &content); err != nil {
			return nil, err
		}
		doc, err := pfdoc.ParseDocument(content)
		if err == nil {
			var r *pfdoc.Record
			if r, err = doc.Record(); err == nil {
				records = append(records, r)
				continue
			}
		}
		log.Printf("db: skipping document %s: %v", id, err)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pfdoc.GroupByCores(records), nil
}

// Document implements storage.Source.
func (db *DB) Document(ctx context.Context, id string) (*pfdoc.Document, error) {
	if !storage.ValidID(id) {
		return nil, fmt.Errorf("%w: %q", storage.ErrInvalidID, id)
	}
	var content []byte
	err := db.selectDocument.QueryRowContext(ctx, strings.ToLower(id)).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return pfdoc.ParseDocument(content)
}

// CountUploads returns the number of uploads in the database.
func (db *DB) CountUploads() (int, error) {
	var uploads int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Uploads").Scan(&uploads)
	return uploads, err
}

// CountRecords returns the number of documents in the database.
func (db *DB) CountRecords() (int, error) {
	var n int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Records").Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{
		db.lastUpload, db.insertUpload, db.insertRecord,
		db.selectHosts, db.selectDomains, db.selectDomainsP,
		db.selectRuns, db.selectRunsP, db.selectDocument,
	} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}

// Insert implements storage.Inserter using a single Upload.
func (db *DB) Insert(ctx context.Context, docs []*pfdoc.Document) (string, []string, error) {
	u, err := db.NewUpload(ctx)
	if err != nil {
		return "", nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		id, err := u.InsertDocument(d)
		if err != nil {
			u.Abort()
			return "", nil, err
		}
		ids = append(ids, id)
	}
	if err := u.Commit(); err != nil {
		return "", nil, err
	}
	return u.ID, ids, nil
}
