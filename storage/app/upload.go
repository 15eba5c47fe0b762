// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"sort"
	"time"

	"github.com/parflow/pfperf/pfdoc"
	"github.com/parflow/pfperf/storage"
	"golang.org/x/net/context"
)

// maxFileSize bounds a single uploaded file.
const maxFileSize = 32 << 20

const uploadForm = `<!DOCTYPE html>
<html>
<head><title>Upload benchmark documents</title></head>
<body>
<form method="post" enctype="multipart/form-data">
<p>Extended JSON files, one document or an array of documents each:</p>
<input type="file" name="file" multiple>
<input type="hidden" name="commit" value="1">
<input type="submit" value="Upload">
</form>
</body>
</html>
`

// upload is the handler for the /upload endpoint. It serves a form on
// GET requests and processes files in a multipart/x-form-data POST
// request.
func (a *App) upload(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	user := ""
	if a.Auth != nil {
		var err error
		user, err = a.Auth(w, r)
		switch {
		case err == ErrResponseWritten:
			return
		case err != nil:
			errorf(ctx, "%v", err)
			http.Error(w, err.Error(), 500)
			return
		}
	}

	if r.Method == http.MethodGet {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, uploadForm)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "/upload must be called as a POST request", http.StatusMethodNotAllowed)
		return
	}

	// We use r.MultipartReader instead of r.ParseForm to avoid
	// storing uploaded data in memory.
	mr, err := r.MultipartReader()
	if err != nil {
		errorf(ctx, "%v", err)
		http.Error(w, err.Error(), 500)
		return
	}

	result, err := a.processUpload(ctx, user, mr)
	if err != nil {
		errorf(ctx, "%v", err)
		status := 500
		if errors.Is(err, errBadUpload) {
			status = 400
		}
		http.Error(w, err.Error(), status)
		return
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		errorf(ctx, "%v", err)
		http.Error(w, err.Error(), 500)
		return
	}
}

var errBadUpload = errors.New("bad upload")

// uploadedFile is one file part of an upload.
type uploadedFile struct {
	name string
	data []byte
}

// processUpload takes one or more files from a multipart.Reader,
// stores their documents, and archives the raw files. Nothing is
// stored unless every file parses.
func (a *App) processUpload(ctx context.Context, user string, mr *multipart.Reader) (*storage.UploadStatus, error) {
	var files []uploadedFile
	var docs []*pfdoc.Document
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch name := p.FormName(); name {
		case "file":
		case "commit":
			continue
		case "abort":
			return nil, fmt.Errorf("%w: aborted by client", errBadUpload)
		default:
			return nil, fmt.Errorf("%w: unexpected field %q", errBadUpload, name)
		}

		data, err := ioutil.ReadAll(io.LimitReader(p, maxFileSize+1))
		if err != nil {
			return nil, err
		}
		if len(data) > maxFileSize {
			return nil, fmt.Errorf("%w: %s is larger than %d bytes", errBadUpload, p.FileName(), maxFileSize)
		}
		fdocs, err := pfdoc.ParseDocuments(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", errBadUpload, p.FileName(), err)
		}
		files = append(files, uploadedFile{name: p.FileName(), data: data})
		docs = append(docs, fdocs...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files", errBadUpload)
	}

	uploadid, ids, err := a.Inserter.Insert(ctx, docs)
	if err != nil {
		return nil, err
	}
	status := &storage.UploadStatus{UploadID: uploadid, DocumentIDs: ids}
	if a.ViewURLBase != "" && len(ids) > 0 {
		status.ViewURL = a.ViewURLBase + ids[0]
	}

	for i, f := range files {
		meta := fileMetadata(ctx, uploadid, i, user, f.name)
		status.FileIDs = append(status.FileIDs, meta["fileid"])
		if a.FS == nil {
			continue
		}
		if err := a.archive(ctx, meta, f.data); err != nil {
			// The documents are already stored.
			errorf(ctx, "archive %s: %v", meta["fileid"], err)
		}
	}
	infof(ctx, "upload %s: %d files, %d documents", uploadid, len(files), len(ids))
	return status, nil
}

// archive writes the raw file to the FS, preceded by its metadata in
// "key: value" lines.
func (a *App) archive(ctx context.Context, meta map[string]string, data []byte) error {
	fw, err := a.FS.NewWriter(ctx, fmt.Sprintf("uploads/%s.json", meta["fileid"]), meta)
	if err != nil {
		return err
	}

	var keys []string
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(fw, "%s: %s\n", k, meta[k]); err != nil {
			fw.CloseWithError(err)
			return err
		}
	}
	fmt.Fprintln(fw)
	if _, err := fw.Write(data); err != nil {
		fw.CloseWithError(err)
		return err
	}
	return fw.Close()
}

// fileMetadata returns the extra metadata fields associated with an
// uploaded file.
func fileMetadata(_ context.Context, uploadid string, filenum int, user, filename string) map[string]string {
	m := map[string]string{
		"uploadid":   uploadid,
		"fileid":     fmt.Sprintf("%s/%d", uploadid, filenum),
		"uploadtime": time.Now().UTC().Format(time.RFC3339),
	}
	if user != "" {
		m["by"] = user
	}
	if filename != "" {
		m["filename"] = filename
	}
	return m
}
