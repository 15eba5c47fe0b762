// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package local

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/net/context"
)

func TestNewWriter(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs := NewFS(dir)

	w, err := fs.NewWriter(ctx, "dir/file", map[string]string{"key": "value"})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if _, err := w.Write([]byte("hello world\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	have, err := os.ReadFile(filepath.Join(dir, "dir/file"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(have) != "hello world\n" {
		t.Errorf("file content = %q, want %q", have, "hello world\n")
	}

	w, err = fs.NewWriter(ctx, "dir/aborted", nil)
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("partial"))
	if err := w.CloseWithError(errors.New("abort")); err != nil {
		t.Fatalf("CloseWithError: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "dir/aborted")); !os.IsNotExist(err) {
		t.Errorf("aborted file still exists: %v", err)
	}
}
