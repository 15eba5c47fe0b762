// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/context"
)

func TestMemFS(t *testing.T) {
	ctx := context.Background()
	fs := NewMemFS()

	meta := map[string]string{"uploadid": "19700101.1"}
	w, err := fs.NewWriter(ctx, "uploads/19700101.1/0.json", meta)
	if err != nil {
		t.Fatal(err)
	}
	meta["uploadid"] = "changed"
	fmt.Fprint(w, `{"run_date": "2020"}`)
	if got := fs.Files(); len(got) != 0 {
		t.Errorf("Files() before Close = %v", got)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("x")); err == nil {
		t.Errorf("Write after Close succeeded")
	}

	aborted, _ := fs.NewWriter(ctx, "uploads/19700101.1/1.json", nil)
	fmt.Fprint(aborted, "partial")
	aborted.CloseWithError(errors.New("client went away"))

	if diff := cmp.Diff([]string{"uploads/19700101.1/0.json"}, fs.Files()); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
	data, gotMeta, ok := fs.Content("uploads/19700101.1/0.json")
	if !ok || string(data) != `{"run_date": "2020"}` || gotMeta["uploadid"] != "19700101.1" {
		t.Errorf("Content = %q, %v, %v", data, gotMeta, ok)
	}
}
