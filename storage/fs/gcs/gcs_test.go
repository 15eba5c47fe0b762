// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcs

import (
	"testing"

	"golang.org/x/net/context"
	"google.golang.org/api/option"
)

func TestNewFS(t *testing.T) {
	ctx := context.Background()
	f, err := NewFS(ctx, "pfperf-uploads", option.WithoutAuthentication(), option.WithEndpoint("http://localhost:1/storage/v1/"))
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	w, err := f.NewWriter(ctx, "uploads/x.json", map[string]string{"uploadid": "x"})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	// Nothing is sent before the first write, so aborting is free.
	if err := w.CloseWithError(context.Canceled); err != nil {
		t.Logf("CloseWithError: %v", err)
	}
}
