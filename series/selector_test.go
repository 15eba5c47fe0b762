// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package series

import (
	"context"
	"errors"
	"testing"

	"github.com/parflow/pfperf/pfdoc"
)

func TestSelectorDropsStaleResult(t *testing.T) {
	var sel Selector
	sel.Colors = HashColors()

	started := make(chan struct{})
	release := make(chan struct{})
	oldDone := make(chan error, 1)
	go func() {
		_, err := sel.Select(context.Background(), "old", func(ctx context.Context) (pfdoc.Groups, error) {
			close(started)
			<-release
			return manyGroups(3), nil
		})
		oldDone <- err
	}()
	<-started

	m, err := sel.Select(context.Background(), "new", func(ctx context.Context) (pfdoc.Groups, error) {
		return twoGroups(), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-oldDone; !errors.Is(err, ErrStale) {
		t.Errorf("superseded Select = %v, want ErrStale", err)
	}

	key, cur := sel.Current()
	if key != "new" || cur != m {
		t.Errorf("Current() = %q, %p, want new, %p", key, cur, m)
	}
	if cur.Len() != 2 {
		t.Errorf("current model has %d points, want 2", cur.Len())
	}
}

func TestSelectorCancelsPrevious(t *testing.T) {
	var sel Selector
	started := make(chan struct{})
	canceled := make(chan struct{})
	go sel.Select(context.Background(), "a", func(ctx context.Context) (pfdoc.Groups, error) {
		close(started)
		<-ctx.Done()
		close(canceled)
		return nil, ctx.Err()
	})
	<-started
	if _, err := sel.Select(context.Background(), "b", func(context.Context) (pfdoc.Groups, error) {
		return nil, nil
	}); err != nil {
		t.Fatal(err)
	}
	<-canceled
	if key, m := sel.Current(); key != "b" || m == nil || !m.Empty {
		t.Errorf("Current() = %q, %v, want b with an empty model", key, m)
	}
}

func TestSelectorFetchError(t *testing.T) {
	var sel Selector
	boom := errors.New("boom")
	_, err := sel.Select(context.Background(), "x", func(context.Context) (pfdoc.Groups, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Select = %v, want %v", err, boom)
	}
	if key, m := sel.Current(); key != "x" || m != nil {
		t.Errorf("Current() = %q, %v, want x, nil", key, m)
	}
}
