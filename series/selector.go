// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package series

import (
	"context"
	"errors"
	"sync"

	"github.com/parflow/pfperf/pfdoc"
)

// ErrStale is returned by Selector.Select when a newer selection
// started before this one finished. The result has been dropped.
var ErrStale = errors.New("selection superseded")

// A FetchFunc loads the grouped records of one selection.
type FetchFunc func(ctx context.Context) (pfdoc.Groups, error)

// A Selector tracks the chart model of the most recent selection.
// Starting a new selection cancels the fetch of the previous one, and
// a result that arrives after it was superseded is discarded, so
// Current never goes back to an older selection.
//
// A Selector is safe for concurrent use.
type Selector struct {
	// Colors is passed to Decorate for every model.
	Colors Colorer

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	key    string
	model  *Model
}

// Select fetches and builds the model for the selection named key,
// replacing the current model. It returns ErrStale if another Select
// started in the meantime.
func (s *Selector) Select(ctx context.Context, key string, fetch FetchFunc) (*Model, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	// The previous model belongs to another selection.
	s.key, s.model = key, nil
	s.mu.Unlock()

	groups, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil, ErrStale
	}
	s.cancel = nil
	if err != nil {
		return nil, err
	}
	m, err := Build(groups)
	if err != nil {
		return nil, err
	}
	s.model = Decorate(m, s.Colors)
	return s.model, nil
}

// Current returns the key and model of the latest completed
// selection. The model is nil while a selection is in flight or if
// the latest one failed.
func (s *Selector) Current() (key string, m *Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key, s.model
}
