// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package importer

import (
	"sync"

	"github.com/petar-djukic/go-autoref/pkg/types"
)

type memoEntry struct {
	sym types.Symbol
	err error
}

// MemoStats counts lookups served by a Memo.
type MemoStats struct {
	Hits    int
	Misses  int
	Entries int
}

// Memo caches Import results, successes and failures alike, for its
// lifetime. Entries are never evicted; the key space is the set of distinct
// strings ever looked up.
type Memo struct {
	im *Importer

	mu      sync.RWMutex
	entries map[string]memoEntry
	hits    int
	misses  int
}

// NewMemo wraps im with a cache.
func NewMemo(im *Importer) *Memo {
	return &Memo{im: im, entries: make(map[string]memoEntry)}
}

// Import returns the cached result for path, importing it on first use.
func (m *Memo) Import(path string) (types.Symbol, error) {
	m.mu.RLock()
	e, ok := m.entries[path]
	m.mu.RUnlock()
	if ok {
		m.mu.Lock()
		m.hits++
		m.mu.Unlock()
		return e.sym, e.err
	}

	sym, err := m.im.Import(path)

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[path]; ok {
		// Another caller finished first; keep its entry.
		m.hits++
		return e.sym, e.err
	}
	m.misses++
	m.entries[path] = memoEntry{sym: sym, err: err}
	return sym, err
}

// Lookup is Import with every error, including ErrMalformedPath, reduced
// to a miss.
func (m *Memo) Lookup(path string) (types.Symbol, bool) {
	sym, err := m.Import(path)
	return sym, err == nil
}

// Stats returns a snapshot of the cache counters.
func (m *Memo) Stats() MemoStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MemoStats{Hits: m.hits, Misses: m.misses, Entries: len(m.entries)}
}
