// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package autoref defines the public interface for go-autoref, a
// documentation post-processor that links backtick code spans naming Go
// symbols to their API reference.
package autoref

import (
	"errors"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-autoref/internal/rewrite"
	"github.com/petar-djukic/go-autoref/internal/symbols"
	"github.com/petar-djukic/go-autoref/pkg/types"
)

// MetaKey is the page metadata key listing extra reference sources for a
// single page, as import paths or dotted symbol paths.
const MetaKey = "additional_go_references"

// ErrInvalidConfig is returned by New when a default reference source is
// malformed or cannot be resolved.
var ErrInvalidConfig = errors.New("invalid config")

// Loader resolves import paths to packages. See NewRegistry for an
// in-memory implementation.
type Loader = symbols.Loader

// Stats counts what one page rewrite did.
type Stats = rewrite.Stats

// Config configures a Plugin.
type Config struct {
	Sources []types.Source // Default reference sources, available on every page
	WorkDir string         // Directory packages are resolved from (default ".")
	Loader  Loader         // Package loader; defaults to the local module, then the go tool
	Logger  *zap.Logger    // Diagnostics; nil disables logging
}

// Page identifies the page being rendered.
type Page struct {
	ID   string         // Page identifier, used only in diagnostics
	Meta map[string]any // Page metadata (front matter)
}

// Plugin rewrites documentation pages.
type Plugin interface {
	// OnPageMarkdown returns the page text with resolvable code spans
	// linked, and whether anything changed. Content problems such as
	// unknown names never fail the call; such spans are left as they are.
	OnPageMarkdown(markdown string, page Page) (string, bool)

	// Rewrite is OnPageMarkdown reporting counts instead of a change flag.
	Rewrite(markdown string, page Page) (string, Stats)

	// Resolve imports a dotted path through the plugin's memoized importer.
	Resolve(path string) (types.Symbol, bool)

	// DefaultNames lists the names every page can reference, sorted.
	DefaultNames() []string
}

// NewRegistry returns an empty in-memory Loader for packages registered
// from source.
func NewRegistry() *symbols.Registry {
	return symbols.NewRegistry()
}
