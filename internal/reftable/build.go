// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package reftable

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-autoref/internal/importer"
	"github.com/petar-djukic/go-autoref/internal/namespace"
	"github.com/petar-djukic/go-autoref/pkg/types"
)

// BuildDefault builds the process-wide table from configured sources.
// Path sources are imported; symbol sources are expanded as given. Later
// sources overwrite earlier ones on name collisions. Any failure is
// returned, since a bad source is a configuration mistake.
func BuildDefault(sources []types.Source, im *importer.Importer) (*Table, error) {
	t := New()
	for _, src := range sources {
		sym, err := resolveSource(src, im)
		if err != nil {
			return nil, err
		}
		entries, err := namespace.Expand(sym, im.Loader())
		if err != nil {
			return nil, fmt.Errorf("expanding source %s: %w", src, err)
		}
		t.Update(entries)
	}
	return t, nil
}

func resolveSource(src types.Source, im *importer.Importer) (types.Symbol, error) {
	if src.Symbol != nil {
		return *src.Symbol, nil
	}
	sym, err := im.Import(src.Path)
	if err != nil {
		return types.Symbol{}, fmt.Errorf("importing source %s: %w", src.Path, err)
	}
	return sym, nil
}

// BuildPage builds the table for one page from the import paths its
// metadata lists. Sources that fail to import or expand are logged and
// skipped; a malformed source such as a file name is logged as an error.
// Only linkable kinds (functions, methods, types, packages) are kept.
func BuildPage(paths []string, im *importer.Importer, logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := New()
	for _, p := range paths {
		sym, err := im.Import(p)
		if errors.Is(err, importer.ErrMalformedPath) {
			logger.Error("malformed page reference source",
				zap.String("source", p),
				zap.Error(err))
			continue
		}
		if err != nil {
			logger.Warn("skipping page reference source",
				zap.String("source", p),
				zap.Error(err))
			continue
		}
		entries, err := namespace.Expand(sym, im.Loader())
		if err != nil {
			logger.Warn("skipping page reference source",
				zap.String("source", p),
				zap.Error(err))
			continue
		}
		t.Update(entries)
	}
	return t.Filter(func(_ string, sym types.Symbol) bool {
		return sym.Kind.Linkable()
	})
}
