// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package namespace expands a reference source into the short names it
// makes available to documentation.
package namespace

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/petar-djukic/go-autoref/internal/importer"
	"github.com/petar-djukic/go-autoref/internal/symbols"
	"github.com/petar-djukic/go-autoref/pkg/types"
)

// ErrMissingExport is returned when an export directive names something
// the package does not declare.
var ErrMissingExport = errors.New("exported name not declared")

// Expand returns the names that sym contributes to a reference table.
//
// A non-package symbol contributes itself under its qualified name. A
// package with an explicit export list contributes exactly those names.
// Any other package contributes its exported members plus the imported
// packages that have no source files ("C", "unsafe"). Every other import
// is defined by files of its own and is left out without being loaded.
func Expand(sym types.Symbol, loader symbols.Loader) (map[string]types.Symbol, error) {
	if sym.Kind != types.PackageKind || sym.Package == nil {
		name := sym.QualName()
		if name == "" {
			name = sym.Name
		}
		if name == "" {
			return map[string]types.Symbol{}, nil
		}
		return map[string]types.Symbol{name: sym}, nil
	}

	if sym.Package.Exports != nil {
		return expandExports(sym.Package)
	}
	return expandPublic(sym.Package, loader), nil
}

// expandExports resolves each name of the package's export list. Names may
// select a method as "Type.Method".
func expandExports(pkg *types.Package) (map[string]types.Symbol, error) {
	out := make(map[string]types.Symbol, len(pkg.Exports))
	for _, name := range pkg.Exports {
		sym := types.PackageSymbol(pkg)
		for _, sel := range strings.Split(name, ".") {
			next, err := importer.Attr(pkg, sym, sel)
			if err != nil {
				return nil, fmt.Errorf("%w: %s.%s: %v", ErrMissingExport, pkg.Path, name, err)
			}
			sym = next
		}
		out[name] = sym
	}
	return out, nil
}

func expandPublic(pkg *types.Package, loader symbols.Loader) map[string]types.Symbol {
	out := make(map[string]types.Symbol)
	for _, m := range pkg.Members {
		if m.Kind == types.Method || !token.IsExported(m.Name) {
			continue
		}
		out[m.Name] = m
	}

	if loader == nil {
		return out
	}
	for _, imp := range pkg.Imports {
		if imp.Name == "_" || imp.Name == "." || !symbols.IsPseudoPackage(imp.Path) {
			continue
		}
		dep, err := loader.Load(imp.Path)
		if err != nil {
			continue
		}
		name := imp.Name
		if name == "" {
			name = dep.Name
		}
		if name == "" || strings.HasPrefix(name, "_") {
			continue
		}
		out[name] = types.PackageSymbol(dep)
	}
	return out
}
