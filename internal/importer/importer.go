// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package importer resolves dotted paths such as "example.com/pkg.Client.Do"
// to symbols. Because a dotted string does not say where the import path
// ends and the selector chain begins, every split point is tried.
package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/petar-djukic/go-autoref/internal/symbols"
	"github.com/petar-djukic/go-autoref/pkg/types"
)

var (
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("symbol not found")

	// ErrMalformedPath is returned for paths naming a file instead of a
	// symbol. It signals a configuration mistake, not a failed lookup.
	ErrMalformedPath = errors.New("malformed symbol path")

	errNoAttribute = errors.New("no such attribute")
)

// fileExtensions are source file suffixes that mark a path as a file name.
// Suffixes such as ".json" or ".yaml" are left out: "encoding.json" is a
// package.
var fileExtensions = []string{".go", ".py"}

// NotFoundError reports that no split of Path resolved. Err is the last
// underlying failure.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unable to import %q", e.Path)
	}
	return fmt.Sprintf("unable to import %q: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrNotFound) hold for every NotFoundError.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Importer resolves dotted paths against a package loader.
type Importer struct {
	loader symbols.Loader
}

// New creates an Importer backed by loader.
func New(loader symbols.Loader) *Importer {
	return &Importer{loader: loader}
}

// Loader returns the loader the importer resolves packages with.
func (im *Importer) Loader() symbols.Loader {
	return im.loader
}

// Import resolves path to a symbol.
//
// A path without "." is loaded as a package. Otherwise the full path is
// tried as a package import path, then as a sub-package ("encoding.json"
// names "encoding/json"), and finally each prefix parts[:i] is loaded as a
// package with parts[i:] walked as selectors. A prefix is tried joined by
// "." and then by "/", so "net.http.Client" finds "net/http". The first
// split that fully resolves wins.
func (im *Importer) Import(path string) (types.Symbol, error) {
	if err := CheckPath(path); err != nil {
		return types.Symbol{}, err
	}

	if !strings.Contains(path, ".") {
		pkg, err := im.loader.Load(path)
		if err != nil {
			return types.Symbol{}, &NotFoundError{Path: path, Err: err}
		}
		return types.PackageSymbol(pkg), nil
	}

	parts := strings.Split(path, ".")

	if pkg, err := im.loader.Load(path); err == nil {
		return types.PackageSymbol(pkg), nil
	}
	sub := strings.Join(parts[:len(parts)-1], ".") + "/" + parts[len(parts)-1]
	if pkg, err := im.loader.Load(sub); err == nil {
		return types.PackageSymbol(pkg), nil
	}

	var lastErr error
	for i := 1; i < len(parts); i++ {
		for _, pkgPath := range prefixPaths(parts[:i]) {
			pkg, err := im.loader.Load(pkgPath)
			if err != nil {
				lastErr = err
				continue
			}
			sym, err := walk(pkg, parts[i:])
			if err != nil {
				lastErr = err
				continue
			}
			return sym, nil
		}
	}
	return types.Symbol{}, &NotFoundError{Path: path, Err: lastErr}
}

// prefixPaths returns the import paths a dotted prefix may name: the
// parts joined by ".", then by "/".
func prefixPaths(parts []string) []string {
	dotted := strings.Join(parts, ".")
	if len(parts) < 2 {
		return []string{dotted}
	}
	return []string{dotted, strings.Join(parts, "/")}
}

// CheckPath rejects paths that end in a file extension.
func CheckPath(path string) error {
	for _, ext := range fileExtensions {
		if strings.HasSuffix(path, ext) {
			return fmt.Errorf("%w: %q looks like a file name, expected a path like \"pkg.Symbol\"", ErrMalformedPath, path)
		}
	}
	return nil
}

// walk follows selectors from a package: the first names a package-scope
// member, later ones name methods of a type.
func walk(pkg *types.Package, selectors []string) (types.Symbol, error) {
	sym := types.PackageSymbol(pkg)
	for _, sel := range selectors {
		next, err := Attr(pkg, sym, sel)
		if err != nil {
			return types.Symbol{}, err
		}
		sym = next
	}
	return sym, nil
}

// Attr returns the attribute name of sym, which must belong to pkg.
// Packages expose their package-scope members and named types expose their
// methods; nothing else has attributes.
func Attr(pkg *types.Package, sym types.Symbol, name string) (types.Symbol, error) {
	switch {
	case sym.Kind == types.PackageKind:
		if m, ok := sym.Package.Member(name); ok {
			return m, nil
		}
	case sym.Kind.IsType():
		if m, ok := pkg.Method(sym.Name, name); ok {
			return m, nil
		}
	}
	return types.Symbol{}, fmt.Errorf("%w: %s has no attribute %q", errNoAttribute, sym.FullPath(), name)
}
