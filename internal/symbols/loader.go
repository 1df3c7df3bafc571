// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package symbols loads Go packages and extracts the declarations that
// documentation can reference.
package symbols

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"sync"

	"github.com/petar-djukic/go-autoref/pkg/types"
)

var (
	// ErrPackageNotFound is returned when no loader knows the import path.
	ErrPackageNotFound = errors.New("package not found")

	// ErrInvalidPattern is returned for import paths that the go tool would
	// interpret as a package pattern rather than a single package.
	ErrInvalidPattern = errors.New("not a single import path")
)

// Loader returns the package stored under an import path.
type Loader interface {
	Load(path string) (*types.Package, error)
}

// CgoPackage is the import path of the cgo pseudo-package. It has no
// documentation of its own.
const CgoPackage = "C"

// pseudoPackages are compiler-provided packages without loadable sources.
var pseudoPackages = map[string]string{
	CgoPackage: "C",
	"unsafe": "unsafe",
}

// IsPseudoPackage reports whether path names a compiler-provided package.
func IsPseudoPackage(path string) bool {
	_, ok := pseudoPackages[path]
	return ok
}

// pseudoPackage returns the source-less package for path, if it is one.
func pseudoPackage(path string) (*types.Package, bool) {
	name, ok := pseudoPackages[path]
	if !ok {
		return nil, false
	}
	return &types.Package{Path: path, Name: name}, true
}

// ValidateImportPath rejects strings that are not plain import paths, such
// as "./...", "all", or flags.
func ValidateImportPath(path string) error {
	switch {
	case path == "":
		return fmt.Errorf("%w: empty path", ErrInvalidPattern)
	case path == "all" || path == "std" || path == "cmd" || path == "tool" || path == "work":
		return fmt.Errorf("%w: %q is a reserved pattern", ErrInvalidPattern, path)
	case strings.Contains(path, "..."):
		return fmt.Errorf("%w: %q contains a wildcard", ErrInvalidPattern, path)
	case strings.HasPrefix(path, ".") || strings.HasPrefix(path, "/") || strings.HasPrefix(path, "-"):
		return fmt.Errorf("%w: %q is relative, absolute, or a flag", ErrInvalidPattern, path)
	case strings.ContainsAny(path, " \t\n=`\\"):
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidPattern, path)
	}
	return nil
}

// Registry is an in-memory Loader. Packages are registered up front, either
// already built or as Go source text.
type Registry struct {
	mu   sync.RWMutex
	pkgs map[string]*types.Package
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{pkgs: make(map[string]*types.Package)}
}

// Register stores pkg under its import path, replacing any previous entry.
func (r *Registry) Register(pkg *types.Package) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pkgs[pkg.Path] = pkg
}

// RegisterSource parses the given files (file name to Go source) and
// registers the resulting package under path.
func (r *Registry) RegisterSource(path string, sources map[string]string) (*types.Package, error) {
	fset := token.NewFileSet()
	files := make(map[string]*ast.File, len(sources))
	for name, src := range sources {
		f, err := parser.ParseFile(fset, name, src, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		files[name] = f
	}
	pkg := BuildPackage(fset, path, files)
	r.Register(pkg)
	return pkg, nil
}

// Load returns the registered package, or a pseudo-package for "C" and
// "unsafe".
func (r *Registry) Load(path string) (*types.Package, error) {
	r.mu.RLock()
	pkg, ok := r.pkgs[path]
	r.mu.RUnlock()
	if ok {
		return pkg, nil
	}
	if pkg, ok := pseudoPackage(path); ok {
		return pkg, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, path)
}

// ChainLoader tries each loader in order and returns the first success.
type ChainLoader []Loader

// Load implements Loader. When every loader fails, the last error is
// returned.
func (c ChainLoader) Load(path string) (*types.Package, error) {
	err := fmt.Errorf("%w: %s", ErrPackageNotFound, path)
	for _, l := range c {
		pkg, lerr := l.Load(path)
		if lerr == nil {
			return pkg, nil
		}
		err = lerr
	}
	return nil, err
}
