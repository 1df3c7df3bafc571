// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package symbols

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/petar-djukic/go-autoref/pkg/types"
)

const defaultLoadTimeout = 30 * time.Second

// PackagesLoaderConfig configures a PackagesLoader.
type PackagesLoaderConfig struct {
	Dir     string        // Directory the go tool runs in (module context)
	Env     []string      // Extra environment; nil uses the process environment
	Timeout time.Duration // Per-load timeout (default 30s)
	Logger  *zap.Logger
}

type loadResult struct {
	pkg *types.Package
	err error
}

// PackagesLoader loads packages through the go tool using
// golang.org/x/tools/go/packages. Results, including failures, are cached
// for the lifetime of the loader because each load spawns the go command.
type PackagesLoader struct {
	cfg    PackagesLoaderConfig
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]loadResult
}

// NewPackagesLoader creates a loader rooted at cfg.Dir.
func NewPackagesLoader(cfg PackagesLoaderConfig) *PackagesLoader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultLoadTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackagesLoader{
		cfg:    cfg,
		logger: logger,
		cache:  make(map[string]loadResult),
	}
}

// Load implements Loader.
func (l *PackagesLoader) Load(path string) (*types.Package, error) {
	if pkg, ok := pseudoPackage(path); ok {
		return pkg, nil
	}
	if err := ValidateImportPath(path); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if r, ok := l.cache[path]; ok {
		return r.pkg, r.err
	}
	pkg, err := l.load(path)
	l.cache[path] = loadResult{pkg: pkg, err: err}
	return pkg, err
}

func (l *PackagesLoader) load(path string) (*types.Package, error) {
	ctx, cancel := context.WithTimeout(context.Background(), l.cfg.Timeout)
	defer cancel()

	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:     l.cfg.Dir,
		Env:     l.cfg.Env,
	}

	start := time.Now()
	pkgs, err := packages.Load(cfg, path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	l.logger.Debug("loaded package",
		zap.String("path", path),
		zap.Duration("elapsed", time.Since(start)))

	if len(pkgs) != 1 {
		return nil, fmt.Errorf("%w: %s matched %d packages", ErrPackageNotFound, path, len(pkgs))
	}
	p := pkgs[0]
	if len(p.Errors) > 0 {
		errs := make([]error, len(p.Errors))
		for i, e := range p.Errors {
			errs[i] = e
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrPackageNotFound, path, errors.Join(errs...))
	}
	if len(p.Syntax) == 0 {
		return nil, fmt.Errorf("%w: %s has no Go files", ErrPackageNotFound, path)
	}

	files := make(map[string]*ast.File, len(p.Syntax))
	for i, f := range p.Syntax {
		name := p.Fset.Position(f.Pos()).Filename
		if name == "" && i < len(p.CompiledGoFiles) {
			name = p.CompiledGoFiles[i]
		}
		files[name] = f
	}
	pkg := BuildPackage(p.Fset, p.PkgPath, files)
	if p.Name != "" {
		pkg.Name = p.Name
	}
	return pkg, nil
}
