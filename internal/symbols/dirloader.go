// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package symbols

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/mod/modfile"

	"github.com/petar-djukic/go-autoref/internal/docs/ignore"
	"github.com/petar-djukic/go-autoref/pkg/types"
)

// skipDirs contains directory names that ScanModule never descends into.
var skipDirs = map[string]bool{
	"vendor":       true,
	".git":         true,
	"testdata":     true,
	"node_modules": true,
}

// ScanError records a parse failure for a single file.
type ScanError struct {
	FilePath string
	Err      error
}

func (e ScanError) Error() string {
	return fmt.Sprintf("%s: %v", e.FilePath, e.Err)
}

// ScanResult holds the packages of one module tree.
type ScanResult struct {
	ModulePath string
	Packages   map[string]*types.Package // keyed by import path
	Errors     []ScanError
}

// ScanModule walks the module rooted at dir (which must contain go.mod),
// parses all non-test .go files in parallel using a bounded worker pool, and
// groups them into packages keyed by import path.
//
// Parse errors for individual files are collected in ScanResult.Errors but
// do not abort the scan. If concurrency <= 0 it defaults to runtime.NumCPU().
func ScanModule(dir string, concurrency int) (*ScanResult, error) {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving directory: %w", err)
	}

	modPath, err := readModulePath(absDir)
	if err != nil {
		return nil, err
	}

	ignorer := ignore.Load(absDir)

	var paths []string
	err = filepath.WalkDir(absDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		rel, relErr := filepath.Rel(absDir, p)
		if relErr != nil {
			rel = p
		}
		if d.IsDir() {
			if p == absDir {
				return nil
			}
			if skipDirs[d.Name()] || strings.HasPrefix(d.Name(), "_") || ignorer.IsIgnored(rel, true) {
				return filepath.SkipDir
			}
			// Nested modules are separate import path roots.
			if _, statErr := os.Stat(filepath.Join(p, "go.mod")); statErr == nil {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			return nil
		}
		if ignorer.IsIgnored(rel, false) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	result := &ScanResult{
		ModulePath: modPath,
		Packages:   make(map[string]*types.Package),
	}
	if len(paths) == 0 {
		return result, nil
	}

	type parseResult struct {
		path string
		file *ast.File
		err  error
	}

	fset := token.NewFileSet()
	jobs := make(chan string, len(paths))
	results := make(chan parseResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				f, parseErr := parser.ParseFile(fset, p, nil, parser.ParseComments|parser.SkipObjectResolution)
				results <- parseResult{path: p, file: f, err: parseErr}
			}
		}()
	}

	for _, p := range paths {
		jobs <- p
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	byDir := make(map[string]map[string]*ast.File)
	for pr := range results {
		relPath, relErr := filepath.Rel(absDir, pr.path)
		if relErr != nil {
			relPath = pr.path
		}
		if pr.err != nil {
			result.Errors = append(result.Errors, ScanError{FilePath: relPath, Err: pr.err})
			if pr.file == nil {
				continue
			}
		}
		// main packages are not importable.
		if pr.file.Name == nil || pr.file.Name.Name == "main" {
			continue
		}
		relDir := filepath.ToSlash(filepath.Dir(relPath))
		if byDir[relDir] == nil {
			byDir[relDir] = make(map[string]*ast.File)
		}
		byDir[relDir][pr.path] = pr.file
	}

	for relDir, files := range byDir {
		importPath := modPath
		if relDir != "." {
			importPath = path.Join(modPath, relDir)
		}
		result.Packages[importPath] = BuildPackage(fset, importPath, files)
	}

	return result, nil
}

func readModulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("reading go.mod: %w", err)
	}
	modPath := modfile.ModulePath(data)
	if modPath == "" {
		return "", fmt.Errorf("go.mod in %s declares no module path", dir)
	}
	return modPath, nil
}

// DirLoader serves packages of a local module tree without invoking the go
// tool. The tree is scanned once, on first use.
type DirLoader struct {
	dir         string
	concurrency int

	once    sync.Once
	scan    *ScanResult
	scanErr error
}

// NewDirLoader creates a loader for the module rooted at dir.
func NewDirLoader(dir string, concurrency int) *DirLoader {
	return &DirLoader{dir: dir, concurrency: concurrency}
}

// Load implements Loader.
func (l *DirLoader) Load(importPath string) (*types.Package, error) {
	if pkg, ok := pseudoPackage(importPath); ok {
		return pkg, nil
	}
	if err := l.ensureScanned(); err != nil {
		return nil, err
	}
	if pkg, ok := l.scan.Packages[importPath]; ok {
		return pkg, nil
	}
	return nil, fmt.Errorf("%w: %s not in module %s", ErrPackageNotFound, importPath, l.scan.ModulePath)
}

func (l *DirLoader) ensureScanned() error {
	l.once.Do(func() {
		l.scan, l.scanErr = ScanModule(l.dir, l.concurrency)
	})
	return l.scanErr
}
