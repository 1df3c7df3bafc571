// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package importer

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-autoref/internal/symbols"
	"github.com/petar-djukic/go-autoref/pkg/types"
)

const moduleSource = `package module

// Foo is a test type.
type Foo struct{}

// Bar is a method on Foo.
func (f *Foo) Bar() {}

// Runner runs things.
type Runner interface {
	Run() error
}

// Helper is a function.
func Helper() {}

// Version is a constant.
const Version = "1"
`

// countingLoader records how often each path is loaded.
type countingLoader struct {
	symbols.Loader

	mu    sync.Mutex
	calls map[string]int
}

func (c *countingLoader) Load(path string) (*types.Package, error) {
	c.mu.Lock()
	c.calls[path]++
	c.mu.Unlock()
	return c.Loader.Load(path)
}

func (c *countingLoader) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

func newTestRegistry(t *testing.T) *symbols.Registry {
	t.Helper()
	r := symbols.NewRegistry()
	_, err := r.RegisterSource("tests.module", map[string]string{"module.go": moduleSource})
	require.NoError(t, err)
	_, err = r.RegisterSource("encoding/json", map[string]string{
		"json.go": "package json\n\nfunc Marshal(v any) ([]byte, error) { return nil, nil }\n",
	})
	require.NoError(t, err)
	_, err = r.RegisterSource("example.com/lib", map[string]string{
		"lib.go": "package lib\n\ntype Client struct{}\n\nfunc (c Client) Do() {}\n",
	})
	require.NoError(t, err)
	_, err = r.RegisterSource("net/http", map[string]string{
		"client.go": "package http\n\ntype Client struct{}\n\nfunc (c *Client) Do() error { return nil }\n",
	})
	require.NoError(t, err)
	_, err = r.RegisterSource("strings", map[string]string{
		"strings.go": "package strings\n\nfunc ToUpper(s string) string { return s }\n",
	})
	require.NoError(t, err)
	return r
}

func TestImporter_Import(t *testing.T) {
	im := New(newTestRegistry(t))

	tests := []struct {
		name         string
		path         string
		wantKind     types.SymbolKind
		wantFullPath string
	}{
		{name: "top-level package", path: "strings", wantKind: types.PackageKind, wantFullPath: "strings"},
		{name: "dotted package path", path: "tests.module", wantKind: types.PackageKind, wantFullPath: "tests.module"},
		{name: "sub-package form", path: "encoding.json", wantKind: types.PackageKind, wantFullPath: "encoding/json"},
		{name: "struct", path: "tests.module.Foo", wantKind: types.Struct, wantFullPath: "tests.module.Foo"},
		{name: "method", path: "tests.module.Foo.Bar", wantKind: types.Method, wantFullPath: "tests.module.Foo.Bar"},
		{name: "interface method", path: "tests.module.Runner.Run", wantKind: types.Method, wantFullPath: "tests.module.Runner.Run"},
		{name: "function", path: "tests.module.Helper", wantKind: types.Function, wantFullPath: "tests.module.Helper"},
		{name: "constant", path: "tests.module.Version", wantKind: types.Constant, wantFullPath: "tests.module.Version"},
		{name: "function in dotted sub-package", path: "encoding.json.Marshal", wantKind: types.Function, wantFullPath: "encoding/json.Marshal"},
		{name: "method in dotted sub-package", path: "net.http.Client.Do", wantKind: types.Method, wantFullPath: "net/http.Client.Do"},
		{name: "function in slash path", path: "encoding/json.Marshal", wantKind: types.Function, wantFullPath: "encoding/json.Marshal"},
		{name: "domain import path", path: "example.com/lib.Client.Do", wantKind: types.Method, wantFullPath: "example.com/lib.Client.Do"},
		{name: "pseudo-package", path: "unsafe", wantKind: types.PackageKind, wantFullPath: "unsafe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, err := im.Import(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, sym.Kind)
			assert.Equal(t, tt.wantFullPath, sym.FullPath())
		})
	}
}

func TestImporter_ImportNotFound(t *testing.T) {
	im := New(newTestRegistry(t))

	tests := []struct {
		name string
		path string
	}{
		{name: "unknown package", path: "nosuch"},
		{name: "unknown dotted path", path: "foo.bar"},
		{name: "missing member", path: "tests.module.Missing"},
		{name: "missing method", path: "tests.module.Foo.Missing"},
		{name: "method has no attributes", path: "tests.module.Foo.Bar.Baz"},
		{name: "function has no attributes", path: "tests.module.Helper.X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := im.Import(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotFound)

			var nf *NotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, tt.path, nf.Path)
			assert.NotNil(t, nf.Unwrap(), "the last underlying error is chained")
		})
	}
}

func TestImporter_MalformedPath(t *testing.T) {
	im := New(newTestRegistry(t))

	for _, path := range []string{"tests/module.go", "pkg.py", "cmd/main.go"} {
		t.Run(path, func(t *testing.T) {
			_, err := im.Import(path)
			assert.ErrorIs(t, err, ErrMalformedPath)
			assert.NotErrorIs(t, err, ErrNotFound)
		})
	}

	for _, path := range []string{"gopkg.in/yaml.v3", "encoding.json", "golang.org/x/mod", "example.com/conf.yaml", "docs.toml"} {
		assert.NoError(t, CheckPath(path), path)
	}
}

func TestImporter_TriesEverySplit(t *testing.T) {
	loader := &countingLoader{Loader: newTestRegistry(t), calls: map[string]int{}}
	im := New(loader)

	_, err := im.Import("a.b.c")
	require.Error(t, err)

	// Full path, sub-package form, then the prefixes "a", "a.b" and "a/b".
	assert.Equal(t, map[string]int{"a.b.c": 1, "a.b/c": 1, "a": 1, "a.b": 1, "a/b": 1}, loader.calls)
}

func TestMemo_CachesSuccessAndFailure(t *testing.T) {
	loader := &countingLoader{Loader: newTestRegistry(t), calls: map[string]int{}}
	memo := NewMemo(New(loader))

	sym, ok := memo.Lookup("tests.module.Foo")
	require.True(t, ok)
	assert.Equal(t, "tests.module.Foo", sym.FullPath())
	afterFirst := loader.total()

	_, ok = memo.Lookup("tests.module.Foo")
	assert.True(t, ok)
	assert.Equal(t, afterFirst, loader.total(), "second success is served from cache")

	_, ok = memo.Lookup("foo.bar")
	assert.False(t, ok)
	afterFailure := loader.total()

	_, err := memo.Import("foo.bar")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, afterFailure, loader.total(), "failures are cached too")

	stats := memo.Stats()
	assert.Equal(t, 2, stats.Hits)
	assert.Equal(t, 2, stats.Misses)
	assert.Equal(t, 2, stats.Entries)
}

func TestMemo_LookupSwallowsMalformedPath(t *testing.T) {
	memo := NewMemo(New(newTestRegistry(t)))

	_, ok := memo.Lookup("main.go")
	assert.False(t, ok)
}

func TestMemo_Concurrent(t *testing.T) {
	memo := NewMemo(New(newTestRegistry(t)))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := memo.Lookup("tests.module.Foo.Bar")
			assert.True(t, ok)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, memo.Stats().Entries)
	assert.Equal(t, 16, memo.Stats().Hits+memo.Stats().Misses)
}
