// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package namespace

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-autoref/internal/symbols"
	"github.com/petar-djukic/go-autoref/pkg/types"
)

func keys(m map[string]types.Symbol) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func newRegistry(t *testing.T) *symbols.Registry {
	t.Helper()
	r := symbols.NewRegistry()

	_, err := r.RegisterSource("example.com/plain", map[string]string{
		"plain.go": `package plain

import (
	"C"
	"unsafe"
	"strings"
	_ "embed"
	str "example.com/other"
)

// Client talks to the server.
type Client struct{}

// Do sends a request.
func (c *Client) Do() {}

// NewClient creates a Client.
func NewClient() *Client { return nil }

func helper() {}

// Timeout is the default timeout.
var Timeout = 3

var _ = strings.ToUpper
var _ = str.X
var _ = unsafe.Sizeof(0)
`,
	})
	require.NoError(t, err)

	_, err = r.RegisterSource("example.com/exports", map[string]string{
		"exports.go": `package exports

//autoref:export Client Client.Do

type Client struct{}

func (c *Client) Do() {}

func Hidden() {}
`,
	})
	require.NoError(t, err)

	_, err = r.RegisterSource("example.com/broken", map[string]string{
		"broken.go": "package broken\n\n//autoref:export Missing\n\nfunc Present() {}\n",
	})
	require.NoError(t, err)

	_, err = r.RegisterSource("strings", map[string]string{"strings.go": "package strings\n\nfunc ToUpper(s string) string { return s }\n"})
	require.NoError(t, err)
	_, err = r.RegisterSource("example.com/other", map[string]string{"other.go": "package other\n\nvar X = 1\n"})
	require.NoError(t, err)
	return r
}

func load(t *testing.T, r *symbols.Registry, path string) types.Symbol {
	t.Helper()
	pkg, err := r.Load(path)
	require.NoError(t, err)
	return types.PackageSymbol(pkg)
}

func TestExpand_NonPackage(t *testing.T) {
	tests := []struct {
		name     string
		sym      types.Symbol
		wantKeys []string
	}{
		{
			name:     "type keyed by name",
			sym:      types.Symbol{Name: "Foo", Kind: types.Struct, PkgPath: "tests.module"},
			wantKeys: []string{"Foo"},
		},
		{
			name:     "method keyed by qualified name",
			sym:      types.Symbol{Name: "Bar", Kind: types.Method, Receiver: "Foo", PkgPath: "tests.module"},
			wantKeys: []string{"Foo.Bar"},
		},
		{
			name:     "nameless symbol yields nothing",
			sym:      types.Symbol{Kind: types.Function},
			wantKeys: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.sym, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKeys, keys(got))
		})
	}
}

func TestExpand_PublicMembers(t *testing.T) {
	r := newRegistry(t)

	got, err := Expand(load(t, r, "example.com/plain"), r)
	require.NoError(t, err)

	// Exported members plus source-less imports; external packages,
	// blank imports, unexported names, and methods are dropped.
	assert.Equal(t, []string{"C", "Client", "NewClient", "Timeout", "unsafe"}, keys(got))
	assert.Equal(t, "example.com/plain.Client", got["Client"].FullPath())
	assert.Equal(t, types.PackageKind, got["unsafe"].Kind)
}

func TestExpand_WithoutLoaderSkipsImports(t *testing.T) {
	r := newRegistry(t)

	got, err := Expand(load(t, r, "example.com/plain"), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Client", "NewClient", "Timeout"}, keys(got))
}

// countingLoader records every path it is asked to load.
type countingLoader struct {
	symbols.Loader
	calls []string
}

func (c *countingLoader) Load(path string) (*types.Package, error) {
	c.calls = append(c.calls, path)
	return c.Loader.Load(path)
}

func TestExpand_LoadsOnlyPseudoImports(t *testing.T) {
	r := newRegistry(t)
	loader := &countingLoader{Loader: r}

	got, err := Expand(load(t, r, "example.com/plain"), loader)
	require.NoError(t, err)
	assert.Contains(t, got, "C")
	sort.Strings(loader.calls)
	assert.Equal(t, []string{"C", "unsafe"}, loader.calls, "packages with sources are never loaded")
}

func TestExpand_ExportList(t *testing.T) {
	r := newRegistry(t)

	got, err := Expand(load(t, r, "example.com/exports"), r)
	require.NoError(t, err)
	assert.Equal(t, []string{"Client", "Client.Do"}, keys(got))
	assert.Equal(t, "example.com/exports.Client.Do", got["Client.Do"].FullPath())
}

func TestExpand_ExportListMissingName(t *testing.T) {
	r := newRegistry(t)

	_, err := Expand(load(t, r, "example.com/broken"), r)
	assert.ErrorIs(t, err, ErrMissingExport)
}

func TestExpand_EmptyExportList(t *testing.T) {
	pkg := &types.Package{
		Path:    "example.com/none",
		Name:    "none",
		Exports: []string{},
		Members: []types.Symbol{{Name: "Foo", Kind: types.Struct, PkgPath: "example.com/none"}},
	}

	got, err := Expand(types.PackageSymbol(pkg), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpand_EmptyExportDirective(t *testing.T) {
	r := symbols.NewRegistry()
	_, err := r.RegisterSource("example.com/quiet", map[string]string{
		"quiet.go": "package quiet\n\n//autoref:export\n\nfunc Exported() {}\n",
	})
	require.NoError(t, err)

	got, err := Expand(load(t, r, "example.com/quiet"), r)
	require.NoError(t, err)
	assert.Empty(t, got, "a bare directive exports nothing")
}
