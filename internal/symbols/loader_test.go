// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-autoref/pkg/types"
)

func TestRegistry_RegisterSource(t *testing.T) {
	r := NewRegistry()

	pkg, err := r.RegisterSource("example.com/lib", map[string]string{
		"lib.go": "package lib\n\n// Foo is a type.\ntype Foo struct{}\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "lib", pkg.Name)

	loaded, err := r.Load("example.com/lib")
	require.NoError(t, err)
	assert.Same(t, pkg, loaded)
}

func TestRegistry_RegisterSourceParseError(t *testing.T) {
	r := NewRegistry()

	_, err := r.RegisterSource("example.com/bad", map[string]string{"bad.go": "package bad\nfunc {"})
	assert.Error(t, err)
	_, err = r.Load("example.com/bad")
	assert.ErrorIs(t, err, ErrPackageNotFound, "a failed registration stores nothing")
}

func TestRegistry_Load(t *testing.T) {
	r := NewRegistry()
	r.Register(&types.Package{Path: "tests.module", Name: "module"})

	tests := []struct {
		name      string
		path      string
		wantErr   error
		wantFiles int
	}{
		{name: "registered package", path: "tests.module"},
		{name: "cgo pseudo-package", path: "C"},
		{name: "unsafe pseudo-package", path: "unsafe"},
		{name: "unknown package", path: "tests.other", wantErr: ErrPackageNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := r.Load(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.path, pkg.Path)
			assert.Len(t, pkg.Files, tt.wantFiles)
		})
	}
}

func TestChainLoader(t *testing.T) {
	first := NewRegistry()
	first.Register(&types.Package{Path: "a", Name: "first"})
	second := NewRegistry()
	second.Register(&types.Package{Path: "a", Name: "second"})
	second.Register(&types.Package{Path: "b", Name: "b"})

	chain := ChainLoader{first, second}

	pkg, err := chain.Load("a")
	require.NoError(t, err)
	assert.Equal(t, "first", pkg.Name, "earlier loaders win")

	pkg, err = chain.Load("b")
	require.NoError(t, err)
	assert.Equal(t, "b", pkg.Name)

	_, err = chain.Load("c")
	assert.ErrorIs(t, err, ErrPackageNotFound)

	_, err = ChainLoader{}.Load("a")
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestValidateImportPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{path: "fmt"},
		{path: "encoding/json"},
		{path: "gopkg.in/yaml.v3"},
		{path: "", wantErr: true},
		{path: "all", wantErr: true},
		{path: "std", wantErr: true},
		{path: "./...", wantErr: true},
		{path: "example.com/...", wantErr: true},
		{path: "/abs/path", wantErr: true},
		{path: "-flag", wantErr: true},
		{path: "has space", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidateImportPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPattern)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPackagesLoader_RejectsPatterns(t *testing.T) {
	l := NewPackagesLoader(PackagesLoaderConfig{Dir: t.TempDir()})

	_, err := l.Load("./...")
	assert.ErrorIs(t, err, ErrInvalidPattern)

	pkg, err := l.Load("C")
	require.NoError(t, err)
	assert.Equal(t, "C", pkg.Name)
}
