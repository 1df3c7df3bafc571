// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsIgnored(t *testing.T) {
	m := Parse("# build output\n/site/\n*.tmp\n!keep.tmp\n\ndrafts\ndocs/**/private.md\n")

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{path: "site", isDir: true, want: true},
		{path: "site", isDir: false, want: false},
		{path: filepath.Join("site", "index.md"), want: true},
		{path: filepath.Join("docs", "site"), isDir: true, want: false},
		{path: filepath.Join("docs", "page.tmp"), want: true},
		{path: "keep.tmp", want: false},
		{path: filepath.Join("docs", "drafts", "wip.md"), want: true},
		{path: filepath.Join("docs", "a", "b", "private.md"), want: true},
		{path: filepath.Join("docs", "index.md"), want: false},
		{path: "README.md", want: false},
		{path: ".", isDir: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, m.IsIgnored(tt.path, tt.isDir))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Load(dir).IsIgnored("anything.md", false), "no .gitignore matches nothing")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("vendor/\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", ".gitignore"), []byte("*.draft.md\n"), 0o644))

	m := Load(dir)
	assert.True(t, m.IsIgnored(filepath.Join("vendor", "dep.md"), false))
	assert.True(t, m.IsIgnored(filepath.Join("docs", "next.draft.md"), false))
	assert.False(t, m.IsIgnored("top.draft.md", false), "nested patterns only apply below their directory")
	assert.False(t, m.IsIgnored(filepath.Join("docs", "index.md"), false))
}
