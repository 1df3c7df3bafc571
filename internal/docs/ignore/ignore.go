// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ignore applies a tree's .gitignore files to directory walks.
package ignore

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Matcher reports whether paths relative to a root are ignored.
type Matcher struct {
	m gitignore.Matcher
}

// Load reads every .gitignore under root, including nested ones, which
// apply to their own directory. Unreadable files are skipped, so a tree
// without any .gitignore yields a Matcher that matches nothing.
func Load(root string) Matcher {
	patterns, _ := gitignore.ReadPatterns(osfs.New(root), nil)
	return Matcher{m: gitignore.NewMatcher(patterns)}
}

// Parse builds a Matcher from the content of a single root .gitignore.
func Parse(content string) Matcher {
	var patterns []gitignore.Pattern
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return Matcher{m: gitignore.NewMatcher(patterns)}
}

// IsIgnored reports whether relPath, relative to the root, is ignored.
// isDir selects directory-only patterns such as "site/". Later patterns
// win, so "!keep.tmp" re-includes a file an earlier "*.tmp" excluded.
func (m Matcher) IsIgnored(relPath string, isDir bool) bool {
	if m.m == nil || relPath == "" || relPath == "." {
		return false
	}
	return m.m.Match(strings.Split(filepath.ToSlash(relPath), "/"), isDir)
}
