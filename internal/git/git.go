// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git lists the files changed in a git work tree so that only
// edited pages are rewritten.
package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	gogit "github.com/go-git/go-git/v5"
)

// ErrNoGit is returned when the working directory is not inside a git
// repository.
var ErrNoGit = errors.New("not a git repository")

// Repo wraps a go-git repository for the operations we need.
type Repo struct {
	repo *gogit.Repository
	root string
}

// Open opens the repository containing workDir, searching parent
// directories for .git. Returns ErrNoGit if there is none.
func Open(workDir string) (*Repo, error) {
	r, err := gogit.PlainOpenWithOptions(workDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	return &Repo{repo: r, root: wt.Filesystem.Root()}, nil
}

// Root returns the absolute path of the work tree.
func (r *Repo) Root() string {
	return r.root
}

// ChangedFiles returns the absolute paths of files that are modified,
// added, renamed, or untracked relative to HEAD, sorted. Deleted files are
// left out. keep, if non-nil, filters the result by path.
func (r *Repo) ChangedFiles(keep func(path string) bool) ([]string, error) {
	status, err := r.status()
	if err != nil {
		return nil, err
	}

	var out []string
	for rel, st := range status {
		if st.Worktree == gogit.Deleted || (st.Staging == gogit.Deleted && st.Worktree == gogit.Unmodified) {
			continue
		}
		if !changed(st.Staging) && !changed(st.Worktree) {
			continue
		}
		path := filepath.Join(r.root, filepath.FromSlash(rel))
		if keep != nil && !keep(path) {
			continue
		}
		out = append(out, path)
	}
	sort.Strings(out)
	return out, nil
}

func changed(code gogit.StatusCode) bool {
	switch code {
	case gogit.Modified, gogit.Added, gogit.Renamed, gogit.Copied, gogit.Untracked, gogit.UpdatedButUnmerged:
		return true
	}
	return false
}

func (r *Repo) status() (gogit.Status, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("getting status: %w", err)
	}
	return status, nil
}
