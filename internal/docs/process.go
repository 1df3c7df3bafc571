// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package docs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/petar-djukic/go-autoref/pkg/autoref"
)

// Mode selects what Process does with rewritten pages.
type Mode int

const (
	// ModePrint leaves files untouched; results carry the new text.
	ModePrint Mode = iota
	// ModeWrite replaces changed files in place.
	ModeWrite
	// ModeCheck leaves files untouched; results carry a diff.
	ModeCheck
)

// Result is the outcome for one page.
type Result struct {
	Path    string
	Changed bool
	Stats   autoref.Stats
	Output  string // rewritten page, set in ModePrint
	Diff    string // set in ModeCheck when Changed
	Err     error
}

// Processor runs pages through a Plugin.
type Processor struct {
	Plugin      autoref.Plugin
	Root        string // page IDs are paths relative to Root
	Mode        Mode
	Concurrency int
	Logger      *zap.Logger
}

// Process rewrites every file, at most Concurrency at a time, and returns
// one Result per file sorted by path. Per-file failures are reported in
// the Result; the returned error is set only if ctx is cancelled.
func (p *Processor) Process(ctx context.Context, files []string) ([]Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := p.Concurrency
	if workers < 1 {
		workers = 1
	}

	wp := pool.NewWithResults[Result]().WithMaxGoroutines(workers)
	for _, file := range files {
		wp.Go(func() Result {
			if err := ctx.Err(); err != nil {
				return Result{Path: file, Err: err}
			}
			res := p.processFile(file)
			if res.Err != nil {
				logger.Warn("processing page failed", zap.String("page", file), zap.Error(res.Err))
			}
			return res
		})
	}
	results := wp.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, ctx.Err()
}

func (p *Processor) processFile(path string) Result {
	res := Result{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("reading %s: %w", path, err)
		return res
	}
	content := string(data)

	meta, head, body, err := SplitFrontMatter(content)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}

	out, stats := p.Plugin.Rewrite(body, autoref.Page{ID: p.pageID(path), Meta: meta})
	changed := out != body
	out = head + out
	res.Changed = changed
	res.Stats = stats

	switch p.Mode {
	case ModePrint:
		res.Output = out
	case ModeCheck:
		if changed {
			res.Diff = Diff(path, content, out)
		}
	case ModeWrite:
		if changed {
			if err := WriteFile(path, []byte(out)); err != nil {
				res.Err = fmt.Errorf("writing %s: %w", path, err)
			}
		}
	}
	return res
}

func (p *Processor) pageID(path string) string {
	if p.Root == "" {
		return path
	}
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
