// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package autoref

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-autoref/internal/importer"
	"github.com/petar-djukic/go-autoref/internal/reftable"
	"github.com/petar-djukic/go-autoref/internal/rewrite"
	"github.com/petar-djukic/go-autoref/internal/symbols"
	"github.com/petar-djukic/go-autoref/pkg/types"
)

// New validates the config, builds the default reference table, and
// returns a ready-to-use Plugin. The default table is built once here and
// only read afterwards, so the Plugin may serve pages concurrently.
func New(cfg Config) (Plugin, error) {
	applyDefaults(&cfg)

	im := importer.New(cfg.Loader)
	defaults, err := reftable.BuildDefault(cfg.Sources, im)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.Logger.Debug("built default reference table",
		zap.Int("sources", len(cfg.Sources)),
		zap.Int("names", defaults.Len()))

	memo := importer.NewMemo(im)
	return &plugin{
		importer: im,
		memo:     memo,
		defaults: defaults,
		rewriter: rewrite.New(memo, cfg.Logger),
		logger:   cfg.Logger,
	}, nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	if cfg.Loader == nil {
		cfg.Loader = defaultLoader(cfg.WorkDir, cfg.Logger)
	}
}

// defaultLoader prefers the module in workDir, parsed locally, and falls
// back to the go tool for the standard library and dependencies.
func defaultLoader(workDir string, logger *zap.Logger) Loader {
	goTool := symbols.NewPackagesLoader(symbols.PackagesLoaderConfig{Dir: workDir, Logger: logger})
	if _, err := os.Stat(filepath.Join(workDir, "go.mod")); err != nil {
		return goTool
	}
	return symbols.ChainLoader{symbols.NewDirLoader(workDir, 0), goTool}
}

type plugin struct {
	importer *importer.Importer
	memo     *importer.Memo
	defaults *reftable.Table
	rewriter *rewrite.Rewriter
	logger   *zap.Logger
}

func (p *plugin) OnPageMarkdown(markdown string, page Page) (string, bool) {
	out, _ := p.Rewrite(markdown, page)
	return out, out != markdown
}

func (p *plugin) Rewrite(markdown string, page Page) (string, Stats) {
	var pageTable *reftable.Table
	if sources := PageSources(page.Meta); len(sources) > 0 {
		p.logger.Debug("loading extra references",
			zap.String("page", page.ID),
			zap.Strings("sources", sources))
		pageTable = reftable.BuildPage(sources, p.importer, p.logger)
		if shadowed := reftable.Overlay(p.defaults, pageTable).Shadowed(); len(shadowed) > 0 {
			p.logger.Debug("page references shadow defaults",
				zap.String("page", page.ID),
				zap.Strings("names", shadowed))
		}
	}

	return p.rewriter.RewriteWithStats(markdown, p.defaults, pageTable, page.ID)
}

func (p *plugin) Resolve(path string) (types.Symbol, bool) {
	return p.memo.Lookup(path)
}

func (p *plugin) DefaultNames() []string {
	return p.defaults.Names()
}

// PageSources returns the extra reference sources a page's metadata lists
// under MetaKey. A single string is accepted as a one-element list; any
// other shape, or a missing key, means no extra sources.
func PageSources(meta map[string]any) []string {
	switch v := meta[MetaKey].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	case []string:
		return nonEmpty(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return nonEmpty(out)
	}
	return nil
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
