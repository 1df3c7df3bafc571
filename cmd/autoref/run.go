// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/petar-djukic/go-autoref/internal/config"
	"github.com/petar-djukic/go-autoref/internal/docs"
	gitpkg "github.com/petar-djukic/go-autoref/internal/git"
	"github.com/petar-djukic/go-autoref/internal/logging"
	"github.com/petar-djukic/go-autoref/pkg/autoref"
	"github.com/petar-djukic/go-autoref/pkg/types"
)

var (
	errWouldChange = errors.New("pages would change")
	errPageFailed  = errors.New("pages failed")
	errNotFound    = errors.New("not found")
)

// newRewriteCmd creates the "rewrite" command.
func newRewriteCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewrite [paths...]",
		Short: "Link symbol references in Markdown pages",
		Long: "Rewrite reads Markdown files, or directories of them, and links every backtick code span that names a Go symbol. " +
			"By default the result is printed; use --write to update files in place or --check to report pages that would change.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd, v, args)
		},
	}

	cmd.Flags().StringSlice("source", nil, "Default reference source, such as a package path (repeatable)")
	cmd.Flags().Bool("write", false, "Rewrite files in place")
	cmd.Flags().Bool("check", false, "Print diffs and fail if any page would change")
	cmd.Flags().Bool("changed", false, "Only process pages changed in the git work tree")
	cmd.Flags().Int(config.KeyConcurrency, 0, "Pages processed at once (default GOMAXPROCS)")
	cmd.MarkFlagsMutuallyExclusive("write", "check")

	v.BindPFlag(config.KeySources, cmd.Flags().Lookup("source"))
	v.BindPFlag(config.KeyConcurrency, cmd.Flags().Lookup(config.KeyConcurrency))

	return cmd
}

// runRewrite processes the selected pages.
func runRewrite(cmd *cobra.Command, v *viper.Viper, args []string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger := logging.Logger()

	plugin, err := newPlugin(cfg)
	if err != nil {
		return err
	}

	files, err := selectPages(cmd, cfg, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Info("no pages to process")
		return nil
	}

	write, _ := cmd.Flags().GetBool("write")
	check, _ := cmd.Flags().GetBool("check")
	mode := docs.ModePrint
	switch {
	case write:
		mode = docs.ModeWrite
	case check:
		mode = docs.ModeCheck
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	proc := &docs.Processor{
		Plugin:      plugin,
		Root:        cfg.WorkDir,
		Mode:        mode,
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	}
	results, err := proc.Process(ctx, files)
	if err != nil {
		return err
	}

	return report(cmd, mode, results, logger)
}

// report prints results and returns an error if any page failed, or, in
// check mode, would change.
func report(cmd *cobra.Command, mode docs.Mode, results []docs.Result, logger *zap.Logger) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	var failed, changed int
	var total autoref.Stats
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(errOut, "Error: %v\n", r.Err)
			continue
		}
		total.Rewritten += r.Stats.Rewritten
		total.Unresolved += r.Stats.Unresolved
		total.Skipped += r.Stats.Skipped
		if r.Changed {
			changed++
		}

		switch mode {
		case docs.ModePrint:
			if len(results) > 1 {
				fmt.Fprintf(out, "==> %s <==\n", r.Path)
			}
			fmt.Fprint(out, r.Output)
		case docs.ModeCheck:
			fmt.Fprint(out, r.Diff)
		case docs.ModeWrite:
			if r.Changed {
				fmt.Fprintf(out, "rewrote %s\n", r.Path)
			}
		}
	}

	logger.Info("processed pages",
		zap.Int("pages", len(results)),
		zap.Int("changed", changed),
		zap.Int("failed", failed),
		zap.Int("rewritten", total.Rewritten),
		zap.Int("unresolved", total.Unresolved),
		zap.Int("skipped", total.Skipped))

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errPageFailed, failed, len(results))
	}
	if mode == docs.ModeCheck && changed > 0 {
		return fmt.Errorf("%w: %d of %d", errWouldChange, changed, len(results))
	}
	return nil
}

// selectPages lists the Markdown files named by args, or only those of
// them changed in git when --changed is set. With --changed and no args,
// changes are limited to the working directory.
func selectPages(cmd *cobra.Command, cfg config.Config, args []string) ([]string, error) {
	onlyChanged, _ := cmd.Flags().GetBool("changed")
	if !onlyChanged {
		return docs.Discover(cfg.WorkDir, args)
	}

	repo, err := gitpkg.Open(cfg.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	logging.Logger().Debug("listing changed pages", zap.String("repository", repo.Root()))
	if len(args) == 0 {
		args = []string{cfg.WorkDir}
	}
	roots := make([]string, 0, len(args))
	for _, a := range args {
		abs, err := filepath.Abs(a)
		if err != nil {
			return nil, err
		}
		roots = append(roots, abs)
	}
	return repo.ChangedFiles(func(path string) bool {
		return docs.IsMarkdown(path) && under(path, roots)
	})
}

// under reports whether path is one of roots or inside one of them. No
// roots means everything.
func under(path string, roots []string) bool {
	if len(roots) == 0 {
		return true
	}
	for _, root := range roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// newPlugin builds the plugin from the configured default sources.
func newPlugin(cfg config.Config) (autoref.Plugin, error) {
	sources := make([]types.Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		sources = append(sources, types.PathSource(s))
	}
	plugin, err := autoref.New(autoref.Config{
		Sources: sources,
		WorkDir: cfg.WorkDir,
		Logger:  logging.Logger(),
	})
	if err != nil {
		return nil, fmt.Errorf("initialization failed: %w", err)
	}
	return plugin, nil
}

// newResolveCmd creates the "resolve" command.
func newResolveCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve a dotted symbol path",
		Long: "Resolve imports a path such as \"net/http.Client.Do\" or \"encoding.json.Marshal\" and prints the symbol kind and link target, " +
			"followed by its signature, where it is declared, and its doc comment.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			cfg.Sources = nil
			plugin, err := newPlugin(cfg)
			if err != nil {
				return err
			}

			sym, ok := plugin.Resolve(args[0])
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "not found: %s\n", args[0])
				return fmt.Errorf("%w: %s", errNotFound, args[0])
			}
			describe(cmd.OutOrStdout(), sym, cfg.WorkDir)
			return nil
		},
	}
}

// describe prints the kind and link target of sym, then its indented
// signature, declaration site relative to workDir, and doc comment.
func describe(w io.Writer, sym types.Symbol, workDir string) {
	fmt.Fprintf(w, "%s %s\n", sym.Kind, sym.FullPath())
	if abs, err := filepath.Abs(workDir); err == nil && filepath.IsAbs(sym.FilePath) {
		if rel, err := filepath.Rel(abs, sym.FilePath); err == nil && !strings.HasPrefix(rel, "..") {
			sym.FilePath = rel
		}
	}
	for _, block := range []string{sym.Signature, sym.Location(), sym.Doc} {
		if block == "" {
			continue
		}
		for _, line := range strings.Split(block, "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}
