// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package rewrite turns backtick code spans that name known Go symbols into
// reference-style Markdown links:
//
//	`Client`  ->  [`Client`][example.com/pkg.Client]
//
// Headings and fenced code blocks are left alone, as are spans that look
// like paths or prose and spans that do not resolve.
package rewrite

import (
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-autoref/internal/reftable"
	"github.com/petar-djukic/go-autoref/internal/symbols"
	"github.com/petar-djukic/go-autoref/pkg/types"
)

const (
	headingMarker  = "#"
	fenceDelimiter = "```"
)

// candidatePattern matches the shortest text between two backticks.
var candidatePattern = regexp.MustCompile("`([^`]+)`")

// Resolver resolves names missing from the reference tables, typically by
// importing them. Implementations are expected to memoize.
type Resolver interface {
	Lookup(path string) (types.Symbol, bool)
}

// Stats summarizes one Rewrite call.
type Stats struct {
	Rewritten  int // spans turned into links
	Unresolved int // candidate spans that did not resolve
	Skipped    int // spans excluded as paths, prose, or existing links
}

// Rewriter rewrites documentation pages.
type Rewriter struct {
	fallback Resolver
	logger   *zap.Logger
}

// New creates a Rewriter. fallback may be nil, in which case only table
// entries resolve.
func New(fallback Resolver, logger *zap.Logger) *Rewriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rewriter{fallback: fallback, logger: logger}
}

// Rewrite returns text with every resolvable code span linked. Names are
// looked up in page first, then defaults, then through the fallback
// resolver. The cgo pseudo-package "C" is never linked through the
// fallback. pageID only labels log entries.
func (r *Rewriter) Rewrite(text string, defaults, page *reftable.Table, pageID string) string {
	out, _ := r.RewriteWithStats(text, defaults, page, pageID)
	return out
}

// RewriteWithStats is Rewrite that also reports what happened.
func (r *Rewriter) RewriteWithStats(text string, defaults, page *reftable.Table, pageID string) (string, Stats) {
	view := reftable.Overlay(defaults, page)
	var stats Stats
	var b strings.Builder
	b.Grow(len(text))

	inFence := false
	for i, line := range strings.SplitAfter(text, "\n") {
		// Headings are emitted untouched and never toggle the fence state.
		if isHeading(line) {
			b.WriteString(line)
			continue
		}
		if strings.Contains(line, fenceDelimiter) {
			inFence = !inFence
		}
		if inFence {
			b.WriteString(line)
			continue
		}
		b.WriteString(r.rewriteLine(line, i+1, view, pageID, &stats))
	}
	return b.String(), stats
}

func isHeading(line string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), headingMarker)
}

// rewriteLine replaces candidate spans left to right. Each match is
// replaced in place, so repeated identical spans are each linked once.
func (r *Rewriter) rewriteLine(line string, lineNo int, view reftable.View, pageID string, stats *Stats) string {
	matches := candidatePattern.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return line
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		token := line[m[2]:m[3]]

		if !IsCandidate(token) || isLinked(line, start, end) {
			stats.Skipped++
			continue
		}

		sym, ok := r.resolve(token, view)
		if !ok {
			stats.Unresolved++
			r.logger.Debug("unable to resolve reference, leaving it as-is",
				zap.String("token", token))
			continue
		}

		target := sym.FullPath()
		r.logger.Debug("replacing reference",
			zap.String("token", token),
			zap.String("target", target),
			zap.String("page", pageID),
			zap.Int("line", lineNo),
			zap.String("declared", sym.Location()))

		b.WriteString(line[last:start])
		b.WriteString(Link(token, target))
		last = end
		stats.Rewritten++
	}
	if last == 0 {
		return line
	}
	b.WriteString(line[last:])
	return b.String()
}

func (r *Rewriter) resolve(token string, view reftable.View) (types.Symbol, bool) {
	if sym, ok := view.Lookup(token); ok {
		return sym, true
	}
	if r.fallback == nil {
		return types.Symbol{}, false
	}
	sym, ok := r.fallback.Lookup(token)
	if !ok || (sym.Kind == types.PackageKind && sym.PkgPath == symbols.CgoPackage) {
		return types.Symbol{}, false
	}
	return sym, true
}

// IsCandidate reports whether a code span's text may name a symbol. Text
// with "/", " ", or "-" is treated as a path or prose.
func IsCandidate(token string) bool {
	return !strings.ContainsAny(token, "/ -")
}

// isLinked reports whether the span line[start:end] is already the text of
// a link, as in "[`Foo`][target]" or "[`Foo`]".
func isLinked(line string, start, end int) bool {
	return start > 0 && line[start-1] == '[' && end < len(line) && line[end] == ']'
}

// Link renders the reference-style link for token.
func Link(token, target string) string {
	return "[`" + token + "`][" + target + "]"
}
