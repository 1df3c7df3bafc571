// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package reftable holds the short-name reference tables that documentation
// pages resolve backtick spans against.
package reftable

import (
	"sort"

	"github.com/petar-djukic/go-autoref/pkg/types"
)

// Table maps short names to symbols. Names are unique per table; setting
// an existing name overwrites it.
type Table struct {
	byName map[string]types.Symbol
}

// New creates an empty table.
func New() *Table {
	return &Table{byName: make(map[string]types.Symbol)}
}

// FromMap creates a table holding the entries of m.
func FromMap(m map[string]types.Symbol) *Table {
	t := New()
	t.Update(m)
	return t
}

// Set stores sym under name.
func (t *Table) Set(name string, sym types.Symbol) {
	t.byName[name] = sym
}

// Update copies every entry of m into the table, overwriting collisions.
func (t *Table) Update(m map[string]types.Symbol) {
	for name, sym := range m {
		t.Set(name, sym)
	}
}

// Lookup returns the symbol stored under name. A nil table is empty.
func (t *Table) Lookup(name string) (types.Symbol, bool) {
	if t == nil {
		return types.Symbol{}, false
	}
	sym, ok := t.byName[name]
	return sym, ok
}

// Names returns every name in the table, sorted.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.byName))
	for n := range t.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of entries. A nil table has none.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byName)
}

// Filter returns a new table with the entries keep accepts.
func (t *Table) Filter(keep func(name string, sym types.Symbol) bool) *Table {
	out := New()
	if t == nil {
		return out
	}
	for name, sym := range t.byName {
		if keep(name, sym) {
			out.Set(name, sym)
		}
	}
	return out
}

// View is the effective lookup of one page render: the page table shadows
// the default table.
type View struct {
	Defaults *Table
	Page     *Table
}

// Overlay combines the default and page tables without copying either.
func Overlay(defaults, page *Table) View {
	return View{Defaults: defaults, Page: page}
}

// Lookup checks the page table first, then the defaults.
func (v View) Lookup(name string) (types.Symbol, bool) {
	if sym, ok := v.Page.Lookup(name); ok {
		return sym, true
	}
	return v.Defaults.Lookup(name)
}

// Shadowed returns the names present in both tables, sorted.
func (v View) Shadowed() []string {
	var names []string
	for _, n := range v.Page.Names() {
		if _, ok := v.Defaults.Lookup(n); ok {
			names = append(names, n)
		}
	}
	return names
}
