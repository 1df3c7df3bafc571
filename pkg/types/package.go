// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// Import records one import declaration of a package file.
type Import struct {
	Name string // Explicit local name; empty when the package name is used
	Path string // Imported package path
	File string // File that declares the import
}

// Package holds the declarations of one loaded Go package.
type Package struct {
	Path    string   // Import path
	Name    string   // Package clause name
	Files   []string // Source files; empty for pseudo-packages such as "C"
	Exports []string // Explicit export list; nil when the package declares none
	Members []Symbol // Package-scope declarations and methods, in source order
	Imports []Import // File-scope imports, in source order
}

// Member returns the package-scope declaration with the given name.
// Methods are not package-scope declarations; use Method for those.
func (p *Package) Member(name string) (Symbol, bool) {
	for _, m := range p.Members {
		if m.Kind != Method && m.Name == name {
			return m, true
		}
	}
	return Symbol{}, false
}

// Method returns the method name declared on the named type.
func (p *Package) Method(typeName, name string) (Symbol, bool) {
	for _, m := range p.Members {
		if m.Kind == Method && m.Receiver == typeName && m.Name == name {
			return m, true
		}
	}
	return Symbol{}, false
}
