// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines shared types used across go-autoref packages.
package types

import "strconv"

// SymbolKind identifies the category of a code symbol.
type SymbolKind int

const (
	Function  SymbolKind = iota // Function declaration
	Method                      // Method declaration (has receiver)
	Struct                      // Struct type declaration
	Interface                   // Interface type declaration
	Variable                    // Package-level variable declaration
	Constant                    // Package-level constant declaration
	PackageKind                 // Importable package
)

// String returns the human-readable name of the symbol kind.
func (k SymbolKind) String() string {
	switch k {
	case Function:
		return "Function"
	case Method:
		return "Method"
	case Struct:
		return "Struct"
	case Interface:
		return "Interface"
	case Variable:
		return "Variable"
	case Constant:
		return "Constant"
	case PackageKind:
		return "Package"
	default:
		return "Unknown"
	}
}

// IsType reports whether the kind is a named type declaration.
func (k SymbolKind) IsType() bool {
	return k == Struct || k == Interface
}

// Linkable reports whether symbols of this kind get their own anchor on a
// rendered API reference page.
func (k SymbolKind) Linkable() bool {
	switch k {
	case Function, Method, Struct, Interface, PackageKind:
		return true
	default:
		return false
	}
}

// Symbol represents a code symbol extracted from Go source, or a whole
// package when Kind is PackageKind.
type Symbol struct {
	Name      string     // Symbol name (package clause name for packages)
	Kind      SymbolKind // Category (function, struct, etc.)
	PkgPath   string     // Import path of the owning package
	Receiver  string     // Receiver type name; methods only
	FilePath  string     // Source file path
	Line      int        // Line number (1-based)
	Column    int        // Column number (1-based)
	Signature string     // Type signature (function signature, struct fields, etc.)
	Doc       string     // Doc comment text
	Package   *Package   // Package contents; set only when Kind is PackageKind
}

// QualName returns the name qualified within its package: Type.Method for
// methods, the plain name otherwise.
func (s Symbol) QualName() string {
	if s.Kind == Method && s.Receiver != "" {
		return s.Receiver + "." + s.Name
	}
	return s.Name
}

// FullPath returns the link target for the symbol. Packages are addressed
// by import path; everything else by import path plus qualified name.
func (s Symbol) FullPath() string {
	if s.Kind == PackageKind {
		return s.PkgPath
	}
	return s.PkgPath + "." + s.QualName()
}

// Location returns "file:line" for the declaration, the file alone when
// the line is unknown, or "" when neither is.
func (s Symbol) Location() string {
	if s.FilePath == "" || s.Line == 0 {
		return s.FilePath
	}
	return s.FilePath + ":" + strconv.Itoa(s.Line)
}

// PackageSymbol wraps a package so it can be stored in reference tables.
func PackageSymbol(pkg *Package) Symbol {
	sym := Symbol{
		Name:    pkg.Name,
		Kind:    PackageKind,
		PkgPath: pkg.Path,
		Package: pkg,
	}
	if len(pkg.Files) > 0 {
		sym.FilePath = pkg.Files[0]
	}
	return sym
}
