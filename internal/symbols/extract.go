// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package symbols

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"github.com/petar-djukic/go-autoref/pkg/types"
)

// exportDirective marks a comment line that declares the package's explicit
// export list, e.g. "//autoref:export Client NewClient Client.Do".
const exportDirective = "//autoref:export"

// BuildPackage assembles a Package from the parsed files of one package.
// Files are visited in sorted path order so member order is deterministic.
// The package name is taken from the first file.
func BuildPackage(fset *token.FileSet, pkgPath string, files map[string]*ast.File) *types.Package {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	pkg := &types.Package{Path: pkgPath, Files: paths}
	for _, p := range paths {
		file := files[p]
		if pkg.Name == "" && file.Name != nil {
			pkg.Name = file.Name.Name
		}
		pkg.Members = append(pkg.Members, ExtractSymbols(fset, pkgPath, p, file)...)
		pkg.Imports = append(pkg.Imports, extractImports(p, file)...)
		if names, ok := exportNames(file); ok {
			// A bare directive still declares an explicit, empty list.
			if pkg.Exports == nil {
				pkg.Exports = []string{}
			}
			pkg.Exports = append(pkg.Exports, names...)
		}
	}
	if pkg.Exports != nil {
		pkg.Exports = dedupe(pkg.Exports)
	}
	return pkg
}

// ExtractSymbols extracts all declarations from a parsed Go file.
// It recognizes functions, methods, structs, interfaces (and their
// methods), variables, and constants.
func ExtractSymbols(fset *token.FileSet, pkgPath, filePath string, file *ast.File) []types.Symbol {
	var symbols []types.Symbol

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			symbols = append(symbols, extractFuncSymbol(fset, pkgPath, filePath, d))
		case *ast.GenDecl:
			symbols = append(symbols, extractGenDeclSymbols(fset, pkgPath, filePath, d)...)
		}
	}

	return symbols
}

func extractFuncSymbol(fset *token.FileSet, pkgPath, filePath string, fn *ast.FuncDecl) types.Symbol {
	pos := fset.Position(fn.Name.Pos())
	sym := types.Symbol{
		Name:      fn.Name.Name,
		Kind:      types.Function,
		PkgPath:   pkgPath,
		FilePath:  filePath,
		Line:      pos.Line,
		Column:    pos.Column,
		Signature: funcSignature(fset, fn),
		Doc:       docText(fn.Doc),
	}
	if fn.Recv != nil && len(fn.Recv.List) > 0 {
		sym.Kind = types.Method
		sym.Receiver = receiverName(fn.Recv.List[0].Type)
	}
	return sym
}

// extractGenDeclSymbols extracts symbols from type, var, and const declarations.
func extractGenDeclSymbols(fset *token.FileSet, pkgPath, filePath string, gd *ast.GenDecl) []types.Symbol {
	var symbols []types.Symbol

	for _, spec := range gd.Specs {
		switch s := spec.(type) {
		case *ast.TypeSpec:
			symbols = append(symbols, extractTypeSymbols(fset, pkgPath, filePath, gd, s)...)
		case *ast.ValueSpec:
			symbols = append(symbols, extractValueSymbols(fset, pkgPath, filePath, gd, s)...)
		}
	}

	return symbols
}

// extractTypeSymbols returns the type itself followed by any methods its
// interface body declares.
func extractTypeSymbols(fset *token.FileSet, pkgPath, filePath string, gd *ast.GenDecl, ts *ast.TypeSpec) []types.Symbol {
	pos := fset.Position(ts.Name.Pos())

	// Defined types and aliases link like structs.
	kind := types.Struct
	var methods []types.Symbol
	if it, ok := ts.Type.(*ast.InterfaceType); ok {
		kind = types.Interface
		methods = interfaceMethods(fset, pkgPath, filePath, ts.Name.Name, it)
	}

	doc := docText(ts.Doc)
	if doc == "" {
		doc = docText(gd.Doc)
	}

	sym := types.Symbol{
		Name:      ts.Name.Name,
		Kind:      kind,
		PkgPath:   pkgPath,
		FilePath:  filePath,
		Line:      pos.Line,
		Column:    pos.Column,
		Signature: typeSignature(fset, ts),
		Doc:       doc,
	}
	return append([]types.Symbol{sym}, methods...)
}

func interfaceMethods(fset *token.FileSet, pkgPath, filePath, iface string, it *ast.InterfaceType) []types.Symbol {
	if it.Methods == nil {
		return nil
	}
	var methods []types.Symbol
	for _, field := range it.Methods.List {
		ft, ok := field.Type.(*ast.FuncType)
		if !ok {
			continue // embedded interface or type constraint
		}
		for _, name := range field.Names {
			pos := fset.Position(name.Pos())
			methods = append(methods, types.Symbol{
				Name:      name.Name,
				Kind:      types.Method,
				PkgPath:   pkgPath,
				Receiver:  iface,
				FilePath:  filePath,
				Line:      pos.Line,
				Column:    pos.Column,
				Signature: name.Name + strings.TrimPrefix(render(fset, ft), "func"),
				Doc:       docText(field.Doc),
			})
		}
	}
	return methods
}

// extractValueSymbols extracts symbols from var or const declarations.
func extractValueSymbols(fset *token.FileSet, pkgPath, filePath string, gd *ast.GenDecl, vs *ast.ValueSpec) []types.Symbol {
	kind := types.Variable
	if gd.Tok == token.CONST {
		kind = types.Constant
	}

	doc := docText(vs.Doc)
	if doc == "" && len(gd.Specs) == 1 {
		doc = docText(gd.Doc)
	}

	sig := ""
	if vs.Type != nil {
		sig = render(fset, vs.Type)
	}

	var symbols []types.Symbol
	for _, name := range vs.Names {
		if name.Name == "_" {
			continue
		}
		pos := fset.Position(name.Pos())
		symbols = append(symbols, types.Symbol{
			Name:      name.Name,
			Kind:      kind,
			PkgPath:   pkgPath,
			FilePath:  filePath,
			Line:      pos.Line,
			Column:    pos.Column,
			Signature: sig,
			Doc:       doc,
		})
	}

	return symbols
}

func extractImports(filePath string, file *ast.File) []types.Import {
	imports := make([]types.Import, 0, len(file.Imports))
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := types.Import{Path: path, File: filePath}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}
		imports = append(imports, imp)
	}
	return imports
}

// exportNames collects the names listed by export directives in file.
// The boolean is false when the file carries no directive at all.
func exportNames(file *ast.File) ([]string, bool) {
	var names []string
	found := false
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			rest, ok := strings.CutPrefix(c.Text, exportDirective)
			if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
				continue
			}
			found = true
			names = append(names, strings.Fields(rest)...)
		}
	}
	if found && names == nil {
		names = []string{}
	}
	return names, found
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// receiverName strips pointers and type parameters from a receiver type.
func receiverName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return receiverName(e.X)
	case *ast.ParenExpr:
		return receiverName(e.X)
	case *ast.IndexExpr:
		return receiverName(e.X)
	case *ast.IndexListExpr:
		return receiverName(e.X)
	default:
		return ""
	}
}

// funcSignature renders the declaration line of fn. Receiver names are
// dropped, as in "func (*Client) Do() error".
func funcSignature(fset *token.FileSet, fn *ast.FuncDecl) string {
	decl := *fn
	decl.Doc = nil
	decl.Body = nil
	if fn.Recv != nil {
		recv := *fn.Recv
		recv.List = make([]*ast.Field, len(fn.Recv.List))
		for i, f := range fn.Recv.List {
			recv.List[i] = &ast.Field{Type: f.Type}
		}
		decl.Recv = &recv
	}
	return render(fset, &decl)
}

func typeSignature(fset *token.FileSet, ts *ast.TypeSpec) string {
	spec := *ts
	spec.Doc = nil
	spec.Comment = nil
	return "type " + render(fset, &spec)
}

// render prints node as gofmt would, or returns "" if it cannot.
func render(fset *token.FileSet, node any) string {
	var b bytes.Buffer
	if err := format.Node(&b, fset, node); err != nil {
		return ""
	}
	return b.String()
}

// docText extracts the text from a comment group, trimming whitespace.
func docText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	return strings.TrimSpace(cg.Text())
}
