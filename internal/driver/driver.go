// Package driver orchestrates one compilation: concurrent source loading
// and lexing/parsing, then the strictly single-threaded decl-phase,
// bind/type-check/lower fixed points, and control-flow analysis over
// every file, in that order.
package driver

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"ace/internal/ast"
	"ace/internal/cfa"
	"ace/internal/diag"
	"ace/internal/lexer"
	"ace/internal/parser"
	"ace/internal/sema"
	"ace/internal/source"
	"ace/internal/symbols"
	"ace/internal/token"
	"ace/internal/types"
)

// Options configures one Compile run.
type Options struct {
	// Jobs caps concurrent file loads; 0 uses the errgroup default (no
	// limit, since file I/O is never CPU-bound enough to need one).
	Jobs int
	// MaxDiagnosticsPerFile bounds each file's parse-time diagnostic bag
	//.
	MaxDiagnosticsPerFile int
}

// FileResult is one source file's load-through-parse output.
type FileResult struct {
	Path string
	FileID source.FileID
	Tokens []token.Token
	AST *ast.File
	Bag *diag.Bag
}

// Unit is the result of compiling one package: every file's parse result,
// the finalized symbol table and type interner, and the aggregate
// diagnostic bag across every phase.
type Unit struct {
	FileSet *source.FileSet
	Table *symbols.Table
	Types *types.Interner
	Files []FileResult
	Bag *diag.Bag
}

// TokenizeResult is the output of tokenizing one file in isolation, with
// no decl-phase or semantic work performed.
type TokenizeResult struct {
	Path string
	Tokens []token.Token
	Bag *diag.Bag
}

// Tokenize lexes a single file without parsing or any later phase —
// the `acec tokenize` subcommand's fast path when it only needs the
// token stream, not a parse tree.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	if maxDiagnostics <= 0 {
		maxDiagnostics = 256
	}
	text, err := os.ReadFile(path) //nolint:gosec // path comes from the CLI's own argument
	if err != nil {
		return nil, err
	}
	buf := &source.FileBuffer{Path: path, Text: string(text)}
	bag := diag.NewBag(maxDiagnostics)
	toks := lexer.Lex(buf, bag)
	return &TokenizeResult{Path: path, Tokens: toks, Bag: bag}, nil
}

// ParseResult is the output of lexing and parsing one file in isolation,
// with no decl-phase or semantic work performed.
type ParseResult struct {
	Path string
	AST *ast.File
	Bag *diag.Bag
}

// Parse lexes and parses a single file without running the decl phase or
// any bind/check/lower fixed point.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	if maxDiagnostics <= 0 {
		maxDiagnostics = 256
	}
	text, err := os.ReadFile(path) //nolint:gosec // path comes from the CLI's own argument
	if err != nil {
		return nil, err
	}
	buf := &source.FileBuffer{Path: path, Text: string(text)}
	bag := diag.NewBag(maxDiagnostics)
	toks := lexer.Lex(buf, bag)
	p := parser.New(toks, buf, bag)
	file := p.ParseFile(ast.FileID(0))
	return &ParseResult{Path: path, AST: file, Bag: bag}, nil
}

// Compile runs the full pipeline over paths: concurrent read+lex+parse,
// then a single-threaded decl phase (symbols.Builder), per-function
// bind/type-check/lower fixed points, and CFA — freezing the symbol
// table only once every function body has been bound and lowered (local
// variables, nested block scopes, and anonymous jump labels are all
// defined after the decl phase completes).
func Compile(ctx context.Context, paths []string, opts Options) (*Unit, error) {
	if opts.MaxDiagnosticsPerFile <= 0 {
		opts.MaxDiagnosticsPerFile = 256
	}

	fileSet := source.NewFileSet()
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	bufs := make([]*source.FileBuffer, len(paths))
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			text, err := os.ReadFile(p) //nolint:gosec // paths come from the caller's own project manifest
			if err != nil {
				return err
			}
			bufs[i] = &source.FileBuffer{Path: p, Text: string(text)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// FileSet registration stays sequential: it mints FileIDs, and arena
	// growth order must match paths order for reproducible diagnostics.
	for i, buf := range bufs {
		fid := fileSet.Add(buf)
		results[i] = FileResult{Path: buf.Path, FileID: fid}
	}

	g2, gctx2 := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g2.SetLimit(opts.Jobs)
	}
	for i := range results {
		i := i
		g2.Go(func() error {
			select {
			case <-gctx2.Done():
				return gctx2.Err()
			default:
			}
			buf := bufs[i]
			bag := diag.NewBag(opts.MaxDiagnosticsPerFile)
			toks := lexer.Lex(buf, bag)
			p := parser.New(toks, buf, bag)
			file := p.ParseFile(ast.FileID(results[i].FileID))
			results[i].Tokens = toks
			results[i].AST = file
			results[i].Bag = bag
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return nil, err
	}

	u := &Unit{FileSet: fileSet, Files: results, Bag: diag.NewBag(opts.MaxDiagnosticsPerFile * len(paths))}
	for _, r := range results {
		u.Bag.Merge(r.Bag)
	}

	table := symbols.NewTable()
	interner := types.NewInterner()
	builder := symbols.NewBuilder(table, interner)
	builder.SeedNativeTypes()
	u.Table = table
	u.Types = interner

	for _, r := range results {
		if r.AST == nil {
			continue
		}
		builder.CreateSymbolsForFile(r.AST, table.RootID(), ast.Pub, u.Bag)
	}
	builder.ResolveTypes(u.Bag)

	compileBodies(table, interner, results, u.Bag)
	table.Freeze()

	return u, nil
}

// compileBodies runs bind -> type-check -> lower -> CFA for every
// non-generic function with a body, across every file. Generic function
// bodies are compiled per call-site instantiation by the (out-of-scope)
// monomorphizer, not here — places template instantiation at
// first use, which this single-pass driver does not perform.
func compileBodies(table *symbols.Table, interner *types.Interner, files []FileResult, bag *diag.Bag) {
	unit, hasUnit := table.NativeTypes["Void"]
	var unitType types.TypeID
	if hasUnit {
		unitType = interner.Nominal(types.NominalKey(unit))
	}

	for _, r := range files {
		if r.AST == nil {
			continue
		}
		for _, fn := range collectFunctions(r.AST.Items) {
			if fn.Body == nil || len(fn.TypeParams) > 0 {
				continue
			}
			sym := findFunctionByLoc(table, table.RootID(), fn.Loc)
			if sym == nil {
				continue
			}
			compileOneFunction(table, interner, fn, sym, unitType, bag)
		}
	}
}

func compileOneFunction(table *symbols.Table, interner *types.Interner, fn *ast.FunctionSyntax, sym *symbols.Symbol, unitType types.TypeID, bag *diag.Bag) {
	binder := sema.NewBinder(table, interner)
	binder.SetCurrentFunction(sym.ID)
	body := binder.BindFunctionBody(fn.Body, bag)

	checker := sema.NewChecker(table, interner, sym.FnSig.Return)
	body = checker.Run(body, bag)

	lowerer := sema.NewLowerer(table, interner, fn.Body.Scope())
	body = lowerer.Run(body)

	cfa.Check(body, sym.FnSig.Return, unitType, interner, bag)
}

// collectFunctions walks module/impl nesting to find every function
// declaration reachable from a file's top level.
func collectFunctions(items []ast.Item) []*ast.FunctionSyntax {
	var out []*ast.FunctionSyntax
	for _, it := range items {
		switch v := it.(type) {
		case *ast.FunctionSyntax:
			out = append(out, v)
		case *ast.ModuleSyntax:
			out = append(out, collectFunctions(v.Items)...)
		case *ast.ImplSyntax:
			out = append(out, v.Functions...)
		}
	}
	return out
}

// findFunctionByLoc finds the KindFunction symbol whose FnBodyLoc matches
// loc, searching a scope and every descendant module/struct/impl scope.
// Symbols carry no back-pointer to their declaring syntax node, so the driver — which already holds
// both trees — is where this reunification happens.
func findFunctionByLoc(table *symbols.Table, scope symbols.ScopeID, loc source.Location) *symbols.Symbol {
	for _, id := range table.Scope(scope).Symbols() {
		sym := table.Symbol(id)
		switch sym.Kind {
		case symbols.KindFunction:
			if sym.FnBodyLoc == loc {
				return sym
			}
		case symbols.KindModule:
			if found := findFunctionByLoc(table, sym.ModuleBody, loc); found != nil {
				return found
			}
		case symbols.KindStruct:
			if found := findFunctionByLoc(table, sym.StructBody, loc); found != nil {
				return found
			}
		case symbols.KindInherentImpl, symbols.KindTraitImpl:
			if found := findFunctionByLoc(table, sym.ImplScope, loc); found != nil {
				return found
			}
		}
	}
	return nil
}
