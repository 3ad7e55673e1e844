package symbols

import (
	"ace/internal/ast"
	"ace/internal/source"
	"ace/internal/types"
)

// SeedNativeTypes registers the `::std::<lower>::<Upper>` module/struct
// pairs the lexer's native-type keyword expansion references,
// so a bare `i32` resolves the moment any file is parsed, with no
// per-compilation bootstrap file to load. Must run once, before any
// file's Builder.CreateSymbolsForFile.
func (b *Builder) SeedNativeTypes() {
	b.Table.NativeTypes = make(map[string]SymbolID, len(types.NativeDescs))
	std := b.Table.CreateChild(b.Table.RootID(), ScopeModule, "std", source.Location{})
	stdModSym := &Symbol{Kind: KindModule, Name: source.Ident{Name: "std"}, Vis: ast.Pub, ModuleBody: std, Scope: b.Table.RootID()}
	b.Table.Define(stdModSym)

	for _, desc := range types.NativeDescs {
		lower := lowerFirst(desc.Name)
		sub := b.Table.CreateChild(std, ScopeModule, lower, source.Location{})
		subSym := &Symbol{Kind: KindModule, Name: source.Ident{Name: lower}, Vis: ast.Pub, ModuleBody: sub, Scope: std}
		b.Table.Define(subSym)

		structID := b.Table.Define(&Symbol{Kind: KindStruct, Name: source.Ident{Name: desc.Name}, Vis: ast.Pub, Scope: sub})
		structSym := b.Table.Symbol(structID)
		structSym.StructBody = b.Table.CreateChild(sub, ScopeStruct, desc.Name, source.Location{})

		b.Table.NativeTypes[desc.Name] = structID
		b.Types.Nominal(types.NominalKey(structID)) // pre-intern so later lookups hit the cache
	}
}

// NativeTypeID returns the nominal TypeID for a bootstrap native type by
// its capitalized name (e.g. "I32", "Bool"), or false if name isn't one.
func (b *Builder) NativeTypeID(name string) (types.TypeID, bool) {
	id, ok := b.Table.NativeTypes[name]
	if !ok {
		return 0, false
	}
	return b.Types.Nominal(types.NominalKey(id)), true
}

func lowerFirst(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'A' && c <= 'Z' {
			out[i] = c - 'A' + 'a'
		} else {
			break
		}
	}
	return string(out)
}
