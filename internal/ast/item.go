package ast

import "ace/internal/source"

// Visibility is the access modifier carried by every declaration.
type Visibility uint8

const (
	// Priv is the default, module-private visibility.
	Priv Visibility = iota
	// Pub is explicit `pub` visibility.
	Pub
)

// Item is implemented by every top-level (or module-body) declaration
// syntax node.
type Item interface {
	Decl
}

type itemBase struct {
	Loc     source.Location
	scopeID ScopeID
	Vis     Visibility
	order   int
}

func (d *itemBase) Location() source.Location { return d.Loc }
func (d *itemBase) Scope() ScopeID             { return d.scopeID }
func (d *itemBase) SetScope(id ScopeID)        { d.scopeID = id }
func (d *itemBase) DeclSuborder() int          { return d.order }

// FieldSyntax is one `name: Type` struct field.
type FieldSyntax struct {
	itemBase
	Name source.Ident
	Type *TypeName
}

func (f *FieldSyntax) Children() []Node   { return []Node{f.Type} }
func (f *FieldSyntax) DeclOrder() DeclOrder { return AfterType }

// ModuleSyntax is `[pub] Name: mod { Item* }`. A module can
// be split across files; each file's ModuleSyntax is a PartialDeclSyntax
// merging into one Module symbol.
type ModuleSyntax struct {
	itemBase
	Name  source.Ident
	Items []Item
}

func (m *ModuleSyntax) Children() []Node {
	out := make([]Node, len(m.Items))
	for i, it := range m.Items {
		out[i] = it
	}
	return out
}
func (m *ModuleSyntax) DeclOrder() DeclOrder { return BeforeType }

// StructSyntax is `[pub] Name [TypeParams]: [pub] struct { Field* }`.
type StructSyntax struct {
	itemBase
	Name       source.Ident
	TypeParams []*TypeParamSyntax
	Fields     []*FieldSyntax
}

func (s *StructSyntax) Children() []Node {
	out := make([]Node, 0, len(s.TypeParams)+len(s.Fields))
	for _, tp := range s.TypeParams {
		out = append(out, tp)
	}
	for _, f := range s.Fields {
		out = append(out, f)
	}
	return out
}
func (s *StructSyntax) DeclOrder() DeclOrder { return TypeOrder }

// PrototypeSyntax is one trait member signature.
type PrototypeSyntax struct {
	itemBase
	Name       source.Ident
	HasSelf    bool
	Params     []*FnParamSyntax
	ReturnType *TypeName
	Index      int
}

func (p *PrototypeSyntax) Children() []Node {
	out := make([]Node, 0, len(p.Params)+1)
	for _, par := range p.Params {
		out = append(out, par)
	}
	if p.ReturnType != nil {
		out = append(out, p.ReturnType)
	}
	return out
}
func (p *PrototypeSyntax) DeclOrder() DeclOrder { return AfterType }

// TraitSyntax is `[pub] Name [TypeParams]: trait [: TraitList] { Prototype* }`.
type TraitSyntax struct {
	itemBase
	Name        source.Ident
	TypeParams  []*TypeParamSyntax
	Supertraits []SymbolName
	Prototypes  []*PrototypeSyntax
}

func (t *TraitSyntax) Children() []Node {
	out := make([]Node, 0, len(t.TypeParams)+len(t.Prototypes))
	for _, tp := range t.TypeParams {
		out = append(out, tp)
	}
	for _, p := range t.Prototypes {
		out = append(out, p)
	}
	return out
}
func (t *TraitSyntax) DeclOrder() DeclOrder { return TypeOrder }

// FnModifier enumerates the function-header modifiers the shared named
// symbol header parses.
type FnModifier uint8

const (
	ModPub FnModifier = iota
	ModExtern
	ModSelfByValue
	ModSelfByRef
	ModSelfStrongPtr
	ModOp // `op` — operator overload
)

// FnParamSyntax is one function parameter. IsSelf distinguishes the
// synthesized self-parameter.
type FnParamSyntax struct {
	itemBase
	Name    source.Ident
	Type    *TypeName
	IsSelf  bool
	SelfMod FnModifier // meaningful only if IsSelf
	Index   int
}

func (p *FnParamSyntax) Children() []Node {
	if p.Type == nil {
		return nil
	}
	return []Node{p.Type}
}
func (p *FnParamSyntax) DeclOrder() DeclOrder { return AfterType }

// FunctionSyntax is `{Modifier} Name [TypeParams] Params: TypeName [Where] (Block | ';')`.
// A nil Body means an extern (prototype-only) function.
type FunctionSyntax struct {
	itemBase
	Modifiers   []FnModifier
	Name        source.Ident
	TypeParams  []*TypeParamSyntax
	Params      []*FnParamSyntax
	ReturnType  *TypeName
	Where       []*ConstraintSyntax
	Body        *BlockStmt
	OperatorTok string // non-empty when Modifiers contains ModOp, e.g. "+"
}

func (f *FunctionSyntax) Children() []Node {
	out := make([]Node, 0, len(f.TypeParams)+len(f.Params)+2)
	for _, tp := range f.TypeParams {
		out = append(out, tp)
	}
	for _, p := range f.Params {
		out = append(out, p)
	}
	if f.ReturnType != nil {
		out = append(out, f.ReturnType)
	}
	if f.Body != nil {
		out = append(out, f.Body)
	}
	return out
}
func (f *FunctionSyntax) DeclOrder() DeclOrder { return AfterType }

func (f *FunctionSyntax) HasModifier(m FnModifier) bool {
	for _, x := range f.Modifiers {
		if x == m {
			return true
		}
	}
	return false
}

// GlobalVarSyntax is a module-level `name: Type = init;` declaration.
type GlobalVarSyntax struct {
	itemBase
	Name source.Ident
	Type *TypeName
	Init Expr
}

func (g *GlobalVarSyntax) Children() []Node {
	out := []Node{g.Type}
	if g.Init != nil {
		out = append(out, g.Init)
	}
	return out
}
func (g *GlobalVarSyntax) DeclOrder() DeclOrder { return AfterType }

// ImplSyntax is `impl [TypeParams] SymbolName ['for' SymbolName] { Function* }`.
// IsTraitImpl distinguishes a trait impl from an inherent impl.
type ImplSyntax struct {
	itemBase
	TypeParams  []*TypeParamSyntax
	IsTraitImpl bool
	TraitName   SymbolName // zero value if !IsTraitImpl
	TargetName  SymbolName
	Functions   []*FunctionSyntax
}

func (i *ImplSyntax) Children() []Node {
	out := make([]Node, 0, len(i.TypeParams)+len(i.Functions))
	for _, tp := range i.TypeParams {
		out = append(out, tp)
	}
	for _, fn := range i.Functions {
		out = append(out, fn)
	}
	return out
}
func (i *ImplSyntax) DeclOrder() DeclOrder { return AfterType }

// UseSyntax is `use SymbolName;`.
type UseSyntax struct {
	itemBase
	TraitName SymbolName
}

func (u *UseSyntax) Children() []Node      { return nil }
func (u *UseSyntax) DeclOrder() DeclOrder  { return AfterType }
