package symbols

import (
	"ace/internal/ast"
	"ace/internal/source"
	"ace/internal/types"
)

// Kind tags which payload fields of a Symbol are meaningful. Ace's symbol
// model is a closed sum type; Go has no native sum type, so a single
// tagged struct stands in for it rather than an interface hierarchy per
// variant — cheaper to arena-index. The compiler does not check that a
// switch on Kind covers every variant.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindModule
	KindStruct
	KindTrait
	KindPrototype
	KindFunction
	KindField
	KindGlobalVar
	KindLocalVar
	KindParam
	KindSelfParam
	KindLabel
	KindTypeParam
	KindTypeAlias
	KindReimportAlias
	KindImplSelfAlias
	KindInherentImpl
	KindTraitImpl
	KindUse
	// KindError is the canonical fallback substituted whenever
	// resolution fails, keeping every later phase well-typed.
	KindError
)

// FnCategory distinguishes a static function from an instance method.
type FnCategory uint8

const (
	Static FnCategory = iota
	Instance
)

// SelfKind distinguishes self-receiver shapes.
type SelfKind uint8

const (
	SelfByValue SelfKind = iota
	SelfByRef
	SelfStrongPtr
)

// Signature is a function or prototype's parameter/return shape.
type Signature struct {
	ParamNames []string
	ParamTypes []types.TypeID
	Return     types.TypeID
	HasSelf    bool
	SelfKind   SelfKind
}

// Arity returns the number of non-self parameters.
func (s Signature) Arity() int { return len(s.ParamTypes) }

// Symbol is every named entity in the compilation: module, type, function,
// variable, parameter, label, alias, impl, or use. Every
// symbol has an owning scope, a name, a kind tag, and an access modifier;
// the remaining fields are meaningful only for the listed Kind.
type Symbol struct {
	ID     SymbolID
	Kind   Kind
	Scope  ScopeID // the scope this symbol is declared IN
	Name   source.Ident
	Vis    ast.Visibility

	// KindModule
	ModuleBody ScopeID

	// KindStruct
	StructBody     ScopeID
	StructFields   []SymbolID
	TypeParams     []SymbolID // shared by Struct, Trait, Function, Impl
	InherentImpls  []SymbolID
	TraitImpls     []SymbolID

	// KindTrait
	TraitBody       ScopeID
	TraitProtoScope ScopeID
	Prototypes      []SymbolID
	Supertraits     []SymbolID

	// KindPrototype
	ProtoParentTrait SymbolID
	ProtoIndex       int
	ProtoSig         Signature

	// KindFunction
	FnCategory  FnCategory
	FnSig       Signature
	FnHasBody   bool
	FnBodyLoc   source.Location // used by the driver to locate the AST body without symbols depending on ast.FunctionSyntax
	OperatorTok string          // non-empty iff this function overloads an operator

	// KindField
	FieldOwner SymbolID
	FieldIndex int
	FieldType  types.TypeID

	// KindGlobalVar / KindLocalVar
	VarType types.TypeID

	// KindParam / KindSelfParam
	ParamIndex int
	ParamType  types.TypeID
	ParamSelf  SelfKind

	// KindLabel
	LabelOwnerFunc SymbolID

	// KindTypeParam
	TypeParamIndex       int
	TypeParamConstraints []SymbolID // trait symbols constraining this param

	// KindTypeAlias / KindReimportAlias / KindImplSelfAlias
	AliasTarget types.TypeID

	// KindInherentImpl / KindTraitImpl
	ImplTarget    SymbolID // struct symbol
	ImplTrait     SymbolID // trait symbol, KindTraitImpl only
	ImplFunctions []SymbolID
	ImplScope     ScopeID

	// KindUse
	UseTrait SymbolID
}

// IsType reports whether the symbol is resolvable as a type:
// struct, trait, type parameter, or alias.
func (s *Symbol) IsType() bool {
	switch s.Kind {
	case KindStruct, KindTrait, KindTypeParam, KindTypeAlias, KindReimportAlias, KindImplSelfAlias:
		return true
	default:
		return false
	}
}

// IsInstanceMember reports whether the symbol can only be accessed
// through a value expression's member access, never through a path
// expression.
func (s *Symbol) IsInstanceMember() bool {
	return s.Kind == KindField || (s.Kind == KindFunction && s.FnCategory == Instance)
}
