package token

// keywords maps the reserved-word spellings to their Kind. Native-type
// keywords are included here too; the lexer expands them into a compound
// synthetic path rather than emitting a single token of this
// kind, but LookupKeyword still needs to recognize them as reserved so a
// plain identifier with the same spelling is never produced.
var keywords = map[string]Kind{
	"if":            KwIf,
	"elif":          KwElif,
	"else":          KwElse,
	"while":         KwWhile,
	"for":           KwFor,
	"ret":           KwRet,
	"struct":        KwStruct,
	"trait":         KwTrait,
	"impl":          KwImpl,
	"pub":           KwPub,
	"self":          KwSelfValue,
	"Self":          KwSelfType,
	"extern":        KwExtern,
	"cast":          KwCast,
	"exit":          KwExit,
	"assert":        KwAssert,
	"mod":           KwMod,
	"use":           KwUse,
	"where":         KwWhere,
	"op":            KwOp,
	"box":           KwBox,
	"unbox":         KwUnbox,
	"lock":          KwLock,
	"copy":          KwCopy,
	"drop":          KwDrop,
	"addr_of":       KwAddrOf,
	"size_of":       KwSizeOf,
	"deref_as":      KwDerefAs,
	"type_info_ptr": KwTypeInfoPtr,
	"vtbl_ptr":      KwVtblPtr,
	"true":          KwTrue,
	"false":         KwFalse,
	"new":           KwNew,

	"i8":   KwI8,
	"i16":  KwI16,
	"i32":  KwI32,
	"i64":  KwI64,
	"u8":   KwU8,
	"u16":  KwU16,
	"u32":  KwU32,
	"u64":  KwU64,
	"int":  KwInt,
	"f32":  KwF32,
	"f64":  KwF64,
	"bool": KwBool,
	"void": KwVoid,
}

// nativeTypeKeywords maps a native-type keyword Kind to the qualified path
// segments the lexer expands it into, e.g. KwI32 -> ["std", "i32", "I32"].
var nativeTypeKeywords = map[Kind][]string{
	KwI8:   {"std", "i8", "I8"},
	KwI16:  {"std", "i16", "I16"},
	KwI32:  {"std", "i32", "I32"},
	KwI64:  {"std", "i64", "I64"},
	KwU8:   {"std", "u8", "U8"},
	KwU16:  {"std", "u16", "U16"},
	KwU32:  {"std", "u32", "U32"},
	KwU64:  {"std", "u64", "U64"},
	KwInt:  {"std", "int", "Int"},
	KwF32:  {"std", "f32", "F32"},
	KwF64:  {"std", "f64", "F64"},
	KwBool: {"std", "bool", "Bool"},
	KwVoid: {"std", "void", "Void"},
}

// LookupKeyword returns the Kind for an exact keyword spelling.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// IsNativeTypeKeyword reports whether k is one of the built-in type-name
// keywords that the lexer expands into a qualified path.
func IsNativeTypeKeyword(k Kind) bool {
	_, ok := nativeTypeKeywords[k]
	return ok
}

// NativeTypePath returns the qualified path segments a native-type keyword
// expands to.
func NativeTypePath(k Kind) []string {
	return nativeTypeKeywords[k]
}

// literalSuffixes maps the numeric-literal type suffix spelling to
// the literal Kind it produces.
var literalSuffixes = map[string]Kind{
	"i8":  I8Lit,
	"i16": I16Lit,
	"i32": I32Lit,
	"i64": I64Lit,
	"u8":  U8Lit,
	"u16": U16Lit,
	"u32": U32Lit,
	"u64": U64Lit,
	"f32": F32Lit,
	"f64": F64Lit,
}

// LookupLiteralSuffix returns the literal Kind for a numeric suffix.
func LookupLiteralSuffix(suffix string) (Kind, bool) {
	k, ok := literalSuffixes[suffix]
	return k, ok
}

// IsFloatLiteralKind reports whether k is one of the floating-point
// literal kinds, used to decide whether a decimal point is permitted.
func IsFloatLiteralKind(k Kind) bool {
	return k == F32Lit || k == F64Lit
}
