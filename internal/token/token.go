package token

import "ace/internal/source"

// Token is a single lexical token with its source span and literal text.
type Token struct {
	Kind Kind
	Loc  source.Location
	Text string
}

// IsPunctOrOp reports whether t is punctuation, a bracket, or an operator.
func (t Token) IsPunctOrOp() bool {
	switch t.Kind {
	case LParen, RParen, LBrace, RBrace, LBracket, RBracket, Comma, Colon, ColonColon,
		Semicolon, Dot, Arrow, Plus, Minus, Star, Slash, Percent, Amp, Pipe, Caret, Tilde,
		Bang, Shl, Shr, AmpAmp, PipePipe, Eq, EqEq, BangEq, Lt, LtEq, Gt, GtEq,
		PlusEq, MinusEq, StarEq, SlashEq, PercentEq, ShlEq, ShrEq, AmpEq, CaretEq, PipeEq:
		return true
	default:
		return false
	}
}

func (t Token) String() string {
	if t.Text != "" {
		return t.Text
	}
	return t.Kind.String()
}

// String returns a readable name for the Kind, used in diagnostic
// messages ("expected ';', found '}'").
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "<unknown>"
}

var kindNames = map[Kind]string{
	Invalid:      "<invalid>",
	EndOfFile:    "<eof>",
	Ident:        "identifier",
	KwIf:         "if",
	KwElif:       "elif",
	KwElse:       "else",
	KwWhile:      "while",
	KwFor:        "for",
	KwRet:        "ret",
	KwStruct:     "struct",
	KwTrait:      "trait",
	KwImpl:       "impl",
	KwPub:        "pub",
	KwSelfValue:  "self",
	KwSelfType:   "Self",
	KwExtern:     "extern",
	KwCast:       "cast",
	KwExit:       "exit",
	KwAssert:     "assert",
	KwMod:        "mod",
	KwUse:        "use",
	KwWhere:      "where",
	KwOp:         "op",
	KwBox:        "box",
	KwUnbox:      "unbox",
	KwLock:       "lock",
	KwCopy:       "copy",
	KwDrop:       "drop",
	KwAddrOf:     "addr_of",
	KwSizeOf:     "size_of",
	KwDerefAs:    "deref_as",
	KwTypeInfoPtr: "type_info_ptr",
	KwVtblPtr:    "vtbl_ptr",
	KwTrue:       "true",
	KwFalse:      "false",
	KwNew:        "new",
	KwI8: "i8", KwI16: "i16", KwI32: "i32", KwI64: "i64",
	KwU8: "u8", KwU16: "u16", KwU32: "u32", KwU64: "u64",
	KwInt: "int", KwF32: "f32", KwF64: "f64", KwBool: "bool", KwVoid: "void",
	IntLit: "int literal", I8Lit: "i8 literal", I16Lit: "i16 literal",
	I32Lit: "i32 literal", I64Lit: "i64 literal", U8Lit: "u8 literal",
	U16Lit: "u16 literal", U32Lit: "u32 literal", U64Lit: "u64 literal",
	F32Lit: "f32 literal", F64Lit: "f64 literal", StringLit: "string literal",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Comma: ",", Colon: ":", ColonColon: "::", Semicolon: ";", Dot: ".", Arrow: "->",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Amp: "&", Pipe: "|",
	Caret: "^", Tilde: "~", Bang: "!", Shl: "<<", Shr: ">>", AmpAmp: "&&", PipePipe: "||",
	Eq: "=", EqEq: "==", BangEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
	PlusEq: "+=", MinusEq: "-=", StarEq: "*=", SlashEq: "/=", PercentEq: "%=",
	ShlEq: "<<=", ShrEq: ">>=", AmpEq: "&=", CaretEq: "^=", PipeEq: "|=",
}
