// Package lexer turns a source.Buffer into a token stream plus recoverable
// lexical diagnostics.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"ace/internal/diag"
	"ace/internal/source"
	"ace/internal/token"
)

// Lexer holds scanner state over a single buffer. It never suspends: Lex
// always drains the buffer to EndOfFile, recovering from any malformed
// input it meets along the way.
type Lexer struct {
	buf  source.Buffer
	text string
	pos  int // byte offset of the next unread rune
	bag  *diag.Bag

	lastEnd int // end offset of the previously emitted token, for span framing
}

// New creates a Lexer over buf.
func New(buf source.Buffer, bag *diag.Bag) *Lexer {
	return &Lexer{buf: buf, text: buf.Contents(), bag: bag}
}

// Lex scans the entire buffer and returns its token stream, terminated by
// an EndOfFile token.
func Lex(buf source.Buffer, bag *diag.Bag) []token.Token {
	l := New(buf, bag)
	return l.lexAll()
}

func (l *Lexer) lexAll() []token.Token {
	var toks []token.Token
	for {
		l.skipTrivia()
		if l.atEnd() {
			toks = append(toks, l.make(token.EndOfFile, l.pos, l.pos, ""))
			return toks
		}
		start := l.pos
		r := l.peek()
		switch {
		case isIdentStart(r):
			toks = append(toks, l.lexIdentOrKeyword(start)...)
		case isDigit(r):
			toks = append(toks, l.lexNumber(start))
		case r == '"':
			toks = append(toks, l.lexString(start))
		default:
			if tok, ok := l.lexOperator(start); ok {
				toks = append(toks, tok)
			} else {
				l.diagf(diag.CodeUnexpectedCharacter, start, l.advanceRuneLen(r), "unexpected character %q", string(r))
				l.advance()
			}
		}
	}
}

func (l *Lexer) skipTrivia() {
	for !l.atEnd() {
		r := l.peek()
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '/' && l.peekAt(1) == '/':
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		case r == '/' && l.peekAt(1) == '*':
			l.skipMultiLineComment()
		default:
			return
		}
	}
}

// skipMultiLineComment consumes a /* ... */ comment, honoring nesting. An
// unterminated nest diagnoses anchored at the outermost opening delimiter.
func (l *Lexer) skipMultiLineComment() {
	openStart := l.pos
	l.advance() // '/'
	l.advance() // '*'
	depth := 1
	for depth > 0 {
		if l.atEnd() {
			l.diagf(diag.CodeUnterminatedMultiLineComment, openStart, 2, "unterminated multi-line comment")
			return
		}
		if l.peek() == '/' && l.peekAt(1) == '*' {
			l.advance()
			l.advance()
			depth++
			continue
		}
		if l.peek() == '*' && l.peekAt(1) == '/' {
			l.advance()
			l.advance()
			depth--
			continue
		}
		l.advance()
	}
}

func (l *Lexer) lexIdentOrKeyword(start int) []token.Token {
	for !l.atEnd() && isIdentCont(l.peek()) {
		l.advance()
	}
	text := l.text[start:l.pos]
	if kind, ok := token.LookupKeyword(text); ok {
		if token.IsNativeTypeKeyword(kind) {
			return l.expandNativeType(kind, start, l.pos)
		}
		return []token.Token{l.make(kind, start, l.pos, text)}
	}
	return []token.Token{l.make(token.Ident, start, l.pos, text)}
}

// expandNativeType lexes a native-type keyword (e.g. `i32`) into the
// compound synthetic path `::std::i32::I32` as a sequence of tokens.
// All synthesized tokens share the keyword's own span since they
// did not individually appear in the source.
func (l *Lexer) expandNativeType(kind token.Kind, start, end int) []token.Token {
	loc := source.NewLocation(l.buf, start, end)
	segs := token.NativeTypePath(kind)
	toks := make([]token.Token, 0, len(segs)*2)
	toks = append(toks, token.Token{Kind: token.ColonColon, Loc: loc, Text: "::"})
	for i, seg := range segs {
		toks = append(toks, token.Token{Kind: token.Ident, Loc: loc, Text: seg})
		if i != len(segs)-1 {
			toks = append(toks, token.Token{Kind: token.ColonColon, Loc: loc, Text: "::"})
		}
	}
	return toks
}

func (l *Lexer) lexNumber(start int) token.Token {
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
	}
	isFloatShape := false
	if !l.atEnd() && l.peek() == '.' && isDigit(l.peekAt(1)) {
		isFloatShape = true
		l.advance() // '.'
		for !l.atEnd() && isDigit(l.peek()) {
			l.advance()
		}
	}
	suffixStart := l.pos
	for !l.atEnd() && isIdentCont(l.peek()) {
		l.advance()
	}
	suffix := l.text[suffixStart:l.pos]
	text := l.text[start:l.pos]

	if suffix == "" {
		if isFloatShape {
			// An untyped literal with a decimal point but no suffix is
			// still shaped like a float; default it to f64 the way an
			// explicit f64 suffix would, since Int cannot hold a point.
			return l.make(token.F64Lit, start, l.pos, text)
		}
		return l.make(token.IntLit, start, l.pos, text)
	}

	kind, ok := token.LookupLiteralSuffix(suffix)
	if !ok {
		l.diagf(diag.CodeUnknownNumericLiteralTypeSuffix, suffixStart, len(suffix), "unknown numeric literal type suffix %q", suffix)
		// Recovery: still produce a token so parsing can continue.
		return l.make(token.IntLit, start, l.pos, text)
	}
	if isFloatShape && !token.IsFloatLiteralKind(kind) {
		l.diagf(diag.CodeDecimalPointInNonFloatNumericLiteral, start, l.pos-start, "decimal point in non-float numeric literal")
	}
	return l.make(kind, start, l.pos, text)
}

func (l *Lexer) lexString(start int) token.Token {
	l.advance() // opening quote
	for {
		if l.atEnd() || l.peek() == '\n' {
			l.diagf(diag.CodeUnterminatedStringLiteral, start, 1, "unterminated string literal")
			return l.make(token.StringLit, start, l.pos, l.text[start:l.pos])
		}
		if l.peek() == '\\' && !l.atEndAt(1) {
			l.advance()
			l.advance()
			continue
		}
		if l.peek() == '"' {
			l.advance()
			return l.make(token.StringLit, start, l.pos, l.text[start:l.pos])
		}
		l.advance()
	}
}

// operators lists multi-character operator spellings in descending length
// so maximal munch falls out of simple linear scan order.
var operators = []struct {
	text string
	kind token.Kind
}{
	{"<<=", token.ShlEq}, {">>=", token.ShrEq},
	{"::", token.ColonColon}, {"->", token.Arrow},
	{"<<", token.Shl}, {">>", token.Shr}, {"&&", token.AmpAmp}, {"||", token.PipePipe},
	{"==", token.EqEq}, {"!=", token.BangEq}, {"<=", token.LtEq}, {">=", token.GtEq},
	{"+=", token.PlusEq}, {"-=", token.MinusEq}, {"*=", token.StarEq}, {"/=", token.SlashEq},
	{"%=", token.PercentEq}, {"&=", token.AmpEq}, {"^=", token.CaretEq}, {"|=", token.PipeEq},
	{"(", token.LParen}, {")", token.RParen}, {"{", token.LBrace}, {"}", token.RBrace},
	{"[", token.LBracket}, {"]", token.RBracket}, {",", token.Comma}, {":", token.Colon},
	{";", token.Semicolon}, {".", token.Dot}, {"+", token.Plus}, {"-", token.Minus},
	{"*", token.Star}, {"/", token.Slash}, {"%", token.Percent}, {"&", token.Amp},
	{"|", token.Pipe}, {"^", token.Caret}, {"~", token.Tilde}, {"!", token.Bang},
	{"<", token.Lt}, {">", token.Gt}, {"=", token.Eq},
}

func (l *Lexer) lexOperator(start int) (token.Token, bool) {
	for _, op := range operators {
		if strings.HasPrefix(l.text[start:], op.text) {
			for range op.text {
				l.advance()
			}
			return l.make(op.kind, start, l.pos, op.text), true
		}
	}
	return token.Token{}, false
}

func (l *Lexer) make(kind token.Kind, start, end int, text string) token.Token {
	l.lastEnd = end
	return token.Token{Kind: kind, Loc: source.NewLocation(l.buf, start, end), Text: text}
}

func (l *Lexer) diagf(code diag.Code, start, length int, format string, args ...any) {
	if l.bag == nil {
		return
	}
	loc := source.NewLocation(l.buf, start, start+length)
	l.bag.Add(diag.Newf(code, loc, format, args...))
}

func (l *Lexer) atEnd() bool       { return l.pos >= len(l.text) }
func (l *Lexer) atEndAt(n int) bool { return l.pos+n >= len(l.text) }

func (l *Lexer) peek() rune {
	r, _ := utf8.DecodeRuneInString(l.text[l.pos:])
	return r
}

func (l *Lexer) peekAt(n int) rune {
	p := l.pos
	for i := 0; i < n; i++ {
		if p >= len(l.text) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(l.text[p:])
		p += size
	}
	if p >= len(l.text) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.text[p:])
	return r
}

func (l *Lexer) advance() {
	if l.atEnd() {
		return
	}
	_, size := utf8.DecodeRuneInString(l.text[l.pos:])
	l.pos += size
}

func (l *Lexer) advanceRuneLen(r rune) int { return utf8.RuneLen(r) }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentCont(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }
func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
