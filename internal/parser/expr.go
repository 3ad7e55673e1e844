package parser

import (
	"ace/internal/ast"
	"ace/internal/diag"
	"ace/internal/source"
	"ace/internal/token"
)

// precedence is the fixed 10-level table, `||` lowest and `* / %`
// highest: `||`, `&&`, `|`, `^`, `&`, `== !=`, `< <= > >=`, `<< >>`,
// `+ -`, `* / %`. Every level has at least one operator.
func precedence(k token.Kind) (int, bool) {
	switch k {
	case token.PipePipe:
		return 1, true
	case token.AmpAmp:
		return 2, true
	case token.Pipe:
		return 3, true
	case token.Caret:
		return 4, true
	case token.Amp:
		return 5, true
	case token.EqEq, token.BangEq:
		return 6, true
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return 7, true
	case token.Shl, token.Shr:
		return 8, true
	case token.Plus, token.Minus:
		return 9, true
	case token.Star, token.Slash, token.Percent:
		return 10, true
	default:
		return 0, false
	}
}

func binOpFor(k token.Kind) ast.BinaryOp {
	switch k {
	case token.PipePipe:
		return ast.BinOr
	case token.AmpAmp:
		return ast.BinAnd
	case token.Pipe:
		return ast.BinBitOr
	case token.Caret:
		return ast.BinBitXor
	case token.Amp:
		return ast.BinBitAnd
	case token.EqEq:
		return ast.BinEq
	case token.BangEq:
		return ast.BinNe
	case token.Lt:
		return ast.BinLt
	case token.LtEq:
		return ast.BinLe
	case token.Gt:
		return ast.BinGt
	case token.GtEq:
		return ast.BinGe
	case token.Shl:
		return ast.BinShl
	case token.Shr:
		return ast.BinShr
	case token.Plus:
		return ast.BinAdd
	case token.Minus:
		return ast.BinSub
	case token.Star:
		return ast.BinMul
	case token.Slash:
		return ast.BinDiv
	case token.Percent:
		return ast.BinMod
	default:
		return ast.BinInvalid
	}
}

// parseExpr parses a full expression via precedence climbing.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		prec, ok := precedence(p.cur().Kind)
		if !ok || prec < minPrec {
			return left
		}
		opTok := p.advance()
		right := p.parseBinary(prec + 1)
		e := &ast.BinaryExpr{Op: binOpFor(opTok.Kind), Left: left, Right: right}
		e.Loc = left.Location().Concat(right.Location())
		left = e
	}
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.cur().Loc
	var op ast.UnaryOp
	switch {
	case p.at(token.Bang):
		op = ast.UnaryNot
	case p.at(token.Minus):
		op = ast.UnaryNeg
	case p.at(token.Tilde):
		op = ast.UnaryBitNot
	case p.at(token.KwLock):
		op = ast.UnaryLock
	case p.at(token.KwBox):
		op = ast.UnaryBox
	case p.at(token.KwUnbox):
		op = ast.UnaryUnbox
	default:
		return p.parsePostfix()
	}
	p.advance()
	operand := p.parseUnary()
	e := &ast.UnaryExpr{Op: op, Operand: operand}
	e.Loc = start.Concat(operand.Location())
	return e
}

// parsePostfix applies call and member-access postfix operators
// left-to-right over a primary expression ("Postfix: call
// '(...)', member-access '.'").
func (p *Parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	for {
		switch {
		case p.at(token.LParen):
			p.advance()
			var args []ast.Expr
			for !p.at(token.RParen) && !p.at(token.EndOfFile) {
				args = append(args, p.parseExpr())
				if _, ok := p.eat(token.Comma); !ok {
					break
				}
			}
			end := p.expect(token.RParen, "')'")
			call := &ast.CallExpr{Callee: e, Args: args}
			call.Loc = e.Location().Concat(end.Loc)
			e = call
		case p.at(token.Dot):
			p.advance()
			nameTok, _ := p.eat(token.Ident)
			m := &ast.MemberExpr{Receiver: e, Name: source.Ident{Loc: nameTok.Loc, Name: nameTok.Text}}
			m.Loc = e.Location().Concat(nameTok.Loc)
			e = m
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch {
	case tok.Kind.IsLiteral() || tok.Kind == token.KwTrue || tok.Kind == token.KwFalse:
		p.advance()
		lit := &ast.LiteralExpr{Kind: tok.Kind, Text: tok.Text}
		lit.Loc = tok.Loc
		return lit
	case tok.Kind == token.LParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RParen, "')'")
		return inner
	case tok.Kind == token.KwCast:
		return p.parseCast()
	case tok.Kind == token.KwNew:
		return p.parseStructConstruct()
	case tok.Kind == token.KwAddrOf:
		return p.parseBuiltinCallExpr(func(loc source.Location, v ast.Expr) ast.Expr {
			e := &ast.AddrOfExpr{Value: v}
			e.Loc = loc
			return e
		})
	case tok.Kind == token.KwSizeOf:
		return p.parseBuiltinTargetExpr(func(loc source.Location, t *ast.TypeName) ast.Expr {
			e := &ast.SizeOfExpr{Target: t}
			e.Loc = loc
			return e
		})
	case tok.Kind == token.KwTypeInfoPtr:
		return p.parseBuiltinTargetExpr(func(loc source.Location, t *ast.TypeName) ast.Expr {
			e := &ast.TypeInfoPtrExpr{Target: t}
			e.Loc = loc
			return e
		})
	case tok.Kind == token.KwVtblPtr:
		return p.parseBuiltinTargetExpr(func(loc source.Location, t *ast.TypeName) ast.Expr {
			e := &ast.VtblPtrExpr{Target: t}
			e.Loc = loc
			return e
		})
	case tok.Kind == token.KwDerefAs:
		return p.parseDerefAs()
	case tok.Kind == token.Ident || tok.Kind == token.ColonColon || tok.Kind == token.KwSelfType || tok.Kind == token.KwSelfValue:
		sn := p.parseSymbolName()
		id := &ast.IdentExpr{Name: sn}
		id.Loc = sn.Loc
		return id
	default:
		p.errf(tok.Loc, diag.CodeUnexpectedToken, "expected an expression")
		p.advance()
		placeholder := &ast.LiteralExpr{Kind: token.IntLit, Text: "0"}
		placeholder.Loc = tok.Loc
		return placeholder
	}
}

// parseCast parses `cast[T](e)`.
func (p *Parser) parseCast() ast.Expr {
	start := p.advance().Loc // 'cast'
	p.expect(token.LBracket, "'['")
	target := p.parseTypeName()
	p.expect(token.RBracket, "']'")
	p.expect(token.LParen, "'('")
	val := p.parseExpr()
	end := p.expect(token.RParen, "')'")
	e := &ast.CastExpr{Target: target, Value: val}
	e.Loc = start.Concat(end.Loc)
	return e
}

// parseDerefAs parses `deref_as[T](e)`.
func (p *Parser) parseDerefAs() ast.Expr {
	start := p.advance().Loc
	p.expect(token.LBracket, "'['")
	target := p.parseTypeName()
	p.expect(token.RBracket, "']'")
	p.expect(token.LParen, "'('")
	val := p.parseExpr()
	end := p.expect(token.RParen, "')'")
	e := &ast.DerefAsExpr{Target: target, Value: val}
	e.Loc = start.Concat(end.Loc)
	return e
}

// parseBuiltinTargetExpr parses the common `kw[T]` shape shared by
// size_of, type_info_ptr, and vtbl_ptr.
func (p *Parser) parseBuiltinTargetExpr(build func(loc source.Location, t *ast.TypeName) ast.Expr) ast.Expr {
	start := p.advance().Loc
	p.expect(token.LBracket, "'['")
	target := p.parseTypeName()
	end := p.expect(token.RBracket, "']'")
	return build(start.Concat(end.Loc), target)
}

// parseBuiltinCallExpr parses the common `kw(e)` shape shared by addr_of.
func (p *Parser) parseBuiltinCallExpr(build func(loc source.Location, v ast.Expr) ast.Expr) ast.Expr {
	start := p.advance().Loc
	p.expect(token.LParen, "'('")
	val := p.parseExpr()
	end := p.expect(token.RParen, "')'")
	return build(start.Concat(end.Loc), val)
}

// parseStructConstruct parses `new TypeName{ field: value, ... }`.
func (p *Parser) parseStructConstruct() ast.Expr {
	start := p.advance().Loc // 'new'
	ty := p.parseTypeName()
	p.expect(token.LBrace, "'{'")
	var fields []ast.FieldInitExpr
	for !p.at(token.RBrace) && !p.at(token.EndOfFile) {
		nameTok, _ := p.eat(token.Ident)
		p.expect(token.Colon, "':'")
		val := p.parseExpr()
		fields = append(fields, ast.FieldInitExpr{
			Loc: nameTok.Loc.Concat(val.Location()),
			Name: source.Ident{Loc: nameTok.Loc, Name: nameTok.Text},
			Value: val,
		})
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	end := p.expect(token.RBrace, "'}'")
	e := &ast.StructConstructExpr{Type: ty, Fields: fields}
	e.Loc = start.Concat(end.Loc)
	return e
}
