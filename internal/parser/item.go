package parser

import (
	"ace/internal/ast"
	"ace/internal/diag"
	"ace/internal/source"
	"ace/internal/token"
)

// parseItem dispatches on the header shape up to the first structural
// marker without consuming tokens for the decision itself, then delegates to the
// concrete production. On an unrecognized header it discards to the next
// plausible item boundary and returns nil.
func (p *Parser) parseItem() ast.Item {
	switch {
	case p.at(token.KwUse):
		return p.parseUse()
	case p.at(token.KwImpl):
		return p.parseImpl()
	case p.at(token.KwExtern) || p.at(token.KwOp) ||
		(p.at(token.KwPub) && (p.peekAt(1).Kind == token.KwExtern || p.peekAt(1).Kind == token.KwOp)):
		return p.parseModifiedFunction()
	case p.isNamedItemBegin():
		return p.parseNamedItem()
	default:
		loc := p.cur().Loc
		p.errf(loc, diag.CodeUnexpectedToken, "expected an item")
		p.discardUntil(Inclusive, token.Semicolon, token.RBrace)
		return nil
	}
}

// isNamedItemBegin reports whether the upcoming tokens look like a
// `[pub] Name [TypeParams] [Params] :` header — the shared shape of Mod,
// Struct, Trait, Function, and GlobalVar.
func (p *Parser) isNamedItemBegin() bool {
	d := 0
	if p.peekAt(d).Kind == token.KwPub {
		d++
	}
	return p.peekAt(d).Kind == token.Ident
}

// parseNamedItem consumes the shared `[pub] Name [TypeParams] [Params]`
// prefix, then looks at what follows the `:` to decide which concrete
// production to run (the disambiguation operates "up to the first
// ':' (item separator)").
func (p *Parser) parseNamedItem() ast.Item {
	start := p.cur().Loc
	vis := ast.Priv
	if _, ok := p.eat(token.KwPub); ok {
		vis = ast.Pub
	}
	nameTok, _ := p.eat(token.Ident)
	name := source.Ident{Loc: nameTok.Loc, Name: nameTok.Text}

	typeParams := p.tryParseTypeParams()

	if p.at(token.LParen) {
		return p.parseFunctionRest(start, vis, nil, name, typeParams)
	}

	p.expect(token.Colon, "':'")

	switch {
	case p.at(token.KwMod):
		p.advance()
		return p.parseModRest(start, vis, name)
	case p.at(token.KwStruct) || (p.at(token.KwPub) && p.peekAt(1).Kind == token.KwStruct):
		fieldVis := ast.Priv
		if _, ok := p.eat(token.KwPub); ok {
			fieldVis = ast.Pub
		}
		p.expect(token.KwStruct, "'struct'")
		return p.parseStructRest(start, vis, name, typeParams, fieldVis)
	case p.at(token.KwTrait):
		p.advance()
		return p.parseTraitRest(start, vis, name, typeParams)
	default:
		return p.parseGlobalVarRest(start, vis, name)
	}
}

func (p *Parser) parseModRest(start source.Location, vis ast.Visibility, name source.Ident) *ast.ModuleSyntax {
	p.expect(token.LBrace, "'{'")
	m := &ast.ModuleSyntax{Name: name}
	m.Vis = vis
	for !p.at(token.RBrace) && !p.at(token.EndOfFile) {
		before := p.pos
		if it := p.parseItem(); it != nil {
			m.Items = append(m.Items, it)
		}
		if p.pos == before {
			p.advance()
		}
	}
	end := p.expect(token.RBrace, "'}'")
	m.Loc = start.Concat(end.Loc)
	return m
}

func (p *Parser) parseStructRest(start source.Location, vis ast.Visibility, name source.Ident, typeParams []*ast.TypeParamSyntax, _ ast.Visibility) *ast.StructSyntax {
	p.expect(token.LBrace, "'{'")
	s := &ast.StructSyntax{Name: name, TypeParams: typeParams}
	s.Vis = vis
	for !p.at(token.RBrace) && !p.at(token.EndOfFile) {
		fieldVis := ast.Priv
		if _, ok := p.eat(token.KwPub); ok {
			fieldVis = ast.Pub
		}
		fnameTok, ok := p.eat(token.Ident)
		if !ok {
			p.errf(p.cur().Loc, diag.CodeUnexpectedToken, "expected a field name")
			p.discardUntil(Exclusive, token.Comma, token.Semicolon, token.RBrace)
			p.eat(token.Comma)
			p.eat(token.Semicolon)
			continue
		}
		p.expect(token.Colon, "':'")
		ty := p.parseTypeName()
		f := &ast.FieldSyntax{Name: source.Ident{Loc: fnameTok.Loc, Name: fnameTok.Text}, Type: ty}
		f.Vis = fieldVis
		f.Loc = fnameTok.Loc.Concat(ty.Loc)
		s.Fields = append(s.Fields, f)
		if _, ok := p.eat(token.Comma); !ok {
			p.eat(token.Semicolon)
		}
	}
	end := p.expect(token.RBrace, "'}'")
	s.Loc = start.Concat(end.Loc)
	return s
}

func (p *Parser) parseTraitRest(start source.Location, vis ast.Visibility, name source.Ident, typeParams []*ast.TypeParamSyntax) *ast.TraitSyntax {
	t := &ast.TraitSyntax{Name: name, TypeParams: typeParams}
	t.Vis = vis
	if _, ok := p.eat(token.Colon); ok {
		t.Supertraits = append(t.Supertraits, p.parseSymbolName())
		for {
			if _, ok := p.eat(token.Plus); !ok {
				break
			}
			t.Supertraits = append(t.Supertraits, p.parseSymbolName())
		}
	}
	p.expect(token.LBrace, "'{'")
	for !p.at(token.RBrace) && !p.at(token.EndOfFile) {
		t.Prototypes = append(t.Prototypes, p.parsePrototype(len(t.Prototypes)))
	}
	end := p.expect(token.RBrace, "'}'")
	t.Loc = start.Concat(end.Loc)
	return t
}

func (p *Parser) parsePrototype(index int) *ast.PrototypeSyntax {
	start := p.cur().Loc
	nameTok, _ := p.eat(token.Ident)
	proto := &ast.PrototypeSyntax{Name: source.Ident{Loc: nameTok.Loc, Name: nameTok.Text}, Index: index}
	proto.Vis = ast.Pub
	proto.Params, proto.HasSelf = p.parseParamList()
	if _, ok := p.eat(token.Colon); ok {
		proto.ReturnType = p.parseTypeName()
	}
	end := p.expect(token.Semicolon, "';'")
	proto.Loc = start.Concat(end.Loc)
	return proto
}

func (p *Parser) parseGlobalVarRest(start source.Location, vis ast.Visibility, name source.Ident) *ast.GlobalVarSyntax {
	g := &ast.GlobalVarSyntax{Name: name}
	g.Vis = vis
	g.Type = p.parseTypeName()
	if _, ok := p.eat(token.Eq); ok {
		g.Init = p.parseExpr()
	}
	end := p.expect(token.Semicolon, "';'")
	g.Loc = start.Concat(end.Loc)
	return g
}

// parseFunctionRest parses a Function production once the shared header
// (modifiers already consumed into mods, name, type-params) has
// established that what follows is a parameter list, not a ':'.
func (p *Parser) parseFunctionRest(start source.Location, vis ast.Visibility, mods []ast.FnModifier, name source.Ident, typeParams []*ast.TypeParamSyntax) *ast.FunctionSyntax {
	f := &ast.FunctionSyntax{Name: name, TypeParams: typeParams, Modifiers: mods}
	if vis == ast.Pub {
		f.Modifiers = append(f.Modifiers, ast.ModPub)
	}
	var hasSelf bool
	f.Params, hasSelf = p.parseParamList()
	_ = hasSelf
	p.expect(token.Colon, "':'")
	f.ReturnType = p.parseTypeName()
	f.Where = p.tryParseWhere()
	if len(f.Where) > 0 && len(typeParams) == 0 {
		p.errf(f.Where[0].Loc, diag.CodeConstrainedNonGenericSymbol, "'where' clause on a non-generic function")
	}
	end := f.ReturnType.Loc
	if p.at(token.LBrace) {
		f.Body = p.parseBlock()
		end = f.Body.Loc
	} else {
		end = p.expect(token.Semicolon, "';' or function body").Loc
	}
	f.Loc = start.Concat(end)
	return f
}

// parseModifiedFunction parses the `{Modifier}` prefix (pub/extern/self
// variants/op) before falling into parseNamedItem-equivalent handling for
// a bare function.
func (p *Parser) parseModifiedFunction() *ast.FunctionSyntax {
	start := p.cur().Loc
	vis := ast.Priv
	var mods []ast.FnModifier
	var opTok string
	for {
		switch {
		case p.at(token.KwPub):
			p.advance()
			vis = ast.Pub
		case p.at(token.KwExtern):
			p.advance()
			mods = append(mods, ast.ModExtern)
		case p.at(token.KwOp):
			p.advance()
			mods = append(mods, ast.ModOp)
			if t, ok := p.eat(token.Plus); ok {
				opTok = t.Text
			} else {
				opTok = p.advance().Text
			}
		default:
			goto header
		}
	}
header:
	nameTok, _ := p.eat(token.Ident)
	name := source.Ident{Loc: nameTok.Loc, Name: nameTok.Text}
	typeParams := p.tryParseTypeParams()
	f := p.parseFunctionRest(start, vis, mods, name, typeParams)
	f.OperatorTok = opTok
	return f
}

// parseParamList parses `([self-param ,] Param {, Param})`, synthesizing
// the self-parameter per when a `self`/`*self` receiver is
// present. Bare `self*` (strong-ptr suffix instead of prefix) still
// produces a self param but diagnoses, per the Open-Question resolution
// recorded in DESIGN.md.
func (p *Parser) parseParamList() ([]*ast.FnParamSyntax, bool) {
	p.expect(token.LParen, "'('")
	var params []*ast.FnParamSyntax
	hasSelf := false
	idx := 0
	for !p.at(token.RParen) && !p.at(token.EndOfFile) {
		if sp, ok := p.tryParseSelfParam(idx); ok {
			params = append(params, sp)
			hasSelf = true
			idx++
		} else {
			nameTok, _ := p.eat(token.Ident)
			p.expect(token.Colon, "':'")
			ty := p.parseTypeName()
			param := &ast.FnParamSyntax{Name: source.Ident{Loc: nameTok.Loc, Name: nameTok.Text}, Type: ty, Index: idx}
			param.Loc = nameTok.Loc.Concat(ty.Loc)
			params = append(params, param)
			idx++
		}
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RParen, "')'")
	return params, hasSelf
}

// tryParseSelfParam recognizes `self`, `&self`, `*self` (strong-pointer
// receiver), and the diagnosed `self*` shape.
func (p *Parser) tryParseSelfParam(idx int) (*ast.FnParamSyntax, bool) {
	start := p.cur().Loc
	mod := ast.ModSelfByValue
	switch {
	case p.at(token.Star) && p.peekAt(1).Kind == token.KwSelfValue:
		p.advance()
		p.advance()
		mod = ast.ModSelfStrongPtr
	case p.at(token.Amp) && p.peekAt(1).Kind == token.KwSelfValue:
		p.advance()
		p.advance()
		mod = ast.ModSelfByRef
	case p.at(token.KwSelfValue):
		p.advance()
		if _, ok := p.eat(token.Star); ok {
			p.errf(start, diag.CodeMissingSelfModifierAfterStrongPtr, "'*' after 'self' does not make it a strong-pointer receiver; write '*self'")
			mod = ast.ModSelfStrongPtr
		}
	default:
		return nil, false
	}
	sp := &ast.FnParamSyntax{
		Name: source.Ident{Loc: start, Name: "self"},
		IsSelf: true,
		SelfMod: mod,
		Index: idx,
	}
	sp.Loc = start
	return sp, true
}

func (p *Parser) tryParseTypeParams() []*ast.TypeParamSyntax {
	if !p.at(token.LBracket) {
		return nil
	}
	p.advance()
	var params []*ast.TypeParamSyntax
	idx := 0
	for !p.at(token.RBracket) && !p.at(token.EndOfFile) {
		nameTok, _ := p.eat(token.Ident)
		params = append(params, &ast.TypeParamSyntax{Loc: nameTok.Loc, Name: source.Ident{Loc: nameTok.Loc, Name: nameTok.Text}, Index: idx})
		idx++
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if len(params) == 0 {
		p.errf(p.cur().Loc, diag.CodeEmptyTemplateParams, "empty type-parameter list")
	}
	p.expect(token.RBracket, "']'")
	return params
}

func (p *Parser) tryParseWhere() []*ast.ConstraintSyntax {
	if _, ok := p.eat(token.KwWhere); !ok {
		return nil
	}
	var out []*ast.ConstraintSyntax
	for {
		nameTok, _ := p.eat(token.Ident)
		p.expect(token.Colon, "':'")
		c := &ast.ConstraintSyntax{Loc: nameTok.Loc, Param: source.Ident{Loc: nameTok.Loc, Name: nameTok.Text}}
		c.Bounds = append(c.Bounds, p.parseSymbolName())
		for {
			if _, ok := p.eat(token.Plus); !ok {
				break
			}
			c.Bounds = append(c.Bounds, p.parseSymbolName())
		}
		out = append(out, c)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	return out
}

func (p *Parser) parseUse() *ast.UseSyntax {
	start := p.cur().Loc
	p.advance() // 'use'
	u := &ast.UseSyntax{TraitName: p.parseSymbolName()}
	end := p.expect(token.Semicolon, "';'")
	u.Loc = start.Concat(end.Loc)
	return u
}

// parseImpl parses the first path after `impl [TypeParams]` and classifies
// the impl as a trait impl when a `for` follows that path, inherent
// otherwise.
func (p *Parser) parseImpl() *ast.ImplSyntax {
	start := p.cur().Loc
	p.advance() // 'impl'
	impl := &ast.ImplSyntax{TypeParams: p.tryParseTypeParams()}
	first := p.parseSymbolName()
	if _, ok := p.eat(token.KwFor); ok {
		impl.IsTraitImpl = true
		impl.TraitName = first
		impl.TargetName = p.parseSymbolName()
	} else {
		impl.TargetName = first
	}
	p.expect(token.LBrace, "'{'")
	for !p.at(token.RBrace) && !p.at(token.EndOfFile) {
		impl.Functions = append(impl.Functions, p.parseModifiedFunction())
	}
	end := p.expect(token.RBrace, "'}'")
	impl.Loc = start.Concat(end.Loc)
	return impl
}
