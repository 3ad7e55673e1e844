package parser

import (
	"ace/internal/ast"
	"ace/internal/source"
	"ace/internal/token"
)

// parseTypeName parses `{ "&" | "*" | "~" } SymbolName`,
// recording modifiers outermost-first as written.
func (p *Parser) parseTypeName() *ast.TypeName {
	start := p.cur().Loc
	var mods []ast.TypeModifier
	for {
		switch {
		case p.at(token.Amp):
			p.advance()
			mods = append(mods, ast.ModRef)
		case p.at(token.Star):
			p.advance()
			mods = append(mods, ast.ModStrongPtr)
		case p.at(token.Tilde):
			p.advance()
			mods = append(mods, ast.ModWeakPtr)
		default:
			goto name
		}
	}
name:
	sn := p.parseSymbolName()
	tn := &ast.TypeName{Loc: start.Concat(sn.Loc), Modifiers: mods, Name: sn}
	return tn
}

// parseSymbolName parses `[ "::" ] Section { "::" Section }`. `Self` and native-type compound paths (`::std::i32::I32`,
// synthesized by the lexer) both fall out of this same production: `Self`
// is just an identifier section, and a native-type keyword already lexed
// into a `::`-prefixed Ident sequence before the parser ever sees it.
func (p *Parser) parseSymbolName() ast.SymbolName {
	start := p.cur().Loc
	absolute := false
	if _, ok := p.eat(token.ColonColon); ok {
		absolute = true
	}
	sn := ast.SymbolName{Absolute: absolute}
	sn.Sections = append(sn.Sections, p.parseSection())
	for {
		if _, ok := p.eat(token.ColonColon); !ok {
			break
		}
		sn.Sections = append(sn.Sections, p.parseSection())
	}
	last := sn.Sections[len(sn.Sections)-1]
	sn.Loc = start.Concat(last.Loc)
	return sn
}

func (p *Parser) parseSection() ast.PathSection {
	var nameTok token.Token
	if p.at(token.KwSelfType) || p.at(token.KwSelfValue) {
		nameTok = p.advance()
	} else {
		nameTok, _ = p.eat(token.Ident)
	}
	sec := ast.PathSection{Loc: nameTok.Loc, Name: source.Ident{Loc: nameTok.Loc, Name: nameTok.Text}}
	if _, ok := p.eat(token.LBracket); ok {
		for !p.at(token.RBracket) && !p.at(token.EndOfFile) {
			sec.TypeArgs = append(sec.TypeArgs, p.parseTypeName())
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		end := p.expect(token.RBracket, "']'")
		sec.Loc = sec.Loc.Concat(end.Loc)
	}
	return sec
}
