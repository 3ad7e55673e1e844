package parser

import (
	"ace/internal/ast"
	"ace/internal/source"
	"ace/internal/token"
)

// parseBlock parses `{ Stmt* }`.
func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.expect(token.LBrace, "'{'").Loc
	var stmts []ast.Stmt
	for !p.at(token.RBrace) && !p.at(token.EndOfFile) {
		before := p.pos
		if st := p.parseStmt(); st != nil {
			stmts = append(stmts, st)
		}
		if p.pos == before {
			p.advance()
		}
	}
	end := p.expect(token.RBrace, "'}'")
	b := &ast.BlockStmt{Stmts: stmts}
	b.Loc = start.Concat(end.Loc)
	return b
}

func (p *Parser) parseStmt() ast.Stmt {
	switch {
	case p.at(token.LBrace):
		return p.parseBlock()
	case p.at(token.KwIf):
		return p.parseIf()
	case p.at(token.KwWhile):
		return p.parseWhile()
	case p.at(token.KwRet):
		return p.parseRet()
	case p.at(token.KwExit):
		return p.parseExit()
	case p.at(token.KwAssert):
		return p.parseAssert()
	case p.isVarDeclBegin():
		return p.parseVarDecl()
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) isVarDeclBegin() bool {
	return p.at(token.Ident) && p.peekAt(1).Kind == token.Colon
}

func (p *Parser) parseVarDecl() *ast.VarDeclStmt {
	nameTok := p.advance()
	p.advance() // ':'
	v := &ast.VarDeclStmt{Name: source.Ident{Loc: nameTok.Loc, Name: nameTok.Text}}
	if !p.at(token.Eq) {
		v.Type = p.parseTypeName()
	}
	if _, ok := p.eat(token.Eq); ok {
		v.Init = p.parseExpr()
	}
	end := p.expect(token.Semicolon, "';'")
	v.Loc = nameTok.Loc.Concat(end.Loc)
	return v
}

func (p *Parser) parseIf() *ast.IfStmt {
	start := p.advance().Loc // 'if'
	cond := p.parseExpr()
	then := p.parseBlock()
	s := &ast.IfStmt{Cond: cond, Then: then}
	end := then.Loc
	for p.at(token.KwElif) {
		p.advance()
		ec := p.parseExpr()
		eb := p.parseBlock()
		s.Elif = append(s.Elif, ast.ElifArm{Loc: ec.Location().Concat(eb.Loc), Cond: ec, Body: eb})
		end = eb.Loc
	}
	if _, ok := p.eat(token.KwElse); ok {
		s.Else = p.parseBlock()
		end = s.Else.Loc
	}
	s.Loc = start.Concat(end)
	return s
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	start := p.advance().Loc // 'while'
	cond := p.parseExpr()
	body := p.parseBlock()
	s := &ast.WhileStmt{Cond: cond, Body: body}
	s.Loc = start.Concat(body.Loc)
	return s
}

func (p *Parser) parseRet() *ast.RetStmt {
	start := p.advance().Loc // 'ret'
	s := &ast.RetStmt{}
	if !p.at(token.Semicolon) {
		s.Value = p.parseExpr()
	}
	end := p.expect(token.Semicolon, "';'")
	s.Loc = start.Concat(end.Loc)
	return s
}

func (p *Parser) parseExit() *ast.ExitStmt {
	start := p.advance().Loc // 'exit'
	end := p.expect(token.Semicolon, "';'")
	s := &ast.ExitStmt{}
	s.Loc = start.Concat(end.Loc)
	return s
}

func (p *Parser) parseAssert() *ast.AssertStmt {
	start := p.advance().Loc // 'assert'
	cond := p.parseExpr()
	end := p.expect(token.Semicolon, "';'")
	s := &ast.AssertStmt{Cond: cond}
	s.Loc = start.Concat(end.Loc)
	return s
}

// parseExprOrAssignStmt parses an expression statement, a plain
// assignment, or a compound-assignment statement, deciding
// after the fact on whatever operator token follows the primary
// expression.
func (p *Parser) parseExprOrAssignStmt() ast.Stmt {
	start := p.cur().Loc
	lhs := p.parseExpr()
	switch {
	case p.at(token.Eq):
		p.advance()
		rhs := p.parseExpr()
		end := p.expect(token.Semicolon, "';'")
		s := &ast.AssignStmt{Target: lhs, Value: rhs}
		s.Loc = start.Concat(end.Loc)
		return s
	case p.cur().Kind.IsCompoundAssign():
		op := p.advance().Kind
		rhs := p.parseExpr()
		end := p.expect(token.Semicolon, "';'")
		s := &ast.CompoundAssignStmt{Op: op, Target: lhs, Value: rhs}
		s.Loc = start.Concat(end.Loc)
		return s
	default:
		end := p.expect(token.Semicolon, "';'")
		s := &ast.ExprStmt{Value: lhs}
		s.Loc = start.Concat(end.Loc)
		return s
	}
}
