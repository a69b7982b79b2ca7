package jcc

// parseStmt parses any one statement, dispatching on the current token's
// keyword (or falling through to a labeled/expression/declaration
// statement).
func (p *Parser) parseStmt() (Stmt, error) {
	switch p.cur.Kind {
	case TokLBrace:
		return p.parseCompoundStmt()
	case TokIf:
		return p.parseIfStmt()
	case TokWhile:
		return p.parseWhileStmt()
	case TokDo:
		return p.parseDoWhileStmt()
	case TokFor:
		return p.parseForStmt()
	case TokSwitch:
		return p.parseSwitchStmt()
	case TokCase:
		return p.parseCaseStmt()
	case TokDefault:
		return p.parseDefaultStmt()
	case TokReturn:
		return p.parseReturnStmt()
	case TokBreak:
		tok, _ := p.advance()
		if _, err := p.expect(TokSemi); err != nil {
			return nil, err
		}
		return &BreakStmt{Rng: tok.Range}, nil
	case TokContinue:
		tok, _ := p.advance()
		if _, err := p.expect(TokSemi); err != nil {
			return nil, err
		}
		return &ContinueStmt{Rng: tok.Range}, nil
	case TokGoto:
		return p.parseGotoStmt()
	case TokSemi:
		tok, _ := p.advance()
		return &ExprStmt{Rng: tok.Range}, nil
	case TokIdent:
		if next, err := p.peek(); err == nil && next.Kind == TokColon {
			return p.parseLabeledStmt()
		}
		return p.parseExprOrDeclStmt()
	default:
		return p.parseExprOrDeclStmt()
	}
}

func (p *Parser) parseCompoundStmt() (*CompoundStmt, error) {
	start, err := p.expect(TokLBrace)
	if err != nil {
		return nil, err
	}
	p.scope.Enter(BlockScope)
	var stmts []Stmt
	for !p.at(TokRBrace) {
		s, err := p.parseStmt()
		if err != nil {
			p.scope.Exit()
			return nil, err
		}
		stmts = append(stmts, s)
	}
	p.scope.Exit()
	end, err := p.expect(TokRBrace)
	if err != nil {
		return nil, err
	}
	return &CompoundStmt{Stmts: stmts, Rng: NewRange(start.Range.Start, end.Range.End)}, nil
}

func (p *Parser) parseIfStmt() (Stmt, error) {
	start, _ := p.advance()
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	n := &IfStmt{Cond: cond, Then: then, Rng: NewRange(start.Range.Start, then.Range().End)}
	if p.at(TokElse) {
		p.advance()
		els, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		n.Else = els
		n.Rng = NewRange(start.Range.Start, els.Range().End)
	}
	return n, nil
}

func (p *Parser) parseWhileStmt() (Stmt, error) {
	start, _ := p.advance()
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Cond: cond, Body: body, Rng: NewRange(start.Range.Start, body.Range().End)}, nil
}

func (p *Parser) parseDoWhileStmt() (Stmt, error) {
	start, _ := p.advance()
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokWhile); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	end, err := p.expect(TokSemi)
	if err != nil {
		return nil, err
	}
	return &DoWhileStmt{Body: body, Cond: cond, Rng: NewRange(start.Range.Start, end.Range.End)}, nil
}

// parseForStmt parses each of the three optional clauses independently,
// including the C99 allowance of a declaration in the init clause (which
// gets its own block scope spanning the whole loop, per C11 §6.8.5).
func (p *Parser) parseForStmt() (Stmt, error) {
	start, _ := p.advance()
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	p.scope.Enter(BlockScope)

	var init Stmt
	if !p.at(TokSemi) {
		s, err := p.parseExprOrDeclStmtNoConsumeSemi()
		if err != nil {
			p.scope.Exit()
			return nil, err
		}
		init = s
	}
	if _, err := p.expect(TokSemi); err != nil {
		p.scope.Exit()
		return nil, err
	}

	var cond Expr
	if !p.at(TokSemi) {
		c, err := p.parseExpr()
		if err != nil {
			p.scope.Exit()
			return nil, err
		}
		cond = c
	}
	if _, err := p.expect(TokSemi); err != nil {
		p.scope.Exit()
		return nil, err
	}

	var post Expr
	if !p.at(TokRParen) {
		c, err := p.parseExpr()
		if err != nil {
			p.scope.Exit()
			return nil, err
		}
		post = c
	}
	if _, err := p.expect(TokRParen); err != nil {
		p.scope.Exit()
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		p.scope.Exit()
		return nil, err
	}
	p.scope.Exit()
	return &ForStmt{Init: init, Cond: cond, Post: post, Body: body, Rng: NewRange(start.Range.Start, body.Range().End)}, nil
}

func (p *Parser) parseSwitchStmt() (Stmt, error) {
	start, _ := p.advance()
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	tag, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &SwitchStmt{Tag: tag, Body: body, Rng: NewRange(start.Range.Start, body.Range().End)}, nil
}

func (p *Parser) parseCaseStmt() (Stmt, error) {
	start, _ := p.advance()
	val, err := p.parseConditionalExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &CaseStmt{Value: val, Body: body, Rng: NewRange(start.Range.Start, body.Range().End)}, nil
}

func (p *Parser) parseDefaultStmt() (Stmt, error) {
	start, _ := p.advance()
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &DefaultStmt{Body: body, Rng: NewRange(start.Range.Start, body.Range().End)}, nil
}

func (p *Parser) parseReturnStmt() (Stmt, error) {
	start, _ := p.advance()
	if p.at(TokSemi) {
		end, _ := p.advance()
		return &ReturnStmt{Rng: NewRange(start.Range.Start, end.Range.End)}, nil
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	end, err := p.expect(TokSemi)
	if err != nil {
		return nil, err
	}
	return &ReturnStmt{Value: val, Rng: NewRange(start.Range.Start, end.Range.End)}, nil
}

func (p *Parser) parseGotoStmt() (Stmt, error) {
	start, _ := p.advance()
	label, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(TokSemi)
	if err != nil {
		return nil, err
	}
	return &GotoStmt{Label: label.Lexeme, Rng: NewRange(start.Range.Start, end.Range.End)}, nil
}

func (p *Parser) parseLabeledStmt() (Stmt, error) {
	label, _ := p.advance()
	p.advance() // ':'
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &LabeledStmt{Label: label.Lexeme, Body: body, Rng: NewRange(label.Range.Start, body.Range().End)}, nil
}

// parseExprOrDeclStmt parses either a DeclStmt (if the current token opens
// a declaration-specifier list) or an ExprStmt, consuming the trailing
// `;`.
func (p *Parser) parseExprOrDeclStmt() (Stmt, error) {
	s, err := p.parseExprOrDeclStmtNoConsumeSemi()
	if err != nil {
		return nil, err
	}
	end, err := p.expect(TokSemi)
	if err != nil {
		return nil, err
	}
	switch n := s.(type) {
	case *DeclStmt:
		n.Rng = NewRange(n.Rng.Start, end.Range.End)
	case *ExprStmt:
		n.Rng = NewRange(n.Rng.Start, end.Range.End)
	}
	return s, nil
}

// parseExprOrDeclStmtNoConsumeSemi is factored out so parseForStmt's init
// clause (which has its own, differently-placed `;`) can reuse the same
// declaration-vs-expression decision.
func (p *Parser) parseExprOrDeclStmtNoConsumeSemi() (Stmt, error) {
	start := p.cur.Range
	if p.startsDeclaration() {
		spec, err := p.parseDeclSpec()
		if err != nil {
			return nil, err
		}
		var decls []*VarDecl
		for {
			d, err := p.parseDeclarator(false)
			if err != nil {
				return nil, err
			}
			base, err := spec.SynthesizeType(start, p.src)
			if err != nil {
				return nil, err
			}
			v, err := p.finishOneVar(spec, d, d.ApplyTo(base))
			if err != nil {
				return nil, err
			}
			decls = append(decls, v)
			if p.at(TokComma) {
				p.advance()
				continue
			}
			break
		}
		return &DeclStmt{Decls: decls, Rng: start}, nil
	}

	if p.at(TokSemi) {
		return &ExprStmt{Rng: start}, nil
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ExprStmt{Value: e, Rng: start}, nil
}

// startsDeclaration reports whether the current token can open a
// declaration-specifier list: a type keyword, a storage-class keyword, or
// an identifier currently bound to a typedef name.
func (p *Parser) startsDeclaration() bool {
	if p.cur.Kind.IsTypeKeyword() {
		return true
	}
	if p.at(TokIdent) {
		return p.scope.IsTypeName(p.cur.Lexeme)
	}
	return false
}
