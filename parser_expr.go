package jcc

// binPrec is the single precedence table driving parseBinaryExpr's
// climbing loop (spec.md §4.2.3). Higher binds tighter. Assignment and the
// conditional operator are handled outside this table since both are
// right-associative and sit below every entry here.
var binPrec = map[TokenKind]int{
	TokOrOr: 1,
	TokAndAnd: 2,
	TokPipe: 3,
	TokCaret: 4,
	TokAmp: 5,
	TokEq: 6, TokNotEq: 6,
	TokLess: 7, TokGreater: 7, TokLessEq: 7, TokGreaterEq: 7,
	TokShl: 8, TokShr: 8,
	TokPlus: 9, TokMinus: 9,
	TokStar: 10, TokSlash: 10, TokPercent: 10,
}

var binOpFor = map[TokenKind]BinaryOp{
	TokOrOr: BinLogOr, TokAndAnd: BinLogAnd,
	TokPipe: BinBitOr, TokCaret: BinBitXor, TokAmp: BinBitAnd,
	TokEq: BinEq, TokNotEq: BinNotEq,
	TokLess: BinLess, TokGreater: BinGreater, TokLessEq: BinLessEq, TokGreaterEq: BinGreaterEq,
	TokShl: BinShl, TokShr: BinShr,
	TokPlus: BinAdd, TokMinus: BinSub,
	TokStar: BinMul, TokSlash: BinDiv, TokPercent: BinMod,
}

var assignOpFor = map[TokenKind]BinaryOp{
	TokAssign: BinAssign, TokPlusEq: BinAddAssign, TokMinusEq: BinSubAssign,
	TokStarEq: BinMulAssign, TokSlashEq: BinDivAssign, TokPercentEq: BinModAssign,
	TokAmpEq: BinAndAssign, TokPipeEq: BinOrAssign, TokCaretEq: BinXorAssign,
	TokShlEq: BinShlAssign, TokShrEq: BinShrAssign,
}

// parseExpr parses the comma operator's sequence of assignment-expressions,
// the widest grammar production (used for e.g. a for-statement's clauses
// when they are not declarations).
func (p *Parser) parseExpr() (Expr, error) {
	left, err := p.parseAssignExpr()
	if err != nil {
		return nil, err
	}
	for p.at(TokComma) {
		p.advance()
		right, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: BinComma, Left: left, Right: right, Ty: right.Type(), Rng: NewRange(left.Range().Start, right.Range().End)}
	}
	return left, nil
}

// parseAssignExpr implements the grammar's
// `unary-expression assignment-operator assignment-expression` alternative
// by first parsing a full conditional-expression and then, if an
// assignment operator follows, treating what was just parsed as the
// (implicitly unary) left-hand side. This is the standard precedence-
// climbing shortcut for right-associative levels: no separate backtracking
// is needed because C's grammar guarantees an assignment's left side is
// always a valid conditional-expression parse too.
func (p *Parser) parseAssignExpr() (Expr, error) {
	left, err := p.parseConditionalExpr()
	if err != nil {
		return nil, err
	}
	if op, ok := assignOpFor[p.cur.Kind]; ok {
		p.advance()
		right, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: op, Left: left, Right: right, Ty: left.Type(), Rng: NewRange(left.Range().Start, right.Range().End)}, nil
	}
	return left, nil
}

// parseConditionalExpr parses `logical-or-expr ('?' expr ':' conditional-expr)?`.
func (p *Parser) parseConditionalExpr() (Expr, error) {
	cond, err := p.parseBinaryExpr(1)
	if err != nil {
		return nil, err
	}
	if !p.at(TokQuestion) {
		return cond, nil
	}
	p.advance()
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}
	els, err := p.parseConditionalExpr()
	if err != nil {
		return nil, err
	}
	return &ConditionalExpr{Cond: cond, Then: then, Else: els, Ty: then.Type(), Rng: NewRange(cond.Range().Start, els.Range().End)}, nil
}

// parseBinaryExpr climbs binPrec starting at minPrec, left-associatively.
func (p *Parser) parseBinaryExpr(minPrec int) (Expr, error) {
	left, err := p.parseCastExpr()
	if err != nil {
		return nil, err
	}
	for {
		prec, ok := binPrec[p.cur.Kind]
		if !ok || prec < minPrec {
			return left, nil
		}
		opTok := p.cur
		p.advance()
		right, err := p.parseBinaryExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			Op: binOpFor[opTok.Kind], Left: left, Right: right,
			Ty:  resultTypeOf(binOpFor[opTok.Kind], left.Type(), right.Type()),
			Rng: NewRange(left.Range().Start, right.Range().End),
		}
	}
}

// resultTypeOf is the (deliberately simple) arithmetic-conversion rule this
// subset applies: comparisons and logical operators always produce int;
// everything else takes the wider of its two operand types. Full C11 usual
// arithmetic conversions (rank tables, unsigned-preserving rules) are out
// of scope per spec.md's Non-goals.
func resultTypeOf(op BinaryOp, l, r Type) Type {
	switch op {
	case BinLess, BinGreater, BinLessEq, BinGreaterEq, BinEq, BinNotEq, BinLogAnd, BinLogOr:
		return TypeInt
	default:
		return widerType(l, r)
	}
}

func widerType(l, r Type) Type {
	rank := func(t Type) int {
		switch tv := t.(type) {
		case FloatType:
			return 100 + tv.Width
		case IntegerType:
			return tv.Width
		case PointerType:
			return 64
		default:
			return 32
		}
	}
	if rank(r) > rank(l) {
		return r
	}
	return l
}

var unaryPrefixOps = map[TokenKind]UnaryOp{
	TokMinus: UnaryNeg, TokPlus: UnaryPlus, TokBang: UnaryNot, TokTilde: UnaryBitNot,
	TokAmp: UnaryAddr, TokStar: UnaryDeref,
	TokPlusPlus: UnaryPreInc, TokMinusMinus: UnaryPreDec,
}

// parseCastExpr implements `cast-expression := unary-expression |
// '(' type-name ')' cast-expression`. The ambiguity between a cast and a
// parenthesized expression is resolved by peeking at what follows the `(`:
// a type keyword or a typedef name (per a live Scope query) means cast,
// anything else means a parenthesized sub-expression — handled inside
// parsePrimaryExpr instead.
func (p *Parser) parseCastExpr() (Expr, error) {
	if p.at(TokLParen) {
		if next, err := p.peek(); err == nil && p.startsTypeName(next) {
			start := p.cur.Range
			p.advance()
			spec, err := p.parseDeclSpec()
			if err != nil {
				return nil, err
			}
			decl, err := p.parseDeclarator(true)
			if err != nil {
				return nil, err
			}
			end, err := p.expect(TokRParen)
			if err != nil {
				return nil, err
			}
			base, err := spec.SynthesizeType(start, p.src)
			if err != nil {
				return nil, err
			}
			target := decl.ApplyTo(base)
			operand, err := p.parseCastExpr()
			if err != nil {
				return nil, err
			}
			return &CastExpr{Target: target, Operand: operand, Rng: NewRange(start.Start, maxEnd(end.Range.End, operand.Range().End))}, nil
		}
	}
	return p.parseUnaryExpr()
}

func maxEnd(a, b int) int {
	if b > a {
		return b
	}
	return a
}

// startsTypeName decides, from the single token following an already-seen
// `(`, whether what comes next is a type-name rather than an expression.
func (p *Parser) startsTypeName(tok Token) bool {
	if tok.Kind.IsTypeKeyword() {
		return true
	}
	if tok.Kind == TokIdent {
		return p.scope.IsTypeName(tok.Lexeme)
	}
	return false
}

// parseUnaryExpr parses prefix operators and sizeof, falling through to
// parsePostfixExpr for everything else.
func (p *Parser) parseUnaryExpr() (Expr, error) {
	if op, ok := unaryPrefixOps[p.cur.Kind]; ok {
		start := p.cur.Range
		p.advance()
		operand, err := p.parseCastExpr()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Operand: operand, Ty: unaryResultType(op, operand.Type()), Rng: NewRange(start.Start, operand.Range().End)}, nil
	}

	if p.at(TokSizeof) {
		return p.parseSizeofExpr()
	}

	return p.parsePostfixExpr()
}

func unaryResultType(op UnaryOp, operand Type) Type {
	switch op {
	case UnaryAddr:
		return PointerType{Base: operand}
	case UnaryDeref:
		if pt, ok := operand.(PointerType); ok {
			return pt.Base
		}
		return TypeInt
	case UnaryNot:
		return TypeInt
	default:
		return operand
	}
}

// parseSizeofExpr handles both `sizeof(type-name)` and `sizeof unary-expr`,
// disambiguated the same way as a cast: a `(` followed by a type name means
// the type-name form.
func (p *Parser) parseSizeofExpr() (Expr, error) {
	start := p.cur.Range
	p.advance() // sizeof

	if p.at(TokLParen) {
		if next, err := p.peek(); err == nil && p.startsTypeName(next) {
			p.advance()
			spec, err := p.parseDeclSpec()
			if err != nil {
				return nil, err
			}
			decl, err := p.parseDeclarator(true)
			if err != nil {
				return nil, err
			}
			end, err := p.expect(TokRParen)
			if err != nil {
				return nil, err
			}
			base, err := spec.SynthesizeType(start, p.src)
			if err != nil {
				return nil, err
			}
			return &SizeofExpr{OperandType: decl.ApplyTo(base), Rng: NewRange(start.Start, end.Range.End)}, nil
		}
	}

	operand, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	return &SizeofExpr{Operand: operand, Rng: NewRange(start.Start, operand.Range().End)}, nil
}

var postfixIncDec = map[TokenKind]UnaryOp{
	TokPlusPlus: UnaryPostInc, TokMinusMinus: UnaryPostDec,
}

// parsePostfixExpr parses a primary expression followed by any number of
// `[]`, `()`, `.`, `->`, `++`, `--` suffixes, left-associatively.
func (p *Parser) parsePostfixExpr() (Expr, error) {
	e, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(TokLBracket):
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			end, err := p.expect(TokRBracket)
			if err != nil {
				return nil, err
			}
			e = &ArraySubscriptExpr{Base: e, Index: idx, Ty: elementTypeOf(e.Type()), Rng: NewRange(e.Range().Start, end.Range.End)}

		case p.at(TokLParen):
			p.advance()
			var args []Expr
			for !p.at(TokRParen) {
				a, err := p.parseAssignExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.at(TokComma) {
					p.advance()
					continue
				}
				break
			}
			end, err := p.expect(TokRParen)
			if err != nil {
				return nil, err
			}
			e = &CallExpr{Callee: e, Args: args, Ty: callResultType(e.Type()), Rng: NewRange(e.Range().Start, end.Range.End)}

		case p.at(TokDot) || p.at(TokArrow):
			arrow := p.at(TokArrow)
			p.advance()
			field, err := p.expect(TokIdent)
			if err != nil {
				return nil, err
			}
			if rt := recordTypeOf(e.Type(), arrow); rt != nil {
				if _, ok := rt.Member(field.Lexeme); !ok {
					return nil, p.errorf(UnknownMember, field.Range, "no member named '%s' in %s", field.Lexeme, rt)
				}
			}
			e = &MemberExpr{Base: e, Field: field.Lexeme, Arrow: arrow, Ty: memberTypeOf(e.Type(), field.Lexeme, arrow), Rng: NewRange(e.Range().Start, field.Range.End)}

		case p.at(TokPlusPlus) || p.at(TokMinusMinus):
			op := postfixIncDec[p.cur.Kind]
			end := p.cur.Range
			p.advance()
			e = &UnaryExpr{Op: op, Operand: e, Ty: e.Type(), Rng: NewRange(e.Range().Start, end.End)}

		default:
			return e, nil
		}
	}
}

func elementTypeOf(t Type) Type {
	switch tv := t.(type) {
	case ArrayType:
		return tv.Element
	case PointerType:
		return tv.Base
	default:
		return TypeInt
	}
}

func callResultType(t Type) Type {
	switch tv := t.(type) {
	case FunctionType:
		return tv.Return
	case PointerType:
		if ft, ok := tv.Base.(FunctionType); ok {
			return ft.Return
		}
	}
	return TypeInt
}

func memberTypeOf(base Type, field string, arrow bool) Type {
	rt, ok := base.(*RecordType)
	if !ok {
		if arrow {
			if pt, ok := base.(PointerType); ok {
				rt, ok = pt.Base.(*RecordType)
				if !ok {
					return TypeInt
				}
			} else {
				return TypeInt
			}
		} else {
			return TypeInt
		}
	}
	if m, ok := rt.Member(field); ok {
		return m.Type
	}
	return TypeInt
}

// parsePrimaryExpr parses literals, identifiers, and parenthesized
// sub-expressions.
func (p *Parser) parsePrimaryExpr() (Expr, error) {
	tok := p.cur
	switch tok.Kind {
	case TokNumber:
		p.advance()
		if isFloatLexeme(tok.Lexeme) {
			v, err := parseFloatLiteral(tok.Lexeme)
			if err != nil {
				return nil, p.errorf(LexError, tok.Range, "invalid floating constant '%s'", tok.Lexeme)
			}
			return &FloatLiteral{Value: v, Ty: TypeFloat64, Rng: tok.Range}, nil
		}
		v, err := parseIntLiteral(tok.Lexeme)
		if err != nil {
			return nil, p.errorf(LexError, tok.Range, "invalid integer constant '%s'", tok.Lexeme)
		}
		return &IntLiteral{Value: v, Ty: TypeInt, Rng: tok.Range}, nil

	case TokString:
		p.advance()
		return &StringLiteral{Value: tok.Lexeme, Rng: tok.Range}, nil

	case TokChar:
		p.advance()
		return &CharLiteral{Value: tok.Lexeme[0], Rng: tok.Range}, nil

	case TokIdent:
		p.advance()
		return &DeclRefExpr{Name: tok.Lexeme, Ty: p.resolveIdentType(tok.Lexeme), Rng: tok.Range}, nil

	case TokLParen:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(TokRParen)
		if err != nil {
			return nil, err
		}
		return wrapParen(e, tok.Range.Start, end.Range.End), nil

	default:
		return nil, p.errorf(UnexpectedToken, tok.Range, "expected expression, got %s", tok)
	}
}

// wrapParen widens an already-built expression's Range to include the
// enclosing parentheses, without allocating a distinct "paren expr" node
// (this subset has no syntactic position where parenthesization changes
// anything but precedence, already resolved by the time we get here).
func wrapParen(e Expr, start, end int) Expr {
	switch n := e.(type) {
	case *IntLiteral:
		n.Rng = NewRange(start, end)
	case *FloatLiteral:
		n.Rng = NewRange(start, end)
	case *BinaryExpr:
		n.Rng = NewRange(start, end)
	case *UnaryExpr:
		n.Rng = NewRange(start, end)
	case *ConditionalExpr:
		n.Rng = NewRange(start, end)
	case *DeclRefExpr:
		n.Rng = NewRange(start, end)
	case *CallExpr:
		n.Rng = NewRange(start, end)
	case *MemberExpr:
		n.Rng = NewRange(start, end)
	case *ArraySubscriptExpr:
		n.Rng = NewRange(start, end)
	case *CastExpr:
		n.Rng = NewRange(start, end)
	}
	return e
}

// resolveIdentType looks an identifier up as a variable (enum constants are
// installed as int variables), then as a function, defaulting to int
// so unresolved identifiers still produce a usable (if wrong) tree rather
// than aborting type inference — the UnexpectedToken/Redefinition errors
// raised elsewhere are what actually gate compilation on well-formedness.
func (p *Parser) resolveIdentType(name string) Type {
	if v, ok := p.scope.LookupVar(name); ok {
		return v.Ty
	}
	if f, ok := p.scope.LookupFunc(name); ok {
		return f.Ty
	}
	return TypeInt
}
