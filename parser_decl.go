package jcc

// parseExternalDecl parses one top-level declaration, which may introduce
// several declarators sharing a single DeclSpec (`int a, *b, c[3];`) and
// may be a function definition if the first declarator is followed by a
// compound statement instead of `;`.
func (p *Parser) parseExternalDecl() ([]Decl, error) {
	start := p.cur.Range
	spec, err := p.parseDeclSpec()
	if err != nil {
		return nil, err
	}

	// A bare `struct foo { ... };` or `enum E { ... };` with no declarator
	// at all is legal and just introduces the tag.
	if p.at(TokSemi) {
		p.advance()
		if spec.Record != nil {
			return []Decl{&RecordDecl{Ty: spec.Record, Rng: start}}, nil
		}
		return nil, nil
	}

	decl, err := p.parseDeclarator(false)
	if err != nil {
		return nil, err
	}

	ty, err := spec.SynthesizeType(start, p.src)
	if err != nil {
		return nil, err
	}
	fullType := decl.ApplyTo(ty)

	if spec.Storage == StorageTypedef {
		return p.finishTypedefList(spec, decl, fullType, start)
	}

	if fnType, ok := fullType.(FunctionType); ok {
		return p.finishFunction(spec, decl, fnType, start)
	}

	return p.finishVarList(spec, decl, fullType, start)
}

// finishFunction parses a function prototype or definition once its first
// declarator has resolved to a FunctionType.
func (p *Parser) finishFunction(spec *DeclSpec, decl *Declarator, fnType FunctionType, start Range) ([]Decl, error) {
	fn := &FunctionDecl{Name: decl.Name, Ty: fnType, Storage: spec.Storage, Params: decl.funcParams()}

	if p.at(TokSemi) {
		p.advance()
		fn.Rng = NewRange(start.Start, p.cur.Range.Start)
		if err := p.scope.DeclareFunc(fn.Name, fn, p.src); err != nil {
			return nil, err
		}
		return []Decl{fn}, nil
	}

	if err := p.scope.DeclareFunc(fn.Name, fn, p.src); err != nil {
		return nil, err
	}

	p.scope.Enter(FunctionProtoScope)
	for i, param := range fn.Params {
		if param.Declarator == nil || param.Declarator.Name == "" {
			continue
		}
		v := &VarDecl{Name: param.Declarator.Name, Ty: fnType.Params[i], Rng: param.Range}
		if err := p.scope.DeclareVar(v.Name, v, p.src); err != nil {
			p.scope.Exit()
			return nil, err
		}
	}
	body, err := p.parseCompoundStmt()
	p.scope.Exit()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	fn.Rng = NewRange(start.Start, body.Rng.End)
	return []Decl{fn}, nil
}

func (d *Declarator) funcParams() []*ParamDecl {
	cur := d
	for cur != nil {
		if cur.IsFunction {
			return cur.Params
		}
		cur = cur.Pointee
	}
	return nil
}

// finishTypedefList handles `typedef <spec> <declarator-list>;`.
func (p *Parser) finishTypedefList(spec *DeclSpec, decl *Declarator, ty Type, start Range) ([]Decl, error) {
	var out []Decl
	name := decl.Name
	if err := p.scope.DeclareType(name, ty, p.src, decl.Range); err != nil {
		return nil, err
	}
	out = append(out, &TypedefDecl{Name: name, Ty: ty, Rng: decl.Range})

	for p.at(TokComma) {
		p.advance()
		d2, err := p.parseDeclarator(false)
		if err != nil {
			return nil, err
		}
		base, err := spec.SynthesizeType(start, p.src)
		if err != nil {
			return nil, err
		}
		t2 := d2.ApplyTo(base)
		if err := p.scope.DeclareType(d2.Name, t2, p.src, d2.Range); err != nil {
			return nil, err
		}
		out = append(out, &TypedefDecl{Name: d2.Name, Ty: t2, Rng: d2.Range})
	}
	if _, err := p.expect(TokSemi); err != nil {
		return nil, err
	}
	return out, nil
}

// finishVarList handles a (possibly multi-declarator) object declaration,
// each declarator optionally carrying its own `= initializer`.
func (p *Parser) finishVarList(spec *DeclSpec, decl *Declarator, ty Type, start Range) ([]Decl, error) {
	var out []Decl

	v, err := p.finishOneVar(spec, decl, ty)
	if err != nil {
		return nil, err
	}
	out = append(out, v)

	for p.at(TokComma) {
		p.advance()
		d2, err := p.parseDeclarator(false)
		if err != nil {
			return nil, err
		}
		base, err := spec.SynthesizeType(start, p.src)
		if err != nil {
			return nil, err
		}
		t2 := d2.ApplyTo(base)
		v2, err := p.finishOneVar(spec, d2, t2)
		if err != nil {
			return nil, err
		}
		out = append(out, v2)
	}

	if _, err := p.expect(TokSemi); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) finishOneVar(spec *DeclSpec, decl *Declarator, ty Type) (*VarDecl, error) {
	v := &VarDecl{Name: decl.Name, Ty: ty, Storage: spec.Storage, Rng: decl.Range}
	if p.at(TokAssign) {
		p.advance()
		init, err := p.parseInitializer()
		if err != nil {
			return nil, err
		}
		if list, ok := init.(*InitListExpr); ok {
			var setListType func(l *InitListExpr, t Type)
			setListType = func(l *InitListExpr, t Type) {
				l.Ty = t
				for i, el := range l.Elements {
					if sub, ok := el.(*InitListExpr); ok {
						setListType(sub, initListElementType(t, i))
					}
				}
			}
			setListType(list, ty)
		}
		v.Init = init
	}
	if err := p.scope.DeclareVar(v.Name, v, p.src); err != nil {
		return nil, err
	}
	return v, nil
}

// parseInitializer parses either a brace-enclosed InitListExpr or a plain
// assignment-expression initializer.
func (p *Parser) parseInitializer() (Expr, error) {
	if p.at(TokLBrace) {
		return p.parseInitList()
	}
	return p.parseAssignExpr()
}

func (p *Parser) parseInitList() (Expr, error) {
	start := p.cur.Range
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}
	var elems []Expr
	for !p.at(TokRBrace) {
		e, err := p.parseInitializer()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.at(TokComma) {
			p.advance()
			continue
		}
		break
	}
	end, err := p.expect(TokRBrace)
	if err != nil {
		return nil, err
	}
	return &InitListExpr{Elements: elems, Rng: NewRange(start.Start, end.Range.End)}, nil
}

// parseDeclSpec consumes the run of storage-class/qualifier/type-specifier
// keywords (and at most one struct/union/enum specifier, or one typedef
// name) that precede a declarator, per spec.md §4.2's declaration-specifier
// accumulation algorithm.
func (p *Parser) parseDeclSpec() (*DeclSpec, error) {
	spec := NewDeclSpec()
	sawAny := false

	for {
		r := p.cur.Range
		switch p.cur.Kind {
		case TokTypedef:
			if err := spec.addStorage(StorageTypedef, r, p.src); err != nil {
				return nil, err
			}
		case TokExtern:
			if err := spec.addStorage(StorageExtern, r, p.src); err != nil {
				return nil, err
			}
		case TokStatic:
			if err := spec.addStorage(StorageStatic, r, p.src); err != nil {
				return nil, err
			}
		case TokThreadLocal:
			if err := spec.addStorage(StorageThreadLocal, r, p.src); err != nil {
				return nil, err
			}
		case TokInline:
			spec.Inline = true
		case TokNoreturn:
			spec.Noreturn = true
		case TokConst:
			spec.Const = true
		case TokVolatile:
			spec.Volatile = true
		case TokRestrict:
			spec.Restrict = true
		case TokAtomic:
			spec.Atomic = true

		case TokVoid:
			if err := spec.setKind(specVoid, r, p.src); err != nil {
				return nil, err
			}
		case TokBoolKw:
			if err := spec.setKind(specBool, r, p.src); err != nil {
				return nil, err
			}
		case TokChar_:
			if err := spec.setKind(specChar, r, p.src); err != nil {
				return nil, err
			}
		case TokInt:
			if err := spec.setKind(specInt, r, p.src); err != nil {
				return nil, err
			}
		case TokFloat:
			if err := spec.setKind(specFloat, r, p.src); err != nil {
				return nil, err
			}
		case TokDouble:
			if err := spec.setKind(specDouble, r, p.src); err != nil {
				return nil, err
			}
		case TokShort:
			if err := spec.setKind(specInt, r, p.src); err != nil {
				return nil, err
			}
			if err := spec.addShort(r, p.src); err != nil {
				return nil, err
			}
		case TokLong:
			if spec.Kind == specNone {
				if next, err := p.peek(); err != nil || next.Kind != TokDouble {
					spec.Kind = specInt
				}
			}
			if err := spec.addLong(r, p.src); err != nil {
				return nil, err
			}
		case TokSigned:
			if err := spec.addSign(false, r, p.src); err != nil {
				return nil, err
			}
		case TokUnsigned:
			if err := spec.addSign(true, r, p.src); err != nil {
				return nil, err
			}

		case TokStruct, TokUnion:
			rt, err := p.parseRecordSpecifier(p.cur.Kind == TokUnion)
			if err != nil {
				return nil, err
			}
			spec.Record = rt
			if err := spec.setKind(specRecord, r, p.src); err != nil {
				return nil, err
			}
			sawAny = true
			continue

		case TokEnum:
			tag, consts, err := p.parseEnumSpecifier()
			if err != nil {
				return nil, err
			}
			spec.EnumTag = tag
			if err := spec.setKind(specEnum, r, p.src); err != nil {
				return nil, err
			}
			if err := p.installEnumConstants(consts); err != nil {
				return nil, err
			}
			sawAny = true
			continue

		case TokIdent:
			if spec.Kind != specNone {
				// already have a type specifier; this identifier starts the declarator
				return spec, nil
			}
			if t, ok := p.scope.LookupType(p.cur.Lexeme); ok {
				spec.Kind = specTypedef
				spec.Typedef = t
				spec.typedefRange = p.cur.Range
				p.advance()
				sawAny = true
				continue
			}
			if !sawAny {
				return nil, p.errorf(UnexpectedToken, r, "expected declaration, got identifier '%s'", p.cur.Lexeme)
			}
			return spec, nil

		default:
			if !sawAny {
				return nil, p.errorf(UnexpectedToken, r, "expected declaration specifier, got %s", p.cur)
			}
			return spec, nil
		}
		sawAny = true
		p.advance()
	}
}

// parseRecordSpecifier parses `struct|union [tag] [{ member-list }]`.
func (p *Parser) parseRecordSpecifier(isUnion bool) (*RecordType, error) {
	p.advance() // struct/union
	tag := ""
	if p.at(TokIdent) {
		tag = p.cur.Lexeme
		p.advance()
	}
	rt := &RecordType{TypeName: tag, IsUnion: isUnion}

	if !p.at(TokLBrace) {
		// a forward reference or a use of a previously-defined tag
		if tag == "" {
			return nil, p.errorf(BadDeclarator, p.cur.Range, "expected tag or member list after struct/union")
		}
		if existing, ok := p.scope.LookupType(taggedName(recordKw(isUnion), tag)); ok {
			if existingRT, ok := existing.(*RecordType); ok {
				return existingRT, nil
			}
		}
		return rt, nil
	}

	p.advance() // {
	for !p.at(TokRBrace) {
		memberSpec, err := p.parseDeclSpec()
		if err != nil {
			return nil, err
		}
		for {
			d, err := p.parseDeclarator(false)
			if err != nil {
				return nil, err
			}
			base, err := memberSpec.SynthesizeType(p.cur.Range, p.src)
			if err != nil {
				return nil, err
			}
			rt.Members = append(rt.Members, RecordMember{Name: d.Name, Type: d.ApplyTo(base)})
			if p.at(TokComma) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(TokSemi); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	if tag != "" {
		if err := p.scope.DeclareType(taggedName(recordKw(isUnion), tag), rt, p.src, p.cur.Range); err != nil {
			return nil, err
		}
	}
	return rt, nil
}

func recordKw(isUnion bool) string {
	if isUnion {
		return "union"
	}
	return "struct"
}

// parseEnumSpecifier parses `enum [tag] [{ enumerator-list }]`, assigning
// each unvalued enumerator one more than its predecessor, starting at 0.
func (p *Parser) parseEnumSpecifier() (string, []EnumConstant, error) {
	p.advance() // enum
	tag := ""
	if p.at(TokIdent) {
		tag = p.cur.Lexeme
		p.advance()
	}
	if !p.at(TokLBrace) {
		return tag, nil, nil
	}
	p.advance() // {
	var consts []EnumConstant
	next := int64(0)
	for !p.at(TokRBrace) {
		nameTok, err := p.expect(TokIdent)
		if err != nil {
			return "", nil, err
		}
		val := next
		if p.at(TokAssign) {
			p.advance()
			e, err := p.parseAssignExpr()
			if err != nil {
				return "", nil, err
			}
			n, ok := evalConstIntExpr(e)
			if !ok {
				return "", nil, p.errorf(BadDeclarator, nameTok.Range, "enumerator value must be a constant integer expression")
			}
			val = n
		}
		consts = append(consts, EnumConstant{Name: nameTok.Lexeme, Value: val, Rng: nameTok.Range})
		next = val + 1
		if p.at(TokComma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return "", nil, err
	}
	if tag != "" {
		if err := p.scope.DeclareType(taggedName("enum", tag), TypeInt, p.src, nameRangeOrZero(consts)); err != nil {
			return "", nil, err
		}
	}
	return tag, consts, nil
}

func nameRangeOrZero(consts []EnumConstant) Range {
	if len(consts) == 0 {
		return Range{}
	}
	return consts[0].Rng
}

// installEnumConstants binds each enumerator name as a variable of type
// int in the current scope, per SPEC_FULL.md §7.7 (enum constants share
// the ordinary identifier namespace, not the type namespace).
func (p *Parser) installEnumConstants(consts []EnumConstant) error {
	for _, c := range consts {
		v := &VarDecl{Name: c.Name, Ty: TypeInt, Init: &IntLiteral{Value: c.Value, Ty: TypeInt, Rng: c.Rng}, Rng: c.Rng}
		if err := p.scope.DeclareVar(c.Name, v, p.src); err != nil {
			return err
		}
	}
	return nil
}

// parseDeclarator parses the pointer/direct-declarator grammar that wraps
// around an identifier (or, for abstract declarators used in cast and
// sizeof(type) contexts, around nothing at all). It builds the Declarator
// chain bottom-up as spec.md §4.2.2 describes: pointers accumulate first,
// then direct-declarator suffixes (array/function) wrap the result.
func (p *Parser) parseDeclarator(abstract bool) (*Declarator, error) {
	var ptrChain *Declarator
	for p.at(TokStar) {
		start := p.cur.Range
		p.advance()
		for p.at(TokConst) || p.at(TokVolatile) || p.at(TokRestrict) {
			p.advance()
		}
		ptrChain = &Declarator{Pointee: ptrChain, Range: start}
	}

	inner, err := p.parseDirectDeclarator(abstract)
	if err != nil {
		return nil, err
	}

	if ptrChain == nil {
		return inner, nil
	}
	// wrap: innermost pointer wraps inner, outer pointers wrap that
	cur := ptrChain
	for cur.Pointee != nil {
		cur = cur.Pointee
	}
	cur.Pointee = inner
	ptrChain.Name = inner.Name
	ptrChain.Ident = inner.Ident
	return ptrChain, nil
}

// parseDirectDeclarator handles `( declarator )`, a plain identifier, or
// nothing (abstract declarators), followed by any number of array/function
// suffixes.
func (p *Parser) parseDirectDeclarator(abstract bool) (*Declarator, error) {
	var base *Declarator
	start := p.cur.Range

	switch {
	case p.at(TokLParen):
		// Ambiguous with a function-declarator's parameter list; a nested
		// declarator always starts with `*` or `(` or an identifier that is
		// NOT a type name (a parameter list starts with a type).
		save := p.snapshot()
		p.advance()
		if p.looksLikeNestedDeclarator() {
			inner, err := p.parseDeclarator(abstract)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokRParen); err != nil {
				return nil, err
			}
			base = inner
		} else {
			p.restore(save)
			base = &Declarator{Range: start}
		}
	case p.at(TokIdent) && !abstract:
		tok, _ := p.advance()
		base = &Declarator{Name: tok.Lexeme, Range: tok.Range}
		base.Ident = base
	default:
		base = &Declarator{Range: start}
	}

	return p.parseDeclaratorSuffixes(base)
}

// looksLikeNestedDeclarator is consulted right after consuming a `(` inside
// parseDirectDeclarator, to decide whether it opens a parenthesized
// sub-declarator (`int (*p)[10]`) or a parameter list (`int f(int x)`).
func (p *Parser) looksLikeNestedDeclarator() bool {
	if p.at(TokStar) || p.at(TokLParen) {
		return true
	}
	if p.at(TokIdent) && !p.scope.IsTypeName(p.cur.Lexeme) {
		return true
	}
	return false
}

func (p *Parser) parseDeclaratorSuffixes(base *Declarator) (*Declarator, error) {
	for {
		switch {
		case p.at(TokLBracket):
			start := p.cur.Range
			p.advance()
			d := &Declarator{Base: base, IsArray: true, Range: start}
			if !p.at(TokRBracket) {
				e, err := p.parseAssignExpr()
				if err != nil {
					return nil, err
				}
				n, ok := evalConstIntExpr(e)
				if !ok {
					return nil, p.errorf(BadDeclarator, start, "array length must be a constant integer expression")
				}
				d.ArrayLen = int(n)
				d.HasLen = true
			}
			end, err := p.expect(TokRBracket)
			if err != nil {
				return nil, err
			}
			d.Range = NewRange(start.Start, end.Range.End)
			d.Name = base.Name
			d.Ident = base.Ident
			base = d

		case p.at(TokLParen):
			start := p.cur.Range
			p.advance()
			params, variadic, err := p.parseParamList()
			if err != nil {
				return nil, err
			}
			end, err := p.expect(TokRParen)
			if err != nil {
				return nil, err
			}
			d := &Declarator{Base: base, IsFunction: true, Params: params, Variadic: variadic, Range: NewRange(start.Start, end.Range.End)}
			d.Name = base.Name
			d.Ident = base.Ident
			base = d

		default:
			return base, nil
		}
	}
}

// parseParamList parses a function declarator's parameter list, including
// the bare `void` meaning "no parameters" and a trailing `...` for
// variadic functions.
func (p *Parser) parseParamList() ([]*ParamDecl, bool, error) {
	if p.at(TokVoid) {
		if next, err := p.peek(); err == nil && next.Kind == TokRParen {
			p.advance()
			return nil, false, nil
		}
	}
	var params []*ParamDecl
	for !p.at(TokRParen) {
		if p.at(TokEllipsis) {
			p.advance()
			return params, true, nil
		}
		start := p.cur.Range
		spec, err := p.parseDeclSpec()
		if err != nil {
			return nil, false, err
		}
		if _, err := spec.SynthesizeType(start, p.src); err != nil {
			return nil, false, err
		}
		decl, err := p.parseDeclarator(false)
		if err != nil {
			return nil, false, err
		}
		params = append(params, &ParamDecl{Spec: spec, Declarator: decl, Range: NewRange(start.Start, p.cur.Range.Start)})
		if p.at(TokComma) {
			p.advance()
			continue
		}
		break
	}
	return params, false, nil
}

// parserSnapshot captures enough state to backtrack across the one
// genuinely ambiguous point in the declarator grammar (paren-declarator vs.
// parameter list). The lexer itself is a pure function of cursor position,
// so rewinding the cursor and re-priming the lookahead is sufficient.
type parserSnapshot struct {
	cursor int
	cur    Token
	peeked *Token
}

func (p *Parser) snapshot() parserSnapshot {
	return parserSnapshot{cursor: p.lex.cursor, cur: p.cur, peeked: p.peeked}
}

func (p *Parser) restore(s parserSnapshot) {
	p.lex.cursor = s.cursor
	p.cur = s.cur
	p.peeked = s.peeked
}
