package jcc

// Parser is a hand-written recursive-descent parser with a single-token
// lookahead buffer, consuming tokens pulled on demand from a Lexer. It owns
// the Scope stack so declarator parsing can query "is this identifier
// currently a type name" without consulting the lexer (spec.md's design
// note: typedef/identifier ambiguity is resolved at parse time, not by a
// lexer-level flag).
type Parser struct {
	lex *Lexer
	src *Source
	cfg *Config

	scope *Scope

	cur    Token
	peeked *Token
}

// NewParser primes the lookahead by pulling the first token immediately,
// so Parser.cur is always valid once constructed.
func NewParser(src *Source, cfg *Config) (*Parser, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	p := &Parser{
		lex:   NewLexer(src),
		src:   src,
		cfg:   cfg,
		scope: NewScope(),
	}
	tok, err := p.lex.Lex()
	if err != nil {
		return nil, err
	}
	p.cur = tok
	return p, nil
}

// advance consumes the current token and returns it, pulling the next one
// (from the one-slot peek buffer if primed, else straight from the lexer).
func (p *Parser) advance() (Token, error) {
	t := p.cur
	if p.peeked != nil {
		p.cur = *p.peeked
		p.peeked = nil
		return t, nil
	}
	next, err := p.lex.Lex()
	if err != nil {
		return Token{}, err
	}
	p.cur = next
	return t, nil
}

// peek returns the token after p.cur without consuming either, filling the
// single lookahead slot on first use. Needed only at the few genuinely
// ambiguous points in the grammar (e.g. distinguishing a cast from a
// parenthesized expression).
func (p *Parser) peek() (Token, error) {
	if p.peeked == nil {
		next, err := p.lex.Lex()
		if err != nil {
			return Token{}, err
		}
		p.peeked = &next
	}
	return *p.peeked, nil
}

func (p *Parser) at(kind TokenKind) bool {
	return p.cur.Kind == kind
}

// expect consumes the current token if it matches kind, else returns an
// UnexpectedToken error.
func (p *Parser) expect(kind TokenKind) (Token, error) {
	if p.cur.Kind != kind {
		return Token{}, p.errorf(UnexpectedToken, p.cur.Range, "expected %s, got %s", kind, p.cur)
	}
	return p.advance()
}

func (p *Parser) errorf(kind ErrorKind, r Range, format string, args ...any) error {
	return newError(kind, p.src.Span(r), format, args...)
}

// ParseTranslationUnit parses a whole file: a sequence of top-level
// declarations (spec.md's single-TU Non-goal means there is exactly one of
// these per compile).
func (p *Parser) ParseTranslationUnit() (*TranslationUnit, error) {
	start := p.cur.Range
	unit := &TranslationUnit{}
	for !p.at(TokEOF) {
		decls, err := p.parseExternalDecl()
		if err != nil {
			return nil, err
		}
		unit.Decls = append(unit.Decls, decls...)
	}
	unit.Rng = NewRange(start.Start, p.cur.Range.End)
	return unit, nil
}
