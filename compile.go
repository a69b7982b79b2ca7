package jcc

// Compile runs the whole front end over src: lex, parse (with scope-based
// type resolution folded into parsing, per the design notes), then emit
// x86-64 AT&T assembly. It returns the parsed tree alongside the emitted
// text. When cfg.DumpAST is set (the CLI's `-ast-only` flag) emission is
// skipped and the returned assembly text is empty.
func Compile(src *Source, cfg *Config) (*TranslationUnit, string, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	p, err := NewParser(src, cfg)
	if err != nil {
		return nil, "", err
	}
	unit, err := p.ParseTranslationUnit()
	if err != nil {
		return nil, "", err
	}
	if cfg.DumpAST {
		return unit, "", nil
	}

	e := NewEmitter(src)
	asm, err := e.Emit(unit)
	if err != nil {
		return unit, "", err
	}
	return unit, asm, nil
}
