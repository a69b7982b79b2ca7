package jcc

// StorageClass is the storage-class-specifier carried by a DeclSpec. C11
// allows at most one per declaration; the parser enforces that, not this
// type.
type StorageClass int

const (
	StorageNone StorageClass = iota
	StorageTypedef
	StorageExtern
	StorageStatic
	StorageThreadLocal
)

// typeSpecKind tags which builtin-type keyword(s) a DeclSpec has seen, or
// that it instead names a tag (struct/union/enum) or a typedef. It is the
// accumulator's internal discriminant, consumed only by SynthesizeType.
type typeSpecKind int

const (
	specNone typeSpecKind = iota
	specVoid
	specBool
	specChar
	specInt
	specFloat
	specDouble
	specRecord  // struct/union, via Record
	specEnum    // via EnumTag; synthesizes to int, the tag is kept for diagnostics
	specTypedef // names an existing Type found via scope lookup
)

// DeclSpec accumulates the declaration-specifier list that precedes every
// declarator, e.g. the `static const unsigned long long int` in
// `static const unsigned long long int x;`. The parser appends to it one
// keyword at a time; SynthesizeType turns the finished accumulation into a
// Type. This mirrors grammar_compiler.go's
// accumulate-then-resolve pattern in the teacher, generalized from grammar
// directives to C's declaration-specifier grammar.
type DeclSpec struct {
	Storage  StorageClass
	Inline   bool
	Noreturn bool
	Const    bool
	Volatile bool
	Restrict bool
	Atomic   bool

	Kind       typeSpecKind
	LongCount  int  // number of `long` seen (0, 1, or 2 for `long long`)
	Short      bool // `short` seen; mutually exclusive with LongCount > 0
	Signed     bool // explicit `signed` seen
	Unsigned   bool // explicit `unsigned` seen
	SawSign    bool // true once either Signed or Unsigned has been set, to detect conflicting repeats

	Record       *RecordType // populated for struct/union specifiers
	EnumTag      string      // populated for enum specifiers
	Typedef      Type        // populated when Kind == specTypedef
	typedefRange Range
}

// NewDeclSpec returns an empty accumulator, ready to receive keywords.
func NewDeclSpec() *DeclSpec {
	return &DeclSpec{}
}

func (d *DeclSpec) addStorage(s StorageClass, r Range, src *Source) error {
	if d.Storage != StorageNone && d.Storage != s {
		return newError(BadDeclarator, src.Span(r), "multiple storage classes in declaration")
	}
	d.Storage = s
	return nil
}

func (d *DeclSpec) setKind(k typeSpecKind, r Range, src *Source) error {
	if d.Kind != specNone && d.Kind != k {
		return newError(BadDeclarator, src.Span(r), "conflicting type specifiers")
	}
	d.Kind = k
	return nil
}

func (d *DeclSpec) addLong(r Range, src *Source) error {
	if d.Short {
		return newError(BadDeclarator, src.Span(r), "'long' cannot be combined with 'short'")
	}
	d.LongCount++
	if d.LongCount > 2 {
		return newError(BadDeclarator, src.Span(r), "too many 'long' specifiers")
	}
	return nil
}

func (d *DeclSpec) addShort(r Range, src *Source) error {
	if d.LongCount > 0 {
		return newError(BadDeclarator, src.Span(r), "'short' cannot be combined with 'long'")
	}
	if d.Short {
		return newError(BadDeclarator, src.Span(r), "too many 'short' specifiers")
	}
	d.Short = true
	return nil
}

func (d *DeclSpec) addSign(unsigned bool, r Range, src *Source) error {
	if d.SawSign && d.Unsigned != unsigned {
		return newError(BadDeclarator, src.Span(r), "both 'signed' and 'unsigned' specified")
	}
	d.SawSign = true
	d.Unsigned = unsigned
	d.Signed = !unsigned
	return nil
}

// SynthesizeType turns a finished DeclSpec into a concrete Type. An empty
// DeclSpec (no type-specifier keyword seen at all) defaults to int,
// matching the rest of the front end's decision to treat implicit-int as
// supported rather than rejected.
func (d *DeclSpec) SynthesizeType(r Range, src *Source) (Type, error) {
	switch d.Kind {
	case specNone, specInt:
		return synthesizeIntegerType(d, r, src)
	case specChar:
		if d.LongCount > 0 {
			return nil, newError(TypeSynthesisError, src.Span(r), "'long' cannot be combined with 'char'")
		}
		if d.Unsigned {
			return TypeUChar, nil
		}
		return TypeChar, nil
	case specVoid:
		if d.SawSign || d.LongCount > 0 {
			return nil, newError(TypeSynthesisError, src.Span(r), "'void' cannot take sign or length specifiers")
		}
		return TypeVoid, nil
	case specBool:
		if d.SawSign || d.LongCount > 0 {
			return nil, newError(TypeSynthesisError, src.Span(r), "'_Bool' cannot take sign or length specifiers")
		}
		return TypeBool, nil
	case specFloat:
		if d.LongCount > 0 || d.SawSign {
			return nil, newError(TypeSynthesisError, src.Span(r), "'float' cannot take sign or length specifiers")
		}
		return TypeFloat32, nil
	case specDouble:
		if d.SawSign {
			return nil, newError(TypeSynthesisError, src.Span(r), "'double' cannot take a sign specifier")
		}
		if d.LongCount == 1 {
			return TypeFloat80, nil
		}
		if d.LongCount > 1 {
			return nil, newError(TypeSynthesisError, src.Span(r), "too many 'long' specifiers for 'double'")
		}
		return TypeFloat64, nil
	case specRecord:
		return d.Record, nil
	case specEnum:
		// The underlying representation of an enum is always int in this
		// subset (SPEC_FULL.md §7.7); the tag is kept only for diagnostics.
		return TypeInt, nil
	case specTypedef:
		return d.Typedef, nil
	default:
		return nil, newError(TypeSynthesisError, src.Span(r), "no type specifier in declaration")
	}
}

func synthesizeIntegerType(d *DeclSpec, r Range, src *Source) (Type, error) {
	signed := !d.Unsigned
	if d.Short {
		if signed {
			return TypeShort, nil
		}
		return TypeUShort, nil
	}
	switch d.LongCount {
	case 0:
		if signed {
			return TypeInt, nil
		}
		return TypeUInt, nil
	case 1, 2:
		if signed {
			return TypeLong, nil
		}
		return TypeULong, nil
	default:
		return nil, newError(TypeSynthesisError, src.Span(r), "too many 'long' specifiers")
	}
}

// Declarator is the shape layered onto a DeclSpec's base type by the
// declarator grammar: a name wrapped in pointer/array/function suffixes.
// The parser builds this bottom-up (innermost first) and ApplyTo folds it
// onto the DeclSpec's synthesized base type outside-in.
type Declarator struct {
	Name  string
	Range Range

	// At most one of the following chains is non-nil for any given
	// Declarator node (neither, for the innermost identifier or empty
	// abstract node), mirroring a recursive "pointer to X" / "array of X"
	// / "function returning X" grammar rather than a single flat list of
	// modifiers — this is what lets `int (*p)[10]` and `int *p[10]` parse
	// to different shapes.
	Pointee  *Declarator // set when this level is `*`
	Base     *Declarator // set when this level is array-of or function-of another declarator
	IsArray  bool
	ArrayLen int
	HasLen   bool

	IsFunction bool
	Params     []*ParamDecl
	Variadic   bool

	Ident *Declarator // the innermost plain-identifier node; nil for abstract declarators
}

// ParamDecl is one entry of a function declarator's parameter list.
type ParamDecl struct {
	Spec       *DeclSpec
	Declarator *Declarator
	Range      Range
}

// ApplyTo folds a Declarator's pointer/array/function wrapping onto base,
// outside-in from the identifier, producing the declared object's full
// Type. Parameters of a function level are decayed to pointers
// (array-to-pointer, function-to-pointer-to-function) by decayParam as
// ApplyTo builds the FunctionType.
func (d *Declarator) ApplyTo(base Type) Type {
	if d == nil {
		return base
	}
	switch {
	case d.Pointee != nil:
		return d.Pointee.ApplyTo(PointerType{Base: base})
	case d.IsArray:
		return d.Base.ApplyTo(ArrayType{Element: base, Length: d.ArrayLen, HasLength: d.HasLen})
	case d.IsFunction:
		params := make([]Type, len(d.Params))
		for i, p := range d.Params {
			params[i] = p.Declarator.ApplyTo(mustSynthesize(p.Spec, p.Range))
			params[i] = decayParam(params[i])
		}
		return d.Base.ApplyTo(FunctionType{Return: base, Params: params, Variadic: d.Variadic})
	default:
		return base
	}
}

// decayParam implements the parameter decay rules: an array parameter
// decays to a pointer to its element type, and a function parameter decays
// to a pointer to that function type.
func decayParam(t Type) Type {
	switch tv := t.(type) {
	case ArrayType:
		return PointerType{Base: tv.Element}
	case FunctionType:
		return PointerType{Base: tv}
	default:
		return t
	}
}

// mustSynthesize is used only where a parameter's own DeclSpec has already
// been validated by parseParamList, which rejects any parameter spec that
// SynthesizeType cannot resolve; SynthesizeType's error is folded into
// TypeInt on failure rather than panicking, since ApplyTo has no error
// return of its own.
func mustSynthesize(spec *DeclSpec, r Range) Type {
	t, err := spec.SynthesizeType(r, nil)
	if err != nil || t == nil {
		return TypeInt
	}
	return t
}
