package jcc

import "fmt"

// Type is the tagged sum of every C type this front end understands. Each
// variant is its own struct implementing the interface; callers switch on
// the concrete type the way the teacher's AstNode family is matched (see
// ast.go), rather than via an enum discriminant plus shared fields.
type Type interface {
	// Kind returns a short tag for the variant, used by typesEqual's
	// fallback comparison; it is the closest thing to a discriminant this
	// interface exposes.
	Kind() string
	String() string
	// Name returns the optional identifier carried by aggregate tags and
	// typedef names, or "" if the type is anonymous/unnamed.
	Name() string
}

// VoidType, BoolType — types with no parameters.
type VoidType struct{}
type BoolType struct{}

func (VoidType) Kind() string   { return "void" }
func (VoidType) String() string { return "void" }
func (VoidType) Name() string   { return "" }

func (BoolType) Kind() string   { return "_Bool" }
func (BoolType) String() string { return "_Bool" }
func (BoolType) Name() string   { return "" }

// IntegerType covers char/short/int/long/long long, signed or unsigned.
type IntegerType struct {
	Width    int // bits: 8, 16, 32, 64
	Signed   bool
	IsChar   bool // set on the 8-bit char types (`char`, `unsigned char`) so String renders them as char, not int8
	TypeName string
}

func (t IntegerType) Kind() string { return "integer" }
func (t IntegerType) Name() string { return t.TypeName }
func (t IntegerType) String() string {
	sign := "signed"
	if !t.Signed {
		sign = "unsigned"
	}
	if t.IsChar {
		return fmt.Sprintf("%s char", sign)
	}
	return fmt.Sprintf("%s int%d", sign, t.Width)
}

// FloatType covers float/double/long double.
type FloatType struct {
	Width int // bits: 32, 64, 80
}

func (t FloatType) Kind() string { return "float" }
func (t FloatType) Name() string { return "" }
func (t FloatType) String() string {
	switch t.Width {
	case 32:
		return "float"
	case 64:
		return "double"
	default:
		return "long double"
	}
}

type PointerType struct{ Base Type }

func (t PointerType) Kind() string   { return "pointer" }
func (t PointerType) Name() string   { return "" }
func (t PointerType) String() string { return t.Base.String() + "*" }

// ArrayType models both known-length and unknown-length arrays. HasLength
// distinguishes `int a[3]` from `int a[]`, per SPEC_FULL.md §7.1 — the
// distilled spec's "[] -> length 0" behaviour is replaced with an explicit
// discriminant rather than overloading zero.
type ArrayType struct {
	Element   Type
	Length    int
	HasLength bool
}

func (t ArrayType) Kind() string { return "array" }
func (t ArrayType) Name() string { return "" }
func (t ArrayType) String() string {
	if !t.HasLength {
		return fmt.Sprintf("%s[]", t.Element.String())
	}
	return fmt.Sprintf("%s[%d]", t.Element.String(), t.Length)
}

type FunctionType struct {
	Return   Type
	Params   []Type
	Variadic bool
}

func (t FunctionType) Kind() string { return "function" }
func (t FunctionType) Name() string { return "" }
func (t FunctionType) String() string {
	s := t.Return.String() + "("
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	if t.Variadic {
		if len(t.Params) > 0 {
			s += ", "
		}
		s += "..."
	}
	return s + ")"
}

// RecordMember is a single named field of a struct/union.
type RecordMember struct {
	Name string
	Type Type
}

// RecordType models both struct and union; IsUnion distinguishes storage
// semantics for the emitter (non-overlapping vs. overlapping members),
// which the front end itself does not compute (layout is the emitter's
// job per spec.md §6).
type RecordType struct {
	TypeName string
	IsUnion  bool
	Members  []RecordMember
}

func (t *RecordType) Kind() string { return "record" }
func (t *RecordType) Name() string { return t.TypeName }
func (t *RecordType) String() string {
	kw := "struct"
	if t.IsUnion {
		kw = "union"
	}
	if t.TypeName != "" {
		return kw + " " + t.TypeName
	}
	return kw + " <anonymous>"
}

func (t *RecordType) Member(name string) (RecordMember, bool) {
	for _, m := range t.Members {
		if m.Name == name {
			return m, true
		}
	}
	return RecordMember{}, false
}

// Well-known singleton types, reused rather than reallocated for every
// occurrence — they carry no per-occurrence state.
var (
	TypeVoid      Type = VoidType{}
	TypeBool      Type = BoolType{}
	TypeChar      Type = IntegerType{Width: 8, Signed: true, IsChar: true, TypeName: "char"}
	TypeUChar     Type = IntegerType{Width: 8, Signed: false, IsChar: true, TypeName: "unsigned char"}
	TypeShort     Type = IntegerType{Width: 16, Signed: true, TypeName: "short"}
	TypeUShort    Type = IntegerType{Width: 16, Signed: false, TypeName: "unsigned short"}
	TypeInt       Type = IntegerType{Width: 32, Signed: true, TypeName: "int"}
	TypeUInt      Type = IntegerType{Width: 32, Signed: false, TypeName: "unsigned int"}
	TypeLong      Type = IntegerType{Width: 64, Signed: true, TypeName: "long"}
	TypeULong     Type = IntegerType{Width: 64, Signed: false, TypeName: "unsigned long"}
	TypeFloat32   Type = FloatType{Width: 32}
	TypeFloat64   Type = FloatType{Width: 64}
	TypeFloat80   Type = FloatType{Width: 80}
)

// typesEqual is a structural equality used by SynthesizeType's invariant
// (spec.md §8: equal specifier bags produce equal types) and by the
// parser's redeclaration checks.
func typesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case PointerType:
		bv, ok := b.(PointerType)
		return ok && typesEqual(av.Base, bv.Base)
	case ArrayType:
		bv, ok := b.(ArrayType)
		return ok && av.HasLength == bv.HasLength && av.Length == bv.Length && typesEqual(av.Element, bv.Element)
	case FunctionType:
		bv, ok := b.(FunctionType)
		if !ok || len(av.Params) != len(bv.Params) || av.Variadic != bv.Variadic || !typesEqual(av.Return, bv.Return) {
			return false
		}
		for i := range av.Params {
			if !typesEqual(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return true
	case *RecordType:
		bv, ok := b.(*RecordType)
		return ok && av == bv // record types are identified by pointer identity, not structurally
	default:
		return a.Kind() == b.Kind() && a.String() == b.String()
	}
}
