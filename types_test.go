package jcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeStringRendering(t *testing.T) {
	assert.Equal(t, "void", TypeVoid.String())
	assert.Equal(t, "signed int32", TypeInt.String())
	assert.Equal(t, "unsigned int32", TypeUInt.String())
	assert.Equal(t, "signed char", TypeChar.String())
	assert.Equal(t, "float", TypeFloat32.String())
	assert.Equal(t, "double", TypeFloat64.String())

	pt := PointerType{Base: TypeInt}
	assert.Equal(t, "signed int32*", pt.String())

	at := ArrayType{Element: TypeInt, Length: 3, HasLength: true}
	assert.Equal(t, "signed int32[3]", at.String())

	unknownArr := ArrayType{Element: TypeInt}
	assert.Equal(t, "signed int32[]", unknownArr.String())
}

func TestTypesEqualStructural(t *testing.T) {
	a := PointerType{Base: TypeInt}
	b := PointerType{Base: TypeInt}
	assert.True(t, typesEqual(a, b))

	c := PointerType{Base: TypeLong}
	assert.False(t, typesEqual(a, c))

	arr1 := ArrayType{Element: TypeInt, Length: 4, HasLength: true}
	arr2 := ArrayType{Element: TypeInt, Length: 4, HasLength: true}
	assert.True(t, typesEqual(arr1, arr2))

	arr3 := ArrayType{Element: TypeInt}
	assert.False(t, typesEqual(arr1, arr3))

	f1 := FunctionType{Return: TypeInt, Params: []Type{TypeInt, TypeLong}}
	f2 := FunctionType{Return: TypeInt, Params: []Type{TypeInt, TypeLong}}
	assert.True(t, typesEqual(f1, f2))

	f3 := FunctionType{Return: TypeInt, Params: []Type{TypeInt}, Variadic: true}
	assert.False(t, typesEqual(f1, f3))
}

func TestRecordTypeMemberLookup(t *testing.T) {
	rt := &RecordType{
		TypeName: "point",
		Members: []RecordMember{
			{Name: "x", Type: TypeInt},
			{Name: "y", Type: TypeInt},
		},
	}
	m, ok := rt.Member("y")
	assert.True(t, ok)
	assert.Equal(t, TypeInt, m.Type)

	_, ok = rt.Member("z")
	assert.False(t, ok)
}

func TestSynthesizeTypeTable(t *testing.T) {
	src := NewSource("<test>", nil)
	r := Range{}

	cases := []struct {
		name string
		spec *DeclSpec
		want Type
	}{
		{"implicit int", &DeclSpec{}, TypeInt},
		{"unsigned", &DeclSpec{Kind: specInt, Unsigned: true, SawSign: true}, TypeUInt},
		{"long", &DeclSpec{Kind: specInt, LongCount: 1}, TypeLong},
		{"long long unsigned", &DeclSpec{Kind: specInt, LongCount: 2, Unsigned: true, SawSign: true}, TypeULong},
		{"short", &DeclSpec{Kind: specInt, Short: true}, TypeShort},
		{"unsigned short", &DeclSpec{Kind: specInt, Short: true, Unsigned: true, SawSign: true}, TypeUShort},
		{"char", &DeclSpec{Kind: specChar}, TypeChar},
		{"unsigned char", &DeclSpec{Kind: specChar, Unsigned: true, SawSign: true}, TypeUChar},
		{"double", &DeclSpec{Kind: specDouble}, TypeFloat64},
		{"long double", &DeclSpec{Kind: specDouble, LongCount: 1}, TypeFloat80},
		{"float", &DeclSpec{Kind: specFloat}, TypeFloat32},
		{"void", &DeclSpec{Kind: specVoid}, TypeVoid},
		{"bool", &DeclSpec{Kind: specBool}, TypeBool},
	}
	for _, c := range cases {
		got, err := c.spec.SynthesizeType(r, src)
		assert.NoError(t, err, c.name)
		assert.Equal(t, c.want, got, c.name)
	}
}

func TestSynthesizeTypeRejectsConflicts(t *testing.T) {
	src := NewSource("<test>", nil)
	r := Range{}

	_, err := (&DeclSpec{Kind: specVoid, SawSign: true}).SynthesizeType(r, src)
	assert.Error(t, err)

	_, err = (&DeclSpec{Kind: specChar, LongCount: 1}).SynthesizeType(r, src)
	assert.Error(t, err)

	_, err = (&DeclSpec{Kind: specDouble, LongCount: 2}).SynthesizeType(r, src)
	assert.Error(t, err)
}

func TestDeclaratorApplyToPointerVsArray(t *testing.T) {
	// `int *p[10]`: a pointer-prefixed declarator whose direct-declarator is
	// an array suffix over the plain identifier — array of 10 pointers to int.
	identP := &Declarator{Name: "p"}
	arraySuffix := &Declarator{Base: identP, IsArray: true, ArrayLen: 10, HasLen: true, Name: "p"}
	arrOfPtr := &Declarator{Pointee: arraySuffix, Name: "p"}

	ty := arrOfPtr.ApplyTo(TypeInt)
	at, ok := ty.(ArrayType)
	assert.True(t, ok)
	_, isPtr := at.Element.(PointerType)
	assert.True(t, isPtr)

	// `int (*p)[10]`: an array suffix wrapped around a parenthesised
	// pointer-declarator — pointer to array of 10 ints.
	innerPtr := &Declarator{Pointee: identP, Name: "p"}
	ptrToArr := &Declarator{Base: innerPtr, IsArray: true, ArrayLen: 10, HasLen: true, Name: "p"}

	ty2 := ptrToArr.ApplyTo(TypeInt)
	pt, ok := ty2.(PointerType)
	assert.True(t, ok)
	_, isArr := pt.Base.(ArrayType)
	assert.True(t, isArr)
}
