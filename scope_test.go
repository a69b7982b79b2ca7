package jcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeDeclareAndLookupVar(t *testing.T) {
	s := NewScope()
	v := &VarDecl{Name: "x", Ty: TypeInt}
	src := NewSource("<test>", nil)
	require.NoError(t, s.DeclareVar("x", v, src))

	got, ok := s.LookupVar("x")
	require.True(t, ok)
	assert.Same(t, v, got)
}

func TestScopeInnerShadowsOuter(t *testing.T) {
	s := NewScope()
	src := NewSource("<test>", nil)
	outer := &VarDecl{Name: "x", Ty: TypeInt}
	require.NoError(t, s.DeclareVar("x", outer, src))

	s.Enter(BlockScope)
	inner := &VarDecl{Name: "x", Ty: TypeLong}
	require.NoError(t, s.DeclareVar("x", inner, src))

	got, ok := s.LookupVar("x")
	require.True(t, ok)
	assert.Same(t, inner, got)

	s.Exit()
	got2, ok := s.LookupVar("x")
	require.True(t, ok)
	assert.Same(t, outer, got2)
}

func TestScopeRedeclarationInSameFrameFails(t *testing.T) {
	s := NewScope()
	src := NewSource("<test>", nil)
	require.NoError(t, s.DeclareVar("x", &VarDecl{Name: "x", Ty: TypeInt}, src))
	err := s.DeclareVar("x", &VarDecl{Name: "x", Ty: TypeInt}, src)
	require.Error(t, err)
	cerr, ok := err.(*CompileError)
	require.True(t, ok)
	assert.Equal(t, Redefinition, cerr.Kind)
}

func TestScopeTypedefAndIsTypeName(t *testing.T) {
	s := NewScope()
	src := NewSource("<test>", nil)
	assert.False(t, s.IsTypeName("myint"))
	require.NoError(t, s.DeclareType("myint", TypeInt, src, Range{}))
	assert.True(t, s.IsTypeName("myint"))

	s.Enter(BlockScope)
	assert.True(t, s.IsTypeName("myint"), "typedef names are visible from nested scopes")
	s.Exit()
}

func TestScopeExitFileScopePanics(t *testing.T) {
	s := NewScope()
	assert.Panics(t, func() { s.Exit() })
}

func TestScopeFuncRedefinitionOnlyWhenBothHaveBodies(t *testing.T) {
	s := NewScope()
	src := NewSource("<test>", nil)
	proto := &FunctionDecl{Name: "f", Ty: FunctionType{Return: TypeInt}}
	require.NoError(t, s.DeclareFunc("f", proto, src))

	def := &FunctionDecl{Name: "f", Ty: FunctionType{Return: TypeInt}, Body: &CompoundStmt{}}
	require.NoError(t, s.DeclareFunc("f", def, src))

	def2 := &FunctionDecl{Name: "f", Ty: FunctionType{Return: TypeInt}, Body: &CompoundStmt{}}
	err := s.DeclareFunc("f", def2, src)
	require.Error(t, err)
}
