package jcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSrc(t *testing.T, src string) *TranslationUnit {
	t.Helper()
	p, err := NewParser(NewSource("<test>", []byte(src)), nil)
	require.NoError(t, err)
	unit, err := p.ParseTranslationUnit()
	require.NoError(t, err)
	return unit
}

func parseSrcErr(t *testing.T, src string) error {
	t.Helper()
	p, err := NewParser(NewSource("<test>", []byte(src)), nil)
	require.NoError(t, err)
	_, err = p.ParseTranslationUnit()
	return err
}

func TestParseSimpleFunctionDefinition(t *testing.T) {
	unit := parseSrc(t, `
int add(int a, int b) {
	return a + b;
}
`)
	require.Len(t, unit.Decls, 1)
	fn, ok := unit.Decls[0].(*FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*ReturnStmt)
	require.True(t, ok)
	bin, ok := ret.Value.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, BinAdd, bin.Op)
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	unit := parseSrc(t, `
void f(void) {
	int a, b, c;
	a = b = c;
}
`)
	fn := unit.Decls[0].(*FunctionDecl)
	exprStmt := fn.Body.Stmts[1].(*ExprStmt)
	outer, ok := exprStmt.Value.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, BinAssign, outer.Op)
	ref, ok := outer.Left.(*DeclRefExpr)
	require.True(t, ok)
	assert.Equal(t, "a", ref.Name)

	inner, ok := outer.Right.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, BinAssign, inner.Op)
	innerLeft, ok := inner.Left.(*DeclRefExpr)
	require.True(t, ok)
	assert.Equal(t, "b", innerLeft.Name)
}

func TestArrayOfPointersVsPointerToArray(t *testing.T) {
	unit := parseSrc(t, `
int *p1[10];
int (*p2)[10];
`)
	require.Len(t, unit.Decls, 2)

	v1 := unit.Decls[0].(*VarDecl)
	at, ok := v1.Ty.(ArrayType)
	require.True(t, ok, "p1 should be an array type")
	_, isPtr := at.Element.(PointerType)
	assert.True(t, isPtr, "p1's elements should be pointers")

	v2 := unit.Decls[1].(*VarDecl)
	pt, ok := v2.Ty.(PointerType)
	require.True(t, ok, "p2 should be a pointer type")
	_, isArr := pt.Base.(ArrayType)
	assert.True(t, isArr, "p2 should point to an array")
}

func TestGotoAndLabelRoundTrip(t *testing.T) {
	unit := parseSrc(t, `
void f(void) {
	goto done;
done:
	return;
}
`)
	fn := unit.Decls[0].(*FunctionDecl)
	require.Len(t, fn.Body.Stmts, 2)
	g, ok := fn.Body.Stmts[0].(*GotoStmt)
	require.True(t, ok)
	assert.Equal(t, "done", g.Label)

	lbl, ok := fn.Body.Stmts[1].(*LabeledStmt)
	require.True(t, ok)
	assert.Equal(t, "done", lbl.Label)
	_, ok = lbl.Body.(*ReturnStmt)
	assert.True(t, ok)
}

func TestEnumConstantAutoIncrement(t *testing.T) {
	unit := parseSrc(t, `
enum Color { RED, GREEN, BLUE = 5, PURPLE };
`)
	require.Len(t, unit.Decls, 1)
	ed, ok := unit.Decls[0].(*EnumDecl)
	require.True(t, ok)
	require.Len(t, ed.Constants, 4)
	assert.Equal(t, int64(0), ed.Constants[0].Value)
	assert.Equal(t, int64(1), ed.Constants[1].Value)
	assert.Equal(t, int64(5), ed.Constants[2].Value)
	assert.Equal(t, int64(6), ed.Constants[3].Value)
}

func TestStructMemberAccessAndUnknownMemberError(t *testing.T) {
	unit := parseSrc(t, `
struct Point { int x; int y; };
void f(void) {
	struct Point p;
	int a = p.x;
}
`)
	fn := unit.Decls[1].(*FunctionDecl)
	decl := fn.Body.Stmts[1].(*DeclStmt)
	v := decl.Decls[0]
	member, ok := v.Init.(*MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "x", member.Field)
	assert.False(t, member.Arrow)

	err := parseSrcErr(t, `
struct Point { int x; int y; };
void f(void) {
	struct Point p;
	int a = p.z;
}
`)
	require.Error(t, err)
	cerr, ok := err.(*CompileError)
	require.True(t, ok)
	assert.Equal(t, UnknownMember, cerr.Kind)
}

func TestCastExpressionVsParenthesizedExpr(t *testing.T) {
	unit := parseSrc(t, `
void f(void) {
	int a;
	double b = (double)a;
	int c = (a);
}
`)
	fn := unit.Decls[0].(*FunctionDecl)

	declB := fn.Body.Stmts[1].(*DeclStmt)
	cast, ok := declB.Decls[0].Init.(*CastExpr)
	require.True(t, ok)
	assert.Equal(t, TypeFloat64, cast.Target)

	declC := fn.Body.Stmts[2].(*DeclStmt)
	_, isCast := declC.Decls[0].Init.(*CastExpr)
	assert.False(t, isCast)
	_, isRef := declC.Decls[0].Init.(*DeclRefExpr)
	assert.True(t, isRef)
}

func TestSizeofTypeVsSizeofExpr(t *testing.T) {
	unit := parseSrc(t, `
void f(void) {
	int a;
	int s1 = sizeof(int);
	int s2 = sizeof(a);
	int s3 = sizeof a;
}
`)
	fn := unit.Decls[0].(*FunctionDecl)

	s1 := fn.Body.Stmts[1].(*DeclStmt).Decls[0].Init.(*SizeofExpr)
	assert.Nil(t, s1.Operand)
	assert.Equal(t, TypeInt, s1.OperandType)

	s2 := fn.Body.Stmts[2].(*DeclStmt).Decls[0].Init.(*SizeofExpr)
	assert.NotNil(t, s2.Operand)

	s3 := fn.Body.Stmts[3].(*DeclStmt).Decls[0].Init.(*SizeofExpr)
	assert.NotNil(t, s3.Operand)
}

func TestInitializerListParsing(t *testing.T) {
	unit := parseSrc(t, `
int arr[3] = {1, 2, 3};
`)
	v := unit.Decls[0].(*VarDecl)
	list, ok := v.Init.(*InitListExpr)
	require.True(t, ok)
	require.Len(t, list.Elements, 3)
}

func TestTypedefThenUseAsTypeName(t *testing.T) {
	unit := parseSrc(t, `
typedef int myint;
myint x = 5;
`)
	require.Len(t, unit.Decls, 2)
	_, isTypedef := unit.Decls[0].(*TypedefDecl)
	assert.True(t, isTypedef)
	v, ok := unit.Decls[1].(*VarDecl)
	require.True(t, ok)
	assert.Equal(t, TypeInt, v.Ty)
}

func TestForLoopWithDeclarationInInit(t *testing.T) {
	unit := parseSrc(t, `
void f(void) {
	for (int i = 0; i < 10; i = i + 1) {
	}
}
`)
	fn := unit.Decls[0].(*FunctionDecl)
	forStmt, ok := fn.Body.Stmts[0].(*ForStmt)
	require.True(t, ok)
	initDecl, ok := forStmt.Init.(*DeclStmt)
	require.True(t, ok)
	require.Len(t, initDecl.Decls, 1)
	assert.Equal(t, "i", initDecl.Decls[0].Name)
	require.NotNil(t, forStmt.Cond)
	require.NotNil(t, forStmt.Post)
}

func TestRedeclarationInSameScopeErrors(t *testing.T) {
	err := parseSrcErr(t, `
void f(void) {
	int a;
	int a;
}
`)
	require.Error(t, err)
	cerr, ok := err.(*CompileError)
	require.True(t, ok)
	assert.Equal(t, Redefinition, cerr.Kind)
}

func TestShortAndUnsignedShortTypes(t *testing.T) {
	unit := parseSrc(t, `
short f(short a) {
	return a;
}
unsigned short g(unsigned short a) {
	return a;
}
`)
	require.Len(t, unit.Decls, 2)

	fn, ok := unit.Decls[0].(*FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, TypeShort, fn.Ty.Return)
	require.Len(t, fn.Ty.Params, 1)
	assert.Equal(t, TypeShort, fn.Ty.Params[0])

	gn, ok := unit.Decls[1].(*FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, TypeUShort, gn.Ty.Return)
	require.Len(t, gn.Ty.Params, 1)
	assert.Equal(t, TypeUShort, gn.Ty.Params[0])
}

func TestArrayLengthAcceptsConstantExpressions(t *testing.T) {
	unit := parseSrc(t, `
void f(void) {
	int a[2 + 2];
	int b[-1 + 5];
	int c[+3];
}
`)
	fn, ok := unit.Decls[0].(*FunctionDecl)
	require.True(t, ok)
	require.Len(t, fn.Body.Stmts, 3)

	lens := make([]int, 3)
	for i, s := range fn.Body.Stmts {
		decl, ok := s.(*DeclStmt)
		require.True(t, ok)
		require.Len(t, decl.Decls, 1)
		at, ok := decl.Decls[0].Ty.(ArrayType)
		require.True(t, ok)
		lens[i] = at.Length
	}
	assert.Equal(t, []int{4, 4, 3}, lens)
}

func TestArrayLengthRejectsNonConstantExpression(t *testing.T) {
	err := parseSrcErr(t, `
int n;
void f(void) {
	int a[n];
}
`)
	require.Error(t, err)
	cerr, ok := err.(*CompileError)
	require.True(t, ok)
	assert.Equal(t, BadDeclarator, cerr.Kind)
}

func TestEnumConstantAcceptsConstantExpression(t *testing.T) {
	unit := parseSrc(t, `
enum Flags { A = 1 << 0, B = 1 << 1, C = A | B };
`)
	ed, ok := unit.Decls[0].(*EnumDecl)
	require.True(t, ok)
	require.Len(t, ed.Constants, 3)
	assert.Equal(t, int64(1), ed.Constants[0].Value)
	assert.Equal(t, int64(2), ed.Constants[1].Value)
	assert.Equal(t, int64(3), ed.Constants[2].Value)
}

func TestShortCombinedWithLongIsAnError(t *testing.T) {
	err := parseSrcErr(t, `short long x;`)
	require.Error(t, err)
	cerr, ok := err.(*CompileError)
	require.True(t, ok)
	assert.Equal(t, BadDeclarator, cerr.Kind)
}

func TestFunctionPrototypeThenDefinitionIsNotRedefinition(t *testing.T) {
	unit := parseSrc(t, `
int add(int a, int b);
int add(int a, int b) {
	return a + b;
}
`)
	require.Len(t, unit.Decls, 2)
	proto := unit.Decls[0].(*FunctionDecl)
	def := unit.Decls[1].(*FunctionDecl)
	assert.Nil(t, proto.Body)
	assert.NotNil(t, def.Body)
}
