package jcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSimpleFunction(t *testing.T) {
	src := NewSource("<test>", []byte(`
int add(int a, int b) {
	return a + b;
}
`))
	unit, asm, err := Compile(src, nil)
	require.NoError(t, err)
	require.NotNil(t, unit)
	assert.Contains(t, asm, ".globl add")
	assert.Contains(t, asm, "add:")
	assert.Contains(t, asm, "ret")
}

func TestCompileAstOnlyShortCircuit(t *testing.T) {
	src := NewSource("<test>", []byte(`
int main(void) {
	return 0;
}
`))
	cfg := NewConfig()
	cfg.DumpAST = true
	unit, _, err := Compile(src, cfg)
	require.NoError(t, err)
	out := DumpAST(unit)
	assert.Contains(t, out, "FunctionDecl main")
}

func TestCompileReportsParseErrors(t *testing.T) {
	src := NewSource("<test>", []byte(`int main( {`))
	_, _, err := Compile(src, nil)
	require.Error(t, err)
	_, ok := err.(*CompileError)
	assert.True(t, ok)
}

func TestCompileBraceInitializedArray(t *testing.T) {
	src := NewSource("<test>", []byte(`
int main(void) {
	int a[3] = {1, 2, 3};
	return a[0];
}
`))
	_, asm, err := Compile(src, nil)
	require.NoError(t, err)
	assert.Contains(t, asm, "main:")
}

func TestCompileUnimplementedFloatCodegenErrors(t *testing.T) {
	src := NewSource("<test>", []byte(`
float f(void) {
	return 1.5;
}
`))
	_, _, err := Compile(src, nil)
	require.Error(t, err)
	cerr, ok := err.(*CompileError)
	require.True(t, ok)
	assert.Equal(t, Unimplemented, cerr.Kind)
}
