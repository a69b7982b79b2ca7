package jcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emitSrc(t *testing.T, src string) string {
	t.Helper()
	p, err := NewParser(NewSource("<test>", []byte(src)), nil)
	require.NoError(t, err)
	unit, err := p.ParseTranslationUnit()
	require.NoError(t, err)
	asm, err := NewEmitter(NewSource("<test>", []byte(src))).Emit(unit)
	require.NoError(t, err)
	return asm
}

func TestEmitBraceInitializedArrayStoresEachElement(t *testing.T) {
	asm := emitSrc(t, `
int main(void) {
	int a[3] = {1, 2, 3};
	return 0;
}
`)
	assert.Contains(t, asm, "$1, %rax")
	assert.Contains(t, asm, "$2, %rax")
	assert.Contains(t, asm, "$3, %rax")
}

func TestEmitShortCircuitAndOr(t *testing.T) {
	asm := emitSrc(t, `
int f(int a, int b) {
	return a && b;
}
int g(int a, int b) {
	return a || b;
}
`)
	assert.Contains(t, asm, "f:")
	assert.Contains(t, asm, "g:")
}

func TestEmitSwitchLinearCompareChain(t *testing.T) {
	asm := emitSrc(t, `
int f(int x) {
	switch (x) {
	case 1:
		return 10;
	case 2:
		return 20;
	default:
		return 0;
	}
}
`)
	assert.Contains(t, asm, "f:")
	assert.Contains(t, asm, "cmpq")
}

func TestEmitGlobalVariableDirective(t *testing.T) {
	asm := emitSrc(t, `
int counter = 42;
`)
	assert.Contains(t, asm, "counter:")
	assert.Contains(t, asm, ".long 42")
}

func TestEmitMoreThanSixArgsIsUnimplemented(t *testing.T) {
	src := `
int sum7(int a, int b, int c, int d, int e, int f, int g);
int call(void) {
	return sum7(1, 2, 3, 4, 5, 6, 7);
}
`
	p, err := NewParser(NewSource("<test>", []byte(src)), nil)
	require.NoError(t, err)
	unit, err := p.ParseTranslationUnit()
	require.NoError(t, err)
	_, err = NewEmitter(NewSource("<test>", []byte(src))).Emit(unit)
	require.Error(t, err)
	cerr, ok := err.(*CompileError)
	require.True(t, ok)
	assert.Equal(t, Unimplemented, cerr.Kind)
}
