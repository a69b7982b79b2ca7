package jcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpASTIsIdempotent(t *testing.T) {
	src := NewSource("<test>", []byte(`
int add(int a, int b) {
	int c = a + b;
	return c;
}
`))
	p, err := NewParser(src, nil)
	require.NoError(t, err)
	unit, err := p.ParseTranslationUnit()
	require.NoError(t, err)

	first := DumpAST(unit)
	second := DumpAST(unit)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "FunctionDecl add")
	assert.Contains(t, first, "BinaryExpr +")
}

func TestDumpASTStringLiteralEscapes(t *testing.T) {
	src := NewSource("<test>", []byte(`
char *msg = "hi\n";
`))
	p, err := NewParser(src, nil)
	require.NoError(t, err)
	unit, err := p.ParseTranslationUnit()
	require.NoError(t, err)

	out := DumpAST(unit)
	assert.Contains(t, out, `StringLiteral "hi\n"`)
}
