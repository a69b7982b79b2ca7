package jcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, input string) []Token {
	t.Helper()
	src := NewSource("<test>", []byte(input))
	lex := NewLexer(src)
	var toks []Token
	for {
		tok, err := lex.Lex()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			break
		}
	}
	return toks
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	toks := lexAll(t, "int foo_bar return2 typedef")
	require.Len(t, toks, 5)
	assert.Equal(t, TokInt, toks[0].Kind)
	assert.Equal(t, TokIdent, toks[1].Kind)
	assert.Equal(t, "foo_bar", toks[1].Lexeme)
	assert.Equal(t, TokIdent, toks[2].Kind)
	assert.Equal(t, "return2", toks[2].Lexeme)
	assert.Equal(t, TokTypedef, toks[3].Kind)
	assert.Equal(t, TokEOF, toks[4].Kind)
}

func TestLexerLongestMatchPunctuation(t *testing.T) {
	cases := []struct {
		input string
		kinds []TokenKind
	}{
		{"<", []TokenKind{TokLess, TokEOF}},
		{"<=", []TokenKind{TokLessEq, TokEOF}},
		{"<<", []TokenKind{TokShl, TokEOF}},
		{"<<=", []TokenKind{TokShlEq, TokEOF}},
		{"->", []TokenKind{TokArrow, TokEOF}},
		{"--", []TokenKind{TokMinusMinus, TokEOF}},
		{"-=", []TokenKind{TokMinusEq, TokEOF}},
		{"...", []TokenKind{TokEllipsis, TokEOF}},
		{"..", []TokenKind{TokDot, TokDot, TokEOF}},
	}
	for _, c := range cases {
		toks := lexAll(t, c.input)
		require.Len(t, toks, len(c.kinds), "input %q", c.input)
		for i, k := range c.kinds {
			assert.Equal(t, k, toks[i].Kind, "input %q token %d", c.input, i)
		}
	}
}

func TestLexerEOFIsIdempotent(t *testing.T) {
	src := NewSource("<test>", []byte("x"))
	lex := NewLexer(src)
	_, err := lex.Lex()
	require.NoError(t, err)
	first, err := lex.Lex()
	require.NoError(t, err)
	second, err := lex.Lex()
	require.NoError(t, err)
	assert.Equal(t, TokEOF, first.Kind)
	assert.Equal(t, TokEOF, second.Kind)
	assert.Equal(t, first, second)
}

func TestLexerStringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\tb\n\x41\101"`)
	require.Len(t, toks, 2)
	assert.Equal(t, TokString, toks[0].Kind)
	assert.Equal(t, "a\tb\nAA", toks[0].Lexeme)
}

func TestLexerCharLiteral(t *testing.T) {
	toks := lexAll(t, `'a' '\n' '\0'`)
	require.Len(t, toks, 4)
	assert.Equal(t, byte('a'), toks[0].Lexeme[0])
	assert.Equal(t, byte('\n'), toks[1].Lexeme[0])
	assert.Equal(t, byte(0), toks[2].Lexeme[0])
}

func TestLexerUnterminatedStringIsLexError(t *testing.T) {
	src := NewSource("<test>", []byte(`"abc`))
	lex := NewLexer(src)
	_, err := lex.Lex()
	require.Error(t, err)
	cerr, ok := err.(*CompileError)
	require.True(t, ok)
	assert.Equal(t, LexError, cerr.Kind)
}

func TestLexerNumberClassification(t *testing.T) {
	toks := lexAll(t, "123 1.5 0x1F 1e10 1.5f 10u")
	for i := 0; i < 6; i++ {
		require.Equal(t, TokNumber, toks[i].Kind)
	}
	assert.False(t, isFloatLexeme(toks[0].Lexeme))
	assert.True(t, isFloatLexeme(toks[1].Lexeme))
	assert.False(t, isFloatLexeme(toks[2].Lexeme))
	assert.True(t, isFloatLexeme(toks[3].Lexeme))
	assert.True(t, isFloatLexeme(toks[4].Lexeme))
	assert.False(t, isFloatLexeme(toks[5].Lexeme))
}

func TestLexerSkipsCommentsAndWhitespace(t *testing.T) {
	toks := lexAll(t, "int /* comment */ x; // trailing\n int y;")
	kinds := make([]TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []TokenKind{TokInt, TokIdent, TokSemi, TokInt, TokIdent, TokSemi, TokEOF}, kinds)
}

func TestParseIntLiteralBases(t *testing.T) {
	v, err := parseIntLiteral("0x1F")
	require.NoError(t, err)
	assert.EqualValues(t, 31, v)

	v, err = parseIntLiteral("010")
	require.NoError(t, err)
	assert.EqualValues(t, 8, v)

	v, err = parseIntLiteral("42u")
	require.NoError(t, err)
	assert.EqualValues(t, 42, v)
}

func TestParseFloatLiteral(t *testing.T) {
	v, err := parseFloatLiteral("3.5f")
	require.NoError(t, err)
	assert.InDelta(t, 3.5, v, 0.0001)
}
