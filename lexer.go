package jcc

import (
	"strconv"
	"strings"
)

const eof = -1

// Lexer is a hand-written, pull-based scanner. It holds only a Source, its
// bytes, and a byte-offset cursor; it does not buffer tokens itself
// (the parser owns the single-slot lookahead described in spec.md §4.2.1).
type Lexer struct {
	src    *Source
	input  []byte
	cursor int
}

func NewLexer(src *Source) *Lexer {
	return &Lexer{src: src, input: src.Bytes()}
}

func (l *Lexer) peekByte() int {
	if l.cursor >= len(l.input) {
		return eof
	}
	return int(l.input[l.cursor])
}

func (l *Lexer) peekByteAt(offset int) int {
	if l.cursor+offset >= len(l.input) {
		return eof
	}
	return int(l.input[l.cursor+offset])
}

func (l *Lexer) advance() byte {
	b := l.input[l.cursor]
	l.cursor++
	return b
}

// Lex advances past whitespace and comments, then returns the next token.
// Calling Lex after it has returned TokEOF keeps returning TokEOF
// (spec.md §8 invariant: the token stream is total and idempotent at eof).
func (l *Lexer) Lex() (Token, error) {
	l.skipTrivia()

	start := l.cursor
	c := l.peekByte()

	switch {
	case c == eof:
		return l.tok(TokEOF, start, start), nil

	case isIdentStart(byte(c)):
		return l.lexIdentOrKeyword(start), nil

	case isDigit(byte(c)):
		return l.lexNumber(start)

	case c == '"':
		return l.lexString(start)

	case c == '\'':
		return l.lexChar(start)

	default:
		return l.lexPunct(start)
	}
}

func (l *Lexer) tok(kind TokenKind, start, end int) Token {
	return Token{Kind: kind, Lexeme: string(l.input[start:end]), Range: Range{Start: start, End: end}}
}

func (l *Lexer) fail(kind ErrorKind, start int, format string, args ...any) error {
	return newError(kind, l.src.Span(Range{Start: start, End: l.cursor}), format, args...)
}

func (l *Lexer) skipTrivia() {
	for {
		switch l.peekByte() {
		case ' ', '\t', '\r', '\n', '\f', '\v':
			l.cursor++
		case '/':
			if l.peekByteAt(1) == '/' {
				for l.peekByte() != eof && l.peekByte() != '\n' {
					l.cursor++
				}
				continue
			}
			if l.peekByteAt(1) == '*' {
				l.cursor += 2
				for {
					if l.peekByte() == eof {
						return
					}
					if l.peekByte() == '*' && l.peekByteAt(1) == '/' {
						l.cursor += 2
						break
					}
					l.cursor++
				}
				continue
			}
			return
		default:
			return
		}
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (l *Lexer) lexIdentOrKeyword(start int) Token {
	for l.peekByte() != eof && isIdentCont(byte(l.peekByte())) {
		l.cursor++
	}
	lexeme := string(l.input[start:l.cursor])
	if kind, ok := keywords[lexeme]; ok {
		return l.tok(kind, start, l.cursor)
	}
	return l.tok(TokIdent, start, l.cursor)
}

// lexNumber consumes a numeric constant per spec.md §4.1: digits, an
// optional fractional part, an optional exponent, and an optional integer
// suffix. Classification into integer vs. floating is left to the parser;
// the lexeme string is kept intact (unlike the truncating original, which
// the Cast/float design note flags as a defect — see SPEC_FULL.md §7.5).
func (l *Lexer) lexNumber(start int) (Token, error) {
	isHex := l.peekByte() == '0' && (l.peekByteAt(1) == 'x' || l.peekByteAt(1) == 'X')
	if isHex {
		l.cursor += 2
		for l.peekByte() != eof && isHexDigit(byte(l.peekByte())) {
			l.cursor++
		}
	} else {
		for l.peekByte() != eof && isDigit(byte(l.peekByte())) {
			l.cursor++
		}
		if l.peekByte() == '.' {
			l.cursor++
			for l.peekByte() != eof && isDigit(byte(l.peekByte())) {
				l.cursor++
			}
		}
		if l.peekByte() == 'e' || l.peekByte() == 'E' {
			save := l.cursor
			l.cursor++
			if l.peekByte() == '+' || l.peekByte() == '-' {
				l.cursor++
			}
			if !isDigit(byte(l.peekByte())) {
				l.cursor = save
			} else {
				for l.peekByte() != eof && isDigit(byte(l.peekByte())) {
					l.cursor++
				}
			}
		}
	}
	// integer suffix: any run of u/U/l/L/f/F
	for {
		c := l.peekByte()
		if c == 'u' || c == 'U' || c == 'l' || c == 'L' || c == 'f' || c == 'F' {
			l.cursor++
			continue
		}
		break
	}
	return l.tok(TokNumber, start, l.cursor), nil
}

var simpleEscapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', '\\': '\\', '"': '"', '\'': '\'',
	'a': '\a', 'b': '\b', 'f': '\f', 'v': '\v',
}

// lexEscape decodes the standard C escape set: simple escapes, octal
// (\nnn, up to 3 digits) and hex (\xHH...) escapes.
func (l *Lexer) lexEscape(start int) (byte, error) {
	l.cursor++ // consume '\'
	c := l.peekByte()
	if c == eof {
		return 0, l.fail(LexError, start, "unterminated escape sequence")
	}

	if v, ok := simpleEscapes[byte(c)]; ok {
		l.cursor++
		return v, nil
	}

	if c >= '0' && c <= '7' {
		n := 0
		val := 0
		for n < 3 && l.peekByte() >= '0' && l.peekByte() <= '7' {
			val = val*8 + int(l.advance()-'0')
			n++
		}
		return byte(val), nil
	}

	if c == 'x' {
		l.cursor++
		if !isHexDigit(byte(l.peekByte())) {
			return 0, l.fail(LexError, start, "\\x used with no following hex digits")
		}
		val := 0
		for isHexDigit(byte(l.peekByte())) {
			val = val*16 + hexVal(l.advance())
		}
		return byte(val), nil
	}

	return 0, l.fail(LexError, start, "invalid escape sequence '\\%c'", c)
}

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	default:
		return int(b-'A') + 10
	}
}

func (l *Lexer) lexString(start int) (Token, error) {
	l.cursor++ // opening quote
	var sb strings.Builder
	for {
		c := l.peekByte()
		if c == eof {
			return Token{}, l.fail(LexError, start, "unterminated string literal")
		}
		if c == '"' {
			l.cursor++
			break
		}
		if c == '\\' {
			esc, err := l.lexEscape(l.cursor)
			if err != nil {
				return Token{}, err
			}
			sb.WriteByte(esc)
			continue
		}
		sb.WriteByte(l.advance())
	}
	return Token{Kind: TokString, Lexeme: sb.String(), Range: Range{Start: start, End: l.cursor}}, nil
}

func (l *Lexer) lexChar(start int) (Token, error) {
	l.cursor++ // opening quote
	if l.peekByte() == eof {
		return Token{}, l.fail(LexError, start, "unterminated character literal")
	}
	var value byte
	if l.peekByte() == '\\' {
		esc, err := l.lexEscape(l.cursor)
		if err != nil {
			return Token{}, err
		}
		value = esc
	} else {
		value = l.advance()
	}
	if l.peekByte() != '\'' {
		return Token{}, l.fail(LexError, start, "unterminated character literal")
	}
	l.cursor++
	return Token{Kind: TokChar, Lexeme: string(value), Range: Range{Start: start, End: l.cursor}}, nil
}

// punctRules implements longest-match over the full punctuator set. Each
// entry's candidates are tried in length order, matching spec.md §4.1's
// example of `<` trying `<<=`, then `<<`, then `<=`, then `<`.
type punctRule struct {
	text string
	kind TokenKind
}

var punctRules = []punctRule{
	{"...", TokEllipsis},
	{"<<=", TokShlEq}, {">>=", TokShrEq},
	{"->", TokArrow}, {"++", TokPlusPlus}, {"--", TokMinusMinus},
	{"<<", TokShl}, {">>", TokShr}, {"<=", TokLessEq}, {">=", TokGreaterEq},
	{"==", TokEq}, {"!=", TokNotEq}, {"&&", TokAndAnd}, {"||", TokOrOr},
	{"+=", TokPlusEq}, {"-=", TokMinusEq}, {"*=", TokStarEq}, {"/=", TokSlashEq},
	{"%=", TokPercentEq}, {"&=", TokAmpEq}, {"|=", TokPipeEq}, {"^=", TokCaretEq},
	{"+", TokPlus}, {"-", TokMinus}, {"*", TokStar}, {"/", TokSlash}, {"%", TokPercent},
	{"=", TokAssign}, {"<", TokLess}, {">", TokGreater}, {"!", TokBang},
	{"&", TokAmp}, {"|", TokPipe}, {"^", TokCaret}, {"~", TokTilde},
	{"?", TokQuestion}, {":", TokColon}, {",", TokComma}, {";", TokSemi},
	{".", TokDot}, {"(", TokLParen}, {")", TokRParen}, {"[", TokLBracket},
	{"]", TokRBracket}, {"{", TokLBrace}, {"}", TokRBrace},
}

func (l *Lexer) lexPunct(start int) (Token, error) {
	remaining := l.input[l.cursor:]
	for _, rule := range punctRules {
		if len(remaining) >= len(rule.text) && string(remaining[:len(rule.text)]) == rule.text {
			l.cursor += len(rule.text)
			return l.tok(rule.kind, start, l.cursor), nil
		}
	}
	return Token{}, l.fail(LexError, start, "unknown punctuation '%c'", remaining[0])
}

// parseIntLiteral and parseFloatLiteral are used by the parser (not the
// lexer) to turn a TokNumber's lexeme into a value, per SPEC_FULL.md §7.5:
// unlike the truncating original, these use strconv so the fractional part
// of a float literal is not silently dropped.
func parseIntLiteral(lexeme string) (int64, error) {
	trimmed := strings.TrimRight(lexeme, "uUlL")
	base := 10
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		base = 16
		trimmed = trimmed[2:]
	} else if len(trimmed) > 1 && trimmed[0] == '0' {
		base = 8
		trimmed = trimmed[1:]
	}
	if trimmed == "" {
		return 0, nil
	}
	return strconv.ParseInt(trimmed, base, 64)
}

func isFloatLexeme(lexeme string) bool {
	trimmed := strings.TrimRight(lexeme, "fFlL")
	return strings.ContainsAny(trimmed, ".eE") && !strings.HasPrefix(trimmed, "0x") && !strings.HasPrefix(trimmed, "0X")
}

func parseFloatLiteral(lexeme string) (float64, error) {
	trimmed := strings.TrimRight(lexeme, "fFlL")
	return strconv.ParseFloat(trimmed, 64)
}
