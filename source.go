package jcc

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Location is a resolved line/column position, used only for diagnostics;
// the lexer and parser themselves only ever track byte cursors via Range.
type Location struct {
	Line   int32
	Column int32
	Cursor int
}

// Span is a pair of Locations, the human-readable counterpart to a Range.
type Span struct{ Start, End Location }

func NewSpan(start, end Location) Span {
	return Span{Start: start, End: end}
}

func (s Span) String() string {
	startLine, startCol := int(s.Start.Line), int(s.Start.Column)
	endLine, endCol := int(s.End.Line), int(s.End.Column)
	if startLine == endLine && startCol == endCol {
		return fmt.Sprintf("%d:%d", startLine, startCol)
	}
	if startLine == endLine {
		return fmt.Sprintf("%d:%d..%d", startLine, startCol, endCol)
	}
	return fmt.Sprintf("%d:%d..%d:%d", startLine, startCol, endLine, endCol)
}

// Source owns the bytes of a single translation unit and provides
// cursor-to-line/column mapping for diagnostics. It stores the byte offset
// of every line start (0-based) and finds a cursor's line by binary search
// (O(log lines)); construction is O(n) and is meant to be done once per
// compile and cached on the Source value.
type Source struct {
	File  string
	bytes []byte

	lineStart []int
}

// NewSource wraps the contents of a single translation unit. CRLF and LF
// line endings are both recognised: a line is terminated by '\n', and any
// preceding '\r' is simply part of the previous line's trailing bytes (the
// lexer's whitespace skipper consumes it like any other space character).
func NewSource(file string, contents []byte) *Source {
	lineStart := make([]int, 1, 64)
	lineStart[0] = 0
	for i, b := range contents {
		if b == '\n' {
			lineStart = append(lineStart, i+1)
		}
	}
	return &Source{File: file, bytes: contents, lineStart: lineStart}
}

func (s *Source) Bytes() []byte { return s.bytes }
func (s *Source) Len() int      { return len(s.bytes) }

// Text returns the slice of the source described by r.
func (s *Source) Text(r Range) string {
	return string(s.bytes[r.Start:r.End])
}

// Span resolves r against the source. A nil receiver (used when a caller
// synthesizes a type with no Source at hand, e.g. parameter decay inside
// Declarator.ApplyTo) yields a zero-valued Span rather than panicking.
func (s *Source) Span(r Range) Span {
	if s == nil {
		return Span{}
	}
	return Span{Start: s.LocationAt(r.Start), End: s.LocationAt(r.End)}
}

func (s *Source) LocationAt(cursor int) Location {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(s.bytes) {
		cursor = len(s.bytes)
	}

	lineIdx := sort.Search(len(s.lineStart), func(i int) bool {
		return s.lineStart[i] > cursor
	}) - 1
	if lineIdx < 0 {
		lineIdx = 0
	}

	lineStart := s.lineStart[lineIdx]
	col := int32(utf8.RuneCount(s.bytes[lineStart:cursor])) + 1

	return Location{
		Line:   int32(lineIdx + 1),
		Column: col,
		Cursor: cursor,
	}
}
