package jcc

import "fmt"

// ErrorKind enumerates the closed set of ways the front end can fail. Every
// kind is fatal at first occurrence (spec.md §7): there is no recovery path
// through the public API.
type ErrorKind int

const (
	LexError ErrorKind = iota
	UnexpectedToken
	Unimplemented
	Redefinition
	TypeSynthesisError
	BadDeclarator
	UnknownMember
)

func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case UnexpectedToken:
		return "UnexpectedToken"
	case Unimplemented:
		return "Unimplemented"
	case Redefinition:
		return "Redefinition"
	case TypeSynthesisError:
		return "TypeSynthesisError"
	case BadDeclarator:
		return "BadDeclarator"
	case UnknownMember:
		return "UnknownMember"
	default:
		return "UnknownError"
	}
}

// CompileError is the single error type thrown by every stage of the front
// end. Callers distinguish failure modes with Kind rather than with a type
// switch over distinct error types, mirroring the closed taxonomy in
// spec.md §7.
type CompileError struct {
	Kind    ErrorKind
	Message string
	Span    Span
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s @ %s", e.Kind, e.Message, e.Span)
}

func newError(kind ErrorKind, span Span, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}
