package eval

import (
	"errors"
	"fmt"
)

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	// KindUnknown is reported by KindOf for errors that did not come from
	// the evaluator.
	KindUnknown ErrorKind = iota
	// SyntaxError: the expression cannot be parsed.
	SyntaxError
	// UnknownIdentifierError: a name has no binding, constant, unit or function.
	UnknownIdentifierError
	// UnitIncompatibilityError: an operation or conversion mixes dimensions.
	UnitIncompatibilityError
	// DomainError: an arithmetic failure such as division by zero.
	DomainError
)

// Sentinels matched by *Error through errors.Is.
var (
	ErrSyntax            = errors.New("syntax error")
	ErrUnknownIdentifier = errors.New("unknown identifier")
	ErrUnitIncompatible  = errors.New("incompatible units")
	ErrDomain            = errors.New("domain error")
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "syntax"
	case UnknownIdentifierError:
		return "unknown_identifier"
	case UnitIncompatibilityError:
		return "unit_incompatible"
	case DomainError:
		return "domain"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case SyntaxError:
		return ErrSyntax
	case UnknownIdentifierError:
		return ErrUnknownIdentifier
	case UnitIncompatibilityError:
		return ErrUnitIncompatible
	case DomainError:
		return ErrDomain
	}
	return nil
}

// Error is the error returned by Compile and Evaluate.
type Error struct {
	Kind ErrorKind
	Msg  string
	// Pos is the rune offset in the source for syntax errors, -1 otherwise.
	Pos int
	// Name is the unresolved identifier for UnknownIdentifierError.
	Name string
	// Suggestion is the closest known name, if any.
	Suggestion string
}

func (e *Error) Error() string {
	prefix := "evaluation error"
	if s := e.Kind.sentinel(); s != nil {
		prefix = s.Error()
	}
	msg := prefix + ": " + e.Msg
	if e.Pos >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Pos)
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf returns the kind of an evaluation error, or KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func syntaxErr(pos int, format string, args ...any) *Error {
	return &Error{Kind: SyntaxError, Msg: fmt.Sprintf(format, args...), Pos: pos}
}

func unitErr(format string, args ...any) *Error {
	return &Error{Kind: UnitIncompatibilityError, Msg: fmt.Sprintf(format, args...), Pos: -1}
}

func domainErr(format string, args ...any) *Error {
	return &Error{Kind: DomainError, Msg: fmt.Sprintf(format, args...), Pos: -1}
}

func unknownErr(name, what, suggestion string) *Error {
	return &Error{
		Kind:       UnknownIdentifierError,
		Msg:        fmt.Sprintf("%s %q is not defined", what, name),
		Pos:        -1,
		Name:       name,
		Suggestion: suggestion,
	}
}
