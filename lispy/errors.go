package lispy

import (
	"errors"
	"fmt"
)

// The Error() text of everything in this file is exactly what ends up
// inside an error value, so the wording is part of the language.

var (
	ErrMalformedVariadic = errors.New("Function format invalid. Symbol '&' not followed by single symbol.")
	ErrDivisionByZero    = errors.New("Division by zero")
	ErrIntegerOverflow   = errors.New("Integer overflow")
	ErrInvalidNumber     = errors.New("Invalid number")

	// ErrStackDepthExceeded is not an error value: it aborts the whole
	// evaluation and is returned to the driver as a Go error.
	ErrStackDepthExceeded = errors.New("stack depth exceeded")

	// ErrMoreInputNeeded is returned by the parser when the input ends
	// inside an open list or string.
	ErrMoreInputNeeded = errors.New("parser needs more input")
)

type UnboundSymbolError struct {
	Name string
}

func (e *UnboundSymbolError) Error() string {
	return fmt.Sprintf("Unbound symbol '%s'", e.Name)
}

// TypeMismatchError reports argument Index (zero based) of builtin Fn
// having type Got instead of Expected.
type TypeMismatchError struct {
	Fn       string
	Index    int
	Got      string
	Expected string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("Function '%s' passed incorrect type for argument %d. Got %s, Expected %s.",
		e.Fn, e.Index, e.Got, e.Expected)
}

// ArityError is returned by builtins. AtLeast marks variadic builtins
// that were given fewer than Expected arguments.
type ArityError struct {
	Fn       string
	Got      int
	Expected int
	AtLeast  bool
}

func (e *ArityError) Error() string {
	if e.AtLeast {
		return fmt.Sprintf("Function '%s' passed incorrect number of arguments. Got %d, Expected at least %d.",
			e.Fn, e.Got, e.Expected)
	}
	return fmt.Sprintf("Function '%s' passed incorrect number of arguments. Got %d, Expected %d.",
		e.Fn, e.Got, e.Expected)
}

// TooManyArgumentsError is returned by a closure call that runs out of
// formals before it runs out of arguments.
type TooManyArgumentsError struct {
	Got      int
	Expected int
}

func (e *TooManyArgumentsError) Error() string {
	return fmt.Sprintf("Function passed too many arguments: got %d, expected %d.", e.Got, e.Expected)
}

// NonSymbolError is returned by def, = and \ when a name list holds
// something other than a symbol.
type NonSymbolError struct {
	Fn  string
	Got string
}

func (e *NonSymbolError) Error() string {
	return fmt.Sprintf("Function '%s' can't define non-symbol: got %s, expected %s.", e.Fn, e.Got, SymbolTypeName)
}

// SymbolCountError is returned by def and = when the number of names
// and the number of values differ.
type SymbolCountError struct {
	Fn     string
	Names  int
	Values int
}

func (e *SymbolCountError) Error() string {
	return fmt.Sprintf("Function '%s' passed incorrect number of values for symbols: got %d, expected %d.",
		e.Fn, e.Values, e.Names)
}

type EmptyListError struct {
	Fn    string
	Index int
}

func (e *EmptyListError) Error() string {
	return fmt.Sprintf("Function '%s' passed {} for argument %d.", e.Fn, e.Index)
}

// UserError carries the message given to the error builtin.
type UserError struct {
	Msg string
}

func (e *UserError) Error() string { return e.Msg }

type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
}

type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("Could not load library %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func typeMismatch(fn string, i int, got Sexp, expected string) error {
	return &TypeMismatchError{Fn: fn, Index: i, Got: got.TypeName(), Expected: expected}
}

func wrongNargs(fn string, got, expected int) error {
	return &ArityError{Fn: fn, Got: got, Expected: expected}
}
