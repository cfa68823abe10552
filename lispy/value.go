package lispy

import (
	"fmt"
	"strconv"
	"strings"
)

// Sexp is implemented by every runtime value. The concrete type is the
// tag: *SexpNum, *SexpError, *SexpSymbol, *SexpStr, *SexpSexpr,
// *SexpQexpr and *SexpFunction. No other implementations exist.
type Sexp interface {
	SexpString() string
	TypeName() string
}

const (
	NumberTypeName   = "Number"
	ErrorTypeName    = "Error"
	SymbolTypeName   = "Symbol"
	StringTypeName   = "String"
	SexprTypeName    = "S-Expression"
	QexprTypeName    = "Q-Expression"
	FunctionTypeName = "Function"
)

// VariadicMarker in a formals list binds all remaining arguments,
// as a Q-expression, to the single symbol that follows it.
const VariadicMarker = "&"

type SexpNum struct {
	Val int64
}

type SexpError struct {
	Msg string
}

type SexpSymbol struct {
	name string
}

// SexpStr holds its text unescaped; escapes are re-applied by SexpString.
type SexpStr struct {
	S string
}

// SexpSexpr is a list pending evaluation.
type SexpSexpr struct {
	Val []Sexp
}

// SexpQexpr is a quoted list. It has the same shape as SexpSexpr
// but evaluates to itself.
type SexpQexpr struct {
	Val []Sexp
}

// SexpFunction is either a builtin (builtin != nil) or a closure
// built by the lambda constructor. A closure accumulates argument
// bindings in scope across partial applications.
type SexpFunction struct {
	name    string
	builtin LispyUserFunction

	formals *SexpQexpr
	body    *SexpQexpr
	scope   *Scope
}

func MakeNum(n int64) *SexpNum       { return &SexpNum{Val: n} }
func MakeStr(s string) *SexpStr       { return &SexpStr{S: s} }
func MakeSym(name string) *SexpSymbol { return &SexpSymbol{name: name} }
func MakeSexpr(xs ...Sexp) *SexpSexpr { return &SexpSexpr{Val: xs} }
func MakeQexpr(xs ...Sexp) *SexpQexpr { return &SexpQexpr{Val: xs} }

// MakeErr wraps err's message in an error value.
func MakeErr(err error) *SexpError {
	return &SexpError{Msg: err.Error()}
}

func MakeErrf(format string, args ...interface{}) *SexpError {
	return &SexpError{Msg: fmt.Sprintf(format, args...)}
}

func MakeBuiltin(name string, fun LispyUserFunction) *SexpFunction {
	return &SexpFunction{name: name, builtin: fun}
}

// MakeLambda builds a closure with a fresh, parentless scope.
func MakeLambda(formals, body *SexpQexpr) *SexpFunction {
	return &SexpFunction{
		name:    "lambda",
		formals: formals,
		body:    body,
		scope:   NewScope(),
	}
}

// Unit is the empty S-expression, returned by builtins with nothing to say.
func Unit() *SexpSexpr {
	return &SexpSexpr{}
}

func (n *SexpNum) TypeName() string      { return NumberTypeName }
func (e *SexpError) TypeName() string    { return ErrorTypeName }
func (s *SexpSymbol) TypeName() string   { return SymbolTypeName }
func (s *SexpStr) TypeName() string      { return StringTypeName }
func (s *SexpSexpr) TypeName() string    { return SexprTypeName }
func (q *SexpQexpr) TypeName() string    { return QexprTypeName }
func (f *SexpFunction) TypeName() string { return FunctionTypeName }

func (s *SexpSymbol) Name() string { return s.name }

func (f *SexpFunction) Name() string { return f.name }

func (f *SexpFunction) IsBuiltin() bool { return f.builtin != nil }

// Formals returns the closure's still-unbound formals; nil for builtins.
func (f *SexpFunction) Formals() *SexpQexpr { return f.formals }

func (f *SexpFunction) Body() *SexpQexpr { return f.body }

// Scope returns the closure's captured scope; nil for builtins.
func (f *SexpFunction) Scope() *Scope { return f.scope }

func (s *SexpSexpr) Append(x Sexp) *SexpSexpr {
	s.Val = append(s.Val, x)
	return s
}

func (q *SexpQexpr) Append(x Sexp) *SexpQexpr {
	q.Val = append(q.Val, x)
	return q
}

// Pop removes and returns the i-th child.
func (q *SexpQexpr) Pop(i int) Sexp {
	x := q.Val[i]
	q.Val = append(q.Val[:i], q.Val[i+1:]...)
	return x
}

func (s *SexpSexpr) Pop(i int) Sexp {
	x := s.Val[i]
	s.Val = append(s.Val[:i], s.Val[i+1:]...)
	return x
}

// Join appends all of other's children onto q, consuming other.
func (q *SexpQexpr) Join(other *SexpQexpr) *SexpQexpr {
	q.Val = append(q.Val, other.Val...)
	other.Val = nil
	return q
}

// Quote re-tags an S-expression as a Q-expression, sharing the children.
func (s *SexpSexpr) Quote() *SexpQexpr {
	return &SexpQexpr{Val: s.Val}
}

// Unquote re-tags a Q-expression as an S-expression, sharing the children.
func (q *SexpQexpr) Unquote() *SexpSexpr {
	return &SexpSexpr{Val: q.Val}
}

// Copy returns a deep copy of x. Builtins are immutable and
// copied by identity.
func Copy(x Sexp) Sexp {
	switch e := x.(type) {
	case *SexpNum:
		return &SexpNum{Val: e.Val}
	case *SexpError:
		return &SexpError{Msg: e.Msg}
	case *SexpSymbol:
		return &SexpSymbol{name: e.name}
	case *SexpStr:
		return &SexpStr{S: e.S}
	case *SexpSexpr:
		return &SexpSexpr{Val: copySlice(e.Val)}
	case *SexpQexpr:
		return copyQexpr(e)
	case *SexpFunction:
		return e.Copy()
	}
	panic(fmt.Sprintf("Copy: unknown value type %T", x))
}

func (f *SexpFunction) Copy() *SexpFunction {
	if f.builtin != nil {
		return f
	}
	return &SexpFunction{
		name:    f.name,
		formals: copyQexpr(f.formals),
		body:    copyQexpr(f.body),
		scope:   f.scope.Clone(),
	}
}

func copyQexpr(q *SexpQexpr) *SexpQexpr {
	return &SexpQexpr{Val: copySlice(q.Val)}
}

func copySlice(xs []Sexp) []Sexp {
	if xs == nil {
		return nil
	}
	r := make([]Sexp, len(xs))
	for i := range xs {
		r[i] = Copy(xs[i])
	}
	return r
}

// Equal reports structural equality. Closures are equal when their
// formals and bodies are; captured scopes are not compared.
func Equal(a, b Sexp) bool {
	switch x := a.(type) {
	case *SexpNum:
		y, ok := b.(*SexpNum)
		return ok && x.Val == y.Val
	case *SexpError:
		y, ok := b.(*SexpError)
		return ok && x.Msg == y.Msg
	case *SexpSymbol:
		y, ok := b.(*SexpSymbol)
		return ok && x.name == y.name
	case *SexpStr:
		y, ok := b.(*SexpStr)
		return ok && x.S == y.S
	case *SexpSexpr:
		y, ok := b.(*SexpSexpr)
		return ok && equalSlice(x.Val, y.Val)
	case *SexpQexpr:
		y, ok := b.(*SexpQexpr)
		return ok && equalSlice(x.Val, y.Val)
	case *SexpFunction:
		y, ok := b.(*SexpFunction)
		if !ok {
			return false
		}
		if x.builtin != nil || y.builtin != nil {
			return x.builtin != nil && y.builtin != nil && x.name == y.name
		}
		return Equal(x.formals, y.formals) && Equal(x.body, y.body)
	}
	return false
}

func equalSlice(a, b []Sexp) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func IsError(x Sexp) bool {
	_, ok := x.(*SexpError)
	return ok
}

// IsTruthy: only numbers carry truth, and zero is false.
func IsTruthy(x Sexp) bool {
	n, ok := x.(*SexpNum)
	return ok && n.Val != 0
}

func BoolToNum(b bool) *SexpNum {
	if b {
		return &SexpNum{Val: 1}
	}
	return &SexpNum{Val: 0}
}

func (n *SexpNum) SexpString() string {
	return strconv.FormatInt(n.Val, 10)
}

func (e *SexpError) SexpString() string {
	return "Error: " + e.Msg
}

func (s *SexpSymbol) SexpString() string {
	return s.name
}

func (s *SexpStr) SexpString() string {
	return `"` + EscapeString(s.S) + `"`
}

func (s *SexpSexpr) SexpString() string {
	return listString(s.Val, "(", ")")
}

func (q *SexpQexpr) SexpString() string {
	return listString(q.Val, "{", "}")
}

func (f *SexpFunction) SexpString() string {
	if f.builtin != nil {
		return "<builtin>"
	}
	return `(\ ` + f.formals.SexpString() + " " + f.body.SexpString() + ")"
}

func listString(xs []Sexp, open, close string) string {
	parts := make([]string, len(xs))
	for i := range xs {
		parts[i] = xs[i].SexpString()
	}
	return open + strings.Join(parts, " ") + close
}
