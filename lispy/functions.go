package lispy

import (
	"fmt"
	"os"
	"strings"
)

// VarFunction implements def (bind in the outermost scope) and =
// (bind in the caller's own scope).
func VarFunction(name string) LispyUserFunction {
	var bind func(scope *Scope, name string, v Sexp)
	switch name {
	case "def":
		bind = (*Scope).DefineGlobal
	case "=":
		bind = (*Scope).BindSymbol
	default:
		panic("no binding form named " + name)
	}
	return func(env *Lispy, scope *Scope, _ string, args []Sexp) (Sexp, error) {
		if len(args) < 1 {
			return nil, &ArityError{Fn: name, Got: 0, Expected: 1, AtLeast: true}
		}
		syms, isQ := args[0].(*SexpQexpr)
		if !isQ {
			return nil, typeMismatch(name, 0, args[0], QexprTypeName)
		}
		for _, s := range syms.Val {
			if _, isSym := s.(*SexpSymbol); !isSym {
				return nil, &NonSymbolError{Fn: name, Got: s.TypeName()}
			}
		}
		vals := args[1:]
		if len(syms.Val) != len(vals) {
			return nil, &SymbolCountError{Fn: name, Names: len(syms.Val), Values: len(vals)}
		}

		for i, s := range syms.Val {
			bind(scope, s.(*SexpSymbol).name, vals[i])
		}
		return Unit(), nil
	}
}

// LambdaFunction builds a closure from a formals list and a body.
func LambdaFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	if len(args) != 2 {
		return nil, wrongNargs(name, len(args), 2)
	}
	formals, isQ := args[0].(*SexpQexpr)
	if !isQ {
		return nil, typeMismatch(name, 0, args[0], QexprTypeName)
	}
	body, isQ := args[1].(*SexpQexpr)
	if !isQ {
		return nil, typeMismatch(name, 1, args[1], QexprTypeName)
	}
	for _, f := range formals.Val {
		if _, isSym := f.(*SexpSymbol); !isSym {
			return nil, &NonSymbolError{Fn: name, Got: f.TypeName()}
		}
	}
	return MakeLambda(formals, body), nil
}

// IfFunction evaluates only the chosen branch.
func IfFunction(env *Lispy, scope *Scope, name string, args []Sexp) (Sexp, error) {
	if len(args) != 3 {
		return nil, wrongNargs(name, len(args), 3)
	}
	if _, isNum := args[0].(*SexpNum); !isNum {
		return nil, typeMismatch(name, 0, args[0], NumberTypeName)
	}
	for i := 1; i < 3; i++ {
		if _, isQ := args[i].(*SexpQexpr); !isQ {
			return nil, typeMismatch(name, i, args[i], QexprTypeName)
		}
	}
	if IsTruthy(args[0]) {
		return env.EvalQexpr(scope, args[1].(*SexpQexpr)), nil
	}
	return env.EvalQexpr(scope, args[2].(*SexpQexpr)), nil
}

// ErrorFunction raises a user error carrying the given message.
func ErrorFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return nil, wrongNargs(name, len(args), 1)
	}
	s, isStr := args[0].(*SexpStr)
	if !isStr {
		return nil, typeMismatch(name, 0, args[0], StringTypeName)
	}
	return nil, &UserError{Msg: s.S}
}

// PrintFunction handles print, which writes printed forms, and show,
// which writes strings without quotes or escapes.
func PrintFunction(name string) LispyUserFunction {
	var raw bool
	switch name {
	case "show":
		raw = true
	case "print":
	default:
		panic("no printer named " + name)
	}
	return func(env *Lispy, _ *Scope, _ string, args []Sexp) (Sexp, error) {
		var b strings.Builder
		for _, a := range args {
			if s, isStr := a.(*SexpStr); isStr && raw {
				b.WriteString(s.S)
			} else {
				b.WriteString(a.SexpString())
			}
			b.WriteByte(' ')
		}
		fmt.Fprintln(env.Out, strings.TrimRight(b.String(), " "))
		return Unit(), nil
	}
}

// ExitFunction ends the process, with the given status or 0.
func ExitFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	code := 0
	switch len(args) {
	case 0:
	case 1:
		n, isNum := args[0].(*SexpNum)
		if !isNum {
			return nil, typeMismatch(name, 0, args[0], NumberTypeName)
		}
		code = int(n.Val)
	default:
		return nil, wrongNargs(name, len(args), 1)
	}
	env.runExitHooks()
	os.Exit(code)
	return Unit(), nil
}

func MergeFuncMap(funcs ...map[string]LispyUserFunction) map[string]LispyUserFunction {
	n := make(map[string]LispyUserFunction)

	for _, f := range funcs {
		for k, v := range f {
			// disallow dups, avoiding possible security implications and confusion generally.
			if _, dup := n[k]; dup {
				panic(fmt.Sprintf(" duplicate function '%s' not allowed", k))
			}
			n[k] = v
		}
	}
	return n
}

// SandboxSafeFunctions returns all functions that are safe to run in a sandbox
func SandboxSafeFunctions() map[string]LispyUserFunction {
	return MergeFuncMap(
		CoreFunctions(),
		StrFunctions(),
		EncodingFunctions(),
	)
}

// AllBuiltinFunctions returns all built in functions
func AllBuiltinFunctions() map[string]LispyUserFunction {
	return MergeFuncMap(
		CoreFunctions(),
		StrFunctions(),
		EncodingFunctions(),
		SystemFunctions(),
	)
}

// CoreFunctions returns all of the core logic
func CoreFunctions() map[string]LispyUserFunction {
	return map[string]LispyUserFunction{
		"+":     NumericFunction("+"),
		"-":     NumericFunction("-"),
		"*":     NumericFunction("*"),
		"/":     NumericFunction("/"),
		"%":     NumericFunction("%"),
		"list":  ListFunction,
		"head":  HeadFunction,
		"tail":  TailFunction,
		"join":  JoinFunction,
		"eval":  EvalFunction,
		"cons":  ConsFunction,
		"len":   LenFunction,
		"init":  InitFunction,
		"def":   VarFunction("def"),
		"=":     VarFunction("="),
		"\\":    LambdaFunction,
		"if":    IfFunction,
		"==":    EqualityFunction("=="),
		"!=":    EqualityFunction("!="),
		">":     OrderFunction(">"),
		"<":     OrderFunction("<"),
		">=":    OrderFunction(">="),
		"<=":    OrderFunction("<="),
		"error": ErrorFunction,
		"print": PrintFunction("print"),
		"show":  PrintFunction("show"),
		"not":   NotFunction,
		"and":   LogicFunction("and"),
		"or":    LogicFunction("or"),
	}
}

func StrFunctions() map[string]LispyUserFunction {
	return map[string]LispyUserFunction{
		"split":  SplitStringFunction,
		"nsplit": SplitStringOnNewlinesFunction,
	}
}

func EncodingFunctions() map[string]LispyUserFunction {
	return map[string]LispyUserFunction{
		"json":      JsonFunction("json"),
		"unjson":    JsonFunction("unjson"),
		"msgpack":   JsonFunction("msgpack"),
		"unmsgpack": JsonFunction("unmsgpack"),
		"hash":      HashFunction,
	}
}

// SystemFunctions reach the file system or the process, so the
// sandbox leaves them out.
func SystemFunctions() map[string]LispyUserFunction {
	return map[string]LispyUserFunction{
		"load":    SourceFileFunction,
		"slurpf":  SlurpfileFunction,
		"writef":  WriteToFileFunction(false),
		"owritef": WriteToFileFunction(true),
		"bsave":   WriteImageToFileFunction,
		"bload":   ReadImageFromFileFunction,
		"persist": PersistFunction,
		"restore": RestoreFunction,
		"dump":    GoonDumpFunction,
		"exit":    ExitFunction,
	}
}
