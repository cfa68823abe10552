package lispy

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
)

// LispyUserFunction is the signature every builtin has. scope is the
// caller's scope; args are already evaluated and belong to the builtin.
// A non-nil error is turned into an error value by the caller.
type LispyUserFunction func(env *Lispy, scope *Scope, name string, args []Sexp) (Sexp, error)

// callResult is what applying a closure produces: either the value of
// its body, or, when formals are left unbound, the partially applied
// closure.
type callResult struct {
	value   Sexp
	partial *SexpFunction
}

func (r callResult) Sexp() Sexp {
	if r.partial != nil {
		return r.partial
	}
	return r.value
}

func (r callResult) IsPartial() bool {
	return r.partial != nil
}

// Call applies f to args from the calling scope.
func (env *Lispy) Call(scope *Scope, f *SexpFunction, args []Sexp) Sexp {
	if env.debugExec {
		env.Log.WithFields(logrus.Fields{
			"fn":    f.name,
			"nargs": len(args),
			"depth": env.depth,
		}).Debug("call")
	}
	if f.builtin != nil {
		return env.CallUserFunction(scope, f, args)
	}
	return env.applyClosure(scope, f, args).Sexp()
}

// CallUserFunction runs a builtin with the hooks around it. A panic in
// the builtin becomes an error value; the stack-depth abort is passed on.
func (env *Lispy) CallUserFunction(scope *Scope, f *SexpFunction, args []Sexp) Sexp {
	for _, prehook := range env.before {
		prehook(env, f.name, args)
	}

	var wasPanic bool
	var recovered interface{}
	var trace []byte
	res, err := func() (Sexp, error) {
		defer func() {
			recovered = recover()
			if recovered != nil {
				if recovered == ErrStackDepthExceeded {
					panic(recovered)
				}
				wasPanic = true
				trace = make([]byte, 16384)
				nbyte := runtime.Stack(trace, false)
				trace = trace[:nbyte]
			}
		}()
		return f.builtin(env, scope, f.name, args)
	}()

	if wasPanic {
		env.Log.WithField("fn", f.name).Debugf("recovered panic, stack trace:\n%s", trace)
		err = fmt.Errorf("Function '%s' panicked: %v", f.name, recovered)
	}
	if err != nil {
		res = MakeErr(err)
	}
	if res == nil {
		res = Unit()
	}

	for _, posthook := range env.after {
		posthook(env, f.name, res)
	}
	return res
}

func (env *Lispy) applyClosure(scope *Scope, f *SexpFunction, args []Sexp) callResult {
	fn := f.Copy()
	given := len(args)
	total := len(fn.formals.Val)

	for len(args) > 0 {
		if len(fn.formals.Val) == 0 {
			return callResult{value: MakeErr(&TooManyArgumentsError{Got: given, Expected: total})}
		}
		sym, isSym := fn.formals.Pop(0).(*SexpSymbol)
		if !isSym {
			return callResult{value: MakeErr(ErrMalformedVariadic)}
		}

		if sym.name == VariadicMarker {
			if len(fn.formals.Val) != 1 {
				return callResult{value: MakeErr(ErrMalformedVariadic)}
			}
			rest, isSym := fn.formals.Pop(0).(*SexpSymbol)
			if !isSym {
				return callResult{value: MakeErr(ErrMalformedVariadic)}
			}
			fn.scope.BindSymbol(rest.name, MakeQexpr(args...))
			args = nil
			break
		}

		fn.scope.BindSymbol(sym.name, args[0])
		args = args[1:]
	}

	// "& xs" with nothing left to capture binds xs to {}.
	if len(fn.formals.Val) > 0 {
		if sym, isSym := fn.formals.Val[0].(*SexpSymbol); isSym && sym.name == VariadicMarker {
			if len(fn.formals.Val) != 2 {
				return callResult{value: MakeErr(ErrMalformedVariadic)}
			}
			rest, isSym := fn.formals.Val[1].(*SexpSymbol)
			if !isSym {
				return callResult{value: MakeErr(ErrMalformedVariadic)}
			}
			fn.formals.Val = nil
			fn.scope.BindSymbol(rest.name, MakeQexpr())
		}
	}

	if len(fn.formals.Val) > 0 {
		return callResult{partial: fn}
	}

	fn.scope.Parent = scope
	res := env.EvalQexpr(fn.scope, fn.body)
	fn.scope.Parent = nil
	return callResult{value: res}
}
