package lispyext

import (
	"fmt"
	"time"

	"github.com/glycerine/lispy/lispy"
)

// unitArgs accepts no arguments, or a single (). A one element
// S-expression evaluates to its element, so (time) alone would just
// yield the builtin; from the language these are called as (time ()).
func unitArgs(args []lispy.Sexp) bool {
	if len(args) == 0 {
		return true
	}
	s, isSexpr := args[0].(*lispy.SexpSexpr)
	return len(args) == 1 && isSexpr && len(s.Val) == 0
}

// TimeFunction returns the current time as Unix nanoseconds.
func TimeFunction(env *lispy.Lispy, _ *lispy.Scope, name string,
	args []lispy.Sexp) (lispy.Sexp, error) {
	if !unitArgs(args) {
		return nil, &lispy.ArityError{Fn: name, Got: len(args), Expected: 0}
	}
	return lispy.MakeNum(time.Now().UnixNano()), nil
}

// TimeStringFunction renders Unix nanoseconds as an RFC3339 UTC string.
func TimeStringFunction(env *lispy.Lispy, _ *lispy.Scope, name string,
	args []lispy.Sexp) (lispy.Sexp, error) {
	if len(args) != 1 {
		return nil, &lispy.ArityError{Fn: name, Got: len(args), Expected: 1}
	}
	n, isNum := args[0].(*lispy.SexpNum)
	if !isNum {
		return nil, &lispy.TypeMismatchError{Fn: name, Index: 0,
			Got: args[0].TypeName(), Expected: lispy.NumberTypeName}
	}
	return lispy.MakeStr(time.Unix(0, n.Val).UTC().Format(time.RFC3339Nano)), nil
}

var maxTimeitDuration = 10 * time.Second

const defaultTimeitIterations = 1000

// TimeitFunction calls a function of no arguments repeatedly, (timeit f)
// or (timeit f n), stopping early once maxTimeitDuration has passed.
// It reports to env.Out and returns the average nanoseconds per run.
func TimeitFunction(env *lispy.Lispy, scope *lispy.Scope, name string,
	args []lispy.Sexp) (lispy.Sexp, error) {
	nargs := len(args)
	if nargs != 1 && nargs != 2 {
		return nil, &lispy.ArityError{Fn: name, Got: nargs, Expected: 1}
	}

	fun, isFn := args[0].(*lispy.SexpFunction)
	if !isFn {
		return nil, &lispy.TypeMismatchError{Fn: name, Index: 0,
			Got: args[0].TypeName(), Expected: lispy.FunctionTypeName}
	}
	maxIter := int64(defaultTimeitIterations)
	if nargs == 2 {
		n, isNum := args[1].(*lispy.SexpNum)
		if !isNum {
			return nil, &lispy.TypeMismatchError{Fn: name, Index: 1,
				Got: args[1].TypeName(), Expected: lispy.NumberTypeName}
		}
		if n.Val < 1 {
			return nil, fmt.Errorf("%s: iteration count must be positive, got %d", name, n.Val)
		}
		maxIter = n.Val
	}

	starttime := time.Now()
	var elapsed time.Duration
	var iterations int64
	for iterations = 0; iterations < maxIter; {
		res := env.Call(scope, fun, nil)
		iterations++
		if lispy.IsError(res) {
			return res, nil
		}
		elapsed = time.Since(starttime)
		if elapsed > maxTimeitDuration {
			break
		}
	}

	avg := elapsed.Nanoseconds() / iterations
	fmt.Fprintf(env.Out, "ran %d iterations in %f seconds\n", iterations, elapsed.Seconds())
	fmt.Fprintf(env.Out, "average %f seconds per run\n", time.Duration(avg).Seconds())
	return lispy.MakeNum(avg), nil
}

func ImportTime(env *lispy.Lispy) {
	env.AddFunction("time", TimeFunction)
	env.AddFunction("time-string", TimeStringFunction)
	env.AddFunction("timeit", TimeitFunction)
}
