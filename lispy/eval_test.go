package lispy

import (
	"bytes"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

// evalAll runs each line through EvalString and returns the printed
// value of the last one.
func evalAll(env *Lispy, lines ...string) string {
	var res Sexp
	var err error
	for _, line := range lines {
		res, err = env.EvalString(line)
		panicOn(err)
	}
	return res.SexpString()
}

func newTestEnv() (*Lispy, *bytes.Buffer) {
	env := NewLispy()
	var out bytes.Buffer
	env.Out = &out
	return env, &out
}

func Test200Arithmetic(t *testing.T) {

	cv.Convey(`Arithmetic folds its arguments left to right over 64 bit integers`, t, func() {
		env, _ := newTestEnv()

		cv.So(evalAll(env, "+ 1 2 3"), cv.ShouldEqual, "6")
		cv.So(evalAll(env, "- 10 1 2"), cv.ShouldEqual, "7")
		cv.So(evalAll(env, "- 5"), cv.ShouldEqual, "-5")
		cv.So(evalAll(env, "* 2 (+ 1 2)"), cv.ShouldEqual, "6")
		cv.So(evalAll(env, "/ 7 2"), cv.ShouldEqual, "3")
		cv.So(evalAll(env, "/ -7 2"), cv.ShouldEqual, "-3")
		cv.So(evalAll(env, "% 7 3"), cv.ShouldEqual, "1")
		cv.So(evalAll(env, "(+ 1 (* 2 3))"), cv.ShouldEqual, "7")
	})

	cv.Convey(`Division by zero, overflow and wrong types are error values`, t, func() {
		env, _ := newTestEnv()

		cv.So(evalAll(env, "/ 10 0"), cv.ShouldEqual, "Error: Division by zero")
		cv.So(evalAll(env, "% 10 0"), cv.ShouldEqual, "Error: Division by zero")
		cv.So(evalAll(env, "* 9223372036854775807 2"), cv.ShouldEqual, "Error: Integer overflow")
		cv.So(evalAll(env, "+ 9223372036854775807 1"), cv.ShouldEqual, "Error: Integer overflow")
		cv.So(evalAll(env, "- -9223372036854775808"), cv.ShouldEqual, "Error: Integer overflow")
		cv.So(evalAll(env, "+ 1 {2}"), cv.ShouldEqual,
			"Error: Function '+' passed incorrect type for argument 1. Got Q-Expression, Expected Number.")
	})

	cv.Convey(`Calling a numeric builtin with no arguments through Apply is an arity error`, t, func() {
		env, _ := newTestEnv()
		plus, _ := env.FindObject("+")
		res, err := env.Apply(plus.(*SexpFunction), nil)
		panicOn(err)
		cv.So(res.SexpString(), cv.ShouldEqual,
			"Error: Function '+' passed incorrect number of arguments. Got 0, Expected at least 1.")
	})
}

func Test201SExpressionShapes(t *testing.T) {

	cv.Convey(`A one element S-expression is its element, and an empty one is itself`, t, func() {
		env, _ := newTestEnv()

		cv.So(evalAll(env, "(5)"), cv.ShouldEqual, "5")
		cv.So(evalAll(env, "((((5))))"), cv.ShouldEqual, "5")
		cv.So(evalAll(env, "()"), cv.ShouldEqual, "()")
		cv.So(evalAll(env, ""), cv.ShouldEqual, "()")
		cv.So(evalAll(env, "{1 (+ 1 1)}"), cv.ShouldEqual, "{1 (+ 1 1)}")
		cv.So(evalAll(env, "+"), cv.ShouldEqual, "<builtin>")
	})

	cv.Convey(`A list must start with a function`, t, func() {
		env, _ := newTestEnv()
		cv.So(evalAll(env, "1 2 3"), cv.ShouldEqual,
			"Error: S-Expression starts with incorrect type: got Number, expected Function.")
	})

	cv.Convey(`Unbound symbols are errors`, t, func() {
		env, _ := newTestEnv()
		cv.So(evalAll(env, "nosuch"), cv.ShouldEqual, "Error: Unbound symbol 'nosuch'")
	})
}

func Test202ErrorsShortCircuit(t *testing.T) {

	cv.Convey(`The leftmost error among the arguments becomes the result, and the call never happens`, t, func() {
		env, out := newTestEnv()

		cv.So(evalAll(env, `(+ 1 (error "boom") (/ 1 0))`), cv.ShouldEqual, "Error: boom")
		cv.So(evalAll(env, `print (error "first") (error "second")`), cv.ShouldEqual, "Error: first")
		cv.So(out.String(), cv.ShouldEqual, "")
		cv.So(evalAll(env, `error 1`), cv.ShouldEqual,
			"Error: Function 'error' passed incorrect type for argument 0. Got Number, Expected String.")
	})
}

func Test203ListBuiltins(t *testing.T) {

	cv.Convey(`head, tail, init, join, cons and len`, t, func() {
		env, _ := newTestEnv()

		cv.So(evalAll(env, "list 1 2 3"), cv.ShouldEqual, "{1 2 3}")
		cv.So(evalAll(env, "head {1 2 3}"), cv.ShouldEqual, "{1}")
		cv.So(evalAll(env, "tail {1 2 3}"), cv.ShouldEqual, "{2 3}")
		cv.So(evalAll(env, "init {1 2 3}"), cv.ShouldEqual, "{1 2}")
		cv.So(evalAll(env, "join {1} {2 3} {}"), cv.ShouldEqual, "{1 2 3}")
		cv.So(evalAll(env, "cons 0 {1 2}"), cv.ShouldEqual, "{0 1 2}")
		cv.So(evalAll(env, "len {1 2 3}"), cv.ShouldEqual, "3")
		cv.So(evalAll(env, `len "abcd"`), cv.ShouldEqual, "4")
		cv.So(evalAll(env, "tail {1}"), cv.ShouldEqual, "{}")
	})

	cv.Convey(`they report misuse as error values`, t, func() {
		env, _ := newTestEnv()

		cv.So(evalAll(env, "head {}"), cv.ShouldEqual, "Error: Function 'head' passed {} for argument 0.")
		cv.So(evalAll(env, "tail {}"), cv.ShouldEqual, "Error: Function 'tail' passed {} for argument 0.")
		cv.So(evalAll(env, "head 1"), cv.ShouldEqual,
			"Error: Function 'head' passed incorrect type for argument 0. Got Number, Expected Q-Expression.")
		cv.So(evalAll(env, "head {1} {2}"), cv.ShouldEqual,
			"Error: Function 'head' passed incorrect number of arguments. Got 2, Expected 1.")
		cv.So(evalAll(env, "join {1} 2"), cv.ShouldEqual,
			"Error: Function 'join' passed incorrect type for argument 1. Got Number, Expected Q-Expression.")
	})
}

func Test204EvalRetagsQexpressions(t *testing.T) {

	cv.Convey(`eval runs a Q-expression as code, and list builds code from values`, t, func() {
		env, _ := newTestEnv()

		cv.So(evalAll(env, "eval {+ 1 2}"), cv.ShouldEqual, "3")
		cv.So(evalAll(env, "eval (list + 1 2)"), cv.ShouldEqual, "3")
		cv.So(evalAll(env, "eval (head {(+ 1 2) 10})"), cv.ShouldEqual, "3")
		cv.So(evalAll(env, "eval {}"), cv.ShouldEqual, "()")
		cv.So(evalAll(env, "eval (tail {tail tail {5 6 7}})"), cv.ShouldEqual, "{6 7}")
	})

	cv.Convey(`eval of a list built with list behaves like typing the S-expression directly`, t, func() {
		env, _ := newTestEnv()

		direct := evalAll(env, "(1 2 3)")
		cv.So(direct, cv.ShouldEqual,
			"Error: S-Expression starts with incorrect type: got Number, expected Function.")
		cv.So(evalAll(env, "eval (list 1 2 3)"), cv.ShouldEqual, direct)
	})
}

func Test205Equality(t *testing.T) {

	cv.Convey(`== and != compare any two values structurally`, t, func() {
		env, _ := newTestEnv()

		cv.So(evalAll(env, "== 1 1"), cv.ShouldEqual, "1")
		cv.So(evalAll(env, "== {1 2} {1 2}"), cv.ShouldEqual, "1")
		cv.So(evalAll(env, "== {1 2} {1 3}"), cv.ShouldEqual, "0")
		cv.So(evalAll(env, "== 1 {1}"), cv.ShouldEqual, "0")
		cv.So(evalAll(env, `== "a" "a"`), cv.ShouldEqual, "1")
		cv.So(evalAll(env, `!= "a" "b"`), cv.ShouldEqual, "1")
		cv.So(evalAll(env, "== + +"), cv.ShouldEqual, "1")
		cv.So(evalAll(env, "== + -"), cv.ShouldEqual, "0")
		cv.So(evalAll(env, `== (\ {x} {x}) (\ {x} {x})`), cv.ShouldEqual, "1")
		cv.So(evalAll(env, `== (\ {x} {x}) +`), cv.ShouldEqual, "0")

		// lambdas compare formals and body by symbol name, with no renaming
		cv.So(evalAll(env, `== (\ {x} {x}) (\ {y} {y})`), cv.ShouldEqual, "0")

		evalAll(env, `def {add} (\ {x y} {+ x y})`)
		cv.So(evalAll(env, "== (add 1) (add 2)"), cv.ShouldEqual, "1")
	})

	cv.Convey(`ordering, not, and, or work on numbers`, t, func() {
		env, _ := newTestEnv()

		cv.So(evalAll(env, "> 2 1"), cv.ShouldEqual, "1")
		cv.So(evalAll(env, "<= 2 1"), cv.ShouldEqual, "0")
		cv.So(evalAll(env, ">= 2 2"), cv.ShouldEqual, "1")
		cv.So(evalAll(env, "not 0"), cv.ShouldEqual, "1")
		cv.So(evalAll(env, "and 1 1 0"), cv.ShouldEqual, "0")
		cv.So(evalAll(env, "or 0 0 5"), cv.ShouldEqual, "1")
		cv.So(evalAll(env, "and 1 2"), cv.ShouldEqual, "1")
		cv.So(evalAll(env, "or 0 0"), cv.ShouldEqual, "0")
		cv.So(evalAll(env, "!= 1 1"), cv.ShouldEqual, "0")
		cv.So(evalAll(env, `< 1 "2"`), cv.ShouldEqual,
			"Error: Function '<' passed incorrect type for argument 1. Got String, Expected Number.")
	})
}

func Test206IfEvaluatesOneBranch(t *testing.T) {

	cv.Convey(`if only evaluates the branch it picks`, t, func() {
		env, _ := newTestEnv()

		cv.So(evalAll(env, `if (== 1 1) {+ 1 1} {error "no"}`), cv.ShouldEqual, "2")
		cv.So(evalAll(env, `if 0 {error "no"} {10}`), cv.ShouldEqual, "10")

		evalAll(env, `if 1 {1} {def {side} 1}`)
		cv.So(evalAll(env, "side"), cv.ShouldEqual, "Error: Unbound symbol 'side'")

		cv.So(evalAll(env, `if {1} {1} {2}`), cv.ShouldEqual,
			"Error: Function 'if' passed incorrect type for argument 0. Got Q-Expression, Expected Number.")
	})
}

func Test207BuiltinsKeepTheirMeaningUnderAnyName(t *testing.T) {

	cv.Convey(`A builtin bound under another name still does what it was built to do`, t, func() {
		env, _ := newTestEnv()

		evalAll(env, "def {gt glob local both} > def = and")
		cv.So(evalAll(env, "gt 2 1"), cv.ShouldEqual, "1")
		cv.So(evalAll(env, "both 1 0"), cv.ShouldEqual, "0")

		evalAll(env, `def {f} (\ {v} {glob {fromf} v})`, "f 9")
		cv.So(evalAll(env, "fromf"), cv.ShouldEqual, "9")

		evalAll(env, `def {g} (\ {v} {local {onlyg} v})`, "g 9")
		cv.So(evalAll(env, "onlyg"), cv.ShouldEqual, "Error: Unbound symbol 'onlyg'")
	})

	cv.Convey(`The factories refuse names they do not know`, t, func() {
		cv.So(func() { VarFunction("set!") }, cv.ShouldPanic)
		cv.So(func() { OrderFunction("<>") }, cv.ShouldPanic)
		cv.So(func() { EqualityFunction("===") }, cv.ShouldPanic)
		cv.So(func() { LogicFunction("xor") }, cv.ShouldPanic)
		cv.So(func() { PrintFunction("echo") }, cv.ShouldPanic)
		cv.So(func() { JsonFunction("yaml") }, cv.ShouldPanic)
	})
}

func Test210DefineAndCallLambda(t *testing.T) {

	cv.Convey(`A lambda bound with def can be called by name`, t, func() {
		env, _ := newTestEnv()

		cv.So(evalAll(env, `def {add1} (\ {x} {+ x 1})`), cv.ShouldEqual, "()")
		cv.So(evalAll(env, "add1 5"), cv.ShouldEqual, "6")
		cv.So(evalAll(env, "(add1 5)"), cv.ShouldEqual, "6")
		cv.So(evalAll(env, "add1"), cv.ShouldEqual, `(\ {x} {+ x 1})`)
	})

	cv.Convey(`def binds several names at once and checks its arguments`, t, func() {
		env, _ := newTestEnv()

		evalAll(env, "def {a b} 1 2")
		cv.So(evalAll(env, "+ a b"), cv.ShouldEqual, "3")
		cv.So(evalAll(env, "def {a b} 1"), cv.ShouldEqual,
			"Error: Function 'def' passed incorrect number of values for symbols: got 1, expected 2.")
		cv.So(evalAll(env, "def {1} 1"), cv.ShouldEqual,
			"Error: Function 'def' can't define non-symbol: got Number, expected Symbol.")
		cv.So(evalAll(env, "def 1 1"), cv.ShouldEqual,
			"Error: Function 'def' passed incorrect type for argument 0. Got Number, Expected Q-Expression.")
		cv.So(evalAll(env, `\ {x 1} {x}`), cv.ShouldEqual,
			"Error: Function '\\' can't define non-symbol: got Number, expected Symbol.")
	})

	cv.Convey(`a recursive function defined with def can call itself`, t, func() {
		env, _ := newTestEnv()

		evalAll(env, `def {fact} (\ {n} {if (<= n 1) {1} {* n (fact (- n 1))}})`)
		cv.So(evalAll(env, "fact 10"), cv.ShouldEqual, "3628800")
	})
}

func Test211PartialApplication(t *testing.T) {

	cv.Convey(`Calling a lambda with too few arguments returns a lambda waiting for the rest`, t, func() {
		env, _ := newTestEnv()

		evalAll(env, `def {add} (\ {x y} {+ x y})`)
		cv.So(evalAll(env, "(add 1) 2"), cv.ShouldEqual, "3")
		cv.So(evalAll(env, "add 1"), cv.ShouldEqual, `(\ {y} {+ x y})`)

		evalAll(env, "def {add2} (add 2)")
		cv.So(evalAll(env, "add2 3"), cv.ShouldEqual, "5")
		cv.So(evalAll(env, "add2 40"), cv.ShouldEqual, "42")
		// the partial keeps its own copy of x
		evalAll(env, "def {x} 100")
		cv.So(evalAll(env, "add2 1"), cv.ShouldEqual, "3")
	})

	cv.Convey(`Calling a lambda with too many arguments is an error`, t, func() {
		env, _ := newTestEnv()
		cv.So(evalAll(env, `(\ {x} {x}) 1 2`), cv.ShouldEqual,
			"Error: Function passed too many arguments: got 2, expected 1.")
	})
}

func Test212VariadicFormals(t *testing.T) {

	cv.Convey(`A formal list ending in "& xs" collects the remaining arguments`, t, func() {
		env, _ := newTestEnv()

		evalAll(env, `def {f} (\ {x & xs} {xs})`)
		cv.So(evalAll(env, "f 1 2 3"), cv.ShouldEqual, "{2 3}")
		cv.So(evalAll(env, "f 1"), cv.ShouldEqual, "{}")

		evalAll(env, `def {g} (\ {a b & rest} {join (list a b) rest})`)
		cv.So(evalAll(env, "g 1 2 3 4"), cv.ShouldEqual, "{1 2 3 4}")
		cv.So(evalAll(env, "(g 1) 2"), cv.ShouldEqual, "{1 2}")
	})

	cv.Convey(`"&" must be followed by exactly one symbol`, t, func() {
		env, _ := newTestEnv()

		msg := "Error: Function format invalid. Symbol '&' not followed by single symbol."
		cv.So(evalAll(env, `(\ {x &} {x}) 1 2`), cv.ShouldEqual, msg)
		cv.So(evalAll(env, `(\ {& a b} {a}) 1`), cv.ShouldEqual, msg)
	})
}

func Test213ScopingRules(t *testing.T) {

	cv.Convey(`Parameters shadow globals without changing them`, t, func() {
		env, _ := newTestEnv()

		evalAll(env, "def {x} 10", `def {f} (\ {x} {x})`)
		cv.So(evalAll(env, "f 3"), cv.ShouldEqual, "3")
		cv.So(evalAll(env, "x"), cv.ShouldEqual, "10")
	})

	cv.Convey(`Free symbols in a body are found through the calling scope`, t, func() {
		env, _ := newTestEnv()

		evalAll(env, "def {y} 5", `def {g} (\ {a} {+ a y})`)
		cv.So(evalAll(env, "g 1"), cv.ShouldEqual, "6")
	})

	cv.Convey(`def inside a function binds globally`, t, func() {
		env, _ := newTestEnv()

		evalAll(env, `def {h} (\ {v} {def {gv} v})`, "h 42")
		cv.So(evalAll(env, "gv"), cv.ShouldEqual, "42")
	})

	cv.Convey(`= inside a function binds only in the function's own scope`, t, func() {
		env, _ := newTestEnv()

		evalAll(env, `def {k} (\ {v} {= {lv} v})`, "k 1")
		cv.So(evalAll(env, "lv"), cv.ShouldEqual, "Error: Unbound symbol 'lv'")

		evalAll(env, `def {k2} (\ {v} {eval (list (\ {_} {+ lv 1}) (= {lv} v))})`)
		cv.So(evalAll(env, "k2 41"), cv.ShouldEqual, "42")

		evalAll(env, "= {z} 3")
		cv.So(evalAll(env, "z"), cv.ShouldEqual, "3")
	})

	cv.Convey(`Redefining a global is allowed`, t, func() {
		env, _ := newTestEnv()

		evalAll(env, "def {x} 1", "def {x} {2}")
		cv.So(evalAll(env, "x"), cv.ShouldEqual, "{2}")
	})
}

func Test214PrintAndShow(t *testing.T) {

	cv.Convey(`print writes printed forms, show writes strings raw`, t, func() {
		env, out := newTestEnv()

		cv.So(evalAll(env, `print "a" 1 {b}`), cv.ShouldEqual, "()")
		cv.So(evalAll(env, `show "a\tb" 2`), cv.ShouldEqual, "()")
		cv.So(out.String(), cv.ShouldEqual, "\"a\" 1 {b}\na\tb 2\n")
	})
}

func Test220StackDepthAborts(t *testing.T) {

	cv.Convey(`Unbounded recursion stops with ErrStackDepthExceeded and leaves the interpreter usable`, t, func() {
		env, _ := newTestEnv()
		env.MaxDepth = 200

		evalAll(env, `def {loop} (\ {n} {loop n})`)
		res, err := env.EvalString("loop 1")
		cv.So(res, cv.ShouldBeNil)
		cv.So(err, cv.ShouldEqual, ErrStackDepthExceeded)
		cv.So(env.depth, cv.ShouldEqual, 0)

		cv.So(evalAll(env, "+ 1 1"), cv.ShouldEqual, "2")
	})

	cv.Convey(`The abort passes through builtins such as eval and if`, t, func() {
		env, _ := newTestEnv()
		env.MaxDepth = 200

		evalAll(env, `def {spin} (\ {n} {if 1 {eval {spin n}} {0}})`)
		_, err := env.EvalString("spin 1")
		cv.So(err, cv.ShouldEqual, ErrStackDepthExceeded)
	})
}
