package lispy

import (
	"math"
)

type NumericOp int

const (
	Add NumericOp = iota
	Sub
	Mult
	Div
	Mod
)

// NumericDo applies op to a and b. Results that do not fit in an
// int64 are reported as ErrIntegerOverflow rather than wrapped.
func NumericDo(op NumericOp, a, b int64) (int64, error) {
	switch op {
	case Add:
		c := a + b
		if (c > a) != (b > 0) {
			return 0, ErrIntegerOverflow
		}
		return c, nil
	case Sub:
		c := a - b
		if (c < a) != (b > 0) {
			return 0, ErrIntegerOverflow
		}
		return c, nil
	case Mult:
		if a == 0 || b == 0 {
			return 0, nil
		}
		if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
			return 0, ErrIntegerOverflow
		}
		c := a * b
		if c/b != a {
			return 0, ErrIntegerOverflow
		}
		return c, nil
	case Div, Mod:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		if a == math.MinInt64 && b == -1 {
			if op == Mod {
				return 0, nil
			}
			return 0, ErrIntegerOverflow
		}
		if op == Mod {
			return a % b, nil
		}
		return a / b, nil
	}
	panic("unknown NumericOp")
}

func Negate(a int64) (int64, error) {
	if a == math.MinInt64 {
		return 0, ErrIntegerOverflow
	}
	return -a, nil
}

func numericOpFor(name string) NumericOp {
	switch name {
	case "+":
		return Add
	case "-":
		return Sub
	case "*":
		return Mult
	case "/":
		return Div
	case "%":
		return Mod
	}
	panic("no numeric op named " + name)
}

// NumericFunction folds its arguments left to right with the operator
// called name. A lone argument to "-" is negated.
func NumericFunction(name string) LispyUserFunction {
	op := numericOpFor(name)
	return func(env *Lispy, _ *Scope, _ string, args []Sexp) (Sexp, error) {
		if len(args) < 1 {
			return nil, &ArityError{Fn: name, Got: 0, Expected: 1, AtLeast: true}
		}
		nums, err := numberArgs(name, args)
		if err != nil {
			return nil, err
		}

		accum := nums[0]
		if op == Sub && len(nums) == 1 {
			accum, err = Negate(accum)
			if err != nil {
				return nil, err
			}
			return MakeNum(accum), nil
		}
		for _, n := range nums[1:] {
			accum, err = NumericDo(op, accum, n)
			if err != nil {
				return nil, err
			}
		}
		return MakeNum(accum), nil
	}
}

func numberArgs(name string, args []Sexp) ([]int64, error) {
	nums := make([]int64, len(args))
	for i, a := range args {
		n, isNum := a.(*SexpNum)
		if !isNum {
			return nil, typeMismatch(name, i, a, NumberTypeName)
		}
		nums[i] = n.Val
	}
	return nums, nil
}
