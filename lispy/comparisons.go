package lispy

func orderFor(name string) func(a, b int64) bool {
	switch name {
	case ">":
		return func(a, b int64) bool { return a > b }
	case "<":
		return func(a, b int64) bool { return a < b }
	case ">=":
		return func(a, b int64) bool { return a >= b }
	case "<=":
		return func(a, b int64) bool { return a <= b }
	}
	panic("no ordering named " + name)
}

// OrderFunction compares exactly two numbers.
func OrderFunction(name string) LispyUserFunction {
	holds := orderFor(name)
	return func(env *Lispy, _ *Scope, _ string, args []Sexp) (Sexp, error) {
		if len(args) != 2 {
			return nil, wrongNargs(name, len(args), 2)
		}
		nums, err := numberArgs(name, args)
		if err != nil {
			return nil, err
		}
		return BoolToNum(holds(nums[0], nums[1])), nil
	}
}

// EqualityFunction compares any two values structurally; values of
// different types are simply unequal.
func EqualityFunction(name string) LispyUserFunction {
	var want bool
	switch name {
	case "==":
		want = true
	case "!=":
	default:
		panic("no equality named " + name)
	}
	return func(env *Lispy, _ *Scope, _ string, args []Sexp) (Sexp, error) {
		if len(args) != 2 {
			return nil, wrongNargs(name, len(args), 2)
		}
		return BoolToNum(Equal(args[0], args[1]) == want), nil
	}
}

func NotFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return nil, wrongNargs(name, len(args), 1)
	}
	if _, isNum := args[0].(*SexpNum); !isNum {
		return nil, typeMismatch(name, 0, args[0], NumberTypeName)
	}
	return BoolToNum(!IsTruthy(args[0])), nil
}

// LogicFunction implements "and" and "or" over numbers. Arguments are
// already evaluated, so there is no short circuit.
func LogicFunction(name string) LispyUserFunction {
	var all bool
	switch name {
	case "and":
		all = true
	case "or":
	default:
		panic("no logic op named " + name)
	}
	return func(env *Lispy, _ *Scope, _ string, args []Sexp) (Sexp, error) {
		if len(args) < 1 {
			return nil, &ArityError{Fn: name, Got: 0, Expected: 1, AtLeast: true}
		}
		if _, err := numberArgs(name, args); err != nil {
			return nil, err
		}
		// and: true unless some argument is false; or: the converse
		for _, a := range args {
			if IsTruthy(a) != all {
				return BoolToNum(!all), nil
			}
		}
		return BoolToNum(all), nil
	}
}
