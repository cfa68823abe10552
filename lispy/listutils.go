package lispy

// ListFunction re-tags its argument list as a Q-expression.
func ListFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	return MakeQexpr(args...), nil
}

// oneQexpr checks for exactly one Q-expression argument, as head,
// tail, eval, len and init require.
func oneQexpr(name string, args []Sexp) (*SexpQexpr, error) {
	if len(args) != 1 {
		return nil, wrongNargs(name, len(args), 1)
	}
	q, isQ := args[0].(*SexpQexpr)
	if !isQ {
		return nil, typeMismatch(name, 0, args[0], QexprTypeName)
	}
	return q, nil
}

func HeadFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	q, err := oneQexpr(name, args)
	if err != nil {
		return nil, err
	}
	if len(q.Val) == 0 {
		return nil, &EmptyListError{Fn: name, Index: 0}
	}
	q.Val = q.Val[:1]
	return q, nil
}

func TailFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	q, err := oneQexpr(name, args)
	if err != nil {
		return nil, err
	}
	if len(q.Val) == 0 {
		return nil, &EmptyListError{Fn: name, Index: 0}
	}
	q.Pop(0)
	return q, nil
}

// InitFunction returns all but the last element.
func InitFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	q, err := oneQexpr(name, args)
	if err != nil {
		return nil, err
	}
	if len(q.Val) == 0 {
		return nil, &EmptyListError{Fn: name, Index: 0}
	}
	q.Val = q.Val[:len(q.Val)-1]
	return q, nil
}

// LenFunction counts the elements of a Q-expression or the bytes of
// a string.
func LenFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return nil, wrongNargs(name, len(args), 1)
	}
	switch x := args[0].(type) {
	case *SexpQexpr:
		return MakeNum(int64(len(x.Val))), nil
	case *SexpStr:
		return MakeNum(int64(len(x.S))), nil
	}
	return nil, typeMismatch(name, 0, args[0], QexprTypeName)
}

func JoinFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	for i, a := range args {
		if _, isQ := a.(*SexpQexpr); !isQ {
			return nil, typeMismatch(name, i, a, QexprTypeName)
		}
	}
	res := MakeQexpr()
	for _, a := range args {
		res.Join(a.(*SexpQexpr))
	}
	return res, nil
}

// ConsFunction prepends a value to a Q-expression.
func ConsFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	if len(args) != 2 {
		return nil, wrongNargs(name, len(args), 2)
	}
	q, isQ := args[1].(*SexpQexpr)
	if !isQ {
		return nil, typeMismatch(name, 1, args[1], QexprTypeName)
	}
	return MakeQexpr(append([]Sexp{args[0]}, q.Val...)...), nil
}

// EvalFunction evaluates a Q-expression as an S-expression in the
// caller's scope.
func EvalFunction(env *Lispy, scope *Scope, name string, args []Sexp) (Sexp, error) {
	q, err := oneQexpr(name, args)
	if err != nil {
		return nil, err
	}
	return env.EvalQexpr(scope, q), nil
}
