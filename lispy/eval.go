package lispy

// Eval reduces v in scope. Symbols are looked up, S-expressions are
// reduced, and every other value evaluates to itself. Eval consumes v:
// the children of an S-expression are replaced by their values.
func (env *Lispy) Eval(scope *Scope, v Sexp) Sexp {
	env.depth++
	defer func() { env.depth-- }()
	if env.depth > env.MaxDepth {
		panic(ErrStackDepthExceeded)
	}

	switch x := v.(type) {
	case *SexpSymbol:
		val, err := scope.LookupSymbol(x.name)
		if err != nil {
			return MakeErr(err)
		}
		return val
	case *SexpSexpr:
		return env.evalSexpr(scope, x)
	}
	return v
}

func (env *Lispy) evalSexpr(scope *Scope, s *SexpSexpr) Sexp {
	for i := range s.Val {
		s.Val[i] = env.Eval(scope, s.Val[i])
	}
	for i := range s.Val {
		if e, isErr := s.Val[i].(*SexpError); isErr {
			return e
		}
	}

	switch len(s.Val) {
	case 0:
		return s
	case 1:
		return env.Eval(scope, s.Pop(0))
	}

	f, isFn := s.Val[0].(*SexpFunction)
	if !isFn {
		return MakeErrf("S-Expression starts with incorrect type: got %s, expected %s.",
			s.Val[0].TypeName(), FunctionTypeName)
	}
	return env.Call(scope, f, s.Val[1:])
}

// EvalQexpr evaluates the children of q as an S-expression. The
// caller gives up q.
func (env *Lispy) EvalQexpr(scope *Scope, q *SexpQexpr) Sexp {
	return env.Eval(scope, q.Unquote())
}
