package lispyext

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/glycerine/lispy/lispy"
)

var defaultRand = rand.New(rand.NewSource(time.Now().Unix()))

// RandomFunction returns a non-negative random Number, (random ());
// (random n) keeps it below n.
func RandomFunction(env *lispy.Lispy, _ *lispy.Scope, name string,
	args []lispy.Sexp) (lispy.Sexp, error) {
	if unitArgs(args) {
		return lispy.MakeNum(defaultRand.Int63()), nil
	}
	switch len(args) {
	case 1:
		n, isNum := args[0].(*lispy.SexpNum)
		if !isNum {
			return nil, &lispy.TypeMismatchError{Fn: name, Index: 0,
				Got: args[0].TypeName(), Expected: lispy.NumberTypeName}
		}
		if n.Val <= 0 {
			return nil, fmt.Errorf("%s: bound must be positive, got %d", name, n.Val)
		}
		return lispy.MakeNum(defaultRand.Int63n(n.Val)), nil
	}
	return nil, &lispy.ArityError{Fn: name, Got: len(args), Expected: 1}
}

func ImportRandom(env *lispy.Lispy) {
	env.AddFunction("random", RandomFunction)
}
