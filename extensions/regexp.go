package lispyext

import (
	"fmt"
	"regexp"

	"github.com/glycerine/lispy/lispy"
)

func regexpFindIndex(needle *regexp.Regexp, haystack string) lispy.Sexp {
	loc := needle.FindStringIndex(haystack)

	arr := make([]lispy.Sexp, len(loc))
	for i := range arr {
		arr[i] = lispy.MakeNum(int64(loc[i]))
	}
	return lispy.MakeQexpr(arr...)
}

func regexpOpFor(name string) func(needle *regexp.Regexp, haystack string) lispy.Sexp {
	switch name {
	case "regexp-find":
		return func(needle *regexp.Regexp, haystack string) lispy.Sexp {
			return lispy.MakeStr(needle.FindString(haystack))
		}
	case "regexp-find-index":
		return regexpFindIndex
	case "regexp-match":
		return func(needle *regexp.Regexp, haystack string) lispy.Sexp {
			return lispy.BoolToNum(needle.MatchString(haystack))
		}
	}
	panic("unknown regexp function " + name)
}

// RegexpFind builds the regexp builtin called name; each takes a
// pattern string and a haystack string.
func RegexpFind(name string) lispy.LispyUserFunction {
	op := regexpOpFor(name)
	return func(env *lispy.Lispy, _ *lispy.Scope, _ string,
		args []lispy.Sexp) (lispy.Sexp, error) {
		if len(args) != 2 {
			return nil, &lispy.ArityError{Fn: name, Got: len(args), Expected: 2}
		}
		strs := make([]string, 2)
		for i, a := range args {
			s, isStr := a.(*lispy.SexpStr)
			if !isStr {
				return nil, &lispy.TypeMismatchError{Fn: name, Index: i,
					Got: a.TypeName(), Expected: lispy.StringTypeName}
			}
			strs[i] = s.S
		}

		needle, err := regexp.Compile(strs[0])
		if err != nil {
			return nil, fmt.Errorf("error during regexp compile: '%v'", err)
		}
		return op(needle, strs[1]), nil
	}
}

func ImportRegex(env *lispy.Lispy) {
	for _, name := range []string{"regexp-find-index", "regexp-find", "regexp-match"} {
		env.AddFunction(name, RegexpFind(name))
	}
}
