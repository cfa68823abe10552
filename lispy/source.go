package lispy

import (
	"os"
)

// SourceFileFunction implements (load "path"): every top-level form of
// the file is evaluated in the caller's scope, in order. Error values
// are printed and loading goes on. A file that cannot be read or
// parsed yields a "Could not load library" error.
func SourceFileFunction(env *Lispy, scope *Scope, name string, args []Sexp) (Sexp, error) {
	path, err := pathArg(name, args)
	if err != nil {
		return nil, err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	root, err := ReadString(string(src))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	env.Log.WithField("file", path).Debug("load")
	for _, x := range root.Val {
		res := env.Eval(scope, x)
		if e, isErr := res.(*SexpError); isErr {
			Fprintln(env.Out, e)
		}
	}
	return Unit(), nil
}
