package lispy

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// read new-line delimited text from a file into a Q-expression of
// strings: (slurpf "path-to-file")
func SlurpfileFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	fn, err := pathArg(name, args)
	if err != nil {
		return nil, err
	}

	if !FileExists(fn) {
		return nil, fmt.Errorf("file '%s' does not exist", fn)
	}
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a := MakeQexpr()

	bufIn := bufio.NewReader(f)
	lineNum := int64(1)
	for {
		lastline, err := bufIn.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		n := len(lastline)
		if err == io.EOF && n == 0 {
			break
		}
		if n > 0 {
			if lastline[n-1] == '\n' {
				a.Append(MakeStr(string(lastline[:n-1])))
			} else {
				a.Append(MakeStr(string(lastline)))
			}
			lineNum += 1
		}

		if err == io.EOF {
			break
		}
	}

	VPrintf("read %d lines\n", lineNum)
	return a, nil
}

// (writef content path): write content to a new file, one line per
// element when content is a Q-expression. Strings are written raw.
// (owritef content path) overwrites an existing file.
func WriteToFileFunction(overwrite bool) LispyUserFunction {
	return func(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
		if len(args) != 2 {
			return nil, wrongNargs(name, len(args), 2)
		}
		fna, isStr := args[1].(*SexpStr)
		if !isStr {
			return nil, typeMismatch(name, 1, args[1], StringTypeName)
		}
		fn := fna.S

		if !overwrite && FileExists(fn) {
			return nil, fmt.Errorf("refusing to write to existing file '%s'", fn)
		}

		f, err := os.Create(fn)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		var lines []Sexp
		if q, isQ := args[0].(*SexpQexpr); isQ {
			lines = q.Val
		} else {
			lines = []Sexp{args[0]}
		}
		for _, x := range lines {
			s := x.SexpString()
			if str, isStr := x.(*SexpStr); isStr {
				s = str.S
			}
			if _, err = fmt.Fprintf(f, "%s\n", s); err != nil {
				return nil, err
			}
		}
		return MakeNum(int64(len(lines))), nil
	}
}

// SplitStringFunction splits a string based on an arbitrary delimiter
func SplitStringFunction(env *Lispy, _ *Scope, name string, args []Sexp) (Sexp, error) {
	if len(args) != 2 {
		return nil, wrongNargs(name, len(args), 2)
	}

	// make sure the two args are strings
	for i := range args {
		if _, ok := args[i].(*SexpStr); !ok {
			return nil, typeMismatch(name, i, args[i], StringTypeName)
		}
	}

	s := strings.Split(args[0].(*SexpStr).S, args[1].(*SexpStr).S)

	split := make([]Sexp, len(s))
	for i := range split {
		split[i] = MakeStr(s[i])
	}
	return MakeQexpr(split...), nil
}

// (nsplit "a\nb") -> {"a" "b"}
func SplitStringOnNewlinesFunction(env *Lispy, scope *Scope, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return nil, wrongNargs(name, len(args), 1)
	}
	args = append(args, MakeStr("\n"))

	return SplitStringFunction(env, scope, name, args)
}
