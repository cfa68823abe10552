package lispy

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test300WritefThenSlurpf(t *testing.T) {

	cv.Convey(`writef should put one element per line, and slurpf should read the lines back as strings`, t, func() {
		env, _ := newTestEnv()
		path := filepath.Join(t.TempDir(), "lines.txt")

		cv.So(evalAll(env, fmt.Sprintf(`writef {"alpha" 2 {b}} %q`, path)), cv.ShouldEqual, "3")
		by, err := os.ReadFile(path)
		panicOn(err)
		cv.So(string(by), cv.ShouldEqual, "alpha\n2\n{b}\n")

		cv.So(evalAll(env, fmt.Sprintf(`slurpf %q`, path)), cv.ShouldEqual, `{"alpha" "2" "{b}"}`)

		cv.So(evalAll(env, fmt.Sprintf(`writef "again" %q`, path)), cv.ShouldEqual,
			fmt.Sprintf("Error: refusing to write to existing file '%s'", path))
		cv.So(evalAll(env, fmt.Sprintf(`owritef "again" %q`, path)), cv.ShouldEqual, "1")
		cv.So(evalAll(env, fmt.Sprintf(`slurpf %q`, path)), cv.ShouldEqual, `{"again"}`)
	})
}

func Test301SplitStrings(t *testing.T) {

	cv.Convey(`split and nsplit cut a string into a Q-expression of strings`, t, func() {
		env, _ := newTestEnv()

		cv.So(evalAll(env, `split "a,b,,c" ","`), cv.ShouldEqual, `{"a" "b" "" "c"}`)
		cv.So(evalAll(env, `nsplit "x\ny"`), cv.ShouldEqual, `{"x" "y"}`)
		cv.So(evalAll(env, `split "a" 1`), cv.ShouldEqual,
			"Error: Function 'split' passed incorrect type for argument 1. Got Number, Expected String.")
	})
}
