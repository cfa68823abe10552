// Package lispyext holds optional builtins that are not part of the
// core language.
package lispyext

import (
	"github.com/glycerine/lispy/lispy"
)

// ImportAll installs every extension into env.
func ImportAll(env *lispy.Lispy) {
	ImportTime(env)
	ImportRandom(env)
	ImportRegex(env)
}
