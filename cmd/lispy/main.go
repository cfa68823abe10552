/*
The lispy command line REPL. Files named on the command line are
loaded in order and the program exits; with no files it starts the
interactive repl.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	lispyext "github.com/glycerine/lispy/extensions"
	"github.com/glycerine/lispy/lispy"
)

func usage(myflags *flag.FlagSet) {
	fmt.Printf("lispy command line help:\n")
	myflags.PrintDefaults()
	os.Exit(1)
}

func main() {
	cfg := lispy.NewLispyConfig("lispy")
	cfg.DefineFlags()
	err := cfg.Flags.Parse(os.Args[1:])
	if err == flag.ErrHelp {
		usage(cfg.Flags)
	}

	if err != nil {
		panic(err)
	}
	err = cfg.ValidateConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lispy command line error: '%v'\n", err)
		usage(cfg.Flags)
	}

	env := lispy.NewLispyFromConfig(cfg)
	lispyext.ImportAll(env)

	// the library does all the heavy lifting.
	lispy.ReplMainWithEnv(env, cfg)
}
