package lispy

import (
	"flag"
	"fmt"
)

// configure a lispy repl
type LispyConfig struct {
	CpuProfile     string
	ExitOnFailure  bool
	CountFuncCalls bool
	Flags          *flag.FlagSet
	Command        string
	Sandboxed      bool
	Quiet          bool
	Trace          bool
	MaxDepth       int

	// StorePath names a sqlite file. The newest snapshot in it is
	// restored at startup, and the session is saved back on exit.
	StorePath string

	// liner bombs under emacs, avoid it with this flag.
	NoLiner bool
	Prompt  string // default "lispy> "
	History string // liner history file; default ~/.lispy_history
}

func NewLispyConfig(cmdname string) *LispyConfig {
	return &LispyConfig{
		Flags: flag.NewFlagSet(cmdname, flag.ExitOnError),
	}
}

// call DefineFlags before myflags.Parse()
func (c *LispyConfig) DefineFlags() {
	c.Flags.StringVar(&c.CpuProfile, "cpuprofile", "", "write cpu profile to file")
	c.Flags.BoolVar(&c.ExitOnFailure, "exitonfail", false, "exit on failure instead of starting repl")
	c.Flags.BoolVar(&c.CountFuncCalls, "countcalls", false, "count how many times each builtin is run")
	c.Flags.StringVar(&c.Command, "c", "", "expressions to evaluate")
	c.Flags.BoolVar(&c.Sandboxed, "sandbox", false, "run sandboxed; disallow system/external interaction functions")
	c.Flags.BoolVar(&c.Quiet, "quiet", false, "start repl without printing the version/mode/help banner")
	c.Flags.BoolVar(&c.Trace, "trace", false, "log every call at debug level (very verbose)")
	c.Flags.BoolVar(&c.NoLiner, "noliner", false, "read plain lines from stdin instead of using line editing")
	c.Flags.IntVar(&c.MaxDepth, "maxdepth", DefaultMaxDepth, "maximum evaluation depth before aborting")
	c.Flags.StringVar(&c.StorePath, "store", "", "sqlite session store to restore from and persist to")
}

// call c.ValidateConfig() after myflags.Parse()
func (c *LispyConfig) ValidateConfig() error {
	if c.Prompt == "" {
		c.Prompt = "lispy> "
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("-maxdepth must be positive, got %d", c.MaxDepth)
	}
	if c.Sandboxed && c.StorePath != "" {
		return fmt.Errorf("-store cannot be used with -sandbox")
	}
	return nil
}
