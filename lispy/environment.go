package lispy

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type PreHook func(*Lispy, string, []Sexp)
type PostHook func(*Lispy, string, Sexp)

// DefaultMaxDepth bounds nested Eval frames. Past it evaluation
// aborts with ErrStackDepthExceeded.
const DefaultMaxDepth = 10000

// Lispy is one interpreter: a global scope, the builtins that were
// installed into it, and the bookkeeping for hooks and recursion depth.
// A Lispy is not safe for concurrent use.
type Lispy struct {
	global   *Scope
	builtins map[string]*SexpFunction
	before   []PreHook
	after    []PostHook
	atExit   []func()

	depth    int
	MaxDepth int

	Log *logrus.Logger

	// Out receives the output of print, show and of error values
	// reported while loading files.
	Out io.Writer

	sandboxed bool
	debugExec bool
}

func NewLispy() *Lispy {
	return NewLispyWithFuncs(AllBuiltinFunctions())
}

// NewLispySandbox returns a new *Lispy instance that does not allow the
// user to get to the outside world
func NewLispySandbox() *Lispy {
	env := NewLispyWithFuncs(SandboxSafeFunctions())
	env.sandboxed = true
	return env
}

// NewLispyWithFuncs returns a new *Lispy instance with access to only the given builtin functions
func NewLispyWithFuncs(funcs map[string]LispyUserFunction) *Lispy {
	env := &Lispy{
		builtins: make(map[string]*SexpFunction),
		before:   []PreHook{},
		after:    []PostHook{},
		MaxDepth: DefaultMaxDepth,
		Log:      newLogger(os.Stderr),
		Out:      os.Stdout,
	}
	env.global = NewNamedScope("global")
	env.global.IsGlobal = true

	for name, function := range funcs {
		env.AddFunction(name, function)
	}
	return env
}

// NewLispyFromConfig builds the interpreter the command line asked for.
func NewLispyFromConfig(cfg *LispyConfig) *Lispy {
	var env *Lispy
	if cfg.Sandboxed {
		env = NewLispySandbox()
	} else {
		env = NewLispy()
	}
	if cfg.MaxDepth > 0 {
		env.MaxDepth = cfg.MaxDepth
	}
	if cfg.Trace {
		env.SetTrace(true)
	}
	return env
}

func newLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.Out = w
	log.Level = logrus.WarnLevel
	log.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	return log
}

// SetTrace switches per-call debug logging on or off.
func (env *Lispy) SetTrace(on bool) {
	env.debugExec = on
	if on {
		env.Log.SetLevel(logrus.DebugLevel)
	} else {
		env.Log.SetLevel(logrus.WarnLevel)
	}
}

func (env *Lispy) GlobalScope() *Scope {
	return env.global
}

func (env *Lispy) IsSandboxed() bool {
	return env.sandboxed
}

// AddFunction installs a builtin in the global scope. Installing a
// name twice replaces the earlier builtin.
func (env *Lispy) AddFunction(name string, function LispyUserFunction) {
	f := MakeBuiltin(name, function)
	env.builtins[name] = f
	env.global.BindSymbol(name, f)
}

func (env *Lispy) AddGlobal(name string, obj Sexp) {
	env.global.BindSymbol(name, obj)
}

func (env *Lispy) FindObject(name string) (Sexp, bool) {
	obj, err := env.global.LookupSymbol(name)
	if err != nil {
		return nil, false
	}
	return obj, true
}

// BuiltinNames lists every installed builtin, sorted; used for
// completion at the repl.
func (env *Lispy) BuiltinNames() []string {
	s := &Scope{Map: make(map[string]Sexp, len(env.builtins))}
	for name, f := range env.builtins {
		s.Map[name] = f
	}
	return s.SortedNames()
}

// Clear forgets every user definition, leaving only the builtins.
func (env *Lispy) Clear() {
	env.global.Map = make(map[string]Sexp)
	for name, f := range env.builtins {
		env.global.Map[name] = f
	}
	env.depth = 0
}

func (env *Lispy) AddPreHook(fun PreHook) {
	env.before = append(env.before, fun)
}

func (env *Lispy) AddPostHook(fun PostHook) {
	env.after = append(env.after, fun)
}

// AddExitHook registers fn to run when the exit builtin is called or
// the repl ends.
func (env *Lispy) AddExitHook(fn func()) {
	env.atExit = append(env.atExit, fn)
}

func (env *Lispy) runExitHooks() {
	hooks := env.atExit
	env.atExit = nil
	for _, fn := range hooks {
		fn()
	}
}

// protect runs fn and turns the stack-depth abort into a Go error.
// Any other panic keeps unwinding.
func (env *Lispy) protect(fn func() Sexp) (res Sexp, err error) {
	defer func() {
		if r := recover(); r != nil {
			if r == ErrStackDepthExceeded {
				env.Log.WithField("maxdepth", env.MaxDepth).Warn("evaluation aborted")
				res = nil
				err = ErrStackDepthExceeded
				return
			}
			panic(r)
		}
	}()
	return fn(), nil
}

// EvalString reads all of src as a single S-expression and evaluates
// it in the global scope, exactly as the repl does with a line. So
// "def {x} 3" works without the outer parentheses.
func (env *Lispy) EvalString(src string) (Sexp, error) {
	root, err := ReadString(src)
	if err != nil {
		return nil, err
	}
	return env.protect(func() Sexp {
		return env.Eval(env.global, root)
	})
}

// Apply calls fun with already evaluated arguments.
func (env *Lispy) Apply(fun *SexpFunction, args []Sexp) (Sexp, error) {
	return env.protect(func() Sexp {
		return env.Call(env.global, fun, args)
	})
}

// LoadExpressions evaluates each of xs in the global scope in order.
// Error values are written to env.Out and loading continues.
func (env *Lispy) LoadExpressions(xs []Sexp) error {
	return env.loadInto(env.global, xs)
}

func (env *Lispy) loadInto(scope *Scope, xs []Sexp) error {
	for _, x := range xs {
		res, err := env.protect(func() Sexp {
			return env.Eval(scope, x)
		})
		if err != nil {
			return err
		}
		if e, isErr := res.(*SexpError); isErr {
			fmt.Fprintln(env.Out, e.SexpString())
		}
	}
	return nil
}

func (env *Lispy) LoadStream(stream io.Reader) error {
	src, err := io.ReadAll(stream)
	if err != nil {
		return err
	}
	return env.LoadString(string(src))
}

func (env *Lispy) LoadString(src string) error {
	root, err := ReadString(src)
	if err != nil {
		return err
	}
	return env.LoadExpressions(root.Val)
}

func (env *Lispy) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	env.Log.WithField("file", path).Debug("load")
	return env.LoadStream(f)
}

// ShowGlobals renders the user bindings of the global scope, plus the
// builtins when all is set.
func (env *Lispy) ShowGlobals(all bool) string {
	return strings.TrimRight(env.global.Show("global", all), "\n")
}
