package lispy

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"sort"
	"strings"
)

const Version = "0.0.1"

var precounts map[string]int
var postcounts map[string]int

func CountPreHook(env *Lispy, name string, args []Sexp) {
	precounts[name] += 1
}

func CountPostHook(env *Lispy, name string, retval Sexp) {
	postcounts[name] += 1
}

func getLine(reader *bufio.Reader) (string, error) {
	line := make([]byte, 0)
	for {
		linepart, hasMore, err := reader.ReadLine()
		if err != nil {
			return "", err
		}
		line = append(line, linepart...)
		if !hasMore {
			break
		}
	}
	return string(line), nil
}

var continuationPrompt = "... "

// getExpression reads lines until they form complete input: every
// list and string that was opened has been closed.
func (pr *Prompter) getExpression(reader *bufio.Reader, out io.Writer) (string, error) {
	var line, nextline string
	var err error

	if reader != nil {
		fmt.Fprint(out, pr.prompt)
		line, err = getLine(reader)
	} else {
		line, err = pr.Getline(nil)
	}
	if err != nil {
		return "", err
	}

	for {
		_, perr := NewParser().Parse(line)
		if perr != ErrMoreInputNeeded {
			return line, nil
		}
		if reader != nil {
			fmt.Fprint(out, continuationPrompt)
			nextline, err = getLine(reader)
		} else {
			nextline, err = pr.Getline(&continuationPrompt)
		}
		if err != nil {
			return "", err
		}
		line += "\n" + nextline
	}
}

func processDumpCommand(env *Lispy, out io.Writer, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(out, env.ShowGlobals(false))
		return
	}
	for _, name := range args {
		obj, found := env.FindObject(name)
		if !found {
			fmt.Fprintf(out, "%q not found\n", name)
			continue
		}
		fmt.Fprint(out, GoonDump(obj))
	}
}

// Repl runs the read-eval-print loop on stdin and stdout.
func Repl(env *Lispy, cfg *LispyConfig) error {
	return ReplLoop(env, cfg, os.Stdin, os.Stdout)
}

// ReplLoop runs the read-eval-print loop until .quit or end of input.
// With cfg.NoLiner it reads plain lines from in; otherwise liner owns
// the terminal. Error values are printed and the loop goes on; only
// exceeding the evaluation depth ends it with an error.
func ReplLoop(env *Lispy, cfg *LispyConfig, in io.Reader, out io.Writer) error {
	var reader *bufio.Reader
	var pr *Prompter
	if cfg.NoLiner {
		// reader is used if one wishes to drop the liner library.
		// Useful for not full terminal env, like under test.
		reader = bufio.NewReader(in)
		pr = &Prompter{prompt: cfg.Prompt}
	} else {
		pr = NewPrompter(env, cfg)
		defer pr.Close()
	}

	if !cfg.Quiet {
		if cfg.Sandboxed {
			fmt.Fprintf(out, "Lispy [sandbox mode] version %s\n", Version)
		} else {
			fmt.Fprintf(out, "Lispy version %s\n", Version)
		}
		fmt.Fprintf(out, "press tab to complete builtin names. Ctrl-d or .quit to exit.\n\n")
	}

	for {
		line, err := pr.getExpression(reader, out)
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(out)
				return nil
			}
			fmt.Fprintln(out, err)
			continue
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		first := parts[0]

		switch first {
		case ".quit":
			return nil
		case ".ls":
			fmt.Fprintln(out, env.ShowGlobals(false))
			continue
		case ".gls":
			fmt.Fprintln(out, env.ShowGlobals(true))
			continue
		case ".dump":
			processDumpCommand(env, out, parts[1:])
			continue
		case ".verb":
			Verbose = !Verbose
			fmt.Fprintf(out, "verbose: %v.\n", Verbose)
			continue
		case ".debug":
			env.SetTrace(true)
			fmt.Fprintf(out, "call tracing on.\n")
			continue
		case ".undebug":
			env.SetTrace(false)
			fmt.Fprintf(out, "call tracing off.\n")
			continue
		}

		expr, err := env.EvalString(line)
		if err != nil {
			if err == ErrStackDepthExceeded {
				return err
			}
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintln(out, expr.SexpString())
	}
}

// runScript loads fname the way the load builtin does: error values
// are printed and loading continues.
func runScript(env *Lispy, fname string) error {
	err := env.LoadFile(fname)
	if err != nil {
		fmt.Fprintln(os.Stderr, (&LoadError{Path: fname, Err: err}).Error())
	}
	return err
}

func printCallCounts(out io.Writer) {
	show := func(label string, counts map[string]int) {
		fmt.Fprintln(out, label)
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "\t%s: %d\n", name, counts[name])
		}
	}
	show("Pre:", precounts)
	show("Post:", postcounts)
}

// like main() for a standalone repl, now in library
func ReplMain(cfg *LispyConfig) {
	ReplMainWithEnv(NewLispyFromConfig(cfg), cfg)
}

// ReplMainWithEnv is ReplMain for callers that want to install extra
// builtins first.
func ReplMainWithEnv(env *Lispy, cfg *LispyConfig) {
	os.Exit(runMain(env, cfg))
}

func runMain(env *Lispy, cfg *LispyConfig) (exitCode int) {
	if cfg.CpuProfile != "" {
		f, err := os.Create(cfg.CpuProfile)
		if err != nil {
			fmt.Println(err)
			return 1
		}
		err = pprof.StartCPUProfile(f)
		if err != nil {
			fmt.Println(err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	precounts = make(map[string]int)
	postcounts = make(map[string]int)

	if cfg.CountFuncCalls {
		env.AddPreHook(CountPreHook)
		env.AddPostHook(CountPostHook)
		env.AddExitHook(func() { printCallCounts(os.Stderr) })
	}

	if cfg.StorePath != "" {
		if err := attachStore(env, cfg.StorePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	defer env.runExitHooks()

	if cfg.Command != "" {
		expr, err := env.EvalString(cfg.Command)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return exitCodeFor(err)
		}
		fmt.Println(expr.SexpString())
		if IsError(expr) {
			return 1
		}
		return 0
	}

	args := cfg.Flags.Args()
	if len(args) > 0 {
		for _, fname := range args {
			err := runScript(env, fname)
			if errors.Is(err, ErrStackDepthExceeded) {
				return 2
			}
			if err != nil && cfg.ExitOnFailure {
				return 1
			}
		}
		return 0
	}

	if err := Repl(env, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return exitCodeFor(err)
	}
	return 0
}

func exitCodeFor(err error) int {
	if errors.Is(err, ErrStackDepthExceeded) {
		return 2
	}
	return 1
}

// attachStore restores the newest snapshot from the store at path and
// arranges for the session to be saved back when the process ends.
func attachStore(env *Lispy, path string) error {
	st, err := OpenStore(path, env.Log)
	if err != nil {
		return err
	}
	_, err = st.RestoreLatest(env)
	if err != nil && err != ErrNoSnapshot {
		st.Close()
		return err
	}
	env.AddExitHook(func() {
		if _, err := st.Persist(env); err != nil {
			env.Log.WithError(err).Error("persist on exit failed")
		}
		st.Close()
	})
	return nil
}
