package lispy

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/glycerine/liner"
)

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lispy_history"
	}
	return filepath.Join(home, ".lispy_history")
}

var replCommands = []string{".quit", ".ls", ".gls", ".verb", ".debug", ".undebug", ".dump"}

// Prompter wraps liner with our history file and completion.
type Prompter struct {
	prompt   string
	history  string
	prompter *liner.State
	log      func(args ...interface{})
}

func NewPrompter(env *Lispy, cfg *LispyConfig) *Prompter {
	p := &Prompter{
		prompt:   cfg.Prompt,
		history:  cfg.History,
		prompter: liner.NewLiner(),
		log:      env.Log.Warn,
	}
	if p.history == "" {
		p.history = defaultHistoryFile()
	}

	p.prompter.SetCtrlCAborts(false)

	keywords := completionKeywords(env)
	p.prompter.SetCompleter(func(line string) (c []string) {
		for _, n := range keywords {
			if strings.HasPrefix(n, line) {
				c = append(c, n)
			}
		}
		return
	})

	if f, err := os.Open(p.history); err == nil {
		p.prompter.ReadHistory(f)
		f.Close()
	}
	return p
}

// completionKeywords offers "(name " for every builtin plus the repl
// dot-commands.
func completionKeywords(env *Lispy) []string {
	names := env.BuiltinNames()
	kw := make([]string, 0, len(names)+len(replCommands))
	for _, n := range names {
		kw = append(kw, "("+n+" ")
	}
	return append(kw, replCommands...)
}

func (p *Prompter) Close() {
	defer p.prompter.Close()
	if f, err := os.Create(p.history); err != nil {
		p.log("Error writing history file: ", err)
	} else {
		p.prompter.WriteHistory(f)
		f.Close()
	}
}

func (p *Prompter) Getline(prompt *string) (line string, err error) {
	if prompt == nil {
		line, err = p.prompter.Prompt(p.prompt)
	} else {
		line, err = p.prompter.Prompt(*prompt)
	}
	if err == nil {
		p.prompter.AppendHistory(line)
		return line, nil
	}
	return "", err
}
