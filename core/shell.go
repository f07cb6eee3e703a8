// Package core wires the interpreter together: the readline loop, prompt
// rendering, and per-line lex/parse/execute.
package core

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/rush-shell/rush/core/config"
	"github.com/rush-shell/rush/core/executor"
	"github.com/rush-shell/rush/core/lexer"
	"github.com/rush-shell/rush/core/parser"
	"github.com/rush-shell/rush/core/resolver"
	"github.com/rush-shell/rush/core/state"
)

const (
	EnvHome     = "HOME"
	EnvUser     = "USER"
	EnvHostname = "HOSTNAME"
)

type Shell struct {
	Config *config.Config
	State  *state.State
	Exec   *executor.Executor

	stderr io.Writer
	rl     *readline.Instance
}

// NewShell builds a shell reading lines from stdin. Extra environment
// entries from the configuration are exported before the first prompt.
func NewShell(cfg *config.Config, fsys afero.Fs, st *state.State, stdin io.ReadCloser, stdout, stderr io.Writer) (*Shell, error) {
	for k, v := range cfg.Environment {
		if err := st.Env.SetExported(k, v); err != nil {
			return nil, err
		}
	}

	rlCfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(stdin),
		Stdout: stdout,
		Stderr: stderr,
	}
	if err := rlCfg.Init(); err != nil {
		return nil, err
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return nil, err
	}

	return &Shell{
		Config: cfg,
		State:  st,
		Exec:   executor.New(fsys, resolver.New(fsys), stdin, stdout, stderr),
		stderr: stderr,
		rl:     rl,
	}, nil
}

// Prompt renders the configured prompt template: \u user, \h host, \w the
// working directory with the home prefix abbreviated to ~, \$ the prompt
// character ("#" for root).
func (s *Shell) Prompt() string {
	user := s.State.Env.Get(EnvUser)
	host := s.State.Env.Get(EnvHostname)
	if host == "" {
		host, _ = os.Hostname()
	}

	pwd := s.State.Cwd()
	if home := s.State.Env.Get(EnvHome); home != "" {
		if pwd == home {
			pwd = "~"
		} else if strings.HasPrefix(pwd, home+"/") {
			pwd = "~" + strings.TrimPrefix(pwd, home)
		}
	}

	mark := "$"
	if os.Geteuid() == 0 {
		mark = "#"
	}

	if s.Config.Color {
		user = color.New(color.FgGreen, color.Bold).Sprint(user)
		host = color.New(color.FgGreen, color.Bold).Sprint(host)
		pwd = color.New(color.FgBlue, color.Bold).Sprint(pwd)
	}

	prompt := s.Config.Prompt
	prompt = strings.ReplaceAll(prompt, `\u`, user)
	prompt = strings.ReplaceAll(prompt, `\h`, host)
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)
	prompt = strings.ReplaceAll(prompt, `\$`, mark)
	return prompt
}

// Run reads and evaluates lines until end of input or an exit request,
// returning the process exit code.
func (s *Shell) Run() int {
	defer s.rl.Close()

	for {
		s.rl.SetPrompt(s.Prompt())
		line, err := s.rl.Readline()

		switch {
		case err == io.EOF:
			return 0 // Input closed.

		case err == readline.ErrInterrupt:
			continue // ^C abandons the line.

		case err != nil:
			log.Printf("readline: %v", err)
			return 1
		}

		if status, exit := s.Eval(line); exit {
			return status
		}
	}
}

// Eval runs one input line. A lex or parse error aborts only that line. The
// returned exit flag is set when a builtin asked the interpreter to stop.
func (s *Shell) Eval(line string) (status int, exit bool) {
	if strings.TrimSpace(line) == "" {
		return s.State.LastStatus, false
	}

	s.State.History.Append(line)
	if s.State.Opts.IsSet(state.OptVerbose) {
		fmt.Fprintln(s.stderr, line)
	}

	tokens, err := lexer.Tokenize(line)
	if err != nil {
		fmt.Fprintf(s.stderr, "rush: %v\n", err)
		s.State.LastStatus = 2
		return 2, false
	}
	seq, err := parser.Parse(tokens)
	if err != nil {
		fmt.Fprintf(s.stderr, "rush: %v\n", err)
		s.State.LastStatus = 2
		return 2, false
	}

	status = s.Exec.Execute(seq, s.State)
	if code, requested := s.State.ExitRequested(); requested {
		return code, true
	}
	return status, false
}
