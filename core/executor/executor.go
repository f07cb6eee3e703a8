// Package executor walks a parsed command sequence and runs it: builtins
// in-process, externals as child processes, pipeline stages connected by OS
// pipes.
package executor

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/rush-shell/rush/core/builtin"
	"github.com/rush-shell/rush/core/parser"
	"github.com/rush-shell/rush/core/resolver"
	"github.com/rush-shell/rush/core/state"
)

// Executor runs command sequences against shell state. The Stdin/Stdout/
// Stderr streams are what commands inherit when no redirection or pipe says
// otherwise.
type Executor struct {
	Fs       afero.Fs
	Resolver *resolver.Resolver

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New creates an executor.
func New(fsys afero.Fs, res *resolver.Resolver, stdin io.Reader, stdout, stderr io.Writer) *Executor {
	return &Executor{Fs: fsys, Resolver: res, Stdin: stdin, Stdout: stdout, Stderr: stderr}
}

// Execute runs every pipeline in the sequence, honoring && / || / ;
// chaining, and returns the status of the last pipeline that ran. The
// state's LastStatus is updated after each pipeline, and execution stops
// early when a builtin requested exit.
func (e *Executor) Execute(seq *parser.CommandSequence, st *state.State) int {
	status := st.LastStatus
	for _, item := range seq.Items {
		switch item.Sep {
		case parser.SepIfSuccess:
			if status != 0 {
				continue
			}
		case parser.SepIfFailure:
			if status == 0 {
				continue
			}
		}

		status = e.runPipeline(item.Pipeline, st, item.Background)
		st.LastStatus = status

		if _, requested := st.ExitRequested(); requested {
			break
		}
	}
	return status
}

// stage is one pipeline element being prepared or run.
type stage struct {
	argv   []string
	res    resolver.Resolution
	skip   bool // never spawned; status is already decided
	status int

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// Parent-side copies of the pipe ends wired to the neighbors.
	pipeIn  *os.File
	pipeOut *os.File

	files []io.Closer
	cmd   *exec.Cmd
}

func (s *stage) closePipes() {
	if s.pipeIn != nil {
		s.pipeIn.Close()
		s.pipeIn = nil
	}
	if s.pipeOut != nil {
		s.pipeOut.Close()
		s.pipeOut = nil
	}
}

func (s *stage) closeFiles() {
	for _, f := range s.files {
		f.Close()
	}
	s.files = nil
}

func (e *Executor) runPipeline(p *parser.Pipeline, st *state.State, background bool) int {
	stages := make([]*stage, len(p.Commands))

	// Expand and resolve every stage before spawning anything: a stage that
	// cannot be resolved is never spawned, but the others still run.
	for i, cmd := range p.Commands {
		stg := &stage{stdin: e.Stdin, stdout: e.Stdout, stderr: e.Stderr}
		stages[i] = stg

		stg.argv = e.expandArgv(cmd, st)
		if len(stg.argv) == 0 {
			// The whole command expanded away; nothing to run.
			stg.skip = true
			continue
		}

		res, err := e.Resolver.Resolve(stg.argv[0], st)
		if err != nil {
			fmt.Fprintf(e.Stderr, "rush: %s: %s\n", stg.argv[0], resolveMessage(err))
			stg.skip = true
			stg.status = resolveStatus(err)
			continue
		}
		stg.res = res

		if st.Opts.IsSet(state.OptXtrace) {
			fmt.Fprintf(e.Stderr, "+ %s\n", strings.Join(stg.argv, " "))
		}
	}

	// One OS pipe per adjacent stage boundary.
	for i := 0; i < len(stages)-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			fmt.Fprintf(e.Stderr, "rush: %v\n", err)
			for _, stg := range stages {
				stg.closePipes()
			}
			return 1
		}
		stages[i].pipeOut = w
		stages[i].stdout = w
		stages[i+1].pipeIn = r
		stages[i+1].stdin = r
	}

	// Redirections override inherited streams and pipe wiring both.
	for i, cmd := range p.Commands {
		stg := stages[i]
		if stg.skip {
			continue
		}
		if err := e.applyRedirections(cmd, st, stg); err != nil {
			fmt.Fprintf(e.Stderr, "rush: %v\n", err)
			stg.skip = true
			stg.status = 1
		}
	}

	// A builtin that is the sole stage of a foreground pipeline runs
	// in-process against the live state; its stream redirections are scoped
	// to the stage and cannot leak.
	if len(stages) == 1 && !stages[0].skip &&
		stages[0].res.Kind == resolver.KindBuiltin && !background {
		stg := stages[0]
		status := e.runBuiltin(stg, st)
		stg.closeFiles()
		return status
	}

	// Spawn every stage before waiting on any, closing parent-side pipe
	// copies as soon as both sides hold theirs. A full pipe buffer can then
	// never deadlock the pipeline.
	var wg sync.WaitGroup
	for _, stg := range stages {
		stg := stg
		switch {
		case stg.skip:
			stg.closePipes()

		case stg.res.Kind == resolver.KindBuiltin:
			// Builtin mid-pipeline: run against a snapshot so its state
			// mutations are discarded, like a forked subshell.
			snap := st.Snapshot()
			wg.Add(1)
			go func() {
				defer wg.Done()
				stg.status = e.runBuiltin(stg, snap)
				stg.closePipes()
			}()

		default:
			cmd := &exec.Cmd{
				Path:   stg.res.Path,
				Args:   stg.argv,
				Env:    st.Env.Exported(),
				Dir:    st.Cwd(),
				Stdin:  stg.stdin,
				Stdout: stg.stdout,
				Stderr: stg.stderr,
			}
			if err := cmd.Start(); err != nil {
				fmt.Fprintf(e.Stderr, "rush: %s: %v\n", stg.argv[0], err)
				stg.status = spawnStatus(err)
				stg.closePipes()
				continue
			}
			stg.cmd = cmd
			stg.closePipes()
		}
	}

	finish := func() int {
		for _, stg := range stages {
			if stg.cmd != nil {
				stg.status = waitStatus(stg.cmd.Wait())
			}
		}
		wg.Wait()
		for _, stg := range stages {
			stg.closeFiles()
		}
		// POSIX: the pipeline's status is the last stage's.
		return stages[len(stages)-1].status
	}

	if background {
		// Do not block the read loop; the reaper collects the children.
		go finish()
		return 0
	}
	return finish()
}

// expandArgv expands a command's words into argv. Unquoted words that expand
// to nothing drop out entirely; quoted empties survive.
func (e *Executor) expandArgv(cmd *parser.SimpleCommand, st *state.State) []string {
	var argv []string
	for _, w := range cmd.Words {
		for _, field := range expandWord(w, st, e.Fs) {
			if field == "" && !w.FullyQuoted() {
				continue
			}
			argv = append(argv, field)
		}
	}
	return argv
}

func (e *Executor) applyRedirections(cmd *parser.SimpleCommand, st *state.State, stg *stage) error {
	for fd, r := range cmd.Redirs {
		if fd < 0 || fd > 2 {
			return fmt.Errorf("unsupported file descriptor %d", fd)
		}

		fields := expandWord(r.Target, st, e.Fs)
		if len(fields) != 1 || fields[0] == "" {
			return fmt.Errorf("%s: ambiguous redirect", r.Target.Text())
		}
		path := fields[0]
		if !filepath.IsAbs(path) {
			path = filepath.Join(st.Cwd(), path)
		}

		var (
			f   afero.File
			err error
		)
		switch r.Mode {
		case parser.RedirRead:
			f, err = e.Fs.Open(path)
		case parser.RedirWrite:
			if st.Opts.IsSet(state.OptNoClobber) {
				if _, statErr := e.Fs.Stat(path); statErr == nil {
					return fmt.Errorf("%s: cannot overwrite existing file", fields[0])
				}
			}
			f, err = e.Fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		case parser.RedirAppend:
			f, err = e.Fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		}
		if err != nil {
			return err
		}

		stg.files = append(stg.files, f)
		switch fd {
		case 0:
			stg.stdin = f
		case 1:
			stg.stdout = f
		case 2:
			stg.stderr = f
		}
	}
	return nil
}

func (e *Executor) runBuiltin(stg *stage, st *state.State) int {
	h, ok := builtin.Lookup(stg.res.Builtin)
	if !ok {
		fmt.Fprintf(stg.stderr, "rush: %s: not implemented\n", stg.argv[0])
		return 1
	}
	ctx := &builtin.Context{
		State:    st,
		Fs:       e.Fs,
		Resolver: e.Resolver,
		Stdin:    stg.stdin,
		Stdout:   stg.stdout,
		Stderr:   stg.stderr,
		Args:     stg.argv,
	}
	return h.Main(ctx)
}

func resolveMessage(err error) string {
	switch {
	case errors.Is(err, resolver.ErrNotFound):
		return "command not found"
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	default:
		return err.Error()
	}
}
