// Package state owns all of the interpreter's mutable shell state: variables,
// the directory stack, options, the command hash cache and history.
//
// One State instance is created at interpreter start and lives for the
// process. The executor and builtins receive it for the duration of one input
// line. Pipeline-internal builtin stages run against a Snapshot so their
// mutations are discarded, matching the semantics of a forked subshell.
package state

// State is the process-wide shell state.
type State struct {
	Env     *Environ
	Dirs    *DirStack
	Opts    *Options
	Hash    *HashCache
	History *History

	// LastStatus is the exit status of the most recently completed
	// pipeline, the value behind $? and the default for exit.
	LastStatus int

	exitCode      int
	exitRequested bool
}

// New creates shell state rooted at the absolute directory start with an
// empty environment.
func New(start string) *State {
	return NewWithEnv(start, NewEnviron(), DefaultHistorySize)
}

// NewWithEnv creates shell state with a prepared environment, typically
// seeded from os.Environ().
func NewWithEnv(start string, env *Environ, historySize int) *State {
	s := &State{
		Env:     env,
		Dirs:    NewDirStack(start),
		Opts:    NewOptions(),
		Hash:    NewHashCache(),
		History: NewHistory(historySize),
	}
	s.wireEnv()
	return s
}

// wireEnv invalidates the hash cache whenever PATH changes.
func (s *State) wireEnv() {
	s.Env.onSet = func(key string) {
		if key == "PATH" {
			s.Hash.Invalidate()
		}
	}
}

// Cwd returns the current working directory, the top of the stack.
func (s *State) Cwd() string {
	return s.Dirs.Top()
}

// RequestExit asks the interpreter loop to terminate with code once the
// current line finishes. The code is reduced modulo 256.
func (s *State) RequestExit(code int) {
	s.exitCode = code & 0xff
	s.exitRequested = true
}

// ExitRequested reports whether a builtin asked the loop to stop.
func (s *State) ExitRequested() (int, bool) {
	return s.exitCode, s.exitRequested
}

// Snapshot deep-copies the state for a pipeline-internal builtin stage.
// Mutations to the copy, including exit requests, never reach the original.
func (s *State) Snapshot() *State {
	clone := &State{
		Env:        s.Env.Clone(),
		Dirs:       s.Dirs.Clone(),
		Opts:       s.Opts.Clone(),
		Hash:       s.Hash.Clone(),
		History:    s.History.Clone(),
		LastStatus: s.LastStatus,
	}
	clone.wireEnv()
	return clone
}
