// Package builtin implements the shell's in-process commands.
//
// Handlers receive a Context carrying the shell state and the streams they
// must use; they never touch the interpreter's own standard descriptors, so
// redirections and pipeline wiring work the same for builtins and externals.
package builtin

import (
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/rush-shell/rush/core/resolver"
	"github.com/rush-shell/rush/core/state"
)

// Context is everything a builtin invocation may use.
type Context struct {
	State    *state.State
	Fs       afero.Fs
	Resolver *resolver.Resolver

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Args is the expanded argv, the builtin's own name first.
	Args []string
}

// Name returns the spelling the builtin was invoked under.
func (c *Context) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// Errorf writes a diagnostic prefixed with the builtin's name to stderr.
func (c *Context) Errorf(format string, a ...interface{}) {
	fmt.Fprintf(c.Stderr, "%s: %s\n", c.Name(), fmt.Sprintf(format, a...))
}

// Handler is one builtin implementation.
type Handler interface {
	Main(ctx *Context) int
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx *Context) int

func (f HandlerFunc) Main(ctx *Context) int {
	return f(ctx)
}

var _ Handler = (HandlerFunc)(nil)

var handlers = make(map[resolver.BuiltinTag]Handler)

func register(tag resolver.BuiltinTag, h Handler) {
	handlers[tag] = h
}

// Lookup returns the handler behind a resolver tag.
func Lookup(tag resolver.BuiltinTag) (Handler, bool) {
	h, ok := handlers[tag]
	return h, ok
}
