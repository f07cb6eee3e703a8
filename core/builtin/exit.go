package builtin

import (
	"strconv"

	"github.com/rush-shell/rush/core/resolver"
)

// Exit terminates the interpreter loop. Without an argument the status of
// the last executed pipeline is used; a non-numeric argument is an error and
// leaves the interpreter running. The code is reduced modulo 256, the way
// the OS wait interface reports it.
func Exit(ctx *Context) int {
	code := ctx.State.LastStatus
	switch len(ctx.Args) {
	case 1:
	case 2:
		parsed, err := strconv.Atoi(ctx.Args[1])
		if err != nil {
			ctx.Errorf("%s: numeric argument required", ctx.Args[1])
			return 1
		}
		code = parsed
	default:
		ctx.Errorf("too many arguments")
		return 1
	}

	ctx.State.RequestExit(code)
	return code & 0xff
}

// Quit terminates with status 0 regardless of the last command's status.
func Quit(ctx *Context) int {
	ctx.State.RequestExit(0)
	return 0
}

func init() {
	register(resolver.BuiltinExit, HandlerFunc(Exit))
	register(resolver.BuiltinQuit, HandlerFunc(Quit))
}
