package builtin

import (
	"fmt"

	"github.com/rush-shell/rush/core/resolver"
	"github.com/rush-shell/rush/core/state"
)

// Set toggles shell options: "-x" or "-xtrace" enables, "+x" or "+xtrace"
// disables. Without arguments the current option values are listed. An
// unknown option reports failure; other toggles in the same call still apply.
func Set(ctx *Context) int {
	if len(ctx.Args) == 1 {
		for _, name := range ctx.State.Opts.List() {
			value := "off"
			if ctx.State.Opts.IsSet(name) {
				value = "on"
			}
			fmt.Fprintf(ctx.Stdout, "%s\t%s\n", name, value)
		}
		return 0
	}

	status := 0
	for _, arg := range ctx.Args[1:] {
		if len(arg) < 2 || (arg[0] != '-' && arg[0] != '+') {
			ctx.Errorf("%s: expected -opt or +opt", arg)
			status = 1
			continue
		}
		enable := arg[0] == '-'

		name := arg[1:]
		if len(name) == 1 {
			if long, ok := state.ShortOption(name[0]); ok {
				name = long
			}
		}

		if err := ctx.State.Opts.Set(name, enable); err != nil {
			ctx.Errorf("%v", err)
			status = 1
		}
	}
	return status
}

func init() {
	register(resolver.BuiltinSet, HandlerFunc(Set))
}
