package builtin

import (
	"fmt"
	"strings"

	"github.com/rush-shell/rush/core/resolver"
)

// Export lists exported variables when called without arguments; otherwise
// each argument is a NAME=VALUE assignment that is set and marked exported.
// A malformed argument reports failure but does not stop the rest.
func Export(ctx *Context) int {
	if len(ctx.Args) == 1 {
		for _, kv := range ctx.State.Env.Exported() {
			fmt.Fprintln(ctx.Stdout, kv)
		}
		return 0
	}

	status := 0
	for _, arg := range ctx.Args[1:] {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || !validName(name) {
			ctx.Errorf("`%s': not a valid identifier", arg)
			status = 1
			continue
		}
		if err := ctx.State.Env.SetExported(name, value); err != nil {
			ctx.Errorf("%v", err)
			status = 1
		}
	}
	return status
}

// Unset removes each named variable. Missing names are a no-op; read-only
// names fail individually without stopping the rest.
func Unset(ctx *Context) int {
	status := 0
	for _, name := range ctx.Args[1:] {
		if err := ctx.State.Env.Unset(name); err != nil {
			ctx.Errorf("%v", err)
			status = 1
		}
	}
	return status
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func init() {
	register(resolver.BuiltinExport, HandlerFunc(Export))
	register(resolver.BuiltinUnset, HandlerFunc(Unset))
}
