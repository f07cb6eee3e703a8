package builtin

import (
	"fmt"

	"github.com/pborman/getopt/v2"

	"github.com/rush-shell/rush/core/resolver"
)

// Hash prints the command cache, or with a name argument forces that name to
// be re-resolved from PATH and reports whether it exists (status 0/1) without
// executing it. "hash -r" empties the cache like rehash.
func Hash(ctx *Context) int {
	opts := getopt.New()
	rehash := opts.Bool('r', "forget all cached locations, like rehash")
	if err := opts.Getopt(ctx.Args, nil); err != nil {
		ctx.Errorf("%v", err)
		return 1
	}

	if *rehash {
		ctx.State.Hash.Clear()
		return 0
	}

	args := opts.Args()
	if len(args) == 0 {
		entries := ctx.State.Hash.Entries()
		if len(entries) == 0 {
			fmt.Fprintln(ctx.Stdout, "hash: hash table empty")
			return 0
		}
		for _, e := range entries {
			fmt.Fprintf(ctx.Stdout, "%s\t%s\n", e.Name, e.Path)
		}
		return 0
	}

	status := 0
	for _, name := range args {
		if _, err := ctx.Resolver.LookPathFresh(name, ctx.State); err != nil {
			ctx.Errorf("%s: not found", name)
			status = 1
		}
	}
	return status
}

// Rehash empties the command cache. The cache repopulates itself as commands
// are resolved, so this is how new executables are picked up after they
// appear without a PATH change.
func Rehash(ctx *Context) int {
	ctx.State.Hash.Clear()
	return 0
}

func init() {
	register(resolver.BuiltinHash, HandlerFunc(Hash))
	register(resolver.BuiltinRehash, HandlerFunc(Rehash))
}
