package builtin

import (
	"fmt"
	"strconv"

	"github.com/pborman/getopt/v2"

	"github.com/rush-shell/rush/core/resolver"
)

// History prints recorded input lines with their indices, most recent last.
// An optional count limits the output to the last n entries; "history -c"
// clears the buffer.
func History(ctx *Context) int {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	if err := opts.Getopt(ctx.Args, nil); err != nil {
		ctx.Errorf("%v", err)
		return 1
	}

	if *clear {
		ctx.State.History.Clear()
		return 0
	}

	n := 0
	if args := opts.Args(); len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 0 {
			ctx.Errorf("%s: numeric argument required", args[0])
			return 1
		}
		n = parsed
	}

	for _, e := range ctx.State.History.Last(n) {
		fmt.Fprintf(ctx.Stdout, "%4d  %s\n", e.Index, e.Line)
	}
	return 0
}

func init() {
	register(resolver.BuiltinHistory, HandlerFunc(History))
}
