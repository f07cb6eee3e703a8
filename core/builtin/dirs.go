package builtin

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pborman/getopt/v2"

	"github.com/rush-shell/rush/core/resolver"
)

// Cd implements both cd and pushd: the resolved absolute path is pushed onto
// the directory stack, keeping the previous top below it for popd. With no
// argument it changes to $HOME.
func Cd(ctx *Context) int {
	var dir string
	switch len(ctx.Args) {
	case 1:
		dir = ctx.State.Env.Get("HOME")
		if dir == "" {
			ctx.Errorf("HOME not set")
			return 1
		}
	case 2:
		dir = ctx.Args[1]
	default:
		ctx.Errorf("too many arguments")
		return 1
	}

	abs := dir
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(ctx.State.Cwd(), abs)
	}
	abs = filepath.Clean(abs)

	info, err := ctx.Fs.Stat(abs)
	if err != nil {
		ctx.Errorf("%s: no such file or directory", dir)
		return 1
	}
	if !info.IsDir() {
		ctx.Errorf("%s: not a directory", dir)
		return 1
	}

	ctx.State.Dirs.Push(abs)
	if ctx.Name() == "pushd" {
		fmt.Fprintln(ctx.Stdout, strings.Join(ctx.State.Dirs.List(), " "))
	}
	return 0
}

// Popd removes the top of the directory stack; the entry below becomes the
// current directory. The bottom entry can never be popped.
func Popd(ctx *Context) int {
	if _, err := ctx.State.Dirs.Pop(); err != nil {
		ctx.Errorf("directory stack empty")
		return 1
	}
	fmt.Fprintln(ctx.Stdout, strings.Join(ctx.State.Dirs.List(), " "))
	return 0
}

// Dirs prints the directory stack top first without mutating it.
func Dirs(ctx *Context) int {
	opts := getopt.New()
	verbose := opts.Bool('v', "print one entry per line with its index")
	if err := opts.Getopt(ctx.Args, nil); err != nil {
		ctx.Errorf("%v", err)
		return 1
	}

	entries := ctx.State.Dirs.List()
	if *verbose {
		for i, dir := range entries {
			fmt.Fprintf(ctx.Stdout, "%2d  %s\n", i, dir)
		}
		return 0
	}
	fmt.Fprintln(ctx.Stdout, strings.Join(entries, " "))
	return 0
}

func init() {
	register(resolver.BuiltinCd, HandlerFunc(Cd))
	register(resolver.BuiltinPushd, HandlerFunc(Cd))
	register(resolver.BuiltinPopd, HandlerFunc(Popd))
	register(resolver.BuiltinDirs, HandlerFunc(Dirs))
}
