// Package resolver classifies command names: builtin, external executable
// found via a cached PATH search, or not found.
package resolver

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/rush-shell/rush/core/state"
)

// ErrNotFound is the error resulting if a path search failed to find an
// executable file. It maps to exit status 127.
var ErrNotFound = errors.New("command not found")

// BuiltinTag identifies one member of the fixed builtin set.
type BuiltinTag int

const (
	BuiltinNone BuiltinTag = iota
	BuiltinCd
	BuiltinPushd
	BuiltinPopd
	BuiltinDirs
	BuiltinExport
	BuiltinUnset
	BuiltinSet
	BuiltinHash
	BuiltinRehash
	BuiltinHistory
	BuiltinExit
	BuiltinQuit
)

// builtinNames maps every spelling, aliases included, to its tag.
// Builtins always shadow external programs of the same name.
var builtinNames = map[string]BuiltinTag{
	"cd":      BuiltinCd,
	"pushd":   BuiltinPushd,
	"popd":    BuiltinPopd,
	"dirs":    BuiltinDirs,
	"export":  BuiltinExport,
	"unset":   BuiltinUnset,
	"set":     BuiltinSet,
	"hash":    BuiltinHash,
	"rehash":  BuiltinRehash,
	"history": BuiltinHistory,
	"hist":    BuiltinHistory,
	"h":       BuiltinHistory,
	"exit":    BuiltinExit,
	"quit":    BuiltinQuit,
}

// LookupBuiltin returns the tag for name if it is a builtin spelling.
func LookupBuiltin(name string) (BuiltinTag, bool) {
	tag, ok := builtinNames[name]
	return tag, ok
}

// Kind says how a resolved command executes.
type Kind int

const (
	// KindBuiltin runs in-process.
	KindBuiltin Kind = iota
	// KindExternal spawns a child process.
	KindExternal
)

// Resolution is the outcome of resolving one command name.
type Resolution struct {
	Kind    Kind
	Builtin BuiltinTag
	// Path is the absolute executable path, external commands only.
	Path string
}

// Resolver performs command lookup against a filesystem.
type Resolver struct {
	fs afero.Fs
}

// New creates a resolver reading through fsys.
func New(fsys afero.Fs) *Resolver {
	return &Resolver{fs: fsys}
}

// Resolve classifies name. The builtin table wins over any external program;
// otherwise the hash cache is consulted (revalidating the cached target) and
// finally PATH is scanned left to right, caching the first hit.
func (r *Resolver) Resolve(name string, st *state.State) (Resolution, error) {
	if tag, ok := LookupBuiltin(name); ok {
		return Resolution{Kind: KindBuiltin, Builtin: tag}, nil
	}

	// A name containing a slash is tried directly, never cached.
	if strings.Contains(name, "/") {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(st.Cwd(), path)
		}
		if err := r.findExecutable(path); err != nil {
			return Resolution{}, err
		}
		return Resolution{Kind: KindExternal, Path: path}, nil
	}

	if path, ok := st.Hash.Get(name); ok {
		if r.findExecutable(path) == nil {
			return Resolution{Kind: KindExternal, Path: path}, nil
		}
		// Cached target vanished, fall through to a fresh scan.
		st.Hash.Forget(name)
	}

	path, err := r.lookPath(name, st)
	if err != nil {
		return Resolution{}, err
	}
	st.Hash.Put(name, path)
	return Resolution{Kind: KindExternal, Path: path}, nil
}

// LookPathFresh re-resolves name from PATH ignoring the cache, caching the
// result. The hash builtin uses it to probe a single name.
func (r *Resolver) LookPathFresh(name string, st *state.State) (string, error) {
	st.Hash.Forget(name)
	path, err := r.lookPath(name, st)
	if err != nil {
		return "", err
	}
	st.Hash.Put(name, path)
	return path, nil
}

// lookPath scans PATH directories left to right; earlier entries shadow
// later ones. The returned path is absolute.
func (r *Resolver) lookPath(name string, st *state.State) (string, error) {
	pathVar := st.Env.Get("PATH")
	for _, dir := range filepath.SplitList(pathVar) {
		if dir == "" {
			// Unix shell semantics: path element "" means ".".
			dir = "."
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(st.Cwd(), dir)
		}
		candidate := filepath.Join(dir, name)
		if err := r.findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", ErrNotFound
}

func (r *Resolver) findExecutable(path string) error {
	d, err := r.fs.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}
