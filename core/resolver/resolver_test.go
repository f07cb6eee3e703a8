package resolver

import (
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rush-shell/rush/core/state"
)

func newTestFs(t *testing.T, executables map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, contents := range executables {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(contents), 0755))
	}
	return fsys
}

func newTestState(path string) *state.State {
	st := state.New("/home/user")
	_ = st.Env.SetExported("PATH", path)
	return st
}

func TestResolveBuiltinWinsOverExternal(t *testing.T) {
	// An executable named cd on PATH must not shadow the builtin.
	fsys := newTestFs(t, map[string]string{"/bin/cd": "#!"})
	st := newTestState("/bin")

	res, err := New(fsys).Resolve("cd", st)
	require.NoError(t, err)
	assert.Equal(t, KindBuiltin, res.Kind)
	assert.Equal(t, BuiltinCd, res.Builtin)
}

func TestResolveBuiltinAliases(t *testing.T) {
	for _, name := range []string{"history", "hist", "h"} {
		tag, ok := LookupBuiltin(name)
		require.True(t, ok, name)
		assert.Equal(t, BuiltinHistory, tag)
	}
}

func TestResolveExternal(t *testing.T) {
	fsys := newTestFs(t, map[string]string{"/bin/ls": "#!"})
	st := newTestState("/bin")

	res, err := New(fsys).Resolve("ls", st)
	require.NoError(t, err)
	assert.Equal(t, KindExternal, res.Kind)
	assert.Equal(t, "/bin/ls", res.Path)
}

func TestResolveNotFound(t *testing.T) {
	fsys := newTestFs(t, nil)
	st := newTestState("/bin")

	_, err := New(fsys).Resolve("nonesuch", st)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveNotExecutable(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/bin/data", []byte("x"), 0644))
	st := newTestState("/bin")

	_, err := New(fsys).Resolve("data", st)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

// Earlier PATH entries shadow later ones.
func TestResolvePathOrder(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"/usr/local/bin/tool": "#!",
		"/usr/bin/tool":       "#!",
	})
	st := newTestState("/usr/local/bin:/usr/bin")

	res, err := New(fsys).Resolve("tool", st)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/tool", res.Path)
}

func TestResolveCachesResult(t *testing.T) {
	fsys := newTestFs(t, map[string]string{"/bin/ls": "#!"})
	st := newTestState("/bin")
	r := New(fsys)

	_, err := r.Resolve("ls", st)
	require.NoError(t, err)

	path, ok := st.Hash.Get("ls")
	require.True(t, ok)
	assert.Equal(t, "/bin/ls", path)
}

// A valid cache entry is used even when PATH order would now pick another
// target, but a vanished target forces a rescan.
func TestResolveCacheRevalidation(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"/opt/bin/tool": "#!",
		"/bin/tool":     "#!",
	})
	st := newTestState("/bin:/opt/bin")
	r := New(fsys)

	res, err := r.Resolve("tool", st)
	require.NoError(t, err)
	assert.Equal(t, "/bin/tool", res.Path)

	// Cached path survives as long as the target exists.
	res, err = r.Resolve("tool", st)
	require.NoError(t, err)
	assert.Equal(t, "/bin/tool", res.Path)

	// Remove the cached target: resolution falls back to the scan.
	require.NoError(t, fsys.Remove("/bin/tool"))
	res, err = r.Resolve("tool", st)
	require.NoError(t, err)
	assert.Equal(t, "/opt/bin/tool", res.Path)
}

func TestResolveSlashPathSkipsCache(t *testing.T) {
	fsys := newTestFs(t, map[string]string{"/opt/tool": "#!"})
	st := newTestState("")
	r := New(fsys)

	res, err := r.Resolve("/opt/tool", st)
	require.NoError(t, err)
	assert.Equal(t, "/opt/tool", res.Path)
	assert.Empty(t, st.Hash.Entries())
}

func TestResolveRelativeSlashPath(t *testing.T) {
	fsys := newTestFs(t, map[string]string{"/home/user/bin/tool": "#!"})
	st := newTestState("")

	res, err := New(fsys).Resolve("bin/tool", st)
	require.NoError(t, err)
	assert.Equal(t, "/home/user/bin/tool", res.Path)
}

func TestLookPathFresh(t *testing.T) {
	fsys := newTestFs(t, map[string]string{"/bin/tool": "#!"})
	st := newTestState("/bin")
	r := New(fsys)

	// Poison the cache: fresh lookup must ignore it.
	st.Hash.Put("tool", "/stale/tool")
	path, err := r.LookPathFresh("tool", st)
	require.NoError(t, err)
	assert.Equal(t, "/bin/tool", path)

	cached, ok := st.Hash.Get("tool")
	require.True(t, ok)
	assert.Equal(t, "/bin/tool", cached)

	_, err = r.LookPathFresh("nonesuch", st)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPathMutationInvalidatesCache(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"/bin/tool":     "#!",
		"/new/bin/tool": "#!",
	})
	st := newTestState("/bin")
	r := New(fsys)

	_, err := r.Resolve("tool", st)
	require.NoError(t, err)

	require.NoError(t, st.Env.SetExported("PATH", "/new/bin"))
	res, err := r.Resolve("tool", st)
	require.NoError(t, err)
	assert.Equal(t, "/new/bin/tool", res.Path)
}
