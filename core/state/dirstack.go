package state

import (
	"errors"
	"sync"
)

// ErrStackBottom is returned when popping would remove the stack's bottom
// sentinel entry.
var ErrStackBottom = errors.New("directory stack is empty")

// DirStack is the working-directory stack manipulated by cd/pushd/popd.
// The top entry is the current working directory. The stack is never empty:
// the bottom entry is the directory the interpreter started in.
type DirStack struct {
	mu sync.RWMutex
	// entries is ordered bottom first; the last element is the top.
	entries []string
}

// NewDirStack creates a stack whose bottom (and top) is start, which must be
// an absolute path.
func NewDirStack(start string) *DirStack {
	return &DirStack{entries: []string{start}}
}

// Top returns the current working directory.
func (d *DirStack) Top() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.entries[len(d.entries)-1]
}

// Push makes dir the new current directory, keeping the previous one below.
func (d *DirStack) Push(dir string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, dir)
}

// Pop removes the top entry and returns the new current directory.
// It refuses to pop the bottom entry.
func (d *DirStack) Pop() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.entries) <= 1 {
		return "", ErrStackBottom
	}
	d.entries = d.entries[:len(d.entries)-1]
	return d.entries[len(d.entries)-1], nil
}

// Len returns the number of entries, including the bottom sentinel.
func (d *DirStack) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// List returns the entries top first, the order dirs prints them in.
func (d *DirStack) List() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[len(d.entries)-1-i] = e
	}
	return out
}

// Clone returns an independent deep copy.
func (d *DirStack) Clone() *DirStack {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return &DirStack{entries: append([]string(nil), d.entries...)}
}
