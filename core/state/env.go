package state

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Environ holds the shell's variables. Every variable is either shell-local
// or exported; only exported ones reach spawned processes.
type Environ struct {
	mu       sync.RWMutex
	vars     map[string]string
	exported map[string]bool
	readonly map[string]bool

	// onSet is called (outside the lock) after a variable changes;
	// State uses it to invalidate the command hash cache on PATH writes.
	onSet func(key string)
}

// ErrReadOnly is returned when unsetting or overwriting a read-only variable.
var ErrReadOnly = fmt.Errorf("read-only variable")

// NewEnviron creates an empty environment.
func NewEnviron() *Environ {
	return &Environ{
		vars:     make(map[string]string),
		exported: make(map[string]bool),
		readonly: make(map[string]bool),
	}
}

// NewEnvironFromList creates an exported environment from "key=value" pairs,
// such as os.Environ(). Inherited variables are exported by convention.
func NewEnvironFromList(environ []string) *Environ {
	env := NewEnviron()
	for _, e := range environ {
		key, value, _ := strings.Cut(e, "=")
		env.vars[key] = value
		env.exported[key] = true
	}
	return env
}

// Get returns the value of key, or "" when unset.
func (e *Environ) Get(key string) string {
	v, _ := e.Lookup(key)
	return v
}

// Lookup returns the value of key and whether it is set at all.
func (e *Environ) Lookup(key string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.vars[key]
	return v, ok
}

// Set assigns a shell-local variable, keeping any existing export mark.
func (e *Environ) Set(key, value string) error {
	return e.set(key, value, false)
}

// SetExported assigns a variable and marks it exported.
func (e *Environ) SetExported(key, value string) error {
	return e.set(key, value, true)
}

func (e *Environ) set(key, value string, export bool) error {
	e.mu.Lock()
	if e.readonly[key] {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", key, ErrReadOnly)
	}
	e.vars[key] = value
	if export {
		e.exported[key] = true
	}
	e.mu.Unlock()

	if e.onSet != nil {
		e.onSet(key)
	}
	return nil
}

// Unset removes key entirely. Unsetting a missing key is a no-op.
func (e *Environ) Unset(key string) error {
	e.mu.Lock()
	if e.readonly[key] {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", key, ErrReadOnly)
	}
	delete(e.vars, key)
	delete(e.exported, key)
	e.mu.Unlock()

	if e.onSet != nil {
		e.onSet(key)
	}
	return nil
}

// MarkReadOnly protects key from Set and Unset.
func (e *Environ) MarkReadOnly(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.readonly[key] = true
}

// IsExported reports whether key is marked exported.
func (e *Environ) IsExported(key string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.exported[key]
}

// Exported returns the exported subset as sorted "key=value" pairs, the form
// os/exec wants.
func (e *Environ) Exported() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []string
	for k, v := range e.vars {
		if e.exported[k] {
			out = append(out, fmt.Sprintf("%s=%s", k, v))
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent deep copy.
func (e *Environ) Clone() *Environ {
	e.mu.RLock()
	defer e.mu.RUnlock()

	clone := NewEnviron()
	for k, v := range e.vars {
		clone.vars[k] = v
	}
	for k := range e.exported {
		clone.exported[k] = true
	}
	for k := range e.readonly {
		clone.readonly[k] = true
	}
	return clone
}
