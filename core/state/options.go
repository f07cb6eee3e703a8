package state

import (
	"fmt"
	"sort"
	"sync"
)

// Shell options toggled by the set builtin.
const (
	// OptXtrace prints each expanded command to stderr before running it.
	OptXtrace = "xtrace"
	// OptVerbose echoes input lines as they are read.
	OptVerbose = "verbose"
	// OptNoClobber makes ">" refuse to overwrite existing files.
	OptNoClobber = "noclobber"
)

var knownOptions = map[string]bool{
	OptXtrace:    true,
	OptVerbose:   true,
	OptNoClobber: true,
}

// ShortOption maps single-letter spellings ("-x") to option names.
func ShortOption(c byte) (string, bool) {
	switch c {
	case 'x':
		return OptXtrace, true
	case 'v':
		return OptVerbose, true
	case 'C':
		return OptNoClobber, true
	}
	return "", false
}

// Options is the set of named boolean shell flags.
type Options struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewOptions creates an option set with every known option off.
func NewOptions() *Options {
	return &Options{flags: make(map[string]bool)}
}

// Set toggles a known option, erroring on unknown names.
func (o *Options) Set(name string, on bool) error {
	if !knownOptions[name] {
		return fmt.Errorf("unknown option: %s", name)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.flags[name] = on
	return nil
}

// IsSet reports whether the named option is on.
func (o *Options) IsSet(name string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.flags[name]
}

// List returns every known option name in sorted order.
func (o *Options) List() []string {
	names := make([]string, 0, len(knownOptions))
	for name := range knownOptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent deep copy.
func (o *Options) Clone() *Options {
	o.mu.RLock()
	defer o.mu.RUnlock()

	clone := NewOptions()
	for k, v := range o.flags {
		clone.flags[k] = v
	}
	return clone
}
