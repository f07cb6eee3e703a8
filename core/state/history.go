package state

import "sync"

// DefaultHistorySize bounds the history buffer when the configuration does
// not say otherwise.
const DefaultHistorySize = 1000

// HistoryEntry is one recorded input line.
type HistoryEntry struct {
	Index int
	Line  string
}

// History is the append-only input record. Indices start at 1, grow
// monotonically and are never reused, even after capacity trimming drops
// the oldest entries.
type History struct {
	mu      sync.RWMutex
	entries []HistoryEntry
	next    int
	cap     int
}

// NewHistory creates a history bounded to size entries; size <= 0 means
// DefaultHistorySize.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{next: 1, cap: size}
}

// Append records a line and returns its index.
func (h *History) Append(line string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	idx := h.next
	h.next++
	h.entries = append(h.entries, HistoryEntry{Index: idx, Line: line})
	if len(h.entries) > h.cap {
		h.entries = h.entries[len(h.entries)-h.cap:]
	}
	return idx
}

// Last returns the most recent n entries in input order; n <= 0 returns all
// retained entries.
func (h *History) Last(n int) []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	start := 0
	if n > 0 && n < len(h.entries) {
		start = len(h.entries) - n
	}
	return append([]HistoryEntry(nil), h.entries[start:]...)
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Clear drops all retained entries without resetting the index counter.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}

// Clone returns an independent deep copy.
func (h *History) Clone() *History {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return &History{
		entries: append([]HistoryEntry(nil), h.entries...),
		next:    h.next,
		cap:     h.cap,
	}
}
