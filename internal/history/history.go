// Package history implements a bounded linear undo/redo stack over a single
// string value, scoped to one editing session. It is not goroutine-safe and
// is never persisted.
package history

// MaxEntries caps the history length. When the cap is exceeded the oldest
// entries are dropped, making them unrecoverable. This is an accepted lossy
// policy: a long editing session must not grow memory without bound.
const MaxEntries = 80

// Kind tags a history action.
type Kind int

const (
	Set Kind = iota
	Undo
	Redo
	Reset
)

// Action is a tagged history operation. Value is used by Set and Reset.
type Action struct {
	Kind  Kind
	Value string
}

// History holds the value timeline. Invariant: entries[index] is the
// current value at all times.
type History struct {
	entries []string
	index   int
}

// New creates a history seeded with the initial value.
func New(initial string) *History {
	return &History{entries: []string{initial}, index: 0}
}

// Value returns the current value.
func (h *History) Value() string {
	return h.entries[h.index]
}

// CanUndo reports whether an earlier entry exists.
func (h *History) CanUndo() bool {
	return h.index > 0
}

// CanRedo reports whether a later entry exists.
func (h *History) CanRedo() bool {
	return h.index < len(h.entries)-1
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Apply dispatches a tagged action. Out-of-range undo/redo and redundant
// sets are silent no-ops.
func (h *History) Apply(a Action) {
	switch a.Kind {
	case Set:
		h.set(a.Value)
	case Undo:
		if h.index > 0 {
			h.index--
		}
	case Redo:
		if h.index < len(h.entries)-1 {
			h.index++
		}
	case Reset:
		h.entries = []string{a.Value}
		h.index = 0
	}
}

// set appends v, discarding any redo tail first. Setting the current value
// again does not grow the history: repeated keystroke callbacks with
// identical text are common.
func (h *History) set(v string) {
	if v == h.entries[h.index] {
		return
	}
	next := append(h.entries[:h.index+1:h.index+1], v)
	if len(next) > MaxEntries {
		next = next[len(next)-MaxEntries:]
	}
	h.entries = next
	h.index = len(next) - 1
}

// SetValue records a new value.
func (h *History) SetValue(v string) { h.Apply(Action{Kind: Set, Value: v}) }

// StepBack moves one entry back; no-op at the floor.
func (h *History) StepBack() { h.Apply(Action{Kind: Undo}) }

// StepForward moves one entry forward; no-op at the tip.
func (h *History) StepForward() { h.Apply(Action{Kind: Redo}) }

// ResetTo discards all history and reinitializes with v.
func (h *History) ResetTo(v string) { h.Apply(Action{Kind: Reset, Value: v}) }
