// Package history implements a linear undo/redo stack of state snapshots.
package history

// DefaultLimit is the number of undo entries kept when no limit is given.
const DefaultLimit = 30

// Entry is a snapshot tagged with the operation that followed it.
type Entry[T any] struct {
	Label string
	State T
}

// Stack is a linear undo history. Pushing a new entry discards anything that
// could have been redone.
type Stack[T any] struct {
	limit int
	undo  []Entry[T]
	redo  []Entry[T]
}

// New creates a stack keeping at most limit undo entries.
func New[T any](limit int) *Stack[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack[T]{limit: limit}
}

// Push records the state that existed before the labelled operation.
func (s *Stack[T]) Push(label string, state T) {
	s.undo = append(s.undo, Entry[T]{Label: label, State: state})
	if over := len(s.undo) - s.limit; over > 0 {
		clear(s.undo[:over])
		s.undo = s.undo[over:]
	}
	clear(s.redo)
	s.redo = s.redo[:0]
}

// Undo pops the most recent entry. current is kept so Redo can return to it.
func (s *Stack[T]) Undo(current T) (Entry[T], bool) {
	if len(s.undo) == 0 {
		return Entry[T]{}, false
	}
	e := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, Entry[T]{Label: e.Label, State: current})
	return e, true
}

// Redo re-applies the most recently undone operation.
func (s *Stack[T]) Redo(current T) (Entry[T], bool) {
	if len(s.redo) == 0 {
		return Entry[T]{}, false
	}
	e := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, Entry[T]{Label: e.Label, State: current})
	return e, true
}

// CanUndo reports whether Undo would succeed.
func (s *Stack[T]) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (s *Stack[T]) CanRedo() bool { return len(s.redo) > 0 }

// Labels lists the undo entries, oldest first.
func (s *Stack[T]) Labels() []string {
	out := make([]string, len(s.undo))
	for i, e := range s.undo {
		out[i] = e.Label
	}
	return out
}

// Reset drops all entries.
func (s *Stack[T]) Reset() {
	s.undo = nil
	s.redo = nil
}
