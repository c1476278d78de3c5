// Package history implements snapshot-based undo/redo over the scene.
//
// Two ordered stacks of full node/edge snapshots are kept. Discrete
// mutations call Checkpoint immediately before mutating; continuous
// gestures bracket themselves with Begin and CommitIfChanged so the whole
// gesture collapses into a single undo unit, and only if the gesture
// actually changed something.
package history

import "github.com/ideamap/ideamap/pkg/scene"

// History holds the undo and redo stacks.
type History struct {
	past    []scene.Snapshot
	future  []scene.Snapshot
	pending *scene.Snapshot
}

// New creates an empty history.
func New() *History {
	return &History{}
}

// Checkpoint pushes the scene's current state onto the past stack and
// clears the future stack. Call immediately before a discrete mutation.
func (h *History) Checkpoint(s *scene.Scene) {
	h.past = append(h.past, s.TakeSnapshot())
	h.future = nil
}

// Begin captures the scene's state at the start of a continuous gesture
// without committing it. A later CommitIfChanged decides whether the
// gesture becomes an undo unit. A second Begin discards the first.
func (h *History) Begin(s *scene.Scene) {
	snap := s.TakeSnapshot()
	h.pending = &snap
}

// CommitIfChanged compares the pending gesture-start snapshot with the
// scene's current state. If anything differs it commits the start
// snapshot as one undo unit; an unchanged gesture leaves history
// untouched. The pending snapshot is always cleared.
func (h *History) CommitIfChanged(s *scene.Scene) bool {
	if h.pending == nil {
		return false
	}
	start := *h.pending
	h.pending = nil
	if start.Equal(s.TakeSnapshot()) {
		return false
	}
	h.past = append(h.past, start)
	h.future = nil
	return true
}

// Abort drops a pending gesture snapshot without committing.
func (h *History) Abort() {
	h.pending = nil
}

// Undo restores the most recent past snapshot, moving the current state
// onto the future stack. Returns false (and leaves the scene untouched)
// when the past stack is empty.
func (h *History) Undo(s *scene.Scene) bool {
	if len(h.past) == 0 {
		return false
	}
	top := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, s.TakeSnapshot())
	s.Restore(top)
	return true
}

// Rollback restores the most recent past snapshot without pushing the
// current state onto the future stack. Call it to unwind a failed
// mutation after its Checkpoint; unlike Undo, the abandoned partial
// state is not reachable through Redo. Returns false when the past
// stack is empty.
func (h *History) Rollback(s *scene.Scene) bool {
	if len(h.past) == 0 {
		return false
	}
	top := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	s.Restore(top)
	return true
}

// Redo is the mirror of Undo over the future stack.
func (h *History) Redo(s *scene.Scene) bool {
	if len(h.future) == 0 {
		return false
	}
	top := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, s.TakeSnapshot())
	s.Restore(top)
	return true
}

// CanUndo reports whether the past stack is non-empty.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether the future stack is non-empty.
func (h *History) CanRedo() bool { return len(h.future) > 0 }
