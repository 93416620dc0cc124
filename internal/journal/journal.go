// Package journal implements the before/after undo/redo log of spec.md
// §4.9: a capped sequence of Actions plus a cursor separating undo-able
// positions from redo-able ones.
package journal

import (
	"fmt"
	"time"

	"github.com/chordforge/chordforge/internal/chord"
)

// DefaultCap is the default maximum number of retained actions.
const DefaultCap = 50

// Action is a single transform record: the affected chord indices plus
// their before/after snapshots, a human-readable description, and the time
// it was recorded.
type Action struct {
	Indices     []int
	Before      []chord.Chord
	After       []chord.Chord
	Description string
	Recorded    time.Time
}

// Journal holds a sequence of Actions and a cursor. Positions before the
// cursor are undo-able; positions from the cursor onward are redo-able.
type Journal struct {
	actions []Action
	cursor  int
	cap     int
}

// New returns an empty Journal capped at DefaultCap actions.
func New() *Journal {
	return &Journal{cap: DefaultCap}
}

// NewWithCap returns an empty Journal capped at the given action count.
func NewWithCap(cap int) *Journal {
	if cap < 1 {
		cap = 1
	}
	return &Journal{cap: cap}
}

// Record truncates the journal after the cursor — discarding any
// previously-redo-able actions a new transform has superseded — appends the
// action, and evicts the oldest entry (decrementing the cursor) if the cap
// is exceeded.
func (j *Journal) Record(action Action) {
	j.actions = append(j.actions[:j.cursor], action)
	j.cursor++
	if len(j.actions) > j.cap {
		j.actions = j.actions[1:]
		j.cursor--
	}
}

// CanUndo reports whether there is an action to undo.
func (j *Journal) CanUndo() bool {
	return j.cursor > 0
}

// CanRedo reports whether there is an action to redo.
func (j *Journal) CanRedo() bool {
	return j.cursor < len(j.actions)
}

// DescribeUndo returns the description of the action Undo would apply, or
// "" if CanUndo is false.
func (j *Journal) DescribeUndo() string {
	if !j.CanUndo() {
		return ""
	}
	return j.actions[j.cursor-1].Description
}

// DescribeRedo returns the description of the action Redo would apply, or
// "" if CanRedo is false.
func (j *Journal) DescribeRedo() string {
	if !j.CanRedo() {
		return ""
	}
	return j.actions[j.cursor].Description
}

// Undo applies the before-snapshot of the action before the cursor to the
// given chord list (by index) and decrements the cursor. Returns false if
// there is nothing to undo.
func (j *Journal) Undo(chords []chord.Chord) bool {
	if !j.CanUndo() {
		return false
	}
	j.cursor--
	applySnapshot(chords, j.actions[j.cursor].Indices, j.actions[j.cursor].Before)
	return true
}

// Redo applies the after-snapshot of the action at the cursor to the given
// chord list and advances the cursor. Returns false if there is nothing to
// redo.
func (j *Journal) Redo(chords []chord.Chord) bool {
	if !j.CanRedo() {
		return false
	}
	applySnapshot(chords, j.actions[j.cursor].Indices, j.actions[j.cursor].After)
	j.cursor++
	return true
}

// Clear empties the journal and resets the cursor.
func (j *Journal) Clear() {
	j.actions = nil
	j.cursor = 0
}

func applySnapshot(chords []chord.Chord, indices []int, snapshot []chord.Chord) {
	for i, idx := range indices {
		if idx < 0 || idx >= len(chords) || i >= len(snapshot) {
			continue
		}
		chords[idx] = snapshot[i].Clone()
	}
}

// NewAction builds an Action snapshot for a transform touching the given
// indices, deep-copying before/after chord values so the journal never
// aliases the live document (spec.md §3's ownership note).
func NewAction(indices []int, before, after []chord.Chord, description string, recorded time.Time) Action {
	a := Action{
		Indices:     append([]int(nil), indices...),
		Before:      make([]chord.Chord, len(before)),
		After:       make([]chord.Chord, len(after)),
		Description: description,
		Recorded:    recorded,
	}
	for i, c := range before {
		a.Before[i] = c.Clone()
	}
	for i, c := range after {
		a.After[i] = c.Clone()
	}
	return a
}

// DescribeTransform builds the default human-readable description used by
// internal/document when recording a transform action.
func DescribeTransform(count int, targetOrMode string) string {
	return fmt.Sprintf("transform %d chord(s) -> %s", count, targetOrMode)
}
