package journal

import (
	"testing"
	"time"

	"github.com/chordforge/chordforge/internal/chord"
)

func makeChords() []chord.Chord {
	return []chord.Chord{
		{Pitches: []int{60, 64, 67}, Label: "C"},
		{Pitches: []int{62, 65, 69}, Label: "Dm"},
	}
}

func TestJournal_UndoRedoRoundTrip(t *testing.T) {
	chords := makeChords()
	j := New()

	before := []chord.Chord{chords[0].Clone()}
	chords[0].Update([]int{60, 64, 69}, "Am")
	after := []chord.Chord{chords[0].Clone()}
	j.Record(NewAction([]int{0}, before, after, DescribeTransform(1, "Am"), time.Time{}))

	if !j.CanUndo() || j.CanRedo() {
		t.Fatalf("want CanUndo=true CanRedo=false after record, got %v %v", j.CanUndo(), j.CanRedo())
	}

	if ok := j.Undo(chords); !ok {
		t.Fatalf("want Undo to succeed")
	}
	if chords[0].Label != "C" {
		t.Fatalf("want chord restored to C, got %s", chords[0].Label)
	}
	if !j.CanRedo() || j.CanUndo() {
		t.Fatalf("want CanRedo=true CanUndo=false after undo, got %v %v", j.CanRedo(), j.CanUndo())
	}

	if ok := j.Redo(chords); !ok {
		t.Fatalf("want Redo to succeed")
	}
	if chords[0].Label != "Am" {
		t.Fatalf("want chord restored to Am, got %s", chords[0].Label)
	}
}

func TestJournal_RecordTruncatesRedoableTail(t *testing.T) {
	chords := makeChords()
	j := New()

	before := []chord.Chord{chords[0].Clone()}
	chords[0].Update([]int{60, 64, 69}, "Am")
	after := []chord.Chord{chords[0].Clone()}
	j.Record(NewAction([]int{0}, before, after, "to Am", time.Time{}))
	j.Undo(chords)

	before2 := []chord.Chord{chords[0].Clone()}
	chords[0].Update([]int{60, 63, 67}, "Cm")
	after2 := []chord.Chord{chords[0].Clone()}
	j.Record(NewAction([]int{0}, before2, after2, "to Cm", time.Time{}))

	if j.CanRedo() {
		t.Fatalf("want no redo available after a new action supersedes the undone one")
	}
	if !j.Undo(chords) {
		t.Fatalf("want undo to succeed")
	}
	if chords[0].Label != "C" {
		t.Fatalf("want chord restored to original C, got %s", chords[0].Label)
	}
}

func TestJournal_CapEvictsOldestAndDecrementsCursor(t *testing.T) {
	j := NewWithCap(2)
	chords := []chord.Chord{{Pitches: []int{60}, Label: "C"}}

	record := func(label string) {
		before := []chord.Chord{chords[0].Clone()}
		chords[0].Label = label
		after := []chord.Chord{chords[0].Clone()}
		j.Record(NewAction([]int{0}, before, after, label, time.Time{}))
	}

	record("A")
	record("B")
	record("C2")

	if len(j.actions) != 2 {
		t.Fatalf("want journal capped at 2 actions, got %d", len(j.actions))
	}
	if j.cursor != 2 {
		t.Fatalf("want cursor at 2 after cap eviction, got %d", j.cursor)
	}
}

func TestJournal_UndoRedoLawForSequenceOfTransforms(t *testing.T) {
	chords := makeChords()
	j := New()
	initial := chords[0].Clone()

	labels := []string{"Am", "Em", "Dm7"}
	pitchSets := [][]int{{60, 64, 69}, {60, 64, 68}, {60, 62, 65, 69}}
	for i, label := range labels {
		before := []chord.Chord{chords[0].Clone()}
		chords[0].Update(pitchSets[i], label)
		after := []chord.Chord{chords[0].Clone()}
		j.Record(NewAction([]int{0}, before, after, label, time.Time{}))
	}
	final := chords[0].Clone()

	for i := 0; i < len(labels); i++ {
		if !j.Undo(chords) {
			t.Fatalf("undo %d should succeed", i)
		}
	}
	if chords[0].Label != initial.Label {
		t.Fatalf("want state equal to initial after undo^n, got %s", chords[0].Label)
	}

	for i := 0; i < len(labels); i++ {
		if !j.Redo(chords) {
			t.Fatalf("redo %d should succeed", i)
		}
	}
	if chords[0].Label != final.Label {
		t.Fatalf("want state equal to final after undo^n;redo^n, got %s", chords[0].Label)
	}
}

func TestJournal_ClearResetsState(t *testing.T) {
	j := New()
	chords := makeChords()
	before := []chord.Chord{chords[0].Clone()}
	chords[0].Label = "Am"
	after := []chord.Chord{chords[0].Clone()}
	j.Record(NewAction([]int{0}, before, after, "to Am", time.Time{}))

	j.Clear()
	if j.CanUndo() || j.CanRedo() {
		t.Fatalf("want no undo/redo available after Clear")
	}
}
