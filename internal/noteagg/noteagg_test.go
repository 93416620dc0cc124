package noteagg

import (
	"testing"

	"github.com/chordforge/chordforge/internal/midicodec"
)

func chEvent(delta uint32, status byte, d0, d1 byte) midicodec.Event {
	return midicodec.Event{DeltaTime: delta, Status: status, Kind: midicodec.KindChannel, Data: []byte{d0, d1}}
}

func TestAggregate_BasicPairing(t *testing.T) {
	mf := &midicodec.MidiFile{
		Tracks: []midicodec.Track{{Events: []midicodec.Event{
			chEvent(0, 0x90, 60, 100),
			chEvent(480, 0x80, 60, 0),
		}}},
	}
	notes := Aggregate(mf)
	if len(notes) != 1 {
		t.Fatalf("want 1 note, got %d", len(notes))
	}
	n := notes[0]
	if n.Pitch != 60 || n.Onset != 0 || n.Duration != 480 || n.Velocity != 100 {
		t.Fatalf("unexpected note: %+v", n)
	}
}

func TestAggregate_VelocityZeroIsNoteOff(t *testing.T) {
	mf := &midicodec.MidiFile{
		Tracks: []midicodec.Track{{Events: []midicodec.Event{
			chEvent(0, 0x90, 64, 90),
			chEvent(240, 0x90, 64, 0), // note-on velocity 0 == note-off
		}}},
	}
	notes := Aggregate(mf)
	if len(notes) != 1 || notes[0].Duration != 240 {
		t.Fatalf("unexpected notes: %+v", notes)
	}
}

func TestAggregate_UnclosedForceClosedAtTrackEnd(t *testing.T) {
	mf := &midicodec.MidiFile{
		Tracks: []midicodec.Track{{Events: []midicodec.Event{
			chEvent(0, 0x90, 67, 80),
			chEvent(100, 0xFF, 0, 0), // unrelated trailing delta advances tick
		}}},
	}
	notes := Aggregate(mf)
	if len(notes) != 1 {
		t.Fatalf("want 1 note, got %d", len(notes))
	}
	if notes[0].Duration != 100 {
		t.Fatalf("want force-closed duration 100, got %d", notes[0].Duration)
	}
}

func TestAggregate_SortedByOnsetThenPitch(t *testing.T) {
	mf := &midicodec.MidiFile{
		Tracks: []midicodec.Track{{Events: []midicodec.Event{
			chEvent(0, 0x90, 67, 80),
			chEvent(0, 0x90, 60, 80),
			chEvent(0, 0x90, 64, 80),
			chEvent(10, 0x80, 60, 0),
			chEvent(0, 0x80, 64, 0),
			chEvent(0, 0x80, 67, 0),
		}}},
	}
	notes := Aggregate(mf)
	if len(notes) != 3 {
		t.Fatalf("want 3 notes, got %d", len(notes))
	}
	for i, want := range []uint8{60, 64, 67} {
		if notes[i].Pitch != want {
			t.Fatalf("notes[%d].Pitch = %d, want %d", i, notes[i].Pitch, want)
		}
	}
}
