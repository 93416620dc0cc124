// Package noteagg pairs note-on/note-off channel events into timed Note
// intervals, per spec.md §3 and §4.2.
package noteagg

import (
	"sort"

	"github.com/chordforge/chordforge/internal/midicodec"
)

// Note is a pitch in MIDI note-number space with an onset, duration,
// velocity and channel. Immutable after creation.
type Note struct {
	Pitch    uint8
	Onset    uint32
	Duration uint32
	Velocity uint8
	Channel  uint8
}

type pendingNote struct {
	onset    uint32
	velocity uint8
	channel  uint8
}

// Aggregate walks every track of a decoded MidiFile with a per-track
// running absolute-tick counter and emits Notes ordered by onset ascending,
// ties broken by pitch ascending (spec.md §4.2).
//
// A note-on with velocity > 0 opens a pending slot keyed by pitch; a
// note-off, or note-on with velocity 0, closes it. Notes still open at
// track end are force-closed at the track's final tick.
func Aggregate(mf *midicodec.MidiFile) []Note {
	var notes []Note

	for _, track := range mf.Tracks {
		var tick uint32
		pending := make(map[uint8]pendingNote) // keyed by pitch; spec.md's "per-(note-number) pending map"

		for _, ev := range track.Events {
			tick += ev.DeltaTime
			if ev.Kind != midicodec.KindChannel || len(ev.Data) != 2 {
				continue
			}
			pitch := ev.Data[0]

			switch {
			case ev.IsNoteOn():
				pending[pitch] = pendingNote{onset: tick, velocity: ev.Data[1], channel: ev.Channel()}
			case ev.IsNoteOff():
				if p, ok := pending[pitch]; ok {
					notes = append(notes, Note{
						Pitch:    pitch,
						Onset:    p.onset,
						Duration: tick - p.onset,
						Velocity: p.velocity,
						Channel:  p.channel,
					})
					delete(pending, pitch)
				}
			}
		}

		// Force-close any notes still sounding at the track's final tick.
		for pitch, p := range pending {
			notes = append(notes, Note{
				Pitch:    pitch,
				Onset:    p.onset,
				Duration: tick - p.onset,
				Velocity: p.velocity,
				Channel:  p.channel,
			})
		}
	}

	sort.Slice(notes, func(i, j int) bool {
		if notes[i].Onset != notes[j].Onset {
			return notes[i].Onset < notes[j].Onset
		}
		return notes[i].Pitch < notes[j].Pitch
	})
	return notes
}
