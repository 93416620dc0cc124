// Package dump writes the chord analysis dump described in spec.md §6: a
// plain UTF-8 text report of a document's labelled chords, one record per
// chord, naming original pitches/label for any chord that was transformed.
package dump

import (
	"fmt"
	"io"
	"strings"

	"github.com/chordforge/chordforge/internal/chord"
)

// Write renders a chord analysis dump for chords, sourced from a file named
// name, to w. The output is plain text, newline-terminated, with no
// trailing blank line. Returns the first error encountered writing to w.
func Write(w io.Writer, name string, chords []chord.Chord) error {
	if _, err := fmt.Fprintf(w, "chordforge analysis: %s\n", name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "chords: %d\n", len(chords)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40)); err != nil {
		return err
	}

	for i, c := range chords {
		if _, err := fmt.Fprintf(w, "%d. %s  onset=%d duration=%d pitches=%s\n",
			i+1, c.Label, c.Onset, c.Duration, pitchNames(c.Pitches)); err != nil {
			return err
		}
		if c.Transformed {
			if _, err := fmt.Fprintf(w, "   was %s  pitches=%s\n", c.OriginalLabel, pitchNames(c.OriginalPitches)); err != nil {
				return err
			}
		}
	}
	return nil
}

// pitchNames renders a pitch list as a comma-separated list of
// letter-plus-octave note names (MIDI octave convention: note 60 = C4).
func pitchNames(pitches []int) string {
	names := make([]string, len(pitches))
	for i, p := range pitches {
		names[i] = PitchName(p)
	}
	return strings.Join(names, ",")
}

// PitchName spells a MIDI note number as {pitch-class-name}{octave}, using
// the namer's sharps-for-black-keys spelling (spec.md §4.4) and the
// convention that note 60 is C4.
func PitchName(note int) string {
	pc := ((note % 12) + 12) % 12
	octave := note/12 - 1
	return fmt.Sprintf("%s%d", chord.PitchClassName(pc), octave)
}
