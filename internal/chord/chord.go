// Package chord defines the Chord data type and the segmenter/namer passes
// that turn aggregated notes into labelled chords, per spec.md §3 and
// §4.3/§4.4.
package chord

// Chord is an ordered collection of ascending, duplicate-free pitches with
// an onset, duration, label, and — if transformed — a shadow of the
// original pitches and label. Created by the segmenter; mutated through
// Update and ApplyTransform, and replaced as a whole value by the journal
// on undo/redo.
type Chord struct {
	Pitches  []int
	Onset    uint32
	Duration uint32
	Label    string

	Transformed     bool
	OriginalPitches []int
	OriginalLabel   string
}

// Clone returns a deep copy, used whenever a Chord crosses an ownership
// boundary (journal snapshots, cache entries) so no aliasing exists between
// the live document and any stored copy (spec.md §3's ownership note).
func (c Chord) Clone() Chord {
	out := c
	out.Pitches = append([]int(nil), c.Pitches...)
	if c.OriginalPitches != nil {
		out.OriginalPitches = append([]int(nil), c.OriginalPitches...)
	}
	return out
}

// Update replaces pitches and label in place. It does not touch the
// transformation shadow. The journal does not use it: undo/redo restores a
// prior Chord value wholesale from the journal's snapshot copy.
func (c *Chord) Update(pitches []int, label string) {
	c.Pitches = append([]int(nil), pitches...)
	c.Label = label
}

// ApplyTransform mutates the chord to the new pitches/label, recording the
// pre-transform pitches/label the first time a chord is touched
// (spec.md §4.6: "A transform on a previously-untouched chord records
// original_pitches = V and original_name = name before mutation; on a
// subsequent transform only name/pitches change.").
func (c *Chord) ApplyTransform(pitches []int, label string) {
	if !c.Transformed {
		c.OriginalPitches = append([]int(nil), c.Pitches...)
		c.OriginalLabel = c.Label
		c.Transformed = true
	}
	c.Pitches = append([]int(nil), pitches...)
	c.Label = label
}

// PitchClasses returns each pitch reduced mod 12.
func (c Chord) PitchClasses() []int {
	out := make([]int, len(c.Pitches))
	for i, p := range c.Pitches {
		out[i] = ((p % 12) + 12) % 12
	}
	return out
}
