package chord

import (
	"log/slog"
	"sort"

	"github.com/chordforge/chordforge/internal/noteagg"
)

// DefaultTickTolerance is the default onset-grouping tolerance τ (spec.md
// §4.3).
const DefaultTickTolerance = 120

// anchor groups notes whose onsets lie within the tick tolerance of the
// anchor's own onset tick.
type anchor struct {
	tick    uint32
	members []noteagg.Note
}

// Segment groups onset-sorted notes into chords within tickTolerance
// ticks, per spec.md §4.3. Notes are swept in order; each is assigned to
// the first existing anchor within tolerance or, failing that, opens a new
// anchor at its own onset. Anchors with fewer than 3 distinct pitches are
// dropped.
//
// Idempotent: running Segment twice over the same note slice produces
// identical chord lists (spec.md §8's Segmenter idempotence property),
// because anchor assignment depends only on each note's onset relative to
// already-opened anchors, and the input is always onset-sorted.
func Segment(notes []noteagg.Note, tickTolerance uint32) []Chord {
	var anchors []*anchor

	for _, n := range notes {
		placed := false
		for _, a := range anchors {
			if absDiff(n.Onset, a.tick) <= tickTolerance {
				a.members = append(a.members, n)
				placed = true
				break
			}
		}
		if !placed {
			anchors = append(anchors, &anchor{tick: n.Onset, members: []noteagg.Note{n}})
		}
	}

	sort.Slice(anchors, func(i, j int) bool { return anchors[i].tick < anchors[j].tick })

	var chords []Chord
	for i, a := range anchors {
		pitchSet := make(map[int]bool)
		for _, n := range a.members {
			pitchSet[int(n.Pitch)] = true
		}
		if len(pitchSet) < 3 {
			continue
		}
		pitches := make([]int, 0, len(pitchSet))
		for p := range pitchSet {
			pitches = append(pitches, p)
		}
		sort.Ints(pitches)

		var duration uint32
		if i+1 < len(anchors) {
			duration = anchors[i+1].tick - a.tick
		} else {
			for _, n := range a.members {
				if n.Duration > duration {
					duration = n.Duration
				}
			}
		}

		chords = append(chords, Chord{
			Pitches:  pitches,
			Onset:    a.tick,
			Duration: duration,
			Label:    Name(pitches),
		})
	}

	slog.Debug("chord: segmented", "notes", len(notes), "anchors", len(anchors), "chords", len(chords))
	return chords
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
