// Package keydetect implements the 24-key scorer of spec.md §4.7: a
// pitch-class histogram over the labelled chord sequence, scaled by
// tonic/dominant/subdominant presence and chord-function cues.
package keydetect

import (
	"sort"

	"github.com/chordforge/chordforge/internal/chord"
	"github.com/chordforge/chordforge/internal/midierr"
)

// KeySignature mirrors spec.md §3's KeySignature record.
type KeySignature struct {
	Root          string
	RootPC        int
	Major         bool
	Scale         [7]int // pitch classes, ascending by scale degree
	DegreeQuality [7]string
	Confidence    float64
}

var majorScaleSteps = [7]int{0, 2, 4, 5, 7, 9, 11}
var minorScaleSteps = [7]int{0, 2, 3, 5, 7, 8, 10}

var majorDegreeQuality = [7]string{"", "m", "m", "", "7", "m", "dim"}
var minorDegreeQuality = [7]string{"m", "dim", "", "m", "m", "", ""}

var majorTonicFamily = map[string]bool{"": true, "maj7": true, "6": true}
var minorTonicFamily = map[string]bool{"m": true, "m7": true}

const confidenceThreshold = 0.6

func scaleFor(rootPC int, major bool) [7]int {
	steps := minorScaleSteps
	if major {
		steps = majorScaleSteps
	}
	var out [7]int
	for i, s := range steps {
		out[i] = ((rootPC + s) % 12)
	}
	return out
}

// Detect builds the pitch-class histogram from chords and scores every key,
// returning the argmax if its score clears confidenceThreshold. Otherwise it
// returns midierr.ErrNoConfidentKey, per spec.md §4.7's "signal no
// confident key".
func Detect(chords []chord.Chord) (KeySignature, error) {
	var hist [12]float64
	var total float64
	for _, c := range chords {
		for _, pc := range c.PitchClasses() {
			hist[pc]++
			total++
		}
	}
	if total == 0 {
		return KeySignature{}, midierr.ErrEmptyDocument
	}

	var best KeySignature
	bestScore := -1.0

	for rootPC := 0; rootPC < 12; rootPC++ {
		for _, major := range []bool{true, false} {
			scale := scaleFor(rootPC, major)
			score := 0.0
			for _, pc := range scale {
				score += hist[pc]
			}
			score /= total

			tonicPC := rootPC
			dominantPC := (rootPC + 7) % 12
			subdominantPC := (rootPC + 5) % 12

			if hist[tonicPC] > 0 {
				score *= 1.2
			}
			if hist[dominantPC] > 0 {
				score *= 1.1
			}
			if hist[subdominantPC] > 0 {
				score *= 1.05
			}

			tonicFamily := minorTonicFamily
			if major {
				tonicFamily = majorTonicFamily
			}

			for _, c := range chords {
				rootPC2, quality, ok := chordRootQuality(c)
				if !ok {
					continue
				}
				if rootPC2 == tonicPC && tonicFamily[quality] {
					score *= 1.3
				}
				if rootPC2 == dominantPC && (quality == "" || quality == "7") {
					score *= 1.2
				}
				if rootPC2 == subdominantPC && tonicFamily[quality] {
					score *= 1.1
				}
			}

			if score > bestScore {
				bestScore = score
				degreeQuality := minorDegreeQuality
				if major {
					degreeQuality = majorDegreeQuality
				}
				best = KeySignature{
					Root:          chord.PitchClassName(rootPC),
					RootPC:        rootPC,
					Major:         major,
					Scale:         scale,
					DegreeQuality: degreeQuality,
					Confidence:    score,
				}
			}
		}
	}

	if bestScore < confidenceThreshold {
		return KeySignature{}, midierr.ErrNoConfidentKey
	}
	return best, nil
}

// chordRootQuality recovers a chord's root pitch class and bare quality
// suffix from its current label, ignoring fallback-shaped and bass-annotated
// labels that don't resolve through the namer's tables.
func chordRootQuality(c chord.Chord) (int, string, bool) {
	rootPC, _, quality, ok := chord.ParseNameQuality(c.Label)
	return rootPC, quality, ok
}

// SortedCandidates returns every key signature scored above 0, sorted by
// descending confidence, for host-facing diagnostics beyond the single
// argmax Detect reports.
func SortedCandidates(chords []chord.Chord) []KeySignature {
	var hist [12]float64
	var total float64
	for _, c := range chords {
		for _, pc := range c.PitchClasses() {
			hist[pc]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	var out []KeySignature
	for rootPC := 0; rootPC < 12; rootPC++ {
		for _, major := range []bool{true, false} {
			scale := scaleFor(rootPC, major)
			score := 0.0
			for _, pc := range scale {
				score += hist[pc]
			}
			score /= total
			if hist[rootPC] > 0 {
				score *= 1.2
			}
			if hist[(rootPC+7)%12] > 0 {
				score *= 1.1
			}
			if hist[(rootPC+5)%12] > 0 {
				score *= 1.05
			}
			degreeQuality := minorDegreeQuality
			if major {
				degreeQuality = majorDegreeQuality
			}
			out = append(out, KeySignature{
				Root:          chord.PitchClassName(rootPC),
				RootPC:        rootPC,
				Major:         major,
				Scale:         scale,
				DegreeQuality: degreeQuality,
				Confidence:    score,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}
