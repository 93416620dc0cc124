// Package progression implements the sliding-window diatonic progression
// matcher of spec.md §4.8: known quality-template patterns scored against
// every window of the labelled chord sequence.
package progression

import (
	"sort"

	"github.com/chordforge/chordforge/internal/chord"
)

// Pattern is a known progression: a sequence of bare chord qualities, a
// display name, the index within Qualities that names the pattern's tonic
// chord (used for the common-key comparison), and the tonic letters it is
// conventionally heard in.
type Pattern struct {
	Name        string
	Qualities   []string
	TonicOffset int
	CommonKeys  []string
}

// Patterns is the built-in table of recognized progressions. TonicOffset
// picks out which chord in the window names the key the progression is
// "in" — for patterns that don't start on the tonic (ii-V-I starts on ii),
// the common-key comparison uses that chord's root rather than the window's
// first chord, so "Dm7 G7 Cmaj7" scores against common keys as a
// progression in C, not in D.
var Patterns = []Pattern{
	{Name: "ii-V-I", Qualities: []string{"m", "7", ""}, TonicOffset: 2, CommonKeys: []string{"C", "F", "G", "D", "A", "E", "B♭"}},
	{Name: "I-V-vi-IV", Qualities: []string{"", "", "m", ""}, TonicOffset: 0, CommonKeys: []string{"C", "G", "D", "A", "E"}},
	{Name: "I-IV-V", Qualities: []string{"", "", ""}, TonicOffset: 0, CommonKeys: []string{"C", "G", "D", "A", "F"}},
	{Name: "i-iv-V", Qualities: []string{"m", "m", ""}, TonicOffset: 0, CommonKeys: []string{"A", "D", "E"}},
	{Name: "I-vi-IV-V", Qualities: []string{"", "m", "", ""}, TonicOffset: 0, CommonKeys: []string{"C", "G", "D"}},
	{Name: "vi-IV-I-V", Qualities: []string{"m", "", "", ""}, TonicOffset: 2, CommonKeys: []string{"C", "G", "D"}},
}

// Match is one scored occurrence of a known progression in the chord list.
type Match struct {
	Pattern    string
	StartIndex int
	RootName   string
	Confidence float64
}

const confidenceThreshold = 0.6

// majorFamilyExact holds the qualities that count as an exact match for a
// major-family target of "", per spec.md §4.8 ("where target is '' this
// matches '', 'maj7', '6', '9'").
var majorFamilyExact = map[string]bool{"": true, "maj7": true, "6": true, "9": true}

func qualityMatches(target, actual string) (score float64, ok bool) {
	if target == actual {
		return 1.0, true
	}
	if target == "" && majorFamilyExact[actual] {
		return 1.0, true
	}
	if len(target) > 0 && len(actual) > 0 && target[0] == actual[0] {
		return 0.5, true
	}
	return 0, false
}

// Detect scans every starting index and every known pattern, scoring the
// window and emitting matches that clear confidenceThreshold, sorted
// descending.
func Detect(chords []chord.Chord) []Match {
	var matches []Match

	for i := range chords {
		for _, pattern := range Patterns {
			n := len(pattern.Qualities)
			if i+n > len(chords) {
				continue
			}
			total := 0.0
			matched := true
			var tonicRootPC int
			var tonicRootOK bool
			for j := 0; j < n; j++ {
				rootPC, _, quality, ok := chord.ParseNameQuality(chords[i+j].Label)
				if !ok {
					matched = false
					break
				}
				if j == pattern.TonicOffset {
					tonicRootPC = rootPC
					tonicRootOK = true
				}
				score, ok := qualityMatches(pattern.Qualities[j], quality)
				if !ok {
					matched = false
					break
				}
				total += score
			}
			if !matched || !tonicRootOK {
				continue
			}

			confidence := total / float64(n)
			rootName := chord.PitchClassName(tonicRootPC)
			if commonKeyMatch(rootName, pattern.CommonKeys) {
				confidence *= 1.2
			} else {
				confidence *= 0.8
			}

			if confidence >= confidenceThreshold {
				matches = append(matches, Match{
					Pattern:    pattern.Name,
					StartIndex: i,
					RootName:   rootName,
					Confidence: confidence,
				})
			}
		}
	}

	sort.SliceStable(matches, func(a, b int) bool { return matches[a].Confidence > matches[b].Confidence })
	return matches
}

// commonKeyMatch uses case-sensitive string equality, per spec.md's §9
// design note flagging the "C" vs "Cm" ambiguity as unresolved rather than
// guessed at.
func commonKeyMatch(rootName string, commonKeys []string) bool {
	for _, k := range commonKeys {
		if k == rootName {
			return true
		}
	}
	return false
}
