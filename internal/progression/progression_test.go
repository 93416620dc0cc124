package progression

import (
	"testing"

	"github.com/chordforge/chordforge/internal/chord"
)

func TestDetect_IiVIInC(t *testing.T) {
	chords := []chord.Chord{
		{Pitches: []int{62, 65, 69, 72}, Label: "Dm7"},
		{Pitches: []int{67, 71, 74, 77}, Label: "G7"},
		{Pitches: []int{60, 64, 67, 71}, Label: "Cmaj7"},
	}
	matches := Detect(chords)
	var found *Match
	for i := range matches {
		if matches[i].Pattern == "ii-V-I" {
			found = &matches[i]
			break
		}
	}
	if found == nil {
		t.Fatalf("want a ii-V-I match, got %+v", matches)
	}
	if found.RootName != "C" {
		t.Fatalf("want root C, got %s", found.RootName)
	}
	if found.Confidence < 0.72 {
		t.Fatalf("want confidence >= 0.72, got %v", found.Confidence)
	}
}

func TestDetect_NoMatchOnUnrelatedChords(t *testing.T) {
	chords := []chord.Chord{
		{Pitches: []int{60, 61, 62}, Label: "C (C♯, D)"},
	}
	matches := Detect(chords)
	if len(matches) != 0 {
		t.Fatalf("want no matches, got %+v", matches)
	}
}

func TestDetect_SortedDescending(t *testing.T) {
	chords := []chord.Chord{
		{Pitches: []int{62, 65, 69, 72}, Label: "Dm7"},
		{Pitches: []int{67, 71, 74, 77}, Label: "G7"},
		{Pitches: []int{60, 64, 67, 71}, Label: "Cmaj7"},
		{Pitches: []int{65, 69, 72}, Label: "F"},
		{Pitches: []int{67, 71, 74}, Label: "G"},
	}
	matches := Detect(chords)
	for i := 1; i < len(matches); i++ {
		if matches[i].Confidence > matches[i-1].Confidence {
			t.Fatalf("not sorted descending at index %d", i)
		}
	}
}
