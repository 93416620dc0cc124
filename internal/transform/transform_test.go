package transform

import (
	"testing"

	"github.com/chordforge/chordforge/internal/chord"
	"github.com/chordforge/chordforge/internal/voice"
)

func TestApply_StandardVoiceLedCtoAm(t *testing.T) {
	source := chord.Chord{Pitches: []int{60, 64, 67}, Label: "C"}
	pitches, label, err := Apply(source, "Am", Options{Mode: ModeStandard, UseVoiceLeading: true}, voice.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{60, 64, 69}
	if len(pitches) != len(want) {
		t.Fatalf("want %v, got %v", want, pitches)
	}
	for i, p := range want {
		if pitches[i] != p {
			t.Fatalf("want %v, got %v", want, pitches)
		}
	}
	if label != "Am" {
		t.Fatalf("want label Am, got %s", label)
	}
}

func TestApply_PercentageHalfwayToF(t *testing.T) {
	source := chord.Chord{Pitches: []int{60, 64, 67}, Label: "C"}
	opts := Options{Mode: ModePercentage, Percentage: 50, UseVoiceLeading: true}
	pitches, _, err := Apply(source, "F", opts, voice.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{60, 65, 68}
	if len(pitches) != len(want) {
		t.Fatalf("want %v, got %v", want, pitches)
	}
	for i, p := range want {
		if pitches[i] != p {
			t.Fatalf("want %v, got %v", want, pitches)
		}
	}
}

func TestApply_SwitchTonalityMajorToMinor(t *testing.T) {
	source := chord.Chord{Pitches: []int{60, 64, 67, 71}, Label: "Cmaj7"}
	pitches, label, err := Apply(source, "", Options{Mode: ModeSwitchTonality, UseVoiceLeading: true}, voice.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "Cm7" {
		t.Fatalf("want label Cm7, got %s", label)
	}
	if len(pitches) != 4 {
		t.Fatalf("want 4 pitches, got %v", pitches)
	}
}

func TestApply_SwitchTonalityRoundTrip(t *testing.T) {
	source := chord.Chord{Pitches: []int{60, 63, 67}, Label: "Cm"}
	_, label, err := Apply(source, "", Options{Mode: ModeSwitchTonality, UseVoiceLeading: true}, voice.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "C" {
		t.Fatalf("want label C, got %s", label)
	}
}

func TestApply_InversionRotatesLowestVoices(t *testing.T) {
	source := chord.Chord{Pitches: []int{60, 64, 67}, Label: "C"}
	opts := Options{Mode: ModeInversion, Inversion: 1, UseVoiceLeading: false}
	pitches, label, err := Apply(source, "C", opts, voice.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "C/E" {
		t.Fatalf("want label C/E, got %s", label)
	}
	if len(pitches) != 3 {
		t.Fatalf("want 3 pitches, got %v", pitches)
	}
}

func TestApply_UnresolvedTargetNameIsError(t *testing.T) {
	source := chord.Chord{Pitches: []int{60, 64, 67}, Label: "C"}
	_, _, err := Apply(source, "NotAChord", Options{Mode: ModeStandard}, voice.DefaultOptions())
	if err == nil {
		t.Fatalf("want error for unresolvable target name")
	}
}

func TestApply_SwitchTonalityOnFallbackLabelIsError(t *testing.T) {
	source := chord.Chord{Pitches: []int{60, 61, 67}, Label: "C (C#, G)"}
	_, _, err := Apply(source, "", Options{Mode: ModeSwitchTonality}, voice.DefaultOptions())
	if err == nil {
		t.Fatalf("want error for a fallback-shaped label under SWITCH_TONALITY")
	}
}
