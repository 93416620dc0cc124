package dump

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chordforge/chordforge/internal/chord"
)

func TestWrite_HeaderAndChordCount(t *testing.T) {
	chords := []chord.Chord{
		{Pitches: []int{60, 64, 67}, Onset: 0, Duration: 480, Label: "C"},
	}
	var buf bytes.Buffer
	if err := Write(&buf, "song.mid", chords); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "song.mid") {
		t.Fatalf("want source name in header, got %q", out)
	}
	if !strings.Contains(out, "chords: 1") {
		t.Fatalf("want chord count in header, got %q", out)
	}
	if !strings.Contains(out, "1. C") {
		t.Fatalf("want 1-based indexed record, got %q", out)
	}
	if !strings.Contains(out, "C4,E4,G4") {
		t.Fatalf("want spelled pitch names, got %q", out)
	}
}

func TestWrite_TransformedChordShowsOriginal(t *testing.T) {
	c := chord.Chord{Pitches: []int{60, 64, 69}, Onset: 0, Duration: 480, Label: "Am"}
	c.ApplyTransform([]int{60, 64, 69}, "Am")
	chords := []chord.Chord{c}

	var buf bytes.Buffer
	if err := Write(&buf, "song.mid", chords); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "was") {
		t.Fatalf("want original-state line for transformed chord, got %q", buf.String())
	}
}

func TestPitchName_MiddleCIsC4(t *testing.T) {
	if got := PitchName(60); got != "C4" {
		t.Fatalf("PitchName(60) = %q, want C4", got)
	}
	if got := PitchName(69); got != "A4" {
		t.Fatalf("PitchName(69) = %q, want A4", got)
	}
	if got := PitchName(0); got != "C-1" {
		t.Fatalf("PitchName(0) = %q, want C-1", got)
	}
}
