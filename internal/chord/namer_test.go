package chord

import "testing"

func TestName_RootPositionTriads(t *testing.T) {
	cases := []struct {
		pitches []int
		want    string
	}{
		{[]int{60, 64, 67}, "C"},       // C major
		{[]int{60, 63, 67}, "Cm"},      // C minor
		{[]int{60, 63, 66}, "Cdim"},    // C diminished
		{[]int{60, 64, 68}, "Caug"},    // C augmented
		{[]int{60, 65, 67}, "Csus4"},
		{[]int{60, 62, 67}, "Csus2"},
		{[]int{60, 64, 67, 70}, "C7"},
		{[]int{60, 64, 67, 71}, "Cmaj7"},
		{[]int{60, 63, 67, 70}, "Cm7"},
	}
	for _, c := range cases {
		got := Name(c.pitches)
		if got != c.want {
			t.Errorf("Name(%v) = %q, want %q", c.pitches, got, c.want)
		}
	}
}

func TestName_InversionEmitsSlashBass(t *testing.T) {
	// First inversion of C major: E-G-C (bass E).
	got := Name([]int{64, 67, 72})
	if got != "C/E" {
		t.Errorf("Name(E-G-C) = %q, want C/E", got)
	}
}

func TestName_FallbackDescriptive(t *testing.T) {
	// A pitch set with no tabulated quality pattern or inversion: four
	// semitones stacked in a cluster.
	got := Name([]int{60, 61, 62, 63})
	if got == "" {
		t.Fatal("expected non-empty fallback name")
	}
	if got[0] != 'C' {
		t.Errorf("fallback name should start with root letter, got %q", got)
	}
}

func TestParseName_SharpsAndFlats(t *testing.T) {
	rootSharp, pcsSharp, ok := ParseName("C#m")
	if !ok {
		t.Fatal("ParseName(C#m) failed")
	}
	rootFlat, pcsFlat, ok := ParseName("Dbm")
	if !ok {
		t.Fatal("ParseName(Dbm) failed")
	}
	if rootSharp != rootFlat {
		t.Errorf("C#m root %d != Dbm root %d", rootSharp, rootFlat)
	}
	if len(pcsSharp) != len(pcsFlat) {
		t.Fatalf("pitch class count mismatch")
	}
}

func TestParseName_RejectsBassAndFallbackShapes(t *testing.T) {
	if _, _, ok := ParseName("C/E"); ok {
		t.Error("ParseName should reject bass-annotated names")
	}
	if _, _, ok := ParseName("C (D, F)"); ok {
		t.Error("ParseName should reject fallback-shaped names")
	}
}

func TestName_Determinism(t *testing.T) {
	for key := range qualityIntervals {
		intervals := parseIntervalKey(key)
		pitches := make([]int, len(intervals))
		for i, iv := range intervals {
			pitches[i] = 60 + iv
		}
		first := Name(pitches)
		second := Name(pitches)
		if first != second {
			t.Errorf("Name not deterministic for %v: %q != %q", pitches, first, second)
		}
	}
}
