// Package transform implements the parametric chord transformer of
// spec.md §4.6: STANDARD, INVERSION, PERCENTAGE and SWITCH_TONALITY modes,
// dispatched against a source chord, a target name, and
// TransformationOptions.
package transform

import (
	"math"
	"sort"

	"github.com/chordforge/chordforge/internal/chord"
	"github.com/chordforge/chordforge/internal/midierr"
	"github.com/chordforge/chordforge/internal/voice"
)

// Mode is the tagged enum selecting a transform, per spec.md §3's
// TransformationOptions.
type Mode int

const (
	ModeStandard Mode = iota
	ModeInversion
	ModePercentage
	ModeSwitchTonality
)

// Options mirrors spec.md §3's TransformationOptions record.
type Options struct {
	Mode            Mode
	Inversion       int // 0..3
	Percentage      int // 0..100
	PreserveRoot    bool
	PreserveBass    bool
	UseVoiceLeading bool
}

// switchTonalityMap is spec.md §4.6's fixed major<->minor-family mapping.
var switchTonalityMap = map[string]string{
	"":      "m",
	"m":     "",
	"7":     "m7",
	"m7":    "7",
	"maj7":  "m7",
	"6":     "m6",
	"m6":    "6",
	"add9":  "madd9",
	"madd9": "add9",
	"9":     "m9",
	"m9":    "9",
	"maj9":  "m9",
	"dim":   "m",
	"m7♭5":  "dim7",
	"dim7":  "m7♭5",
	"aug":   "",
}

// Apply resolves targetName against the namer's tables and dispatches to
// the selected mode, returning the new pitch list for source. It does not
// mutate source; callers (internal/document) apply the result via
// chord.Chord.ApplyTransform so the journal can snapshot before/after.
func Apply(source chord.Chord, targetName string, opts Options, vopts voice.Options) ([]int, string, error) {
	switch opts.Mode {
	case ModeSwitchTonality:
		return applySwitchTonality(source, vopts)
	case ModeInversion:
		return applyInversion(source, targetName, opts, vopts)
	case ModePercentage:
		return applyPercentage(source, targetName, opts, vopts)
	default:
		return applyStandard(source, targetName, opts, vopts)
	}
}

func resolveTarget(targetName string) ([]int, error) {
	_, pcs, ok := chord.ParseName(targetName)
	if !ok {
		return nil, midierr.ErrUnsupportedTarget
	}
	return pcs, nil
}

// applyStandard labels the result with the target's canonical name (its
// root spelled with sharps, plus its quality), not with the name of the
// chosen voicing, so a C-to-Am rewrite voiced [60 64 69] reads "Am".
func applyStandard(source chord.Chord, targetName string, opts Options, vopts voice.Options) ([]int, string, error) {
	rootPC, pcs, quality, ok := chord.ParseNameQuality(targetName)
	if !ok {
		return nil, "", midierr.ErrUnsupportedTarget
	}
	var voicing []int
	if opts.UseVoiceLeading {
		voicing = voice.Lead(pcs, source.Pitches, vopts)
	} else {
		voicing = placeInCurrentOctave(pcs, source.Pitches)
	}
	return voicing, chord.PitchClassName(rootPC) + quality, nil
}

func applyInversion(source chord.Chord, targetName string, opts Options, vopts voice.Options) ([]int, string, error) {
	pcs, err := resolveTarget(targetName)
	if err != nil {
		return nil, "", err
	}
	if len(pcs) == 0 {
		return nil, "", midierr.ErrUnsupportedTarget
	}
	k := opts.Inversion
	if k > len(pcs)-1 {
		k = len(pcs) - 1
	}
	if k < 0 {
		k = 0
	}
	rotated := append([]int(nil), pcs...)
	for i := 0; i < k; i++ {
		rotated[i] += 12
	}
	sort.Ints(rotated)

	var voicing []int
	if opts.UseVoiceLeading {
		voicing = voice.Lead(rotated, source.Pitches, vopts)
	} else {
		voicing = placeInCurrentOctave(rotated, source.Pitches)
	}
	return voicing, chord.Name(dedupSorted(voicing)), nil
}

func applyPercentage(source chord.Chord, targetName string, opts Options, vopts voice.Options) ([]int, string, error) {
	pcs, err := resolveTarget(targetName)
	if err != nil {
		return nil, "", err
	}
	target := voice.Lead(pcs, source.Pitches, vopts)

	p := opts.Percentage
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	pairs := pairNearest(source.Pitches, target)
	out := make([]int, len(pairs))
	for i, pr := range pairs {
		v, w := pr[0], pr[1]
		out[i] = int(math.Round(float64(v) + float64(w-v)*float64(p)/100.0))
	}
	sort.Ints(out)
	return out, chord.Name(dedupSorted(out)), nil
}

func applySwitchTonality(source chord.Chord, vopts voice.Options) ([]int, string, error) {
	rootPC, _, quality, ok := chord.ParseNameQuality(source.Label)
	if !ok {
		return nil, "", midierr.ErrUnsupportedTarget
	}
	mapped, ok := switchTonalityMap[quality]
	if !ok {
		return nil, "", midierr.ErrUnsupportedTarget
	}
	targetName := chord.PitchClassName(rootPC) + mapped
	return applyStandard(source, targetName, Options{Mode: ModeStandard, UseVoiceLeading: true}, vopts)
}

// placeInCurrentOctave implements STANDARD's non-voice-led placement:
// T placed so that floor(min(T)/12) == floor(min(V)/12) (spec.md §4.6).
func placeInCurrentOctave(pcs, current []int) []int {
	if len(current) == 0 || len(pcs) == 0 {
		return dedupSorted(pcs)
	}
	minV := current[0]
	for _, v := range current {
		if v < minV {
			minV = v
		}
	}
	minT := pcs[0]
	for _, pc := range pcs {
		if pc < minT {
			minT = pc
		}
	}
	shift := 12 * (floorDiv(minV, 12) - floorDiv(minT, 12))
	out := make([]int, len(pcs))
	for i, pc := range pcs {
		out[i] = pc + shift
	}
	sort.Ints(out)
	return out
}

func normalizePC(pc int) int {
	return ((pc % 12) + 12) % 12
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func dedupSorted(pitches []int) []int {
	cp := append([]int(nil), pitches...)
	sort.Ints(cp)
	out := cp[:0]
	for i, p := range cp {
		if i == 0 || p != cp[i-1] {
			out = append(out, p)
		}
	}
	return out
}

// pairNearest implements spec.md §4.5/§4.6's PERCENTAGE pairing: each
// v in V paired with its nearest w in W (ties broken toward the
// later-indexed, i.e. higher, candidate), plus any w not claimed by a v
// paired with its own nearest v.
func pairNearest(v, w []int) [][2]int {
	claimedW := make([]bool, len(w))
	var pairs [][2]int
	for _, vv := range v {
		bestIdx := 0
		bestDist := -1
		for i, ww := range w {
			d := abs(vv - ww)
			if bestDist == -1 || d <= bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		if len(w) > 0 {
			claimedW[bestIdx] = true
			pairs = append(pairs, [2]int{vv, w[bestIdx]})
		}
	}
	for i, ww := range w {
		if claimedW[i] {
			continue
		}
		bestIdx := 0
		bestDist := -1
		for j, vv := range v {
			d := abs(vv - ww)
			if bestDist == -1 || d <= bestDist {
				bestDist = d
				bestIdx = j
			}
		}
		if len(v) > 0 {
			pairs = append(pairs, [2]int{v[bestIdx], ww})
		}
	}
	return pairs
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
