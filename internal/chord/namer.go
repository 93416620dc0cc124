package chord

import (
	"fmt"
	"sort"
	"strings"
)

// Name assigns a chord name to an ascending, duplicate-free pitch list,
// per spec.md §4.4: exact root-position match, else inversion search by
// rotating the lowest k interval entries up an octave, else a descriptive
// fallback.
func Name(pitches []int) string {
	if len(pitches) == 0 {
		return ""
	}
	root := pitches[0]
	intervals := make([]int, len(pitches))
	for i, p := range pitches {
		intervals[i] = p - root
	}

	if quality, ok := qualityIntervals[intervalKey(intervals)]; ok {
		return pitchClassName(root) + quality
	}

	for k := 1; k < len(intervals); k++ {
		rotated := append([]int(nil), intervals...)
		for i := 0; i < k; i++ {
			rotated[i] += 12
		}
		sort.Ints(rotated)
		base := rotated[0]
		normalized := make([]int, len(rotated))
		for i, v := range rotated {
			normalized[i] = v - base
		}
		if quality, ok := qualityIntervals[intervalKey(normalized)]; ok {
			rootPC := root + base
			bassPC := root
			return fmt.Sprintf("%s%s/%s", pitchClassName(rootPC), quality, pitchClassName(bassPC))
		}
	}

	others := make([]string, len(pitches)-1)
	for i, p := range pitches[1:] {
		others[i] = pitchClassName(p)
	}
	return fmt.Sprintf("%s (%s)", pitchClassName(root), strings.Join(others, ", "))
}

// ParseName resolves a chord-name string (as produced by Name, or typed by
// a caller selecting a transform target) into a root pitch class and
// quality-relative pitch-class set. It accepts both sharps and flats for
// the root letter's accidental, per spec.md's design note on
// noteNameToMidi — an intentional asymmetry with Name, which only emits
// sharps. Returns ok=false for a bass-annotated ("X/Y") or fallback-shaped
// name, which spec.md leaves as undefined transform targets.
func ParseName(name string) (rootPC int, pitchClasses []int, ok bool) {
	rootPC, pitchClasses, _, ok = ParseNameQuality(name)
	return rootPC, pitchClasses, ok
}

// ParseNameQuality is ParseName plus the bare quality suffix that was
// matched (e.g. "m7", "" for major), so callers such as SWITCH_TONALITY
// can look the quality up in their own mapping without re-deriving it from
// the resolved pitch classes.
func ParseNameQuality(name string) (rootPC int, pitchClasses []int, quality string, ok bool) {
	if name == "" || strings.ContainsAny(name, "/(") {
		return 0, nil, "", false
	}
	letter := name[0]
	base, known := noteLetters[upperByte(letter)]
	if !known {
		return 0, nil, "", false
	}
	rest := name[1:]
	accidental := 0
accidentals:
	for len(rest) > 0 {
		switch {
		case strings.HasPrefix(rest, "#"), strings.HasPrefix(rest, "♯"):
			accidental++
		case strings.HasPrefix(rest, "b"), strings.HasPrefix(rest, "♭"):
			accidental--
		default:
			break accidentals
		}
		if rest[0] == '#' || rest[0] == 'b' {
			rest = rest[1:]
		} else {
			rest = rest[len("♯"):]
		}
	}
	intervals, known := qualityToIntervals[rest]
	if !known {
		return 0, nil, "", false
	}
	rootPC = ((base + accidental) % 12 + 12) % 12
	pcs := make([]int, len(intervals))
	for i, iv := range intervals {
		pcs[i] = ((rootPC+iv)%12 + 12) % 12
	}
	return rootPC, pcs, rest, true
}

// PitchClassName spells pc (reduced mod 12) using sharps, exported for
// callers (e.g. internal/transform's SWITCH_TONALITY) that need to build a
// target name from a resolved pitch class.
func PitchClassName(pc int) string {
	return pitchClassName(pc)
}

func upperByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
