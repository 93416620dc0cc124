package chord

import "strconv"

// pitchClassNames spells every pitch class using sharps only for black
// keys, per spec.md §4.4's stated asymmetry: the namer never emits flats,
// even though target-name parsing accepts them (see ParseName).
var pitchClassNames = [12]string{"C", "C♯", "D", "D♯", "E", "F", "F♯", "G", "G♯", "A", "A♯", "B"}

// pitchClassName spells pc (any integer, reduced mod 12) using sharps.
func pitchClassName(pc int) string {
	pc = ((pc % 12) + 12) % 12
	return pitchClassNames[pc]
}

// noteLetters maps a natural-letter name to its pitch class in C.
var noteLetters = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// qualityIntervals is the static table of interval vectors (root-position,
// offsets from the lowest pitch) to chord-quality suffixes, per spec.md
// §4.4. Keys are the canonical comma-joined interval string.
var qualityIntervals = map[string]string{
	// triads
	"0,4,7": "", // major
	"0,3,7": "m",
	"0,3,6": "dim",
	"0,4,8": "aug",
	"0,5,7": "sus4",
	"0,2,7": "sus2",
	// sevenths
	"0,4,7,10": "7",
	"0,4,7,11": "maj7",
	"0,3,7,10": "m7",
	"0,3,6,9":  "dim7",
	"0,3,6,10": "m7♭5",
	"0,4,8,10": "aug7",
	"0,5,7,10": "7sus4",
	// sixths
	"0,4,7,9": "6",
	"0,3,7,9": "m6",
	// ninths / adds
	"0,4,7,10,14": "9",
	"0,4,7,11,14": "maj9",
	"0,3,7,10,14": "m9",
	"0,4,7,14":    "add9",
	"0,3,7,14":    "madd9",
}

// qualityToIntervals is the reverse of qualityIntervals, used to resolve a
// target chord name's pitch classes (spec.md §4.6's "via the namer's
// tables").
var qualityToIntervals = buildReverseTable()

func buildReverseTable() map[string][]int {
	rev := make(map[string][]int, len(qualityIntervals))
	for key, quality := range qualityIntervals {
		rev[quality] = parseIntervalKey(key)
	}
	return rev
}

func parseIntervalKey(key string) []int {
	var out []int
	start := 0
	for i := 0; i <= len(key); i++ {
		if i == len(key) || key[i] == ',' {
			v, _ := strconv.Atoi(key[start:i])
			out = append(out, v)
			start = i + 1
		}
	}
	return out
}

// intervalKey formats a sorted, zero-based interval slice into the table's
// canonical lookup key.
func intervalKey(intervals []int) string {
	s := make([]byte, 0, len(intervals)*3)
	for i, v := range intervals {
		if i > 0 {
			s = append(s, ',')
		}
		s = strconv.AppendInt(s, int64(v), 10)
	}
	return string(s)
}
