// Package voice implements the voice-leading search described in spec.md
// §4.5: given target pitch classes and a current voicing, pick the octave
// placement that minimizes per-voice movement under the documented cost
// function.
package voice

import "sort"

// Options mirrors spec.md §3's VoiceLeadingOptions record.
type Options struct {
	MinimizeMovement   bool
	AvoidParallels     bool
	MaintainVoiceCount bool
	MaxVoiceMovement   int // default 7 semitones
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{MaxVoiceMovement: 7}
}

// MovementRecord reports how one voice of the prior voicing maps to the
// chosen new voicing, for host-facing "analyze voice movement" reporting
// (spec.md §4.5).
type MovementRecord struct {
	Original int
	New      int
	Delta    int // signed semitone delta, New - Original
	Optimal  bool
}

// octaveWindow computes spec.md §4.5's enumeration window:
// [min(floor(min(V)/12)-1, 0), min(floor(max(V)/12)+1, 10)].
func octaveWindow(current []int) (lo, hi int) {
	if len(current) == 0 {
		return 0, 10
	}
	minV, maxV := current[0], current[0]
	for _, v := range current {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	lo = min(floorDiv(minV, 12)-1, 0)
	hi = min(floorDiv(maxV, 12)+1, 10)
	return lo, hi
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Lead enumerates every octave assignment of each target pitch class in
// the search window, scores each candidate against the documented cost
// function, and returns the argmin. Among candidates of equal cost, the one
// whose own pitches lie closest to the current voicing (summed distance from
// each candidate pitch to its nearest current pitch) wins; remaining ties go
// to the first enumerated. If no candidate survives the
// avoid-parallels filter, the first enumerated candidate is returned; if
// none was enumerated at all (empty target set), T placed in octave 5 is
// returned (spec.md §4.5).
func Lead(targetPCs []int, current []int, opts Options) []int {
	if len(targetPCs) == 0 {
		return nil
	}

	lo, hi := octaveWindow(current)
	if hi < lo {
		hi = lo
	}
	candidates := enumerate(targetPCs, lo, hi)
	if len(candidates) == 0 {
		out := make([]int, len(targetPCs))
		for i, pc := range targetPCs {
			out[i] = normalizePC(pc) + 12*5
		}
		return out
	}

	var best []int
	bestCost := 0.0
	bestSpread := 0
	bestSet := false
	var firstCandidate []int
	anyPassedFilter := false

	for _, w := range candidates {
		if firstCandidate == nil {
			firstCandidate = w
		}
		if opts.AvoidParallels && hasParallelMotion(current, w) {
			continue
		}
		anyPassedFilter = true
		c := cost(current, w, opts)
		spread := 0
		if len(current) > 0 {
			for _, p := range w {
				spread += nearestDistance(p, current)
			}
		}
		if !bestSet || c < bestCost || (c == bestCost && spread < bestSpread) {
			best = w
			bestCost = c
			bestSpread = spread
			bestSet = true
		}
	}

	if !anyPassedFilter {
		return firstCandidate
	}
	return best
}

// enumerate builds every assignment of each target pitch class to an
// octave in [lo, hi], yielding candidate voicings sorted ascending.
func enumerate(targetPCs []int, lo, hi int) [][]int {
	n := len(targetPCs)
	span := hi - lo + 1
	if span <= 0 {
		span = 1
	}
	var out [][]int
	indices := make([]int, n)
	for {
		cand := make([]int, n)
		for i, pc := range targetPCs {
			cand[i] = normalizePC(pc) + 12*(lo+indices[i])
		}
		sort.Ints(cand)
		out = append(out, cand)

		// odometer increment
		pos := n - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < span {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return out
}

func normalizePC(pc int) int {
	return ((pc % 12) + 12) % 12
}

// hasParallelMotion implements spec.md §4.5's parallel-fifth/octave test:
// for every unordered pair of voices, if the interval class (0 or 7) is
// preserved between V and W and both voices moved in the same nonzero
// direction, W is rejected. Only applies when V and W have the same
// cardinality; otherwise there is no positional correspondence to test.
func hasParallelMotion(v, w []int) bool {
	if len(v) != len(w) || len(v) < 2 {
		return false
	}
	for i := 0; i < len(v); i++ {
		for j := i + 1; j < len(v); j++ {
			ivClass := ((v[i] - v[j]) % 12 + 12) % 12
			if ivClass != 0 && ivClass != 7 {
				continue
			}
			wvClass := ((w[i] - w[j]) % 12 + 12) % 12
			if wvClass != ivClass {
				continue
			}
			di := w[i] - v[i]
			dj := w[j] - v[j]
			if di == 0 || dj == 0 {
				continue
			}
			if (di > 0) == (dj > 0) {
				return true
			}
		}
	}
	return false
}

// cost implements spec.md §4.5's documented movement-cost function.
func cost(v, w []int, opts Options) float64 {
	base := 0.0
	for _, voice := range v {
		d := nearestDistance(voice, w)
		if d > opts.MaxVoiceMovement {
			base += 10 * float64(d-opts.MaxVoiceMovement)
		}
		base += float64(d)
	}
	if opts.MaintainVoiceCount && len(v) != len(w) {
		base += 1000
	}
	if opts.MinimizeMovement {
		base *= 2
	}
	return base
}

func nearestDistance(voice int, w []int) int {
	best := abs(voice - w[0])
	for _, p := range w[1:] {
		if d := abs(voice - p); d < best {
			best = d
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// AnalyzeMovement reports, for each voice in the prior voicing v, the
// closest pitch in the new voicing w, the signed semitone delta, and
// whether it is the documented-optimal (i.e. argmin-distance) match. Any
// pitch in w that was not claimed as the nearest match for some v is
// reported with Original=0 as a sentinel "new voice" (spec.md §4.5).
func AnalyzeMovement(v, w []int) []MovementRecord {
	claimed := make([]bool, len(w))
	records := make([]MovementRecord, 0, len(v)+len(w))

	for _, orig := range v {
		bestIdx := -1
		bestDist := 0
		for i, p := range w {
			d := abs(orig - p)
			if bestIdx == -1 || d < bestDist {
				bestIdx = i
				bestDist = d
			}
		}
		if bestIdx >= 0 {
			claimed[bestIdx] = true
			records = append(records, MovementRecord{
				Original: orig,
				New:      w[bestIdx],
				Delta:    w[bestIdx] - orig,
				Optimal:  true,
			})
		}
	}

	for i, p := range w {
		if !claimed[i] {
			records = append(records, MovementRecord{Original: 0, New: p, Delta: p, Optimal: false})
		}
	}
	return records
}
