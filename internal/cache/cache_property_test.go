package cache

import (
	"math/rand"
	"testing"

	"github.com/chordforge/chordforge/internal/chord"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func randomChords(seed int64, n int) []chord.Chord {
	rnd := rand.New(rand.NewSource(seed))
	chords := make([]chord.Chord, n)
	for i := range chords {
		chords[i] = chord.Chord{
			Pitches:  []int{60 + rnd.Intn(12), 64 + rnd.Intn(12), 67 + rnd.Intn(12)},
			Onset:    uint32(i * 480),
			Duration: 480,
			Label:    "X",
		}
	}
	return chords
}

func chordsBitEqual(a, b []chord.Chord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Label != b[i].Label || a[i].Onset != b[i].Onset || a[i].Duration != b[i].Duration {
			return false
		}
		if len(a[i].Pitches) != len(b[i].Pitches) {
			return false
		}
		for j := range a[i].Pitches {
			if a[i].Pitches[j] != b[i].Pitches[j] {
				return false
			}
		}
	}
	return true
}

// TestProperty_CacheEquivalence validates spec.md §8's Cache equivalence
// property: a second lookup of the same content hash produces a chord list
// bit-equal to what was stored, regardless of whether a real "load" would
// have serviced the request from the cache or recomputed it.
func TestProperty_CacheEquivalence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Get after Put reproduces the stored chord list exactly", prop.ForAll(
		func(seed int64, dataLen, chordCount int) bool {
			rnd := rand.New(rand.NewSource(seed))
			data := make([]byte, dataLen)
			rnd.Read(data)

			c := New()
			key := HashKey(data)
			original := randomChords(seed+1, chordCount)

			c.Put(key, original)
			got, ok := c.Get(key)
			if !ok {
				return false
			}
			if !chordsBitEqual(got, original) {
				return false
			}

			// A second independent Get must also reproduce it, and must not
			// alias the first Get's slice (deep-copy contract).
			got2, ok2 := c.Get(key)
			if !ok2 || !chordsBitEqual(got2, original) {
				return false
			}
			if len(got) > 0 && len(got2) > 0 {
				got[0].Label = "mutated"
				if got2[0].Label == "mutated" {
					return false
				}
			}
			return true
		},
		gen.Int64Range(1, 1<<30),
		gen.IntRange(0, 256),
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t)
}
