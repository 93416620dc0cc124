// Package document implements the host-facing API of spec.md §6: load/save
// a Standard MIDI File, read its labelled chords, transform selected
// chords, detect key and progression, and undo/redo through the journal.
// It owns the MidiFile, aggregated notes, chord list, and journal for a
// single open file — the "document context" of spec.md §5.
package document

import (
	"time"

	"github.com/chordforge/chordforge/internal/cache"
	"github.com/chordforge/chordforge/internal/chord"
	"github.com/chordforge/chordforge/internal/journal"
	"github.com/chordforge/chordforge/internal/keydetect"
	"github.com/chordforge/chordforge/internal/midicodec"
	"github.com/chordforge/chordforge/internal/midierr"
	"github.com/chordforge/chordforge/internal/noteagg"
	"github.com/chordforge/chordforge/internal/progression"
	"github.com/chordforge/chordforge/internal/transform"
	"github.com/chordforge/chordforge/internal/voice"
)

// TransformResult reports how a single requested index fared in a batch
// Transform call (spec.md §7: "offending indices are skipped and
// reported").
type TransformResult struct {
	Index int
	Err   error
}

// Document is a single open Standard MIDI File and everything derived from
// it: its decoded MidiFile, aggregated notes, labelled chords, and the
// undo/redo journal covering transforms applied to those chords.
type Document struct {
	mf            *midicodec.MidiFile
	notes         []noteagg.Note
	chords        []chord.Chord
	journal       *journal.Journal
	cache         *cache.Cache
	tickTolerance uint32
	voiceOptions  voice.Options
	contentHash   string
}

// New returns an empty Document. If c is non-nil, Load consults it before
// re-running aggregation/segmentation and populates it on a miss (spec.md
// §4.10).
func New(c *cache.Cache) *Document {
	return &Document{
		journal:       journal.New(),
		cache:         c,
		tickTolerance: chord.DefaultTickTolerance,
		voiceOptions:  voice.DefaultOptions(),
	}
}

// SetTimeTolerance sets the segmenter tick tolerance used by subsequent
// Load calls.
func (d *Document) SetTimeTolerance(ticks uint32) {
	d.tickTolerance = ticks
}

// Load decodes data as a Standard MIDI File, aggregates its notes, and
// segments/names its chords, consulting the cache first when one is
// configured. On any codec error the document is left in its previous
// state (spec.md §7).
func (d *Document) Load(data []byte) error {
	var key string
	if d.cache != nil {
		key = cache.HashKey(data)
		if cached, ok := d.cache.Get(key); ok {
			mf, err := midicodec.Decode(data)
			if err != nil {
				return err
			}
			d.mf = mf
			d.notes = noteagg.Aggregate(mf)
			d.chords = cached
			d.journal.Clear()
			d.contentHash = key
			return nil
		}
	}

	mf, err := midicodec.Decode(data)
	if err != nil {
		return err
	}
	notes := noteagg.Aggregate(mf)
	chords := chord.Segment(notes, d.tickTolerance)

	d.mf = mf
	d.notes = notes
	d.chords = chords
	d.journal.Clear()
	d.contentHash = key

	if d.cache != nil {
		d.cache.Put(key, chords)
	}
	return nil
}

// Save re-serializes the current chord sequence's originating MidiFile back
// to SMF bytes. Transformed chords have already mutated the in-memory
// pitches (ApplyTransform); Save does not itself re-flatten chords into
// track events — the engine's track events are the parsed original file,
// and transforms are reflected by the host re-reading Chords() for any
// presentation needs beyond raw SMF playback.
func (d *Document) Save() ([]byte, error) {
	if d.mf == nil {
		return nil, midierr.ErrEmptyDocument
	}
	return midicodec.Encode(d.mf), nil
}

// Chords returns a deep copy of the current labelled chord list.
func (d *Document) Chords() []chord.Chord {
	out := make([]chord.Chord, len(d.chords))
	for i, c := range d.chords {
		out[i] = c.Clone()
	}
	return out
}

// Transform applies targetNames[i]/opts to chords[indices[i]] for each i,
// recording one journal Action covering every index that actually changed.
// Indices that fail to resolve are skipped (not aborting the batch) and
// reported in the returned results, per spec.md §7.
func (d *Document) Transform(indices []int, targetNames []string, opts transform.Options) ([]TransformResult, error) {
	if len(d.chords) == 0 {
		return nil, midierr.ErrEmptyDocument
	}
	if len(indices) != len(targetNames) {
		return nil, midierr.New(midierr.KindOutOfRange, "indices and targetNames must be the same length")
	}

	var results []TransformResult
	var changedIndices []int
	var before, after []chord.Chord

	for i, idx := range indices {
		if idx < 0 || idx >= len(d.chords) {
			results = append(results, TransformResult{Index: idx, Err: midierr.New(midierr.KindOutOfRange, "chord index out of range")})
			continue
		}
		source := d.chords[idx]
		pitches, label, err := transform.Apply(source, targetNames[i], opts, d.voiceOptions)
		if err != nil {
			results = append(results, TransformResult{Index: idx, Err: err})
			continue
		}

		beforeSnapshot := d.chords[idx].Clone()
		d.chords[idx].ApplyTransform(clampPitches(pitches), label)
		afterSnapshot := d.chords[idx].Clone()

		changedIndices = append(changedIndices, idx)
		before = append(before, beforeSnapshot)
		after = append(after, afterSnapshot)
		results = append(results, TransformResult{Index: idx})
	}

	if len(changedIndices) > 0 {
		action := journal.NewAction(changedIndices, before, after, journal.DescribeTransform(len(changedIndices), modeLabel(opts)), time.Now())
		d.journal.Record(action)
	}

	return results, nil
}

// SwitchTonality applies the SWITCH_TONALITY transform to chords[index].
func (d *Document) SwitchTonality(index int) error {
	results, err := d.Transform([]int{index}, []string{""}, transform.Options{Mode: transform.ModeSwitchTonality, UseVoiceLeading: true})
	if err != nil {
		return err
	}
	return results[0].Err
}

// DetectKey runs the key detector over the current chord list.
func (d *Document) DetectKey() (keydetect.KeySignature, error) {
	if len(d.chords) == 0 {
		return keydetect.KeySignature{}, midierr.ErrEmptyDocument
	}
	return keydetect.Detect(d.chords)
}

// AnalyzeProgression runs the progression detector over the current chord
// list. Never fails hard; an empty document yields no matches.
func (d *Document) AnalyzeProgression() []progression.Match {
	return progression.Detect(d.chords)
}

// Undo reverts the most recent not-yet-undone transform.
func (d *Document) Undo() bool {
	return d.journal.Undo(d.chords)
}

// Redo re-applies the most recently undone transform.
func (d *Document) Redo() bool {
	return d.journal.Redo(d.chords)
}

// CanUndo reports whether Undo would do anything.
func (d *Document) CanUndo() bool { return d.journal.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (d *Document) CanRedo() bool { return d.journal.CanRedo() }

func clampPitches(pitches []int) []int {
	out := make([]int, len(pitches))
	for i, p := range pitches {
		if p < 0 {
			p = 0
		}
		if p > 127 {
			p = 127
		}
		out[i] = p
	}
	return out
}

func modeLabel(opts transform.Options) string {
	switch opts.Mode {
	case transform.ModeInversion:
		return "inversion"
	case transform.ModePercentage:
		return "percentage"
	case transform.ModeSwitchTonality:
		return "switch-tonality"
	default:
		return "standard"
	}
}
