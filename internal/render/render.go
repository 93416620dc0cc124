// Package render defines the AudioRenderer contract through which the
// engine hands a transformed chord sequence to an out-of-scope audio
// collaborator. Audio synthesis and playback are explicitly out of scope
// for the core (spec.md §1); this package only wires the contract and two
// concrete adapters so the host can exercise real rendering stacks without
// the core itself depending on synthesis or playback semantics.
package render

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/sinshu/go-meltysynth/meltysynth"

	"github.com/chordforge/chordforge/internal/chord"
	"github.com/chordforge/chordforge/internal/midicodec"
	"github.com/chordforge/chordforge/pkg/fileutil"
)

// SampleRate is the audio sample rate used for MIDI synthesis.
const SampleRate = 44100

// AudioRenderer is the out-of-scope audio collaborator's contract: given a
// chord sequence re-serialized as an SMF and a SoundFont, produce a
// streamable PCM source. The core never calls this itself; a host wires one
// of the adapters below (or its own) when it wants to hear a transformed
// document.
type AudioRenderer interface {
	// Render builds a playable audio stream for chords at the given
	// division (ticks per quarter note), using the SoundFont at
	// soundFontPath for synthesis.
	Render(chords []chord.Chord, division uint16, soundFontPath string) (io.Reader, error)
}

// chordsToMidiFile re-serializes a labelled chord sequence as a single-track
// format-0 MidiFile: each chord becomes a simultaneous note-on/note-off
// pair group, which is exactly the shape the segmenter groups back out of a
// real file.
func chordsToMidiFile(chords []chord.Chord, division uint16) *midicodec.MidiFile {
	var events []midicodec.Event
	prevTick := uint32(0)

	for _, c := range chords {
		onDelta := c.Onset - prevTick
		for i, p := range c.Pitches {
			d := uint32(0)
			if i == 0 {
				d = onDelta
			}
			events = append(events, midicodec.Event{
				DeltaTime: d,
				Status:    0x90,
				Kind:      midicodec.KindChannel,
				Data:      []byte{clampPitch(p), 100},
			})
		}
		for i, p := range c.Pitches {
			d := uint32(0)
			if i == 0 {
				d = c.Duration
			}
			events = append(events, midicodec.Event{
				DeltaTime: d,
				Status:    0x80,
				Kind:      midicodec.KindChannel,
				Data:      []byte{clampPitch(p), 0},
			})
		}
		prevTick = c.Onset + c.Duration
	}

	events = append(events, midicodec.Event{
		Kind:     midicodec.KindMeta,
		MetaType: midicodec.MetaEndOfTrack,
	})

	return &midicodec.MidiFile{
		Format:   0,
		Division: division,
		Tracks:   []midicodec.Track{{Events: events}},
	}
}

// clampPitch keeps a transformed pitch within the 0..127 MIDI note-number
// range, per spec.md §7's OutOfRange handling for post-transform clamping.
func clampPitch(p int) byte {
	if p < 0 {
		return 0
	}
	if p > 127 {
		return 127
	}
	return byte(p)
}

// MeltysynthRenderer renders chords through go-meltysynth's software
// synthesizer: a SoundFont-backed Synthesizer driven by a
// MidiFileSequencer, read out as interleaved little-endian int16 stereo PCM.
type MeltysynthRenderer struct{}

// Render implements AudioRenderer.
func (MeltysynthRenderer) Render(chords []chord.Chord, division uint16, soundFontPath string) (io.Reader, error) {
	sfData, err := readSoundFont(soundFontPath)
	if err != nil {
		return nil, err
	}
	soundFont, err := meltysynth.NewSoundFont(bytes.NewReader(sfData))
	if err != nil {
		return nil, fmt.Errorf("parse SoundFont: %w", err)
	}

	settings := meltysynth.NewSynthesizerSettings(SampleRate)
	synth, err := meltysynth.NewSynthesizer(soundFont, settings)
	if err != nil {
		return nil, fmt.Errorf("create synthesizer: %w", err)
	}

	mf := chordsToMidiFile(chords, division)
	encoded := midicodec.Encode(mf)
	midi, err := meltysynth.NewMidiFile(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("load re-serialized chord sequence: %w", err)
	}

	sequencer := meltysynth.NewMidiFileSequencer(synth)
	sequencer.Play(midi, false)

	return &pcmStream{sequencer: sequencer}, nil
}

// pcmStream adapts a meltysynth.MidiFileSequencer to io.Reader: render
// float32 stereo buffers and convert to interleaved int16 bytes on demand.
type pcmStream struct {
	sequencer *meltysynth.MidiFileSequencer
	mu        sync.Mutex
}

func (s *pcmStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	samples := len(p) / 4
	if samples == 0 {
		return 0, nil
	}
	left := make([]float32, samples)
	right := make([]float32, samples)
	s.sequencer.Render(left, right)

	for i := 0; i < samples; i++ {
		l := int16(clampUnit(left[i]) * 32767)
		r := int16(clampUnit(right[i]) * 32767)
		p[i*4] = byte(l)
		p[i*4+1] = byte(l >> 8)
		p[i*4+2] = byte(r)
		p[i*4+3] = byte(r >> 8)
	}
	return samples * 4, nil
}

func clampUnit(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

func readSoundFont(path string) ([]byte, error) {
	return fileutil.ReadAll(path)
}

// EbitenSink plays an AudioRenderer's PCM stream through ebiten/v2/audio.
type EbitenSink struct {
	ctx    *audio.Context
	player *audio.Player
}

// NewEbitenSink creates a sink backed by a fresh ebiten audio context at
// SampleRate.
func NewEbitenSink() *EbitenSink {
	return &EbitenSink{ctx: audio.NewContext(SampleRate)}
}

// Play starts streaming src through the ebiten audio context.
func (s *EbitenSink) Play(src io.Reader) error {
	player, err := s.ctx.NewPlayer(src)
	if err != nil {
		return fmt.Errorf("create ebiten audio player: %w", err)
	}
	s.player = player
	s.player.Play()
	return nil
}

// IsPlaying reports whether the current player is still streaming.
func (s *EbitenSink) IsPlaying() bool {
	return s.player != nil && s.player.IsPlaying()
}

// Stop halts playback.
func (s *EbitenSink) Stop() error {
	if s.player == nil {
		return nil
	}
	return s.player.Close()
}
