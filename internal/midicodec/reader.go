package midicodec

import (
	"encoding/binary"
	"log/slog"

	"github.com/chordforge/chordforge/internal/midierr"
)

const (
	headerChunkID  = "MThd"
	headerLength   = 6
	trackChunkID   = "MTrk"
)

// Decode parses a full Standard MIDI File byte stream. Malformed header,
// truncated track, oversized VLQ and running status with no prior channel
// event surface as a typed *midierr.Error carrying the file offset; on any
// such error the partial result is discarded (spec.md §4.1/§7). An unknown
// status byte is not an error: it is logged and skipped by resyncing to the
// next byte with its MSB set, and decoding continues.
func Decode(data []byte) (*MidiFile, error) {
	if len(data) < 14 {
		return nil, midierr.NewAt(midierr.KindMalformedHeader, 0, "file too short for SMF header")
	}
	if string(data[0:4]) != headerChunkID {
		return nil, midierr.NewAt(midierr.KindMalformedHeader, 0, "missing MThd signature")
	}
	hdrLen := binary.BigEndian.Uint32(data[4:8])
	if hdrLen != headerLength {
		return nil, midierr.NewAt(midierr.KindMalformedHeader, 4, "unexpected header length")
	}

	format := binary.BigEndian.Uint16(data[8:10])
	trackCount := binary.BigEndian.Uint16(data[10:12])
	division := binary.BigEndian.Uint16(data[12:14])

	mf := &MidiFile{Format: format, Division: division}

	pos := 14
	for i := 0; i < int(trackCount); i++ {
		track, next, err := decodeTrack(data, pos)
		if err != nil {
			return nil, err
		}
		mf.Tracks = append(mf.Tracks, track)
		pos = next
	}

	slog.Debug("midicodec: decoded SMF", "format", format, "division", division, "tracks", len(mf.Tracks))
	return mf, nil
}

// decodeTrack decodes a single "MTrk" chunk starting at pos, returning the
// Track and the offset immediately after the chunk.
func decodeTrack(data []byte, pos int) (Track, int, error) {
	if pos+8 > len(data) {
		return Track{}, 0, midierr.NewAt(midierr.KindTruncatedTrack, int64(pos), "truncated track header")
	}
	if string(data[pos:pos+4]) != trackChunkID {
		return Track{}, 0, midierr.NewAt(midierr.KindMalformedHeader, int64(pos), "missing MTrk signature")
	}
	length := binary.BigEndian.Uint32(data[pos+4 : pos+8])
	start := pos + 8
	end := start + int(length)
	if end > len(data) {
		return Track{}, 0, midierr.NewAt(midierr.KindTruncatedTrack, int64(pos), "track length exceeds file size")
	}

	var track Track
	cur := start
	var runningStatus byte

	for cur < end {
		delta, n, err := readVLQ(data, cur)
		if err != nil {
			return Track{}, 0, err
		}
		cur += n
		if cur >= end {
			return Track{}, 0, midierr.NewAt(midierr.KindTruncatedTrack, int64(cur), "track ends mid-event")
		}

		first := data[cur]
		var status byte
		if first&0x80 != 0 {
			status = first
			cur++
		} else {
			// Running status: reuse the previous channel-event status byte
			// and treat `first` as the first data byte (spec.md §4.1).
			if runningStatus == 0 {
				return Track{}, 0, midierr.NewAt(midierr.KindUnknownEvent, int64(cur), "running status with no prior channel event")
			}
			status = runningStatus
			cur++
		}

		switch {
		case status == 0xFF:
			runningStatus = 0
			ev, next, err := decodeMeta(data, cur, end, delta)
			if err != nil {
				return Track{}, 0, err
			}
			track.Events = append(track.Events, ev)
			cur = next

		case status == 0xF0 || status == 0xF7:
			runningStatus = 0
			ev, next, err := decodeSysEx(data, cur, end, status, delta)
			if err != nil {
				return Track{}, 0, err
			}
			track.Events = append(track.Events, ev)
			cur = next

		default:
			nibble := status & 0xF0
			if nibble < 0x80 || nibble > 0xE0 {
				// Unknown status: best-effort resync, advance to next byte
				// with MSB set (spec.md §4.1/§7: UnknownEvent, recoverable).
				slog.Warn("midicodec: unknown status byte, resyncing", "offset", cur, "byte", status)
				cur = resync(data, cur, end)
				runningStatus = 0
				continue
			}
			nbytes := channelDataBytes[nibble>>4]
			// Under running status, `first` is itself the first data byte
			// and only nbytes-1 more remain to be read from cur.
			need := nbytes
			if first&0x80 == 0 {
				need = nbytes - 1
			}
			if cur+need > end {
				return Track{}, 0, midierr.NewAt(midierr.KindTruncatedTrack, int64(cur), "truncated channel event")
			}
			payload := make([]byte, nbytes)
			if first&0x80 == 0 {
				payload[0] = first
				copy(payload[1:], data[cur:cur+nbytes-1])
				cur += nbytes - 1
			} else {
				copy(payload, data[cur:cur+nbytes])
				cur += nbytes
			}
			runningStatus = status
			track.Events = append(track.Events, Event{
				DeltaTime: delta,
				Status:    status,
				Kind:      KindChannel,
				Data:      payload,
			})
		}
	}

	return track, end, nil
}

func decodeMeta(data []byte, pos, end int, delta uint32) (Event, int, error) {
	if pos >= end {
		return Event{}, 0, midierr.NewAt(midierr.KindTruncatedTrack, int64(pos), "truncated meta event")
	}
	metaType := data[pos]
	pos++
	length, n, err := readVLQ(data, pos)
	if err != nil {
		return Event{}, 0, err
	}
	pos += n
	if pos+int(length) > end {
		return Event{}, 0, midierr.NewAt(midierr.KindTruncatedTrack, int64(pos), "truncated meta event payload")
	}
	payload := make([]byte, length)
	copy(payload, data[pos:pos+int(length)])
	pos += int(length)

	return Event{
		DeltaTime: delta,
		Status:    0xFF,
		Kind:      KindMeta,
		MetaType:  metaType,
		Data:      payload,
	}, pos, nil
}

func decodeSysEx(data []byte, pos, end int, status byte, delta uint32) (Event, int, error) {
	length, n, err := readVLQ(data, pos)
	if err != nil {
		return Event{}, 0, err
	}
	pos += n
	if pos+int(length) > end {
		return Event{}, 0, midierr.NewAt(midierr.KindTruncatedTrack, int64(pos), "truncated SysEx payload")
	}
	payload := make([]byte, length)
	copy(payload, data[pos:pos+int(length)])
	pos += int(length)

	return Event{
		DeltaTime: delta,
		Status:    status,
		Kind:      KindSysEx,
		Data:      payload,
	}, pos, nil
}

// resync advances past an unrecognized status byte to the next byte with
// MSB set, or to end if none remains.
func resync(data []byte, pos, end int) int {
	pos++
	for pos < end && data[pos]&0x80 == 0 {
		pos++
	}
	return pos
}
