package midicodec

import (
	"encoding/binary"
	"log/slog"
)

// Encode serializes a MidiFile back to SMF bytes. Running status is not
// re-collapsed: an explicit status byte is emitted for every event, which
// is lossless (the reader accepts explicit status for every event it can
// produce) and slightly larger than a maximally-compact encoder
// (spec.md §4.1).
func Encode(mf *MidiFile) []byte {
	buf := make([]byte, 0, 1024)

	buf = append(buf, headerChunkID...)
	buf = appendUint32(buf, headerLength)
	buf = appendUint16(buf, mf.Format)
	buf = appendUint16(buf, uint16(len(mf.Tracks)))
	buf = appendUint16(buf, mf.Division)

	for _, track := range mf.Tracks {
		buf = encodeTrack(buf, track)
	}

	slog.Debug("midicodec: encoded SMF", "format", mf.Format, "tracks", len(mf.Tracks), "bytes", len(buf))
	return buf
}

func encodeTrack(buf []byte, track Track) []byte {
	buf = append(buf, trackChunkID...)
	lenPos := len(buf)
	buf = appendUint32(buf, 0) // placeholder, backfilled below
	bodyStart := len(buf)

	for _, ev := range track.Events {
		buf = appendVLQ(buf, ev.DeltaTime)
		switch ev.Kind {
		case KindMeta:
			buf = append(buf, 0xFF, ev.MetaType)
			buf = appendVLQ(buf, uint32(len(ev.Data)))
			buf = append(buf, ev.Data...)
		case KindSysEx:
			buf = append(buf, ev.Status)
			buf = appendVLQ(buf, uint32(len(ev.Data)))
			buf = append(buf, ev.Data...)
		default: // KindChannel
			buf = append(buf, ev.Status)
			buf = append(buf, ev.Data...)
		}
	}

	bodyLen := uint32(len(buf) - bodyStart)
	binary.BigEndian.PutUint32(buf[lenPos:lenPos+4], bodyLen)
	return buf
}

func appendUint16(buf []byte, v uint16) []byte {
	return append(buf, byte(v>>8), byte(v))
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
