package iec104

import "bytes"

/*
Framer turns a growing byte stream into a sequence of complete APDUs. It is
a three-state decoder (awaiting start / awaiting length / awaiting payload)
that tolerates garbage on the wire: anything before the first 0x68 is
discarded, and a length byte outside [4,253] causes just the presumed start
byte to be dropped before resuming the scan — a single bad byte never
produces a fatal error. Partial frames are buffered across Feed calls; no
byte is consumed until its frame (or its resync) demands it.
*/
type Framer struct {
	buf        []byte
	state      decodeState
	pendingLen int
}

type decodeState int

const (
	awaitingStart decodeState = iota
	awaitingLength
	awaitingPayload
)

// Frame is one decoded APDU: its APCI header, and for I-frames only, the
// raw (not yet parsed) ASDU payload.
type Frame struct {
	APCI APCI
	ASDU []byte
}

// NewFramer returns a Framer ready to consume a fresh byte stream.
func NewFramer() *Framer {
	return &Framer{}
}

// Feed appends data to the framer's internal buffer and decodes as many
// complete APDUs as are now available. A non-nil error means a structural
// frame error (currently: an unrecognized U-frame function) was found —
// every frame decoded before that point is still returned, and the caller
// is expected to treat this as fatal to the link. Framing-level problems
// (garbage, bad length) are resynced internally and never surface here.
func (f *Framer) Feed(data []byte) ([]Frame, error) {
	f.buf = append(f.buf, data...)

	var frames []Frame
	for {
		switch f.state {
		case awaitingStart:
			idx := bytes.IndexByte(f.buf, StartByte)
			if idx == -1 {
				f.buf = f.buf[:0]
				return frames, nil
			}
			f.buf = f.buf[idx:]
			f.state = awaitingLength

		case awaitingLength:
			if len(f.buf) < 2 {
				return frames, nil
			}
			length := int(f.buf[1])
			if length < MinAPDULen || length > MaxAPDULen {
				f.buf = f.buf[1:]
				f.state = awaitingStart
				continue
			}
			f.pendingLen = length
			f.state = awaitingPayload

		case awaitingPayload:
			total := 2 + f.pendingLen
			if len(f.buf) < total {
				return frames, nil
			}
			raw := f.buf[:total]
			f.buf = f.buf[total:]
			f.state = awaitingStart

			apci, err := DecodeAPCI(raw[2:6])
			if err != nil {
				return frames, err
			}
			frame := Frame{APCI: apci}
			if apci.Type == FrameTypeI {
				frame.ASDU = append([]byte(nil), raw[6:total]...)
			}
			frames = append(frames, frame)
		}
	}
}
