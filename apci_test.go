package iec104

import (
	"bytes"
	"testing"
)

func TestEncodeAPDU_IFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name           string
		sendSeq        uint16
		recvSeq        uint16
		asdu           []byte
	}{
		{"zero seqs, empty asdu", 0, 0, nil},
		{"mid-range seqs", 123, 456, []byte{0x01, 0x02, 0x03}},
		{"max seqs", 32767, 32767, []byte{0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apci := NewIFrame(tt.sendSeq, tt.recvSeq)
			wire, err := EncodeAPDU(apci, tt.asdu)
			if err != nil {
				t.Fatalf("EncodeAPDU: %v", err)
			}

			got, err := DecodeAPCI(wire[2:6])
			if err != nil {
				t.Fatalf("DecodeAPCI: %v", err)
			}
			if got.Type != FrameTypeI || got.SendSeq != tt.sendSeq || got.RecvSeq != tt.recvSeq {
				t.Fatalf("round trip mismatch: got %+v, want send=%d recv=%d", got, tt.sendSeq, tt.recvSeq)
			}
			if !bytes.Equal(wire[6:], tt.asdu) {
				t.Fatalf("asdu payload mismatch: got % X, want % X", wire[6:], tt.asdu)
			}
		})
	}
}

func TestEncodeAPDU_SFrameRoundTrip(t *testing.T) {
	for _, rs := range []uint16{0, 1, 2, 32767} {
		apci := NewSFrame(rs)
		wire, err := EncodeAPDU(apci, nil)
		if err != nil {
			t.Fatalf("EncodeAPDU: %v", err)
		}
		got, err := DecodeAPCI(wire[2:6])
		if err != nil {
			t.Fatalf("DecodeAPCI: %v", err)
		}
		if got.Type != FrameTypeS || got.RecvSeq != rs {
			t.Fatalf("round trip mismatch: got %+v, want recv=%d", got, rs)
		}
	}
}

func TestEncodeAPDU_UFrameRoundTrip(t *testing.T) {
	for _, fn := range []UFunction{UStartDtAct, UStartDtCon, UStopDtAct, UStopDtCon, UTestFrAct, UTestFrCon} {
		apci := NewUFrame(fn)
		wire, err := EncodeAPDU(apci, nil)
		if err != nil {
			t.Fatalf("EncodeAPDU(%s): %v", fn, err)
		}
		got, err := DecodeAPCI(wire[2:6])
		if err != nil {
			t.Fatalf("DecodeAPCI(%s): %v", fn, err)
		}
		if got.Type != FrameTypeU || got.UFunc != fn {
			t.Fatalf("round trip mismatch for %s: got %+v", fn, got)
		}
	}
}

// TestEncodeAPDU_StartDtAct is the first half of scenario 1's wire form: the
// literal bytes a STARTDT-act takes on the wire (TestEncodeAPDU_StartDtCon
// covers the confirmation).
func TestEncodeAPDU_StartDtAct(t *testing.T) {
	wire, err := EncodeAPDU(NewUFrame(UStartDtAct), nil)
	if err != nil {
		t.Fatalf("EncodeAPDU: %v", err)
	}
	want := []byte{0x68, 0x04, 0x07, 0x00, 0x00, 0x00}
	if !bytes.Equal(wire, want) {
		t.Fatalf("got % X, want % X", wire, want)
	}
}

func TestEncodeAPDU_StartDtCon(t *testing.T) {
	wire, err := EncodeAPDU(NewUFrame(UStartDtCon), nil)
	if err != nil {
		t.Fatalf("EncodeAPDU: %v", err)
	}
	want := []byte{0x68, 0x04, 0x0B, 0x00, 0x00, 0x00}
	if !bytes.Equal(wire, want) {
		t.Fatalf("got % X, want % X", wire, want)
	}
}

func TestEncodeAPDU_LengthOutOfRange(t *testing.T) {
	if _, err := EncodeAPDU(NewIFrame(0, 0), make([]byte, 250)); err == nil {
		t.Fatal("expected error for oversized ASDU, got nil")
	}
}

func TestParseUFunction_Unknown(t *testing.T) {
	if _, err := ParseUFunction(0x63); err == nil {
		t.Fatal("expected error for unrecognized U-function, got nil")
	}
}

func TestDecodeAPCI_TooShort(t *testing.T) {
	if _, err := DecodeAPCI([]byte{0x07, 0x00}); err == nil {
		t.Fatal("expected error for short control field, got nil")
	}
}
