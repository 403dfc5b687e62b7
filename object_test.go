package iec104

import "testing"

func TestDecodeElement_SinglePoint(t *testing.T) {
	dp, err := decodeElement(MSpNa1, 100, []byte{0x01})
	if err != nil {
		t.Fatalf("decodeElement: %v", err)
	}
	v, ok := dp.Value.AsBool()
	if !ok || !v {
		t.Fatalf("got value %v ok=%v, want true", v, ok)
	}
	if !dp.IsGood() {
		t.Fatalf("got quality %v, want good", dp.Quality)
	}
}

func TestDecodeElement_DoublePointWithTimestamp(t *testing.T) {
	ts := CP56Time2a{Minute: 10, Hour: 5, Day: 1, DayOfWeek: 1, Month: 1, Year: 26}
	tb := ts.Bytes()
	data := append([]byte{0x02}, tb[:]...) // DIQ=On, good quality, + CP56

	dp, err := decodeElement(MDpTb1, 200, data)
	if err != nil {
		t.Fatalf("decodeElement: %v", err)
	}
	if dp.Value.Kind != KindDouble || dp.Value.Double != DoublePointOn {
		t.Fatalf("got value %+v, want On", dp.Value)
	}
	if dp.Timestamp == nil || *dp.Timestamp != ts {
		t.Fatalf("got timestamp %+v, want %+v", dp.Timestamp, ts)
	}
}

func TestDecodeElement_StepPosition(t *testing.T) {
	// vti byte: bit7=0 (not in transit), low 7 bits = 64 -> (64-64)=0
	dp, err := decodeElement(MStNa1, 1, []byte{64, 0x00})
	if err != nil {
		t.Fatalf("decodeElement: %v", err)
	}
	if dp.Value.Kind != KindStepPosition || dp.Value.StepPosition != 0 {
		t.Fatalf("got value %+v, want step position 0", dp.Value)
	}

	// low 7 bits = 127 -> (127-64)=63, the max positive step.
	dp, err = decodeElement(MStNa1, 1, []byte{127, 0x00})
	if err != nil {
		t.Fatalf("decodeElement: %v", err)
	}
	if dp.Value.StepPosition != 63 {
		t.Fatalf("got step position %d, want 63", dp.Value.StepPosition)
	}
}

func TestDecodeElement_Normalized(t *testing.T) {
	// 16384 / 32768 = 0.5
	data := append(serializeLittleEndianUint16(16384), 0x00)
	dp, err := decodeElement(MMeNa1, 1, data)
	if err != nil {
		t.Fatalf("decodeElement: %v", err)
	}
	f, ok := dp.Value.AsF64()
	if !ok || f < 0.499 || f > 0.501 {
		t.Fatalf("got %v ok=%v, want ~0.5", f, ok)
	}
}

func TestDecodeElement_BinaryCounter(t *testing.T) {
	// value=42, flags: sequence=5, carry=1, adjusted=0, invalid=1
	data := append(serializeLittleEndianUint32(42), 0x80|0x20|0x05)
	dp, err := decodeElement(MItNa1, 1, data)
	if err != nil {
		t.Fatalf("decodeElement: %v", err)
	}
	bcr := dp.Value.BinaryCounter
	if bcr.Value != 42 || bcr.Sequence != 5 || !bcr.Carry || bcr.Adjusted || !bcr.Invalid {
		t.Fatalf("got %+v", bcr)
	}
	if dp.IsGood() {
		t.Fatal("expected invalid-flagged BCR to yield non-good quality")
	}
}

func TestDecodeElement_UnsupportedType(t *testing.T) {
	if _, err := decodeElement(CScNa1, 1, []byte{0x00}); err == nil {
		t.Fatal("expected error for a type with no element decoder, got nil")
	}
}

func TestParseObjects_OpaqueTypeYieldsNoPoints(t *testing.T) {
	header := ASDUHeader{TypeID: CScNa1, Count: 1, COT: CotActConfirm, CommonAddress: 1}
	points, err := ParseObjects(header, []byte{0x00, 0x00, 0x00, 0x01})
	if err != nil {
		t.Fatalf("ParseObjects: %v", err)
	}
	if points != nil {
		t.Fatalf("got %v, want nil", points)
	}
}

func TestParseObjects_AddressedShortBody(t *testing.T) {
	header := ASDUHeader{TypeID: MSpNa1, Count: 2, COT: CotSpontaneous, CommonAddress: 1}
	if _, err := ParseObjects(header, []byte{0x01, 0x00, 0x00, 0x01}); err == nil {
		t.Fatal("expected error for truncated addressed body, got nil")
	}
}

func TestParseObjects_SequencedShortBody(t *testing.T) {
	header := ASDUHeader{TypeID: MSpNa1, Sequence: true, Count: 5, COT: CotSpontaneous, CommonAddress: 1}
	if _, err := ParseObjects(header, []byte{0x01, 0x00, 0x00, 0x01}); err == nil {
		t.Fatal("expected error for truncated sequenced body, got nil")
	}
}
