package iec104

import "fmt"

// AsduHeaderLen is the fixed 6-byte width of the ASDU data unit identifier.
const AsduHeaderLen = 6

/*
ASDUHeader is the 6-byte data unit identifier that prefixes every ASDU:

  byte 0:   type identification
  byte 1:   bit 7 sequence flag (VSQ), bits 0-6 object/element count
  byte 2:   bit 7 test, bit 6 negative, bits 0-5 cause of transmission
  byte 3:   originator address
  byte 4-5: common address of ASDU, little-endian
*/
type ASDUHeader struct {
	TypeID        TypeID
	Sequence      bool // VSQ sequence bit: true = sequenced (consecutive IOAs)
	Count         uint8
	Test          bool
	Negative      bool
	COT           COT
	Originator    uint8
	CommonAddress uint16
}

// ParseASDUHeader decodes the 6-byte header and validates TypeID and COT
// against the supported registries.
func ParseASDUHeader(data []byte) (ASDUHeader, error) {
	if len(data) < AsduHeaderLen {
		return ASDUHeader{}, fmt.Errorf("iec104: ASDU header too short: got %d bytes, need %d", len(data), AsduHeaderLen)
	}
	typeID := TypeID(data[0])
	if !typeID.IsSupported() {
		return ASDUHeader{}, fmt.Errorf("iec104: unsupported type id %d", data[0])
	}
	cotByte := data[2]
	cot := COT(cotByte & 0x3F)
	if !cot.IsSupported() {
		return ASDUHeader{}, fmt.Errorf("iec104: unsupported cause of transmission %d", cot)
	}
	h := ASDUHeader{
		TypeID:        typeID,
		Sequence:      data[1]&0x80 != 0,
		Count:         data[1] & 0x7F,
		Test:          cotByte&0x80 != 0,
		Negative:      cotByte&0x40 != 0,
		COT:           cot,
		Originator:    data[3],
		CommonAddress: parseLittleEndianUint16(data[4:6]),
	}
	return h, nil
}

// Bytes encodes the header back to its 6-byte wire form.
func (h ASDUHeader) Bytes() [AsduHeaderLen]byte {
	var out [AsduHeaderLen]byte
	out[0] = byte(h.TypeID)
	vsq := h.Count & 0x7F
	if h.Sequence {
		vsq |= 0x80
	}
	out[1] = vsq
	cotByte := byte(h.COT) & 0x3F
	if h.Negative {
		cotByte |= 0x40
	}
	if h.Test {
		cotByte |= 0x80
	}
	out[2] = cotByte
	out[3] = h.Originator
	ca := serializeLittleEndianUint16(h.CommonAddress)
	out[4], out[5] = ca[0], ca[1]
	return out
}

// IsNegativeConfirm reports whether the ASDU is a negative confirmation:
// either the negative bit is set or the COT is one of the diagnostic
// negatives (44-47, see COT.IsNegativeConfirm).
func (h ASDUHeader) IsNegativeConfirm() bool {
	return h.Negative || h.COT.IsNegativeConfirm()
}

// ASDU is a fully decoded Application Service Data Unit: its header plus
// the information objects parsed from the body (empty for command/system
// ASDUs, which carry no DataPoints) and the raw body bytes as received,
// preserved for callers that need the original encoding (e.g. to surface
// an AsduReceived event for a type with no dedicated handling).
type ASDU struct {
	Header ASDUHeader
	Points []DataPoint
	Raw    []byte
}

// ParseASDU decodes a full ASDU: header plus information objects.
func ParseASDU(data []byte) (ASDU, error) {
	header, err := ParseASDUHeader(data)
	if err != nil {
		return ASDU{}, err
	}
	body := data[AsduHeaderLen:]
	points, err := ParseObjects(header, body)
	if err != nil {
		return ASDU{}, err
	}
	return ASDU{Header: header, Points: points, Raw: append([]byte(nil), data...)}, nil
}

// EncodeASDU concatenates the header with a pre-built raw object payload.
func EncodeASDU(header ASDUHeader, objects []byte) []byte {
	hb := header.Bytes()
	buf := make([]byte, 0, len(hb)+len(objects))
	buf = append(buf, hb[:]...)
	buf = append(buf, objects...)
	return buf
}
