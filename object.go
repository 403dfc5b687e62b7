package iec104

import (
	"fmt"
	"math"
)

// elementSize returns the wire width, in bytes, of a single information
// element for a monitor-direction type, including any CP24/CP56 time tag.
// CP24Time2a is always consumed and discarded (see SPEC_FULL.md's
// resolution of the CP24 open question) rather than surfaced as a
// timestamp, so its 3 bytes are folded into the element size without a
// dedicated field.
func elementSize(t TypeID) (int, bool) {
	switch t {
	case MSpNa1:
		return 1, true
	case MSpTa1:
		return 1 + 3, true
	case MDpNa1:
		return 1, true
	case MDpTa1:
		return 1 + 3, true
	case MStNa1:
		return 2, true
	case MBoNa1:
		return 5, true
	case MMeNa1:
		return 3, true
	case MMeTa1:
		return 3 + 3, true
	case MMeNb1:
		return 3, true
	case MMeTb1:
		return 3 + 3, true
	case MMeNc1:
		return 5, true
	case MMeTc1:
		return 5 + 3, true
	case MItNa1:
		return 5, true
	case MSpTb1:
		return 1 + 7, true
	case MDpTb1:
		return 1 + 7, true
	case MMeTf1:
		return 5 + 7, true
	default:
		return 0, false
	}
}

// isOpaqueType reports the command/system/parameter type identifiers for
// which the parser intentionally yields no DataPoints: the caller gets the
// raw ASDU (via ASDU.Raw) instead, e.g. for dispatching a CommandConfirm or
// InterrogationComplete event from the Link layer.
func isOpaqueType(t TypeID) bool {
	switch t {
	case CScNa1, CDcNa1, CRcNa1, CSeNa1, CSeNb1, CSeNc1, CBoNa1,
		CScTa1, CDcTa1, CSeTc1, MEiNa1,
		CIcNa1, CCiNa1, CRdNa1, CCsNa1, CTsNa1, CRpNa1, CTsTa1:
		return true
	default:
		return false
	}
}

// ParseObjects decodes the information objects of an ASDU body according
// to header.Sequence (consecutive IOAs derived from one base address) or
// addressed (an explicit 3-byte IOA per object) encoding. Command and
// system ASDUs yield an empty, non-nil-error list; the caller is expected
// to read ASDU.Raw for those instead.
func ParseObjects(header ASDUHeader, body []byte) ([]DataPoint, error) {
	if isOpaqueType(header.TypeID) {
		return nil, nil
	}
	size, ok := elementSize(header.TypeID)
	if !ok {
		return nil, fmt.Errorf("iec104: no information-object layout for type %s", header.TypeID)
	}
	n := int(header.Count)
	if n == 0 {
		return nil, nil
	}

	if header.Sequence {
		if len(body) < IOALength {
			return nil, fmt.Errorf("iec104: data too short: sequenced ASDU missing base IOA")
		}
		base := parseIOA(body[:IOALength])
		rest := body[IOALength:]
		if len(rest) < n*size {
			return nil, fmt.Errorf("iec104: data too short: need %d bytes for %d elements, have %d", n*size, n, len(rest))
		}
		points := make([]DataPoint, 0, n)
		for i := 0; i < n; i++ {
			elem := rest[i*size : (i+1)*size]
			dp, err := decodeElement(header.TypeID, base.Add(i), elem)
			if err != nil {
				return nil, err
			}
			points = append(points, dp)
		}
		return points, nil
	}

	stride := IOALength + size
	if len(body) < n*stride {
		return nil, fmt.Errorf("iec104: data too short: need %d bytes for %d addressed objects, have %d", n*stride, n, len(body))
	}
	points := make([]DataPoint, 0, n)
	for i := 0; i < n; i++ {
		chunk := body[i*stride : (i+1)*stride]
		ioa := parseIOA(chunk[:IOALength])
		dp, err := decodeElement(header.TypeID, ioa, chunk[IOALength:])
		if err != nil {
			return nil, err
		}
		points = append(points, dp)
	}
	return points, nil
}

// decodeElement decodes a single information element, already sliced to
// exactly the width elementSize reported for t.
func decodeElement(t TypeID, ioa IOA, data []byte) (DataPoint, error) {
	switch t {
	case MSpNa1, MSpTa1, MSpTb1:
		q := QualityFromSIQ(data[0])
		dp := DataPoint{IOA: ioa, Value: NewSingleValue(SinglePointValue(data[0])), Quality: q}
		if t == MSpTb1 {
			ts, err := ParseCP56Time2a(data[1:8])
			if err != nil {
				return DataPoint{}, err
			}
			dp.Timestamp = &ts
		}
		return dp, nil

	case MDpNa1, MDpTa1, MDpTb1:
		q := QualityFromDIQ(data[0])
		dp := DataPoint{IOA: ioa, Value: NewDoubleValue(ParseDoublePointValue(data[0])), Quality: q}
		if t == MDpTb1 {
			ts, err := ParseCP56Time2a(data[1:8])
			if err != nil {
				return DataPoint{}, err
			}
			dp.Timestamp = &ts
		}
		return dp, nil

	case MStNa1:
		vti := data[0]
		value := int8((vti&0x7F)-64) //nolint:gosec // (vti&0x7F)-64 in [-64,63]
		q := QualityFromQDS(data[1])
		return DataPoint{IOA: ioa, Value: NewStepPositionValue(value), Quality: q}, nil

	case MBoNa1:
		bsi := parseLittleEndianUint32(data[0:4])
		q := QualityFromQDS(data[4])
		return DataPoint{IOA: ioa, Value: NewBitstringValue(bsi), Quality: q}, nil

	case MMeNa1, MMeTa1:
		raw := parseLittleEndianInt16(data[0:2])
		q := QualityFromQDS(data[2])
		return DataPoint{IOA: ioa, Value: NewNormalizedValue(float32(raw) / 32768), Quality: q}, nil

	case MMeNb1, MMeTb1:
		raw := parseLittleEndianInt16(data[0:2])
		q := QualityFromQDS(data[2])
		return DataPoint{IOA: ioa, Value: NewScaledValue(raw), Quality: q}, nil

	case MMeNc1, MMeTc1, MMeTf1:
		bits := parseLittleEndianUint32(data[0:4])
		f := math.Float32frombits(bits)
		q := QualityFromQDS(data[4])
		dp := DataPoint{IOA: ioa, Value: NewFloatValue(f), Quality: q}
		if t == MMeTf1 {
			ts, err := ParseCP56Time2a(data[5:12])
			if err != nil {
				return DataPoint{}, err
			}
			dp.Timestamp = &ts
		}
		return dp, nil

	case MItNa1:
		value := parseLittleEndianInt32(data[0:4])
		flags := data[4]
		bcr := BinaryCounterReading{
			Value:    value,
			Sequence: flags & 0x1F,
			Carry:    flags&0x20 != 0,
			Adjusted: flags&0x40 != 0,
			Invalid:  flags&0x80 != 0,
		}
		q := QualityGood
		if bcr.Invalid {
			q |= QualityIV
		}
		return DataPoint{IOA: ioa, Value: NewBinaryCounterValue(bcr), Quality: q}, nil

	default:
		return DataPoint{}, fmt.Errorf("iec104: no element decoder for type %s", t)
	}
}
