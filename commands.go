package iec104

import "math"

// QOIStationInterrogation is the qualifier-of-interrogation value for a
// general (station) interrogation, the only QOI this engine sends.
const QOIStationInterrogation byte = 0x14

func commandHeader(typeID TypeID, commonAddress uint16) ASDUHeader {
	return ASDUHeader{TypeID: typeID, Sequence: false, Count: 1, COT: CotActivation, CommonAddress: commonAddress}
}

// BuildGeneralInterrogation encodes a station interrogation command ASDU:
// IOA 0, payload [qoi=0x14].
func BuildGeneralInterrogation(commonAddress uint16) []byte {
	obj := appendIOA(nil, 0)
	obj = append(obj, QOIStationInterrogation)
	return EncodeASDU(commandHeader(CIcNa1, commonAddress), obj)
}

// BuildCounterInterrogation encodes a counter interrogation command ASDU:
// IOA 0, payload [group].
func BuildCounterInterrogation(commonAddress uint16, group byte) []byte {
	obj := appendIOA(nil, 0)
	obj = append(obj, group)
	return EncodeASDU(commandHeader(CCiNa1, commonAddress), obj)
}

// BuildClockSync encodes a clock synchronization command ASDU: IOA 0,
// payload the 7-byte CP56Time2a.
func BuildClockSync(commonAddress uint16, t CP56Time2a) []byte {
	tb := t.Bytes()
	obj := appendIOA(nil, 0)
	obj = append(obj, tb[:]...)
	return EncodeASDU(commandHeader(CCsNa1, commonAddress), obj)
}

// BuildSingleCommand encodes a single command ASDU: the target IOA,
// payload [SCO: bit0=value, bit7=select].
func BuildSingleCommand(commonAddress uint16, ioa IOA, value bool, selectBeforeOperate bool) []byte {
	sco := byte(0)
	if value {
		sco |= 0x01
	}
	if selectBeforeOperate {
		sco |= 0x80
	}
	obj := appendIOA(nil, ioa)
	obj = append(obj, sco)
	return EncodeASDU(commandHeader(CScNa1, commonAddress), obj)
}

// BuildDoubleCommand encodes a double command ASDU: the target IOA,
// payload [DCO: bits0-1=value, bit7=select].
func BuildDoubleCommand(commonAddress uint16, ioa IOA, value DoublePointValue, selectBeforeOperate bool) []byte {
	dco := byte(value) & 0x03
	if selectBeforeOperate {
		dco |= 0x80
	}
	obj := appendIOA(nil, ioa)
	obj = append(obj, dco)
	return EncodeASDU(commandHeader(CDcNa1, commonAddress), obj)
}

// BuildSetpointFloat encodes a short-floating-point setpoint command ASDU:
// the target IOA, payload 4 bytes IEEE-754 little-endian + [QOS: bit7=select].
func BuildSetpointFloat(commonAddress uint16, ioa IOA, value float32, selectBeforeOperate bool) []byte {
	vb := serializeLittleEndianUint32(math.Float32bits(value))
	qos := byte(0)
	if selectBeforeOperate {
		qos |= 0x80
	}
	obj := appendIOA(nil, ioa)
	obj = append(obj, vb...)
	obj = append(obj, qos)
	return EncodeASDU(commandHeader(CSeNc1, commonAddress), obj)
}
