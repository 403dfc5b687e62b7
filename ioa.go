package iec104

import "encoding/binary"

// IOALength is the wire width, in bytes, of an Information Object Address.
const IOALength = 3

// IOA is a 24-bit Information Object Address. Construction always masks to
// the low 24 bits so equality and hashing are well defined regardless of
// how a caller built the value.
type IOA uint32

// NewIOA masks x to the low 24 bits.
func NewIOA(x uint32) IOA { return IOA(x & 0xFFFFFF) }

// parseIOA reads the 3-byte little-endian IOA at data[0:3].
func parseIOA(data []byte) IOA {
	return IOA(binary.LittleEndian.Uint32([]byte{data[0], data[1], data[2], 0x00}))
}

// appendIOA appends the 3-byte little-endian encoding of ioa to buf.
func appendIOA(buf []byte, ioa IOA) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(ioa)&0xFFFFFF)
	return append(buf, tmp[0], tmp[1], tmp[2])
}

// Add returns a new IOA offset by n, still masked to 24 bits. Used to
// derive the i-th address of a sequenced (VSQ sequence-bit=1) ASDU from
// its base address.
func (a IOA) Add(n int) IOA {
	return NewIOA(uint32(a) + uint32(n))
}
