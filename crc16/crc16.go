// Package crc16 computes the 16-bit frame integrity code carried in the
// trailer of every packed record. The algorithm is fixed by the wire format:
// reflected CRC with polynomial 0x8408, initial value 0xFFFF, and a final
// inversion plus byte swap.
package crc16

import "encoding/binary"

const poly uint16 = 0x8408

// Size is the length of the serialized trailer in bytes.
const Size = 2

// Checksum computes the integrity code over data.
func Checksum(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		for i := 0; i < 8; i++ {
			if (crc^uint16(b))&1 != 0 {
				crc = (crc >> 1) ^ poly
			} else {
				crc >>= 1
			}
			b >>= 1
		}
	}
	crc = ^crc
	return crc<<8 | crc>>8
}

// Sum returns the 2-byte trailer for data.
func Sum(data []byte) []byte {
	buf := make([]byte, Size)
	binary.LittleEndian.PutUint16(buf, Checksum(data))
	return buf
}

// Append appends the trailer for data to dst and returns the extended slice.
func Append(dst, data []byte) []byte {
	crc := Checksum(data)
	return append(dst, byte(crc), byte(crc>>8))
}

// Verify reports whether trailer carries the checksum of data.
func Verify(data, trailer []byte) bool {
	if len(trailer) != Size {
		return false
	}
	return binary.LittleEndian.Uint16(trailer) == Checksum(data)
}
