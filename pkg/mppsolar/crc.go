// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package mppsolar

import (
	"errors"
	"fmt"
)

// ErrInvalidLength is returned when a length exceeds the buffer it describes
var ErrInvalidLength = errors.New("mppsolar: length exceeds buffer")

// CalculateCRC computes the MPP-Solar checksum for the given data
func CalculateCRC(data []byte) uint16 {
	return uint16(ApplyFixup(CalculateRaw(data)))
}

// CalculateCRCN computes the checksum of the first length bytes of data.
// It fails with ErrInvalidLength instead of reading past the buffer.
func CalculateCRCN(data []byte, length uint8) (uint16, error) {
	if int(length) > len(data) {
		return 0, fmt.Errorf("%w: length %d, buffer %d", ErrInvalidLength, length, len(data))
	}
	return CalculateCRC(data[:length]), nil
}

// CalculateRaw computes the CRC before the delimiter fixup.
// The result is identical to CRC-16/XModem.
func CalculateRaw(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc = updateNibble(crc, b>>4)
		crc = updateNibble(crc, b&0x0F)
	}
	return crc
}

func updateNibble(crc uint16, nibble byte) uint16 {
	da := byte(crc>>12) ^ nibble
	return (crc << 4) ^ crcTable[da]
}

// ApplyFixup bumps each byte of a raw CRC that collides with a delimiter.
// The bumped values (0x0B, 0x0E, 0x29) are never delimiters themselves.
func ApplyFixup(raw uint16) Checksum {
	high := fixupByte(byte(raw >> 8))
	low := fixupByte(byte(raw))
	return Checksum(uint16(high)<<8 | uint16(low))
}

func fixupByte(b byte) byte {
	if IsDelimiter(b) {
		return b + 1
	}
	return b
}

// IsDelimiter reports whether b is one of the bytes reserved for framing
func IsDelimiter(b byte) bool {
	return b == DelimiterLF || b == DelimiterCR || b == DelimiterStart
}
