// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package mppsolar

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrChecksumSize is returned when a checksum is not exactly two bytes
var ErrChecksumSize = errors.New("mppsolar: checksum must be 2 bytes")

// Checksum is a delimiter-safe MPP-Solar CRC
type Checksum uint16

// Calculate returns the checksum of data
func Calculate(data []byte) Checksum {
	return ApplyFixup(CalculateRaw(data))
}

// ParseChecksum decodes a checksum from its two wire bytes (high byte first)
func ParseChecksum(b []byte) (Checksum, error) {
	if len(b) != ChecksumSize {
		return 0, fmt.Errorf("%w: got %d", ErrChecksumSize, len(b))
	}
	return Checksum(binary.BigEndian.Uint16(b)), nil
}

// ParseChecksumHex parses a checksum written as hex, e.g. "49C1", "0x49c1" or "49 c1"
func ParseChecksumHex(s string) (Checksum, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	clean = strings.TrimPrefix(strings.TrimPrefix(clean, "0x"), "0X")
	if len(clean) == 0 || len(clean) > 4 {
		return 0, fmt.Errorf("invalid checksum %q", s)
	}
	v, err := strconv.ParseUint(clean, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid checksum %q: %w", s, err)
	}
	return Checksum(v), nil
}

// High returns the first byte sent on the wire
func (c Checksum) High() byte {
	return byte(c >> 8)
}

// Low returns the second byte sent on the wire
func (c Checksum) Low() byte {
	return byte(c)
}

// Bytes returns the checksum in wire order
func (c Checksum) Bytes() [ChecksumSize]byte {
	return [ChecksumSize]byte{c.High(), c.Low()}
}

// AppendTo appends the checksum in wire order to dst
func (c Checksum) AppendTo(dst []byte) []byte {
	return append(dst, c.High(), c.Low())
}

// Valid reports whether neither byte collides with a frame delimiter.
// Every value returned by Calculate is valid.
func (c Checksum) Valid() bool {
	return !IsDelimiter(c.High()) && !IsDelimiter(c.Low())
}

func (c Checksum) String() string {
	return fmt.Sprintf("0x%04X", uint16(c))
}
