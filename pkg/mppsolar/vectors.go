// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package mppsolar

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Vector is a known-good (input, checksum) pair.
// Corpus files store a CBOR array of vectors keyed by small integers.
type Vector struct {
	Name     string   `cbor:"0,keyasint"`
	Data     []byte   `cbor:"1,keyasint"`
	Checksum Checksum `cbor:"2,keyasint"`
}

// Check recomputes the checksum of v.Data and compares it to v.Checksum
func (v Vector) Check() error {
	if err := Verify(v.Data, v.Checksum); err != nil {
		return fmt.Errorf("vector %s: %w", v.Name, err)
	}
	return nil
}

// KnownVectors returns checksums captured from real devices.
// Response vectors include the leading '(' but not the checksum or CR.
func KnownVectors() []Vector {
	return []Vector{
		// Inquiry commands
		{Name: "QPI", Data: []byte("QPI"), Checksum: 0xBEAC},
		{Name: "QID", Data: []byte("QID"), Checksum: 0xD6EA},
		{Name: "QMOD", Data: []byte("QMOD"), Checksum: 0x49C1},
		{Name: "QPIGS", Data: []byte("QPIGS"), Checksum: 0xB7A9},
		{Name: "QPIRI", Data: []byte("QPIRI"), Checksum: 0xF854},
		{Name: "QPIWS", Data: []byte("QPIWS"), Checksum: 0xB4DA},
		{Name: "QFLAG", Data: []byte("QFLAG"), Checksum: 0x9874},
		{Name: "QDI", Data: []byte("QDI"), Checksum: 0x711B},
		{Name: "QVFW", Data: []byte("QVFW"), Checksum: 0x6299},

		// Raw CRC 0x0A88, high byte bumped
		{Name: "QBOOT", Data: []byte("QBOOT"), Checksum: 0x0B88},
		// Raw CRC 0xE20A, low byte bumped
		{Name: "POP02", Data: []byte("POP02"), Checksum: 0xE20B},

		// Responses
		{Name: "QPI response", Data: []byte("(PI30"), Checksum: 0x9A0B},
		{Name: "QMOD response", Data: []byte("(B"), Checksum: 0xE7C9},
		{Name: "QID response", Data: []byte("(92631807100358"), Checksum: 0x97D9},
		{
			Name:     "QPIGS response",
			Data:     []byte("(001.0 00.0 229.0 60.0 0000 0000 000 350 24.83 005 045 0422 0006 024.5 24.89 00000 10010110 00 03 00157 000"),
			Checksum: 0xBD73,
		},
	}
}

// EncodeVectors serializes vectors to a CBOR corpus
func EncodeVectors(vectors []Vector) ([]byte, error) {
	data, err := cbor.Marshal(vectors)
	if err != nil {
		return nil, fmt.Errorf("failed to encode vectors: %w", err)
	}
	return data, nil
}

// DecodeVectors parses a CBOR corpus written by EncodeVectors
func DecodeVectors(data []byte) ([]Vector, error) {
	var vectors []Vector
	if err := cbor.Unmarshal(data, &vectors); err != nil {
		return nil, fmt.Errorf("failed to decode vectors: %w", err)
	}
	return vectors, nil
}
