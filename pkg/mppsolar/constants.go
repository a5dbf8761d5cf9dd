// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package mppsolar implements the checksum used by MPP-Solar family
// inverters and charge controllers.
//
// Commands and responses on the serial/HID link are ASCII strings followed
// by a two byte CRC and a carriage return. The CRC is a nibble-wise
// CRC-16/XModem whose result bytes are nudged away from the values the
// protocol uses as frame delimiters, so a checksum byte can never be
// mistaken for the end or start of a frame.
package mppsolar

// Frame delimiters that a checksum byte must never equal
const (
	DelimiterLF    = 0x0A // line feed
	DelimiterCR    = 0x0D // carriage return, terminates every frame
	DelimiterStart = 0x28 // '(' starts every response
)

// Size limits
const (
	ChecksumSize = 2
	MaxLength    = 255 // length field of CalculateCRCN is 8 bits
)

// crcTable holds the CRC-16-CCITT (0x1021) products for one nibble.
var crcTable = [16]uint16{
	0x0000, 0x1021, 0x2042, 0x3063, 0x4084, 0x50a5, 0x60c6, 0x70e7,
	0x8108, 0x9129, 0xa14a, 0xb16b, 0xc18c, 0xd1ad, 0xe1ce, 0xf1ef,
}
