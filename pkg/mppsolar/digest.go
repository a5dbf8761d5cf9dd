// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package mppsolar

import (
	"hash"

	"github.com/sigurn/crc16"
)

// xmodemTable matches CalculateRaw: poly 0x1021, init 0, no reflection, no xorout
var xmodemTable = crc16.MakeTable(crc16.CRC16_XMODEM)

// Hash16 is a hash.Hash that also reports its sum as a uint16
type Hash16 interface {
	hash.Hash
	Sum16() uint16
}

// Digest computes the MPP-Solar checksum incrementally.
// The fixup is applied when the sum is read, so writes may be split anywhere.
type Digest struct {
	crc uint16
}

var _ Hash16 = (*Digest)(nil)

// NewDigest creates a new streaming checksum
func NewDigest() *Digest {
	return &Digest{crc: crc16.Init(xmodemTable)}
}

// Write adds p to the running checksum. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	d.crc = crc16.Update(d.crc, p, xmodemTable)
	return len(p), nil
}

// Raw returns the running CRC before the delimiter fixup
func (d *Digest) Raw() uint16 {
	return crc16.Complete(d.crc, xmodemTable)
}

// Checksum returns the delimiter-safe checksum of everything written so far
func (d *Digest) Checksum() Checksum {
	return ApplyFixup(d.Raw())
}

// Sum16 returns the checksum as a uint16
func (d *Digest) Sum16() uint16 {
	return uint16(d.Checksum())
}

// Sum appends the checksum in wire order to b
func (d *Digest) Sum(b []byte) []byte {
	return d.Checksum().AppendTo(b)
}

// Reset clears the running checksum
func (d *Digest) Reset() {
	d.crc = crc16.Init(xmodemTable)
}

// Size returns the number of bytes Sum appends
func (d *Digest) Size() int { return ChecksumSize }

// BlockSize returns the digest's block size
func (d *Digest) BlockSize() int { return 1 }
