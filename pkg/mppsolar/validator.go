// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package mppsolar

import (
	"errors"
	"fmt"
)

// ErrShortBuffer is returned when data is too short to carry a checksum
var ErrShortBuffer = errors.New("mppsolar: buffer shorter than checksum")

// MismatchError reports a received checksum that does not match the data
type MismatchError struct {
	Expected Checksum
	Received Checksum
}

// Error implements the error interface
func (e *MismatchError) Error() string {
	return fmt.Sprintf("CRC mismatch: expected %s, got %s", e.Expected, e.Received)
}

// Verify checks that received is the checksum of payload
func Verify(payload []byte, received Checksum) error {
	expected := Calculate(payload)
	if expected != received {
		return &MismatchError{Expected: expected, Received: received}
	}
	return nil
}

// VerifyTrailer checks data whose last two bytes are the checksum of the
// bytes before them. Framing bytes such as the trailing CR must already be
// stripped; a response's leading '(' is part of the checksummed payload.
func VerifyTrailer(data []byte) error {
	if len(data) < ChecksumSize {
		return fmt.Errorf("%w: %d bytes", ErrShortBuffer, len(data))
	}
	split := len(data) - ChecksumSize
	received, err := ParseChecksum(data[split:])
	if err != nil {
		return err
	}
	return Verify(data[:split], received)
}

// IsMismatch reports whether err is (or wraps) a checksum mismatch
func IsMismatch(err error) bool {
	var mismatch *MismatchError
	return errors.As(err, &mismatch)
}
