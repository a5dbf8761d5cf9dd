// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package mppsolar

import (
	"fmt"
	"time"
)

// Statistics tracks checksum verification results
type Statistics struct {
	StartTime time.Time

	// Counters
	Total      uint64
	Valid      uint64
	Mismatches uint64
	Malformed  uint64 // too short or otherwise unverifiable
	Fixups     uint64 // checksums that needed the delimiter fixup
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	return &Statistics{StartTime: time.Now()}
}

// Update records the result of one Verify or VerifyTrailer call
func (s *Statistics) Update(err error) {
	s.Total++
	switch {
	case err == nil:
		s.Valid++
	case IsMismatch(err):
		s.Mismatches++
	default:
		s.Malformed++
	}
}

// RecordFixup counts data whose raw CRC collided with a delimiter
func (s *Statistics) RecordFixup(data []byte) {
	raw := CalculateRaw(data)
	if uint16(ApplyFixup(raw)) != raw {
		s.Fixups++
	}
}

// Errors returns the number of failed verifications
func (s *Statistics) Errors() uint64 {
	return s.Mismatches + s.Malformed
}

// ValidPercent returns the share of valid results, 0 when nothing was recorded
func (s *Statistics) ValidPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Valid) * 100.0 / float64(s.Total)
}

// Reset clears all counters
func (s *Statistics) Reset() {
	*s = Statistics{StartTime: time.Now()}
}

// String returns a one-line summary
func (s *Statistics) String() string {
	return fmt.Sprintf("Total: %d  Valid: %d (%.1f%%)  Mismatches: %d  Malformed: %d  Fixups: %d",
		s.Total, s.Valid, s.ValidPercent(), s.Mismatches, s.Malformed, s.Fixups)
}
