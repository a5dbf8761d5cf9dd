// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package mppsolar

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/icza/bitio"
	"github.com/sigurn/crc16"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// newFuzzRng creates a seeded generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := time.Now().UnixNano()
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if s, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			seed = s
		}
	}
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

func randomBytes(rng *rand.Rand, maxLen int) []byte {
	data := make([]byte, rng.Intn(maxLen+1))
	rng.Read(data)
	return data
}

// nibbleReference walks the input as a 4-bit stream, independently of CalculateRaw
func nibbleReference(t *testing.T, data []byte) uint16 {
	r := bitio.NewReader(bytes.NewReader(data))
	var crc uint16
	for {
		nibble, err := r.ReadBits(4)
		if err == io.EOF {
			return crc
		}
		if err != nil {
			t.Fatalf("bitio read: %v", err)
		}
		da := crc >> 12
		crc <<= 4
		crc ^= crcTable[da^uint16(nibble)]
	}
}

// ============================================================
// CRC Tests
// ============================================================

func TestCalculateCRC_Empty(t *testing.T) {
	if crc := CalculateCRC(nil); crc != 0x0000 {
		t.Errorf("CRC of nil data should be 0x0000, got 0x%04X", crc)
	}
	if crc := CalculateCRC([]byte{}); crc != 0x0000 {
		t.Errorf("CRC of empty data should be 0x0000, got 0x%04X", crc)
	}
}

func TestCalculateCRC_KnownValues(t *testing.T) {
	for _, v := range KnownVectors() {
		t.Run(v.Name, func(t *testing.T) {
			crc := CalculateCRC(v.Data)
			if crc != uint16(v.Checksum) {
				t.Errorf("CRC mismatch: expected 0x%04X, got 0x%04X", uint16(v.Checksum), crc)
			}
		})
	}
}

func TestCalculateRaw_XModemCheckValue(t *testing.T) {
	// Standard CRC-16/XModem check value
	if raw := CalculateRaw([]byte("123456789")); raw != 0x31C3 {
		t.Errorf("Raw CRC of '123456789' should be 0x31C3, got 0x%04X", raw)
	}
}

func TestCalculateCRC_Fixup(t *testing.T) {
	tests := []struct {
		input    string
		raw      uint16
		expected uint16
	}{
		{"U", 0x0A50, 0x0B50},   // high LF
		{"B5", 0x0D58, 0x0E58},  // high CR
		{"F", 0x2802, 0x2902},   // high '('
		{"N", 0xA90A, 0xA90B},   // low LF
		{"JN", 0x4B0D, 0x4B0E},  // low CR
		{"BB", 0x0328, 0x0329},  // low '('
		{"E53", 0x0A0D, 0x0B0E}, // both
		{"A12", 0x0A28, 0x0B29},
		{"3ON", 0x280D, 0x290E},
		{"IYV", 0x0D28, 0x0E29},
		{"7KO", 0x2828, 0x2929},
		{"QPI", 0xBEAC, 0xBEAC}, // untouched
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			data := []byte(tt.input)
			if raw := CalculateRaw(data); raw != tt.raw {
				t.Fatalf("Raw CRC mismatch: expected 0x%04X, got 0x%04X", tt.raw, raw)
			}
			if crc := CalculateCRC(data); crc != tt.expected {
				t.Errorf("CRC mismatch: expected 0x%04X, got 0x%04X", tt.expected, crc)
			}
		})
	}
}

func TestApplyFixup_AllRawValues(t *testing.T) {
	for raw := 0; raw <= 0xFFFF; raw++ {
		sum := ApplyFixup(uint16(raw))
		if !sum.Valid() {
			t.Fatalf("ApplyFixup(0x%04X) = %s contains a delimiter", raw, sum)
		}
		hi, lo := byte(raw>>8), byte(raw)
		if !IsDelimiter(hi) && sum.High() != hi {
			t.Fatalf("ApplyFixup(0x%04X) changed a safe high byte: %s", raw, sum)
		}
		if !IsDelimiter(lo) && sum.Low() != lo {
			t.Fatalf("ApplyFixup(0x%04X) changed a safe low byte: %s", raw, sum)
		}
		if IsDelimiter(lo) && sum.Low() != lo+1 {
			t.Fatalf("ApplyFixup(0x%04X) low byte: expected 0x%02X, got 0x%02X", raw, lo+1, sum.Low())
		}
	}
}

func TestIsDelimiter(t *testing.T) {
	count := 0
	for b := 0; b <= 0xFF; b++ {
		if IsDelimiter(byte(b)) {
			count++
		}
	}
	if count != 3 {
		t.Errorf("Expected 3 delimiter bytes, got %d", count)
	}
	for _, b := range []byte{'\n', '\r', '('} {
		if !IsDelimiter(b) {
			t.Errorf("0x%02X should be a delimiter", b)
		}
	}
}

func TestCalculateCRC_Deterministic(t *testing.T) {
	data := []byte("QPIGS")
	crc1 := CalculateCRC(data)
	crc2 := CalculateCRC(data)
	if crc1 != crc2 {
		t.Errorf("CRC should be deterministic: 0x%04X != 0x%04X", crc1, crc2)
	}
}

func TestCalculateCRC_DoesNotModifyInput(t *testing.T) {
	data := []byte("QPIGS")
	CalculateCRC(data)
	if string(data) != "QPIGS" {
		t.Errorf("Input was modified: %q", data)
	}
}

func TestCalculateCRC_LongInput(t *testing.T) {
	// The slice API is not limited by the 8-bit length field
	data := bytes.Repeat([]byte("QPIGS"), 100)
	if got, want := CalculateRaw(data), crc16.Checksum(data, xmodemTable); got != want {
		t.Errorf("Raw CRC of %d bytes: expected 0x%04X, got 0x%04X", len(data), want, got)
	}
}

func TestCalculateCRC_Concurrent(t *testing.T) {
	vectors := KnownVectors()
	var wg sync.WaitGroup
	errs := make(chan error, len(vectors)*8)
	for i := 0; i < 8; i++ {
		for _, v := range vectors {
			wg.Add(1)
			go func(v Vector) {
				defer wg.Done()
				errs <- v.Check()
			}(v)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
}

// ============================================================
// Length Contract Tests
// ============================================================

func TestCalculateCRCN(t *testing.T) {
	data := []byte("QMODXYZ")

	crc, err := CalculateCRCN(data, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if crc != 0x49C1 {
		t.Errorf("CRC of first 4 bytes should match QMOD (0x49C1), got 0x%04X", crc)
	}

	crc, err = CalculateCRCN(data, uint8(len(data)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if crc != CalculateCRC(data) {
		t.Errorf("Full-length CRCN should equal CalculateCRC")
	}
}

func TestCalculateCRCN_ZeroLength(t *testing.T) {
	// nil would panic if indexed
	crc, err := CalculateCRCN(nil, 0)
	if err != nil {
		t.Fatalf("Zero length should be valid: %v", err)
	}
	if crc != 0x0000 {
		t.Errorf("Zero length should yield 0x0000, got 0x%04X", crc)
	}
}

func TestCalculateCRCN_InvalidLength(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		length uint8
	}{
		{"nil buffer", nil, 1},
		{"one past end", []byte("QPI"), 4},
		{"max length", []byte("QPI"), MaxLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateCRCN(tt.data, tt.length)
			if !errors.Is(err, ErrInvalidLength) {
				t.Errorf("Expected ErrInvalidLength, got %v", err)
			}
		})
	}
}

// ============================================================
// Randomized Tests
// ============================================================

func TestFuzz_DelimiterAvoidance(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		data := randomBytes(rng, 64)
		sum := Calculate(data)
		if IsDelimiter(sum.High()) || IsDelimiter(sum.Low()) {
			t.Fatalf("Round %d: checksum %s of % X contains a delimiter", i, sum, data)
		}
	}
}

func TestFuzz_RawMatchesReferences(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		data := randomBytes(rng, 64)
		raw := CalculateRaw(data)
		if xmodem := crc16.Checksum(data, xmodemTable); raw != xmodem {
			t.Fatalf("Round %d: raw 0x%04X != XModem 0x%04X for % X", i, raw, xmodem, data)
		}
		if ref := nibbleReference(t, data); raw != ref {
			t.Fatalf("Round %d: raw 0x%04X != nibble reference 0x%04X for % X", i, raw, ref, data)
		}
	}
}

func TestFuzz_CRCNMatchesPrefix(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		data := randomBytes(rng, MaxLength)
		length := uint8(rng.Intn(len(data) + 1))
		crc, err := CalculateCRCN(data, length)
		if err != nil {
			t.Fatalf("Round %d: unexpected error: %v", i, err)
		}
		if expected := CalculateCRC(data[:length]); crc != expected {
			t.Fatalf("Round %d: expected 0x%04X, got 0x%04X", i, expected, crc)
		}
	}
}

func TestFuzz_SingleBitSensitivity(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	flips, unchanged := 0, 0
	for i := 0; i < rounds; i++ {
		data := randomBytes(rng, 32)
		if len(data) == 0 {
			continue
		}
		raw := CalculateRaw(data)
		sum := Calculate(data)

		bit := rng.Intn(len(data) * 8)
		data[bit/8] ^= 1 << (bit % 8)

		// A CRC detects every single bit error before the fixup
		if CalculateRaw(data) == raw {
			t.Fatalf("Round %d: flipping bit %d did not change the raw CRC", i, bit)
		}
		flips++
		if Calculate(data) == sum {
			unchanged++
		}
	}

	// The fixup can merge two raw values, so allow a small number of collisions
	if flips > 0 && unchanged*100 > flips {
		t.Errorf("%d of %d single bit flips left the checksum unchanged", unchanged, flips)
	}
}

func FuzzCalculateCRC(f *testing.F) {
	for _, v := range KnownVectors() {
		f.Add(v.Data)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		sum := Calculate(data)
		if !sum.Valid() {
			t.Fatalf("checksum %s contains a delimiter", sum)
		}
		if uint16(sum) != uint16(ApplyFixup(crc16.Checksum(data, xmodemTable))) {
			t.Fatalf("checksum %s disagrees with XModem reference", sum)
		}
	})
}
