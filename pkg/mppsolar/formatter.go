// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package mppsolar

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// FormatHex returns data as upper-case hex bytes, 16 per line
func FormatHex(data []byte) string {
	var sb strings.Builder
	for i, b := range data {
		if i > 0 {
			if i%16 == 0 {
				sb.WriteString("\n")
			} else {
				sb.WriteString(" ")
			}
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

// FormatPrintable renders data as text, escaping bytes outside printable ASCII
func FormatPrintable(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		switch {
		case b == '\r':
			sb.WriteString(`\r`)
		case b == '\n':
			sb.WriteString(`\n`)
		case b >= 0x20 && b < 0x7F:
			sb.WriteByte(b)
		default:
			fmt.Fprintf(&sb, `\x%02X`, b)
		}
	}
	return sb.String()
}

// FormatResult returns a one-line summary of a checksum over data
func FormatResult(data []byte, sum Checksum) string {
	result := fmt.Sprintf("\"%s\"  %s  [%02X %02X]", FormatPrintable(data), sum, sum.High(), sum.Low())
	if raw := CalculateRaw(data); uint16(sum) != raw {
		result += fmt.Sprintf("  (fixup from 0x%04X)", raw)
	}
	return result
}

// ParseHex decodes hex input, ignoring spaces, colons and 0x prefixes
func ParseHex(s string) ([]byte, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ':' || r == ',' || r == '\t'
	})
	var sb strings.Builder
	for _, f := range fields {
		f = strings.TrimPrefix(strings.TrimPrefix(f, "0x"), "0X")
		sb.WriteString(f)
	}
	data, err := hex.DecodeString(sb.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return data, nil
}
