// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Output flags
	outputFormat string
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "mppsolar",
	Short: "MPP-Solar checksum tool",
	Long: `mppsolar - calculate and verify the checksums used by MPP-Solar inverters.

Commands and responses on the inverter's serial/HID link end in a two byte
CRC followed by a carriage return. This tool computes that CRC for command
strings, verifies captured frames, and manages reference vector corpora.

Output formats:
  text  human-readable summary (default)
  hex   input followed by its checksum, as hex bytes
  cbor  a CBOR vector corpus, readable by "verify --vectors"`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: validateOutputFlags,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatText, "Output format: text, hex or cbor")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable styled output")
}

func validateOutputFlags(cmd *cobra.Command, args []string) error {
	switch outputFormat {
	case formatText, formatHex, formatCBOR:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, hex or cbor)", outputFormat)
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
