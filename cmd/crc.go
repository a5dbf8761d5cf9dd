// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/Thermoquad/mppsolar/pkg/mppsolar"
	"github.com/spf13/cobra"
)

var (
	crcHexInput bool
)

var crcCmd = &cobra.Command{
	Use:   "crc [input...]",
	Short: "Calculate the checksum of command strings",
	Long: `Calculate the MPP-Solar checksum of each argument.

Arguments are taken as ASCII command strings (e.g. QPIGS) unless --hex is
given, in which case each argument is a sequence of hex bytes. With no
arguments, inputs are read from stdin, one per line.

The two checksum bytes are sent high byte first, directly after the command
and before the terminating carriage return.

Examples:
  mppsolar crc QPI QPIGS
  mppsolar crc --hex "28 50 49 33 30"
  echo QMOD | mppsolar crc -o hex`,
	RunE: runCRC,
}

func init() {
	rootCmd.AddCommand(crcCmd)
	crcCmd.Flags().BoolVarP(&crcHexInput, "hex", "x", false, "Treat inputs as hex bytes")
}

func runCRC(cmd *cobra.Command, args []string) error {
	lines := args
	if len(lines) == 0 {
		var err error
		if lines, err = readLines(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	w := newResultWriter(cmd.OutOrStdout(), outputFormat)
	for _, line := range lines {
		data, err := parseInput(line, crcHexInput)
		if err != nil {
			return err
		}
		if err := w.Add(line, data, mppsolar.Calculate(data)); err != nil {
			return err
		}
	}
	return w.Flush()
}

// parseInput converts one command line input to bytes
func parseInput(s string, hexInput bool) ([]byte, error) {
	if !hexInput {
		return []byte(s), nil
	}
	data, err := mppsolar.ParseHex(s)
	if err != nil {
		return nil, err
	}
	if len(data) > mppsolar.MaxLength {
		return nil, fmt.Errorf("input too long: %d bytes (max %d)", len(data), mppsolar.MaxLength)
	}
	return data, nil
}

// readLines reads non-empty lines, dropping CR/LF line endings
func readLines(r io.Reader) ([]string, error) {
	if isTerminal(r) {
		log.Printf("Reading inputs from terminal, one per line (Ctrl+D to finish)")
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}
