// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Thermoquad/mppsolar/pkg/mppsolar"
	"github.com/spf13/cobra"
)

var (
	verifyVectorsFile string
	verifyQuiet       bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [hex-frame...]",
	Short: "Verify captured frames or a vector corpus",
	Long: `Verify that the last two bytes of each frame are the checksum of the
bytes before them.

Frames are given as hex bytes with the trailing carriage return removed.
Responses keep their leading '(' since it is covered by the checksum.
With --vectors, every entry of a CBOR corpus (see "vectors --write") is
recomputed instead.

Exit codes:
  0 - All checksums valid
  1 - At least one checksum mismatch or malformed frame
  2 - Usage or I/O error

Examples:
  mppsolar verify "28 50 49 33 30 9A 0B"
  mppsolar verify --vectors known.cbor`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyVectorsFile, "vectors", "", "CBOR vector corpus to verify")
	verifyCmd.Flags().BoolVarP(&verifyQuiet, "quiet", "q", false, "Only print failures and the summary")
}

func runVerify(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && verifyVectorsFile == "" {
		return fmt.Errorf("nothing to verify: pass hex frames or --vectors")
	}

	out := cmd.OutOrStdout()
	paint := painter(colorEnabled(out))
	stats := mppsolar.NewStatistics()

	for _, arg := range args {
		data, err := mppsolar.ParseHex(arg)
		if err == nil {
			err = mppsolar.VerifyTrailer(data)
		}
		stats.Update(err)
		if err == nil {
			payload := data[:len(data)-mppsolar.ChecksumSize]
			stats.RecordFixup(payload)
			reportOK(out, paint, mppsolar.FormatResult(payload, mppsolar.Calculate(payload)))
		} else {
			reportFail(out, paint, arg, err)
		}
	}

	if verifyVectorsFile != "" {
		raw, err := os.ReadFile(verifyVectorsFile)
		if err != nil {
			return fmt.Errorf("failed to read vectors: %w", err)
		}
		vectors, err := mppsolar.DecodeVectors(raw)
		if err != nil {
			return err
		}
		for _, v := range vectors {
			err := v.Check()
			stats.Update(err)
			if err == nil {
				stats.RecordFixup(v.Data)
				reportOK(out, paint, v.Name+"  "+mppsolar.FormatResult(v.Data, v.Checksum))
			} else {
				reportFail(out, paint, v.Name, err)
			}
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, paint.render(labelStyle, stats.String()))

	if stats.Errors() > 0 {
		return &ExitError{
			Code: 1,
			Err:  fmt.Errorf("%d of %d checksums failed verification", stats.Errors(), stats.Total),
		}
	}
	return nil
}

func reportOK(out io.Writer, paint painter, line string) {
	if verifyQuiet {
		return
	}
	fmt.Fprintf(out, "%s %s\n", paint.render(valueStyle, "OK  "), line)
}

func reportFail(out io.Writer, paint painter, name string, err error) {
	fmt.Fprintf(out, "%s %s: %v\n", paint.render(errorStyle, "FAIL"), name, err)
}
