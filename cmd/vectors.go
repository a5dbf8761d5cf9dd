// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/Thermoquad/mppsolar/pkg/mppsolar"
	"github.com/spf13/cobra"
)

var (
	vectorsWriteFile string
)

var vectorsCmd = &cobra.Command{
	Use:   "vectors",
	Short: "List the built-in reference checksums",
	Long: `List checksums captured from real MPP-Solar devices.

With --write, the vectors are saved as a CBOR corpus that "verify --vectors"
and other implementations can check against.`,
	Args: cobra.NoArgs,
	RunE: runVectors,
}

func init() {
	rootCmd.AddCommand(vectorsCmd)
	vectorsCmd.Flags().StringVarP(&vectorsWriteFile, "write", "w", "", "Write the vectors to a CBOR file")
}

func runVectors(cmd *cobra.Command, args []string) error {
	vectors := mppsolar.KnownVectors()

	if vectorsWriteFile != "" {
		data, err := mppsolar.EncodeVectors(vectors)
		if err != nil {
			return err
		}
		if err := os.WriteFile(vectorsWriteFile, data, 0o644); err != nil {
			return fmt.Errorf("failed to write vectors: %w", err)
		}
		log.Printf("Wrote %d vectors to %s", len(vectors), vectorsWriteFile)
		return nil
	}

	w := newResultWriter(cmd.OutOrStdout(), outputFormat)
	for _, v := range vectors {
		if err := w.Add(v.Name, v.Data, v.Checksum); err != nil {
			return err
		}
	}
	return w.Flush()
}
