// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// mppsolar - MPP-Solar Checksum Tool
//
// A CLI tool for calculating and verifying the CRC that MPP-Solar
// inverters append to every command and response.

package main

import (
	"os"

	"github.com/Thermoquad/mppsolar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
