// Package cmd implements the wirebom CLI: a thin cobra wrapper around
// pkg/pipeline. It owns argument parsing, exit-code mapping, and progress
// logging; every actual wire-BOM computation lives in the library
// packages, per spec.md §1's "out of scope" boundary.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "wirebom",
	Short: "Generate a wire-level Bill of Materials from a KiCad schematic",
	Long: `wirebom converts a KiCad schematic source tree into a wire-level
Bill of Materials for an experimental aircraft harness, preserving each
physical wire segment as its own row with label, endpoints, length,
gauge, color, and engineering annotations.`,
}

// Execute runs the root command, exiting the process with status 1 on
// any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress")
}
