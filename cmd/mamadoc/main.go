// Package main implements the mamadoc CLI tool.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "mamadoc",
	Short:        "Track and triage scanned German care documents",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(
		checkCmd,
		processCmd,
		watchCmd,
		serveCmd,
		taskCmd,
	)
}
