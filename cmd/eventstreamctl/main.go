// Package main is the entry point for eventstreamctl, a demonstration
// harness that feeds a file or stdin through a decoder.Decoder.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "eventstreamctl",
	Short: "Decode a binary event-stream and print the resulting messages",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
