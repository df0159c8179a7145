package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:          "report-card",
		Short:        "Fetch and normalize report cards from the Dana education portal",
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newFetchCommand())
	rootCmd.AddCommand(newDeriveKeyCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
