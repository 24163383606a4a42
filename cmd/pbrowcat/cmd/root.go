package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var errColor = color.New(color.FgRed, color.Bold)

var rootCmd = &cobra.Command{
	Use:   "pbrowcat",
	Short: "Decode a protobuf message stream into named columns",
}

// Execute runs the command tree, exiting nonzero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func bailf(format string, args ...interface{}) {
	errColor.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func checkErr(err error) {
	if err != nil {
		bailf("error: %v", err)
	}
}
