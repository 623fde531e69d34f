package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags.
	Version = "0.1.0-dev"
)

var rootCmd = &cobra.Command{
	Use:   "latextoken",
	Short: "Tokenize LaTeX source",
	Long: `latextoken reads LaTeX source and prints the token stream produced by
the core tokenizer.

It is a debugging and inspection tool for the tokenizer and parsing
state packages: it does not expand macros or understand what any given
environment or macro means.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
