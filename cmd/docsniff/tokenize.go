package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docsniff/internal/diag"
	"docsniff/internal/diagfmt"
	"docsniff/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.php",
	Short: "Print the token stream of a file",
	Long:  `Tokenize shows the tokens the sniffs see, with pair, owner and doc tag links`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}

	result, err := driver.Tokenize(filePath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// лексические ошибки в stderr, токены в stdout
	if result.Bag.Count(diag.SevError)+result.Bag.Count(diag.SevWarning) > 0 {
		opts := diagfmt.PrettyOpts{
			Color:   state.useColor && isTerminal(os.Stderr),
			Context: 1,
		}
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, opts)
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, result.Stream)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Stream)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
