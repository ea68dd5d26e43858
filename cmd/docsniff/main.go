package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"docsniff/internal/version"
)

// errIssues reports that violations were found; main maps it to exit code 1 silently.
var errIssues = errors.New("violations found")

var rootCmd = &cobra.Command{
	Use:   "docsniff",
	Short: "Doc comment tag checker and fixer",
	Long: `docsniff checks /** */ doc comments of PHP sources: summaries, tag content,
tag occurrences, ordering and grouping. Most violations can be fixed in place.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
}

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics per file (0 = from config)")
	pf.BoolP("verbose", "v", false, "debug logging to stderr")
	pf.String("config", "", "ruleset file (default: nearest .docsniff.toml or .docsniff.yaml)")
	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file")
	pf.String("runtime-trace", "", "write runtime trace to file")
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	teardown()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errIssues):
		return 1
	default:
		fmt.Fprintf(os.Stderr, "docsniff: %v\n", err)
		return 2
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of stdout, or 0 when it is not a terminal.
func terminalWidth() int {
	if !isTerminal(os.Stdout) {
		return 0
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}
