package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"docsniff/internal/prof"
)

// runState is built once per invocation by setupRun.
type runState struct {
	log      *zap.Logger
	useColor bool
	quiet    bool
	profile  *prof.Session
}

var state = runState{log: zap.NewNop()}

func setupRun(cmd *cobra.Command, _ []string) error {
	pf := cmd.Root().PersistentFlags()

	colorFlag, err := pf.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := readColor(colorFlag)
	if err != nil {
		return err
	}
	color.NoColor = !useColor
	state.useColor = useColor

	verbose, err := pf.GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	quiet, err := pf.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if verbose && quiet {
		return fmt.Errorf("--verbose and --quiet cannot be used together")
	}
	state.quiet = quiet

	log, err := newLogger(verbose, quiet)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	state.log = log

	var opts prof.Options
	if opts.CPU, err = pf.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = pf.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = pf.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if opts.Enabled() {
		s, err := prof.Start(opts)
		if err != nil {
			return err
		}
		state.profile = s
	}
	return nil
}

// teardown runs after every command, including failed ones.
func teardown() {
	if err := state.profile.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write profile: %v\n", err)
	}
	_ = state.log.Sync()
}

func readColor(value string) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == "", nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// newLogger builds the stderr logger: warnings by default, debug under --verbose.
func newLogger(verbose, quiet bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = !verbose
	cfg.Sampling = nil

	switch {
	case verbose:
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.DisableCaller = false
	case quiet:
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
		cfg.DisableCaller = true
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.DisableCaller = true
	}
	return cfg.Build()
}
