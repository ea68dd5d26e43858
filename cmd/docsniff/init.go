package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docsniff/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write the default ruleset",
	Long: `Write .docsniff.toml with the built-in ruleset into [dir] (default: current
directory). The directory is created when missing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing ruleset")
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	if !force {
		for _, name := range config.FileNames {
			existing := filepath.Join(target, name)
			if _, err := os.Stat(existing); err == nil {
				return fmt.Errorf("ruleset already exists: %s (use --force to overwrite)", existing)
			}
		}
	}

	path := filepath.Join(target, config.FileNames[0])
	if err := os.WriteFile(path, []byte(config.DefaultTOML), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if !state.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	}
	return nil
}
