package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docsniff/internal/config"
	"docsniff/internal/diag"
	"docsniff/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.php|directory]...",
	Short: "Report doc comment violations",
	Long:  `Check doc comments of the given files, or of every file the ruleset selects in the given directories (default: current directory)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSniffs(cmd, args, false)
	},
}

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [file.php|directory]...",
	Short: "Fix doc comment violations in place",
	Long:  `Apply every automatic fix until the files stabilise, then report what is left`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSniffs(cmd, args, true)
	},
}

func init() {
	for _, c := range []*cobra.Command{checkCmd, fixCmd} {
		c.Flags().String("format", "", "output format (pretty|short|json|sarif); default from config")
		c.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
		c.Flags().Bool("with-notes", false, "include diagnostic notes in output")
		c.Flags().Bool("fullpath", false, "emit absolute file paths in output")
		c.Flags().Bool("strict", false, "exit with status 1 on warnings too")
		c.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	}
	checkCmd.Flags().Bool("cache", false, "cache results on disk (also enabled by [cache] in config)")
	checkCmd.Flags().String("cache-dir", "", "cache directory (default: config cache.dir or user cache)")
	fixCmd.Flags().Bool("dry-run", false, "print the changes instead of writing files")
}

type runFlags struct {
	format    string
	jobs      int
	withNotes bool
	fullPath  bool
	strict    bool
	ui        uiMode
	cache     bool
	cacheDir  string
	dryRun    bool
	timings   bool
	maxDiag   int
	cfgPath   string
}

func readRunFlags(cmd *cobra.Command, fixMode bool) (runFlags, error) {
	var (
		f   runFlags
		err error
	)
	fl := cmd.Flags()
	if f.format, err = fl.GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	if f.jobs, err = fl.GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.withNotes, err = fl.GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.fullPath, err = fl.GetBool("fullpath"); err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if f.strict, err = fl.GetBool("strict"); err != nil {
		return f, fmt.Errorf("failed to get strict flag: %w", err)
	}
	uiFlag, err := fl.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiFlag); err != nil {
		return f, err
	}
	if fixMode {
		if f.dryRun, err = fl.GetBool("dry-run"); err != nil {
			return f, fmt.Errorf("failed to get dry-run flag: %w", err)
		}
	} else {
		if f.cache, err = fl.GetBool("cache"); err != nil {
			return f, fmt.Errorf("failed to get cache flag: %w", err)
		}
		if f.cacheDir, err = fl.GetString("cache-dir"); err != nil {
			return f, fmt.Errorf("failed to get cache-dir flag: %w", err)
		}
	}

	pf := cmd.Root().PersistentFlags()
	if f.timings, err = pf.GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.maxDiag, err = pf.GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if f.cfgPath, err = pf.GetString("config"); err != nil {
		return f, fmt.Errorf("failed to get config flag: %w", err)
	}
	return f, nil
}

// loadConfig resolves the ruleset for target: --config wins, then discovery from target upwards.
func loadConfig(cfgPath, target string, isDir bool) (*config.Config, error) {
	if cfgPath != "" {
		return config.Load(cfgPath)
	}
	dir := target
	if !isDir {
		dir = filepath.Dir(target)
	}
	return config.Discover(dir)
}

func openCache(f runFlags, cfg *config.Config) (*driver.DiskCache, error) {
	if !f.cache && !cfg.Cache {
		return nil, nil
	}
	dir := f.cacheDir
	if dir == "" && cfg.CacheDir != "" {
		dir = cfg.CacheDir
		if !filepath.IsAbs(dir) && cfg.Root != "" {
			dir = filepath.Join(cfg.Root, dir)
		}
	}
	return driver.OpenDiskCache(dir)
}

func runSniffs(cmd *cobra.Command, args []string, fixMode bool) error {
	f, err := readRunFlags(cmd, fixMode)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"."}
	}
	log := state.log

	var (
		results []*driver.FileResult
		format  = f.format
	)
	for _, target := range args {
		st, err := os.Stat(target)
		if err != nil {
			return fmt.Errorf("failed to stat path: %w", err)
		}
		cfg, err := loadConfig(f.cfgPath, target, st.IsDir())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.Path != "" {
			log.Debug("config loaded", zap.String("path", cfg.Path))
		}
		if format == "" {
			format = cfg.Format
		}
		cache, err := openCache(f, cfg)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}

		opts := &driver.Options{
			Config:         cfg,
			MaxDiagnostics: f.maxDiag,
			Fix:            fixMode,
			DryRun:         f.dryRun,
			EnableTimings:  f.timings,
			Cache:          cache,
			Logger:         log,
			Jobs:           f.jobs,
		}

		if !st.IsDir() {
			res, err := driver.CheckFile(target, opts)
			if err != nil {
				return fmt.Errorf("check failed: %w", err)
			}
			results = append(results, res)
			continue
		}

		var dirResults []*driver.FileResult
		if !state.quiet && format == "pretty" && shouldUseTUI(f.ui) {
			dirResults, err = checkDirWithUI(cmd.Context(), target, opts)
		} else {
			dirResults, err = driver.CheckDir(cmd.Context(), target, opts)
		}
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		results = append(results, dirResults...)
	}

	if err := render(os.Stdout, results, format, f, cmd.CommandPath(), args); err != nil {
		return err
	}
	if fixMode && f.dryRun {
		for _, r := range results {
			if r.Changed {
				printDiff(os.Stdout, r)
			}
		}
	}

	sum := driver.Summarize(results)
	if !state.quiet && format != "json" && format != "sarif" {
		printSummary(os.Stderr, sum, fixMode, f.dryRun)
	}
	if f.timings && sum.Timings != nil {
		printTimings(os.Stderr, sum)
	}

	if sum.Errors > 0 || (f.strict && sum.Warnings > 0) {
		return errIssues
	}
	return nil
}

func printSummary(w *os.File, sum driver.Summary, fixMode, dryRun bool) {
	var parts []string
	parts = append(parts, plural(sum.Files, "file"))
	parts = append(parts, plural(sum.Errors, "error"))
	parts = append(parts, plural(sum.Warnings, "warning"))
	if fixMode {
		verb := "fixed"
		if dryRun {
			verb = "would fix"
		}
		parts = append(parts, fmt.Sprintf("%s %s (%s)", verb, plural(sum.Changed, "file"), plural(sum.Fixed, "fix")))
	}
	if sum.Cached > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", sum.Cached))
	}
	fmt.Fprintln(w, strings.Join(parts, ", "))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	if strings.HasSuffix(word, "x") {
		return fmt.Sprintf("%d %ses", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// hasOutput reports whether a result carries anything worth printing.
func hasOutput(r *driver.FileResult) bool {
	for _, d := range r.Bag.Items() {
		if d.Code != diag.ObsTimings {
			return true
		}
	}
	return false
}
