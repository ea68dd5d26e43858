package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"docsniff/internal/occurs"
	"docsniff/internal/sniff"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config is a resolved ruleset.
type Config struct {
	// Path of the loaded file, empty for built-in defaults.
	Path string
	// Root is the directory include/exclude patterns are relative to.
	Root           string
	Include        []string
	Exclude        []string
	Format         string
	MaxDiagnostics int
	Cache          bool
	CacheDir       string
	Settings       *sniff.Settings
}

// Default is the built-in ruleset.
func Default() *Config {
	return &Config{
		Include:        []string{"**/*.php"},
		Exclude:        []string{"vendor/**"},
		Format:         "pretty",
		MaxDiagnostics: 100,
		CacheDir:       ".docsniff-cache",
		Settings:       sniff.DefaultSettings(),
	}
}

// Load reads a TOML or YAML ruleset, chosen by extension.
func Load(p string) (*Config, error) {
	var (
		fc      fileConfig
		defined func(keys ...string) bool
	)
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", p, err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", p, err)
		}
		defined = func(keys ...string) bool { return yamlDefined(raw, keys...) }
	default:
		meta, err := toml.DecodeFile(p, &fc)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", p, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: unknown key %q", p, undecoded[0].String())
		}
		defined = meta.IsDefined
	}

	cfg, err := resolve(fc, defined)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	cfg.Path = p
	cfg.Root = filepath.Dir(p)
	return cfg, nil
}

func yamlDefined(raw map[string]any, keys ...string) bool {
	var cur any = raw
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return false
		}
		if cur, ok = m[k]; !ok {
			return false
		}
	}
	return true
}

func resolve(fc fileConfig, defined func(keys ...string) bool) (*Config, error) {
	cfg := Default()
	set := cfg.Settings

	if defined("files", "include") {
		cfg.Include = fc.Files.Include
	}
	if defined("files", "exclude") {
		cfg.Exclude = fc.Files.Exclude
	}
	for _, pat := range slices.Concat(cfg.Include, cfg.Exclude) {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid glob %q", pat)
		}
	}
	if fc.Output.Format != "" {
		cfg.Format = fc.Output.Format
	}
	if defined("output", "max-diagnostics") {
		if fc.Output.MaxDiagnostics < 0 {
			return nil, fmt.Errorf("negative max-diagnostics %d", fc.Output.MaxDiagnostics)
		}
		cfg.MaxDiagnostics = fc.Output.MaxDiagnostics
	}
	cfg.Cache = fc.Cache.Enabled
	if fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}

	known := map[string]bool{}
	for _, sn := range sniff.All() {
		known[sn.Name()] = true
	}
	for name, sec := range fc.Sniffs {
		if !known[name] {
			return nil, fmt.Errorf("unknown sniff %q", name)
		}
		if sec.Enabled != nil {
			set.Disabled[name] = !*sec.Enabled
		}
	}

	for name, rules := range fc.Rules {
		target, ok := sniff.ParseTarget(name)
		if !ok {
			return nil, fmt.Errorf("unknown rule target %q", name)
		}
		parsed := make([]occurs.Rule, 0, len(rules))
		for i, rs := range rules {
			r, err := rs.rule(set)
			if err != nil {
				return nil, fmt.Errorf("rules.%s[%d]: %w", name, i, err)
			}
			parsed = append(parsed, r)
		}
		set.Rules[target] = parsed
	}

	set.Disallowed = fc.Tags.Disallowed
	for _, name := range fc.RequireDoc {
		target, ok := sniff.ParseTarget(name)
		if !ok {
			return nil, fmt.Errorf("unknown require-doc target %q", name)
		}
		set.RequireDoc[target] = true
	}
	return cfg, nil
}

func (rs ruleSection) rule(set *sniff.Settings) (occurs.Rule, error) {
	name := strings.TrimPrefix(strings.TrimSpace(rs.Tag), "@")
	if name == "" {
		return occurs.Rule{}, fmt.Errorf("missing tag")
	}
	var minText string
	switch v := rs.Min.(type) {
	case nil:
		minText = "0"
	case int64:
		minText = strconv.FormatInt(v, 10)
	case int:
		minText = strconv.Itoa(v)
	case string:
		minText = v
	default:
		return occurs.Rule{}, fmt.Errorf("tag %q: min must be a number or a name, got %T", name, v)
	}
	lo, err := occurs.ParseMin(minText)
	if err != nil {
		return occurs.Rule{}, fmt.Errorf("tag %q: %w", name, err)
	}
	hi := occurs.NoMax
	if rs.Max != nil && *rs.Max >= 0 {
		hi = *rs.Max
		if !lo.IsDerived() && lo.Resolve(occurs.Context{}) > hi {
			return occurs.Rule{}, fmt.Errorf("tag %q: min %s exceeds max %d", name, lo, hi)
		}
	}
	v, _ := set.Registry.Lookup(name)
	return occurs.Rule{Name: name, Min: lo, Max: hi, Validator: v}, nil
}

// Match reports whether rel (slash separated, relative to Root) is selected.
func (c *Config) Match(rel string) bool {
	rel = path.Clean(filepath.ToSlash(rel))
	included := false
	for _, pat := range c.Include {
		if ok, _ := doublestar.Match(pat, rel); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pat := range c.Exclude {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return false
		}
	}
	return true
}
