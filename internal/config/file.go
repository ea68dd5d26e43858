package config

// fileConfig is the on-disk shape shared by the TOML and YAML loaders.
type fileConfig struct {
	Files      filesSection             `toml:"files" yaml:"files"`
	Output     outputSection            `toml:"output" yaml:"output"`
	Cache      cacheSection             `toml:"cache" yaml:"cache"`
	Sniffs     map[string]sniffSection  `toml:"sniffs" yaml:"sniffs"`
	Rules      map[string][]ruleSection `toml:"rules" yaml:"rules"`
	Tags       tagsSection              `toml:"tags" yaml:"tags"`
	RequireDoc []string                 `toml:"require-doc" yaml:"require-doc"`
}

type filesSection struct {
	Include []string `toml:"include" yaml:"include"`
	Exclude []string `toml:"exclude" yaml:"exclude"`
}

type outputSection struct {
	Format         string `toml:"format" yaml:"format"`
	MaxDiagnostics int    `toml:"max-diagnostics" yaml:"max-diagnostics"`
}

type cacheSection struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Dir     string `toml:"dir" yaml:"dir"`
}

type sniffSection struct {
	Enabled *bool `toml:"enabled" yaml:"enabled"`
}

// ruleSection: min принимает число или имя производного минимума ("namespace").
type ruleSection struct {
	Tag string `toml:"tag" yaml:"tag"`
	Min any    `toml:"min" yaml:"min"`
	Max *int   `toml:"max" yaml:"max"`
}

type tagsSection struct {
	Disallowed []string `toml:"disallowed" yaml:"disallowed"`
}

// DefaultTOML is written by "docsniff init".
const DefaultTOML = `# docsniff ruleset

# Targets that must carry a doc comment.
require-doc = []

[files]
include = ["**/*.php"]
exclude = ["vendor/**"]

[output]
format = "pretty"
max-diagnostics = 100

[cache]
enabled = false
dir = ".docsniff-cache"

# [sniffs.RequiredDoc]
# enabled = true

# Occurrence rules per target (file, class, function, property, constant).
# A target listed here replaces its built-in rules. max = -1 means unbounded;
# min is a number or "namespace" / "return-type".
[[rules.class]]
tag = "author"
min = 1
max = -1

[[rules.class]]
tag = "package"
min = "namespace"
max = 1

[[rules.class]]
tag = "version"
min = 1
max = 1

[[rules.function]]
tag = "return"
min = "return-type"
max = 1

[[rules.property]]
tag = "var"
min = 1
max = 1

[[rules.constant]]
tag = "var"
min = 1
max = 1

[tags]
disallowed = []
`
