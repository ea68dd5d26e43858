package sniff

import (
	"slices"

	"docsniff/internal/docblock"
	"docsniff/internal/occurs"
	"docsniff/internal/tagcheck"
)

// Settings is the resolved ruleset the sniffs read. The config package builds it.
type Settings struct {
	Registry tagcheck.Registry
	// Rules are the occurrence rules per target, in declaration order.
	Rules map[Target][]occurs.Rule
	// Disallowed lists tag names that must not appear in any block.
	Disallowed []string
	// RequireDoc enables RequiredDoc per target.
	RequireDoc map[Target]bool
	// Disabled sniffs by Name().
	Disabled map[string]bool
}

// DefaultSettings returns the built-in ruleset.
func DefaultSettings() *Settings {
	reg := tagcheck.Default()
	rule := func(name string, lo occurs.Min, hi int) occurs.Rule {
		v, _ := reg.Lookup(name)
		return occurs.Rule{Name: name, Min: lo, Max: hi, Validator: v}
	}
	return &Settings{
		Registry: reg,
		Rules: map[Target][]occurs.Rule{
			TargetClass: {
				rule("author", occurs.Fixed(1), occurs.NoMax),
				rule("package", occurs.Derived("namespace", occurs.DeriveNamespace), 1),
				rule("version", occurs.Fixed(1), 1),
			},
			TargetFunction: {
				rule("return", occurs.Derived("return-type", occurs.DeriveReturnType), 1),
			},
			TargetProperty: {
				rule("var", occurs.Fixed(1), 1),
			},
			TargetConstant: {
				rule("var", occurs.Fixed(1), 1),
			},
		},
		RequireDoc: map[Target]bool{},
		Disabled:   map[string]bool{},
	}
}

// Enabled reports whether the named sniff should run.
func (s *Settings) Enabled(name string) bool {
	return !s.Disabled[name]
}

// IsDisallowed reports whether the tag is on the disallowed list.
func (s *Settings) IsDisallowed(t docblock.Tag) bool {
	return slices.ContainsFunc(s.Disallowed, t.Is)
}

// Validator picks the content validator for t: a rule of the target first, then the registry.
func (s *Settings) Validator(target Target, t docblock.Tag) (tagcheck.Validator, bool) {
	for _, r := range s.Rules[target] {
		if r.Validator != nil && t.Is(r.Name) {
			return r.Validator, true
		}
	}
	return s.Registry.Lookup(t.Name)
}
