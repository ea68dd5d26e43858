package config

import (
	"crypto/sha256"
	"fmt"
	"slices"
	"strings"

	"docsniff/internal/sniff"
)

// Digest - фиксированный 256 битный хеш.
type Digest [32]byte

// Combine hashes content followed by each part, in order.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Fingerprint identifies everything in the ruleset that can change check results.
// Порядок строк детерминирован: цели и имена сортируются.
func (c *Config) Fingerprint() Digest {
	var b strings.Builder
	set := c.Settings
	for _, t := range sniff.Targets() {
		fmt.Fprintf(&b, "target %s require=%t\n", t, set.RequireDoc[t])
		for _, r := range set.Rules[t] {
			fmt.Fprintf(&b, "  rule %s min=%s max=%d\n", r.Name, r.Min, r.Max)
		}
	}
	disabled := make([]string, 0, len(set.Disabled))
	for name, off := range set.Disabled {
		if off {
			disabled = append(disabled, name)
		}
	}
	slices.Sort(disabled)
	fmt.Fprintf(&b, "disabled %s\n", strings.Join(disabled, ","))

	disallowed := slices.Clone(set.Disallowed)
	slices.Sort(disallowed)
	fmt.Fprintf(&b, "disallowed %s\n", strings.Join(disallowed, ","))

	names := set.Registry.Names()
	slices.Sort(names)
	fmt.Fprintf(&b, "validators %s\n", strings.Join(names, ","))
	return sha256.Sum256([]byte(b.String()))
}
