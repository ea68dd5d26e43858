package occurs

import (
	"docsniff/internal/diag"
	"docsniff/internal/docblock"
)

// Check evaluates rules in declaration order against tags.
// Нарушения возвращаются в том же порядке: сначала минимум, затем максимум каждого правила.
func Check(tags []docblock.Tag, rules []Rule, ctx Context) []diag.Violation {
	var out []diag.Violation
	counts := docblock.CountTags(tags)

	start := ctx.Anchor
	if ctx.Block != nil {
		start = ctx.Block.Start
	}
	startTok := ctx.Stream.At(start)

	for _, r := range rules {
		key := docblock.NormalizeName(r.Name)
		count := counts[key]

		if want := r.Min.Resolve(ctx); count < want {
			out = append(out, diag.Errorf(diag.OccTagOccurrenceMin, startTok,
				"Tag @%s must occur at least %d time(s), found %d", key, want, count))
		}

		if r.Max == NoMax || count <= r.Max {
			continue
		}
		seen := 0
		for _, t := range tags {
			if t.Key() != key {
				continue
			}
			seen++
			if seen <= r.Max {
				continue
			}
			out = append(out, diag.Errorf(diag.OccTagOccurrenceMax, ctx.Stream.At(t.Pos),
				"Tag @%s may occur at most %d time(s), found %d", key, r.Max, count))
		}
	}
	return out
}
