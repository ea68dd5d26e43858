package tagsort

import (
	"docsniff/internal/diag"
	"docsniff/internal/docblock"
	"docsniff/internal/fix"
)

// CheckOrder reports one violation at the first tag when the block is not sorted.
// The fix rewrites the whole tag region in a single changeset.
func CheckOrder(b *docblock.Block) []diag.Violation {
	if IsSorted(b.Tags) {
		return nil
	}
	s := b.Stream()
	sorted := Sorted(b.Tags)
	v := diag.Errorf(diag.SrtWrongPosition, s.At(b.Tags[0].Pos),
		"Tags are not in canonical order, expected: %s", Names(sorted))

	text, err := Synthesize(b, sorted)
	if err != nil {
		return []diag.Violation{v}
	}
	first, last, anchor, _ := Region(b)
	return []diag.Violation{v.WithFix(fix.ReplaceLines(first, last, anchor, text))}
}

// CheckSpacing verifies blank separator lines between consecutive tags in source order.
// Each missing or surplus separator is its own fixable violation at the later tag.
func CheckSpacing(b *docblock.Block) []diag.Violation {
	s := b.Stream()
	counts := docblock.CountTags(b.Tags)

	var out []diag.Violation
	for i := 1; i < len(b.Tags); i++ {
		prev, next := b.Tags[i-1], b.Tags[i]
		blank := int(next.Line) - int(prev.LastLine()) - 1
		at := s.At(next.Pos)

		want := 0
		if NeedsSeparator(prev, next, counts) {
			want = 1
		}
		switch {
		case blank < want:
			v := diag.Errorf(diag.SrtMissingNewlineBetweenTags, at,
				"Missing blank line between %s and %s", prev.Name, next.Name)
			if anchor, ok := s.FirstOnLine(next.Line); ok {
				v = v.WithFix(fix.InsertBefore(anchor, layoutOf(s, next.Line).blank()+"\n"))
			}
			out = append(out, v)
		case blank > want:
			from := prev.LastLine() + 1
			to := next.Line - 1 - uint32(want)
			out = append(out, diag.Errorf(diag.SrtSurplusNewlineBetweenTags, at,
				"Expected %d blank line(s) between %s and %s, found %d", want, prev.Name, next.Name, blank).
				WithFix(fix.DeleteLines(from, to)))
		}
	}
	return out
}
