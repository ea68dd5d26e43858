// Package tagsort computes the canonical tag order of a doc comment, checks blank
// separator lines between tag groups and renders the sorted tag region.
//
// Canonical order: single-occurrence tags first, alphabetically; then groups of
// repeated tags by ascending count, ties alphabetically; "return" always last.
// Same-named tags keep their source order.
package tagsort

import (
	"cmp"
	"slices"
	"strings"

	"docsniff/internal/docblock"
)

const returnTag = "return"

func isReturn(t docblock.Tag) bool {
	return t.Key() == returnTag
}

// Compare orders two tags by (isReturn, count, folded name).
func Compare(a, b docblock.Tag, counts map[string]int) int {
	ar, br := isReturn(a), isReturn(b)
	if ar != br {
		if ar {
			return 1
		}
		return -1
	}
	ka, kb := a.Key(), b.Key()
	if c := cmp.Compare(counts[ka], counts[kb]); c != 0 {
		return c
	}
	return strings.Compare(ka, kb)
}

// Sorted returns a stably sorted copy of tags.
func Sorted(tags []docblock.Tag) []docblock.Tag {
	counts := docblock.CountTags(tags)
	out := slices.Clone(tags)
	slices.SortStableFunc(out, func(a, b docblock.Tag) int {
		return Compare(a, b, counts)
	})
	return out
}

// IsSorted reports whether tags already are in canonical order.
func IsSorted(tags []docblock.Tag) bool {
	counts := docblock.CountTags(tags)
	for i := 1; i < len(tags); i++ {
		if Compare(tags[i-1], tags[i], counts) > 0 {
			return false
		}
	}
	return true
}

// NeedsSeparator reports whether a blank comment line belongs between prev and next.
// Между разными именами нужна пустая строка, кроме случая, когда оба тега
// одиночные и next не "return".
func NeedsSeparator(prev, next docblock.Tag, counts map[string]int) bool {
	if prev.Key() == next.Key() {
		return false
	}
	return counts[prev.Key()] > 1 || counts[next.Key()] > 1 || isReturn(next)
}

// Names renders the tag names in order, for messages.
func Names(tags []docblock.Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}
