package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"docsniff/internal/source"
	"docsniff/internal/token"
)

// CheckStreamInvariants runs the structural checks of a lexed file:
// 1) token i has Index i and its Text is exactly content[Span]
// 2) spans are contiguous and cover the whole content
// 3) Line/Column agree with the file set's resolution of Span.Start
// 4) Pair links are symmetric and doc comment Tags point at DocTag tokens
func CheckStreamInvariants(fs *source.FileSet, sf *source.File, s *token.Stream) error {
	if fs == nil || sf == nil || s == nil {
		return fmt.Errorf("nil file set, file or stream")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var off uint32
	for i, tok := range s.Tokens() {
		if tok.Index != i {
			return fmt.Errorf("token %d has Index %d", i, tok.Index)
		}
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d span points to file %d, want %d", i, sp.File, sf.ID)
		}
		if sp.Start != off {
			return fmt.Errorf("token %d starts at %d, previous ended at %d", i, sp.Start, off)
		}
		if sp.End < sp.Start || sp.End > lenContent {
			return fmt.Errorf("token %d span %d..%d out of bounds (len %d)", i, sp.Start, sp.End, lenContent)
		}
		if tok.Text != string(sf.Content[sp.Start:sp.End]) {
			return fmt.Errorf("token %d text %q differs from content %q", i, tok.Text, sf.Content[sp.Start:sp.End])
		}
		if tok.Len != sp.Len() {
			return fmt.Errorf("token %d Len %d, span length %d", i, tok.Len, sp.Len())
		}
		pos, _ := fs.Resolve(sp)
		if pos.Line != tok.Line || pos.Col != tok.Column {
			return fmt.Errorf("token %d at %d:%d, resolves to %d:%d", i, tok.Line, tok.Column, pos.Line, pos.Col)
		}
		off = sp.End
	}
	if off != lenContent {
		return fmt.Errorf("tokens cover %d of %d bytes", off, lenContent)
	}

	for i := range s.Len() {
		if j, ok := s.Pair(i); ok {
			if back, ok := s.Pair(j); !ok || back != i {
				return fmt.Errorf("pair %d -> %d is not symmetric", i, j)
			}
		}
		if e, ok := s.Extra(i); ok {
			for _, tag := range e.Tags {
				if k := s.At(tag).Kind; k != token.DocTag {
					return fmt.Errorf("doc comment %d lists tag %d of kind %s", i, tag, k)
				}
			}
		}
	}
	return nil
}
