package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"docsniff/internal/source"
	"docsniff/internal/token"
)

type TokenOutput struct {
	Index int         `json:"index"`
	Kind  string      `json:"kind"`
	Text  string      `json:"text,omitempty"`
	Line  uint32      `json:"line"`
	Col   uint32      `json:"col"`
	Level uint16      `json:"level,omitempty"`
	Span  source.Span `json:"span"`
	Pair  *int        `json:"pair,omitempty"`
	Owner *int        `json:"owner,omitempty"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, s *token.Stream) error {
	for _, tok := range s.Tokens() {
		if _, err := fmt.Fprintf(w, "%4d: %-14s %-10q at %d:%d", tok.Index, tok.Kind, tok.Text, tok.Line, tok.Column); err != nil {
			return err
		}
		if tok.Level > 0 {
			fmt.Fprintf(w, " level=%d", tok.Level)
		}
		if p, ok := s.Pair(tok.Index); ok {
			fmt.Fprintf(w, " pair=%d", p)
		}
		if o, ok := s.Owner(tok.Index); ok {
			fmt.Fprintf(w, " owner=%d", o)
		}
		if e, ok := s.Extra(tok.Index); ok && len(e.Tags) > 0 {
			fmt.Fprintf(w, " tags=%v", e.Tags)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, s *token.Stream) error {
	output := make([]TokenOutput, 0, s.Len())
	for _, tok := range s.Tokens() {
		out := TokenOutput{
			Index: tok.Index,
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Line:  tok.Line,
			Col:   tok.Column,
			Level: tok.Level,
			Span:  tok.Span,
		}
		if p, ok := s.Pair(tok.Index); ok {
			out.Pair = &p
		}
		if o, ok := s.Owner(tok.Index); ok {
			out.Owner = &o
		}
		output = append(output, out)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
