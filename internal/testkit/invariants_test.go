package testkit

import (
	"strings"
	"testing"

	"docsniff/internal/lexer"
	"docsniff/internal/source"
	"docsniff/internal/token"
)

func lex(src string) (*source.FileSet, *source.File, *token.Stream) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.php", []byte(src)))
	return fs, f, lexer.Tokenize(f, lexer.Options{})
}

func TestInvariantsHold(t *testing.T) {
	inputs := []string{
		"",
		"plain html",
		"<?php\nclass A {\n    /**\n     * Summary.\n     *\n     * @var int\n     */\n    public $x;\n}\n",
		"<?php /** @param int $a @return */ function f($a) { return [1, (2)]; }",
		"<?php /** unterminated",
		"<?php ) ] }",
	}
	for _, in := range inputs {
		fs, f, s := lex(in)
		if err := CheckStreamInvariants(fs, f, s); err != nil {
			t.Errorf("%q: %v", in, err)
		}
	}
}

func TestInvariantsDetectGaps(t *testing.T) {
	fs, f, s := lex("<?php $a;")
	if s.Len() < 3 {
		t.Fatalf("unexpected token count %d", s.Len())
	}
	toks := append([]token.Token(nil), s.Tokens()...)
	toks = append(toks[:1], toks[2:]...)
	for i := range toks {
		toks[i].Index = i
	}
	err := CheckStreamInvariants(fs, f, token.NewStream(toks))
	if err == nil || !strings.Contains(err.Error(), "starts at") {
		t.Fatalf("err = %v", err)
	}
	if err := CheckStreamInvariants(nil, f, s); err == nil {
		t.Error("nil file set accepted")
	}
}
