package fuzztests

import (
	"errors"
	"testing"

	"docsniff/internal/diag"
	"docsniff/internal/fix"
	"docsniff/internal/lexer"
	"docsniff/internal/sniff"
	"docsniff/internal/source"
	"docsniff/internal/testkit"
	"docsniff/internal/token"
)

func FuzzLexerInvariants(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.php", clampSeed(input)))
		bag := diag.NewBag(64)
		s := lexer.Tokenize(file, lexer.Options{Reporter: &lexer.ReporterAdapter{Bag: bag}})
		if err := testkit.CheckStreamInvariants(fs, file, s); err != nil {
			t.Fatal(err)
		}
	})
}

func FuzzSniffsAndFixLoop(f *testing.F) {
	addCorpusSeeds(f)
	settings := sniff.DefaultSettings()
	for _, target := range sniff.Targets() {
		settings.RequireDoc[target] = true
	}
	runner := sniff.Default(settings)

	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		tokenize := func(content []byte) *token.Stream {
			return lexer.Tokenize(fs.Get(fs.AddVirtual("fuzz.php", content)), lexer.Options{})
		}
		content := append([]byte(nil), clampSeed(input)...)
		runner.Run(tokenize(content))

		res, err := fix.Loop(content, tokenize, runner.Pass(nil), fix.LoopOptions{})
		// осцилляция и лимит проходов допустимы, прочие ошибки нет
		if err != nil && !errors.Is(err, fix.ErrOscillation) && !errors.Is(err, fix.ErrPassLimit) {
			t.Fatalf("fix loop: %v", err)
		}
		fixed := fs.Get(fs.AddVirtual("fixed.php", res.Content))
		if err := testkit.CheckStreamInvariants(fs, fixed, lexer.Tokenize(fixed, lexer.Options{})); err != nil {
			t.Fatal(err)
		}
	})
}
