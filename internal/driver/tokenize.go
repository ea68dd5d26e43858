package driver

import (
	"docsniff/internal/diag"
	"docsniff/internal/lexer"
	"docsniff/internal/source"
	"docsniff/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Stream  *token.Stream
	Bag     *diag.Bag
}

// Tokenize lexes one file, collecting lexer diagnostics.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	stream := lexer.Tokenize(file, lexer.Options{Reporter: &lexer.ReporterAdapter{Bag: bag}})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Stream:  stream,
		Bag:     bag,
	}, nil
}

// tokenizer returns a fix.Tokenizer that registers every pass in fs.
func tokenizer(fs *source.FileSet, path string) func([]byte) *token.Stream {
	return func(content []byte) *token.Stream {
		file := fs.Get(fs.AddVirtual(path, content))
		return lexer.Tokenize(file, lexer.Options{})
	}
}
