package fix

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"docsniff/internal/token"

	"go.uber.org/zap"
)

// MaxPasses ограничивает число проходов исправления одного файла.
const MaxPasses = 50

var (
	// ErrPassLimit: содержимое не стабилизировалось за MaxPasses проходов.
	ErrPassLimit = errors.New("fix loop reached pass limit")
	// ErrOscillation: проход вернул уже встречавшееся содержимое.
	ErrOscillation = errors.New("fix loop oscillates")
)

// Tokenizer turns file content into a fresh stream.
type Tokenizer func(content []byte) *token.Stream

// Pass runs every check on s, committing fixes into f.
type Pass func(s *token.Stream, f *Fixer) error

type LoopOptions struct {
	MaxPasses int
	Logger    *zap.Logger
}

type LoopResult struct {
	Content []byte
	Passes  int
	Applied int
	Changed bool
}

// Loop re-tokenizes and re-runs pass until no fix applies.
// Каждый проход работает на свежем потоке: позиции прошлого прохода недействительны.
func Loop(content []byte, tokenize Tokenizer, pass Pass, opts LoopOptions) (LoopResult, error) {
	limit := opts.MaxPasses
	if limit <= 0 {
		limit = MaxPasses
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	res := LoopResult{Content: content}
	seen := map[[sha256.Size]byte]int{sha256.Sum256(content): 0}

	for res.Passes < limit {
		res.Passes++
		s := tokenize(res.Content)
		f := NewFixer(s)
		if err := pass(s, f); err != nil {
			return res, fmt.Errorf("fix pass %d: %w", res.Passes, err)
		}
		log.Debug("fix pass",
			zap.Int("pass", res.Passes),
			zap.Int("applied", f.Applied()),
			zap.Int("tokens", s.Len()),
		)
		if f.Applied() == 0 {
			return res, nil
		}
		next := []byte(f.Contents())
		res.Applied += f.Applied()
		sum := sha256.Sum256(next)
		if prev, ok := seen[sum]; ok {
			if prev == res.Passes-1 {
				// правки ничего не поменяли в тексте
				return res, nil
			}
			res.Content = next
			res.Changed = true
			return res, fmt.Errorf("%w: pass %d repeats pass %d", ErrOscillation, res.Passes, prev)
		}
		seen[sum] = res.Passes
		res.Content = next
		res.Changed = true
	}
	log.Warn("fix loop stopped", zap.Int("passes", res.Passes))
	return res, fmt.Errorf("%w (%d)", ErrPassLimit, limit)
}
