package sniff

import (
	"errors"
	"fmt"

	"docsniff/internal/diag"
	"docsniff/internal/fix"
	"docsniff/internal/token"

	"go.uber.org/zap"
)

// ErrNotFixable is returned by ApplyFix for violations without a fix.
var ErrNotFixable = errors.New("violation is not fixable")

// All returns every built-in sniff in reporting order.
func All() []Sniff {
	return []Sniff{
		RequiredDoc{},
		DocSummary{},
		DocSpacing{},
		TagCount{},
		TagContent{},
		ParamTag{},
		PackageTag{},
		DisallowedTag{},
		TagSorting{},
	}
}

// Runner dispatches anchors to the sniffs registered for their kind.
type Runner struct {
	settings *Settings
	sniffs   []Sniff
	byKind   map[token.Kind][]Sniff
	logger   *zap.Logger
}

// NewRunner registers sniffs, skipping those disabled in settings.
func NewRunner(settings *Settings, sniffs ...Sniff) *Runner {
	if settings == nil {
		settings = DefaultSettings()
	}
	r := &Runner{
		settings: settings,
		byKind:   make(map[token.Kind][]Sniff),
		logger:   zap.NewNop(),
	}
	for _, sn := range sniffs {
		if !settings.Enabled(sn.Name()) {
			continue
		}
		r.sniffs = append(r.sniffs, sn)
		for _, k := range sn.Register() {
			r.byKind[k] = append(r.byKind[k], sn)
		}
	}
	return r
}

// Default is NewRunner with All.
func Default(settings *Settings) *Runner {
	return NewRunner(settings, All()...)
}

// WithLogger sets the logger used for fix diagnostics.
func (r *Runner) WithLogger(l *zap.Logger) *Runner {
	if l != nil {
		r.logger = l
	}
	return r
}

// Settings returns the ruleset the runner was built with.
func (r *Runner) Settings() *Settings {
	return r.settings
}

// Sniffs returns the enabled sniffs.
func (r *Runner) Sniffs() []Sniff {
	return r.sniffs
}

// ProcessAnchor runs every sniff registered for the anchor's kind.
func (r *Runner) ProcessAnchor(s *token.Stream, anchor int) []diag.Violation {
	return r.process(NewContext(s, r.settings), anchor)
}

func (r *Runner) process(ctx *Context, anchor int) []diag.Violation {
	sniffs := r.byKind[ctx.Stream.At(anchor).Kind]
	if len(sniffs) == 0 {
		return nil
	}
	var out []diag.Violation
	for _, sn := range sniffs {
		out = append(out, sn.Process(ctx, anchor)...)
	}
	return out
}

// Run visits every anchor of s in file order.
func (r *Runner) Run(s *token.Stream) []diag.Violation {
	ctx := NewContext(s, r.settings)
	var out []diag.Violation
	for i := 0; i < s.Len(); i++ {
		out = append(out, r.process(ctx, i)...)
	}
	return out
}

// Report runs s and hands every violation to rep. It returns the number of violations.
func (r *Runner) Report(s *token.Stream, rep diag.Reporter) int {
	vs := r.Run(s)
	for _, v := range vs {
		diag.Dispatch(rep, v)
	}
	return len(vs)
}

// Pass is a fix.Pass applying every fixable violation rep accepts.
// A nil rep accepts all of them. Conflicting fixes are skipped; the next pass retries them.
// A rep implementing diag.FixMarker is told about every committed fix.
func (r *Runner) Pass(rep diag.Reporter) fix.Pass {
	return func(s *token.Stream, f *fix.Fixer) error {
		for _, v := range r.Run(s) {
			if !v.Fixable {
				continue
			}
			if rep != nil && !diag.Dispatch(rep, v) {
				continue
			}
			err := ApplyFix(v, f)
			switch {
			case err == nil:
				if m, ok := rep.(diag.FixMarker); ok {
					m.MarkFixed()
				}
			case errors.Is(err, fix.ErrConflict):
				r.logger.Debug("fix deferred",
					zap.String("code", v.Code.Name()),
					zap.Uint32("line", v.Line),
					zap.Error(err))
			default:
				return err
			}
		}
		return nil
	}
}

// ApplyFix commits the fix of v through f. Nothing is applied on error.
func ApplyFix(v diag.Violation, f *fix.Fixer) error {
	if !v.Fixable || v.Fix() == nil {
		return fmt.Errorf("%s at %d:%d: %w", v.Code.Name(), v.Line, v.Column, ErrNotFixable)
	}
	if err := f.Apply(v.Fix()); err != nil {
		return fmt.Errorf("%s at %d:%d: %w", v.Code.Name(), v.Line, v.Column, err)
	}
	return nil
}
