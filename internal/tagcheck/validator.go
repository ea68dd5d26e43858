package tagcheck

import (
	"strings"

	"docsniff/internal/docblock"
)

// Result of validating one tag content.
type Result struct {
	OK bool
	// Expected describes the accepted format; set for every validator.
	Expected string
	// Message is the short failure reason; empty when OK.
	Message   string
	Extracted map[string]string
	// Mixed: в типе встречается "mixed" (только предупреждение).
	Mixed bool
}

// Validator checks the content of one tag kind. Validators hold no state.
type Validator interface {
	Validate(content string) Result
}

// Func composes a content check with its expected-format message.
type Func struct {
	// Check returns the extracted parts and whether content is valid.
	Check    func(content string) (map[string]string, bool)
	Expected string
	Message  string
	// TypeKey names the extracted part holding the type list, if any.
	TypeKey string
}

func (f Func) Validate(content string) Result {
	parts, ok := f.Check(content)
	res := Result{
		OK:        ok,
		Expected:  f.Expected,
		Extracted: parts,
	}
	if !ok {
		res.Message = f.Message
	}
	if f.TypeKey != "" {
		res.Mixed = HasMixed(parts[f.TypeKey])
	}
	return res
}

// HasMixed reports whether a "|"-separated type list contains mixed.
func HasMixed(types string) bool {
	for _, t := range strings.Split(types, "|") {
		t = strings.TrimLeft(strings.TrimSpace(t), "?\\")
		if strings.EqualFold(t, "mixed") || strings.EqualFold(t, "mixed[]") {
			return true
		}
	}
	return false
}

// Registry maps normalised tag names to validators.
type Registry map[string]Validator

// Lookup finds the validator for a tag name in any spelling ("@Param", "param").
func (r Registry) Lookup(name string) (Validator, bool) {
	v, ok := r[docblock.NormalizeName(name)]
	return v, ok
}

// With returns a copy of r with v registered under name.
func (r Registry) With(name string, v Validator) Registry {
	out := make(Registry, len(r)+1)
	for k, val := range r {
		out[k] = val
	}
	out[docblock.NormalizeName(name)] = v
	return out
}

// Names returns the registered names in no particular order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	return names
}

// Default returns the built-in validators.
func Default() Registry {
	return Registry{
		"author":     Author,
		"param":      Param,
		"return":     Return,
		"var":        Var,
		"version":    Version,
		"deprecated": Deprecated,
		"throws":     Throws,
		"package":    Package,
		"see":        Generic,
		"link":       Generic,
		"since":      Generic,
		"uses":       Generic,
	}
}
