// Package diag defines the finding model shared by the lexer, the checks and the CLI.
//
// # Data model
//
// Two records live here:
//
//   - Violation is what checks produce: a token position, a Code, a printf style
//     message with Args, and optionally a FixFunc recording how to correct it.
//     Violations are plain values; no check panics on an ordinary rule failure.
//   - Diagnostic is what the host keeps and renders: the same finding resolved to a
//     source.Span, plus Fixable/Fixed flags.
//
// Code is a compact numeric identifier with two stable string forms: ID() ("SRT5001")
// and Name() ("TagSorting.WrongPosition"), the latter being what rulesets refer to.
//
// # Reporting
//
// Reporter is the host contract: ReportError / ReportWarning for plain findings and
// ReportFixableError / ReportFixableWarning, which return whether the caller should go
// on and apply the fix. Dispatch routes a Violation to the right method.
// BagReporter collects into a Bag (sorting, dedup, limits).
//
// FixFunc writes to an Editor, the subset of internal/fix.Changeset a fix needs; the
// package does not depend on internal/fix.
package diag
