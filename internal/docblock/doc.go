// Package docblock builds the model of one doc comment: where it starts and ends,
// its summary, its description and its tags with their content.
//
// Blocks are rebuilt on every call and never cached; a fix committed between two
// visits changes token positions, so stale blocks must not be reused.
package docblock
