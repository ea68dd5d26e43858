// Package token defines token kinds and the addressable token stream the checks run on.
// Invariants:
//   - Token.Text is an exact slice of the original source; concatenating every token
//     text in order reproduces the file byte for byte.
//   - Token.Index equals the token's position in its Stream.
//   - Line and Column are 1-based; Column counts bytes.
//   - Doc comments are split into DocOpen, DocStar, DocWhitespace, DocNewline, DocTag,
//     DocString and DocClose tokens; every DocNewline is a separate token.
//   - Tokens are never mutated after lexing. Host data attached later (pairs, owners,
//     doc tag lists) lives in the Stream side table, not in Token.
package token
