// Package token defines the lexical units of Robot Framework suite files
// as the formatter sees them: content cells split on multi-space separators,
// plus the separators, continuation markers, and line endings themselves.
//
// Separators and line endings are ordinary tokens, so concatenating the
// Text of every token in a file reproduces the input byte for byte. That
// property is what lets transformers leave untouched regions alone simply
// by not replacing their tokens.
package token
