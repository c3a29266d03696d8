// Package diag collects the formatter's non-fatal findings: statements a
// transformer refused to touch, rewrites it could not infer, files it
// had to skip. Diagnostics never abort a run; the driver drains the bag
// to stderr so the summary stream stays machine-readable.
package diag
