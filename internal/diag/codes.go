package diag

// Code identifies the class of a finding.
type Code uint8

const (
	// CodeUnknown is the zero value.
	CodeUnknown Code = iota
	// CodeParseFailure marks a file that could not become a tree;
	// the file is skipped entirely.
	CodeParseFailure
	// CodeMalformedStatement marks a statement a transformer could not
	// act on safely, a keyword call without a keyword name for one.
	CodeMalformedStatement
	// CodeAmbiguousRewrite marks a call whose argument roles could not
	// be inferred; the statement is left as written.
	CodeAmbiguousRewrite
	// CodeConfigurationError marks bad options; it aborts the run
	// before any file is processed.
	CodeConfigurationError
)

func (c Code) String() string {
	switch c {
	case CodeParseFailure:
		return "parse-failure"
	case CodeMalformedStatement:
		return "malformed-statement"
	case CodeAmbiguousRewrite:
		return "ambiguous-rewrite"
	case CodeConfigurationError:
		return "configuration-error"
	}
	return "unknown"
}
