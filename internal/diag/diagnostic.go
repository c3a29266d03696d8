package diag

import "fmt"

// Diagnostic is one finding tied to a file position. Line 0 means the
// finding concerns the file as a whole. Transformer names the pipeline
// stage that produced it, empty outside the pipeline.
type Diagnostic struct {
	Severity    Severity
	Code        Code
	Path        string
	Line        int
	Transformer string
	Message     string
}

// String renders the conventional path:line prefix form.
func (d Diagnostic) String() string {
	prefix := d.Path
	if d.Line > 0 {
		prefix = fmt.Sprintf("%s:%d", d.Path, d.Line)
	}
	if d.Transformer != "" {
		return fmt.Sprintf("%s: %s: [%s] %s", prefix, d.Severity, d.Transformer, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", prefix, d.Severity, d.Message)
}
