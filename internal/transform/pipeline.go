package transform

import (
	"fmt"

	"github.com/kkotenko/robotframework-tidy/internal/ast"
	"github.com/kkotenko/robotframework-tidy/internal/diag"
)

// Pipeline applies an ordered transformer list to parsed files.
type Pipeline struct {
	transformers []Transformer
}

// NewPipeline wraps an already-resolved transformer order.
func NewPipeline(transformers []Transformer) *Pipeline {
	return &Pipeline{transformers: transformers}
}

// Run mutates f in place. A transformer disabled for the whole file is
// skipped. A panicking transformer is reported as an error diagnostic
// and the rest of the pipeline still runs, so one bad rewrite cannot
// take the other transformers down with it.
func (p *Pipeline) Run(f *ast.File, ctx *Context) {
	for _, t := range p.transformers {
		if ctx.Disablers != nil && ctx.Disablers.IsDisabledInFile(t.Name()) {
			continue
		}
		p.runOne(t, f, ctx)
	}
}

func (p *Pipeline) runOne(t Transformer, f *ast.File, ctx *Context) {
	defer func() {
		if r := recover(); r != nil {
			ctx.Diags.Add(diag.Diagnostic{
				Severity:    diag.SevError,
				Code:        diag.CodeMalformedStatement,
				Path:        ctx.Path,
				Transformer: t.Name(),
				Message:     fmt.Sprintf("transformer crashed: %v", r),
			})
		}
	}()
	t.Transform(f, ctx)
}
