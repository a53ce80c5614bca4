package basic

import (
	"github.com/reusee/bastapir/diags"
	"github.com/reusee/bastapir/keywords"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Diags diags.Module
}

// NewCompiler returns a compiler set up with the configured dialect and
// options.
type NewCompiler func(reporter diags.Reporter) *Compiler

func (Module) NewCompiler(
	dialect keywords.Dialect,
	options Options,
) NewCompiler {
	return func(reporter diags.Reporter) *Compiler {
		c := New(reporter, dialect)
		if err := c.SetOptions(options); err != nil {
			reporter.Warning(diags.Location{}, err.Error()+"; using defaults")
		}
		return c
	}
}
