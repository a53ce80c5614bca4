package tap

import (
	"github.com/reusee/bastapir/diags"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Diags diags.Module
}

type NewArchiveBuilder func(reporter diags.Reporter) *Builder

func (Module) NewArchiveBuilder() NewArchiveBuilder {
	return func(reporter diags.Reporter) *Builder {
		return NewBuilder(reporter)
	}
}
