package document

import (
	"io/fs"

	"github.com/reusee/bastapir/basic"
	"github.com/reusee/bastapir/diags"
	"github.com/reusee/bastapir/logs"
	"github.com/reusee/bastapir/tap"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Basic basic.Module
	Tap   tap.Module
	Logs  logs.Module
}

type NewDocument func(fsys fs.FS, reporter diags.Reporter) *Document

func (Module) NewDocument(
	logger logs.Logger,
	enter logs.EnterDocument,
	newCompiler basic.NewCompiler,
	newBuilder tap.NewArchiveBuilder,
	constants basic.Constants,
) NewDocument {
	return func(fsys fs.FS, reporter diags.Reporter) *Document {
		return &Document{
			fsys:        fsys,
			reporter:    reporter,
			logger:      logger,
			enter:       enter,
			newCompiler: newCompiler,
			builder:     newBuilder(reporter),
			constants:   constants,
		}
	}
}
