package diags

import (
	"github.com/reusee/bastapir/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
