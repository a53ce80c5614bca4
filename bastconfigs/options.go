package bastconfigs

import (
	"github.com/reusee/bastapir/basic"
	"github.com/reusee/bastapir/cmds"
	"github.com/reusee/bastapir/configs"
	"github.com/reusee/bastapir/vars"
)

var (
	lineStartFlag     = cmds.Var[int]("-line-start", "first automatic BASIC line number")
	lineStepFlag      = cmds.Var[int]("-line-step", "automatic BASIC line number increment")
	quotedStringsFlag = cmds.Switch("-quoted-strings", "keep quotes of BASIC string literals")
)

func (Module) Options(
	loader configs.Loader,
) basic.Options {
	options := basic.DefaultOptions()

	if n := vars.FirstNonZero(
		*lineStartFlag,
		configs.First[int](loader, "line_start"),
	); n != 0 {
		options.InitialLineNumber = n
	}

	if n := vars.FirstNonZero(
		*lineStepFlag,
		configs.First[int](loader, "line_step"),
	); n != 0 {
		options.LineNumberIncrement = n
	}

	options.QuotedStrings = *quotedStringsFlag ||
		configs.First[bool](loader, "quoted_strings")

	return options
}
