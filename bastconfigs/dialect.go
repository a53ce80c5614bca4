package bastconfigs

import (
	"github.com/reusee/bastapir/cmds"
	"github.com/reusee/bastapir/configs"
	"github.com/reusee/bastapir/keywords"
)

var dialectFlag *keywords.Dialect

func init() {
	cmds.Define("-dialect", cmds.Func(func(dialect keywords.Dialect) {
		dialectFlag = &dialect
	}).Args("DIALECT").Desc("BASIC dialect, 48k or 128k"))
}

func (Module) Dialect(
	loader configs.Loader,
) keywords.Dialect {

	// flag
	if dialectFlag != nil {
		return *dialectFlag
	}

	// config
	if str := configs.First[string](loader, "dialect"); str != "" {
		dialect, err := keywords.ParseDialect(str)
		if err != nil {
			panic(err)
		}
		return dialect
	}

	return keywords.Dialect48K
}
