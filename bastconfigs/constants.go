package bastconfigs

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/reusee/bastapir/basic"
	"github.com/reusee/bastapir/cmds"
	"github.com/reusee/bastapir/configs"
	"github.com/reusee/bastapir/logs"
)

var constFlags = cmds.Collect[string]("-const", "inject a BASIC constant, NAME=VALUE")

// Constants merges -const NAME=VALUE flags with the constants of every config
// file. Flags win, then the first file defining a name.
func (Module) Constants(
	loader configs.Loader,
	logger logs.Logger,
) basic.Constants {
	var ret basic.Constants

	// flags
	for _, def := range *constFlags {
		name, value, ok := strings.Cut(def, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			logger.Warn("ignore malformed constant",
				"definition", def,
			)
			continue
		}
		ret = append(ret, basic.NewConstant(name, strings.TrimSpace(value)))
	}

	// config, nearer files first
	for values := range configs.All[map[string]any](loader, "constants") {
		var fromConfig basic.Constants
		for _, name := range slices.Sorted(maps.Keys(values)) {
			fromConfig = append(fromConfig, basic.NewConstant(name, constantText(values[name])))
		}
		ret = ret.Merge(fromConfig)
	}

	return ret
}

// constantText renders a config value the way it would be typed in a program,
// never in exponent form.
func constantText(value any) string {
	switch value := value.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	case interface{ Float64() (float64, error) }:
		if f, err := value.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return fmt.Sprint(value)
}
