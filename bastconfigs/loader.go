package bastconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/bastapir/configs"
	"github.com/reusee/bastapir/logs"
	"github.com/reusee/bastapir/modes"
)

//go:embed schema.cue
var schema string

var filenames = []string{
	"bastapir.cue",
	".bastapir.cue",
}

// ConfigsLoader loads config files from the working directory, the user
// config dir and /etc, in that order. Outside production only the working
// directory is searched.
func (Module) ConfigsLoader(
	logger logs.Logger,
	mode modes.Mode,
) configs.Loader {

	var paths []string
	defer func() {
		if len(paths) > 0 {
			logger.Info("config file",
				"paths", paths,
			)
		}
	}()

	dirs := []string{}
	if workingDir, err := os.Getwd(); err == nil {
		dirs = append(dirs, workingDir)
	}
	if mode == modes.ModeProduction {
		if configDir, err := os.UserConfigDir(); err == nil {
			dirs = append(dirs, configDir)
		}
		dirs = append(dirs, "/etc")
	}

	for _, dir := range dirs {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}

	return configs.NewLoader(paths, schema)
}
