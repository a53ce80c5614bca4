package configs

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Loader reads CUE config files lazily, once, in the given order. Earlier files
// take precedence.
type Loader struct {
	getFiles func() ([]configFile, error)
}

type configFile struct {
	path  string
	value cue.Value
}

func NewLoader(filePaths []string, schemaSrc string) Loader {
	return newLoader(os.ReadFile, filePaths, schemaSrc)
}

// NewFSLoader loads config files from fsys instead of the host file system.
func NewFSLoader(fsys fs.FS, filePaths []string, schemaSrc string) Loader {
	return newLoader(func(name string) ([]byte, error) {
		return fs.ReadFile(fsys, name)
	}, filePaths, schemaSrc)
}

func newLoader(
	readFile func(string) ([]byte, error),
	filePaths []string,
	schemaSrc string,
) Loader {
	return Loader{
		getFiles: sync.OnceValues(func() ([]configFile, error) {
			ctx := cuecontext.New()

			var schema cue.Value
			if schemaSrc != "" {
				// unknown fields are errors
				schema = ctx.CompileString("close({" + schemaSrc + "})")
				if err := schema.Err(); err != nil {
					return nil, fmt.Errorf("config schema: %w", err)
				}
			}

			files := make([]configFile, 0, len(filePaths))
			for _, filePath := range filePaths {
				content, err := readFile(filePath)
				if err != nil {
					return nil, err
				}
				value := ctx.CompileBytes(content, cue.Filename(filePath))
				if err := value.Err(); err != nil {
					return nil, fmt.Errorf("config file %s: %w", filePath, err)
				}
				if schema.Exists() {
					if err := schema.Unify(value).Validate(); err != nil {
						return nil, fmt.Errorf("config file %s: %w", filePath, err)
					}
				}
				files = append(files, configFile{
					path:  filePath,
					value: value,
				})
			}
			return files, nil
		}),
	}
}

// IterCueValues yields the value at path of every file defining it.
func (l Loader) IterCueValues(path string) iter.Seq2[*cue.Value, error] {
	return func(yield func(*cue.Value, error) bool) {
		files, err := l.getFiles()
		if err != nil {
			yield(nil, err)
			return
		}
		cuePath := cue.ParsePath(path)
		for _, file := range files {
			value := file.value.LookupPath(cuePath)
			if value.Err() != nil {
				continue
			}
			if !yield(&value, nil) {
				return
			}
		}
	}
}

// AssignFirst decodes the first value at path into target, or returns
// ErrValueNotFound.
func (l Loader) AssignFirst(path string, target any) error {
	for value, err := range l.IterCueValues(path) {
		if err != nil {
			return err
		}
		return value.Decode(target)
	}
	return ErrValueNotFound
}
