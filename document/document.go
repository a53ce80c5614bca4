package document

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/reusee/bastapir/basic"
	"github.com/reusee/bastapir/diags"
	"github.com/reusee/bastapir/logs"
	"github.com/reusee/bastapir/tap"
)

var ErrEmptyDocument = errors.New("document contains no files")

// Document turns build descriptions into a tape archive. File paths are
// resolved in fsys.
type Document struct {
	fsys        fs.FS
	reporter    diags.Reporter
	logger      logs.Logger
	enter       logs.EnterDocument
	newCompiler basic.NewCompiler
	builder     *tap.Builder
	constants   basic.Constants
}

// BasicFile describes a BASIC program to add to the archive.
type BasicFile struct {
	Path string
	// defaults to the file name without extension
	Name      string
	Constants basic.Constants
	// zero means the value of the `autostart` symbol, or no autostart
	Autostart int
}

type CodeFile struct {
	Path    string
	Name    string
	Address int
}

func (d *Document) Entries() []*tap.FileEntry {
	return d.builder.Entries()
}

// ProcessFile reads name from the document file system and processes it as a
// Starlark script if it has the .star extension, as a text document otherwise.
func (d *Document) ProcessFile(ctx context.Context, name string) ([]byte, error) {
	content, err := fs.ReadFile(d.fsys, name)
	if err != nil {
		return nil, err
	}
	info := diags.Source{Path: name}
	if path.Ext(name) == ".star" {
		return d.ProcessStarlark(ctx, string(content), info)
	}
	return d.Process(ctx, string(content), info)
}

func (d *Document) AddBasic(ctx context.Context, loc diags.Location, file BasicFile) (*tap.FileEntry, error) {
	content, err := d.readFile(file.Path)
	if err != nil {
		return nil, d.fail(loc, "Unable to open BASIC program file: "+file.Path)
	}

	compiler := d.newCompiler(d.reporter)
	compiler.SetConstants(file.Constants.Merge(d.constants))
	source := diags.Source{Path: file.Path}
	if err := compiler.Parse(string(content), source, compiler.Dialect()); err != nil {
		return nil, err
	}
	for v := range compiler.Symbols().All() {
		d.logger.DebugContext(ctx, "symbol",
			"name", v.Name,
			"value", v.Value,
		)
	}

	autostart := file.Autostart
	if autostart == 0 {
		autostart = tap.NoAutostart
		if value, ok := compiler.ResolveVariable("autostart"); ok {
			line, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, d.fail(loc, "Invalid autostart line `"+value+"`.")
			}
			autostart = int(line)
		}
	}

	entry := tap.NewProgram(entryName(file.Name, file.Path), compiler.ProgramBytes(), autostart)
	entry.Source = source
	d.add(ctx, entry)
	return entry, nil
}

func (d *Document) AddCode(ctx context.Context, loc diags.Location, file CodeFile) (*tap.FileEntry, error) {
	content, err := d.readFile(file.Path)
	if err != nil {
		return nil, d.fail(loc, "Unable to open CODE bytes file: "+file.Path)
	}
	entry := tap.NewCode(entryName(file.Name, file.Path), content, file.Address)
	entry.Source = diags.Source{Path: file.Path}
	d.add(ctx, entry)
	return entry, nil
}

// Build serializes every added entry. Validation problems are reported; a
// fatal one fails the build.
func (d *Document) Build(ctx context.Context) ([]byte, error) {
	if d.builder.Len() == 0 {
		loc := diags.Location{Path: string(logs.DocumentFrom(ctx))}
		d.reporter.Error(loc, "Document contains no files.")
		return nil, diags.At(loc, ErrEmptyDocument)
	}
	out, err := d.builder.Build()
	if err != nil {
		return nil, err
	}
	d.logger.InfoContext(ctx, "archive built",
		"files", d.builder.Len(),
		"bytes", len(out),
	)
	return out, nil
}

func (d *Document) add(ctx context.Context, entry *tap.FileEntry) {
	d.builder.Add(entry)
	d.logger.InfoContext(ctx, "add file",
		"type", entry.Type.String(),
		"name", entry.Name,
		"bytes", len(entry.Bytes),
	)
}

func (d *Document) readFile(name string) ([]byte, error) {
	name = path.Clean(filepath.ToSlash(name))
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return fs.ReadFile(d.fsys, name)
}

func (d *Document) fail(loc diags.Location, msg string) error {
	d.reporter.Error(loc, msg)
	return diags.At(loc, errors.New(msg))
}

func entryName(name, filePath string) string {
	if name != "" {
		return name
	}
	base := path.Base(filepath.ToSlash(filePath))
	return strings.TrimSuffix(base, path.Ext(base))
}
