package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/reusee/bastapir/basic"
	"github.com/reusee/bastapir/diags"
	"github.com/reusee/bastapir/logs"
	"github.com/reusee/bastapir/tap"
	"github.com/reusee/starlarkutil"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ProcessStarlark runs a build script. Besides the Starlark builtins it sees:
//
//	basic(path, name="", constants={}, autostart=None)
//	code(path, address, name="")
//	file_name(path)
//	hex(n)
//
// basic and code return a dict describing the added entry.
func (d *Document) ProcessStarlark(ctx context.Context, src string, info diags.Source) ([]byte, error) {
	ctx = d.enter(ctx, logs.Document(info.Path))
	d.builder.Reset()

	script := &starlarkScript{
		ctx: ctx,
		doc: d,
	}
	thread := &starlark.Thread{
		Name: info.Path,
		Print: func(_ *starlark.Thread, msg string) {
			d.logger.InfoContext(ctx, msg)
		},
	}
	predeclared := starlark.StringDict{
		"basic":     starlark.NewBuiltin("basic", script.basic),
		"code":      starlark.NewBuiltin("code", script.code),
		"file_name": starlarkutil.MakeFunc("file_name", fileName),
		"hex":       starlarkutil.MakeFunc("hex", hexString),
	}

	options := &syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
	}
	if _, err := starlark.ExecFileOptions(options, thread, info.Path, src, predeclared); err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) && script.err != nil {
			// already reported
			return nil, logs.WrapDocument(ctx, script.err)
		}
		loc := info.Location()
		if errors.As(err, &evalErr) {
			for _, frame := range evalErr.CallStack {
				if frame.Pos.IsValid() {
					loc = frameLocation(frame)
					break
				}
			}
		}
		var syntaxErr syntax.Error
		if errors.As(err, &syntaxErr) {
			loc = info.At(int(syntaxErr.Pos.Line), int(syntaxErr.Pos.Col))
		}
		d.reporter.Error(loc, err.Error())
		return nil, logs.WrapDocument(ctx, diags.At(loc, err))
	}

	out, err := d.Build(ctx)
	if err != nil {
		return nil, logs.WrapDocument(ctx, err)
	}
	return out, nil
}

type starlarkScript struct {
	ctx context.Context
	doc *Document
	// first error raised by a builtin
	err error
}

func (s *starlarkScript) failed(err error) error {
	if s.err == nil {
		s.err = err
	}
	return err
}

func (s *starlarkScript) basic(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		filePath  string
		name      string
		constants *starlark.Dict
		autostart starlark.Value = starlark.None
	)
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
		"path", &filePath,
		"name?", &name,
		"constants?", &constants,
		"autostart?", &autostart,
	); err != nil {
		return nil, err
	}

	file := BasicFile{
		Path: filePath,
		Name: name,
	}
	if constants != nil {
		for _, item := range constants.Items() {
			key, ok := starlark.AsString(item[0])
			if !ok {
				return nil, fmt.Errorf("%s: constant name must be a string, got %s", fn.Name(), item[0].Type())
			}
			value, ok := starlark.AsString(item[1])
			if !ok {
				value = item[1].String()
			}
			file.Constants = append(file.Constants, basic.NewConstant(key, value))
		}
	}
	if autostart != starlark.None {
		line, err := starlark.AsInt32(autostart)
		if err != nil {
			return nil, fmt.Errorf("%s: autostart: %w", fn.Name(), err)
		}
		file.Autostart = line
	}

	entry, err := s.doc.AddBasic(s.ctx, frameLocation(thread.CallFrame(1)), file)
	if err != nil {
		return nil, s.failed(err)
	}
	return toStarlarkValue(entryInfo(entry)), nil
}

func (s *starlarkScript) code(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		filePath string
		address  int
		name     string
	)
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
		"path", &filePath,
		"address", &address,
		"name?", &name,
	); err != nil {
		return nil, err
	}
	if address < 0 || address > 0xFFFF {
		return nil, fmt.Errorf("%s: address %d is out of range", fn.Name(), address)
	}

	entry, err := s.doc.AddCode(s.ctx, frameLocation(thread.CallFrame(1)), CodeFile{
		Path:    filePath,
		Name:    name,
		Address: address,
	})
	if err != nil {
		return nil, s.failed(err)
	}
	return toStarlarkValue(entryInfo(entry)), nil
}

func frameLocation(frame starlark.CallFrame) diags.Location {
	return diags.Location{
		Path:   frame.Pos.Filename(),
		Line:   int(frame.Pos.Line),
		Column: int(frame.Pos.Col),
	}
}

func entryInfo(entry *tap.FileEntry) map[string]any {
	var param1, param2 uint16
	if entry.Params != nil {
		param1, param2 = entry.Params.Words()
	}
	return map[string]any{
		"name":   entry.Name,
		"type":   entry.Type.String(),
		"length": len(entry.Bytes),
		"param1": param1,
		"param2": param2,
	}
}

func fileName(filePath string) string {
	return entryName("", filePath)
}

func hexString(n int) string {
	return fmt.Sprintf("0x%04X", n)
}
