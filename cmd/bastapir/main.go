package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/reusee/bastapir/basic"
	"github.com/reusee/bastapir/bastconfigs"
	"github.com/reusee/bastapir/cmds"
	"github.com/reusee/bastapir/diags"
	"github.com/reusee/bastapir/document"
	"github.com/reusee/bastapir/keywords"
	"github.com/reusee/bastapir/logs"
	"github.com/reusee/bastapir/modes"
	"github.com/reusee/bastapir/tap"
	"github.com/reusee/dscope"
)

var (
	outputFlag  = cmds.Var[string]("-o", "output file")
	listingFlag = cmds.Switch("-listing", "print BASIC program listings")

	run func(ctx context.Context, scope dscope.Scope) error
)

func init() {
	cmds.Define("build", cmds.Func(func(path string) {
		run = func(ctx context.Context, scope dscope.Scope) error {
			return build(ctx, scope, path)
		}
	}).Args("DOC").Desc("build a tape archive from a document or a .star script"))

	cmds.Define("basic", cmds.Func(func(path string) {
		run = func(ctx context.Context, scope dscope.Scope) error {
			return compileBasic(ctx, scope, path)
		}
	}).Args("FILE").Desc("compile one BASIC program into a tape archive"))

	cmds.Define("list", cmds.Func(func(path string) {
		run = func(ctx context.Context, scope dscope.Scope) error {
			return list(scope, os.Stdout, path)
		}
	}).Args("FILE").Desc("list the files of a tape archive"))
}

func main() {
	cmds.Execute(os.Args[1:])

	if run == nil {
		cmds.GlobalExecutor.PrintUsage()
		os.Exit(2)
	}

	scope := dscope.New(
		new(document.Module),
		new(bastconfigs.Module),
		modes.ForProduction(),
	)

	if err := run(context.Background(), scope); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func outputPath(input string) string {
	if *outputFlag != "" {
		return *outputFlag
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".tap"
}

func build(ctx context.Context, scope dscope.Scope, path string) (err error) {
	scope.Call(func(
		newDocument document.NewDocument,
		newLog diags.NewLog,
		logger logs.Logger,
	) {
		log := newLog(ctx)
		doc := newDocument(os.DirFS(filepath.Dir(path)), log)
		var out []byte
		out, err = doc.ProcessFile(ctx, filepath.Base(path))
		if err != nil {
			return
		}
		err = writeArchive(logger, log, outputPath(path), out)
	})
	return
}

func compileBasic(ctx context.Context, scope dscope.Scope, path string) (err error) {
	scope.Call(func(
		newDocument document.NewDocument,
		newLog diags.NewLog,
		enter logs.EnterDocument,
		logger logs.Logger,
		dialect keywords.Dialect,
	) {
		ctx = enter(ctx, logs.Document(path))
		log := newLog(ctx)
		doc := newDocument(os.DirFS(filepath.Dir(path)), log)

		var entry *tap.FileEntry
		entry, err = doc.AddBasic(ctx, diags.Location{Path: path}, document.BasicFile{
			Path: filepath.Base(path),
		})
		if err != nil {
			return
		}
		if *listingFlag {
			var listing string
			listing, err = basic.Listing(keywords.New(dialect), entry.Bytes)
			if err != nil {
				return
			}
			fmt.Print(listing)
		}

		var out []byte
		out, err = doc.Build(ctx)
		if err != nil {
			return
		}
		err = writeArchive(logger, log, outputPath(path), out)
	})
	return
}

func writeArchive(logger logs.Logger, log *diags.Log, path string, content []byte) error {
	if err := os.WriteFile(path, content, 0644); err != nil {
		return err
	}
	logger.Info("write archive",
		"path", path,
		"bytes", len(content),
		"warnings", log.WarningCount(),
	)
	return nil
}

func list(scope dscope.Scope, w io.Writer, path string) (err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	entries, err := tap.Read(data)
	if err != nil {
		return err
	}

	scope.Call(func(
		dialect keywords.Dialect,
	) {
		table := keywords.New(dialect)
		for _, entry := range entries {
			fmt.Fprintf(w, "%-15s %-12q %6d  %s\n",
				entry.Type,
				entry.Name,
				len(entry.Bytes),
				describeParams(entry.Params),
			)
			if *listingFlag && entry.Type == tap.Program {
				var listing string
				listing, err = basic.Listing(table, entry.Bytes)
				if err != nil {
					return
				}
				fmt.Fprint(w, listing)
			}
		}
	})
	return
}

func describeParams(params tap.Params) string {
	switch params := params.(type) {
	case tap.ProgramParams:
		if params.AutostartLine == tap.NoAutostart {
			return fmt.Sprintf("variables=%d", params.VariableArea)
		}
		return fmt.Sprintf("autostart=%d variables=%d", params.AutostartLine, params.VariableArea)
	case tap.CodeParams:
		return fmt.Sprintf("address=%d", params.Address)
	case nil:
		return ""
	}
	param1, param2 := params.Words()
	return fmt.Sprintf("param1=%d param2=%d", param1, param2)
}
