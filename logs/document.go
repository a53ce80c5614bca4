package logs

import (
	"context"
	"errors"
	"fmt"
)

// Document names the source document a context is working on.
type Document string

type documentKey struct{}

var DocumentKey documentKey

func DocumentFrom(ctx context.Context) Document {
	if v := ctx.Value(DocumentKey); v != nil {
		return v.(Document)
	}
	return ""
}

// WrapDocument attaches the context's document to err.
func WrapDocument(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	doc := DocumentFrom(ctx)
	if doc == "" {
		return err
	}
	return errors.Join(err, fmt.Errorf("document: %s", doc))
}

type EnterDocument func(ctx context.Context, doc Document) context.Context

func (Module) EnterDocument(
	logger Logger,
) EnterDocument {
	return func(ctx context.Context, doc Document) context.Context {
		var args []any
		if parent := DocumentFrom(ctx); parent != "" && parent != doc {
			args = append(args, "parent", parent)
		}
		ctx = context.WithValue(ctx, DocumentKey, doc)
		logger.InfoContext(ctx, "enter document", args...)
		return ctx
	}
}
