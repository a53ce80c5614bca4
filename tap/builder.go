package tap

import (
	"errors"
	"fmt"
	"slices"

	"github.com/reusee/bastapir/diags"
)

var ErrValidation = errors.New("invalid file entry")

// Builder collects file entries and produces a tape archive.
type Builder struct {
	reporter diags.Reporter
	entries  []*FileEntry
}

func NewBuilder(reporter diags.Reporter) *Builder {
	return &Builder{
		reporter: reporter,
	}
}

func (b *Builder) Add(entry *FileEntry) {
	b.entries = append(b.entries, entry)
}

func (b *Builder) Entries() []*FileEntry {
	return slices.Clone(b.entries)
}

func (b *Builder) Len() int {
	return len(b.entries)
}

func (b *Builder) Reset() {
	b.entries = nil
}

// Build validates every entry before serializing anything. Warnings are
// reported and ignored; any error issue aborts the build.
func (b *Builder) Build() ([]byte, error) {
	var errs []error
	for _, entry := range b.entries {
		loc := entry.Source.Location()
		for _, issue := range entry.Validate() {
			msg := fmt.Sprintf("%s: %s", entryLabel(entry), issue)
			if !issue.IsError() {
				b.reporter.Warning(loc, msg)
				continue
			}
			b.reporter.Error(loc, msg)
			errs = append(errs, diags.At(loc, fmt.Errorf("%w: %s", ErrValidation, msg)))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	var out []byte
	for _, entry := range b.entries {
		bytes, err := SerializeEntry(entry)
		if err != nil {
			loc := entry.Source.Location()
			b.reporter.Error(loc, err.Error())
			return nil, diags.At(loc, err)
		}
		out = append(out, bytes...)
	}
	return out, nil
}

func entryLabel(e *FileEntry) string {
	return fmt.Sprintf("%s %q", e.Type, e.Name)
}
