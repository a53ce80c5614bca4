package diags

import (
	"fmt"
	"strconv"
)

// Source identifies the text a diagnostic refers to.
type Source struct {
	Path string
}

// Location is a position in a source. Zero Line means the position inside
// the file is unknown.
type Location struct {
	Path   string
	Line   int
	Column int
}

func (s Source) At(line, column int) Location {
	return Location{
		Path:   s.Path,
		Line:   line,
		Column: column,
	}
}

func (s Source) Location() Location {
	return Location{
		Path: s.Path,
	}
}

func (l Location) String() string {
	if l.Path == "" {
		if l.Line > 0 {
			return strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
		}
		return ""
	}
	if l.Line > 0 {
		return l.Path + ":" + strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
	}
	return l.Path
}

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

type Diagnostic struct {
	Severity Severity
	Location Location
	Message  string
}

func (d Diagnostic) String() string {
	if loc := d.Location.String(); loc != "" {
		return loc + ": " + d.Severity.String() + ": " + d.Message
	}
	return d.Severity.String() + ": " + d.Message
}

// Reporter receives diagnostics. Reporting an error does not stop the caller;
// the caller returns its own failure.
type Reporter interface {
	Error(loc Location, msg string)
	Warning(loc Location, msg string)
	Info(loc Location, msg string)
}

// Discard drops every diagnostic.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Error(Location, string)   {}
func (discard) Warning(Location, string) {}
func (discard) Info(Location, string)    {}
