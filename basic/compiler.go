package basic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reusee/bastapir/diags"
	"github.com/reusee/bastapir/keywords"
	"github.com/reusee/bastapir/scanner"
)

const (
	MinLineNumber = 1
	MaxLineNumber = 9999
)

var ErrInvalidOptions = errors.New("invalid options")

func (o Options) Validate() error {
	if o.InitialLineNumber < MinLineNumber || o.InitialLineNumber > MaxLineNumber {
		return fmt.Errorf("%w: initial line number %d", ErrInvalidOptions, o.InitialLineNumber)
	}
	if o.LineNumberIncrement < 1 || o.LineNumberIncrement > MaxLineNumber {
		return fmt.Errorf("%w: line number increment %d", ErrInvalidOptions, o.LineNumberIncrement)
	}
	return nil
}

// Compiler turns BASIC source text into a tokenized program image.
//
// Parse walks the source twice. The first pass assigns numbers to labels and
// collects every @name reference; the second pass emits bytes, by which time
// every reference has a value.
type Compiler struct {
	reporter diags.Reporter
	table    *keywords.Table
	options  Options

	constants *Symbols
	variables *Symbols

	scanner *scanner.Scanner
	source  diags.Source
	output  []byte
	ctx     passContext
}

type passContext struct {
	pass            int
	basicLineNumber int
	processedLines  int
	// offset just past the length field of the last written line
	lineStart int
	// a line was opened by the current logical line and still needs its ENT
	lineOpen bool
	// the next token is the first of a logical line
	lineBegin bool
	// a label took the next line number; the next line reuses it
	doNotIncrement  bool
	labelLineNumber int
}

func New(reporter diags.Reporter, dialect keywords.Dialect) *Compiler {
	return &Compiler{
		reporter:  reporter,
		table:     keywords.New(dialect),
		options:   DefaultOptions(),
		constants: NewSymbols(),
		variables: NewSymbols(),
	}
}

func (c *Compiler) SetOptions(options Options) error {
	if err := options.Validate(); err != nil {
		return err
	}
	c.options = options
	return nil
}

func (c *Compiler) Options() Options {
	return c.options
}

func (c *Compiler) SetDialect(dialect keywords.Dialect) {
	if c.table.Dialect() != dialect {
		c.table = keywords.New(dialect)
	}
}

func (c *Compiler) Dialect() keywords.Dialect {
	return c.table.Dialect()
}

// SetConstants replaces the injected constants. A name given twice keeps its
// first value.
func (c *Compiler) SetConstants(constants []Variable) {
	c.constants.Clear()
	for _, constant := range constants {
		if _, ok := c.constants.Get(constant.Name); ok {
			c.reporter.Warning(c.source.Location(), "Constant `"+constant.Name+"` injected into BASIC source already exists. Ignoring new value.")
			continue
		}
		c.constants.Set(constant)
	}
}

// ResolveVariable looks name up in constants, then in variables. It reports
// false if the name is unknown or has no value yet.
func (c *Compiler) ResolveVariable(name string) (string, bool) {
	v, ok := c.findVariable(name)
	if !ok || !v.Resolved {
		return "", false
	}
	return v.Value, true
}

// Symbols returns the labels and references discovered by the last Parse.
func (c *Compiler) Symbols() *Symbols {
	return c.variables
}

// ProgramBytes returns the image produced by the last successful Parse.
func (c *Compiler) ProgramBytes() []byte {
	return c.output
}

// Parse compiles source. Diagnostics go to the reporter; the returned error
// is the first fatal one.
func (c *Compiler) Parse(source string, info diags.Source, dialect keywords.Dialect) error {
	c.source = info
	c.SetDialect(dialect)
	c.scanner = scanner.New(source)
	c.scanner.SetStopAtLineEnd(true)
	c.output = nil

	c.variables.Clear()
	for constant := range c.constants.All() {
		if !constant.Resolved {
			return c.fileError("Constant `" + constant.Name + "` injected into BASIC has unresolved value.")
		}
	}

	for pass := 1; pass <= 2; pass++ {
		c.ctx = passContext{
			pass: pass,
		}
		c.output = c.output[:0]
		c.scanner.Reset()

		for {
			if err := c.parseLine(); err != nil {
				c.output = nil
				return err
			}
			if !c.scanner.NextLine() {
				break
			}
		}

		if pass == 1 {
			if err := c.checkVariablesResolved(); err != nil {
				return err
			}
			continue
		}

		if c.ctx.processedLines == 0 {
			c.output = nil
			return c.fileError("BASIC program is empty.")
		}
		c.patchLineLength()
		if len(c.output) == 0 {
			return c.fileError("No bytes were generated from BASIC program.")
		}
	}

	return nil
}

func (c *Compiler) findVariable(name string) (*Variable, bool) {
	if v, ok := c.constants.Get(name); ok {
		return v, true
	}
	return c.variables.Get(name)
}

func (c *Compiler) addVariable(v Variable, isLabel bool) error {
	current, ok := c.findVariable(v.Name)
	if !ok {
		c.variables.Set(v)
		return nil
	}
	if current.Resolved {
		if v.Resolved {
			if isLabel {
				return c.errorf("Duplicate symbolic line number `%s` detected in BASIC file.", v.Name)
			}
			return c.errorf("Duplicate variable `%s` injected into BASIC.", v.Name)
		}
		return nil
	}
	if v.Resolved {
		current.SetValue(v.Value)
	}
	return nil
}

func (c *Compiler) checkVariablesResolved() error {
	var errs []error
	for v := range c.variables.All() {
		if v.Resolved {
			continue
		}
		errs = append(errs, c.fileError("Variable `"+v.Name+"` used in BASIC has unresolved value."))
	}
	return errors.Join(errs...)
}

// variable value to number
func (c *Compiler) variableNumber(name, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, c.errorf("Value `%s` of variable `%s` is not a number.", value, name)
	}
	return v, nil
}

// diagnostics

func (c *Compiler) location() diags.Location {
	line, column := c.scanner.Location()
	return c.source.At(line, column)
}

func (c *Compiler) errorf(format string, args ...any) error {
	loc := c.location()
	msg := fmt.Sprintf(format, args...)
	c.reporter.Error(loc, msg)
	return diags.At(loc, errors.New(msg))
}

func (c *Compiler) fileError(msg string) error {
	loc := c.source.Location()
	c.reporter.Error(loc, msg)
	return diags.At(loc, errors.New(msg))
}

func (c *Compiler) warning(msg string) {
	// both passes see the same text
	if c.ctx.pass != 1 {
		return
	}
	c.reporter.Warning(c.location(), msg)
}

// output; nothing is written during the first pass

func (c *Compiler) writeByte(b byte) {
	if c.ctx.pass > 1 {
		c.output = append(c.output, b)
	}
}

func (c *Compiler) writeBytes(bs []byte) {
	if c.ctx.pass > 1 {
		c.output = append(c.output, bs...)
	}
}

func (c *Compiler) writeString(s string) {
	if c.ctx.pass > 1 {
		c.output = append(c.output, s...)
	}
}

func (c *Compiler) nextLineNumber() int {
	if c.ctx.doNotIncrement {
		c.ctx.doNotIncrement = false
		return c.ctx.labelLineNumber
	}
	if c.ctx.basicLineNumber == 0 {
		return c.options.InitialLineNumber
	}
	return c.ctx.basicLineNumber + c.options.LineNumberIncrement
}

func (c *Compiler) writeLineNumber(number int) error {
	if number < MinLineNumber || number > MaxLineNumber {
		return c.errorf("Wrong line number.")
	}
	if number <= c.ctx.basicLineNumber {
		if number == c.ctx.basicLineNumber {
			return c.errorf("Line number is equal to previous one.")
		}
		return c.errorf("Line number is lesser than previous one.")
	}

	c.ctx.basicLineNumber = number
	c.ctx.processedLines++
	c.ctx.lineOpen = true

	if c.ctx.pass > 1 {
		c.patchLineLength()
		c.output = append(c.output, byte(number>>8), byte(number), 0, 0)
		c.ctx.lineStart = len(c.output)
	}
	return nil
}

// patchLineLength writes the length of the last line into its header.
func (c *Compiler) patchLineLength() {
	if c.ctx.pass < 2 || c.ctx.lineStart < 4 {
		return
	}
	size := len(c.output) - c.ctx.lineStart
	c.output[c.ctx.lineStart-2] = byte(size)
	c.output[c.ctx.lineStart-1] = byte(size >> 8)
}

func (c *Compiler) endLine() {
	if !c.ctx.lineOpen {
		return
	}
	c.writeByte(keywords.CodeENT)
	c.ctx.lineOpen = false
}

// Listing renders a program image as text, one line per program line. It is
// meant for inspection, not for round trips.
func Listing(table *keywords.Table, program []byte) (string, error) {
	var b strings.Builder
	for len(program) > 0 {
		if len(program) < 4 {
			return b.String(), fmt.Errorf("truncated line header")
		}
		number := int(program[0])<<8 | int(program[1])
		size := int(program[2]) | int(program[3])<<8
		program = program[4:]
		if size > len(program) {
			return b.String(), fmt.Errorf("line %d: length %d exceeds program", number, size)
		}
		body := program[:size]
		program = program[size:]

		b.WriteString(strconv.Itoa(number))
		for i := 0; i < len(body); i++ {
			code := body[i]
			switch {
			case code == keywords.CodeNUM:
				// the binary shadow follows the text form
				i += 5
			case code == keywords.CodeENT:
			case code >= 0x20 && code < 0x7F:
				b.WriteByte(code)
			default:
				if name, ok := table.Name(code); ok {
					b.WriteString(" " + strings.ToUpper(name) + " ")
				} else {
					b.WriteString(fmt.Sprintf(`\x%02X`, code))
				}
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
