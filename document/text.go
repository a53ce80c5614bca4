package document

import (
	"context"
	"strconv"
	"strings"

	"github.com/reusee/bastapir/diags"
	"github.com/reusee/bastapir/logs"
	"github.com/reusee/bastapir/scanner"
)

// Process runs a text document. Each line holds one command:
//
//	basic "path" [Name]
//	code "path" Address [Name]
//
// Blank lines and lines starting with # are ignored.
func (d *Document) Process(ctx context.Context, src string, info diags.Source) ([]byte, error) {
	ctx = d.enter(ctx, logs.Document(info.Path))
	d.builder.Reset()

	p := &textParser{
		ctx:     ctx,
		doc:     d,
		info:    info,
		scanner: scanner.New(src),
	}
	p.scanner.SetStopAtLineEnd(true)
	for {
		if err := p.parseLine(); err != nil {
			return nil, logs.WrapDocument(ctx, err)
		}
		if !p.scanner.NextLine() {
			break
		}
	}

	out, err := d.Build(ctx)
	if err != nil {
		return nil, logs.WrapDocument(ctx, err)
	}
	return out, nil
}

type textParser struct {
	ctx     context.Context
	doc     *Document
	info    diags.Source
	scanner *scanner.Scanner
}

func (p *textParser) location() diags.Location {
	line, column := p.scanner.Location()
	return p.info.At(line, column)
}

func (p *textParser) fail(msg string) error {
	return p.doc.fail(p.location(), msg)
}

func (p *textParser) parseLine() error {
	s := p.scanner
	s.SkipWhitespace()
	if s.IsEnd() || s.IsCharAt('#') {
		return nil
	}

	loc := p.location()
	command := strings.ToLower(p.captureWord(scanner.IsAlpha))
	var err error
	switch command {
	case "basic":
		err = p.parseBasic(loc)
	case "code":
		err = p.parseCode(loc)
	case "":
		return p.fail("Unexpected character in document.")
	default:
		return p.doc.fail(loc, "Unknown command `"+command+"`")
	}
	if err != nil {
		return err
	}

	s.SkipWhitespace()
	if !s.IsEnd() && !s.IsCharAt('#') {
		return p.fail("Unexpected character in document.")
	}
	return nil
}

// basic "path/to/program" [Name]
func (p *textParser) parseBasic(loc diags.Location) error {
	filePath, err := p.captureString()
	if err != nil {
		return err
	}
	name, err := p.captureName()
	if err != nil {
		return err
	}
	_, err = p.doc.AddBasic(p.ctx, loc, BasicFile{
		Path: filePath,
		Name: name,
	})
	return err
}

// code "path/to/bytes" Address [Name]
func (p *textParser) parseCode(loc diags.Location) error {
	filePath, err := p.captureString()
	if err != nil {
		return err
	}
	address, err := p.captureNumber()
	if err != nil {
		return err
	}
	name, err := p.captureName()
	if err != nil {
		return err
	}
	_, err = p.doc.AddCode(p.ctx, loc, CodeFile{
		Path:    filePath,
		Name:    name,
		Address: address,
	})
	return err
}

func (p *textParser) captureWord(pred func(byte) bool) string {
	s := p.scanner
	s.ResetCapture()
	s.SkipWhile(pred)
	return s.Text(s.Capture())
}

func (p *textParser) captureString() (string, error) {
	s := p.scanner
	s.SkipWhitespace()
	if s.GetChar() != '"' {
		return "", p.fail("A double quoted string is expected.")
	}
	s.ResetCapture()
	if !s.SearchFor(func(c byte) bool {
		return c == '"'
	}) {
		return "", p.fail("End of double quoted string is expected.")
	}
	r := s.Capture()
	r.End--
	return s.Text(r), nil
}

// captureName returns an optional bare or quoted name.
func (p *textParser) captureName() (string, error) {
	s := p.scanner
	s.SkipWhitespace()
	if s.IsCharAt('"') {
		return p.captureString()
	}
	return p.captureWord(func(c byte) bool {
		return scanner.IsAlnum(c) || c == '_'
	}), nil
}

// captureNumber reads a decimal or 0x prefixed hexadecimal address.
func (p *textParser) captureNumber() (int, error) {
	s := p.scanner
	s.SkipWhitespace()

	var (
		text string
		base int
	)
	if s.CharAt(0) == '0' && (s.CharAt(1) == 'x' || s.CharAt(1) == 'X') {
		s.MovePosition(2)
		text = p.captureWord(scanner.IsHexDigit)
		if text == "" {
			return 0, p.fail("Hexadecimal number is expected.")
		}
		base = 16
	} else {
		text = p.captureWord(scanner.IsDigit)
		if text == "" {
			return 0, p.fail("Decimal number is expected.")
		}
		base = 10
	}

	value, err := strconv.ParseUint(text, base, 16)
	if err != nil {
		return 0, p.fail("Address `" + text + "` is out of range.")
	}
	return int(value), nil
}
