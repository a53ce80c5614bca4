package basic

import (
	"strconv"
	"strings"

	"github.com/reusee/bastapir/keywords"
	"github.com/reusee/bastapir/scanner"
	"github.com/reusee/bastapir/zxfloat"
)

func isSymbolChar(c byte) bool {
	return scanner.IsAlnum(c) || c == '_'
}

// parseLine consumes one logical line: a physical line plus any lines joined
// to it with a trailing backslash.
func (c *Compiler) parseLine() error {
	s := c.scanner
	c.ctx.lineBegin = true

	for {
		lineBegin := c.ctx.lineBegin
		c.ctx.lineBegin = false

		s.SkipWhitespace()
		if s.IsEnd() {
			c.endLine()
			return nil
		}

		ch := s.CharAt(0)
		var err error
		switch {

		case ch == '#':
			// comment to the end of the line
			c.endLine()
			return nil

		case ch == '\\':
			c.parseLineEscape()
			c.ctx.lineBegin = lineBegin

		case ch == '@':
			err = c.parseVariable(lineBegin)
			if lineBegin {
				// a label leaves the line open for its keyword
				c.ctx.lineBegin = true
			}

		case scanner.IsDigit(ch):
			if lineBegin {
				err = c.parseLineNumber()
			} else {
				err = c.parseNumber(false)
			}

		case ch == '.':
			if lineBegin {
				return c.errorf("Wrong line number.")
			}
			err = c.parseNumber(false)

		case ch == '"':
			if lineBegin {
				return c.errorf("Nonsense in BASIC.")
			}
			err = c.parseString()

		default:
			err = c.parseKeywords(lineBegin)
		}

		if err != nil {
			return err
		}
	}
}

func (c *Compiler) parseLineNumber() error {
	s := c.scanner
	s.ResetCapture()
	s.SkipWhile(scanner.IsDigit)
	text := s.Text(s.Capture())
	if s.IsEnd() || !scanner.IsSpace(s.CharAt(0)) {
		return c.errorf("Wrong line number.")
	}
	number, err := strconv.Atoi(text)
	if err != nil {
		return c.errorf("Wrong line number.")
	}
	if c.ctx.doNotIncrement {
		return c.errorf("Explicit line number follows a symbolic line number.")
	}
	return c.writeLineNumber(number)
}

func (c *Compiler) parseNumber(asBinary bool) error {
	s := c.scanner

	c1 := s.CharAt(0)
	if c1 == '0' || asBinary {
		c2 := s.CharAt(1)

		if c2 == 'x' || c2 == 'X' {
			s.MovePosition(2)
			s.ResetCapture()
			s.SkipWhile(scanner.IsHexDigit)
			digits := s.Text(s.Capture())
			if digits == "" {
				return c.errorf("Invalid hexadecimal number.")
			}
			n, err := strconv.ParseUint(digits, 16, 64)
			if err != nil || n > 0xFFFF {
				return c.errorf("Hexadecimal number is too big.")
			}
			return c.writeNumber(float64(n), strconv.FormatUint(n, 10))
		}

		if c2 == 'b' || c2 == 'B' || asBinary {
			if c1 == '0' && (c2 == 'b' || c2 == 'B') {
				s.MovePosition(2)
			}
			s.ResetCapture()
			s.SkipWhile(scanner.IsBinaryDigit)
			digits := s.Text(s.Capture())
			if digits == "" {
				return c.errorf("Invalid binary number.")
			}
			n, err := strconv.ParseUint(digits, 2, 64)
			if err != nil || n > 0xFFFF {
				return c.errorf("Binary number is too big.")
			}
			return c.writeNumber(float64(n), strconv.FormatUint(n, 10))
		}
	}

	// [digits][.digits][e[sign]digits]
	s.ResetCapture()
	if c1 != '.' {
		s.SkipWhile(scanner.IsDigit)
	}
	if s.CharAt(0) == '.' {
		s.MovePosition(1)
		s.SkipWhile(scanner.IsDigit)
	}
	if e := s.CharAt(0); e == 'e' || e == 'E' {
		offset := 1
		if sign := s.CharAt(1); sign == '+' || sign == '-' {
			offset = 2
		}
		if scanner.IsDigit(s.CharAt(offset)) {
			s.MovePosition(offset)
			s.SkipWhile(scanner.IsDigit)
		}
	}
	text := s.Text(s.Capture())
	if text == "" || text == "." {
		return c.errorf("Invalid number.")
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return c.errorf("Exponent out of range (number is too big).")
	}
	return c.writeNumber(n, text)
}

// writeNumber emits the literal text followed by its binary form.
func (c *Compiler) writeNumber(n float64, text string) error {
	encoded, err := zxfloat.Bytes(n)
	if err != nil {
		return c.errorf("Exponent out of range (number is too big).")
	}
	c.writeString(text)
	c.writeByte(keywords.CodeNUM)
	c.writeBytes(encoded[:])
	return nil
}

func (c *Compiler) parseVariable(lineBegin bool) error {
	s := c.scanner
	s.MovePosition(1)
	s.ResetCapture()
	s.SkipWhile(isSymbolChar)
	name := s.Text(s.Capture())

	if lineBegin {
		if s.GetChar() != ':' || name == "" {
			return c.errorf("Invalid symbolic line number.")
		}
		number := c.nextLineNumber()
		c.ctx.doNotIncrement = true
		c.ctx.labelLineNumber = number
		if c.ctx.pass == 1 {
			label := NewVariable(name)
			label.SetValue(strconv.Itoa(number))
			return c.addVariable(label, true)
		}
		return nil
	}

	if name == "" {
		return c.errorf("Invalid usage of symbolic line number.")
	}
	if c.ctx.pass == 1 {
		return c.addVariable(NewVariable(name), false)
	}

	value, ok := c.ResolveVariable(name)
	if !ok {
		return c.errorf("Unable to resolve value of variable `%s`.", name)
	}
	n, err := c.variableNumber(name, value)
	if err != nil {
		return err
	}
	return c.writeNumber(n, strings.TrimSpace(value))
}

func (c *Compiler) parseString() error {
	s := c.scanner
	s.MovePosition(1)
	if c.options.QuotedStrings {
		c.writeByte('"')
	}
	s.ResetCapture()

	for {
		if s.IsEnd() {
			return c.errorf("Unexpected end of string.")
		}
		ch := s.GetChar()

		if ch == '"' {
			if s.IsCharAt('"') {
				// doubled quote stays in the string
				s.MovePosition(1)
				continue
			}
			break
		}

		if ch == '\\' {
			code, n := c.table.FindEscapeCode(s.Rest())
			if code == 0 {
				return c.errorf("Invalid character escape sequence in string.")
			}
			text := s.Capture()
			text.End--
			c.writeString(s.Text(text))
			c.writeByte(code)
			s.MovePosition(n)
			s.ResetCapture()
		}
	}

	text := s.Capture()
	text.End--
	c.writeString(s.Text(text))
	if c.options.QuotedStrings {
		c.writeByte('"')
	}
	return nil
}

// atLineEscape reports whether the backslash under the cursor ends the line,
// ignoring trailing whitespace.
func (c *Compiler) atLineEscape() bool {
	return strings.TrimSpace(c.scanner.Rest()[1:]) == ""
}

func (c *Compiler) parseLineEscape() {
	if !c.atLineEscape() {
		c.warning("Characters after line escape (\\) will be ignored.")
	}
	c.scanner.NextLine()
}

func (c *Compiler) parseKeywords(lineBegin bool) error {
	s := c.scanner
	ch := s.CharAt(0)
	code, n := c.table.FindKeyword(s.Rest())

	if lineBegin {
		if code == 0 || code == keywords.CodeBIN {
			return c.errorf("Nonsense in BASIC.")
		}
		if err := c.writeLineNumber(c.nextLineNumber()); err != nil {
			return err
		}
	}

	switch {

	case code == keywords.CodeBIN:
		s.MovePosition(n)
		s.SkipWhitespace()
		return c.parseNumber(true)

	case code == keywords.CodeREM:
		s.MovePosition(n)
		c.writeByte(code)
		return c.parseREM()

	case code != 0:
		s.MovePosition(n)
		c.writeByte(code)

	case scanner.IsAlpha(ch):
		// a variable of the program itself
		s.ResetCapture()
		s.SkipWhile(scanner.IsAlnum)
		c.writeString(s.Text(s.Capture()))

	default:
		s.MovePosition(1)
		c.writeByte(ch)
	}

	return nil
}

func (c *Compiler) parseREM() error {
	s := c.scanner
	s.SkipWhitespace()
	wasSpace := false

	for !s.IsEnd() {
		ch := s.CharAt(0)
		switch {

		case ch == '\\':
			wasSpace = false
			if c.atLineEscape() {
				s.NextLine()
				continue
			}
			s.MovePosition(1)
			code, n := c.table.FindEscapeCode(s.Rest())
			if code == 0 {
				return c.errorf("Invalid escaped character in REM statement.")
			}
			s.MovePosition(n)
			c.writeByte(code)

		case scanner.IsSpace(ch):
			if !wasSpace {
				c.writeByte(' ')
				wasSpace = true
			}
			s.MovePosition(1)

		case scanner.IsAlnum(ch):
			wasSpace = false
			s.ResetCapture()
			s.SkipWhile(scanner.IsAlnum)
			c.writeString(s.Text(s.Capture()))

		default:
			wasSpace = false
			s.MovePosition(1)
			c.writeByte(ch)
		}
	}

	return nil
}
