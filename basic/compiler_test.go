package basic

import (
	"context"
	"strings"
	"testing"

	"github.com/reusee/bastapir/diags"
	"github.com/reusee/bastapir/keywords"
	"github.com/reusee/bastapir/modes"
	"github.com/reusee/bastapir/zxfloat"
	"github.com/reusee/dscope"
	"github.com/stretchr/testify/require"
)

const (
	codePRINT = keywords.CodePRINT
	codeGOTO  = keywords.CodeGOTO
	codeLET   = 0xF1
	codeREM   = keywords.CodeREM
)

func compile(t *testing.T, options Options, src string, constants ...Variable) (*Compiler, *diags.Log, error) {
	t.Helper()
	var (
		compiler *Compiler
		log      *diags.Log
		err      error
	)
	dscope.New(
		new(Module),
		modes.ForTest(t),
		dscope.Provide(keywords.Dialect48K),
		dscope.Provide(options),
	).Call(func(
		newCompiler NewCompiler,
		newLog diags.NewLog,
	) {
		log = newLog(context.Background())
		compiler = newCompiler(log)
		compiler.SetConstants(constants)
		err = compiler.Parse(src, diags.Source{Path: "test.bas"}, compiler.Dialect())
	})
	return compiler, log, err
}

func mustCompile(t *testing.T, src string, constants ...Variable) []byte {
	t.Helper()
	c, _, err := compile(t, DefaultOptions(), src, constants...)
	require.NoError(t, err)
	return c.ProgramBytes()
}

// num is a numeric literal as written into a program
func num(t *testing.T, text string, v float64) []byte {
	encoded, err := zxfloat.Bytes(v)
	require.NoError(t, err)
	ret := append([]byte(text), keywords.CodeNUM)
	return append(ret, encoded[:]...)
}

// line frames a program line
func line(number int, parts ...any) []byte {
	var body []byte
	for _, part := range parts {
		switch part := part.(type) {
		case byte:
			body = append(body, part)
		case int:
			body = append(body, byte(part))
		case rune:
			body = append(body, byte(part))
		case string:
			body = append(body, part...)
		case []byte:
			body = append(body, part...)
		}
	}
	body = append(body, keywords.CodeENT)
	ret := []byte{byte(number >> 8), byte(number), byte(len(body)), byte(len(body) >> 8)}
	return append(ret, body...)
}

func concat(parts ...[]byte) (ret []byte) {
	for _, part := range parts {
		ret = append(ret, part...)
	}
	return
}

func TestPrintHello(t *testing.T) {
	got := mustCompile(t, `10 PRINT "HELLO"`)
	require.Equal(t, []byte{
		0x00, 0x0A,
		0x07, 0x00,
		0xF5,
		'H', 'E', 'L', 'L', 'O',
		0x0D,
	}, got)
}

func TestQuotedStrings(t *testing.T) {
	options := DefaultOptions()
	options.QuotedStrings = true
	c, _, err := compile(t, options, `10 PRINT "HI"`)
	require.NoError(t, err)
	require.Equal(t, line(10, codePRINT, `"HI"`), c.ProgramBytes())
}

func TestAutomaticLineNumbers(t *testing.T) {
	got := mustCompile(t, "PRINT 1\nPRINT 2\r\n\n   PRINT 3")
	require.Equal(t, concat(
		line(10, codePRINT, num(t, "1", 1)),
		line(12, codePRINT, num(t, "2", 2)),
		line(14, codePRINT, num(t, "3", 3)),
	), got)

	options := DefaultOptions()
	options.InitialLineNumber = 100
	options.LineNumberIncrement = 10
	c, _, err := compile(t, options, "PRINT\nPRINT")
	require.NoError(t, err)
	require.Equal(t, concat(
		line(100, codePRINT),
		line(110, codePRINT),
	), c.ProgramBytes())

	got = mustCompile(t, "5 PRINT\nPRINT")
	require.Equal(t, concat(
		line(5, codePRINT),
		line(7, codePRINT),
	), got)
}

func TestLineNumberOrdering(t *testing.T) {
	_, log, err := compile(t, DefaultOptions(), "20 PRINT\n10 PRINT")
	require.ErrorContains(t, err, "Line number is lesser than previous one.")
	require.Equal(t, 1, log.ErrorCount())

	loc, ok := diags.LocationOf(err)
	require.True(t, ok)
	require.Equal(t, "test.bas", loc.Path)
	require.Equal(t, 2, loc.Line)

	_, _, err = compile(t, DefaultOptions(), "10 PRINT\n10 PRINT")
	require.ErrorContains(t, err, "Line number is equal to previous one.")

	_, _, err = compile(t, DefaultOptions(), "10000 PRINT")
	require.ErrorContains(t, err, "Wrong line number.")

	_, _, err = compile(t, DefaultOptions(), "0 PRINT")
	require.ErrorContains(t, err, "Wrong line number.")

	_, _, err = compile(t, DefaultOptions(), "10PRINT")
	require.ErrorContains(t, err, "Wrong line number.")

	_, _, err = compile(t, DefaultOptions(), ".5 PRINT")
	require.ErrorContains(t, err, "Wrong line number.")

	_, _, err = compile(t, DefaultOptions(), "9998 PRINT\nPRINT")
	require.ErrorContains(t, err, "Wrong line number.")
}

func TestForwardLabel(t *testing.T) {
	c, _, err := compile(t, DefaultOptions(), strings.Join([]string{
		"GO TO @loop",
		"@loop:",
		`PRINT "X"`,
		"goto @loop",
	}, "\n"))
	require.NoError(t, err)
	require.Equal(t, concat(
		line(10, codeGOTO, num(t, "12", 12)),
		line(12, codePRINT, "X"),
		line(14, codeGOTO, num(t, "12", 12)),
	), c.ProgramBytes())

	value, ok := c.ResolveVariable("loop")
	require.True(t, ok)
	require.Equal(t, "12", value)
}

func TestLabels(t *testing.T) {
	// label on the first line, then two labels sharing one line
	c, _, err := compile(t, DefaultOptions(), strings.Join([]string{
		"@start:",
		"PRINT",
		"@a:",
		"@b: PRINT",
		"GO TO @start",
	}, "\n"))
	require.NoError(t, err)
	require.Equal(t, concat(
		line(10, codePRINT),
		line(12, codePRINT),
		line(14, codeGOTO, num(t, "10", 10)),
	), c.ProgramBytes())

	var names []string
	for v := range c.Symbols().All() {
		names = append(names, v.Name+"="+v.Value)
	}
	require.Equal(t, []string{"a=12", "b=12", "start=10"}, names)

	_, _, err = compile(t, DefaultOptions(), "@x:\nPRINT\n@x:\nPRINT")
	require.ErrorContains(t, err, "Duplicate symbolic line number `x`")

	_, _, err = compile(t, DefaultOptions(), "@x PRINT")
	require.ErrorContains(t, err, "Invalid symbolic line number.")

	_, _, err = compile(t, DefaultOptions(), "@:\nPRINT")
	require.ErrorContains(t, err, "Invalid symbolic line number.")

	_, _, err = compile(t, DefaultOptions(), "@x:\n20 PRINT")
	require.ErrorContains(t, err, "Explicit line number")

	_, _, err = compile(t, DefaultOptions(), "10 GO TO @")
	require.ErrorContains(t, err, "Invalid usage of symbolic line number.")
}

func TestUnresolvedVariables(t *testing.T) {
	_, log, err := compile(t, DefaultOptions(), "GO TO @zeta\nGO TO @alpha")
	require.Error(t, err)
	require.Equal(t, 2, log.ErrorCount())
	diagnostics := log.Diagnostics()
	// reported in name order
	require.Contains(t, diagnostics[0].Message, "`alpha`")
	require.Contains(t, diagnostics[1].Message, "`zeta`")
}

func TestConstants(t *testing.T) {
	got := mustCompile(t, "10 PRINT @SPEED*2",
		NewConstant("SPEED", "3"),
	)
	require.Equal(t, line(10, codePRINT, num(t, "3", 3), '*', num(t, "2", 2)), got)

	c, log, err := compile(t, DefaultOptions(), "10 PRINT @A",
		NewConstant("A", "1"),
		NewConstant("A", "2"),
	)
	require.NoError(t, err)
	require.Equal(t, 1, log.WarningCount())
	require.Equal(t, line(10, codePRINT, num(t, "1", 1)), c.ProgramBytes())

	// a label may not reuse a constant name
	_, _, err = compile(t, DefaultOptions(), "@A:\nPRINT",
		NewConstant("A", "1"),
	)
	require.ErrorContains(t, err, "Duplicate symbolic line number `A`")

	_, _, err = compile(t, DefaultOptions(), "10 PRINT @A",
		NewConstant("A", "fast"),
	)
	require.ErrorContains(t, err, "is not a number")
}

func TestUnresolvedConstant(t *testing.T) {
	// the source is nonsense, but the constant check comes first
	_, log, err := compile(t, DefaultOptions(), `"nonsense"`,
		NewVariable("X"),
	)
	require.ErrorContains(t, err, "Constant `X` injected into BASIC has unresolved value.")
	require.Equal(t, 1, log.ErrorCount())
}

func TestNumbers(t *testing.T) {
	for _, c := range []struct {
		src  string
		want []byte
	}{
		{"0.5", num(t, "0.5", 0.5)},
		{".25", num(t, ".25", 0.25)},
		{"1e3", num(t, "1e3", 1000)},
		{"1.5E-2", num(t, "1.5E-2", 0.015)},
		{"0xFF", num(t, "255", 255)},
		{"0X10", num(t, "16", 16)},
		{"0b101", num(t, "5", 5)},
		{"BIN 101", num(t, "5", 5)},
		{"BIN 0B11", num(t, "3", 3)},
		{"0", num(t, "0", 0)},
		{"65536", num(t, "65536", 65536)},
	} {
		got := mustCompile(t, "10 PRINT "+c.src)
		require.Equal(t, line(10, codePRINT, c.want), got, c.src)
	}

	// exponent marker without digits is left alone
	got := mustCompile(t, "10 PRINT 2E")
	require.Equal(t, line(10, codePRINT, num(t, "2", 2), "E"), got)

	for src, msg := range map[string]string{
		"10 PRINT 0x10000": "Hexadecimal number is too big.",
		"10 PRINT 0x":      "Invalid hexadecimal number.",
		"10 PRINT 0b2":     "Invalid binary number.",
		"10 PRINT BIN 2":   "Invalid binary number.",
		"10 PRINT 1e39":    "Exponent out of range",
		"BIN 1":            "Nonsense in BASIC.",
	} {
		_, _, err := compile(t, DefaultOptions(), src)
		require.ErrorContains(t, err, msg, src)
	}
}

func TestStrings(t *testing.T) {
	got := mustCompile(t, `10 PRINT "A\::B\a"`)
	require.Equal(t, line(10, codePRINT, "A", 0x8F, "B", 0x90), got)

	got = mustCompile(t, `10 PRINT "say ""hi"""`)
	require.Equal(t, line(10, codePRINT, `say ""hi""`), got)

	got = mustCompile(t, `10 PRINT "\\ \@\*"`)
	require.Equal(t, line(10, codePRINT, `\ @`, 0x7F), got)

	_, _, err := compile(t, DefaultOptions(), `10 PRINT "open`)
	require.ErrorContains(t, err, "Unexpected end of string.")

	_, _, err = compile(t, DefaultOptions(), `10 PRINT "\z"`)
	require.ErrorContains(t, err, "Invalid character escape sequence in string.")

	_, _, err = compile(t, DefaultOptions(), `"HELLO"`)
	require.ErrorContains(t, err, "Nonsense in BASIC.")
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	got := mustCompile(t, "10 LET printer=1")
	require.Equal(t, line(10, codeLET, "printer", '=', num(t, "1", 1)), got)

	ink, _ := keywords.New(keywords.Dialect48K).FindKeyword("ink")
	got = mustCompile(t, "10 INK 7")
	require.Equal(t, line(10, ink, num(t, "7", 7)), got)

	got = mustCompile(t, "10 print a$")
	require.Equal(t, line(10, codePRINT, "a", '$'), got)

	_, _, err := compile(t, DefaultOptions(), "x=1")
	require.ErrorContains(t, err, "Nonsense in BASIC.")
}

func TestComments(t *testing.T) {
	got := mustCompile(t, "# heading\n10 PRINT 1 # note\n  # indented\n20 PRINT 2")
	require.Equal(t, concat(
		line(10, codePRINT, num(t, "1", 1)),
		line(20, codePRINT, num(t, "2", 2)),
	), got)

	// a comment ends the statement, even right after the keyword
	got = mustCompile(t, "10 PRINT #4")
	require.Equal(t, line(10, codePRINT), got)

	// inside strings it is an ordinary character
	got = mustCompile(t, "10 PRINT \"#1\"")
	require.Equal(t, line(10, codePRINT, "#1"), got)

	_, _, err := compile(t, DefaultOptions(), "# nothing here\n\n")
	require.ErrorContains(t, err, "BASIC program is empty.")
}

func TestLineEscape(t *testing.T) {
	got := mustCompile(t, "10 PRINT 1;\\\n   2\n20 STOP")
	stop, _ := keywords.New(keywords.Dialect48K).FindKeyword("stop")
	require.Equal(t, concat(
		line(10, codePRINT, num(t, "1", 1), ';', num(t, "2", 2)),
		line(20, stop),
	), got)

	c, log, err := compile(t, DefaultOptions(), "10 PRINT 1;\\ junk\n2")
	require.NoError(t, err)
	require.Equal(t, 1, log.WarningCount())
	require.Equal(t, line(10, codePRINT, num(t, "1", 1), ';', num(t, "2", 2)), c.ProgramBytes())

	// escape as the last character of the file
	got = mustCompile(t, "10 PRINT\\")
	require.Equal(t, line(10, codePRINT), got)
}

func TestREM(t *testing.T) {
	got := mustCompile(t, "10 REM  hello   world \\a PRINT\n20 REM")
	require.Equal(t, concat(
		line(10, codeREM, "hello world ", 0x90, " PRINT"),
		line(20, codeREM),
	), got)

	got = mustCompile(t, "10 REM one\\\ntwo")
	require.Equal(t, line(10, codeREM, "one", "two"), got)

	_, _, err := compile(t, DefaultOptions(), "10 REM \\Q")
	require.ErrorContains(t, err, "Invalid escaped character in REM statement.")
}

func TestDialect(t *testing.T) {
	c := New(diags.Discard, keywords.Dialect48K)
	require.NoError(t, c.Parse("10 PLAY", diags.Source{}, keywords.Dialect128K))
	require.Equal(t, line(10, keywords.CodePLAY), c.ProgramBytes())
	require.Equal(t, keywords.Dialect128K, c.Dialect())
}

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())
	c := New(diags.Discard, keywords.Dialect48K)
	require.ErrorIs(t, c.SetOptions(Options{InitialLineNumber: 0, LineNumberIncrement: 1}), ErrInvalidOptions)
	require.ErrorIs(t, c.SetOptions(Options{InitialLineNumber: 1, LineNumberIncrement: 0}), ErrInvalidOptions)
	require.Equal(t, DefaultOptions(), c.Options())
}

func TestListing(t *testing.T) {
	table := keywords.New(keywords.Dialect48K)
	program := mustCompile(t, "10 PRINT \"HI\";1\n20 GO TO 10")
	text, err := Listing(table, program)
	require.NoError(t, err)
	require.Equal(t, "10 PRINT HI;1\n20 GO TO 10\n", text)

	_, err = Listing(table, program[:3])
	require.Error(t, err)
}
