package keywords

import (
	"cmp"
	"slices"
	"strings"
)

const (
	CodeENT byte = 0x0D
	CodeNUM byte = 0x0E

	CodeSPECTRUM byte = 0xA3
	CodePLAY     byte = 0xA4
	CodeRND      byte = 0xA5
	CodeBIN      byte = 0xC4
	CodeREM      byte = 0xEA
	CodePRINT    byte = 0xF5
	CodeGOTO     byte = 0xEC
	CodeCOPY     byte = 0xFF
)

type Keyword struct {
	Primary   string
	Alternate string
	Code      byte
}

type Escape struct {
	Sequence string
	Code     byte
}

// keywords of the 48K machine, in code order starting at CodeRND.
var baseKeywords = []Keyword{
	{Primary: "rnd"},
	{Primary: "inkey$"},
	{Primary: "pi"},
	{Primary: "fn"},
	{Primary: "point"},
	{Primary: "screen$"},
	{Primary: "attr"},
	{Primary: "at"},
	{Primary: "tab"},
	{Primary: "val$"},
	{Primary: "code"},
	{Primary: "val"},
	{Primary: "len"},
	{Primary: "sin"},
	{Primary: "cos"},
	{Primary: "tan"},
	{Primary: "asn"},
	{Primary: "acs"},
	{Primary: "atn"},
	{Primary: "ln"},
	{Primary: "exp"},
	{Primary: "int"},
	{Primary: "sqr"},
	{Primary: "sgn"},
	{Primary: "abs"},
	{Primary: "peek"},
	{Primary: "in"},
	{Primary: "usr"},
	{Primary: "str$"},
	{Primary: "chr$"},
	{Primary: "not"},
	{Primary: "bin"},
	{Primary: "or"},
	{Primary: "and"},
	{Primary: "<="},
	{Primary: ">="},
	{Primary: "<>"},
	{Primary: "line"},
	{Primary: "then"},
	{Primary: "to"},
	{Primary: "step"},
	{Primary: "def fn", Alternate: "deffn"},
	{Primary: "cat"},
	{Primary: "format"},
	{Primary: "move"},
	{Primary: "erase"},
	{Primary: "open #", Alternate: "open#"},
	{Primary: "close #", Alternate: "close#"},
	{Primary: "merge"},
	{Primary: "verify"},
	{Primary: "beep"},
	{Primary: "circle"},
	{Primary: "ink"},
	{Primary: "paper"},
	{Primary: "flash"},
	{Primary: "bright"},
	{Primary: "inverse"},
	{Primary: "over"},
	{Primary: "out"},
	{Primary: "lprint"},
	{Primary: "llist"},
	{Primary: "stop"},
	{Primary: "read"},
	{Primary: "data"},
	{Primary: "restore"},
	{Primary: "new"},
	{Primary: "border"},
	{Primary: "continue"},
	{Primary: "dim"},
	{Primary: "rem"},
	{Primary: "for"},
	{Primary: "go to", Alternate: "goto"},
	{Primary: "go sub", Alternate: "gosub"},
	{Primary: "input"},
	{Primary: "load"},
	{Primary: "list"},
	{Primary: "let"},
	{Primary: "pause"},
	{Primary: "next"},
	{Primary: "poke"},
	{Primary: "print"},
	{Primary: "plot"},
	{Primary: "run"},
	{Primary: "save"},
	{Primary: "randomize", Alternate: "randomise"},
	{Primary: "if"},
	{Primary: "cls"},
	{Primary: "draw"},
	{Primary: "clear"},
	{Primary: "return"},
	{Primary: "copy"},
}

var extendedKeywords = []Keyword{
	{Primary: "spectrum", Code: CodeSPECTRUM},
	{Primary: "play", Code: CodePLAY},
}

var blockGraphics = []string{
	"  ", " '", "' ", "''", " .", " :", "'.", "':",
	". ", ".'", ": ", ":'", "..", ".:", ":.", "::",
}

// candidate is one spelling of a keyword or escape.
type candidate struct {
	text string
	code byte
	// text contains a non-alphabetic character, so no identifier boundary
	// check applies after a match
	special bool
}

// Table maps spellings to codes for one dialect. It is immutable after New.
type Table struct {
	dialect  Dialect
	keywords []Keyword
	escapes  []Escape

	keywordCandidates []candidate
	escapeCandidates  []candidate
}

func New(dialect Dialect) *Table {
	t := &Table{
		dialect: dialect,
	}

	for i, kw := range baseKeywords {
		kw.Code = CodeRND + byte(i)
		t.keywords = append(t.keywords, kw)
	}
	if dialect == Dialect128K {
		t.keywords = append(t.keywords, extendedKeywords...)
	}

	for i, seq := range blockGraphics {
		t.escapes = append(t.escapes, Escape{
			Sequence: seq,
			Code:     0x80 + byte(i),
		})
	}
	// user defined graphics; 128K reuses the last two codes for keywords
	lastUDG := byte('u')
	if dialect == Dialect128K {
		lastUDG = 's'
	}
	for c := byte('a'); c <= lastUDG; c++ {
		t.escapes = append(t.escapes, Escape{
			Sequence: string(c),
			Code:     0x90 + (c - 'a'),
		})
	}
	t.escapes = append(t.escapes,
		Escape{Sequence: "*", Code: 0x7F},
		Escape{Sequence: "`", Code: 0x60},
		Escape{Sequence: `\`, Code: '\\'},
		Escape{Sequence: "@", Code: '@'},
	)

	for _, kw := range t.keywords {
		t.keywordCandidates = append(t.keywordCandidates, newCandidate(kw.Primary, kw.Code))
		if kw.Alternate != "" {
			t.keywordCandidates = append(t.keywordCandidates, newCandidate(kw.Alternate, kw.Code))
		}
	}
	for _, esc := range t.escapes {
		t.escapeCandidates = append(t.escapeCandidates, newCandidate(esc.Sequence, esc.Code))
	}
	sortCandidates(t.keywordCandidates)
	sortCandidates(t.escapeCandidates)

	return t
}

func newCandidate(text string, code byte) candidate {
	special := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			special = true
			break
		}
	}
	return candidate{
		text:    text,
		code:    code,
		special: special,
	}
}

// longest first, then by code for a stable order
func sortCandidates(cs []candidate) {
	slices.SortStableFunc(cs, func(a, b candidate) int {
		if c := cmp.Compare(len(b.text), len(a.text)); c != 0 {
			return c
		}
		return cmp.Compare(a.code, b.code)
	})
}

func (t *Table) Dialect() Dialect {
	return t.dialect
}

func (t *Table) Keywords() []Keyword {
	return slices.Clone(t.keywords)
}

func (t *Table) Escapes() []Escape {
	return slices.Clone(t.escapes)
}

// FindKeyword matches a keyword at the start of s. It returns the code and the
// number of bytes consumed, or 0, 0 if nothing matches.
func (t *Table) FindKeyword(s string) (code byte, n int) {
	for _, c := range t.keywordCandidates {
		if len(c.text) > len(s) {
			continue
		}
		if !strings.EqualFold(s[:len(c.text)], c.text) {
			continue
		}
		if !c.special && len(s) > len(c.text) && isWordChar(s[len(c.text)]) {
			continue
		}
		return c.code, len(c.text)
	}
	return 0, 0
}

// FindEscapeCode matches an escape sequence, without the leading backslash,
// at the start of s.
func (t *Table) FindEscapeCode(s string) (code byte, n int) {
	for _, c := range t.escapeCandidates {
		if strings.HasPrefix(s, c.text) {
			return c.code, len(c.text)
		}
	}
	return 0, 0
}

// Name returns the primary spelling for a keyword code.
func (t *Table) Name(code byte) (string, bool) {
	for _, kw := range t.keywords {
		if kw.Code == code {
			return kw.Primary, true
		}
	}
	return "", false
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_'
}
