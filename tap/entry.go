package tap

import (
	"fmt"

	"github.com/reusee/bastapir/diags"
)

type FileType byte

const (
	Program FileType = iota
	NumberArray
	CharacterArray
	Code
)

func (t FileType) String() string {
	switch t {
	case Program:
		return "Program"
	case NumberArray:
		return "Number array"
	case CharacterArray:
		return "Character array"
	case Code:
		return "Bytes"
	}
	return fmt.Sprintf("FileType(%d)", byte(t))
}

const (
	// NoAutostart in the autostart field means the program does not run
	// after loading.
	NoAutostart = 32768
	// CodeConstant is the fixed second parameter of a Code header.
	CodeConstant = 32768
)

// Params holds the two header parameter words of an entry.
type Params interface {
	Words() (param1, param2 uint16)
}

type ProgramParams struct {
	AutostartLine int
	VariableArea  int
}

func (p ProgramParams) Words() (uint16, uint16) {
	return uint16(p.AutostartLine), uint16(p.VariableArea)
}

type CodeParams struct {
	Address  int
	Constant int
}

func (p CodeParams) Words() (uint16, uint16) {
	return uint16(p.Address), uint16(p.Constant)
}

// GenericParams carries raw words for array entries and for headers read
// back from an archive.
type GenericParams struct {
	Param1 uint16
	Param2 uint16
}

func (p GenericParams) Words() (uint16, uint16) {
	return p.Param1, p.Param2
}

type FileEntry struct {
	Name   string
	Type   FileType
	Params Params
	Bytes  []byte
	// where the entry came from, for diagnostics
	Source diags.Source
}

func NewFileEntry(name string, fileType FileType, bytes []byte) *FileEntry {
	return &FileEntry{
		Name:   name,
		Type:   fileType,
		Params: GenericParams{},
		Bytes:  bytes,
	}
}

// NewProgram returns a Program entry whose variable area starts right after
// the program.
func NewProgram(name string, program []byte, autostartLine int) *FileEntry {
	entry := NewFileEntry(name, Program, program)
	entry.Params = ProgramParams{
		AutostartLine: autostartLine,
		VariableArea:  len(program),
	}
	return entry
}

func NewCode(name string, bytes []byte, address int) *FileEntry {
	entry := NewFileEntry(name, Code, bytes)
	entry.Params = CodeParams{
		Address:  address,
		Constant: CodeConstant,
	}
	return entry
}

func (e *FileEntry) words() (uint16, uint16) {
	if e.Params == nil {
		return 0, 0
	}
	return e.Params.Words()
}
