package tap

// Issue is a problem found while validating a file entry.
type Issue int

const (
	// IssueNameTooLong means the name is cut to 10 bytes in the header.
	IssueNameTooLong Issue = iota

	// IssueTooManyBytes means the payload does not fit a tape block.
	IssueTooManyBytes

	// IssueLargePayload means the payload exceeds 48K. It loads, but hardly
	// leaves room for anything else.
	IssueLargePayload

	// IssueBasicWrongAutostart means the autostart line is neither a valid
	// line number nor NoAutostart.
	IssueBasicWrongAutostart

	// IssueBasicWrongVariableArea means the variable area starts past the
	// end of the program.
	IssueBasicWrongVariableArea

	// IssueBasicTooBig means the program cannot fit into free memory.
	IssueBasicTooBig

	// IssueCodeInROM means the block would load into ROM or wrap past the
	// top of memory.
	IssueCodeInROM

	// IssueCodeHeader means the second header word of a Code entry is not
	// CodeConstant.
	IssueCodeHeader
)

func (i Issue) IsError() bool {
	switch i {
	case IssueNameTooLong, IssueLargePayload, IssueCodeInROM:
		return false
	}
	return true
}

func (i Issue) String() string {
	switch i {
	case IssueNameTooLong:
		return "File name is longer than 10 characters and will be truncated."
	case IssueTooManyBytes:
		return "Too many bytes in file."
	case IssueLargePayload:
		return "File is bigger than 48KB."
	case IssueBasicWrongAutostart:
		return "Wrong autostart line in BASIC program header."
	case IssueBasicWrongVariableArea:
		return "Wrong variable area offset in BASIC program header."
	case IssueBasicTooBig:
		return "BASIC program is too big."
	case IssueCodeInROM:
		return "Code block loads into ROM area."
	case IssueCodeHeader:
		return "Wrong header parameter for Code block."
	}
	return "Unknown issue."
}

const (
	MaxNameLength    = 10
	MaxPayloadSize   = 65536
	MaxBlockContent  = 0xFFFF - 2
	LargePayload     = 48 * 1024
	MaxProgramSize   = 40000
	RAMStart         = 16384
	MaxAutostartLine = 9999
)

// Validate returns every issue of the entry, warnings included.
func (e *FileEntry) Validate() (issues []Issue) {
	size := len(e.Bytes)

	if len(e.Name) > MaxNameLength {
		issues = append(issues, IssueNameTooLong)
	}
	// the block length word also counts marker and checksum
	if size > MaxBlockContent {
		issues = append(issues, IssueTooManyBytes)
	}

	switch e.Type {

	case Program:
		param1, param2 := e.words()
		autostart := int(param1)
		variableArea := int(param2)
		if p, ok := e.Params.(ProgramParams); ok {
			autostart = p.AutostartLine
			variableArea = p.VariableArea
		}
		if (autostart <= 0 || autostart > MaxAutostartLine) && autostart != NoAutostart {
			issues = append(issues, IssueBasicWrongAutostart)
		}
		if variableArea > size {
			issues = append(issues, IssueBasicWrongVariableArea)
		}
		if size > MaxProgramSize {
			issues = append(issues, IssueBasicTooBig)
		}

	case Code:
		param1, param2 := e.words()
		address := int(param1)
		constant := int(param2)
		if p, ok := e.Params.(CodeParams); ok {
			address = p.Address
			constant = p.Constant
		}
		if address < RAMStart || address+size > MaxPayloadSize {
			issues = append(issues, IssueCodeInROM)
		}
		if constant != CodeConstant {
			issues = append(issues, IssueCodeHeader)
		}

	}

	if size > LargePayload {
		issues = append(issues, IssueLargePayload)
	}

	return
}
