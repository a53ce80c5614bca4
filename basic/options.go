package basic

type Options struct {
	// first number given to an automatically numbered line
	InitialLineNumber int
	// distance between automatically numbered lines
	LineNumberIncrement int
	// keep the double quotes around string literals in the program image
	QuotedStrings bool
}

func DefaultOptions() Options {
	return Options{
		InitialLineNumber:   10,
		LineNumberIncrement: 2,
	}
}
