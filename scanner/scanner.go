package scanner

// Range is a half-open byte range [Begin, End) into the scanned buffer.
type Range struct {
	Begin int
	End   int
}

func (r Range) Len() int {
	return r.End - r.Begin
}

func (r Range) Empty() bool {
	return r.End <= r.Begin
}

// State is a snapshot of the cursor. It is a plain value; copying it out and
// restoring it later rewinds the scanner.
type State struct {
	Pos        int
	Line       Range
	Capture    Range
	LineNumber int
	lineDirty  bool
}

// Scanner walks an immutable string. In stop-at-line-end mode the end of the
// current line looks like the end of input until NextLine is called.
type Scanner struct {
	src           string
	stopAtLineEnd bool
	state         State
}

func New(src string) *Scanner {
	s := &Scanner{}
	s.ResetTo(src)
	return s
}

func (s *Scanner) ResetTo(src string) {
	s.src = src
	s.Reset()
}

func (s *Scanner) Reset() {
	s.state = State{
		lineDirty: true,
	}
	if s.stopAtLineEnd {
		s.updateLineEnd()
	}
}

func (s *Scanner) SetStopAtLineEnd(stop bool) {
	s.stopAtLineEnd = stop
	if stop {
		s.updateLineEnd()
	}
}

func (s *Scanner) StopAtLineEnd() bool {
	return s.stopAtLineEnd
}

func (s *Scanner) State() State {
	return s.state
}

func (s *Scanner) RestoreState(state State) {
	s.state = state
}

func (s *Scanner) Source() string {
	return s.src
}

func (s *Scanner) Position() int {
	return s.state.Pos
}

// Location returns the 1-based line and column of the cursor.
func (s *Scanner) Location() (line int, column int) {
	return s.state.LineNumber + 1, s.state.Pos - s.state.Line.Begin + 1
}

func (s *Scanner) Limit() Range {
	if s.stopAtLineEnd {
		s.updateLineEnd()
		return s.state.Line
	}
	return Range{Begin: 0, End: len(s.src)}
}

func (s *Scanner) IsEnd() bool {
	return s.state.Pos >= s.Limit().End
}

// Rest returns the unconsumed input up to the current limit.
func (s *Scanner) Rest() string {
	return s.src[s.state.Pos:s.Limit().End]
}

func (s *Scanner) Text(r Range) string {
	return s.src[r.Begin:r.End]
}

// CharAt returns the byte at offset from the cursor, or 0 outside the limit.
func (s *Scanner) CharAt(offset int) byte {
	limit := s.Limit()
	i := s.state.Pos + offset
	if i < limit.Begin || i >= limit.End {
		return 0
	}
	return s.src[i]
}

func (s *Scanner) IsCharAt(c byte) bool {
	return !s.IsEnd() && s.CharAt(0) == c
}

// GetChar returns the current byte and advances, or returns 0 at the limit.
func (s *Scanner) GetChar() byte {
	if s.IsEnd() {
		return 0
	}
	c := s.src[s.state.Pos]
	s.state.Pos++
	return c
}

// MovePosition moves the cursor by offset. It fails without moving if the
// target lies outside the limit; the limit's end is a valid target.
func (s *Scanner) MovePosition(offset int) bool {
	limit := s.Limit()
	target := s.state.Pos + offset
	if target < limit.Begin || target > limit.End {
		return false
	}
	s.state.Pos = target
	return true
}

// NextLine moves past the terminator of the current line, accepting "\n",
// "\r" and "\r\n". It reports whether any input remains.
func (s *Scanner) NextLine() bool {
	s.updateLineEnd()
	pos := s.state.Line.End
	if pos < s.state.Pos {
		pos = s.state.Pos
	}
	if pos < len(s.src) {
		switch s.src[pos] {
		case '\r':
			pos++
			if pos < len(s.src) && s.src[pos] == '\n' {
				pos++
			}
			s.state.LineNumber++
		case '\n':
			pos++
			s.state.LineNumber++
		}
	}
	s.state.Pos = pos
	s.state.Line = Range{Begin: pos, End: pos}
	s.state.lineDirty = true
	if s.stopAtLineEnd {
		s.updateLineEnd()
	}
	s.ResetCapture()
	return pos < len(s.src)
}

func (s *Scanner) Line() Range {
	s.updateLineEnd()
	return s.state.Line
}

func (s *Scanner) SkipWhile(pred func(byte) bool) bool {
	for {
		c := s.CharAt(0)
		if s.IsEnd() {
			return false
		}
		if !pred(c) {
			return true
		}
		s.state.Pos++
	}
}

func (s *Scanner) SkipWhitespace() bool {
	return s.SkipWhile(IsSpace)
}

// SearchFor advances until pred holds, consuming the matching byte.
func (s *Scanner) SearchFor(pred func(byte) bool) bool {
	for !s.IsEnd() {
		c := s.GetChar()
		if pred(c) {
			return true
		}
	}
	return false
}

func (s *Scanner) ResetCapture() {
	s.state.Capture = Range{Begin: s.state.Pos, End: s.state.Pos}
}

func (s *Scanner) Capture() Range {
	s.state.Capture.End = s.state.Pos
	return s.state.Capture
}

func (s *Scanner) CaptureAndReset() Range {
	r := s.Capture()
	s.ResetCapture()
	return r
}

func (s *Scanner) updateLineEnd() {
	if !s.state.lineDirty {
		return
	}
	end := s.state.Line.Begin
	for end < len(s.src) {
		c := s.src[end]
		if c == '\n' || c == '\r' {
			break
		}
		end++
	}
	s.state.Line.End = end
	s.state.lineDirty = false
}
