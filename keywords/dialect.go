package keywords

import (
	"errors"
	"fmt"
	"strings"
)

type Dialect int

const (
	Dialect48K Dialect = iota
	Dialect128K
)

var ErrUnknownDialect = errors.New("unknown dialect")

func (d Dialect) String() string {
	switch d {
	case Dialect48K:
		return "48k"
	case Dialect128K:
		return "128k"
	}
	return fmt.Sprintf("Dialect(%d)", int(d))
}

func ParseDialect(str string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "48", "48k", "":
		return Dialect48K, nil
	case "128", "128k":
		return Dialect128K, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownDialect, str)
}

func (d *Dialect) UnmarshalText(text []byte) error {
	v, err := ParseDialect(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Dialect) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
