package vars

import "strings"

// FirstNonZero picks the first set value, so flags can override config
// values which override defaults.
func FirstNonZero[T comparable](values ...T) T {
	var zero T
	for _, value := range values {
		if value != zero {
			return value
		}
	}
	return zero
}

// StrToBool parses flag values. Anything unrecognized is false.
func StrToBool(str string) bool {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "true", "t", "yes", "y", "on", "1":
		return true
	}
	return false
}
