package scanner

// ASCII character classes. Bytes above 0x7f never match.

func IsSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func IsAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z'
}

func IsAlnum(c byte) bool {
	return IsAlpha(c) || IsDigit(c)
}

func IsHexDigit(c byte) bool {
	return IsDigit(c) ||
		c >= 'a' && c <= 'f' ||
		c >= 'A' && c <= 'F'
}

func IsBinaryDigit(c byte) bool {
	return c == '0' || c == '1'
}
