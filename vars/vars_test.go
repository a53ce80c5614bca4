package vars

import "testing"

func TestFirstNonZero(t *testing.T) {
	if n := FirstNonZero(0, 0, 3, 4); n != 3 {
		t.Fatalf("got %d", n)
	}
	if s := FirstNonZero("", ""); s != "" {
		t.Fatalf("got %q", s)
	}
}

func TestStrToBool(t *testing.T) {
	for str, expected := range map[string]bool{
		"true":  true,
		" Yes ": true,
		"1":     true,
		"on":    true,
		"false": false,
		"n":     false,
		"":      false,
		"foo":   false,
	} {
		if got := StrToBool(str); got != expected {
			t.Fatalf("%q: got %v", str, got)
		}
	}
}
