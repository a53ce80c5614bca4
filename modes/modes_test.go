package modes

import (
	"testing"

	"github.com/reusee/dscope"
)

func TestForProduction(t *testing.T) {
	dscope.New(ForProduction()).Call(func(
		got *testing.T,
		mode Mode,
	) {
		if mode != ModeProduction {
			t.Fatalf("got %v", mode)
		}
		if got != nil {
			t.Fatal("should not provide *testing.T")
		}
	})
}

func TestForTest(t *testing.T) {
	dscope.New(ForTest(t)).Call(func(
		got *testing.T,
		mode Mode,
	) {
		if mode != ModeDevelopment {
			t.Fatalf("got %v", mode)
		}
		if got != t {
			t.Fatal("should provide the running test")
		}
	})
}
