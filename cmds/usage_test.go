package cmds

import (
	"strings"
	"testing"
)

func TestUsage(t *testing.T) {
	executor := NewExecutor()
	executor.Define("foo", Sub(map[string]*Command{
		"bar": Func(func() {
		}).Desc("BAR"),
		"baz": Sub(map[string]*Command{
			"qux": Func(func() {}).Desc("QUX"),
		}).Desc("BAZ"),
	}).Desc("FOO"))
	executor.Define("build", Func(func(string) {}).Args("DOC").Desc("BUILD"))

	buf := new(strings.Builder)
	executor.WriteUsage(buf)
	out := buf.String()
	for _, want := range []string{
		"-h (help, -help, --help)\tprint this usage",
		"foo\tFOO",
		"  bar\tBAR",
		"  baz\tBAZ",
		"    qux\tQUX",
		"build DOC\tBUILD",
	} {
		if !strings.Contains(out, want+"\n") {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Count(out, "print this usage") != 1 {
		t.Fatalf("got %s", out)
	}
}
