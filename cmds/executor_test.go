package cmds

import (
	"fmt"
	"strings"
	"testing"
)

func TestExecutor(t *testing.T) {
	executor := NewExecutor()

	var a int
	executor.Define("+a", Func(func() {
		a = 42
	}))
	executor.Define("a", Func(func(i int) {
		a = i
	}))

	if err := executor.Execute([]string{
		"+a",
	}); err != nil {
		t.Fatal(err)
	}
	if a != 42 {
		t.Fatal()
	}

	if err := executor.Execute([]string{
		"a", "1",
	}); err != nil {
		t.Fatal(err)
	}
	if a != 1 {
		t.Fatal()
	}

	err := executor.Execute([]string{
		"foo",
	})
	if !strings.Contains(err.Error(), "unknown command: foo") {
		t.Fatalf("got %v", err)
	}

}

func TestSubCommands(t *testing.T) {
	executor := NewExecutor()
	var bar, baz int
	executor.Define("foo", Sub(map[string]*Command{
		"bar": Func(func() {
			bar = 1
		}),
		"baz": Func(func(i int) {
			baz = i
		}),
	}))

	if err := executor.Execute([]string{
		"foo",
		"bar",
		"baz", "42",
	}); err != nil {
		t.Fatal(err)
	}

	if bar != 1 {
		t.Fatal()
	}
	if baz != 42 {
		t.Fatal()
	}

}

func TestDuplicatedSubCommand(t *testing.T) {
	executor := NewExecutor()
	executor.Define("foo", Sub(map[string]*Command{
		"a": nil,
	}))
	executor.Define("bar", Sub(map[string]*Command{
		"a": nil,
	}))
	err := executor.Execute([]string{"foo", "bar"})
	if !strings.Contains(err.Error(), "duplicated sub command: bar a") {
		t.Fatalf("got %v", err)
	}
}

func TestOptionalArgument(t *testing.T) {
	executor := NewExecutor()
	var n int
	var s string
	executor.Define("foo", Func(func(arg *int, arg2 *string) {
		n = *arg
		s = *arg2
	}))

	err := executor.Execute([]string{"foo", "42", "foo"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 42 {
		t.Fatal()
	}
	if s != "foo" {
		t.Fatal()
	}

	err = executor.Execute([]string{"foo", "99"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 99 {
		t.Fatal()
	}
	if s != "" {
		t.Fatal()
	}

	err = executor.Execute([]string{"foo"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatal()
	}
	if s != "" {
		t.Fatal()
	}

}

type testLevel int

func (l *testLevel) UnmarshalText(text []byte) error {
	switch string(text) {
	case "low":
		*l = 1
	case "high":
		*l = 2
	default:
		return fmt.Errorf("bad level %s", text)
	}
	return nil
}

func TestTextUnmarshalerArgument(t *testing.T) {
	executor := NewExecutor()
	var level testLevel
	executor.Define("level", Func(func(l testLevel) {
		level = l
	}))

	if err := executor.Execute([]string{"level", "high"}); err != nil {
		t.Fatal(err)
	}
	if level != 2 {
		t.Fatalf("got %v", level)
	}

	err := executor.Execute([]string{"level", "medium"})
	if err == nil || !strings.Contains(err.Error(), "bad level medium") {
		t.Fatalf("got %v", err)
	}
}

func TestArgumentConversion(t *testing.T) {
	executor := NewExecutor()
	var (
		u8 uint8
		f  float64
		b  bool
	)
	executor.Define("set", Func(func(a uint8, c float64, d bool) {
		u8, f, b = a, c, d
	}))

	if err := executor.Execute([]string{"set", "200", "1.5", "yes"}); err != nil {
		t.Fatal(err)
	}
	if u8 != 200 || f != 1.5 || !b {
		t.Fatalf("got %v %v %v", u8, f, b)
	}

	err := executor.Execute([]string{"set", "300", "1", "no"})
	if err == nil || !strings.Contains(err.Error(), "convert 300 to uint8") {
		t.Fatalf("got %v", err)
	}

	err = executor.Execute([]string{"set"})
	if err == nil || !strings.Contains(err.Error(), "expecting argument") {
		t.Fatalf("got %v", err)
	}
}

func TestCommandError(t *testing.T) {
	executor := NewExecutor()
	executor.Define("ok", Func(func() error {
		return nil
	}))
	executor.Define("fail", Func(func() error {
		return fmt.Errorf("failed")
	}))

	if err := executor.Execute([]string{"ok"}); err != nil {
		t.Fatal(err)
	}
	err := executor.Execute([]string{"ok", "fail", "ok"})
	if err == nil || err.Error() != "failed" {
		t.Fatalf("got %v", err)
	}
}
