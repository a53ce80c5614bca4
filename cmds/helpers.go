package cmds

import "strings"

// Var defines name as a flag taking one argument, and name+"." as resetting
// it to the zero value.
func Var[T any](name string, desc ...string) *T {
	var value T

	// set
	Define(name, Func(func(v T) {
		value = v
	}).Args("VALUE").Desc(strings.Join(desc, " ")))

	// set zero
	var zero T
	Define(name+".", Func(func() {
		value = zero
	}).Desc("reset "+name))

	return &value
}

// Switch defines name as turning a flag on and !name as turning it off.
func Switch(name string, desc ...string) *bool {
	var value bool

	// set true
	Define(name, Func(func() {
		value = true
	}).Desc(strings.Join(desc, " ")))

	// set false
	Define("!"+name, Func(func() {
		value = false
	}).Desc("turn off "+name))

	return &value
}

// Collect defines name as a repeatable flag.
func Collect[T any](name string, desc ...string) *[]T {
	var value []T
	// append
	Define(name, Func(func(v T) {
		value = append(value, v)
	}).Args("VALUE").Desc(strings.Join(desc, " ")))
	return &value
}
