package cmds

import (
	"fmt"
	"reflect"
)

type Command struct {
	Func        reflect.Value
	Subs        map[string]*Command
	Description string
	Aliases     []string
	ArgNames    []string
}

var errorType = reflect.TypeFor[error]()

// Func wraps fn as a command. Parameters are filled from the following command
// line words; fn may return an error.
func Func(fn any) *Command {
	fnValue := reflect.ValueOf(fn)
	if fnValue.Kind() != reflect.Func {
		panic(fmt.Errorf("must be function, got %T", fn))
	}
	switch fnType := fnValue.Type(); {
	case fnType.NumOut() >= 2:
		panic(fmt.Errorf("must return 0 or 1 value"))
	case fnType.NumOut() == 1 && fnType.Out(0) != errorType:
		panic(fmt.Errorf("must return error"))
	}
	return &Command{
		Func: fnValue,
	}
}

func Sub(subs map[string]*Command) *Command {
	return &Command{
		Subs: subs,
	}
}

func (c *Command) Desc(desc string) *Command {
	c.Description = desc
	return c
}

// Args names the parameters in usage output.
func (c *Command) Args(names ...string) *Command {
	c.ArgNames = append(c.ArgNames, names...)
	return c
}

func (c *Command) Alias(names ...string) *Command {
	c.Aliases = append(c.Aliases, names...)
	return c
}

// call runs the function with arguments taken from args and returns the words
// left over. Pointer parameters are optional.
func (c *Command) call(args []string) ([]string, error) {
	if !c.Func.IsValid() {
		return args, nil
	}
	fnType := c.Func.Type()
	callArgs := make([]reflect.Value, 0, fnType.NumIn())
	for i := range fnType.NumIn() {
		value, err := parseArg(fnType.In(i), args)
		if err != nil {
			return nil, err
		}
		if len(args) > 0 {
			args = args[1:]
		}
		callArgs = append(callArgs, value)
	}
	for _, ret := range c.Func.Call(callArgs) {
		if err, ok := ret.Interface().(error); ok && err != nil {
			return nil, err
		}
	}
	return args, nil
}
