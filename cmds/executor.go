package cmds

import (
	"fmt"
	"maps"
	"os"
	"strings"
)

// Executor maps command line words to commands. Words are consumed left to
// right; a command takes as many following words as its function has
// parameters.
type Executor struct {
	commands map[string]*Command
}

func NewExecutor() *Executor {
	ret := &Executor{
		commands: make(map[string]*Command),
	}
	ret.Define("-h", Func(func() {
		ret.PrintUsage()
		os.Exit(0)
	}).
		Desc("print this usage").
		Alias("help", "-help", "--help"))
	return ret
}

func (p *Executor) Define(name string, command *Command) {
	for _, name := range append([]string{name}, command.Aliases...) {
		if _, ok := p.commands[name]; ok {
			panic(fmt.Errorf("duplicated command %s", name))
		}
		p.commands[name] = command
	}
}

func (p *Executor) Execute(args []string) error {
	commands := p.commands
	for len(args) > 0 {
		name := strings.TrimSpace(args[0])
		command, ok := commands[name]
		if !ok {
			return fmt.Errorf("unknown command: %s", name)
		}

		var err error
		args, err = command.call(args[1:])
		if err != nil {
			return err
		}

		if len(command.Subs) == 0 {
			continue
		}
		// sub commands are visible after their parent
		commands = maps.Clone(commands)
		for subname, sub := range command.Subs {
			if _, ok := commands[subname]; ok {
				return fmt.Errorf("duplicated sub command: %s %s", name, subname)
			}
			commands[subname] = sub
		}
	}
	return nil
}

func (p *Executor) MustExecute(args []string) {
	if err := p.Execute(args); err != nil {
		panic(err)
	}
}
