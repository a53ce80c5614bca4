package cmds

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
)

func (p *Executor) PrintUsage() {
	p.WriteUsage(os.Stderr)
}

func (p *Executor) WriteUsage(w io.Writer) {
	writeCommands(w, p.commands, 0)
}

func writeCommands(w io.Writer, commands map[string]*Command, depth int) {
	printed := make(map[*Command]bool)
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		command := commands[name]
		if command == nil || printed[command] || slices.Contains(command.Aliases, name) {
			continue
		}
		printed[command] = true

		line := strings.Repeat("  ", depth) + name
		for _, arg := range command.ArgNames {
			line += " " + arg
		}
		if len(command.Aliases) > 0 {
			line += " (" + strings.Join(command.Aliases, ", ") + ")"
		}
		if command.Description != "" {
			line += "\t" + command.Description
		}
		fmt.Fprintln(w, line)

		if len(command.Subs) > 0 {
			writeCommands(w, command.Subs, depth+1)
		}
	}
}
