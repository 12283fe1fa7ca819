package commandargs

import (
	"errors"
	"fmt"

	"github.com/mattn/go-shellwords"
)

type CommandType string

const (
	New         CommandType = "new"
	NewUUID     CommandType = "new-uuid"
	ParseVector CommandType = "parse"
	Extend      CommandType = "extend"
	Spin        CommandType = "spin"
	Increment   CommandType = "increment"
	Batch       CommandType = "batch"
	Serve       CommandType = "serve"
)

var commandTypes = []CommandType{New, NewUUID, ParseVector, Extend, Spin, Increment, Batch, Serve}

// usage lists the positional arguments of each command; optional ones are bracketed.
var usage = map[CommandType]struct {
	min, max int
	text     string
}{
	New:         {0, 1, "new [v1|v2]"},
	NewUUID:     {0, 1, "new-uuid [uuid]"},
	ParseVector: {1, 1, "parse <cv>"},
	Extend:      {1, 1, "extend <cv>"},
	Spin:        {1, 4, "spin <cv> [interval] [periodicity] [entropy]"},
	Increment:   {1, 3, "increment <cv> [count] [workers]"},
	Batch:       {0, 0, "batch"},
	Serve:       {0, 0, "serve"},
}

var ErrMissingCommand = errors.New("missing command")

type CommandArgs struct {
	Arguments   []string
	CommandType CommandType
	// Args are the arguments following the command name.
	Args []string
}

// Parse reads the command name and its arguments, as found in os.Args[1:].
func Parse(arguments []string) (*CommandArgs, error) {
	args := &CommandArgs{Arguments: arguments}
	if err := args.Parse(); err != nil {
		return nil, err
	}

	return args, nil
}

// ParseLine splits a shell-like command line, honoring quotes, and parses it.
func ParseLine(line string) (*CommandArgs, error) {
	arguments, err := shellwords.Parse(line)
	if err != nil {
		return nil, err
	}

	return Parse(arguments)
}

func (c *CommandArgs) Parse() error {
	if len(c.Arguments) == 0 {
		return ErrMissingCommand
	}

	c.CommandType = CommandType(c.Arguments[0])
	c.Args = c.Arguments[1:]

	u, ok := usage[c.CommandType]
	if !ok {
		return fmt.Errorf("unknown command %q", c.Arguments[0])
	}
	if len(c.Args) < u.min || len(c.Args) > u.max {
		return fmt.Errorf("usage: %s", u.text)
	}

	return nil
}

// Arg returns the positional argument at i, or def when it was not given.
func (c *CommandArgs) Arg(i int, def string) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return def
}

// Usage returns one usage line per command.
func Usage() []string {
	lines := make([]string, 0, len(commandTypes))
	for _, t := range commandTypes {
		lines = append(lines, usage[t].text)
	}
	return lines
}
