package extend

import (
	"context"
	"fmt"

	"gitlab.com/gitlab-org/correlation-vector/cv"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/commandargs"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/readwriter"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/shared/commandlogger"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/shared/session"
)

type Command struct {
	Args       *commandargs.CommandArgs
	ReadWriter *readwriter.ReadWriter
	Generator  *cv.Generator
	Session    *session.Session
}

func (c *Command) Execute(ctx context.Context) error {
	input := c.Args.Arg(0, "")

	current, ok, err := c.Session.Lookup(input)
	if err != nil {
		return err
	}

	var v *cv.Vector
	if ok {
		input = current.Value()
		v = current.Extend()
	} else if v, err = c.Generator.Extend(input); err != nil {
		return err
	}

	commandlogger.Log(ctx, string(commandargs.Extend), input, v)
	c.Session.Set(v)

	_, err = fmt.Fprintln(c.ReadWriter.Out, v.Value())
	return err
}
