package spin

import (
	"context"
	"fmt"

	"gitlab.com/gitlab-org/correlation-vector/cv"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/commandargs"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/readwriter"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/shared/commandlogger"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/shared/session"
)

// Command spins a vector. Interval, periodicity and entropy default to Parameters and may be
// overridden positionally.
type Command struct {
	Args       *commandargs.CommandArgs
	ReadWriter *readwriter.ReadWriter
	Generator  *cv.Generator
	Parameters cv.SpinParameters
	Session    *session.Session
}

func (c *Command) Execute(ctx context.Context) error {
	p, err := c.parameters()
	if err != nil {
		return err
	}

	input := c.Args.Arg(0, "")
	current, ok, err := c.Session.Lookup(input)
	if err != nil {
		return err
	}

	var v *cv.Vector
	if ok {
		input = current.Value()
		v, err = current.Spin(p)
	} else {
		v, err = c.Generator.Spin(input, p)
	}
	if err != nil {
		return err
	}

	commandlogger.Log(ctx, string(commandargs.Spin), input, v)
	c.Session.Set(v)

	_, err = fmt.Fprintln(c.ReadWriter.Out, v.Value())
	return err
}

func (c *Command) parameters() (cv.SpinParameters, error) {
	p := c.Parameters

	if arg := c.Args.Arg(1, ""); arg != "" {
		if err := p.Interval.UnmarshalText([]byte(arg)); err != nil {
			return p, err
		}
	}
	if arg := c.Args.Arg(2, ""); arg != "" {
		if err := p.Periodicity.UnmarshalText([]byte(arg)); err != nil {
			return p, err
		}
	}
	if arg := c.Args.Arg(3, ""); arg != "" {
		if err := p.Entropy.UnmarshalText([]byte(arg)); err != nil {
			return p, err
		}
	}

	return p, nil
}
