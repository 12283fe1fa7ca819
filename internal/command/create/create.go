package create

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gitlab.com/gitlab-org/correlation-vector/cv"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/commandargs"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/readwriter"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/shared/commandlogger"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/shared/session"
)

// Command starts a new causal tree: new draws a random base, new-uuid derives a V2 base from a
// UUID, generating one when none is given.
type Command struct {
	Args       *commandargs.CommandArgs
	ReadWriter *readwriter.ReadWriter
	Generator  *cv.Generator
	Session    *session.Session
}

func (c *Command) Execute(ctx context.Context) error {
	v, err := c.create()
	if err != nil {
		return err
	}

	commandlogger.Log(ctx, string(c.Args.CommandType), "", v)
	c.Session.Set(v)

	_, err = fmt.Fprintln(c.ReadWriter.Out, v.Value())
	return err
}

func (c *Command) create() (*cv.Vector, error) {
	arg := c.Args.Arg(0, "")

	if c.Args.CommandType == commandargs.NewUUID {
		if arg == "" {
			return c.Generator.NewFromUUID(uuid.New()), nil
		}

		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid %q: %w", arg, err)
		}
		return c.Generator.NewFromUUID(id), nil
	}

	if arg == "" {
		return c.Generator.New(), nil
	}

	version, err := cv.ParseVersion(arg)
	if err != nil {
		return nil, err
	}
	return c.Generator.NewWithVersion(version)
}
