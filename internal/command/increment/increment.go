package increment

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"gitlab.com/gitlab-org/correlation-vector/cv"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/commandargs"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/readwriter"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/shared/commandlogger"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/shared/session"
)

// Command increments a vector count times, spread over the given number of concurrent workers,
// and prints the final value.
type Command struct {
	Args       *commandargs.CommandArgs
	ReadWriter *readwriter.ReadWriter
	Generator  *cv.Generator
	Session    *session.Session
}

func (c *Command) Execute(ctx context.Context) error {
	count, err := positive(c.Args.Arg(1, "1"), "count")
	if err != nil {
		return err
	}
	workers, err := positive(c.Args.Arg(2, "1"), "workers")
	if err != nil {
		return err
	}

	input := c.Args.Arg(0, "")
	v, ok, err := c.Session.Lookup(input)
	if err != nil {
		return err
	}
	if ok {
		input = v.Value()
	} else if v, err = c.Generator.Parse(input); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v.Increment()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	commandlogger.Log(ctx, string(commandargs.Increment), input, v)
	c.Session.Set(v)

	_, err = fmt.Fprintln(c.ReadWriter.Out, v.Value())
	return err
}

func positive(arg, name string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, arg)
	}
	return n, nil
}
