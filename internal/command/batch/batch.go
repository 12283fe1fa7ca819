package batch

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"gitlab.com/gitlab-org/correlation-vector/internal/command"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/commandargs"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/readwriter"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/shared/disallowedcommand"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/shared/session"
)

// Builder creates the command for one batch line, bound to the batch session.
type Builder func(args *commandargs.CommandArgs, readWriter *readwriter.ReadWriter, s *session.Session) (command.Command, error)

// Command reads one command per line from In and runs them against a shared session, so that
// "@" refers to the vector the previous line produced. Empty lines and lines starting with # are
// skipped. A failing line is reported on ErrOut and does not stop the batch.
type Command struct {
	ReadWriter *readwriter.ReadWriter
	Build      Builder
}

func (c *Command) Execute(ctx context.Context) error {
	s := session.New()
	scanner := bufio.NewScanner(c.ReadWriter.In)

	failures := 0
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := c.run(ctx, s, line); err != nil {
			failures++
			fmt.Fprintf(c.ReadWriter.ErrOut, "line %d: %v\n", lineNo, err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if failures > 0 {
		return fmt.Errorf("%d batch command(s) failed", failures)
	}
	return nil
}

func (c *Command) run(ctx context.Context, s *session.Session, line string) error {
	args, err := commandargs.ParseLine(line)
	if err != nil {
		return err
	}

	switch args.CommandType {
	case commandargs.Batch, commandargs.Serve:
		return disallowedcommand.Error
	}

	cmd, err := c.Build(args, c.ReadWriter, s)
	if err != nil {
		return err
	}

	return cmd.Execute(ctx)
}
