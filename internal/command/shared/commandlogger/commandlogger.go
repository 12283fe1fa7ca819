package commandlogger

import (
	"context"
	"log/slog"

	"gitlab.com/gitlab-org/labkit/v2/log"

	"gitlab.com/gitlab-org/correlation-vector/cv"
)

// Log records a command that produced a correlation vector from the given input.
func Log(ctx context.Context, command string, input string, result *cv.Vector) {
	ctx = log.WithFields(ctx,
		slog.String("command", command),
		slog.String("input_vector", input),
		slog.String("correlation_vector", result.Value()),
		slog.String("version", result.Version().String()),
		slog.Bool("sealed", result.Sealed()),
	)

	slog.InfoContext(ctx, "executed correlation vector command")
}
