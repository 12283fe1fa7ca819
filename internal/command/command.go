package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gitlab.com/gitlab-org/labkit/correlation"
	"gitlab.com/gitlab-org/labkit/tracing"

	"gitlab.com/gitlab-org/correlation-vector/internal/config"
)

type Command interface {
	Execute(ctx context.Context) error
}

// CheckForVersionFlag prints the version and exits when the only argument is -version.
func CheckForVersionFlag(osArgs []string, version, buildTime string) {
	// We can't use the flag library because the subcommands take positional arguments that
	// confuse the parser.
	if len(osArgs) == 2 && osArgs[1] == "-version" {
		fmt.Printf("%s %s-%s\n", filepath.Base(osArgs[0]), version, buildTime)
		os.Exit(0)
	}
}

// Setup() initializes tracing from the configuration file and generates a
// background context from which all other contexts in the process should derive
// from, as it has a service name and initial correlation ID set.
func Setup(serviceName string, config *config.Config) (context.Context, func()) {
	closer := tracing.Initialize(
		tracing.WithServiceName(serviceName),
		tracing.WithConnectionString(config.Tracing),
	)

	ctx, finished := tracing.ExtractFromEnv(context.Background())
	ctx = correlation.ContextWithClientName(ctx, serviceName)

	if correlation.ExtractFromContext(ctx) == "" {
		ctx = correlation.ContextWithCorrelation(ctx, correlation.SafeRandomID())
	}

	return ctx, func() {
		finished()
		closer.Close()
	}
}
