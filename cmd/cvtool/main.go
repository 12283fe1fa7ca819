// Package main implements cvtool, a command line tool to create, inspect and mutate correlation
// vectors and to serve them over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cvtoolCmd "gitlab.com/gitlab-org/correlation-vector/cmd/cvtool/command"
	"gitlab.com/gitlab-org/correlation-vector/internal/command"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/commandargs"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/readwriter"
	"gitlab.com/gitlab-org/correlation-vector/internal/config"
	"gitlab.com/gitlab-org/correlation-vector/internal/executable"
	"gitlab.com/gitlab-org/correlation-vector/internal/logger"
	"gitlab.com/gitlab-org/labkit/fields"
)

var (
	configDir = flag.String("config-dir", "", "The directory the config is in")

	// Version is the current version of cvtool
	Version = "(unknown version)" // Set at build time in the Makefile
	// BuildTime signifies the time the binary was build
	BuildTime = "19700101.000000" // Set at build time in the Makefile
)

func main() {
	os.Exit(run())
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config-dir dir] <command>\n\nCommands:\n  %s\n\n",
		executable.CVTool, strings.Join(commandargs.Usage(), "\n  "))
	flag.PrintDefaults()
}

func loadConfig() (*config.Config, error) {
	dir := *configDir
	if dir == "" {
		e, err := executable.New(executable.CVTool)
		if err != nil {
			return nil, err
		}
		dir = e.RootDir
	}

	cfg, err := config.NewFromDir(dir)
	if os.IsNotExist(err) && *configDir == "" {
		cfg, err = config.New(), nil
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.OverrideFromEnvironment(); err != nil {
		return nil, err
	}
	return cfg, cfg.IsSane()
}

func run() int {
	ctx := context.Background()
	command.CheckForVersionFlag(os.Args, Version, BuildTime)
	flag.Usage = usage
	flag.Parse()

	readWriter := &readwriter.ReadWriter{
		Out:    os.Stdout,
		In:     os.Stdin,
		ErrOut: os.Stderr,
	}

	exitOnError := func(err error, message string) int {
		if err != nil {
			_, _ = fmt.Fprintf(readWriter.ErrOut, "%s: %v\n", message, err)
			return 1
		}
		return 0
	}

	args, err := commandargs.Parse(flag.Args())
	if err != nil {
		usage()
		return exitOnError(err, "Invalid arguments")
	}

	cfg, err := loadConfig()
	if code := exitOnError(err, "Failed to read config, exiting"); code != 0 {
		return code
	}

	log, logCloser, err := logger.ConfigureLogger(cfg)
	if err != nil {
		log.ErrorContext(ctx, "failed to log to file, reverting to stderr", slog.String(fields.ErrorMessage, err.Error()))
	} else {
		// nolint
		defer func() {
			if err = logCloser.Close(); err != nil {
				log.ErrorContext(ctx, "failed to close log file", slog.String(fields.ErrorMessage, err.Error()))
			}
		}()
	}

	factory, err := cvtoolCmd.NewFactory(cfg)
	if code := exitOnError(err, "Failed to create command"); code != 0 {
		return code
	}
	factory.Version, factory.BuildTime = Version, BuildTime

	cmd, err := factory.New(args, readWriter)
	if code := exitOnError(err, "Failed to create command"); code != 0 {
		return code
	}

	ctx, finished := command.Setup(executable.CVTool, cfg)
	defer finished()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		_, _ = fmt.Fprintf(readWriter.ErrOut, "%v\n", err)
		return 1
	}
	return 0
}
