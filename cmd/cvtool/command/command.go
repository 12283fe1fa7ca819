package command

import (
	"gitlab.com/gitlab-org/correlation-vector/cv"
	"gitlab.com/gitlab-org/correlation-vector/internal/command"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/batch"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/commandargs"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/create"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/extend"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/increment"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/inspect"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/readwriter"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/serve"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/shared/disallowedcommand"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/shared/session"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/spin"
	"gitlab.com/gitlab-org/correlation-vector/internal/config"
)

// Factory builds cvtool commands from a shared config and generator.
type Factory struct {
	Config    *config.Config
	Generator *cv.Generator
	Version   string
	BuildTime string
}

func NewFactory(config *config.Config) (*Factory, error) {
	g, err := config.NewGenerator()
	if err != nil {
		return nil, err
	}

	return &Factory{Config: config, Generator: g}, nil
}

func (f *Factory) New(args *commandargs.CommandArgs, readWriter *readwriter.ReadWriter) (command.Command, error) {
	return f.build(args, readWriter, nil)
}

func (f *Factory) build(args *commandargs.CommandArgs, readWriter *readwriter.ReadWriter, s *session.Session) (command.Command, error) {
	switch args.CommandType {
	case commandargs.New, commandargs.NewUUID:
		return &create.Command{Args: args, ReadWriter: readWriter, Generator: f.Generator, Session: s}, nil
	case commandargs.ParseVector:
		return &inspect.Command{Args: args, ReadWriter: readWriter, Generator: f.Generator, Session: s}, nil
	case commandargs.Extend:
		return &extend.Command{Args: args, ReadWriter: readWriter, Generator: f.Generator, Session: s}, nil
	case commandargs.Spin:
		p, err := f.Config.SpinParameters()
		if err != nil {
			return nil, err
		}
		return &spin.Command{Args: args, ReadWriter: readWriter, Generator: f.Generator, Parameters: p, Session: s}, nil
	case commandargs.Increment:
		return &increment.Command{Args: args, ReadWriter: readWriter, Generator: f.Generator, Session: s}, nil
	case commandargs.Batch:
		return &batch.Command{ReadWriter: readWriter, Build: f.build}, nil
	case commandargs.Serve:
		return &serve.Command{Config: f.Config, ReadWriter: readWriter, Generator: f.Generator, Version: f.Version, BuildTime: f.BuildTime}, nil
	}

	return nil, disallowedcommand.Error
}
