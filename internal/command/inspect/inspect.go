package inspect

import (
	"context"
	"strings"

	"gopkg.in/yaml.v3"

	"gitlab.com/gitlab-org/correlation-vector/cv"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/commandargs"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/readwriter"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/shared/session"
)

// Response describes a parsed vector.
type Response struct {
	Value     string     `yaml:"value"`
	Version   cv.Version `yaml:"version"`
	Base      string     `yaml:"base"`
	Segments  []uint32   `yaml:"segments,flow"`
	Extension uint32     `yaml:"extension"`
	Sealed    bool       `yaml:"sealed"`
	Length    int        `yaml:"length"`
	MaxLength int        `yaml:"max_length"`
}

func NewResponse(v *cv.Vector) *Response {
	value := v.Value()
	return &Response{
		Value:     value,
		Version:   v.Version(),
		Base:      v.Base(),
		Segments:  v.Segments(),
		Extension: v.Extension(),
		Sealed:    v.Sealed(),
		Length:    len(strings.TrimSuffix(value, "!")),
		MaxLength: v.Version().MaxVectorLength(),
	}
}

// Command parses a vector and prints its components as YAML.
type Command struct {
	Args       *commandargs.CommandArgs
	ReadWriter *readwriter.ReadWriter
	Generator  *cv.Generator
	Session    *session.Session
}

func (c *Command) Execute(ctx context.Context) error {
	input := c.Args.Arg(0, "")

	v, ok, err := c.Session.Lookup(input)
	if err != nil {
		return err
	}
	if !ok {
		if v, err = c.Generator.Parse(input); err != nil {
			return err
		}
	}
	c.Session.Set(v)

	out, err := yaml.Marshal(NewResponse(v))
	if err != nil {
		return err
	}

	_, err = c.ReadWriter.Out.Write(out)
	return err
}
