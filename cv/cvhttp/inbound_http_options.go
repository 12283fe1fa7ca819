package cvhttp

import (
	"gitlab.com/gitlab-org/correlation-vector/cv"
)

// The configuration for InjectVector
type inboundHandlerConfig struct {
	generator          *cv.Generator
	spin               bool
	spinParameters     cv.SpinParameters
	sendResponseHeader bool
}

// InboundHandlerOption configures InjectVector.
type InboundHandlerOption func(*inboundHandlerConfig)

func applyInboundHandlerOptions(opts []InboundHandlerOption) inboundHandlerConfig {
	config := inboundHandlerConfig{
		generator: cv.NewGenerator(),
	}
	for _, v := range opts {
		v(&config)
	}

	return config
}

// WithGenerator sets the generator used to parse inbound vectors and create new ones.
func WithGenerator(g *cv.Generator) InboundHandlerOption {
	return func(config *inboundHandlerConfig) {
		if g != nil {
			config.generator = g
		}
	}
}

// WithSpin makes the handler spin inbound vectors instead of extending them. Vectors whose
// version does not support spin are extended.
func WithSpin(p cv.SpinParameters) InboundHandlerOption {
	return func(config *inboundHandlerConfig) {
		config.spin = true
		config.spinParameters = p
	}
}

// WithSetResponseHeader makes the handler echo the vector in the response headers.
func WithSetResponseHeader() InboundHandlerOption {
	return func(config *inboundHandlerConfig) {
		config.sendResponseHeader = true
	}
}
