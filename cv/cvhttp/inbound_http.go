package cvhttp

import (
	"errors"
	"log/slog"
	"net/http"

	"gitlab.com/gitlab-org/labkit/correlation"
	"gitlab.com/gitlab-org/labkit/fields"
	"gitlab.com/gitlab-org/labkit/v2/log"

	"gitlab.com/gitlab-org/correlation-vector/cv"
	"gitlab.com/gitlab-org/correlation-vector/internal/metrics"
)

// HeaderName is the HTTP header correlation vectors travel in.
const HeaderName = "MS-CV"

// InjectVector is an HTTP middleware that extends the correlation vector of the incoming request,
// or starts a new one when the request has none, and stores it in the request context.
// A malformed inbound vector is logged and replaced with a new one; it never fails the request.
// The handler is also wrapped with labkit's correlation ID middleware so that log lines carry
// the upstream X-Request-ID.
func InjectVector(h http.Handler, opts ...InboundHandlerOption) http.Handler {
	config := applyInboundHandlerOptions(opts)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := config.vectorFor(r)

		if config.sendResponseHeader {
			w.Header().Set(HeaderName, v.Value())
		}

		ctx := ContextWithVector(r.Context(), v)
		h.ServeHTTP(w, r.WithContext(ctx))
	})

	return correlation.InjectCorrelationID(handler, correlation.WithPropagation())
}

func (c inboundHandlerConfig) vectorFor(r *http.Request) *cv.Vector {
	incoming := r.Header.Get(HeaderName)
	if incoming == "" {
		v := c.generator.New()
		metrics.VectorsCreated.WithLabelValues(metrics.SourceNew, v.Version().String()).Inc()
		return v
	}

	v, source, err := c.derive(incoming)
	if err != nil {
		ctx := log.WithFields(r.Context(),
			slog.String("correlation_id", correlation.ExtractFromContext(r.Context())),
			slog.String("correlation_vector", incoming),
		)
		log.New().WarnContext(ctx, "invalid inbound correlation vector, starting a new one",
			slog.String(fields.ErrorMessage, err.Error()),
		)

		op, kind := errorLabels(err)
		metrics.InvalidVectors.WithLabelValues(op, kind).Inc()

		v, source = c.generator.New(), metrics.SourceFallback
	}

	if v.Sealed() {
		metrics.SealedVectors.WithLabelValues(v.Version().String()).Inc()
	}
	metrics.VectorsCreated.WithLabelValues(source, v.Version().String()).Inc()

	return v
}

func (c inboundHandlerConfig) derive(text string) (*cv.Vector, string, error) {
	if c.spin {
		v, err := c.generator.Spin(text, c.spinParameters)
		if !errors.Is(err, cv.ErrInvalidOperation) {
			return v, metrics.SourceSpin, err
		}
	}

	v, err := c.generator.Extend(text)
	return v, metrics.SourceExtend, err
}

func errorLabels(err error) (string, string) {
	kind := "unknown"
	switch {
	case errors.Is(err, cv.ErrInvalidArgument):
		kind = "invalid_argument"
	case errors.Is(err, cv.ErrInvalidOperation):
		kind = "invalid_operation"
	}

	var cvErr *cv.Error
	if errors.As(err, &cvErr) {
		return string(cvErr.Op), kind
	}
	return "unknown", kind
}
