package cvhttp

import (
	"net/http"

	"gitlab.com/gitlab-org/labkit/correlation"
	"gitlab.com/gitlab-org/labkit/tracing"

	"gitlab.com/gitlab-org/correlation-vector/internal/metrics"
)

type transport struct {
	next http.RoundTripper
}

// RoundTrip increments the vector found in the request context and sends the new value in the
// MS-CV header. Requests without a vector pass through untouched.
func (rt *transport) RoundTrip(request *http.Request) (*http.Response, error) {
	v := FromContext(request.Context())
	if v == nil {
		return rt.next.RoundTrip(request)
	}

	// A RoundTripper must not modify the caller's request.
	request = request.Clone(request.Context())
	request.Header.Set(HeaderName, v.Increment())

	metrics.PropagatedVectors.WithLabelValues(v.Version().String()).Inc()

	return rt.next.RoundTrip(request)
}

// DefaultTransport returns a clone of the default HTTP transport.
func DefaultTransport() http.RoundTripper {
	return http.DefaultTransport.(*http.Transport).Clone()
}

// NewRoundTripper acts as a client middleware for outbound requests: it propagates the context's
// correlation vector and correlation ID, traces the request and records request metrics.
func NewRoundTripper(next http.RoundTripper) http.RoundTripper {
	t := &transport{next: metrics.NewRoundTripper(next)}
	return correlation.NewInstrumentedRoundTripper(tracing.NewRoundTripper(t))
}
