package cvhttp

import (
	"context"

	"gitlab.com/gitlab-org/correlation-vector/cv"
)

type ctxKey int

const keyVector ctxKey = iota

// FromContext returns the vector stored in ctx, or nil if there is none.
func FromContext(ctx context.Context) *cv.Vector {
	if ctx == nil {
		return nil
	}

	v, _ := ctx.Value(keyVector).(*cv.Vector)
	return v
}

// ContextWithVector returns a copy of ctx carrying v. Outbound requests made with the returned
// context increment v through the RoundTripper returned by NewRoundTripper.
func ContextWithVector(ctx context.Context, v *cv.Vector) context.Context {
	return context.WithValue(ctx, keyVector, v)
}
