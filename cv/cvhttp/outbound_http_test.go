package cvhttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gitlab.com/gitlab-org/labkit/correlation"

	"gitlab.com/gitlab-org/correlation-vector/cv"
	"gitlab.com/gitlab-org/correlation-vector/internal/metrics"
)

func TestRoundTripper(t *testing.T) {
	var headers []http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Clone())
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewRoundTripper(DefaultTransport())}

	v, err := cv.Parse(v2Base + ".3")
	require.NoError(t, err)

	ctx := ContextWithVector(context.Background(), v)
	ctx = correlation.ContextWithCorrelation(ctx, "abc123")

	propagated := metrics.PropagatedVectors.WithLabelValues("v2")
	before := testutil.ToFloat64(propagated)

	for i := 0; i < 2; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		resp, err := client.Do(req)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())

		require.Empty(t, req.Header.Get(HeaderName))
	}

	require.Len(t, headers, 2)
	require.Equal(t, v2Base+".4", headers[0].Get(HeaderName))
	require.Equal(t, v2Base+".5", headers[1].Get(HeaderName))
	require.Equal(t, "abc123", headers[0].Get("X-Request-ID"))
	require.Equal(t, v2Base+".5", v.Value())
	require.InDelta(t, before+2, testutil.ToFloat64(propagated), 0.1)
}

func TestRoundTripperWithoutVector(t *testing.T) {
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get(HeaderName)
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewRoundTripper(DefaultTransport())}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	require.Empty(t, header)
}

func TestEndToEnd(t *testing.T) {
	var downstream string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downstream = r.Header.Get(HeaderName)
	}))
	defer backend.Close()

	client := &http.Client{Transport: NewRoundTripper(DefaultTransport())}
	frontend := httptest.NewServer(InjectVector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, backend.URL, nil)
		require.NoError(t, err)

		resp, err := client.Do(req)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
	})))
	defer frontend.Close()

	req, err := http.NewRequest(http.MethodGet, frontend.URL, nil)
	require.NoError(t, err)
	req.Header.Set(HeaderName, v1Base+".7")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	require.Equal(t, v1Base+".7.1", downstream)
}

func TestContext(t *testing.T) {
	require.Nil(t, FromContext(context.Background()))

	v := cv.New()
	require.Same(t, v, FromContext(ContextWithVector(context.Background(), v)))
}
