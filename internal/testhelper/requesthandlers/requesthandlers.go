package requesthandlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"gitlab.com/gitlab-org/correlation-vector/cv/cvhttp"
)

// Upstream is a test server that records the correlation vector of every request it receives.
type Upstream struct {
	*httptest.Server

	mu      sync.Mutex
	vectors []string
}

func NewUpstream(t *testing.T) *Upstream {
	u := &Upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()

		u.vectors = append(u.vectors, r.Header.Get(cvhttp.HeaderName))
	}))
	t.Cleanup(u.Close)

	return u
}

// Vectors returns the MS-CV header values received so far, in order.
func (u *Upstream) Vectors() []string {
	u.mu.Lock()
	defer u.mu.Unlock()

	return append([]string(nil), u.vectors...)
}
