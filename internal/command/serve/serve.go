package serve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"gitlab.com/gitlab-org/labkit/fields"
	"gitlab.com/gitlab-org/labkit/monitoring"
	"gitlab.com/gitlab-org/labkit/tracing"
	"gitlab.com/gitlab-org/labkit/v2/log"

	"gitlab.com/gitlab-org/correlation-vector/cv"
	"gitlab.com/gitlab-org/correlation-vector/cv/cvhttp"
	"gitlab.com/gitlab-org/correlation-vector/internal/command/readwriter"
	"gitlab.com/gitlab-org/correlation-vector/internal/config"
)

const readHeaderTimeout = 10 * time.Second

// Command runs an HTTP server that answers every request with the request's correlation
// vector, after optionally calling the configured upstream with it.
type Command struct {
	Config     *config.Config
	ReadWriter *readwriter.ReadWriter
	Generator  *cv.Generator
	Version    string
	BuildTime  string
}

func (c *Command) Execute(ctx context.Context) error {
	listener, err := net.Listen("tcp", c.Config.Server.Listen)
	if err != nil {
		return err
	}

	if c.Config.Server.WebListen != "" {
		c.startMonitoring(ctx)
	}

	return c.Serve(ctx, listener)
}

// Serve handles connections on listener until ctx is done, then shuts down gracefully.
func (c *Command) Serve(ctx context.Context, listener net.Listener) error {
	logger := log.New()

	handler, err := c.Handler()
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	fmt.Fprintf(c.ReadWriter.Out, "listening on %s\n", listener.Addr())

	done := make(chan error, 1)
	go func() {
		done <- server.Serve(listener)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}

	gracePeriod := time.Duration(c.Config.Server.GracePeriod)
	logger.InfoContext(ctx, "Shutdown initiated", slog.Float64("shutdown_timeout_s", gracePeriod.Seconds()))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), gracePeriod)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-done; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler builds the instrumented HTTP handler.
func (c *Command) Handler() (http.Handler, error) {
	opts := []cvhttp.InboundHandlerOption{cvhttp.WithGenerator(c.Generator)}

	if c.Config.Server.Spin {
		p, err := c.Config.SpinParameters()
		if err != nil {
			return nil, err
		}
		opts = append(opts, cvhttp.WithSpin(p))
	}
	if c.Config.Server.SetResponseHeader {
		opts = append(opts, cvhttp.WithSetResponseHeader())
	}

	h := &vectorHandler{upstream: c.Config.Server.Upstream}
	if h.upstream != "" {
		h.client = &http.Client{Transport: cvhttp.NewRoundTripper(cvhttp.DefaultTransport())}
	}

	return tracing.Handler(cvhttp.InjectVector(h, opts...), tracing.WithRouteIdentifier("/")), nil
}

func (c *Command) startMonitoring(ctx context.Context) {
	go func() {
		err := monitoring.Start(
			monitoring.WithListenerAddress(c.Config.Server.WebListen),
			monitoring.WithBuildInformation(c.Version, c.BuildTime),
		)
		if err != nil {
			log.New().ErrorContext(ctx, "monitoring service raised an error", slog.String(
				fields.ErrorMessage, err.Error(),
			))
		}
	}()
}

type vectorHandler struct {
	upstream string
	client   *http.Client
}

func (h *vectorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := cvhttp.FromContext(ctx)

	if h.upstream != "" {
		if err := h.callUpstream(r); err != nil {
			log.New().ErrorContext(
				log.WithFields(ctx, slog.String("correlation_vector", v.Value())),
				"upstream request failed",
				slog.String(fields.ErrorMessage, err.Error()),
			)
			http.Error(w, "upstream request failed", http.StatusBadGateway)
			return
		}
	}

	fmt.Fprintln(w, v.Value())
}

func (h *vectorHandler) callUpstream(r *http.Request) error {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, h.upstream, nil)
	if err != nil {
		return err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("upstream responded with %s", resp.Status)
	}
	return nil
}
