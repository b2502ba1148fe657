package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

type httpServer struct {
	server *http.Server
}

func NewHTTPServer(addr string, handler http.Handler) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (h *httpServer) Name() string { return "http_server_worker" }

func (h *httpServer) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", h.Name(), "addr", h.server.Addr)
	defer slog.Info("Worker stopped", "name", h.Name())

	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listening on %s: %w", h.server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := h.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
