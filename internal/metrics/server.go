package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"socially/internal/config"
)

type Server struct {
	Logger *slog.Logger
	Config *config.Config

	server *http.Server
}

func (s *Server) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "metrics.Server")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:              s.Config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: time.Second,
	}
	return nil
}

func (s *Server) Run(ctx context.Context) error {
	s.Logger.Info("Starting metrics server", "addr", s.server.Addr)

	go func() {
		<-ctx.Done()
		s.server.Shutdown(context.Background()) //nolint:errcheck
	}()

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
