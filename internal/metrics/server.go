package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/remind-app/remind/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Server serves the /metrics endpoint for Prometheus scraping.
type Server struct {
	srv    *http.Server
	logger *logger.Logger
}

// NewServer creates a metrics HTTP server bound to addr, exposing the
// collectors registered on g (the default gatherer when nil).
func NewServer(addr string, g prometheus.Gatherer, log *logger.Logger) *Server {
	if g == nil {
		g = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	return &Server{
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
		logger: log,
	}
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		s.logger.Info("metrics endpoint listening",
			logger.Field{Key: "addr", Value: s.srv.Addr})
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("metrics server failed", err)
		}
	}()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
