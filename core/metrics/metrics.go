// Package metrics holds the Prometheus collectors shared by the bot runtime
// and serves them over HTTP.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coreconfig "github.com/m3rciful/marketbot/core/config"
	"github.com/m3rciful/marketbot/core/logger"
)

const namespace = "marketbot"

var (
	// UpdatesHandled counts routed updates by handler name and outcome.
	UpdatesHandled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_handled_total",
		Help:      "Telegram updates handled, by handler and outcome.",
	}, []string{"handler", "outcome"})

	// MessagesSent counts outbound messages produced by handlers.
	MessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Messages sent or edited in reply to updates.",
	})

	// SendFailures counts outbound jobs that exhausted their retries.
	SendFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "send_failures_total",
		Help:      "Outbound Telegram calls that failed, by error kind.",
	}, []string{"kind"})

	// RateLimited counts updates dropped by the per-user limiter.
	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Updates rejected by the per-user rate limiter, by update kind.",
	}, []string{"kind"})

	// ListingsPublished counts listings committed by the posting wizard.
	ListingsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_published_total",
		Help:      "Listings published, by action.",
	}, []string{"action"})

	// Panics counts handler panics caught by the recover middleware.
	Panics = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "handler_panics_total",
		Help:      "Panics recovered in update handlers.",
	})
)

func init() {
	prometheus.MustRegister(
		UpdatesHandled,
		MessagesSent,
		SendFailures,
		RateLimited,
		ListingsPublished,
		Panics,
	)
}

// Handler returns the HTTP handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Server wraps the metrics HTTP listener.
type Server struct {
	srv *http.Server
}

// Start launches the metrics listener in the background. It returns nil when
// metrics are disabled in cfg.
func Start(cfg coreconfig.MetricsConfig) *Server {
	if cfg.Listen == "" {
		return nil
	}
	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, Handler())

	s := &Server{srv: &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}}
	go func() {
		err := s.srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.With("component", "metrics").Error("listener stopped",
				slog.String("event", "serve"),
				slog.String("listen", cfg.Listen),
				slog.String("err", err.Error()),
			)
		}
	}()
	logger.L.With("component", "metrics").Info("metrics listening",
		slog.String("event", "serve"),
		slog.String("listen", cfg.Listen),
		slog.String("path", path),
	)
	return s
}

// Shutdown stops the listener. Safe on a nil receiver.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil || s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
