package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/IshaanNene/engagerank/internal/config"
	"github.com/IshaanNene/engagerank/internal/observability"
	"github.com/IshaanNene/engagerank/internal/platform"
)

// Server answers liveness probes and exposes counters while the bot runs.
type Server struct {
	mux         *http.ServeMux
	port        int
	metrics     *observability.Metrics
	metricsPath string
	registry    *platform.Registry
	startedAt   time.Time
	logger      *slog.Logger
}

// NewServer creates a new keep-alive server. metrics and registry may be nil.
func NewServer(cfg config.ServerConfig, metricsCfg config.MetricsConfig, metrics *observability.Metrics, registry *platform.Registry, logger *slog.Logger) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		port:      cfg.Port,
		metrics:   metrics,
		registry:  registry,
		startedAt: time.Now(),
		logger:    logger.With("component", "api_server"),
	}
	if metricsCfg.Enabled {
		s.metricsPath = metricsCfg.Path
	}

	s.registerRoutes()
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.mux }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("keep-alive server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("keep-alive server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("keep-alive server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/platforms", s.handlePlatforms)

	if s.metricsPath != "" && s.metrics != nil {
		s.mux.Handle("GET "+s.metricsPath, s.metrics)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "Bot is running!")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.Version,
		"uptime":  time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.metrics == nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"error": "metrics disabled"})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.metrics.Snapshot())
}

type platformInfo struct {
	Platform string   `json:"platform"`
	Name     string   `json:"name"`
	Domains  []string `json:"domains"`
	Counters []string `json:"counters"`
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	if s.registry == nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"error": "registry not initialized"})
		return
	}

	var out []platformInfo
	for _, spec := range s.registry.Specs() {
		info := platformInfo{
			Platform: string(spec.Platform),
			Name:     spec.Name,
			Domains:  spec.Domains,
		}
		for _, cs := range spec.Counters {
			if cs.Supported {
				info.Counters = append(info.Counters, string(cs.Counter))
			}
		}
		out = append(out, info)
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
