package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bookstore/internal/config"
)

const maxHeaderBytes = 1 << 20 // 1 MB

// fallback timeouts for zero values in config.HTTP
const (
	defaultReadHeaderTimeout = 10 * time.Second
	defaultWriteTimeout      = 10 * time.Second
	defaultIdleTimeout       = 60 * time.Second
)

// Server serves the bookstore API behind the configured CORS policy.
type Server struct {
	cfg        config.HTTP
	corsOrigin string
	httpServer *http.Server
}

func New(httpCfg config.HTTP, corsCfg config.CORS) *Server {
	return &Server{cfg: httpCfg, corsOrigin: corsCfg.AllowedOrigin}
}

// Addr is the listen address derived from the configured port.
func (s *Server) Addr() string {
	return normalizeAddr(s.cfg.Port)
}

func (s *Server) newHTTPServer(handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              s.Addr(),
		Handler:           WithCORS(handler, s.corsOrigin),
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: orDefault(s.cfg.ReadHeaderTimeout, defaultReadHeaderTimeout),
		WriteTimeout:      orDefault(s.cfg.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:       orDefault(s.cfg.IdleTimeout, defaultIdleTimeout),
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// normalizeAddr accepts "8080" or ":8080".
func normalizeAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" || strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// Run blocks serving handler until Shutdown; it returns http.ErrServerClosed after a clean stop.
func (s *Server) Run(handler http.Handler) error {
	s.httpServer = s.newHTTPServer(handler)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
