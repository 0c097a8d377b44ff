package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

type Server struct {
	config   *Config
	services *Services
	server   *http.Server
}

func New(config *Config) (*Server, error) {
	services, err := NewServices(config)
	if err != nil {
		return nil, err
	}
	return &Server{
		config:   config,
		services: services,
		server: &http.Server{
			Addr:    config.HTTP.Addr,
			Handler: SetupRoutes(config, services),
		},
	}, nil
}

// Start runs the job engine and the http server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("lorekeep server start", "addr", s.config.HTTP.Addr, "pages", s.services.Pages.Len())
	defer slog.Info("lorekeep server stop")

	s.services.Engine.Start(ctx)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.runHTTPServer(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		return s.Stop(context.Background())
	})
	return g.Wait()
}

func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.services.Engine.Stop()
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) runHTTPServer() error {
	if s.config.HTTP.CertFile != "" && s.config.HTTP.KeyFile != "" {
		slog.Info("server listening tls", "addr", s.config.HTTP.Addr)
		return s.server.ListenAndServeTLS(s.config.HTTP.CertFile, s.config.HTTP.KeyFile)
	}
	slog.Info("server listening http", "addr", s.config.HTTP.Addr)
	return s.server.ListenAndServe()
}
