package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/harentsoaR/appointments-api/internal/config"
	"github.com/harentsoaR/appointments-api/internal/handlers"
	"github.com/harentsoaR/appointments-api/internal/services"
	"github.com/harentsoaR/appointments-api/internal/static"
	"github.com/harentsoaR/appointments-api/internal/storage"
)

// Server is the appointment service bound to one data file and one asset
// root.
type Server struct {
	cfg      config.Config
	logger   *zap.Logger
	store    *storage.AppointmentStore
	handler  http.Handler
	http     *http.Server
	listener net.Listener
}

// New builds the service from cfg. The data file is created up front so a
// misconfigured path fails at startup rather than on the first request.
func New(cfg config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store := storage.NewAppointmentStore(cfg.DataFile, logger)
	if err := store.EnsureExists(); err != nil {
		return nil, fmt.Errorf("failed to initialize appointment store: %w", err)
	}

	assets, err := static.NewResolver(cfg.FrontendDir)
	if err != nil {
		return nil, err
	}

	h := handlers.NewHandler(services.NewAppointmentService(store, logger), assets, logger)
	handler := otelhttp.NewHandler(NewRouter(h, logger), cfg.ServiceName)

	return &Server{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		handler: handler,
		http: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Handler exposes the full request pipeline, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Store() *storage.AppointmentStore {
	return s.store
}

// Listen binds the configured address. Port 0 picks a free port; Addr
// reports the one chosen.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr(), err)
	}
	s.listener = ln
	return nil
}

func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve blocks until the server is shut down. It returns nil after a
// graceful Shutdown.
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	s.logger.Info("http server starting",
		zap.String("addr", s.Addr()),
		zap.String("data_file", s.cfg.DataFile),
		zap.String("frontend_dir", s.cfg.FrontendDir),
	)
	if err := s.http.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
