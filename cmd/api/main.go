package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harentsoaR/appointments-api/internal/config"
	"github.com/harentsoaR/appointments-api/internal/logger"
	"github.com/harentsoaR/appointments-api/internal/server"
	"github.com/harentsoaR/appointments-api/internal/telemetry"
)

var version = "dev"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Parse(os.Args[1:],
		kong.Name("appointments"),
		kong.Description("Appointment booking API and front-end server"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Tracing ---
	otelShutdown, err := telemetry.Setup(ctx, cfg, version)
	if err != nil {
		log.Error("otel setup failed", zap.Error(err))
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Warn("otel shutdown failed", zap.Error(err))
			}
		}()
	}

	// --- Server ---
	srv, err := server.New(cfg, log)
	if err != nil {
		log.Fatal("failed to build server", zap.Error(err))
	}
	if err := srv.Listen(); err != nil {
		log.Fatal("failed to bind", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("http server error", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown error", zap.Error(err))
	}
}
