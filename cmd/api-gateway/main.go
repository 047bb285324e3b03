package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/mintcoredev/mintcore/internal/metrics"
	"github.com/mintcoredev/mintcore/internal/mint/bootstrap"
	"github.com/mintcoredev/mintcore/internal/transport"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type config struct {
	Addr string            `long:"addr" env:"API_GATEWAY_ADDR" description:"http listen address" default:":8001"`
	Mint bootstrap.Options `group:"mint" namespace:"mint"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	loadEnv(logger)

	cfg := config{}
	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("Failed to parse arguments", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("api gateway failed", zap.Error(err))
	}
}

// loadEnv reads API_GATEWAY_ENV_FILE, or .env, into the environment so
// go-flags can pick the values up. A missing file is not an error.
func loadEnv(logger *zap.Logger) {
	path := os.Getenv("API_GATEWAY_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to load env file", zap.String("path", path), zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	builder, err := bootstrap.NewBuilder(cfg.Mint, logger)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/v1/", transport.NewMintHandler(builder, metrics.NewAPI(), logger).Routes())
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server",
		zap.String("addr", cfg.Addr),
		zap.String("network", string(cfg.Mint.Network)),
		zap.String("mode", string(builder.Mode())),
	)
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
