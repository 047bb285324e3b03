// Package main is the mintcore command line: it builds CashToken genesis
// transactions from schema files, broadcasts them and decodes raw hex.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/mintcoredev/mintcore/internal/mint/bootstrap"
	"github.com/mintcoredev/mintcore/internal/mint/model"
	"github.com/mintcoredev/mintcore/internal/mint/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	actionBuild     = "build"
	actionBroadcast = "broadcast"
	actionDecode    = "decode"
)

type config struct {
	Action      string            `long:"action" env:"MINT_ACTION" description:"what to do" choice:"build" choice:"broadcast" choice:"decode" default:"build"`
	Schema      string            `long:"schema" env:"MINT_SCHEMA" description:"token schema JSON file, an array builds a batch; - reads stdin" default:"-"`
	Hex         string            `long:"hex" env:"MINT_HEX" description:"raw transaction hex for broadcast and decode"`
	Broadcast   bool              `long:"broadcast" env:"MINT_BROADCAST" description:"broadcast built transactions"`
	Workers     int               `long:"workers" env:"MINT_WORKERS" description:"offline batch workers" default:"4"`
	MetricsAddr string            `long:"metrics-addr" env:"MINT_METRICS_ADDR" description:"address for metrics server, empty disables it"`
	Mint        bootstrap.Options `group:"mint"`
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

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env", zap.Error(err))
	}

	cfg := config{}
	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, os.Stdin, os.Stdout, logger); err != nil {
		logger.Fatal("mint failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	if cfg.MetricsAddr != "" {
		startMetricsServer(ctx, cfg.MetricsAddr, logger)
	}

	builder, err := bootstrap.NewBuilder(cfg.Mint, logger)
	if err != nil {
		return err
	}

	switch cfg.Action {
	case actionDecode:
		decoded, err := builder.Decode(cfg.Hex)
		if err != nil {
			return err
		}
		return writeJSON(stdout, decoded)
	case actionBroadcast:
		if cfg.Hex == "" {
			return errors.New("--hex is required for broadcast")
		}
		txid, err := builder.Broadcast(ctx, cfg.Hex)
		if err != nil {
			return err
		}
		return writeJSON(stdout, map[string]string{"txid": txid})
	default:
		return build(ctx, cfg, builder, stdin, stdout, logger)
	}
}

type buildResult struct {
	*model.BuiltTransaction
	BroadcastTxID string `json:"broadcastTxid,omitempty"`
}

func build(
	ctx context.Context,
	cfg config,
	builder *service.TransactionBuilder,
	stdin io.Reader,
	stdout io.Writer,
	logger *zap.Logger,
) error {
	schemas, batch, err := readSchemas(cfg.Schema, stdin)
	if err != nil {
		return err
	}

	var built []*model.BuiltTransaction
	if batch {
		built, err = builder.BuildBatch(ctx, schemas, cfg.Workers)
	} else {
		var tx *model.BuiltTransaction
		tx, err = builder.Build(ctx, schemas[0])
		built = []*model.BuiltTransaction{tx}
	}
	if err != nil {
		return err
	}

	results := make([]buildResult, 0, len(built))
	for _, tx := range built {
		result := buildResult{BuiltTransaction: tx}
		if cfg.Broadcast {
			if tx.Mode == model.ModeOffline {
				return errors.New("offline builds spend a placeholder input and cannot be broadcast")
			}
			txid, err := builder.Broadcast(ctx, tx.Hex)
			if err != nil {
				return fmt.Errorf("broadcast %s: %w", tx.TxID, err)
			}
			result.BroadcastTxID = txid
			logger.Info("broadcast genesis transaction", zap.String("txid", txid), zap.String("category", tx.Category))
		}
		results = append(results, result)
	}

	if batch {
		return writeJSON(stdout, results)
	}
	return writeJSON(stdout, results[0])
}

// readSchemas loads one schema, or a batch when the document is a JSON array.
func readSchemas(path string, stdin io.Reader) ([]model.TokenSchema, bool, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, false, fmt.Errorf("read schema: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var schemas []model.TokenSchema
		if err := json.Unmarshal(trimmed, &schemas); err != nil {
			return nil, false, fmt.Errorf("decode schema batch: %w", err)
		}
		if len(schemas) == 0 {
			return nil, false, errors.New("schema batch is empty")
		}
		return schemas, true, nil
	}

	var s model.TokenSchema
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, false, fmt.Errorf("decode schema: %w", err)
	}
	return []model.TokenSchema{s}, false, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
