// Package provider adapts coin data backends (Chronik, ElectrumX/Fulcrum
// REST) to the coin listing and broadcast operations the builder needs.
package provider

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mintcoredev/mintcore/internal/metrics"
	"github.com/mintcoredev/mintcore/internal/mint/model"
	"github.com/mintcoredev/mintcore/internal/pkg/httpclient"
	"go.uber.org/zap"
)

const (
	operationFetchCoins = "fetch_coins"
	operationBroadcast  = "broadcast"
)

// Provider lists spendable coins and relays raw transactions.
type Provider interface {
	FetchCoins(ctx context.Context, address string) ([]model.Coin, error)
	Broadcast(ctx context.Context, txHex string) (string, error)
	Name() string
}

type Config struct {
	ChronikURL        string
	ElectrumXURL      string
	Timeout           time.Duration
	RequestsPerSecond int
}

// New returns the configured backend. Chronik wins when both URLs are set;
// nil is returned when neither is.
func New(cfg Config, logger *zap.Logger) Provider {
	switch {
	case strings.TrimSpace(cfg.ChronikURL) != "":
		return NewChronik(newClient(cfg.ChronikURL, chronikName, cfg, logger), logger)
	case strings.TrimSpace(cfg.ElectrumXURL) != "":
		return NewElectrumX(newClient(cfg.ElectrumXURL, electrumXName, cfg, logger), logger)
	default:
		return nil
	}
}

func newClient(baseURL, name string, cfg Config, logger *zap.Logger) *httpclient.ObservedClient {
	return httpclient.NewObservedClient(httpclient.Config{
		BaseURL:           strings.TrimSpace(baseURL),
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, metrics.NewHTTPClient(name), logger.Named(name))
}

func requestFailed(provider, operation string, err error) error {
	providerErr := &model.ProviderError{Provider: provider, Operation: operation, Err: err}
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		providerErr.StatusCode = statusErr.StatusCode
	}
	return providerErr
}

// satoshis decodes an amount sent either as a JSON number or a decimal string.
type satoshis uint64

func (s *satoshis) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("amount %s: %w", string(b), err)
	}
	*s = satoshis(v)
	return nil
}

func validTxID(txid string) bool {
	if len(txid) != 64 {
		return false
	}
	_, err := hex.DecodeString(txid)
	return err == nil
}

func isJSONArray(raw []byte) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}
