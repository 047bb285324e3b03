// Package wallet connects the builder to an external signing service over HTTP.
package wallet

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/mintcoredev/mintcore/internal/metrics"
	"github.com/mintcoredev/mintcore/internal/mint/model"
	"github.com/mintcoredev/mintcore/internal/pkg/httpclient"
	"go.uber.org/zap"
)

const serviceName = "wallet"

type Config struct {
	URL     string
	Timeout time.Duration
}

type sourceOutput struct {
	Satoshis        uint64 `json:"satoshis"`
	LockingBytecode string `json:"lockingBytecode"`
}

type signRequest struct {
	TxHex         string         `json:"txHex"`
	SourceOutputs []sourceOutput `json:"sourceOutputs"`
}

type signResponse struct {
	SignedHex string `json:"signedHex"`
}

type addressResponse struct {
	Address string `json:"address"`
}

// Remote is a wallet signer reached over HTTP. It exposes
// GET /address and POST /sign; keys never leave the wallet.
type Remote struct {
	client *httpclient.ObservedClient
	logger *zap.Logger
}

func NewRemote(cfg Config, logger *zap.Logger) *Remote {
	client := httpclient.NewObservedClient(httpclient.Config{
		BaseURL: cfg.URL,
		Timeout: cfg.Timeout,
	}, metrics.NewHTTPClient(serviceName), logger.Named(serviceName))
	return &Remote{client: client, logger: logger.Named(serviceName)}
}

// GetAddress returns the CashAddr the wallet spends from.
func (r *Remote) GetAddress(ctx context.Context) (string, error) {
	var resp addressResponse
	if err := r.client.GetJSON(ctx, "get_address", "/address", &resp); err != nil {
		return "", fmt.Errorf("wallet address: %w", err)
	}
	if resp.Address == "" {
		return "", errors.New("wallet address: empty response")
	}
	return resp.Address, nil
}

// SignTransaction sends the unsigned transaction with its source outputs and
// returns the signed transaction hex exactly as the wallet produced it.
func (r *Remote) SignTransaction(ctx context.Context, unsignedHex string, sourceOutputs []model.SourceOutput) (string, error) {
	req := signRequest{
		TxHex:         unsignedHex,
		SourceOutputs: make([]sourceOutput, 0, len(sourceOutputs)),
	}
	for _, out := range sourceOutputs {
		req.SourceOutputs = append(req.SourceOutputs, sourceOutput{
			Satoshis:        out.Satoshis,
			LockingBytecode: hex.EncodeToString(out.LockingBytecode),
		})
	}

	var resp signResponse
	if err := r.client.PostJSON(ctx, "sign_transaction", "/sign", req, &resp); err != nil {
		return "", fmt.Errorf("wallet sign: %w", err)
	}
	if resp.SignedHex == "" {
		return "", errors.New("wallet sign: empty response")
	}
	r.logger.Debug("wallet signed transaction", zap.Int("inputs", len(sourceOutputs)))
	return resp.SignedHex, nil
}
