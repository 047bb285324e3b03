// Package bootstrap wires a TransactionBuilder from command line options.
package bootstrap

import (
	"fmt"
	"time"

	"github.com/mintcoredev/mintcore/internal/metrics"
	"github.com/mintcoredev/mintcore/internal/mint/model"
	"github.com/mintcoredev/mintcore/internal/mint/provider"
	"github.com/mintcoredev/mintcore/internal/mint/service"
	"github.com/mintcoredev/mintcore/internal/mint/wallet"
	"go.uber.org/zap"
)

// Options is shared by every binary. Embed it with a go-flags group tag.
type Options struct {
	Network           model.Network `long:"network" env:"MINTCORE_NETWORK" description:"mainnet, testnet or regtest" default:"mainnet"`
	PrivateKey        string        `long:"private-key" env:"MINTCORE_PRIVATE_KEY" description:"signing key as 64 hex characters or WIF"`
	WalletURL         string        `long:"wallet-url" env:"MINTCORE_WALLET_URL" description:"external wallet signer base URL"`
	ChronikURL        string        `long:"chronik-url" env:"MINTCORE_CHRONIK_URL" description:"Chronik indexer base URL"`
	ElectrumXURL      string        `long:"electrumx-url" env:"MINTCORE_ELECTRUMX_URL" description:"ElectrumX/Fulcrum REST base URL"`
	FeeRate           float64       `long:"fee-rate" env:"MINTCORE_FEE_RATE" description:"fee rate in satoshis per byte" default:"1.0"`
	HTTPTimeout       time.Duration `long:"http-timeout" env:"MINTCORE_HTTP_TIMEOUT" description:"timeout for provider and wallet requests" default:"30s"`
	RequestsPerSecond int           `long:"requests-per-second" env:"MINTCORE_REQUESTS_PER_SECOND" description:"provider request limit, 0 for none" default:"0"`
}

// NewBuilder builds the provider, the optional wallet signer and the builder
// described by opts.
func NewBuilder(opts Options, logger *zap.Logger) (*service.TransactionBuilder, error) {
	cfg := service.Config{
		Network:    opts.Network,
		PrivateKey: opts.PrivateKey,
		FeeRate:    opts.FeeRate,
	}
	if opts.WalletURL != "" {
		cfg.Wallet = wallet.NewRemote(wallet.Config{URL: opts.WalletURL, Timeout: opts.HTTPTimeout}, logger)
	}

	var coins service.CoinProvider
	if p := provider.New(provider.Config{
		ChronikURL:        opts.ChronikURL,
		ElectrumXURL:      opts.ElectrumXURL,
		Timeout:           opts.HTTPTimeout,
		RequestsPerSecond: opts.RequestsPerSecond,
	}, logger); p != nil {
		logger.Info("using coin provider", zap.String("provider", p.Name()))
		coins = p
	}

	builder, err := service.NewTransactionBuilder(cfg, coins, metrics.NewMintBuilder(opts.Network), logger)
	if err != nil {
		return nil, fmt.Errorf("init transaction builder: %w", err)
	}
	if builder.Mode() == "" {
		logger.Warn("no signing credential configured, builds will fail")
	}
	return builder, nil
}
