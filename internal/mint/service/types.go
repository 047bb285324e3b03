package service

import (
	"context"
	"time"

	"github.com/mintcoredev/mintcore/internal/mint/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// CoinProvider lists spendable coins and relays raw transactions.
	CoinProvider interface {
		FetchCoins(ctx context.Context, address string) ([]model.Coin, error)
		Broadcast(ctx context.Context, txHex string) (string, error)
	}

	// WalletSigner is an external signer that keeps the private key to itself.
	WalletSigner interface {
		GetAddress(ctx context.Context) (string, error)
		SignTransaction(ctx context.Context, unsignedHex string, sourceOutputs []model.SourceOutput) (string, error)
	}

	Metrics interface {
		ObserveBuild(mode model.Mode, err error, started time.Time)
		ObserveBroadcast(err error, started time.Time)
		ObserveBatch(size int, err error)
	}
)
