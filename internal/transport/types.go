package transport

import (
	"context"
	"time"

	"github.com/mintcoredev/mintcore/internal/mint/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Builder interface {
		Mode() model.Mode
		Build(ctx context.Context, s model.TokenSchema) (*model.BuiltTransaction, error)
		BuildBatch(ctx context.Context, schemas []model.TokenSchema, workerCount int) ([]*model.BuiltTransaction, error)
		Broadcast(ctx context.Context, txHex string) (string, error)
		Decode(txHex string) (*model.DecodedTransaction, error)
	}

	Metrics interface {
		Observe(route string, code int, started time.Time)
	}
)
