package service

import (
	"context"
	"sync"

	"github.com/btcsuite/btcd/wire"
	"github.com/mintcoredev/mintcore/internal/mint/model"
	"github.com/mintcoredev/mintcore/pkg/workerpool"
	"go.uber.org/zap"
)

// BuildBatch builds one genesis transaction per schema and returns them in
// input order. Offline batches run on workerCount goroutines. Funded batches
// run one at a time and never spend a coin an earlier build already used.
func (b *TransactionBuilder) BuildBatch(
	ctx context.Context,
	schemas []model.TokenSchema,
	workerCount int,
) (built []*model.BuiltTransaction, err error) {
	defer func() {
		b.metrics.ObserveBatch(len(schemas), err)
	}()

	if workerCount < 1 {
		workerCount = defaultBatchWorkerCount
	}
	if b.Mode() != model.ModeOffline {
		workerCount = 1
	}

	var (
		mu    sync.Mutex
		spent = make(map[wire.OutPoint]struct{})
	)
	built, err = workerpool.Map(ctx, workerCount, schemas, func(ctx context.Context, s model.TokenSchema) (*model.BuiltTransaction, error) {
		mu.Lock()
		exclude := make(map[wire.OutPoint]struct{}, len(spent))
		for op := range spent {
			exclude[op] = struct{}{}
		}
		mu.Unlock()

		tx, used, err := b.build(ctx, s, exclude)
		if err != nil {
			return nil, err
		}

		mu.Lock()
		for _, op := range used {
			spent[op] = struct{}{}
		}
		mu.Unlock()
		return tx, nil
	})
	if err != nil {
		return nil, err
	}

	b.logger.Info("built batch", zap.Int("count", len(built)))
	return built, nil
}
