// Package coinselect picks the coins that fund a genesis transaction.
package coinselect

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/mintcoredev/mintcore/internal/mint/fee"
	"github.com/mintcoredev/mintcore/internal/mint/model"
)

// Result holds the outcome of a selection.
type Result struct {
	Selected   []model.Coin
	TotalInput uint64
	Fee        uint64
	// Change is zero when the surplus is at or below the dust threshold;
	// that surplus is left to the miner.
	Change uint64
}

// Select accumulates coins largest-first until they cover required plus the
// estimated fee. nonChangeOutputs counts every output except change.
func Select(coins []model.Coin, required uint64, nonChangeOutputs int, feeRate float64, hasToken bool) (*Result, error) {
	if len(coins) == 0 {
		return nil, model.ErrNoCoinsAvailable
	}

	sorted := slices.Clone(coins)
	slices.SortStableFunc(sorted, func(a, b model.Coin) int {
		return cmp.Compare(b.Satoshis, a.Satoshis)
	})

	var total uint64
	for i, coin := range sorted {
		total += coin.Satoshis
		inputs := i + 1

		txFee := fee.Estimate(inputs, nonChangeOutputs, feeRate, hasToken)
		if total > required+txFee+fee.DustThreshold {
			txFee = fee.Estimate(inputs, nonChangeOutputs+1, feeRate, hasToken)
		}

		if total >= required+txFee {
			change := total - required - txFee
			if change <= fee.DustThreshold {
				change = 0
			}
			return &Result{
				Selected:   sorted[:inputs],
				TotalInput: total,
				Fee:        txFee,
				Change:     change,
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: have %d satoshis, need %d plus fees", model.ErrInsufficientFunds, total, required)
}
