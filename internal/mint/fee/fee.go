// Package fee estimates the size and fee of P2PKH genesis transactions.
package fee

import "math"

const (
	TxOverhead          = 10
	P2PKHInputSize      = 148
	P2PKHOutputSize     = 34
	TokenPrefixOverhead = 50

	// DustThreshold is the smallest change output worth creating.
	DustThreshold uint64 = 546
	// TokenOutputDust is the value locked in the token output.
	TokenOutputDust uint64 = 1000

	DefaultFeeRate = 1.0
	// MaxFeeRate caps configured rates in satoshis per byte.
	MaxFeeRate = 10_000.0
)

// Size returns the estimated serialized size in bytes.
func Size(inputs, outputs int, hasToken bool) int {
	size := TxOverhead + inputs*P2PKHInputSize + outputs*P2PKHOutputSize
	if hasToken {
		size += TokenPrefixOverhead
	}
	return size
}

// Estimate returns ceil(size * feeRate) in satoshis.
// The result saturates at math.MaxInt64.
func Estimate(inputs, outputs int, feeRate float64, hasToken bool) uint64 {
	fee := math.Ceil(float64(Size(inputs, outputs, hasToken)) * feeRate)
	if math.IsNaN(fee) || fee <= 0 {
		return 0
	}
	if fee >= math.MaxInt64 {
		return math.MaxInt64
	}
	return uint64(fee)
}

// Rate normalizes a configured fee rate, falling back to DefaultFeeRate and
// capping at MaxFeeRate.
func Rate(configured float64) float64 {
	switch {
	case configured <= 0 || math.IsNaN(configured) || math.IsInf(configured, 0):
		return DefaultFeeRate
	case configured > MaxFeeRate:
		return MaxFeeRate
	default:
		return configured
	}
}
