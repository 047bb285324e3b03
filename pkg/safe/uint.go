// Package safe converts between integer types and reports values that do not fit.
package safe

import (
	"fmt"
	"math"
)

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Uint32 converts v to uint32, rejecting negatives and values above MaxUint32.
func Uint32[T integer](v T) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, rangeError(v, "uint32")
	}
	return uint32(v), nil
}

// Uint64 converts v to uint64, rejecting negatives.
func Uint64[T integer](v T) (uint64, error) {
	if v < 0 {
		return 0, rangeError(v, "uint64")
	}
	return uint64(v), nil
}

// Int64 converts v to int64, rejecting unsigned values above MaxInt64.
// Satoshi amounts go through it on their way into wire outputs.
func Int64[T integer](v T) (int64, error) {
	if v > 0 && uint64(v) > math.MaxInt64 {
		return 0, rangeError(v, "int64")
	}
	return int64(v), nil
}

func rangeError[T integer](v T, target string) error {
	return fmt.Errorf("value %d out of %s range", v, target)
}
