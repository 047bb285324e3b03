package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSchema         = errors.New("invalid token schema")
	ErrNoSigningCredentials  = errors.New("no signing credentials: set a private key or a wallet signer")
	ErrInvalidPrivateKey     = errors.New("invalid private key")
	ErrNoCoinDataProvider    = errors.New("no coin data provider configured")
	ErrNoProviderConfigured  = errors.New("no provider configured for broadcast")
	ErrNoUtxosAvailable      = errors.New("no utxos available for address")
	ErrNoCoinsAvailable      = errors.New("no coins available for selection")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrSigningFailed         = errors.New("signing failed")
	ErrProviderRequestFailed = errors.New("provider request failed")
	ErrEncodingFailed        = errors.New("encoding failed")
	ErrUnsupportedNetwork    = errors.New("unsupported network")
)

// ProviderError describes a failed call to a coin data provider.
type ProviderError struct {
	Provider   string
	Operation  string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: request failed with status %d", e.Provider, e.Operation, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Operation, e.Err)
	}
	return fmt.Sprintf("%s %s: request failed", e.Provider, e.Operation)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is matches ErrProviderRequestFailed.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderRequestFailed
}
