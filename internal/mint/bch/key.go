package bch

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mintcoredev/mintcore/internal/mint/model"
)

// ParsePrivateKey accepts a 32-byte hex key (optionally 0x-prefixed) or a
// compressed WIF key for the given network. The scalar must lie in [1, n-1].
func ParsePrivateKey(raw string, params Params) (*btcec.PrivateKey, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty key", model.ErrInvalidPrivateKey)
	}

	hexKey := strings.TrimPrefix(trimmed, "0x")
	if len(hexKey) == 64 {
		keyBytes, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, fmt.Errorf("%w: not hex", model.ErrInvalidPrivateKey)
		}
		var scalar secp256k1.ModNScalar
		if overflow := scalar.SetByteSlice(keyBytes); overflow || scalar.IsZero() {
			return nil, fmt.Errorf("%w: scalar out of range", model.ErrInvalidPrivateKey)
		}
		return secp256k1.NewPrivateKey(&scalar), nil
	}

	wif, err := btcutil.DecodeWIF(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: expected 64 hex characters or WIF", model.ErrInvalidPrivateKey)
	}
	if !wif.IsForNet(params.WIF) {
		return nil, fmt.Errorf("%w: WIF key is for another network", model.ErrInvalidPrivateKey)
	}
	if !wif.CompressPubKey {
		return nil, fmt.Errorf("%w: uncompressed WIF keys are not supported", model.ErrInvalidPrivateKey)
	}
	if wif.PrivKey.Key.IsZero() {
		return nil, fmt.Errorf("%w: scalar out of range", model.ErrInvalidPrivateKey)
	}
	return wif.PrivKey, nil
}

// PubKeyHash returns HASH160 of the compressed public key.
func PubKeyHash(key *btcec.PrivateKey) []byte {
	return btcutil.Hash160(key.PubKey().SerializeCompressed())
}
