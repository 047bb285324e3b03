// Package bch holds the Bitcoin Cash primitives mintcore builds on: keys,
// CashAddr, locking scripts, CashToken prefixes, signing and serialization.
package bch

import (
	btcchaincfg "github.com/btcsuite/btcd/chaincfg"
	"github.com/gcash/bchd/chaincfg"
	"github.com/mintcoredev/mintcore/internal/mint/model"
)

// Params bundles the network parameters needed to build for one network.
type Params struct {
	// Cash carries the CashAddr prefix.
	Cash *chaincfg.Params
	// WIF carries the private key version byte; BCH shares it with BTC.
	WIF *btcchaincfg.Params
}

// ParamsForNetwork resolves the parameters of a supported network.
func ParamsForNetwork(network model.Network) (Params, error) {
	switch network {
	case model.Mainnet:
		return Params{Cash: &chaincfg.MainNetParams, WIF: &btcchaincfg.MainNetParams}, nil
	case model.Testnet:
		return Params{Cash: &chaincfg.TestNet3Params, WIF: &btcchaincfg.TestNet3Params}, nil
	case model.Regtest:
		return Params{Cash: &chaincfg.RegressionNetParams, WIF: &btcchaincfg.RegressionNetParams}, nil
	default:
		return Params{}, network.Validate()
	}
}
