package service

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/mintcoredev/mintcore/internal/mint/bch"
	"github.com/mintcoredev/mintcore/internal/mint/model"
)

// Config selects the network, the signing credential and the fee rate.
// When both PrivateKey and Wallet are set the private key is used.
type Config struct {
	Network    model.Network
	PrivateKey string
	Wallet     WalletSigner
	// FeeRate is in satoshis per byte; zero or less selects the default.
	FeeRate float64
}

type credentialKind int

const (
	credentialNone credentialKind = iota
	credentialPrivateKey
	credentialWallet
)

// credential is resolved once per builder. A malformed private key is kept
// as keyErr and reported by every build.
type credential struct {
	kind   credentialKind
	key    *btcec.PrivateKey
	keyErr error
	wallet WalletSigner
}

func resolveCredential(cfg Config, params bch.Params) credential {
	switch {
	case cfg.PrivateKey != "":
		key, err := bch.ParsePrivateKey(cfg.PrivateKey, params)
		return credential{kind: credentialPrivateKey, key: key, keyErr: err}
	case cfg.Wallet != nil:
		return credential{kind: credentialWallet, wallet: cfg.Wallet}
	default:
		return credential{kind: credentialNone}
	}
}
