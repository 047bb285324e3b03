package bch

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/txscript"
	"github.com/gcash/bchutil"
	"github.com/mintcoredev/mintcore/internal/mint/model"
)

const pubKeyHashSize = 20

// P2PKHScript builds OP_DUP OP_HASH160 <pkh> OP_EQUALVERIFY OP_CHECKSIG.
func P2PKHScript(pubKeyHash []byte) ([]byte, error) {
	if len(pubKeyHash) != pubKeyHashSize {
		return nil, fmt.Errorf("%w: public key hash must be %d bytes, got %d",
			model.ErrEncodingFailed, pubKeyHashSize, len(pubKeyHash))
	}
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_DUP).
		AddOp(txscript.OP_HASH160).
		AddData(pubKeyHash).
		AddOp(txscript.OP_EQUALVERIFY).
		AddOp(txscript.OP_CHECKSIG).
		Script()
}

// EncodeAddress renders a P2PKH CashAddr including the network prefix.
func EncodeAddress(pubKeyHash []byte, params Params) (string, error) {
	addr, err := bchutil.NewAddressPubKeyHash(pubKeyHash, params.Cash)
	if err != nil {
		return "", fmt.Errorf("%w: cashaddr: %w", model.ErrEncodingFailed, err)
	}
	encoded := addr.EncodeAddress()
	if !strings.Contains(encoded, ":") {
		encoded = params.Cash.CashAddressPrefix + ":" + encoded
	}
	return encoded, nil
}

// DecodeAddress parses a P2PKH CashAddr for the network and returns its
// public key hash. The prefix may be omitted.
func DecodeAddress(address string, params Params) ([]byte, error) {
	addr, err := bchutil.DecodeAddress(strings.TrimSpace(address), params.Cash)
	if err != nil {
		return nil, fmt.Errorf("%w: decode address %q: %w", model.ErrEncodingFailed, address, err)
	}
	if !addr.IsForNet(params.Cash) {
		return nil, fmt.Errorf("%w: address %q is for another network", model.ErrEncodingFailed, address)
	}
	pkh, ok := addr.(*bchutil.AddressPubKeyHash)
	if !ok {
		return nil, fmt.Errorf("%w: address %q is not pay-to-pubkey-hash", model.ErrEncodingFailed, address)
	}
	return pkh.ScriptAddress(), nil
}
