package service

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/mintcoredev/mintcore/internal/mint/bch"
	"github.com/mintcoredev/mintcore/internal/mint/fee"
	"github.com/mintcoredev/mintcore/internal/mint/model"
	"github.com/mintcoredev/mintcore/internal/mint/schema"
	"github.com/mintcoredev/mintcore/pkg/safe"
)

// addMintOutputs appends the token output and, when a URI is set, the
// metadata-pointer output. Change is added by the caller.
func (b *TransactionBuilder) addMintOutputs(tmpl *template, s model.TokenSchema, sp *spender) error {
	out, err := tokenOutput(s, tmpl.category, sp.locking)
	if err != nil {
		return err
	}
	tmpl.tx.AddTxOut(out)

	if s.BCMRURI != nil {
		script, err := bch.BCMROutputScript(*s.BCMRURI)
		if err != nil {
			return err
		}
		tmpl.tx.AddTxOut(wire.NewTxOut(0, script))
	}
	return nil
}

func tokenOutput(s model.TokenSchema, category chainhash.Hash, locking []byte) (*wire.TxOut, error) {
	amount, err := bch.TokenAmount(s.InitialSupply)
	if err != nil {
		return nil, err
	}

	token := bch.Token{Category: category, Amount: amount}
	if s.NFT != nil {
		commitment, err := schema.DecodeCommitment(s.NFT.Commitment)
		if err != nil {
			return nil, fmt.Errorf("%w: nft commitment: %w", model.ErrEncodingFailed, err)
		}
		token.NFT = &bch.NFT{Capability: s.NFT.Capability, Commitment: commitment}
	}

	prefix, err := bch.EncodeTokenPrefix(token)
	if err != nil {
		return nil, err
	}
	value, err := safe.Int64(fee.TokenOutputDust)
	if err != nil {
		return nil, err
	}

	field := make([]byte, 0, len(prefix)+len(locking))
	field = append(field, prefix...)
	field = append(field, locking...)
	return wire.NewTxOut(value, field), nil
}
