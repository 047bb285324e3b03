package bch

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/mintcoredev/mintcore/internal/mint/model"
)

const (
	sigHashForkID txscript.SigHashType = 0x40
	// SigHashAllForkID is SIGHASH_ALL with the fork id bit, 0x41.
	SigHashAllForkID = txscript.SigHashAll | sigHashForkID
)

// SignatureHash returns the digest input idx signs. The preimage follows the
// BIP143 layout that Bitcoin Cash adopted with the fork id sighash type.
func SignatureHash(tx *wire.MsgTx, prevOuts []*wire.TxOut, idx int) ([]byte, error) {
	if idx < 0 || idx >= len(tx.TxIn) {
		return nil, fmt.Errorf("%w: input index %d out of range", model.ErrSigningFailed, idx)
	}
	sigHashes, err := newSigHashes(tx, prevOuts)
	if err != nil {
		return nil, err
	}
	return signatureHash(tx, sigHashes, prevOuts[idx], idx)
}

// SignP2PKHInputs signs every input of tx with key. prevOuts lists the spent
// outputs in input order and must all be P2PKH outputs locked to key.
func SignP2PKHInputs(tx *wire.MsgTx, prevOuts []*wire.TxOut, key *btcec.PrivateKey) error {
	sigHashes, err := newSigHashes(tx, prevOuts)
	if err != nil {
		return err
	}

	pubKey := key.PubKey().SerializeCompressed()
	for i, in := range tx.TxIn {
		hash, err := signatureHash(tx, sigHashes, prevOuts[i], i)
		if err != nil {
			return err
		}
		sig := ecdsa.Sign(key, hash).Serialize()
		sig = append(sig, byte(SigHashAllForkID))

		unlocking, err := txscript.NewScriptBuilder().AddData(sig).AddData(pubKey).Script()
		if err != nil {
			return fmt.Errorf("%w: unlocking script for input %d: %w", model.ErrSigningFailed, i, err)
		}
		in.SignatureScript = unlocking
	}
	return nil
}

func newSigHashes(tx *wire.MsgTx, prevOuts []*wire.TxOut) (*txscript.TxSigHashes, error) {
	if len(prevOuts) != len(tx.TxIn) {
		return nil, fmt.Errorf("%w: %d inputs but %d source outputs", model.ErrSigningFailed, len(tx.TxIn), len(prevOuts))
	}
	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for i, in := range tx.TxIn {
		if prevOuts[i] == nil {
			return nil, fmt.Errorf("%w: missing source output for input %d", model.ErrSigningFailed, i)
		}
		fetcher.AddPrevOut(in.PreviousOutPoint, prevOuts[i])
	}
	return txscript.NewTxSigHashes(tx, fetcher), nil
}

func signatureHash(tx *wire.MsgTx, sigHashes *txscript.TxSigHashes, prevOut *wire.TxOut, idx int) ([]byte, error) {
	hash, err := txscript.CalcWitnessSigHash(prevOut.PkScript, sigHashes, SigHashAllForkID, tx, idx, prevOut.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: sighash for input %d: %w", model.ErrSigningFailed, idx, err)
	}
	return hash, nil
}
