package bch

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/mintcoredev/mintcore/internal/mint/model"
	"github.com/mintcoredev/mintcore/pkg/safe"
)

const (
	TxVersion      = 2
	SequenceFinal  = wire.MaxTxInSequenceNum
	maxRawTxLength = 1_000_000
)

// NewTx returns an empty version 2 transaction with lock time 0.
func NewTx() *wire.MsgTx {
	return wire.NewMsgTx(TxVersion)
}

// Serialize encodes tx in the legacy (non-witness) layout used by Bitcoin Cash.
func Serialize(tx *wire.MsgTx) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(tx.SerializeSizeStripped())
	if err := tx.SerializeNoWitness(&buf); err != nil {
		return nil, fmt.Errorf("%w: serialize transaction: %w", model.ErrEncodingFailed, err)
	}
	return buf.Bytes(), nil
}

// TxID returns the display form of the double SHA-256 of raw.
func TxID(raw []byte) string {
	return chainhash.DoubleHashH(raw).String()
}

// Deserialize parses a hex encoded transaction.
func Deserialize(txHex string) (*wire.MsgTx, []byte, error) {
	if len(txHex) > 2*maxRawTxLength {
		return nil, nil, fmt.Errorf("%w: transaction hex too long", model.ErrEncodingFailed)
	}
	raw, err := hex.DecodeString(txHex)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: transaction is not hex: %w", model.ErrEncodingFailed, err)
	}
	tx := &wire.MsgTx{}
	if err := tx.DeserializeNoWitness(bytes.NewReader(raw)); err != nil {
		return nil, nil, fmt.Errorf("%w: decode transaction: %w", model.ErrEncodingFailed, err)
	}
	return tx, raw, nil
}

// Decode parses a hex transaction into inputs and outputs, including token
// payloads and metadata pointers.
func Decode(txHex string) (*model.DecodedTransaction, error) {
	tx, raw, err := Deserialize(txHex)
	if err != nil {
		return nil, err
	}

	decoded := &model.DecodedTransaction{
		TxID:     TxID(raw),
		Version:  tx.Version,
		LockTime: tx.LockTime,
		Inputs:   make([]model.DecodedInput, 0, len(tx.TxIn)),
		Outputs:  make([]model.DecodedOutput, 0, len(tx.TxOut)),
	}
	for _, in := range tx.TxIn {
		decoded.Inputs = append(decoded.Inputs, model.DecodedInput{
			TxID:     in.PreviousOutPoint.Hash.String(),
			Vout:     in.PreviousOutPoint.Index,
			Sequence: in.Sequence,
			Unlock:   hex.EncodeToString(in.SignatureScript),
		})
	}
	for i, out := range tx.TxOut {
		value, err := safe.Uint64(out.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: output %d value: %w", model.ErrEncodingFailed, i, err)
		}
		token, locking, err := DecodeTokenPrefix(out.PkScript)
		if err != nil {
			return nil, fmt.Errorf("%w: output %d: %w", model.ErrEncodingFailed, i, err)
		}
		output := model.DecodedOutput{
			Satoshis: value,
			Locking:  hex.EncodeToString(locking),
		}
		if token != nil {
			output.Token = tokenData(token)
		}
		if uri, ok := ParseBCMRScript(locking); ok {
			output.BCMRURI = uri
		}
		decoded.Outputs = append(decoded.Outputs, output)
	}
	return decoded, nil
}

func tokenData(t *Token) *model.TokenData {
	data := &model.TokenData{
		Category: t.Category.String(),
		Amount:   fmt.Sprintf("%d", t.Amount),
	}
	if t.NFT != nil {
		data.HasNFT = true
		data.Capability = t.NFT.Capability
		data.Commitment = hex.EncodeToString(t.NFT.Commitment)
	}
	return data
}
