package bch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/mintcoredev/mintcore/internal/mint/model"
)

const (
	tokenPrefixByte byte = 0xef

	flagReserved      byte = 0x80
	flagHasCommitment byte = 0x40
	flagHasNFT        byte = 0x20
	flagHasAmount     byte = 0x10
	capabilityMask    byte = 0x0f

	MaxCommitmentLength        = 40
	MaxTokenAmount      uint64 = math.MaxInt64
)

var capabilityBytes = map[model.Capability]byte{
	model.CapabilityNone:    0x00,
	model.CapabilityMutable: 0x01,
	model.CapabilityMinting: 0x02,
}

// Token is the CashToken payload placed in front of a locking script.
// Category is in internal byte order, the same order as an outpoint hash.
type Token struct {
	Category chainhash.Hash
	Amount   uint64
	NFT      *NFT
}

type NFT struct {
	Capability model.Capability
	Commitment []byte
}

// TokenAmount converts a supply into an encodable fungible amount.
func TokenAmount(supply *big.Int) (uint64, error) {
	if supply == nil || supply.Sign() < 0 || !supply.IsUint64() || supply.Uint64() > MaxTokenAmount {
		return 0, fmt.Errorf("%w: token amount %v out of range", model.ErrEncodingFailed, supply)
	}
	return supply.Uint64(), nil
}

// EncodeTokenPrefix serializes the token prefix:
// 0xef, category, bitfield, optional commitment and optional amount.
func EncodeTokenPrefix(t Token) ([]byte, error) {
	var bitfield byte
	var commitment []byte
	if t.NFT != nil {
		capability, ok := capabilityBytes[t.NFT.Capability]
		if !ok {
			return nil, fmt.Errorf("%w: unknown nft capability %q", model.ErrEncodingFailed, t.NFT.Capability)
		}
		if len(t.NFT.Commitment) > MaxCommitmentLength {
			return nil, fmt.Errorf("%w: commitment is %d bytes", model.ErrEncodingFailed, len(t.NFT.Commitment))
		}
		bitfield |= flagHasNFT | capability
		commitment = t.NFT.Commitment
		if len(commitment) > 0 {
			bitfield |= flagHasCommitment
		}
	}
	if t.Amount > MaxTokenAmount {
		return nil, fmt.Errorf("%w: token amount %d out of range", model.ErrEncodingFailed, t.Amount)
	}
	if t.Amount > 0 {
		bitfield |= flagHasAmount
	}
	if bitfield&(flagHasNFT|flagHasAmount) == 0 {
		return nil, fmt.Errorf("%w: token carries neither an amount nor an nft", model.ErrEncodingFailed)
	}

	var buf bytes.Buffer
	buf.WriteByte(tokenPrefixByte)
	buf.Write(t.Category[:])
	buf.WriteByte(bitfield)
	if bitfield&flagHasCommitment != 0 {
		if err := wire.WriteVarBytes(&buf, 0, commitment); err != nil {
			return nil, fmt.Errorf("%w: commitment: %w", model.ErrEncodingFailed, err)
		}
	}
	if bitfield&flagHasAmount != 0 {
		if err := wire.WriteVarInt(&buf, 0, t.Amount); err != nil {
			return nil, fmt.Errorf("%w: amount: %w", model.ErrEncodingFailed, err)
		}
	}
	return buf.Bytes(), nil
}

// DecodeTokenPrefix splits an output's locking field into its token payload
// and the locking script. A field without a prefix yields a nil token.
func DecodeTokenPrefix(field []byte) (*Token, []byte, error) {
	if len(field) == 0 || field[0] != tokenPrefixByte {
		return nil, field, nil
	}

	r := bytes.NewReader(field[1:])
	t := &Token{}
	if _, err := io.ReadFull(r, t.Category[:]); err != nil {
		return nil, nil, fmt.Errorf("token category: %w", err)
	}
	bitfield, err := r.ReadByte()
	if err != nil {
		return nil, nil, fmt.Errorf("token bitfield: %w", err)
	}
	if bitfield&flagReserved != 0 {
		return nil, nil, errors.New("token bitfield sets the reserved bit")
	}

	capability := bitfield & capabilityMask
	hasNFT := bitfield&flagHasNFT != 0
	hasCommitment := bitfield&flagHasCommitment != 0
	if !hasNFT && (capability != 0 || hasCommitment) {
		return nil, nil, errors.New("token bitfield sets nft fields without an nft")
	}
	if hasNFT {
		t.NFT = &NFT{}
		for name, b := range capabilityBytes {
			if b == capability {
				t.NFT.Capability = name
			}
		}
		if t.NFT.Capability == "" {
			return nil, nil, fmt.Errorf("unknown nft capability 0x%02x", capability)
		}
	}

	if hasCommitment {
		commitment, err := wire.ReadVarBytes(r, 0, MaxCommitmentLength, "commitment")
		if err != nil {
			return nil, nil, fmt.Errorf("token commitment: %w", err)
		}
		if len(commitment) == 0 {
			return nil, nil, errors.New("token commitment flag set with empty commitment")
		}
		t.NFT.Commitment = commitment
	}

	if bitfield&flagHasAmount != 0 {
		amount, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("token amount: %w", err)
		}
		if amount == 0 || amount > MaxTokenAmount {
			return nil, nil, fmt.Errorf("token amount %d out of range", amount)
		}
		t.Amount = amount
	} else if !hasNFT {
		return nil, nil, errors.New("token carries neither an amount nor an nft")
	}

	locking := field[len(field)-r.Len():]
	return t, locking, nil
}
