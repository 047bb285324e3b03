// Package schema validates token schemas before a genesis transaction is built.
package schema

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mintcoredev/mintcore/internal/mint/model"
)

const (
	MaxDecimals         = 18
	MaxCommitmentBytes  = 40
	MaxBCMRURIBytes     = 220
	MaxMetadataJSONSize = 1000
)

// Validate checks the schema fail-fast and reports the first violation.
// Every returned error wraps model.ErrInvalidSchema.
func Validate(s model.TokenSchema) error {
	if s.Name == "" {
		return invalid("name must be a non-empty string")
	}
	if s.Symbol == "" {
		return invalid("symbol must be a non-empty string")
	}
	if s.Decimals < 0 || s.Decimals > MaxDecimals {
		return invalid("decimals must be between 0 and %d, got %d", MaxDecimals, s.Decimals)
	}
	if s.InitialSupply == nil {
		return invalid("initialSupply is required")
	}
	if s.InitialSupply.Sign() < 0 {
		return invalid("initialSupply must be non-negative, got %s", s.InitialSupply)
	}

	if s.NFT != nil {
		if err := validateNFT(*s.NFT); err != nil {
			return err
		}
	}

	if s.BCMRURI != nil {
		uri := *s.BCMRURI
		if strings.TrimSpace(uri) == "" {
			return invalid("bcmrUri must not be blank")
		}
		if len(uri) > MaxBCMRURIBytes {
			return invalid("bcmrUri must be at most %d bytes, got %d", MaxBCMRURIBytes, len(uri))
		}
	}

	if s.Metadata != nil {
		encoded, err := metadataJSON(s.Metadata)
		if err != nil {
			return invalid("metadata is not serializable: %v", err)
		}
		if len(encoded) > MaxMetadataJSONSize {
			return invalid("metadata must serialize to at most %d bytes, got %d", MaxMetadataJSONSize, len(encoded))
		}
	}

	return nil
}

// metadataJSON encodes metadata without HTML escaping so that <, > and &
// count as one byte each.
func metadataJSON(metadata map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(metadata); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func validateNFT(nft model.NFTOptions) error {
	switch nft.Capability {
	case model.CapabilityNone, model.CapabilityMutable, model.CapabilityMinting:
	default:
		return invalid("nft capability must be one of none, mutable, minting, got %q", nft.Capability)
	}

	commitment, err := DecodeCommitment(nft.Commitment)
	if err != nil {
		return invalid("nft commitment: %v", err)
	}
	if len(commitment) > MaxCommitmentBytes {
		return invalid("nft commitment must be at most %d bytes, got %d", MaxCommitmentBytes, len(commitment))
	}
	return nil
}

// DecodeCommitment turns a commitment string into bytes.
// A "0x" prefix forces hex, a bare even-length hex string is decoded as hex,
// anything else is taken as UTF-8 text.
func DecodeCommitment(raw string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(raw, "0x"); ok {
		if len(rest)%2 != 0 {
			return nil, fmt.Errorf("hex commitment %q has odd length", raw)
		}
		decoded, err := hex.DecodeString(rest)
		if err != nil {
			return nil, fmt.Errorf("hex commitment %q: %w", raw, err)
		}
		return decoded, nil
	}

	if raw != "" && len(raw)%2 == 0 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded, nil
		}
	}
	return []byte(raw), nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrInvalidSchema, fmt.Sprintf(format, args...))
}
