package model

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

type Capability string

const (
	CapabilityNone    Capability = "none"
	CapabilityMutable Capability = "mutable"
	CapabilityMinting Capability = "minting"
)

type NFTOptions struct {
	Capability Capability `json:"capability"`
	Commitment string     `json:"commitment,omitempty"`
}

// TokenSchema describes the token a genesis transaction creates.
// BCMRURI is a pointer so that an empty URI can be told apart from no URI.
type TokenSchema struct {
	Name          string         `json:"name"`
	Symbol        string         `json:"symbol"`
	Decimals      int            `json:"decimals"`
	InitialSupply *big.Int       `json:"initialSupply"`
	NFT           *NFTOptions    `json:"nft,omitempty"`
	BCMRURI       *string        `json:"bcmrUri,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// UnmarshalJSON accepts initialSupply as a JSON number or a decimal string.
func (s *TokenSchema) UnmarshalJSON(data []byte) error {
	type alias TokenSchema
	aux := struct {
		*alias
		InitialSupply json.RawMessage `json:"initialSupply"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	s.InitialSupply = nil
	raw := strings.Trim(strings.TrimSpace(string(aux.InitialSupply)), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	supply, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return fmt.Errorf("initialSupply %q is not an integer", raw)
	}
	s.InitialSupply = supply
	return nil
}

// MarshalJSON writes initialSupply as a decimal string so large supplies survive JSON.
func (s TokenSchema) MarshalJSON() ([]byte, error) {
	type alias TokenSchema
	supply := ""
	if s.InitialSupply != nil {
		supply = s.InitialSupply.String()
	}
	return json.Marshal(struct {
		alias
		InitialSupply string `json:"initialSupply,omitempty"`
	}{alias: alias(s), InitialSupply: supply})
}
