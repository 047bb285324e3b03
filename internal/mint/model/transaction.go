package model

type Mode string

var (
	ModeOffline      Mode = "offline"
	ModeKeyFunded    Mode = "key-funded"
	ModeWalletFunded Mode = "wallet-funded"
)

// BuiltTransaction is the result of a successful build.
type BuiltTransaction struct {
	Hex      string  `json:"hex"`
	TxID     string  `json:"txid"`
	Category string  `json:"category"`
	// Fee is the fee actually paid: inputs minus outputs, including any
	// change at or below dust that was left to miners. Nil for offline builds.
	Fee      *uint64 `json:"fee,omitempty"`
	Mode     Mode    `json:"mode"`
}

// DecodedTransaction is a parsed view of a serialized transaction.
type DecodedTransaction struct {
	TxID     string          `json:"txid"`
	Version  int32           `json:"version"`
	LockTime uint32          `json:"lockTime"`
	Inputs   []DecodedInput  `json:"inputs"`
	Outputs  []DecodedOutput `json:"outputs"`
}

type DecodedInput struct {
	TxID     string `json:"txid"`
	Vout     uint32 `json:"vout"`
	Sequence uint32 `json:"sequence"`
	Unlock   string `json:"unlockingBytecode"`
}

type DecodedOutput struct {
	Satoshis uint64     `json:"satoshis"`
	Locking  string     `json:"lockingBytecode"`
	Token    *TokenData `json:"token,omitempty"`
	BCMRURI  string     `json:"bcmrUri,omitempty"`
}

// TokenData is the token payload carried by an output.
type TokenData struct {
	Category   string     `json:"category"`
	Amount     string     `json:"amount"`
	Capability Capability `json:"capability,omitempty"`
	Commitment string     `json:"commitment,omitempty"`
	HasNFT     bool       `json:"hasNft"`
}
