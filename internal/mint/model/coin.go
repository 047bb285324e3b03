package model

// Coin is an unspent output the minting address can spend.
type Coin struct {
	TxID     string `json:"txid"`
	Vout     uint32 `json:"vout"`
	Satoshis uint64 `json:"satoshis"`
}

// SourceOutput describes the output an input spends, in input order.
// Wallet signers need it to compute signature digests.
type SourceOutput struct {
	Satoshis        uint64
	LockingBytecode []byte
}
