package bch

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/mintcoredev/mintcore/internal/mint/model"
)

func TestSignP2PKHInputs(t *testing.T) {
	params := mustParams(t, model.Regtest)
	key, err := ParsePrivateKey(keyOne, params)
	if err != nil {
		t.Fatalf("ParsePrivateKey() error = %v", err)
	}
	script, err := P2PKHScript(PubKeyHash(key))
	if err != nil {
		t.Fatalf("P2PKHScript() error = %v", err)
	}

	tx := NewTx()
	prevOuts := make([]*wire.TxOut, 0, 2)
	for i, value := range []int64{50_000, 20_000} {
		hash := chainhash.DoubleHashH([]byte{byte(i)})
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&hash, uint32(i)), nil, nil))
		prevOuts = append(prevOuts, wire.NewTxOut(value, script))
	}
	tx.AddTxOut(wire.NewTxOut(60_000, script))

	if err := SignP2PKHInputs(tx, prevOuts, key); err != nil {
		t.Fatalf("SignP2PKHInputs() error = %v", err)
	}

	for i, in := range tx.TxIn {
		tokenizer := txscript.MakeScriptTokenizer(0, in.SignatureScript)
		if !tokenizer.Next() {
			t.Fatalf("input %d: missing signature push", i)
		}
		sig := tokenizer.Data()
		if !tokenizer.Next() {
			t.Fatalf("input %d: missing pubkey push", i)
		}
		pub := tokenizer.Data()
		if len(pub) != 33 {
			t.Fatalf("input %d: pubkey is %d bytes", i, len(pub))
		}
		if sig[len(sig)-1] != 0x41 {
			t.Fatalf("input %d: sighash byte = %#x, want 0x41", i, sig[len(sig)-1])
		}

		parsed, err := ecdsa.ParseDERSignature(sig[:len(sig)-1])
		if err != nil {
			t.Fatalf("input %d: ParseDERSignature() error = %v", i, err)
		}
		hash, err := SignatureHash(tx, prevOuts, i)
		if err != nil {
			t.Fatalf("input %d: SignatureHash() error = %v", i, err)
		}
		if !parsed.Verify(hash, key.PubKey()) {
			t.Fatalf("input %d: signature does not verify", i)
		}
	}

	// Digests differ per input and depend on the spent value.
	first, _ := SignatureHash(tx, prevOuts, 0)
	second, _ := SignatureHash(tx, prevOuts, 1)
	if string(first) == string(second) {
		t.Fatal("inputs share a signature hash")
	}
}

func TestSignP2PKHInputsMismatchedSourceOutputs(t *testing.T) {
	key, err := ParsePrivateKey(keyOne, mustParams(t, model.Regtest))
	if err != nil {
		t.Fatalf("ParsePrivateKey() error = %v", err)
	}
	tx := NewTx()
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{}, nil, nil))
	if err := SignP2PKHInputs(tx, nil, key); err == nil {
		t.Fatal("SignP2PKHInputs() accepted missing source outputs")
	}
	if _, err := SignatureHash(tx, nil, 3); err == nil {
		t.Fatal("SignatureHash() accepted an out of range index")
	}
}
