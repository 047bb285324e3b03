package bch

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/mintcoredev/mintcore/internal/mint/model"
)

// BCMRMarker is pushed first in a metadata-pointer output.
var BCMRMarker = []byte("BCMR")

// BCMROutputScript builds OP_RETURN <"BCMR"> <uri>.
func BCMROutputScript(uri string) ([]byte, error) {
	script, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_RETURN).
		AddData(BCMRMarker).
		AddData([]byte(uri)).
		Script()
	if err != nil {
		return nil, fmt.Errorf("%w: bcmr output: %w", model.ErrEncodingFailed, err)
	}
	return script, nil
}

// ParseBCMRScript returns the URI of a metadata-pointer output.
func ParseBCMRScript(script []byte) (string, bool) {
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	if !tokenizer.Next() || tokenizer.Opcode() != txscript.OP_RETURN {
		return "", false
	}
	if !tokenizer.Next() || !bytes.Equal(tokenizer.Data(), BCMRMarker) {
		return "", false
	}
	if !tokenizer.Next() {
		return "", false
	}
	uri := tokenizer.Data()
	if tokenizer.Next() || tokenizer.Err() != nil || len(uri) == 0 {
		return "", false
	}
	return string(uri), true
}
