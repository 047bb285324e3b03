package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/mintcoredev/mintcore/internal/mint/model"
	"github.com/mintcoredev/mintcore/internal/pkg/httpclient"
	"github.com/mintcoredev/mintcore/pkg/safe"
	"go.uber.org/zap"
)

const electrumXName = "electrumx"

type electrumXUtxo struct {
	TxHash string   `json:"tx_hash"`
	TxPos  int64    `json:"tx_pos"`
	Value  satoshis `json:"value"`
	Height int64    `json:"height"`
}

// ElectrumX talks to an ElectrumX or Fulcrum HTTP REST endpoint.
type ElectrumX struct {
	client *httpclient.ObservedClient
	logger *zap.Logger
}

func NewElectrumX(client *httpclient.ObservedClient, logger *zap.Logger) *ElectrumX {
	return &ElectrumX{
		client: client,
		logger: logger.With(zap.String("provider", electrumXName)),
	}
}

func (e *ElectrumX) Name() string { return electrumXName }

// FetchCoins calls GET {base}/address/{address}/unspent. Both a bare array and
// {"result": [...]} are accepted.
func (e *ElectrumX) FetchCoins(ctx context.Context, address string) ([]model.Coin, error) {
	var raw json.RawMessage
	path := "/address/" + url.PathEscape(address) + "/unspent"
	if err := e.client.GetJSON(ctx, operationFetchCoins, path, &raw); err != nil {
		return nil, requestFailed(electrumXName, operationFetchCoins, err)
	}

	var items []electrumXUtxo
	if isJSONArray(raw) {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, requestFailed(electrumXName, operationFetchCoins, fmt.Errorf("decode unspent: %w", err))
		}
	} else {
		var wrapped struct {
			Result []electrumXUtxo `json:"result"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, requestFailed(electrumXName, operationFetchCoins, fmt.Errorf("decode unspent: %w", err))
		}
		items = wrapped.Result
	}

	coins := make([]model.Coin, 0, len(items))
	for i, item := range items {
		if !validTxID(item.TxHash) {
			return nil, requestFailed(electrumXName, operationFetchCoins, fmt.Errorf("unspent %d: malformed tx_hash %q", i, item.TxHash))
		}
		vout, err := safe.Uint32(item.TxPos)
		if err != nil {
			return nil, requestFailed(electrumXName, operationFetchCoins, fmt.Errorf("unspent %d: tx_pos: %w", i, err))
		}
		coins = append(coins, model.Coin{TxID: item.TxHash, Vout: vout, Satoshis: uint64(item.Value)})
	}

	e.logger.Debug("fetched coins", zap.String("address", address), zap.Int("count", len(coins)))
	return coins, nil
}

// Broadcast calls POST {base}/tx/broadcast with {"rawTx": hex}. The txid may
// come back as {"txid"}, {"result"} or a bare JSON string.
func (e *ElectrumX) Broadcast(ctx context.Context, txHex string) (string, error) {
	var raw json.RawMessage
	body := map[string]string{"rawTx": txHex}
	if err := e.client.PostJSON(ctx, operationBroadcast, "/tx/broadcast", body, &raw); err != nil {
		return "", requestFailed(electrumXName, operationBroadcast, err)
	}

	txid, err := parseBroadcastTxID(raw)
	if err != nil {
		return "", requestFailed(electrumXName, operationBroadcast, err)
	}
	e.logger.Info("broadcast transaction", zap.String("txid", txid))
	return txid, nil
}

func parseBroadcastTxID(raw json.RawMessage) (string, error) {
	if strings.HasPrefix(strings.TrimSpace(string(raw)), `"`) {
		var txid string
		if err := json.Unmarshal(raw, &txid); err != nil {
			return "", fmt.Errorf("decode broadcast response: %w", err)
		}
		if txid == "" {
			return "", errors.New("response carries no txid")
		}
		return txid, nil
	}

	var resp struct {
		TxID   string `json:"txid"`
		Result string `json:"result"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode broadcast response: %w", err)
	}
	switch {
	case resp.TxID != "":
		return resp.TxID, nil
	case resp.Result != "":
		return resp.Result, nil
	default:
		return "", errors.New("response carries no txid")
	}
}
