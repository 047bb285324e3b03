package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/mintcoredev/mintcore/internal/mint/model"
	"github.com/mintcoredev/mintcore/internal/pkg/httpclient"
	"github.com/mintcoredev/mintcore/pkg/safe"
	"go.uber.org/zap"
)

const chronikName = "chronik"

type chronikUtxo struct {
	TxID     string   `json:"txid"`
	Vout     int64    `json:"vout"`
	Satoshis satoshis `json:"satoshis"`
}

type chronikBroadcastResponse struct {
	TxIDs []string `json:"txids"`
	TxID  string   `json:"txid"`
}

// Chronik talks to a Chronik indexer.
type Chronik struct {
	client *httpclient.ObservedClient
	logger *zap.Logger
}

func NewChronik(client *httpclient.ObservedClient, logger *zap.Logger) *Chronik {
	return &Chronik{
		client: client,
		logger: logger.With(zap.String("provider", chronikName)),
	}
}

func (c *Chronik) Name() string { return chronikName }

// FetchCoins calls GET {base}/address/{address}/utxos. Both {"utxos": [...]}
// and a bare array are accepted.
func (c *Chronik) FetchCoins(ctx context.Context, address string) ([]model.Coin, error) {
	var raw json.RawMessage
	path := "/address/" + url.PathEscape(address) + "/utxos"
	if err := c.client.GetJSON(ctx, operationFetchCoins, path, &raw); err != nil {
		return nil, requestFailed(chronikName, operationFetchCoins, err)
	}

	var items []chronikUtxo
	if isJSONArray(raw) {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, requestFailed(chronikName, operationFetchCoins, fmt.Errorf("decode utxos: %w", err))
		}
	} else {
		var wrapped struct {
			Utxos []chronikUtxo `json:"utxos"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, requestFailed(chronikName, operationFetchCoins, fmt.Errorf("decode utxos: %w", err))
		}
		items = wrapped.Utxos
	}

	coins := make([]model.Coin, 0, len(items))
	for i, item := range items {
		if !validTxID(item.TxID) {
			return nil, requestFailed(chronikName, operationFetchCoins, fmt.Errorf("utxo %d: malformed txid %q", i, item.TxID))
		}
		vout, err := safe.Uint32(item.Vout)
		if err != nil {
			return nil, requestFailed(chronikName, operationFetchCoins, fmt.Errorf("utxo %d: vout: %w", i, err))
		}
		coins = append(coins, model.Coin{TxID: item.TxID, Vout: vout, Satoshis: uint64(item.Satoshis)})
	}

	c.logger.Debug("fetched coins", zap.String("address", address), zap.Int("count", len(coins)))
	return coins, nil
}

// Broadcast calls POST {base}/broadcast-txs with {"rawTxs": [hex]}.
func (c *Chronik) Broadcast(ctx context.Context, txHex string) (string, error) {
	var resp chronikBroadcastResponse
	body := map[string][]string{"rawTxs": {txHex}}
	if err := c.client.PostJSON(ctx, operationBroadcast, "/broadcast-txs", body, &resp); err != nil {
		return "", requestFailed(chronikName, operationBroadcast, err)
	}

	txid := resp.TxID
	if len(resp.TxIDs) > 0 {
		txid = resp.TxIDs[0]
	}
	if txid == "" {
		return "", requestFailed(chronikName, operationBroadcast, errors.New("response carries no txid"))
	}
	c.logger.Info("broadcast transaction", zap.String("txid", txid))
	return txid, nil
}
