// Package service builds, signs and broadcasts CashToken genesis transactions.
package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/mintcoredev/mintcore/internal/mint/bch"
	"github.com/mintcoredev/mintcore/internal/mint/coinselect"
	"github.com/mintcoredev/mintcore/internal/mint/fee"
	"github.com/mintcoredev/mintcore/internal/mint/model"
	"github.com/mintcoredev/mintcore/internal/mint/schema"
	"github.com/mintcoredev/mintcore/pkg/safe"
	"go.uber.org/zap"
)

// TransactionBuilder builds CashToken genesis transactions in offline,
// key-funded or wallet-funded mode.
type TransactionBuilder struct {
	logger   *zap.Logger
	network  model.Network
	params   bch.Params
	feeRate  float64
	cred     credential
	provider CoinProvider
	metrics  Metrics
}

// NewTransactionBuilder wires a builder. A nil provider puts the builder in
// offline mode: transactions spend a placeholder outpoint and stay unsigned.
func NewTransactionBuilder(
	cfg Config,
	provider CoinProvider,
	metrics Metrics,
	logger *zap.Logger,
) (*TransactionBuilder, error) {
	params, err := bch.ParamsForNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		return nil, errors.New("transaction builder metrics is required")
	}

	b := &TransactionBuilder{
		network:  cfg.Network,
		params:   params,
		feeRate:  fee.Rate(cfg.FeeRate),
		cred:     resolveCredential(cfg, params),
		provider: provider,
		metrics:  metrics,
	}
	b.logger = logger.With(
		zap.String("network", string(cfg.Network)),
		zap.String("mode", string(b.Mode())),
	)
	return b, nil
}

// Mode reports how builds are funded and signed. It is empty when no
// signing credential is configured.
func (b *TransactionBuilder) Mode() model.Mode {
	switch {
	case b.cred.kind == credentialNone:
		return ""
	case b.provider == nil:
		return model.ModeOffline
	case b.cred.kind == credentialPrivateKey:
		return model.ModeKeyFunded
	default:
		return model.ModeWalletFunded
	}
}

// spender is the address that funds the build and receives the token.
type spender struct {
	address string
	locking []byte
}

// template is an assembled, not yet signed, genesis transaction.
type template struct {
	tx       *wire.MsgTx
	prevOuts []*wire.TxOut
	category chainhash.Hash
	spent    []wire.OutPoint
	fee      *uint64
}

// Build validates the schema and produces a genesis transaction.
func (b *TransactionBuilder) Build(ctx context.Context, s model.TokenSchema) (*model.BuiltTransaction, error) {
	built, _, err := b.build(ctx, s, nil)
	return built, err
}

func (b *TransactionBuilder) build(
	ctx context.Context,
	s model.TokenSchema,
	exclude map[wire.OutPoint]struct{},
) (built *model.BuiltTransaction, spent []wire.OutPoint, err error) {
	started := time.Now()
	mode := b.Mode()
	defer func() {
		b.metrics.ObserveBuild(mode, err, started)
	}()

	if err := schema.Validate(s); err != nil {
		return nil, nil, err
	}

	sp, err := b.resolveSpender(ctx)
	if err != nil {
		return nil, nil, err
	}

	var tmpl *template
	if mode == model.ModeOffline {
		tmpl, err = b.offlineTemplate(s, sp)
	} else {
		tmpl, err = b.fundedTemplate(ctx, s, sp, exclude)
	}
	if err != nil {
		return nil, nil, err
	}

	switch mode {
	case model.ModeOffline:
		built, err = b.finalize(tmpl)
	case model.ModeKeyFunded:
		if err := bch.SignP2PKHInputs(tmpl.tx, tmpl.prevOuts, b.cred.key); err != nil {
			return nil, nil, err
		}
		built, err = b.finalize(tmpl)
	case model.ModeWalletFunded:
		built, err = b.walletSign(ctx, tmpl)
	}
	if err != nil {
		return nil, nil, err
	}
	built.Mode = mode

	b.logger.Info("built genesis transaction",
		zap.String("txid", built.TxID),
		zap.String("category", built.Category),
		zap.Int("inputs", len(tmpl.tx.TxIn)),
		zap.Int("outputs", len(tmpl.tx.TxOut)),
	)
	return built, tmpl.spent, nil
}

func (b *TransactionBuilder) resolveSpender(ctx context.Context) (*spender, error) {
	var address string
	var pubKeyHash []byte

	switch b.cred.kind {
	case credentialPrivateKey:
		if b.cred.keyErr != nil {
			return nil, b.cred.keyErr
		}
		pubKeyHash = bch.PubKeyHash(b.cred.key)
		addr, err := bch.EncodeAddress(pubKeyHash, b.params)
		if err != nil {
			return nil, err
		}
		address = addr
	case credentialWallet:
		addr, err := b.cred.wallet.GetAddress(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: wallet address: %w", model.ErrEncodingFailed, err)
		}
		pkh, err := bch.DecodeAddress(addr, b.params)
		if err != nil {
			return nil, err
		}
		address, pubKeyHash = addr, pkh
	default:
		return nil, model.ErrNoSigningCredentials
	}

	locking, err := bch.P2PKHScript(pubKeyHash)
	if err != nil {
		return nil, err
	}
	return &spender{address: address, locking: locking}, nil
}

func (b *TransactionBuilder) offlineTemplate(s model.TokenSchema, sp *spender) (*template, error) {
	tx := bch.NewTx()
	var placeholder chainhash.Hash
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&placeholder, 0), nil, nil))

	tmpl := &template{tx: tx, category: placeholder}
	if err := b.addMintOutputs(tmpl, s, sp); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (b *TransactionBuilder) fundedTemplate(
	ctx context.Context,
	s model.TokenSchema,
	sp *spender,
	exclude map[wire.OutPoint]struct{},
) (*template, error) {
	if b.provider == nil {
		return nil, model.ErrNoCoinDataProvider
	}

	coins, err := b.provider.FetchCoins(ctx, sp.address)
	if err != nil {
		return nil, fmt.Errorf("fetch coins for %s: %w", sp.address, err)
	}
	coins = withoutSpent(coins, exclude)
	if len(coins) == 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrNoUtxosAvailable, sp.address)
	}

	nonChangeOutputs := 1
	if s.BCMRURI != nil {
		nonChangeOutputs++
	}
	selection, err := coinselect.Select(coins, fee.TokenOutputDust, nonChangeOutputs, b.feeRate, true)
	if err != nil {
		return nil, err
	}
	selected := selection.Selected
	if selected[0].Vout != 0 {
		b.logger.Warn("genesis input does not spend output 0",
			zap.String("txid", selected[0].TxID),
			zap.Uint32("vout", selected[0].Vout),
		)
	}

	tx := bch.NewTx()
	tmpl := &template{tx: tx}
	for i, coin := range selected {
		hash, err := chainhash.NewHashFromStr(coin.TxID)
		if err != nil {
			return nil, fmt.Errorf("%w: coin %d txid %q: %w", model.ErrEncodingFailed, i, coin.TxID, err)
		}
		value, err := safe.Int64(coin.Satoshis)
		if err != nil {
			return nil, fmt.Errorf("%w: coin %d value: %w", model.ErrEncodingFailed, i, err)
		}
		outpoint := wire.NewOutPoint(hash, coin.Vout)
		tx.AddTxIn(wire.NewTxIn(outpoint, nil, nil))
		tmpl.prevOuts = append(tmpl.prevOuts, wire.NewTxOut(value, sp.locking))
		tmpl.spent = append(tmpl.spent, *outpoint)
		if i == 0 {
			tmpl.category = *hash
		}
	}

	if err := b.addMintOutputs(tmpl, s, sp); err != nil {
		return nil, err
	}
	if selection.Change > 0 {
		change, err := safe.Int64(selection.Change)
		if err != nil {
			return nil, fmt.Errorf("%w: change: %w", model.ErrEncodingFailed, err)
		}
		tx.AddTxOut(wire.NewTxOut(change, sp.locking))
	}

	paid := selection.TotalInput - fee.TokenOutputDust - selection.Change
	tmpl.fee = &paid

	b.logger.Debug("selected coins",
		zap.Int("count", len(selected)),
		zap.Uint64("total", selection.TotalInput),
		zap.Uint64("fee", paid),
		zap.Uint64("change", selection.Change),
	)
	return tmpl, nil
}

func (b *TransactionBuilder) walletSign(ctx context.Context, tmpl *template) (*model.BuiltTransaction, error) {
	raw, err := bch.Serialize(tmpl.tx)
	if err != nil {
		return nil, err
	}

	sources := make([]model.SourceOutput, 0, len(tmpl.prevOuts))
	for i, prev := range tmpl.prevOuts {
		value, err := safe.Uint64(prev.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: source output %d: %w", model.ErrEncodingFailed, i, err)
		}
		sources = append(sources, model.SourceOutput{Satoshis: value, LockingBytecode: prev.PkScript})
	}

	signedHex, err := b.cred.wallet.SignTransaction(ctx, hex.EncodeToString(raw), sources)
	if err != nil {
		return nil, fmt.Errorf("%w: wallet sign: %w", model.ErrEncodingFailed, err)
	}
	signed, err := hex.DecodeString(signedHex)
	if err != nil || len(signed) == 0 {
		return nil, fmt.Errorf("%w: wallet returned invalid hex", model.ErrEncodingFailed)
	}

	return &model.BuiltTransaction{
		Hex:      signedHex,
		TxID:     bch.TxID(signed),
		Category: tmpl.category.String(),
		Fee:      tmpl.fee,
	}, nil
}

func (b *TransactionBuilder) finalize(tmpl *template) (*model.BuiltTransaction, error) {
	raw, err := bch.Serialize(tmpl.tx)
	if err != nil {
		return nil, err
	}
	return &model.BuiltTransaction{
		Hex:      hex.EncodeToString(raw),
		TxID:     bch.TxID(raw),
		Category: tmpl.category.String(),
		Fee:      tmpl.fee,
	}, nil
}

// Broadcast relays a signed transaction through the configured provider.
func (b *TransactionBuilder) Broadcast(ctx context.Context, txHex string) (txid string, err error) {
	started := time.Now()
	defer func() {
		b.metrics.ObserveBroadcast(err, started)
	}()

	if b.provider == nil {
		return "", model.ErrNoProviderConfigured
	}
	txid, err = b.provider.Broadcast(ctx, txHex)
	if err != nil {
		return "", fmt.Errorf("broadcast: %w", err)
	}
	b.logger.Info("broadcast transaction", zap.String("txid", txid))
	return txid, nil
}

// Decode parses a serialized transaction, including token payloads.
func (b *TransactionBuilder) Decode(txHex string) (*model.DecodedTransaction, error) {
	return bch.Decode(txHex)
}

func withoutSpent(coins []model.Coin, exclude map[wire.OutPoint]struct{}) []model.Coin {
	if len(exclude) == 0 {
		return coins
	}
	kept := make([]model.Coin, 0, len(coins))
	for _, c := range coins {
		hash, err := chainhash.NewHashFromStr(c.TxID)
		if err == nil {
			if _, ok := exclude[*wire.NewOutPoint(hash, c.Vout)]; ok {
				continue
			}
		}
		kept = append(kept, c)
	}
	return kept
}
