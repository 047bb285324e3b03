// Package transport exposes the builder over HTTP.
package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mintcoredev/mintcore/internal/mint/model"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-Id"
	maxBodyBytes    = 1 << 20
	maxBatchSize    = 100
)

type (
	mintResponse struct {
		*model.BuiltTransaction
		BroadcastTxID string `json:"broadcastTxid,omitempty"`
	}

	batchRequest struct {
		Schemas []model.TokenSchema `json:"schemas"`
		Workers int                 `json:"workers"`
	}

	batchResponse struct {
		Transactions []*model.BuiltTransaction `json:"transactions"`
	}

	hexRequest struct {
		Hex string `json:"hex"`
	}

	broadcastResponse struct {
		TxID string `json:"txid"`
	}

	healthResponse struct {
		Status string     `json:"status"`
		Mode   model.Mode `json:"mode"`
	}

	errorResponse struct {
		Error     string `json:"error"`
		RequestID string `json:"requestId"`
	}
)

// MintHandler serves the mint API.
type MintHandler struct {
	builder Builder
	metrics Metrics
	logger  *zap.Logger
}

func NewMintHandler(builder Builder, metrics Metrics, logger *zap.Logger) *MintHandler {
	return &MintHandler{builder: builder, metrics: metrics, logger: logger}
}

// Routes registers every endpoint on a fresh mux.
func (h *MintHandler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /v1/health", h.wrap("health", h.health))
	mux.Handle("POST /v1/mint", h.wrap("mint", h.mint))
	mux.Handle("POST /v1/mint/batch", h.wrap("mint_batch", h.mintBatch))
	mux.Handle("POST /v1/broadcast", h.wrap("broadcast", h.broadcast))
	mux.Handle("POST /v1/decode", h.wrap("decode", h.decode))
	return mux
}

type handlerFunc func(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int, any, error)

// wrap assigns a request id, writes the JSON response and records metrics.
func (h *MintHandler) wrap(route string, fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		requestID := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		logger := h.logger.With(zap.String("route", route), zap.String("request_id", requestID))

		code, body, err := fn(w, r, logger)
		if err != nil {
			logger.Warn("request failed", zap.Int("code", code), zap.Error(err))
			body = errorResponse{Error: err.Error(), RequestID: requestID}
		}
		writeJSON(w, code, body, logger)
		h.metrics.Observe(route, code, started)
	})
}

func (h *MintHandler) health(_ http.ResponseWriter, _ *http.Request, _ *zap.Logger) (int, any, error) {
	return http.StatusOK, healthResponse{Status: "ok", Mode: h.builder.Mode()}, nil
}

func (h *MintHandler) mint(_ http.ResponseWriter, r *http.Request, logger *zap.Logger) (int, any, error) {
	var s model.TokenSchema
	if err := decodeBody(r, &s); err != nil {
		return http.StatusBadRequest, nil, err
	}

	built, err := h.builder.Build(r.Context(), s)
	if err != nil {
		return statusFor(err), nil, err
	}
	resp := mintResponse{BuiltTransaction: built}

	if r.URL.Query().Get("broadcast") == "true" {
		if built.Mode == model.ModeOffline {
			return http.StatusConflict, nil, errors.New("offline transactions spend a placeholder input and cannot be broadcast")
		}
		txid, err := h.builder.Broadcast(r.Context(), built.Hex)
		if err != nil {
			return statusFor(err), nil, err
		}
		resp.BroadcastTxID = txid
		logger.Info("minted and broadcast", zap.String("txid", txid), zap.String("category", built.Category))
	}
	return http.StatusOK, resp, nil
}

func (h *MintHandler) mintBatch(_ http.ResponseWriter, r *http.Request, _ *zap.Logger) (int, any, error) {
	var req batchRequest
	if err := decodeBody(r, &req); err != nil {
		return http.StatusBadRequest, nil, err
	}
	if len(req.Schemas) == 0 || len(req.Schemas) > maxBatchSize {
		return http.StatusBadRequest, nil, fmt.Errorf("batch must hold between 1 and %d schemas", maxBatchSize)
	}

	built, err := h.builder.BuildBatch(r.Context(), req.Schemas, req.Workers)
	if err != nil {
		return statusFor(err), nil, err
	}
	return http.StatusOK, batchResponse{Transactions: built}, nil
}

func (h *MintHandler) broadcast(_ http.ResponseWriter, r *http.Request, _ *zap.Logger) (int, any, error) {
	var req hexRequest
	if err := decodeBody(r, &req); err != nil {
		return http.StatusBadRequest, nil, err
	}
	if req.Hex == "" {
		return http.StatusBadRequest, nil, errors.New("hex is required")
	}

	txid, err := h.builder.Broadcast(r.Context(), req.Hex)
	if err != nil {
		return statusFor(err), nil, err
	}
	return http.StatusOK, broadcastResponse{TxID: txid}, nil
}

func (h *MintHandler) decode(_ http.ResponseWriter, r *http.Request, _ *zap.Logger) (int, any, error) {
	var req hexRequest
	if err := decodeBody(r, &req); err != nil {
		return http.StatusBadRequest, nil, err
	}

	decoded, err := h.builder.Decode(req.Hex)
	if err != nil {
		return statusFor(err), nil, err
	}
	return http.StatusOK, decoded, nil
}

func decodeBody(r *http.Request, out any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, body any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidSchema),
		errors.Is(err, model.ErrEncodingFailed):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNoUtxosAvailable),
		errors.Is(err, model.ErrNoCoinsAvailable),
		errors.Is(err, model.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrProviderRequestFailed):
		return http.StatusBadGateway
	case errors.Is(err, model.ErrNoProviderConfigured),
		errors.Is(err, model.ErrNoCoinDataProvider),
		errors.Is(err, model.ErrNoSigningCredentials):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
