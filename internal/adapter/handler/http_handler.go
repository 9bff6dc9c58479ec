package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rl1809/nft-ownership/internal/core/domain"
	"github.com/rl1809/nft-ownership/internal/core/service"
)

// OwnershipAPI is the part of service.OwnershipService the transports use.
type OwnershipAPI interface {
	ResolveOwnership(ctx context.Context, publicAddress string, collection domain.Collection, network domain.Network) (*domain.OwnershipReport, error)
	Metadata(ctx context.Context, collection domain.Collection, network domain.Network, id domain.CatalogID) (domain.NFTMetadata, error)
	Snapshots(ctx context.Context, publicAddress string, limit int) ([]domain.OwnershipSnapshot, error)
}

type TokenAPI interface {
	ERC20Balance(ctx context.Context, token domain.Token, network domain.Network, publicAddress string) (domain.ERC20Token, error)
	StakedInfo(ctx context.Context, network domain.Network, publicAddress string) (domain.StakedInfo, error)
}

type HTTPHandler struct {
	ownership OwnershipAPI
	tokens    TokenAPI
	logger    *slog.Logger
	check     func(context.Context) error
}

// Response is the envelope of every JSON reply.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func NewHTTPHandler(ownership OwnershipAPI, tokens TokenAPI, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{ownership: ownership, tokens: tokens, logger: logger}
}

// Register mounts every route on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ping", h.Ping)
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /v1/nft/ownership", h.Ownership)
	mux.HandleFunc("GET /v1/nft/ownership/snapshots", h.Snapshots)
	mux.HandleFunc("GET /v1/nft/metadata/{chain_id}/{nft_id}", h.Metadata)
	mux.HandleFunc("GET /v1/erc20/balance", h.ERC20Balance)
	mux.HandleFunc("GET /v1/neco/staked/{chain_id}/{public_address}", h.StakedInfo)
}

func (h *HTTPHandler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("pong"))
}

// SetHealthCheck installs a probe run by /health.
func (h *HTTPHandler) SetHealthCheck(check func(context.Context) error) {
	h.check = check
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.check != nil {
		if err := h.check(r.Context()); err != nil {
			h.logger.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, fail(http.StatusServiceUnavailable, "unhealthy"))
			return
		}
	}
	writeJSON(w, http.StatusOK, ok(map[string]string{"status": "ok"}))
}

// Ownership serves ?chain_id=&game_client=&public_address=.
func (h *HTTPHandler) Ownership(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	network, err := domain.ParseNetwork(query.Get("chain_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	collection, err := domain.ParseCollection(query.Get("game_client"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	report, err := h.ownership.ResolveOwnership(r.Context(), query.Get("public_address"), collection, network)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(report))
}

// Metadata serves /{chain_id}/{nft_id}. game_client is optional and defaults
// to neco fishing.
func (h *HTTPHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	network, err := domain.ParseNetwork(r.PathValue("chain_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	id, err := domain.ParseCatalogID(r.PathValue("nft_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	collection := domain.CollectionNecoFishing
	if raw := r.URL.Query().Get("game_client"); raw != "" {
		collection, err = domain.ParseCollection(raw)
		if err != nil {
			h.writeError(w, err)
			return
		}
	}

	metadata, err := h.ownership.Metadata(r.Context(), collection, network, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(metadata))
}

func (h *HTTPHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, fail(http.StatusBadRequest, "limit is invalid"))
			return
		}
		limit = n
	}

	snapshots, err := h.ownership.Snapshots(r.Context(), query.Get("public_address"), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if snapshots == nil {
		snapshots = []domain.OwnershipSnapshot{}
	}
	writeJSON(w, http.StatusOK, ok(snapshots))
}

// ERC20Balance serves ?chain_id=&contract_type=&public_address=.
func (h *HTTPHandler) ERC20Balance(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	network, err := domain.ParseNetwork(query.Get("chain_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	token, err := domain.ParseToken(query.Get("contract_type"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	balance, err := h.tokens.ERC20Balance(r.Context(), token, network, query.Get("public_address"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(balance))
}

func (h *HTTPHandler) StakedInfo(w http.ResponseWriter, r *http.Request) {
	network, err := domain.ParseNetwork(r.PathValue("chain_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	info, err := h.tokens.StakedInfo(r.Context(), network, r.PathValue("public_address"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(info))
}

// IsInvalidInput reports whether err was caused by the caller's input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, domain.ErrInvalidAddress) ||
		errors.Is(err, domain.ErrInvalidCatalogID) ||
		errors.Is(err, domain.ErrUnsupportedNetwork) ||
		errors.Is(err, domain.ErrUnsupportedCollection) ||
		errors.Is(err, domain.ErrUnsupportedToken)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	if IsInvalidInput(err) {
		writeJSON(w, http.StatusBadRequest, fail(http.StatusBadRequest, err.Error()))
		return
	}

	message := "internal error"
	switch {
	case errors.Is(err, service.ErrSnapshotsDisabled):
		message = "snapshots are disabled"
	case errors.Is(err, service.ErrMetadataUnavailable):
		message = "metadata unavailable"
	}
	h.logger.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, fail(http.StatusInternalServerError, message))
}

func ok(data any) Response {
	return Response{Status: http.StatusOK, Message: "success", Data: data}
}

func fail(status int, message string) Response {
	return Response{Status: status, Message: message}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
