package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vaultorx/admin-backend/internal/minting"
	"github.com/vaultorx/admin-backend/internal/models"
)

// MintingService abstracts the minting config workflows.
type MintingService interface {
	CreateConfig(ctx context.Context, rate decimal.Decimal, isActive bool) (*models.MintingConfig, error)
	UpdateConfig(ctx context.Context, id uuid.UUID, rate decimal.Decimal, isActive bool) (*models.MintingConfig, error)
	SetActive(ctx context.Context, id uuid.UUID) error
	DeleteConfig(ctx context.Context, id uuid.UUID) error
}

// ConfigLister is the read-only slice of the minting repository.
type ConfigLister interface {
	List(ctx context.Context) ([]*models.MintingConfig, error)
}

// MintingHandler serves /api/v1/minting-configs.
type MintingHandler struct {
	Svc    MintingService
	Repo   ConfigLister
	Logger *slog.Logger
}

type mintingConfigRequest struct {
	Rate     decimal.Decimal `json:"rate"`
	IsActive bool            `json:"is_active"`
}

// --- GET /api/v1/minting-configs ---

func (h *MintingHandler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repo.List(r.Context())
	if err != nil {
		h.Logger.Error("list minting configs", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.MintingConfig{}
	}
	writeJSON(w, http.StatusOK, list)
}

// --- POST /api/v1/minting-configs ---

func (h *MintingHandler) CreateConfig(w http.ResponseWriter, r *http.Request) {
	var req mintingConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	cfg, err := h.Svc.CreateConfig(r.Context(), req.Rate, req.IsActive)
	if err != nil {
		h.writeMintingError(w, err, "create minting config")
		return
	}
	writeJSON(w, http.StatusCreated, cfg)
}

// --- PATCH /api/v1/minting-configs/{id} ---

func (h *MintingHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/minting-configs/")
	if !ok {
		http.Error(w, `{"error":"invalid config id"}`, http.StatusBadRequest)
		return
	}
	var req mintingConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	cfg, err := h.Svc.UpdateConfig(r.Context(), id, req.Rate, req.IsActive)
	if err != nil {
		h.writeMintingError(w, err, "update minting config")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// --- POST /api/v1/minting-configs/{id}/activate ---

func (h *MintingHandler) ActivateConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/minting-configs/")
	if !ok {
		http.Error(w, `{"error":"invalid config id"}`, http.StatusBadRequest)
		return
	}
	if err := h.Svc.SetActive(r.Context(), id); err != nil {
		h.writeMintingError(w, err, "activate minting config")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- DELETE /api/v1/minting-configs/{id} ---

func (h *MintingHandler) DeleteConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/minting-configs/")
	if !ok {
		http.Error(w, `{"error":"invalid config id"}`, http.StatusBadRequest)
		return
	}
	if err := h.Svc.DeleteConfig(r.Context(), id); err != nil {
		h.writeMintingError(w, err, "delete minting config")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MintingHandler) writeMintingError(w http.ResponseWriter, err error, op string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, minting.ErrConfigNotFound):
		status = http.StatusNotFound
	case errors.Is(err, minting.ErrLastActiveConfig):
		status = http.StatusConflict
	case errors.Is(err, minting.ErrInvalidRate):
		status = http.StatusBadRequest
	default:
		h.Logger.Error(op+" failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
