package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vaultorx/admin-backend/internal/ledger"
	"github.com/vaultorx/admin-backend/internal/models"
	"github.com/vaultorx/admin-backend/internal/treasury"
)

// WithdrawalReader is the slice of the withdrawal repository needed by the
// handler. Creation goes straight to the repo; only transitions move funds.
type WithdrawalReader interface {
	Create(ctx context.Context, w *models.WithdrawalRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error)
	List(ctx context.Context) ([]*models.WithdrawalRequest, error)
}

// DepositReader is the read-only slice of the deposit repository.
type DepositReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.DepositRequest, error)
	List(ctx context.Context) ([]*models.DepositRequest, error)
}

// TreasuryService abstracts the transition workflows so tests can stub them.
type TreasuryService interface {
	ApproveWithdrawal(ctx context.Context, requestID uuid.UUID, prevStatus, newStatus string) (*treasury.TransitionResult, error)
	ApproveDeposit(ctx context.Context, requestID uuid.UUID, prevStatus, newStatus string) (*treasury.TransitionResult, error)
	CreateDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency, transactionHash string) (*models.DepositRequest, error)
}

// TreasuryHandler serves the withdrawal and deposit endpoints.
type TreasuryHandler struct {
	Withdrawals WithdrawalReader
	Deposits    DepositReader
	Svc         TreasuryService
	Logger      *slog.Logger
}

type transitionRequest struct {
	Status string `json:"status"`
}

// --- GET /api/v1/withdrawals ---

func (h *TreasuryHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	list, err := h.Withdrawals.List(r.Context())
	if err != nil {
		h.Logger.Error("list withdrawals", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.WithdrawalRequest{}
	}
	writeJSON(w, http.StatusOK, list)
}

// --- POST /api/v1/withdrawals ---

type createWithdrawalRequest struct {
	UserID             string          `json:"user_id"`
	Amount             decimal.Decimal `json:"amount"`
	WithdrawalFee      decimal.Decimal `json:"withdrawal_fee"`
	Currency           string          `json:"currency"`
	DestinationAddress string          `json:"destination_address"`
	NFTItemID          *uuid.UUID      `json:"nft_item_id"`
}

func (h *TreasuryHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req createWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		http.Error(w, `{"error":"invalid user_id"}`, http.StatusBadRequest)
		return
	}
	if !req.Amount.IsPositive() || req.WithdrawalFee.IsNegative() {
		http.Error(w, `{"error":"amount must be positive and fee non-negative"}`, http.StatusBadRequest)
		return
	}
	if req.DestinationAddress == "" {
		http.Error(w, `{"error":"destination_address is required"}`, http.StatusBadRequest)
		return
	}

	if req.Currency == "" {
		req.Currency = models.DefaultCurrency
	}
	wr := &models.WithdrawalRequest{
		ID:                 uuid.New(),
		UserID:             userID,
		Amount:             req.Amount,
		WithdrawalFee:      req.WithdrawalFee,
		Currency:           req.Currency,
		Status:             models.WithdrawalStatusPending,
		DestinationAddress: req.DestinationAddress,
		NFTItemID:          req.NFTItemID,
	}
	if err := h.Withdrawals.Create(r.Context(), wr); err != nil {
		h.Logger.Error("create withdrawal", "error", err)
		http.Error(w, `{"error":"create failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, wr)
}

// --- PATCH /api/v1/withdrawals/{id}/status ---

// TransitionWithdrawal reads the request's current status and hands the
// transition to the workflow. The response always carries a notice, success
// or error, so the admin UI can surface it verbatim.
func (h *TreasuryHandler) TransitionWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/withdrawals/")
	if !ok {
		http.Error(w, `{"error":"invalid withdrawal id"}`, http.StatusBadRequest)
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	current, err := h.Withdrawals.GetByID(r.Context(), id)
	if err != nil {
		h.writeTransitionError(w, err, "withdrawal transition")
		return
	}

	result, err := h.Svc.ApproveWithdrawal(r.Context(), id, current.Status, req.Status)
	if err != nil {
		h.writeTransitionError(w, err, "withdrawal transition")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- GET /api/v1/deposits ---

func (h *TreasuryHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	list, err := h.Deposits.List(r.Context())
	if err != nil {
		h.Logger.Error("list deposits", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.DepositRequest{}
	}
	writeJSON(w, http.StatusOK, list)
}

// --- POST /api/v1/deposits ---

type createDepositRequest struct {
	UserID          string          `json:"user_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	TransactionHash string          `json:"transaction_hash"`
}

func (h *TreasuryHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	var req createDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		http.Error(w, `{"error":"invalid user_id"}`, http.StatusBadRequest)
		return
	}

	deposit, err := h.Svc.CreateDeposit(r.Context(), userID, req.Amount, req.Currency, req.TransactionHash)
	if err != nil {
		h.writeTransitionError(w, err, "create deposit")
		return
	}
	writeJSON(w, http.StatusCreated, deposit)
}

// --- PATCH /api/v1/deposits/{id}/status ---

func (h *TreasuryHandler) TransitionDeposit(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/deposits/")
	if !ok {
		http.Error(w, `{"error":"invalid deposit id"}`, http.StatusBadRequest)
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	current, err := h.Deposits.GetByID(r.Context(), id)
	if err != nil {
		h.writeTransitionError(w, err, "deposit transition")
		return
	}

	result, err := h.Svc.ApproveDeposit(r.Context(), id, current.Status, req.Status)
	if err != nil {
		h.writeTransitionError(w, err, "deposit transition")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeTransitionError maps workflow errors to status codes and wraps them
// in the notice envelope the admin UI renders.
func (h *TreasuryHandler) writeTransitionError(w http.ResponseWriter, err error, op string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, treasury.ErrRecordNotFound), errors.Is(err, ledger.ErrAccountNotFound):
		status = http.StatusNotFound
	case errors.Is(err, treasury.ErrInvalidTransitionPayload):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrInsufficientBalance):
		status = http.StatusPaymentRequired
	default:
		h.Logger.Error(op+" failed", "error", err)
	}
	writeJSON(w, status, treasury.TransitionResult{Notice: treasury.ErrorNotice(err)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// extractResourceID parses the UUID segment that follows prefix.
// Supports paths like /api/v1/withdrawals/{id} and /api/v1/withdrawals/{id}/status.
func extractResourceID(r *http.Request, prefix string) (uuid.UUID, bool) {
	path := strings.TrimPrefix(r.URL.Path, prefix)
	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
