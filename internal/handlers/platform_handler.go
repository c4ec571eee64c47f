package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vaultorx/admin-backend/internal/models"
	"github.com/vaultorx/admin-backend/internal/repository"
)

type WalletRepoForHandler interface {
	Create(ctx context.Context, w *models.PlatformWallet) error
	GetByAddress(ctx context.Context, address string) (*models.PlatformWallet, error)
	List(ctx context.Context) ([]*models.PlatformWallet, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	Assign(ctx context.Context, id uuid.UUID) error
}

type AuctionRepoForHandler interface {
	Create(ctx context.Context, a *models.Auction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Auction, error)
	List(ctx context.Context) ([]*models.Auction, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}

type BidRepoForHandler interface {
	Create(ctx context.Context, b *models.Bid) error
	ListByAuctionID(ctx context.Context, auctionID uuid.UUID) ([]*models.Bid, error)
}

type TransactionRepoForHandler interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, limit, offset int) ([]*models.Transaction, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error)
}

// PlatformHandler serves the custodial wallet pool, auctions and the
// transaction ledger views.
type PlatformHandler struct {
	Wallets      WalletRepoForHandler
	Auctions     AuctionRepoForHandler
	Bids         BidRepoForHandler
	Transactions TransactionRepoForHandler
	Profiles     ProfileRepoForHandler
	Logger       *slog.Logger
}

// --- GET /api/v1/wallets ---

func (h *PlatformHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	list, err := h.Wallets.List(r.Context())
	if err != nil {
		h.Logger.Error("list wallets", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.PlatformWallet{}
	}
	writeJSON(w, http.StatusOK, list)
}

// --- POST /api/v1/wallets ---

type createWalletRequest struct {
	Address string `json:"address"`
	Index   int    `json:"index"`
}

func (h *PlatformHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Address == "" {
		http.Error(w, `{"error":"address is required"}`, http.StatusBadRequest)
		return
	}
	wallet := &models.PlatformWallet{
		ID:      uuid.New(),
		Address: req.Address,
		Index:   req.Index,
		Status:  models.WalletStatusAvailable,
	}
	if err := h.Wallets.Create(r.Context(), wallet); err != nil {
		h.Logger.Error("create wallet", "error", err)
		http.Error(w, `{"error":"create failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, wallet)
}

// --- PATCH /api/v1/wallets/{id}/status ---

func (h *PlatformHandler) SetWalletStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/wallets/")
	if !ok {
		http.Error(w, `{"error":"invalid wallet id"}`, http.StatusBadRequest)
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	switch req.Status {
	case models.WalletStatusAvailable, models.WalletStatusAssigned,
		models.WalletStatusMaintenance, models.WalletStatusDisabled:
	default:
		http.Error(w, `{"error":"invalid wallet status"}`, http.StatusBadRequest)
		return
	}
	if err := h.Wallets.SetStatus(r.Context(), id, req.Status); err != nil {
		h.Logger.Error("set wallet status", "error", err)
		http.Error(w, `{"error":"update failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- POST /api/v1/wallets/assign ---

type assignWalletRequest struct {
	Address string `json:"address"`
	UserID  string `json:"user_id"`
}

// AssignWallet hands an available pool wallet to a user and records the
// address on the profile.
func (h *PlatformHandler) AssignWallet(w http.ResponseWriter, r *http.Request) {
	var req assignWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		http.Error(w, `{"error":"invalid user_id"}`, http.StatusBadRequest)
		return
	}
	wallet, err := h.Wallets.GetByAddress(r.Context(), req.Address)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, `{"error":"wallet not found"}`, http.StatusNotFound)
			return
		}
		h.Logger.Error("assign wallet", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if wallet.Status != models.WalletStatusAvailable {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "wallet is " + wallet.Status})
		return
	}
	profile, err := h.Profiles.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, `{"error":"profile not found"}`, http.StatusNotFound)
			return
		}
		h.Logger.Error("assign wallet", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if err := h.Wallets.Assign(r.Context(), wallet.ID); err != nil {
		h.Logger.Error("assign wallet", "error", err)
		http.Error(w, `{"error":"update failed"}`, http.StatusInternalServerError)
		return
	}
	profile.AssignedWallet = &wallet.Address
	if err := h.Profiles.Update(r.Context(), profile); err != nil {
		h.Logger.Error("assign wallet", "error", err)
		http.Error(w, `{"error":"update failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"address": wallet.Address,
		"user_id": userID.String(),
		"status":  models.WalletStatusAssigned,
	})
}

// --- GET /api/v1/auctions ---

func (h *PlatformHandler) ListAuctions(w http.ResponseWriter, r *http.Request) {
	list, err := h.Auctions.List(r.Context())
	if err != nil {
		h.Logger.Error("list auctions", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.Auction{}
	}
	writeJSON(w, http.StatusOK, list)
}

// --- POST /api/v1/auctions ---

type createAuctionRequest struct {
	NFTItemID     string           `json:"nft_item_id"`
	Type          string           `json:"type"`
	StartingPrice decimal.Decimal  `json:"starting_price"`
	ReservePrice  *decimal.Decimal `json:"reserve_price"`
	StartTime     time.Time        `json:"start_time"`
	EndTime       time.Time        `json:"end_time"`
}

func (h *PlatformHandler) CreateAuction(w http.ResponseWriter, r *http.Request) {
	var req createAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	nftID, err := uuid.Parse(req.NFTItemID)
	if err != nil {
		http.Error(w, `{"error":"invalid nft_item_id"}`, http.StatusBadRequest)
		return
	}
	if !req.EndTime.After(req.StartTime) {
		http.Error(w, `{"error":"end_time must be after start_time"}`, http.StatusBadRequest)
		return
	}

	status := models.AuctionStatusUpcoming
	if !req.StartTime.After(time.Now()) {
		status = models.AuctionStatusLive
	}
	a := &models.Auction{
		ID:            uuid.New(),
		NFTItemID:     nftID,
		Type:          req.Type,
		Status:        status,
		StartingPrice: req.StartingPrice,
		ReservePrice:  req.ReservePrice,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	}
	if err := h.Auctions.Create(r.Context(), a); err != nil {
		h.Logger.Error("create auction", "error", err)
		http.Error(w, `{"error":"create failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// --- POST /api/v1/auctions/{id}/cancel ---

func (h *PlatformHandler) CancelAuction(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/auctions/")
	if !ok {
		http.Error(w, `{"error":"invalid auction id"}`, http.StatusBadRequest)
		return
	}
	a, err := h.Auctions.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		h.Logger.Error("cancel auction", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if a.Status == models.AuctionStatusEnded || a.Status == models.AuctionStatusCancelled {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "auction already " + a.Status})
		return
	}
	if err := h.Auctions.SetStatus(r.Context(), id, models.AuctionStatusCancelled); err != nil {
		h.Logger.Error("cancel auction", "error", err)
		http.Error(w, `{"error":"update failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": models.AuctionStatusCancelled})
}

// --- GET /api/v1/auctions/{id}/bids ---

func (h *PlatformHandler) ListBids(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/auctions/")
	if !ok {
		http.Error(w, `{"error":"invalid auction id"}`, http.StatusBadRequest)
		return
	}
	bids, err := h.Bids.ListByAuctionID(r.Context(), id)
	if err != nil {
		h.Logger.Error("list bids", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if bids == nil {
		bids = []*models.Bid{}
	}
	writeJSON(w, http.StatusOK, bids)
}

// --- POST /api/v1/auctions/{id}/bids ---

type placeBidRequest struct {
	BidderID string          `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
}

func (h *PlatformHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/auctions/")
	if !ok {
		http.Error(w, `{"error":"invalid auction id"}`, http.StatusBadRequest)
		return
	}
	var req placeBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	bidderID, err := uuid.Parse(req.BidderID)
	if err != nil {
		http.Error(w, `{"error":"invalid bidder_id"}`, http.StatusBadRequest)
		return
	}
	a, err := h.Auctions.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		h.Logger.Error("place bid", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if a.Status != models.AuctionStatusLive {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "auction is " + a.Status})
		return
	}
	if req.Amount.LessThan(a.StartingPrice) {
		http.Error(w, `{"error":"bid below starting price"}`, http.StatusBadRequest)
		return
	}
	bid := &models.Bid{
		ID:        uuid.New(),
		AuctionID: id,
		BidderID:  bidderID,
		Amount:    req.Amount,
	}
	if err := h.Bids.Create(r.Context(), bid); err != nil {
		h.Logger.Error("place bid", "error", err)
		http.Error(w, `{"error":"create failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, bid)
}

// --- GET /api/v1/transactions ---

// ListTransactions serves the paginated ledger view. A user_id query
// parameter narrows the listing to a single account.
func (h *PlatformHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, `{"error":"invalid user_id"}`, http.StatusBadRequest)
			return
		}
		list, err := h.Transactions.ListByUserID(r.Context(), userID)
		if err != nil {
			h.Logger.Error("list transactions", "error", err)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []*models.Transaction{}
		}
		writeJSON(w, http.StatusOK, list)
		return
	}

	limit := parseIntParam(r, "limit", 50)
	offset := parseIntParam(r, "offset", 0)
	list, err := h.Transactions.List(r.Context(), limit, offset)
	if err != nil {
		h.Logger.Error("list transactions", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.Transaction{}
	}
	writeJSON(w, http.StatusOK, list)
}

// --- GET /api/v1/transactions/{id} ---

func (h *PlatformHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/transactions/")
	if !ok {
		http.Error(w, `{"error":"invalid transaction id"}`, http.StatusBadRequest)
		return
	}
	tx, err := h.Transactions.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		h.Logger.Error("get transaction", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
