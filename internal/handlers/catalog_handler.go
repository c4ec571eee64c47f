package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/shopspring/decimal"

	"github.com/vaultorx/admin-backend/internal/media"
	"github.com/vaultorx/admin-backend/internal/models"
	"github.com/vaultorx/admin-backend/internal/repository"
	"github.com/vaultorx/admin-backend/internal/services"
)

// CollectionRepoForHandler is the subset of the collection repository the
// catalog endpoints use.
type CollectionRepoForHandler interface {
	Create(ctx context.Context, c *models.Collection) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	List(ctx context.Context) ([]*models.Collection, error)
	Update(ctx context.Context, c *models.Collection) error
}

type NFTRepoForHandler interface {
	Create(ctx context.Context, n *models.NFTItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.NFTItem, error)
	List(ctx context.Context) ([]*models.NFTItem, error)
	Update(ctx context.Context, n *models.NFTItem) error
}

type ProfileRepoForHandler interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
}

// MediaEnqueuer inserts media ingest jobs. Nil when storage is not configured.
type MediaEnqueuer interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// CatalogHandler serves collections, NFT items and profiles.
type CatalogHandler struct {
	Collections CollectionRepoForHandler
	NFTs        NFTRepoForHandler
	Profiles    ProfileRepoForHandler
	Attributes  *services.AttributeValidator
	Media       MediaEnqueuer
	Logger      *slog.Logger
}

// --- GET /api/v1/collections ---

func (h *CatalogHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	list, err := h.Collections.List(r.Context())
	if err != nil {
		h.Logger.Error("list collections", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.Collection{}
	}
	writeJSON(w, http.StatusOK, list)
}

// --- POST /api/v1/collections ---

type createCollectionRequest struct {
	Name            string `json:"name"`
	ContractAddress string `json:"contract_address"`
	CreatorID       string `json:"creator_id"`
	Verified        bool   `json:"verified"`
	ImageURL        string `json:"image_url"`
}

func (h *CatalogHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, `{"error":"name is required"}`, http.StatusBadRequest)
		return
	}
	creatorID, err := uuid.Parse(req.CreatorID)
	if err != nil {
		http.Error(w, `{"error":"invalid creator_id"}`, http.StatusBadRequest)
		return
	}

	c := &models.Collection{
		ID:              uuid.New(),
		Name:            req.Name,
		ContractAddress: req.ContractAddress,
		CreatorID:       creatorID,
		Verified:        req.Verified,
		FloorPrice:      decimal.Zero,
		TotalVolume:     decimal.Zero,
	}
	if err := h.Collections.Create(r.Context(), c); err != nil {
		h.Logger.Error("create collection", "error", err)
		http.Error(w, `{"error":"create failed"}`, http.StatusInternalServerError)
		return
	}

	h.enqueueMedia(r.Context(), media.ResourceCollection, c.ID, req.ImageURL)
	writeJSON(w, http.StatusCreated, c)
}

// --- GET /api/v1/collections/{id} ---

func (h *CatalogHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/collections/")
	if !ok {
		http.Error(w, `{"error":"invalid collection id"}`, http.StatusBadRequest)
		return
	}
	c, err := h.Collections.GetByID(r.Context(), id)
	if err != nil {
		h.writeCatalogError(w, err, "get collection")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// --- PATCH /api/v1/collections/{id} ---

type updateCollectionRequest struct {
	Name       *string          `json:"name"`
	Verified   *bool            `json:"verified"`
	FloorPrice *decimal.Decimal `json:"floor_price"`
	ImageURL   string           `json:"image_url"`
}

func (h *CatalogHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/collections/")
	if !ok {
		http.Error(w, `{"error":"invalid collection id"}`, http.StatusBadRequest)
		return
	}
	c, err := h.Collections.GetByID(r.Context(), id)
	if err != nil {
		h.writeCatalogError(w, err, "update collection")
		return
	}

	var req updateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Name != nil {
		if *req.Name == "" {
			http.Error(w, `{"error":"name cannot be empty"}`, http.StatusBadRequest)
			return
		}
		c.Name = *req.Name
	}
	if req.Verified != nil {
		c.Verified = *req.Verified
	}
	if req.FloorPrice != nil {
		if req.FloorPrice.IsNegative() {
			http.Error(w, `{"error":"floor_price cannot be negative"}`, http.StatusBadRequest)
			return
		}
		c.FloorPrice = *req.FloorPrice
	}

	if err := h.Collections.Update(r.Context(), c); err != nil {
		h.Logger.Error("update collection", "error", err)
		http.Error(w, `{"error":"update failed"}`, http.StatusInternalServerError)
		return
	}

	h.enqueueMedia(r.Context(), media.ResourceCollection, c.ID, req.ImageURL)
	writeJSON(w, http.StatusOK, c)
}

// --- GET /api/v1/nfts ---

func (h *CatalogHandler) ListNFTs(w http.ResponseWriter, r *http.Request) {
	list, err := h.NFTs.List(r.Context())
	if err != nil {
		h.Logger.Error("list nfts", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.NFTItem{}
	}
	writeJSON(w, http.StatusOK, list)
}

// --- POST /api/v1/nfts ---

type createNFTRequest struct {
	CollectionID string           `json:"collection_id"`
	OwnerID      string           `json:"owner_id"`
	Name         string           `json:"name"`
	Attributes   json.RawMessage  `json:"attributes"`
	Rarity       string           `json:"rarity"`
	ListPrice    *decimal.Decimal `json:"list_price"`
	ImageURL     string           `json:"image_url"`
}

func (h *CatalogHandler) CreateNFT(w http.ResponseWriter, r *http.Request) {
	var req createNFTRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, `{"error":"name is required"}`, http.StatusBadRequest)
		return
	}
	collectionID, err := uuid.Parse(req.CollectionID)
	if err != nil {
		http.Error(w, `{"error":"invalid collection_id"}`, http.StatusBadRequest)
		return
	}
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		http.Error(w, `{"error":"invalid owner_id"}`, http.StatusBadRequest)
		return
	}

	attrs, err := services.Normalize(req.Attributes)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	if err := h.Attributes.Validate(attrs); err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		h.Logger.Error("validate attributes", "error", err)
		http.Error(w, `{"error":"attribute validation failed"}`, http.StatusBadRequest)
		return
	}

	rarity := req.Rarity
	if rarity == "" {
		rarity = models.RarityCommon
	}

	n := &models.NFTItem{
		ID:           uuid.New(),
		CollectionID: collectionID,
		OwnerID:      ownerID,
		Name:         req.Name,
		Attributes:   attrs,
		IsListed:     req.ListPrice != nil,
		ListPrice:    req.ListPrice,
		Rarity:       rarity,
	}
	if err := h.NFTs.Create(r.Context(), n); err != nil {
		h.Logger.Error("create nft", "error", err)
		http.Error(w, `{"error":"create failed"}`, http.StatusInternalServerError)
		return
	}

	h.enqueueMedia(r.Context(), media.ResourceNFT, n.ID, req.ImageURL)
	writeJSON(w, http.StatusCreated, n)
}

// --- GET /api/v1/nfts/{id} ---

func (h *CatalogHandler) GetNFT(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/nfts/")
	if !ok {
		http.Error(w, `{"error":"invalid nft id"}`, http.StatusBadRequest)
		return
	}
	n, err := h.NFTs.GetByID(r.Context(), id)
	if err != nil {
		h.writeCatalogError(w, err, "get nft")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// --- PATCH /api/v1/nfts/{id} ---

type updateNFTRequest struct {
	Name       *string          `json:"name"`
	Attributes json.RawMessage  `json:"attributes"`
	Rarity     *string          `json:"rarity"`
	ListPrice  *decimal.Decimal `json:"list_price"`
	IsListed   *bool            `json:"is_listed"`
	ImageURL   string           `json:"image_url"`
}

func (h *CatalogHandler) UpdateNFT(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/nfts/")
	if !ok {
		http.Error(w, `{"error":"invalid nft id"}`, http.StatusBadRequest)
		return
	}
	n, err := h.NFTs.GetByID(r.Context(), id)
	if err != nil {
		h.writeCatalogError(w, err, "update nft")
		return
	}

	var req updateNFTRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Attributes != nil {
		attrs, err := services.Normalize(req.Attributes)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		if err := h.Attributes.Validate(attrs); err != nil {
			if errors.Is(err, services.ErrValidation) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
				return
			}
			h.Logger.Error("validate attributes", "error", err)
			http.Error(w, `{"error":"attribute validation failed"}`, http.StatusBadRequest)
			return
		}
		n.Attributes = attrs
	}
	if req.Name != nil {
		if *req.Name == "" {
			http.Error(w, `{"error":"name cannot be empty"}`, http.StatusBadRequest)
			return
		}
		n.Name = *req.Name
	}
	if req.Rarity != nil {
		n.Rarity = *req.Rarity
	}
	if req.ListPrice != nil {
		n.ListPrice = req.ListPrice
		n.IsListed = true
	}
	if req.IsListed != nil {
		n.IsListed = *req.IsListed
	}

	if err := h.NFTs.Update(r.Context(), n); err != nil {
		h.Logger.Error("update nft", "error", err)
		http.Error(w, `{"error":"update failed"}`, http.StatusInternalServerError)
		return
	}

	h.enqueueMedia(r.Context(), media.ResourceNFT, n.ID, req.ImageURL)
	writeJSON(w, http.StatusOK, n)
}

// --- GET /api/v1/profiles ---

func (h *CatalogHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	list, err := h.Profiles.List(r.Context())
	if err != nil {
		h.Logger.Error("list profiles", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.Profile{}
	}
	writeJSON(w, http.StatusOK, list)
}

// --- GET /api/v1/profiles/{id} ---

func (h *CatalogHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/profiles/")
	if !ok {
		http.Error(w, `{"error":"invalid profile id"}`, http.StatusBadRequest)
		return
	}
	p, err := h.Profiles.GetByID(r.Context(), id)
	if err != nil {
		h.writeCatalogError(w, err, "get profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- PATCH /api/v1/profiles/{id} ---

type updateProfileRequest struct {
	Email     *string `json:"email"`
	Username  *string `json:"username"`
	Role      *string `json:"role"`
	KYCStatus *string `json:"kyc_status"`
}

// UpdateProfile edits profile identity fields. Wallet balance is not
// editable here; it only moves through the treasury workflows.
func (h *CatalogHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := extractResourceID(r, "/api/v1/profiles/")
	if !ok {
		http.Error(w, `{"error":"invalid profile id"}`, http.StatusBadRequest)
		return
	}
	p, err := h.Profiles.GetByID(r.Context(), id)
	if err != nil {
		h.writeCatalogError(w, err, "update profile")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.Username != nil {
		p.Username = *req.Username
	}
	if req.Role != nil {
		p.Role = *req.Role
	}
	if req.KYCStatus != nil {
		p.KYCStatus = *req.KYCStatus
	}

	if err := h.Profiles.Update(r.Context(), p); err != nil {
		h.Logger.Error("update profile", "error", err)
		http.Error(w, `{"error":"update failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- helpers ---

// enqueueMedia schedules the ingest job. Missing URL or disabled storage is
// not an error; the row just keeps a nil image.
func (h *CatalogHandler) enqueueMedia(ctx context.Context, resourceType string, id uuid.UUID, sourceURL string) {
	if h.Media == nil || sourceURL == "" {
		return
	}
	_, err := h.Media.Insert(ctx, media.IngestArgs{
		ResourceType: resourceType,
		ResourceID:   id,
		SourceURL:    sourceURL,
	}, nil)
	if err != nil {
		h.Logger.Error("enqueue media ingest", "resource_type", resourceType, "resource_id", id, "error", err)
	}
}

func (h *CatalogHandler) writeCatalogError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	h.Logger.Error(op+" failed", "error", err)
	http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
}
