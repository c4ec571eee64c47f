package router

import (
	"net/http"
	"strings"

	"github.com/vaultorx/admin-backend/internal/auth"
	"github.com/vaultorx/admin-backend/internal/dashboard"
	"github.com/vaultorx/admin-backend/internal/handlers"
)

// New returns an http.Handler that serves the admin API under /api/v1.
// Everything except /auth/login sits behind the admin JWT middleware.
func New(
	authHandler *auth.Handler,
	dashHandler *dashboard.Handler,
	treasuryHandler *handlers.TreasuryHandler,
	mintingHandler *handlers.MintingHandler,
	catalogHandler *handlers.CatalogHandler,
	platformHandler *handlers.PlatformHandler,
	adminAuth func(http.Handler) http.Handler,
) http.Handler {
	mux := http.NewServeMux()
	base := "/api/v1"

	mux.HandleFunc(base+"/auth/login", methodPOST(authHandler.Login))

	protect := func(h http.HandlerFunc) http.Handler {
		return adminAuth(h)
	}

	mux.Handle(base+"/dashboard", protect(methodGET(dashHandler.GetStats)))

	mux.Handle(base+"/withdrawals", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			treasuryHandler.ListWithdrawals(w, r)
		case http.MethodPost:
			treasuryHandler.CreateWithdrawal(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle(base+"/withdrawals/", protect(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/status") {
			treasuryHandler.TransitionWithdrawal(w, r)
			return
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}))

	mux.Handle(base+"/deposits", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			treasuryHandler.ListDeposits(w, r)
		case http.MethodPost:
			treasuryHandler.CreateDeposit(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle(base+"/deposits/", protect(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/status") {
			treasuryHandler.TransitionDeposit(w, r)
			return
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}))

	mux.Handle(base+"/minting-configs", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			mintingHandler.ListConfigs(w, r)
		case http.MethodPost:
			mintingHandler.CreateConfig(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle(base+"/minting-configs/", protect(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/activate"):
			mintingHandler.ActivateConfig(w, r)
		case r.Method == http.MethodPatch:
			mintingHandler.UpdateConfig(w, r)
		case r.Method == http.MethodDelete:
			mintingHandler.DeleteConfig(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.Handle(base+"/collections", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			catalogHandler.ListCollections(w, r)
		case http.MethodPost:
			catalogHandler.CreateCollection(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle(base+"/collections/", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			catalogHandler.GetCollection(w, r)
		case http.MethodPatch:
			catalogHandler.UpdateCollection(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.Handle(base+"/nfts", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			catalogHandler.ListNFTs(w, r)
		case http.MethodPost:
			catalogHandler.CreateNFT(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle(base+"/nfts/", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			catalogHandler.GetNFT(w, r)
		case http.MethodPatch:
			catalogHandler.UpdateNFT(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.Handle(base+"/profiles", protect(methodGET(catalogHandler.ListProfiles)))
	mux.Handle(base+"/profiles/", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			catalogHandler.GetProfile(w, r)
		case http.MethodPatch:
			catalogHandler.UpdateProfile(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.Handle(base+"/wallets", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			platformHandler.ListWallets(w, r)
		case http.MethodPost:
			platformHandler.CreateWallet(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle(base+"/wallets/", protect(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == base+"/wallets/assign":
			platformHandler.AssignWallet(w, r)
		case r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/status"):
			platformHandler.SetWalletStatus(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.Handle(base+"/auctions", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			platformHandler.ListAuctions(w, r)
		case http.MethodPost:
			platformHandler.CreateAuction(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle(base+"/auctions/", protect(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/cancel"):
			platformHandler.CancelAuction(w, r)
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/bids"):
			platformHandler.ListBids(w, r)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/bids"):
			platformHandler.PlaceBid(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.Handle(base+"/transactions", protect(methodGET(platformHandler.ListTransactions)))
	mux.Handle(base+"/transactions/", protect(methodGET(platformHandler.GetTransaction)))

	return mux
}

func methodGET(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func methodPOST(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}
