package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/rs/cors"

	"github.com/vaultorx/admin-backend/internal/auth"
	"github.com/vaultorx/admin-backend/internal/config"
	"github.com/vaultorx/admin-backend/internal/dashboard"
	"github.com/vaultorx/admin-backend/internal/handlers"
	"github.com/vaultorx/admin-backend/internal/ledger"
	"github.com/vaultorx/admin-backend/internal/media"
	"github.com/vaultorx/admin-backend/internal/middleware"
	"github.com/vaultorx/admin-backend/internal/minting"
	"github.com/vaultorx/admin-backend/internal/repository"
	"github.com/vaultorx/admin-backend/internal/router"
	"github.com/vaultorx/admin-backend/internal/services"
	"github.com/vaultorx/admin-backend/internal/treasury"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("Cannot reach PostgreSQL. Ensure Postgres is running, e.g. docker-compose up -d", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to PostgreSQL")

	// River migrations
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		slog.Error("Failed to create River migrator", "error", err)
		os.Exit(1)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		slog.Error("River migrate up failed", "error", err)
		os.Exit(1)
	}
	slog.Info("River migrations applied")

	// Repositories
	profileRepo := repository.NewProfileRepo(pool)
	collectionRepo := repository.NewCollectionRepo(pool)
	nftRepo := repository.NewNFTRepo(pool)
	auctionRepo := repository.NewAuctionRepo(pool)
	bidRepo := repository.NewBidRepo(pool)
	walletRepo := repository.NewWalletRepo(pool)
	transactionRepo := repository.NewTransactionRepo(pool)
	withdrawalRepo := treasury.NewWithdrawalRepo(pool)
	depositRepo := treasury.NewDepositRepo(pool)
	mintingRepo := minting.NewRepository(pool)

	// Core services
	ledgerSvc := ledger.NewService(ledger.NewRepository(pool))
	treasurySvc := treasury.NewService(pool, withdrawalRepo, depositRepo, ledgerSvc)
	mintingSvc := minting.NewService(pool, mintingRepo)

	// Auth
	authSvc := auth.NewService(auth.NewRepository(pool), []byte(cfg.JWTSecret))
	if err := authSvc.SeedSuperAdmin(ctx, cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
		slog.Error("Superadmin seed failed", "error", err)
		os.Exit(1)
	}
	authHandler := auth.NewHandler(authSvc, logger)

	// Media ingest pipeline, only when object storage is configured.
	var riverClient *river.Client[pgx.Tx]
	var mediaEnqueuer handlers.MediaEnqueuer
	if cfg.MediaEnabled() {
		store, err := media.NewStore(ctx, cfg.Storage)
		if err != nil {
			slog.Error("Media store init failed", "error", err)
			os.Exit(1)
		}
		workers := river.NewWorkers()
		river.AddWorker(workers, media.NewIngestWorker(store, collectionRepo, nftRepo))

		riverClient, err = river.NewClient(riverpgxv5.New(pool), &river.Config{
			Queues: map[string]river.QueueConfig{
				river.QueueDefault: {MaxWorkers: 5},
			},
			Workers: workers,
		})
		if err != nil {
			slog.Error("Failed to create River client", "error", err)
			os.Exit(1)
		}
		mediaEnqueuer = riverClient
	} else {
		slog.Info("Object storage not configured, media ingest disabled")
	}

	// Attribute schema validation for NFT creation.
	attrValidator, err := services.NewAttributeValidator(cfg.AttributeSchemaPath)
	if err != nil {
		slog.Error("Attribute validator init failed", "error", err)
		os.Exit(1)
	}

	// Handlers
	dashHandler := dashboard.NewHandler(dashboard.NewRepository(pool), logger)
	treasuryHandler := &handlers.TreasuryHandler{
		Withdrawals: withdrawalRepo,
		Deposits:    depositRepo,
		Svc:         treasurySvc,
		Logger:      logger,
	}
	mintingHandler := &handlers.MintingHandler{
		Svc:    mintingSvc,
		Repo:   mintingRepo,
		Logger: logger,
	}
	catalogHandler := &handlers.CatalogHandler{
		Collections: collectionRepo,
		NFTs:        nftRepo,
		Profiles:    profileRepo,
		Attributes:  attrValidator,
		Media:       mediaEnqueuer,
		Logger:      logger,
	}
	platformHandler := &handlers.PlatformHandler{
		Wallets:      walletRepo,
		Auctions:     auctionRepo,
		Bids:         bidRepo,
		Transactions: transactionRepo,
		Profiles:     profileRepo,
		Logger:       logger,
	}

	apiRouter := router.New(
		authHandler,
		dashHandler,
		treasuryHandler,
		mintingHandler,
		catalogHandler,
		platformHandler,
		middleware.AdminAuth(authSvc),
	)

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(mux)

	// Auction sweeper
	sweeper := services.NewAuctionSweeper(auctionRepo, time.Duration(cfg.AuctionSweepInterval)*time.Second, logger)
	if err := sweeper.Start(ctx); err != nil {
		slog.Error("Auction sweeper start failed", "error", err)
		os.Exit(1)
	}
	defer sweeper.Stop()

	// Start River client (processes media jobs)
	if riverClient != nil {
		riverCtx, stopRiver := context.WithCancel(ctx)
		defer stopRiver()
		go func() {
			if err := riverClient.Start(riverCtx); err != nil && riverCtx.Err() == nil {
				slog.Error("River client stopped", "error", err)
			}
		}()
	}

	serverAddr := "0.0.0.0:" + cfg.Port
	slog.Info("Starting HTTP server", "addr", serverAddr)
	if err := http.ListenAndServe(serverAddr, corsHandler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}
