package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"solana-store-bot/internal/bot"
	"solana-store-bot/internal/client"
	"solana-store-bot/internal/config"
	"solana-store-bot/internal/handler"
	"solana-store-bot/internal/logging"
	"solana-store-bot/internal/repository"
	"solana-store-bot/internal/server"
	"solana-store-bot/internal/service"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Init(cfg.Log.Level, cfg.Log.Format)

	if err := validateConfig(cfg); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := client.InitSqliteClient(cfg.DatabasePath)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}

	tgClient := client.NewTelegramClient(&cfg.Telegram)
	verifier := client.NewHeliusClient(&cfg.Helius)

	productRepo := repository.NewProductRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	sessions := service.NewSessionStore(cfg.Store.SessionTTL)
	deliverer := bot.NewTelegramDeliverer(tgClient)

	storeService := service.NewStoreService(productRepo)
	purchaseService := service.NewPurchaseService(productRepo, purchaseRepo, verifier, deliverer, cfg.Store.MinProofLen)
	adminService := service.NewAdminService(productRepo, purchaseRepo, sessions, cfg.Store.AdminIDs)

	storeBot := bot.New(tgClient, sessions, storeService, purchaseService, adminService, cfg.Store.WalletAddress)

	opsHandler := handler.NewOpsHandler(adminService, cfg.Store.AdminIDs[0])
	srv := server.NewServer(opsHandler, cfg.Ops.Token)
	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting bot long poll")
		return storeBot.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", serverAddr)
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sessions.RunReaper(time.Minute, gctx.Done())
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("exited with error", "error", err)
		os.Exit(1)
	}
}

func validateConfig(cfg *config.Config) error {
	if cfg.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.Helius.APIKey == "" {
		return fmt.Errorf("HELIUS_API_KEY is required")
	}
	if cfg.Store.WalletAddress == "" {
		return fmt.Errorf("STORE_WALLET_ADDRESS is required")
	}
	if len(cfg.Store.AdminIDs) == 0 {
		return fmt.Errorf("STORE_ADMIN_IDS is required")
	}
	return nil
}
