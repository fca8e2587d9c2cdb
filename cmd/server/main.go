package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	api "driveshare-backend/internal/api/http"
	"driveshare-backend/internal/config"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/repository/postgres"
	"driveshare-backend/internal/security"
	"driveshare-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting DriveShare API server...", "log_level", cfg.Log.Level)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	emailService := service.NewEmailService(
		cfg.SMTP.Host,
		fmt.Sprintf("%d", cfg.SMTP.Port),
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)

	escrow := service.EscrowAccount{
		UserID:   cfg.Platform.EscrowUserID,
		Currency: cfg.Platform.Currency,
	}

	bookingService := service.NewBookingService(
		store, store.Bookings, store.Payments, store.Cars, store.Users, emailService, escrow)
	paymentService := service.NewPaymentService(
		store, store.Payments, store.Bookings, store.Wallets, store.Cars, store.Users, emailService, escrow)
	tripService := service.NewTripService(store.Trips, store.Bookings, store.Cars)
	settlementService := service.NewSettlementService(
		store, store.Trips, store.Settlements, store.OwnerTransactions, store.Users,
		emailService, escrow, cfg.Platform.FeePercent)
	withdrawalService := service.NewWithdrawalService(
		store, store.OwnerTransactions, store.Wallets, store.Users, emailService, cfg.Platform.Currency)
	disputeService := service.NewDisputeService(store.Disputes, store.Bookings, store.Cars)
	walletService := service.NewWalletService(store.Wallets, cfg.Platform.Currency)

	tokenManager := security.NewTokenManager(cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute)

	router := api.NewRouter(api.Handlers{
		Bookings:    api.NewBookingHandler(bookingService),
		Payments:    api.NewPaymentHandler(paymentService),
		Trips:       api.NewTripHandler(tripService),
		Settlements: api.NewSettlementHandler(settlementService, withdrawalService, cfg.Platform.FeePercent),
		Wallets:     api.NewWalletHandler(walletService),
		Disputes:    api.NewDisputeHandler(disputeService),
	}, tokenManager, 20, 40)

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	addr := cfg.GetServerAddress()
	logger.Info("HTTP server listening", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}
