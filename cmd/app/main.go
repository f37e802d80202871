package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightledger/config"
	"github.com/Domenick1991/flightledger/internal/bootstrap"
	"github.com/Domenick1991/flightledger/internal/cache"
	"github.com/Domenick1991/flightledger/internal/kafka"
	"github.com/Domenick1991/flightledger/internal/logger"
	"github.com/Domenick1991/flightledger/internal/metrics"
	"github.com/Domenick1991/flightledger/internal/repository"
	"github.com/Domenick1991/flightledger/internal/service/catalog"
	"github.com/Domenick1991/flightledger/internal/service/ledger"
	"github.com/Domenick1991/flightledger/internal/service/settlement"
	"github.com/Domenick1991/flightledger/internal/treasury"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	log := logger.NewLogger()

	_ = godotenv.Load()
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal("load config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal("connect postgres", "error", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Settlement.LockTTLSeconds)*time.Second)
	defer redisCache.Close()
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	mtr := metrics.NewMetrics("flightledger")

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)

	engine := settlement.NewEngine(
		treasury.NewPGTreasury(pool, "escrow"),
		cfg.Settlement.PlatformOwner,
		cfg.Settlement.TaxPercent,
		cfg.Settlement.SecurityFee,
		log,
		settlement.WithMetrics(mtr),
	)

	catalogService := catalog.NewCatalogService(flightRepo, producer, cfg.Kafka.LedgerEventsTopic, log)
	ledgerService := ledger.NewLedgerService(
		bookingRepo,
		flightRepo,
		reviewRepo,
		engine,
		redisCache,
		producer,
		cfg.Kafka.LedgerEventsTopic,
		log,
		ledger.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		ledger.WithMetrics(mtr),
	)

	if err := bootstrap.Run(ctx, cfg, catalogService, ledgerService); err != nil {
		log.Fatal("server error", "error", err)
	}
}
