package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightledger/config"
	"github.com/Domenick1991/flightledger/internal/email"
	"github.com/Domenick1991/flightledger/internal/kafka"
	"github.com/Domenick1991/flightledger/internal/logger"
	"github.com/Domenick1991/flightledger/internal/repository"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal("connect postgres", "error", err)
	}
	defer pool.Close()

	flightRepo := repository.NewFlightRepository(pool)

	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil {
			log.Warn("consumer stopped", "error", err)
		}
	}()

	auditTicker := time.NewTicker(time.Duration(cfg.Worker.AuditSweepMinutes) * time.Minute)
	defer auditTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-auditTicker.C:
			violations, err := flightRepo.Audit(ctx)
			if err != nil {
				log.Error("inventory audit", "error", err)
				continue
			}
			for _, f := range violations {
				log.Error("seat invariant violated",
					"flight_id", f.ID,
					"available_seats", f.AvailableSeats,
					"total_seats", f.TotalSeats,
				)
			}
		case s := <-sig:
			log.Info("received signal, shutting down", "signal", s.String())
			return
		}
	}
}
