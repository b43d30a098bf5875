package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/stayhub/stayhub-backend/internal/booking"
	"github.com/stayhub/stayhub-backend/internal/config"
	"github.com/stayhub/stayhub-backend/internal/database"
	"github.com/stayhub/stayhub-backend/internal/services"
	"github.com/stayhub/stayhub-backend/pkg/logger"
	"github.com/stayhub/stayhub-backend/pkg/utils"
)

// Booking consumer. Runs separately from the API so queue processing keeps
// going through API deploys and restarts.
func main() {
	_ = godotenv.Load()

	logger.InitLoggers()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	queue, err := services.NewBookingQueue(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize booking queue: %v", err)
	}

	mailer, err := utils.NewMailer(cfg)
	if err != nil {
		logger.ErrorLogger.Warnf("mailer disabled: %v", err)
	}

	store := booking.NewStore(db)
	notifier := services.NewBookingNotifier(db, mailer, nil)

	consumer := booking.NewConsumer(queue, store, notifier, logger.InfoLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.InfoLogger.Info("booking consumer started")
	if err := consumer.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Consumer stopped: %v", err)
	}
	logger.InfoLogger.Info("booking consumer stopped")
}
