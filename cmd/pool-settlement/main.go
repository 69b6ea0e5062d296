package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/poolmart/pool-settlement-service/internal/app/background"
	"github.com/poolmart/pool-settlement-service/internal/config"
	deliveryhttp "github.com/poolmart/pool-settlement-service/internal/delivery/http"
	"github.com/poolmart/pool-settlement-service/internal/delivery/http/handlers"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/gateway"
	publisher "github.com/poolmart/pool-settlement-service/internal/infrastructure/kafka"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/metrics"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/migrate"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/repository"
	"github.com/poolmart/pool-settlement-service/internal/usecase/admission"
	"github.com/poolmart/pool-settlement-service/internal/usecase/dispute"
	"github.com/poolmart/pool-settlement-service/internal/usecase/escrow"
	"github.com/poolmart/pool-settlement-service/internal/usecase/payment"
	"github.com/poolmart/pool-settlement-service/internal/usecase/pool"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)
	if cfg.LedgerDB.MigrationPath != "" {
		if err := migrate.RunMigrations(db, cfg.LedgerDB.MigrationPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.Kafka.Host, cfg.Kafka.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)

	// Metrics
	settlementMetrics := metrics.NewSettlementMetrics()

	// Repositories
	poolRepo := repository.NewDefaultPoolRepository(db)
	subRepo := repository.NewDefaultSubscriptionRepository(db)
	intentRepo := repository.NewDefaultPaymentIntentRepository(db)
	escrowRepo := repository.NewDefaultEscrowRepository(db)
	disputeRepo := repository.NewDefaultDisputeRepository(db)

	// Payment gateway
	paymentGateway := gateway.NewPaystackGateway(cfg.Gateway.BaseURL, cfg.Gateway.SecretKey)

	// Usecases
	poolUc := pool.NewDefaultPoolUsecase(poolRepo)
	admissionUc := admission.NewDefaultAdmissionUsecase(
		subRepo,
		poolRepo,
		pub,
		settlementMetrics,
		cfg.Engine.MaxSlotsPerOrder,
		cfg.Engine.ReservationTTL,
	)
	paymentUc := payment.NewDefaultPaymentUsecase(
		intentRepo,
		subRepo,
		poolRepo,
		paymentGateway,
		admissionUc,
		pub,
		settlementMetrics,
		cfg.Engine.BuyerFeeBps,
		cfg.Engine.CommissionBps,
		cfg.Engine.StaleIntentAge,
	)
	escrowUc := escrow.NewDefaultEscrowUsecase(
		escrowRepo,
		poolRepo,
		paymentUc,
		pub,
		settlementMetrics,
	)
	disputeUc := dispute.NewDefaultDisputeUsecase(
		disputeRepo,
		subRepo,
		paymentUc,
		pub,
		settlementMetrics,
	)

	// Background tasks
	go background.StartReservationReaper(context.Background(), admissionUc, cfg.Engine.ReaperInterval)
	go background.StartStaleIntentSweep(context.Background(), paymentUc, cfg.Engine.ReaperInterval)

	// HTTP surface
	router := deliveryhttp.NewRouter(
		handlers.NewPoolHandler(poolUc, admissionUc, escrowUc),
		handlers.NewPaymentHandler(paymentUc),
		handlers.NewEscrowHandler(escrowUc),
		handlers.NewDisputeHandler(disputeUc),
	)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("settlement engine listening on %s\n", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}
