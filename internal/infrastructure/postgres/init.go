package postgres

import (
	"log"

	"github.com/poolmart/pool-settlement-service/internal/config"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.SettlementConfig) *gorm.DB {
	dsn := cfg.LedgerDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.PoolModel{},
		&models.SubscriptionModel{},
		&models.PaymentIntentModel{},
		&models.EscrowModel{},
		&models.DisputeModel{},
	)

	return db
}
