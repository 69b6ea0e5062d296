package repository

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/models"
)

func newLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:ledger_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.PoolModel{},
		&models.SubscriptionModel{},
		&models.PaymentIntentModel{},
		&models.EscrowModel{},
		&models.DisputeModel{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedPool(t *testing.T, db *gorm.DB, status domain.PoolStatus, slotsCount, slotsFilled int32, pricePerSlot int64) *models.PoolModel {
	t.Helper()
	pool := &models.PoolModel{
		ID:               uuid.NewString(),
		VendorID:         "vendor-1",
		PricePerSlot:     pricePerSlot,
		SlotsCount:       slotsCount,
		SlotsFilled:      slotsFilled,
		DeliveryDeadline: time.Now().Add(72 * time.Hour),
		Status:           status,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := db.Create(pool).Error; err != nil {
		t.Fatalf("seed pool: %v", err)
	}
	return pool
}

func seedSubscription(t *testing.T, db *gorm.DB, poolID, userID string, slots int32, status domain.SubscriptionStatus) *models.SubscriptionModel {
	t.Helper()
	sub := &models.SubscriptionModel{
		ID:        uuid.NewString(),
		PoolID:    poolID,
		UserID:    userID,
		Slots:     slots,
		Status:    status,
		ExpiresAt: time.Now().Add(15 * time.Minute),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return sub
}

func seedEscrow(t *testing.T, db *gorm.DB, poolID string, totalHeld, commissionBps int64) *models.EscrowModel {
	t.Helper()
	escrow := &models.EscrowModel{
		PoolID:        poolID,
		TotalHeld:     totalHeld,
		CommissionBps: commissionBps,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := db.Create(escrow).Error; err != nil {
		t.Fatalf("seed escrow: %v", err)
	}
	return escrow
}

func seedIntent(t *testing.T, db *gorm.DB, subscriptionID, poolID string, escrowAmount int64, status domain.PaymentIntentStatus) *models.PaymentIntentModel {
	t.Helper()
	intent := &models.PaymentIntentModel{
		Reference:      uuid.NewString(),
		SubscriptionID: subscriptionID,
		PoolID:         poolID,
		IdempotencyKey: uuid.NewString(),
		ExpectedAmount: escrowAmount,
		EscrowAmount:   escrowAmount,
		Method:         "card",
		Status:         status,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := db.Create(intent).Error; err != nil {
		t.Fatalf("seed intent: %v", err)
	}
	return intent
}

func seedDispute(t *testing.T, db *gorm.DB, poolID, userID string, status domain.DisputeStatus) *models.DisputeModel {
	t.Helper()
	dispute := &models.DisputeModel{
		ID:             uuid.NewString(),
		PoolID:         poolID,
		RaisedByUserID: userID,
		Reason:         "item not delivered",
		Status:         string(status),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := db.Create(dispute).Error; err != nil {
		t.Fatalf("seed dispute: %v", err)
	}
	return dispute
}
