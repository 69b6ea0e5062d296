package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/models"
)

func TestConfirmPayment_CreatesEscrowAndConfirms(t *testing.T) {
	db := newLedgerDB(t)
	repo := NewDefaultPaymentIntentRepository(db)
	pool := seedPool(t, db, domain.PoolFilled, 5, 5, 100_000)
	sub := seedSubscription(t, db, pool.ID, "buyer-1", 5, domain.SubscriptionPending)
	intent := seedIntent(t, db, sub.ID, pool.ID, 500_000, domain.PaymentInitiated)

	outcome, err := repo.ConfirmPayment(context.Background(), intent.Reference, 500)
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if outcome.AlreadyConfirmed {
		t.Fatalf("first confirmation reported as replay")
	}
	if outcome.Intent.Status != domain.PaymentConfirmed {
		t.Fatalf("intent status = %s", outcome.Intent.Status)
	}
	if outcome.Subscription.Status != domain.SubscriptionConfirmed {
		t.Fatalf("subscription status = %s", outcome.Subscription.Status)
	}

	var escrow models.EscrowModel
	if err := db.First(&escrow, "pool_id = ?", pool.ID).Error; err != nil {
		t.Fatalf("escrow not created: %v", err)
	}
	if escrow.TotalHeld != 500_000 {
		t.Fatalf("total_held = %d, want 500000", escrow.TotalHeld)
	}
	if escrow.CommissionBps != 500 {
		t.Fatalf("commission_bps = %d, want 500", escrow.CommissionBps)
	}
}

func TestConfirmPayment_ReplayCreditsOnce(t *testing.T) {
	db := newLedgerDB(t)
	repo := NewDefaultPaymentIntentRepository(db)
	pool := seedPool(t, db, domain.PoolFilled, 5, 5, 100_000)
	sub := seedSubscription(t, db, pool.ID, "buyer-1", 5, domain.SubscriptionPending)
	intent := seedIntent(t, db, sub.ID, pool.ID, 500_000, domain.PaymentInitiated)

	if _, err := repo.ConfirmPayment(context.Background(), intent.Reference, 500); err != nil {
		t.Fatalf("first ConfirmPayment: %v", err)
	}
	outcome, err := repo.ConfirmPayment(context.Background(), intent.Reference, 500)
	if err != nil {
		t.Fatalf("second ConfirmPayment: %v", err)
	}
	if !outcome.AlreadyConfirmed {
		t.Fatalf("replay not detected")
	}

	var escrow models.EscrowModel
	db.First(&escrow, "pool_id = ?", pool.ID)
	if escrow.TotalHeld != 500_000 {
		t.Fatalf("escrow double-credited: total_held = %d", escrow.TotalHeld)
	}
}

func TestConfirmPayment_AccumulatesEscrowAcrossBuyers(t *testing.T) {
	db := newLedgerDB(t)
	repo := NewDefaultPaymentIntentRepository(db)
	pool := seedPool(t, db, domain.PoolOpen, 10, 5, 100_000)
	subA := seedSubscription(t, db, pool.ID, "buyer-a", 3, domain.SubscriptionPending)
	subB := seedSubscription(t, db, pool.ID, "buyer-b", 2, domain.SubscriptionPending)
	intentA := seedIntent(t, db, subA.ID, pool.ID, 300_000, domain.PaymentInitiated)
	intentB := seedIntent(t, db, subB.ID, pool.ID, 200_000, domain.PaymentInitiated)

	if _, err := repo.ConfirmPayment(context.Background(), intentA.Reference, 500); err != nil {
		t.Fatalf("confirm A: %v", err)
	}
	if _, err := repo.ConfirmPayment(context.Background(), intentB.Reference, 500); err != nil {
		t.Fatalf("confirm B: %v", err)
	}

	var escrow models.EscrowModel
	db.First(&escrow, "pool_id = ?", pool.ID)
	if escrow.TotalHeld != 500_000 {
		t.Fatalf("total_held = %d, want 500000", escrow.TotalHeld)
	}
}

func TestConfirmPayment_FailedIsNotConfirmable(t *testing.T) {
	db := newLedgerDB(t)
	repo := NewDefaultPaymentIntentRepository(db)
	pool := seedPool(t, db, domain.PoolOpen, 5, 2, 100_000)
	sub := seedSubscription(t, db, pool.ID, "buyer-1", 2, domain.SubscriptionPending)
	intent := seedIntent(t, db, sub.ID, pool.ID, 200_000, domain.PaymentFailed)

	_, err := repo.ConfirmPayment(context.Background(), intent.Reference, 500)
	if !errors.Is(err, domain.ErrIntentNotConfirmable) {
		t.Fatalf("want ErrIntentNotConfirmable, got %v", err)
	}
}

func TestConfirmPayment_CancelledSubscriptionRefused(t *testing.T) {
	db := newLedgerDB(t)
	repo := NewDefaultPaymentIntentRepository(db)
	pool := seedPool(t, db, domain.PoolOpen, 5, 2, 100_000)
	sub := seedSubscription(t, db, pool.ID, "buyer-1", 2, domain.SubscriptionCancelled)
	intent := seedIntent(t, db, sub.ID, pool.ID, 200_000, domain.PaymentInitiated)

	_, err := repo.ConfirmPayment(context.Background(), intent.Reference, 500)
	if !errors.Is(err, domain.ErrIntentNotConfirmable) {
		t.Fatalf("want ErrIntentNotConfirmable, got %v", err)
	}

	var count int64
	db.Model(&models.EscrowModel{}).Where("pool_id = ?", pool.ID).Count(&count)
	if count != 0 {
		t.Fatalf("escrow credited for a cancelled subscription")
	}
}

func TestMarkFailed_ConfirmedStaysConfirmed(t *testing.T) {
	db := newLedgerDB(t)
	repo := NewDefaultPaymentIntentRepository(db)
	pool := seedPool(t, db, domain.PoolOpen, 5, 2, 100_000)
	sub := seedSubscription(t, db, pool.ID, "buyer-1", 2, domain.SubscriptionPending)
	intent := seedIntent(t, db, sub.ID, pool.ID, 200_000, domain.PaymentConfirmed)

	failed, err := repo.MarkFailed(context.Background(), intent.Reference, "timeout")
	if err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if failed {
		t.Fatalf("confirmed intent was marked failed")
	}

	got, err := repo.GetIntentByReference(context.Background(), intent.Reference)
	if err != nil {
		t.Fatalf("GetIntentByReference: %v", err)
	}
	if got.Status != domain.PaymentConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", got.Status)
	}
}

func TestGetIntentByIdempotencyKey(t *testing.T) {
	db := newLedgerDB(t)
	repo := NewDefaultPaymentIntentRepository(db)
	pool := seedPool(t, db, domain.PoolOpen, 5, 2, 100_000)
	sub := seedSubscription(t, db, pool.ID, "buyer-1", 2, domain.SubscriptionPending)
	intent := seedIntent(t, db, sub.ID, pool.ID, 200_000, domain.PaymentInitiated)

	got, err := repo.GetIntentByIdempotencyKey(context.Background(), intent.IdempotencyKey)
	if err != nil {
		t.Fatalf("GetIntentByIdempotencyKey: %v", err)
	}
	if got.Reference != intent.Reference {
		t.Fatalf("reference = %s, want %s", got.Reference, intent.Reference)
	}

	if _, err := repo.GetIntentByIdempotencyKey(context.Background(), "missing"); !errors.Is(err, domain.ErrIntentNotFound) {
		t.Fatalf("want ErrIntentNotFound, got %v", err)
	}
}
