package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	publisher "github.com/poolmart/pool-settlement-service/internal/infrastructure/kafka"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/metrics"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/repository"
	paymentdto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/payment"
)

// promauto registers against the default registry, so the test binary
// builds the metrics set once.
var testMetrics = metrics.NewSettlementMetrics()

type fakeIntentStore struct {
	mu           sync.Mutex
	intents      map[string]*domain.PaymentIntent
	subs         map[string]*domain.Subscription
	confirmCalls int
	escrowTotal  int64
}

func newFakeIntentStore() *fakeIntentStore {
	return &fakeIntentStore{
		intents: map[string]*domain.PaymentIntent{},
		subs:    map[string]*domain.Subscription{},
	}
}

func (s *fakeIntentStore) CreateIntent(_ context.Context, intent *domain.PaymentIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intents[intent.Reference] = intent
	return nil
}

func (s *fakeIntentStore) GetIntentByReference(_ context.Context, reference string) (*domain.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	intent, ok := s.intents[reference]
	if !ok {
		return nil, domain.ErrIntentNotFound
	}
	return intent, nil
}

func (s *fakeIntentStore) GetIntentByIdempotencyKey(_ context.Context, key string) (*domain.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, intent := range s.intents {
		if intent.IdempotencyKey == key {
			return intent, nil
		}
	}
	return nil, domain.ErrIntentNotFound
}

func (s *fakeIntentStore) FindStaleInitiated(_ context.Context, olderThan time.Time) ([]*domain.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stale []*domain.PaymentIntent
	for _, intent := range s.intents {
		if intent.Status == domain.PaymentInitiated && intent.CreatedAt.Before(olderThan) {
			stale = append(stale, intent)
		}
	}
	return stale, nil
}

func (s *fakeIntentStore) ConfirmPayment(_ context.Context, reference string, _ int64) (*repository.ConfirmOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmCalls++
	intent, ok := s.intents[reference]
	if !ok {
		return nil, domain.ErrIntentNotFound
	}
	sub := s.subs[intent.SubscriptionID]
	if intent.Status == domain.PaymentConfirmed {
		return &repository.ConfirmOutcome{Intent: intent, Subscription: sub, AlreadyConfirmed: true}, nil
	}
	if intent.Status == domain.PaymentFailed {
		return nil, domain.ErrIntentNotConfirmable
	}
	intent.Status = domain.PaymentConfirmed
	sub.Status = domain.SubscriptionConfirmed
	s.escrowTotal += intent.EscrowAmount
	return &repository.ConfirmOutcome{Intent: intent, Subscription: sub}, nil
}

func (s *fakeIntentStore) MarkFailed(_ context.Context, reference, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	intent, ok := s.intents[reference]
	if !ok || intent.Status != domain.PaymentInitiated {
		return false, nil
	}
	intent.Status = domain.PaymentFailed
	intent.FailureReason = reason
	return true, nil
}

type fakeSubRepo struct {
	subs        map[string]*domain.Subscription
	attachedRef string
	attachedFee int64
}

func (r *fakeSubRepo) GetSubscriptionByID(_ context.Context, id string) (*domain.Subscription, error) {
	sub, ok := r.subs[id]
	if !ok {
		return nil, domain.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (r *fakeSubRepo) GetPoolSubscriptions(context.Context, string) ([]*domain.Subscription, error) {
	return nil, nil
}

func (r *fakeSubRepo) GetUserPoolSubscription(_ context.Context, poolID, userID string, status domain.SubscriptionStatus) (*domain.Subscription, error) {
	for _, sub := range r.subs {
		if sub.PoolID == poolID && sub.UserID == userID && sub.Status == status {
			return sub, nil
		}
	}
	return nil, domain.ErrSubscriptionNotFound
}

func (r *fakeSubRepo) AttachPayment(_ context.Context, _, reference string, deliveryFee int64) error {
	r.attachedRef = reference
	r.attachedFee = deliveryFee
	return nil
}

func (r *fakeSubRepo) FindExpiredPending(context.Context, time.Time) ([]*domain.Subscription, error) {
	return nil, nil
}

type fakePoolRepo struct {
	pools map[string]*domain.Pool
}

func (r *fakePoolRepo) CreatePool(context.Context, *domain.Pool) error { return nil }

func (r *fakePoolRepo) GetPoolByID(_ context.Context, id string) (*domain.Pool, error) {
	pool, ok := r.pools[id]
	if !ok {
		return nil, domain.ErrPoolNotFound
	}
	return pool, nil
}

func (r *fakePoolRepo) UpdatePoolStatus(context.Context, string, domain.PoolStatus) error { return nil }

func (r *fakePoolRepo) GetVendorPools(context.Context, string, int64, int64) ([]*domain.Pool, int64, error) {
	return nil, 0, nil
}

type fakeGateway struct {
	chargeCalls  int
	chargedTotal int64
	verifyResult *domain.VerifyResult
	refundRefs   []string
	refundAmts   []int64
}

func (g *fakeGateway) Charge(_ context.Context, reference, _, _ string, amount int64) (*domain.ChargeHandle, error) {
	g.chargeCalls++
	g.chargedTotal = amount
	return &domain.ChargeHandle{Reference: reference, AuthorizationURL: "https://pay.example/" + reference}, nil
}

func (g *fakeGateway) Verify(context.Context, string) (*domain.VerifyResult, error) {
	return g.verifyResult, nil
}

func (g *fakeGateway) Refund(_ context.Context, reference string, amount int64, _ string) error {
	g.refundRefs = append(g.refundRefs, reference)
	g.refundAmts = append(g.refundAmts, amount)
	return nil
}

type fakeReleaser struct {
	released []string
}

func (r *fakeReleaser) ReleaseReservation(_ context.Context, subscriptionID string) (bool, error) {
	r.released = append(r.released, subscriptionID)
	return true, nil
}

type nopPublisher struct{}

func (nopPublisher) PublishPool(publisher.PoolEvent) error       { return nil }
func (nopPublisher) PublishPayment(publisher.PaymentEvent) error { return nil }
func (nopPublisher) PublishEscrow(publisher.EscrowEvent) error   { return nil }
func (nopPublisher) PublishDispute(publisher.DisputeEvent) error { return nil }

type paymentFixture struct {
	uc       *DefaultPaymentUsecase
	intents  *fakeIntentStore
	subs     *fakeSubRepo
	pools    *fakePoolRepo
	gateway  *fakeGateway
	releaser *fakeReleaser
}

func newPaymentFixture() *paymentFixture {
	intents := newFakeIntentStore()
	subs := &fakeSubRepo{subs: map[string]*domain.Subscription{}}
	pools := &fakePoolRepo{pools: map[string]*domain.Pool{}}
	gw := &fakeGateway{}
	releaser := &fakeReleaser{}
	uc := NewDefaultPaymentUsecase(
		intents, subs, pools, gw, releaser, nopPublisher{}, testMetrics,
		200, 500, 30*time.Minute,
	)
	return &paymentFixture{uc: uc, intents: intents, subs: subs, pools: pools, gateway: gw, releaser: releaser}
}

func (f *paymentFixture) seed(slots int32, pricePerSlot int64, allowDelivery bool, deliveryCost int64) *domain.Subscription {
	pool := &domain.Pool{
		ID:                "pool-1",
		VendorID:          "vendor-1",
		PricePerSlot:      pricePerSlot,
		SlotsCount:        10,
		AllowHomeDelivery: allowDelivery,
		HomeDeliveryCost:  deliveryCost,
		Status:            domain.PoolOpen,
	}
	sub := &domain.Subscription{
		ID:     "sub-1",
		PoolID: pool.ID,
		UserID: "buyer-1",
		Slots:  slots,
		Status: domain.SubscriptionPending,
	}
	f.pools.pools[pool.ID] = pool
	f.subs.subs[sub.ID] = sub
	f.intents.subs[sub.ID] = sub
	return sub
}

func TestInitiateCheckout_FeeMath(t *testing.T) {
	f := newPaymentFixture()
	f.seed(5, 100_000, false, 0)

	handle, err := f.uc.InitiateCheckout(context.Background(), &paymentdto.InitiateCheckoutInput{
		SubscriptionID: "sub-1",
		Method:         "card",
		IdempotencyKey: "key-1",
		BuyerEmail:     "buyer@example.com",
	})
	if err != nil {
		t.Fatalf("InitiateCheckout: %v", err)
	}

	// 5 x 100000 subtotal, 2% buyer fee on the subtotal.
	if handle.Amount != 510_000 {
		t.Fatalf("total = %d, want 510000", handle.Amount)
	}
	if f.gateway.chargedTotal != 510_000 {
		t.Fatalf("gateway charged %d", f.gateway.chargedTotal)
	}

	intent, err := f.intents.GetIntentByReference(context.Background(), handle.Reference)
	if err != nil {
		t.Fatalf("intent not stored: %v", err)
	}
	if intent.FeeAmount != 10_000 {
		t.Fatalf("fee = %d, want 10000", intent.FeeAmount)
	}
	if intent.EscrowAmount != 500_000 {
		t.Fatalf("escrow amount = %d, want 500000; the buyer fee must never reach escrow", intent.EscrowAmount)
	}
	if f.subs.attachedRef != handle.Reference {
		t.Fatalf("payment reference not attached to subscription")
	}
}

func TestInitiateCheckout_DeliveryFee(t *testing.T) {
	f := newPaymentFixture()
	f.seed(5, 100_000, true, 2_000)

	handle, err := f.uc.InitiateCheckout(context.Background(), &paymentdto.InitiateCheckoutInput{
		SubscriptionID: "sub-1",
		Method:         "card",
		HomeDelivery:   true,
		IdempotencyKey: "key-1",
	})
	if err != nil {
		t.Fatalf("InitiateCheckout: %v", err)
	}
	// 500000 + 2000 delivery + 10000 fee. The fee applies to the slot
	// subtotal only, not to delivery.
	if handle.Amount != 512_000 {
		t.Fatalf("total = %d, want 512000", handle.Amount)
	}
	intent, _ := f.intents.GetIntentByReference(context.Background(), handle.Reference)
	if intent.EscrowAmount != 502_000 {
		t.Fatalf("escrow amount = %d, want 502000", intent.EscrowAmount)
	}
	if f.subs.attachedFee != 2_000 {
		t.Fatalf("delivery fee not attached: %d", f.subs.attachedFee)
	}
}

func TestInitiateCheckout_DeliveryNotOffered(t *testing.T) {
	f := newPaymentFixture()
	f.seed(2, 100_000, false, 0)

	_, err := f.uc.InitiateCheckout(context.Background(), &paymentdto.InitiateCheckoutInput{
		SubscriptionID: "sub-1",
		Method:         "card",
		HomeDelivery:   true,
		IdempotencyKey: "key-1",
	})
	if !errors.Is(err, domain.ErrDeliveryNotOffered) {
		t.Fatalf("want ErrDeliveryNotOffered, got %v", err)
	}
}

func TestInitiateCheckout_IdempotentReplay(t *testing.T) {
	f := newPaymentFixture()
	f.seed(5, 100_000, false, 0)

	first, err := f.uc.InitiateCheckout(context.Background(), &paymentdto.InitiateCheckoutInput{
		SubscriptionID: "sub-1",
		Method:         "card",
		IdempotencyKey: "key-1",
	})
	if err != nil {
		t.Fatalf("first InitiateCheckout: %v", err)
	}
	second, err := f.uc.InitiateCheckout(context.Background(), &paymentdto.InitiateCheckoutInput{
		SubscriptionID: "sub-1",
		Method:         "card",
		IdempotencyKey: "key-1",
	})
	if err != nil {
		t.Fatalf("replay InitiateCheckout: %v", err)
	}
	if second.Reference != first.Reference {
		t.Fatalf("replay minted a new reference: %s vs %s", second.Reference, first.Reference)
	}
	if f.gateway.chargeCalls != 1 {
		t.Fatalf("gateway charged %d times, want 1", f.gateway.chargeCalls)
	}
}

func TestInitiateCheckout_NonPendingRefused(t *testing.T) {
	f := newPaymentFixture()
	sub := f.seed(2, 100_000, false, 0)
	sub.Status = domain.SubscriptionCancelled

	_, err := f.uc.InitiateCheckout(context.Background(), &paymentdto.InitiateCheckoutInput{
		SubscriptionID: "sub-1",
		Method:         "card",
		IdempotencyKey: "key-1",
	})
	if !errors.Is(err, domain.ErrIntentNotConfirmable) {
		t.Fatalf("want ErrIntentNotConfirmable, got %v", err)
	}
	if f.gateway.chargeCalls != 0 {
		t.Fatalf("gateway charged for a cancelled subscription")
	}
}

func TestConfirmPayment_AmountMismatchMutatesNothing(t *testing.T) {
	f := newPaymentFixture()
	sub := f.seed(5, 100_000, false, 0)
	intent := &domain.PaymentIntent{
		Reference:      "ref-1",
		SubscriptionID: sub.ID,
		PoolID:         sub.PoolID,
		IdempotencyKey: "key-1",
		ExpectedAmount: 510_000,
		EscrowAmount:   500_000,
		Method:         "card",
		Status:         domain.PaymentInitiated,
	}
	f.intents.intents[intent.Reference] = intent

	_, err := f.uc.ConfirmPayment(context.Background(), "ref-1", 500_000)
	if !errors.Is(err, domain.ErrAmountMismatch) {
		t.Fatalf("want ErrAmountMismatch, got %v", err)
	}
	if f.intents.confirmCalls != 0 {
		t.Fatalf("mismatched amount reached the confirmation transaction")
	}
	if intent.Status != domain.PaymentInitiated {
		t.Fatalf("intent mutated on mismatch: %s", intent.Status)
	}
}

func TestConfirmPayment_ReplaySkipsAmountCheck(t *testing.T) {
	f := newPaymentFixture()
	sub := f.seed(5, 100_000, false, 0)
	sub.Status = domain.SubscriptionConfirmed
	f.intents.intents["ref-1"] = &domain.PaymentIntent{
		Reference:      "ref-1",
		SubscriptionID: sub.ID,
		PoolID:         sub.PoolID,
		ExpectedAmount: 510_000,
		EscrowAmount:   500_000,
		Status:         domain.PaymentConfirmed,
	}

	// The webhook retry may carry any amount; the stored outcome wins.
	result, err := f.uc.ConfirmPayment(context.Background(), "ref-1", 1)
	if err != nil {
		t.Fatalf("replay ConfirmPayment: %v", err)
	}
	if !result.AlreadyConfirmed {
		t.Fatalf("replay not flagged")
	}
	if f.intents.escrowTotal != 0 {
		t.Fatalf("replay credited escrow: %d", f.intents.escrowTotal)
	}
}

func TestConfirmPayment_CreditsEscrowOnce(t *testing.T) {
	f := newPaymentFixture()
	sub := f.seed(5, 100_000, false, 0)
	f.intents.intents["ref-1"] = &domain.PaymentIntent{
		Reference:      "ref-1",
		SubscriptionID: sub.ID,
		PoolID:         sub.PoolID,
		ExpectedAmount: 510_000,
		EscrowAmount:   500_000,
		Method:         "card",
		Status:         domain.PaymentInitiated,
	}

	for i := 0; i < 3; i++ {
		if _, err := f.uc.ConfirmPayment(context.Background(), "ref-1", 510_000); err != nil {
			t.Fatalf("ConfirmPayment #%d: %v", i+1, err)
		}
	}
	if f.intents.escrowTotal != 500_000 {
		t.Fatalf("escrow total = %d, want exactly one credit of 500000", f.intents.escrowTotal)
	}
}

func TestFailPayment_ReleasesReservation(t *testing.T) {
	f := newPaymentFixture()
	sub := f.seed(2, 100_000, false, 0)
	f.intents.intents["ref-1"] = &domain.PaymentIntent{
		Reference:      "ref-1",
		SubscriptionID: sub.ID,
		PoolID:         sub.PoolID,
		Status:         domain.PaymentInitiated,
	}

	if err := f.uc.FailPayment(context.Background(), "ref-1", "card declined"); err != nil {
		t.Fatalf("FailPayment: %v", err)
	}
	if len(f.releaser.released) != 1 || f.releaser.released[0] != sub.ID {
		t.Fatalf("capacity not released: %v", f.releaser.released)
	}
}

func TestFailPayment_ConfirmedLeftAlone(t *testing.T) {
	f := newPaymentFixture()
	sub := f.seed(2, 100_000, false, 0)
	f.intents.intents["ref-1"] = &domain.PaymentIntent{
		Reference:      "ref-1",
		SubscriptionID: sub.ID,
		PoolID:         sub.PoolID,
		Status:         domain.PaymentConfirmed,
	}

	if err := f.uc.FailPayment(context.Background(), "ref-1", "late failure webhook"); err != nil {
		t.Fatalf("FailPayment: %v", err)
	}
	if len(f.releaser.released) != 0 {
		t.Fatalf("confirmed payment's reservation was released")
	}
}

func TestVerifyPayment_FailureMarksFailed(t *testing.T) {
	f := newPaymentFixture()
	sub := f.seed(2, 100_000, false, 0)
	f.intents.intents["ref-1"] = &domain.PaymentIntent{
		Reference:      "ref-1",
		SubscriptionID: sub.ID,
		PoolID:         sub.PoolID,
		ExpectedAmount: 204_000,
		Status:         domain.PaymentInitiated,
	}
	f.gateway.verifyResult = &domain.VerifyResult{Reference: "ref-1", Success: false}

	_, err := f.uc.VerifyPayment(context.Background(), "ref-1")
	if !errors.Is(err, domain.ErrIntentNotConfirmable) {
		t.Fatalf("want ErrIntentNotConfirmable, got %v", err)
	}
	intent, _ := f.intents.GetIntentByReference(context.Background(), "ref-1")
	if intent.Status != domain.PaymentFailed {
		t.Fatalf("intent status = %s, want FAILED", intent.Status)
	}
}

func TestVerifyPayment_SuccessConfirms(t *testing.T) {
	f := newPaymentFixture()
	sub := f.seed(2, 100_000, false, 0)
	f.intents.intents["ref-1"] = &domain.PaymentIntent{
		Reference:      "ref-1",
		SubscriptionID: sub.ID,
		PoolID:         sub.PoolID,
		ExpectedAmount: 204_000,
		EscrowAmount:   200_000,
		Method:         "card",
		Status:         domain.PaymentInitiated,
	}
	f.gateway.verifyResult = &domain.VerifyResult{Reference: "ref-1", Success: true, Amount: 204_000}

	result, err := f.uc.VerifyPayment(context.Background(), "ref-1")
	if err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if result.AlreadyConfirmed {
		t.Fatalf("fresh verification flagged as replay")
	}
	if f.intents.escrowTotal != 200_000 {
		t.Fatalf("escrow not credited: %d", f.intents.escrowTotal)
	}
}

func TestInstructRefund_RequiresReference(t *testing.T) {
	f := newPaymentFixture()
	sub := &domain.Subscription{ID: "sub-x", PoolID: "pool-1", UserID: "buyer-1"}

	err := f.uc.InstructRefund(context.Background(), sub, 100_000, "pool cancelled")
	if !errors.Is(err, domain.ErrIntentNotFound) {
		t.Fatalf("want ErrIntentNotFound for missing reference, got %v", err)
	}
	if len(f.gateway.refundRefs) != 0 {
		t.Fatalf("refund sent without a reference")
	}
}

func TestSweepStaleIntents_VerifiesOldOnes(t *testing.T) {
	f := newPaymentFixture()
	sub := f.seed(2, 100_000, false, 0)
	f.intents.intents["ref-old"] = &domain.PaymentIntent{
		Reference:      "ref-old",
		SubscriptionID: sub.ID,
		PoolID:         sub.PoolID,
		ExpectedAmount: 204_000,
		EscrowAmount:   200_000,
		Method:         "card",
		Status:         domain.PaymentInitiated,
		CreatedAt:      time.Now().Add(-time.Hour),
	}
	f.intents.intents["ref-new"] = &domain.PaymentIntent{
		Reference:      "ref-new",
		SubscriptionID: sub.ID,
		PoolID:         sub.PoolID,
		Status:         domain.PaymentInitiated,
		CreatedAt:      time.Now(),
	}
	f.gateway.verifyResult = &domain.VerifyResult{Success: true, Amount: 204_000}

	if err := f.uc.SweepStaleIntents(context.Background()); err != nil {
		t.Fatalf("SweepStaleIntents: %v", err)
	}
	old, _ := f.intents.GetIntentByReference(context.Background(), "ref-old")
	if old.Status != domain.PaymentConfirmed {
		t.Fatalf("stale intent not settled: %s", old.Status)
	}
	fresh, _ := f.intents.GetIntentByReference(context.Background(), "ref-new")
	if fresh.Status != domain.PaymentInitiated {
		t.Fatalf("fresh intent swept early: %s", fresh.Status)
	}
}
