package payment

import (
	"context"
	"errors"
	"time"

	"github.com/poolmart/pool-settlement-service/internal/domain"
	paymentdto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/payment"
)

// InitiateCheckout computes the charge total and opens a gateway
// charge. The expected amount is pinned to the intent keyed by the
// caller's idempotency key: re-initiating with the same key returns
// the stored handle instead of charging twice.
//
// total = slots x pricePerSlot + deliveryFee + buyerFee, where the
// buyer fee is a percentage of the slot subtotal retained by the
// platform. Only slot subtotal + deliveryFee ever reach escrow.
func (uc *DefaultPaymentUsecase) InitiateCheckout(ctx context.Context, input *paymentdto.InitiateCheckoutInput) (*paymentdto.CheckoutHandle, error) {
	if existing, err := uc.intentRepo.GetIntentByIdempotencyKey(ctx, input.IdempotencyKey); err == nil {
		return &paymentdto.CheckoutHandle{
			Reference:        existing.Reference,
			AuthorizationURL: existing.AuthorizationURL,
			Amount:           existing.ExpectedAmount,
		}, nil
	} else if !errors.Is(err, domain.ErrIntentNotFound) {
		return nil, err
	}

	sub, err := uc.subRepo.GetSubscriptionByID(ctx, input.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.Status != domain.SubscriptionPending {
		return nil, domain.ErrIntentNotConfirmable
	}
	pool, err := uc.poolRepo.GetPoolByID(ctx, sub.PoolID)
	if err != nil {
		return nil, err
	}
	if input.HomeDelivery && !pool.AllowHomeDelivery {
		return nil, domain.ErrDeliveryNotOffered
	}

	var deliveryFee int64
	if input.HomeDelivery {
		deliveryFee = pool.HomeDeliveryCost
	}
	subtotal := int64(sub.Slots) * pool.PricePerSlot
	buyerFee := subtotal * uc.buyerFeeBps / 10000
	total := subtotal + deliveryFee + buyerFee

	reference := uc.newReference()
	handle, err := uc.gateway.Charge(ctx, reference, input.BuyerEmail, input.Method, total)
	if err != nil {
		return nil, err
	}

	intent := &domain.PaymentIntent{
		Reference:        reference,
		SubscriptionID:   sub.ID,
		PoolID:           sub.PoolID,
		IdempotencyKey:   input.IdempotencyKey,
		ExpectedAmount:   total,
		FeeAmount:        buyerFee,
		EscrowAmount:     subtotal + deliveryFee,
		Method:           input.Method,
		Status:           domain.PaymentInitiated,
		AuthorizationURL: handle.AuthorizationURL,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := uc.intentRepo.CreateIntent(ctx, intent); err != nil {
		return nil, err
	}
	if err := uc.subRepo.AttachPayment(ctx, sub.ID, reference, deliveryFee); err != nil {
		return nil, err
	}

	return &paymentdto.CheckoutHandle{
		Reference:        reference,
		AuthorizationURL: handle.AuthorizationURL,
		AccessCode:       handle.AccessCode,
		Amount:           total,
	}, nil
}
