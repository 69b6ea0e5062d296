package mappers

import (
	"github.com/poolmart/pool-settlement-service/internal/domain"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainPaymentIntent(model *models.PaymentIntentModel) *domain.PaymentIntent {
	return &domain.PaymentIntent{
		Reference:        model.Reference,
		SubscriptionID:   model.SubscriptionID,
		PoolID:           model.PoolID,
		IdempotencyKey:   model.IdempotencyKey,
		ExpectedAmount:   model.ExpectedAmount,
		FeeAmount:        model.FeeAmount,
		EscrowAmount:     model.EscrowAmount,
		Method:           model.Method,
		Status:           model.Status,
		AuthorizationURL: model.AuthorizationURL,
		FailureReason:    model.FailureReason,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMPaymentIntent(intent *domain.PaymentIntent) *models.PaymentIntentModel {
	return &models.PaymentIntentModel{
		Reference:        intent.Reference,
		SubscriptionID:   intent.SubscriptionID,
		PoolID:           intent.PoolID,
		IdempotencyKey:   intent.IdempotencyKey,
		ExpectedAmount:   intent.ExpectedAmount,
		FeeAmount:        intent.FeeAmount,
		EscrowAmount:     intent.EscrowAmount,
		Method:           intent.Method,
		Status:           intent.Status,
		AuthorizationURL: intent.AuthorizationURL,
		FailureReason:    intent.FailureReason,
		CreatedAt:        intent.CreatedAt,
		UpdatedAt:        intent.UpdatedAt,
	}
}
