package mappers

import (
	"github.com/poolmart/pool-settlement-service/internal/domain"
	"github.com/poolmart/pool-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainSubscription(model *models.SubscriptionModel) *domain.Subscription {
	return &domain.Subscription{
		ID:               model.ID,
		PoolID:           model.PoolID,
		UserID:           model.UserID,
		Slots:            model.Slots,
		DeliveryFee:      model.DeliveryFee,
		PaymentReference: model.PaymentReference,
		Status:           model.Status,
		ExpiresAt:        model.ExpiresAt,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMSubscription(sub *domain.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:               sub.ID,
		PoolID:           sub.PoolID,
		UserID:           sub.UserID,
		Slots:            sub.Slots,
		DeliveryFee:      sub.DeliveryFee,
		PaymentReference: sub.PaymentReference,
		Status:           sub.Status,
		ExpiresAt:        sub.ExpiresAt,
		CreatedAt:        sub.CreatedAt,
		UpdatedAt:        sub.UpdatedAt,
	}
}
