package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poolmart/pool-settlement-service/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps engine errors onto the HTTP surface. Callers see
// the error kind and a readable reason, never transaction or retry
// internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrPoolNotFound),
		errors.Is(err, domain.ErrSubscriptionNotFound),
		errors.Is(err, domain.ErrEscrowNotFound),
		errors.Is(err, domain.ErrDisputeNotFound),
		errors.Is(err, domain.ErrIntentNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInsufficientSlots),
		errors.Is(err, domain.ErrPoolNotOpen),
		errors.Is(err, domain.ErrReleaseBlocked),
		errors.Is(err, domain.ErrDuplicateDispute),
		errors.Is(err, domain.ErrDisputeTerminal),
		errors.Is(err, domain.ErrPoolNotCancellable),
		errors.Is(err, domain.ErrEscrowReleased),
		errors.Is(err, domain.ErrIntentNotConfirmable):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrAmountMismatch),
		errors.Is(err, domain.ErrDistributionMismatch):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidSlotCount),
		errors.Is(err, domain.ErrDeliveryNotOffered):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
