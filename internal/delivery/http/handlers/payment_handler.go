package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/payment"
	"github.com/poolmart/pool-settlement-service/internal/usecase/payment"
)

type PaymentHandler struct {
	paymentUc payment.PaymentUsecase
}

func NewPaymentHandler(paymentUc payment.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{paymentUc: paymentUc}
}

type initiateCheckoutRequest struct {
	SubscriptionID string `json:"subscription_id" binding:"required"`
	Method         string `json:"method" binding:"required"`
	HomeDelivery   bool   `json:"home_delivery"`
	BuyerEmail     string `json:"buyer_email" binding:"required,email"`
}

func (h *PaymentHandler) InitiateCheckout(c *gin.Context) {
	var req initiateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	idempotencyKey := c.GetHeader("Idempotency-Key")
	if idempotencyKey == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Idempotency-Key header is required"})
		return
	}

	handle, err := h.paymentUc.InitiateCheckout(c.Request.Context(), &paymentdto.InitiateCheckoutInput{
		SubscriptionID: req.SubscriptionID,
		Method:         req.Method,
		HomeDelivery:   req.HomeDelivery,
		IdempotencyKey: idempotencyKey,
		BuyerEmail:     req.BuyerEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reference":         handle.Reference,
		"authorization_url": handle.AuthorizationURL,
		"access_code":       handle.AccessCode,
		"amount":            handle.Amount,
	})
}

type verifyPaymentRequest struct {
	Reference string `json:"reference" binding:"required"`
}

// VerifyPayment serves the redirect-and-verify flow: the engine asks
// the gateway for the charge outcome rather than trusting the client.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	result, err := h.paymentUc.VerifyPayment(c.Request.Context(), req.Reference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"reference":         result.Reference,
		"amount":            result.Amount,
		"already_confirmed": result.AlreadyConfirmed,
	})
}

type webhookRequest struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Status    string `json:"status"`
	} `json:"data"`
}

// Webhook receives asynchronous gateway callbacks. Confirmation is
// idempotent, so gateway retries are harmless.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	switch req.Event {
	case "charge.success":
		result, err := h.paymentUc.ConfirmPayment(c.Request.Context(), req.Data.Reference, req.Data.Amount)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"reference":         result.Reference,
			"already_confirmed": result.AlreadyConfirmed,
		})
	case "charge.failed":
		if err := h.paymentUc.FailPayment(c.Request.Context(), req.Data.Reference, req.Data.Status); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reference": req.Data.Reference})
	default:
		c.JSON(http.StatusOK, gin.H{"ignored": req.Event})
	}
}
