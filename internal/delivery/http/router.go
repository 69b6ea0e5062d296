package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poolmart/pool-settlement-service/internal/delivery/http/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the engine's JSON surface. The UI layer renders
// whatever comes back; nothing here trusts client-side state.
func NewRouter(
	poolHandler *handlers.PoolHandler,
	paymentHandler *handlers.PaymentHandler,
	escrowHandler *handlers.EscrowHandler,
	disputeHandler *handlers.DisputeHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pools := r.Group("/pools")
	{
		pools.POST("", poolHandler.CreatePool)
		pools.GET("", poolHandler.ListVendorPools)
		pools.GET("/:id", poolHandler.GetPool)
		pools.POST("/:id/subscriptions", poolHandler.ReserveSlots)
		pools.POST("/:id/complete", poolHandler.CompletePool)
		pools.POST("/:id/cancel", poolHandler.CancelPool)
		pools.GET("/:id/escrow", escrowHandler.GetBalance)
		pools.POST("/:id/escrow/release", escrowHandler.Release)
	}

	payments := r.Group("/payments")
	{
		payments.POST("/initiate", paymentHandler.InitiateCheckout)
		payments.POST("/:gateway/verify", paymentHandler.VerifyPayment)
		payments.POST("/:gateway/webhook", paymentHandler.Webhook)
	}

	disputes := r.Group("/disputes")
	{
		disputes.POST("", disputeHandler.OpenDispute)
		disputes.GET("", disputeHandler.ListDisputes)
		disputes.GET("/:id", disputeHandler.GetDispute)
		disputes.POST("/:id/review", disputeHandler.BeginReview)
		disputes.POST("/:id/resolve", disputeHandler.ResolveDispute)
	}

	return r
}
