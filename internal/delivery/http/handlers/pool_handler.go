package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poolmart/pool-settlement-service/internal/usecase/admission"
	admissiondto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/admission"
	pooldto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/pool"
	"github.com/poolmart/pool-settlement-service/internal/usecase/escrow"
	"github.com/poolmart/pool-settlement-service/internal/usecase/pool"
)

type PoolHandler struct {
	poolUc      pool.PoolUsecase
	admissionUc admission.AdmissionUsecase
	escrowUc    escrow.EscrowUsecase
}

func NewPoolHandler(poolUc pool.PoolUsecase, admissionUc admission.AdmissionUsecase, escrowUc escrow.EscrowUsecase) *PoolHandler {
	return &PoolHandler{poolUc: poolUc, admissionUc: admissionUc, escrowUc: escrowUc}
}

type createPoolRequest struct {
	VendorID          string    `json:"vendor_id" binding:"required"`
	PricePerSlot      int64     `json:"price_per_slot" binding:"required,gt=0"`
	SlotsCount        int32     `json:"slots_count" binding:"required,gte=2"`
	AllowHomeDelivery bool      `json:"allow_home_delivery"`
	HomeDeliveryCost  int64     `json:"home_delivery_cost"`
	DeliveryDeadline  time.Time `json:"delivery_deadline" binding:"required"`
}

func (h *PoolHandler) CreatePool(c *gin.Context) {
	var req createPoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	created, err := h.poolUc.CreatePool(c.Request.Context(), &pooldto.CreatePoolInput{
		VendorID:          req.VendorID,
		PricePerSlot:      req.PricePerSlot,
		SlotsCount:        req.SlotsCount,
		AllowHomeDelivery: req.AllowHomeDelivery,
		HomeDeliveryCost:  req.HomeDeliveryCost,
		DeliveryDeadline:  req.DeliveryDeadline,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"pool_id": created.ID,
		"status":  created.Status,
	})
}

func (h *PoolHandler) GetPool(c *gin.Context) {
	found, err := h.poolUc.GetPoolByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pool_id":        found.ID,
		"vendor_id":      found.VendorID,
		"price_per_slot": found.PricePerSlot,
		"slots_count":    found.SlotsCount,
		"slots_filled":   found.SlotsFilled,
		"status":         found.Status,
	})
}

// ListVendorPools backs the vendor dashboard listing.
func (h *PoolHandler) ListVendorPools(c *gin.Context) {
	vendorID := c.Query("vendor_id")
	if vendorID == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "vendor_id query parameter is required"})
		return
	}
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit < 1 {
		limit = 20
	}

	pools, total, err := h.poolUc.GetVendorPools(c.Request.Context(), vendorID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]gin.H, len(pools))
	for i, found := range pools {
		items[i] = gin.H{
			"pool_id":        found.ID,
			"price_per_slot": found.PricePerSlot,
			"slots_count":    found.SlotsCount,
			"slots_filled":   found.SlotsFilled,
			"status":         found.Status,
		}
	}
	c.JSON(http.StatusOK, gin.H{"pools": items, "total": total})
}

type reserveSlotsRequest struct {
	UserID       string `json:"user_id" binding:"required"`
	Slots        int32  `json:"slots" binding:"required,gte=1"`
	HomeDelivery bool   `json:"home_delivery"`
}

func (h *PoolHandler) ReserveSlots(c *gin.Context) {
	var req reserveSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	out, err := h.admissionUc.ReserveSlots(c.Request.Context(), &admissiondto.ReserveSlotsInput{
		PoolID:       c.Param("id"),
		UserID:       req.UserID,
		Slots:        req.Slots,
		HomeDelivery: req.HomeDelivery,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"subscription_id": out.SubscriptionID,
		"pool_status":     out.PoolStatus,
		"expires_at":      out.ExpiresAt,
	})
}

type completePoolRequest struct {
	VendorID string `json:"vendor_id" binding:"required"`
}

func (h *PoolHandler) CompletePool(c *gin.Context) {
	var req completePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := h.escrowUc.CompletePool(c.Request.Context(), c.Param("id"), req.VendorID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "COMPLETED"})
}

type cancelPoolRequest struct {
	Actor string `json:"actor" binding:"required"`
}

func (h *PoolHandler) CancelPool(c *gin.Context) {
	var req cancelPoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := h.escrowUc.CancelPool(c.Request.Context(), c.Param("id"), req.Actor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "CANCELLED"})
}
