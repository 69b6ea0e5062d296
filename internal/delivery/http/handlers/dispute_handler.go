package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/poolmart/pool-settlement-service/internal/domain"
	"github.com/poolmart/pool-settlement-service/internal/usecase/dispute"
	disputedto "github.com/poolmart/pool-settlement-service/internal/usecase/dto/dispute"
)

type DisputeHandler struct {
	disputeUc dispute.DisputeUsecase
}

func NewDisputeHandler(disputeUc dispute.DisputeUsecase) *DisputeHandler {
	return &DisputeHandler{disputeUc: disputeUc}
}

type openDisputeRequest struct {
	PoolID   string   `json:"pool_id" binding:"required"`
	UserID   string   `json:"user_id" binding:"required"`
	Reason   string   `json:"reason" binding:"required"`
	Evidence []string `json:"evidence"`
}

func (h *DisputeHandler) OpenDispute(c *gin.Context) {
	var req openDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	opened, err := h.disputeUc.OpenDispute(c.Request.Context(), &disputedto.OpenDisputeInput{
		PoolID:   req.PoolID,
		UserID:   req.UserID,
		Reason:   req.Reason,
		Evidence: req.Evidence,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"dispute_id": opened.ID,
		"status":     opened.Status,
	})
}

func (h *DisputeHandler) BeginReview(c *gin.Context) {
	if err := h.disputeUc.BeginReview(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": domain.DisputeInReview})
}

type resolveDisputeRequest struct {
	Action       string           `json:"action" binding:"required,oneof=refund release split reject"`
	Distribution map[string]int64 `json:"distribution"`
	Notes        string           `json:"notes"`
}

func (h *DisputeHandler) ResolveDispute(c *gin.Context) {
	var req resolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	disputeID := c.Param("id")

	if req.Action == "reject" {
		if err := h.disputeUc.RejectDispute(c.Request.Context(), disputeID, req.Notes); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"dispute_id": disputeID,
			"status":     domain.DisputeRejected,
		})
		return
	}

	result, err := h.disputeUc.ResolveDispute(c.Request.Context(), &disputedto.ResolveDisputeInput{
		DisputeID:    disputeID,
		Action:       domain.DisputeAction(req.Action),
		Distribution: req.Distribution,
		Notes:        req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dispute_id":       result.DisputeID,
		"status":           result.Status,
		"action":           result.Action,
		"disputed_amount":  result.DisputedAmount,
		"resolved_at":      result.ResolvedAt,
		"already_resolved": result.AlreadyResolved,
	})
}

// ListDisputes backs the admin review queue; filters are optional and
// combine.
func (h *DisputeHandler) ListDisputes(c *gin.Context) {
	input := &disputedto.GetDisputesInput{Page: 1, Limit: 20}
	if v := c.Query("pool_id"); v != "" {
		input.PoolID = &v
	}
	if v := c.Query("user_id"); v != "" {
		input.UserID = &v
	}
	if v := c.Query("status"); v != "" {
		status := domain.DisputeStatus(v)
		input.Status = &status
	}
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && v > 0 {
		input.Page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && v > 0 {
		input.Limit = v
	}

	out, err := h.disputeUc.GetDisputes(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]gin.H, len(out.Disputes))
	for i, found := range out.Disputes {
		items[i] = gin.H{
			"dispute_id":  found.ID,
			"pool_id":     found.PoolID,
			"user_id":     found.RaisedByUserID,
			"reason":      found.Reason,
			"status":      found.Status,
			"action":      found.Action,
			"resolved_at": found.ResolvedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"disputes": items, "total": out.Total})
}

func (h *DisputeHandler) GetDispute(c *gin.Context) {
	found, err := h.disputeUc.GetDisputeByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dispute_id":  found.ID,
		"pool_id":     found.PoolID,
		"user_id":     found.RaisedByUserID,
		"reason":      found.Reason,
		"status":      found.Status,
		"action":      found.Action,
		"resolved_at": found.ResolvedAt,
	})
}
