package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poolmart/pool-settlement-service/internal/usecase/escrow"
)

type EscrowHandler struct {
	escrowUc escrow.EscrowUsecase
}

func NewEscrowHandler(escrowUc escrow.EscrowUsecase) *EscrowHandler {
	return &EscrowHandler{escrowUc: escrowUc}
}

func (h *EscrowHandler) GetBalance(c *gin.Context) {
	view, err := h.escrowUc.GetBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pool_id":         view.PoolID,
		"total_held":      view.TotalHeld,
		"released_amount": view.ReleasedAmount,
		"withheld_amount": view.WithheldAmount,
		"net_for_vendor":  view.NetForVendor,
		"released":        view.Released,
	})
}

type releaseRequest struct {
	Actor string `json:"actor" binding:"required"`
}

func (h *EscrowHandler) Release(c *gin.Context) {
	var req releaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	result, err := h.escrowUc.Release(c.Request.Context(), c.Param("id"), req.Actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pool_id":          result.PoolID,
		"released_amount":  result.ReleasedAmount,
		"commission":       result.Commission,
		"withheld_amount":  result.WithheldAmount,
		"already_released": result.AlreadyReleased,
	})
}
