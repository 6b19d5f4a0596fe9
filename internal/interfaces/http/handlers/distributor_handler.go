package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tracebloom.backend/internal/domain/entities"
	domainerrors "tracebloom.backend/internal/domain/errors"
	"tracebloom.backend/internal/interfaces/http/response"
	"tracebloom.backend/internal/usecases"
)

// DistributorHandler handles distributor endpoints
type DistributorHandler struct {
	distributorUsecase *usecases.DistributorUsecase
}

// NewDistributorHandler creates a new distributor handler
func NewDistributorHandler(distributorUsecase *usecases.DistributorUsecase) *DistributorHandler {
	return &DistributorHandler{distributorUsecase: distributorUsecase}
}

// ListBatches lists batches the distributor has not decided on
// GET /api/distributor/:email/batches
func (h *DistributorHandler) ListBatches(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	batches, err := h.distributorUsecase.ListBatches(c.Request.Context(), callerID, c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, batches)
}

// Accept takes custody of a batch
// POST /api/distributor/accept
func (h *DistributorHandler) Accept(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	var input entities.DistributorDecisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Missing required fields"))
		return
	}

	if err := h.distributorUsecase.Accept(c.Request.Context(), callerID, &input); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Batch accepted successfully"})
}

// Reject passes on a batch
// POST /api/distributor/reject
func (h *DistributorHandler) Reject(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	var input entities.DistributorDecisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Missing required fields"))
		return
	}

	if err := h.distributorUsecase.Reject(c.Request.Context(), callerID, &input); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Batch rejected successfully"})
}

// Transactions lists farmer payments owed by the distributor
// GET /api/distributor/:email/transactions
func (h *DistributorHandler) Transactions(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	payments, err := h.distributorUsecase.ListTransactions(c.Request.Context(), callerID, c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, payments)
}

// Shipments lists consumer acceptances of batches the distributor carried
// GET /api/distributor/:email/shipments
func (h *DistributorHandler) Shipments(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	shipments, err := h.distributorUsecase.ListShipments(c.Request.Context(), callerID, c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, shipments)
}
