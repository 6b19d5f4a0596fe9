package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"tracebloom.backend/internal/domain/entities"
	domainerrors "tracebloom.backend/internal/domain/errors"
	"tracebloom.backend/internal/interfaces/http/response"
	"tracebloom.backend/internal/usecases"
	"tracebloom.backend/pkg/utils"
)

// ConsumerHandler handles consumer endpoints
type ConsumerHandler struct {
	consumerUsecase *usecases.ConsumerUsecase
}

// NewConsumerHandler creates a new consumer handler
func NewConsumerHandler(consumerUsecase *usecases.ConsumerUsecase) *ConsumerHandler {
	return &ConsumerHandler{consumerUsecase: consumerUsecase}
}

// ListBatches lists in-transit batches the consumer can still accept
// GET /api/consumer/batches/:consumerId
func (h *ConsumerHandler) ListBatches(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}
	consumerID, ok := pathID(c, "consumerId")
	if !ok {
		return
	}

	batches, err := h.consumerUsecase.ListAvailable(c.Request.Context(), callerID, consumerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, batches)
}

// Accept takes delivery of a batch
// POST /api/consumer/accept
func (h *ConsumerHandler) Accept(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	var input entities.ConsumerDecisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Missing required fields"))
		return
	}

	batch, err := h.consumerUsecase.Accept(c.Request.Context(), callerID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true, "batch": batch})
}

// Reject declines a batch for this consumer
// POST /api/consumer/reject
func (h *ConsumerHandler) Reject(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	var input entities.ConsumerDecisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Missing required fields"))
		return
	}

	if err := h.consumerUsecase.Reject(c.Request.Context(), callerID, &input); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true})
}

// Payments lists what the consumer owes
// GET /api/consumer/payments/:consumerId
func (h *ConsumerHandler) Payments(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}
	consumerID, ok := pathID(c, "consumerId")
	if !ok {
		return
	}

	payments, err := h.consumerUsecase.ListPayments(c.Request.Context(), callerID, consumerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, payments)
}

// AcceptedBatches lists the batches the consumer took delivery of
// GET /api/consumer/accepted-batches/:consumerId
func (h *ConsumerHandler) AcceptedBatches(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}
	consumerID, ok := pathID(c, "consumerId")
	if !ok {
		return
	}

	batches, err := h.consumerUsecase.ListAcceptedBatches(c.Request.Context(), callerID, consumerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, batches)
}

// Reviews lists reviews of a batch, newest first. The total count is returned
// in X-Total-Count so the body stays a plain list.
// GET /api/consumer/reviews/:batchId?page=&limit=
func (h *ConsumerHandler) Reviews(c *gin.Context) {
	batchID, ok := pathID(c, "batchId")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	pagination := utils.GetPaginationParams(page, limit)

	reviews, total, err := h.consumerUsecase.ListReviews(c.Request.Context(), batchID, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	meta := utils.CalculateMeta(total, pagination.Page, pagination.Limit)
	c.Header("X-Total-Count", strconv.FormatInt(meta.TotalCount, 10))
	c.Header("X-Total-Pages", strconv.Itoa(meta.TotalPages))
	c.Header("X-Page", strconv.Itoa(meta.Page))
	c.Header("X-Limit", strconv.Itoa(meta.Limit))
	response.Success(c, http.StatusOK, reviews)
}

// CreateReview records a rating for a batch
// POST /api/consumer/review
func (h *ConsumerHandler) CreateReview(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	var input entities.CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	review, err := h.consumerUsecase.CreateReview(c.Request.Context(), callerID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, review)
}
