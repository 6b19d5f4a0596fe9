package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/volatiletech/null/v8"
	"tracebloom.backend/internal/domain/entities"
	domainerrors "tracebloom.backend/internal/domain/errors"
	"tracebloom.backend/internal/infrastructure/storage"
	"tracebloom.backend/internal/interfaces/http/response"
	"tracebloom.backend/internal/usecases"
)

// multipart bodies may carry one image plus a handful of text fields
const maxBatchFormBytes = storage.MaxImageBytes + 1<<20

// FarmerHandler handles farmer batch endpoints
type FarmerHandler struct {
	batchUsecase *usecases.BatchUsecase
}

// NewFarmerHandler creates a new farmer handler
func NewFarmerHandler(batchUsecase *usecases.BatchUsecase) *FarmerHandler {
	return &FarmerHandler{batchUsecase: batchUsecase}
}

// ListBatches lists the farmer's batches
// GET /api/farmer/batches?walletAddress=
func (h *FarmerHandler) ListBatches(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	batches, err := h.batchUsecase.ListFarmerBatches(c.Request.Context(), callerID, c.Query("walletAddress"))
	if err != nil {
		response.Error(c, err)
		return
	}

	summaries := make([]*entities.BatchSummary, 0, len(batches))
	for _, b := range batches {
		summaries = append(summaries, b.Summary())
	}
	response.Success(c, http.StatusOK, summaries)
}

// CreateBatch registers a harvested batch from a multipart form
// POST /api/farmer/batches
func (h *FarmerHandler) CreateBatch(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBatchFormBytes)
	input, err := parseBatchForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if input.Image != nil {
		if closer, ok := input.Image.Content.(io.Closer); ok {
			defer closer.Close()
		}
	}

	batch, err := h.batchUsecase.CreateBatch(c.Request.Context(), callerID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, batch.Summary())
}

// GetBatch returns a single batch
// GET /api/farmer/batches/:batchId
func (h *FarmerHandler) GetBatch(c *gin.Context) {
	batchID, ok := pathID(c, "batchId")
	if !ok {
		return
	}

	batch, err := h.batchUsecase.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, batch)
}

// ListPayments lists payments owed to the farmer
// GET /api/farmer/payments?walletAddress=
func (h *FarmerHandler) ListPayments(c *gin.Context) {
	callerID, ok := requireCaller(c)
	if !ok {
		return
	}

	payments, err := h.batchUsecase.ListFarmerPayments(c.Request.Context(), callerID, c.Query("walletAddress"))
	if err != nil {
		response.Error(c, err)
		return
	}

	summaries := make([]*entities.FarmerPaymentSummary, 0, len(payments))
	for _, p := range payments {
		summaries = append(summaries, p.FarmerSummary())
	}
	response.Success(c, http.StatusOK, summaries)
}

func parseBatchForm(c *gin.Context) (*entities.CreateBatchInput, error) {
	var maxErr *http.MaxBytesError
	if _, err := c.MultipartForm(); err != nil && errors.As(err, &maxErr) {
		return nil, domainerrors.BadRequest("request body too large")
	}

	input := &entities.CreateBatchInput{
		WalletAddress: strings.TrimSpace(c.PostForm("walletAddress")),
		CropType:      strings.TrimSpace(c.PostForm("cropType")),
		FarmerName:    strings.TrimSpace(c.PostForm("farmerName")),
		FarmerPhone:   strings.TrimSpace(c.PostForm("farmerPhone")),
	}

	if raw := strings.TrimSpace(c.PostForm("quantity")); raw != "" {
		q, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, domainerrors.BadRequest("quantity must be a number")
		}
		input.Quantity = q
	}
	if v := strings.TrimSpace(c.PostForm("description")); v != "" {
		input.Description = null.StringFrom(v)
	}
	if v := strings.TrimSpace(c.PostForm("location")); v != "" {
		input.Location = null.StringFrom(v)
	}
	if v := strings.TrimSpace(c.PostForm("harvestDate")); v != "" {
		date, err := parseHarvestDate(v)
		if err != nil {
			return nil, domainerrors.BadRequest("harvestDate must be YYYY-MM-DD")
		}
		input.HarvestDate = null.TimeFrom(date)
	}

	file, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return nil, domainerrors.BadRequest("invalid image upload")
	default:
		f, err := file.Open()
		if err != nil {
			return nil, domainerrors.BadRequest("invalid image upload")
		}
		input.Image = &entities.ImageUpload{Filename: file.Filename, Size: file.Size, Content: f}
	}

	return input, nil
}

func parseHarvestDate(v string) (time.Time, error) {
	if t, err := time.Parse(entities.HarvestDateLayout, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}
