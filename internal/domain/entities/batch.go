package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// BatchStatus represents the lifecycle position of a batch
type BatchStatus string

const (
	BatchStatusHarvested BatchStatus = "harvested"
	BatchStatusInTransit BatchStatus = "in-transit"
	BatchStatusDelivered BatchStatus = "delivered"
)

// HarvestDateLayout is the wire format of harvest dates
const HarvestDateLayout = "2006-01-02"

// Batch is a traceable unit of produce
type Batch struct {
	ID           uuid.UUID   `json:"batchId"`
	FarmerID     uuid.UUID   `json:"farmerId"`
	FarmerWallet string      `json:"farmerWallet"`
	FarmerName   string      `json:"farmerName"`
	FarmerPhone  string      `json:"farmerPhone"`
	CropType     string      `json:"cropType"`
	Quantity     float64     `json:"quantity"`
	Description  null.String `json:"description"`
	Location     null.String `json:"location"`
	HarvestDate  null.Time   `json:"harvestDate"`
	Status       BatchStatus `json:"status"`
	ImageURL     null.String `json:"imageUrl"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// CreateBatchInput is the validated form of a farmer batch upload
type CreateBatchInput struct {
	WalletAddress string
	CropType      string
	Quantity      float64
	FarmerName    string
	FarmerPhone   string
	Description   null.String
	Location      null.String
	HarvestDate   null.Time
	Image         *ImageUpload
}

// BatchSummary is the farmer-facing view of a batch
type BatchSummary struct {
	BatchID     uuid.UUID   `json:"batchId"`
	CropType    string      `json:"cropType"`
	Description null.String `json:"description"`
	Quantity    float64     `json:"quantity"`
	Location    null.String `json:"location"`
	Status      BatchStatus `json:"status"`
	HarvestDate null.String `json:"harvestDate"`
	ImageURL    null.String `json:"imageUrl"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	FarmerName  string      `json:"farmerName"`
	FarmerPhone string      `json:"farmerPhone"`
}

// Summary converts a batch to its farmer-facing view
func (b *Batch) Summary() *BatchSummary {
	s := &BatchSummary{
		BatchID:     b.ID,
		CropType:    b.CropType,
		Description: b.Description,
		Quantity:    b.Quantity,
		Location:    b.Location,
		Status:      b.Status,
		ImageURL:    b.ImageURL,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		FarmerName:  b.FarmerName,
		FarmerPhone: b.FarmerPhone,
	}
	if b.HarvestDate.Valid {
		s.HarvestDate = null.StringFrom(b.HarvestDate.Time.UTC().Format(HarvestDateLayout))
	}
	return s
}
