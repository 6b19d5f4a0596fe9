package storage

import (
	"context"
	"fmt"

	"tracebloom.backend/internal/domain/entities"
)

// Uploader validates uploads and stores them under a fixed folder
type Uploader struct {
	store  ImageStore
	folder string
}

// NewUploader creates an uploader writing batch images to CropFolder
func NewUploader(store ImageStore) *Uploader {
	return &Uploader{store: store, folder: CropFolder}
}

// Upload stores a crop image and returns its public URL
func (u *Uploader) Upload(ctx context.Context, upload *entities.ImageUpload) (string, error) {
	img, err := PrepareImage(upload)
	if err != nil {
		return "", err
	}
	url, err := u.store.Put(ctx, u.folder, img)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return url, nil
}
