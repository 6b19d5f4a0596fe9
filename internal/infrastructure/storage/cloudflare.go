package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudflare/cloudflare-go"
	"go.uber.org/zap"
	"tracebloom.backend/pkg/logger"
)

// CloudflareClient is the subset of the Cloudflare API used for images
type CloudflareClient interface {
	UploadImage(ctx context.Context, rc *cloudflare.ResourceContainer, params cloudflare.UploadImageParams) (cloudflare.Image, error)
}

var newCloudflareAPI = func(apiToken string) (CloudflareClient, error) {
	api, err := cloudflare.NewWithAPIToken(apiToken)
	if err != nil {
		return nil, err
	}
	return api, nil
}

// CloudflareStore uploads images to Cloudflare Images
type CloudflareStore struct {
	client CloudflareClient
	rc     *cloudflare.ResourceContainer
}

// NewCloudflareStore builds a store from an account id and API token
func NewCloudflareStore(accountID, apiToken string) (*CloudflareStore, error) {
	if accountID == "" || apiToken == "" {
		return nil, errors.New("cloudflare account id and api token are required")
	}
	client, err := newCloudflareAPI(apiToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudflare client: %w", err)
	}
	return NewCloudflareStoreWithClient(client, accountID), nil
}

// NewCloudflareStoreWithClient wraps an existing client
func NewCloudflareStoreWithClient(client CloudflareClient, accountID string) *CloudflareStore {
	return &CloudflareStore{
		client: client,
		rc: &cloudflare.ResourceContainer{
			Level:      cloudflare.AccountRouteLevel,
			Identifier: accountID,
		},
	}
}

// Put uploads img and returns its first delivery variant URL
func (s *CloudflareStore) Put(ctx context.Context, folder string, img *Image) (string, error) {
	params := cloudflare.UploadImageParams{
		File: io.NopCloser(img.reader()),
		Name: folder + "/" + img.Name,
		Metadata: map[string]interface{}{
			"folder":   folder,
			"filename": img.Original,
		},
	}

	image, err := s.client.UploadImage(ctx, s.rc, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if len(image.Variants) == 0 {
		return "", fmt.Errorf("uploaded image %s has no delivery variants", image.ID)
	}

	logger.Info(ctx, "Uploaded image to Cloudflare Images",
		zap.String("imageID", image.ID),
		zap.String("folder", folder),
	)
	return image.Variants[0], nil
}
