package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"tracebloom.backend/internal/domain/entities"
	domainerrors "tracebloom.backend/internal/domain/errors"
	"tracebloom.backend/pkg/utils"
)

const (
	// MaxImageBytes caps a single upload
	MaxImageBytes = 10 << 20
	// CropFolder groups batch images in the store
	CropFolder = "tracebloom/crops"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Image is a validated upload ready to be stored
type Image struct {
	Name     string
	MIME     string
	Ext      string
	Data     []byte
	Original string
}

// ImageStore persists images and returns their public URL
type ImageStore interface {
	Put(ctx context.Context, folder string, img *Image) (string, error)
}

// PrepareImage reads an upload, enforces the size cap and sniffs the content type.
// Only JPEG and PNG are accepted, whatever the filename claims.
func PrepareImage(upload *entities.ImageUpload) (*Image, error) {
	if upload == nil || upload.Content == nil {
		return nil, fmt.Errorf("%w: image content is empty", domainerrors.ErrInvalidInput)
	}
	if upload.Size > MaxImageBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", domainerrors.ErrInvalidInput, MaxImageBytes)
	}

	data, err := io.ReadAll(io.LimitReader(upload.Content, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image content is empty", domainerrors.ErrInvalidInput)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", domainerrors.ErrInvalidInput, MaxImageBytes)
	}

	mtype := mimetype.Detect(data)
	ext, ok := allowedImageTypes[mtype.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domainerrors.ErrUnsupportedMedia, mtype.String())
	}

	return &Image{
		Name:     utils.GenerateUUIDv7().String() + ext,
		MIME:     mtype.String(),
		Ext:      ext,
		Data:     data,
		Original: path.Base(strings.ReplaceAll(upload.Filename, "\\", "/")),
	}, nil
}

func (img *Image) reader() io.Reader {
	return bytes.NewReader(img.Data)
}
