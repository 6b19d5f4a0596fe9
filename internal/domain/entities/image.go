package entities

import "io"

// ImageUpload is an image file attached to a request
type ImageUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}
