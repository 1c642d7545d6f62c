package storage

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader stores an image payload and returns a stable retrievable URL.
type Uploader interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (string, error)
}

// CloudinaryUploader pushes uploads to Cloudinary, configured by the
// CLOUDINARY_URL environment variable.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
}

func NewCloudinaryUploader() (*CloudinaryUploader, error) {
	client, err := cloudinary.New()
	if err != nil {
		return nil, fmt.Errorf("error configuring cloudinary: %w", err)
	}
	return &CloudinaryUploader{client: client}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("error opening upload: %w", err)
	}
	defer src.Close()

	result, err := u.client.Upload.Upload(ctx, src, uploader.UploadParams{})
	if err != nil {
		return "", fmt.Errorf("error uploading image: %w", err)
	}
	return result.SecureURL, nil
}
