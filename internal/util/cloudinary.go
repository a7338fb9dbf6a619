package util

import (
	"context"
	"fmt"
	"mime/multipart"

	"socialnet/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

type CloudinaryClient struct {
	cld *cloudinary.Cloudinary
	cfg *config.Config
}

func NewCloudinaryClient(cfg *config.Config) (*CloudinaryClient, error) {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not configured")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryClient{
		cld: cld,
		cfg: cfg,
	}, nil
}

// UploadPostImage uploads a post image from a multipart file header and
// returns the delivered URL.
func (c *CloudinaryClient) UploadPostImage(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("error opening uploaded file: %w", err)
	}
	defer file.Close()

	ctx := context.Background()
	result, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID: "posts/" + uuid.New().String(),
		Folder:   "socialnet",
	})
	if err != nil {
		return "", fmt.Errorf("error uploading image: %w", err)
	}

	return result.SecureURL, nil
}

// DeleteImage removes an uploaded image by public ID
func (c *CloudinaryClient) DeleteImage(publicID string) error {
	ctx := context.Background()
	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("error deleting image: %w", err)
	}
	return nil
}
