package media

import (
	"context"
	"errors"
	"fmt"

	"coqueta/internal/config"
	"coqueta/internal/domain"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryHost uploads assets through the Cloudinary upload API
type CloudinaryHost struct {
	cld    *cloudinary.Cloudinary
	preset string
}

// NewCloudinaryHost builds a signed-upload client from config
func NewCloudinaryHost(cfg config.CloudinaryConfig) (*CloudinaryHost, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryHost{cld: cld, preset: cfg.UploadPreset}, nil
}

// Upload sends the data URI. Host-side failures come back in the response
// body rather than as a transport error, both become an UploadError.
func (h *CloudinaryHost) Upload(ctx context.Context, asset Asset) (UploadResult, error) {
	resp, err := h.cld.Upload.Upload(ctx, asset.DataURI, uploader.UploadParams{
		Folder:       asset.Folder,
		ResourceType: asset.ResourceType,
		UploadPreset: h.preset,
	})
	if err != nil {
		return UploadResult{}, &domain.UploadError{Message: err.Error(), Err: err}
	}
	if resp.Error.Message != "" {
		return UploadResult{}, &domain.UploadError{Message: resp.Error.Message, Err: errors.New(resp.Error.Message)}
	}
	return UploadResult{
		SecureURL:    resp.SecureURL,
		PublicID:     resp.PublicID,
		ResourceType: resp.ResourceType,
	}, nil
}
