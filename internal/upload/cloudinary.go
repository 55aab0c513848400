package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader stores objects in Cloudinary and returns the secure
// delivery URL.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary builds an uploader from a cloudinary:// URL
// (typically the CLOUDINARY_URL environment value).
func NewCloudinary(cloudURL string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// Upload stores the object under a timestamp-derived public ID and returns
// its secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	// Cloudinary appends the format itself, so the public ID goes in
	// without the extension.
	publicID := strings.TrimSuffix(StorageKey(suggestedName), extOf(suggestedName))
	result, err := u.cld.Upload.Upload(ctx, r, uploader.UploadParams{PublicID: publicID})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload: empty URL for %q", publicID)
	}
	return result.SecureURL, nil
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
