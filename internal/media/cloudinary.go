package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader implements Uploader against the Cloudinary upload API.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
	logger *slog.Logger
}

// NewCloudinaryUploader creates an uploader from account credentials.
func NewCloudinaryUploader(cloudName, apiKey, apiSecret string, logger *slog.Logger) (*CloudinaryUploader, error) {
	client, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("media: creating cloudinary client: %w", err)
	}
	return &CloudinaryUploader{client: client, logger: logger}, nil
}

// Upload streams the image to Cloudinary and returns its URL and public ID.
func (u *CloudinaryUploader) Upload(ctx context.Context, r io.Reader, folder string) (*Asset, error) {
	resp, err := u.client.Upload.Upload(ctx, r, uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, fmt.Errorf("media: uploading image: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("media: uploading image: %s", resp.Error.Message)
	}

	u.logger.Info("image uploaded",
		slog.String("public_id", resp.PublicID),
		slog.String("folder", folder),
	)

	return &Asset{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

// Destroy removes a previously uploaded asset. A missing asset is not an
// error — Cloudinary reports "not found" in the result body, and for our
// purposes the asset being gone is the desired end state.
func (u *CloudinaryUploader) Destroy(ctx context.Context, publicID string) error {
	_, err := u.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("media: destroying asset %s: %w", publicID, err)
	}
	return nil
}
