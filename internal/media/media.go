// Package media abstracts the third-party image host. The application never
// stores image bytes itself — uploads are passed straight through to the host
// and only the returned URL and public ID are persisted.
package media

import (
	"context"
	"errors"
	"io"
)

// Folders on the media host, mirroring how assets were organised historically.
const (
	FolderBlogs    = "blogs"
	FolderProfiles = "user_profiles"
)

// Asset identifies a stored image: the serving URL and the host-side public
// ID needed to delete it later.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"-"`
}

// Uploader stores and deletes images on the media host.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, folder string) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// Disabled is the Uploader wired in when no media host is configured. The
// server still runs; anything that actually needs an upload fails with a
// clear message instead of a nil-pointer panic.
type Disabled struct{}

func (Disabled) Upload(context.Context, io.Reader, string) (*Asset, error) {
	return nil, errors.New("media: image uploads are not configured")
}

func (Disabled) Destroy(context.Context, string) error {
	return errors.New("media: image uploads are not configured")
}
