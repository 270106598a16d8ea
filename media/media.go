// Package media is the upload side channel for image assets. Post and user
// flows hand it file contents and get back a durable public URL; the
// transport layer streams assets back out by ID.
package media

import (
	"context"
	"io"
)

// Asset identifies a stored blob and the public URL minted for it.
type Asset struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Store interface {
	// Upload stores the file contents and returns the asset. A failed
	// upload must leave nothing referenced by callers.
	Upload(ctx context.Context, filename string, contents io.Reader) (*Asset, error)
	// Open returns a reader over a stored asset.
	Open(ctx context.Context, assetID string) (io.ReadCloser, error)
	// Delete releases a stored asset. Deleting an unknown asset is an
	// error the caller may ignore.
	Delete(ctx context.Context, assetID string) error
}
