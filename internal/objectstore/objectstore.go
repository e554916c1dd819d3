// Package objectstore uploads binary assets and hands back public URLs.
package objectstore

import (
	"context"
	"io"
)

type Store interface {
	// Put uploads r under folder and returns the public URL of the asset.
	Put(ctx context.Context, r io.Reader, contentType, folder string) (string, error)
	// Delete removes the asset behind url. It reports false when nothing was
	// deleted.
	Delete(ctx context.Context, url string) (bool, error)
}
