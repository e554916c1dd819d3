package service

import (
	"context"
	"errors"

	"studyspots/internal/apperr"
)

// ErrUploadsDisabled is returned by upload operations when no object store is
// configured.
var ErrUploadsDisabled = &apperr.DependencyError{
	Op:  "upload",
	Err: errors.New("object storage is not configured"),
}

// discardAsset deletes an uploaded asset best-effort. Failures only leave an
// orphaned object behind and are logged.
func (s *Service) discardAsset(ctx context.Context, url string) {
	if s.assets == nil || url == "" {
		return
	}
	deleted, err := s.assets.Delete(ctx, url)
	switch {
	case err != nil:
		s.logger.Warnw("asset not deleted", "url", url, "error", err)
	case !deleted:
		s.logger.Warnw("asset already gone", "url", url)
	}
}
