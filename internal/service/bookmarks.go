package service

import (
	"context"

	"studyspots/internal/domain/bookmarks"
)

// CreateBookmark saves venueID for userID. Both must exist and the pair must
// not be bookmarked already.
func (s *Service) CreateBookmark(ctx context.Context, userID, venueID string) (*bookmarks.Bookmark, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	if err := requireID("venue_id", venueID); err != nil {
		return nil, err
	}
	if _, err := s.RequireUser(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.RequireVenue(ctx, venueID); err != nil {
		return nil, err
	}
	if err := s.AssertNoExistingBookmark(ctx, userID, venueID); err != nil {
		return nil, err
	}

	b := &bookmarks.Bookmark{UserID: userID, VenueID: venueID}
	if err := s.bookmarks.Create(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Infow("bookmark created", "bookmark_id", b.ID, "user_id", userID, "venue_id", venueID)
	return b, nil
}

func (s *Service) GetBookmark(ctx context.Context, bookmarkID string) (*bookmarks.Bookmark, error) {
	return s.bookmarks.GetByID(ctx, bookmarkID)
}

// ListBookmarksByUser returns newest first with a venue summary attached.
// Bookmarks of deleted venues carry a nil summary.
func (s *Service) ListBookmarksByUser(ctx context.Context, userID string) ([]bookmarks.WithVenue, error) {
	return s.bookmarks.ListByUser(ctx, userID)
}

func (s *Service) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	if err := s.bookmarks.Delete(ctx, bookmarkID); err != nil {
		return err
	}
	s.logger.Infow("bookmark deleted", "bookmark_id", bookmarkID)
	return nil
}

func (s *Service) DeleteBookmarkByUserAndVenue(ctx context.Context, userID, venueID string) error {
	if err := s.bookmarks.DeleteByUserAndVenue(ctx, userID, venueID); err != nil {
		return err
	}
	s.logger.Infow("bookmark deleted", "user_id", userID, "venue_id", venueID)
	return nil
}

func (s *Service) BookmarkExists(ctx context.Context, userID, venueID string) (bool, error) {
	return s.bookmarks.Exists(ctx, userID, venueID)
}
