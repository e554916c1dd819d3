package service

import (
	"context"

	"studyspots/internal/apperr"
)

// The checks below fail fast. The stores back them with unique indexes, so a
// concurrent writer that slips past still gets a ConflictError.

// AssertUniqueUsername fails when another user already has name. excludingID
// lets a user keep their own name on update.
func (s *Service) AssertUniqueUsername(ctx context.Context, name, excludingID string) error {
	u, err := s.users.GetByName(ctx, name)
	switch {
	case apperr.IsNotFound(err):
		return nil
	case err != nil:
		return err
	case u.ID == excludingID:
		return nil
	}
	return apperr.Conflict(apperr.DuplicateUsername)
}

func (s *Service) AssertNoExistingBookmark(ctx context.Context, userID, venueID string) error {
	exists, err := s.bookmarks.Exists(ctx, userID, venueID)
	if err != nil {
		return err
	}
	if exists {
		return apperr.Conflict(apperr.DuplicateBookmark)
	}
	return nil
}
