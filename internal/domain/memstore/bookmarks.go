package memstore

import (
	"context"

	"github.com/google/uuid"

	"studyspots/internal/apperr"
	"studyspots/internal/domain/bookmarks"
)

type bookmarkStore struct {
	db *DB
}

// find must be called with mu held.
func (s *bookmarkStore) find(userID, venueID string) (record[bookmarks.Bookmark], bool) {
	for _, rec := range s.db.bookmarks {
		if rec.v.UserID == userID && rec.v.VenueID == venueID {
			return rec, true
		}
	}
	return record[bookmarks.Bookmark]{}, false
}

func (s *bookmarkStore) Create(ctx context.Context, bookmark *bookmarks.Bookmark) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.find(bookmark.UserID, bookmark.VenueID); ok {
		return apperr.Conflict(apperr.DuplicateBookmark)
	}
	bookmark.ID = uuid.NewString()
	bookmark.BookmarkedAt = s.db.now()
	s.db.bookmarks[bookmark.ID] = record[bookmarks.Bookmark]{seq: s.db.next(), v: *bookmark}
	return nil
}

func (s *bookmarkStore) GetByID(ctx context.Context, bookmarkID string) (*bookmarks.Bookmark, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rec, ok := s.db.bookmarks[bookmarkID]
	if !ok {
		return nil, apperr.NotFound(apperr.EntityBookmark, bookmarkID)
	}
	b := rec.v
	return &b, nil
}

func (s *bookmarkStore) GetByUserAndVenue(ctx context.Context, userID, venueID string) (*bookmarks.Bookmark, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rec, ok := s.find(userID, venueID)
	if !ok {
		return nil, apperr.NotFound(apperr.EntityBookmark, userID+"/"+venueID)
	}
	b := rec.v
	return &b, nil
}

func (s *bookmarkStore) Exists(ctx context.Context, userID, venueID string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	_, ok := s.find(userID, venueID)
	return ok, nil
}

// ListByUser returns newest first, joining the venue summary when the venue
// still exists.
func (s *bookmarkStore) ListByUser(ctx context.Context, userID string) ([]bookmarks.WithVenue, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	recs := sortedValues(s.db.bookmarks)
	out := []bookmarks.WithVenue{}
	for i := len(recs) - 1; i >= 0; i-- {
		b := recs[i].v
		if b.UserID != userID {
			continue
		}
		bw := bookmarks.WithVenue{Bookmark: b}
		if vrec, ok := s.db.venues[b.VenueID]; ok {
			v := cloneVenue(vrec.v)
			bw.Venue = v.Summarize()
		}
		out = append(out, bw)
	}
	return out, nil
}

func (s *bookmarkStore) Delete(ctx context.Context, bookmarkID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.bookmarks[bookmarkID]; !ok {
		return apperr.NotFound(apperr.EntityBookmark, bookmarkID)
	}
	delete(s.db.bookmarks, bookmarkID)
	return nil
}

func (s *bookmarkStore) DeleteByUserAndVenue(ctx context.Context, userID, venueID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.find(userID, venueID)
	if !ok {
		return apperr.NotFound(apperr.EntityBookmark, userID+"/"+venueID)
	}
	delete(s.db.bookmarks, rec.v.ID)
	return nil
}
