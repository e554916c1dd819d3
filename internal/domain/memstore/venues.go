package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"studyspots/internal/apperr"
	"studyspots/internal/domain/venues"
	"studyspots/internal/geo"
)

type venueStore struct {
	db *DB
}

// EnsureIndexes is a no-op; every search is a scan.
func (s *venueStore) EnsureIndexes(ctx context.Context) error {
	return ctx.Err()
}

func (s *venueStore) Create(ctx context.Context, venue *venues.Venue) error {
	if err := ctx.Err(); err != nil {
		return apperr.Dependency("insert venue", err)
	}
	venue.Normalize()
	venue.ID = uuid.NewString()

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	venue.CreatedAt, venue.UpdatedAt = now, now
	s.db.venues[venue.ID] = record[venues.Venue]{seq: s.db.next(), v: cloneVenue(*venue)}
	return nil
}

func (s *venueStore) GetByID(ctx context.Context, venueID string) (*venues.Venue, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rec, ok := s.db.venues[venueID]
	if !ok {
		return nil, apperr.NotFound(apperr.EntityVenue, venueID)
	}
	v := cloneVenue(rec.v)
	return &v, nil
}

func (s *venueStore) Update(ctx context.Context, venueID string, patch venues.Patch) (*venues.Venue, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.db.venues[venueID]
	if !ok {
		return nil, apperr.NotFound(apperr.EntityVenue, venueID)
	}
	v := cloneVenue(rec.v)
	patch.Apply(&v)
	v.UpdatedAt = s.db.now()
	rec.v = cloneVenue(v)
	s.db.venues[venueID] = rec
	return &v, nil
}

func (s *venueStore) SetAverageRating(ctx context.Context, venueID string, rating int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.db.venues[venueID]
	if !ok {
		return apperr.NotFound(apperr.EntityVenue, venueID)
	}
	rec.v.AverageRating = venues.ClampRating(rating)
	rec.v.UpdatedAt = s.db.now()
	s.db.venues[venueID] = rec
	return nil
}

func (s *venueStore) Delete(ctx context.Context, venueID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.venues[venueID]; !ok {
		return apperr.NotFound(apperr.EntityVenue, venueID)
	}
	delete(s.db.venues, venueID)
	return nil
}

func (s *venueStore) Search(ctx context.Context, q venues.Query) ([]venues.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Dependency("search venues", err)
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	type hit struct {
		v    venues.Venue
		dist float64
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))

	var hits []hit
	for _, rec := range sortedValues(s.db.venues) {
		v := rec.v
		var dist float64
		if q.Near != nil {
			dist = geo.Distance(q.Near.Center, v.Location)
			if dist > q.Near.MaxDistance {
				continue
			}
		}
		if text != "" && !matchesText(v, text) {
			continue
		}
		if !hasAll(v.Amenities, q.Amenities) {
			continue
		}
		if q.MinRating != nil && float64(v.AverageRating) < *q.MinRating {
			continue
		}
		hits = append(hits, hit{v: v, dist: dist})
	}

	if q.Near != nil {
		slices.SortStableFunc(hits, func(a, b hit) int {
			if c := cmp.Compare(a.dist, b.dist); c != 0 {
				return c
			}
			return strings.Compare(a.v.ID, b.v.ID)
		})
	}

	out := []venues.Venue{}
	for i, h := range hits {
		if i < q.Skip {
			continue
		}
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
		out = append(out, cloneVenue(h.v))
	}
	return out, nil
}

func (s *venueStore) ListIDs(ctx context.Context) ([]string, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	ids := []string{}
	for _, rec := range sortedValues(s.db.venues) {
		ids = append(ids, rec.v.ID)
	}
	return ids, nil
}

// matchesText expects needle already lower-cased.
func matchesText(v venues.Venue, needle string) bool {
	for _, field := range []string{v.Name, v.Address.City, v.Address.Street} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func hasAll(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}
