// Package memstore keeps every entity in process memory behind the same
// Store interfaces as the postgres repositories. It enforces the same unique
// constraints and returns the same error kinds.
package memstore

import (
	"maps"
	"slices"
	"sync"
	"time"

	"studyspots/internal/domain/bookmarks"
	"studyspots/internal/domain/reviews"
	"studyspots/internal/domain/users"
	"studyspots/internal/domain/venues"
)

// record pairs a stored value with its insertion sequence, which gives the
// stable ordering the repositories get from created_at.
type record[T any] struct {
	seq uint64
	v   T
}

type DB struct {
	mu    sync.RWMutex
	seq   uint64
	clock func() time.Time
	last  time.Time

	venues    map[string]record[venues.Venue]
	reviews   map[string]record[reviews.Review]
	users     map[string]record[users.User]
	bookmarks map[string]record[bookmarks.Bookmark]
}

func New() *DB {
	return &DB{
		clock:     time.Now,
		venues:    map[string]record[venues.Venue]{},
		reviews:   map[string]record[reviews.Review]{},
		users:     map[string]record[users.User]{},
		bookmarks: map[string]record[bookmarks.Bookmark]{},
	}
}

func (d *DB) Venues() venues.Store       { return &venueStore{d} }
func (d *DB) Reviews() reviews.Store     { return &reviewStore{d} }
func (d *DB) Users() users.Store         { return &userStore{d} }
func (d *DB) Bookmarks() bookmarks.Store { return &bookmarkStore{d} }

// next must be called with mu held.
func (d *DB) next() uint64 {
	d.seq++
	return d.seq
}

// now returns strictly increasing timestamps at microsecond precision, the
// resolution postgres stores. Must be called with mu held.
func (d *DB) now() time.Time {
	t := d.clock().UTC().Truncate(time.Microsecond)
	if !t.After(d.last) {
		t = d.last.Add(time.Microsecond)
	}
	d.last = t
	return t
}

func cloneVenue(v venues.Venue) venues.Venue {
	v.Phone = clonePtr(v.Phone)
	v.Website = clonePtr(v.Website)
	v.ThumbnailURL = clonePtr(v.ThumbnailURL)
	v.OpeningHours = maps.Clone(v.OpeningHours)
	v.Amenities = slices.Clone(v.Amenities)
	v.Atmosphere = slices.Clone(v.Atmosphere)
	v.EnergyLevel = slices.Clone(v.EnergyLevel)
	v.StudyFriendly = slices.Clone(v.StudyFriendly)
	return v
}

func cloneReview(rv reviews.Review) reviews.Review {
	rv.Atmosphere = clonePtr(rv.Atmosphere)
	rv.EnergyLevel = clonePtr(rv.EnergyLevel)
	rv.StudyFriendly = clonePtr(rv.StudyFriendly)
	photos := make([]reviews.Photo, len(rv.Photos))
	for i, p := range rv.Photos {
		p.Caption = clonePtr(p.Caption)
		photos[i] = p
	}
	rv.Photos = photos
	return rv
}

func cloneUser(u users.User) users.User {
	u.ProfilePicture = clonePtr(u.ProfilePicture)
	return u
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// sortedValues returns the records ordered by insertion.
func sortedValues[T any](m map[string]record[T]) []record[T] {
	out := make([]record[T], 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b record[T]) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	return out
}
