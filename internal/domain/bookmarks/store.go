package bookmarks

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyspots/internal/apperr"
	"studyspots/internal/db"
	"studyspots/internal/domain/venues"
)

const userVenueConstraint = "bookmarks_user_venue_key"

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

// Create inserts the bookmark. The unique index on (user_id, venue_id) turns a
// concurrent duplicate into a ConflictError.
func (r *Repository) Create(ctx context.Context, bookmark *Bookmark) error {
	bookmark.ID = uuid.NewString()

	query := `
	INSERT INTO bookmarks (id, user_id, venue_id)
	VALUES ($1, $2, $3)
	RETURNING bookmarked_at`

	err := r.db.QueryRow(ctx, query, bookmark.ID, bookmark.UserID, bookmark.VenueID).Scan(&bookmark.BookmarkedAt)
	if err != nil {
		if db.IsUniqueViolation(err, userVenueConstraint) {
			return apperr.Conflict(apperr.DuplicateBookmark)
		}
		return apperr.Dependency("insert bookmark", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, bookmarkID string) (*Bookmark, error) {
	query := `SELECT id, user_id, venue_id, bookmarked_at FROM bookmarks WHERE id = $1`

	var b Bookmark
	err := r.db.QueryRow(ctx, query, bookmarkID).Scan(&b.ID, &b.UserID, &b.VenueID, &b.BookmarkedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound(apperr.EntityBookmark, bookmarkID)
		}
		return nil, apperr.Dependency("get bookmark", err)
	}
	return &b, nil
}

func (r *Repository) GetByUserAndVenue(ctx context.Context, userID, venueID string) (*Bookmark, error) {
	query := `
	SELECT id, user_id, venue_id, bookmarked_at
	FROM bookmarks
	WHERE user_id = $1 AND venue_id = $2`

	var b Bookmark
	err := r.db.QueryRow(ctx, query, userID, venueID).Scan(&b.ID, &b.UserID, &b.VenueID, &b.BookmarkedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound(apperr.EntityBookmark, userID+"/"+venueID)
		}
		return nil, apperr.Dependency("get bookmark", err)
	}
	return &b, nil
}

func (r *Repository) Exists(ctx context.Context, userID, venueID string) (bool, error) {
	query := `
	SELECT EXISTS (
		SELECT 1 FROM bookmarks
		WHERE user_id = $1 AND venue_id = $2
	)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, venueID).Scan(&exists); err != nil {
		return false, apperr.Dependency("bookmark exists", err)
	}
	return exists, nil
}

// ListByUser left-joins each bookmark with its venue so that bookmarks of
// deleted venues come back with a nil summary.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]WithVenue, error) {
	query := `
	SELECT
		b.id, b.user_id, b.venue_id, b.bookmarked_at,
		v.id, v.name, v.street, v.city, v.state, v.zip_code, v.country,
		ST_X(v.location::geometry), ST_Y(v.location::geometry),
		v.average_rating, v.thumbnail_url, v.amenities
	FROM bookmarks b
	LEFT JOIN venues v ON v.id = b.venue_id
	WHERE b.user_id = $1
	ORDER BY b.bookmarked_at DESC, b.id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperr.Dependency("list bookmarks", err)
	}
	defer rows.Close()

	out := []WithVenue{}
	for rows.Next() {
		var (
			bw                         WithVenue
			vID, name, street, city    *string
			state, zip, country, thumb *string
			lon, lat                   *float64
			rating                     *int16
			amenities                  []string
		)
		if err := rows.Scan(
			&bw.ID, &bw.UserID, &bw.VenueID, &bw.BookmarkedAt,
			&vID, &name, &street, &city, &state, &zip, &country,
			&lon, &lat, &rating, &thumb, &amenities,
		); err != nil {
			return nil, apperr.Dependency("scan bookmark", err)
		}

		if vID != nil {
			bw.Venue = &venues.Summary{
				ID:   *vID,
				Name: deref(name),
				Address: venues.Address{
					Street:  deref(street),
					City:    deref(city),
					State:   deref(state),
					ZipCode: deref(zip),
					Country: deref(country),
				},
				ThumbnailURL: thumb,
				Amenities:    amenities,
			}
			if lon != nil && lat != nil {
				bw.Venue.Location.Longitude, bw.Venue.Location.Latitude = *lon, *lat
			}
			if rating != nil {
				bw.Venue.AverageRating = int(*rating)
			}
			if bw.Venue.Amenities == nil {
				bw.Venue.Amenities = []string{}
			}
		}
		out = append(out, bw)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("list bookmarks", err)
	}
	return out, nil
}

func (r *Repository) Delete(ctx context.Context, bookmarkID string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM bookmarks WHERE id = $1`, bookmarkID)
	if err != nil {
		return apperr.Dependency("delete bookmark", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound(apperr.EntityBookmark, bookmarkID)
	}
	return nil
}

func (r *Repository) DeleteByUserAndVenue(ctx context.Context, userID, venueID string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND venue_id = $2`, userID, venueID)
	if err != nil {
		return apperr.Dependency("delete bookmark", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound(apperr.EntityBookmark, userID+"/"+venueID)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
