package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyspots/internal/apperr"
	"studyspots/internal/db"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const reviewColumns = `
	id, venue_id, user_id, overall_rating, outlet_accessibility, wifi_quality,
	atmosphere, energy_level, study_friendly, photos, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanReview(row scanner) (*Review, error) {
	var rv Review
	err := row.Scan(
		&rv.ID, &rv.VenueID, &rv.UserID,
		&rv.OverallRating, &rv.OutletAccessibility, &rv.WifiQuality,
		&rv.Atmosphere, &rv.EnergyLevel, &rv.StudyFriendly,
		&rv.Photos, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rv.Photos == nil {
		rv.Photos = []Photo{}
	}
	return &rv, nil
}

func (r *Repository) Create(ctx context.Context, review *Review) error {
	review.ID = uuid.NewString()
	if review.Photos == nil {
		review.Photos = []Photo{}
	}
	photos, err := json.Marshal(review.Photos)
	if err != nil {
		return apperr.Dependency("insert review", err)
	}

	query := `
	INSERT INTO reviews (
		id, venue_id, user_id, overall_rating, outlet_accessibility, wifi_quality,
		atmosphere, energy_level, study_friendly, photos
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		review.ID,
		review.VenueID,
		review.UserID,
		review.OverallRating,
		review.OutletAccessibility,
		review.WifiQuality,
		review.Atmosphere,
		review.EnergyLevel,
		review.StudyFriendly,
		photos,
	).Scan(&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return apperr.Dependency("insert review", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, reviewID string) (*Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	rv, err := scanReview(r.db.QueryRow(ctx, query, reviewID))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound(apperr.EntityReview, reviewID)
		}
		return nil, apperr.Dependency("get review", err)
	}
	return rv, nil
}

func (r *Repository) ListByVenue(ctx context.Context, venueID string) ([]Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE venue_id = $1 ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, query, venueID)
	if err != nil {
		return nil, apperr.Dependency("list reviews", err)
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, apperr.Dependency("scan review", err)
		}
		out = append(out, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("list reviews", err)
	}
	return out, nil
}

// Update applies the non-nil fields of patch and always refreshes updated_at.
func (r *Repository) Update(ctx context.Context, reviewID string, patch Patch) (*Review, error) {
	var (
		set  []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.OverallRating != nil {
		add("overall_rating", *patch.OverallRating)
	}
	if patch.OutletAccessibility != nil {
		add("outlet_accessibility", *patch.OutletAccessibility)
	}
	if patch.WifiQuality != nil {
		add("wifi_quality", *patch.WifiQuality)
	}
	if patch.Atmosphere != nil {
		add("atmosphere", *patch.Atmosphere)
	}
	if patch.EnergyLevel != nil {
		add("energy_level", *patch.EnergyLevel)
	}
	if patch.StudyFriendly != nil {
		add("study_friendly", *patch.StudyFriendly)
	}
	set = append(set, "updated_at = NOW()")
	args = append(args, reviewID)

	query := fmt.Sprintf(`UPDATE reviews SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), reviewColumns)

	rv, err := scanReview(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound(apperr.EntityReview, reviewID)
		}
		return nil, apperr.Dependency("update review", err)
	}
	return rv, nil
}

func (r *Repository) Delete(ctx context.Context, reviewID string) (string, error) {
	var venueID string
	err := r.db.QueryRow(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING venue_id`, reviewID).Scan(&venueID)
	if err != nil {
		if db.IsNoRows(err) {
			return "", apperr.NotFound(apperr.EntityReview, reviewID)
		}
		return "", apperr.Dependency("delete review", err)
	}
	return venueID, nil
}

func (r *Repository) AddPhoto(ctx context.Context, reviewID string, photo *Photo) (*Review, error) {
	photo.ID = uuid.NewString()
	photo.AddedAt = time.Now().UTC()

	encoded, err := json.Marshal(photo)
	if err != nil {
		return nil, apperr.Dependency("add review photo", err)
	}

	query := `
	UPDATE reviews
	SET photos = photos || jsonb_build_array($1::jsonb), updated_at = NOW()
	WHERE id = $2
	RETURNING ` + reviewColumns

	rv, err := scanReview(r.db.QueryRow(ctx, query, encoded, reviewID))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound(apperr.EntityReview, reviewID)
		}
		return nil, apperr.Dependency("add review photo", err)
	}
	return rv, nil
}

// RatingStats averages overall_rating over every review of the venue.
func (r *Repository) RatingStats(ctx context.Context, venueID string) (RatingStats, error) {
	query := `
	SELECT COUNT(id), COALESCE(AVG(overall_rating), 0)
	FROM reviews
	WHERE venue_id = $1`

	var stats RatingStats
	if err := r.db.QueryRow(ctx, query, venueID).Scan(&stats.Count, &stats.Mean); err != nil {
		return RatingStats{}, apperr.Dependency("review rating stats", err)
	}
	return stats, nil
}

// ListPhotosByVenue flattens the photos of all reviews of a venue, oldest first.
func (r *Repository) ListPhotosByVenue(ctx context.Context, venueID string) ([]VenuePhoto, error) {
	query := `
	SELECT r.id, r.user_id, p.photo
	FROM reviews r
	CROSS JOIN LATERAL jsonb_array_elements(r.photos) WITH ORDINALITY AS p(photo, idx)
	WHERE r.venue_id = $1
	ORDER BY (p.photo->>'added_at')::timestamptz, r.created_at, r.id, p.idx`

	rows, err := r.db.Query(ctx, query, venueID)
	if err != nil {
		return nil, apperr.Dependency("list venue photos", err)
	}
	defer rows.Close()

	out := []VenuePhoto{}
	for rows.Next() {
		var vp VenuePhoto
		if err := rows.Scan(&vp.ReviewID, &vp.UserID, &vp.Photo); err != nil {
			return nil, apperr.Dependency("scan venue photo", err)
		}
		out = append(out, vp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("list venue photos", err)
	}
	return out, nil
}
