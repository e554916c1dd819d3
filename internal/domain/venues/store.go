package venues

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyspots/internal/apperr"
	"studyspots/internal/db"
)

type Repository struct {
	db *pgxpool.Pool

	indexMu    sync.Mutex
	indexReady bool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const venueColumns = `
	v.id, v.name, v.street, v.city, v.state, v.zip_code, v.country,
	ST_X(v.location::geometry) AS longitude,
	ST_Y(v.location::geometry) AS latitude,
	v.phone, v.website, v.opening_hours, v.thumbnail_url, v.amenities,
	v.wifi_access, v.outlet_access, v.average_rating,
	v.atmosphere, v.energy_level, v.study_friendly,
	v.created_at, v.updated_at`

var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS venues_location_gix ON venues USING GIST (location)`,
	`CREATE INDEX IF NOT EXISTS venues_amenities_gin ON venues USING GIN (amenities)`,
	`CREATE INDEX IF NOT EXISTS venues_name_trgm ON venues USING GIN (name gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS venues_city_trgm ON venues USING GIN (city gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS venues_street_trgm ON venues USING GIN (street gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS venues_average_rating_idx ON venues (average_rating)`,
}

// EnsureIndexes creates the discovery indexes once per repository. A failed
// attempt is retried on the next call.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	r.indexMu.Lock()
	defer r.indexMu.Unlock()

	if r.indexReady {
		return nil
	}
	for _, stmt := range indexStatements {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return apperr.Dependency("ensure venue indexes", err)
		}
	}
	r.indexReady = true
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVenue(row scanner) (*Venue, error) {
	var (
		v                  Venue
		wifi, outlet, rate int16
	)
	err := row.Scan(
		&v.ID, &v.Name,
		&v.Address.Street, &v.Address.City, &v.Address.State, &v.Address.ZipCode, &v.Address.Country,
		&v.Location.Longitude, &v.Location.Latitude,
		&v.Phone, &v.Website, &v.OpeningHours, &v.ThumbnailURL, &v.Amenities,
		&wifi, &outlet, &rate,
		&v.Atmosphere, &v.EnergyLevel, &v.StudyFriendly,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.WifiAccess = AccessLevel(wifi)
	v.OutletAccess = AccessLevel(outlet)
	v.AverageRating = int(rate)
	return &v, nil
}

// Create inserts the venue, assigning its ID and timestamps.
func (r *Repository) Create(ctx context.Context, venue *Venue) error {
	venue.Normalize()
	venue.ID = uuid.NewString()

	const query = `
	INSERT INTO venues (
		id, name, street, city, state, zip_code, country, location,
		phone, website, opening_hours, thumbnail_url, amenities,
		wifi_access, outlet_access, average_rating,
		atmosphere, energy_level, study_friendly
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		ST_SetSRID(ST_MakePoint($8, $9), 4326)::geography,
		$10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20
	)
	RETURNING created_at, updated_at`

	args := []any{
		venue.ID,
		venue.Name,
		venue.Address.Street,
		venue.Address.City,
		venue.Address.State,
		venue.Address.ZipCode,
		venue.Address.Country,
		venue.Location.Longitude,
		venue.Location.Latitude,
		venue.Phone,
		venue.Website,
		venue.OpeningHours,
		venue.ThumbnailURL,
		venue.Amenities,
		int16(venue.WifiAccess),
		int16(venue.OutletAccess),
		int16(venue.AverageRating),
		venue.Atmosphere,
		venue.EnergyLevel,
		venue.StudyFriendly,
	}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&venue.CreatedAt, &venue.UpdatedAt); err != nil {
		return apperr.Dependency("insert venue", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, venueID string) (*Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues v WHERE v.id = $1`

	v, err := scanVenue(r.db.QueryRow(ctx, query, venueID))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound(apperr.EntityVenue, venueID)
		}
		return nil, apperr.Dependency("get venue", err)
	}
	return v, nil
}

// Update applies the non-nil fields of patch and always refreshes updated_at.
func (r *Repository) Update(ctx context.Context, venueID string, patch Patch) (*Venue, error) {
	var (
		set  []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Address != nil {
		addr := *patch.Address
		if addr.Country == "" {
			addr.Country = DefaultCountry
		}
		add("street", addr.Street)
		add("city", addr.City)
		add("state", addr.State)
		add("zip_code", addr.ZipCode)
		add("country", addr.Country)
	}
	if patch.Location != nil {
		args = append(args, patch.Location.Longitude, patch.Location.Latitude)
		set = append(set, fmt.Sprintf(
			"location = ST_SetSRID(ST_MakePoint($%d, $%d), 4326)::geography", len(args)-1, len(args),
		))
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Website != nil {
		add("website", *patch.Website)
	}
	if patch.OpeningHours != nil {
		hours := *patch.OpeningHours
		if hours == nil {
			hours = map[string]string{}
		}
		add("opening_hours", hours)
	}
	if patch.ThumbnailURL != nil {
		add("thumbnail_url", *patch.ThumbnailURL)
	}
	if patch.Amenities != nil {
		add("amenities", nonNil(*patch.Amenities))
	}
	if patch.WifiAccess != nil {
		add("wifi_access", int16(*patch.WifiAccess))
	}
	if patch.OutletAccess != nil {
		add("outlet_access", int16(*patch.OutletAccess))
	}
	if patch.AverageRating != nil {
		add("average_rating", int16(ClampRating(*patch.AverageRating)))
	}
	if patch.Atmosphere != nil {
		add("atmosphere", nonNil(*patch.Atmosphere))
	}
	if patch.EnergyLevel != nil {
		add("energy_level", nonNil(*patch.EnergyLevel))
	}
	if patch.StudyFriendly != nil {
		add("study_friendly", nonNil(*patch.StudyFriendly))
	}
	set = append(set, "updated_at = NOW()")
	args = append(args, venueID)

	query := fmt.Sprintf(
		`UPDATE venues v SET %s WHERE v.id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), venueColumns,
	)

	v, err := scanVenue(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound(apperr.EntityVenue, venueID)
		}
		return nil, apperr.Dependency("update venue", err)
	}
	return v, nil
}

// SetAverageRating persists a recomputed rating.
func (r *Repository) SetAverageRating(ctx context.Context, venueID string, rating int) error {
	const query = `UPDATE venues SET average_rating = $1, updated_at = NOW() WHERE id = $2`

	ct, err := r.db.Exec(ctx, query, int16(ClampRating(rating)), venueID)
	if err != nil {
		return apperr.Dependency("set venue rating", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound(apperr.EntityVenue, venueID)
	}
	return nil
}

// Delete removes the venue. Reviews and bookmarks pointing at it are kept.
func (r *Repository) Delete(ctx context.Context, venueID string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM venues WHERE id = $1`, venueID)
	if err != nil {
		return apperr.Dependency("delete venue", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound(apperr.EntityVenue, venueID)
	}
	return nil
}

// Search builds one query from every predicate set on q.
func (r *Repository) Search(ctx context.Context, q Query) ([]Venue, error) {
	var (
		where   []string
		args    []any
		orderBy = "v.created_at, v.id"
	)
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Near != nil {
		point := fmt.Sprintf(
			"ST_SetSRID(ST_MakePoint(%s, %s), 4326)::geography",
			arg(q.Near.Center.Longitude), arg(q.Near.Center.Latitude),
		)
		// use_spheroid = false: great-circle distance on the mean-radius sphere
		where = append(where, fmt.Sprintf("ST_DWithin(v.location, %s, %s, false)", point, arg(q.Near.MaxDistance)))
		orderBy = fmt.Sprintf("ST_Distance(v.location, %s, false), v.id", point)
	}

	if text := strings.TrimSpace(q.Text); text != "" {
		pattern := arg("%" + escapeLike(text) + "%")
		where = append(where, fmt.Sprintf(
			"(v.name ILIKE %[1]s OR v.city ILIKE %[1]s OR v.street ILIKE %[1]s)", pattern,
		))
	}

	if len(q.Amenities) > 0 {
		where = append(where, fmt.Sprintf("v.amenities @> %s::text[]", arg(q.Amenities)))
	}

	if q.MinRating != nil {
		where = append(where, fmt.Sprintf("v.average_rating >= %s::double precision", arg(*q.MinRating)))
	}

	query := `SELECT ` + venueColumns + ` FROM venues v`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + orderBy

	if q.Limit > 0 {
		query += " LIMIT " + arg(q.Limit)
	}
	if q.Skip > 0 {
		query += " OFFSET " + arg(q.Skip)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Dependency("search venues", err)
	}
	defer rows.Close()

	out := []Venue{}
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, apperr.Dependency("scan venue", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("search venues", err)
	}
	return out, nil
}

func (r *Repository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM venues ORDER BY created_at, id`)
	if err != nil {
		return nil, apperr.Dependency("list venue ids", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperr.Dependency("list venue ids", err)
	}
	return ids, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
