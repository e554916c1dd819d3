package venues

import (
	"context"
	"math"
	"time"

	"studyspots/internal/geo"
)

// AccessLevel grades wifi and outlet access.
type AccessLevel int

const (
	AccessNone AccessLevel = iota
	AccessPoor
	AccessFair
	AccessExcellent
)

const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = MinRating

	DefaultCountry = "USA"
)

type Address struct {
	Street  string `json:"street" validate:"required,max=255"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	ZipCode string `json:"zip_code" validate:"required,max=20"`
	Country string `json:"country" validate:"max=100"`
}

// Venue represents a study venue.
type Venue struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Address       Address           `json:"address"`
	Location      geo.Point         `json:"location"`
	Phone         *string           `json:"phone,omitempty"`
	Website       *string           `json:"website,omitempty"`
	OpeningHours  map[string]string `json:"opening_hours,omitempty"`
	ThumbnailURL  *string           `json:"thumbnail_url,omitempty"`
	Amenities     []string          `json:"amenities"`
	WifiAccess    AccessLevel       `json:"wifi_access"`
	OutletAccess  AccessLevel       `json:"outlet_access"`
	AverageRating int               `json:"average_rating"` // 1-5, derived from reviews
	Atmosphere    []string          `json:"atmosphere"`
	EnergyLevel   []string          `json:"energy_level"`
	StudyFriendly []string          `json:"study_friendly"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Normalize fills defaults so that every stored venue has the same shape.
func (v *Venue) Normalize() {
	if v.Address.Country == "" {
		v.Address.Country = DefaultCountry
	}
	if v.AverageRating == 0 {
		v.AverageRating = DefaultRating
	}
	v.AverageRating = ClampRating(v.AverageRating)
	if v.OpeningHours == nil {
		v.OpeningHours = map[string]string{}
	}
	v.Amenities = nonNil(v.Amenities)
	v.Atmosphere = nonNil(v.Atmosphere)
	v.EnergyLevel = nonNil(v.EnergyLevel)
	v.StudyFriendly = nonNil(v.StudyFriendly)
}

// Summary is the venue projection joined onto bookmarks.
type Summary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Address       Address   `json:"address"`
	Location      geo.Point `json:"location"`
	AverageRating int       `json:"average_rating"`
	ThumbnailURL  *string   `json:"thumbnail_url,omitempty"`
	Amenities     []string  `json:"amenities"`
}

// Patch is a sparse venue update. Nil fields are left untouched.
type Patch struct {
	Name          *string            `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Address       *Address           `json:"address,omitempty"`
	Location      *geo.Point         `json:"location,omitempty"`
	Phone         *string            `json:"phone,omitempty" validate:"omitempty,max=30"`
	Website       *string            `json:"website,omitempty" validate:"omitempty,url"`
	OpeningHours  *map[string]string `json:"opening_hours,omitempty"`
	ThumbnailURL  *string            `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
	Amenities     *[]string          `json:"amenities,omitempty"`
	WifiAccess    *AccessLevel       `json:"wifi_access,omitempty" validate:"omitempty,min=0,max=3"`
	OutletAccess  *AccessLevel       `json:"outlet_access,omitempty" validate:"omitempty,min=0,max=3"`
	AverageRating *int               `json:"average_rating,omitempty" validate:"omitempty,min=1,max=5"`
	Atmosphere    *[]string          `json:"atmosphere,omitempty"`
	EnergyLevel   *[]string          `json:"energy_level,omitempty"`
	StudyFriendly *[]string          `json:"study_friendly,omitempty"`
}

// Apply copies the set fields of p onto v with the same defaults the
// repositories use.
func (p Patch) Apply(v *Venue) {
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.Address != nil {
		v.Address = *p.Address
		if v.Address.Country == "" {
			v.Address.Country = DefaultCountry
		}
	}
	if p.Location != nil {
		v.Location = *p.Location
	}
	if p.Phone != nil {
		v.Phone = p.Phone
	}
	if p.Website != nil {
		v.Website = p.Website
	}
	if p.OpeningHours != nil {
		v.OpeningHours = *p.OpeningHours
		if v.OpeningHours == nil {
			v.OpeningHours = map[string]string{}
		}
	}
	if p.ThumbnailURL != nil {
		v.ThumbnailURL = p.ThumbnailURL
	}
	if p.Amenities != nil {
		v.Amenities = nonNil(*p.Amenities)
	}
	if p.WifiAccess != nil {
		v.WifiAccess = *p.WifiAccess
	}
	if p.OutletAccess != nil {
		v.OutletAccess = *p.OutletAccess
	}
	if p.AverageRating != nil {
		v.AverageRating = ClampRating(*p.AverageRating)
	}
	if p.Atmosphere != nil {
		v.Atmosphere = nonNil(*p.Atmosphere)
	}
	if p.EnergyLevel != nil {
		v.EnergyLevel = nonNil(*p.EnergyLevel)
	}
	if p.StudyFriendly != nil {
		v.StudyFriendly = nonNil(*p.StudyFriendly)
	}
}

// Summarize projects v onto the fields joined onto bookmarks.
func (v *Venue) Summarize() *Summary {
	return &Summary{
		ID:            v.ID,
		Name:          v.Name,
		Address:       v.Address,
		Location:      v.Location,
		AverageRating: v.AverageRating,
		ThumbnailURL:  v.ThumbnailURL,
		Amenities:     nonNil(v.Amenities),
	}
}

// Proximity restricts a query to venues within MaxDistance meters of Center.
type Proximity struct {
	Center      geo.Point
	MaxDistance float64
}

// Query composes the discovery predicates. Unset predicates do not filter;
// set predicates are ANDed. With Near set, results are ordered nearest-first,
// otherwise by creation time.
type Query struct {
	Near      *Proximity
	Text      string
	Amenities []string
	MinRating *float64
	Skip      int
	Limit     int // 0 means no limit
}

type Store interface {
	// EnsureIndexes creates the location, text and amenity indexes. Safe to
	// call repeatedly.
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, venueID string) (*Venue, error)
	Update(ctx context.Context, venueID string, patch Patch) (*Venue, error)
	SetAverageRating(ctx context.Context, venueID string, rating int) error
	Delete(ctx context.Context, venueID string) error
	Search(ctx context.Context, q Query) ([]Venue, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// ClampRating limits r to the displayable range.
func ClampRating(r int) int {
	switch {
	case r < MinRating:
		return MinRating
	case r > MaxRating:
		return MaxRating
	default:
		return r
	}
}

// RatingFromMean converts a mean review score into the stored integer rating.
func RatingFromMean(mean float64) int {
	return ClampRating(int(math.Round(mean)))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
