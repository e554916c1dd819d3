package users

import (
	"context"
	"time"
)

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Password       string    `json:"-"` // compared as an opaque string, never serialized
	CafesVisited   int       `json:"cafes_visited"`
	AverageRating  float64   `json:"average_rating"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Patch is a sparse user update.
type Patch struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Password      *string  `json:"password,omitempty" validate:"omitempty,min=1"`
	CafesVisited  *int     `json:"cafes_visited,omitempty" validate:"omitempty,min=0"`
	AverageRating *float64 `json:"average_rating,omitempty" validate:"omitempty,min=0,max=5"`
}

// Apply copies the set fields of p onto u.
func (p Patch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.CafesVisited != nil {
		u.CafesVisited = *p.CafesVisited
	}
	if p.AverageRating != nil {
		u.AverageRating = *p.AverageRating
	}
}

type Store interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID string) (*User, error)
	GetByName(ctx context.Context, name string) (*User, error)
	List(ctx context.Context, skip, limit int) ([]User, error)
	Search(ctx context.Context, query string) ([]User, error)
	Update(ctx context.Context, userID string, patch Patch) (*User, error)
	// SetProfilePicture stores url (nil clears it).
	SetProfilePicture(ctx context.Context, userID string, url *string) (*User, error)
	Delete(ctx context.Context, userID string) error
}
