package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"studyspots/internal/domain/bookmarks"
	"studyspots/internal/domain/memstore"
	"studyspots/internal/domain/reviews"
	"studyspots/internal/domain/users"
	"studyspots/internal/domain/venues"
)

type Container struct {
	pool      *pgxpool.Pool // nil for the in-memory container
	Venues    venues.Store
	Reviews   reviews.Store
	Users     users.Store
	Bookmarks bookmarks.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		pool:      db,
		Venues:    venues.NewRepository(db),
		Reviews:   reviews.NewRepository(db),
		Users:     users.NewRepository(db),
		Bookmarks: bookmarks.NewRepository(db),
	}
}

// NewMemoryContainer wires every store to one shared in-memory database.
func NewMemoryContainer() *Container {
	db := memstore.New()
	return &Container{
		Venues:    db.Venues(),
		Reviews:   db.Reviews(),
		Users:     db.Users(),
		Bookmarks: db.Bookmarks(),
	}
}

// Ping checks that the backing database is reachable.
func (c *Container) Ping(ctx context.Context) error {
	if c.pool == nil {
		return ctx.Err()
	}
	return c.pool.Ping(ctx)
}
