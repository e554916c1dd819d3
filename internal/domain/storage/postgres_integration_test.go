//go:build integration

package storage

import (
	"testing"

	"studyspots/internal/testinfra"
)

func TestPostgresContainer(t *testing.T) {
	pg := testinfra.StartPostgres(t)

	runConformance(t, func(t *testing.T) *Container {
		pg.Truncate(t)
		return NewContainer(pg.Pool)
	})
}
