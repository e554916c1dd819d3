package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDependencyKeepsClassifiedErrors(t *testing.T) {
	nf := NotFound(EntityVenue, "v1")
	assert.Same(t, nf, Dependency("get venue", nf))

	wrapped := fmt.Errorf("lookup: %w", Conflict(DuplicateBookmark))
	assert.Same(t, wrapped, Dependency("create bookmark", wrapped))
}

func TestDependencyWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection refused")
	err := Dependency("list venues", cause)

	assert.True(t, IsDependency(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "list venues: connection refused", err.Error())
	assert.Nil(t, Dependency("noop", nil))
}

func TestKindPredicates(t *testing.T) {
	ie := &IntegrityError{Reason: MissingReference, Referenced: EntityUser, ID: "u1"}

	assert.True(t, IsIntegrity(fmt.Errorf("create review: %w", ie)))
	assert.True(t, IsValidation(Invalid("limit", "must be positive")))
	assert.True(t, IsNotFound(NotFound(EntityReview, "r")))
	assert.True(t, IsConflict(Conflict(DuplicateUsername)))
	assert.False(t, IsConflict(ie))
	assert.Contains(t, ie.Error(), `user "u1"`)
}
