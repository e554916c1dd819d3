package memstore

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"studyspots/internal/apperr"
	"studyspots/internal/domain/users"
)

type userStore struct {
	db *DB
}

// nameTaken must be called with mu held.
func (s *userStore) nameTaken(name, exceptID string) bool {
	for id, rec := range s.db.users {
		if id != exceptID && rec.v.Name == name {
			return true
		}
	}
	return false
}

func (s *userStore) Create(ctx context.Context, user *users.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.nameTaken(user.Name, "") {
		return apperr.Conflict(apperr.DuplicateUsername)
	}
	user.ID = uuid.NewString()
	now := s.db.now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.db.users[user.ID] = record[users.User]{seq: s.db.next(), v: cloneUser(*user)}
	return nil
}

func (s *userStore) GetByID(ctx context.Context, userID string) (*users.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rec, ok := s.db.users[userID]
	if !ok {
		return nil, apperr.NotFound(apperr.EntityUser, userID)
	}
	u := cloneUser(rec.v)
	return &u, nil
}

func (s *userStore) GetByName(ctx context.Context, name string) (*users.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, rec := range s.db.users {
		if rec.v.Name == name {
			u := cloneUser(rec.v)
			return &u, nil
		}
	}
	return nil, apperr.NotFound(apperr.EntityUser, name)
}

func (s *userStore) List(ctx context.Context, skip, limit int) ([]users.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := []users.User{}
	for i, rec := range sortedValues(s.db.users) {
		if i < skip {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, cloneUser(rec.v))
	}
	return out, nil
}

func (s *userStore) Search(ctx context.Context, query string) ([]users.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	needle := strings.ToLower(query)
	out := []users.User{}
	for _, rec := range s.db.users {
		if strings.Contains(strings.ToLower(rec.v.Name), needle) {
			out = append(out, cloneUser(rec.v))
		}
	}
	slices.SortFunc(out, func(a, b users.User) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *userStore) Update(ctx context.Context, userID string, patch users.Patch) (*users.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.db.users[userID]
	if !ok {
		return nil, apperr.NotFound(apperr.EntityUser, userID)
	}
	if patch.Name != nil && s.nameTaken(*patch.Name, userID) {
		return nil, apperr.Conflict(apperr.DuplicateUsername)
	}
	u := cloneUser(rec.v)
	patch.Apply(&u)
	u.UpdatedAt = s.db.now()
	rec.v = cloneUser(u)
	s.db.users[userID] = rec
	return &u, nil
}

func (s *userStore) SetProfilePicture(ctx context.Context, userID string, url *string) (*users.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.db.users[userID]
	if !ok {
		return nil, apperr.NotFound(apperr.EntityUser, userID)
	}
	rec.v.ProfilePicture = clonePtr(url)
	rec.v.UpdatedAt = s.db.now()
	s.db.users[userID] = rec
	u := cloneUser(rec.v)
	return &u, nil
}

func (s *userStore) Delete(ctx context.Context, userID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[userID]; !ok {
		return apperr.NotFound(apperr.EntityUser, userID)
	}
	delete(s.db.users, userID)
	return nil
}
