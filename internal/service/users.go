package service

import (
	"context"
	"crypto/subtle"
	"io"
	"strings"

	"studyspots/internal/apperr"
	"studyspots/internal/domain/users"
)

type CreateUserInput struct {
	Name          string  `json:"name" validate:"required,max=100"`
	Password      string  `json:"password" validate:"required"`
	CafesVisited  int     `json:"cafes_visited" validate:"gte=0"`
	AverageRating float64 `json:"average_rating" validate:"gte=0,lte=5"`
}

// ProfilePictureFolder is where uploaded profile pictures are stored.
const ProfilePictureFolder = "profile_pictures"

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*users.User, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	if err := s.AssertUniqueUsername(ctx, in.Name, ""); err != nil {
		return nil, err
	}

	u := &users.User{
		Name:          in.Name,
		Password:      in.Password,
		CafesVisited:  in.CafesVisited,
		AverageRating: in.AverageRating,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Infow("user created", "user_id", u.ID)
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (*users.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) ListUsers(ctx context.Context, skip, limit int) ([]users.User, error) {
	if err := checkPage(skip, limit); err != nil {
		return nil, err
	}
	return s.users.List(ctx, skip, limit)
}

// SearchUsers matches query as a case-insensitive substring of the name.
func (s *Service) SearchUsers(ctx context.Context, query string) ([]users.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Invalid("query", "must not be empty")
	}
	return s.users.Search(ctx, query)
}

func (s *Service) UpdateUser(ctx context.Context, userID string, patch users.Patch) (*users.User, error) {
	if err := s.check(patch); err != nil {
		return nil, err
	}
	if patch.Name != nil {
		if err := s.AssertUniqueUsername(ctx, *patch.Name, userID); err != nil {
			return nil, err
		}
	}

	u, err := s.users.Update(ctx, userID, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("user updated", "user_id", userID)
	return u, nil
}

// DeleteUser removes the user and, best-effort, their profile picture.
// Reviews and bookmarks by the user are kept.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Infow("user deleted", "user_id", userID)

	if u.ProfilePicture != nil {
		s.discardAsset(ctx, *u.ProfilePicture)
	}
	return nil
}

// Authenticate returns the user whose name and password match exactly.
// Unknown names and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, name, password string) (*users.User, error) {
	u, err := s.users.GetByName(ctx, name)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		return nil, apperr.ErrInvalidCredentials
	}
	return u, nil
}

// SetProfilePicture points the user at url, or clears the picture when url
// is nil. A replaced picture is deleted from object storage best-effort.
func (s *Service) SetProfilePicture(ctx context.Context, userID string, url *string) (*users.User, error) {
	if url != nil {
		if err := s.validate.Var(*url, "required,url"); err != nil {
			return nil, apperr.Invalid("profile_picture", "must be a valid URL")
		}
	}

	before, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u, err := s.users.SetProfilePicture(ctx, userID, url)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("profile picture set", "user_id", userID)

	if old := before.ProfilePicture; old != nil && (url == nil || *old != *url) {
		s.discardAsset(ctx, *old)
	}
	return u, nil
}

// UploadProfilePicture stores the image and makes it the user's picture.
func (s *Service) UploadProfilePicture(ctx context.Context, userID string, r io.Reader, contentType string) (*users.User, error) {
	if s.assets == nil {
		return nil, ErrUploadsDisabled
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	url, err := s.assets.Put(ctx, r, contentType, ProfilePictureFolder)
	if err != nil {
		return nil, err
	}

	u, err := s.SetProfilePicture(ctx, userID, &url)
	if err != nil {
		s.discardAsset(ctx, url)
		return nil, err
	}
	return u, nil
}
