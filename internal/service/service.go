// Package service holds the use cases the HTTP layer calls. It checks input,
// verifies references and uniqueness before writing, and keeps each venue's
// average rating in step with its reviews.
package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"studyspots/internal/apperr"
	"studyspots/internal/domain/bookmarks"
	"studyspots/internal/domain/reviews"
	"studyspots/internal/domain/storage"
	"studyspots/internal/domain/users"
	"studyspots/internal/domain/venues"
	"studyspots/internal/objectstore"
)

type Service struct {
	venues    venues.Store
	reviews   reviews.Store
	users     users.Store
	bookmarks bookmarks.Store

	assets   objectstore.Store
	logger   *zap.SugaredLogger
	validate *validator.Validate
}

type Option func(*Service)

// WithObjectStore enables uploads and the cleanup of replaced assets.
func WithObjectStore(store objectstore.Store) Option {
	return func(s *Service) {
		s.assets = store
	}
}

func New(store *storage.Container, logger *zap.SugaredLogger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Service{
		venues:    store.Venues,
		reviews:   store.Reviews,
		users:     store.Users,
		bookmarks: store.Bookmarks,
		logger:    logger,
		validate:  NewValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewValidator reports fields by their json names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v
}

// check validates in and converts the first failure into a ValidationError.
func (s *Service) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Invalid("", "%v", err)
	}
	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	return apperr.Invalid(field, "%s", describe(fe))
}

func describe(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s%s", fe.Param(), unit)
	case "max", "lte":
		return fmt.Sprintf("must be at most %s%s", fe.Param(), unit)
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}

func checkPage(skip, limit int) error {
	if limit <= 0 {
		return apperr.Invalid("limit", "must be positive")
	}
	if skip < 0 {
		return apperr.Invalid("skip", "must not be negative")
	}
	return nil
}

func requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Invalid(field, "is required")
	}
	return nil
}
