// Package application holds every use case of the guide. Each exported
// method runs in one transaction of the repository.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/auth"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/validation"
)

type Service struct {
	repo   domain.Repository
	tokens *auth.JWTManager
	now    func() time.Time
}

func NewService(repo domain.Repository, tokens *auth.JWTManager) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List is an unnumbered window of a listing.
type List[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

func newList[T any](items []T, total int64) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{Items: items, Total: total}
}

// Window is a skip/limit pair as it arrives from a client. A zero Limit
// means the endpoint default.
type Window struct {
	Skip  int
	Limit int
}

func (w Window) resolve(def, maxLimit int) (Window, error) {
	if w.Skip < 0 {
		return w, fieldError("skip", "gte", "must be greater than or equal to 0")
	}
	if w.Limit == 0 {
		w.Limit = def
	}
	if w.Limit < 1 {
		return w, fieldError("limit", "gte", "must be greater than or equal to 1")
	}
	if w.Limit > maxLimit {
		return w, fieldError("limit", "lte", fmt.Sprintf("must be less than or equal to %d", maxLimit))
	}
	return w, nil
}

func fieldError(field, tag, message string) error {
	return &validation.RequestValidationError{Fields: []validation.FieldError{{
		Field:   field,
		Tag:     tag,
		Message: message,
	}}}
}

// notFound replaces a repository not-found with a client-facing message and
// passes every other error through.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Errorf(domain.ErrNotFound, format, args...)
	}
	return err
}

func (s *Service) inTx(ctx context.Context, fn func(repo domain.Repository) error) error {
	return s.repo.WithinTx(ctx, fn)
}
