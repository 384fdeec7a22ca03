package application

import (
	"context"
	"errors"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

func (s *Service) ListFavorites(ctx context.Context, userID uint, w Window) (List[domain.Favorite], error) {
	w, err := w.resolve(100, 100)
	if err != nil {
		return List[domain.Favorite]{}, err
	}
	var out List[domain.Favorite]
	err = s.inTx(ctx, func(repo domain.Repository) error {
		items, total, err := repo.ListFavorites(ctx, userID, w.Skip, w.Limit)
		if err != nil {
			return err
		}
		out = newList(items, total)
		return nil
	})
	return out, err
}

// AddFavorite is idempotent: an existing bookmark is returned unchanged.
func (s *Service) AddFavorite(ctx context.Context, userID, landmarkID uint) (domain.Favorite, error) {
	var out domain.Favorite
	err := s.inTx(ctx, func(repo domain.Repository) error {
		if _, err := repo.GetLandmark(ctx, landmarkID); err != nil {
			return notFound(err, "Landmark not found")
		}
		existing, err := repo.GetFavorite(ctx, userID, landmarkID)
		if err == nil {
			out = existing
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		// A concurrent insert loses on the unique index; the savepoint keeps
		// the outer transaction usable so the winner's row can be read.
		err = repo.WithinTx(ctx, func(sp domain.Repository) error {
			var err error
			out, err = sp.CreateFavorite(ctx, domain.Favorite{UserID: userID, LandmarkID: landmarkID})
			return err
		})
		if errors.Is(err, domain.ErrConflict) {
			out, err = repo.GetFavorite(ctx, userID, landmarkID)
		}
		return err
	})
	return out, err
}

func (s *Service) RemoveFavorite(ctx context.Context, userID, landmarkID uint) error {
	return s.inTx(ctx, func(repo domain.Repository) error {
		return notFound(repo.DeleteFavorite(ctx, userID, landmarkID), "Favorite not found")
	})
}

func (s *Service) IsFavorite(ctx context.Context, userID, landmarkID uint) (bool, error) {
	var found bool
	err := s.inTx(ctx, func(repo domain.Repository) error {
		_, err := repo.GetFavorite(ctx, userID, landmarkID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		found = err == nil
		return err
	})
	return found, err
}
