package application

import (
	"context"
	"errors"
	"math"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/validation"
)

type ReviewInput struct {
	LandmarkID uint    `json:"landmark_id" validate:"required"`
	Rating     float64 `json:"rating" validate:"gte=1,lte=5"`
	Comment    *string `json:"comment" validate:"omitempty,max=1000"`
}

func (s *Service) ListLandmarkReviews(ctx context.Context, landmarkID uint, w Window) (List[domain.Review], error) {
	w, err := w.resolve(50, 100)
	if err != nil {
		return List[domain.Review]{}, err
	}
	var out List[domain.Review]
	err = s.inTx(ctx, func(repo domain.Repository) error {
		if _, err := repo.GetLandmark(ctx, landmarkID); err != nil {
			return notFound(err, "Landmark not found")
		}
		items, total, err := repo.ListLandmarkReviews(ctx, landmarkID, w.Skip, w.Limit)
		if err != nil {
			return err
		}
		out = newList(items, total)
		return nil
	})
	return out, err
}

func (s *Service) ListUserReviews(ctx context.Context, userID uint, w Window) (List[domain.Review], error) {
	w, err := w.resolve(50, 100)
	if err != nil {
		return List[domain.Review]{}, err
	}
	var out List[domain.Review]
	err = s.inTx(ctx, func(repo domain.Repository) error {
		items, total, err := repo.ListUserReviews(ctx, userID, w.Skip, w.Limit)
		if err != nil {
			return err
		}
		out = newList(items, total)
		return nil
	})
	return out, err
}

// SaveReview creates the user's review of a landmark, or overwrites rating
// and comment of the one that already exists. created reports which.
func (s *Service) SaveReview(ctx context.Context, userID uint, in ReviewInput) (review domain.Review, created bool, err error) {
	if err := validation.ValidateStruct(in); err != nil {
		return domain.Review{}, false, err
	}
	err = s.inTx(ctx, func(repo domain.Repository) error {
		if _, err := repo.GetLandmark(ctx, in.LandmarkID); err != nil {
			return notFound(err, "Landmark not found")
		}
		existing, err := repo.GetReview(ctx, userID, in.LandmarkID)
		switch {
		case err == nil:
			existing.Rating = in.Rating
			existing.Comment = in.Comment
			review, err = repo.UpdateReview(ctx, existing)
			return err
		case errors.Is(err, domain.ErrNotFound):
			review, err = repo.CreateReview(ctx, domain.Review{
				UserID:     userID,
				LandmarkID: in.LandmarkID,
				Rating:     in.Rating,
				Comment:    in.Comment,
			})
			created = err == nil
			return err
		default:
			return err
		}
	})
	return review, created, err
}

func (s *Service) UpdateReview(ctx context.Context, userID, landmarkID uint, patch domain.ReviewPatch) (domain.Review, error) {
	if err := validation.ValidateStruct(patch); err != nil {
		return domain.Review{}, err
	}
	var out domain.Review
	err := s.inTx(ctx, func(repo domain.Repository) error {
		current, err := repo.GetReview(ctx, userID, landmarkID)
		if err != nil {
			return notFound(err, "Review not found")
		}
		patch.Apply(&current)
		out, err = repo.UpdateReview(ctx, current)
		return err
	})
	return out, err
}

func (s *Service) DeleteReview(ctx context.Context, userID, landmarkID uint) error {
	return s.inTx(ctx, func(repo domain.Repository) error {
		return notFound(repo.DeleteReview(ctx, userID, landmarkID), "Review not found")
	})
}

func (s *Service) ReviewSummary(ctx context.Context, landmarkID uint) (domain.ReviewSummary, error) {
	var ratings []float64
	err := s.inTx(ctx, func(repo domain.Repository) error {
		if _, err := repo.GetLandmark(ctx, landmarkID); err != nil {
			return notFound(err, "Landmark not found")
		}
		var err error
		ratings, err = repo.LandmarkRatings(ctx, landmarkID)
		return err
	})
	if err != nil {
		return domain.ReviewSummary{}, err
	}
	return summarizeRatings(ratings), nil
}

// summarizeRatings averages to one decimal and buckets by the whole part of
// each rating.
func summarizeRatings(ratings []float64) domain.ReviewSummary {
	if len(ratings) == 0 {
		return domain.ReviewSummary{RatingDistribution: map[int]int{}}
	}
	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	var sum float64
	for _, r := range ratings {
		sum += r
		if b := int(r); b >= 1 && b <= 5 {
			dist[b]++
		}
	}
	avg := math.Round(sum/float64(len(ratings))*10) / 10
	return domain.ReviewSummary{
		AverageRating:      &avg,
		TotalReviews:       len(ratings),
		RatingDistribution: dist,
	}
}
