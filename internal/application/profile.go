package application

import (
	"context"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/logging"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/validation"
)

func (s *Service) GetUser(ctx context.Context, id uint) (domain.User, error) {
	var out domain.User
	err := s.inTx(ctx, func(repo domain.Repository) error {
		var err error
		out, err = repo.GetUserByID(ctx, id)
		return notFound(err, "User not found")
	})
	return out, err
}

func (s *Service) UpdateProfile(ctx context.Context, userID uint, patch domain.ProfilePatch) (domain.User, error) {
	if err := validation.ValidateStruct(patch); err != nil {
		return domain.User{}, err
	}
	var out domain.User
	err := s.inTx(ctx, func(repo domain.Repository) error {
		current, err := repo.GetUserByID(ctx, userID)
		if err != nil {
			return notFound(err, "User not found")
		}
		patch.Apply(&current)
		out, err = repo.UpdateUser(ctx, current)
		return notFound(err, "User not found")
	})
	return out, err
}

// DeleteAccount removes the user together with everything they authored.
func (s *Service) DeleteAccount(ctx context.Context, userID uint) error {
	err := s.inTx(ctx, func(repo domain.Repository) error {
		return notFound(repo.DeleteUser(ctx, userID), "User not found")
	})
	if err == nil {
		logging.Ctx(ctx).Info().Uint("user_id", userID).Msg("account deleted")
	}
	return err
}

// UserStats reports activity counters and the weighted reputation score.
// The score is derived here and differs from User.ReputationScore.
func (s *Service) UserStats(ctx context.Context, userID uint) (domain.UserStats, error) {
	var out domain.UserStats
	err := s.inTx(ctx, func(repo domain.Repository) error {
		if _, err := repo.GetUserByID(ctx, userID); err != nil {
			return notFound(err, "User not found")
		}
		a, err := repo.GetUserActivity(ctx, userID)
		if err != nil {
			return err
		}
		score := domain.ReputationScore(a)
		out = domain.UserStats{
			UserID:           userID,
			TotalReviews:     a.Reviews,
			TotalFavorites:   a.Favorites,
			TotalDiscussions: a.Discussions,
			TotalAnswers:     a.Answers,
			HelpfulAnswers:   a.HelpfulAnswers,
			ReputationScore:  score,
			ReputationLevel:  domain.ReputationLevel(score),
		}
		return nil
	})
	return out, err
}
