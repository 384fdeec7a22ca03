package application

import (
	"context"
	"strings"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/validation"
)

// DiscussionInput may name a landmark, a city, both or neither.
type DiscussionInput struct {
	Title      string  `json:"title" validate:"min=5,max=200"`
	Content    string  `json:"content" validate:"min=10,max=5000"`
	LandmarkID *uint   `json:"landmark_id"`
	City       *string `json:"city" validate:"omitempty,max=100"`
}

type AnswerInput struct {
	Content string `json:"content" validate:"min=5,max=2000"`
}

// reputationPerVote is credited to an answer's author for every vote cast
// on it, helpful or not.
const reputationPerVote = 10

func (s *Service) ListDiscussions(ctx context.Context, filter domain.DiscussionFilter) (domain.Page[domain.Discussion], error) {
	w, err := Window{Skip: filter.Skip, Limit: filter.Limit}.resolve(50, 100)
	if err != nil {
		return domain.Page[domain.Discussion]{}, err
	}
	filter.Skip, filter.Limit = w.Skip, w.Limit

	var page domain.Page[domain.Discussion]
	err = s.inTx(ctx, func(repo domain.Repository) error {
		items, total, err := repo.ListDiscussions(ctx, filter)
		if err != nil {
			return err
		}
		page = domain.NewPage(items, total, w.Skip, w.Limit)
		return nil
	})
	return page, err
}

// GetDiscussion returns the discussion with all answers, most helpful first.
func (s *Service) GetDiscussion(ctx context.Context, id uint) (domain.DiscussionThread, error) {
	var out domain.DiscussionThread
	err := s.inTx(ctx, func(repo domain.Repository) error {
		d, err := repo.GetDiscussion(ctx, id)
		if err != nil {
			return notFound(err, "Discussion not found")
		}
		answers, _, err := repo.ListAnswers(ctx, id, true, 0, 0)
		if err != nil {
			return err
		}
		out = domain.DiscussionThread{Discussion: d, Answers: answers}
		return nil
	})
	return out, err
}

func (s *Service) ListAnswers(ctx context.Context, discussionID uint, sortByHelpful bool, w Window) (List[domain.Answer], error) {
	w, err := w.resolve(50, 100)
	if err != nil {
		return List[domain.Answer]{}, err
	}
	var out List[domain.Answer]
	err = s.inTx(ctx, func(repo domain.Repository) error {
		if _, err := repo.GetDiscussion(ctx, discussionID); err != nil {
			return notFound(err, "Discussion not found")
		}
		items, total, err := repo.ListAnswers(ctx, discussionID, sortByHelpful, w.Skip, w.Limit)
		if err != nil {
			return err
		}
		out = newList(items, total)
		return nil
	})
	return out, err
}

func (s *Service) CreateDiscussion(ctx context.Context, userID uint, in DiscussionInput) (domain.Discussion, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := validation.ValidateStruct(in); err != nil {
		return domain.Discussion{}, err
	}
	var out domain.Discussion
	err := s.inTx(ctx, func(repo domain.Repository) error {
		if in.LandmarkID != nil {
			if _, err := repo.GetLandmark(ctx, *in.LandmarkID); err != nil {
				return notFound(err, "Landmark not found")
			}
		}
		var err error
		out, err = repo.CreateDiscussion(ctx, domain.Discussion{
			Title:      in.Title,
			Content:    in.Content,
			UserID:     userID,
			LandmarkID: in.LandmarkID,
			City:       in.City,
		})
		return err
	})
	return out, err
}

func (s *Service) UpdateDiscussion(ctx context.Context, userID, id uint, patch domain.DiscussionPatch) (domain.Discussion, error) {
	if err := validation.ValidateStruct(patch); err != nil {
		return domain.Discussion{}, err
	}
	var out domain.Discussion
	err := s.inTx(ctx, func(repo domain.Repository) error {
		current, err := repo.GetDiscussion(ctx, id)
		if err == nil && current.UserID != userID {
			err = domain.ErrNotFound
		}
		if err != nil {
			return ownedNotFound(err, "Discussion")
		}
		patch.Apply(&current)
		out, err = repo.UpdateDiscussion(ctx, current)
		return ownedNotFound(err, "Discussion")
	})
	return out, err
}

func (s *Service) DeleteDiscussion(ctx context.Context, userID, id uint) error {
	return s.inTx(ctx, func(repo domain.Repository) error {
		return ownedNotFound(repo.DeleteDiscussion(ctx, id, userID), "Discussion")
	})
}

// CreateAnswer adds an answer to an open discussion and notifies the
// discussion's author.
func (s *Service) CreateAnswer(ctx context.Context, userID, discussionID uint, in AnswerInput) (domain.Answer, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validation.ValidateStruct(in); err != nil {
		return domain.Answer{}, err
	}
	var out domain.Answer
	err := s.inTx(ctx, func(repo domain.Repository) error {
		d, err := repo.GetDiscussion(ctx, discussionID)
		if err != nil {
			return notFound(err, "Discussion not found")
		}
		if d.IsClosed {
			return domain.Errorf(domain.ErrValidation, "Discussion is closed for new answers")
		}
		out, err = repo.CreateAnswer(ctx, domain.Answer{
			Content:      in.Content,
			UserID:       userID,
			DiscussionID: discussionID,
		})
		if err != nil {
			return err
		}
		s.notifyDiscussionAnswer(ctx, repo, d, out)
		return nil
	})
	return out, err
}

func (s *Service) UpdateAnswer(ctx context.Context, userID, id uint, patch domain.AnswerPatch) (domain.Answer, error) {
	if err := validation.ValidateStruct(patch); err != nil {
		return domain.Answer{}, err
	}
	var out domain.Answer
	err := s.inTx(ctx, func(repo domain.Repository) error {
		current, err := repo.GetAnswer(ctx, id)
		if err == nil && current.UserID != userID {
			err = domain.ErrNotFound
		}
		if err != nil {
			return ownedNotFound(err, "Answer")
		}
		patch.Apply(&current)
		out, err = repo.UpdateAnswer(ctx, current)
		return err
	})
	return out, err
}

func (s *Service) DeleteAnswer(ctx context.Context, userID, id uint) error {
	return s.inTx(ctx, func(repo domain.Repository) error {
		return ownedNotFound(repo.DeleteAnswer(ctx, id, userID), "Answer")
	})
}

// VoteAnswer counts one helpfulness vote. Nothing stops a user from voting
// any number of times.
func (s *Service) VoteAnswer(ctx context.Context, id uint, isHelpful bool) (domain.Answer, error) {
	var out domain.Answer
	err := s.inTx(ctx, func(repo domain.Repository) error {
		current, err := repo.GetAnswer(ctx, id)
		if err != nil {
			return notFound(err, "Answer not found")
		}
		domain.ApplyHelpfulVote(&current, isHelpful)
		if out, err = repo.UpdateAnswer(ctx, current); err != nil {
			return err
		}
		return repo.AddReputation(ctx, current.UserID, reputationPerVote)
	})
	return out, err
}

// ownedNotFound reports a missing resource and a resource owned by someone
// else the same way.
func ownedNotFound(err error, resource string) error {
	return notFound(err, "%s not found or no permission", resource)
}
