package application

import (
	"context"
	"fmt"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/logging"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/metrics"
)

// notifyDiscussionAnswer tells the discussion author about a new answer.
// The insert runs in a savepoint and its failure is only logged, so the
// answer itself is kept either way.
func (s *Service) notifyDiscussionAnswer(ctx context.Context, repo domain.Repository, d domain.Discussion, a domain.Answer) {
	if d.UserID == a.UserID {
		return
	}
	n := domain.Notification{
		UserID:           d.UserID,
		NotificationType: domain.NotificationDiscussionAnswer,
		Title:            "New answer to your discussion",
		Message:          fmt.Sprintf("User %s answered your discussion '%s'", a.UserName, d.Title),
		Data: map[string]any{
			"discussion_id":     d.ID,
			"answer_id":         a.ID,
			"action":            "view_discussion",
			"notification_type": domain.NotificationDiscussionAnswer,
		},
	}
	s.deliver(ctx, repo, n)
}

func (s *Service) deliver(ctx context.Context, repo domain.Repository, n domain.Notification) {
	err := repo.WithinTx(ctx, func(sp domain.Repository) error {
		_, err := sp.CreateNotification(ctx, n)
		return err
	})
	metrics.RecordNotification(n.NotificationType, err)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Uint("recipient_id", n.UserID).
			Str("notification_type", n.NotificationType).
			Msg("failed to create notification")
	}
}
