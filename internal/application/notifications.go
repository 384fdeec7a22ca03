package application

import (
	"context"
	"time"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/metrics"
)

type NotificationList struct {
	Items       []domain.Notification `json:"items"`
	Total       int64                 `json:"total"`
	UnreadCount int64                 `json:"unread_count"`
}

// MarkReadInput selects notifications either by id or all unread at once.
type MarkReadInput struct {
	NotificationIDs []uint `json:"notification_ids"`
	AllUnread       bool   `json:"all_unread"`
}

func (s *Service) ListNotifications(ctx context.Context, filter domain.NotificationFilter) (NotificationList, error) {
	w, err := Window{Skip: filter.Skip, Limit: filter.Limit}.resolve(50, 100)
	if err != nil {
		return NotificationList{}, err
	}
	filter.Skip, filter.Limit = w.Skip, w.Limit

	var out NotificationList
	err = s.inTx(ctx, func(repo domain.Repository) error {
		items, total, err := repo.ListNotifications(ctx, filter)
		if err != nil {
			return err
		}
		unread, err := repo.CountUnreadNotifications(ctx, filter.UserID)
		if err != nil {
			return err
		}
		if items == nil {
			items = []domain.Notification{}
		}
		out = NotificationList{Items: items, Total: total, UnreadCount: unread}
		return nil
	})
	return out, err
}

func (s *Service) NotificationStats(ctx context.Context, userID uint) (domain.NotificationStats, error) {
	var out domain.NotificationStats
	err := s.inTx(ctx, func(repo domain.Repository) error {
		var err error
		out, err = repo.GetNotificationStats(ctx, userID)
		return err
	})
	return out, err
}

// MarkRead flags notifications as read and returns how many changed.
// Already read notifications keep their original read_at.
func (s *Service) MarkRead(ctx context.Context, userID uint, in MarkReadInput) (int64, error) {
	var ids []uint
	switch {
	case in.AllUnread:
	case len(in.NotificationIDs) > 0:
		ids = in.NotificationIDs
	default:
		return 0, domain.Errorf(domain.ErrValidation, "Provide notification_ids or all_unread")
	}
	var n int64
	err := s.inTx(ctx, func(repo domain.Repository) error {
		var err error
		n, err = repo.MarkNotificationsRead(ctx, userID, ids, s.now())
		return err
	})
	return n, err
}

func (s *Service) MarkOneRead(ctx context.Context, userID, id uint) error {
	return s.inTx(ctx, func(repo domain.Repository) error {
		n, err := repo.MarkNotificationsRead(ctx, userID, []uint{id}, s.now())
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.Errorf(domain.ErrNotFound, "Notification not found or already read")
		}
		return nil
	})
}

func (s *Service) ArchiveNotifications(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.Errorf(domain.ErrValidation, "Provide at least one notification id")
	}
	var n int64
	err := s.inTx(ctx, func(repo domain.Repository) error {
		var err error
		n, err = repo.ArchiveNotifications(ctx, userID, ids)
		return err
	})
	return n, err
}

func (s *Service) DeleteNotification(ctx context.Context, userID, id uint) error {
	return s.inTx(ctx, func(repo domain.Repository) error {
		return notFound(repo.DeleteNotification(ctx, userID, id), "Notification not found")
	})
}

func (s *Service) CleanupReadNotifications(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.inTx(ctx, func(repo domain.Repository) error {
		var err error
		n, err = repo.DeleteReadNotifications(ctx, userID)
		return err
	})
	return n, err
}

// SendTestNotification writes a system notification to the caller. Unlike
// the answer trigger, a failure here is returned.
func (s *Service) SendTestNotification(ctx context.Context, userID uint) (domain.Notification, error) {
	var out domain.Notification
	err := s.inTx(ctx, func(repo domain.Repository) error {
		var err error
		out, err = repo.CreateNotification(ctx, domain.Notification{
			UserID:           userID,
			NotificationType: domain.NotificationSystem,
			Title:            "Test notification",
			Message:          "This is a test notification to check the system",
			Data: map[string]any{
				"test":      true,
				"timestamp": s.now().Format(time.RFC3339),
			},
		})
		return err
	})
	metrics.RecordNotification(domain.NotificationSystem, err)
	return out, err
}
