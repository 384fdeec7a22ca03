package gormdb

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

func (r *Repository) CreateNotification(ctx context.Context, value domain.Notification) (domain.Notification, error) {
	m := NotificationModel{
		UserID:           value.UserID,
		NotificationType: value.NotificationType,
		Title:            value.Title,
		Message:          value.Message,
		IsRead:           value.IsRead,
		IsArchived:       value.IsArchived,
	}
	if value.Data != nil {
		m.Data = datatypes.JSONMap(value.Data)
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Notification{}, translate(err)
	}
	return toNotification(m), nil
}

func (r *Repository) ListNotifications(ctx context.Context, filter domain.NotificationFilter) ([]domain.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&NotificationModel{}).Where("user_id = ?", filter.UserID)
	if filter.OnlyUnread {
		q = q.Where("is_read = ?", false)
	}
	if !filter.IncludeArchived {
		q = q.Where("is_archived = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]NotificationModel, 0)
	if err := paginate(q.Order("created_at DESC, id DESC"), filter.Skip, filter.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, toNotification(m))
	}
	return out, total, nil
}

// CountUnreadNotifications counts unread notifications that are not archived.
func (r *Repository) CountUnreadNotifications(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&NotificationModel{}).
		Where("user_id = ? AND is_read = ? AND is_archived = ?", userID, false, false).
		Count(&n).Error
	return n, err
}

func (r *Repository) GetNotificationStats(ctx context.Context, userID uint) (domain.NotificationStats, error) {
	type row struct {
		Total    int64
		Unread   int64
		Archived int64
	}
	var v row
	err := r.db.WithContext(ctx).Raw(`
SELECT
  (SELECT COUNT(*) FROM notifications WHERE user_id = @user) AS total,
  (SELECT COUNT(*) FROM notifications WHERE user_id = @user AND is_read = @no) AS unread,
  (SELECT COUNT(*) FROM notifications WHERE user_id = @user AND is_archived = @yes) AS archived
`, map[string]any{"user": userID, "no": false, "yes": true}).Scan(&v).Error
	if err != nil {
		return domain.NotificationStats{}, err
	}
	return domain.NotificationStats{
		Total:    v.Total,
		Unread:   v.Unread,
		Read:     v.Total - v.Unread,
		Archived: v.Archived,
	}, nil
}

// MarkNotificationsRead flips unread notifications to read and stamps
// read_at. A nil ids slice means every unread notification of the user.
func (r *Repository) MarkNotificationsRead(ctx context.Context, userID uint, ids []uint, at time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&NotificationModel{}).Where("user_id = ? AND is_read = ?", userID, false)
	if ids != nil {
		if len(ids) == 0 {
			return 0, nil
		}
		q = q.Where("id IN ?", ids)
	}
	res := q.Updates(map[string]any{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

func (r *Repository) ArchiveNotifications(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&NotificationModel{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Update("is_archived", true)
	return res.RowsAffected, res.Error
}

func (r *Repository) DeleteNotification(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&NotificationModel{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteReadNotifications(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND is_read = ?", userID, true).Delete(&NotificationModel{})
	return res.RowsAffected, res.Error
}

func toNotification(m NotificationModel) domain.Notification {
	var data map[string]any
	if m.Data != nil {
		data = map[string]any(m.Data)
	}
	return domain.Notification{
		ID:               m.ID,
		UserID:           m.UserID,
		NotificationType: m.NotificationType,
		Title:            m.Title,
		Message:          m.Message,
		Data:             data,
		IsRead:           m.IsRead,
		IsArchived:       m.IsArchived,
		CreatedAt:        m.CreatedAt,
		ReadAt:           m.ReadAt,
	}
}
