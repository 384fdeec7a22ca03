package gormdb

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

type discussionRow struct {
	ID          uint
	Title       string
	Content     string
	UserID      uint
	LandmarkID  *uint
	City        *string
	IsClosed    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserName    string
	UserAvatar  *string
	AnswerCount int
}

const discussionColumns = "d.id, d.title, d.content, d.user_id, d.landmark_id, d.city, d.is_closed, d.created_at, d.updated_at, " +
	"u.full_name AS user_name, u.avatar_url AS user_avatar, " +
	"(SELECT COUNT(*) FROM discussion_answers a WHERE a.discussion_id = d.id) AS answer_count"

func (r *Repository) discussions(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("discussions AS d").Joins("JOIN users u ON u.id = d.user_id")
}

func (r *Repository) CreateDiscussion(ctx context.Context, value domain.Discussion) (domain.Discussion, error) {
	m := DiscussionModel{
		Title:      value.Title,
		Content:    value.Content,
		UserID:     value.UserID,
		LandmarkID: value.LandmarkID,
		City:       value.City,
		IsClosed:   value.IsClosed,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Discussion{}, translate(err)
	}
	return r.GetDiscussion(ctx, m.ID)
}

func (r *Repository) GetDiscussion(ctx context.Context, id uint) (domain.Discussion, error) {
	var v discussionRow
	if err := r.discussions(ctx).Select(discussionColumns).Where("d.id = ?", id).Limit(1).Scan(&v).Error; err != nil {
		return domain.Discussion{}, err
	}
	if v.ID == 0 {
		return domain.Discussion{}, domain.ErrNotFound
	}
	return toDiscussion(v), nil
}

func (r *Repository) UpdateDiscussion(ctx context.Context, value domain.Discussion) (domain.Discussion, error) {
	res := r.db.WithContext(ctx).Model(&DiscussionModel{}).
		Where("id = ? AND user_id = ?", value.ID, value.UserID).
		Updates(map[string]any{
			"title":     value.Title,
			"content":   value.Content,
			"is_closed": value.IsClosed,
		})
	if res.Error != nil {
		return domain.Discussion{}, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Discussion{}, domain.ErrNotFound
	}
	return r.GetDiscussion(ctx, value.ID)
}

func (r *Repository) DeleteDiscussion(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&DiscussionModel{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) ListDiscussions(ctx context.Context, filter domain.DiscussionFilter) ([]domain.Discussion, int64, error) {
	q := r.discussions(ctx)
	if filter.LandmarkID != nil {
		q = q.Where("d.landmark_id = ?", *filter.LandmarkID)
	}
	if strings.TrimSpace(filter.City) != "" {
		q = q.Where("d.city = ?", strings.TrimSpace(filter.City))
	}
	if filter.UserID != nil {
		q = q.Where("d.user_id = ?", *filter.UserID)
	}
	if strings.TrimSpace(filter.Search) != "" {
		like := containsPattern(filter.Search)
		q = q.Where("(LOWER(d.title) LIKE ? OR LOWER(d.content) LIKE ?)", like, like)
	}
	if filter.OnlyOpen {
		q = q.Where("d.is_closed = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]discussionRow, 0)
	q = q.Select(discussionColumns).Order("d.created_at DESC, d.id DESC")
	if err := paginate(q, filter.Skip, filter.Limit).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Discussion, 0, len(rows))
	for _, v := range rows {
		out = append(out, toDiscussion(v))
	}
	return out, total, nil
}

type answerRow struct {
	ID           uint
	Content      string
	UserID       uint
	DiscussionID uint
	IsHelpful    bool
	HelpfulVotes int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserName     string
	UserAvatar   *string
}

const answerColumns = "a.id, a.content, a.user_id, a.discussion_id, a.is_helpful, a.helpful_votes, a.created_at, a.updated_at, " +
	"u.full_name AS user_name, u.avatar_url AS user_avatar"

func (r *Repository) answers(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("discussion_answers AS a").Joins("JOIN users u ON u.id = a.user_id")
}

func (r *Repository) CreateAnswer(ctx context.Context, value domain.Answer) (domain.Answer, error) {
	m := AnswerModel{
		Content:      value.Content,
		UserID:       value.UserID,
		DiscussionID: value.DiscussionID,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Answer{}, translate(err)
	}
	return r.GetAnswer(ctx, m.ID)
}

func (r *Repository) GetAnswer(ctx context.Context, id uint) (domain.Answer, error) {
	var v answerRow
	if err := r.answers(ctx).Select(answerColumns).Where("a.id = ?", id).Limit(1).Scan(&v).Error; err != nil {
		return domain.Answer{}, err
	}
	if v.ID == 0 {
		return domain.Answer{}, domain.ErrNotFound
	}
	return toAnswer(v), nil
}

// UpdateAnswer stores content and vote state. The author is not part of the
// filter; ownership is checked by the caller where it applies.
func (r *Repository) UpdateAnswer(ctx context.Context, value domain.Answer) (domain.Answer, error) {
	res := r.db.WithContext(ctx).Model(&AnswerModel{}).
		Where("id = ?", value.ID).
		Updates(map[string]any{
			"content":       value.Content,
			"is_helpful":    value.IsHelpful,
			"helpful_votes": value.HelpfulVotes,
		})
	if res.Error != nil {
		return domain.Answer{}, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Answer{}, domain.ErrNotFound
	}
	return r.GetAnswer(ctx, value.ID)
}

func (r *Repository) DeleteAnswer(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&AnswerModel{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) ListAnswers(ctx context.Context, discussionID uint, sortByHelpful bool, skip, limit int) ([]domain.Answer, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&AnswerModel{}).Where("discussion_id = ?", discussionID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "a.created_at DESC, a.id DESC"
	if sortByHelpful {
		order = "a.helpful_votes DESC, " + order
	}
	rows := make([]answerRow, 0)
	q := r.answers(ctx).Select(answerColumns).Where("a.discussion_id = ?", discussionID).Order(order)
	if err := paginate(q, skip, limit).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Answer, 0, len(rows))
	for _, v := range rows {
		out = append(out, toAnswer(v))
	}
	return out, total, nil
}

func toDiscussion(v discussionRow) domain.Discussion {
	return domain.Discussion{
		ID:          v.ID,
		Title:       v.Title,
		Content:     v.Content,
		UserID:      v.UserID,
		LandmarkID:  v.LandmarkID,
		City:        v.City,
		IsClosed:    v.IsClosed,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
		UserName:    v.UserName,
		UserAvatar:  v.UserAvatar,
		AnswerCount: v.AnswerCount,
	}
}

func toAnswer(v answerRow) domain.Answer {
	return domain.Answer{
		ID:           v.ID,
		Content:      v.Content,
		UserID:       v.UserID,
		DiscussionID: v.DiscussionID,
		IsHelpful:    v.IsHelpful,
		HelpfulVotes: v.HelpfulVotes,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
		UserName:     v.UserName,
		UserAvatar:   v.UserAvatar,
	}
}
