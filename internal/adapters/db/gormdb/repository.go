package gormdb

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

// Repository implements domain.Repository on top of gorm. A Repository built
// with NewRepository runs each call in its own implicit transaction;
// WithinTx hands out one bound to an explicit transaction.
type Repository struct {
	db *gorm.DB
}

var _ domain.Repository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithinTx runs fn inside a transaction. When r is already bound to a
// transaction gorm opens a savepoint, so a failure in fn rolls back only the
// work done by fn.
func (r *Repository) WithinTx(ctx context.Context, fn func(repo domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) CreateUser(ctx context.Context, value domain.User) (domain.User, error) {
	m := UserModel{
		Email:        strings.TrimSpace(value.Email),
		PasswordHash: value.PasswordHash,
		FullName:     value.FullName,
		AvatarURL:    value.AvatarURL,
		Bio:          value.Bio,
		Location:     value.Location,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.User{}, translate(err)
	}
	return toUser(m), nil
}

func (r *Repository) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.User{}, translate(err)
	}
	return toUser(m), nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&m).Error; err != nil {
		return domain.User{}, translate(err)
	}
	return toUser(m), nil
}

func (r *Repository) UpdateUser(ctx context.Context, value domain.User) (domain.User, error) {
	res := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", value.ID).Updates(map[string]any{
		"full_name":  value.FullName,
		"avatar_url": value.AvatarURL,
		"bio":        value.Bio,
		"location":   value.Location,
	})
	if res.Error != nil {
		return domain.User{}, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return r.GetUserByID(ctx, value.ID)
}

func (r *Repository) DeleteUser(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&UserModel{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) AddReputation(ctx context.Context, userID uint, delta int) error {
	res := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ?", userID).
		UpdateColumn("reputation_score", gorm.Expr("reputation_score + ?", delta))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) GetUserActivity(ctx context.Context, userID uint) (domain.UserActivity, error) {
	type row struct {
		Reviews        int64
		Favorites      int64
		Discussions    int64
		Answers        int64
		HelpfulAnswers int64
	}
	var out row
	err := r.db.WithContext(ctx).Raw(`
SELECT
  (SELECT COUNT(*) FROM reviews WHERE user_id = @id) AS reviews,
  (SELECT COUNT(*) FROM favorites WHERE user_id = @id) AS favorites,
  (SELECT COUNT(*) FROM discussions WHERE user_id = @id) AS discussions,
  (SELECT COUNT(*) FROM discussion_answers WHERE user_id = @id) AS answers,
  (SELECT COUNT(*) FROM discussion_answers WHERE user_id = @id AND is_helpful = @helpful) AS helpful_answers
`, map[string]any{"id": userID, "helpful": true}).Scan(&out).Error
	if err != nil {
		return domain.UserActivity{}, err
	}
	return domain.UserActivity{
		Reviews:        out.Reviews,
		Favorites:      out.Favorites,
		Discussions:    out.Discussions,
		Answers:        out.Answers,
		HelpfulAnswers: out.HelpfulAnswers,
	}, nil
}

func toUser(m UserModel) domain.User {
	return domain.User{
		ID:              m.ID,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		FullName:        m.FullName,
		AvatarURL:       m.AvatarURL,
		Bio:             m.Bio,
		Location:        m.Location,
		ReputationScore: m.ReputationScore,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// containsPattern builds a lower-cased LIKE pattern for substring search.
func containsPattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

func paginate(q *gorm.DB, skip, limit int) *gorm.DB {
	if skip > 0 {
		q = q.Offset(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}
