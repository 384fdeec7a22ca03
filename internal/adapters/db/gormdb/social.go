package gormdb

import (
	"context"
	"time"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

func (r *Repository) GetFavorite(ctx context.Context, userID, landmarkID uint) (domain.Favorite, error) {
	var m FavoriteModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND landmark_id = ?", userID, landmarkID).
		First(&m).Error
	if err != nil {
		return domain.Favorite{}, translate(err)
	}
	return toFavorite(m), nil
}

func (r *Repository) CreateFavorite(ctx context.Context, value domain.Favorite) (domain.Favorite, error) {
	m := FavoriteModel{UserID: value.UserID, LandmarkID: value.LandmarkID}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Favorite{}, translate(err)
	}
	return toFavorite(m), nil
}

func (r *Repository) DeleteFavorite(ctx context.Context, userID, landmarkID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND landmark_id = ?", userID, landmarkID).
		Delete(&FavoriteModel{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) ListFavorites(ctx context.Context, userID uint, skip, limit int) ([]domain.Favorite, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&FavoriteModel{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	type row struct {
		ID               uint
		UserID           uint
		LandmarkID       uint
		CreatedAt        time.Time
		LandmarkName     string
		LandmarkCity     string
		LandmarkImageURL *string
	}
	rows := make([]row, 0)
	q := r.db.WithContext(ctx).Table("favorites AS f").
		Select("f.id, f.user_id, f.landmark_id, f.created_at, l.name AS landmark_name, l.city AS landmark_city, l.image_url AS landmark_image_url").
		Joins("JOIN landmarks l ON l.id = f.landmark_id").
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC, f.id DESC")
	if err := paginate(q, skip, limit).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Favorite, 0, len(rows))
	for _, v := range rows {
		out = append(out, domain.Favorite{
			ID:               v.ID,
			UserID:           v.UserID,
			LandmarkID:       v.LandmarkID,
			CreatedAt:        v.CreatedAt,
			LandmarkName:     v.LandmarkName,
			LandmarkCity:     v.LandmarkCity,
			LandmarkImageURL: v.LandmarkImageURL,
		})
	}
	return out, total, nil
}

func (r *Repository) GetReview(ctx context.Context, userID, landmarkID uint) (domain.Review, error) {
	var m ReviewModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND landmark_id = ?", userID, landmarkID).
		First(&m).Error
	if err != nil {
		return domain.Review{}, translate(err)
	}
	return toReview(m), nil
}

func (r *Repository) CreateReview(ctx context.Context, value domain.Review) (domain.Review, error) {
	m := ReviewModel{
		UserID:     value.UserID,
		LandmarkID: value.LandmarkID,
		Rating:     value.Rating,
		Comment:    value.Comment,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Review{}, translate(err)
	}
	return toReview(m), nil
}

func (r *Repository) UpdateReview(ctx context.Context, value domain.Review) (domain.Review, error) {
	res := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("user_id = ? AND landmark_id = ?", value.UserID, value.LandmarkID).
		Updates(map[string]any{"rating": value.Rating, "comment": value.Comment})
	if res.Error != nil {
		return domain.Review{}, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Review{}, domain.ErrNotFound
	}
	return r.GetReview(ctx, value.UserID, value.LandmarkID)
}

func (r *Repository) DeleteReview(ctx context.Context, userID, landmarkID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND landmark_id = ?", userID, landmarkID).
		Delete(&ReviewModel{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type reviewRow struct {
	ID           uint
	UserID       uint
	LandmarkID   uint
	Rating       float64
	Comment      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserName     string
	LandmarkName string
	LandmarkCity string
}

func (r *Repository) ListLandmarkReviews(ctx context.Context, landmarkID uint, skip, limit int) ([]domain.Review, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).Where("landmark_id = ?", landmarkID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]reviewRow, 0)
	q := r.db.WithContext(ctx).Table("reviews AS rv").
		Select("rv.*, u.full_name AS user_name").
		Joins("JOIN users u ON u.id = rv.user_id").
		Where("rv.landmark_id = ?", landmarkID).
		Order("rv.created_at DESC, rv.id DESC")
	if err := paginate(q, skip, limit).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toReviews(rows), total, nil
}

func (r *Repository) ListUserReviews(ctx context.Context, userID uint, skip, limit int) ([]domain.Review, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]reviewRow, 0)
	q := r.db.WithContext(ctx).Table("reviews AS rv").
		Select("rv.*, l.name AS landmark_name, l.city AS landmark_city").
		Joins("JOIN landmarks l ON l.id = rv.landmark_id").
		Where("rv.user_id = ?", userID).
		Order("rv.created_at DESC, rv.id DESC")
	if err := paginate(q, skip, limit).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toReviews(rows), total, nil
}

func (r *Repository) LandmarkRatings(ctx context.Context, landmarkID uint) ([]float64, error) {
	out := make([]float64, 0)
	err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("landmark_id = ?", landmarkID).
		Order("id ASC").
		Pluck("rating", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toFavorite(m FavoriteModel) domain.Favorite {
	return domain.Favorite{ID: m.ID, UserID: m.UserID, LandmarkID: m.LandmarkID, CreatedAt: m.CreatedAt}
}

func toReview(m ReviewModel) domain.Review {
	return domain.Review{
		ID:         m.ID,
		UserID:     m.UserID,
		LandmarkID: m.LandmarkID,
		Rating:     m.Rating,
		Comment:    m.Comment,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toReviews(rows []reviewRow) []domain.Review {
	out := make([]domain.Review, 0, len(rows))
	for _, v := range rows {
		out = append(out, domain.Review{
			ID:           v.ID,
			UserID:       v.UserID,
			LandmarkID:   v.LandmarkID,
			Rating:       v.Rating,
			Comment:      v.Comment,
			CreatedAt:    v.CreatedAt,
			UpdatedAt:    v.UpdatedAt,
			UserName:     v.UserName,
			LandmarkName: v.LandmarkName,
			LandmarkCity: v.LandmarkCity,
		})
	}
	return out
}
