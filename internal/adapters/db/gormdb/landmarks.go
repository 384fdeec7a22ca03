package gormdb

import (
	"context"
	"strings"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

func (r *Repository) CreateLandmark(ctx context.Context, value domain.Landmark) (domain.Landmark, error) {
	m := fromLandmark(value)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Landmark{}, translate(err)
	}
	return toLandmark(m), nil
}

func (r *Repository) GetLandmark(ctx context.Context, id uint) (domain.Landmark, error) {
	var m LandmarkModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.Landmark{}, translate(err)
	}
	return toLandmark(m), nil
}

func (r *Repository) UpdateLandmark(ctx context.Context, value domain.Landmark) (domain.Landmark, error) {
	res := r.db.WithContext(ctx).Model(&LandmarkModel{}).Where("id = ?", value.ID).Updates(map[string]any{
		"name":        value.Name,
		"description": value.Description,
		"city":        value.City,
		"country":     value.Country,
		"category":    value.Category,
		"latitude":    value.Latitude,
		"longitude":   value.Longitude,
		"address":     value.Address,
		"image_url":   value.ImageURL,
	})
	if res.Error != nil {
		return domain.Landmark{}, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Landmark{}, domain.ErrNotFound
	}
	return r.GetLandmark(ctx, value.ID)
}

func (r *Repository) DeleteLandmark(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&LandmarkModel{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) ListLandmarks(ctx context.Context, filter domain.LandmarkFilter) ([]domain.Landmark, int64, error) {
	q := r.db.WithContext(ctx).Model(&LandmarkModel{})
	if strings.TrimSpace(filter.City) != "" {
		q = q.Where("LOWER(city) LIKE ?", containsPattern(filter.City))
	}
	if strings.TrimSpace(filter.Country) != "" {
		q = q.Where("LOWER(country) LIKE ?", containsPattern(filter.Country))
	}
	if strings.TrimSpace(filter.Category) != "" {
		q = q.Where("LOWER(category) LIKE ?", containsPattern(filter.Category))
	}
	if strings.TrimSpace(filter.Search) != "" {
		like := containsPattern(filter.Search)
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(city) LIKE ?)", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]LandmarkModel, 0)
	if err := paginate(q.Order("id ASC"), filter.Skip, filter.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toLandmarks(rows), total, nil
}

func (r *Repository) AllLandmarks(ctx context.Context) ([]domain.Landmark, error) {
	rows := make([]LandmarkModel, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLandmarks(rows), nil
}

func (r *Repository) DistinctCities(ctx context.Context) ([]string, error) {
	return r.distinctLandmarkColumn(ctx, "city", "")
}

func (r *Repository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinctLandmarkColumn(ctx, "category", "")
}

func (r *Repository) CityCategories(ctx context.Context, city string) ([]string, error) {
	return r.distinctLandmarkColumn(ctx, "category", city)
}

func (r *Repository) distinctLandmarkColumn(ctx context.Context, column, city string) ([]string, error) {
	q := r.db.WithContext(ctx).Model(&LandmarkModel{}).
		Where(column + " IS NOT NULL AND " + column + " <> ''")
	if city != "" {
		q = q.Where("city = ?", city)
	}
	out := make([]string, 0)
	if err := q.Distinct(column).Order(column).Pluck(column, &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) FirstLandmarkInCity(ctx context.Context, city string) (domain.Landmark, error) {
	var m LandmarkModel
	if err := r.db.WithContext(ctx).Where("city = ?", city).Order("id ASC").First(&m).Error; err != nil {
		return domain.Landmark{}, translate(err)
	}
	return toLandmark(m), nil
}

func (r *Repository) ListCityLandmarks(ctx context.Context, filter domain.CityLandmarkFilter) ([]domain.Landmark, int64, error) {
	q := r.db.WithContext(ctx).Model(&LandmarkModel{}).Where("landmarks.city = ?", filter.City)
	if filter.Category != "" {
		q = q.Where("landmarks.category = ?", filter.Category)
	}
	if filter.HasImages != nil {
		if *filter.HasImages {
			q = q.Where("landmarks.image_url IS NOT NULL AND landmarks.image_url <> ''")
		} else {
			q = q.Where("(landmarks.image_url IS NULL OR landmarks.image_url = '')")
		}
	}
	order := "landmarks.id ASC"
	if filter.MinRating != nil {
		ratings := r.db.Model(&ReviewModel{}).
			Select("landmark_id, AVG(rating) AS avg_rating").
			Group("landmark_id")
		q = q.Joins("JOIN (?) AS ratings ON ratings.landmark_id = landmarks.id", ratings).
			Where("ratings.avg_rating >= ?", *filter.MinRating)
		order = "ratings.avg_rating DESC, landmarks.id ASC"
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]LandmarkModel, 0)
	if err := paginate(q.Select("landmarks.*").Order(order), filter.Skip, filter.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toLandmarks(rows), total, nil
}

func (r *Repository) SearchCityLandmarks(ctx context.Context, city, search string, skip, limit int) ([]domain.Landmark, int64, error) {
	like := containsPattern(search)
	q := r.db.WithContext(ctx).Model(&LandmarkModel{}).
		Where("city = ?", city).
		Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]LandmarkModel, 0)
	if err := paginate(q.Order("id ASC"), skip, limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toLandmarks(rows), total, nil
}

func fromLandmark(l domain.Landmark) LandmarkModel {
	return LandmarkModel{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		City:        l.City,
		Country:     l.Country,
		Category:    l.Category,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		Address:     l.Address,
		ImageURL:    l.ImageURL,
	}
}

func toLandmark(m LandmarkModel) domain.Landmark {
	return domain.Landmark{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		City:        m.City,
		Country:     m.Country,
		Category:    m.Category,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		Address:     m.Address,
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toLandmarks(rows []LandmarkModel) []domain.Landmark {
	out := make([]domain.Landmark, 0, len(rows))
	for _, m := range rows {
		out = append(out, toLandmark(m))
	}
	return out
}
