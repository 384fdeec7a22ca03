package gormdb

import (
	"context"
	"strconv"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

func (r *Repository) GetCityProfile(ctx context.Context, city string) (domain.CityProfile, error) {
	var m CityProfileModel
	if err := r.db.WithContext(ctx).Where("city_name = ?", city).First(&m).Error; err != nil {
		return domain.CityProfile{}, translate(err)
	}
	return toCityProfile(m), nil
}

func (r *Repository) CreateCityProfile(ctx context.Context, value domain.CityProfile) (domain.CityProfile, error) {
	m := CityProfileModel{
		CityName:         value.CityName,
		Country:          value.Country,
		Description:      value.Description,
		ImageURL:         value.ImageURL,
		TotalLandmarks:   value.TotalLandmarks,
		TotalReviews:     value.TotalReviews,
		TotalDiscussions: value.TotalDiscussions,
		AverageRating:    value.AverageRating,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.CityProfile{}, translate(err)
	}
	return toCityProfile(m), nil
}

func (r *Repository) ListPopularCities(ctx context.Context, limit int) ([]domain.PopularCity, error) {
	rows := make([]CityProfileModel, 0)
	q := r.db.WithContext(ctx).Order("total_landmarks DESC, city_name ASC")
	if err := paginate(q, 0, limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.PopularCity, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.PopularCity{
			CityName:       m.CityName,
			Country:        m.Country,
			TotalLandmarks: m.TotalLandmarks,
			AverageRating:  m.AverageRating,
			ImageURL:       m.ImageURL,
		})
	}
	return out, nil
}

func (r *Repository) ListCityCategoryStats(ctx context.Context, city string, limit int) ([]domain.CategoryCount, error) {
	rows := make([]CityCategoryStatModel, 0)
	q := r.db.WithContext(ctx).Where("city_name = ?", city).Order("count DESC, category ASC")
	if err := paginate(q, 0, limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.CategoryCount, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.CategoryCount{City: m.CityName, Category: m.Category, Count: m.Count})
	}
	return out, nil
}

// GetCityLiveFigures reads the figures that city stats always take from the
// source tables rather than from the cached profile.
func (r *Repository) GetCityLiveFigures(ctx context.Context, city string) (domain.CityLiveFigures, error) {
	type counts struct {
		WithImages  int
		Open        int
		Closed      int
		WithAnswers int
	}
	var c counts
	err := r.db.WithContext(ctx).Raw(`
SELECT
  (SELECT COUNT(*) FROM landmarks WHERE city = @city AND image_url IS NOT NULL AND image_url <> '') AS with_images,
  (SELECT COUNT(*) FROM discussions WHERE city = @city AND is_closed = @closed_false) AS open,
  (SELECT COUNT(*) FROM discussions WHERE city = @city AND is_closed = @closed_true) AS closed,
  (SELECT COUNT(*) FROM discussions d WHERE d.city = @city
     AND EXISTS (SELECT 1 FROM discussion_answers a WHERE a.discussion_id = d.id)) AS with_answers
`, map[string]any{"city": city, "closed_false": false, "closed_true": true}).Scan(&c).Error
	if err != nil {
		return domain.CityLiveFigures{}, err
	}

	type bucket struct {
		Rating float64
		Total  int
	}
	buckets := make([]bucket, 0)
	err = r.db.WithContext(ctx).Table("reviews AS rv").
		Select("rv.rating AS rating, COUNT(*) AS total").
		Joins("JOIN landmarks l ON l.id = rv.landmark_id").
		Where("l.city = ?", city).
		Group("rv.rating").
		Scan(&buckets).Error
	if err != nil {
		return domain.CityLiveFigures{}, err
	}

	distribution := make(map[string]int, 5)
	for level := 1; level <= 5; level++ {
		distribution[strconv.Itoa(level)] = 0
	}
	for _, b := range buckets {
		// Only exact whole-star ratings are counted.
		for level := 1; level <= 5; level++ {
			if b.Rating == float64(level) {
				distribution[strconv.Itoa(level)] += b.Total
			}
		}
	}

	return domain.CityLiveFigures{
		LandmarksWithImages:   c.WithImages,
		RatingDistribution:    distribution,
		OpenDiscussions:       c.Open,
		ClosedDiscussions:     c.Closed,
		DiscussionsWithAnswer: c.WithAnswers,
	}, nil
}

// ComputeCityAggregates derives per-city counters from the source tables.
// The country of a city is the one of its oldest landmark.
func (r *Repository) ComputeCityAggregates(ctx context.Context) ([]domain.CityAggregate, error) {
	type cityRow struct {
		City      string
		Country   string
		Landmarks int
	}
	cities := make([]cityRow, 0)
	err := r.db.WithContext(ctx).Raw(`
SELECT l.city AS city, l.country AS country, c.landmarks AS landmarks
FROM landmarks l
JOIN (SELECT city, MIN(id) AS first_id, COUNT(*) AS landmarks FROM landmarks GROUP BY city) c
  ON c.first_id = l.id
ORDER BY l.city
`).Scan(&cities).Error
	if err != nil {
		return nil, err
	}

	type reviewAgg struct {
		City    string
		Reviews int
		Average float64
	}
	reviews := make([]reviewAgg, 0)
	err = r.db.WithContext(ctx).Table("reviews AS rv").
		Select("l.city AS city, COUNT(rv.id) AS reviews, AVG(rv.rating) AS average").
		Joins("JOIN landmarks l ON l.id = rv.landmark_id").
		Group("l.city").
		Scan(&reviews).Error
	if err != nil {
		return nil, err
	}
	reviewsByCity := make(map[string]reviewAgg, len(reviews))
	for _, v := range reviews {
		reviewsByCity[v.City] = v
	}

	type discussionAgg struct {
		City        string
		Discussions int
	}
	discussions := make([]discussionAgg, 0)
	err = r.db.WithContext(ctx).Model(&DiscussionModel{}).
		Select("city, COUNT(*) AS discussions").
		Where("city IS NOT NULL").
		Group("city").
		Scan(&discussions).Error
	if err != nil {
		return nil, err
	}
	discussionsByCity := make(map[string]int, len(discussions))
	for _, v := range discussions {
		discussionsByCity[v.City] = v.Discussions
	}

	out := make([]domain.CityAggregate, 0, len(cities))
	for _, c := range cities {
		agg := domain.CityAggregate{
			CityName:         c.City,
			Country:          c.Country,
			TotalLandmarks:   c.Landmarks,
			TotalDiscussions: discussionsByCity[c.City],
		}
		if rv, ok := reviewsByCity[c.City]; ok {
			agg.TotalReviews = rv.Reviews
			agg.AverageRating = rv.Average
		}
		out = append(out, agg)
	}
	return out, nil
}

func (r *Repository) ComputeCategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	out := make([]domain.CategoryCount, 0)
	err := r.db.WithContext(ctx).Model(&LandmarkModel{}).
		Select("city, category, COUNT(*) AS count").
		Group("city, category").
		Order("city, category").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertCityAggregate writes recomputed counters. Rows whose counters already
// match are left alone so a rerun does not touch updated_at.
func (r *Repository) UpsertCityAggregate(ctx context.Context, value domain.CityAggregate) error {
	var m CityProfileModel
	err := r.db.WithContext(ctx).
		Where(CityProfileModel{CityName: value.CityName}).
		Attrs(CityProfileModel{
			Country:          value.Country,
			TotalLandmarks:   value.TotalLandmarks,
			TotalReviews:     value.TotalReviews,
			TotalDiscussions: value.TotalDiscussions,
			AverageRating:    value.AverageRating,
		}).
		FirstOrCreate(&m).Error
	if err != nil {
		return translate(err)
	}
	if m.Country == value.Country &&
		m.TotalLandmarks == value.TotalLandmarks &&
		m.TotalReviews == value.TotalReviews &&
		m.TotalDiscussions == value.TotalDiscussions &&
		m.AverageRating == value.AverageRating {
		return nil
	}
	return r.db.WithContext(ctx).Model(&m).Updates(map[string]any{
		"country":           value.Country,
		"total_landmarks":   value.TotalLandmarks,
		"total_reviews":     value.TotalReviews,
		"total_discussions": value.TotalDiscussions,
		"average_rating":    value.AverageRating,
	}).Error
}

func (r *Repository) UpsertCategoryCount(ctx context.Context, value domain.CategoryCount) error {
	var m CityCategoryStatModel
	err := r.db.WithContext(ctx).
		Where(CityCategoryStatModel{CityName: value.City, Category: value.Category}).
		Attrs(CityCategoryStatModel{Count: value.Count}).
		FirstOrCreate(&m).Error
	if err != nil {
		return translate(err)
	}
	if m.Count == value.Count {
		return nil
	}
	return r.db.WithContext(ctx).Model(&m).Update("count", value.Count).Error
}

// PruneCityStats reconciles cached rows that the source tables no longer
// back: profiles of cities without landmarks get zero counters, and category
// rows missing from categories are deleted. It reports the affected rows.
func (r *Repository) PruneCityStats(ctx context.Context, cities []string, categories []domain.CategoryCount) (int64, error) {
	zero := map[string]any{
		"total_landmarks":   0,
		"total_reviews":     0,
		"total_discussions": 0,
		"average_rating":    0,
	}
	q := r.db.WithContext(ctx).Model(&CityProfileModel{}).Where("total_landmarks > 0")
	if len(cities) > 0 {
		q = q.Where("city_name NOT IN ?", cities)
	}
	res := q.Updates(zero)
	if res.Error != nil {
		return 0, res.Error
	}
	affected := res.RowsAffected

	keep := make(map[[2]string]struct{}, len(categories))
	for _, c := range categories {
		keep[[2]string{c.City, c.Category}] = struct{}{}
	}
	existing := make([]CityCategoryStatModel, 0)
	if err := r.db.WithContext(ctx).Find(&existing).Error; err != nil {
		return affected, err
	}
	stale := make([]uint, 0)
	for _, m := range existing {
		if _, ok := keep[[2]string{m.CityName, m.Category}]; !ok {
			stale = append(stale, m.ID)
		}
	}
	if len(stale) > 0 {
		res := r.db.WithContext(ctx).Delete(&CityCategoryStatModel{}, stale)
		if res.Error != nil {
			return affected, res.Error
		}
		affected += res.RowsAffected
	}
	return affected, nil
}

func toCityProfile(m CityProfileModel) domain.CityProfile {
	return domain.CityProfile{
		CityName:         m.CityName,
		Country:          m.Country,
		Description:      m.Description,
		ImageURL:         m.ImageURL,
		TotalLandmarks:   m.TotalLandmarks,
		TotalReviews:     m.TotalReviews,
		TotalDiscussions: m.TotalDiscussions,
		AverageRating:    m.AverageRating,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
