package application

import (
	"context"
	"errors"
	"time"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/logging"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/metrics"
)

const (
	popularCategoryCount = 5
	ratingLevels         = 5
)

type CityLandmarkQuery struct {
	Category  string
	MinRating *float64
	HasImages *bool
	Window
}

// RecomputeResult summarises one batch pass over the city caches.
type RecomputeResult struct {
	Cities     int           `json:"cities"`
	Categories int           `json:"categories"`
	Reconciled int64         `json:"reconciled"`
	Duration   time.Duration `json:"duration"`
}

var errCityNotFound = domain.Errorf(domain.ErrNotFound, "City not found")

// CityProfile returns the cached profile of a city, creating an empty one
// from the city's first landmark when none exists yet.
func (s *Service) CityProfile(ctx context.Context, city string) (domain.CityProfileView, error) {
	var out domain.CityProfileView
	err := s.inTx(ctx, func(repo domain.Repository) error {
		profile, err := repo.GetCityProfile(ctx, city)
		if errors.Is(err, domain.ErrNotFound) {
			profile, err = s.createCityProfile(ctx, repo, city)
		}
		if err != nil {
			return err
		}
		top, err := repo.ListCityCategoryStats(ctx, city, popularCategoryCount)
		if err != nil {
			return err
		}
		out = domain.CityProfileView{
			CityProfile:         profile,
			PopularCategories:   top,
			LandmarksByCategory: categoryMap(top),
		}
		return nil
	})
	return out, err
}

func (s *Service) createCityProfile(ctx context.Context, repo domain.Repository, city string) (domain.CityProfile, error) {
	first, err := repo.FirstLandmarkInCity(ctx, city)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.CityProfile{}, errCityNotFound
	}
	if err != nil {
		return domain.CityProfile{}, err
	}
	logging.Ctx(ctx).Info().Str("city", city).Msg("creating city profile on first read")
	return repo.CreateCityProfile(ctx, domain.CityProfile{CityName: city, Country: first.Country})
}

// CityStats mixes cached totals from the profile with figures read live
// from the source tables. The two can disagree until the next recompute.
func (s *Service) CityStats(ctx context.Context, city string) (domain.CityStats, error) {
	var out domain.CityStats
	err := s.inTx(ctx, func(repo domain.Repository) error {
		profile, err := repo.GetCityProfile(ctx, city)
		if errors.Is(err, domain.ErrNotFound) {
			return errCityNotFound
		}
		if err != nil {
			return err
		}
		categories, err := repo.ListCityCategoryStats(ctx, city, 0)
		if err != nil {
			return err
		}
		live, err := repo.GetCityLiveFigures(ctx, city)
		if err != nil {
			return err
		}
		out = domain.CityStats{
			CityName: city,
			LandmarksStats: domain.LandmarksStats{
				Total:           profile.TotalLandmarks,
				WithImages:      live.LandmarksWithImages,
				ByCategory:      categoryMap(categories),
				CategoriesCount: len(categories),
			},
			ReviewsStats: domain.ReviewsStats{
				Total:              profile.TotalReviews,
				AverageRating:      profile.AverageRating,
				RatingDistribution: live.RatingDistribution,
				RatingLevels:       ratingLevels,
			},
			DiscussionsStats: domain.DiscussionsStats{
				Total:          profile.TotalDiscussions,
				Open:           live.OpenDiscussions,
				Closed:         live.ClosedDiscussions,
				WithAnswers:    live.DiscussionsWithAnswer,
				WithoutAnswers: profile.TotalDiscussions - live.DiscussionsWithAnswer,
			},
		}
		return nil
	})
	return out, err
}

func (s *Service) PopularCities(ctx context.Context, limit int) ([]domain.PopularCity, error) {
	w, err := Window{Limit: limit}.resolve(10, 50)
	if err != nil {
		return nil, err
	}
	var out []domain.PopularCity
	err = s.inTx(ctx, func(repo domain.Repository) error {
		var err error
		out, err = repo.ListPopularCities(ctx, w.Limit)
		return err
	})
	return out, err
}

func (s *Service) CityLandmarks(ctx context.Context, city string, q CityLandmarkQuery) (domain.Page[domain.Landmark], error) {
	w, err := q.Window.resolve(50, 100)
	if err != nil {
		return domain.Page[domain.Landmark]{}, err
	}
	if q.MinRating != nil && (*q.MinRating < 1 || *q.MinRating > 5) {
		return domain.Page[domain.Landmark]{}, fieldError("min_rating", "range", "must be between 1 and 5")
	}
	var page domain.Page[domain.Landmark]
	err = s.inTx(ctx, func(repo domain.Repository) error {
		if err := requireCity(ctx, repo, city); err != nil {
			return err
		}
		items, total, err := repo.ListCityLandmarks(ctx, domain.CityLandmarkFilter{
			City:      city,
			Category:  q.Category,
			MinRating: q.MinRating,
			HasImages: q.HasImages,
			Skip:      w.Skip,
			Limit:     w.Limit,
		})
		if err != nil {
			return err
		}
		page = domain.NewZeroBasedPage(items, total, w.Skip, w.Limit)
		return nil
	})
	return page, err
}

func (s *Service) CityCategories(ctx context.Context, city string) ([]string, error) {
	var out []string
	err := s.inTx(ctx, func(repo domain.Repository) error {
		if err := requireCity(ctx, repo, city); err != nil {
			return err
		}
		var err error
		out, err = repo.CityCategories(ctx, city)
		return err
	})
	return out, err
}

func (s *Service) CityDiscussions(ctx context.Context, city string, onlyOpen bool, w Window) (domain.Page[domain.Discussion], error) {
	w, err := w.resolve(50, 100)
	if err != nil {
		return domain.Page[domain.Discussion]{}, err
	}
	var page domain.Page[domain.Discussion]
	err = s.inTx(ctx, func(repo domain.Repository) error {
		if err := requireCity(ctx, repo, city); err != nil {
			return err
		}
		items, total, err := repo.ListDiscussions(ctx, domain.DiscussionFilter{
			City:     city,
			OnlyOpen: onlyOpen,
			Skip:     w.Skip,
			Limit:    w.Limit,
		})
		if err != nil {
			return err
		}
		page = domain.NewZeroBasedPage(items, total, w.Skip, w.Limit)
		return nil
	})
	return page, err
}

func (s *Service) SearchCityLandmarks(ctx context.Context, city, search string, w Window) (domain.Page[domain.Landmark], error) {
	if search == "" {
		return domain.Page[domain.Landmark]{}, fieldError("search", "min", "must be at least 1 characters")
	}
	w, err := w.resolve(50, 100)
	if err != nil {
		return domain.Page[domain.Landmark]{}, err
	}
	var page domain.Page[domain.Landmark]
	err = s.inTx(ctx, func(repo domain.Repository) error {
		if err := requireCity(ctx, repo, city); err != nil {
			return err
		}
		items, total, err := repo.SearchCityLandmarks(ctx, city, search, w.Skip, w.Limit)
		if err != nil {
			return err
		}
		page = domain.NewZeroBasedPage(items, total, w.Skip, w.Limit)
		return nil
	})
	return page, err
}

// RecomputeCityStats overwrites every city profile and category row from
// the source tables in one transaction. Rerunning it without intervening
// writes changes nothing.
func (s *Service) RecomputeCityStats(ctx context.Context) (RecomputeResult, error) {
	started := time.Now()
	var res RecomputeResult
	err := s.inTx(ctx, func(repo domain.Repository) error {
		aggregates, err := repo.ComputeCityAggregates(ctx)
		if err != nil {
			return err
		}
		cities := make([]string, 0, len(aggregates))
		for _, a := range aggregates {
			if err := repo.UpsertCityAggregate(ctx, a); err != nil {
				return err
			}
			cities = append(cities, a.CityName)
		}

		counts, err := repo.ComputeCategoryCounts(ctx)
		if err != nil {
			return err
		}
		for _, c := range counts {
			if err := repo.UpsertCategoryCount(ctx, c); err != nil {
				return err
			}
		}

		reconciled, err := repo.PruneCityStats(ctx, cities, counts)
		if err != nil {
			return err
		}
		res = RecomputeResult{Cities: len(aggregates), Categories: len(counts), Reconciled: reconciled}
		return nil
	})
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("city stats recompute failed")
		return RecomputeResult{}, err
	}
	res.Duration = time.Since(started)
	metrics.RecordCityRecompute(res.Duration, res.Cities)
	logging.Ctx(ctx).Info().
		Int("cities", res.Cities).
		Int("categories", res.Categories).
		Int64("reconciled", res.Reconciled).
		Dur("duration", res.Duration).
		Msg("city stats recomputed")
	return res, nil
}

func requireCity(ctx context.Context, repo domain.Repository, city string) error {
	_, err := repo.FirstLandmarkInCity(ctx, city)
	if errors.Is(err, domain.ErrNotFound) {
		return errCityNotFound
	}
	return err
}

func categoryMap(counts []domain.CategoryCount) map[string]int {
	out := make(map[string]int, len(counts))
	for _, c := range counts {
		out[c.Category] = c.Count
	}
	return out
}
