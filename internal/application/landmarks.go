package application

import (
	"context"
	"sort"
	"strings"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/validation"
)

type LandmarkInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	City        string  `json:"city" validate:"required,max=100"`
	Country     string  `json:"country" validate:"required,max=100"`
	Category    string  `json:"category" validate:"required,max=100"`
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	ImageURL    *string `json:"image_url" validate:"omitempty,max=500"`
}

type NearbyQuery struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	// RadiusKm and Limit fall back to 10 km and 20 when zero.
	RadiusKm float64 `json:"radius" validate:"gte=1,lte=100"`
	Limit    int     `json:"limit" validate:"gte=1,lte=100"`
}

type FilterOptions struct {
	Cities     []string `json:"cities"`
	Categories []string `json:"categories"`
}

func (s *Service) ListLandmarks(ctx context.Context, filter domain.LandmarkFilter) (domain.Page[domain.Landmark], error) {
	w, err := Window{Skip: filter.Skip, Limit: filter.Limit}.resolve(50, 100)
	if err != nil {
		return domain.Page[domain.Landmark]{}, err
	}
	filter.Skip, filter.Limit = w.Skip, w.Limit

	var page domain.Page[domain.Landmark]
	err = s.inTx(ctx, func(repo domain.Repository) error {
		items, total, err := repo.ListLandmarks(ctx, filter)
		if err != nil {
			return err
		}
		page = domain.NewPage(items, total, w.Skip, w.Limit)
		return nil
	})
	return page, err
}

// NearbyLandmarks scans every landmark and keeps those within the radius,
// closest first.
func (s *Service) NearbyLandmarks(ctx context.Context, q NearbyQuery) ([]domain.NearbyLandmark, error) {
	if q.RadiusKm == 0 {
		q.RadiusKm = 10
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
	if err := validation.ValidateStruct(q); err != nil {
		return nil, err
	}

	var all []domain.Landmark
	err := s.inTx(ctx, func(repo domain.Repository) error {
		var err error
		all, err = repo.AllLandmarks(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.NearbyLandmark, 0)
	for _, l := range all {
		d := domain.FlatDistanceKm(q.Latitude, q.Longitude, l.Latitude, l.Longitude)
		if d <= q.RadiusKm {
			out = append(out, domain.NearbyLandmark{Landmark: l, Distance: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Service) GetLandmark(ctx context.Context, id uint) (domain.Landmark, error) {
	var out domain.Landmark
	err := s.inTx(ctx, func(repo domain.Repository) error {
		var err error
		out, err = repo.GetLandmark(ctx, id)
		return notFound(err, "Landmark not found")
	})
	return out, err
}

func (s *Service) CreateLandmark(ctx context.Context, in LandmarkInput) (domain.Landmark, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	in.Category = strings.TrimSpace(in.Category)
	if err := validation.ValidateStruct(in); err != nil {
		return domain.Landmark{}, err
	}

	var out domain.Landmark
	err := s.inTx(ctx, func(repo domain.Repository) error {
		var err error
		out, err = repo.CreateLandmark(ctx, domain.Landmark{
			Name:        in.Name,
			Description: in.Description,
			City:        in.City,
			Country:     in.Country,
			Category:    in.Category,
			Latitude:    in.Latitude,
			Longitude:   in.Longitude,
			Address:     in.Address,
			ImageURL:    in.ImageURL,
		})
		return err
	})
	return out, err
}

func (s *Service) UpdateLandmark(ctx context.Context, id uint, patch domain.LandmarkPatch) (domain.Landmark, error) {
	if err := validation.ValidateStruct(patch); err != nil {
		return domain.Landmark{}, err
	}
	var out domain.Landmark
	err := s.inTx(ctx, func(repo domain.Repository) error {
		current, err := repo.GetLandmark(ctx, id)
		if err != nil {
			return notFound(err, "Landmark not found")
		}
		patch.Apply(&current)
		out, err = repo.UpdateLandmark(ctx, current)
		return err
	})
	return out, err
}

func (s *Service) DeleteLandmark(ctx context.Context, id uint) error {
	return s.inTx(ctx, func(repo domain.Repository) error {
		return notFound(repo.DeleteLandmark(ctx, id), "Landmark not found")
	})
}

func (s *Service) ListCities(ctx context.Context) ([]string, error) {
	var out []string
	err := s.inTx(ctx, func(repo domain.Repository) error {
		var err error
		out, err = repo.DistinctCities(ctx)
		return err
	})
	return out, err
}

func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	var out []string
	err := s.inTx(ctx, func(repo domain.Repository) error {
		var err error
		out, err = repo.DistinctCategories(ctx)
		return err
	})
	return out, err
}

func (s *Service) FilterOptions(ctx context.Context) (FilterOptions, error) {
	var out FilterOptions
	err := s.inTx(ctx, func(repo domain.Repository) error {
		var err error
		if out.Cities, err = repo.DistinctCities(ctx); err != nil {
			return err
		}
		out.Categories, err = repo.DistinctCategories(ctx)
		return err
	})
	return out, err
}
