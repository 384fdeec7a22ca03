package main

import (
	"context"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/application"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

func strPtr(s string) *string { return &s }

var sampleLandmarks = []application.LandmarkInput{
	{
		Name:        "Hermitage Museum",
		Description: strPtr("One of the largest art museums in the world, housed in the Winter Palace."),
		City:        "Saint Petersburg",
		Country:     "Russia",
		Category:    "Museum",
		Latitude:    59.9398,
		Longitude:   30.3146,
		Address:     strPtr("Palace Square, 2"),
	},
	{
		Name:        "Peterhof Palace",
		Description: strPtr("Palace and park ensemble famous for its fountains."),
		City:        "Saint Petersburg",
		Country:     "Russia",
		Category:    "Palace",
		Latitude:    59.8833,
		Longitude:   29.9,
		Address:     strPtr("Razvodnaya St, 2, Peterhof"),
	},
	{
		Name:        "Saint Isaac's Cathedral",
		Description: strPtr("Cathedral with a gilded dome and a colonnade overlooking the city."),
		City:        "Saint Petersburg",
		Country:     "Russia",
		Category:    "Cathedral",
		Latitude:    59.9341,
		Longitude:   30.3061,
		Address:     strPtr("St Isaac's Square, 4"),
	},
	{
		Name:        "Peter and Paul Fortress",
		Description: strPtr("The original citadel of the city on Hare Island."),
		City:        "Saint Petersburg",
		Country:     "Russia",
		Category:    "Fortress",
		Latitude:    59.95,
		Longitude:   30.3167,
		Address:     strPtr("Peter and Paul Fortress, 3"),
	},
	{
		Name:        "Church of the Savior on Spilled Blood",
		Description: strPtr("Church known for its mosaics, built on the site of the assassination of Alexander II."),
		City:        "Saint Petersburg",
		Country:     "Russia",
		Category:    "Cathedral",
		Latitude:    59.94,
		Longitude:   30.3287,
		Address:     strPtr("Griboyedov Canal Embankment, 2B"),
	},
}

// seedLandmarks inserts the sample catalogue into an empty database and
// returns how many landmarks it created.
func seedLandmarks(ctx context.Context, svc *application.Service) (int, error) {
	page, err := svc.ListLandmarks(ctx, domain.LandmarkFilter{Limit: 1})
	if err != nil {
		return 0, err
	}
	if page.Total > 0 {
		return 0, nil
	}
	for i, in := range sampleLandmarks {
		if _, err := svc.CreateLandmark(ctx, in); err != nil {
			return i, err
		}
	}
	return len(sampleLandmarks), nil
}
