package gormdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "tourist_guide_test.db")

	db, err := Open(DriverSQLite, dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return NewRepository(db)
}

func strPtr(s string) *string { return &s }

func mustUser(t *testing.T, repo *Repository, email string) domain.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), domain.User{Email: email, PasswordHash: "x", FullName: "User " + email})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func mustLandmark(t *testing.T, repo *Repository, name, city, category string, image *string) domain.Landmark {
	t.Helper()
	l, err := repo.CreateLandmark(context.Background(), domain.Landmark{
		Name:      name,
		City:      city,
		Country:   "Russia",
		Category:  category,
		Latitude:  59.9398,
		Longitude: 30.3146,
		ImageURL:  image,
	})
	if err != nil {
		t.Fatalf("create landmark: %v", err)
	}
	return l
}

func TestFavoriteIsUniquePerUserAndLandmark(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	u := mustUser(t, repo, "anna@example.com")
	l := mustLandmark(t, repo, "Hermitage", "Saint Petersburg", "Museum", nil)

	if _, err := repo.CreateFavorite(ctx, domain.Favorite{UserID: u.ID, LandmarkID: l.ID}); err != nil {
		t.Fatalf("create favorite: %v", err)
	}
	_, err := repo.CreateFavorite(ctx, domain.Favorite{UserID: u.ID, LandmarkID: l.ID})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on duplicate favorite, got %v", err)
	}

	items, total, err := repo.ListFavorites(ctx, u.ID, 0, 100)
	if err != nil {
		t.Fatalf("list favorites: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected exactly one favorite, got total=%d len=%d", total, len(items))
	}
	if items[0].LandmarkName != "Hermitage" || items[0].LandmarkCity != "Saint Petersburg" {
		t.Fatalf("favorite not joined with landmark: %+v", items[0])
	}
}

func TestReviewIsUniquePerUserAndLandmark(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	u := mustUser(t, repo, "anna@example.com")
	l := mustLandmark(t, repo, "Hermitage", "Saint Petersburg", "Museum", nil)

	if _, err := repo.CreateReview(ctx, domain.Review{UserID: u.ID, LandmarkID: l.ID, Rating: 4}); err != nil {
		t.Fatalf("create review: %v", err)
	}
	if _, err := repo.CreateReview(ctx, domain.Review{UserID: u.ID, LandmarkID: l.ID, Rating: 5}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on duplicate review, got %v", err)
	}
}

func TestReviewRatingCheckConstraint(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	u := mustUser(t, repo, "anna@example.com")
	l := mustLandmark(t, repo, "Hermitage", "Saint Petersburg", "Museum", nil)

	if _, err := repo.CreateReview(ctx, domain.Review{UserID: u.ID, LandmarkID: l.ID, Rating: 6}); err == nil {
		t.Fatalf("expected rating outside 1..5 to be rejected")
	}
}

func TestDeleteLandmarkCascades(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	u := mustUser(t, repo, "anna@example.com")
	l := mustLandmark(t, repo, "Hermitage", "Saint Petersburg", "Museum", nil)

	_, _ = repo.CreateFavorite(ctx, domain.Favorite{UserID: u.ID, LandmarkID: l.ID})
	_, _ = repo.CreateReview(ctx, domain.Review{UserID: u.ID, LandmarkID: l.ID, Rating: 5})
	d, err := repo.CreateDiscussion(ctx, domain.Discussion{Title: "Opening hours", Content: "When does it open?", UserID: u.ID, LandmarkID: &l.ID})
	if err != nil {
		t.Fatalf("create discussion: %v", err)
	}
	a, err := repo.CreateAnswer(ctx, domain.Answer{Content: "At ten", UserID: u.ID, DiscussionID: d.ID})
	if err != nil {
		t.Fatalf("create answer: %v", err)
	}

	if err := repo.DeleteLandmark(ctx, l.ID); err != nil {
		t.Fatalf("delete landmark: %v", err)
	}

	if _, err := repo.GetFavorite(ctx, u.ID, l.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("favorite should be gone, got %v", err)
	}
	if _, err := repo.GetReview(ctx, u.ID, l.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("review should be gone, got %v", err)
	}
	if _, err := repo.GetDiscussion(ctx, d.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("discussion should be gone, got %v", err)
	}
	if _, err := repo.GetAnswer(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("answer should be gone, got %v", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	u := mustUser(t, repo, "anna@example.com")
	l := mustLandmark(t, repo, "Hermitage", "Saint Petersburg", "Museum", nil)
	_, _ = repo.CreateFavorite(ctx, domain.Favorite{UserID: u.ID, LandmarkID: l.ID})
	_, _ = repo.CreateReview(ctx, domain.Review{UserID: u.ID, LandmarkID: l.ID, Rating: 3})
	_, _ = repo.CreateNotification(ctx, domain.Notification{UserID: u.ID, NotificationType: domain.NotificationSystem, Title: "t", Message: "m"})

	if err := repo.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	ratings, err := repo.LandmarkRatings(ctx, l.ID)
	if err != nil {
		t.Fatalf("ratings: %v", err)
	}
	if len(ratings) != 0 {
		t.Fatalf("reviews of deleted user should be gone, got %v", ratings)
	}
	if _, err := repo.GetLandmark(ctx, l.ID); err != nil {
		t.Fatalf("landmark must survive user deletion: %v", err)
	}
}

func TestListLandmarksFiltersCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	mustLandmark(t, repo, "Hermitage", "Saint Petersburg", "Museum", nil)
	mustLandmark(t, repo, "Peterhof", "Saint Petersburg", "Palace", nil)
	mustLandmark(t, repo, "Kremlin", "Moscow", "Fortress", nil)

	items, total, err := repo.ListLandmarks(ctx, domain.LandmarkFilter{City: "petersburg", Limit: 50})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 Saint Petersburg landmarks, got %d", total)
	}

	items, total, err = repo.ListLandmarks(ctx, domain.LandmarkFilter{Search: "MOSC", Limit: 50})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || items[0].Name != "Kremlin" {
		t.Fatalf("search by city substring failed: %+v", items)
	}

	items, total, err = repo.ListLandmarks(ctx, domain.LandmarkFilter{Skip: 2, Limit: 1})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if total != 3 || len(items) != 1 || items[0].Name != "Kremlin" {
		t.Fatalf("pagination returned %+v (total %d)", items, total)
	}
}

func TestListCityLandmarksByMinRatingAndImages(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	a := mustUser(t, repo, "a@example.com")
	b := mustUser(t, repo, "b@example.com")
	good := mustLandmark(t, repo, "Hermitage", "Saint Petersburg", "Museum", strPtr("https://img/h.jpg"))
	better := mustLandmark(t, repo, "Peterhof", "Saint Petersburg", "Palace", strPtr(""))
	poor := mustLandmark(t, repo, "Some Yard", "Saint Petersburg", "Park", nil)

	_, _ = repo.CreateReview(ctx, domain.Review{UserID: a.ID, LandmarkID: good.ID, Rating: 4})
	_, _ = repo.CreateReview(ctx, domain.Review{UserID: b.ID, LandmarkID: good.ID, Rating: 4})
	_, _ = repo.CreateReview(ctx, domain.Review{UserID: a.ID, LandmarkID: better.ID, Rating: 5})
	_, _ = repo.CreateReview(ctx, domain.Review{UserID: a.ID, LandmarkID: poor.ID, Rating: 2})

	minRating := 3.5
	items, total, err := repo.ListCityLandmarks(ctx, domain.CityLandmarkFilter{City: "Saint Petersburg", MinRating: &minRating, Limit: 50})
	if err != nil {
		t.Fatalf("list by rating: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 landmarks rated >= 3.5, got %d", total)
	}
	if items[0].ID != better.ID || items[1].ID != good.ID {
		t.Fatalf("expected ordering by average rating desc, got %s then %s", items[0].Name, items[1].Name)
	}

	withImages := true
	items, _, err = repo.ListCityLandmarks(ctx, domain.CityLandmarkFilter{City: "Saint Petersburg", HasImages: &withImages, Limit: 50})
	if err != nil {
		t.Fatalf("list with images: %v", err)
	}
	if len(items) != 1 || items[0].ID != good.ID {
		t.Fatalf("empty image_url must not count as an image: %+v", items)
	}

	withoutImages := false
	_, total, err = repo.ListCityLandmarks(ctx, domain.CityLandmarkFilter{City: "Saint Petersburg", HasImages: &withoutImages, Limit: 50})
	if err != nil {
		t.Fatalf("list without images: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 landmarks without images, got %d", total)
	}
}

func TestCityAggregatesAndStableUpsert(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	u := mustUser(t, repo, "anna@example.com")
	h := mustLandmark(t, repo, "Hermitage", "Saint Petersburg", "Museum", nil)
	mustLandmark(t, repo, "Russian Museum", "Saint Petersburg", "Museum", nil)
	mustLandmark(t, repo, "Kremlin", "Moscow", "Fortress", nil)
	_, _ = repo.CreateReview(ctx, domain.Review{UserID: u.ID, LandmarkID: h.ID, Rating: 5})
	_, _ = repo.CreateDiscussion(ctx, domain.Discussion{Title: "White nights", Content: "Best time to visit?", UserID: u.ID, City: strPtr("Saint Petersburg")})

	aggs, err := repo.ComputeCityAggregates(ctx)
	if err != nil {
		t.Fatalf("compute aggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 cities, got %+v", aggs)
	}
	spb := aggs[1]
	if spb.CityName != "Saint Petersburg" || spb.TotalLandmarks != 2 || spb.TotalReviews != 1 || spb.TotalDiscussions != 1 || spb.AverageRating != 5 {
		t.Fatalf("unexpected Saint Petersburg aggregate: %+v", spb)
	}
	if aggs[0].CityName != "Moscow" || aggs[0].TotalReviews != 0 || aggs[0].AverageRating != 0 {
		t.Fatalf("unexpected Moscow aggregate: %+v", aggs[0])
	}

	if err := repo.UpsertCityAggregate(ctx, spb); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	first, err := repo.GetCityProfile(ctx, "Saint Petersburg")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := repo.UpsertCityAggregate(ctx, spb); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	second, _ := repo.GetCityProfile(ctx, "Saint Petersburg")
	if !first.UpdatedAt.Equal(second.UpdatedAt) || first.TotalLandmarks != second.TotalLandmarks || first.AverageRating != second.AverageRating {
		t.Fatalf("rerun changed the row: %+v vs %+v", first, second)
	}

	counts, err := repo.ComputeCategoryCounts(ctx)
	if err != nil {
		t.Fatalf("category counts: %v", err)
	}
	if len(counts) != 2 || counts[1].City != "Saint Petersburg" || counts[1].Category != "Museum" || counts[1].Count != 2 {
		t.Fatalf("unexpected category counts: %+v", counts)
	}
}

func TestPruneCityStatsZeroesOrphanProfiles(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_ = repo.UpsertCityAggregate(ctx, domain.CityAggregate{CityName: "Atlantis", Country: "Nowhere", TotalLandmarks: 3, AverageRating: 4})
	_ = repo.UpsertCategoryCount(ctx, domain.CategoryCount{City: "Atlantis", Category: "Ruins", Count: 3})

	affected, err := repo.PruneCityStats(ctx, nil, nil)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if affected != 2 {
		t.Fatalf("expected profile and category row to be reconciled, got %d", affected)
	}
	p, _ := repo.GetCityProfile(ctx, "Atlantis")
	if p.TotalLandmarks != 0 || p.AverageRating != 0 {
		t.Fatalf("orphan profile not zeroed: %+v", p)
	}
	stats, _ := repo.ListCityCategoryStats(ctx, "Atlantis", 0)
	if len(stats) != 0 {
		t.Fatalf("stale category rows not deleted: %+v", stats)
	}
}

func TestCityLiveFigures(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	a := mustUser(t, repo, "a@example.com")
	b := mustUser(t, repo, "b@example.com")
	h := mustLandmark(t, repo, "Hermitage", "Saint Petersburg", "Museum", strPtr("https://img/h.jpg"))
	mustLandmark(t, repo, "Peterhof", "Saint Petersburg", "Palace", nil)
	_, _ = repo.CreateReview(ctx, domain.Review{UserID: a.ID, LandmarkID: h.ID, Rating: 5})
	_, _ = repo.CreateReview(ctx, domain.Review{UserID: b.ID, LandmarkID: h.ID, Rating: 4.5})

	city := strPtr("Saint Petersburg")
	open, _ := repo.CreateDiscussion(ctx, domain.Discussion{Title: "Open one", Content: "Open discussion", UserID: a.ID, City: city})
	_, _ = repo.CreateDiscussion(ctx, domain.Discussion{Title: "Closed one", Content: "Closed discussion", UserID: a.ID, City: city, IsClosed: true})
	_, _ = repo.CreateAnswer(ctx, domain.Answer{Content: "An answer", UserID: b.ID, DiscussionID: open.ID})

	live, err := repo.GetCityLiveFigures(ctx, "Saint Petersburg")
	if err != nil {
		t.Fatalf("live figures: %v", err)
	}
	if live.LandmarksWithImages != 1 || live.OpenDiscussions != 1 || live.ClosedDiscussions != 1 || live.DiscussionsWithAnswer != 1 {
		t.Fatalf("unexpected live figures: %+v", live)
	}
	if live.RatingDistribution["5"] != 1 || live.RatingDistribution["4"] != 0 || len(live.RatingDistribution) != 5 {
		t.Fatalf("only exact whole ratings are bucketed: %+v", live.RatingDistribution)
	}
}

func TestMarkNotificationsReadOnlyTouchesUnread(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	u := mustUser(t, repo, "anna@example.com")
	other := mustUser(t, repo, "boris@example.com")

	n1, _ := repo.CreateNotification(ctx, domain.Notification{UserID: u.ID, NotificationType: domain.NotificationSystem, Title: "1", Message: "m", Data: map[string]any{"k": "v"}})
	_, _ = repo.CreateNotification(ctx, domain.Notification{UserID: u.ID, NotificationType: domain.NotificationSystem, Title: "2", Message: "m"})
	_, _ = repo.CreateNotification(ctx, domain.Notification{UserID: other.ID, NotificationType: domain.NotificationSystem, Title: "3", Message: "m"})

	at := time.Now().UTC()
	n, err := repo.MarkNotificationsRead(ctx, u.ID, []uint{n1.ID}, at)
	if err != nil || n != 1 {
		t.Fatalf("mark one read: n=%d err=%v", n, err)
	}
	n, _ = repo.MarkNotificationsRead(ctx, u.ID, []uint{n1.ID}, at)
	if n != 0 {
		t.Fatalf("already read notification must not be updated again, got %d", n)
	}
	n, _ = repo.MarkNotificationsRead(ctx, u.ID, nil, at)
	if n != 1 {
		t.Fatalf("expected the remaining unread notification to be marked, got %d", n)
	}

	stats, err := repo.GetNotificationStats(ctx, u.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 || stats.Unread != 0 || stats.Read != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	items, _, _ := repo.ListNotifications(ctx, domain.NotificationFilter{UserID: u.ID, Limit: 10})
	for _, it := range items {
		if it.ReadAt == nil {
			t.Fatalf("read_at not set on %+v", it)
		}
		if it.ID == n1.ID && it.Data["k"] != "v" {
			t.Fatalf("payload not preserved: %+v", it.Data)
		}
	}

	deleted, _ := repo.DeleteReadNotifications(ctx, u.ID)
	if deleted != 2 {
		t.Fatalf("expected 2 read notifications deleted, got %d", deleted)
	}
	unread, _ := repo.CountUnreadNotifications(ctx, other.ID)
	if unread != 1 {
		t.Fatalf("other user's notifications must be untouched, got %d", unread)
	}
}

func TestWithinTxSavepointIsolatesInnerFailure(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	u := mustUser(t, repo, "anna@example.com")

	err := repo.WithinTx(ctx, func(tx domain.Repository) error {
		if _, err := tx.CreateLandmark(ctx, domain.Landmark{Name: "Hermitage", City: "Saint Petersburg", Country: "Russia", Category: "Museum", Latitude: 59.9, Longitude: 30.3}); err != nil {
			return err
		}
		inner := tx.WithinTx(ctx, func(sp domain.Repository) error {
			if _, err := sp.CreateNotification(ctx, domain.Notification{UserID: u.ID, NotificationType: domain.NotificationSystem, Title: "t", Message: "m"}); err != nil {
				return err
			}
			return errors.New("boom")
		})
		if inner == nil {
			t.Fatalf("expected inner error")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("outer tx: %v", err)
	}

	_, total, _ := repo.ListLandmarks(ctx, domain.LandmarkFilter{Limit: 10})
	if total != 1 {
		t.Fatalf("outer write should be committed, got %d landmarks", total)
	}
	stats, _ := repo.GetNotificationStats(ctx, u.ID)
	if stats.Total != 0 {
		t.Fatalf("inner write should be rolled back, got %d notifications", stats.Total)
	}
}
