package application_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/adapters/db/gormdb"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/application"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/auth"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/validation"
)

func newTestService(t *testing.T) (*application.Service, domain.Repository) {
	t.Helper()
	db, err := gormdb.Open(gormdb.DriverSQLite, filepath.Join(t.TempDir(), "service_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormdb.Close(db) })
	require.NoError(t, gormdb.RunMigrations(context.Background(), db))

	tokens, err := auth.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)
	repo := gormdb.NewRepository(db)
	return application.NewService(repo, tokens), repo
}

func register(t *testing.T, svc *application.Service, email, name string) domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), application.RegisterInput{
		Email:    email,
		Password: "secret123",
		FullName: name,
	})
	require.NoError(t, err)
	return u
}

func landmark(t *testing.T, svc *application.Service, name, city, category string, lat, lon float64) domain.Landmark {
	t.Helper()
	l, err := svc.CreateLandmark(context.Background(), application.LandmarkInput{
		Name:      name,
		City:      city,
		Country:   "Russia",
		Category:  category,
		Latitude:  lat,
		Longitude: lon,
	})
	require.NoError(t, err)
	return l
}

func ptr[T any](v T) *T { return &v }

func TestRegisterLoginAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	u := register(t, svc, "Anna@Example.com", "Anna Petrova")
	assert.Equal(t, "anna@example.com", u.Email)
	assert.Zero(t, u.ReputationScore)

	_, err := svc.Register(ctx, application.RegisterInput{Email: "anna@example.com", Password: "another1", FullName: "Anna"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Email already registered", err.Error())

	_, err = svc.Register(ctx, application.RegisterInput{Email: "bad", Password: "123", FullName: "A"})
	var verr *validation.RequestValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)

	_, err = svc.Login(ctx, application.LoginInput{Email: "anna@example.com", Password: "wrong-pass"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Login(ctx, application.LoginInput{Email: "nobody@example.com", Password: "secret123"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	tok, err := svc.Login(ctx, application.LoginInput{Email: "anna@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	me, err := svc.Authenticate(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)

	_, err = svc.Authenticate(ctx, tok.AccessToken+"x")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Authenticate(ctx, "")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestReviewSummaryRoundsAndBuckets(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	a := register(t, svc, "a@example.com", "User A")
	b := register(t, svc, "b@example.com", "User B")
	hermitage := landmark(t, svc, "Hermitage", "Saint Petersburg", "Museum", 59.9398, 30.3146)

	empty, err := svc.ReviewSummary(ctx, hermitage.ID)
	require.NoError(t, err)
	assert.Nil(t, empty.AverageRating)
	assert.Zero(t, empty.TotalReviews)
	assert.Empty(t, empty.RatingDistribution)

	_, _, err = svc.SaveReview(ctx, a.ID, application.ReviewInput{LandmarkID: hermitage.ID, Rating: 5})
	require.NoError(t, err)
	_, _, err = svc.SaveReview(ctx, b.ID, application.ReviewInput{LandmarkID: hermitage.ID, Rating: 4})
	require.NoError(t, err)

	summary, err := svc.ReviewSummary(ctx, hermitage.ID)
	require.NoError(t, err)
	require.NotNil(t, summary.AverageRating)
	assert.Equal(t, 4.5, *summary.AverageRating)
	assert.Equal(t, 2, summary.TotalReviews)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 1, 5: 1}, summary.RatingDistribution)

	_, err = svc.ReviewSummary(ctx, 9999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveReviewOverwritesExisting(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	u := register(t, svc, "a@example.com", "User A")
	l := landmark(t, svc, "Peterhof", "Saint Petersburg", "Palace", 59.8833, 29.9)

	first, created, err := svc.SaveReview(ctx, u.ID, application.ReviewInput{LandmarkID: l.ID, Rating: 2, Comment: ptr("meh")})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.SaveReview(ctx, u.ID, application.ReviewInput{LandmarkID: l.ID, Rating: 5, Comment: ptr("great")})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5.0, second.Rating)
	assert.Equal(t, "great", *second.Comment)

	list, err := svc.ListLandmarkReviews(ctx, l.ID, application.Window{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
	assert.Equal(t, "User A", list.Items[0].UserName)

	_, _, err = svc.SaveReview(ctx, u.ID, application.ReviewInput{LandmarkID: l.ID, Rating: 6})
	require.ErrorIs(t, err, domain.ErrValidation)
	_, _, err = svc.SaveReview(ctx, u.ID, application.ReviewInput{LandmarkID: 424242, Rating: 3})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNearbyLandmarksUsesFlatDistance(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	here := landmark(t, svc, "Hermitage", "Saint Petersburg", "Museum", 59.9398, 30.3146)
	isaac := landmark(t, svc, "St Isaac's Cathedral", "Saint Petersburg", "Cathedral", 59.9341, 30.3061)
	landmark(t, svc, "Far away", "Saint Petersburg", "Park", 59.9398+50.0/111.0, 30.3146)

	got, err := svc.NearbyLandmarks(ctx, application.NearbyQuery{Latitude: 59.9398, Longitude: 30.3146, RadiusKm: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, here.ID, got[0].ID)
	assert.Zero(t, got[0].Distance)
	assert.Equal(t, isaac.ID, got[1].ID)
	assert.InDelta(t, domain.FlatDistanceKm(59.9398, 30.3146, 59.9341, 30.3061), got[1].Distance, 1e-9)

	limited, err := svc.NearbyLandmarks(ctx, application.NearbyQuery{Latitude: 59.9398, Longitude: 30.3146, RadiusKm: 100, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = svc.NearbyLandmarks(ctx, application.NearbyQuery{Latitude: 59.9, Longitude: 30.3, RadiusKm: 500})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestListLandmarksPagesFromOne(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	for _, name := range []string{"A", "B", "C"} {
		landmark(t, svc, name, "Moscow", "Museum", 55.75, 37.61)
	}

	page, err := svc.ListLandmarks(ctx, domain.LandmarkFilter{City: "moscow", Skip: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Size)
	assert.Equal(t, 2, page.Pages)
	assert.Len(t, page.Items, 1)

	_, err = svc.ListLandmarks(ctx, domain.LandmarkFilter{Limit: 101})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestAddFavoriteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	u := register(t, svc, "a@example.com", "User A")
	l := landmark(t, svc, "Hermitage", "Saint Petersburg", "Museum", 59.9398, 30.3146)

	first, err := svc.AddFavorite(ctx, u.ID, l.ID)
	require.NoError(t, err)
	again, err := svc.AddFavorite(ctx, u.ID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, first.CreatedAt.Equal(again.CreatedAt))

	list, err := svc.ListFavorites(ctx, u.ID, application.Window{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
	assert.Equal(t, "Hermitage", list.Items[0].LandmarkName)

	ok, err := svc.IsFavorite(ctx, u.ID, l.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.RemoveFavorite(ctx, u.ID, l.ID))
	require.ErrorIs(t, svc.RemoveFavorite(ctx, u.ID, l.ID), domain.ErrNotFound)
	ok, err = svc.IsFavorite(ctx, u.ID, l.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.AddFavorite(ctx, u.ID, 9999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnswerNotifiesDiscussionAuthorOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	a := register(t, svc, "a@example.com", "User A")
	b := register(t, svc, "b@example.com", "User B")

	d, err := svc.CreateDiscussion(ctx, a.ID, application.DiscussionInput{
		Title:   "Best time to visit?",
		Content: "When is the Hermitage least crowded?",
		City:    ptr("Saint Petersburg"),
	})
	require.NoError(t, err)

	answer, err := svc.CreateAnswer(ctx, b.ID, d.ID, application.AnswerInput{Content: "Wednesday evenings."})
	require.NoError(t, err)

	list, err := svc.ListNotifications(ctx, domain.NotificationFilter{UserID: a.ID})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	n := list.Items[0]
	assert.Equal(t, domain.NotificationDiscussionAnswer, n.NotificationType)
	assert.Equal(t, "New answer to your discussion", n.Title)
	assert.Equal(t, "User User B answered your discussion 'Best time to visit?'", n.Message)
	assert.EqualValues(t, d.ID, n.Data["discussion_id"])
	assert.EqualValues(t, answer.ID, n.Data["answer_id"])
	assert.Equal(t, "view_discussion", n.Data["action"])
	assert.EqualValues(t, 1, list.UnreadCount)

	_, err = svc.CreateAnswer(ctx, a.ID, d.ID, application.AnswerInput{Content: "Thanks, noted!"})
	require.NoError(t, err)
	list, err = svc.ListNotifications(ctx, domain.NotificationFilter{UserID: a.ID})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	forB, err := svc.ListNotifications(ctx, domain.NotificationFilter{UserID: b.ID})
	require.NoError(t, err)
	assert.Empty(t, forB.Items)
}

// failingNotifications rejects every notification insert.
type failingNotifications struct {
	domain.Repository
}

func (r failingNotifications) WithinTx(ctx context.Context, fn func(domain.Repository) error) error {
	return r.Repository.WithinTx(ctx, func(inner domain.Repository) error {
		return fn(failingNotifications{inner})
	})
}

func (failingNotifications) CreateNotification(context.Context, domain.Notification) (domain.Notification, error) {
	return domain.Notification{}, errors.New("notifications table unavailable")
}

func TestAnswerSurvivesNotificationFailure(t *testing.T) {
	ctx := context.Background()
	plain, repo := newTestService(t)
	a := register(t, plain, "a@example.com", "User A")
	b := register(t, plain, "b@example.com", "User B")
	d, err := plain.CreateDiscussion(ctx, a.ID, application.DiscussionInput{
		Title:   "Ferry schedule",
		Content: "Does the Peterhof ferry run in October?",
	})
	require.NoError(t, err)

	tokens, err := auth.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)
	svc := application.NewService(failingNotifications{repo}, tokens)

	_, err = svc.CreateAnswer(ctx, b.ID, d.ID, application.AnswerInput{Content: "Only until late September."})
	require.NoError(t, err)

	thread, err := plain.GetDiscussion(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, thread.Answers, 1)
	assert.Equal(t, 1, thread.AnswerCount)
}

func TestDiscussionMutationsAreOwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	a := register(t, svc, "a@example.com", "User A")
	b := register(t, svc, "b@example.com", "User B")
	d, err := svc.CreateDiscussion(ctx, a.ID, application.DiscussionInput{
		Title:   "Metro at night",
		Content: "Until what time does the metro run?",
	})
	require.NoError(t, err)

	_, err = svc.UpdateDiscussion(ctx, b.ID, d.ID, domain.DiscussionPatch{Title: ptr("Hijacked title")})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Discussion not found or no permission", err.Error())
	require.ErrorIs(t, svc.DeleteDiscussion(ctx, b.ID, d.ID), domain.ErrNotFound)

	updated, err := svc.UpdateDiscussion(ctx, a.ID, d.ID, domain.DiscussionPatch{IsClosed: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsClosed)
	assert.Equal(t, "Metro at night", updated.Title)

	_, err = svc.CreateAnswer(ctx, b.ID, d.ID, application.AnswerInput{Content: "Around 1am."})
	require.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, svc.DeleteDiscussion(ctx, a.ID, d.ID))
	_, err = svc.GetDiscussion(ctx, d.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnswerMutationsAreOwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	a := register(t, svc, "a@example.com", "User A")
	b := register(t, svc, "b@example.com", "User B")
	d, err := svc.CreateDiscussion(ctx, a.ID, application.DiscussionInput{
		Title:   "Museum passes",
		Content: "Is there a combined museum pass?",
	})
	require.NoError(t, err)
	ans, err := svc.CreateAnswer(ctx, b.ID, d.ID, application.AnswerInput{Content: "Yes, at the ticket office."})
	require.NoError(t, err)

	_, err = svc.UpdateAnswer(ctx, a.ID, ans.ID, domain.AnswerPatch{Content: ptr("Not yours")})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Answer not found or no permission", err.Error())

	edited, err := svc.UpdateAnswer(ctx, b.ID, ans.ID, domain.AnswerPatch{Content: ptr("Yes, online too.")})
	require.NoError(t, err)
	assert.Equal(t, "Yes, online too.", edited.Content)

	require.ErrorIs(t, svc.DeleteAnswer(ctx, a.ID, ans.ID), domain.ErrNotFound)
	require.NoError(t, svc.DeleteAnswer(ctx, b.ID, ans.ID))
}

func TestVoteAnswerFloorThresholdAndReputation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	a := register(t, svc, "a@example.com", "User A")
	b := register(t, svc, "b@example.com", "User B")
	d, err := svc.CreateDiscussion(ctx, a.ID, application.DiscussionInput{
		Title:   "Bridges",
		Content: "When are the bridges raised?",
	})
	require.NoError(t, err)
	ans, err := svc.CreateAnswer(ctx, b.ID, d.ID, application.AnswerInput{Content: "After 1am in summer."})
	require.NoError(t, err)

	got, err := svc.VoteAnswer(ctx, ans.ID, false)
	require.NoError(t, err)
	assert.Zero(t, got.HelpfulVotes)

	for i := 0; i < 2; i++ {
		got, err = svc.VoteAnswer(ctx, ans.ID, true)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, got.HelpfulVotes)
	assert.False(t, got.IsHelpful)

	got, err = svc.VoteAnswer(ctx, ans.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 3, got.HelpfulVotes)
	assert.True(t, got.IsHelpful)

	got, err = svc.VoteAnswer(ctx, ans.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, got.HelpfulVotes)
	assert.True(t, got.IsHelpful)

	author, err := svc.GetUser(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, author.ReputationScore)

	_, err = svc.VoteAnswer(ctx, 9999, true)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserStatsReputation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	u := register(t, svc, "a@example.com", "User A")
	l := landmark(t, svc, "Hermitage", "Saint Petersburg", "Museum", 59.9398, 30.3146)

	_, _, err := svc.SaveReview(ctx, u.ID, application.ReviewInput{LandmarkID: l.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.AddFavorite(ctx, u.ID, l.ID)
	require.NoError(t, err)
	_, err = svc.CreateDiscussion(ctx, u.ID, application.DiscussionInput{Title: "Tickets", Content: "Where to buy tickets online?"})
	require.NoError(t, err)

	stats, err := svc.UserStats(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalReviews)
	assert.EqualValues(t, 1, stats.TotalFavorites)
	assert.EqualValues(t, 1, stats.TotalDiscussions)
	assert.EqualValues(t, 12, stats.ReputationScore)
	assert.Equal(t, domain.LevelNewcomer, stats.ReputationLevel)

	_, err = svc.UserStats(ctx, 9999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileUpdateAndDeletion(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	u := register(t, svc, "a@example.com", "User A")
	l := landmark(t, svc, "Hermitage", "Saint Petersburg", "Museum", 59.9398, 30.3146)
	_, err := svc.AddFavorite(ctx, u.ID, l.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, domain.ProfilePatch{Bio: ptr("Loves museums")})
	require.NoError(t, err)
	assert.Equal(t, "User A", updated.FullName)
	assert.Equal(t, "Loves museums", *updated.Bio)

	_, err = svc.UpdateProfile(ctx, u.ID, domain.ProfilePatch{FullName: ptr("A")})
	require.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, svc.DeleteAccount(ctx, u.ID))
	_, err = svc.GetUser(ctx, u.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	favs, err := svc.ListFavorites(ctx, u.ID, application.Window{})
	require.NoError(t, err)
	assert.Zero(t, favs.Total)
}

func TestCityProfileIsCreatedLazily(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	landmark(t, svc, "Hermitage", "Saint Petersburg", "Museum", 59.9398, 30.3146)

	view, err := svc.CityProfile(ctx, "Saint Petersburg")
	require.NoError(t, err)
	assert.Equal(t, "Russia", view.Country)
	assert.Zero(t, view.TotalLandmarks)
	assert.Empty(t, view.PopularCategories)

	_, err = svc.CityProfile(ctx, "Atlantis")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.CityStats(ctx, "Atlantis")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecomputeCityStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	u := register(t, svc, "a@example.com", "User A")
	museums := []domain.Landmark{
		landmark(t, svc, "Hermitage", "Saint Petersburg", "Museum", 59.9398, 30.3146),
		landmark(t, svc, "Russian Museum", "Saint Petersburg", "Museum", 59.9386, 30.3322),
	}
	landmark(t, svc, "Peterhof", "Saint Petersburg", "Palace", 59.8833, 29.9)
	landmark(t, svc, "Kremlin", "Moscow", "Fortress", 55.752, 37.6175)

	_, _, err := svc.SaveReview(ctx, u.ID, application.ReviewInput{LandmarkID: museums[0].ID, Rating: 5})
	require.NoError(t, err)
	_, _, err = svc.SaveReview(ctx, u.ID, application.ReviewInput{LandmarkID: museums[1].ID, Rating: 4})
	require.NoError(t, err)
	d, err := svc.CreateDiscussion(ctx, u.ID, application.DiscussionInput{
		Title:   "White nights",
		Content: "Which week is best for white nights?",
		City:    ptr("Saint Petersburg"),
	})
	require.NoError(t, err)
	_, err = svc.CreateAnswer(ctx, u.ID, d.ID, application.AnswerInput{Content: "Late June."})
	require.NoError(t, err)

	res, err := svc.RecomputeCityStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Cities)
	assert.Equal(t, 3, res.Categories)

	first, err := svc.CityProfile(ctx, "Saint Petersburg")
	require.NoError(t, err)
	assert.Equal(t, 3, first.TotalLandmarks)
	assert.Equal(t, 2, first.TotalReviews)
	assert.Equal(t, 1, first.TotalDiscussions)
	assert.InDelta(t, 4.5, first.AverageRating, 1e-9)
	require.Len(t, first.PopularCategories, 2)
	assert.Equal(t, "Museum", first.PopularCategories[0].Category)
	assert.Equal(t, 2, first.LandmarksByCategory["Museum"])

	again, err := svc.RecomputeCityStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Reconciled)
	second, err := svc.CityProfile(ctx, "Saint Petersburg")
	require.NoError(t, err)
	assert.Equal(t, first.TotalLandmarks, second.TotalLandmarks)
	assert.Equal(t, first.AverageRating, second.AverageRating)
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt), "rerun must not touch the profile row")
	assert.Equal(t, first.PopularCategories, second.PopularCategories)

	stats, err := svc.CityStats(ctx, "Saint Petersburg")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.LandmarksStats.Total)
	assert.Equal(t, 2, stats.LandmarksStats.CategoriesCount)
	assert.Equal(t, 1, stats.ReviewsStats.RatingDistribution["5"])
	assert.Equal(t, 1, stats.ReviewsStats.RatingDistribution["4"])
	assert.Equal(t, 5, stats.ReviewsStats.RatingLevels)
	assert.Equal(t, 1, stats.DiscussionsStats.Open)
	assert.Equal(t, 1, stats.DiscussionsStats.WithAnswers)
	assert.Zero(t, stats.DiscussionsStats.WithoutAnswers)

	popular, err := svc.PopularCities(ctx, 0)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "Saint Petersburg", popular[0].CityName)
}

func TestCityStatsMixCachedAndLiveFigures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	u := register(t, svc, "a@example.com", "User A")
	l := landmark(t, svc, "Hermitage", "Saint Petersburg", "Museum", 59.9398, 30.3146)
	_, err := svc.RecomputeCityStats(ctx)
	require.NoError(t, err)

	// Written after the pass: live figures see it, cached totals do not.
	_, _, err = svc.SaveReview(ctx, u.ID, application.ReviewInput{LandmarkID: l.ID, Rating: 3})
	require.NoError(t, err)

	stats, err := svc.CityStats(ctx, "Saint Petersburg")
	require.NoError(t, err)
	assert.Zero(t, stats.ReviewsStats.Total)
	assert.Equal(t, 1, stats.ReviewsStats.RatingDistribution["3"])
}

func TestCityListingsPageFromZero(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	for _, name := range []string{"Hermitage", "Russian Museum", "Fabergé Museum"} {
		landmark(t, svc, name, "Saint Petersburg", "Museum", 59.93, 30.33)
	}
	landmark(t, svc, "Peterhof", "Saint Petersburg", "Palace", 59.8833, 29.9)

	page, err := svc.CityLandmarks(ctx, "Saint Petersburg", application.CityLandmarkQuery{
		Category: "Museum",
		Window:   application.Window{Skip: 2, Limit: 2},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.Size)
	assert.Equal(t, 2, page.Pages)

	found, err := svc.SearchCityLandmarks(ctx, "Saint Petersburg", "museum", application.Window{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, found.Total)
	assert.Zero(t, found.Page)

	cats, err := svc.CityCategories(ctx, "Saint Petersburg")
	require.NoError(t, err)
	assert.Equal(t, []string{"Museum", "Palace"}, cats)

	_, err = svc.CityLandmarks(ctx, "Atlantis", application.CityLandmarkQuery{})
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.SearchCityLandmarks(ctx, "Saint Petersburg", "", application.Window{})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestNotificationReadLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	u := register(t, svc, "a@example.com", "User A")

	first, err := svc.SendTestNotification(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationSystem, first.NotificationType)
	assert.Equal(t, true, first.Data["test"])
	_, err = svc.SendTestNotification(ctx, u.ID)
	require.NoError(t, err)

	_, err = svc.MarkRead(ctx, u.ID, application.MarkReadInput{})
	require.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, svc.MarkOneRead(ctx, u.ID, first.ID))
	require.ErrorIs(t, svc.MarkOneRead(ctx, u.ID, first.ID), domain.ErrNotFound)

	n, err := svc.MarkRead(ctx, u.ID, application.MarkReadInput{AllUnread: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	stats, err := svc.NotificationStats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationStats{Total: 2, Unread: 0, Read: 2, Archived: 0}, stats)

	archived, err := svc.ArchiveNotifications(ctx, u.ID, []uint{first.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, archived)
	visible, err := svc.ListNotifications(ctx, domain.NotificationFilter{UserID: u.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, visible.Total)

	removed, err := svc.CleanupReadNotifications(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)
	require.ErrorIs(t, svc.DeleteNotification(ctx, u.ID, first.ID), domain.ErrNotFound)
}
