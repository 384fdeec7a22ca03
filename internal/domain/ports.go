package domain

import (
	"context"
	"time"
)

// Repository is the entity store port. Every method runs on the session the
// repository is bound to; WithinTx hands out a transaction-bound repository
// and, when called on one, opens a savepoint inside it.
type Repository interface {
	WithinTx(ctx context.Context, fn func(repo Repository) error) error

	CreateUser(ctx context.Context, value User) (User, error)
	GetUserByID(ctx context.Context, id uint) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUser(ctx context.Context, value User) (User, error)
	DeleteUser(ctx context.Context, id uint) error
	AddReputation(ctx context.Context, userID uint, delta int) error
	GetUserActivity(ctx context.Context, userID uint) (UserActivity, error)

	CreateLandmark(ctx context.Context, value Landmark) (Landmark, error)
	GetLandmark(ctx context.Context, id uint) (Landmark, error)
	UpdateLandmark(ctx context.Context, value Landmark) (Landmark, error)
	DeleteLandmark(ctx context.Context, id uint) error
	ListLandmarks(ctx context.Context, filter LandmarkFilter) ([]Landmark, int64, error)
	AllLandmarks(ctx context.Context) ([]Landmark, error)
	DistinctCities(ctx context.Context) ([]string, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	FirstLandmarkInCity(ctx context.Context, city string) (Landmark, error)
	ListCityLandmarks(ctx context.Context, filter CityLandmarkFilter) ([]Landmark, int64, error)
	SearchCityLandmarks(ctx context.Context, city, search string, skip, limit int) ([]Landmark, int64, error)
	CityCategories(ctx context.Context, city string) ([]string, error)

	GetFavorite(ctx context.Context, userID, landmarkID uint) (Favorite, error)
	CreateFavorite(ctx context.Context, value Favorite) (Favorite, error)
	DeleteFavorite(ctx context.Context, userID, landmarkID uint) error
	ListFavorites(ctx context.Context, userID uint, skip, limit int) ([]Favorite, int64, error)

	GetReview(ctx context.Context, userID, landmarkID uint) (Review, error)
	CreateReview(ctx context.Context, value Review) (Review, error)
	UpdateReview(ctx context.Context, value Review) (Review, error)
	DeleteReview(ctx context.Context, userID, landmarkID uint) error
	ListLandmarkReviews(ctx context.Context, landmarkID uint, skip, limit int) ([]Review, int64, error)
	ListUserReviews(ctx context.Context, userID uint, skip, limit int) ([]Review, int64, error)
	LandmarkRatings(ctx context.Context, landmarkID uint) ([]float64, error)

	CreateDiscussion(ctx context.Context, value Discussion) (Discussion, error)
	GetDiscussion(ctx context.Context, id uint) (Discussion, error)
	UpdateDiscussion(ctx context.Context, value Discussion) (Discussion, error)
	DeleteDiscussion(ctx context.Context, id, userID uint) error
	ListDiscussions(ctx context.Context, filter DiscussionFilter) ([]Discussion, int64, error)

	CreateAnswer(ctx context.Context, value Answer) (Answer, error)
	GetAnswer(ctx context.Context, id uint) (Answer, error)
	UpdateAnswer(ctx context.Context, value Answer) (Answer, error)
	DeleteAnswer(ctx context.Context, id, userID uint) error
	ListAnswers(ctx context.Context, discussionID uint, sortByHelpful bool, skip, limit int) ([]Answer, int64, error)

	GetCityProfile(ctx context.Context, city string) (CityProfile, error)
	CreateCityProfile(ctx context.Context, value CityProfile) (CityProfile, error)
	ListPopularCities(ctx context.Context, limit int) ([]PopularCity, error)
	ListCityCategoryStats(ctx context.Context, city string, limit int) ([]CategoryCount, error)
	GetCityLiveFigures(ctx context.Context, city string) (CityLiveFigures, error)
	ComputeCityAggregates(ctx context.Context) ([]CityAggregate, error)
	ComputeCategoryCounts(ctx context.Context) ([]CategoryCount, error)
	UpsertCityAggregate(ctx context.Context, value CityAggregate) error
	UpsertCategoryCount(ctx context.Context, value CategoryCount) error
	PruneCityStats(ctx context.Context, cities []string, categories []CategoryCount) (int64, error)

	CreateNotification(ctx context.Context, value Notification) (Notification, error)
	ListNotifications(ctx context.Context, filter NotificationFilter) ([]Notification, int64, error)
	GetNotificationStats(ctx context.Context, userID uint) (NotificationStats, error)
	MarkNotificationsRead(ctx context.Context, userID uint, ids []uint, at time.Time) (int64, error)
	ArchiveNotifications(ctx context.Context, userID uint, ids []uint) (int64, error)
	DeleteNotification(ctx context.Context, userID, id uint) error
	CountUnreadNotifications(ctx context.Context, userID uint) (int64, error)
	DeleteReadNotifications(ctx context.Context, userID uint) (int64, error)
}
