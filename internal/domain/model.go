package domain

import "time"

type User struct {
	ID              uint      `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	FullName        string    `json:"full_name"`
	AvatarURL       *string   `json:"avatar_url"`
	Bio             *string   `json:"bio"`
	Location        *string   `json:"location"`
	ReputationScore int       `json:"reputation_score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Landmark struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Category    string    `json:"category"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Address     *string   `json:"address"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NearbyLandmark is a landmark annotated with its flat-plane distance in km.
type NearbyLandmark struct {
	Landmark
	Distance float64 `json:"distance"`
}

type Favorite struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	LandmarkID uint      `json:"landmark_id"`
	CreatedAt  time.Time `json:"created_at"`

	LandmarkName     string  `json:"landmark_name,omitempty"`
	LandmarkCity     string  `json:"landmark_city,omitempty"`
	LandmarkImageURL *string `json:"landmark_image_url,omitempty"`
}

type Review struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	LandmarkID uint      `json:"landmark_id"`
	Rating     float64   `json:"rating"`
	Comment    *string   `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	UserName     string `json:"user_name,omitempty"`
	LandmarkName string `json:"landmark_name,omitempty"`
	LandmarkCity string `json:"landmark_city,omitempty"`
}

type ReviewSummary struct {
	AverageRating      *float64    `json:"average_rating"`
	TotalReviews       int         `json:"total_reviews"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}

type Discussion struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	UserID     uint      `json:"user_id"`
	LandmarkID *uint     `json:"landmark_id"`
	City       *string   `json:"city"`
	IsClosed   bool      `json:"is_closed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	UserName    string  `json:"user_name"`
	UserAvatar  *string `json:"user_avatar"`
	AnswerCount int     `json:"answer_count"`
}

type DiscussionThread struct {
	Discussion
	Answers []Answer `json:"answers"`
}

type Answer struct {
	ID           uint      `json:"id"`
	Content      string    `json:"content"`
	UserID       uint      `json:"user_id"`
	DiscussionID uint      `json:"discussion_id"`
	IsHelpful    bool      `json:"is_helpful"`
	HelpfulVotes int       `json:"helpful_votes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	UserName   string  `json:"user_name"`
	UserAvatar *string `json:"user_avatar"`
}

type CityProfile struct {
	CityName         string    `json:"city_name"`
	Country          string    `json:"country"`
	Description      *string   `json:"description"`
	ImageURL         *string   `json:"image_url"`
	TotalLandmarks   int       `json:"total_landmarks"`
	TotalReviews     int       `json:"total_reviews"`
	TotalDiscussions int       `json:"total_discussions"`
	AverageRating    float64   `json:"average_rating"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type CategoryCount struct {
	City     string `json:"-"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type CityProfileView struct {
	CityProfile
	PopularCategories   []CategoryCount `json:"popular_categories"`
	LandmarksByCategory map[string]int  `json:"landmarks_by_category"`
}

// CityAggregate is one row of the recompute pass, computed from source tables.
type CityAggregate struct {
	CityName         string
	Country          string
	TotalLandmarks   int
	TotalReviews     int
	TotalDiscussions int
	AverageRating    float64
}

// CityLiveFigures are read straight from source tables on every stats request.
type CityLiveFigures struct {
	LandmarksWithImages   int
	RatingDistribution    map[string]int
	OpenDiscussions       int
	ClosedDiscussions     int
	DiscussionsWithAnswer int
}

type CityStats struct {
	CityName         string           `json:"city_name"`
	LandmarksStats   LandmarksStats   `json:"landmarks_stats"`
	ReviewsStats     ReviewsStats     `json:"reviews_stats"`
	DiscussionsStats DiscussionsStats `json:"discussions_stats"`
}

type LandmarksStats struct {
	Total           int            `json:"total"`
	WithImages      int            `json:"with_images"`
	ByCategory      map[string]int `json:"by_category"`
	CategoriesCount int            `json:"categories_count"`
}

type ReviewsStats struct {
	Total              int            `json:"total"`
	AverageRating      float64        `json:"average_rating"`
	RatingDistribution map[string]int `json:"rating_distribution"`
	RatingLevels       int            `json:"rating_levels"`
}

type DiscussionsStats struct {
	Total          int `json:"total"`
	Open           int `json:"open"`
	Closed         int `json:"closed"`
	WithAnswers    int `json:"with_answers"`
	WithoutAnswers int `json:"without_answers"`
}

type PopularCity struct {
	CityName       string  `json:"city_name"`
	Country        string  `json:"country"`
	TotalLandmarks int     `json:"total_landmarks"`
	AverageRating  float64 `json:"average_rating"`
	ImageURL       *string `json:"image_url"`
}

type Notification struct {
	ID               uint           `json:"id"`
	UserID           uint           `json:"user_id"`
	NotificationType string         `json:"notification_type"`
	Title            string         `json:"title"`
	Message          string         `json:"message"`
	Data             map[string]any `json:"data"`
	IsRead           bool           `json:"is_read"`
	IsArchived       bool           `json:"is_archived"`
	CreatedAt        time.Time      `json:"created_at"`
	ReadAt           *time.Time     `json:"read_at"`
}

type NotificationStats struct {
	Total    int64 `json:"total"`
	Unread   int64 `json:"unread"`
	Read     int64 `json:"read"`
	Archived int64 `json:"archived"`
}

// UserActivity holds the raw counters behind the reputation formula.
type UserActivity struct {
	Reviews        int64
	Favorites      int64
	Discussions    int64
	Answers        int64
	HelpfulAnswers int64
}

type UserStats struct {
	UserID           uint   `json:"user_id"`
	TotalReviews     int64  `json:"total_reviews"`
	TotalFavorites   int64  `json:"total_favorites"`
	TotalDiscussions int64  `json:"total_discussions"`
	TotalAnswers     int64  `json:"total_answers"`
	HelpfulAnswers   int64  `json:"helpful_answers"`
	ReputationScore  int64  `json:"reputation_score"`
	ReputationLevel  string `json:"reputation_level"`
}

const (
	NotificationDiscussionAnswer = "discussion_answer"
	NotificationSystem           = "system"
)
