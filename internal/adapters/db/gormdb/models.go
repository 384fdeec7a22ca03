package gormdb

import (
	"time"

	"gorm.io/datatypes"
)

type UserModel struct {
	ID              uint   `gorm:"primaryKey"`
	Email           string `gorm:"uniqueIndex;not null"`
	PasswordHash    string `gorm:"not null"`
	FullName        string `gorm:"not null"`
	AvatarURL       *string
	Bio             *string
	Location        *string
	ReputationScore int `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (UserModel) TableName() string { return "users" }

type LandmarkModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null;index"`
	Description *string
	City        string  `gorm:"not null;index"`
	Country     string  `gorm:"not null;index"`
	Category    string  `gorm:"not null;index"`
	Latitude    float64 `gorm:"not null"`
	Longitude   float64 `gorm:"not null"`
	Address     *string
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (LandmarkModel) TableName() string { return "landmarks" }

type FavoriteModel struct {
	ID         uint `gorm:"primaryKey"`
	UserID     uint `gorm:"not null;index:idx_favorites_user_landmark,unique"`
	LandmarkID uint `gorm:"not null;index:idx_favorites_user_landmark,unique"`
	CreatedAt  time.Time
}

func (FavoriteModel) TableName() string { return "favorites" }

type ReviewModel struct {
	ID         uint    `gorm:"primaryKey"`
	UserID     uint    `gorm:"not null;index:idx_reviews_user_landmark,unique"`
	LandmarkID uint    `gorm:"not null;index:idx_reviews_user_landmark,unique"`
	Rating     float64 `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ReviewModel) TableName() string { return "reviews" }

type DiscussionModel struct {
	ID         uint    `gorm:"primaryKey"`
	Title      string  `gorm:"not null"`
	Content    string  `gorm:"not null"`
	UserID     uint    `gorm:"not null;index"`
	LandmarkID *uint   `gorm:"index"`
	City       *string `gorm:"index"`
	IsClosed   bool    `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (DiscussionModel) TableName() string { return "discussions" }

type AnswerModel struct {
	ID           uint   `gorm:"primaryKey"`
	Content      string `gorm:"not null"`
	UserID       uint   `gorm:"not null;index"`
	DiscussionID uint   `gorm:"not null;index"`
	IsHelpful    bool   `gorm:"not null;default:false"`
	HelpfulVotes int    `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (AnswerModel) TableName() string { return "discussion_answers" }

type CityProfileModel struct {
	CityName         string `gorm:"primaryKey"`
	Country          string `gorm:"not null"`
	Description      *string
	ImageURL         *string
	TotalLandmarks   int     `gorm:"not null;default:0"`
	TotalReviews     int     `gorm:"not null;default:0"`
	TotalDiscussions int     `gorm:"not null;default:0"`
	AverageRating    float64 `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (CityProfileModel) TableName() string { return "city_profiles" }

type CityCategoryStatModel struct {
	ID        uint   `gorm:"primaryKey"`
	CityName  string `gorm:"not null;index:idx_city_category,unique"`
	Category  string `gorm:"not null;index:idx_city_category,unique"`
	Count     int    `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (CityCategoryStatModel) TableName() string { return "city_category_stats" }

type NotificationModel struct {
	ID               uint   `gorm:"primaryKey"`
	UserID           uint   `gorm:"not null;index"`
	NotificationType string `gorm:"not null;index"`
	Title            string `gorm:"not null"`
	Message          string `gorm:"not null"`
	Data             datatypes.JSONMap
	IsRead           bool `gorm:"not null;default:false;index"`
	IsArchived       bool `gorm:"not null;default:false"`
	CreatedAt        time.Time
	ReadAt           *time.Time
}

func (NotificationModel) TableName() string { return "notifications" }
