package domain

import "math"

type LandmarkFilter struct {
	City     string
	Country  string
	Category string
	Search   string
	Skip     int
	Limit    int
}

// CityLandmarkFilter narrows the landmarks of one city. MinRating and
// HasImages are optional; nil means "do not filter".
type CityLandmarkFilter struct {
	City      string
	Category  string
	MinRating *float64
	HasImages *bool
	Skip      int
	Limit     int
}

type DiscussionFilter struct {
	LandmarkID *uint
	City       string
	UserID     *uint
	Search     string
	OnlyOpen   bool
	Skip       int
	Limit      int
}

type NotificationFilter struct {
	UserID          uint
	OnlyUnread      bool
	IncludeArchived bool
	Skip            int
	Limit           int
}

// Patches carry only the fields a caller supplied. A nil field is left
// untouched when the patch is applied.

type LandmarkPatch struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	City        *string  `json:"city" validate:"omitempty,min=1,max=100"`
	Country     *string  `json:"country" validate:"omitempty,min=1,max=100"`
	Category    *string  `json:"category" validate:"omitempty,min=1,max=100"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Address     *string  `json:"address" validate:"omitempty,max=500"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,max=500"`
}

func (p LandmarkPatch) Apply(l *Landmark) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Description != nil {
		l.Description = p.Description
	}
	if p.City != nil {
		l.City = *p.City
	}
	if p.Country != nil {
		l.Country = *p.Country
	}
	if p.Category != nil {
		l.Category = *p.Category
	}
	if p.Latitude != nil {
		l.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		l.Longitude = *p.Longitude
	}
	if p.Address != nil {
		l.Address = p.Address
	}
	if p.ImageURL != nil {
		l.ImageURL = p.ImageURL
	}
}

type ReviewPatch struct {
	Rating  *float64 `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment *string  `json:"comment" validate:"omitempty,max=1000"`
}

func (p ReviewPatch) Apply(r *Review) {
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	if p.Comment != nil {
		r.Comment = p.Comment
	}
}

type DiscussionPatch struct {
	Title    *string `json:"title" validate:"omitempty,min=5,max=200"`
	Content  *string `json:"content" validate:"omitempty,min=10,max=5000"`
	IsClosed *bool   `json:"is_closed"`
}

func (p DiscussionPatch) Apply(d *Discussion) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Content != nil {
		d.Content = *p.Content
	}
	if p.IsClosed != nil {
		d.IsClosed = *p.IsClosed
	}
}

type AnswerPatch struct {
	Content *string `json:"content" validate:"omitempty,min=5,max=2000"`
}

func (p AnswerPatch) Apply(a *Answer) {
	if p.Content != nil {
		a.Content = *p.Content
	}
}

type ProfilePatch struct {
	FullName  *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,max=500"`
	Bio       *string `json:"bio" validate:"omitempty,max=2000"`
	Location  *string `json:"location" validate:"omitempty,max=100"`
}

func (p ProfilePatch) Apply(u *User) {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.AvatarURL != nil {
		u.AvatarURL = p.AvatarURL
	}
	if p.Bio != nil {
		u.Bio = p.Bio
	}
	if p.Location != nil {
		u.Location = p.Location
	}
}

// Page is a window of a filtered listing. Endpoints differ in whether Page
// counts from zero or one, so the caller picks the base.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int   `json:"pages"`
}

// NewPage builds a page with a 1-based page number and size equal to limit.
func NewPage[T any](items []T, total int64, skip, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Total: total,
		Page:  skip/limit + 1,
		Size:  limit,
		Pages: pageCount(total, limit),
	}
}

// NewZeroBasedPage builds a page with a 0-based page number and size equal
// to the number of returned items.
func NewZeroBasedPage[T any](items []T, total int64, skip, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Total: total,
		Page:  skip / limit,
		Size:  len(items),
		Pages: pageCount(total, limit),
	}
}

func pageCount(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
