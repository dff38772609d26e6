package model

import (
	"time"
)

const (
	MotivationTypePositive = "positive"
	MotivationTypeNegative = "negative"
)

// MotivationTypeValid reports whether t is a supported motivation type.
func MotivationTypeValid(t string) bool {
	return t == MotivationTypePositive || t == MotivationTypeNegative
}

// Motivation is a user-authored content post, optionally attached to goals
// for display during a focus session.
type Motivation struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Title     *string   `db:"title"`
	Content   *string   `db:"content"`
	Type      string    `db:"type"`
	IsPublic  bool      `db:"is_public"`
	ViewCount int       `db:"view_count"`
	LikeCount int       `db:"like_count"`
	CreatedAt time.Time `db:"created_at"`
}

// MotivationSummary is the compact form shown in goal listings.
type MotivationSummary struct {
	ID    int64   `json:"id"`
	Title *string `json:"title"`
	Type  string  `json:"type"`
}

// MotivationPreview extends the summary with the first media item, used on
// the goal detail screen.
type MotivationPreview struct {
	ID             int64   `db:"id" json:"id"`
	Title          *string `db:"title" json:"title"`
	Content        *string `db:"content" json:"content"`
	Type           string  `db:"type" json:"type"`
	FirstMediaURL  *string `db:"first_media_url" json:"firstMediaUrl"`
	FirstMediaType *string `db:"first_media_type" json:"firstMediaType"`
}
