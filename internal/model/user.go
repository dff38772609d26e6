package model

import (
	"time"
)

type User struct {
	ID          int64     `db:"id"`
	PhoneNumber string    `db:"phone_number"`
	Nickname    string    `db:"nickname"`
	AvatarURL   *string   `db:"avatar_url"`
	CreatedAt   time.Time `db:"created_at"`
}

// AuthorSummary is the public slice of a user attached to feed entries.
type AuthorSummary struct {
	ID        int64   `json:"id"`
	Nickname  string  `json:"nickname"`
	AvatarURL *string `json:"avatarUrl"`
}

func (u *User) Summary() AuthorSummary {
	return AuthorSummary{
		ID:        u.ID,
		Nickname:  u.Nickname,
		AvatarURL: u.AvatarURL,
	}
}
