package model

import (
	"time"
)

// Like and Favorite are existence-only joins: at most one row per
// (user, motivation) pair, enforced by a unique constraint. Likes also
// drive the denormalized like_count on the motivation.
type Like struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	MotivationID int64     `db:"motivation_id"`
	CreatedAt    time.Time `db:"created_at"`
}

type Favorite struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	MotivationID int64     `db:"motivation_id"`
	CreatedAt    time.Time `db:"created_at"`
}
