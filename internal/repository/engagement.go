package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrAlreadyLiked     = errors.New("already liked")
	ErrAlreadyFavorited = errors.New("already favorited")
)

type EngagementRepository interface {
	Like(userID, motivationID int64) error
	Unlike(userID, motivationID int64) error
	Favorite(userID, motivationID int64) error
	Unfavorite(userID, motivationID int64) error
	Flags(userID, motivationID int64) (liked, favorited bool, err error)
	Favorites(userID int64, limit, offset int) ([]*MotivationWithAuthor, error)
	CountLikes(motivationID int64) (int, error)
}

type engagementRepository struct {
	db *sqlx.DB
}

func NewEngagementRepository(db *sqlx.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

// Like inserts the (user, motivation) pair and bumps the post's like_count
// in one transaction. A pair that already exists is reported as
// ErrAlreadyLiked with no side effects, so callers can tell a repeat apart
// from success.
func (r *engagementRepository) Like(userID, motivationID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT INTO likes (user_id, motivation_id) VALUES ($1, $2)
	                        ON CONFLICT DO NOTHING`, userID, motivationID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAlreadyLiked
	}

	_, err = tx.Exec(`UPDATE motivations SET like_count = like_count + 1 WHERE id = $1`, motivationID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Unlike removes the pair if present. The counter only moves when a row was
// actually deleted, and never below zero.
func (r *engagementRepository) Unlike(userID, motivationID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM likes WHERE user_id = $1 AND motivation_id = $2`, userID, motivationID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows > 0 {
		_, err = tx.Exec(`UPDATE motivations SET like_count = like_count - 1
		                  WHERE id = $1 AND like_count > 0`, motivationID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *engagementRepository) Favorite(userID, motivationID int64) error {
	result, err := r.db.Exec(`INSERT INTO favorites (user_id, motivation_id) VALUES ($1, $2)
	                          ON CONFLICT DO NOTHING`, userID, motivationID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAlreadyFavorited
	}

	return nil
}

func (r *engagementRepository) Unfavorite(userID, motivationID int64) error {
	_, err := r.db.Exec(`DELETE FROM favorites WHERE user_id = $1 AND motivation_id = $2`, userID, motivationID)
	return err
}

// Flags reports the caller's like/favorite state for a post.
func (r *engagementRepository) Flags(userID, motivationID int64) (bool, bool, error) {
	row := struct {
		Liked     bool `db:"liked"`
		Favorited bool `db:"favorited"`
	}{}

	query := `SELECT
	              EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND motivation_id = $2) AS liked,
	              EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND motivation_id = $2) AS favorited`

	err := r.db.Get(&row, query, userID, motivationID)
	if err != nil {
		return false, false, err
	}

	return row.Liked, row.Favorited, nil
}

// Favorites lists the user's favorited posts, most recently favorited
// first.
func (r *engagementRepository) Favorites(userID int64, limit, offset int) ([]*MotivationWithAuthor, error) {
	motivations := []*MotivationWithAuthor{}
	query := `SELECT m.*, u.nickname AS author_name, u.avatar_url AS author_avatar
	          FROM motivations m
	          JOIN users u ON m.user_id = u.id
	          JOIN favorites f ON m.id = f.motivation_id
	          WHERE f.user_id = $1
	          ORDER BY f.created_at DESC
	          LIMIT $2 OFFSET $3`

	err := r.db.Select(&motivations, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return motivations, nil
}

// CountLikes recounts like rows for a post, for consistency checks against
// the denormalized like_count.
func (r *engagementRepository) CountLikes(motivationID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM likes WHERE motivation_id = $1`, motivationID).Scan(&count)
	return count, err
}
