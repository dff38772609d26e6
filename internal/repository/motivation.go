package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/GuoYangtuo/potato-timer/internal/model"
)

var (
	ErrMotivationNotFound = errors.New("motivation not found")
)

// MotivationWithAuthor is a feed row: the post joined with its author's
// display fields.
type MotivationWithAuthor struct {
	model.Motivation
	AuthorName   string  `db:"author_name"`
	AuthorAvatar *string `db:"author_avatar"`
}

type MotivationFilter struct {
	Type string // empty = any
	Tag  string // empty = any
}

type MotivationRepository interface {
	Create(m *model.Motivation, media []model.MediaItem, tagNames []string) error
	ByID(id int64) (*MotivationWithAuthor, error)
	OwnedBy(userID, id int64) (*model.Motivation, error)
	Update(userID, id int64, fields map[string]any, media []model.MediaItem, replaceMedia bool, tagNames []string, replaceTags bool) error
	Delete(userID, id int64) error
	Public(filter MotivationFilter, limit, offset int) ([]*MotivationWithAuthor, error)
	Mine(userID int64, motivationType string, limit, offset int) ([]*model.Motivation, error)
	IncrementViewCount(id int64) error
	MediaFor(motivationID int64) ([]model.Media, error)
	TagNamesFor(motivationID int64) ([]string, error)
}

type motivationRepository struct {
	db *sqlx.DB
}

func NewMotivationRepository(db *sqlx.DB) MotivationRepository {
	return &motivationRepository{db: db}
}

// Create inserts the post together with its media list and tag links in one
// transaction: a failed attachment must not leave a bare post behind.
func (r *motivationRepository) Create(m *model.Motivation, media []model.MediaItem, tagNames []string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO motivations (user_id, title, content, type, is_public, view_count, like_count, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	err = tx.QueryRow(query,
		m.UserID,
		m.Title,
		m.Content,
		m.Type,
		m.IsPublic,
		m.ViewCount,
		m.LikeCount,
		m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return err
	}

	err = insertMedia(tx, m.ID, media)
	if err != nil {
		return err
	}

	err = linkTags(tx, m.ID, m.UserID, tagNames)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *motivationRepository) ByID(id int64) (*MotivationWithAuthor, error) {
	m := &MotivationWithAuthor{}
	query := `SELECT m.*, u.nickname AS author_name, u.avatar_url AS author_avatar
	          FROM motivations m
	          JOIN users u ON m.user_id = u.id
	          WHERE m.id = $1`

	err := r.db.Get(m, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrMotivationNotFound
	}

	return m, err
}

func (r *motivationRepository) OwnedBy(userID, id int64) (*model.Motivation, error) {
	m := &model.Motivation{}
	query := `SELECT * FROM motivations WHERE id = $1 AND user_id = $2`

	err := r.db.Get(m, query, id, userID)
	if err == sql.ErrNoRows {
		return nil, ErrMotivationNotFound
	}

	return m, err
}

// Update applies a sparse field update and, when requested, replaces the
// media list and the tag links wholesale, all in one transaction.
func (r *motivationRepository) Update(userID, id int64, fields map[string]any, media []model.MediaItem, replaceMedia bool, tagNames []string, replaceTags bool) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Ownership gate up front: absent and foreign look identical.
	var count int
	err = tx.QueryRow(`SELECT COUNT(*) FROM motivations WHERE id = $1 AND user_id = $2`, id, userID).Scan(&count)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMotivationNotFound
	}

	if len(fields) > 0 {
		set, args := buildSet(fields)
		args = append(args, id)
		_, err = tx.Exec(`UPDATE motivations SET `+set+` WHERE id = $`+itoa(len(args)), args...)
		if err != nil {
			return err
		}
	}

	if replaceMedia {
		_, err = tx.Exec(`DELETE FROM motivation_media WHERE motivation_id = $1`, id)
		if err != nil {
			return err
		}
		err = insertMedia(tx, id, media)
		if err != nil {
			return err
		}
	}

	if replaceTags {
		_, err = tx.Exec(`DELETE FROM motivation_tags WHERE motivation_id = $1`, id)
		if err != nil {
			return err
		}
		err = linkTags(tx, id, userID, tagNames)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertMedia(tx *sqlx.Tx, motivationID int64, media []model.MediaItem) error {
	query := `INSERT INTO motivation_media (motivation_id, media_type, url, thumbnail_url, sort_order)
	          VALUES ($1, $2, $3, $4, $5)`

	for i, item := range media {
		_, err := tx.Exec(query, motivationID, item.Type, item.URL, item.ThumbnailURL, i)
		if err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the post; media, tag links, likes and favorites cascade.
func (r *motivationRepository) Delete(userID, id int64) error {
	query := `DELETE FROM motivations WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMotivationNotFound
	}

	return nil
}

// Public returns the public feed, newest first, optionally narrowed by type
// or a tag name.
func (r *motivationRepository) Public(filter MotivationFilter, limit, offset int) ([]*MotivationWithAuthor, error) {
	query := `SELECT m.*, u.nickname AS author_name, u.avatar_url AS author_avatar
	          FROM motivations m
	          JOIN users u ON m.user_id = u.id
	          WHERE m.is_public = TRUE`
	args := []any{}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += ` AND m.type = $` + itoa(len(args))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		query += ` AND m.id IN (
		              SELECT mt.motivation_id FROM motivation_tags mt
		              JOIN tags t ON mt.tag_id = t.id
		              WHERE t.name = $` + itoa(len(args)) + `)`
	}

	args = append(args, limit, offset)
	query += ` ORDER BY m.created_at DESC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))

	motivations := []*MotivationWithAuthor{}
	err := r.db.Select(&motivations, query, args...)
	if err != nil {
		return nil, err
	}

	return motivations, nil
}

func (r *motivationRepository) Mine(userID int64, motivationType string, limit, offset int) ([]*model.Motivation, error) {
	query := `SELECT * FROM motivations WHERE user_id = $1`
	args := []any{userID}

	if motivationType != "" {
		args = append(args, motivationType)
		query += ` AND type = $` + itoa(len(args))
	}

	args = append(args, limit, offset)
	query += ` ORDER BY created_at DESC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))

	motivations := []*model.Motivation{}
	err := r.db.Select(&motivations, query, args...)
	if err != nil {
		return nil, err
	}

	return motivations, nil
}

func (r *motivationRepository) IncrementViewCount(id int64) error {
	_, err := r.db.Exec(`UPDATE motivations SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}

func (r *motivationRepository) MediaFor(motivationID int64) ([]model.Media, error) {
	media := []model.Media{}
	query := `SELECT * FROM motivation_media WHERE motivation_id = $1 ORDER BY sort_order`

	err := r.db.Select(&media, query, motivationID)
	if err != nil {
		return nil, err
	}

	return media, nil
}

func (r *motivationRepository) TagNamesFor(motivationID int64) ([]string, error) {
	names := []string{}
	query := `SELECT t.name FROM tags t
	          JOIN motivation_tags mt ON t.id = mt.tag_id
	          WHERE mt.motivation_id = $1
	          ORDER BY t.name`

	err := r.db.Select(&names, query, motivationID)
	if err != nil {
		return nil, err
	}

	return names, nil
}
