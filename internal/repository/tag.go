package repository

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/GuoYangtuo/potato-timer/internal/model"
)

type TagRepository interface {
	Visible(userID int64) ([]model.Tag, error)
	Popular(limit int) ([]model.TagUsage, error)
}

type tagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) TagRepository {
	return &tagRepository{db: db}
}

// Visible returns every tag the user may attach: all system tags plus the
// user's own custom tags, system tags first.
func (r *tagRepository) Visible(userID int64) ([]model.Tag, error) {
	tags := []model.Tag{}
	query := `SELECT * FROM tags
	          WHERE user_id IS NULL OR user_id = $1
	          ORDER BY user_id IS NULL DESC, name`

	err := r.db.Select(&tags, query, userID)
	if err != nil {
		return nil, err
	}

	return tags, nil
}

// Popular ranks tags by how many public posts carry them.
func (r *tagRepository) Popular(limit int) ([]model.TagUsage, error) {
	tags := []model.TagUsage{}
	query := `SELECT t.id, t.name, COUNT(mt.motivation_id) AS usage_count
	          FROM tags t
	          JOIN motivation_tags mt ON t.id = mt.tag_id
	          JOIN motivations m ON mt.motivation_id = m.id AND m.is_public = TRUE
	          GROUP BY t.id, t.name
	          ORDER BY usage_count DESC
	          LIMIT $1`

	err := r.db.Select(&tags, query, limit)
	if err != nil {
		return nil, err
	}

	return tags, nil
}

// linkTags resolves each name to a tag visible to the user and links it to
// the motivation. Resolution prefers the user's own tag over a system tag
// of the same name and creates a user-scoped tag when neither exists.
// The unique indexes on (name, scope) make creation idempotent: resolving
// the same name twice can never mint two rows.
func linkTags(tx *sqlx.Tx, motivationID, userID int64, tagNames []string) error {
	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		tagID, err := resolveTag(tx, name, userID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`INSERT INTO motivation_tags (motivation_id, tag_id) VALUES ($1, $2)
		                  ON CONFLICT DO NOTHING`, motivationID, tagID)
		if err != nil {
			return err
		}
	}
	return nil
}

func resolveTag(tx *sqlx.Tx, name string, userID int64) (int64, error) {
	var tagID int64

	lookup := `SELECT id FROM tags
	           WHERE name = $1 AND (user_id = $2 OR user_id IS NULL)
	           ORDER BY user_id IS NULL
	           LIMIT 1`

	err := tx.QueryRow(lookup, name, userID).Scan(&tagID)
	if err == nil {
		return tagID, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	// ON CONFLICT DO NOTHING returns no row when another writer got there
	// first; fall back to the lookup in that case.
	insert := `INSERT INTO tags (name, user_id) VALUES ($1, $2)
	           ON CONFLICT DO NOTHING
	           RETURNING id`

	err = tx.QueryRow(insert, name, userID).Scan(&tagID)
	if err == nil {
		return tagID, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	err = tx.QueryRow(lookup, name, userID).Scan(&tagID)
	if err != nil {
		return 0, err
	}
	return tagID, nil
}
