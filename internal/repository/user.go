package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/GuoYangtuo/potato-timer/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicatePhone = errors.New("phone number already exists")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id int64) (*model.User, error)
	ByPhone(phone string) (*model.User, error)
	UpdateProfile(id int64, fields map[string]any) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (phone_number, nickname, avatar_url, created_at)
	          VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.db.QueryRow(query, user.PhoneNumber, user.Nickname, user.AvatarURL, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		// Check for unique constraint violation (works for both SQLite and PostgreSQL)
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicatePhone
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(id int64) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByPhone(phone string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE phone_number = $1`

	err := r.db.Get(user, query, phone)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

// UpdateProfile applies a sparse update: only the columns present in fields
// are touched.
func (r *userRepository) UpdateProfile(id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	set, args := buildSet(fields)
	args = append(args, id)
	query := `UPDATE users SET ` + set + ` WHERE id = $` + itoa(len(args))

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}
