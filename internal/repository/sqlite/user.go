package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/mockmatch/internal/domain"
)

const userColumns = `id, username, password_hash, full_name, email, experience_level, skills, target_role, bio, created_at, updated_at`

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	skills, err := encodeStrings(user.Skills)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, full_name, email, experience_level, skills, target_role, bio, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Username, user.PasswordHash, user.FullName, user.Email, string(user.ExperienceLevel),
		skills, user.TargetRole, user.Bio, now, now,
	)
	if err != nil {
		return mapUserWriteError(err, "insert user")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by username: %w", err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	var (
		where []string
		args  []any
	)
	if filter.ExcludeUserID != 0 {
		where = append(where, "id != ?")
		args = append(args, filter.ExcludeUserID)
	}
	if filter.ExperienceLevel != "" {
		where = append(where, "experience_level = ?")
		args = append(args, string(filter.ExperienceLevel))
	}
	if skill := strings.TrimSpace(filter.Skill); skill != "" {
		where = append(where, "EXISTS (SELECT 1 FROM json_each(users.skills) WHERE lower(json_each.value) = lower(?))")
		args = append(args, skill)
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	} else if filter.Offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Update saves the mutable profile fields. Username and password hash are
// never changed here.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	skills, err := encodeStrings(user.Skills)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET full_name = ?, email = ?, experience_level = ?, skills = ?, target_role = ?, bio = ?, updated_at = ?
		 WHERE id = ?`,
		user.FullName, user.Email, string(user.ExperienceLevel), skills, user.TargetRole, user.Bio, now, user.ID,
	)
	if err != nil {
		return mapUserWriteError(err, "update user")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	user.UpdatedAt = now
	return nil
}

func mapUserWriteError(err error, action string) error {
	switch {
	case isUniqueConstraintError(err, "users.username"):
		return domain.ErrDuplicateUsername
	case isUniqueConstraintError(err, "users.email"):
		return domain.ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", action, err)
}

func scanUser(s scanner) (*domain.User, error) {
	var (
		user   domain.User
		level  string
		skills string
	)
	err := s.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.FullName, &user.Email,
		&level, &skills, &user.TargetRole, &user.Bio, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.ExperienceLevel = domain.ExperienceLevel(level)
	if user.Skills, err = decodeStrings(skills); err != nil {
		return nil, err
	}
	return &user, nil
}
