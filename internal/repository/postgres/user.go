package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msomdec/mockmatch/internal/domain"
)

const userColumns = `id, username, password_hash, full_name, email, experience_level, skills, target_role, bio, created_at, updated_at`

// UserRepository implements domain.UserRepository using PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ts := now()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, full_name, email, experience_level, skills, target_role, bio, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		 RETURNING id`,
		user.Username, user.PasswordHash, user.FullName, user.Email, string(user.ExperienceLevel),
		nonNil(user.Skills), user.TargetRole, user.Bio, ts,
	).Scan(&user.ID)
	if err != nil {
		return mapUserWriteError(err, "insert user")
	}

	user.CreatedAt = ts
	user.UpdatedAt = ts
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		if isNoRows(err) {
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
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ExcludeUserID != 0 {
		where = append(where, "id <> "+arg(filter.ExcludeUserID))
	}
	if filter.ExperienceLevel != "" {
		where = append(where, "experience_level = "+arg(string(filter.ExperienceLevel)))
	}
	if skill := strings.TrimSpace(filter.Skill); skill != "" {
		where = append(where, "EXISTS (SELECT 1 FROM unnest(skills) AS s WHERE lower(s) = lower("+arg(skill)+"))")
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
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
	ts := now()
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET full_name = $1, email = $2, experience_level = $3, skills = $4, target_role = $5, bio = $6, updated_at = $7
		 WHERE id = $8`,
		user.FullName, user.Email, string(user.ExperienceLevel), nonNil(user.Skills), user.TargetRole, user.Bio, ts, user.ID,
	)
	if err != nil {
		return mapUserWriteError(err, "update user")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	user.UpdatedAt = ts
	return nil
}

func mapUserWriteError(err error, action string) error {
	switch {
	case isUniqueViolation(err, "users_username_key"):
		return domain.ErrDuplicateUsername
	case isUniqueViolation(err, "users_email_key"):
		return domain.ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", action, err)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user  domain.User
		level string
	)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.FullName, &user.Email,
		&level, &user.Skills, &user.TargetRole, &user.Bio, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.ExperienceLevel = domain.ExperienceLevel(level)
	user.Skills = nonNil(user.Skills)
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}
