package domain

import (
	"context"
	"time"
)

// User represents a registered user of the application.
type User struct {
	ID              int64
	Username        string
	PasswordHash    string
	FullName        string
	Email           string
	ExperienceLevel ExperienceLevel
	Skills          []string
	TargetRole      string
	Bio             string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UserFilter narrows a directory listing. Zero values mean "no filter".
type UserFilter struct {
	ExcludeUserID   int64
	ExperienceLevel ExperienceLevel
	Skill           string // case-insensitive exact tag match
	Limit           int    // 0 means unlimited
	Offset          int
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]User, error)
	Update(ctx context.Context, user *User) error
}
