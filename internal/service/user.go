package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/msomdec/mockmatch/internal/cache"
	"github.com/msomdec/mockmatch/internal/domain"
)

const (
	DefaultUserListLimit = 50
	MaxUserListLimit     = 100
)

// ListUsersInput filters the user directory.
type ListUsersInput struct {
	ExperienceLevel string
	Skill           string
	Limit           int
	Offset          int
}

// UpdateProfileInput holds profile changes. Empty strings and a nil Skills
// slice leave the stored value untouched; a non-nil empty Skills clears it.
type UpdateProfileInput struct {
	FullName        string
	Email           string
	ExperienceLevel string
	Skills          []string
	TargetRole      string
	Bio             string
}

// UserService serves the user directory and profile edits.
type UserService struct {
	users domain.UserRepository
	cache *cache.Cache
}

// NewUserService creates a UserService. The cache may be nil.
func NewUserService(users domain.UserRepository, c *cache.Cache) *UserService {
	return &UserService{users: users, cache: c}
}

// List returns users other than the viewer, ordered by id.
func (s *UserService) List(ctx context.Context, viewerID int64, in ListUsersInput) ([]domain.User, error) {
	filter := domain.UserFilter{
		ExcludeUserID: viewerID,
		Skill:         strings.TrimSpace(in.Skill),
		Limit:         in.Limit,
		Offset:        in.Offset,
	}
	if in.ExperienceLevel != "" {
		level, err := domain.ParseExperienceLevel(in.ExperienceLevel)
		if err != nil {
			return nil, err
		}
		filter.ExperienceLevel = level
	}

	switch {
	case filter.Limit < 0 || filter.Offset < 0:
		return nil, fmt.Errorf("%w: limit and offset must not be negative", domain.ErrInvalidInput)
	case filter.Limit == 0:
		filter.Limit = DefaultUserListLimit
	case filter.Limit > MaxUserListLimit:
		filter.Limit = MaxUserListLimit
	}

	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile applies in to targetID's profile. Only the owner may edit.
func (s *UserService) UpdateProfile(ctx context.Context, callerID, targetID int64, in UpdateProfileInput) (*domain.User, error) {
	if callerID != targetID {
		return nil, domain.ErrForbidden
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(in.FullName); v != "" {
		user.FullName = v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		if err := validateEmail(v); err != nil {
			return nil, err
		}
		user.Email = v
	}
	if in.ExperienceLevel != "" {
		level, err := domain.ParseExperienceLevel(in.ExperienceLevel)
		if err != nil {
			return nil, err
		}
		user.ExperienceLevel = level
	}
	if in.Skills != nil {
		user.Skills = domain.NormalizeSkills(in.Skills)
	}
	if v := strings.TrimSpace(in.TargetRole); v != "" {
		user.TargetRole = v
	}
	if v := strings.TrimSpace(in.Bio); v != "" {
		user.Bio = v
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	// The profile feeds every cached ranking, not only the owner's.
	invalidateBestMatches(ctx, s.cache, user.ID)
	return user, nil
}
