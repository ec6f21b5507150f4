package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/msomdec/mockmatch/internal/domain"
)

// UserRepository implements domain.UserRepository in memory.
type UserRepository struct {
	db *DB
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.checkUnique(user); err != nil {
		return err
	}

	r.db.nextUserID++
	now := r.db.now()
	user.ID = r.db.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.db.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Username == username {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	skill := strings.ToLower(strings.TrimSpace(filter.Skill))
	users := make([]domain.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		if filter.ExcludeUserID != 0 && u.ID == filter.ExcludeUserID {
			continue
		}
		if filter.ExperienceLevel != "" && u.ExperienceLevel != filter.ExperienceLevel {
			continue
		}
		if skill != "" {
			if _, ok := domain.SkillSet(u.Skills)[skill]; !ok {
				continue
			}
		}
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return paginate(users, filter.Limit, filter.Offset), nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.users[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	user.Username = existing.Username
	if err := r.checkUnique(user); err != nil {
		return err
	}

	user.PasswordHash = existing.PasswordHash
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = r.db.now()
	r.db.users[user.ID] = cloneUser(*user)
	return nil
}

// checkUnique enforces unique username and email. Caller holds the lock.
func (r *UserRepository) checkUnique(user *domain.User) error {
	for _, u := range r.db.users {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username {
			return domain.ErrDuplicateUsername
		}
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	return nil
}

func cloneUser(u domain.User) domain.User {
	u.Skills = cloneStrings(u.Skills)
	return u
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
