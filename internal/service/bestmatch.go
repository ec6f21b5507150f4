package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/msomdec/mockmatch/internal/cache"
	"github.com/msomdec/mockmatch/internal/domain"
	"github.com/msomdec/mockmatch/internal/matching"
)

const bestMatchKeyPattern = "bestmatch:*"

func bestMatchKey(userID int64) string {
	return fmt.Sprintf("bestmatch:%d", userID)
}

// invalidateBestMatches drops every cached ranking after userID joined or
// changed their profile.
func invalidateBestMatches(ctx context.Context, c *cache.Cache, userID int64) {
	if err := c.DeleteByPattern(ctx, bestMatchKeyPattern); err != nil {
		slog.Warn("invalidate best matches", "user_id", userID, "error", err)
	}
}

// BestMatchService ranks the directory for a viewer and caches the result.
type BestMatchService struct {
	users domain.UserRepository
	cache *cache.Cache
	ttl   time.Duration
}

// NewBestMatchService creates a BestMatchService. The cache may be nil.
func NewBestMatchService(users domain.UserRepository, c *cache.Cache, ttl time.Duration) *BestMatchService {
	return &BestMatchService{users: users, cache: c, ttl: ttl}
}

// BestMatches returns the viewer's top candidates, highest score first.
func (s *BestMatchService) BestMatches(ctx context.Context, viewerID int64) ([]matching.Candidate, error) {
	key := bestMatchKey(viewerID)

	var cached []matching.Candidate
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
		slog.Warn("read cached best matches", "user_id", viewerID, "error", err)
	} else if hit {
		return cached, nil
	}

	viewer, err := s.users.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.users.List(ctx, domain.UserFilter{ExcludeUserID: viewerID})
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	ranked := matching.BestMatches(viewer, candidates)
	for i := range ranked {
		ranked[i].User.PasswordHash = ""
	}

	if err := s.cache.SetJSON(ctx, key, ranked, s.ttl); err != nil {
		slog.Warn("cache best matches", "user_id", viewerID, "error", err)
	}
	return ranked, nil
}
