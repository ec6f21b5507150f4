package memory

import (
	"context"
	"sort"

	"github.com/msomdec/mockmatch/internal/domain"
)

// MatchRequestRepository implements domain.MatchRequestRepository in memory.
type MatchRequestRepository struct {
	db *DB
}

func (r *MatchRequestRepository) Create(ctx context.Context, req *domain.MatchRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.nextRequestID++
	now := r.db.now()
	req.ID = r.db.nextRequestID
	req.CreatedAt = now
	req.UpdatedAt = now
	r.db.matchRequests[req.ID] = cloneRequest(*req)
	return nil
}

func (r *MatchRequestRepository) GetByID(ctx context.Context, id int64) (*domain.MatchRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	req, ok := r.db.matchRequests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneRequest(req)
	return &out, nil
}

func (r *MatchRequestRepository) ListPendingForLevel(ctx context.Context, level domain.ExperienceLevel, excludeUserID int64) ([]domain.MatchRequest, error) {
	return r.list(func(m *domain.MatchRequest) bool {
		return m.Status == domain.MatchStatusPending &&
			m.RequesterID != excludeUserID &&
			(m.TargetExperienceLevel == level || m.TargetExperienceLevel == domain.LevelAny)
	}), nil
}

func (r *MatchRequestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]domain.MatchRequest, error) {
	return r.list(func(m *domain.MatchRequest) bool { return m.RequesterID == requesterID }), nil
}

func (r *MatchRequestRepository) Transition(ctx context.Context, id int64, status domain.MatchRequestStatus, matchedPeerID *int64) (*domain.MatchRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	req, ok := r.db.matchRequests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if req.Status != domain.MatchStatusPending {
		return nil, domain.ErrInvalidTransition
	}

	req.Status = status
	req.MatchedPeerID = cloneInt64(matchedPeerID)
	req.UpdatedAt = r.db.now()
	r.db.matchRequests[id] = req

	out := cloneRequest(req)
	return &out, nil
}

// list returns matching requests newest first.
func (r *MatchRequestRepository) list(keep func(*domain.MatchRequest) bool) []domain.MatchRequest {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.MatchRequest, 0)
	for _, m := range r.db.matchRequests {
		if keep(&m) {
			out = append(out, cloneRequest(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func cloneRequest(m domain.MatchRequest) domain.MatchRequest {
	m.TargetSkills = cloneStrings(m.TargetSkills)
	m.MatchedPeerID = cloneInt64(m.MatchedPeerID)
	m.PreferredTime = cloneTime(m.PreferredTime)
	return m
}
