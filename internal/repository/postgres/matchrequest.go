package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msomdec/mockmatch/internal/domain"
)

const matchRequestColumns = `id, requester_id, matched_peer_id, status, target_experience_level, target_skills, preferred_time, notes, created_at, updated_at`

// MatchRequestRepository implements domain.MatchRequestRepository using PostgreSQL.
type MatchRequestRepository struct {
	pool *pgxpool.Pool
}

func (r *MatchRequestRepository) Create(ctx context.Context, req *domain.MatchRequest) error {
	ts := now()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO match_requests (requester_id, matched_peer_id, status, target_experience_level, target_skills, preferred_time, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		 RETURNING id`,
		req.RequesterID, req.MatchedPeerID, string(req.Status), string(req.TargetExperienceLevel),
		nonNil(req.TargetSkills), utcPtr(req.PreferredTime), req.Notes, ts,
	).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("insert match request: %w", err)
	}

	req.CreatedAt = ts
	req.UpdatedAt = ts
	return nil
}

func (r *MatchRequestRepository) GetByID(ctx context.Context, id int64) (*domain.MatchRequest, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+matchRequestColumns+` FROM match_requests WHERE id = $1`, id)
	req, err := scanMatchRequest(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query match request by id: %w", err)
	}
	return req, nil
}

func (r *MatchRequestRepository) ListPendingForLevel(ctx context.Context, level domain.ExperienceLevel, excludeUserID int64) ([]domain.MatchRequest, error) {
	return r.list(ctx,
		`SELECT `+matchRequestColumns+` FROM match_requests
		 WHERE status = $1 AND requester_id <> $2 AND target_experience_level IN ($3, $4)
		 ORDER BY created_at DESC, id DESC`,
		string(domain.MatchStatusPending), excludeUserID, string(level), string(domain.LevelAny),
	)
}

func (r *MatchRequestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]domain.MatchRequest, error) {
	return r.list(ctx,
		`SELECT `+matchRequestColumns+` FROM match_requests
		 WHERE requester_id = $1
		 ORDER BY created_at DESC, id DESC`,
		requesterID,
	)
}

func (r *MatchRequestRepository) Transition(ctx context.Context, id int64, status domain.MatchRequestStatus, matchedPeerID *int64) (*domain.MatchRequest, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE match_requests SET status = $1, matched_peer_id = $2, updated_at = $3
		 WHERE id = $4 AND status = $5
		 RETURNING `+matchRequestColumns,
		string(status), matchedPeerID, now(), id, string(domain.MatchStatusPending),
	)
	req, err := scanMatchRequest(row)
	if err == nil {
		return req, nil
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("update match request status: %w", err)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrInvalidTransition
}

func (r *MatchRequestRepository) list(ctx context.Context, query string, args ...any) ([]domain.MatchRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list match requests: %w", err)
	}
	defer rows.Close()

	out := []domain.MatchRequest{}
	for rows.Next() {
		req, err := scanMatchRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match request: %w", err)
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

func scanMatchRequest(row pgx.Row) (*domain.MatchRequest, error) {
	var (
		req    domain.MatchRequest
		status string
		level  string
	)
	err := row.Scan(&req.ID, &req.RequesterID, &req.MatchedPeerID, &status, &level, &req.TargetSkills,
		&req.PreferredTime, &req.Notes, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	req.Status = domain.MatchRequestStatus(status)
	req.TargetExperienceLevel = domain.ExperienceLevel(level)
	req.TargetSkills = nonNil(req.TargetSkills)
	req.PreferredTime = utcPtr(req.PreferredTime)
	req.CreatedAt = req.CreatedAt.UTC()
	req.UpdatedAt = req.UpdatedAt.UTC()
	return &req, nil
}
