package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/mockmatch/internal/domain"
)

const matchRequestColumns = `id, requester_id, matched_peer_id, status, target_experience_level, target_skills, preferred_time, notes, created_at, updated_at`

// MatchRequestRepository implements domain.MatchRequestRepository using SQLite.
type MatchRequestRepository struct {
	db *sql.DB
}

// NewMatchRequestRepository creates a new SQLite-backed MatchRequestRepository.
func NewMatchRequestRepository(db *DB) *MatchRequestRepository {
	return &MatchRequestRepository{db: db.SqlDB}
}

func (r *MatchRequestRepository) Create(ctx context.Context, req *domain.MatchRequest) error {
	skills, err := encodeStrings(req.TargetSkills)
	if err != nil {
		return err
	}

	var preferred sql.NullTime
	if req.PreferredTime != nil {
		preferred = sql.NullTime{Time: req.PreferredTime.UTC(), Valid: true}
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO match_requests (requester_id, matched_peer_id, status, target_experience_level, target_skills, preferred_time, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.RequesterID, nullInt64(req.MatchedPeerID), string(req.Status), string(req.TargetExperienceLevel),
		skills, preferred, req.Notes, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert match request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	req.ID = id
	req.CreatedAt = now
	req.UpdatedAt = now
	return nil
}

func (r *MatchRequestRepository) GetByID(ctx context.Context, id int64) (*domain.MatchRequest, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *MatchRequestRepository) ListPendingForLevel(ctx context.Context, level domain.ExperienceLevel, excludeUserID int64) ([]domain.MatchRequest, error) {
	return r.list(ctx,
		`SELECT `+matchRequestColumns+` FROM match_requests
		 WHERE status = ? AND requester_id != ? AND target_experience_level IN (?, ?)
		 ORDER BY created_at DESC, id DESC`,
		string(domain.MatchStatusPending), excludeUserID, string(level), string(domain.LevelAny),
	)
}

func (r *MatchRequestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]domain.MatchRequest, error) {
	return r.list(ctx,
		`SELECT `+matchRequestColumns+` FROM match_requests
		 WHERE requester_id = ?
		 ORDER BY created_at DESC, id DESC`,
		requesterID,
	)
}

func (r *MatchRequestRepository) Transition(ctx context.Context, id int64, status domain.MatchRequestStatus, matchedPeerID *int64) (*domain.MatchRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE match_requests SET status = ?, matched_peer_id = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		string(status), nullInt64(matchedPeerID), time.Now().UTC(), id, string(domain.MatchStatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("update match request status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}

	req, err := r.getByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrInvalidTransition
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return req, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *MatchRequestRepository) getByID(ctx context.Context, q queryRower, id int64) (*domain.MatchRequest, error) {
	row := q.QueryRowContext(ctx, `SELECT `+matchRequestColumns+` FROM match_requests WHERE id = ?`, id)
	req, err := scanMatchRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query match request by id: %w", err)
	}
	return req, nil
}

func (r *MatchRequestRepository) list(ctx context.Context, query string, args ...any) ([]domain.MatchRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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

func scanMatchRequest(s scanner) (*domain.MatchRequest, error) {
	var (
		req       domain.MatchRequest
		peer      sql.NullInt64
		status    string
		level     string
		skills    string
		preferred sql.NullTime
	)
	err := s.Scan(&req.ID, &req.RequesterID, &peer, &status, &level, &skills, &preferred,
		&req.Notes, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	req.MatchedPeerID = int64Ptr(peer)
	req.Status = domain.MatchRequestStatus(status)
	req.TargetExperienceLevel = domain.ExperienceLevel(level)
	if preferred.Valid {
		t := preferred.Time.UTC()
		req.PreferredTime = &t
	}
	if req.TargetSkills, err = decodeStrings(skills); err != nil {
		return nil, err
	}
	return &req, nil
}
