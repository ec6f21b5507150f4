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

const slotColumns = `id, interviewer_id, interviewee_id, start_time, end_time, status, meeting_link, meeting_type, notes, created_at, updated_at`

// SlotRepository implements domain.InterviewSlotRepository using SQLite.
type SlotRepository struct {
	db *sql.DB
}

// NewSlotRepository creates a new SQLite-backed SlotRepository.
func NewSlotRepository(db *DB) *SlotRepository {
	return &SlotRepository{db: db.SqlDB}
}

func (r *SlotRepository) Create(ctx context.Context, slot *domain.InterviewSlot) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO interview_slots (interviewer_id, interviewee_id, start_time, end_time, status, meeting_link, meeting_type, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		slot.InterviewerID, nullInt64(slot.IntervieweeID), slot.StartTime.UTC(), slot.EndTime.UTC(),
		string(slot.Status), slot.MeetingLink, string(slot.MeetingType), slot.Notes, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert interview slot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	slot.ID = id
	slot.CreatedAt = now
	slot.UpdatedAt = now
	return nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*domain.InterviewSlot, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *SlotRepository) ListAvailable(ctx context.Context, now time.Time, excludeInterviewerID int64) ([]domain.InterviewSlot, error) {
	return r.list(ctx,
		`SELECT `+slotColumns+` FROM interview_slots
		 WHERE status = ? AND start_time > ? AND interviewer_id != ?
		 ORDER BY start_time, id`,
		string(domain.SlotStatusAvailable), now.UTC(), excludeInterviewerID,
	)
}

func (r *SlotRepository) ListByParticipant(ctx context.Context, userID int64) ([]domain.InterviewSlot, error) {
	return r.list(ctx,
		`SELECT `+slotColumns+` FROM interview_slots
		 WHERE interviewer_id = ? OR interviewee_id = ?
		 ORDER BY start_time, id`,
		userID, userID,
	)
}

func (r *SlotRepository) Book(ctx context.Context, id, intervieweeID int64) (*domain.InterviewSlot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE interview_slots SET interviewee_id = ?, status = ?, updated_at = ?
		 WHERE id = ? AND status = ? AND interviewer_id != ?`,
		intervieweeID, string(domain.SlotStatusBooked), time.Now().UTC(),
		id, string(domain.SlotStatusAvailable), intervieweeID,
	)
	if err != nil {
		return nil, fmt.Errorf("book interview slot: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}

	slot, err := r.getByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if slot.InterviewerID == intervieweeID {
			return nil, domain.ErrSelfBooking
		}
		return nil, domain.ErrSlotNotAvailable
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return slot, nil
}

func (r *SlotRepository) UpdateStatus(ctx context.Context, id int64, from []domain.SlotStatus, expectInterviewee *int64, to domain.SlotStatus, intervieweeID *int64) (*domain.InterviewSlot, error) {
	if len(from) == 0 {
		return nil, domain.ErrInvalidTransition
	}

	args := []any{string(to), nullInt64(intervieweeID), time.Now().UTC(), id, nullInt64(expectInterviewee)}
	placeholders := make([]string, len(from))
	for i, s := range from {
		placeholders[i] = "?"
		args = append(args, string(s))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE interview_slots SET status = ?, interviewee_id = ?, updated_at = ?
		 WHERE id = ? AND interviewee_id IS ? AND status IN (`+strings.Join(placeholders, ", ")+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update interview slot status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}

	slot, err := r.getByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrInvalidTransition
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return slot, nil
}

func (r *SlotRepository) UpdateMeetingLink(ctx context.Context, id int64, link string) (*domain.InterviewSlot, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE interview_slots SET meeting_link = ?, updated_at = ? WHERE id = ?`,
		link, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update meeting link: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrNotFound
	}
	return r.getByID(ctx, r.db, id)
}

func (r *SlotRepository) CompleteEndedBefore(ctx context.Context, t time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE interview_slots SET status = ?, updated_at = ?
		 WHERE status = ? AND end_time < ?`,
		string(domain.SlotStatusCompleted), time.Now().UTC(), string(domain.SlotStatusBooked), t.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("complete ended slots: %w", err)
	}
	return result.RowsAffected()
}

func (r *SlotRepository) getByID(ctx context.Context, q queryRower, id int64) (*domain.InterviewSlot, error) {
	row := q.QueryRowContext(ctx, `SELECT `+slotColumns+` FROM interview_slots WHERE id = ?`, id)
	slot, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query interview slot by id: %w", err)
	}
	return slot, nil
}

func (r *SlotRepository) list(ctx context.Context, query string, args ...any) ([]domain.InterviewSlot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list interview slots: %w", err)
	}
	defer rows.Close()

	out := []domain.InterviewSlot{}
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interview slot: %w", err)
		}
		out = append(out, *slot)
	}
	return out, rows.Err()
}

func scanSlot(s scanner) (*domain.InterviewSlot, error) {
	var (
		slot        domain.InterviewSlot
		interviewee sql.NullInt64
		status      string
		meetingType string
	)
	err := s.Scan(&slot.ID, &slot.InterviewerID, &interviewee, &slot.StartTime, &slot.EndTime,
		&status, &slot.MeetingLink, &meetingType, &slot.Notes, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		return nil, err
	}
	slot.IntervieweeID = int64Ptr(interviewee)
	slot.Status = domain.SlotStatus(status)
	slot.MeetingType = domain.MeetingType(meetingType)
	slot.StartTime = slot.StartTime.UTC()
	slot.EndTime = slot.EndTime.UTC()
	return &slot, nil
}
