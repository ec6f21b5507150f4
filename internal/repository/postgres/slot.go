package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msomdec/mockmatch/internal/domain"
)

const slotColumns = `id, interviewer_id, interviewee_id, start_time, end_time, status, meeting_link, meeting_type, notes, created_at, updated_at`

// SlotRepository implements domain.InterviewSlotRepository using PostgreSQL.
type SlotRepository struct {
	pool *pgxpool.Pool
}

func (r *SlotRepository) Create(ctx context.Context, slot *domain.InterviewSlot) error {
	ts := now()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO interview_slots (interviewer_id, interviewee_id, start_time, end_time, status, meeting_link, meeting_type, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		 RETURNING id`,
		slot.InterviewerID, slot.IntervieweeID, slot.StartTime.UTC(), slot.EndTime.UTC(),
		string(slot.Status), slot.MeetingLink, string(slot.MeetingType), slot.Notes, ts,
	).Scan(&slot.ID)
	if err != nil {
		return fmt.Errorf("insert interview slot: %w", err)
	}

	slot.CreatedAt = ts
	slot.UpdatedAt = ts
	return nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*domain.InterviewSlot, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+slotColumns+` FROM interview_slots WHERE id = $1`, id)
	slot, err := scanSlot(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query interview slot by id: %w", err)
	}
	return slot, nil
}

func (r *SlotRepository) ListAvailable(ctx context.Context, at time.Time, excludeInterviewerID int64) ([]domain.InterviewSlot, error) {
	return r.list(ctx,
		`SELECT `+slotColumns+` FROM interview_slots
		 WHERE status = $1 AND start_time > $2 AND interviewer_id <> $3
		 ORDER BY start_time, id`,
		string(domain.SlotStatusAvailable), at.UTC(), excludeInterviewerID,
	)
}

func (r *SlotRepository) ListByParticipant(ctx context.Context, userID int64) ([]domain.InterviewSlot, error) {
	return r.list(ctx,
		`SELECT `+slotColumns+` FROM interview_slots
		 WHERE interviewer_id = $1 OR interviewee_id = $1
		 ORDER BY start_time, id`,
		userID,
	)
}

func (r *SlotRepository) Book(ctx context.Context, id, intervieweeID int64) (*domain.InterviewSlot, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE interview_slots SET interviewee_id = $1, status = $2, updated_at = $3
		 WHERE id = $4 AND status = $5 AND interviewer_id <> $1
		 RETURNING `+slotColumns,
		intervieweeID, string(domain.SlotStatusBooked), now(), id, string(domain.SlotStatusAvailable),
	)
	slot, err := scanSlot(row)
	if err == nil {
		return slot, nil
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("book interview slot: %w", err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.InterviewerID == intervieweeID {
		return nil, domain.ErrSelfBooking
	}
	return nil, domain.ErrSlotNotAvailable
}

func (r *SlotRepository) UpdateStatus(ctx context.Context, id int64, from []domain.SlotStatus, expectInterviewee *int64, to domain.SlotStatus, intervieweeID *int64) (*domain.InterviewSlot, error) {
	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE interview_slots SET status = $1, interviewee_id = $2, updated_at = $3
		 WHERE id = $4 AND status = ANY($5) AND interviewee_id IS NOT DISTINCT FROM $6
		 RETURNING `+slotColumns,
		string(to), intervieweeID, now(), id, allowed, expectInterviewee,
	)
	slot, err := scanSlot(row)
	if err == nil {
		return slot, nil
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("update interview slot status: %w", err)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrInvalidTransition
}

func (r *SlotRepository) UpdateMeetingLink(ctx context.Context, id int64, link string) (*domain.InterviewSlot, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE interview_slots SET meeting_link = $1, updated_at = $2 WHERE id = $3
		 RETURNING `+slotColumns,
		link, now(), id,
	)
	slot, err := scanSlot(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update meeting link: %w", err)
	}
	return slot, nil
}

func (r *SlotRepository) CompleteEndedBefore(ctx context.Context, t time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE interview_slots SET status = $1, updated_at = $2
		 WHERE status = $3 AND end_time < $4`,
		string(domain.SlotStatusCompleted), now(), string(domain.SlotStatusBooked), t.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("complete ended slots: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SlotRepository) list(ctx context.Context, query string, args ...any) ([]domain.InterviewSlot, error) {
	rows, err := r.pool.Query(ctx, query, args...)
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

func scanSlot(row pgx.Row) (*domain.InterviewSlot, error) {
	var (
		slot        domain.InterviewSlot
		status      string
		meetingType string
	)
	err := row.Scan(&slot.ID, &slot.InterviewerID, &slot.IntervieweeID, &slot.StartTime, &slot.EndTime,
		&status, &slot.MeetingLink, &meetingType, &slot.Notes, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		return nil, err
	}
	slot.Status = domain.SlotStatus(status)
	slot.MeetingType = domain.MeetingType(meetingType)
	slot.StartTime = slot.StartTime.UTC()
	slot.EndTime = slot.EndTime.UTC()
	slot.CreatedAt = slot.CreatedAt.UTC()
	slot.UpdatedAt = slot.UpdatedAt.UTC()
	return &slot, nil
}
