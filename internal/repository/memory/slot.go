package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/msomdec/mockmatch/internal/domain"
)

// SlotRepository implements domain.InterviewSlotRepository in memory.
type SlotRepository struct {
	db *DB
}

func (r *SlotRepository) Create(ctx context.Context, slot *domain.InterviewSlot) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.nextSlotID++
	now := r.db.now()
	slot.ID = r.db.nextSlotID
	slot.CreatedAt = now
	slot.UpdatedAt = now
	r.db.slots[slot.ID] = cloneSlot(*slot)
	return nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*domain.InterviewSlot, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	slot, ok := r.db.slots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneSlot(slot)
	return &out, nil
}

func (r *SlotRepository) ListAvailable(ctx context.Context, now time.Time, excludeInterviewerID int64) ([]domain.InterviewSlot, error) {
	return r.list(func(s *domain.InterviewSlot) bool {
		return s.Status == domain.SlotStatusAvailable &&
			s.StartTime.After(now) &&
			s.InterviewerID != excludeInterviewerID
	}), nil
}

func (r *SlotRepository) ListByParticipant(ctx context.Context, userID int64) ([]domain.InterviewSlot, error) {
	return r.list(func(s *domain.InterviewSlot) bool { return s.IsParticipant(userID) }), nil
}

func (r *SlotRepository) Book(ctx context.Context, id, intervieweeID int64) (*domain.InterviewSlot, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	slot, ok := r.db.slots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if slot.InterviewerID == intervieweeID {
		return nil, domain.ErrSelfBooking
	}
	if slot.Status != domain.SlotStatusAvailable {
		return nil, domain.ErrSlotNotAvailable
	}

	slot.IntervieweeID = &intervieweeID
	slot.Status = domain.SlotStatusBooked
	slot.UpdatedAt = r.db.now()
	r.db.slots[id] = slot

	out := cloneSlot(slot)
	return &out, nil
}

func (r *SlotRepository) UpdateStatus(ctx context.Context, id int64, from []domain.SlotStatus, expectInterviewee *int64, to domain.SlotStatus, intervieweeID *int64) (*domain.InterviewSlot, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	slot, ok := r.db.slots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !slices.Contains(from, slot.Status) || !sameInt64(slot.IntervieweeID, expectInterviewee) {
		return nil, domain.ErrInvalidTransition
	}

	slot.Status = to
	slot.IntervieweeID = cloneInt64(intervieweeID)
	slot.UpdatedAt = r.db.now()
	r.db.slots[id] = slot

	out := cloneSlot(slot)
	return &out, nil
}

func (r *SlotRepository) UpdateMeetingLink(ctx context.Context, id int64, link string) (*domain.InterviewSlot, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	slot, ok := r.db.slots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	slot.MeetingLink = link
	slot.UpdatedAt = r.db.now()
	r.db.slots[id] = slot

	out := cloneSlot(slot)
	return &out, nil
}

func (r *SlotRepository) CompleteEndedBefore(ctx context.Context, t time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	now := r.db.now()
	for id, slot := range r.db.slots {
		if slot.Status == domain.SlotStatusBooked && slot.EndTime.Before(t) {
			slot.Status = domain.SlotStatusCompleted
			slot.UpdatedAt = now
			r.db.slots[id] = slot
			n++
		}
	}
	return n, nil
}

// list returns matching slots ascending by start time.
func (r *SlotRepository) list(keep func(*domain.InterviewSlot) bool) []domain.InterviewSlot {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.InterviewSlot, 0)
	for _, s := range r.db.slots {
		if keep(&s) {
			out = append(out, cloneSlot(s))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func cloneSlot(s domain.InterviewSlot) domain.InterviewSlot {
	s.IntervieweeID = cloneInt64(s.IntervieweeID)
	return s
}

func sameInt64(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
