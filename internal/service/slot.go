package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/msomdec/mockmatch/internal/domain"
)

// CreateSlotInput describes a new interview slot.
type CreateSlotInput struct {
	StartTime   time.Time
	EndTime     time.Time
	MeetingLink string
	MeetingType string
	Notes       string
}

// SlotLists groups the caller's own slots.
type SlotLists struct {
	Upcoming []domain.InterviewSlot
	Past     []domain.InterviewSlot
}

// SlotService manages interview slots and their booking lifecycle.
type SlotService struct {
	slots domain.InterviewSlotRepository
	now   func() time.Time
}

// NewSlotService creates a new SlotService.
func NewSlotService(slots domain.InterviewSlotRepository) *SlotService {
	return &SlotService{
		slots: slots,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the wall clock used to derive upcoming and past slots.
func (s *SlotService) SetClock(now func() time.Time) { s.now = now }

// Create offers a new available slot owned by interviewerID.
func (s *SlotService) Create(ctx context.Context, interviewerID int64, in CreateSlotInput) (*domain.InterviewSlot, error) {
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return nil, fmt.Errorf("%w: start time and end time are required", domain.ErrInvalidInput)
	}
	start := in.StartTime.UTC().Truncate(time.Microsecond)
	end := in.EndTime.UTC().Truncate(time.Microsecond)
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidInput)
	}

	meetingType, err := domain.ParseMeetingType(in.MeetingType)
	if err != nil {
		return nil, err
	}

	slot := &domain.InterviewSlot{
		InterviewerID: interviewerID,
		StartTime:     start,
		EndTime:       end,
		Status:        domain.SlotStatusAvailable,
		MeetingLink:   strings.TrimSpace(in.MeetingLink),
		MeetingType:   meetingType,
		Notes:         strings.TrimSpace(in.Notes),
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return slot, nil
}

// Get returns a slot with its completion derived from the clock.
func (s *SlotService) Get(ctx context.Context, id int64) (*domain.InterviewSlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.derive(slot)
	return slot, nil
}

// Available lists open future slots offered by anyone but viewerID.
func (s *SlotService) Available(ctx context.Context, viewerID int64) ([]domain.InterviewSlot, error) {
	slots, err := s.slots.ListAvailable(ctx, s.now(), viewerID)
	if err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	return slots, nil
}

// Upcoming lists booked slots the user takes part in that have not started,
// soonest first.
func (s *SlotService) Upcoming(ctx context.Context, userID int64) ([]domain.InterviewSlot, error) {
	lists, err := s.Mine(ctx, userID)
	if err != nil {
		return nil, err
	}
	return lists.Upcoming, nil
}

// Past lists completed slots the user takes part in, most recent first.
func (s *SlotService) Past(ctx context.Context, userID int64) ([]domain.InterviewSlot, error) {
	lists, err := s.Mine(ctx, userID)
	if err != nil {
		return nil, err
	}
	return lists.Past, nil
}

// Mine splits the user's slots into upcoming and past.
func (s *SlotService) Mine(ctx context.Context, userID int64) (*SlotLists, error) {
	all, err := s.slots.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	now := s.now()
	lists := &SlotLists{
		Upcoming: []domain.InterviewSlot{},
		Past:     []domain.InterviewSlot{},
	}
	for _, slot := range all {
		switch {
		case slot.IsUpcoming(now):
			lists.Upcoming = append(lists.Upcoming, slot)
		case slot.IsPast(now):
			slot.Status = domain.SlotStatusCompleted
			lists.Past = append(lists.Past, slot)
		}
	}
	slices.Reverse(lists.Past)
	return lists, nil
}

// Book claims an available slot for callerID.
func (s *SlotService) Book(ctx context.Context, callerID, id int64) (*domain.InterviewSlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot.InterviewerID == callerID {
		return nil, domain.ErrSelfBooking
	}
	if slot.Status != domain.SlotStatusAvailable || !slot.StartTime.After(s.now()) {
		return nil, domain.ErrSlotNotAvailable
	}

	// The repository re-checks both conditions atomically.
	return s.slots.Book(ctx, id, callerID)
}

// Cancel withdraws callerID from a slot. The interviewer cancels it for
// good; the interviewee gives it back so someone else can book it.
func (s *SlotService) Cancel(ctx context.Context, callerID, id int64) (*domain.InterviewSlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !slot.IsParticipant(callerID) {
		return nil, domain.ErrForbidden
	}
	s.derive(slot)

	switch {
	case slot.Status == domain.SlotStatusCancelled || slot.Status == domain.SlotStatusCompleted:
		return nil, fmt.Errorf("%w: slot is %s", domain.ErrInvalidTransition, slot.Status)
	case slot.InterviewerID == callerID:
		return s.slots.UpdateStatus(ctx, id,
			[]domain.SlotStatus{slot.Status}, slot.IntervieweeID, domain.SlotStatusCancelled, slot.IntervieweeID)
	default:
		// Only the caller's own booking may be released.
		return s.slots.UpdateStatus(ctx, id,
			[]domain.SlotStatus{domain.SlotStatusBooked}, &callerID, domain.SlotStatusAvailable, nil)
	}
}

// UpdateMeetingLink sets the link of a slot. Only its interviewer may.
func (s *SlotService) UpdateMeetingLink(ctx context.Context, callerID, id int64, link string) (*domain.InterviewSlot, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, fmt.Errorf("%w: meeting link is required", domain.ErrInvalidInput)
	}

	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot.InterviewerID != callerID {
		return nil, domain.ErrForbidden
	}

	updated, err := s.slots.UpdateMeetingLink(ctx, id, link)
	if err != nil {
		return nil, err
	}
	s.derive(updated)
	return updated, nil
}

// CompleteEnded marks every booked slot that has ended as completed.
func (s *SlotService) CompleteEnded(ctx context.Context) (int64, error) {
	n, err := s.slots.CompleteEndedBefore(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("complete ended slots: %w", err)
	}
	return n, nil
}

// derive reports a booked slot whose end has passed as completed.
func (s *SlotService) derive(slot *domain.InterviewSlot) {
	if slot.IsPast(s.now()) {
		slot.Status = domain.SlotStatusCompleted
	}
}
