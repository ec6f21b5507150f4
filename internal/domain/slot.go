package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusCompleted SlotStatus = "completed"
	SlotStatusCancelled SlotStatus = "cancelled"
)

type MeetingType string

const (
	MeetingTypeZoom       MeetingType = "zoom"
	MeetingTypeGoogleMeet MeetingType = "google-meet"
	MeetingTypeMSTeams    MeetingType = "microsoft-teams"
	MeetingTypeOther      MeetingType = "other"
)

// DefaultMeetingDuration is the length of slots created from an accepted
// match request.
const DefaultMeetingDuration = time.Hour

// ParseMeetingType defaults an empty value to zoom.
func ParseMeetingType(s string) (MeetingType, error) {
	switch v := MeetingType(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return MeetingTypeZoom, nil
	case MeetingTypeZoom, MeetingTypeGoogleMeet, MeetingTypeMSTeams, MeetingTypeOther:
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown meeting type %q", ErrInvalidInput, s)
}

// InterviewSlot is a bookable window offered by an interviewer.
type InterviewSlot struct {
	ID            int64
	InterviewerID int64
	IntervieweeID *int64 // nil while available
	StartTime     time.Time
	EndTime       time.Time
	Status        SlotStatus
	MeetingLink   string
	MeetingType   MeetingType
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsParticipant reports whether userID is the interviewer or interviewee.
func (s *InterviewSlot) IsParticipant(userID int64) bool {
	return s.InterviewerID == userID || (s.IntervieweeID != nil && *s.IntervieweeID == userID)
}

// IsUpcoming reports whether the slot is booked and has not started yet.
func (s *InterviewSlot) IsUpcoming(now time.Time) bool {
	return s.Status == SlotStatusBooked && s.StartTime.After(now)
}

// IsPast reports whether the slot is completed, either explicitly or because
// a booked slot's end time has elapsed.
func (s *InterviewSlot) IsPast(now time.Time) bool {
	return s.Status == SlotStatusCompleted ||
		(s.Status == SlotStatusBooked && s.EndTime.Before(now))
}

// InterviewSlotRepository defines persistence operations for slots.
type InterviewSlotRepository interface {
	Create(ctx context.Context, slot *InterviewSlot) error
	GetByID(ctx context.Context, id int64) (*InterviewSlot, error)
	// ListAvailable returns available slots starting after now, excluding
	// excludeInterviewerID's own slots, ascending by start time.
	ListAvailable(ctx context.Context, now time.Time, excludeInterviewerID int64) ([]InterviewSlot, error)
	// ListByParticipant returns every slot where userID is interviewer or
	// interviewee, ascending by start time.
	ListByParticipant(ctx context.Context, userID int64) ([]InterviewSlot, error)
	// Book atomically assigns intervieweeID to an available slot. It returns
	// ErrSlotNotAvailable if the slot is not available and ErrSelfBooking if
	// intervieweeID is the interviewer; the slot is left unchanged.
	Book(ctx context.Context, id, intervieweeID int64) (*InterviewSlot, error)
	// UpdateStatus sets status and interviewee only if the slot is still in
	// one of the from statuses and its interviewee is still
	// expectInterviewee (nil meaning none), otherwise ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id int64, from []SlotStatus, expectInterviewee *int64, to SlotStatus, intervieweeID *int64) (*InterviewSlot, error)
	UpdateMeetingLink(ctx context.Context, id int64, link string) (*InterviewSlot, error)
	// CompleteEndedBefore marks booked slots whose end time is before t as
	// completed and returns how many changed.
	CompleteEndedBefore(ctx context.Context, t time.Time) (int64, error)
}
