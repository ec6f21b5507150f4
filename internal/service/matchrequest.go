package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/msomdec/mockmatch/internal/domain"
)

// CreateMatchRequestInput describes a new broadcast match request.
type CreateMatchRequestInput struct {
	TargetExperienceLevel string
	TargetSkills          []string
	PreferredTime         *time.Time
	Notes                 string
}

// MatchRequestLists groups the requests a user can act on and the ones they
// sent.
type MatchRequestLists struct {
	Incoming []domain.MatchRequest
	Outgoing []domain.MatchRequest
}

// MatchRequestService runs the match request lifecycle.
type MatchRequestService struct {
	requests domain.MatchRequestRepository
	users    domain.UserRepository
	slots    domain.InterviewSlotRepository
	now      func() time.Time
}

// NewMatchRequestService creates a new MatchRequestService. slots receives
// the interview created when a request with a preferred time is accepted.
func NewMatchRequestService(requests domain.MatchRequestRepository, users domain.UserRepository, slots domain.InterviewSlotRepository) *MatchRequestService {
	return &MatchRequestService{
		requests: requests,
		users:    users,
		slots:    slots,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the wall clock used to decide whether a preferred time
// is still in the future.
func (s *MatchRequestService) SetClock(now func() time.Time) { s.now = now }

// Create stores a pending request from requesterID. Any status in the input
// is ignored.
func (s *MatchRequestService) Create(ctx context.Context, requesterID int64, in CreateMatchRequestInput) (*domain.MatchRequest, error) {
	level, err := domain.ParseTargetLevel(in.TargetExperienceLevel)
	if err != nil {
		return nil, err
	}

	req := &domain.MatchRequest{
		RequesterID:           requesterID,
		Status:                domain.MatchStatusPending,
		TargetExperienceLevel: level,
		TargetSkills:          domain.NormalizeSkills(in.TargetSkills),
		Notes:                 strings.TrimSpace(in.Notes),
	}
	if in.PreferredTime != nil && !in.PreferredTime.IsZero() {
		t := in.PreferredTime.UTC().Truncate(time.Microsecond)
		req.PreferredTime = &t
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create match request: %w", err)
	}
	return req, nil
}

// Incoming lists pending requests from others that viewerID qualifies for,
// newest first.
func (s *MatchRequestService) Incoming(ctx context.Context, viewerID int64) ([]domain.MatchRequest, error) {
	viewer, err := s.users.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	pending, err := s.requests.ListPendingForLevel(ctx, viewer.ExperienceLevel, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("list pending match requests: %w", err)
	}

	incoming := make([]domain.MatchRequest, 0, len(pending))
	for _, req := range pending {
		if req.IncomingFor(viewer) {
			incoming = append(incoming, req)
		}
	}
	return incoming, nil
}

// Outgoing lists every request viewerID sent, newest first.
func (s *MatchRequestService) Outgoing(ctx context.Context, viewerID int64) ([]domain.MatchRequest, error) {
	reqs, err := s.requests.ListByRequester(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list outgoing match requests: %w", err)
	}
	return reqs, nil
}

func (s *MatchRequestService) List(ctx context.Context, viewerID int64) (*MatchRequestLists, error) {
	incoming, err := s.Incoming(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	outgoing, err := s.Outgoing(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return &MatchRequestLists{Incoming: incoming, Outgoing: outgoing}, nil
}

// Get returns a request visible to viewerID: its requester, its matched
// peer, or while pending anyone it is addressed to.
func (s *MatchRequestService) Get(ctx context.Context, viewerID, id int64) (*domain.MatchRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RequesterID == viewerID || (req.MatchedPeerID != nil && *req.MatchedPeerID == viewerID) {
		return req, nil
	}
	if req.Status == domain.MatchStatusPending {
		viewer, err := s.users.GetByID(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		if req.IncomingFor(viewer) {
			return req, nil
		}
	}
	return nil, domain.ErrForbidden
}

// UpdateStatus moves a pending request to accepted, rejected or cancelled.
// Accepting a request with a future preferred time also books an interview
// with the acceptor as interviewer.
func (s *MatchRequestService) UpdateStatus(ctx context.Context, callerID, id int64, status string) (*domain.MatchRequest, error) {
	target, err := domain.ParseMatchRequestStatus(status)
	if err != nil {
		return nil, err
	}
	if target == domain.MatchStatusPending {
		return nil, fmt.Errorf("%w: status must be accepted, rejected or cancelled", domain.ErrInvalidInput)
	}

	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var matchedPeer *int64
	switch target {
	case domain.MatchStatusCancelled:
		if req.RequesterID != callerID {
			return nil, domain.ErrForbidden
		}
		if req.Status != domain.MatchStatusPending {
			return nil, fmt.Errorf("%w: request is %s", domain.ErrInvalidTransition, req.Status)
		}
	default:
		if req.RequesterID == callerID {
			return nil, domain.ErrForbidden
		}
		if req.Status != domain.MatchStatusPending {
			return nil, fmt.Errorf("%w: request is %s", domain.ErrInvalidTransition, req.Status)
		}
		caller, err := s.users.GetByID(ctx, callerID)
		if err != nil {
			return nil, err
		}
		if !req.IncomingFor(caller) {
			return nil, domain.ErrForbidden
		}
		if target == domain.MatchStatusAccepted {
			matchedPeer = &caller.ID
		}
	}

	updated, err := s.requests.Transition(ctx, id, target, matchedPeer)
	if err != nil {
		return nil, err
	}

	slog.Info("match request status changed",
		"match_request_id", updated.ID, "status", updated.Status, "user_id", callerID)

	if updated.Status == domain.MatchStatusAccepted {
		s.scheduleAccepted(ctx, updated)
	}
	return updated, nil
}

// scheduleAccepted books an interview at the request's preferred time. A
// failure leaves the request accepted and is only logged.
func (s *MatchRequestService) scheduleAccepted(ctx context.Context, req *domain.MatchRequest) {
	if req.PreferredTime == nil || req.MatchedPeerID == nil || !req.PreferredTime.After(s.now()) {
		return
	}

	interviewee := req.RequesterID
	slot := &domain.InterviewSlot{
		InterviewerID: *req.MatchedPeerID,
		IntervieweeID: &interviewee,
		StartTime:     *req.PreferredTime,
		EndTime:       req.PreferredTime.Add(domain.DefaultMeetingDuration),
		Status:        domain.SlotStatusBooked,
		MeetingLink:   generateMeetingLink(),
		MeetingType:   domain.MeetingTypeGoogleMeet,
		Notes:         req.Notes,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		slog.Error("create interview for accepted match request",
			"match_request_id", req.ID, "error", err)
		return
	}
	slog.Info("interview scheduled from match request",
		"match_request_id", req.ID, "slot_id", slot.ID)
}

func generateMeetingLink() string {
	return "https://meet.google.com/mock-interview-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
