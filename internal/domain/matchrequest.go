package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type MatchRequestStatus string

const (
	MatchStatusPending   MatchRequestStatus = "pending"
	MatchStatusAccepted  MatchRequestStatus = "accepted"
	MatchStatusRejected  MatchRequestStatus = "rejected"
	MatchStatusCancelled MatchRequestStatus = "cancelled"
)

// ParseMatchRequestStatus accepts the canonical values plus the "canceled"
// spelling.
func ParseMatchRequestStatus(s string) (MatchRequestStatus, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "pending", "accepted", "rejected", "cancelled":
		return MatchRequestStatus(v), nil
	case "canceled":
		return MatchStatusCancelled, nil
	}
	return "", fmt.Errorf("%w: unknown match request status %q", ErrInvalidInput, s)
}

// MatchRequest is a broadcast ask to be paired with any compatible peer.
type MatchRequest struct {
	ID                    int64
	RequesterID           int64
	MatchedPeerID         *int64 // set only once accepted
	Status                MatchRequestStatus
	TargetExperienceLevel ExperienceLevel // may be LevelAny
	TargetSkills          []string        // empty matches every skill set
	PreferredTime         *time.Time
	Notes                 string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Matches reports whether a viewer's profile satisfies the request's target
// criteria. It does not look at status or requester.
func (m *MatchRequest) Matches(level ExperienceLevel, skills []string) bool {
	if m.TargetExperienceLevel != LevelAny && m.TargetExperienceLevel != level {
		return false
	}
	if len(m.TargetSkills) == 0 {
		return true
	}
	have := SkillSet(skills)
	for skill := range SkillSet(m.TargetSkills) {
		if _, ok := have[skill]; ok {
			return true
		}
	}
	return false
}

// IncomingFor reports whether the request belongs in user's incoming list.
func (m *MatchRequest) IncomingFor(user *User) bool {
	return m.Status == MatchStatusPending &&
		m.RequesterID != user.ID &&
		m.Matches(user.ExperienceLevel, user.Skills)
}

// MatchRequestRepository defines persistence operations for match requests.
type MatchRequestRepository interface {
	Create(ctx context.Context, req *MatchRequest) error
	GetByID(ctx context.Context, id int64) (*MatchRequest, error)
	// ListPendingForLevel returns pending requests not created by
	// excludeUserID whose target level is level or LevelAny, newest first.
	ListPendingForLevel(ctx context.Context, level ExperienceLevel, excludeUserID int64) ([]MatchRequest, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]MatchRequest, error)
	// Transition moves a pending request to status, setting matchedPeerID.
	// It returns ErrInvalidTransition if the request is no longer pending.
	Transition(ctx context.Context, id int64, status MatchRequestStatus, matchedPeerID *int64) (*MatchRequest, error)
}
