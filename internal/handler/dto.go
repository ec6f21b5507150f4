package handler

import (
	"time"

	"github.com/msomdec/mockmatch/internal/domain"
	"github.com/msomdec/mockmatch/internal/matching"
)

// UserDTO is the JSON representation of a user. The password hash is never
// serialized.
type UserDTO struct {
	ID              int64    `json:"id"`
	Username        string   `json:"username"`
	FullName        string   `json:"fullName"`
	Email           string   `json:"email"`
	ExperienceLevel string   `json:"experienceLevel"`
	Skills          []string `json:"skills"`
	TargetRole      string   `json:"targetRole"`
	Bio             string   `json:"bio"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:              u.ID,
		Username:        u.Username,
		FullName:        u.FullName,
		Email:           u.Email,
		ExperienceLevel: string(u.ExperienceLevel),
		Skills:          nonNil(u.Skills),
		TargetRole:      u.TargetRole,
		Bio:             u.Bio,
		CreatedAt:       u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       u.UpdatedAt.Format(time.RFC3339),
	}
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// CandidateDTO is a ranked peer: the user's profile plus its scores.
type CandidateDTO struct {
	UserDTO
	MatchScore      float64 `json:"matchScore"`
	ExperienceScore float64 `json:"experienceScore"`
	SkillScore      float64 `json:"skillScore"`
}

func toCandidateDTOs(candidates []matching.Candidate) []CandidateDTO {
	dtos := make([]CandidateDTO, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		dtos[i] = CandidateDTO{
			UserDTO:         toUserDTO(&c.User),
			MatchScore:      c.Score,
			ExperienceScore: c.ExperienceScore,
			SkillScore:      c.SkillScore,
		}
	}
	return dtos
}

// MatchRequestDTO is the JSON representation of a match request.
type MatchRequestDTO struct {
	ID                    int64    `json:"id"`
	RequesterID           int64    `json:"requesterId"`
	MatchedPeerID         *int64   `json:"matchedPeerId"`
	Status                string   `json:"status"`
	TargetExperienceLevel string   `json:"targetExperienceLevel"`
	TargetSkills          []string `json:"targetSkills"`
	PreferredTime         *string  `json:"preferredTime"`
	Notes                 string   `json:"notes"`
	CreatedAt             string   `json:"createdAt"`
	UpdatedAt             string   `json:"updatedAt"`
}

func toMatchRequestDTO(m *domain.MatchRequest) MatchRequestDTO {
	dto := MatchRequestDTO{
		ID:                    m.ID,
		RequesterID:           m.RequesterID,
		MatchedPeerID:         m.MatchedPeerID,
		Status:                string(m.Status),
		TargetExperienceLevel: string(m.TargetExperienceLevel),
		TargetSkills:          nonNil(m.TargetSkills),
		Notes:                 m.Notes,
		CreatedAt:             m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             m.UpdatedAt.Format(time.RFC3339),
	}
	if m.PreferredTime != nil {
		t := m.PreferredTime.Format(time.RFC3339Nano)
		dto.PreferredTime = &t
	}
	return dto
}

func toMatchRequestDTOs(reqs []domain.MatchRequest) []MatchRequestDTO {
	dtos := make([]MatchRequestDTO, len(reqs))
	for i := range reqs {
		dtos[i] = toMatchRequestDTO(&reqs[i])
	}
	return dtos
}

// InterviewSlotDTO is the JSON representation of an interview slot. Start
// and end keep sub-second precision so they round-trip exactly.
type InterviewSlotDTO struct {
	ID            int64  `json:"id"`
	InterviewerID int64  `json:"interviewerId"`
	IntervieweeID *int64 `json:"intervieweeId"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Status        string `json:"status"`
	MeetingLink   string `json:"meetingLink"`
	MeetingType   string `json:"meetingType"`
	Notes         string `json:"notes"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

func toInterviewSlotDTO(s *domain.InterviewSlot) InterviewSlotDTO {
	return InterviewSlotDTO{
		ID:            s.ID,
		InterviewerID: s.InterviewerID,
		IntervieweeID: s.IntervieweeID,
		StartTime:     s.StartTime.Format(time.RFC3339Nano),
		EndTime:       s.EndTime.Format(time.RFC3339Nano),
		Status:        string(s.Status),
		MeetingLink:   s.MeetingLink,
		MeetingType:   string(s.MeetingType),
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     s.UpdatedAt.Format(time.RFC3339),
	}
}

func toInterviewSlotDTOs(slots []domain.InterviewSlot) []InterviewSlotDTO {
	dtos := make([]InterviewSlotDTO, len(slots))
	for i := range slots {
		dtos[i] = toInterviewSlotDTO(&slots[i])
	}
	return dtos
}

// Request bodies.

type registerRequest struct {
	Username        string   `json:"username" validate:"required,min=3,max=50"`
	Password        string   `json:"password" validate:"required,min=8"`
	ConfirmPassword string   `json:"confirmPassword"`
	FullName        string   `json:"fullName" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	ExperienceLevel string   `json:"experienceLevel" validate:"required"`
	Skills          []string `json:"skills" validate:"max=50"`
	TargetRole      string   `json:"targetRole" validate:"max=200"`
	Bio             string   `json:"bio" validate:"max=2000"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	FullName        string   `json:"fullName"`
	Email           string   `json:"email" validate:"omitempty,email"`
	ExperienceLevel string   `json:"experienceLevel"`
	Skills          []string `json:"skills" validate:"omitempty,max=50"`
	TargetRole      string   `json:"targetRole" validate:"max=200"`
	Bio             string   `json:"bio" validate:"max=2000"`
}

type createMatchRequestBody struct {
	TargetExperienceLevel string     `json:"targetExperienceLevel" validate:"required"`
	TargetSkills          []string   `json:"targetSkills" validate:"max=50"`
	PreferredTime         *time.Time `json:"preferredTime"`
	Notes                 string     `json:"notes" validate:"max=2000"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type createSlotRequest struct {
	StartTime   time.Time `json:"startTime" validate:"required"`
	EndTime     time.Time `json:"endTime" validate:"required"`
	MeetingLink string    `json:"meetingLink" validate:"omitempty,url"`
	MeetingType string    `json:"meetingType"`
	Notes       string    `json:"notes" validate:"max=2000"`
}

type meetingLinkRequest struct {
	MeetingLink string `json:"meetingLink" validate:"required,url"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
