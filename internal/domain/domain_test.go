package domain_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/msomdec/mockmatch/internal/domain"
)

func TestParseExperienceLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.ExperienceLevel
		wantErr bool
	}{
		{"beginner", domain.LevelBeginner, false},
		{" Intermediate ", domain.LevelIntermediate, false},
		{"ADVANCED", domain.LevelAdvanced, false},
		{"any", "", true},
		{"senior", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := domain.ParseExperienceLevel(tc.in)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseExperienceLevel: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParseTargetLevel_AcceptsAny(t *testing.T) {
	got, err := domain.ParseTargetLevel("Any")
	if err != nil {
		t.Fatalf("ParseTargetLevel: %v", err)
	}
	if got != domain.LevelAny {
		t.Fatalf("expected any, got %q", got)
	}
}

func TestExperienceLevel_Distance(t *testing.T) {
	tests := []struct {
		a, b   domain.ExperienceLevel
		want   int
		wantOK bool
	}{
		{domain.LevelBeginner, domain.LevelBeginner, 0, true},
		{domain.LevelBeginner, domain.LevelIntermediate, 1, true},
		{domain.LevelAdvanced, domain.LevelIntermediate, 1, true},
		{domain.LevelBeginner, domain.LevelAdvanced, 2, true},
		{domain.LevelBeginner, domain.LevelAny, 0, false},
		{"junior", domain.LevelAdvanced, 0, false},
	}
	for _, tc := range tests {
		d, ok := tc.a.Distance(tc.b)
		if d != tc.want || ok != tc.wantOK {
			t.Errorf("%s/%s: expected (%d, %v), got (%d, %v)", tc.a, tc.b, tc.want, tc.wantOK, d, ok)
		}
	}
}

func TestNormalizeSkills(t *testing.T) {
	got := domain.NormalizeSkills([]string{" Go ", "", "react", "go", "React", "AWS"})
	want := []string{"Go", "react", "AWS"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMatchRequest_Matches(t *testing.T) {
	tests := []struct {
		name   string
		req    domain.MatchRequest
		level  domain.ExperienceLevel
		skills []string
		want   bool
	}{
		{
			name:   "exact level and overlapping skill",
			req:    domain.MatchRequest{TargetExperienceLevel: domain.LevelBeginner, TargetSkills: []string{"React", "Go"}},
			level:  domain.LevelBeginner,
			skills: []string{"go"},
			want:   true,
		},
		{
			name:   "level mismatch",
			req:    domain.MatchRequest{TargetExperienceLevel: domain.LevelAdvanced},
			level:  domain.LevelBeginner,
			skills: []string{"Go"},
			want:   false,
		},
		{
			name:   "any level",
			req:    domain.MatchRequest{TargetExperienceLevel: domain.LevelAny, TargetSkills: []string{"Java"}},
			level:  domain.LevelAdvanced,
			skills: []string{"Java"},
			want:   true,
		},
		{
			name:   "disjoint skills",
			req:    domain.MatchRequest{TargetExperienceLevel: domain.LevelAny, TargetSkills: []string{"Java"}},
			level:  domain.LevelAdvanced,
			skills: []string{"Go"},
			want:   false,
		},
		{
			name:   "wildcard skills match a viewer without skills",
			req:    domain.MatchRequest{TargetExperienceLevel: domain.LevelIntermediate},
			level:  domain.LevelIntermediate,
			skills: nil,
			want:   true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.req.Matches(tc.level, tc.skills); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestMatchRequest_IncomingFor(t *testing.T) {
	viewer := &domain.User{ID: 2, ExperienceLevel: domain.LevelBeginner, Skills: []string{"Go"}}
	req := domain.MatchRequest{RequesterID: 1, Status: domain.MatchStatusPending, TargetExperienceLevel: domain.LevelBeginner}

	if !req.IncomingFor(viewer) {
		t.Fatal("expected pending wildcard request to be incoming")
	}

	own := req
	own.RequesterID = viewer.ID
	if own.IncomingFor(viewer) {
		t.Fatal("own request must not be incoming")
	}

	accepted := req
	accepted.Status = domain.MatchStatusAccepted
	if accepted.IncomingFor(viewer) {
		t.Fatal("accepted request must not be incoming")
	}
}

func TestParseMatchRequestStatus(t *testing.T) {
	got, err := domain.ParseMatchRequestStatus("canceled")
	if err != nil {
		t.Fatalf("ParseMatchRequestStatus: %v", err)
	}
	if got != domain.MatchStatusCancelled {
		t.Fatalf("expected cancelled, got %q", got)
	}
	if _, err := domain.ParseMatchRequestStatus("declined"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestInterviewSlot_UpcomingAndPast(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	interviewee := int64(7)

	tests := []struct {
		name         string
		slot         domain.InterviewSlot
		wantUpcoming bool
		wantPast     bool
	}{
		{
			name:         "booked in the future",
			slot:         domain.InterviewSlot{Status: domain.SlotStatusBooked, StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), IntervieweeID: &interviewee},
			wantUpcoming: true,
		},
		{
			name:     "booked and ended",
			slot:     domain.InterviewSlot{Status: domain.SlotStatusBooked, StartTime: now.Add(-2 * time.Hour), EndTime: now.Add(-time.Hour), IntervieweeID: &interviewee},
			wantPast: true,
		},
		{
			name: "booked and in progress",
			slot: domain.InterviewSlot{Status: domain.SlotStatusBooked, StartTime: now.Add(-time.Minute), EndTime: now.Add(time.Hour), IntervieweeID: &interviewee},
		},
		{
			name:     "completed in the future still counts as past",
			slot:     domain.InterviewSlot{Status: domain.SlotStatusCompleted, StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)},
			wantPast: true,
		},
		{
			name: "available",
			slot: domain.InterviewSlot{Status: domain.SlotStatusAvailable, StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.slot.IsUpcoming(now); got != tc.wantUpcoming {
				t.Errorf("IsUpcoming: expected %v, got %v", tc.wantUpcoming, got)
			}
			if got := tc.slot.IsPast(now); got != tc.wantPast {
				t.Errorf("IsPast: expected %v, got %v", tc.wantPast, got)
			}
		})
	}
}

func TestParseMeetingType_DefaultsToZoom(t *testing.T) {
	got, err := domain.ParseMeetingType("")
	if err != nil {
		t.Fatalf("ParseMeetingType: %v", err)
	}
	if got != domain.MeetingTypeZoom {
		t.Fatalf("expected zoom, got %q", got)
	}
	if _, err := domain.ParseMeetingType("skype"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
