// Package repotest holds the behavioural tests every domain.Database
// implementation must pass. Backend packages call Run from their own tests.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/mockmatch/internal/domain"
)

// Run exercises the repositories of fresh databases produced by newDB.
// newDB is called once per subtest and must return a migrated, empty database.
func Run(t *testing.T, newDB func(t *testing.T) domain.Database) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newDB) })
	t.Run("MatchRequests", func(t *testing.T) { testMatchRequests(t, newDB) })
	t.Run("Slots", func(t *testing.T) { testSlots(t, newDB) })
}

// base is a fixed, second-aligned instant so round-tripped times compare
// equal on every backend.
var base = time.Now().UTC().Truncate(time.Second).Add(24 * time.Hour)

func createUser(t *testing.T, db domain.Database, username string, level domain.ExperienceLevel, skills ...string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:        username,
		PasswordHash:    "hash",
		FullName:        username + " Example",
		Email:           username + "@example.com",
		ExperienceLevel: level,
		Skills:          skills,
	}
	if err := db.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("Create user %s: %v", username, err)
	}
	return u
}

func createSlot(t *testing.T, db domain.Database, interviewerID int64, start time.Time) *domain.InterviewSlot {
	t.Helper()
	s := &domain.InterviewSlot{
		InterviewerID: interviewerID,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Status:        domain.SlotStatusAvailable,
		MeetingType:   domain.MeetingTypeZoom,
	}
	if err := db.Slots().Create(context.Background(), s); err != nil {
		t.Fatalf("Create slot: %v", err)
	}
	return s
}

func testUsers(t *testing.T, newDB func(t *testing.T) domain.Database) {
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		db := newDB(t)
		u := createUser(t, db, "alice", domain.LevelIntermediate, "Go", "SQL")
		if u.ID == 0 {
			t.Fatal("expected user ID to be set after create")
		}
		if u.CreatedAt.IsZero() {
			t.Fatal("expected CreatedAt to be set")
		}

		got, err := db.Users().GetByID(ctx, u.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Username != "alice" || got.FullName != "alice Example" {
			t.Fatalf("unexpected user: %+v", got)
		}
		if got.ExperienceLevel != domain.LevelIntermediate {
			t.Fatalf("expected intermediate, got %q", got.ExperienceLevel)
		}
		if len(got.Skills) != 2 || got.Skills[0] != "Go" || got.Skills[1] != "SQL" {
			t.Fatalf("expected skills [Go SQL], got %v", got.Skills)
		}

		byName, err := db.Users().GetByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("GetByUsername: %v", err)
		}
		if byName.ID != u.ID {
			t.Fatalf("expected ID %d, got %d", u.ID, byName.ID)
		}
	})

	t.Run("EmptySkillsRoundTrip", func(t *testing.T) {
		db := newDB(t)
		u := createUser(t, db, "bob", domain.LevelBeginner)
		got, err := db.Users().GetByID(ctx, u.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Skills == nil || len(got.Skills) != 0 {
			t.Fatalf("expected empty non-nil skills, got %#v", got.Skills)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		db := newDB(t)
		if _, err := db.Users().GetByID(ctx, 9999); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := db.Users().GetByUsername(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Duplicates", func(t *testing.T) {
		db := newDB(t)
		createUser(t, db, "alice", domain.LevelBeginner)

		dupName := &domain.User{Username: "alice", PasswordHash: "h", FullName: "A", Email: "other@example.com", ExperienceLevel: domain.LevelBeginner}
		if err := db.Users().Create(ctx, dupName); !errors.Is(err, domain.ErrDuplicateUsername) {
			t.Fatalf("expected ErrDuplicateUsername, got %v", err)
		}

		dupEmail := &domain.User{Username: "alice2", PasswordHash: "h", FullName: "A", Email: "ALICE@example.com", ExperienceLevel: domain.LevelBeginner}
		if err := db.Users().Create(ctx, dupEmail); !errors.Is(err, domain.ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := newDB(t)
		a := createUser(t, db, "alice", domain.LevelIntermediate, "Go")
		b := createUser(t, db, "bob", domain.LevelBeginner, "python")
		c := createUser(t, db, "carol", domain.LevelIntermediate, "Python", "Go")

		tests := []struct {
			name   string
			filter domain.UserFilter
			want   []int64
		}{
			{"all", domain.UserFilter{}, []int64{a.ID, b.ID, c.ID}},
			{"exclude", domain.UserFilter{ExcludeUserID: a.ID}, []int64{b.ID, c.ID}},
			{"level", domain.UserFilter{ExperienceLevel: domain.LevelIntermediate}, []int64{a.ID, c.ID}},
			{"skill case-insensitive", domain.UserFilter{Skill: "PYTHON"}, []int64{b.ID, c.ID}},
			{"limit", domain.UserFilter{Limit: 2}, []int64{a.ID, b.ID}},
			{"offset", domain.UserFilter{Limit: 2, Offset: 2}, []int64{c.ID}},
			{"offset only", domain.UserFilter{Offset: 1}, []int64{b.ID, c.ID}},
			{"combined", domain.UserFilter{ExcludeUserID: c.ID, Skill: "go"}, []int64{a.ID}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				users, err := db.Users().List(ctx, tt.filter)
				if err != nil {
					t.Fatalf("List: %v", err)
				}
				if got := userIDs(users); fmt.Sprint(got) != fmt.Sprint(tt.want) {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			})
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := newDB(t)
		u := createUser(t, db, "alice", domain.LevelBeginner, "Go")
		other := createUser(t, db, "bob", domain.LevelBeginner)

		u.FullName = "Alice Updated"
		u.ExperienceLevel = domain.LevelAdvanced
		u.Skills = []string{"Rust"}
		u.Bio = "hello"
		u.TargetRole = "SRE"
		if err := db.Users().Update(ctx, u); err != nil {
			t.Fatalf("Update: %v", err)
		}

		got, err := db.Users().GetByID(ctx, u.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.FullName != "Alice Updated" || got.ExperienceLevel != domain.LevelAdvanced ||
			len(got.Skills) != 1 || got.Skills[0] != "Rust" || got.Bio != "hello" || got.TargetRole != "SRE" {
			t.Fatalf("update not persisted: %+v", got)
		}
		if got.Username != "alice" || got.PasswordHash != "hash" {
			t.Fatalf("expected username and password hash untouched, got %+v", got)
		}

		u.Email = other.Email
		if err := db.Users().Update(ctx, u); !errors.Is(err, domain.ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}

		missing := &domain.User{ID: 9999, FullName: "x", Email: "x@example.com", ExperienceLevel: domain.LevelBeginner}
		if err := db.Users().Update(ctx, missing); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func testMatchRequests(t *testing.T, newDB func(t *testing.T) domain.Database) {
	ctx := context.Background()

	newRequest := func(t *testing.T, db domain.Database, requesterID int64, level domain.ExperienceLevel, skills ...string) *domain.MatchRequest {
		t.Helper()
		req := &domain.MatchRequest{
			RequesterID:           requesterID,
			Status:                domain.MatchStatusPending,
			TargetExperienceLevel: level,
			TargetSkills:          skills,
		}
		if err := db.MatchRequests().Create(ctx, req); err != nil {
			t.Fatalf("Create match request: %v", err)
		}
		return req
	}

	t.Run("CreateAndGet", func(t *testing.T) {
		db := newDB(t)
		alice := createUser(t, db, "alice", domain.LevelIntermediate)
		preferred := base.Add(2 * time.Hour)

		req := &domain.MatchRequest{
			RequesterID:           alice.ID,
			Status:                domain.MatchStatusPending,
			TargetExperienceLevel: domain.LevelAny,
			TargetSkills:          []string{"Go"},
			PreferredTime:         &preferred,
			Notes:                 "system design",
		}
		if err := db.MatchRequests().Create(ctx, req); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if req.ID == 0 {
			t.Fatal("expected ID to be set after create")
		}

		got, err := db.MatchRequests().GetByID(ctx, req.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Status != domain.MatchStatusPending || got.TargetExperienceLevel != domain.LevelAny {
			t.Fatalf("unexpected request: %+v", got)
		}
		if got.MatchedPeerID != nil {
			t.Fatalf("expected no matched peer, got %d", *got.MatchedPeerID)
		}
		if got.PreferredTime == nil || !got.PreferredTime.Equal(preferred) {
			t.Fatalf("expected preferred time %v, got %v", preferred, got.PreferredTime)
		}
		if len(got.TargetSkills) != 1 || got.TargetSkills[0] != "Go" || got.Notes != "system design" {
			t.Fatalf("unexpected request fields: %+v", got)
		}

		if _, err := db.MatchRequests().GetByID(ctx, 9999); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListPendingForLevel", func(t *testing.T) {
		db := newDB(t)
		alice := createUser(t, db, "alice", domain.LevelIntermediate)
		bob := createUser(t, db, "bob", domain.LevelIntermediate)

		r1 := newRequest(t, db, alice.ID, domain.LevelIntermediate)
		r2 := newRequest(t, db, alice.ID, domain.LevelAny)
		newRequest(t, db, alice.ID, domain.LevelAdvanced)
		newRequest(t, db, bob.ID, domain.LevelIntermediate)
		r5 := newRequest(t, db, alice.ID, domain.LevelIntermediate)
		if _, err := db.MatchRequests().Transition(ctx, r5.ID, domain.MatchStatusCancelled, nil); err != nil {
			t.Fatalf("Transition: %v", err)
		}

		got, err := db.MatchRequests().ListPendingForLevel(ctx, domain.LevelIntermediate, bob.ID)
		if err != nil {
			t.Fatalf("ListPendingForLevel: %v", err)
		}
		want := []int64{r2.ID, r1.ID}
		if ids := requestIDs(got); fmt.Sprint(ids) != fmt.Sprint(want) {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	})

	t.Run("ListByRequester", func(t *testing.T) {
		db := newDB(t)
		alice := createUser(t, db, "alice", domain.LevelIntermediate)
		bob := createUser(t, db, "bob", domain.LevelIntermediate)

		r1 := newRequest(t, db, alice.ID, domain.LevelAny)
		newRequest(t, db, bob.ID, domain.LevelAny)
		r3 := newRequest(t, db, alice.ID, domain.LevelBeginner)

		got, err := db.MatchRequests().ListByRequester(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListByRequester: %v", err)
		}
		want := []int64{r3.ID, r1.ID}
		if ids := requestIDs(got); fmt.Sprint(ids) != fmt.Sprint(want) {
			t.Fatalf("expected %v, got %v", want, ids)
		}

		empty, err := db.MatchRequests().ListByRequester(ctx, 9999)
		if err != nil {
			t.Fatalf("ListByRequester: %v", err)
		}
		if empty == nil || len(empty) != 0 {
			t.Fatalf("expected empty non-nil list, got %#v", empty)
		}
	})

	t.Run("Transition", func(t *testing.T) {
		db := newDB(t)
		alice := createUser(t, db, "alice", domain.LevelIntermediate)
		bob := createUser(t, db, "bob", domain.LevelIntermediate)
		req := newRequest(t, db, alice.ID, domain.LevelAny)

		got, err := db.MatchRequests().Transition(ctx, req.ID, domain.MatchStatusAccepted, &bob.ID)
		if err != nil {
			t.Fatalf("Transition: %v", err)
		}
		if got.Status != domain.MatchStatusAccepted {
			t.Fatalf("expected accepted, got %q", got.Status)
		}
		if got.MatchedPeerID == nil || *got.MatchedPeerID != bob.ID {
			t.Fatalf("expected matched peer %d, got %v", bob.ID, got.MatchedPeerID)
		}

		if _, err := db.MatchRequests().Transition(ctx, req.ID, domain.MatchStatusRejected, &bob.ID); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
		after, err := db.MatchRequests().GetByID(ctx, req.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if after.Status != domain.MatchStatusAccepted {
			t.Fatalf("expected request to stay accepted, got %q", after.Status)
		}

		if _, err := db.MatchRequests().Transition(ctx, 9999, domain.MatchStatusAccepted, &bob.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func testSlots(t *testing.T, newDB func(t *testing.T) domain.Database) {
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		db := newDB(t)
		x := createUser(t, db, "xavier", domain.LevelAdvanced)

		s := &domain.InterviewSlot{
			InterviewerID: x.ID,
			StartTime:     base,
			EndTime:       base.Add(30 * time.Minute),
			Status:        domain.SlotStatusAvailable,
			MeetingLink:   "https://zoom.example/abc",
			MeetingType:   domain.MeetingTypeGoogleMeet,
			Notes:         "bring a laptop",
		}
		if err := db.Slots().Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}

		got, err := db.Slots().GetByID(ctx, s.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if !got.StartTime.Equal(base) || !got.EndTime.Equal(base.Add(30*time.Minute)) {
			t.Fatalf("times did not round-trip: %v %v", got.StartTime, got.EndTime)
		}
		if got.IntervieweeID != nil || got.Status != domain.SlotStatusAvailable {
			t.Fatalf("unexpected slot state: %+v", got)
		}
		if got.MeetingType != domain.MeetingTypeGoogleMeet || got.MeetingLink != "https://zoom.example/abc" || got.Notes != "bring a laptop" {
			t.Fatalf("unexpected slot fields: %+v", got)
		}

		if _, err := db.Slots().GetByID(ctx, 9999); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListAvailable", func(t *testing.T) {
		db := newDB(t)
		x := createUser(t, db, "xavier", domain.LevelAdvanced)
		y := createUser(t, db, "yvonne", domain.LevelAdvanced)
		z := createUser(t, db, "zed", domain.LevelBeginner)

		later := createSlot(t, db, x.ID, base.Add(2*time.Hour))
		sooner := createSlot(t, db, x.ID, base)
		createSlot(t, db, z.ID, base.Add(time.Hour))
		booked := createSlot(t, db, x.ID, base.Add(3*time.Hour))
		if _, err := db.Slots().Book(ctx, booked.ID, y.ID); err != nil {
			t.Fatalf("Book: %v", err)
		}

		got, err := db.Slots().ListAvailable(ctx, base.Add(-time.Minute), z.ID)
		if err != nil {
			t.Fatalf("ListAvailable: %v", err)
		}
		want := []int64{sooner.ID, later.ID}
		if ids := slotIDs(got); fmt.Sprint(ids) != fmt.Sprint(want) {
			t.Fatalf("expected %v, got %v", want, ids)
		}

		got, err = db.Slots().ListAvailable(ctx, base.Add(time.Minute), z.ID)
		if err != nil {
			t.Fatalf("ListAvailable: %v", err)
		}
		want = []int64{later.ID}
		if ids := slotIDs(got); fmt.Sprint(ids) != fmt.Sprint(want) {
			t.Fatalf("expected only future slots %v, got %v", want, ids)
		}
	})

	t.Run("ListByParticipant", func(t *testing.T) {
		db := newDB(t)
		x := createUser(t, db, "xavier", domain.LevelAdvanced)
		y := createUser(t, db, "yvonne", domain.LevelAdvanced)
		z := createUser(t, db, "zed", domain.LevelBeginner)

		own := createSlot(t, db, y.ID, base.Add(2*time.Hour))
		booked := createSlot(t, db, x.ID, base)
		createSlot(t, db, x.ID, base.Add(time.Hour))
		createSlot(t, db, z.ID, base)
		if _, err := db.Slots().Book(ctx, booked.ID, y.ID); err != nil {
			t.Fatalf("Book: %v", err)
		}

		got, err := db.Slots().ListByParticipant(ctx, y.ID)
		if err != nil {
			t.Fatalf("ListByParticipant: %v", err)
		}
		want := []int64{booked.ID, own.ID}
		if ids := slotIDs(got); fmt.Sprint(ids) != fmt.Sprint(want) {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	})

	t.Run("Book", func(t *testing.T) {
		db := newDB(t)
		x := createUser(t, db, "xavier", domain.LevelAdvanced)
		y := createUser(t, db, "yvonne", domain.LevelAdvanced)
		z := createUser(t, db, "zed", domain.LevelBeginner)
		s := createSlot(t, db, x.ID, base)

		if _, err := db.Slots().Book(ctx, s.ID, x.ID); !errors.Is(err, domain.ErrSelfBooking) {
			t.Fatalf("expected ErrSelfBooking, got %v", err)
		}

		got, err := db.Slots().Book(ctx, s.ID, y.ID)
		if err != nil {
			t.Fatalf("Book: %v", err)
		}
		if got.Status != domain.SlotStatusBooked || got.IntervieweeID == nil || *got.IntervieweeID != y.ID {
			t.Fatalf("unexpected booked slot: %+v", got)
		}

		if _, err := db.Slots().Book(ctx, s.ID, z.ID); !errors.Is(err, domain.ErrSlotNotAvailable) {
			t.Fatalf("expected ErrSlotNotAvailable, got %v", err)
		}
		after, err := db.Slots().GetByID(ctx, s.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if *after.IntervieweeID != y.ID {
			t.Fatalf("expected interviewee to stay %d, got %d", y.ID, *after.IntervieweeID)
		}

		if _, err := db.Slots().Book(ctx, 9999, y.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ConcurrentBook", func(t *testing.T) {
		db := newDB(t)
		x := createUser(t, db, "xavier", domain.LevelAdvanced)
		s := createSlot(t, db, x.ID, base)

		const n = 8
		bookers := make([]*domain.User, n)
		for i := range bookers {
			bookers[i] = createUser(t, db, fmt.Sprintf("booker%d", i), domain.LevelBeginner)
		}

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			success int
		)
		for _, u := range bookers {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				_, err := db.Slots().Book(ctx, s.ID, id)
				if err == nil {
					mu.Lock()
					success++
					mu.Unlock()
				} else if !errors.Is(err, domain.ErrSlotNotAvailable) {
					t.Errorf("Book: unexpected error %v", err)
				}
			}(u.ID)
		}
		wg.Wait()

		if success != 1 {
			t.Fatalf("expected exactly one successful booking, got %d", success)
		}
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		db := newDB(t)
		x := createUser(t, db, "xavier", domain.LevelAdvanced)
		y := createUser(t, db, "yvonne", domain.LevelAdvanced)
		s := createSlot(t, db, x.ID, base)
		if _, err := db.Slots().Book(ctx, s.ID, y.ID); err != nil {
			t.Fatalf("Book: %v", err)
		}

		wrong := x.ID
		_, err := db.Slots().UpdateStatus(ctx, s.ID,
			[]domain.SlotStatus{domain.SlotStatusBooked}, &wrong, domain.SlotStatusAvailable, nil)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition for a stale interviewee, got %v", err)
		}
		unchanged, err := db.Slots().GetByID(ctx, s.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if unchanged.Status != domain.SlotStatusBooked || unchanged.IntervieweeID == nil || *unchanged.IntervieweeID != y.ID {
			t.Fatalf("expected booking by %d to survive, got %+v", y.ID, unchanged)
		}

		reopened, err := db.Slots().UpdateStatus(ctx, s.ID,
			[]domain.SlotStatus{domain.SlotStatusBooked}, &y.ID, domain.SlotStatusAvailable, nil)
		if err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
		if reopened.Status != domain.SlotStatusAvailable || reopened.IntervieweeID != nil {
			t.Fatalf("expected slot reopened, got %+v", reopened)
		}

		cancelled, err := db.Slots().UpdateStatus(ctx, s.ID,
			[]domain.SlotStatus{domain.SlotStatusAvailable, domain.SlotStatusBooked}, nil, domain.SlotStatusCancelled, nil)
		if err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
		if cancelled.Status != domain.SlotStatusCancelled {
			t.Fatalf("expected cancelled, got %q", cancelled.Status)
		}

		_, err = db.Slots().UpdateStatus(ctx, s.ID,
			[]domain.SlotStatus{domain.SlotStatusAvailable, domain.SlotStatusBooked}, nil, domain.SlotStatusCancelled, nil)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}

		_, err = db.Slots().UpdateStatus(ctx, 9999,
			[]domain.SlotStatus{domain.SlotStatusAvailable}, nil, domain.SlotStatusCancelled, nil)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateMeetingLink", func(t *testing.T) {
		db := newDB(t)
		x := createUser(t, db, "xavier", domain.LevelAdvanced)
		s := createSlot(t, db, x.ID, base)

		got, err := db.Slots().UpdateMeetingLink(ctx, s.ID, "https://meet.example/xyz")
		if err != nil {
			t.Fatalf("UpdateMeetingLink: %v", err)
		}
		if got.MeetingLink != "https://meet.example/xyz" {
			t.Fatalf("expected link to be updated, got %q", got.MeetingLink)
		}

		if _, err := db.Slots().UpdateMeetingLink(ctx, 9999, "x"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CompleteEndedBefore", func(t *testing.T) {
		db := newDB(t)
		x := createUser(t, db, "xavier", domain.LevelAdvanced)
		y := createUser(t, db, "yvonne", domain.LevelAdvanced)

		early := createSlot(t, db, x.ID, base)
		late := createSlot(t, db, x.ID, base.Add(5*time.Hour))
		open := createSlot(t, db, x.ID, base)
		for _, s := range []*domain.InterviewSlot{early, late} {
			if _, err := db.Slots().Book(ctx, s.ID, y.ID); err != nil {
				t.Fatalf("Book: %v", err)
			}
		}

		n, err := db.Slots().CompleteEndedBefore(ctx, base.Add(2*time.Hour))
		if err != nil {
			t.Fatalf("CompleteEndedBefore: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected 1 slot completed, got %d", n)
		}

		want := map[int64]domain.SlotStatus{
			early.ID: domain.SlotStatusCompleted,
			late.ID:  domain.SlotStatusBooked,
			open.ID:  domain.SlotStatusAvailable,
		}
		for id, status := range want {
			got, err := db.Slots().GetByID(ctx, id)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if got.Status != status {
				t.Fatalf("slot %d: expected %q, got %q", id, status, got.Status)
			}
		}
	})
}

func userIDs(users []domain.User) []int64 {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func requestIDs(reqs []domain.MatchRequest) []int64 {
	ids := make([]int64, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}
	return ids
}

func slotIDs(slots []domain.InterviewSlot) []int64 {
	ids := make([]int64, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
	}
	return ids
}
