package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/mockmatch/internal/domain"
	"github.com/msomdec/mockmatch/internal/service"
)

func newTestSlotService(t *testing.T) (*service.SlotService, *fakeClock, *sqliteFixture) {
	t.Helper()
	db := newTestDB(t)
	clock := newFakeClock()
	svc := service.NewSlotService(db.Slots())
	svc.SetClock(clock.Now)
	return svc, clock, &sqliteFixture{db: db}
}

func createTestSlot(t *testing.T, svc *service.SlotService, interviewerID int64, start time.Time) *domain.InterviewSlot {
	t.Helper()
	slot, err := svc.Create(context.Background(), interviewerID, service.CreateSlotInput{
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create slot: %v", err)
	}
	return slot
}

func TestSlotService_Create(t *testing.T) {
	svc, clock, fx := newTestSlotService(t)
	ctx := context.Background()
	x := fx.user(t, "x", domain.LevelAdvanced)

	start := clock.Now().Add(24*time.Hour + 123456789*time.Nanosecond)
	slot, err := svc.Create(ctx, x.ID, service.CreateSlotInput{
		StartTime: start,
		EndTime:   start.Add(45 * time.Minute),
		Notes:     " system design ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if slot.Status != domain.SlotStatusAvailable || slot.InterviewerID != x.ID || slot.IntervieweeID != nil {
		t.Fatalf("unexpected new slot: %+v", slot)
	}
	if slot.MeetingType != domain.MeetingTypeZoom {
		t.Fatalf("expected default meeting type zoom, got %q", slot.MeetingType)
	}

	got, err := svc.Get(ctx, slot.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.StartTime.Equal(slot.StartTime) || !got.EndTime.Equal(slot.EndTime) {
		t.Fatalf("start/end did not round-trip: created %v-%v, read %v-%v",
			slot.StartTime, slot.EndTime, got.StartTime, got.EndTime)
	}
	if got.Notes != "system design" {
		t.Fatalf("expected trimmed notes, got %q", got.Notes)
	}
}

func TestSlotService_Create_InvalidInput(t *testing.T) {
	svc, clock, fx := newTestSlotService(t)
	ctx := context.Background()
	x := fx.user(t, "x", domain.LevelAdvanced)
	start := clock.Now().Add(time.Hour)

	tests := []struct {
		name string
		in   service.CreateSlotInput
	}{
		{"end before start", service.CreateSlotInput{StartTime: start, EndTime: start.Add(-time.Minute)}},
		{"end equals start", service.CreateSlotInput{StartTime: start, EndTime: start}},
		{"missing start", service.CreateSlotInput{EndTime: start}},
		{"bad meeting type", service.CreateSlotInput{StartTime: start, EndTime: start.Add(time.Hour), MeetingType: "carrier-pigeon"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, x.ID, tc.in); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSlotService_BookingScenario(t *testing.T) {
	svc, clock, fx := newTestSlotService(t)
	ctx := context.Background()
	x := fx.user(t, "x", domain.LevelAdvanced)
	y := fx.user(t, "y", domain.LevelIntermediate)
	z := fx.user(t, "z", domain.LevelBeginner)

	slot := createTestSlot(t, svc, x.ID, clock.Now().Add(48*time.Hour))

	booked, err := svc.Book(ctx, y.ID, slot.ID)
	if err != nil {
		t.Fatalf("Y Book: %v", err)
	}
	if booked.Status != domain.SlotStatusBooked || *booked.IntervieweeID != y.ID {
		t.Fatalf("unexpected booked slot: %+v", booked)
	}

	_, err = svc.Book(ctx, z.ID, slot.ID)
	if !errors.Is(err, domain.ErrSlotNotAvailable) {
		t.Fatalf("expected ErrSlotNotAvailable, got %v", err)
	}
	if err.Error() != "slot is not available" {
		t.Fatalf("expected message %q, got %q", "slot is not available", err.Error())
	}

	after, err := svc.Get(ctx, slot.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if after.Status != domain.SlotStatusBooked || *after.IntervieweeID != y.ID {
		t.Fatalf("expected slot unchanged after failed booking, got %+v", after)
	}
}

func TestSlotService_Book_SelfBooking(t *testing.T) {
	svc, clock, fx := newTestSlotService(t)
	ctx := context.Background()
	x := fx.user(t, "x", domain.LevelAdvanced)
	slot := createTestSlot(t, svc, x.ID, clock.Now().Add(time.Hour))

	if _, err := svc.Book(ctx, x.ID, slot.ID); !errors.Is(err, domain.ErrSelfBooking) {
		t.Fatalf("expected ErrSelfBooking, got %v", err)
	}

	after, err := svc.Get(ctx, slot.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if after.Status != domain.SlotStatusAvailable || after.IntervieweeID != nil {
		t.Fatalf("expected slot unchanged after self-booking, got %+v", after)
	}
}

func TestSlotService_Book_Started(t *testing.T) {
	svc, clock, fx := newTestSlotService(t)
	x := fx.user(t, "x", domain.LevelAdvanced)
	y := fx.user(t, "y", domain.LevelAdvanced)
	slot := createTestSlot(t, svc, x.ID, clock.Now().Add(time.Hour))

	clock.Advance(2 * time.Hour)
	if _, err := svc.Book(context.Background(), y.ID, slot.ID); !errors.Is(err, domain.ErrSlotNotAvailable) {
		t.Fatalf("expected ErrSlotNotAvailable for a started slot, got %v", err)
	}
}

func TestSlotService_Book_Concurrent(t *testing.T) {
	svc, clock, fx := newTestSlotService(t)
	x := fx.user(t, "x", domain.LevelAdvanced)
	slot := createTestSlot(t, svc, x.ID, clock.Now().Add(time.Hour))

	bookers := []*domain.User{
		fx.user(t, "b1", domain.LevelBeginner),
		fx.user(t, "b2", domain.LevelBeginner),
		fx.user(t, "b3", domain.LevelBeginner),
		fx.user(t, "b4", domain.LevelBeginner),
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for _, u := range bookers {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if _, err := svc.Book(context.Background(), id, slot.ID); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(u.ID)
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one booking to win, got %d", wins)
	}
}

func TestSlotService_Lists(t *testing.T) {
	svc, clock, fx := newTestSlotService(t)
	ctx := context.Background()
	x := fx.user(t, "x", domain.LevelAdvanced)
	y := fx.user(t, "y", domain.LevelAdvanced)

	now := clock.Now()
	soon := createTestSlot(t, svc, x.ID, now.Add(2*time.Hour))
	later := createTestSlot(t, svc, x.ID, now.Add(5*time.Hour))
	open := createTestSlot(t, svc, x.ID, now.Add(3*time.Hour))
	ownByY := createTestSlot(t, svc, y.ID, now.Add(4*time.Hour))
	for _, s := range []*domain.InterviewSlot{soon, later} {
		if _, err := svc.Book(ctx, y.ID, s.ID); err != nil {
			t.Fatalf("Book: %v", err)
		}
	}

	available, err := svc.Available(ctx, y.ID)
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if len(available) != 1 || available[0].ID != open.ID {
		t.Fatalf("expected only X's open slot, got %+v", available)
	}

	available, err = svc.Available(ctx, x.ID)
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if len(available) != 1 || available[0].ID != ownByY.ID {
		t.Fatalf("expected X to see only Y's slot, got %+v", available)
	}

	upcoming, err := svc.Upcoming(ctx, y.ID)
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}
	if len(upcoming) != 2 || upcoming[0].ID != soon.ID || upcoming[1].ID != later.ID {
		t.Fatalf("expected upcoming [soon later], got %+v", upcoming)
	}

	// Both booked interviews have ended; past is derived from the clock.
	clock.Advance(7 * time.Hour)

	past, err := svc.Past(ctx, y.ID)
	if err != nil {
		t.Fatalf("Past: %v", err)
	}
	if len(past) != 2 || past[0].ID != later.ID || past[1].ID != soon.ID {
		t.Fatalf("expected past [later soon], got %+v", past)
	}
	for _, s := range past {
		if s.Status != domain.SlotStatusCompleted {
			t.Fatalf("expected derived status completed, got %q", s.Status)
		}
	}

	mine, err := svc.Mine(ctx, x.ID)
	if err != nil {
		t.Fatalf("Mine: %v", err)
	}
	if len(mine.Upcoming) != 0 || len(mine.Past) != 2 {
		t.Fatalf("expected X to have 0 upcoming and 2 past, got %d/%d", len(mine.Upcoming), len(mine.Past))
	}
}

func TestSlotService_Cancel(t *testing.T) {
	svc, clock, fx := newTestSlotService(t)
	ctx := context.Background()
	x := fx.user(t, "x", domain.LevelAdvanced)
	y := fx.user(t, "y", domain.LevelAdvanced)
	z := fx.user(t, "z", domain.LevelAdvanced)

	slot := createTestSlot(t, svc, x.ID, clock.Now().Add(time.Hour))
	if _, err := svc.Book(ctx, y.ID, slot.ID); err != nil {
		t.Fatalf("Book: %v", err)
	}

	if _, err := svc.Cancel(ctx, z.ID, slot.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider, got %v", err)
	}

	reopened, err := svc.Cancel(ctx, y.ID, slot.ID)
	if err != nil {
		t.Fatalf("interviewee Cancel: %v", err)
	}
	if reopened.Status != domain.SlotStatusAvailable || reopened.IntervieweeID != nil {
		t.Fatalf("expected slot reopened, got %+v", reopened)
	}

	if _, err := svc.Book(ctx, z.ID, slot.ID); err != nil {
		t.Fatalf("rebook after reopen: %v", err)
	}

	cancelled, err := svc.Cancel(ctx, x.ID, slot.ID)
	if err != nil {
		t.Fatalf("interviewer Cancel: %v", err)
	}
	if cancelled.Status != domain.SlotStatusCancelled {
		t.Fatalf("expected cancelled, got %q", cancelled.Status)
	}

	if _, err := svc.Cancel(ctx, x.ID, slot.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSlotService_Cancel_Completed(t *testing.T) {
	svc, clock, fx := newTestSlotService(t)
	ctx := context.Background()
	x := fx.user(t, "x", domain.LevelAdvanced)
	y := fx.user(t, "y", domain.LevelAdvanced)

	slot := createTestSlot(t, svc, x.ID, clock.Now().Add(time.Hour))
	if _, err := svc.Book(ctx, y.ID, slot.ID); err != nil {
		t.Fatalf("Book: %v", err)
	}
	clock.Advance(3 * time.Hour)

	if _, err := svc.Cancel(ctx, y.ID, slot.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for completed slot, got %v", err)
	}
}

// interleavingSlots runs between once after the first GetByID, simulating
// a concurrent request landing between a read and the conditional write.
type interleavingSlots struct {
	domain.InterviewSlotRepository
	between func()
}

func (r *interleavingSlots) GetByID(ctx context.Context, id int64) (*domain.InterviewSlot, error) {
	slot, err := r.InterviewSlotRepository.GetByID(ctx, id)
	if r.between != nil {
		hook := r.between
		r.between = nil
		hook()
	}
	return slot, err
}

func TestSlotService_Cancel_StaleBooking(t *testing.T) {
	for _, tc := range []struct {
		name   string
		caller func(interviewer, interviewee int64) int64
	}{
		{"interviewee", func(_, interviewee int64) int64 { return interviewee }},
		{"interviewer", func(interviewer, _ int64) int64 { return interviewer }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			db := newTestDB(t)
			ctx := context.Background()
			repo := &interleavingSlots{InterviewSlotRepository: db.Slots()}
			svc := service.NewSlotService(repo)
			clock := newFakeClock()
			svc.SetClock(clock.Now)

			x := seedUser(t, db, "x", domain.LevelAdvanced)
			a := seedUser(t, db, "a", domain.LevelAdvanced)
			b := seedUser(t, db, "b", domain.LevelAdvanced)

			slot := createTestSlot(t, svc, x.ID, clock.Now().Add(time.Hour))
			if _, err := svc.Book(ctx, a.ID, slot.ID); err != nil {
				t.Fatalf("Book: %v", err)
			}

			// A releases the slot and B books it after the cancel has read it.
			repo.between = func() {
				if _, err := db.Slots().UpdateStatus(ctx, slot.ID,
					[]domain.SlotStatus{domain.SlotStatusBooked}, &a.ID, domain.SlotStatusAvailable, nil); err != nil {
					t.Errorf("release: %v", err)
				}
				if _, err := db.Slots().Book(ctx, slot.ID, b.ID); err != nil {
					t.Errorf("rebook: %v", err)
				}
			}

			_, err := svc.Cancel(ctx, tc.caller(x.ID, a.ID), slot.ID)
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition for a stale cancel, got %v", err)
			}

			got, err := svc.Get(ctx, slot.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Status != domain.SlotStatusBooked || got.IntervieweeID == nil || *got.IntervieweeID != b.ID {
				t.Fatalf("expected B's booking to survive, got status=%s interviewee=%v", got.Status, got.IntervieweeID)
			}
		})
	}
}

func TestSlotService_UpdateMeetingLink(t *testing.T) {
	svc, clock, fx := newTestSlotService(t)
	ctx := context.Background()
	x := fx.user(t, "x", domain.LevelAdvanced)
	y := fx.user(t, "y", domain.LevelAdvanced)
	slot := createTestSlot(t, svc, x.ID, clock.Now().Add(time.Hour))

	if _, err := svc.UpdateMeetingLink(ctx, y.ID, slot.ID, "https://zoom.us/j/1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.UpdateMeetingLink(ctx, x.ID, slot.ID, "  "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	updated, err := svc.UpdateMeetingLink(ctx, x.ID, slot.ID, "https://zoom.us/j/1")
	if err != nil {
		t.Fatalf("UpdateMeetingLink: %v", err)
	}
	if updated.MeetingLink != "https://zoom.us/j/1" {
		t.Fatalf("expected link set, got %q", updated.MeetingLink)
	}
}

func TestSlotService_CompleteEnded(t *testing.T) {
	svc, clock, fx := newTestSlotService(t)
	ctx := context.Background()
	x := fx.user(t, "x", domain.LevelAdvanced)
	y := fx.user(t, "y", domain.LevelAdvanced)

	done := createTestSlot(t, svc, x.ID, clock.Now().Add(time.Hour))
	pending := createTestSlot(t, svc, x.ID, clock.Now().Add(10*time.Hour))
	for _, s := range []*domain.InterviewSlot{done, pending} {
		if _, err := svc.Book(ctx, y.ID, s.ID); err != nil {
			t.Fatalf("Book: %v", err)
		}
	}
	clock.Advance(3 * time.Hour)

	n, err := svc.CompleteEnded(ctx)
	if err != nil {
		t.Fatalf("CompleteEnded: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 slot completed, got %d", n)
	}

	stored, err := fx.db.Slots().GetByID(ctx, done.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != domain.SlotStatusCompleted {
		t.Fatalf("expected stored status completed, got %q", stored.Status)
	}
}
