// Package memory implements the domain repositories over in-process maps
// keyed by incrementing integer ids. It is meant for development and tests;
// nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/msomdec/mockmatch/internal/domain"
)

// DB holds every entity map behind one mutex so that check-then-set
// operations (booking, status transitions) are atomic.
type DB struct {
	mu  sync.Mutex
	now func() time.Time

	users         map[int64]domain.User
	matchRequests map[int64]domain.MatchRequest
	slots         map[int64]domain.InterviewSlot

	nextUserID    int64
	nextRequestID int64
	nextSlotID    int64
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		now:           func() time.Time { return time.Now().UTC() },
		users:         make(map[int64]domain.User),
		matchRequests: make(map[int64]domain.MatchRequest),
		slots:         make(map[int64]domain.InterviewSlot),
	}
}

// Migrate is a no-op; the maps need no schema.
func (db *DB) Migrate(ctx context.Context) error { return nil }

// Close is a no-op.
func (db *DB) Close() error { return nil }

func (db *DB) Users() domain.UserRepository                 { return &UserRepository{db: db} }
func (db *DB) MatchRequests() domain.MatchRequestRepository { return &MatchRequestRepository{db: db} }
func (db *DB) Slots() domain.InterviewSlotRepository        { return &SlotRepository{db: db} }

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
