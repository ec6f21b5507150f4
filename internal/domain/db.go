package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (memory, SQLite, Postgres) owns its own migration
// strategy and hands out the repositories the services depend on.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error

	Users() UserRepository
	MatchRequests() MatchRequestRepository
	Slots() InterviewSlotRepository
}
