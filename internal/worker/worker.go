// Package worker runs background maintenance on an asynq queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TypeCompleteSlots marks booked interviews whose end time has passed
	// as completed.
	TypeCompleteSlots = "slots:complete"

	queueName       = "maintenance"
	defaultInterval = time.Minute
)

// SlotCompleter is the part of the slot service the sweep needs.
type SlotCompleter interface {
	CompleteEnded(ctx context.Context) (int64, error)
}

// NewCompleteSlotsTask builds the sweep task. It carries no payload.
func NewCompleteSlotsTask() *asynq.Task {
	return asynq.NewTask(TypeCompleteSlots, nil, asynq.Queue(queueName), asynq.MaxRetry(0))
}

// Handler executes worker tasks.
type Handler struct {
	slots SlotCompleter
}

func NewHandler(slots SlotCompleter) *Handler {
	return &Handler{slots: slots}
}

// ProcessTask implements asynq.Handler.
func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	if task.Type() != TypeCompleteSlots {
		return fmt.Errorf("unexpected task type %q: %w", task.Type(), asynq.SkipRetry)
	}

	n, err := h.slots.CompleteEnded(ctx)
	if err != nil {
		return fmt.Errorf("complete ended slots: %w", err)
	}
	if n > 0 {
		slog.Info("completed ended interviews", "count", n)
	}
	return nil
}

// Processor owns the asynq server that drains the maintenance queue and the
// ticker that feeds it.
type Processor struct {
	handler  *Handler
	server   *asynq.Server
	client   *asynq.Client
	interval time.Duration
	cancel   context.CancelFunc
}

// NewProcessor connects to the Redis instance at redisURL. An interval <= 0
// sweeps once a minute.
func NewProcessor(slots SlotCompleter, redisURL string, interval time.Duration) (*Processor, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if interval <= 0 {
		interval = defaultInterval
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{queueName: 1},
		Logger:      slogLogger{},
		LogLevel:    asynq.WarnLevel,
	})

	return &Processor{
		handler:  NewHandler(slots),
		server:   server,
		client:   asynq.NewClient(opt),
		interval: interval,
	}, nil
}

// Start runs the server in the background and begins enqueueing a sweep
// every interval until Stop is called or ctx is done.
func (p *Processor) Start(ctx context.Context) error {
	mux := asynq.NewServeMux()
	mux.Handle(TypeCompleteSlots, p.handler)

	if err := p.server.Start(mux); err != nil {
		return fmt.Errorf("start asynq server: %w", err)
	}

	ctx, p.cancel = context.WithCancel(ctx)
	go p.schedule(ctx)

	slog.Info("slot sweeper started", "interval", p.interval)
	return nil
}

// Stop halts scheduling and waits for in-flight tasks to finish.
func (p *Processor) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.server.Shutdown()
	if err := p.client.Close(); err != nil {
		slog.Warn("close asynq client", "error", err)
	}
}

// Enqueue schedules one sweep. A sweep still pending from the previous tick
// is not duplicated.
func (p *Processor) Enqueue(ctx context.Context) error {
	_, err := p.client.EnqueueContext(ctx, NewCompleteSlotsTask(), asynq.Unique(p.interval))
	if err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		return fmt.Errorf("enqueue %s: %w", TypeCompleteSlots, err)
	}
	return nil
}

func (p *Processor) schedule(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Enqueue(ctx); err != nil {
				slog.Error("enqueue slot sweep", "error", err)
			}
		}
	}
}
