package notify

import (
	"context"
	"log"
	"time"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

// Sender pushes one staged outbox event downstream.
type Sender func(ctx context.Context, ob *models.NotificationOutbox) error

// OutboxRelayer periodically drains pending outbox rows to the sender. A
// failed send marks the row for retry; the primary notification row is
// untouched either way.
type OutboxRelayer struct {
	store     Store
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(store Store, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		store:     store,
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run drains the outbox until ctx is cancelled.
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.store.PendingOutbox(ctx, r.batchSize)
	if err != nil {
		log.Printf("notify: outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err := r.sender(ctx, &ob); err != nil {
			if err := r.store.MarkOutboxFailed(ctx, ob.ID); err != nil {
				log.Printf("notify: outbox retry mark err: %v", err)
			}
			continue
		}
		if err := r.store.MarkOutboxSent(ctx, ob.ID); err != nil {
			log.Printf("notify: outbox sent mark err: %v", err)
		}
	}
}

// LogSender is the fallback sender when no broker is configured: events are
// only logged.
func LogSender(_ context.Context, ob *models.NotificationOutbox) error {
	log.Printf("notify: OUTBOX SEND type=%s user=%s payload=%s", ob.EventType, ob.UserID, ob.Payload)
	return nil
}
