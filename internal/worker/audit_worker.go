// Package worker consumes ledger events and records them in the audit log.
package worker

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// AuditStore persists audit entries.
type AuditStore interface {
	AppendAudit(ctx context.Context, e storage.AuditEntry) (bool, error)
}

// AuditWorker turns ledger events into audit log rows.
type AuditWorker struct {
	store  AuditStore
	now    func() time.Time
	logger *log.Logger
}

func NewAuditWorker(store AuditStore, logger *log.Logger) *AuditWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &AuditWorker{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleLedgerEvent records e. Redelivered events are acknowledged without
// writing a second row.
func (w *AuditWorker) HandleLedgerEvent(ctx context.Context, e *amqp.LedgerEvent) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid ledger event: %w", err)
	}

	inserted, err := w.store.AppendAudit(ctx, storage.AuditEntry{
		EventID:     e.EventID,
		UserID:      core.UserID(e.UserID),
		Action:      e.Action,
		EntityID:    e.EntityID,
		Category:    e.Category,
		AmountCents: e.AmountCents,
		Kind:        e.Kind,
		OccurredAt:  e.OccurredAt,
		RecordedAt:  w.now(),
	})
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}

	if !inserted {
		w.logger.DebugContext(ctx, "Duplicate ledger event ignored", "event_id", e.EventID)
		return nil
	}
	w.logger.InfoContext(ctx, "Ledger event recorded",
		"event_id", e.EventID,
		log.FieldAction, e.Action,
		log.FieldUserID, e.UserID)
	return nil
}

// Run consumes events until ctx is cancelled.
func (w *AuditWorker) Run(ctx context.Context, consumer interface {
	ConsumeLedgerEvents(ctx context.Context, handler func(context.Context, *amqp.LedgerEvent) error) error
}) error {
	w.logger.InfoContext(ctx, "Audit worker started", log.FieldOperation, log.OpConsume)
	err := consumer.ConsumeLedgerEvents(ctx, w.HandleLedgerEvent)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
