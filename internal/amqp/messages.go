package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Ledger event actions
const (
	ActionTransactionCreated = "transaction.created"
	ActionTransactionUpdated = "transaction.updated"
	ActionTransactionDeleted = "transaction.deleted"
	ActionBudgetSet          = "budget.set"
)

// LedgerEvent describes one committed change to a user's ledger or budgets.
// EventID is unique per event so consumers can discard redeliveries.
type LedgerEvent struct {
	EventID     string    `json:"event_id"`
	Action      string    `json:"action"`
	UserID      int64     `json:"user_id"`
	EntityID    int64     `json:"entity_id"`
	Category    string    `json:"category,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	Kind        string    `json:"kind,omitempty"`
	Year        int       `json:"year,omitempty"`
	Month       int       `json:"month,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewLedgerEvent creates an event with a fresh id and the current time
func NewLedgerEvent(action string, userID, entityID int64) *LedgerEvent {
	return &LedgerEvent{
		EventID:    uuid.NewString(),
		Action:     action,
		UserID:     userID,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
}

func (e *LedgerEvent) Validate() error {
	if e.EventID == "" {
		return errors.New("missing event id")
	}
	if e.UserID <= 0 {
		return errors.New("missing user id")
	}
	switch e.Action {
	case ActionTransactionCreated, ActionTransactionUpdated, ActionTransactionDeleted, ActionBudgetSet:
		return nil
	default:
		return errors.New("unknown action " + e.Action)
	}
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes an event from a delivery body
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
