// Package events publishes ledger mutation notifications. Delivery is
// best effort: the services log publish failures and carry on.
package events

import (
	"context"
	"time"
)

// Event types double as AMQP routing keys.
const (
	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
	BudgetCreated      = "budget.created"
	BudgetUpdated      = "budget.updated"
	BudgetDeleted      = "budget.deleted"
)

type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	EntityID   string    `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps an event of type typ with the current time.
func New(typ, userID, entityID string) Event {
	return Event{Type: typ, UserID: userID, EntityID: entityID, OccurredAt: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
