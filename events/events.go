package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePaymentConfirmed    EventType = "payment_confirmed"
	EventTypePaymentClosed       EventType = "payment_closed"
	EventTypeParticipationMerged EventType = "participation_merged"
	EventTypeContestSoldOut      EventType = "contest_sold_out"
	EventTypeQuotasGranted       EventType = "quotas_granted"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PaymentConfirmedEvent fires when a payment record transitions to paid
type PaymentConfirmedEvent struct {
	PaymentID  string
	UserID     string
	ContestID  string
	QuotaCount int64
	Amount     int64
}

func (e PaymentConfirmedEvent) Type() EventType {
	return EventTypePaymentConfirmed
}

// PaymentClosedEvent fires when a pending payment is cancelled or expires
// and its reserved quotas are released
type PaymentClosedEvent struct {
	PaymentID      string
	ContestID      string
	QuotasReleased int64
	FinalStatus    string
}

func (e PaymentClosedEvent) Type() EventType {
	return EventTypePaymentClosed
}

// ParticipationMergedEvent fires after quotas are merged into a
// participation row, whether it was created or updated
type ParticipationMergedEvent struct {
	ParticipationID string
	UserID          string
	ContestID       string
	QuotasAdded     int64
	TotalQuotas     int64
	Created         bool
}

func (e ParticipationMergedEvent) Type() EventType {
	return EventTypeParticipationMerged
}

// ContestSoldOutEvent fires when a reservation takes a contest to capacity
type ContestSoldOutEvent struct {
	ContestID string
	MaxQuotas int64
}

func (e ContestSoldOutEvent) Type() EventType {
	return EventTypeContestSoldOut
}

// QuotasGrantedEvent fires when an admin grants quotas outside the gateway
type QuotasGrantedEvent struct {
	ContestID  string
	UserID     string
	QuotaCount int64
}

func (e QuotasGrantedEvent) Type() EventType {
	return EventTypeQuotasGranted
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus stashes events published during a unit of work and
// flushes them to the real bus only after the transaction commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after a successful commit; uses a
// background context so event handling outlives the request's deadline.
func (b *TransactionalBus) Flush(ctx context.Context) {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events. Called after rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
