// Package eventbus implements the in-process publish/subscribe channel that
// decouples screens from each other. Delivery is synchronous and ordered
// within an event type; a bounded ring of recent events is retained for
// inspection and debugging.
package eventbus

import (
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/manualbox/internal/logfields"
	"git.home.luguber.info/inful/manualbox/internal/metrics"
)

// DefaultHistoryCap bounds the retained event history.
const DefaultHistoryCap = 1000

// Handler receives a published event. Handlers run synchronously on the
// publishing goroutine; a panicking handler is isolated and does not block
// delivery to later handlers.
type Handler func(Event)

// Archiver receives every published event for durable storage. Archive errors
// are logged, never propagated to publishers.
type Archiver interface {
	Archive(Event) error
}

// Subscription is the registration token returned by Subscribe. Cancelling it
// removes the registration; the bus never keeps a subscriber alive beyond its
// token.
type Subscription struct {
	bus       *Bus
	eventType string
	owner     string
	id        uint64
	once      sync.Once
}

// Cancel removes this registration. Safe to call multiple times.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.bus.remove(s.eventType, s.id)
	})
}

type registration struct {
	id      uint64
	owner   string
	handler Handler
}

// Bus is the process-wide event broadcaster. Construct one per process (or
// per test) and inject it; there is no package-level instance.
type Bus struct {
	mu       sync.Mutex
	nextID   uint64
	subs     map[string][]registration
	history  []Event
	last     map[string]Event
	cap      int
	archiver Archiver
	recorder metrics.Recorder
	logger   *slog.Logger
}

// New creates a Bus with the given history capacity; cap <= 0 selects
// DefaultHistoryCap.
func New(historyCap int, logger *slog.Logger) *Bus {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:     make(map[string][]registration),
		last:     make(map[string]Event),
		cap:      historyCap,
		recorder: metrics.NoopRecorder{},
		logger:   logger,
	}
}

// SetRecorder attaches a metrics recorder. Pass nil to restore the no-op.
func (b *Bus) SetRecorder(r metrics.Recorder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	b.recorder = r
}

// SetArchiver attaches a durable event journal. Pass nil to detach.
func (b *Bus) SetArchiver(a Archiver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.archiver = a
}

// Subscribe registers a handler for the given event type on behalf of owner.
// Multiple subscriptions per owner (for different types) are independent.
func (b *Bus) Subscribe(eventType, owner string, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	reg := registration{id: b.nextID, owner: owner, handler: handler}
	b.subs[eventType] = append(b.subs[eventType], reg)

	return &Subscription{bus: b, eventType: eventType, owner: owner, id: reg.id}
}

// Unsubscribe removes every registration held by owner across all event
// types. Safe no-op when none exist.
func (b *Bus) Unsubscribe(owner string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for eventType := range b.subs {
		b.subs[eventType] = filterOwner(b.subs[eventType], owner)
	}
}

// UnsubscribeType removes owner's registrations for a single event type.
func (b *Bus) UnsubscribeType(eventType, owner string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventType] = filterOwner(b.subs[eventType], owner)
}

func filterOwner(regs []registration, owner string) []registration {
	out := regs[:0]
	for _, r := range regs {
		if r.owner != owner {
			out = append(out, r)
		}
	}
	return out
}

func (b *Bus) remove(eventType string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	regs := b.subs[eventType]
	out := regs[:0]
	for _, r := range regs {
		if r.id != id {
			out = append(out, r)
		}
	}
	b.subs[eventType] = out
}

// Publish appends the event to history, updates the last-event marker, then
// delivers to every registered handler for the event's type in registration
// order. Delivery is not transactional: each handler runs isolated, so one
// failing subscriber cannot block the rest.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	b.history = append(b.history, event)
	if len(b.history) > b.cap {
		b.history = b.history[len(b.history)-b.cap:]
	}
	b.last[event.Type()] = event

	handlers := make([]Handler, len(b.subs[event.Type()]))
	for i, r := range b.subs[event.Type()] {
		handlers[i] = r.handler
	}
	archiver := b.archiver
	recorder := b.recorder
	b.mu.Unlock()

	recorder.IncEventPublished(event.Type())

	if archiver != nil {
		if err := archiver.Archive(event); err != nil {
			b.logger.Warn("event archive failed",
				logfields.EventType(event.Type()),
				logfields.Error(err))
		}
	}

	for _, h := range handlers {
		b.deliver(h, event)
	}
}

func (b *Bus) deliver(h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				logfields.EventType(event.Type()),
				logfields.EventID(event.ID()),
				slog.Any("panic", r))
		}
	}()
	h(event)
}

// History returns up to limit events of the given type, newest first.
// limit <= 0 returns all retained events of that type.
func (b *Bus) History(eventType string, limit int) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Event
	for i := len(b.history) - 1; i >= 0; i-- {
		if b.history[i].Type() != eventType {
			continue
		}
		out = append(out, b.history[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Last returns the most recent event of the given type, if any.
func (b *Bus) Last(eventType string) (Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.last[eventType]
	return e, ok
}

// HistoryLen returns the number of retained events across all types.
func (b *Bus) HistoryLen() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.history)
}

// SubscriberCount returns the number of live registrations for an event type.
func (b *Bus) SubscriberCount(eventType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[eventType])
}
