package eventbus

import (
	"time"

	"github.com/google/uuid"
)

// Event is a tagged record broadcast on the bus. Type returns the tag used
// for subscription matching and history queries.
type Event interface {
	ID() string
	Type() string
	Timestamp() time.Time
}

// BaseEvent provides the common identity fields for concrete events.
type BaseEvent struct {
	EventID        string
	EventTimestamp time.Time
}

func (e BaseEvent) ID() string           { return e.EventID }
func (e BaseEvent) Timestamp() time.Time { return e.EventTimestamp }

// NewBaseEvent stamps a fresh identity.
func NewBaseEvent() BaseEvent {
	return BaseEvent{
		EventID:        uuid.NewString(),
		EventTimestamp: time.Now(),
	}
}

// ChangeKind describes what happened to an entity.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// DataChangeEvent announces that a persisted entity changed.
type DataChangeEvent struct {
	BaseEvent
	EntityType string
	EntityID   string
	Change     ChangeKind
}

func (DataChangeEvent) Type() string { return "DataChangeEvent" }

// NewDataChange creates a stamped DataChangeEvent.
func NewDataChange(entityType, entityID string, change ChangeKind) DataChangeEvent {
	return DataChangeEvent{
		BaseEvent:  NewBaseEvent(),
		EntityType: entityType,
		EntityID:   entityID,
		Change:     change,
	}
}

// ErrorEvent broadcasts a classified failure so any screen can surface it.
// Suggestions carries the human descriptions of the advised recovery actions,
// most preferred first; empty when no advisor is wired.
type ErrorEvent struct {
	BaseEvent
	Context     string
	Category    string
	Message     string
	Suggestions []string
}

func (ErrorEvent) Type() string { return "ErrorEvent" }

// NewErrorEvent creates a stamped ErrorEvent.
func NewErrorEvent(context, category, message string, suggestions ...string) ErrorEvent {
	return ErrorEvent{
		BaseEvent:   NewBaseEvent(),
		Context:     context,
		Category:    category,
		Message:     message,
		Suggestions: suggestions,
	}
}

// NavigationEvent requests a screen change.
type NavigationEvent struct {
	BaseEvent
	Destination string
	EntityID    string
}

func (NavigationEvent) Type() string { return "NavigationEvent" }

// NewNavigation creates a stamped NavigationEvent.
func NewNavigation(destination, entityID string) NavigationEvent {
	return NavigationEvent{
		BaseEvent:   NewBaseEvent(),
		Destination: destination,
		EntityID:    entityID,
	}
}

// PerformanceEvent carries a named measurement (action latency, sweep
// duration, statistics refresh).
type PerformanceEvent struct {
	BaseEvent
	Name     string
	Duration time.Duration
}

func (PerformanceEvent) Type() string { return "PerformanceEvent" }

// NewPerformance creates a stamped PerformanceEvent.
func NewPerformance(name string, d time.Duration) PerformanceEvent {
	return PerformanceEvent{
		BaseEvent: NewBaseEvent(),
		Name:      name,
		Duration:  d,
	}
}

// ConfigReloaded announces that the configuration file was reloaded.
type ConfigReloaded struct {
	BaseEvent
	Path string
}

func (ConfigReloaded) Type() string { return "ConfigReloaded" }

// NewConfigReloaded creates a stamped ConfigReloaded event.
func NewConfigReloaded(path string) ConfigReloaded {
	return ConfigReloaded{BaseEvent: NewBaseEvent(), Path: path}
}

// WarrantyExpiring announces that a warranty enters its expiry window.
type WarrantyExpiring struct {
	BaseEvent
	WarrantyID string
	ProductID  string
	ExpiresAt  time.Time
}

func (WarrantyExpiring) Type() string { return "WarrantyExpiring" }

// NewWarrantyExpiring creates a stamped WarrantyExpiring event.
func NewWarrantyExpiring(warrantyID, productID string, expiresAt time.Time) WarrantyExpiring {
	return WarrantyExpiring{
		BaseEvent:  NewBaseEvent(),
		WarrantyID: warrantyID,
		ProductID:  productID,
		ExpiresAt:  expiresAt,
	}
}
