package screens

import (
	"context"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/manualbox/internal/container"
	"git.home.luguber.info/inful/manualbox/internal/errors"
	"git.home.luguber.info/inful/manualbox/internal/eventbus"
	"git.home.luguber.info/inful/manualbox/internal/models"
	"git.home.luguber.info/inful/manualbox/internal/store"
)

// WarrantiesState is the Warranties screen state.
type WarrantiesState struct {
	Loading    bool
	ErrMsg     string
	Warranties []models.Warranty
	// Filter narrows the visible list to one status; StatusActive, StatusExpiringSoon,
	// StatusExpired, or empty for all.
	Filter models.WarrantyStatus
}

func (s WarrantiesState) IsLoading() bool      { return s.Loading }
func (s WarrantiesState) ErrorMessage() string { return s.ErrMsg }
func (s WarrantiesState) WithLoading(v bool) WarrantiesState {
	s.Loading = v
	return s
}
func (s WarrantiesState) WithError(msg string) WarrantiesState {
	s.ErrMsg = msg
	return s
}
func (s WarrantiesState) ClearError() WarrantiesState {
	s.ErrMsg = ""
	return s
}

// Visible returns the warranties matching the current filter.
func (s WarrantiesState) Visible(now time.Time, window time.Duration) []models.Warranty {
	if s.Filter == "" {
		return s.Warranties
	}
	var out []models.Warranty
	for _, w := range s.Warranties {
		if w.Status(now, window) == s.Filter {
			out = append(out, w)
		}
	}
	return out
}

// WarrantiesAction is the closed action set for the Warranties screen.
type WarrantiesAction interface{ isWarrantiesAction() }

// LoadWarranties reloads the list from the store.
type LoadWarranties struct{}

// SetWarrantyFilter changes the status filter.
type SetWarrantyFilter struct{ Status models.WarrantyStatus }

// SaveWarranty creates or updates a warranty.
type SaveWarranty struct{ Warranty models.Warranty }

// DeleteWarranty removes a warranty by ID.
type DeleteWarranty struct{ ID string }

func (LoadWarranties) isWarrantiesAction()    {}
func (SetWarrantyFilter) isWarrantiesAction() {}
func (SaveWarranty) isWarrantiesAction()      {}
func (DeleteWarranty) isWarrantiesAction()    {}

// WarrantiesContainer drives the Warranties screen.
type WarrantiesContainer struct {
	*container.Container[WarrantiesState, WarrantiesAction]
	repo store.WarrantyRepo
}

// NewWarranties constructs the Warranties container and subscribes it to
// DataChangeEvents so external warranty changes refresh the list.
func NewWarranties(repo store.WarrantyRepo, deps container.Deps) *WarrantiesContainer {
	c := &WarrantiesContainer{repo: repo}
	c.Container = container.New[WarrantiesState, WarrantiesAction](
		"warranties", WarrantiesState{}, (*warrantiesHandler)(c), deps)

	if deps.Bus != nil {
		deps.Bus.Subscribe("DataChangeEvent", c.Name(), func(e eventbus.Event) {
			change, ok := e.(eventbus.DataChangeEvent)
			if ok && change.EntityType == "Warranty" {
				c.Send(LoadWarranties{})
			}
		})
	}
	return c
}

type warrantiesHandler WarrantiesContainer

func (h *warrantiesHandler) Handle(ctx context.Context, action WarrantiesAction) {
	c := (*WarrantiesContainer)(h)
	switch a := action.(type) {
	case LoadWarranties:
		c.load(ctx)
	case SetWarrantyFilter:
		c.UpdateState(func(s WarrantiesState) WarrantiesState {
			s.Filter = a.Status
			return s
		})
	case SaveWarranty:
		c.save(ctx, a.Warranty)
	case DeleteWarranty:
		c.delete(ctx, a.ID)
	}
}

func (c *WarrantiesContainer) load(ctx context.Context) {
	got := container.PerformTask(c.Container, ctx, "loadWarranties",
		func(ctx context.Context) ([]models.Warranty, error) {
			return c.repo.FetchAll(ctx)
		})
	if list, ok := got.Get(); ok {
		c.UpdateState(func(s WarrantiesState) WarrantiesState {
			s.Warranties = list
			return s
		})
	}
}

func (c *WarrantiesContainer) save(ctx context.Context, w models.Warranty) {
	if w.ProductID == "" {
		c.Fail(errors.ValidationError("A warranty must belong to a product").Build(), "saveWarranty")
		return
	}
	if !w.ExpiresAt.After(w.StartsAt) {
		c.Fail(errors.ValidationError("Warranty expiry must be after its start date").Build(), "saveWarranty")
		return
	}

	creating := w.ID == ""
	now := time.Now().UTC()
	if creating {
		w.ID = uuid.NewString()
		w.CreatedAt = now
	}
	w.UpdatedAt = now

	got := container.PerformTask(c.Container, ctx, "saveWarranty",
		func(ctx context.Context) (models.Warranty, error) {
			if creating {
				return w, c.repo.Create(ctx, w)
			}
			return w, c.repo.Save(ctx, w)
		})

	if saved, ok := got.Get(); ok {
		change := eventbus.ChangeUpdated
		if creating {
			change = eventbus.ChangeCreated
		}
		c.load(ctx)
		c.publishChange(saved.ID, change)
	}
}

func (c *WarrantiesContainer) delete(ctx context.Context, id string) {
	got := container.PerformTask(c.Container, ctx, "deleteWarranty",
		func(ctx context.Context) (string, error) {
			if err := c.repo.Delete(ctx, id); err != nil {
				return "", err
			}
			return id, nil
		})

	if deleted, ok := got.Get(); ok {
		c.UpdateState(func(s WarrantiesState) WarrantiesState {
			kept := s.Warranties[:0:0]
			for _, w := range s.Warranties {
				if w.ID != deleted {
					kept = append(kept, w)
				}
			}
			s.Warranties = kept
			return s
		})
		c.publishChange(deleted, eventbus.ChangeDeleted)
	}
}

func (c *WarrantiesContainer) publishChange(id string, change eventbus.ChangeKind) {
	if bus := c.Deps().Bus; bus != nil {
		bus.Publish(eventbus.NewDataChange("Warranty", id, change))
	}
}
