// Package screens holds the concrete state containers behind each screen:
// the per-screen state value, its closed action set, and the handler that
// drives the persistence collaborators.
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

// CategoriesState is the Categories screen state.
type CategoriesState struct {
	Loading      bool
	ErrMsg       string
	Categories   []models.Category
	ShowAddSheet bool
	Saving       bool
	SaveError    string
}

func (s CategoriesState) IsLoading() bool      { return s.Loading }
func (s CategoriesState) ErrorMessage() string { return s.ErrMsg }
func (s CategoriesState) WithLoading(v bool) CategoriesState {
	s.Loading = v
	return s
}
func (s CategoriesState) WithError(msg string) CategoriesState {
	s.ErrMsg = msg
	return s
}
func (s CategoriesState) ClearError() CategoriesState {
	s.ErrMsg = ""
	return s
}

// CategoriesAction is the closed action set for the Categories screen.
type CategoriesAction interface{ isCategoriesAction() }

// LoadCategories reloads the list from the store.
type LoadCategories struct{}

// ToggleAddSheet shows or hides the add-category sheet.
type ToggleAddSheet struct{}

// SaveCategory creates a category from the add sheet's fields.
type SaveCategory struct {
	Name  string
	Icon  models.CategoryIcon
	Color models.CategoryColor
}

// DeleteCategory removes a category by ID.
type DeleteCategory struct{ ID string }

func (LoadCategories) isCategoriesAction() {}
func (ToggleAddSheet) isCategoriesAction() {}
func (SaveCategory) isCategoriesAction()   {}
func (DeleteCategory) isCategoriesAction() {}

// CategoriesContainer drives the Categories screen.
type CategoriesContainer struct {
	*container.Container[CategoriesState, CategoriesAction]
	repo store.CategoryRepo
}

// NewCategories constructs the Categories container and subscribes it to
// DataChangeEvents so external changes refresh the list.
func NewCategories(repo store.CategoryRepo, deps container.Deps) *CategoriesContainer {
	c := &CategoriesContainer{repo: repo}
	c.Container = container.New[CategoriesState, CategoriesAction](
		"categories", CategoriesState{}, (*categoriesHandler)(c), deps)

	if deps.Bus != nil {
		deps.Bus.Subscribe("DataChangeEvent", c.Name(), func(e eventbus.Event) {
			change, ok := e.(eventbus.DataChangeEvent)
			if ok && change.EntityType == "Category" {
				c.Send(LoadCategories{})
			}
		})
	}
	return c
}

// categoriesHandler carries the required action handling; a separate type so
// the container cannot be built without it.
type categoriesHandler CategoriesContainer

func (h *categoriesHandler) Handle(ctx context.Context, action CategoriesAction) {
	c := (*CategoriesContainer)(h)
	switch a := action.(type) {
	case LoadCategories:
		c.load(ctx)
	case ToggleAddSheet:
		c.UpdateState(func(s CategoriesState) CategoriesState {
			s.ShowAddSheet = !s.ShowAddSheet
			return s
		})
	case SaveCategory:
		c.save(ctx, a)
	case DeleteCategory:
		c.delete(ctx, a.ID)
	}
}

func (c *CategoriesContainer) load(ctx context.Context) {
	got := container.PerformTask(c.Container, ctx, "loadCategories",
		func(ctx context.Context) ([]models.Category, error) {
			return c.repo.FetchAll(ctx)
		})
	if list, ok := got.Get(); ok {
		c.UpdateState(func(s CategoriesState) CategoriesState {
			s.Categories = list
			return s
		})
	}
}

func (c *CategoriesContainer) save(ctx context.Context, a SaveCategory) {
	name := normalizeName(a.Name)
	if name == "" {
		err := errors.ValidationError("Category name cannot be empty").Build()
		msg := errors.Classify(err, "saveCategory")
		c.UpdateState(func(s CategoriesState) CategoriesState {
			s.Saving = false
			s.SaveError = msg
			return s
		})
		c.Fail(err, "saveCategory")
		return
	}

	key := nameKey(name)
	for _, existing := range c.State().Categories {
		if nameKey(existing.Name) == key {
			err := errors.ValidationError("A category with this name already exists").Build()
			msg := errors.Classify(err, "saveCategory")
			c.UpdateState(func(s CategoriesState) CategoriesState {
				s.Saving = false
				s.SaveError = msg
				return s
			})
			c.Fail(err, "saveCategory")
			return
		}
	}

	c.UpdateState(func(s CategoriesState) CategoriesState {
		s.Saving = true
		s.SaveError = ""
		return s
	})

	now := time.Now().UTC()
	cat := models.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Icon:      a.Icon,
		Color:     a.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	got := container.PerformTask(c.Container, ctx, "saveCategory",
		func(ctx context.Context) (models.Category, error) {
			if err := c.repo.Create(ctx, cat); err != nil {
				return models.Category{}, err
			}
			return cat, nil
		})

	if saved, ok := got.Get(); ok {
		c.UpdateState(func(s CategoriesState) CategoriesState {
			s.Saving = false
			s.ShowAddSheet = false
			s.Categories = append(s.Categories, saved)
			return s
		})
		c.publishChange(saved.ID, eventbus.ChangeCreated)
	} else {
		c.UpdateState(func(s CategoriesState) CategoriesState {
			s.Saving = false
			s.SaveError = s.ErrMsg
			return s
		})
	}
}

func (c *CategoriesContainer) delete(ctx context.Context, id string) {
	got := container.PerformTask(c.Container, ctx, "deleteCategory",
		func(ctx context.Context) (string, error) {
			if err := c.repo.Delete(ctx, id); err != nil {
				return "", err
			}
			return id, nil
		})

	if deleted, ok := got.Get(); ok {
		c.UpdateState(func(s CategoriesState) CategoriesState {
			kept := s.Categories[:0:0]
			for _, cat := range s.Categories {
				if cat.ID != deleted {
					kept = append(kept, cat)
				}
			}
			s.Categories = kept
			return s
		})
		c.publishChange(deleted, eventbus.ChangeDeleted)
	}
}

func (c *CategoriesContainer) publishChange(id string, change eventbus.ChangeKind) {
	if bus := c.Deps().Bus; bus != nil {
		bus.Publish(eventbus.NewDataChange("Category", id, change))
	}
}
