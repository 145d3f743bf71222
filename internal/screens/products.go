package screens

import (
	"context"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/manualbox/internal/container"
	"git.home.luguber.info/inful/manualbox/internal/errors"
	"git.home.luguber.info/inful/manualbox/internal/eventbus"
	"git.home.luguber.info/inful/manualbox/internal/foundation"
	"git.home.luguber.info/inful/manualbox/internal/models"
	"git.home.luguber.info/inful/manualbox/internal/store"
)

// ProductsState is the Products screen state.
type ProductsState struct {
	Loading  bool
	ErrMsg   string
	Products []models.Product
	Selected foundation.Option[models.Product]
}

func (s ProductsState) IsLoading() bool      { return s.Loading }
func (s ProductsState) ErrorMessage() string { return s.ErrMsg }
func (s ProductsState) WithLoading(v bool) ProductsState {
	s.Loading = v
	return s
}
func (s ProductsState) WithError(msg string) ProductsState {
	s.ErrMsg = msg
	return s
}
func (s ProductsState) ClearError() ProductsState {
	s.ErrMsg = ""
	return s
}

// ProductsAction is the closed action set for the Products screen.
type ProductsAction interface{ isProductsAction() }

// LoadProducts reloads the list from the store.
type LoadProducts struct{}

// SelectProduct loads one product into the detail selection.
type SelectProduct struct{ ID string }

// SaveProduct creates or updates a product.
type SaveProduct struct{ Product models.Product }

// DeleteProduct removes a product by ID.
type DeleteProduct struct{ ID string }

func (LoadProducts) isProductsAction()  {}
func (SelectProduct) isProductsAction() {}
func (SaveProduct) isProductsAction()   {}
func (DeleteProduct) isProductsAction() {}

// ProductsContainer drives the Products screen.
type ProductsContainer struct {
	*container.Container[ProductsState, ProductsAction]
	repo store.ProductRepo
}

// NewProducts constructs the Products container.
func NewProducts(repo store.ProductRepo, deps container.Deps) *ProductsContainer {
	c := &ProductsContainer{repo: repo}
	c.Container = container.New[ProductsState, ProductsAction](
		"products", ProductsState{}, (*productsHandler)(c), deps)
	return c
}

type productsHandler ProductsContainer

func (h *productsHandler) Handle(ctx context.Context, action ProductsAction) {
	c := (*ProductsContainer)(h)
	switch a := action.(type) {
	case LoadProducts:
		c.load(ctx)
	case SelectProduct:
		c.selectProduct(ctx, a.ID)
	case SaveProduct:
		c.save(ctx, a.Product)
	case DeleteProduct:
		c.delete(ctx, a.ID)
	}
}

func (c *ProductsContainer) load(ctx context.Context) {
	got := container.PerformTask(c.Container, ctx, "loadProducts",
		func(ctx context.Context) ([]models.Product, error) {
			return c.repo.FetchAll(ctx)
		})
	if list, ok := got.Get(); ok {
		c.UpdateState(func(s ProductsState) ProductsState {
			s.Products = list
			return s
		})
	}
}

func (c *ProductsContainer) selectProduct(ctx context.Context, id string) {
	got := container.PerformTask(c.Container, ctx, "selectProduct",
		func(ctx context.Context) (models.Product, error) {
			return c.repo.FetchByID(ctx, id)
		})
	if p, ok := got.Get(); ok {
		c.UpdateState(func(s ProductsState) ProductsState {
			s.Selected = foundation.Some(p)
			return s
		})
	}
}

func (c *ProductsContainer) save(ctx context.Context, p models.Product) {
	p.Name = normalizeName(p.Name)
	if p.Name == "" {
		c.Fail(errors.ValidationError("Product name cannot be empty").Build(), "saveProduct")
		return
	}

	creating := p.ID == ""
	now := time.Now().UTC()
	if creating {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	got := container.PerformTask(c.Container, ctx, "saveProduct",
		func(ctx context.Context) (models.Product, error) {
			if creating {
				return p, c.repo.Create(ctx, p)
			}
			return p, c.repo.Save(ctx, p)
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

func (c *ProductsContainer) delete(ctx context.Context, id string) {
	got := container.PerformTask(c.Container, ctx, "deleteProduct",
		func(ctx context.Context) (string, error) {
			if err := c.repo.Delete(ctx, id); err != nil {
				return "", err
			}
			return id, nil
		})

	if deleted, ok := got.Get(); ok {
		c.UpdateState(func(s ProductsState) ProductsState {
			kept := s.Products[:0:0]
			for _, p := range s.Products {
				if p.ID != deleted {
					kept = append(kept, p)
				}
			}
			s.Products = kept
			if sel, selected := s.Selected.Get(); selected && sel.ID == deleted {
				s.Selected = foundation.None[models.Product]()
			}
			return s
		})
		c.publishChange(deleted, eventbus.ChangeDeleted)
	}
}

func (c *ProductsContainer) publishChange(id string, change eventbus.ChangeKind) {
	if bus := c.Deps().Bus; bus != nil {
		bus.Publish(eventbus.NewDataChange("Product", id, change))
	}
}
