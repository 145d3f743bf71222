package screens

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/manualbox/internal/container"
	"git.home.luguber.info/inful/manualbox/internal/errlog"
	"git.home.luguber.info/inful/manualbox/internal/eventbus"
	"git.home.luguber.info/inful/manualbox/internal/models"
	"git.home.luguber.info/inful/manualbox/internal/store"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func testDeps(t *testing.T) (container.Deps, *store.Store) {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	deps := container.Deps{
		Bus:  eventbus.New(32, nil),
		Sink: errlog.NewSink(16, nil),
	}
	return deps, s
}

func TestSaveCategory_EmptyNameRejected(t *testing.T) {
	deps, s := testDeps(t)
	c := NewCategories(s.Categories(), deps)
	defer c.Cleanup()

	c.Send(SaveCategory{Name: "   "})

	// The ErrorEvent is the last side effect of the rejection.
	require.Eventually(t, func() bool {
		return len(deps.Bus.History("ErrorEvent", 0)) == 1
	}, waitFor, tick)

	got := c.State()
	assert.False(t, got.Saving)
	assert.False(t, got.IsLoading())
	assert.NotEmpty(t, got.SaveError)

	// Nothing was persisted.
	n, err := s.Categories().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	// The failure reached the sink and the bus.
	assert.Equal(t, 1, deps.Sink.Len())
	history := deps.Bus.History("ErrorEvent", 0)
	require.Len(t, history, 1)
	assert.Equal(t, "saveCategory", history[0].(eventbus.ErrorEvent).Context)
}

func TestSaveCategory_DuplicateNameRejected(t *testing.T) {
	deps, s := testDeps(t)
	c := NewCategories(s.Categories(), deps)
	defer c.Cleanup()

	c.Send(SaveCategory{Name: "Kitchen", Icon: models.IconAppliance, Color: models.ColorGreen})
	require.Eventually(t, func() bool {
		return len(c.State().Categories) == 1
	}, waitFor, tick)

	// Differs only in case and padding; the folded key collides.
	c.Send(SaveCategory{Name: "  kitchen "})
	require.Eventually(t, func() bool {
		return c.State().SaveError != ""
	}, waitFor, tick)

	assert.Len(t, c.State().Categories, 1)
	n, err := s.Categories().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSaveCategory_PublishesDataChange(t *testing.T) {
	deps, s := testDeps(t)
	c := NewCategories(s.Categories(), deps)
	defer c.Cleanup()

	changes := make(chan eventbus.DataChangeEvent, 4)
	deps.Bus.Subscribe("DataChangeEvent", "test", func(e eventbus.Event) {
		changes <- e.(eventbus.DataChangeEvent)
	})

	c.Send(SaveCategory{Name: "Garage", Icon: models.IconTools, Color: models.ColorBlue})

	var change eventbus.DataChangeEvent
	select {
	case change = <-changes:
	case <-time.After(waitFor):
		t.Fatal("no DataChangeEvent observed")
	}

	assert.Equal(t, "Category", change.EntityType)
	assert.Equal(t, eventbus.ChangeCreated, change.Change)

	require.Eventually(t, func() bool {
		return len(c.State().Categories) == 1
	}, waitFor, tick)
	assert.Equal(t, c.State().Categories[0].ID, change.EntityID)
	assert.False(t, c.State().ShowAddSheet)
	assert.Empty(t, c.State().SaveError)
}

func TestCategories_ReloadOnExternalChange(t *testing.T) {
	deps, s := testDeps(t)
	c := NewCategories(s.Categories(), deps)
	defer c.Cleanup()

	// Another writer persists a category behind the container's back, then
	// announces it on the bus.
	now := time.Now().UTC()
	ext := models.Category{
		ID: "cat-ext", Name: "Office", Icon: models.IconElectronics,
		Color: models.ColorOrange, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Categories().Create(context.Background(), ext))
	deps.Bus.Publish(eventbus.NewDataChange("Category", ext.ID, eventbus.ChangeCreated))

	require.Eventually(t, func() bool {
		list := c.State().Categories
		return len(list) == 1 && list[0].ID == ext.ID
	}, waitFor, tick)
}

func TestCategories_IgnoresForeignEventShape(t *testing.T) {
	deps, s := testDeps(t)
	c := NewCategories(s.Categories(), deps)
	defer c.Cleanup()

	// A pointer-published event shares the type tag but not the concrete
	// type; the subscription must skip it rather than panic.
	deps.Bus.Publish(&eventbus.DataChangeEvent{
		BaseEvent:  eventbus.NewBaseEvent(),
		EntityType: "Category",
		EntityID:   "cat-ptr",
		Change:     eventbus.ChangeCreated,
	})

	// The container still reacts to well-formed change events afterwards.
	now := time.Now().UTC()
	ext := models.Category{
		ID: "cat-val", Name: "Basement", Icon: models.IconOther,
		Color: models.ColorGray, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Categories().Create(context.Background(), ext))
	deps.Bus.Publish(eventbus.NewDataChange("Category", ext.ID, eventbus.ChangeCreated))

	require.Eventually(t, func() bool {
		list := c.State().Categories
		return len(list) == 1 && list[0].ID == ext.ID
	}, waitFor, tick)
}

func TestDeleteCategory(t *testing.T) {
	deps, s := testDeps(t)
	c := NewCategories(s.Categories(), deps)
	defer c.Cleanup()

	c.Send(SaveCategory{Name: "Attic", Icon: models.IconOther, Color: models.ColorGray})
	require.Eventually(t, func() bool {
		return len(c.State().Categories) == 1
	}, waitFor, tick)
	id := c.State().Categories[0].ID

	c.Send(DeleteCategory{ID: id})
	require.Eventually(t, func() bool {
		return len(c.State().Categories) == 0
	}, waitFor, tick)

	n, err := s.Categories().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestToggleAddSheet(t *testing.T) {
	deps, s := testDeps(t)
	c := NewCategories(s.Categories(), deps)
	defer c.Cleanup()

	c.Send(ToggleAddSheet{})
	require.Eventually(t, func() bool {
		return c.State().ShowAddSheet
	}, waitFor, tick)

	c.Send(ToggleAddSheet{})
	require.Eventually(t, func() bool {
		return !c.State().ShowAddSheet
	}, waitFor, tick)
}
