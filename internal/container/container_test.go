package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"git.home.luguber.info/inful/manualbox/internal/errlog"
	"git.home.luguber.info/inful/manualbox/internal/errors"
	"git.home.luguber.info/inful/manualbox/internal/eventbus"
	"git.home.luguber.info/inful/manualbox/internal/recovery"
)

// counterState is a minimal screen state for exercising the container.
type counterState struct {
	Loading bool
	ErrMsg  string
	Count   int
}

func (s counterState) IsLoading() bool      { return s.Loading }
func (s counterState) ErrorMessage() string { return s.ErrMsg }
func (s counterState) WithLoading(v bool) counterState {
	s.Loading = v
	return s
}
func (s counterState) WithError(msg string) counterState {
	s.ErrMsg = msg
	return s
}
func (s counterState) ClearError() counterState {
	s.ErrMsg = ""
	return s
}

type counterAction struct{ delta int }

type counterHandler struct {
	c *Container[counterState, counterAction]
}

func (h *counterHandler) Handle(_ context.Context, a counterAction) {
	h.c.UpdateState(func(s counterState) counterState {
		s.Count += a.delta
		return s
	})
}

func newCounter(t *testing.T, deps Deps) *Container[counterState, counterAction] {
	t.Helper()
	h := &counterHandler{}
	c := New[counterState, counterAction]("counter", counterState{}, h, deps)
	h.c = c
	t.Cleanup(c.Cleanup)
	return c
}

func TestUpdateState_LeftFold(t *testing.T) {
	c := newCounter(t, Deps{})

	// N mutators applied via UpdateState must equal their left-fold over the
	// initial state: order preserved, nothing dropped.
	for i := 1; i <= 100; i++ {
		i := i
		c.UpdateState(func(s counterState) counterState {
			s.Count = s.Count*2 + i
			return s
		})
	}

	want := 0
	for i := 1; i <= 100; i++ {
		want = want*2 + i
	}
	if got := c.State().Count; got != want {
		t.Errorf("state after 100 mutations = %d, want left-fold result %d", got, want)
	}
}

func TestUpdateState_NotifiesObserversInOrder(t *testing.T) {
	c := newCounter(t, Deps{})

	var mu sync.Mutex
	var seen []int
	token := c.Observe(func(s counterState) {
		mu.Lock()
		seen = append(seen, s.Count)
		mu.Unlock()
	})
	defer token.Cancel()

	for i := 1; i <= 5; i++ {
		c.UpdateState(func(s counterState) counterState {
			s.Count++
			return s
		})
	}

	mu.Lock()
	defer mu.Unlock()
	// Initial delivery plus five increments.
	want := []int{0, 1, 2, 3, 4, 5}
	if len(seen) != len(want) {
		t.Fatalf("observer saw %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("observer saw %v, want %v", seen, want)
		}
	}
}

func TestObserverToken_Cancel(t *testing.T) {
	c := newCounter(t, Deps{})

	calls := 0
	token := c.Observe(func(counterState) { calls++ })
	token.Cancel()
	token.Cancel() // idempotent

	c.UpdateState(func(s counterState) counterState { return s })

	if calls != 1 { // the immediate delivery only
		t.Errorf("cancelled observer notified %d times, want 1", calls)
	}
}

func TestPerformTask_Success(t *testing.T) {
	c := newCounter(t, Deps{})
	c.UpdateState(func(s counterState) counterState { return s.WithError("stale") })

	got := PerformTask(c, context.Background(), "load", func(context.Context) (int, error) {
		return 42, nil
	})

	if v, ok := got.Get(); !ok || v != 42 {
		t.Fatalf("PerformTask = (%v, %v), want (42, true)", v, ok)
	}
	state := c.State()
	if state.IsLoading() {
		t.Error("isLoading should be false after success")
	}
	if state.ErrorMessage() != "" {
		t.Errorf("errorMessage = %q, want cleared after success", state.ErrorMessage())
	}
}

func TestPerformTask_Failure(t *testing.T) {
	sink := errlog.NewSink(10, nil)
	bus := eventbus.New(10, nil)
	c := newCounter(t, Deps{Bus: bus, Sink: sink})

	var errorEvents int
	bus.Subscribe("ErrorEvent", "test", func(eventbus.Event) { errorEvents++ })

	failure := errors.PersistenceError("insert failed").Build()
	got := PerformTask(c, context.Background(), "save", func(context.Context) (int, error) {
		return 0, failure
	})

	if got.IsSome() {
		t.Error("PerformTask should return None on failure")
	}
	state := c.State()
	if state.IsLoading() {
		t.Error("isLoading should be false after failure")
	}
	if state.ErrorMessage() == "" {
		t.Error("errorMessage should be set after failure")
	}
	if sink.Len() != 1 {
		t.Errorf("sink recorded %d entries, want 1", sink.Len())
	}
	if errorEvents != 1 {
		t.Errorf("bus saw %d ErrorEvents, want 1", errorEvents)
	}
}

func TestPerformTask_FailureAttachesRecoverySuggestions(t *testing.T) {
	bus := eventbus.New(10, nil)
	c := newCounter(t, Deps{Bus: bus, Advisor: recovery.NewAdvisor(recovery.DefaultPolicy())})

	var got eventbus.ErrorEvent
	bus.Subscribe("ErrorEvent", "test", func(e eventbus.Event) {
		got = e.(eventbus.ErrorEvent)
	})

	PerformTask(c, context.Background(), "saveCategory", func(context.Context) (int, error) {
		return 0, errors.ValidationError("name missing").Build()
	})

	if len(got.Suggestions) == 0 {
		t.Fatal("ErrorEvent should carry recovery suggestions when an advisor is wired")
	}
	if got.Suggestions[0] != "Correct the highlighted field and try again" {
		t.Errorf("first suggestion = %q, want the validation user-intervention advice", got.Suggestions[0])
	}
}

func TestPerformTask_NoAdvisorNoSuggestions(t *testing.T) {
	bus := eventbus.New(10, nil)
	c := newCounter(t, Deps{Bus: bus})

	var got eventbus.ErrorEvent
	bus.Subscribe("ErrorEvent", "test", func(e eventbus.Event) {
		got = e.(eventbus.ErrorEvent)
	})

	PerformTask(c, context.Background(), "save", func(context.Context) (int, error) {
		return 0, fmt.Errorf("boom")
	})

	if len(got.Suggestions) != 0 {
		t.Errorf("suggestions = %v, want none without an advisor", got.Suggestions)
	}
}

func TestPerformTaskWithResult_PreservesError(t *testing.T) {
	c := newCounter(t, Deps{})

	failure := errors.NetworkError(errors.NetworkTimeout, "fetch timed out").Build()
	r := PerformTaskWithResult(c, context.Background(), "sync", func(context.Context) (string, error) {
		return "", failure
	})

	if r.IsOk() {
		t.Fatal("result should be Err")
	}
	if !errors.IsCategory(r.Error(), errors.CategoryNetwork) {
		t.Errorf("result error lost its classification: %v", r.Error())
	}

	ok := PerformTaskWithResult(c, context.Background(), "sync", func(context.Context) (string, error) {
		return "done", nil
	})
	if !ok.IsOk() || ok.Unwrap() != "done" {
		t.Errorf("success result = %v", ok)
	}
}

func TestSend_RunsHandler(t *testing.T) {
	c := newCounter(t, Deps{})

	for i := 0; i < 10; i++ {
		c.Send(counterAction{delta: 1})
	}

	deadline := time.After(2 * time.Second)
	for c.State().Count != 10 {
		select {
		case <-deadline:
			t.Fatalf("count = %d after deadline, want 10", c.State().Count)
		case <-time.After(time.Millisecond):
		}
	}
}

func TestCleanup_Idempotent(t *testing.T) {
	c := newCounter(t, Deps{})

	started := make(chan struct{})
	h := &blockingHandler{started: started}
	blocked := New[counterState, counterAction]("blocked", counterState{}, h, Deps{})
	h.c = blocked

	blocked.Send(counterAction{})
	<-started

	blocked.Cleanup()
	stateAfterFirst := blocked.State()
	blocked.Cleanup()

	if blocked.State() != stateAfterFirst {
		t.Error("second Cleanup changed observable state")
	}
	if !h.sawCancel.Load() {
		t.Error("task scheduled before Cleanup should observe cancellation")
	}

	// Sends after cleanup are dropped, not queued.
	before := c.State().Count
	c.Cleanup()
	c.Send(counterAction{delta: 1})
	time.Sleep(10 * time.Millisecond)
	if c.State().Count != before {
		t.Error("Send after Cleanup should be a no-op")
	}
}

type blockingHandler struct {
	c         *Container[counterState, counterAction]
	started   chan struct{}
	sawCancel atomic.Bool
}

func (h *blockingHandler) Handle(ctx context.Context, _ counterAction) {
	close(h.started)
	<-ctx.Done()
	h.sawCancel.Store(true)
}

func TestSend_RacingCleanup(t *testing.T) {
	c := newCounter(t, Deps{})

	// Sends racing Cleanup must either run to completion before Cleanup
	// returns or be dropped; none may land afterwards.
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			c.Send(counterAction{delta: 1})
		}()
	}
	close(start)
	c.Cleanup()

	after := c.State().Count
	wg.Wait()
	time.Sleep(10 * time.Millisecond)
	if got := c.State().Count; got != after {
		t.Errorf("count moved from %d to %d after Cleanup returned", after, got)
	}
}

func TestConcurrentSends_AllApplied(t *testing.T) {
	c := newCounter(t, Deps{})

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Send(counterAction{delta: 1})
		}()
	}
	wg.Wait()
	c.Cleanup() // waits for all dispatched tasks

	if got := c.State().Count; got != n {
		t.Errorf("count = %d after %d concurrent sends, want %d", got, n, n)
	}
}

func TestState_ImmutableSnapshots(t *testing.T) {
	c := newCounter(t, Deps{})

	snapshot := c.State()
	c.UpdateState(func(s counterState) counterState {
		s.Count = 99
		return s
	})

	if snapshot.Count != 0 {
		t.Error("earlier snapshot mutated by later update")
	}
}

func TestFail_ErrorMessagePersistsUntilNextSuccess(t *testing.T) {
	c := newCounter(t, Deps{})

	PerformTask(c, context.Background(), "save", func(context.Context) (int, error) {
		return 0, fmt.Errorf("boom")
	})
	if c.State().ErrorMessage() == "" {
		t.Fatal("expected error message")
	}

	// Unrelated state updates keep the message.
	c.UpdateState(func(s counterState) counterState { s.Count++; return s })
	if c.State().ErrorMessage() == "" {
		t.Error("error message should persist until cleared")
	}

	PerformTask(c, context.Background(), "save", func(context.Context) (int, error) {
		return 1, nil
	})
	if c.State().ErrorMessage() != "" {
		t.Error("error message should clear on next success")
	}
}
