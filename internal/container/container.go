// Package container implements the generic state container behind every
// screen: one immutable state value, an action entry point that runs handlers
// as tracked background tasks, and synchronous observer notification on every
// state replacement.
package container

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/manualbox/internal/errlog"
	"git.home.luguber.info/inful/manualbox/internal/errors"
	"git.home.luguber.info/inful/manualbox/internal/eventbus"
	"git.home.luguber.info/inful/manualbox/internal/foundation"
	"git.home.luguber.info/inful/manualbox/internal/logfields"
	"git.home.luguber.info/inful/manualbox/internal/metrics"
	"git.home.luguber.info/inful/manualbox/internal/recovery"
)

// State constrains the per-screen state value. States are immutable: every
// mutator returns a fresh copy, so an observer sees either the pre- or the
// post-mutation value, never an intermediate one.
type State[S any] interface {
	IsLoading() bool
	ErrorMessage() string
	WithLoading(bool) S
	WithError(string) S
	ClearError() S
}

// ActionHandler is the required behavior of a concrete container. Making it
// an interface method (rather than an overridable default) turns a missing
// handler into a compile error.
type ActionHandler[A any] interface {
	Handle(ctx context.Context, action A)
}

// Observer receives every new state value, synchronously, in registration
// order.
type Observer[S any] func(S)

// ObserverToken cancels a single observer registration.
type ObserverToken struct {
	cancel func()
	once   sync.Once
}

// Cancel removes the observer. Safe to call multiple times.
func (t *ObserverToken) Cancel() {
	t.once.Do(t.cancel)
}

// Deps carries the injected collaborators shared by all containers.
type Deps struct {
	Bus      *eventbus.Bus
	Sink     *errlog.Sink
	Recorder metrics.Recorder
	Logger   *slog.Logger
	// Advisor, when set, attaches recovery suggestions to broadcast failures.
	Advisor *recovery.Advisor
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func (d Deps) recorder() metrics.Recorder {
	if d.Recorder != nil {
		return d.Recorder
	}
	return metrics.NoopRecorder{}
}

// Container holds one screen's state and mediates its mutation. S is the
// screen state, A the screen's action sum type.
type Container[S State[S], A any] struct {
	name    string
	handler ActionHandler[A]
	deps    Deps

	mu        sync.Mutex
	state     S
	observers []observerEntry[S]
	nextObs   uint64
	closed    bool

	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup

	cleanupOnce sync.Once
}

type observerEntry[S any] struct {
	id uint64
	fn Observer[S]
}

// New constructs a container with its initial state and required handler.
// name identifies the screen in logs, metrics, and bus subscriptions.
func New[S State[S], A any](name string, initial S, handler ActionHandler[A], deps Deps) *Container[S, A] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Container[S, A]{
		name:    name,
		handler: handler,
		deps:    deps,
		state:   initial,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Name returns the screen identifier.
func (c *Container[S, A]) Name() string { return c.name }

// Deps exposes the injected collaborators to concrete handlers.
func (c *Container[S, A]) Deps() Deps { return c.deps }

// State returns the current state value.
func (c *Container[S, A]) State() S {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Send dispatches an action. It returns immediately; the handler runs as a
// background task tracked by the container and cancelled by Cleanup. Two
// Sends on the same container carry no relative completion-order guarantee.
func (c *Container[S, A]) Send(action A) {
	// The liveness check and the task registration must be one atomic step
	// against Cleanup, or a racing Send could Add while Cleanup is already
	// in tasks.Wait.
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.deps.logger().Debug("action dropped after cleanup", logfields.Screen(c.name))
		return
	}
	c.tasks.Add(1)
	c.mu.Unlock()
	go func() {
		defer c.tasks.Done()
		start := time.Now()
		c.handler.Handle(c.ctx, action)
		c.deps.recorder().ObserveActionDuration(c.name, time.Since(start))
	}()
}

// UpdateState applies a pure old-state -> new-state function, then notifies
// every observer synchronously with the new value and records the transition.
func (c *Container[S, A]) UpdateState(mutate func(S) S) {
	c.mu.Lock()
	c.state = mutate(c.state)
	newState := c.state
	observers := make([]Observer[S], len(c.observers))
	for i, o := range c.observers {
		observers[i] = o.fn
	}
	c.mu.Unlock()

	for _, notify := range observers {
		notify(newState)
	}
	c.deps.recorder().IncStateTransition(c.name)
}

// Observe registers an observer and immediately delivers the current state.
func (c *Container[S, A]) Observe(fn Observer[S]) *ObserverToken {
	c.mu.Lock()
	c.nextObs++
	id := c.nextObs
	c.observers = append(c.observers, observerEntry[S]{id: id, fn: fn})
	current := c.state
	c.mu.Unlock()

	fn(current)

	return &ObserverToken{cancel: func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		out := c.observers[:0]
		for _, o := range c.observers {
			if o.id != id {
				out = append(out, o)
			}
		}
		c.observers = out
	}}
}

// Context returns the container's lifetime context. Handlers should pass it
// to blocking collaborator calls so Cleanup can cancel them cooperatively.
func (c *Container[S, A]) Context() context.Context { return c.ctx }

// Cleanup cancels every still-running task and releases all observers.
// Idempotent and safe from teardown paths.
func (c *Container[S, A]) Cleanup() {
	c.cleanupOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		c.cancel()
		c.tasks.Wait()
		c.mu.Lock()
		c.observers = nil
		c.mu.Unlock()
		if c.deps.Bus != nil {
			c.deps.Bus.Unsubscribe(c.name)
		}
		c.deps.logger().Debug("container cleaned up", logfields.Screen(c.name))
	})
}

// Fail classifies err into the state's error message, logs it to the sink,
// and broadcasts an ErrorEvent. Concrete handlers use it for failures raised
// outside PerformTask (e.g. validation rejections).
func (c *Container[S, A]) Fail(err error, taskContext string) {
	c.fail(err, taskContext)
}

// fail classifies, stores, logs, and broadcasts one task failure.
func (c *Container[S, A]) fail(err error, taskContext string) {
	userMsg := errors.Classify(err, taskContext)

	c.UpdateState(func(s S) S {
		return s.WithLoading(false).WithError(userMsg)
	})

	severity := errors.SeverityError
	if ce, ok := err.(*errors.ClassifiedError); ok {
		severity = ce.Severity
	}
	if c.deps.Sink != nil {
		c.deps.Sink.Log(err, taskContext, severity)
	}

	var suggestions []string
	if c.deps.Advisor != nil {
		for _, action := range c.deps.Advisor.Suggest(err, taskContext, nil) {
			suggestions = append(suggestions, action.Description)
		}
	}

	if c.deps.Bus != nil {
		c.deps.Bus.Publish(eventbus.NewErrorEvent(
			taskContext, string(errors.GetCategory(err)), userMsg, suggestions...))
	}
	c.deps.recorder().IncTaskResult(c.name, metrics.ResultFailure)
}

// PerformTask runs op with the loading/error lifecycle: loading is set for
// the duration, a success clears the error and yields the value, a failure
// is classified into state and reported. The returned Option is None on
// failure; callers that must branch on the error use PerformTaskWithResult.
func PerformTask[S State[S], A, T any](c *Container[S, A], ctx context.Context, taskContext string, op func(context.Context) (T, error)) foundation.Option[T] {
	return performTask(c, ctx, taskContext, op).toOption()
}

// PerformTaskWithResult is PerformTask preserving the failure value.
func PerformTaskWithResult[S State[S], A, T any](c *Container[S, A], ctx context.Context, taskContext string, op func(context.Context) (T, error)) foundation.Result[T] {
	r := performTask(c, ctx, taskContext, op)
	if r.err != nil {
		return foundation.Err[T](r.err)
	}
	return foundation.Ok(r.value)
}

type taskResult[T any] struct {
	value T
	err   error
}

func (r taskResult[T]) toOption() foundation.Option[T] {
	if r.err != nil {
		return foundation.None[T]()
	}
	return foundation.Some(r.value)
}

func performTask[S State[S], A, T any](c *Container[S, A], ctx context.Context, taskContext string, op func(context.Context) (T, error)) taskResult[T] {
	c.UpdateState(func(s S) S { return s.WithLoading(true) })

	value, err := op(ctx)
	if err != nil {
		c.fail(err, taskContext)
		return taskResult[T]{err: err}
	}

	c.UpdateState(func(s S) S {
		return s.WithLoading(false).ClearError()
	})
	c.deps.recorder().IncTaskResult(c.name, metrics.ResultSuccess)
	return taskResult[T]{value: value}
}
