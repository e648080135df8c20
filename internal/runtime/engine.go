package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hashhooshy/flux-labs/internal/logging"
	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/ports"
	"github.com/hashhooshy/flux-labs/pkg/registry"
)

// Engine is the command interpreter. It renders command sequences into the
// surface's containers, owns the shared state bag, and binds the closures
// that make rendered nodes interactive.
//
// All entry points and every bound closure serialize on one run mutex, so
// command sequences, trigger activations, and input changes never interleave.
// Nested sequences (a trigger's onClick) run on the internal unlocked path
// inside the activation that started them.
type Engine struct {
	logger   *slog.Logger
	state    *domain.State
	surface  ports.Surface
	store    ports.DocumentStore
	userID   string
	charts   ports.ChartRenderer
	sleeper  ports.Sleeper
	hooks    domain.LifecycleHooks
	handlers *registry.Registry
	modals   *modalRegistry

	runMu sync.Mutex

	// memberMu guards compound read-modify-write sequences on state, like
	// checkbox membership toggles.
	memberMu sync.Mutex

	scratchOnce sync.Once
	scratch     *domain.Container
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithState injects a shared state bag, replacing the engine's own.
func WithState(state *domain.State) EngineOption {
	return func(e *Engine) {
		if state != nil {
			e.state = state
		}
	}
}

// WithDocumentStore wires the persistence backend behind store/load.
func WithDocumentStore(store ports.DocumentStore) EngineOption {
	return func(e *Engine) {
		e.store = store
	}
}

// WithUserID sets the identity persisted fields are keyed by.
func WithUserID(userID string) EngineOption {
	return func(e *Engine) {
		e.userID = userID
	}
}

// WithChartRenderer wires a chart collaborator. Without one, chart commands
// fall back to a plain bar rendering.
func WithChartRenderer(charts ports.ChartRenderer) EngineOption {
	return func(e *Engine) {
		e.charts = charts
	}
}

// WithSleeper replaces the wait command's clock.
func WithSleeper(sleeper ports.Sleeper) EngineOption {
	return func(e *Engine) {
		if sleeper != nil {
			e.sleeper = sleeper
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithHandlers injects a registry of host-defined command handlers.
func WithHandlers(handlers *registry.Registry) EngineOption {
	return func(e *Engine) {
		if handlers != nil {
			e.handlers = handlers
		}
	}
}

// NewEngine creates an engine bound to a surface. The surface must not be
// nil; callers wanting a no-op host use the headless adapter.
func NewEngine(surface ports.Surface, opts ...EngineOption) *Engine {
	e := &Engine{
		logger:   logging.NewNop(),
		state:    domain.NewState(),
		surface:  surface,
		sleeper:  realSleeper{},
		handlers: registry.NewRegistry(),
		modals:   newModalRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the engine's shared state bag.
func (e *Engine) State() *domain.State {
	return e.state
}

// Handlers returns the host handler registry for extending the command
// vocabulary.
func (e *Engine) Handlers() *registry.Registry {
	return e.handlers
}

// Surface returns the surface the engine renders into.
func (e *Engine) Surface() ports.Surface {
	return e.surface
}

// Execute runs a command sequence against the main output container.
func (e *Engine) Execute(ctx context.Context, cmds []domain.Command) error {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	return e.run(ctx, cmds, e.surface.Output(), false)
}

// ExecuteIn runs a command sequence against a caller-owned container.
func (e *Engine) ExecuteIn(ctx context.Context, cmds []domain.Command, container *domain.Container) error {
	if container == nil {
		return domain.ErrContainerRequired
	}
	e.runMu.Lock()
	defer e.runMu.Unlock()
	return e.run(ctx, cmds, container, false)
}

// Dispatch runs a single command against the main output container.
func (e *Engine) Dispatch(ctx context.Context, cmd domain.Command) error {
	return e.Execute(ctx, []domain.Command{cmd})
}

// Alert surfaces a user-visible error overlay through the host.
func (e *Engine) Alert(ctx context.Context, title, text string) {
	if err := e.surface.Alert(ctx, title, text); err != nil {
		e.logger.Warn("alert not shown", "title", title, "error", err)
	}
}

// Find returns the rendered node with the given id, searching the main
// output, the dynamic region, and the detached scratch container.
func (e *Engine) Find(id string) *domain.Node {
	return e.findNode(id)
}

// dynamicTarget resolves the container trigger-bound sequences render into.
// Hosts without a dynamic region get a detached scratch container so side
// effects still run; its output is simply never shown.
func (e *Engine) dynamicTarget() *domain.Container {
	if d := e.surface.Dynamic(); d != nil {
		return d
	}
	e.scratchOnce.Do(func() {
		e.scratch = domain.NewContainer("scratch")
	})
	return e.scratch
}

func (e *Engine) findNode(id string) *domain.Node {
	if id == "" {
		return nil
	}
	if n := e.surface.Output().Find(id); n != nil {
		return n
	}
	if d := e.surface.Dynamic(); d != nil {
		if n := d.Find(id); n != nil {
			return n
		}
	}
	if e.scratch != nil {
		if n := e.scratch.Find(id); n != nil {
			return n
		}
	}
	return nil
}

// realSleeper is the production clock behind wait.
type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
