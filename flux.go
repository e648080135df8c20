package flux

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hashhooshy/flux-labs/internal/runtime"
	"github.com/hashhooshy/flux-labs/pkg/adapters/headless"
	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/ports"
	"github.com/hashhooshy/flux-labs/pkg/registry"
)

// Interpreter is the high-level entry point for the flux library.
// It wraps the internal runtime and provides a simplified API for hosts.
type Interpreter struct {
	runtime  *runtime.Engine
	surface  ports.Surface
	store    ports.DocumentStore
	userID   string
	charts   ports.ChartRenderer
	handlers *registry.Registry
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Interpreter.
type Option func(*Interpreter)

// WithSurface injects the host surface commands render into. Without one,
// the interpreter runs against an in-process headless surface.
func WithSurface(s ports.Surface) Option {
	return func(it *Interpreter) {
		it.surface = s
	}
}

// WithDocumentStore wires the persistence backend behind store/load.
func WithDocumentStore(store ports.DocumentStore) Option {
	return func(it *Interpreter) {
		it.store = store
	}
}

// WithUser sets the identity persisted fields are keyed by.
func WithUser(id string) Option {
	return func(it *Interpreter) {
		it.userID = id
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(it *Interpreter) {
		it.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(it *Interpreter) {
		it.hooks = hooks
	}
}

// WithChartRenderer wires a chart collaborator. Without one, chart commands
// fall back to a plain bar rendering.
func WithChartRenderer(charts ports.ChartRenderer) Option {
	return func(it *Interpreter) {
		it.charts = charts
	}
}

// WithHandlers injects a registry of host-defined command handlers,
// extending the command vocabulary.
func WithHandlers(handlers *registry.Registry) Option {
	return func(it *Interpreter) {
		it.handlers = handlers
	}
}

// New initializes an Interpreter. Zero options give a self-contained
// instance rendering into a headless surface with no persistence.
func New(opts ...Option) *Interpreter {
	it := &Interpreter{}
	for _, opt := range opts {
		opt(it)
	}

	if it.surface == nil {
		it.surface = headless.New()
	}
	// Keep a non-nil logger so the runtime default is not overwritten.
	if it.logger == nil {
		it.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(it.logger),
		runtime.WithLifecycleHooks(it.hooks),
		runtime.WithDocumentStore(it.store),
		runtime.WithUserID(it.userID),
		runtime.WithChartRenderer(it.charts),
		runtime.WithHandlers(it.handlers),
	}
	it.runtime = runtime.NewEngine(it.surface, runtimeOpts...)
	it.handlers = it.runtime.Handlers()

	return it
}

// Execute runs a command sequence against the surface's main output.
func (it *Interpreter) Execute(ctx context.Context, cmds []domain.Command) error {
	return it.runtime.Execute(ctx, cmds)
}

// ExecuteIn runs a command sequence against a caller-owned container.
func (it *Interpreter) ExecuteIn(ctx context.Context, cmds []domain.Command, container *domain.Container) error {
	return it.runtime.ExecuteIn(ctx, cmds, container)
}

// Dispatch runs a single command against the surface's main output.
func (it *Interpreter) Dispatch(ctx context.Context, cmd domain.Command) error {
	return it.runtime.Dispatch(ctx, cmd)
}

// Activate fires the trigger bound to the rendered node with the given id:
// pressing a button, toggling a switch, selecting an option.
func (it *Interpreter) Activate(ctx context.Context, nodeID string) error {
	node := it.runtime.Find(nodeID)
	if node == nil {
		return fmt.Errorf("activate %q: %w", nodeID, domain.ErrNodeNotFound)
	}
	return node.Activate(ctx)
}

// SetValue records a new value on the rendered input with the given id and
// fires its change listener.
func (it *Interpreter) SetValue(ctx context.Context, nodeID, value string) error {
	node := it.runtime.Find(nodeID)
	if node == nil {
		return fmt.Errorf("set value %q: %w", nodeID, domain.ErrNodeNotFound)
	}
	return node.SetValue(ctx, value)
}

// State returns the shared state bag interpolation reads from.
func (it *Interpreter) State() *domain.State {
	return it.runtime.State()
}

// Find returns the rendered node with the given id, or nil when absent.
func (it *Interpreter) Find(nodeID string) *domain.Node {
	return it.runtime.Find(nodeID)
}

// Handlers returns the host handler registry.
func (it *Interpreter) Handlers() *registry.Registry {
	return it.handlers
}

// Alert surfaces a user-visible error overlay through the host.
func (it *Interpreter) Alert(ctx context.Context, title, text string) {
	it.runtime.Alert(ctx, title, text)
}

// ShowFrame switches the host view to an embedded frame showing url.
func (it *Interpreter) ShowFrame(ctx context.Context, url string) error {
	return it.surface.ShowFrame(ctx, url)
}

// ShowOutput switches the host view back to the main output.
func (it *Interpreter) ShowOutput(ctx context.Context) error {
	return it.surface.ShowOutput(ctx)
}

// Surface returns the surface the interpreter renders into.
func (it *Interpreter) Surface() ports.Surface {
	return it.surface
}
