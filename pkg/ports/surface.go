package ports

import (
	"context"
	"time"

	"github.com/hashhooshy/flux-labs/pkg/domain"
)

// Surface is the host side of the interpreter: the containers nodes land in
// and the view-level operations a few commands perform.
type Surface interface {
	// Output is the main container top-level rendering appends to.
	// Must not return nil.
	Output() *domain.Container

	// Dynamic is the container trigger-bound sequences render into. May
	// return nil when the host has no dynamic region; the engine then
	// renders trigger output into a detached scratch container so side
	// effects still run.
	Dynamic() *domain.Container

	// ShowFrame switches the view to an embedded frame showing url.
	ShowFrame(ctx context.Context, url string) error

	// ShowOutput switches the view back to the main output.
	ShowOutput(ctx context.Context) error

	// Alert surfaces a user-visible error overlay.
	Alert(ctx context.Context, title, text string) error
}

// ChartRenderer turns a chart spec into a renderable node. When no renderer
// is configured the engine builds a plain fallback node itself.
type ChartRenderer interface {
	RenderChart(ctx context.Context, spec domain.ChartSpec) (*domain.Node, error)
}

// Sleeper is the clock behind the wait command. The engine defaults to a
// real timer; tests swap in a recording fake.
type Sleeper interface {
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}
