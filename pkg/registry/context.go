package registry

import (
	"context"

	"github.com/hashhooshy/flux-labs/pkg/domain"
)

type stateKey struct{}

// WithState returns a context carrying an interpreter's state bag. The
// engine attaches it before invoking a handler, so a registry shared across
// interpreters always hands each handler the state of the run that called it.
func WithState(ctx context.Context, state *domain.State) context.Context {
	return context.WithValue(ctx, stateKey{}, state)
}

// StateFrom extracts the calling interpreter's state bag. Handlers invoked
// outside an interpreter run see ok == false.
func StateFrom(ctx context.Context) (*domain.State, bool) {
	state, ok := ctx.Value(stateKey{}).(*domain.State)
	return state, ok
}
