package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/schema"
)

// run iterates a command block in strict order: a command never starts until
// the previous one's entire effect, including nested waits and persistence
// round trips, has resolved. Per-command failures are logged and the block
// continues; only context cancellation aborts it. Callers hold runMu.
func (e *Engine) run(ctx context.Context, cmds []domain.Command, container *domain.Container, nested bool) error {
	for i := range cmds {
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd := cmds[i]
		if cmd.Type == domain.CmdLoop {
			if err := e.runLoop(ctx, cmd, container, i, nested); err != nil {
				return err
			}
			continue
		}

		start := time.Now()
		err := e.dispatch(ctx, cmd, container)
		e.hooks.EmitCommand(ctx, &domain.CommandEvent{
			Kind:     cmd.Type,
			Index:    i,
			Nested:   nested,
			Duration: time.Since(start),
			Err:      err,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			e.logger.Warn("command failed, continuing", "type", cmd.Type, "index", i, "error", err)
		}
	}
	return nil
}

// runLoop expands a loop block: count sequential iterations of the body
// against the same container, publishing the counter through the shared
// loopIndex state key before each one. Nested loops overwrite the same key,
// so after an inner loop finishes, the outer iteration observes the inner
// loop's last value. That shared-counter behavior is part of the contract.
func (e *Engine) runLoop(ctx context.Context, cmd domain.Command, container *domain.Container, index int, nested bool) error {
	e.interpolateProps(cmd.Props)
	count := schema.IntOr(cmd.Props, "count", 0)

	start := time.Now()
	var err error
	for i := 0; i < count; i++ {
		e.state.Set(domain.KeyLoopIndex, i)
		if err = e.run(ctx, cmd.Commands, container, nested); err != nil {
			break
		}
	}
	e.hooks.EmitCommand(ctx, &domain.CommandEvent{
		Kind:     cmd.Type,
		Index:    index,
		Nested:   nested,
		Duration: time.Since(start),
		Err:      err,
	})
	return err
}
