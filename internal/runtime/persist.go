package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/schema"
)

// runStore upserts one field of the user's document. Running without an
// identity or a backend is non-fatal: the command becomes a logged no-op.
func (e *Engine) runStore(ctx context.Context, props map[string]any) error {
	key := schema.Text(props, "id")
	if key == "" {
		e.logger.Warn("store without id, skipping")
		return nil
	}
	if !e.persistenceReady("store", key) {
		return nil
	}

	value := domain.Stringify(props["value"])

	start := time.Now()
	err := e.store.SetField(ctx, e.userID, key, value)
	e.hooks.EmitPersist(ctx, &domain.PersistEvent{
		Op:       "store",
		Key:      key,
		UserID:   e.userID,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return err
	}
	e.logger.Debug("field stored", "key", key, "user", e.userID)
	return nil
}

// runLoad reads one field of the user's document into state. An absent field
// leaves state unchanged with a diagnostic; missing identity or backend is a
// logged no-op.
func (e *Engine) runLoad(ctx context.Context, props map[string]any) error {
	key := schema.Text(props, "id")
	if key == "" {
		e.logger.Warn("load without id, skipping")
		return nil
	}
	if !e.persistenceReady("load", key) {
		return nil
	}

	start := time.Now()
	value, err := e.store.GetField(ctx, e.userID, key)
	e.hooks.EmitPersist(ctx, &domain.PersistEvent{
		Op:       "load",
		Key:      key,
		UserID:   e.userID,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		if errors.Is(err, domain.ErrFieldNotFound) {
			e.logger.Info("field not found, state unchanged", "key", key, "user", e.userID)
			return nil
		}
		return err
	}

	e.state.Set(key, value)
	e.logger.Debug("field loaded", "key", key, "user", e.userID)
	return nil
}

// persistenceReady reports whether store/load can run, logging why not.
func (e *Engine) persistenceReady(op, key string) bool {
	if e.store == nil {
		e.logger.Warn("persistence unavailable: no document store", "op", op, "key", key)
		return false
	}
	if e.userID == "" {
		e.logger.Warn("persistence unavailable: no user identity", "op", op, "key", key)
		return false
	}
	return true
}

// runWait suspends the executing block for the given number of seconds
// (parsed as float, default 0). The surrounding sequence does not advance
// until the wait resolves; cancellation aborts it.
func (e *Engine) runWait(ctx context.Context, props map[string]any) error {
	seconds := schema.FloatOr(props, "seconds", 0)
	if seconds <= 0 {
		return nil
	}
	return e.sleeper.Sleep(ctx, time.Duration(seconds*float64(time.Second)))
}
