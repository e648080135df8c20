package domain

import (
	"context"
	"time"
)

// CommandEvent describes one dispatched command. Emitted after the command
// ran, whether it succeeded or not.
type CommandEvent struct {
	Kind     string
	Index    int
	Nested   bool
	Duration time.Duration
	Err      error
}

// TriggerEvent describes one fired trigger closure (button, submit, link).
type TriggerEvent struct {
	Kind     string
	NodeID   string
	Commands int
	Duration time.Duration
	Err      error
}

// PersistEvent describes one store/load round trip against the document
// store.
type PersistEvent struct {
	Op       string // "store" or "load"
	Key      string
	UserID   string
	Duration time.Duration
	Err      error
}

// LifecycleHooks receives engine events. All fields are optional; nil hooks
// are skipped. Hook implementations must not call back into the engine.
type LifecycleHooks struct {
	OnCommand func(ctx context.Context, e *CommandEvent)
	OnTrigger func(ctx context.Context, e *TriggerEvent)
	OnPersist func(ctx context.Context, e *PersistEvent)
}

// EmitCommand invokes OnCommand when set.
func (h *LifecycleHooks) EmitCommand(ctx context.Context, e *CommandEvent) {
	if h != nil && h.OnCommand != nil {
		h.OnCommand(ctx, e)
	}
}

// EmitTrigger invokes OnTrigger when set.
func (h *LifecycleHooks) EmitTrigger(ctx context.Context, e *TriggerEvent) {
	if h != nil && h.OnTrigger != nil {
		h.OnTrigger(ctx, e)
	}
}

// EmitPersist invokes OnPersist when set.
func (h *LifecycleHooks) EmitPersist(ctx context.Context, e *PersistEvent) {
	if h != nil && h.OnPersist != nil {
		h.OnPersist(ctx, e)
	}
}

// JoinHooks fans each event out to every given hook set, in order. Use it to
// combine independent consumers, such as debug logging and metrics.
func JoinHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnCommand: func(ctx context.Context, e *CommandEvent) {
			for i := range hooks {
				hooks[i].EmitCommand(ctx, e)
			}
		},
		OnTrigger: func(ctx context.Context, e *TriggerEvent) {
			for i := range hooks {
				hooks[i].EmitTrigger(ctx, e)
			}
		},
		OnPersist: func(ctx context.Context, e *PersistEvent) {
			for i := range hooks {
				hooks[i].EmitPersist(ctx, e)
			}
		},
	}
}
