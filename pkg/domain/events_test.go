package domain

import (
	"context"
	"testing"
)

func TestJoinHooks_FansOutInOrder(t *testing.T) {
	var calls []string
	first := LifecycleHooks{
		OnCommand: func(ctx context.Context, e *CommandEvent) { calls = append(calls, "first:"+e.Kind) },
		OnPersist: func(ctx context.Context, e *PersistEvent) { calls = append(calls, "first:"+e.Op) },
	}
	second := LifecycleHooks{
		OnCommand: func(ctx context.Context, e *CommandEvent) { calls = append(calls, "second:"+e.Kind) },
		OnTrigger: func(ctx context.Context, e *TriggerEvent) { calls = append(calls, "second:trigger") },
	}

	joined := JoinHooks(first, second)
	ctx := context.Background()
	joined.EmitCommand(ctx, &CommandEvent{Kind: "heading"})
	joined.EmitTrigger(ctx, &TriggerEvent{Kind: "button"})
	joined.EmitPersist(ctx, &PersistEvent{Op: "store"})

	want := []string{"first:heading", "second:heading", "second:trigger", "first:store"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestLifecycleHooks_NilSafe(t *testing.T) {
	var hooks *LifecycleHooks
	ctx := context.Background()

	// Must not panic on a nil receiver or nil fields.
	hooks.EmitCommand(ctx, &CommandEvent{})
	hooks.EmitTrigger(ctx, &TriggerEvent{})
	hooks.EmitPersist(ctx, &PersistEvent{})

	empty := LifecycleHooks{}
	empty.EmitCommand(ctx, &CommandEvent{})

	joined := JoinHooks()
	joined.EmitCommand(ctx, &CommandEvent{})
}
