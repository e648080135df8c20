package tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	loamlib "github.com/hashhooshy/flux-labs/pkg/adapters/loam"
)

const watchPage = `---
title: Watched
description: Page under watch
---
- type: paragraph
  props:
    text: version one
`

// TestLibraryWatch verifies the edit-to-event path: changing a page file on
// disk surfaces its page id on the watch channel.
func TestLibraryWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.md")
	if err := os.WriteFile(path, []byte(watchPage), 0644); err != nil {
		t.Fatalf("Failed to write page: %v", err)
	}

	lib, err := loamlib.Open(dir)
	if err != nil {
		t.Fatalf("Failed to open library: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := lib.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// Give the watcher a beat to arm before the edit.
	time.Sleep(200 * time.Millisecond)

	updated := watchPage + `- type: badge
  props:
    text: updated
    color: green
`
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatalf("Failed to update page: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case id, ok := <-changes:
			if !ok {
				t.Fatal("Watch channel closed before delivering the change")
			}
			if id == "index" {
				return // success
			}
			t.Logf("Ignoring event for %q", id)
		case <-deadline:
			t.Fatal("Timeout waiting for watch event")
		}
	}
}

// TestLibraryWatch_CancelCloses verifies the channel closes once the watch
// context ends, so consumers can range over it.
func TestLibraryWatch_CancelCloses(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "only.md"), []byte(watchPage), 0644); err != nil {
		t.Fatalf("Failed to write page: %v", err)
	}

	lib, err := loamlib.Open(dir)
	if err != nil {
		t.Fatalf("Failed to open library: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	changes, err := lib.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	cancel()

	select {
	case _, ok := <-changes:
		if ok {
			// A buffered event may arrive first; the close must follow.
			select {
			case _, ok := <-changes:
				if ok {
					t.Fatal("Watch channel still open after cancel")
				}
			case <-time.After(2 * time.Second):
				t.Fatal("Timeout waiting for watch channel to close")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for watch channel to close")
	}
}
