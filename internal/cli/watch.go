package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	flux "github.com/hashhooshy/flux-labs"
	"github.com/hashhooshy/flux-labs/internal/presentation/tui"
	loamlib "github.com/hashhooshy/flux-labs/pkg/adapters/loam"
)

// RunWatch executes the script in development mode, re-running on file changes.
func RunWatch(opts RunOptions) {
	logger := createLogger(opts.Debug)
	tui.PrintBanner(flux.Version)

	logger.Info("Starting Watcher", "source", opts.Source)
	printSystemMessage("Watching '%s'.", opts.Source)

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	for {
		if !runWatchIteration(sigCtx, opts, logger) {
			break
		}
		logger.Info("Watcher restarting")
	}

	// Ensure we exit cleanly
	os.Exit(0)
}

func runWatchIteration(parentCtx *SignalContext, opts RunOptions, logger *slog.Logger) bool {
	// Child context so a reload tears down this iteration's watcher without
	// cancelling the parent signal context.
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	changes, err := watchSource(ctx, opts.Source, logger)
	if err != nil {
		logger.Error("Watcher setup failed", "err", err)
		select {
		case <-parentCtx.Done():
			return false
		case <-time.After(2 * time.Second):
			return true
		}
	}

	bundle, err := BuildStore(opts.Store, opts.RedisAddr, opts.DataDir)
	if err != nil {
		logger.Error("Store setup failed", "err", err)
		printSystemMessage("Store setup failed: %v", err)
		return false
	}
	defer bundle.Close()

	// A broken script keeps the watcher alive so the file can be fixed.
	if _, _, err := executeAndRender(ctx, opts, bundle, logger); err != nil {
		if handleExecutionError(err) != nil {
			logger.Error("Run failed", "err", err)
			printSystemMessage("Run failed: %v", err)
		}
	}

	printSystemMessage("Waiting for changes...")

	select {
	case <-parentCtx.Done():
		fmt.Println()
		printSystemMessage("Stopping watcher.")
		logger.Info("Stopping watcher (signal received)", "signal", parentCtx.Signal())
		return false
	case changed, ok := <-changes:
		if !ok {
			return false
		}
		printSystemMessage("Change detected in '%s'.", changed)
		// Delay slightly to ensure the file system is stable
		time.Sleep(100 * time.Millisecond)
		return true
	}
}

// watchSource reports changes under the script source: loam's watcher for
// page libraries, fsnotify for plain script files.
func watchSource(ctx context.Context, source string, logger *slog.Logger) (<-chan string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		library, err := loamlib.Open(source)
		if err != nil {
			return nil, err
		}
		return library.Watch(ctx)
	}
	return watchFile(ctx, source, logger)
}

// watchFile reports writes to a single file. The parent directory is watched
// because editors typically replace the file on save, which would orphan a
// watch bound to the old inode.
func watchFile(ctx context.Context, path string, logger *slog.Logger) (<-chan string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", filepath.Dir(abs), err)
	}

	ch := make(chan string, 1)
	go func() {
		defer watcher.Close()
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				select {
				case ch <- filepath.Base(event.Name):
				case <-ctx.Done():
				}
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error", "err", err)
			}
		}
	}()
	return ch, nil
}
