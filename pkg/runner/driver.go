package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	flux "github.com/hashhooshy/flux-labs"
	"github.com/hashhooshy/flux-labs/internal/logging"
	"github.com/hashhooshy/flux-labs/pkg/adapters/headless"
	"github.com/hashhooshy/flux-labs/pkg/schema"
)

// ErrSurfaceRequired is returned by Run when the interpreter renders into
// anything but a headless surface. Snapshots read containers and recorded
// alerts, which only the headless adapter exposes.
var ErrSurfaceRequired = errors.New("driver requires an interpreter with a headless surface")

// Driver runs the line protocol against a single interpreter. One driver
// owns one session; concurrent hosts run one driver each.
type Driver struct {
	it        *flux.Interpreter
	in        io.Reader
	out       io.Writer
	logger    *slog.Logger
	intercept Interceptor

	// seen is the alert cursor: alerts before it were already delivered.
	seen int
}

// New creates a driver bound to an interpreter. Without options it speaks
// on stdin/stdout, approves every action, and logs nowhere.
func New(it *flux.Interpreter, opts ...Option) *Driver {
	d := &Driver{
		it:        it,
		in:        os.Stdin,
		out:       os.Stdout,
		logger:    logging.NewNop(),
		intercept: AutoApprove(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run reads actions until quit, EOF, or context cancellation. Action
// failures answer with error events and the loop continues; an unwritable
// output ends the session, since the host can no longer see anything.
func (d *Driver) Run(ctx context.Context) error {
	surface, ok := d.it.Surface().(*headless.Surface)
	if !ok {
		return ErrSurfaceRequired
	}
	reader := bufio.NewReader(d.in)
	enc := json.NewEncoder(d.out)
	d.seen = len(surface.Alerts())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, readErr := reader.ReadString('\n')
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			quit, err := d.handleLine(ctx, enc, surface, trimmed)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("read action: %w", readErr)
		}
	}
}

// handleLine decodes and executes one action. The returned error is fatal
// to the session; action-level failures become error events instead.
func (d *Driver) handleLine(ctx context.Context, enc *json.Encoder, surface *headless.Surface, line string) (bool, error) {
	var action Action
	if err := json.Unmarshal([]byte(line), &action); err != nil {
		d.logger.Debug("undecodable action line", "error", err)
		return false, emit(enc, Event{Event: EventError, Error: fmt.Sprintf("decode action: %v", err)})
	}

	// Quit bypasses policy so a restrictive interceptor cannot trap the
	// host in the session.
	if action.Op == OpQuit {
		return true, emit(enc, Event{Event: EventOK, Op: OpQuit})
	}

	allowed, reason, err := d.intercept(ctx, action)
	if err != nil {
		return false, emit(enc, Event{Event: EventError, Op: action.Op, Error: err.Error()})
	}
	if !allowed {
		d.logger.Debug("action denied", "op", action.Op, "reason", reason)
		return false, emit(enc, Event{Event: EventDenied, Op: action.Op, Error: reason})
	}

	switch action.Op {
	case OpRun:
		err = d.runScript(ctx, action)
	case OpTap:
		err = d.it.Activate(ctx, action.Node)
	case OpSet:
		err = d.setValue(ctx, action)
	case OpReset:
		d.it.State().Replace(nil)
		surface.Reset()
		d.seen = 0
	case OpSnapshot:
		// Nothing to do: the ok event below carries a fresh snapshot.
	default:
		return false, emit(enc, Event{Event: EventError, Op: action.Op, Error: fmt.Sprintf("unknown op %q", action.Op)})
	}
	if err != nil {
		d.logger.Debug("action failed", "op", action.Op, "error", err)
		return false, emit(enc, Event{Event: EventError, Op: action.Op, Error: err.Error()})
	}

	alerts := surface.Alerts()
	snap := NewSnapshot(d.it, surface, alerts[d.seen:])
	d.seen = len(alerts)
	return false, emit(enc, Event{Event: EventOK, Op: action.Op, Snapshot: snap})
}

func (d *Driver) runScript(ctx context.Context, action Action) error {
	if len(action.Commands) == 0 {
		return errors.New("run action carries no commands")
	}
	cmds, err := schema.Decode(action.Commands)
	if err != nil {
		return fmt.Errorf("decode commands: %w", err)
	}
	return d.it.Execute(ctx, cmds)
}

func (d *Driver) setValue(ctx context.Context, action Action) error {
	clean, err := SanitizeInput(action.Value)
	if err != nil {
		return err
	}
	return d.it.SetValue(ctx, action.Node, clean)
}

func emit(enc *json.Encoder, ev Event) error {
	if err := enc.Encode(ev); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
