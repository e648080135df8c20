package runner

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	flux "github.com/hashhooshy/flux-labs"
	"github.com/hashhooshy/flux-labs/pkg/adapters/memory"
	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/ports"
)

// decodeEvents splits the driver's output into typed events.
func decodeEvents(t *testing.T, output string) []Event {
	t.Helper()
	var events []Event
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("Failed to decode event line %q: %v", line, err)
		}
		events = append(events, ev)
	}
	return events
}

func TestDriver_Session(t *testing.T) {
	store := memory.NewStore()
	it := flux.New(
		flux.WithDocumentStore(store),
		flux.WithUser("host"),
	)

	session := strings.Join([]string{
		`{"op":"run","commands":[` +
			`{"type":"heading","props":{"text":"Profile"}},` +
			`{"type":"input","props":{"id":"name","label":"Name"}},` +
			`{"type":"button","props":{"id":"save","label":"Save","onClick":[` +
			`{"type":"store","props":{"id":"profile-name","value":"{name}"}},` +
			`{"type":"paragraph","props":{"text":"Saved, {name}!"}}]}}]}`,
		`{"op":"set","node":"name","value":"Ada"}`,
		`{"op":"tap","node":"save"}`,
		`{"op":"tap","node":"missing"}`,
		`not json at all`,
		`{"op":"fly"}`,
		`{"op":"quit"}`,
	}, "\n") + "\n"

	var out strings.Builder
	d := New(it, WithIO(strings.NewReader(session), &out))
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	events := decodeEvents(t, out.String())
	if len(events) != 7 {
		t.Fatalf("Expected 7 events, got %d: %s", len(events), out.String())
	}

	// 1. run renders the page.
	if events[0].Event != EventOK || events[0].Op != OpRun {
		t.Errorf("Expected ok/run, got %s/%s", events[0].Event, events[0].Op)
	}
	if events[0].Snapshot == nil || !strings.Contains(events[0].Snapshot.HTML, "Profile") {
		t.Errorf("Expected rendered heading in snapshot, got %+v", events[0].Snapshot)
	}

	// 2. set writes the input value into state.
	if events[1].Event != EventOK {
		t.Fatalf("Expected ok for set, got %s (%s)", events[1].Event, events[1].Error)
	}
	if got := events[1].Snapshot.State["name"]; got != "Ada" {
		t.Errorf("Expected state name 'Ada', got '%v'", got)
	}

	// 3. tap fires the trigger: value persisted, paragraph in the dynamic
	// region.
	if events[2].Event != EventOK || events[2].Op != OpTap {
		t.Fatalf("Expected ok/tap, got %s/%s (%s)", events[2].Event, events[2].Op, events[2].Error)
	}
	if !strings.Contains(events[2].Snapshot.Dynamic, "Saved, Ada!") {
		t.Errorf("Expected trigger output in dynamic html, got %q", events[2].Snapshot.Dynamic)
	}
	stored, err := store.GetField(context.Background(), "host", "profile-name")
	if err != nil {
		t.Fatalf("GetField failed: %v", err)
	}
	if stored != "Ada" {
		t.Errorf("Expected persisted 'Ada', got '%s'", stored)
	}

	// 4. Unknown node answers with an error event, session continues.
	if events[3].Event != EventError || !strings.Contains(events[3].Error, "missing") {
		t.Errorf("Expected error event for missing node, got %+v", events[3])
	}

	// 5. A malformed line answers with a decode error.
	if events[4].Event != EventError || !strings.Contains(events[4].Error, "decode action") {
		t.Errorf("Expected decode error event, got %+v", events[4])
	}

	// 6. Unknown op.
	if events[5].Event != EventError || !strings.Contains(events[5].Error, "unknown op") {
		t.Errorf("Expected unknown op error, got %+v", events[5])
	}

	// 7. quit acknowledges without a snapshot and ends the loop.
	if events[6].Event != EventOK || events[6].Op != OpQuit {
		t.Errorf("Expected ok/quit, got %s/%s", events[6].Event, events[6].Op)
	}
	if events[6].Snapshot != nil {
		t.Error("quit should not carry a snapshot")
	}
}

func TestDriver_EOFEndsSession(t *testing.T) {
	it := flux.New()
	var out strings.Builder
	d := New(it, WithIO(strings.NewReader(`{"op":"snapshot"}`), &out))

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	events := decodeEvents(t, out.String())
	if len(events) != 1 || events[0].Event != EventOK {
		t.Fatalf("Expected a single ok event before EOF, got %+v", events)
	}
}

func TestDriver_PolicyDenies(t *testing.T) {
	it := flux.New()
	session := `{"op":"run","commands":[{"type":"divider"}]}` + "\n" +
		`{"op":"snapshot"}` + "\n" +
		`{"op":"quit"}` + "\n"

	var out strings.Builder
	d := New(it,
		WithIO(strings.NewReader(session), &out),
		WithInterceptor(AllowOps(OpTap, OpSet, OpSnapshot)),
	)
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	events := decodeEvents(t, out.String())
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	if events[0].Event != EventDenied || !strings.Contains(events[0].Error, "not permitted") {
		t.Errorf("Expected denied run, got %+v", events[0])
	}
	if events[1].Event != EventOK || events[1].Op != OpSnapshot {
		t.Errorf("Expected snapshot to pass policy, got %+v", events[1])
	}
	// quit bypasses policy entirely.
	if events[2].Event != EventOK || events[2].Op != OpQuit {
		t.Errorf("Expected quit despite restrictive policy, got %+v", events[2])
	}
}

func TestDriver_ResetClearsEverything(t *testing.T) {
	it := flux.New()
	session := `{"op":"run","commands":[{"type":"heading","props":{"text":"Once"}},{"type":"input","props":{"id":"mood"}}]}` + "\n" +
		`{"op":"set","node":"mood","value":"calm"}` + "\n" +
		`{"op":"reset"}` + "\n"

	var out strings.Builder
	d := New(it, WithIO(strings.NewReader(session), &out))
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	events := decodeEvents(t, out.String())
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	if got := events[1].Snapshot.State["mood"]; got != "calm" {
		t.Fatalf("Expected state mood 'calm' before reset, got '%v'", got)
	}

	last := events[2]
	if last.Event != EventOK || last.Op != OpReset {
		t.Fatalf("Expected ok/reset, got %+v", last)
	}
	if last.Snapshot.HTML != "" {
		t.Errorf("Expected empty html after reset, got %q", last.Snapshot.HTML)
	}
	if len(last.Snapshot.State) != 0 {
		t.Errorf("Expected empty state after reset, got %v", last.Snapshot.State)
	}
	if len(last.Snapshot.Alerts) != 0 {
		t.Errorf("Expected no alerts after reset, got %v", last.Snapshot.Alerts)
	}
}

// frameSurface satisfies ports.Surface without being headless.
type frameSurface struct{ output *domain.Container }

func (f *frameSurface) Output() *domain.Container                 { return f.output }
func (f *frameSurface) Dynamic() *domain.Container                { return nil }
func (f *frameSurface) ShowFrame(context.Context, string) error   { return nil }
func (f *frameSurface) ShowOutput(context.Context) error          { return nil }
func (f *frameSurface) Alert(context.Context, string, string) error { return nil }

var _ ports.Surface = (*frameSurface)(nil)

func TestDriver_RequiresHeadlessSurface(t *testing.T) {
	it := flux.New(flux.WithSurface(&frameSurface{output: domain.NewContainer("out")}))
	d := New(it, WithIO(strings.NewReader(""), &strings.Builder{}))

	if err := d.Run(context.Background()); err != ErrSurfaceRequired {
		t.Fatalf("Expected ErrSurfaceRequired, got %v", err)
	}
}
