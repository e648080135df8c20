package runner

import (
	"encoding/json"

	flux "github.com/hashhooshy/flux-labs"
	"github.com/hashhooshy/flux-labs/internal/presentation/html"
	"github.com/hashhooshy/flux-labs/pkg/adapters/headless"
)

// Ops understood by the driver.
const (
	OpRun      = "run"
	OpTap      = "tap"
	OpSet      = "set"
	OpSnapshot = "snapshot"
	OpReset    = "reset"
	OpQuit     = "quit"
)

// Event kinds emitted by the driver.
const (
	EventOK     = "ok"
	EventError  = "error"
	EventDenied = "denied"
)

// Action is one incoming request line. Commands stays raw until the run op
// decodes it, so a malformed script fails that action alone.
type Action struct {
	Op       string          `json:"op"`
	Node     string          `json:"node,omitempty"`
	Value    string          `json:"value,omitempty"`
	Commands json.RawMessage `json:"commands,omitempty"`
}

// Event is one outgoing response line. Error doubles as the denial reason
// on denied events.
type Event struct {
	Event    string    `json:"event"`
	Op       string    `json:"op,omitempty"`
	Error    string    `json:"error,omitempty"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

// Snapshot is the surface as the host should now display it: rendered HTML
// for both regions, the state bag, alerts raised since the previous event,
// and the active view.
type Snapshot struct {
	HTML     string         `json:"html"`
	Dynamic  string         `json:"dynamic,omitempty"`
	State    map[string]any `json:"state"`
	Alerts   []Alert        `json:"alerts,omitempty"`
	View     string         `json:"view"`
	FrameURL string         `json:"frameUrl,omitempty"`
}

// Alert is one user-visible overlay carried in a snapshot.
type Alert struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// NewSnapshot captures the current surface for the host. The caller decides
// which alerts the host has not seen yet.
func NewSnapshot(it *flux.Interpreter, surface *headless.Surface, alerts []headless.Alert) *Snapshot {
	snap := &Snapshot{
		HTML:     html.Render(surface.Output().Nodes()),
		State:    it.State().Snapshot(),
		View:     surface.View(),
		FrameURL: surface.FrameURL(),
	}
	if d := surface.Dynamic(); d != nil && d.Len() > 0 {
		snap.Dynamic = html.Render(d.Nodes())
	}
	for _, a := range alerts {
		snap.Alerts = append(snap.Alerts, Alert{Title: a.Title, Text: a.Text})
	}
	return snap
}
