// Package headless provides a Surface with no real host behind it. The
// engine renders into plain containers; frame switches and alerts are
// recorded instead of displayed. It backs tests, the validate command, and
// any embedder that only wants node trees.
package headless

import (
	"context"
	"sync"

	"github.com/hashhooshy/flux-labs/pkg/domain"
)

// Surface implements ports.Surface in memory.
type Surface struct {
	output  *domain.Container
	dynamic *domain.Container

	mu       sync.Mutex
	frameURL string
	frames   []string
	alerts   []Alert
	view     string
}

// Alert is one recorded alert call.
type Alert struct {
	Title string
	Text  string
}

// Option configures the surface.
type Option func(*Surface)

// WithoutDynamic drops the dynamic region, making the engine fall back to
// its detached scratch container for trigger output.
func WithoutDynamic() Option {
	return func(s *Surface) {
		s.dynamic = nil
	}
}

// New creates a headless surface with output and dynamic containers.
func New(opts ...Option) *Surface {
	s := &Surface{
		output:  domain.NewContainer("output"),
		dynamic: domain.NewContainer("dynamic"),
		view:    "output",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Output returns the main output container.
func (s *Surface) Output() *domain.Container {
	return s.output
}

// Dynamic returns the dynamic region, or nil when configured without one.
func (s *Surface) Dynamic() *domain.Container {
	return s.dynamic
}

// ShowFrame records a switch to the embedded frame view.
func (s *Surface) ShowFrame(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = "frame"
	s.frameURL = url
	s.frames = append(s.frames, url)
	return nil
}

// ShowOutput records a switch back to the main output view.
func (s *Surface) ShowOutput(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = "output"
	return nil
}

// Alert records a user-visible error overlay.
func (s *Surface) Alert(ctx context.Context, title, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, Alert{Title: title, Text: text})
	return nil
}

// View reports the current view, "output" or "frame".
func (s *Surface) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// FrameURL reports the url of the last frame switch.
func (s *Surface) FrameURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameURL
}

// Frames returns every frame switch in order.
func (s *Surface) Frames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.frames))
	copy(out, s.frames)
	return out
}

// Alerts returns every recorded alert in order.
func (s *Surface) Alerts() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Reset clears both containers and the recorded history.
func (s *Surface) Reset() {
	s.output.Clear()
	if s.dynamic != nil {
		s.dynamic.Clear()
	}
	s.mu.Lock()
	s.frameURL = ""
	s.frames = nil
	s.alerts = nil
	s.view = "output"
	s.mu.Unlock()
}
