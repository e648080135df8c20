// Package process turns external programs into script commands. Tools are
// declared in an allow-list (usually tools.yaml); Bind registers each one as
// a command kind, so a script invokes a tool like any built-in:
//
//	{"type": "fortune", "props": {"into": "quote"}}
//
// Props reach the program as FLUX_PROP_* environment variables, never as
// arguments, so a prop value cannot inject flags. The program's stdout lands
// in the state bag under the into prop, or renders as a paragraph when into
// is absent.
package process

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/hashhooshy/flux-labs/internal/logging"
	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/registry"
	"github.com/hashhooshy/flux-labs/pkg/schema"
)

// ExecKind is the command type for ad-hoc execution, available only when
// inline execution is enabled.
const ExecKind = "exec"

// EnvPrefix is prepended to prop names exported into a tool's environment.
const EnvPrefix = "FLUX_PROP_"

// reservedProps steer the invocation itself and are never exported.
var reservedProps = map[string]bool{
	"id":      true,
	"into":    true,
	"command": true,
	"args":    true,
	"timeout": true,
}

// Runner executes allow-listed external programs on behalf of scripts.
type Runner struct {
	tools       map[string]ToolConfig
	allowInline bool
	baseDir     string
	logger      *slog.Logger
}

// Option configures the runner.
type Option func(*Runner)

// WithTools populates the allow-list from a loaded declaration file.
func WithTools(tools map[string]ToolConfig) Option {
	return func(r *Runner) {
		for name, tool := range tools {
			tool.Name = name
			r.tools[name] = tool
		}
	}
}

// WithInlineExecution enables the exec command kind, which runs whatever
// program the script names. Off by default; only enable it for scripts you
// trust completely.
func WithInlineExecution(allow bool) Option {
	return func(r *Runner) {
		r.allowInline = allow
	}
}

// WithBaseDir sets the working directory tools run in.
func WithBaseDir(dir string) Option {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a runner. Without options it allows nothing.
func New(opts ...Option) *Runner {
	r := &Runner{
		tools:  make(map[string]ToolConfig),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds one program to the allow-list.
func (r *Runner) Register(name, command string, args ...string) {
	r.tools[name] = ToolConfig{Name: name, Command: command, Args: args}
}

// Tools returns the configured tools keyed by name.
func (r *Runner) Tools() map[string]ToolConfig {
	out := make(map[string]ToolConfig, len(r.tools))
	for name, tool := range r.tools {
		out[name] = tool
	}
	return out
}

// Bind registers every configured tool as a command kind on reg, plus the
// exec kind when inline execution is enabled.
func (r *Runner) Bind(reg *registry.Registry) {
	for name := range r.tools {
		tool := r.tools[name]
		reg.Register(name, func(ctx context.Context, cmd domain.Command, container *domain.Container) (*domain.Node, error) {
			return r.execute(ctx, tool, cmd.Props)
		})
	}
	if r.allowInline {
		reg.Register(ExecKind, r.execInline)
	}
}

// execInline builds a one-off tool from the command's own props.
func (r *Runner) execInline(ctx context.Context, cmd domain.Command, container *domain.Container) (*domain.Node, error) {
	command := schema.Text(cmd.Props, "command")
	if command == "" {
		return nil, fmt.Errorf("exec without a command prop")
	}
	tool := ToolConfig{
		Name:    ExecKind,
		Command: command,
		Args:    schema.Items(cmd.Props, "args"),
		Timeout: schema.FloatOr(cmd.Props, "timeout", 0),
	}
	return r.execute(ctx, tool, cmd.Props)
}

// execute runs one tool and routes its output. Props arrive already
// interpolated, so {key} references resolve before the program sees them.
func (r *Runner) execute(parent context.Context, tool ToolConfig, props map[string]any) (*domain.Node, error) {
	ctx := parent
	if tool.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, time.Duration(tool.Timeout*float64(time.Second)))
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, tool.Command, tool.Args...)
	cmd.Dir = r.baseDir
	cmd.Env = cmd.Environ()
	for k, v := range tool.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	for k, v := range props {
		if reservedProps[k] {
			continue
		}
		cmd.Env = append(cmd.Env, envKey(k)+"="+envValue(v))
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running tool", "tool", tool.Name, "command", tool.Command)
	start := time.Now()
	if err := cmd.Run(); err != nil {
		// Host cancellation outranks the process error detail; a tool-level
		// timeout must NOT look like host cancellation, or the executor
		// would abort the whole run over one slow tool.
		if parent.Err() != nil {
			return nil, parent.Err()
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("tool %q timed out after %gs", tool.Name, tool.Timeout)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("tool %q: %w: %s", tool.Name, err, msg)
		}
		return nil, fmt.Errorf("tool %q: %w", tool.Name, err)
	}
	r.logger.Debug("tool finished", "tool", tool.Name, "duration", time.Since(start))

	output := strings.TrimSpace(stdout.String())

	if into := schema.Text(props, "into"); into != "" {
		if state, ok := registry.StateFrom(ctx); ok {
			state.Set(into, parseOutput(output))
			return nil, nil
		}
		r.logger.Warn("no state on context, rendering tool output instead", "tool", tool.Name, "into", into)
	}

	node := domain.NewNode(domain.CmdParagraph)
	node.Text = output
	return node, nil
}

// parseOutput keeps structured results structured: stdout that reads as a
// JSON object or array lands in state decoded, anything else as the string.
func parseOutput(output string) any {
	if strings.HasPrefix(output, "{") && strings.HasSuffix(output, "}") ||
		strings.HasPrefix(output, "[") && strings.HasSuffix(output, "]") {
		var v any
		if err := json.Unmarshal([]byte(output), &v); err == nil {
			return v
		}
	}
	return output
}

// envKey maps a prop name onto a safe environment variable name.
func envKey(k string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, k)
	return EnvPrefix + mapped
}

// envValue serializes a prop value for the environment: primitives verbatim,
// anything structured as JSON.
func envValue(v any) string {
	switch v.(type) {
	case string, int, int64, float64, bool:
		return fmt.Sprintf("%v", v)
	case nil:
		return ""
	default:
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
		return fmt.Sprintf("%v", v)
	}
}
