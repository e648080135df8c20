package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	flux "github.com/hashhooshy/flux-labs"
	"github.com/hashhooshy/flux-labs/internal/presentation/html"
	"github.com/hashhooshy/flux-labs/internal/presentation/tui"
	"github.com/hashhooshy/flux-labs/pkg/adapters/headless"
	loamlib "github.com/hashhooshy/flux-labs/pkg/adapters/loam"
	"github.com/hashhooshy/flux-labs/pkg/adapters/process"
	"github.com/hashhooshy/flux-labs/pkg/domain"
	"github.com/hashhooshy/flux-labs/pkg/registry"
	"github.com/hashhooshy/flux-labs/pkg/runner"
	"github.com/hashhooshy/flux-labs/pkg/schema"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Source       string // script file, "-" for stdin, or a page library directory
	Page         string // page id when Source is a directory
	Format       string // text, html or json
	Interactive  bool
	Watch        bool
	Debug        bool
	User         string
	Store        string
	RedisAddr    string
	DataDir      string
	Set          []string // initial state as k=v pairs
	Tools        string   // tool declaration file; empty disables tools
	UnsafeInline bool     // enable the exec command kind
}

// defaultToolsFile is the --tools flag default, resolved near the source
// when the flag was not set explicitly.
const defaultToolsFile = "tools.yaml"

// Execute handles the 'run' command logic, dispatching to Watch or single-run mode.
func Execute(opts RunOptions) error {
	// Smart default: a tools.yaml next to the script wins over one in the
	// working directory.
	if opts.Tools == defaultToolsFile {
		if near := toolsNear(opts.Source); near != "" {
			opts.Tools = near
		}
	}

	if opts.Watch {
		if opts.Interactive {
			return fmt.Errorf("--watch and --interactive cannot be used together")
		}
		if opts.Source == "-" {
			return fmt.Errorf("--watch cannot follow stdin")
		}
		RunWatch(opts)
		return nil
	}
	return RunScript(opts)
}

// toolsNear returns the path of a tools.yaml sitting next to the source, or
// empty when there is none.
func toolsNear(source string) string {
	if source == "" || source == "-" {
		return ""
	}
	info, err := os.Stat(source)
	if err != nil {
		return ""
	}
	dir := source
	if !info.IsDir() {
		dir = filepath.Dir(source)
	}
	candidate := filepath.Join(dir, defaultToolsFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// RunScript executes one script end to end and renders the resulting tree.
func RunScript(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	if opts.Interactive {
		tui.PrintBanner(flux.Version)
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	bundle, err := BuildStore(opts.Store, opts.RedisAddr, opts.DataDir)
	if err != nil {
		return err
	}
	defer bundle.Close()

	it, surface, err := executeAndRender(sigCtx, opts, bundle, logger)
	if err != nil {
		if handleExecutionError(err) == nil {
			printSystemMessage("Interrupted.")
			return nil
		}
		return err
	}

	if opts.Interactive {
		return RunInteractive(sigCtx, it, surface)
	}
	return nil
}

// executeAndRender runs one full pass: load, seed, execute, render.
func executeAndRender(ctx context.Context, opts RunOptions, bundle *StoreBundle, logger *slog.Logger) (*flux.Interpreter, *headless.Surface, error) {
	cmds, source, err := LoadCommands(ctx, opts.Source, opts.Page)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Script loaded", "source", source, "commands", len(cmds))

	surface := headless.New()
	it := newInterpreter(surface, bundle, opts, logger)

	if err := seedState(it, opts.Set); err != nil {
		return nil, nil, err
	}

	if err := it.Execute(ctx, cmds); err != nil {
		return it, surface, err
	}
	return it, surface, render(os.Stdout, surface, it, opts.Format)
}

// newInterpreter assembles the interpreter with standard CLI conventions.
func newInterpreter(surface *headless.Surface, bundle *StoreBundle, opts RunOptions, logger *slog.Logger) *flux.Interpreter {
	itOpts := []flux.Option{
		flux.WithSurface(surface),
		flux.WithLogger(logger),
		flux.WithDocumentStore(bundle.Store),
		flux.WithUser(ResolveUser(opts.User)),
	}
	if opts.Debug {
		itOpts = append(itOpts, flux.WithLifecycleHooks(createDebugHooks(logger)))
	}
	if reg := buildToolHandlers(opts, logger); reg != nil {
		itOpts = append(itOpts, flux.WithHandlers(reg))
	}
	return flux.New(itOpts...)
}

// buildToolHandlers assembles the external tool registry from the --tools
// declaration file. A broken file is not fatal: the run proceeds without
// tools, like the missing-file case.
func buildToolHandlers(opts RunOptions, logger *slog.Logger) *registry.Registry {
	var tools map[string]process.ToolConfig
	if opts.Tools != "" {
		loaded, err := process.LoadTools(opts.Tools)
		if err != nil {
			logger.Warn("Failed to load tools config", "path", opts.Tools, "err", err)
		} else {
			tools = loaded
		}
	}
	if len(tools) == 0 && !opts.UnsafeInline {
		return nil
	}

	if opts.UnsafeInline {
		logger.Warn("Inline execution enabled: scripts may run arbitrary commands")
	}
	proc := process.New(
		process.WithTools(tools),
		process.WithInlineExecution(opts.UnsafeInline),
		process.WithLogger(logger),
	)
	reg := registry.NewRegistry()
	proc.Bind(reg)
	return reg
}

// LoadCommands resolves a script source into a command list. A directory is
// treated as a page library, "-" as stdin, anything else as a script file.
func LoadCommands(ctx context.Context, source, page string) ([]domain.Command, string, error) {
	if source == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		cmds, err := schema.Decode(raw)
		if err != nil {
			return nil, "", err
		}
		return cmds, "stdin", nil
	}

	info, err := os.Stat(source)
	if err != nil {
		return nil, "", fmt.Errorf("cannot open %q: %w", source, err)
	}

	if info.IsDir() {
		library, err := loamlib.Open(source)
		if err != nil {
			return nil, "", err
		}
		if page == "" {
			page = "index"
		}
		p, err := library.Page(ctx, page)
		if err != nil {
			return nil, "", err
		}
		return p.Commands, fmt.Sprintf("%s (page %s)", source, p.ID), nil
	}

	raw, err := os.ReadFile(source)
	if err != nil {
		return nil, "", fmt.Errorf("read script: %w", err)
	}
	cmds, err := schema.Decode(raw)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", source, err)
	}
	return cmds, source, nil
}

// seedState applies --set k=v pairs to the interpreter state.
func seedState(it *flux.Interpreter, pairs []string) error {
	seed, err := parseAssignments(pairs)
	if err != nil {
		return err
	}
	for k, v := range seed {
		it.State().Set(k, v)
	}
	return nil
}

func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q (expected key=value)", pair)
		}
		out[key] = value
	}
	return out, nil
}

// render writes the surface contents in the requested format. The json format
// reuses the driver snapshot so scripted callers see one shape everywhere.
func render(w io.Writer, surface *headless.Surface, it *flux.Interpreter, format string) error {
	nodes := surface.Output().Nodes()

	switch format {
	case "", "text":
		r := tui.NewRenderer(tui.WithMarkdown())
		if out := r.Render(nodes); out != "" {
			fmt.Fprint(w, out)
		}
		for _, a := range surface.Alerts() {
			fmt.Fprintln(w, r.FormatAlert(a.Title, a.Text))
		}
		if surface.View() == "frame" {
			printSystemMessage("Viewing frame '%s'.", surface.FrameURL())
		}
	case "html":
		fmt.Fprintln(w, html.Render(nodes))
	case "json":
		snap := runner.NewSnapshot(it, surface, surface.Alerts())
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	default:
		return fmt.Errorf("unknown format %q (expected text, html or json)", format)
	}
	return nil
}
