package cli

import (
	"context"
	"log/slog"
	"os"

	flux "github.com/hashhooshy/flux-labs"
	"github.com/hashhooshy/flux-labs/internal/logging"
	"github.com/hashhooshy/flux-labs/pkg/runner"
)

// DriverOptions configures a protocol session on stdin/stdout.
type DriverOptions struct {
	Allow []string
	Debug bool

	User      string
	Store     string
	RedisAddr string
	DataDir   string
}

// RunDriver speaks the line protocol until quit, EOF, or a signal. Protocol
// traffic owns stdout; logs go to stderr.
func RunDriver(opts DriverOptions) error {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := logging.NewWriter(os.Stderr, level)

	bundle, err := BuildStore(opts.Store, opts.RedisAddr, opts.DataDir)
	if err != nil {
		return err
	}
	defer bundle.Close()

	ctx := NewSignalContext(context.Background())
	defer ctx.Cancel()

	it := flux.New(
		flux.WithLogger(logger),
		flux.WithDocumentStore(bundle.Store),
		flux.WithUser(ResolveUser(opts.User)),
	)

	driverOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithIO(NewInterruptibleReader(os.Stdin, ctx.Done()), os.Stdout),
	}
	if len(opts.Allow) > 0 {
		driverOpts = append(driverOpts, runner.WithInterceptor(runner.AllowOps(opts.Allow...)))
	}

	logger.Info("Starting Flux driver session")
	if err := handleExecutionError(runner.New(it, driverOpts...).Run(ctx)); err != nil {
		return err
	}
	logger.Info("Driver session ended")
	return nil
}
