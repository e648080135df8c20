package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashhooshy/flux-labs/internal/cli"
	"github.com/hashhooshy/flux-labs/internal/logging"
	httpadapter "github.com/hashhooshy/flux-labs/pkg/adapters/http"
	"github.com/hashhooshy/flux-labs/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stateless HTTP render server",
	Long: `Starts the render API: POST /v1/render executes a command script and returns
the rendered HTML, final state and alerts. Each request runs in a fresh
interpreter; only the document store is shared.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		metricsOn, _ := cmd.Flags().GetBool("metrics")
		debug, _ := cmd.Flags().GetBool("debug")

		storeKind, _ := cmd.Flags().GetString("store")
		redisAddr, _ := cmd.Flags().GetString("redis-addr")
		dataDir, _ := cmd.Flags().GetString("data-dir")

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		logger := logging.New(level)

		bundle, err := cli.BuildStore(storeKind, redisAddr, dataDir)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer bundle.Close()

		cfg := httpadapter.Config{
			Logger: logger,
			Store:  bundle.Store,
			Locker: bundle.Locker,
		}
		if metricsOn {
			metrics := observability.NewMetrics()
			cfg.Metrics = metrics.Handler()
			cfg.Hooks = metrics.Hooks()
		}

		handler, err := httpadapter.NewHandler(cfg)
		if err != nil {
			fmt.Printf("Error building handler: %v\n", err)
			os.Exit(1)
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Flux Server on %s\n", srv.Addr)
			fmt.Printf("Document store: %s\n", storeKind)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Flux Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics at /metrics")
	serveCmd.Flags().Bool("debug", false, "Log at debug level")
}
