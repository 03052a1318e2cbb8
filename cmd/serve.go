package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/kozaktomas/saliency-bias/internal/config"
	"github.com/kozaktomas/saliency-bias/internal/constants"
	"github.com/kozaktomas/saliency-bias/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve cached results over HTTP",
	Long: `Start a read-only HTTP API over the cached comparison results.

Endpoints:
  GET /api/v1/health
  GET /api/v1/groups
  GET /api/v1/results
  GET /api/v1/results/{key}`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", constants.DefaultServePort, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().StringSlice("allow-origin", nil, "Additional CORS origins allowed to read the API")
	serveCmd.Flags().Bool("counts", false, "Load the dataset to report image counts per group")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		if p, err := strconv.Atoi(envPort); err == nil {
			port = p
		}
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	port, host := resolveServeHostPort(cmd)

	var counts map[string]map[string]int
	if mustGetBool(cmd, "counts") {
		var err error
		if counts, err = loadGroupCounts(cfg); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader, release, err := openReader(ctx, &cfg.Cache)
	if err != nil {
		return err
	}
	defer release()

	server := web.NewServer(reader, web.Options{
		Host:           host,
		Port:           port,
		AllowedOrigins: mustGetStringSlice(cmd, "allow-origin"),
		GroupCounts:    counts,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Serving results from %s on http://%s:%d\n", cfg.Cache.CacheBackend(), host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
