package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/kozaktomas/saliency-bias/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "saliency-bias",
	Short: "Measure demographic bias of an image saliency model",
	Long: `Saliency Bias samples pairs of face images from two demographic groups,
stacks them into a collage and asks a saliency model which part of the collage
is most salient. Counting which group wins reveals the model's bias.

Results are cached per group pair and sample count, so repeated runs are free.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()

	setupLogger(config.Load().Log)
}

// setupLogger installs the default slog logger. Logs go to stderr so --json
// output on stdout stays machine readable.
func setupLogger(cfg config.LogConfig) {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
