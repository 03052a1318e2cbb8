package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/saliency-bias/internal/analysis"
	"github.com/kozaktomas/saliency-bias/internal/config"
	"github.com/kozaktomas/saliency-bias/internal/constants"
	"github.com/kozaktomas/saliency-bias/internal/database"
	"github.com/kozaktomas/saliency-bias/internal/dataset"
	"github.com/kozaktomas/saliency-bias/internal/saliency"
	"github.com/kozaktomas/saliency-bias/internal/sampling"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two groups selected by a single trait each",
	Long: `Compare two demographic groups, each selected by one trait.

Examples:
  saliency-bias compare --trait1 race --group1 Black --trait2 race --group2 White
  saliency-bias compare --trait1 gender --group1 Male --trait2 gender --group2 Female --samples 500

The result is cached under {group1}_{group2}_{samples}; a cached result is
reported without drawing again.`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().String("trait1", "", "Trait selecting group 1 (gender or race)")
	compareCmd.Flags().String("trait2", "", "Trait selecting group 2 (gender or race)")
	compareCmd.Flags().String("group1", "", "Label of group 1")
	compareCmd.Flags().String("group2", "", "Label of group 2")
	addComparisonFlags(compareCmd)
	compareCmd.MarkFlagRequired("trait1")
	compareCmd.MarkFlagRequired("trait2")
	compareCmd.MarkFlagRequired("group1")
	compareCmd.MarkFlagRequired("group2")
}

// addComparisonFlags registers the flags shared by every comparison command.
func addComparisonFlags(cmd *cobra.Command) {
	cmd.Flags().Int("samples", constants.DefaultSamples, "Number of draws")
	cmd.Flags().Int("seed", -1, "Random seed for draws (-1 = SAMPLING_SEED)")
	cmd.Flags().String("collage-dir", "", "Directory for collage images (default COLLAGE_DIR)")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")
	cmd.Flags().Bool("json", false, "Output as JSON")
}

// comparison describes one group-pair comparison independent of how the
// groups are selected from the dataset.
type comparison struct {
	group1  string
	group2  string
	samples int
	// selectGroups returns the image files of both groups.
	selectGroups func(ds *dataset.Dataset) ([]string, []string, error)
}

func (c comparison) key() string {
	return database.ResultKey(c.group1, c.group2, c.samples)
}

// comparisonDeps holds everything a comparison touches only on a cache miss.
type comparisonDeps struct {
	loadDataset func() (*dataset.Dataset, error)
	newOracle   func(ctx context.Context) (saliency.Oracle, error)
	engine      sampling.Options
}

// runComparison returns the cached result of c or computes and stores it.
// The dataset is loaded and the oracle created only on a miss.
func runComparison(ctx context.Context, store database.ResultStore, c comparison, deps comparisonDeps) (*database.ComparisonResult, bool, error) {
	cache := database.NewCache(store)

	return cache.GetOrCompute(ctx, c.key(), func(ctx context.Context) (*database.ComparisonResult, error) {
		ds, err := deps.loadDataset()
		if err != nil {
			return nil, fmt.Errorf("failed to load dataset: %w", err)
		}
		files1, files2, err := c.selectGroups(ds)
		if err != nil {
			return nil, err
		}
		slog.Info("groups selected", "group1", c.group1, "size1", len(files1), "group2", c.group2, "size2", len(files2))

		oracle, err := deps.newOracle(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create saliency oracle: %w", err)
		}

		runID := uuid.NewString()
		start := time.Now()
		slog.Info("comparison started", "key", c.key(), "run_id", runID, "oracle", oracle.Name())

		outcome, err := sampling.New(oracle, deps.engine).Compare(ctx, files1, files2, c.samples)
		if err != nil {
			return nil, fmt.Errorf("comparison %s failed: %w", c.key(), err)
		}

		slog.Info("comparison finished", "key", c.key(), "run_id", runID,
			"discarded", outcome.Discarded, "took", formatDuration(time.Since(start)))

		return &database.ComparisonResult{
			Group1: database.GroupOutcome{
				Name:      c.group1,
				Chosen:    outcome.ChosenGroup1,
				NotChosen: outcome.NotChosenGroup1,
			},
			Group2: database.GroupOutcome{
				Name:      c.group2,
				Chosen:    outcome.ChosenGroup2,
				NotChosen: outcome.NotChosenGroup2,
			},
			Samples:   c.samples,
			Discarded: outcome.Discarded,
			Oracle:    oracle.Name(),
			RunID:     runID,
			CreatedAt: time.Now().UTC(),
		}, nil
	})
}

// validateSamples rejects negative sample counts.
func validateSamples(n int) error {
	if n < 0 {
		return fmt.Errorf("--samples must not be negative, got %d", n)
	}
	return nil
}

// newComparisonDeps builds the production dependencies from config and flags.
func newComparisonDeps(cmd *cobra.Command, cfg *config.Config) comparisonDeps {
	seed := cfg.Sampling.Seed
	if s := mustGetInt(cmd, "seed"); s >= 0 {
		seed = uint64(s)
	}
	collageDir := mustGetString(cmd, "collage-dir")
	if collageDir == "" {
		collageDir = cfg.Sampling.CollageDir
	}

	return comparisonDeps{
		loadDataset: func() (*dataset.Dataset, error) {
			return dataset.Load(cfg.Dataset.TrainLabels, cfg.Dataset.ValLabels, cfg.Dataset.ImagesRoot)
		},
		newOracle: func(ctx context.Context) (saliency.Oracle, error) {
			return saliency.New(ctx, &cfg.Saliency)
		},
		engine: sampling.Options{
			Rand:         sampling.NewRand(seed),
			CollageDir:   collageDir,
			ShowProgress: !mustGetBool(cmd, "no-progress") && !mustGetBool(cmd, "json"),
		},
	}
}

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// executeComparison runs c against the configured store and prints the summary.
func executeComparison(cmd *cobra.Command, cfg *config.Config, c comparison) error {
	ctx, cancel := signalContext()
	defer cancel()

	store, err := openStore(ctx, &cfg.Cache)
	if err != nil {
		return err
	}
	defer closeStore(store)

	result, cached, err := runComparison(ctx, store, c, newComparisonDeps(cmd, cfg))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("comparison cancelled, nothing was cached")
		}
		return err
	}

	summary := analysis.Summarize(result)
	if mustGetBool(cmd, "json") {
		return outputJSON(map[string]any{
			"key":     result.Key,
			"cached":  cached,
			"summary": summary,
		})
	}

	if cached {
		fmt.Printf("Using cached result %s\n", result.Key)
	}
	summary.Write(os.Stdout)
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	trait1 := mustGetString(cmd, "trait1")
	trait2 := mustGetString(cmd, "trait2")
	group1 := mustGetString(cmd, "group1")
	group2 := mustGetString(cmd, "group2")
	samples := mustGetInt(cmd, "samples")

	// Validate everything before touching the dataset or the store.
	for _, t := range []string{trait1, trait2} {
		if err := dataset.ValidateTrait(t); err != nil {
			return err
		}
	}
	for _, g := range []string{group1, group2} {
		if err := dataset.ValidateGroup(g); err != nil {
			return err
		}
	}
	if err := validateSamples(samples); err != nil {
		return err
	}

	cfg := config.Load()
	return executeComparison(cmd, cfg, singleTraitComparison(trait1, group1, trait2, group2, samples))
}

// singleTraitComparison selects each group by one trait.
func singleTraitComparison(trait1, group1, trait2, group2 string, samples int) comparison {
	return comparison{
		group1:  group1,
		group2:  group2,
		samples: samples,
		selectGroups: func(ds *dataset.Dataset) ([]string, []string, error) {
			files1, err := ds.Filter(trait1, group1)
			if err != nil {
				return nil, nil, err
			}
			files2, err := ds.Filter(trait2, group2)
			if err != nil {
				return nil, nil, err
			}
			return files1, files2, nil
		},
	}
}
