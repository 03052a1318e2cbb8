package cmd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/kozaktomas/saliency-bias/internal/analysis"
	"github.com/kozaktomas/saliency-bias/internal/config"
	"github.com/kozaktomas/saliency-bias/internal/constants"
	"github.com/kozaktomas/saliency-bias/internal/database"
	"github.com/kozaktomas/saliency-bias/internal/imagestats"
	"github.com/spf13/cobra"
)

var propertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "Relate image contrast and sharpness to the saliency outcome",
	Long: `Measure contrast and sharpness of every chosen and not-chosen image of a
cached compare-pair result and report how each property correlates with being
chosen. The property table is saved and reused on later runs.

Run compare-pair with the same groups and sample count first.`,
	RunE: runProperties,
}

func init() {
	rootCmd.AddCommand(propertiesCmd)

	addPairFlags(propertiesCmd)
	propertiesCmd.Flags().Int("samples", constants.DefaultSamples, "Sample count of the cached comparison")
	propertiesCmd.Flags().Bool("force", false, "Re-measure even if a saved property table exists")
	propertiesCmd.Flags().Bool("no-progress", false, "Disable the progress bar")
	propertiesCmd.Flags().Bool("json", false, "Output as JSON")
}

// errNoCachedResult is returned when properties are requested before the comparison ran.
var errNoCachedResult = errors.New("no cached comparison result")

// loadOrBuildTable returns the saved property table of the pair or measures
// the images of the cached result and saves a new table.
func loadOrBuildTable(ctx context.Context, dir, group1, group2 string, force bool,
	openResults func(ctx context.Context) (database.ResultStore, error), key string, m analysis.Measurer,
) (*analysis.Table, error) {
	if !force {
		table, err := analysis.LoadTable(dir, group1, group2)
		if err == nil {
			return table, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	store, err := openResults(ctx)
	if err != nil {
		return nil, err
	}
	defer closeStore(store)

	result, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached result %s: %w", key, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w %s, run compare-pair first", errNoCachedResult, key)
	}

	table, err := analysis.BuildPropertyTable(ctx, result, m)
	if err != nil {
		return nil, err
	}
	if _, err := analysis.SaveTable(dir, table); err != nil {
		return nil, err
	}
	return table, nil
}

func formatCorrelation(v float64) string {
	if math.IsNaN(v) {
		return "undefined"
	}
	return fmt.Sprintf("%+.3f", v)
}

func runProperties(cmd *cobra.Command, args []string) error {
	pair, err := readPairFlags(cmd)
	if err != nil {
		return err
	}
	samples := mustGetInt(cmd, "samples")
	if err := validateSamples(samples); err != nil {
		return err
	}
	jsonOutput := mustGetBool(cmd, "json")

	cfg := config.Load()
	ctx, cancel := signalContext()
	defer cancel()

	measurer := imagestats.NewMeasurer(!mustGetBool(cmd, "no-progress") && !jsonOutput)
	openResults := func(ctx context.Context) (database.ResultStore, error) {
		return openStore(ctx, &cfg.Cache)
	}
	key := database.ResultKey(pair.group1(), pair.group2(), samples)

	table, err := loadOrBuildTable(ctx, cfg.Properties.Dir, pair.group1(), pair.group2(),
		mustGetBool(cmd, "force"), openResults, key, measurer)
	if err != nil {
		return err
	}

	corr := analysis.Correlate(table)
	if jsonOutput {
		// NaN cannot be encoded as JSON.
		out := map[string]any{"group1": table.Group1, "group2": table.Group2, "rows": corr.Rows}
		if !math.IsNaN(corr.Contrast) {
			out["contrast"] = corr.Contrast
		}
		if !math.IsNaN(corr.Sharpness) {
			out["sharpness"] = corr.Sharpness
		}
		return outputJSON(out)
	}

	fmt.Printf("Property table %s (%d images)\n", analysis.TablePath(cfg.Properties.Dir, table.Group1, table.Group2), corr.Rows)
	fmt.Printf("Correlation with being chosen:\n")
	fmt.Printf("  Contrast:  %s\n", formatCorrelation(corr.Contrast))
	fmt.Printf("  Sharpness: %s\n", formatCorrelation(corr.Sharpness))
	return nil
}
