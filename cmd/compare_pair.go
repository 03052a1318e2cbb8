package cmd

import (
	"github.com/kozaktomas/saliency-bias/internal/config"
	"github.com/kozaktomas/saliency-bias/internal/dataset"
	"github.com/spf13/cobra"
)

var comparePairCmd = &cobra.Command{
	Use:   "compare-pair",
	Short: "Compare two race and gender intersections",
	Long: `Compare two groups that are each the intersection of a race and a gender.
The groups are named by joining race and gender, e.g. BlackMale.

Examples:
  saliency-bias compare-pair --race1 Black --gender1 Male --race2 White --gender2 Male`,
	RunE: runComparePair,
}

func init() {
	rootCmd.AddCommand(comparePairCmd)

	addPairFlags(comparePairCmd)
	addComparisonFlags(comparePairCmd)
}

// addPairFlags registers the race and gender flags of both groups.
func addPairFlags(cmd *cobra.Command) {
	cmd.Flags().String("race1", "", "Race of group 1")
	cmd.Flags().String("race2", "", "Race of group 2")
	cmd.Flags().String("gender1", "", "Gender of group 1")
	cmd.Flags().String("gender2", "", "Gender of group 2")
	for _, name := range []string{"race1", "race2", "gender1", "gender2"} {
		cmd.MarkFlagRequired(name)
	}
}

// pairFlags holds the validated race and gender flags of both groups.
type pairFlags struct {
	race1, race2     string
	gender1, gender2 string
}

func (p pairFlags) group1() string { return dataset.CompositeName(p.race1, p.gender1) }
func (p pairFlags) group2() string { return dataset.CompositeName(p.race2, p.gender2) }

// readPairFlags reads and validates the pair flags without any I/O.
func readPairFlags(cmd *cobra.Command) (pairFlags, error) {
	p := pairFlags{
		race1:   mustGetString(cmd, "race1"),
		race2:   mustGetString(cmd, "race2"),
		gender1: mustGetString(cmd, "gender1"),
		gender2: mustGetString(cmd, "gender2"),
	}
	for _, label := range []string{p.race1, p.race2, p.gender1, p.gender2} {
		if err := dataset.ValidateGroup(label); err != nil {
			return pairFlags{}, err
		}
	}
	return p, nil
}

func runComparePair(cmd *cobra.Command, args []string) error {
	pair, err := readPairFlags(cmd)
	if err != nil {
		return err
	}
	samples := mustGetInt(cmd, "samples")
	if err := validateSamples(samples); err != nil {
		return err
	}

	cfg := config.Load()
	return executeComparison(cmd, cfg, pairComparison(pair, samples))
}

// pairComparison selects each group by race and gender together.
func pairComparison(p pairFlags, samples int) comparison {
	return comparison{
		group1:  p.group1(),
		group2:  p.group2(),
		samples: samples,
		selectGroups: func(ds *dataset.Dataset) ([]string, []string, error) {
			files1, err := ds.FilterComposite(p.race1, p.gender1)
			if err != nil {
				return nil, nil, err
			}
			files2, err := ds.FilterComposite(p.race2, p.gender2)
			if err != nil {
				return nil, nil, err
			}
			return files1, files2, nil
		},
	}
}
