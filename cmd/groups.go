package cmd

import (
	"fmt"
	"strings"

	"github.com/kozaktomas/saliency-bias/internal/config"
	"github.com/kozaktomas/saliency-bias/internal/dataset"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List valid traits and group labels",
	Long: `List the traits and group labels accepted by the comparison commands.
With --counts the dataset is loaded and the number of images per label is shown.`,
	RunE: runGroups,
}

func init() {
	rootCmd.AddCommand(groupsCmd)

	groupsCmd.Flags().Bool("counts", false, "Load the dataset and show image counts per label")
	groupsCmd.Flags().Bool("json", false, "Output as JSON")
}

// loadGroupCounts counts dataset rows per trait and label.
func loadGroupCounts(cfg *config.Config) (map[string]map[string]int, error) {
	ds, err := dataset.Load(cfg.Dataset.TrainLabels, cfg.Dataset.ValLabels, cfg.Dataset.ImagesRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	counts := make(map[string]map[string]int)
	for _, trait := range dataset.ValidTraits() {
		c, err := ds.Counts(trait)
		if err != nil {
			return nil, err
		}
		counts[trait] = c
	}
	return counts, nil
}

func runGroups(cmd *cobra.Command, args []string) error {
	var counts map[string]map[string]int
	if mustGetBool(cmd, "counts") {
		var err error
		if counts, err = loadGroupCounts(config.Load()); err != nil {
			return err
		}
	}

	if mustGetBool(cmd, "json") {
		return outputJSON(map[string]any{
			"traits": dataset.ValidTraits(),
			"groups": dataset.ValidGroups(),
			"counts": counts,
		})
	}

	fmt.Printf("Traits: %s\n", strings.Join(dataset.ValidTraits(), ", "))
	if counts == nil {
		fmt.Println("Groups:")
		for _, g := range dataset.ValidGroups() {
			fmt.Printf("  %s\n", g)
		}
		return nil
	}

	p := message.NewPrinter(language.English)
	for _, trait := range dataset.ValidTraits() {
		fmt.Printf("\n%s:\n", trait)
		for _, g := range dataset.ValidGroups() {
			if n, ok := counts[trait][g]; ok {
				p.Printf("  %-18s %8d\n", g, n)
			}
		}
	}
	return nil
}
