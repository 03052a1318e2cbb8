package cmd

import (
	"fmt"
	"os"

	"github.com/kozaktomas/saliency-bias/internal/analysis"
	"github.com/kozaktomas/saliency-bias/internal/config"
	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect cached comparison results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached result keys",
	Args:  cobra.NoArgs,
	RunE:  runResultsList,
}

var resultsShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Show the summary of a cached result",
	Long: `Show the summary of a cached result. Keys have the form
{group1}_{group2}_{samples}, see "results list".`,
	Args: cobra.ExactArgs(1),
	RunE: runResultsShow,
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsShowCmd)

	resultsListCmd.Flags().Bool("json", false, "Output as JSON")
	resultsShowCmd.Flags().Bool("json", false, "Output as JSON")
	resultsShowCmd.Flags().Bool("files", false, "Also list chosen and not-chosen files")
}

func runResultsList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := cmd.Context()

	store, err := openStore(ctx, &cfg.Cache)
	if err != nil {
		return err
	}
	defer closeStore(store)

	keys, err := store.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	if mustGetBool(cmd, "json") {
		if keys == nil {
			keys = []string{}
		}
		return outputJSON(keys)
	}

	if len(keys) == 0 {
		fmt.Println("No cached results")
		return nil
	}
	for _, k := range keys {
		fmt.Println(k)
	}
	return nil
}

func runResultsShow(cmd *cobra.Command, args []string) error {
	key := args[0]
	cfg := config.Load()
	ctx := cmd.Context()

	store, err := openStore(ctx, &cfg.Cache)
	if err != nil {
		return err
	}
	defer closeStore(store)

	result, err := store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read result %s: %w", key, err)
	}
	if result == nil {
		return fmt.Errorf("no cached result %s", key)
	}

	summary := analysis.Summarize(result)
	if mustGetBool(cmd, "json") {
		return outputJSON(map[string]any{"result": result, "summary": summary})
	}

	fmt.Printf("Key:     %s\n", result.Key)
	if result.RunID != "" {
		fmt.Printf("Run:     %s\n", result.RunID)
	}
	if result.Oracle != "" {
		fmt.Printf("Oracle:  %s\n", result.Oracle)
	}
	if !result.CreatedAt.IsZero() {
		fmt.Printf("Created: %s\n", result.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Println()
	summary.Write(os.Stdout)

	if mustGetBool(cmd, "files") {
		for _, g := range []struct {
			name  string
			label string
			files []string
		}{
			{result.Group1.Name, "chosen", result.Group1.Chosen},
			{result.Group1.Name, "not chosen", result.Group1.NotChosen},
			{result.Group2.Name, "chosen", result.Group2.Chosen},
			{result.Group2.Name, "not chosen", result.Group2.NotChosen},
		} {
			fmt.Printf("\n%s %s (%d):\n", g.name, g.label, len(g.files))
			for _, f := range g.files {
				fmt.Printf("  %s\n", f)
			}
		}
	}
	return nil
}
