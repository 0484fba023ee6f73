package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"martctl/internal/ui"
	"martctl/internal/warehouse"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Create the analytical views",
	Long: `Drop and recreate the analytical view layer. Views are virtual and
recomputed on read, so this is safe to rerun at any time.`,
	RunE: runViews,
}

func init() {
	rootCmd.AddCommand(viewsCmd)
}

func runViews(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	wh := warehouse.NewService(store)
	if err := wh.CreateViews(context.Background()); err != nil {
		return err
	}

	for _, name := range warehouse.ViewNames() {
		ui.ShowInfo("Created " + name)
	}
	ui.ShowSuccess("Analytical views are up to date")
	return nil
}
