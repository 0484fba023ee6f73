package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"martctl/internal/ui"
	"martctl/internal/warehouse"
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Rebuild the session and order tables from raw events",
	Long: `Rebuild dim_session_activity and fact_orders from the raw event tables.

The rebuild is all-or-nothing: both tables are emptied and repopulated in a
single transaction, so a failure part-way leaves the previous contents intact.
Channel classifications are discarded by the rebuild; run 'martctl classify'
afterwards to restore them.`,
	RunE: runTransform,
}

func init() {
	rootCmd.AddCommand(transformCmd)
}

func runTransform(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	spinner := ui.NewSpinner("Rebuilding warehouse tables...")
	spinner.Start()

	wh := warehouse.NewService(store)
	result, err := wh.Rebuild(context.Background())
	if err != nil {
		spinner.Stop(false, "Rebuild failed")
		return err
	}

	spinner.Stop(true, "Rebuild complete")
	ui.ShowInfo(fmt.Sprintf("dim_session_activity: %s", ui.FormatRowCount(result.SessionRows)))
	ui.ShowInfo(fmt.Sprintf("fact_orders: %s", ui.FormatRowCount(result.OrderRows)))
	return nil
}
