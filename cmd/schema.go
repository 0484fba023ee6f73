package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"martctl/internal/ui"
	"martctl/internal/warehouse"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the warehouse tables",
	Long: `Create the dimensional and fact tables in the warehouse file.

Existing rebuilt tables (dim_session_activity, fact_orders) are emptied so a
following transform starts from a clean slate. The date dimension is left
untouched.`,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
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
	if err := wh.EnsureSchema(context.Background()); err != nil {
		return err
	}

	ui.ShowSuccess("Warehouse schema is in place")
	return nil
}
