package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"martctl/internal/ui"
	"martctl/internal/warehouse"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Assign traffic channel groups to sessions",
	Long: `Classify every unlabelled session in dim_session_activity into a traffic
channel group (organic, paid_brand, paid_nonbrand, direct_type_in, paid_social
or other).

Only rows with no channel group yet are touched, so rerunning after an
incremental load classifies just the new sessions.`,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
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
	updated, err := wh.ClassifyChannels(context.Background())
	if err != nil {
		return err
	}

	if updated == 0 {
		ui.ShowInfo("All sessions already classified")
		return nil
	}
	ui.ShowSuccess(fmt.Sprintf("Classified %s", ui.FormatRowCount(updated)))
	return nil
}
