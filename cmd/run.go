package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"martctl/internal/ui"
	"martctl/internal/warehouse"
	"martctl/pkg/errors"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full warehouse pipeline",
	Long: `Run every pipeline stage in order: rebuild the session and order tables
from the raw events, populate the date dimension, classify traffic channels
and recreate the analytical views.

The raw tables must already be loaded (see 'martctl load').`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	start, err := time.Parse("2006-01-02", cfg.DateDim.Start)
	if err != nil {
		return errors.ConfigError("invalid date in configuration: "+cfg.DateDim.Start, "date_dimension.start")
	}
	end, err := time.Parse("2006-01-02", cfg.DateDim.End)
	if err != nil {
		return errors.ConfigError("invalid date in configuration: "+cfg.DateDim.End, "date_dimension.end")
	}

	ui.ShowHeader(fmt.Sprintf("martctl - Warehouse: %s", cfg.Warehouse.Path))

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	wh := warehouse.NewService(store)
	pb := ui.NewProgressBar(4)

	result, err := wh.Rebuild(ctx)
	if err != nil {
		pb.Update(1, "Rebuild session and order tables", false)
		return err
	}
	pb.Update(1, "Rebuild session and order tables", true)

	dateRows, err := wh.PopulateDateDimension(ctx, start, end)
	if err != nil {
		pb.Update(2, "Populate date dimension", false)
		return err
	}
	pb.Update(2, "Populate date dimension", true)

	classified, err := wh.ClassifyChannels(ctx)
	if err != nil {
		pb.Update(3, "Classify traffic channels", false)
		return err
	}
	pb.Update(3, "Classify traffic channels", true)

	if err := wh.CreateViews(ctx); err != nil {
		pb.Update(4, "Create analytical views", false)
		return err
	}
	pb.Update(4, "Create analytical views", true)
	pb.Finish()

	ui.ShowInfo(fmt.Sprintf("Sessions: %s, orders: %s, calendar days: %s, classified: %s",
		ui.FormatRowCount(result.SessionRows),
		ui.FormatRowCount(result.OrderRows),
		ui.FormatRowCount(dateRows),
		ui.FormatRowCount(classified)))
	ui.ShowSuccess("Pipeline completed successfully")
	return nil
}
