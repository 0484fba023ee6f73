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

var (
	datesStart string
	datesEnd   string
)

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "Populate the date dimension",
	Long: `Generate one dim_date row per calendar day between the configured start
and end dates (inclusive). Existing rows are overwritten, so the command can be
rerun to extend or refresh the calendar.`,
	RunE: runDates,
}

func init() {
	rootCmd.AddCommand(datesCmd)

	datesCmd.Flags().StringVar(&datesStart, "start", "", "First calendar day, YYYY-MM-DD (overrides config)")
	datesCmd.Flags().StringVar(&datesEnd, "end", "", "Last calendar day, YYYY-MM-DD (overrides config)")
}

func runDates(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	startStr := cfg.DateDim.Start
	if datesStart != "" {
		startStr = datesStart
	}
	endStr := cfg.DateDim.End
	if datesEnd != "" {
		endStr = datesEnd
	}

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return errors.ValidationError("start", startStr, "must be a date in YYYY-MM-DD form")
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return errors.ValidationError("end", endStr, "must be a date in YYYY-MM-DD form")
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	wh := warehouse.NewService(store)
	rows, err := wh.PopulateDateDimension(context.Background(), start, end)
	if err != nil {
		return err
	}

	ui.ShowSuccess(fmt.Sprintf("Date dimension covers %s to %s (%s)",
		startStr, endStr, ui.FormatRowCount(rows)))
	return nil
}
