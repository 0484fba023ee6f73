package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"martctl/internal/report"
	"martctl/internal/ui"
)

var (
	reportOutput string
	reportLimit  int
)

var reportCmd = &cobra.Command{
	Use:   "report [name]",
	Short: "Run a named report over the analytical views",
	Long: `Run one of the built-in reports and print the result as a table, or
export it to CSV with --output. Run without arguments to list the available
reports.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Write the result to a CSV file instead of printing")
	reportCmd.Flags().IntVarP(&reportLimit, "limit", "n", 0, "Maximum rows to print (0 uses the configured default)")
}

func runReport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		listReports()
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := report.NewService(store)
	result, err := svc.Run(context.Background(), args[0])
	if err != nil {
		return err
	}

	if reportOutput != "" {
		path := reportOutput
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, report.TimestampedFilename(result.Report.Name))
		}
		if err := report.ExportCSV(result, path); err != nil {
			return err
		}
		ui.ShowSuccess(fmt.Sprintf("Wrote %d rows to %s", len(result.Rows), path))
		return nil
	}

	limit := reportLimit
	if limit == 0 {
		limit = cfg.Reports.Limit
	}

	color.New(color.Bold).Printf("%s - %s\n\n", result.Report.Name, result.Report.Description)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(result.Columns)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	shown := len(result.Rows)
	if limit > 0 && shown > limit {
		shown = limit
	}
	for _, row := range result.Rows[:shown] {
		table.Append(row)
	}
	table.Render()

	if shown < len(result.Rows) {
		fmt.Printf("\nShowing %d of %d rows (use --limit to change)\n", shown, len(result.Rows))
	} else {
		fmt.Printf("\n%d rows\n", len(result.Rows))
	}
	return nil
}

func listReports() {
	color.New(color.Bold).Println("Available reports:")
	for _, name := range report.Names() {
		r, err := report.Get(name)
		if err != nil {
			continue
		}
		fmt.Printf("  %-15s %s\n", color.CyanString(name), r.Description)
	}
	fmt.Println("\nUsage: martctl report <name> [--output file.csv]")
}
