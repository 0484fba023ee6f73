package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"martctl/internal/ingest"
	"martctl/internal/ui"
	"martctl/pkg/errors"
)

var loadYes bool

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the raw event tables from SQL dump files",
}

var loadSplitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split the combined insert dump into per-table files",
	Long: `Split the combined multi-table INSERT dump into one file per table under
the configured data directory. Consecutive blocks for the same table are merged
into a single file.`,
	RunE: runLoadSplit,
}

var loadCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Strip MySQL-isms from the per-table insert files",
	Long: `Rewrite the per-table insert files in place, removing autocommit
toggles, comment lines and COMMIT statements that SQLite does not accept.`,
	RunE: runLoadClean,
}

var loadRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the schema DDL and the per-table insert files",
	Long: `Create the raw tables from the schema DDL, then execute every insert
file in the data directory in filename order. Each file runs in its own
transaction; loading stops at the first failing file.`,
	RunE: runLoadRun,
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.AddCommand(loadSplitCmd)
	loadCmd.AddCommand(loadCleanCmd)
	loadCmd.AddCommand(loadRunCmd)

	loadRunCmd.Flags().BoolVarP(&loadYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runLoadSplit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Ingestion.DumpFile == "" || cfg.Ingestion.DataDir == "" {
		return errors.ConfigError("ingestion paths are not configured; run 'martctl setup' first", "ingestion")
	}

	result, err := ingest.SplitDump(cfg.Ingestion.DumpFile, cfg.Ingestion.DataDir)
	if err != nil {
		return err
	}

	tables := make([]string, 0, len(result.Tables))
	for table := range result.Tables {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		ui.ShowInfo(fmt.Sprintf("%s -> %s", table, result.Tables[table]))
	}
	ui.ShowSuccess(fmt.Sprintf("Split dump into %d table files", len(result.Tables)))
	return nil
}

func runLoadClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Ingestion.DataDir == "" {
		return errors.ConfigError("ingestion paths are not configured; run 'martctl setup' first", "ingestion")
	}

	cleaned, err := ingest.CleanFiles(cfg.Ingestion.DataDir)
	if err != nil {
		return err
	}

	ui.ShowSuccess(fmt.Sprintf("Cleaned %d insert files", len(cleaned)))
	return nil
}

func runLoadRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Ingestion.SchemaFile == "" || cfg.Ingestion.DataDir == "" {
		return errors.ConfigError("ingestion paths are not configured; run 'martctl setup' first", "ingestion")
	}

	if !loadYes {
		var confirm bool
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Load raw tables into %s?", cfg.Warehouse.Path),
			Default: true,
		}
		if err := survey.AskOne(prompt, &confirm); err != nil || !confirm {
			ui.ShowWarning("Load cancelled")
			return nil
		}
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	spinner := ui.NewSpinner("Loading raw tables...")
	spinner.Start()

	loader := ingest.NewLoader(store)
	report, err := loader.Run(context.Background(), cfg.Ingestion.SchemaFile, cfg.Ingestion.DataDir)
	if err != nil {
		spinner.Stop(false, "Load failed")
		if report != nil && report.FailedFile != "" {
			ui.ShowWarning(fmt.Sprintf("Stopped at %s; %d files loaded before the failure",
				report.FailedFile, len(report.FilesLoaded)))
		}
		return err
	}

	spinner.Stop(true, "Load complete")
	if !report.SchemaLoaded {
		ui.ShowWarning("Schema DDL was skipped (tables already exist)")
	}
	ui.ShowSuccess(fmt.Sprintf("Loaded %d insert files", len(report.FilesLoaded)))
	return nil
}
