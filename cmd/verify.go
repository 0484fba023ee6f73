package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"martctl/internal/ui"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [table...]",
	Short: "Inspect warehouse tables",
	Long: `Show the column layout and row count of warehouse tables. With no
arguments every table in the database is listed.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	tables := args
	if len(tables) == 0 {
		tables, err = store.TableNames(ctx)
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			ui.ShowWarning("The warehouse is empty; run 'martctl load' and 'martctl run' first")
			return nil
		}
	}

	for _, name := range tables {
		info, err := store.DescribeTable(ctx, name)
		if err != nil {
			return err
		}

		fmt.Printf("\n%s (%s)\n", info.Name, ui.FormatRowCount(info.RowCount))

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"#", "Column", "Type", "Nullable", "PK"})
		table.SetBorder(false)
		table.SetAutoWrapText(false)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for i, col := range info.Columns {
			nullable := "yes"
			if col.NotNull {
				nullable = "no"
			}
			pk := ""
			if col.PrimaryKey {
				pk = "*"
			}
			table.Append([]string{
				strconv.Itoa(i + 1),
				col.Name,
				col.Type,
				nullable,
				pk,
			})
		}
		table.Render()
	}
	return nil
}
