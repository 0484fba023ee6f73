package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"martctl/internal/config"
	"martctl/pkg/models"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initial configuration setup",
	Run:   runSetup,
}

func runSetup(cmd *cobra.Command, args []string) {
	fmt.Println("🚀 Setting up martctl...")
	fmt.Println()

	// Check if config already exists
	if config.Exists() {
		var overwrite bool
		prompt := &survey.Confirm{
			Message: "Configuration already exists. Do you want to overwrite it?",
			Default: false,
		}
		survey.AskOne(prompt, &overwrite)
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return
		}
	}

	cfg := models.Defaults()

	fmt.Println("🗄  Warehouse Configuration")
	fmt.Println("-------------------------")

	warehouseQs := []*survey.Question{
		{
			Name: "path",
			Prompt: &survey.Input{
				Message: "Warehouse database file:",
				Default: cfg.Warehouse.Path,
			},
			Validate: survey.Required,
		},
		{
			Name: "busytimeout",
			Prompt: &survey.Input{
				Message: "Busy timeout (ms):",
				Default: strconv.Itoa(cfg.Warehouse.BusyTimeout),
			},
			Validate: validateInt,
		},
	}

	warehouseAnswers := struct {
		Path        string
		BusyTimeout string `survey:"busytimeout"`
	}{}
	if err := survey.Ask(warehouseQs, &warehouseAnswers); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	cfg.Warehouse.Path = warehouseAnswers.Path
	cfg.Warehouse.BusyTimeout, _ = strconv.Atoi(warehouseAnswers.BusyTimeout)

	fmt.Println()
	fmt.Println("📅 Date Dimension")
	fmt.Println("-------------------------")

	dateQs := []*survey.Question{
		{
			Name: "start",
			Prompt: &survey.Input{
				Message: "Calendar start (YYYY-MM-DD):",
				Default: cfg.DateDim.Start,
			},
			Validate: validateDate,
		},
		{
			Name: "end",
			Prompt: &survey.Input{
				Message: "Calendar end (YYYY-MM-DD):",
				Default: cfg.DateDim.End,
			},
			Validate: validateDate,
		},
	}
	if err := survey.Ask(dateQs, &cfg.DateDim); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Ask if the user wants to configure ingestion paths now
	fmt.Println()
	fmt.Println("📦 Ingestion Sources")
	fmt.Println("-------------------------")

	var addIngestion bool
	prompt := &survey.Confirm{
		Message: "Do you want to configure the raw dump locations now?",
		Default: true,
	}
	survey.AskOne(prompt, &addIngestion)

	if addIngestion {
		ingestionQs := []*survey.Question{
			{
				Name: "schemafile",
				Prompt: &survey.Input{
					Message: "Schema DDL file:",
					Default: "create_mavenfuzzyfactory.sql",
				},
				Validate: survey.Required,
			},
			{
				Name: "dumpfile",
				Prompt: &survey.Input{
					Message: "Combined insert dump file:",
					Default: "mavenfuzzyfactory_inserts.sql",
				},
				Validate: survey.Required,
			},
			{
				Name: "datadir",
				Prompt: &survey.Input{
					Message: "Directory for per-table insert files:",
					Default: "data",
				},
				Validate: survey.Required,
			},
		}

		answers := struct {
			SchemaFile string `survey:"schemafile"`
			DumpFile   string `survey:"dumpfile"`
			DataDir    string `survey:"datadir"`
		}{}
		if err := survey.Ask(ingestionQs, &answers); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Ingestion = models.Ingestion{
			SchemaFile: answers.SchemaFile,
			DumpFile:   answers.DumpFile,
			DataDir:    answers.DataDir,
		}
	}

	if err := config.Save(cfg); err != nil {
		fmt.Printf("Error saving configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("✅ Configuration saved to %s\n", config.GetConfigFile())
	fmt.Println("Run 'martctl run' to build the warehouse.")
}

func validateInt(val interface{}) error {
	str, ok := val.(string)
	if !ok {
		return fmt.Errorf("expected a string value")
	}
	if _, err := strconv.Atoi(str); err != nil {
		return fmt.Errorf("must be a whole number")
	}
	return nil
}

func validateDate(val interface{}) error {
	str, ok := val.(string)
	if !ok {
		return fmt.Errorf("expected a string value")
	}
	if _, err := time.Parse("2006-01-02", str); err != nil {
		return fmt.Errorf("must be a date in YYYY-MM-DD form")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
