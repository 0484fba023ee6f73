package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"martctl/internal/config"
	"martctl/internal/sqlite"
	"martctl/internal/ui"
	"martctl/pkg/models"
)

var rootCmd = &cobra.Command{
	Use:   "martctl",
	Short: "Build and query the analytics warehouse",
	Long: "martctl - A CLI tool for building a SQLite analytics warehouse from raw\n" +
		"e-commerce event dumps: load the raw tables, rebuild the dimensional layer,\n" +
		"classify traffic channels and query the analytical views.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("db", "", "Path to the warehouse database file (overrides config)")
	viper.BindPFlag("warehouse.path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home + "/.martctl")
	}

	// MARTCTL_WAREHOUSE_PATH etc. override file values
	viper.SetEnvPrefix("MARTCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is okay for now
	}
}

// loadConfig loads the saved configuration, falling back to defaults,
// then layers viper's sources on top: config file, MARTCTL_* env vars
// and the --db flag, in increasing precedence.
func loadConfig() (*models.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if path := viper.GetString("warehouse.path"); path != "" {
		cfg.Warehouse.Path = path
	}
	if timeout := viper.GetInt("warehouse.busy_timeout"); timeout > 0 {
		cfg.Warehouse.BusyTimeout = timeout
	}
	if limit := viper.GetInt("reports.limit"); limit > 0 {
		cfg.Reports.Limit = limit
	}
	return cfg, nil
}

// openStore connects to the warehouse file described by the config.
// Callers are responsible for closing the returned service.
func openStore(cfg *models.Config) (*sqlite.Service, error) {
	store := sqlite.NewService(sqlite.Config{
		Path:        cfg.Warehouse.Path,
		BusyTimeout: cfg.Warehouse.BusyTimeout,
	})
	if err := store.Connect(); err != nil {
		return nil, err
	}
	return store, nil
}
