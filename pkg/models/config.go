package models

type Config struct {
	Warehouse Warehouse `yaml:"warehouse"`
	Ingestion Ingestion `yaml:"ingestion"`
	DateDim   DateDim   `yaml:"date_dimension"`
	Reports   Reports   `yaml:"reports"`
}

// Warehouse holds the single-file database settings
type Warehouse struct {
	Path        string `yaml:"path"`         // filesystem path of the SQLite warehouse file
	BusyTimeout int    `yaml:"busy_timeout"` // milliseconds, 0 uses the driver default
}

// Ingestion describes where the raw SQL dump files live
type Ingestion struct {
	SchemaFile string `yaml:"schema_file"` // DDL for the raw tables
	DumpFile   string `yaml:"dump_file"`   // combined multi-table INSERT dump
	DataDir    string `yaml:"data_dir"`    // per-table insert files produced by the splitter
}

// DateDim bounds the calendar generated into dim_date
type DateDim struct {
	Start string `yaml:"start"` // inclusive, YYYY-MM-DD
	End   string `yaml:"end"`   // inclusive, YYYY-MM-DD
}

// Reports contains report export settings
type Reports struct {
	OutputDir string `yaml:"output_dir"` // where CSV exports are written
	Limit     int    `yaml:"limit"`      // default row limit for table output, 0 = unlimited
}

// Defaults returns a config populated with the standard pipeline settings.
// The 2012-2015 horizon matches the raw event data shipped with the store
// dump.
func Defaults() *Config {
	return &Config{
		Warehouse: Warehouse{
			Path:        "maven_factory.db",
			BusyTimeout: 10000,
		},
		DateDim: DateDim{
			Start: "2012-01-01",
			End:   "2015-12-31",
		},
		Reports: Reports{
			OutputDir: "reports",
			Limit:     50,
		},
	}
}
