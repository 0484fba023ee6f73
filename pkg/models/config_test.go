package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "maven_factory.db", cfg.Warehouse.Path)
	assert.Equal(t, 10000, cfg.Warehouse.BusyTimeout)
	assert.Equal(t, "2012-01-01", cfg.DateDim.Start)
	assert.Equal(t, "2015-12-31", cfg.DateDim.End)
}

func TestConfigYAML(t *testing.T) {
	input := `
warehouse:
  path: /data/warehouse.db
  busy_timeout: 5000
ingestion:
  schema_file: sql/mavenfactory_schema.sql
  dump_file: sql/rd_mavenfuzzyfactory.sql
  data_dir: sql/output_insert_data_files
date_dimension:
  start: "2012-01-01"
  end: "2016-12-31"
reports:
  output_dir: out
  limit: 100
`

	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(input), &cfg))

	assert.Equal(t, "/data/warehouse.db", cfg.Warehouse.Path)
	assert.Equal(t, 5000, cfg.Warehouse.BusyTimeout)
	assert.Equal(t, "sql/output_insert_data_files", cfg.Ingestion.DataDir)
	assert.Equal(t, "2016-12-31", cfg.DateDim.End)
	assert.Equal(t, 100, cfg.Reports.Limit)
}
