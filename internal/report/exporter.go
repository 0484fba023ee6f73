package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"martctl/pkg/errors"
)

// ExportCSV writes a report result to path as CSV with a header row.
// Parent directories are created as needed.
func ExportCSV(result *Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create output directory")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create output file").
			WithContext("path", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(result.Columns); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write CSV header")
	}
	for _, row := range result.Rows {
		if err := w.Write(row); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to write CSV row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to flush CSV output")
	}
	return nil
}

// TimestampedFilename builds a filename like daily_summary_20120320_100000.csv
func TimestampedFilename(name string) string {
	return fmt.Sprintf("%s_%s.csv", name, time.Now().Format("20060102_150405"))
}
