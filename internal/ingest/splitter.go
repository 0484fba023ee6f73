// Package ingest prepares and bulk-loads the raw SQL dump files that
// feed the warehouse: splitting a combined dump into per-table files,
// cleaning out statements the storage engine does not accept, and
// executing the result file by file.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"martctl/pkg/errors"
)

// insertPattern matches the head of an INSERT block and captures the
// target table. Dumps batch consecutive INSERTs per table, so the text
// between two heads belongs to the first one.
var insertPattern = regexp.MustCompile("(?i)INSERT\\s+INTO\\s+`?(\\w+)`?")

// SplitResult reports what the splitter produced
type SplitResult struct {
	Tables map[string]string // table name -> output file
}

// SplitDump splits a raw multi-table INSERT dump into one file per
// table, named <table>_insert_data.sql under outputDir.
func SplitDump(dumpPath, outputDir string) (*SplitResult, error) {
	raw, err := os.ReadFile(dumpPath) // #nosec G304 - operator-supplied path
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFileNotFound, "Failed to read dump file").
			WithContext("path", dumpPath)
	}

	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to create output directory").
			WithContext("path", outputDir)
	}

	content := string(raw)
	matches := insertPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil, errors.New(errors.ErrCodeDumpMalformed, "No INSERT statements found in dump").
			WithContext("path", dumpPath)
	}

	blocks := make(map[string][]string)
	var tableOrder []string

	for i, match := range matches {
		start := match[0]
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		table := content[match[2]:match[3]]
		if _, seen := blocks[table]; !seen {
			tableOrder = append(tableOrder, table)
		}
		blocks[table] = append(blocks[table], strings.TrimSpace(content[start:end]))
	}

	result := &SplitResult{Tables: make(map[string]string, len(blocks))}
	for _, table := range tableOrder {
		outPath := filepath.Join(outputDir, fmt.Sprintf("%s_insert_data.sql", table))
		data := strings.Join(blocks[table], "\n\n") + "\n"

		if err := os.WriteFile(outPath, []byte(data), 0600); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to write data file").
				WithContext("table", table).
				WithContext("path", outPath)
		}
		result.Tables[table] = outPath
	}

	return result, nil
}

// DataFiles returns the per-table .sql files in dir in sorted order
func DataFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to list data files").
			WithContext("dir", dir)
	}
	sort.Strings(files)
	return files, nil
}
