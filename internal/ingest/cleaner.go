package ingest

import (
	"os"
	"regexp"
	"strings"

	"martctl/internal/common"
	"martctl/pkg/errors"
)

// MySQL-flavored statements and comments that the storage engine
// rejects or misparses. SET AUTOCOMMIT is the critical one: left in
// place it fails the whole file.
var (
	autocommitPattern = regexp.MustCompile(`(?im)^SET AUTOCOMMIT=0;$`)
	commentPattern    = regexp.MustCompile(`(?m)^\s*--.*$`)
	commitPattern     = regexp.MustCompile(`(?im)^\s*COMMIT;$`)
)

// CleanScript strips non-portable statements from dump content and
// collapses the leftover blank lines.
func CleanScript(content string) string {
	content = autocommitPattern.ReplaceAllString(content, "")
	content = commentPattern.ReplaceAllString(content, "")
	content = commitPattern.ReplaceAllString(content, "")

	var kept []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// CleanFiles rewrites every .sql file in dir in place with its cleaned
// content, returning the files touched.
func CleanFiles(dir string) ([]string, error) {
	files, err := DataFiles(dir)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeFileNotFound, "No .sql files found to clean").
			WithContext("dir", dir)
	}

	for _, path := range files {
		// Rewrites are destructive, so make sure the glob result did
		// not escape the data directory via a symlinked entry.
		path, err := common.ValidatePath(path, dir)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "Refusing to rewrite file outside data directory")
		}

		raw, err := os.ReadFile(path) // #nosec G304 - listed from operator-supplied dir
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to read data file").
				WithContext("path", path)
		}

		cleaned := CleanScript(string(raw))
		if err := os.WriteFile(path, []byte(cleaned), 0600); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to write cleaned file").
				WithContext("path", path)
		}
	}

	return files, nil
}
