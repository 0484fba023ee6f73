package report

import (
	"context"
	"database/sql"

	"martctl/internal/sqlite"
	"martctl/pkg/errors"
)

// Service executes named reports against the warehouse
type Service struct {
	store *sqlite.Service
}

// NewService creates a report service over an open warehouse connection
func NewService(store *sqlite.Service) *Service {
	return &Service{store: store}
}

// Result holds the rows of an executed report
type Result struct {
	Report  Report
	Columns []string
	Rows    [][]string
}

// Run executes the named report and collects all rows as strings.
// Column order follows the query's SELECT list.
func (s *Service) Run(ctx context.Context, name string) (*Result, error) {
	if !s.store.Connected() {
		return nil, errors.New(errors.ErrCodeConnectionFailed, "not connected to warehouse")
	}

	rep, err := Get(name)
	if err != nil {
		return nil, errors.ValidationError("report", name, err.Error())
	}

	rows, err := s.store.DB().QueryContext(ctx, rep.Query)
	if err != nil {
		return nil, errors.SQLError("failed to run report", rep.Query, err).
			WithContext("report", rep.Name)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.SQLError("failed to read report columns", rep.Query, err)
	}

	result := &Result{Report: rep, Columns: cols}
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.SQLError("failed to scan report row", rep.Query, err)
		}
		row := make([]string, len(cols))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.SQLError("failed while reading report rows", rep.Query, err)
	}

	return result, nil
}
