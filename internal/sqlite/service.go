package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"martctl/pkg/errors"
)

// Service provides access to the single-file warehouse database. The
// pipeline is strictly single-writer, so the pool is capped at one
// connection for the lifetime of a run.
type Service struct {
	db        *sql.DB
	config    Config
	connected bool
}

// Config holds warehouse connection configuration
type Config struct {
	Path        string
	BusyTimeout int // milliseconds
}

// NewService creates a new warehouse service
func NewService(config Config) *Service {
	return &Service{
		config: config,
	}
}

// Connect opens the warehouse file and applies the session pragmas
func (s *Service) Connect() error {
	if s.connected {
		return nil
	}

	db, err := sql.Open("sqlite", s.config.Path)
	if err != nil {
		return errors.ConnectionError("Failed to open warehouse", err).
			WithContext("path", s.config.Path)
	}

	// Exclusive single-connection access for the duration of the run
	db.SetMaxOpenConns(1)

	busyTimeout := s.config.BusyTimeout
	if busyTimeout == 0 {
		busyTimeout = 10000
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return errors.ConnectionError("Failed to set pragma", err).
				WithContext("pragma", pragma)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return errors.ConnectionError("Failed to open warehouse", err).
			WithContext("path", s.config.Path).
			AsRecoverable()
	}

	s.db = db
	s.connected = true
	return nil
}

// Close closes the database connection
func (s *Service) Close() error {
	if !s.connected {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close warehouse: %w", err)
	}

	s.connected = false
	return nil
}

// Connected reports whether the warehouse is open
func (s *Service) Connected() bool {
	return s.connected
}

// DB returns the underlying database handle
func (s *Service) DB() *sql.DB {
	return s.db
}

// WithTx runs fn inside a single all-or-nothing transaction. Any error
// from fn rolls back everything; nothing is left partially committed.
func (s *Service) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	if !s.connected {
		return errors.New(errors.ErrCodeConnectionFailed, "Not connected to warehouse").
			WithSuggestions("Call Connect() before running pipeline steps")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSQLTransaction, "Failed to begin transaction")
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return errors.Wrap(rbErr, errors.ErrCodeSQLTransaction, "Rollback failed").
				WithContext("original_error", err.Error())
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeSQLTransaction, "Failed to commit transaction")
	}

	return nil
}

// ExecuteScript executes a multi-statement SQL script inside one
// transaction, used by the bulk loader for dump files.
func (s *Service) ExecuteScript(ctx context.Context, script string) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		statements := SplitStatements(script)

		for i, stmt := range statements {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}

			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return errors.SQLError(
					fmt.Sprintf("Failed to execute statement %d", i+1),
					stmt,
					err,
				).WithContext("statement_index", i+1).
					WithContext("total_statements", len(statements))
			}
		}

		return nil
	})
}

// TableNames returns the user tables in the warehouse
func (s *Service) TableNames(ctx context.Context) ([]string, error) {
	if !s.connected {
		return nil, errors.New(errors.ErrCodeConnectionFailed, "Not connected to warehouse")
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, errors.SQLError("Failed to list tables", "sqlite_master", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}

	return tables, rows.Err()
}

// TableInfo describes one warehouse table for verification output
type TableInfo struct {
	Name     string
	Columns  []ColumnInfo
	RowCount int64
}

// ColumnInfo is one row of PRAGMA table_info
type ColumnInfo struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

// DescribeTable returns the column names and row count of a table
func (s *Service) DescribeTable(ctx context.Context, table string) (*TableInfo, error) {
	if !s.connected {
		return nil, errors.New(errors.ErrCodeConnectionFailed, "Not connected to warehouse")
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return nil, errors.SQLError("Failed to describe table", table, err)
	}
	defer rows.Close()

	info := &TableInfo{Name: table}
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		info.Columns = append(info.Columns, ColumnInfo{
			Name:       name,
			Type:       colType,
			NotNull:    notNull != 0,
			PrimaryKey: pk != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %q`, table)).Scan(&info.RowCount); err != nil {
		return nil, errors.SQLError("Failed to count rows", table, err)
	}

	return info, nil
}

// SplitStatements splits a SQL script on statement-terminating
// semicolons, ignoring semicolons inside quoted strings. Dump files
// carry multi-line VALUES blocks, so a line-based split is not enough.
func SplitStatements(script string) []string {
	var statements []string
	var current strings.Builder
	inString := false
	stringChar := rune(0)

	for i, char := range script {
		if !inString {
			if char == '\'' || char == '"' {
				inString = true
				stringChar = char
			} else if char == ';' {
				statements = append(statements, current.String())
				current.Reset()
				continue
			}
		} else {
			// A doubled quote closes and immediately reopens the string,
			// which is equivalent to the SQL escape. Backslash escapes
			// from MySQL-flavored dumps are skipped explicitly.
			if char == stringChar && (i == 0 || script[i-1] != '\\') {
				inString = false
			}
		}
		current.WriteRune(char)
	}

	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}

	return statements
}

// ValidateConfig validates the warehouse configuration
func ValidateConfig(config Config) error {
	if config.Path == "" {
		return fmt.Errorf("warehouse path is required")
	}
	if config.BusyTimeout < 0 {
		return fmt.Errorf("busy_timeout must not be negative")
	}
	return nil
}
