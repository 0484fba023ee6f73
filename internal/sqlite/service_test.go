package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martctl/pkg/errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := NewService(Config{Path: filepath.Join(t.TempDir(), "warehouse.db")})
	require.NoError(t, s.Connect())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestConnectAndClose(t *testing.T) {
	s := NewService(Config{Path: filepath.Join(t.TempDir(), "warehouse.db")})

	require.NoError(t, s.Connect())
	assert.True(t, s.Connected())

	// Connect is idempotent
	require.NoError(t, s.Connect())

	require.NoError(t, s.Close())
	assert.False(t, s.Connected())

	// Close on a closed service is a no-op
	require.NoError(t, s.Close())
}

func TestWithTxCommit(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY)"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "INSERT INTO t (id) VALUES (1), (2)")
		return err
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM t").Scan(&count))
	assert.Equal(t, int64(2), count)
}

func TestWithTxRollsBackEverything(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.DB().Exec("CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	err = s.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO t (id) VALUES (1)"); err != nil {
			return err
		}
		return fmt.Errorf("mid-transaction failure")
	})
	require.Error(t, err)

	// The insert before the failure must not survive
	var count int64
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM t").Scan(&count))
	assert.Equal(t, int64(0), count)
}

func TestWithTxNotConnected(t *testing.T) {
	s := NewService(Config{Path: "unused.db"})

	err := s.WithTx(context.Background(), func(tx *sql.Tx) error { return nil })
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConnectionFailed, errors.GetErrorCode(err))
}

func TestExecuteScript(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	script := `
CREATE TABLE orders (order_id INTEGER PRIMARY KEY, note TEXT);
INSERT INTO orders VALUES (1, 'first; with semicolon');
INSERT INTO orders VALUES (2, 'second');
`
	require.NoError(t, s.ExecuteScript(ctx, script))

	var note string
	require.NoError(t, s.DB().QueryRow("SELECT note FROM orders WHERE order_id = 1").Scan(&note))
	assert.Equal(t, "first; with semicolon", note)
}

func TestExecuteScriptFailureRollsBack(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	script := `
CREATE TABLE orders (order_id INTEGER PRIMARY KEY);
INSERT INTO orders VALUES (1);
INSERT INTO missing_table VALUES (2);
`
	err := s.ExecuteScript(ctx, script)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTableNotFound, errors.GetErrorCode(err))

	// Whole script rolled back, including the CREATE TABLE
	tables, err := s.TableNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestDescribeTable(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.DB().Exec(`CREATE TABLE dim_date (
		date_key TEXT PRIMARY KEY,
		year INTEGER,
		month INTEGER
	)`)
	require.NoError(t, err)
	_, err = s.DB().Exec(`INSERT INTO dim_date VALUES ('2012-01-01', 2012, 1)`)
	require.NoError(t, err)

	info, err := s.DescribeTable(ctx, "dim_date")
	require.NoError(t, err)
	require.Len(t, info.Columns, 3)
	assert.Equal(t, "date_key", info.Columns[0].Name)
	assert.True(t, info.Columns[0].PrimaryKey)
	assert.Equal(t, "INTEGER", info.Columns[1].Type)
	assert.False(t, info.Columns[1].NotNull)
	assert.Equal(t, "month", info.Columns[2].Name)
	assert.Equal(t, int64(1), info.RowCount)
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   int
	}{
		{
			name:   "simple statements",
			script: "SELECT 1; SELECT 2; SELECT 3;",
			want:   3,
		},
		{
			name:   "semicolon in string literal",
			script: "INSERT INTO t VALUES ('a;b'); SELECT 1;",
			want:   2,
		},
		{
			name:   "trailing statement without semicolon",
			script: "SELECT 1; SELECT 2",
			want:   2,
		},
		{
			name:   "multi-line values block",
			script: "INSERT INTO t VALUES\n(1, 'x'),\n(2, 'y;z');",
			want:   1,
		},
		{
			name:   "empty script",
			script: "",
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitStatements(tt.script)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig(Config{Path: "w.db"}))
	assert.Error(t, ValidateConfig(Config{}))
	assert.Error(t, ValidateConfig(Config{Path: "w.db", BusyTimeout: -1}))
}
