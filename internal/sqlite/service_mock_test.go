package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martctl/pkg/errors"
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewService(Config{Path: "mock.db"})
	s.db = db
	s.connected = true
	return s, mock
}

func TestWithTxBeginFailure(t *testing.T) {
	s, mock := newMockService(t)

	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	err := s.WithTx(context.Background(), func(tx *sql.Tx) error { return nil })
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSQLTransaction, errors.GetErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxCommitFailure(t *testing.T) {
	s, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(sql.ErrTxDone)

	err := s.WithTx(context.Background(), func(tx *sql.Tx) error { return nil })
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSQLTransaction, errors.GetErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollbackOnCallbackError(t *testing.T) {
	s, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New(errors.ErrCodeTransform, "transform failed")
	err := s.WithTx(context.Background(), func(tx *sql.Tx) error { return wantErr })
	require.ErrorIs(t, err, wantErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
