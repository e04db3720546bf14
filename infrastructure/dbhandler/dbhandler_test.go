package dbhandler

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/behrang/sqlbatch"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serializationFailure = &pq.Error{Code: sqlStateSerializationFailure, Message: "could not serialize access"}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(serializationFailure))
	assert.True(t, IsRetryable(fmt.Errorf("executing: %w", serializationFailure)))
	assert.False(t, IsRetryable(&pq.Error{Code: "23505"}))
	assert.False(t, IsRetryable(errors.New("40001")))
	assert.False(t, IsRetryable(nil))
}

func TestBatchRetriesSerializationFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(serializationFailure)
	mock.ExpectBegin().WillReturnError(serializationFailure)
	mock.ExpectBegin()
	mock.ExpectCommit()

	handler := DBHandler{DB: db, MaxAttempts: 3}
	results, err := handler.Batch(&sql.TxOptions{}, []sqlbatch.Command{})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchGivesUpAfterMaxAttempts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for i := 0; i < 2; i++ {
		mock.ExpectBegin().WillReturnError(serializationFailure)
	}

	handler := DBHandler{DB: db, MaxAttempts: 2}
	commands := []sqlbatch.Command{{Query: "select 1"}, {Query: "select 2"}}
	results, err := handler.Batch(&sql.TxOptions{}, commands)
	assert.True(t, IsRetryable(err))
	assert.Len(t, results, len(commands))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchDoesNotRetryOtherErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	failure := &pq.Error{Code: "23505", Message: "duplicate key value"}
	mock.ExpectBegin().WillReturnError(failure)

	handler := DBHandler{DB: db}
	_, err = handler.Batch(&sql.TxOptions{}, []sqlbatch.Command{{Query: "select 1"}})
	assert.Equal(t, failure, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
