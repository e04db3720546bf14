package dbhandler

import (
	"context"
	"errors"
	"log"

	"database/sql"

	"github.com/behrang/sqlbatch"
	"github.com/lib/pq"
)

const (
	// serialization_failure, raised by concurrent serializable transactions
	sqlStateSerializationFailure = "40001"

	DefaultMaxAttempts = 5
)

// DBHandler contains a connection to database.
type DBHandler struct {
	DB          *sql.DB
	MaxAttempts int
}

// Batch creates a transaction and executes the batch of commands in that transaction.
// If a retryable error is received, the batch is retried up to MaxAttempts times.
func (handler DBHandler) Batch(opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error) {
	maxAttempts := handler.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var results []interface{}
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		results, err = handler.tryBatch(opts, commands)
		if !IsRetryable(err) || attempt == maxAttempts {
			break
		}
		log.Printf("🟡 Retryable Postgres error, retrying [attempt %v/%v]: %v", attempt, maxAttempts, err)
	}
	if len(results) != len(commands) {
		results = make([]interface{}, len(commands))
	}
	return results, err
}

func (handler DBHandler) tryBatch(opts *sql.TxOptions, commands []sqlbatch.Command) (results []interface{}, err error) {

	results = make([]interface{}, len(commands))

	tx, err := handler.DB.BeginTx(context.Background(), opts)
	if err != nil {
		return
	}
	defer tx.Rollback()

	results, err = sqlbatch.Batch(tx, commands)

	if err == nil {
		err = tx.Commit()
	}

	return
}

func IsRetryable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == sqlStateSerializationFailure
}
