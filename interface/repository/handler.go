package repository

import (
	"database/sql"
	_ "embed"

	"github.com/behrang/sqlbatch"
)

//go:embed schema.sql
var Schema string

var (
	BatchOptionNormal = sql.TxOptions{
		ReadOnly:  false,
		Isolation: sql.LevelReadCommitted,
	}

	BatchOptionNormalReadOnly = sql.TxOptions{
		ReadOnly:  true,
		Isolation: sql.LevelReadCommitted,
	}

	BatchOptionSerializable = sql.TxOptions{
		ReadOnly:  false,
		Isolation: sql.LevelSerializable,
	}
)

// BatchHandler is a database handler that executes a batch of SQL commands.
type BatchHandler interface {
	Batch(opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error)
}

// Migrate creates the tables when they do not exist yet.
func Migrate(db BatchHandler) error {
	_, err := db.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query: Schema,
		},
	})
	return err
}
