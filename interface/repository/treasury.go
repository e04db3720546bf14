package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"multisig/domain"

	"github.com/behrang/sqlbatch"
)

const (
	sqlTreasuryInsert = `
	insert into treasuries (
			id, name, signers, balances, is_frozen, version, create_time, update_time
		)
		values (
			$1, $2, $3::jsonb, $4::jsonb, $5, 1, $6, $7
		)
`

	sqlTreasuryFind = `
	select
		id, name, signers, balances, is_frozen, version, create_time, update_time
	from treasuries
	where id = $1
`

	sqlTreasuryFindAll = `
	select
		id, name, signers, balances, is_frozen, version, create_time, update_time
	from treasuries
	order by create_time, id
`

	sqlTreasuryUpdateBalances = `
	update treasuries
		set balances = $3::jsonb, update_time = $4, version = version + 1
	where id = $1 and version = $2
`
)

type TreasuryRepository struct {
	batchHandler BatchHandler
}

func NewTreasuryRepository(db BatchHandler) *TreasuryRepository {
	return &TreasuryRepository{batchHandler: db}
}

func scanTreasury(scan func(...interface{}) error) (domain.Treasury, error) {
	r := domain.Treasury{}
	var signersJson, balancesJson []byte
	err := scan(
		&r.ID, &r.Name, &signersJson, &balancesJson, &r.IsFrozen, &r.Version, &r.CreateTime, &r.UpdateTime,
	)
	if err != nil {
		return r, err
	}
	if err = json.Unmarshal(signersJson, &r.Signers); err != nil {
		return r, err
	}
	err = json.Unmarshal(balancesJson, &r.Balances)
	return r, err
}

func readTreasury(scan func(...interface{}) error) (interface{}, error) {
	r, err := scanTreasury(scan)
	return &r, err
}

func readAllTreasuries(memo interface{}, scan func(...interface{}) error) (interface{}, error) {
	r, err := scanTreasury(scan)
	list := memo.([]domain.Treasury)
	list = append(list, r)
	return list, err
}

func (repo *TreasuryRepository) Insert(treasury *domain.Treasury) error {
	signersJson, _ := json.Marshal(treasury.Signers)
	balancesJson, _ := json.Marshal(treasury.Balances)
	_, err := repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query: sqlTreasuryInsert,
			Args: []interface{}{
				treasury.ID, treasury.Name, signersJson, balancesJson, treasury.IsFrozen,
				treasury.CreateTime, treasury.UpdateTime,
			},
			Affect: 1,
		},
	})
	if err != nil {
		return err
	}
	treasury.Version = 1
	return nil
}

func (repo *TreasuryRepository) Find(id string) (*domain.Treasury, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlTreasuryFind,
			Args:    []interface{}{id},
			ReadOne: readTreasury,
		},
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	result, _ := results[0].(*domain.Treasury)
	if result == nil || result.ID == "" {
		return nil, nil
	}
	return result, nil
}

func (repo *TreasuryRepository) FindAll() ([]domain.Treasury, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlTreasuryFindAll,
			Args:    []interface{}{},
			Init:    make([]domain.Treasury, 0),
			ReadAll: readAllTreasuries,
		},
	})
	if err != nil {
		return nil, err
	}
	result, _ := results[0].([]domain.Treasury)
	return result, nil
}

// UpdateBalances fails when another writer bumped the version in between.
func (repo *TreasuryRepository) UpdateBalances(treasury *domain.Treasury) error {
	_, err := repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		updateBalancesCommand(treasury),
	})
	if err != nil {
		return err
	}
	treasury.Version++
	return nil
}

func updateBalancesCommand(treasury *domain.Treasury) sqlbatch.Command {
	balancesJson, _ := json.Marshal(treasury.Balances)
	return sqlbatch.Command{
		Query: sqlTreasuryUpdateBalances,
		Args: []interface{}{
			treasury.ID, treasury.Version, balancesJson, treasury.UpdateTime,
		},
		Affect: 1,
	}
}
