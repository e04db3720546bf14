package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"multisig/domain"

	"github.com/behrang/sqlbatch"
)

const (
	sqlProposalInsert = `
	insert into proposals (
			id, treasury_id, creator, category, metadata, is_emergency, transactions, signatures, status,
			required_signer_ratio, time_lock_seconds, time_lock_ready_at, version, create_time, execute_time
		)
		values (
			$1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb, $9, $10, $11, $12, 1, $13, null
		)
`

	sqlProposalFind = `
	select
		id, treasury_id, creator, category, metadata, is_emergency, transactions, signatures, status,
		required_signer_ratio, time_lock_seconds, time_lock_ready_at, version, create_time, execute_time
	from proposals
	where id = $1
`

	sqlProposalFindAllByTreasury = `
	select
		id, treasury_id, creator, category, metadata, is_emergency, transactions, signatures, status,
		required_signer_ratio, time_lock_seconds, time_lock_ready_at, version, create_time, execute_time
	from proposals
	where treasury_id = $1
	order by create_time, id
`

	sqlProposalUpdateSignatures = `
	update proposals
		set signatures = $3::jsonb, version = version + 1
	where id = $1 and version = $2
`

	sqlProposalSetExecuted = `
	update proposals
		set status = 'EXECUTED', execute_time = $3, version = version + 1
	where id = $1 and version = $2 and status = 'PENDING'
`
)

type ProposalRepository struct {
	batchHandler BatchHandler
}

func NewProposalRepository(db BatchHandler) *ProposalRepository {
	return &ProposalRepository{batchHandler: db}
}

func scanProposal(scan func(...interface{}) error) (domain.Proposal, error) {
	r := domain.Proposal{}
	var transactionsJson, signaturesJson []byte
	err := scan(
		&r.ID, &r.TreasuryID, &r.Creator, &r.Category, &r.Metadata, &r.IsEmergency, &transactionsJson, &signaturesJson, &r.Status,
		&r.RequiredSignerRatio, &r.TimeLockSeconds, &r.TimeLockReadyAt, &r.Version, &r.CreateTime, &r.ExecuteTime,
	)
	if err != nil {
		return r, err
	}
	if err = json.Unmarshal(transactionsJson, &r.Transactions); err != nil {
		return r, err
	}
	err = json.Unmarshal(signaturesJson, &r.Signatures)
	return r, err
}

func readProposal(scan func(...interface{}) error) (interface{}, error) {
	r, err := scanProposal(scan)
	return &r, err
}

func readAllProposals(memo interface{}, scan func(...interface{}) error) (interface{}, error) {
	r, err := scanProposal(scan)
	list := memo.([]domain.Proposal)
	list = append(list, r)
	return list, err
}

func (repo *ProposalRepository) Insert(proposal *domain.Proposal) error {
	transactionsJson, _ := json.Marshal(proposal.Transactions)
	signaturesJson, _ := json.Marshal(proposal.Signatures)
	_, err := repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query: sqlProposalInsert,
			Args: []interface{}{
				proposal.ID, proposal.TreasuryID, proposal.Creator, proposal.Category, proposal.Metadata,
				proposal.IsEmergency, transactionsJson, signaturesJson, proposal.Status,
				proposal.RequiredSignerRatio, proposal.TimeLockSeconds, proposal.TimeLockReadyAt, proposal.CreateTime,
			},
			Affect: 1,
		},
	})
	if err != nil {
		return err
	}
	proposal.Version = 1
	return nil
}

func (repo *ProposalRepository) Find(id string) (*domain.Proposal, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlProposalFind,
			Args:    []interface{}{id},
			ReadOne: readProposal,
		},
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	result, _ := results[0].(*domain.Proposal)
	if result == nil || result.ID == "" {
		return nil, nil
	}
	return result, nil
}

func (repo *ProposalRepository) FindAllByTreasury(treasuryID string) ([]domain.Proposal, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlProposalFindAllByTreasury,
			Args:    []interface{}{treasuryID},
			Init:    make([]domain.Proposal, 0),
			ReadAll: readAllProposals,
		},
	})
	if err != nil {
		return nil, err
	}
	result, _ := results[0].([]domain.Proposal)
	return result, nil
}

func (repo *ProposalRepository) UpdateSignatures(proposal *domain.Proposal) error {
	signaturesJson, _ := json.Marshal(proposal.Signatures)
	_, err := repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query:  sqlProposalUpdateSignatures,
			Args:   []interface{}{proposal.ID, proposal.Version, signaturesJson},
			Affect: 1,
		},
	})
	if err != nil {
		return err
	}
	proposal.Version++
	return nil
}

// SaveExecution writes the debited balances and the executed status in one
// serializable transaction. Either both rows change or neither does.
func (repo *ProposalRepository) SaveExecution(treasury *domain.Treasury, proposal *domain.Proposal) error {
	_, err := repo.batchHandler.Batch(&BatchOptionSerializable, []sqlbatch.Command{
		updateBalancesCommand(treasury),
		{
			Query:  sqlProposalSetExecuted,
			Args:   []interface{}{proposal.ID, proposal.Version, proposal.ExecuteTime},
			Affect: 1,
		},
	})
	if err != nil {
		return err
	}
	treasury.Version++
	proposal.Version++
	return nil
}
