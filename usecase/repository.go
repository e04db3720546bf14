package usecase

import "multisig/domain"

// Find methods return (nil, nil) when the entity does not exist.
// Update methods compare the entity's Version with the stored one, fail on a
// mismatch, and bump Version on success.

type TreasuryRepository interface {
	Insert(treasury *domain.Treasury) error
	Find(id string) (*domain.Treasury, error)
	FindAll() ([]domain.Treasury, error)
	UpdateBalances(treasury *domain.Treasury) error
}

type ProposalRepository interface {
	Insert(proposal *domain.Proposal) error
	Find(id string) (*domain.Proposal, error)
	FindAllByTreasury(treasuryID string) ([]domain.Proposal, error)
	UpdateSignatures(proposal *domain.Proposal) error

	// SaveExecution commits the debited balances and the executed status together.
	SaveExecution(treasury *domain.Treasury, proposal *domain.Proposal) error
}

type MemoRepository interface {
	Upsert(key string, memo domain.Memorable) (*domain.Memo, error)
	Find(key string) (*domain.Memo, error)
}
