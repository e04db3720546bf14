package memstore

import (
	"fmt"
	"multisig/domain"
	"sort"
	"sync"
)

var (
	ErrorDuplicateKey     = fmt.Errorf("duplicate key")
	ErrorVersionConflict  = fmt.Errorf("entity was modified concurrently")
	ErrorMissingReference = fmt.Errorf("referenced entity does not exist")
)

// Store keeps treasuries, proposals and memos in memory. Values are copied on the
// way in and out, so callers never share state with the store.
type Store struct {
	mu         sync.RWMutex
	treasuries map[string]*domain.Treasury
	proposals  map[string]*domain.Proposal
	memos      map[string]string
}

func New() *Store {
	return &Store{
		treasuries: make(map[string]*domain.Treasury),
		proposals:  make(map[string]*domain.Proposal),
		memos:      make(map[string]string),
	}
}

func (s *Store) Treasuries() *TreasuryRepository {
	return &TreasuryRepository{store: s}
}

func (s *Store) Proposals() *ProposalRepository {
	return &ProposalRepository{store: s}
}

func (s *Store) Memos() *MemoRepository {
	return &MemoRepository{store: s}
}

//-------------------------------------------------------------------

type TreasuryRepository struct {
	store *Store
}

func (repo *TreasuryRepository) Insert(treasury *domain.Treasury) error {
	s := repo.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exist := s.treasuries[treasury.ID]; exist {
		return ErrorDuplicateKey
	}
	treasury.Version = 1
	s.treasuries[treasury.ID] = treasury.Clone()
	return nil
}

func (repo *TreasuryRepository) Find(id string) (*domain.Treasury, error) {
	s := repo.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.treasuries[id].Clone(), nil
}

func (repo *TreasuryRepository) FindAll() ([]domain.Treasury, error) {
	s := repo.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.Treasury, 0, len(s.treasuries))
	for _, t := range s.treasuries {
		list = append(list, *t.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreateTime.Equal(list[j].CreateTime) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreateTime.Before(list[j].CreateTime)
	})
	return list, nil
}

func (repo *TreasuryRepository) UpdateBalances(treasury *domain.Treasury) error {
	s := repo.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTreasuryVersion(treasury); err != nil {
		return err
	}
	s.putTreasuryBalances(treasury)
	return nil
}

//-------------------------------------------------------------------

type ProposalRepository struct {
	store *Store
}

func (repo *ProposalRepository) Insert(proposal *domain.Proposal) error {
	s := repo.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exist := s.proposals[proposal.ID]; exist {
		return ErrorDuplicateKey
	}
	if _, exist := s.treasuries[proposal.TreasuryID]; !exist {
		return ErrorMissingReference
	}
	proposal.Version = 1
	s.proposals[proposal.ID] = proposal.Clone()
	return nil
}

func (repo *ProposalRepository) Find(id string) (*domain.Proposal, error) {
	s := repo.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.proposals[id].Clone(), nil
}

func (repo *ProposalRepository) FindAllByTreasury(treasuryID string) ([]domain.Proposal, error) {
	s := repo.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.Proposal, 0)
	for _, p := range s.proposals {
		if p.TreasuryID == treasuryID {
			list = append(list, *p.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreateTime.Equal(list[j].CreateTime) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreateTime.Before(list[j].CreateTime)
	})
	return list, nil
}

func (repo *ProposalRepository) UpdateSignatures(proposal *domain.Proposal) error {
	s := repo.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.checkProposalVersion(proposal)
	if err != nil {
		return err
	}
	proposal.Version++
	stored.Signatures = append([]string(nil), proposal.Signatures...)
	stored.Version = proposal.Version
	return nil
}

func (repo *ProposalRepository) SaveExecution(treasury *domain.Treasury, proposal *domain.Proposal) error {
	s := repo.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTreasuryVersion(treasury); err != nil {
		return err
	}
	if _, err := s.checkProposalVersion(proposal); err != nil {
		return err
	}

	s.putTreasuryBalances(treasury)
	proposal.Version++
	s.proposals[proposal.ID] = proposal.Clone()
	return nil
}

//-------------------------------------------------------------------

type MemoRepository struct {
	store *Store
}

func (repo *MemoRepository) Upsert(key string, memo domain.Memorable) (*domain.Memo, error) {
	s := repo.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.memos[key] = memo.ToJson()
	return &domain.Memo{Key: key, Memo: s.memos[key]}, nil
}

func (repo *MemoRepository) Find(key string) (*domain.Memo, error) {
	s := repo.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	jstr, exist := s.memos[key]
	if !exist {
		return nil, nil
	}
	return &domain.Memo{Key: key, Memo: jstr}, nil
}

//-------------------------------------------------------------------

func (s *Store) checkTreasuryVersion(treasury *domain.Treasury) error {
	stored, exist := s.treasuries[treasury.ID]
	if !exist {
		return ErrorMissingReference
	}
	if stored.Version != treasury.Version {
		return ErrorVersionConflict
	}
	return nil
}

func (s *Store) checkProposalVersion(proposal *domain.Proposal) (*domain.Proposal, error) {
	stored, exist := s.proposals[proposal.ID]
	if !exist {
		return nil, ErrorMissingReference
	}
	if stored.Version != proposal.Version {
		return nil, ErrorVersionConflict
	}
	return stored, nil
}

// putTreasuryBalances stores the balances only; name, signers and the frozen flag
// are not changed by any operation.
func (s *Store) putTreasuryBalances(treasury *domain.Treasury) {
	stored := s.treasuries[treasury.ID]
	treasury.Version++
	updated := stored.Clone()
	updated.Balances = treasury.Clone().Balances
	updated.UpdateTime = treasury.UpdateTime
	updated.Version = treasury.Version
	s.treasuries[treasury.ID] = updated
}
