package usecase

import (
	"fmt"
	"log"
	"multisig/domain"
	"multisig/domain/util"
	"multisig/interface/exporter"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AuthorizationSettings struct {
	Presign   string
	Precision domain.Precision
	Clock     func() time.Time
}

type AuthorizationInteractor struct {
	treasuryRepository TreasuryRepository
	proposalRepository ProposalRepository
	memoInteractor     *MemoInteractor
	policyEngine       *domain.PolicyEngine
	governor           *domain.EmergencyGovernor

	presign   string
	precision domain.Precision
	clock     func() time.Time
	locker    *entityLocker
}

// NewAuthorizationInteractor wires the service. memoInteractor may be nil, in which
// case the emergency cooldown lives only in memory.
func NewAuthorizationInteractor(treasuryRepository TreasuryRepository,
	proposalRepository ProposalRepository,
	memoInteractor *MemoInteractor,
	policyEngine *domain.PolicyEngine,
	governor *domain.EmergencyGovernor,
	settings AuthorizationSettings) *AuthorizationInteractor {

	if settings.Clock == nil {
		settings.Clock = time.Now
	}
	if settings.Presign == "" {
		settings.Presign = domain.PresignAll
	}

	interactor := &AuthorizationInteractor{
		treasuryRepository: treasuryRepository,
		proposalRepository: proposalRepository,
		memoInteractor:     memoInteractor,
		policyEngine:       policyEngine,
		governor:           governor,
		presign:            settings.Presign,
		precision:          settings.Precision,
		clock:              settings.Clock,
		locker:             newEntityLocker(),
	}
	return interactor
}

//-------------------------------------------------------------------
// Treasuries

func (interactor *AuthorizationInteractor) CreateTreasury(name string, signers []string) (*domain.Treasury, error) {
	treasury, err := domain.NewTreasury(uuid.New().String(), name, signers, interactor.clock())
	if err != nil {
		return nil, interactor.fail("creating treasury", err)
	}

	if err := interactor.treasuryRepository.Insert(treasury); err != nil {
		return nil, interactor.fail("creating treasury", err)
	}

	exporter.IncTreasuryCreatedCount()
	log.Printf("🟢 treasury created [id: %v, name: %v, signers: %v]\n", treasury.ID, treasury.Name, len(treasury.Signers))
	return treasury, nil
}

func (interactor *AuthorizationInteractor) ListTreasuries() ([]domain.Treasury, error) {
	treasuries, err := interactor.treasuryRepository.FindAll()
	if err != nil {
		return nil, interactor.fail("listing treasuries", err)
	}
	return treasuries, nil
}

func (interactor *AuthorizationInteractor) GetTreasury(treasuryID string) (*domain.Treasury, error) {
	treasury, err := interactor.loadTreasury(treasuryID)
	if err != nil {
		return nil, interactor.fail("loading treasury", err)
	}
	return treasury, nil
}

func (interactor *AuthorizationInteractor) Deposit(treasuryID string, token string, amount decimal.Decimal) (*domain.Treasury, error) {
	token = strings.TrimSpace(token)
	if err := interactor.precision.Check(token, amount); err != nil {
		return nil, interactor.fail("depositing", err)
	}

	unlock := interactor.locker.Lock(treasuryID)
	defer unlock()

	treasury, err := interactor.loadTreasury(treasuryID)
	if err != nil {
		return nil, interactor.fail("depositing", err)
	}
	if err := treasury.CheckFrozen(); err != nil {
		return nil, interactor.fail("depositing", err)
	}
	if err := treasury.Deposit(token, amount); err != nil {
		return nil, interactor.fail("depositing", err)
	}

	treasury.UpdateTime = interactor.clock()
	if err := interactor.treasuryRepository.UpdateBalances(treasury); err != nil {
		return nil, interactor.fail("depositing", err)
	}

	exporter.IncDepositCount()
	log.Printf("🟢 deposit [treasury: %v, amount: %v]\n", treasury.ID, util.AmountString(amount, token))
	return treasury, nil
}

//-------------------------------------------------------------------
// Proposals

func (interactor *AuthorizationInteractor) CreateProposal(treasuryID string, request domain.ProposalRequest) (*domain.Proposal, error) {
	unlock := interactor.locker.Lock(treasuryID)
	defer unlock()

	treasury, err := interactor.loadTreasury(treasuryID)
	if err != nil {
		return nil, interactor.fail("creating proposal", err)
	}

	creator := strings.TrimSpace(request.Creator)
	category := strings.TrimSpace(request.Category)
	metadata := strings.TrimSpace(request.Metadata)
	if creator == "" || category == "" || metadata == "" {
		return nil, interactor.fail("creating proposal",
			domain.NewError(domain.KindValidation, "creator, category and metadata are required"))
	}

	if !treasury.IsSigner(creator) {
		return nil, interactor.fail("creating proposal",
			domain.NewError(domain.KindUnauthorizedSigner, "creator %q is not an authorized signer", creator))
	}

	if err := treasury.CheckFrozen(); err != nil {
		return nil, interactor.fail("creating proposal", err)
	}

	transactions, err := domain.ValidateTransactions(request.Transactions, interactor.precision)
	if err != nil {
		return nil, interactor.fail("creating proposal", err)
	}

	now := interactor.clock()
	policy, err := interactor.policyEngine.Derive(category, transactions, now)
	if err != nil {
		return nil, interactor.fail("creating proposal", err)
	}

	proposal := &domain.Proposal{
		ID:                  uuid.New().String(),
		TreasuryID:          treasury.ID,
		Creator:             creator,
		Category:            category,
		Metadata:            request.Metadata,
		IsEmergency:         request.IsEmergency,
		Transactions:        transactions,
		Signatures:          domain.InitialSignatures(interactor.presign, treasury, creator),
		Status:              domain.ProposalStatusPending,
		RequiredSignerRatio: policy.RequiredSignerRatio,
		TimeLockSeconds:     int64(policy.TimeLock / time.Second),
		TimeLockReadyAt:     policy.TimeLockReadyAt,
		CreateTime:          now,
	}

	if err := interactor.proposalRepository.Insert(proposal); err != nil {
		return nil, interactor.fail("creating proposal", err)
	}

	exporter.IncProposalCreatedCount()
	log.Printf("🟢 proposal created [id: %v, treasury: %v, ratio: %v, %v]\n",
		proposal.ID, treasury.ID, proposal.RequiredSignerRatio,
		util.SignaturesString(len(proposal.Signatures), proposal.RequiredSignatures(len(treasury.Signers))))
	return proposal, nil
}

func (interactor *AuthorizationInteractor) ListProposals(treasuryID string) ([]domain.Proposal, error) {
	proposals, err := interactor.proposalRepository.FindAllByTreasury(treasuryID)
	if err != nil {
		return nil, interactor.fail("listing proposals", err)
	}
	return proposals, nil
}

func (interactor *AuthorizationInteractor) GetProposal(proposalID string) (*domain.Proposal, error) {
	proposal, err := interactor.loadProposal(proposalID)
	if err != nil {
		return nil, interactor.fail("loading proposal", err)
	}
	return proposal, nil
}

func (interactor *AuthorizationInteractor) SignProposal(proposalID string, signer string) (*domain.Proposal, error) {
	signer = strings.TrimSpace(signer)

	proposal, treasury, unlock, err := interactor.lockProposal(proposalID)
	if err != nil {
		return nil, interactor.fail("signing proposal", err)
	}
	defer unlock()

	if !treasury.IsSigner(signer) {
		return nil, interactor.fail("signing proposal",
			domain.NewError(domain.KindUnauthorizedSigner, "signer %q is not authorized", signer))
	}

	if proposal.HasSigned(signer) {
		return proposal, nil
	}
	if err := proposal.AddSignature(treasury, signer); err != nil {
		return nil, interactor.fail("signing proposal", err)
	}
	if err := interactor.proposalRepository.UpdateSignatures(proposal); err != nil {
		return nil, interactor.fail("signing proposal", err)
	}

	exporter.IncSignatureCount()
	log.Printf("🔵 proposal signed [id: %v, signer: %v, %v]\n", proposal.ID, signer,
		util.SignaturesString(len(proposal.Signatures), proposal.RequiredSignatures(len(treasury.Signers))))
	return proposal, nil
}

func (interactor *AuthorizationInteractor) ExecuteProposal(proposalID string) (*domain.Proposal, *domain.Treasury, error) {
	return interactor.ExecuteProposalAt(proposalID, interactor.clock())
}

// ExecuteProposalAt debits every transaction of the proposal from its treasury once
// quorum and time-lock allow it. Emergency proposals are also subject to the
// governor's cooldown. Nothing is persisted unless every step succeeds.
func (interactor *AuthorizationInteractor) ExecuteProposalAt(proposalID string, now time.Time) (*domain.Proposal, *domain.Treasury, error) {
	proposal, treasury, unlock, err := interactor.lockProposal(proposalID)
	if err != nil {
		return nil, nil, interactor.fail("executing proposal", err)
	}
	defer unlock()

	if proposal.IsExecuted() {
		return nil, nil, interactor.fail("executing proposal",
			domain.NewError(domain.KindAlreadyExecuted, "proposal %v already executed", proposal.ID))
	}
	if err := treasury.CheckFrozen(); err != nil {
		return nil, nil, interactor.fail("executing proposal", err)
	}
	if err := proposal.CheckExecutable(treasury, now); err != nil {
		return nil, nil, interactor.fail("executing proposal", err)
	}

	execute := func() error {
		if err := treasury.DebitAll(proposal.Transactions); err != nil {
			return err
		}
		if err := proposal.MarkExecuted(now); err != nil {
			return err
		}
		treasury.UpdateTime = now
		return interactor.proposalRepository.SaveExecution(treasury, proposal)
	}

	if proposal.IsEmergency {
		err = interactor.governor.Guard(now, execute)
	} else {
		err = execute()
	}
	if err != nil {
		return nil, nil, interactor.fail("executing proposal", err)
	}

	if proposal.IsEmergency && interactor.memoInteractor != nil {
		if err := interactor.memoInteractor.SetEmergencyLastExecution(now); err != nil {
			exporter.IncErrorCount()
			log.Printf("🔴 storing emergency cooldown - %v\n", err.Error())
		}
	}

	exporter.IncExecutionCount()
	log.Printf("🟢 proposal executed [id: %v, treasury: %v, transactions: %v, emergency: %v]\n",
		proposal.ID, treasury.ID, len(proposal.Transactions), proposal.IsEmergency)
	return proposal, treasury, nil
}

//-------------------------------------------------------------------
// Helpers

func (interactor *AuthorizationInteractor) loadTreasury(treasuryID string) (*domain.Treasury, error) {
	treasury, err := interactor.treasuryRepository.Find(treasuryID)
	if err != nil {
		return nil, err
	}
	if treasury == nil {
		return nil, domain.NewError(domain.KindNotFound, "treasury %v not found", treasuryID)
	}
	return treasury, nil
}

func (interactor *AuthorizationInteractor) loadProposal(proposalID string) (*domain.Proposal, error) {
	proposal, err := interactor.proposalRepository.Find(proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, domain.NewError(domain.KindNotFound, "proposal %v not found", proposalID)
	}
	return proposal, nil
}

// lockProposal locks the owning treasury and loads fresh copies of the proposal
// and treasury under that lock.
func (interactor *AuthorizationInteractor) lockProposal(proposalID string) (*domain.Proposal, *domain.Treasury, func(), error) {
	proposal, err := interactor.loadProposal(proposalID)
	if err != nil {
		return nil, nil, nil, err
	}

	unlock := interactor.locker.Lock(proposal.TreasuryID)

	proposal, err = interactor.loadProposal(proposalID)
	if err != nil {
		unlock()
		return nil, nil, nil, err
	}
	treasury, err := interactor.loadTreasury(proposal.TreasuryID)
	if err != nil {
		unlock()
		return nil, nil, nil, err
	}
	return proposal, treasury, unlock, nil
}

// fail logs and counts err. Domain errors are returned as they are; anything else
// is wrapped with the operation name.
func (interactor *AuthorizationInteractor) fail(operation string, err error) error {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		exporter.IncErrorCount()
		log.Printf("🔴 %v - %v\n", operation, err.Error())
		return fmt.Errorf("%v: %w", operation, err)
	}

	exporter.IncRejectionCount(string(kind))
	log.Printf("🟡 %v rejected [%v] - %v\n", operation, kind, err.Error())
	return err
}
