package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProposalStatusPending  = "PENDING"
	ProposalStatusExecuted = "EXECUTED"
)

type Transaction struct {
	To     string          `json:"to"`
	Token  string          `json:"token"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

type Proposal struct {
	ID                  string          `json:"_id"`
	TreasuryID          string          `json:"treasuryId"`
	Creator             string          `json:"creator"`
	Category            string          `json:"category"`
	Metadata            string          `json:"metadata"`
	IsEmergency         bool            `json:"isEmergency"`
	Transactions        []Transaction   `json:"transactions"`
	Signatures          []string        `json:"signatures"`
	Status              string          `json:"status"`
	RequiredSignerRatio decimal.Decimal `json:"requiredSignerRatio"`
	TimeLockSeconds     int64           `json:"timeLockSeconds"`
	TimeLockReadyAt     time.Time       `json:"timeLockReadyAt"`
	Version             int64           `json:"version"`
	CreateTime          time.Time       `json:"createdAt"`
	ExecuteTime         *time.Time      `json:"executedAt,omitempty"`
}

// ValidateTransactions checks the shape of a transaction batch and returns a
// cleaned copy with trimmed addresses.
func ValidateTransactions(transactions []Transaction, precision Precision) ([]Transaction, error) {
	if len(transactions) == 0 {
		return nil, NewError(KindValidation, "at least one transaction is required")
	}

	cleaned := make([]Transaction, 0, len(transactions))
	for i, tx := range transactions {
		tx.To = strings.TrimSpace(tx.To)
		tx.Token = strings.TrimSpace(tx.Token)
		if tx.To == "" || tx.Token == "" {
			return nil, NewError(KindValidation, "transaction #%d needs to, token and amount", i+1)
		}
		if !tx.Amount.IsPositive() {
			return nil, NewError(KindValidation, "transaction #%d amount must be a positive number", i+1)
		}
		if err := precision.Check(tx.Token, tx.Amount); err != nil {
			return nil, err
		}
		cleaned = append(cleaned, tx)
	}
	return cleaned, nil
}

// Total sums the amounts of all transactions regardless of token.
func Total(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Amount)
	}
	return total
}

func (p *Proposal) HasSigned(signer string) bool {
	for _, s := range p.Signatures {
		if s == signer {
			return true
		}
	}
	return false
}

// AddSignature records the signer's approval. Signing twice is a no-op.
func (p *Proposal) AddSignature(treasury *Treasury, signer string) error {
	if !treasury.IsSigner(signer) {
		return NewError(KindUnauthorizedSigner, "signer %q is not authorized for treasury %v", signer, treasury.ID)
	}
	if p.HasSigned(signer) {
		return nil
	}
	p.Signatures = append(p.Signatures, signer)
	return nil
}

// RequiredSignatures converts the ratio to a count, always rounding up.
func (p *Proposal) RequiredSignatures(signerCount int) int {
	return int(decimal.NewFromInt(int64(signerCount)).Mul(p.RequiredSignerRatio).Ceil().IntPart())
}

func (p *Proposal) QuorumMet(treasury *Treasury) bool {
	return p.RequiredSignatures(len(treasury.Signers)) <= len(p.Signatures)
}

func (p *Proposal) TimeLockSatisfied(now time.Time) bool {
	return p.IsEmergency || !now.Before(p.TimeLockReadyAt)
}

func (p *Proposal) IsExecuted() bool {
	return p.Status == ProposalStatusExecuted
}

func (p *Proposal) CanExecute(treasury *Treasury, now time.Time) bool {
	return p.Status == ProposalStatusPending && p.QuorumMet(treasury) && p.TimeLockSatisfied(now)
}

// CheckExecutable reports why the proposal cannot run yet, or nil.
func (p *Proposal) CheckExecutable(treasury *Treasury, now time.Time) error {
	if p.IsExecuted() {
		return NewError(KindAlreadyExecuted, "proposal %v already executed", p.ID)
	}
	if !p.QuorumMet(treasury) {
		return NewError(KindQuorumNotMet, "proposal %v has %d of %d required signatures",
			p.ID, len(p.Signatures), p.RequiredSignatures(len(treasury.Signers)))
	}
	if !p.TimeLockSatisfied(now) {
		return NewError(KindTimeLocked, "proposal %v is time-locked until %v",
			p.ID, p.TimeLockReadyAt.UTC().Format(time.RFC3339))
	}
	return nil
}

func (p *Proposal) MarkExecuted(now time.Time) error {
	if p.IsExecuted() {
		return NewError(KindAlreadyExecuted, "proposal %v already executed", p.ID)
	}
	p.Status = ProposalStatusExecuted
	p.ExecuteTime = &now
	return nil
}

func (p *Proposal) Clone() *Proposal {
	if p == nil {
		return nil
	}
	c := *p
	c.Transactions = append([]Transaction(nil), p.Transactions...)
	c.Signatures = append([]string(nil), p.Signatures...)
	if p.ExecuteTime != nil {
		t := *p.ExecuteTime
		c.ExecuteTime = &t
	}
	return &c
}
