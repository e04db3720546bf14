package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Treasury struct {
	ID         string                     `json:"_id"`
	Name       string                     `json:"name"`
	Signers    []string                   `json:"signers"`
	Balances   map[string]decimal.Decimal `json:"balances"`
	IsFrozen   bool                       `json:"isFrozen"`
	Version    int64                      `json:"version"`
	CreateTime time.Time                  `json:"createdAt"`
	UpdateTime time.Time                  `json:"updatedAt"`
}

// NewTreasury validates the signer set and returns a treasury with empty balances.
func NewTreasury(id string, name string, signers []string, now time.Time) (*Treasury, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewError(KindValidation, "treasury name is required")
	}
	if len(signers) == 0 {
		return nil, NewError(KindValidation, "at least one signer is required")
	}

	seen := make(map[string]bool, len(signers))
	cleaned := make([]string, 0, len(signers))
	for _, s := range signers {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, NewError(KindValidation, "signer identifiers must not be blank")
		}
		if seen[s] {
			return nil, NewError(KindValidation, "duplicate signer %q", s)
		}
		seen[s] = true
		cleaned = append(cleaned, s)
	}

	return &Treasury{
		ID:         id,
		Name:       name,
		Signers:    cleaned,
		Balances:   make(map[string]decimal.Decimal),
		CreateTime: now,
		UpdateTime: now,
	}, nil
}

func (t *Treasury) IsSigner(id string) bool {
	for _, s := range t.Signers {
		if s == id {
			return true
		}
	}
	return false
}

func (t *Treasury) Balance(token string) decimal.Decimal {
	return t.Balances[token]
}

// CheckFrozen is the gate point for the isFrozen flag. The flag is stored but
// does not block any operation yet.
func (t *Treasury) CheckFrozen() error {
	return nil
}

func (t *Treasury) Deposit(token string, amount decimal.Decimal) error {
	if strings.TrimSpace(token) == "" {
		return NewError(KindValidation, "token is required")
	}
	if !amount.IsPositive() {
		return NewError(KindValidation, "deposit amount must be a positive number")
	}
	if t.Balances == nil {
		t.Balances = make(map[string]decimal.Decimal)
	}
	t.Balances[token] = t.Balances[token].Add(amount)
	return nil
}

func (t *Treasury) Debit(token string, amount decimal.Decimal) error {
	balance := t.Balances[token]
	if balance.LessThan(amount) {
		return NewError(KindInsufficientFunds, "insufficient funds: %v %v available, %v requested", balance, token, amount)
	}
	if t.Balances == nil {
		t.Balances = make(map[string]decimal.Decimal)
	}
	t.Balances[token] = balance.Sub(amount)
	return nil
}

// DebitAll applies every transaction or none of them. Entries are checked in order
// against a working copy, and the balances are swapped in only when all are funded.
func (t *Treasury) DebitAll(transactions []Transaction) error {
	working := &Treasury{Balances: copyBalances(t.Balances)}
	for _, tx := range transactions {
		if err := working.Debit(tx.Token, tx.Amount); err != nil {
			return err
		}
	}
	t.Balances = working.Balances
	return nil
}

func (t *Treasury) Clone() *Treasury {
	if t == nil {
		return nil
	}
	c := *t
	c.Signers = append([]string(nil), t.Signers...)
	c.Balances = copyBalances(t.Balances)
	return &c
}

func copyBalances(src map[string]decimal.Decimal) map[string]decimal.Decimal {
	dst := make(map[string]decimal.Decimal, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
