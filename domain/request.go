package domain

import "github.com/shopspring/decimal"

const (
	PresignAll     = "all"
	PresignCreator = "creator"
	PresignNone    = "none"
)

type TreasuryRequest struct {
	Name    string   `json:"name"`
	Signers []string `json:"signers"`
}

type DepositRequest struct {
	Token  string          `json:"token"`
	Amount decimal.Decimal `json:"amount"`
}

type ProposalRequest struct {
	Creator      string        `json:"creator"`
	Category     string        `json:"category"`
	Metadata     string        `json:"metadata"`
	IsEmergency  bool          `json:"isEmergency"`
	Transactions []Transaction `json:"transactions"`
}

type SignRequest struct {
	Signer string `json:"signer"`
}

// InitialSignatures returns the signatures recorded when a proposal is created.
func InitialSignatures(mode string, treasury *Treasury, creator string) []string {
	switch mode {
	case PresignCreator:
		return []string{creator}
	case PresignNone:
		return []string{}
	default:
		return append([]string(nil), treasury.Signers...)
	}
}
