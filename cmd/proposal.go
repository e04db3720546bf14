package cmd

import (
	"fmt"
	"multisig/domain"
	"multisig/domain/util"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	proposalCreator      string
	proposalCategory     string
	proposalMetadata     string
	proposalEmergency    bool
	proposalTransactions []string
	proposalSigner       string
)

var proposalCmd = &cobra.Command{
	Use:   "proposal",
	Short: "Manages transfer proposals",
}

var proposalCreateCmd = &cobra.Command{
	Use:   "create <treasury-id>",
	Short: "Proposes a batch of transfers",
	Long: `Proposes a batch of transfers. Each --tx flag is written as to:token:amount[:note],
for example --tx X:USDC:500:payroll`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		transactions := make([]domain.Transaction, 0, len(proposalTransactions))
		for _, s := range proposalTransactions {
			tx, err := parseTransaction(s)
			if err != nil {
				fmt.Printf("❌ %v\n", err.Error())
				return
			}
			transactions = append(transactions, tx)
		}

		defaultDependencyInject()

		proposal, err := authorizationInteractor.CreateProposal(args[0], domain.ProposalRequest{
			Creator:      proposalCreator,
			Category:     proposalCategory,
			Metadata:     proposalMetadata,
			IsEmergency:  proposalEmergency,
			Transactions: transactions,
		})
		if err != nil {
			fmt.Printf("❌ Proposal is not created: %v\n", err.Error())
			return
		}
		printOutProposals([]domain.Proposal{*proposal})
	},
}

var proposalListCmd = &cobra.Command{
	Use:   "list <treasury-id>",
	Short: "Lists the proposals of a treasury",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()

		proposals, err := authorizationInteractor.ListProposals(args[0])
		if err != nil {
			fmt.Printf("❌ Proposals are not loaded: %v\n", err.Error())
			return
		}
		printOutProposals(proposals)
	},
}

var proposalSignCmd = &cobra.Command{
	Use:   "sign <proposal-id>",
	Short: "Approves a proposal as one of the treasury signers",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()

		proposal, err := authorizationInteractor.SignProposal(args[0], proposalSigner)
		if err != nil {
			fmt.Printf("❌ Proposal is not signed: %v\n", err.Error())
			return
		}
		printOutProposals([]domain.Proposal{*proposal})
	},
}

var proposalExecuteCmd = &cobra.Command{
	Use:   "execute <proposal-id>",
	Short: "Executes an approved proposal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()

		proposal, treasury, err := authorizationInteractor.ExecuteProposal(args[0])
		if err != nil {
			fmt.Printf("❌ Proposal is not executed: %v\n", err.Error())
			return
		}
		printOutProposals([]domain.Proposal{*proposal})
		printOutTreasuries([]domain.Treasury{*treasury})
	},
}

// parseTransaction reads the to:token:amount[:note] form used by --tx.
func parseTransaction(s string) (domain.Transaction, error) {
	parts := strings.SplitN(s, ":", 4)
	if len(parts) < 3 {
		return domain.Transaction{}, fmt.Errorf("transaction %q must be written as to:token:amount[:note]", s)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %q has an invalid amount", s)
	}
	tx := domain.Transaction{
		To:     strings.TrimSpace(parts[0]),
		Token:  strings.TrimSpace(parts[1]),
		Amount: amount,
	}
	if len(parts) == 4 {
		tx.Note = parts[3]
	}
	return tx, nil
}

func printOutProposals(proposals []domain.Proposal) {
	fmt.Printf("------------- PROPOSAL LIST -----------------\n")
	for i, p := range proposals {
		fmt.Printf("#%03d - %v [%v] %v / %v\n", i+1, p.ID, p.Status, p.Category, p.Metadata)
		fmt.Printf("       ratio: %v, signatures: %v, ready at: %v\n",
			p.RequiredSignerRatio, p.Signatures, p.TimeLockReadyAt.Local().Format(time.RFC1123))
		for j, tx := range p.Transactions {
			fmt.Printf("       tx %v: %v -> %v %v\n", j+1, util.AmountString(tx.Amount, tx.Token), tx.To, tx.Note)
		}
	}
}

func init() {
	rootCmd.AddCommand(proposalCmd)
	proposalCmd.AddCommand(proposalCreateCmd, proposalListCmd, proposalSignCmd, proposalExecuteCmd)

	proposalCreateCmd.Flags().StringVar(&proposalCreator, "creator", "", "signer creating the proposal")
	proposalCreateCmd.Flags().StringVar(&proposalCategory, "category", "", "Operations, Marketing, Development or Emergency")
	proposalCreateCmd.Flags().StringVar(&proposalMetadata, "metadata", "", "description of the proposal")
	proposalCreateCmd.Flags().BoolVar(&proposalEmergency, "emergency", false, "skip the time-lock, subject to the emergency cooldown")
	proposalCreateCmd.Flags().StringArrayVar(&proposalTransactions, "tx", nil, "transfer as to:token:amount[:note] (repeatable)")

	proposalSignCmd.Flags().StringVar(&proposalSigner, "signer", "", "signer identifier")
}
