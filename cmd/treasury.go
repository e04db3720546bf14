package cmd

import (
	"fmt"
	"multisig/domain"
	"multisig/domain/util"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	treasuryName    string
	treasurySigners []string
	depositToken    string
	depositAmount   string
)

var treasuryCmd = &cobra.Command{
	Use:   "treasury",
	Short: "Manages treasuries",
}

var treasuryCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a treasury with a fixed signer set",
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()

		treasury, err := authorizationInteractor.CreateTreasury(treasuryName, treasurySigners)
		if err != nil {
			fmt.Printf("❌ Treasury is not created: %v\n", err.Error())
			return
		}
		printOutTreasuries([]domain.Treasury{*treasury})
	},
}

var treasuryListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists all treasuries",
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()

		treasuries, err := authorizationInteractor.ListTreasuries()
		if err != nil {
			fmt.Printf("❌ Treasuries are not loaded: %v\n", err.Error())
			return
		}
		printOutTreasuries(treasuries)
	},
}

var treasuryDepositCmd = &cobra.Command{
	Use:   "deposit <treasury-id>",
	Short: "Deposits tokens into a treasury",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		amount, err := decimal.NewFromString(depositAmount)
		if err != nil {
			fmt.Printf("❌ Invalid amount %q\n", depositAmount)
			return
		}

		defaultDependencyInject()

		treasury, err := authorizationInteractor.Deposit(args[0], depositToken, amount)
		if err != nil {
			fmt.Printf("❌ Deposit failed: %v\n", err.Error())
			return
		}
		printOutTreasuries([]domain.Treasury{*treasury})
	},
}

func printOutTreasuries(treasuries []domain.Treasury) {
	fmt.Printf("------------- TREASURY LIST -----------------\n")
	for i, treasury := range treasuries {
		fmt.Printf("#%03d - %v (%v)\n", i+1, treasury.Name, treasury.ID)
		fmt.Printf("       signers:  %v\n", treasury.Signers)
		fmt.Printf("       balances: %v\n", util.BalancesString(treasury.Balances))
	}
}

func init() {
	rootCmd.AddCommand(treasuryCmd)
	treasuryCmd.AddCommand(treasuryCreateCmd, treasuryListCmd, treasuryDepositCmd)

	treasuryCreateCmd.Flags().StringVar(&treasuryName, "name", "", "treasury name")
	treasuryCreateCmd.Flags().StringSliceVar(&treasurySigners, "signer", nil, "signer identifier (repeatable)")

	treasuryDepositCmd.Flags().StringVar(&depositToken, "token", "", "token symbol")
	treasuryDepositCmd.Flags().StringVar(&depositAmount, "amount", "", "amount to deposit")
}
